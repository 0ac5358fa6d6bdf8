// Package model defines the reconstructed record types written to the
// destination store and the FieldMap view of a submission.
package model

// Submission is one customer's regrouped set of form answers, correlated by
// the export's grouping key. It becomes exactly one Order.
type Submission struct {
	Key    string   `json:"key"`
	Fields FieldMap `json:"fields"`
}

// Order is one row of public.orders. SourceOrderID carries the storefront
// order number when the submission key is purely numeric, otherwise nil.
type Order struct {
	ID            int64   `json:"id"`
	UserID        int64   `json:"user_id"`
	SourceOrderID *int64  `json:"woocommerce_order_id"`
	Company       *string `json:"company"`
	Currency      string  `json:"currency"`
	DiscountTotal int64   `json:"discount_total"`
	TransactionID *string `json:"transaction_id"`
	CreatedAt     string  `json:"created_at"`
	IsDeleted     bool    `json:"is_deleted"`
	DeletedAt     *string `json:"deleted_at"`
}

// OrderItem is one row of public.order_items. Every order carries exactly one
// item; the importer never splits an order across lines. The agreement
// reference is set iff an operating agreement was derived for the same
// submission.
type OrderItem struct {
	ID                   int64   `json:"id"`
	OrderID              int64   `json:"orders_id"`
	UserID               int64   `json:"user_id"`
	ServiceID            int64   `json:"service_id"`
	SourceProductID      *int64  `json:"woocommerce_product_id"`
	ProductID            int64   `json:"product_id"`
	OrderSource          string  `json:"order_source"`
	SKU                  string  `json:"sku"`
	ProductName          string  `json:"product_name"`
	Quantity             int64   `json:"quantity"`
	Subtotal             int64   `json:"subtotal"`
	Total                int64   `json:"total"`
	CreatedAt            string  `json:"created_at"`
	IsDeleted            bool    `json:"is_deleted"`
	DeletedAt            *string `json:"deleted_at"`
	TaxFilingID          *int64  `json:"tax_filing_id"`
	InvoicePlanID        *int64  `json:"invoice_plan_id"`
	OperatingAgreementID *int64  `json:"operating_agreement_id"`
	SmartBookkeepingID   *int64  `json:"smart_bookkeeping_id"`
	IsCouponApplied      bool    `json:"is_coupon_applied"`
	CouponCodeID         *int64  `json:"coupon_code_id"`
	CouponAmount         *int64  `json:"coupon_amount"`
	IsExpediteAddon      bool    `json:"is_expedite_addon"`
}

// Incorporation is one row of public.incorporations — the canonical landing
// place for the submission's decomposed personal and business fields.
// OrderItemID maps to the order_id column, which references order_items.
// The genrating_revenue column name reproduces the destination schema as-is.
type Incorporation struct {
	ID                  int64   `json:"id"`
	UserID              int64   `json:"user_id"`
	OrderItemID         int64   `json:"order_id"`
	FirstName           string  `json:"first_name"`
	MiddleName          string  `json:"middle_name"`
	LastName            string  `json:"last_name"`
	Email               string  `json:"email"`
	PhoneNumber         string  `json:"phone_number"`
	Address             string  `json:"address"`
	CountryID           int64   `json:"country"`
	State               string  `json:"state"`
	City                string  `json:"city"`
	CountryCode         *string `json:"country_code"`
	ZipCode             string  `json:"zip_code"`
	CompanyMembers      string  `json:"company_members"`
	CompanyTypeID       int64   `json:"company_type"`
	PreferredName1      string  `json:"preferred_name_1"`
	PreferredName2      string  `json:"preferred_name_2"`
	PreferredName3      string  `json:"preferred_name_3"`
	IndustryTypeID      int64   `json:"industry_type"`
	BusinessDescription string  `json:"business_description"`
	GeneratingRevenue   bool    `json:"genrating_revenue"`
	AnnualRevenue       *string `json:"annual_revenue"`
	EmployeesCount      string  `json:"employees_count"`
	IsUSCompany         bool    `json:"is_us_company"`
	WebsiteName         string  `json:"website_name"`
	ScanPassport        string  `json:"scan_passport"`
	ExtractedData       string  `json:"extracted_data"`
	CreatedAt           string  `json:"created_at"`
	LastUpdatedAt       string  `json:"last_updated_at"`
	DeletedAt           *string `json:"deleted_at"`
	IsDeleted           bool    `json:"is_deleted"`
	Status              int64   `json:"status"`
	LLCDocumentFile     *string `json:"llc_document_file"`
	EINFormFile         *string `json:"ein_form_file"`
	SS4ExtractedData    *string `json:"ss4_extracted_data"`
	SignedEINForm       *string `json:"signed_ein_form"`
	LLCExtractedData    *string `json:"llc_extracted_data"`
}

// ITINApplication is one row of public.itin_applications, created only when
// the submission's free text indicates a tax-ID need.
type ITINApplication struct {
	ID                     int64   `json:"id"`
	UserID                 int64   `json:"user_id"`
	OrderItemID            int64   `json:"order_id"`
	HasUSCompany           bool    `json:"has_us_company"`
	BusinessIncorporation  *string `json:"business_incorporation"`
	EINDocument            *string `json:"ein_document"`
	ScanPassport           string  `json:"scan_passport"`
	W7Form                 *string `json:"w7_form"`
	Form2848               *string `json:"form_2848"`
	CreatedAt              string  `json:"created_at"`
	LastUpdatedAt          string  `json:"last_updated_at"`
	DeletedAt              *string `json:"deleted_at"`
	IsDeleted              bool    `json:"is_deleted"`
	Status                 int64   `json:"status"`
	ExtractedData          string  `json:"extracted_data"`
	W7FormExtractedData    *string `json:"w7_form_extracted_data"`
	Form2848ExtractedData  *string `json:"form_2848_extracted_data"`
	W7SignedForm           *string `json:"w7_signed_form"`
	Form2848SignedForm     *string `json:"form_2848_signed_form"`
	Step                   int64   `json:"itin_applications_step"`
	IRSSubmissionTimestamp *string `json:"irs_submission_timestamp"`
}

// OperatingAgreement is one row of public.operating_agreements, created only
// for LLC-type companies. It back-references its order item while the order
// item holds the forward reference; both are set at creation and never
// mutated.
type OperatingAgreement struct {
	ID                     int64   `json:"id"`
	UserID                 int64   `json:"user_id"`
	IsSubscribed           bool    `json:"is_subscribed"`
	PaymentStatus          string  `json:"payment_status"`
	GeneratedAgreementFile *string `json:"generated_agreement_file"`
	CompanyType            string  `json:"company_type"`
	Step                   int64   `json:"operating_agreement_step"`
	Passport               string  `json:"passport"`
	CreatedAt              string  `json:"created_at"`
	UpdatedAt              string  `json:"updated_at"`
	DeletedAt              *string `json:"deleted_at"`
	IsDeleted              bool    `json:"is_deleted"`
	OrderItemID            int64   `json:"order_item_id"`
	Status                 string  `json:"status"`
}

// RecordSet holds the five reconstructed collections for one run, in
// submission-processing order.
type RecordSet struct {
	Orders              []Order              `json:"orders"`
	OrderItems          []OrderItem          `json:"order_items"`
	Incorporations      []Incorporation      `json:"incorporations"`
	ITINApplications    []ITINApplication    `json:"itin_applications"`
	OperatingAgreements []OperatingAgreement `json:"operating_agreements"`
}

// Counts returns per-table record counts keyed by destination table name.
func (rs *RecordSet) Counts() map[string]int {
	return map[string]int{
		"orders":               len(rs.Orders),
		"order_items":          len(rs.OrderItems),
		"incorporations":       len(rs.Incorporations),
		"itin_applications":    len(rs.ITINApplications),
		"operating_agreements": len(rs.OperatingAgreements),
	}
}

// Empty reports whether the run produced no records at all.
func (rs *RecordSet) Empty() bool {
	return len(rs.Orders) == 0
}
