package sqlgen

import (
	"fmt"
	"strings"

	"github.com/formsource/orderload/internal/model"
)

// Destination tables in render order. Parents render before children so the
// script loads cleanly under foreign-key enforcement.
const (
	tableOrders              = "public.orders"
	tableOrderItems          = "public.order_items"
	tableIncorporations      = "public.incorporations"
	tableITINApplications    = "public.itin_applications"
	tableOperatingAgreements = "public.operating_agreements"
)

var (
	orderColumns = []string{
		"id", "user_id", "woocommerce_order_id", "company", "currency",
		"discount_total", "transaction_id", "created_at", "is_deleted", "deleted_at",
	}
	orderItemColumns = []string{
		"id", "orders_id", "user_id", "service_id", "woocommerce_product_id",
		"product_id", "order_source", "sku", "product_name", "quantity",
		"subtotal", "total", "created_at", "is_deleted", "deleted_at",
		"tax_filing_id", "invoice_plan_id", "operating_agreement_id",
		"smart_bookkeeping_id", "is_coupon_applied", "coupon_code_id",
		"coupon_amount", "is_expedite_addon",
	}
	incorporationColumns = []string{
		"id", "user_id", "order_id", "first_name", "middle_name", "last_name",
		"email", "phone_number", "address", "country", "state", "city",
		"country_code", "zip_code", "company_members", "company_type",
		"preferred_name_1", "preferred_name_2", "preferred_name_3",
		"industry_type", "business_description", "genrating_revenue",
		"annual_revenue", "employees_count", "is_us_company", "website_name",
		"scan_passport", "extracted_data", "created_at", "last_updated_at",
		"deleted_at", "is_deleted", "status", "llc_document_file",
		"ein_form_file", "ss4_extracted_data", "signed_ein_form",
		"llc_extracted_data",
	}
	itinApplicationColumns = []string{
		"id", "user_id", "order_id", "has_us_company", "business_incorporation",
		"ein_document", "scan_passport", "w7_form", "form_2848", "created_at",
		"last_updated_at", "deleted_at", "is_deleted", "status",
		"extracted_data", "w7_form_extracted_data", "form_2848_extracted_data",
		"w7_signed_form", "form_2848_signed_form", "itin_applications_step",
		"irs_submission_timestamp",
	}
	operatingAgreementColumns = []string{
		"id", "user_id", "is_subscribed", "payment_status",
		"generated_agreement_file", "company_type", "operating_agreement_step",
		"passport", "created_at", "updated_at", "deleted_at", "is_deleted",
		"order_item_id", "status",
	}
)

// Render produces the full import script. Output is byte-for-byte
// deterministic for identical input and configuration: the header timestamp
// is the configured run timestamp, never the wall clock.
func Render(rs *model.RecordSet, timestamp string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "-- PostgreSQL data import script\n")
	fmt.Fprintf(&b, "-- Generated: %s\n", timestamp)
	fmt.Fprintf(&b, "-- Total: %d orders, %d order items, %d incorporations, %d itin applications, %d operating agreements\n",
		len(rs.Orders), len(rs.OrderItems), len(rs.Incorporations),
		len(rs.ITINApplications), len(rs.OperatingAgreements))

	if len(rs.Orders) > 0 {
		section(&b, "ORDERS")
		for _, o := range rs.Orders {
			insert(&b, tableOrders, orderColumns,
				o.ID, o.UserID, o.SourceOrderID, o.Company, o.Currency,
				o.DiscountTotal, o.TransactionID, o.CreatedAt, o.IsDeleted, o.DeletedAt)
		}
	}

	if len(rs.OrderItems) > 0 {
		section(&b, "ORDER ITEMS")
		for _, it := range rs.OrderItems {
			insert(&b, tableOrderItems, orderItemColumns,
				it.ID, it.OrderID, it.UserID, it.ServiceID, it.SourceProductID,
				it.ProductID, it.OrderSource, it.SKU, it.ProductName, it.Quantity,
				it.Subtotal, it.Total, it.CreatedAt, it.IsDeleted, it.DeletedAt,
				it.TaxFilingID, it.InvoicePlanID, it.OperatingAgreementID,
				it.SmartBookkeepingID, it.IsCouponApplied, it.CouponCodeID,
				it.CouponAmount, it.IsExpediteAddon)
		}
	}

	if len(rs.Incorporations) > 0 {
		section(&b, "INCORPORATIONS")
		for _, inc := range rs.Incorporations {
			insert(&b, tableIncorporations, incorporationColumns,
				inc.ID, inc.UserID, inc.OrderItemID, inc.FirstName, inc.MiddleName,
				inc.LastName, inc.Email, inc.PhoneNumber, inc.Address, inc.CountryID,
				inc.State, inc.City, inc.CountryCode, inc.ZipCode, inc.CompanyMembers,
				inc.CompanyTypeID, inc.PreferredName1, inc.PreferredName2,
				inc.PreferredName3, inc.IndustryTypeID, inc.BusinessDescription,
				inc.GeneratingRevenue, inc.AnnualRevenue, inc.EmployeesCount,
				inc.IsUSCompany, inc.WebsiteName, inc.ScanPassport, inc.ExtractedData,
				inc.CreatedAt, inc.LastUpdatedAt, inc.DeletedAt, inc.IsDeleted,
				inc.Status, inc.LLCDocumentFile, inc.EINFormFile, inc.SS4ExtractedData,
				inc.SignedEINForm, inc.LLCExtractedData)
		}
	}

	if len(rs.ITINApplications) > 0 {
		section(&b, "ITIN APPLICATIONS")
		for _, app := range rs.ITINApplications {
			insert(&b, tableITINApplications, itinApplicationColumns,
				app.ID, app.UserID, app.OrderItemID, app.HasUSCompany,
				app.BusinessIncorporation, app.EINDocument, app.ScanPassport,
				app.W7Form, app.Form2848, app.CreatedAt, app.LastUpdatedAt,
				app.DeletedAt, app.IsDeleted, app.Status, app.ExtractedData,
				app.W7FormExtractedData, app.Form2848ExtractedData,
				app.W7SignedForm, app.Form2848SignedForm, app.Step,
				app.IRSSubmissionTimestamp)
		}
	}

	if len(rs.OperatingAgreements) > 0 {
		section(&b, "OPERATING AGREEMENTS")
		for _, ag := range rs.OperatingAgreements {
			insert(&b, tableOperatingAgreements, operatingAgreementColumns,
				ag.ID, ag.UserID, ag.IsSubscribed, ag.PaymentStatus,
				ag.GeneratedAgreementFile, ag.CompanyType, ag.Step, ag.Passport,
				ag.CreatedAt, ag.UpdatedAt, ag.DeletedAt, ag.IsDeleted,
				ag.OrderItemID, ag.Status)
		}
	}

	b.WriteString("\n-- SEQUENCE ADVANCEMENT\n")
	for _, tbl := range []struct {
		name  string
		count int
	}{
		{tableOrders, len(rs.Orders)},
		{tableOrderItems, len(rs.OrderItems)},
		{tableIncorporations, len(rs.Incorporations)},
		{tableITINApplications, len(rs.ITINApplications)},
		{tableOperatingAgreements, len(rs.OperatingAgreements)},
	} {
		if tbl.count > 0 {
			fmt.Fprintf(&b, "SELECT setval('%s_id_seq', (SELECT MAX(id) FROM %s) + 100);\n", tbl.name, tbl.name)
		}
	}

	return b.String()
}

// Statements splits a rendered script into executable statements, dropping
// comments. Used by the load command; the script itself stays the canonical
// artifact. The scanner tracks quoted literals, so a field value spanning
// multiple lines stays inside its statement instead of being cut at the
// newline. A doubled '' reads as leave-then-reenter, which splits the same
// way.
func Statements(script string) []string {
	var stmts []string
	var cur strings.Builder
	inLiteral := false

	for i := 0; i < len(script); i++ {
		c := script[i]

		if inLiteral {
			cur.WriteByte(c)
			if c == '\'' {
				inLiteral = false
			}
			continue
		}

		switch {
		case c == '\'':
			inLiteral = true
			cur.WriteByte(c)
		case c == '-' && i+1 < len(script) && script[i+1] == '-' && strings.TrimSpace(cur.String()) == "":
			for i < len(script) && script[i] != '\n' {
				i++
			}
		case c == ';':
			cur.WriteByte(c)
			stmts = append(stmts, strings.TrimSpace(cur.String()))
			cur.Reset()
		default:
			cur.WriteByte(c)
		}
	}

	return stmts
}

func section(b *strings.Builder, title string) {
	fmt.Fprintf(b, "\n-- %s\n", title)
}

func insert(b *strings.Builder, table string, columns []string, values ...any) {
	if len(values) != len(columns) {
		// Column lists and builder outputs are maintained together; a
		// mismatch is a programming error, made loud in the artifact.
		fmt.Fprintf(b, "-- ERROR: %s column/value count mismatch (%d columns, %d values)\n",
			table, len(columns), len(values))
		return
	}

	rendered := make([]string, len(values))
	for i, v := range values {
		rendered[i] = Literal(v)
	}

	fmt.Fprintf(b, "INSERT INTO %s (%s) VALUES (%s);\n",
		table, strings.Join(columns, ", "), strings.Join(rendered, ", "))
}
