package build

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/formsource/orderload/internal/lookup"
	"github.com/formsource/orderload/internal/model"
)

// Source field titles, verbatim from the form platform. Several logical
// fields carry two titles because the form was revised mid-campaign; aliases
// are resolved first-non-empty in the order listed at the call site.
const (
	fieldFirstName           = "First Name"
	fieldMiddleName          = "Middle Name (if applicable)"
	fieldLastName            = "Last Name (Surname)"
	fieldEmail               = "E-mail"
	fieldEmailAlt            = "E-mail Address"
	fieldPhone               = "Phone Number (with country code)"
	fieldPhoneAlt            = "Phone Number"
	fieldStreetAddress       = "Street Address"
	fieldCityStateDistrict   = "City/State/District"
	fieldZipCode             = "Zip Code"
	fieldCountry             = "Country"
	fieldCompanyType         = "Choose a company type"
	fieldCompanyMembers      = "Will your company be single-member or multi-member?"
	fieldPreferredName1      = "Company name preference 1"
	fieldPreferredName2      = "Company name preference 2"
	fieldPreferredName3      = "Company name preference 3"
	fieldIndustry            = "Industry"
	fieldIndustryOther       = "If selected Other, please specify"
	fieldBusinessDescription = "Business Description"
	fieldGeneratingRevenue   = "Currently Generating Revenue"
	fieldAnnualRevenue       = "If Yes Annual revenue ($)"
	fieldEmployeeCount       = "Employee Count"
	fieldUSCustomers         = "U.S Customers"
	fieldWebsite             = "Website"
	fieldPassportScan        = "Upload Passport Scan"
	fieldBirthName           = "Please indicate if the above Name/Surname is the same as your birth Name/Surname"
	fieldEntityEnding        = "Entity Ending"
	fieldOrderNumber         = "Order Number"
)

// Defaults applied when optional fields are missing. Builders never fail on
// absent answers.
const (
	defaultCurrency       = "USD"
	defaultOrderSource    = "woocommerce"
	defaultCompanyType    = "LLC"
	defaultIndustry       = "Other"
	defaultCompanyMembers = "Single Member"
	defaultEmployeeCount  = "Less than 5"
	defaultAnnualRevenue  = "0-10k annually"

	skuIncorporation   = "INC-001"
	skuITIN            = "ITIN-001"
	nameIncorporation  = "LLC Incorporation Service"
	nameITIN           = "ITIN Application Service"
	statusInProgress   = 1
	statusPending      = "pending"
	firstWorkflowStep  = 1
	addressDelimiter   = " - "
)

var (
	numericKeyRe = regexp.MustCompile(`^\d+$`)
	phoneCodeRe  = regexp.MustCompile(`^\+\s*(\d+)`)
)

// Params holds run-wide inputs shared by every builder invocation: the
// owning user written to every record, the single run timestamp, and the
// lookup tables.
type Params struct {
	UserID    int64
	Timestamp string
	Tables    lookup.Tables
}

// Order builds the orders row for a submission. A purely-numeric submission
// key is carried over as the storefront order reference; any other key
// (alphabetic, mixed, empty) yields no reference.
func Order(id int64, key string, p Params) model.Order {
	var sourceOrderID *int64
	if numericKeyRe.MatchString(key) {
		if n, err := strconv.ParseInt(key, 10, 64); err == nil {
			sourceOrderID = &n
		}
	}

	return model.Order{
		ID:            id,
		UserID:        p.UserID,
		SourceOrderID: sourceOrderID,
		Currency:      defaultCurrency,
		CreatedAt:     p.Timestamp,
	}
}

// OrderItem builds the order_items row. The service defaults to the
// incorporation product; when the submission also needs an ITIN application
// the item is re-labelled as the ITIN service. agreementID is non-nil iff an
// operating agreement was derived for the same submission.
func OrderItem(id, orderID int64, needsITIN bool, agreementID *int64, p Params) model.OrderItem {
	serviceID := p.Tables.ResolveProduct(lookup.ProductIncorporation)
	sku := skuIncorporation
	productName := nameIncorporation
	if needsITIN {
		serviceID = p.Tables.ResolveProduct(lookup.ProductITINApplication)
		sku = skuITIN
		productName = nameITIN
	}

	return model.OrderItem{
		ID:                   id,
		OrderID:              orderID,
		UserID:               p.UserID,
		ServiceID:            serviceID,
		ProductID:            serviceID,
		OrderSource:          defaultOrderSource,
		SKU:                  sku,
		ProductName:          productName,
		Quantity:             1,
		CreatedAt:            p.Timestamp,
		OperatingAgreementID: agreementID,
	}
}

// incorporationExtract is the side-channel for answers with no first-class
// incorporations column. Field order fixes the rendered JSON key order.
type incorporationExtract struct {
	BirthName     string `json:"birth_name"`
	EntityEnding  string `json:"entity_ending"`
	OtherIndustry string `json:"other_industry"`
	OrderNumber   string `json:"order_number"`
}

// Incorporation builds the incorporations row, the landing place for the
// submission's decomposed personal and business fields.
func Incorporation(id, orderItemID int64, fields model.FieldMap, p Params) model.Incorporation {
	countryID := p.Tables.ResolveCountry(fields.Get(fieldCountry))
	companyTypeID := p.Tables.ResolveCompanyType(fields.GetDefault(fieldCompanyType, defaultCompanyType))

	// An "Other" industry with a free-text specification is re-resolved
	// against the table; still-unknown labels fall back to the default code.
	industryName := fields.GetDefault(fieldIndustry, defaultIndustry)
	if industryName == defaultIndustry && fields.Has(fieldIndustryOther) {
		industryName = fields.Get(fieldIndustryOther)
	}
	industryTypeID := p.Tables.ResolveIndustry(industryName)

	generating := fields.Equals(fieldGeneratingRevenue, "YES")
	var annualRevenue *string
	if generating {
		rev := fields.GetDefault(fieldAnnualRevenue, defaultAnnualRevenue)
		annualRevenue = &rev
	}

	usCompany := fields.Equals(fieldUSCustomers, "YES")

	city, state := splitCityState(fields.Get(fieldCityStateDistrict))
	phone := fields.First(fieldPhone, fieldPhoneAlt)

	return model.Incorporation{
		ID:                  id,
		UserID:              p.UserID,
		OrderItemID:         orderItemID,
		FirstName:           fields.Get(fieldFirstName),
		MiddleName:          fields.Get(fieldMiddleName),
		LastName:            fields.Get(fieldLastName),
		Email:               fields.First(fieldEmail, fieldEmailAlt),
		PhoneNumber:         phone,
		Address:             fields.Get(fieldStreetAddress),
		CountryID:           countryID,
		State:               state,
		City:                city,
		CountryCode:         ExtractCountryCode(phone),
		ZipCode:             fields.Get(fieldZipCode),
		CompanyMembers:      fields.GetDefault(fieldCompanyMembers, defaultCompanyMembers),
		CompanyTypeID:       companyTypeID,
		PreferredName1:      fields.Get(fieldPreferredName1),
		PreferredName2:      fields.Get(fieldPreferredName2),
		PreferredName3:      fields.Get(fieldPreferredName3),
		IndustryTypeID:      industryTypeID,
		BusinessDescription: fields.Get(fieldBusinessDescription),
		GeneratingRevenue:   generating,
		AnnualRevenue:       annualRevenue,
		EmployeesCount:      fields.GetDefault(fieldEmployeeCount, defaultEmployeeCount),
		IsUSCompany:         usCompany,
		WebsiteName:         fields.Get(fieldWebsite),
		ScanPassport:        fields.Get(fieldPassportScan),
		ExtractedData: marshalExtract(incorporationExtract{
			BirthName:     fields.Get(fieldBirthName),
			EntityEnding:  fields.Get(fieldEntityEnding),
			OtherIndustry: fields.Get(fieldIndustryOther),
			OrderNumber:   fields.Get(fieldOrderNumber),
		}),
		CreatedAt:     p.Timestamp,
		LastUpdatedAt: p.Timestamp,
		Status:        statusInProgress,
	}
}

// itinExtract holds the applicant details copied onto the ITIN application.
type itinExtract struct {
	ApplicantName string `json:"applicant_name"`
	Address       string `json:"address"`
}

// ITINApplication builds the itin_applications row for submissions matched
// by the ITIN derivation rule.
func ITINApplication(id, orderItemID int64, fields model.FieldMap, p Params) model.ITINApplication {
	applicant := strings.TrimSpace(fields.Get(fieldFirstName) + " " + fields.Get(fieldLastName))

	return model.ITINApplication{
		ID:           id,
		UserID:       p.UserID,
		OrderItemID:  orderItemID,
		HasUSCompany: true,
		ScanPassport: fields.Get(fieldPassportScan),
		CreatedAt:    p.Timestamp,
		LastUpdatedAt: p.Timestamp,
		Status:       statusInProgress,
		ExtractedData: marshalExtract(itinExtract{
			ApplicantName: applicant,
			Address:       fields.Get(fieldStreetAddress),
		}),
		Step: firstWorkflowStep,
	}
}

// OperatingAgreement builds the operating_agreements row for LLC-type
// submissions. The order item holds the forward reference to this record;
// the back-reference here completes the intentional denormalization.
func OperatingAgreement(id, orderItemID int64, fields model.FieldMap, p Params) model.OperatingAgreement {
	return model.OperatingAgreement{
		ID:            id,
		UserID:        p.UserID,
		PaymentStatus: statusPending,
		CompanyType:   fields.GetDefault(fieldCompanyType, defaultCompanyType),
		Step:          firstWorkflowStep,
		Passport:      fields.Get(fieldPassportScan),
		CreatedAt:     p.Timestamp,
		UpdatedAt:     p.Timestamp,
		OrderItemID:   orderItemID,
		Status:        statusPending,
	}
}

// splitCityState decomposes the combined "City/State/District" answer on the
// literal " - " delimiter. Missing segments yield empty strings; a third
// segment (district) has no destination column and is discarded.
func splitCityState(combined string) (city, state string) {
	parts := strings.Split(combined, addressDelimiter)
	if len(parts) > 0 {
		city = parts[0]
	}
	if len(parts) > 1 {
		state = parts[1]
	}
	return city, state
}

// ExtractCountryCode pulls the numeric dialing code from a phone number
// written as "+<digits>..." (whitespace after the plus tolerated). Numbers
// without the pattern yield nil.
func ExtractCountryCode(phone string) *string {
	m := phoneCodeRe.FindStringSubmatch(phone)
	if m == nil {
		return nil
	}
	code := m[1]
	return &code
}

// marshalExtract encodes a side-channel blob. Encoding these structs cannot
// realistically fail, but per the error contract a failure substitutes an
// empty object rather than aborting the run.
func marshalExtract(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		zap.L().Warn("extracted-data blob not encodable, substituting empty object", zap.Error(err))
		return "{}"
	}
	return string(data)
}
