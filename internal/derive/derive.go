// Package derive holds the business rules deciding which optional entities
// exist for a submission. Rules are pure predicates over the field map: they
// never fail, never mutate, and must be evaluated on the same map the
// builders receive so that entity existence and back-references agree.
package derive

import (
	"strings"

	"github.com/formsource/orderload/internal/model"
)

// Rule decides whether a derived entity applies to a submission.
type Rule interface {
	// Name identifies the rule in logs.
	Name() string
	// Applies reports whether the entity should be created.
	Applies(fields model.FieldMap) bool
}

// Field titles consulted by the built-in rules.
const (
	fieldBusinessDescription = "Business Description"
	fieldCompanyType         = "Choose a company type"
)

// itinKeywords are matched as substrings of the lowercased business
// description. This is a keyword heuristic over free text, not a structured
// flag — it misfires on descriptions that merely mention tax IDs. Kept
// behind the Rule interface so a platform-supplied flag can replace it
// without touching the pipeline.
var itinKeywords = []string{"itin", "w-7", "tax id"}

// ITINKeywords detects submissions that need an ITIN application.
type ITINKeywords struct{}

func (ITINKeywords) Name() string { return "itin_keywords" }

func (ITINKeywords) Applies(fields model.FieldMap) bool {
	desc := strings.ToLower(fields.Get(fieldBusinessDescription))
	for _, kw := range itinKeywords {
		if strings.Contains(desc, kw) {
			return true
		}
	}
	return false
}

// AgreementCompanyType detects submissions that need an operating agreement:
// any company whose declared type is an LLC, in either spelling.
type AgreementCompanyType struct{}

func (AgreementCompanyType) Name() string { return "agreement_company_type" }

func (AgreementCompanyType) Applies(fields model.FieldMap) bool {
	ct := strings.ToUpper(fields.Get(fieldCompanyType))
	return ct == "LLC" || ct == "LIMITED LIABILITY COMPANY"
}

// Rules bundles the derivation rules the pipeline evaluates per submission.
type Rules struct {
	ITIN      Rule
	Agreement Rule
}

// DefaultRules returns the built-in rule set.
func DefaultRules() Rules {
	return Rules{
		ITIN:      ITINKeywords{},
		Agreement: AgreementCompanyType{},
	}
}
