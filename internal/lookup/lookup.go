// Package lookup resolves free-text form labels (country, company type,
// industry, product) to the small integer codes the destination schema uses
// as foreign keys. The tables are static configuration standing in for a real
// catalog; they are never consulted against a live database.
package lookup

import (
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// DefaultCode is resolved for any label absent from its table. The
// destination seeds every lookup relation with a catch-all row at id 1.
const DefaultCode int64 = 1

// Product keys as they appear in the product table.
const (
	ProductIncorporation      = "incorporation"
	ProductITINApplication    = "itin_application"
	ProductOperatingAgreement = "operating_agreement"
)

// Tables holds the four label→code mappings. Country keys are stored
// lowercase and matched case-insensitively; the remaining tables match keys
// as written.
type Tables struct {
	Country     map[string]int64 `yaml:"country"`
	CompanyType map[string]int64 `yaml:"company_type"`
	Industry    map[string]int64 `yaml:"industry"`
	Product     map[string]int64 `yaml:"product"`
}

// Defaults returns the built-in tables matching the destination catalog's
// seed rows. Deployments with a larger catalog supply their own yaml file.
func Defaults() Tables {
	return Tables{
		Country: map[string]int64{
			"egypt":  1,
			"usa":    2,
			"turkey": 3,
		},
		CompanyType: map[string]int64{
			"LLC":    1,
			"C-Corp": 2,
			"S-Corp": 3,
		},
		Industry: map[string]int64{
			"Other":          1,
			"Transportation": 2,
			"Technology":     3,
			"Consulting":     4,
		},
		Product: map[string]int64{
			ProductIncorporation:      1,
			ProductITINApplication:    2,
			ProductOperatingAgreement: 3,
		},
	}
}

// LoadFile reads tables from a yaml file. Any table left empty in the file
// falls back to its built-in default so partial overrides stay usable.
func LoadFile(path string) (Tables, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Tables{}, eris.Wrapf(err, "lookup: read %s", path)
	}

	var t Tables
	if err := yaml.Unmarshal(data, &t); err != nil {
		return Tables{}, eris.Wrapf(err, "lookup: parse %s", path)
	}

	def := Defaults()
	if len(t.Country) == 0 {
		t.Country = def.Country
	}
	if len(t.CompanyType) == 0 {
		t.CompanyType = def.CompanyType
	}
	if len(t.Industry) == 0 {
		t.Industry = def.Industry
	}
	if len(t.Product) == 0 {
		t.Product = def.Product
	}

	// Country keys are matched lowercased.
	lowered := make(map[string]int64, len(t.Country))
	for k, v := range t.Country {
		lowered[strings.ToLower(k)] = v
	}
	t.Country = lowered

	return t, nil
}

// ResolveCountry maps a country name to its code, case-insensitively.
// Unknown or empty names resolve to DefaultCode.
func (t Tables) ResolveCountry(name string) int64 {
	if code, ok := t.Country[strings.ToLower(name)]; ok {
		return code
	}
	return DefaultCode
}

// ResolveCompanyType maps a company-type label to its code. Unknown labels
// resolve to DefaultCode.
func (t Tables) ResolveCompanyType(name string) int64 {
	if code, ok := t.CompanyType[name]; ok {
		return code
	}
	return DefaultCode
}

// ResolveIndustry maps an industry label to its code. Unknown labels resolve
// to DefaultCode.
func (t Tables) ResolveIndustry(name string) int64 {
	if code, ok := t.Industry[name]; ok {
		return code
	}
	return DefaultCode
}

// ResolveProduct maps a product key to its code. Unknown keys resolve to
// DefaultCode.
func (t Tables) ResolveProduct(name string) int64 {
	if code, ok := t.Product[name]; ok {
		return code
	}
	return DefaultCode
}
