package lookup

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveCountry_CaseInsensitive(t *testing.T) {
	tables := Defaults()

	assert.Equal(t, int64(1), tables.ResolveCountry("Egypt"))
	assert.Equal(t, int64(1), tables.ResolveCountry("EGYPT"))
	assert.Equal(t, int64(2), tables.ResolveCountry("usa"))
}

func TestResolveCountry_UnknownDefaultsToOne(t *testing.T) {
	tables := Defaults()

	assert.Equal(t, DefaultCode, tables.ResolveCountry("Atlantis"))
	assert.Equal(t, DefaultCode, tables.ResolveCountry(""))
}

func TestResolveCompanyType_CaseSensitive(t *testing.T) {
	tables := Defaults()

	assert.Equal(t, int64(1), tables.ResolveCompanyType("LLC"))
	assert.Equal(t, int64(2), tables.ResolveCompanyType("C-Corp"))
	// Company types are matched as written, unlike countries.
	assert.Equal(t, DefaultCode, tables.ResolveCompanyType("llc"))
}

func TestResolveIndustry(t *testing.T) {
	tables := Defaults()

	assert.Equal(t, int64(3), tables.ResolveIndustry("Technology"))
	assert.Equal(t, DefaultCode, tables.ResolveIndustry("Basket Weaving"))
}

func TestResolveProduct(t *testing.T) {
	tables := Defaults()

	assert.Equal(t, int64(1), tables.ResolveProduct(ProductIncorporation))
	assert.Equal(t, int64(2), tables.ResolveProduct(ProductITINApplication))
	assert.Equal(t, int64(3), tables.ResolveProduct(ProductOperatingAgreement))
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lookups.yaml")
	content := `
country:
  Egypt: 7
  Germany: 9
product:
  incorporation: 11
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	tables, err := LoadFile(path)
	require.NoError(t, err)

	// File keys are lowercased for country matching.
	assert.Equal(t, int64(7), tables.ResolveCountry("egypt"))
	assert.Equal(t, int64(9), tables.ResolveCountry("GERMANY"))
	assert.Equal(t, int64(11), tables.ResolveProduct(ProductIncorporation))

	// Tables absent from the file keep their defaults.
	assert.Equal(t, int64(2), tables.ResolveCompanyType("C-Corp"))
	assert.Equal(t, int64(4), tables.ResolveIndustry("Consulting"))
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestLoadFile_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("country: [not, a, map]"), 0o644))

	_, err := LoadFile(path)
	assert.Error(t, err)
}
