package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/formsource/orderload/internal/build"
	"github.com/formsource/orderload/internal/derive"
	"github.com/formsource/orderload/internal/ingest"
	"github.com/formsource/orderload/internal/lookup"
	"github.com/formsource/orderload/internal/model"
	"github.com/formsource/orderload/internal/normalize"
)

func testParams() build.Params {
	return build.Params{
		UserID:    1,
		Timestamp: "2024-03-01 12:00:00",
		Tables:    lookup.Defaults(),
	}
}

func convert(t *testing.T, rows []ingest.RawRow) *model.RecordSet {
	t.Helper()
	subs := normalize.Normalize(rows)
	return Convert(subs, derive.DefaultRules(), build.NewAllocator(build.DefaultSeeds()), testParams())
}

func row(key, title, value string) ingest.RawRow {
	return ingest.RawRow{SubmissionKey: key, FieldTitle: title, FieldValue: value}
}

func TestConvert_EgyptLLCScenario(t *testing.T) {
	rs := convert(t, []ingest.RawRow{
		row("1001", "Country", "Egypt"),
		row("1001", "Choose a company type", "LLC"),
	})

	require.Len(t, rs.Orders, 1)
	require.Len(t, rs.OrderItems, 1)
	require.Len(t, rs.Incorporations, 1)
	require.Len(t, rs.OperatingAgreements, 1)
	assert.Empty(t, rs.ITINApplications)

	order := rs.Orders[0]
	require.NotNil(t, order.SourceOrderID)
	assert.Equal(t, int64(1001), *order.SourceOrderID)

	item := rs.OrderItems[0]
	assert.Equal(t, order.ID, item.OrderID)
	require.NotNil(t, item.OperatingAgreementID)
	assert.Equal(t, rs.OperatingAgreements[0].ID, *item.OperatingAgreementID)

	inc := rs.Incorporations[0]
	assert.Equal(t, item.ID, inc.OrderItemID)
	assert.Equal(t, int64(1), inc.CountryID)
	assert.Equal(t, int64(1), inc.CompanyTypeID)

	assert.Equal(t, item.ID, rs.OperatingAgreements[0].OrderItemID)
}

func TestConvert_OneOrderPerDistinctKey(t *testing.T) {
	rs := convert(t, []ingest.RawRow{
		row("A", "Country", "Egypt"),
		row("B", "Country", "Turkey"),
		row("A", "First Name", "Ada"),
		row("", "Country", "USA"), // dropped, contributes nothing
		row("C", "Country", "USA"),
	})

	assert.Len(t, rs.Orders, 3)
	assert.Len(t, rs.OrderItems, 3)
	assert.Len(t, rs.Incorporations, 3)
}

func TestConvert_ReferentialIntegrity(t *testing.T) {
	rs := convert(t, []ingest.RawRow{
		row("1", "Choose a company type", "LLC"),
		row("2", "Business Description", "need an ITIN"),
		row("3", "Country", "Egypt"),
		row("4", "Choose a company type", "llc"),
		row("5", "Business Description", "w-7 and tax id help"),
	})

	orderIDs := make(map[int64]bool)
	for _, o := range rs.Orders {
		orderIDs[o.ID] = true
	}
	itemIDs := make(map[int64]bool)
	for _, it := range rs.OrderItems {
		assert.True(t, orderIDs[it.OrderID], "order item %d references unknown order %d", it.ID, it.OrderID)
		itemIDs[it.ID] = true
	}
	for _, inc := range rs.Incorporations {
		assert.True(t, itemIDs[inc.OrderItemID], "incorporation %d references unknown order item", inc.ID)
	}
	for _, app := range rs.ITINApplications {
		assert.True(t, itemIDs[app.OrderItemID], "itin application %d references unknown order item", app.ID)
	}
	agreementIDs := make(map[int64]bool)
	for _, ag := range rs.OperatingAgreements {
		assert.True(t, itemIDs[ag.OrderItemID], "agreement %d references unknown order item", ag.ID)
		agreementIDs[ag.ID] = true
	}
	for _, it := range rs.OrderItems {
		if it.OperatingAgreementID != nil {
			assert.True(t, agreementIDs[*it.OperatingAgreementID])
		}
	}
}

func TestConvert_DerivedEntitiesMatchRules(t *testing.T) {
	rows := []ingest.RawRow{
		row("1", "Choose a company type", "LLC"),
		row("2", "Business Description", "itin support"),
		row("3", "Country", "Egypt"),
		row("4", "Choose a company type", "Limited Liability Company"),
	}
	subs := normalize.Normalize(rows)
	rules := derive.DefaultRules()
	rs := Convert(subs, rules, build.NewAllocator(build.DefaultSeeds()), testParams())

	wantITIN, wantAgreements := 0, 0
	for i, sub := range subs {
		if rules.ITIN.Applies(sub.Fields) {
			wantITIN++
		}
		hasAgreement := rules.Agreement.Applies(sub.Fields)
		if hasAgreement {
			wantAgreements++
		}
		// The order item's back-reference agrees with the rule for the same
		// submission.
		assert.Equal(t, hasAgreement, rs.OrderItems[i].OperatingAgreementID != nil, "submission %s", sub.Key)
	}

	assert.Len(t, rs.ITINApplications, wantITIN)
	assert.Len(t, rs.OperatingAgreements, wantAgreements)
}

func TestConvert_ITINSwitchesOrderItemService(t *testing.T) {
	rs := convert(t, []ingest.RawRow{
		row("1", "Business Description", "regular retail"),
		row("2", "Business Description", "need tax id"),
	})

	require.Len(t, rs.OrderItems, 2)
	assert.Equal(t, "INC-001", rs.OrderItems[0].SKU)
	assert.Equal(t, "ITIN-001", rs.OrderItems[1].SKU)
}

func TestConvert_IdentifiersStrictlyIncreasing(t *testing.T) {
	var rows []ingest.RawRow
	keys := []string{"10", "20", "x-30", "40", "50-b", "60"}
	for _, k := range keys {
		rows = append(rows,
			row(k, "Choose a company type", "LLC"),
			row(k, "Business Description", "itin"),
		)
	}
	rs := convert(t, rows)

	for i := 1; i < len(rs.Orders); i++ {
		assert.Greater(t, rs.Orders[i].ID, rs.Orders[i-1].ID)
	}
	for i := 1; i < len(rs.ITINApplications); i++ {
		assert.Greater(t, rs.ITINApplications[i].ID, rs.ITINApplications[i-1].ID)
	}
	for i := 1; i < len(rs.OperatingAgreements); i++ {
		assert.Greater(t, rs.OperatingAgreements[i].ID, rs.OperatingAgreements[i-1].ID)
	}
}

func TestConvert_ConditionalCountersDoNotAdvance(t *testing.T) {
	// First submission needs neither derived entity; second needs both. The
	// derived-entity counters must not have been consumed by the first.
	rs := convert(t, []ingest.RawRow{
		row("1", "Country", "Egypt"),
		row("2", "Choose a company type", "LLC"),
		row("2", "Business Description", "itin"),
	})

	require.Len(t, rs.ITINApplications, 1)
	require.Len(t, rs.OperatingAgreements, 1)
	assert.Equal(t, int64(1000), rs.ITINApplications[0].ID)
	assert.Equal(t, int64(1000), rs.OperatingAgreements[0].ID)
}

func TestConvert_CityStateScenario(t *testing.T) {
	rs := convert(t, []ingest.RawRow{
		row("1", "City/State/District", "Cairo - Cairo"),
	})

	require.Len(t, rs.Incorporations, 1)
	assert.Equal(t, "Cairo", rs.Incorporations[0].City)
	assert.Equal(t, "Cairo", rs.Incorporations[0].State)
}

func TestConvert_MissingCountryDefaults(t *testing.T) {
	rs := convert(t, []ingest.RawRow{
		row("1", "First Name", "Ada"),
	})

	require.Len(t, rs.Incorporations, 1)
	assert.Equal(t, lookup.DefaultCode, rs.Incorporations[0].CountryID)
}

func TestConvert_Empty(t *testing.T) {
	rs := convert(t, nil)
	assert.True(t, rs.Empty())
}
