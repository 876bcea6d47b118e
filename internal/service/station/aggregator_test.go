package station

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ZhangYupengCHY/lazada/internal/model"
)

var (
	day1 = time.Date(2020, 8, 1, 0, 0, 0, 0, time.UTC)
	day2 = time.Date(2020, 8, 2, 0, 0, 0, 0, time.UTC)
	key  = model.AccountKey{Account: "ABC", Site: model.SiteID}
)

func TestROI_ZeroSpend(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 0.0, ROI(0, 100))
	assert.Equal(t, 0.0, ROI(0, 0))
	assert.Equal(t, 3.33, ROI(3, 10))
	assert.Equal(t, 2.5, ROI(4, 10))
	assert.Equal(t, 0.0, ROI(5, 0))
	assert.Equal(t, 0.0, ROI(-2, 10))
}

func TestConvert(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 5.0, Convert(0.0005, 10000))
	assert.Equal(t, 0.62, Convert(0.0005, 1234.5))
	assert.Equal(t, 16.46, Convert(1.646287, 10))
}

func TestAggregate_ScenarioA(t *testing.T) {
	t.Parallel()

	records := []model.AdRecord{
		{Date: day1, SellerSKU: "SKU-A", Spend: 10000, Revenue: 40000, Orders: 2, UnitsSold: 3},
		{Date: day1, SellerSKU: "SKU-B", Spend: 20000, Revenue: 100000, Orders: 1, UnitsSold: 1},
		{Date: day1, SellerSKU: "SKU-C", Spend: 6000, Revenue: 0, Orders: 0, UnitsSold: 0},
	}
	res := Aggregate(key, records, 0.0005)

	require.Len(t, res.StationLevel, 1)
	st := res.StationLevel[0]
	assert.True(t, st.Date.Equal(day1))
	assert.Equal(t, "ABC", st.Account)
	assert.Equal(t, model.SiteID, st.Site)
	assert.Equal(t, 18.0, st.SpendCNY)
	assert.Equal(t, 70.0, st.RevenueCNY)
	assert.Equal(t, 3.89, st.ROI)

	require.Len(t, res.OrderedSKU, 2)
	// SKU-B ROI 5 在前，SKU-A ROI 4 在后
	assert.Equal(t, "SKU-B", res.OrderedSKU[0].SellerSKU)
	assert.Equal(t, 5.0, res.OrderedSKU[0].ROI)
	assert.Equal(t, "SKU-A", res.OrderedSKU[1].SellerSKU)
	assert.Equal(t, 5.0, res.OrderedSKU[1].SpendCNY)
	assert.Equal(t, 20.0, res.OrderedSKU[1].RevenueCNY)
	assert.Equal(t, 2, res.OrderedSKU[1].Orders)
	assert.Equal(t, 3, res.OrderedSKU[1].UnitsSold)

	require.Len(t, res.UnorderedSKU, 1)
	assert.Equal(t, "SKU-C", res.UnorderedSKU[0].SellerSKU)
	assert.Equal(t, 1, res.UnorderedSKU[0].Occurrences)
}

func TestOrderedSKU_TieBreak(t *testing.T) {
	t.Parallel()

	records := []model.AdRecord{
		{Date: day2, SellerSKU: "D2", Spend: 1, Revenue: 1, Orders: 1},
		{Date: day1, SellerSKU: "HIGH-REV", Spend: 10, Revenue: 20, Orders: 1},
		{Date: day1, SellerSKU: "LOW-REV", Spend: 5, Revenue: 10, Orders: 1},
		{Date: day1, SellerSKU: "BEST", Spend: 1, Revenue: 9, Orders: 1},
		{Date: day1, SellerSKU: "ZERO-SPEND", Spend: 0, Revenue: 3, Orders: 1},
	}
	rows := OrderedSKU(key, records, 1)
	got := make([]string, 0, len(rows))
	for _, r := range rows {
		got = append(got, r.SellerSKU)
	}
	assert.Equal(t, []string{"BEST", "LOW-REV", "HIGH-REV", "ZERO-SPEND", "D2"}, got)

	for i := 1; i < len(rows); i++ {
		prev, cur := rows[i-1], rows[i]
		if !prev.Date.Equal(cur.Date) {
			continue
		}
		assert.GreaterOrEqual(t, prev.ROI, cur.ROI)
		if prev.ROI == cur.ROI {
			assert.LessOrEqual(t, prev.RevenueCNY, cur.RevenueCNY)
		}
	}
}

func TestUnorderedSKU_CountsRows(t *testing.T) {
	t.Parallel()

	records := []model.AdRecord{
		{Date: day1, SellerSKU: "X", Spend: 3},
		{Date: day1, SellerSKU: "X", Spend: 4},
		{Date: day2, SellerSKU: "X"},
		{Date: day1, SellerSKU: "Y", Orders: 1},
	}
	rows := UnorderedSKU(key, records)
	require.Len(t, rows, 2)
	assert.Equal(t, 2, rows[0].Occurrences)
	assert.True(t, rows[1].Date.Equal(day2))
	assert.Equal(t, 1, rows[1].Occurrences)
}

func TestAggregate_EmptySubsetsAreAbsent(t *testing.T) {
	t.Parallel()

	onlyOrdered := []model.AdRecord{{Date: day1, SellerSKU: "A", Orders: 1}}
	res := Aggregate(key, onlyOrdered, 1)
	assert.Nil(t, res.UnorderedSKU)
	assert.NotNil(t, res.OrderedSKU)

	empty := Aggregate(key, nil, 1)
	assert.Nil(t, empty.StationLevel)
	assert.Nil(t, empty.OrderedSKU)
	assert.Nil(t, empty.UnorderedSKU)

	var u Union
	u.Add(res)
	u.Add(empty)
	assert.Len(t, u.StationLevel, 1)
	assert.Len(t, u.OrderedSKU, 1)
	assert.Nil(t, u.UnorderedSKU)
}
