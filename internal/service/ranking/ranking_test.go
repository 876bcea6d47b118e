package ranking

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ZhangYupengCHY/lazada/internal/model"
)

func day(d int) time.Time {
	return time.Date(2020, time.August, d, 0, 0, 0, 0, time.UTC)
}

func row(d int, account, site, seller string, revenue float64) model.LedgerDaily {
	return model.LedgerDaily{
		PayDate:    day(d),
		Account:    account,
		Site:       site,
		SKU:        "E" + seller,
		SellerSKU:  seller,
		Units:      1,
		RevenueCNY: revenue,
	}
}

func TestRank_Windows(t *testing.T) {
	t.Parallel()

	daily := []model.LedgerDaily{
		row(31, "A", "MY", "S1", 10),
		row(31, "A", "MY", "S2", 20),
		row(25, "A", "MY", "S1", 15),
		row(24, "A", "MY", "S3", 100),
		row(1, "A", "MY", "S3", 5),
		row(31, "A", "MY", "", 999),
	}

	res := Rank(daily, 10)
	assert.Equal(t, day(31), res.LastDay)

	require.Len(t, res.Day1, 2)
	assert.Equal(t, "S2", res.Day1[0].SellerSKU)
	assert.Equal(t, 1, res.Day1[0].Rank)
	assert.Equal(t, "S1", res.Day1[1].SellerSKU)

	// 7 天窗口包含 24 日
	require.Len(t, res.Day7, 3)
	assert.Equal(t, "S3", res.Day7[0].SellerSKU)
	assert.Equal(t, "S1", res.Day7[1].SellerSKU)
	assert.Equal(t, 25.0, res.Day7[1].RevenueCNY)

	// 30 天窗口包含 1 日
	require.Len(t, res.Day30, 3)
	assert.Equal(t, 105.0, res.Day30[0].RevenueCNY)
	assert.Equal(t, model.Window30D, res.Day30[0].Window)
}

func TestRank_TieBreakAndLimit(t *testing.T) {
	t.Parallel()

	var daily []model.LedgerDaily
	for i := 12; i >= 1; i-- {
		daily = append(daily, row(1, "A", "TH", fmt.Sprintf("S%02d", i), 50))
	}
	res := Rank(daily, 0)
	require.Len(t, res.Day1, DefaultTopN)
	assert.Equal(t, "S01", res.Day1[0].SellerSKU)
	assert.Equal(t, "S10", res.Day1[9].SellerSKU)
	assert.Equal(t, 10, res.Day1[9].Rank)
}

func TestRank_GroupsByAccountSite(t *testing.T) {
	t.Parallel()

	res := Rank([]model.LedgerDaily{
		row(1, "B", "MY", "S1", 1),
		row(1, "A", "TH", "S1", 1),
		row(1, "A", "MY", "S1", 1),
	}, 3)
	require.Len(t, res.Day1, 3)
	assert.Equal(t, []string{"A/MY", "A/TH", "B/MY"}, []string{
		res.Day1[0].Account + "/" + res.Day1[0].Site,
		res.Day1[1].Account + "/" + res.Day1[1].Site,
		res.Day1[2].Account + "/" + res.Day1[2].Site,
	})
	for _, e := range res.Day1 {
		assert.Equal(t, 1, e.Rank)
	}
}

func TestRank_DailyDenseRank(t *testing.T) {
	t.Parallel()

	res := Rank([]model.LedgerDaily{
		row(2, "A", "MY", "S1", 5),
		row(1, "A", "MY", "S1", 5),
		row(1, "A", "MY", "S2", 9),
		row(1, "A", "MY", "S3", 5),
		row(1, "B", "MY", "S9", 1),
	}, 10)

	require.Len(t, res.Daily, 5)
	got := make([]string, 0, len(res.Daily))
	for _, d := range res.Daily {
		got = append(got, fmt.Sprintf("%02d %s %s %d", d.PayDate.Day(), d.Account, d.SellerSKU, d.Rank))
	}
	assert.Equal(t, []string{
		"01 A S2 1",
		"01 A S1 2",
		"01 A S3 3",
		"01 B S9 1",
		"02 A S1 1",
	}, got)
	assert.Equal(t, "ES2", res.Daily[0].ErpSKU)
}

func TestRank_NoSellerSKU(t *testing.T) {
	t.Parallel()

	res := Rank([]model.LedgerDaily{row(1, "A", "MY", "", 1)}, 10)
	assert.True(t, res.LastDay.IsZero())
	assert.Empty(t, res.Day1)
	assert.Empty(t, res.Daily)
	assert.Empty(t, SideBySide(res))
}

func TestSideBySide(t *testing.T) {
	t.Parallel()

	res := Rank([]model.LedgerDaily{
		row(31, "A", "MY", "S1", 10),
		row(20, "A", "MY", "S2", 30),
		row(10, "A", "MY", "S3", 50),
	}, 10)

	rows := SideBySide(res)
	require.Len(t, rows, 3)
	assert.Equal(t, 1, rows[0].Rank)
	assert.Equal(t, "S1", rows[0].Cells[model.Window1D].SellerSKU)
	assert.Equal(t, "S1", rows[0].Cells[model.Window7D].SellerSKU)
	assert.Equal(t, "S3", rows[0].Cells[model.Window30D].SellerSKU)

	_, ok := rows[1].Cells[model.Window1D]
	assert.False(t, ok)
	assert.Equal(t, "S2", rows[1].Cells[model.Window30D].SellerSKU)
	assert.Equal(t, 3, rows[2].Rank)
}
