package accountmap

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/ZhangYupengCHY/lazada/internal/model"
	"github.com/ZhangYupengCHY/lazada/internal/parser"
	"github.com/ZhangYupengCHY/lazada/internal/service/station"
)

func TestLoad_XLSX(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "账号对应表.xlsx")
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	rows := [][]interface{}{
		{"备注", "店铺账号", "广告账号"},
		{"", "store-01", "abc-my"},
		{"", "store-02", "XYZ"},
		{"", "", "empty"},
	}
	for i, r := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, f.SetSheetRow(sheet, cell, &r))
	}
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	m, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 2, m.Len())

	to, ok := m.Resolve(model.AccountKey{Account: "ABC", Site: model.SiteMY})
	assert.True(t, ok)
	assert.Equal(t, "store-01", to)

	to, ok = m.Resolve(model.AccountKey{Account: "XYZ", Site: model.SiteTH})
	assert.True(t, ok)
	assert.Equal(t, "store-02", to)

	_, ok = m.Resolve(model.AccountKey{Account: "ABC", Site: model.SiteTH})
	assert.False(t, ok)
}

func TestFromTable_FirstTwoColumns(t *testing.T) {
	t.Parallel()

	m, err := FromTable(&parser.Table{
		Headers: []string{"a", "b"},
		Rows:    [][]string{{"shop1", "S1"}},
	})
	require.NoError(t, err)
	to, ok := m.Resolve(model.AccountKey{Account: "SHOP1"})
	assert.True(t, ok)
	assert.Equal(t, "S1", to)

	_, err = FromTable(&parser.Table{Headers: []string{"a"}})
	assert.ErrorIs(t, err, ErrEmpty)
}

func TestApply(t *testing.T) {
	t.Parallel()

	m, err := FromTable(&parser.Table{
		Headers: []string{"广告账号", "店铺账号"},
		Rows:    [][]string{{"ABC", "store-01"}},
	})
	require.NoError(t, err)

	u := &station.Union{
		StationLevel: []model.StationPerf{{Account: "ABC", Site: model.SiteID}, {Account: "ZZZ", Site: model.SiteVN}},
		OrderedSKU:   []model.SkuPerf{{Account: "ABC", Site: model.SiteID}},
		UnorderedSKU: []model.UnorderedSkuPerf{{Account: "ZZZ", Site: model.SiteVN}},
	}
	missing := m.Apply(u)
	assert.Equal(t, []string{"ZZZ-VN"}, missing)
	assert.Equal(t, "store-01", u.StationLevel[0].Account)
	assert.Equal(t, "ZZZ", u.StationLevel[1].Account)
	assert.Equal(t, "store-01", u.OrderedSKU[0].Account)
	assert.Equal(t, "ZZZ", u.UnorderedSKU[0].Account)
}
