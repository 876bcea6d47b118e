package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFieldMapper_Map(t *testing.T) {
	t.Parallel()

	m := NewFieldMapper([]ColumnAlias{
		{Canonical: "Date", Alternates: []string{"日期", "Tanggal", "Ngày"}, Required: true},
		{Canonical: "Revenue", Alternates: []string{"支付金额", "Pendapatan", "Doanh thu"}, Required: true},
		{Canonical: "Orders", Alternates: []string{"订单数", "Pesanan", "Đơn hàng"}, Required: true},
		{Canonical: "Note", Alternates: nil},
	})

	mapping, missing := m.Map([]string{" tanggal ", "Unknown", "Pendapatan", "支付金额"})
	assert.Equal(t, map[string]int{"Date": 0, "Revenue": 2}, mapping)
	assert.Equal(t, []string{"Orders"}, missing)

	assert.Equal(t, "Date", m.Canonical("Ngày"))
	assert.Equal(t, "", m.Canonical("Spend"))
}
