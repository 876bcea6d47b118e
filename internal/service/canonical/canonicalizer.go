// Package canonical 将单个账号站点的广告报表规范为统一口径
package canonical

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/ZhangYupengCHY/lazada/internal/model"
	"github.com/ZhangYupengCHY/lazada/internal/parser"
)

// 标准列名
const (
	ColDate        = "Date"
	ColProductName = "Product Name"
	ColSellerSKU   = "Seller SKU"
	ColSkuID       = "SKU ID"
	ColSpend       = "Est. Spend"
	ColRevenue     = "Revenue"
	ColOrders      = "Orders"
	ColUnitsSold   = "Units Sold"
	ColEstROI      = "Est ROI"
)

// Columns 统一口径列顺序
var Columns = []string{ColDate, ColProductName, ColSellerSKU, ColSkuID, ColSpend, ColRevenue, ColOrders, ColUnitsSold, ColEstROI}

// ErrBadHeader 表头缺少必需列
var ErrBadHeader = errors.New("bad header")

// Aliases 广告报表表头的中文/印尼语/越南语写法
var Aliases = []parser.ColumnAlias{
	{Canonical: ColDate, Alternates: []string{"日期", "Tanggal", "Ngày"}, Required: true},
	{Canonical: ColProductName, Alternates: []string{"商品名称", "Nama Produk", "Tên sản phẩm"}, Required: true},
	{Canonical: ColSellerSKU, Alternates: []string{"卖家SKU", "SKU Penjual", "SKU người bán"}, Required: true},
	{Canonical: ColSkuID, Alternates: []string{"商品SKU ID", "ID SKU", "Mã SKU"}, Required: true},
	{Canonical: ColSpend, Alternates: []string{"Spend", "预估花费", "Estimasi Pengeluaran", "Phí dự toán"}, Required: true},
	{Canonical: ColRevenue, Alternates: []string{"支付金额", "Pendapatan", "Doanh thu"}, Required: true},
	{Canonical: ColOrders, Alternates: []string{"订单数", "Pesanan", "Đơn hàng"}, Required: true},
	{Canonical: ColUnitsSold, Alternates: []string{"支付件数", "Produk Terjual", "Sản phẩm"}, Required: true},
	{Canonical: ColEstROI, Alternates: []string{"投入产出比", "Estimasi Tingkat Pengembalian Keuntungan", "Tỷ suất lợi nhuận ước tính"}, Required: true},
}

var mapper = parser.NewFieldMapper(Aliases)

// Canonicalize 规范一个站点的原始报表
//
// 空表返回 nil, nil（没有数据不是错误）；缺少必需列返回 ErrBadHeader。
func Canonicalize(station string, tbl *parser.Table) ([]model.AdRecord, error) {
	if tbl.Empty() {
		return nil, nil
	}
	tbl.StripSpace()

	cols, missing := mapper.Map(tbl.Headers)
	if len(missing) > 0 {
		return nil, fmt.Errorf("%s 缺少列 %s: %w", station, strings.Join(missing, ", "), ErrBadHeader)
	}

	records := make([]model.AdRecord, 0, len(tbl.Rows))
	for i := range tbl.Rows {
		cell := func(col string) string {
			return tbl.Cell(i, cols[col])
		}
		rec, err := parseRecord(cell)
		if err != nil {
			return nil, fmt.Errorf("%s 第 %d 行: %w", station, i+1, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

func parseRecord(cell func(string) string) (model.AdRecord, error) {
	var rec model.AdRecord
	var err error

	if rec.Date, err = parser.ParseDate(cell(ColDate)); err != nil {
		return rec, err
	}
	rec.ProductName = cell(ColProductName)
	rec.SellerSKU = cell(ColSellerSKU)
	rec.SkuID = cell(ColSkuID)
	if rec.Spend, err = parser.ParseAmount(cell(ColSpend), 2); err != nil {
		return rec, err
	}
	if rec.Revenue, err = parser.ParseAmount(cell(ColRevenue), 2); err != nil {
		return rec, err
	}
	if rec.Orders, err = parser.ParseCount(cell(ColOrders)); err != nil {
		return rec, err
	}
	if rec.UnitsSold, err = parser.ParseCount(cell(ColUnitsSold)); err != nil {
		return rec, err
	}
	// 投入产出比只做展示，无法解析时记 0
	rec.EstROI, _ = parser.ParseAmount(strings.TrimSuffix(cell(ColEstROI), "%"), 2)
	return rec, nil
}

// ToTable 将统一口径数据还原为标准表头的表格
// 金额固定两位小数输出，再次 Canonicalize 得到相同结果
func ToTable(records []model.AdRecord) *parser.Table {
	tbl := &parser.Table{
		Headers: append([]string(nil), Columns...),
		Rows:    make([][]string, 0, len(records)),
	}
	for _, r := range records {
		tbl.Rows = append(tbl.Rows, []string{
			r.Date.Format("2006-01-02"),
			r.ProductName,
			r.SellerSKU,
			r.SkuID,
			strconv.FormatFloat(r.Spend, 'f', 2, 64),
			strconv.FormatFloat(r.Revenue, 'f', 2, 64),
			strconv.Itoa(r.Orders),
			strconv.Itoa(r.UnitsSold),
			strconv.FormatFloat(r.EstROI, 'f', 2, 64),
		})
	}
	return tbl
}
