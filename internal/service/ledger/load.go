// Package ledger 读取店铺销量并与广告 sku 表现关联
package ledger

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ZhangYupengCHY/lazada/internal/model"
	"github.com/ZhangYupengCHY/lazada/internal/parser"
)

// 店铺销量标准列名
const (
	ColPayDate  = "pay_date"
	ColAccount  = "account"
	ColSite     = "site"
	ColSKU      = "sku"
	ColUnits    = "units"
	ColRevenue  = "revenue"
	ColPlatform = "platform"
	ColOrderID  = "order_id"
	ColCurrency = "currency"
)

// ErrBadHeader 店铺销量缺少必需列
var ErrBadHeader = errors.New("bad ledger header")

var aliases = []parser.ColumnAlias{
	{Canonical: ColPayDate, Alternates: []string{"付款时间", "付款日期", "paytime", "pay date"}, Required: true},
	{Canonical: ColAccount, Alternates: []string{"账号", "店铺账号", "店铺", "shop_account"}, Required: true},
	{Canonical: ColSite, Alternates: []string{"站点", "country"}},
	{Canonical: ColSKU, Alternates: []string{"erp sku", "erp_sku", "公司sku"}, Required: true},
	{Canonical: ColUnits, Alternates: []string{"销量", "数量", "quantity"}, Required: true},
	{Canonical: ColRevenue, Alternates: []string{"销售额", "销售额(人民币)", "revenue_cny"}, Required: true},
	{Canonical: ColPlatform, Alternates: []string{"平台"}},
	{Canonical: ColOrderID, Alternates: []string{"订单号", "order id"}},
	{Canonical: ColCurrency, Alternates: []string{"币种"}},
}

var mapper = parser.NewFieldMapper(aliases)

// Load 读取店铺销量文件（xlsx 或 csv，首行为表头）
func Load(path string) ([]model.ShopLedgerRecord, error) {
	tbl, err := parser.ReadFile(path, 0)
	if err != nil {
		return nil, fmt.Errorf("读取店铺销量失败: %w", err)
	}
	return FromTable(tbl)
}

// FromTable 把表格转换为店铺销量明细；sku 为空的行忽略
func FromTable(tbl *parser.Table) ([]model.ShopLedgerRecord, error) {
	if tbl.Empty() {
		return nil, nil
	}
	tbl.StripSpace()

	cols, missing := mapper.Map(tbl.Headers)
	if len(missing) > 0 {
		return nil, fmt.Errorf("%s 缺少列 %s: %w", tbl.Source, strings.Join(missing, ", "), ErrBadHeader)
	}
	get := func(row int, col string) string {
		idx, ok := cols[col]
		if !ok {
			return ""
		}
		return tbl.Cell(row, idx)
	}

	var err error
	records := make([]model.ShopLedgerRecord, 0, len(tbl.Rows))
	for i := range tbl.Rows {
		rec := model.ShopLedgerRecord{
			Account:  strings.ToUpper(get(i, ColAccount)),
			Site:     strings.ToUpper(get(i, ColSite)),
			SKU:      get(i, ColSKU),
			Platform: get(i, ColPlatform),
			OrderID:  get(i, ColOrderID),
			Currency: get(i, ColCurrency),
		}
		if rec.SKU == "" {
			continue
		}
		if rec.PayDate, err = parser.ParseDate(get(i, ColPayDate)); err != nil {
			return nil, fmt.Errorf("店铺销量第 %d 行: %w", i+2, err)
		}
		if rec.Units, err = parser.ParseCount(get(i, ColUnits)); err != nil {
			return nil, fmt.Errorf("店铺销量第 %d 行: %w", i+2, err)
		}
		if rec.RevenueCNY, err = parser.ParseAmount(get(i, ColRevenue), 2); err != nil {
			return nil, fmt.Errorf("店铺销量第 %d 行: %w", i+2, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

type dayAccountSku struct {
	day     time.Time
	account string
	sku     string
}

// Aggregate 按 (付款日期, 账号, sku) 汇总，保持首次出现顺序
// Orders 为不同订单号个数；没有订单号列时为明细行数
func Aggregate(records []model.ShopLedgerRecord) []model.LedgerDaily {
	type acc struct {
		row     model.LedgerDaily
		revenue decimal.Decimal
		orders  map[string]struct{}
		lines   int
	}

	index := make(map[dayAccountSku]*acc)
	var order []dayAccountSku
	for _, r := range records {
		k := dayAccountSku{day: r.PayDate, account: normalize(r.Account), sku: normalize(r.SKU)}
		a, ok := index[k]
		if !ok {
			a = &acc{
				row: model.LedgerDaily{
					PayDate: r.PayDate,
					Account: r.Account,
					Site:    r.Site,
					SKU:     r.SKU,
				},
				orders: make(map[string]struct{}),
			}
			index[k] = a
			order = append(order, k)
		}
		a.row.Units += r.Units
		a.revenue = a.revenue.Add(decimal.NewFromFloat(r.RevenueCNY))
		a.lines++
		if r.OrderID != "" {
			a.orders[r.OrderID] = struct{}{}
		}
	}

	out := make([]model.LedgerDaily, 0, len(order))
	for _, k := range order {
		a := index[k]
		a.row.RevenueCNY = a.revenue.Round(2).InexactFloat64()
		a.row.Orders = len(a.orders)
		if a.row.Orders == 0 {
			a.row.Orders = a.lines
		}
		out = append(out, a.row)
	}
	return out
}

func normalize(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}
