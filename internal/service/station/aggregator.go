// Package station 汇总单个账号站点的广告表现
package station

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ZhangYupengCHY/lazada/internal/model"
)

// KeepPoint 金额与 ROI 保留的小数位
const KeepPoint int32 = 2

// Result 一个站点的三种汇总；对应子集为空时为 nil
type Result struct {
	Key          model.AccountKey
	StationLevel []model.StationPerf
	OrderedSKU   []model.SkuPerf
	UnorderedSKU []model.UnorderedSkuPerf
}

// Convert 本币金额换算并保留两位小数
func Convert(rate, amount float64) float64 {
	return decimal.NewFromFloat(rate).Mul(decimal.NewFromFloat(amount)).Round(KeepPoint).InexactFloat64()
}

// ROI 销售额/花费，花费为 0 时返回 0
// 花费为负（平台退款冲销）同样返回 0，不输出负 ROI
func ROI(spend, revenue float64) float64 {
	if spend <= 0 {
		return 0
	}
	return decimal.NewFromFloat(revenue).DivRound(decimal.NewFromFloat(spend), KeepPoint).InexactFloat64()
}

// Aggregate 计算一个站点的站点级、有订单 sku、无订单 sku 三种表现
func Aggregate(key model.AccountKey, records []model.AdRecord, rate float64) Result {
	return Result{
		Key:          key,
		StationLevel: StationLevel(key, records, rate),
		OrderedSKU:   OrderedSKU(key, records, rate),
		UnorderedSKU: UnorderedSKU(key, records),
	}
}

type daySku struct {
	date time.Time
	sku  string
}

// StationLevel 按日期汇总花费与销售额
func StationLevel(key model.AccountKey, records []model.AdRecord, rate float64) []model.StationPerf {
	if len(records) == 0 {
		return nil
	}

	type sums struct {
		spend, revenue decimal.Decimal
	}
	byDate := make(map[time.Time]*sums)
	var dates []time.Time
	for _, r := range records {
		s, ok := byDate[r.Date]
		if !ok {
			s = &sums{}
			byDate[r.Date] = s
			dates = append(dates, r.Date)
		}
		s.spend = s.spend.Add(decimal.NewFromFloat(r.Spend))
		s.revenue = s.revenue.Add(decimal.NewFromFloat(r.Revenue))
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	out := make([]model.StationPerf, 0, len(dates))
	for _, d := range dates {
		s := byDate[d]
		spend := Convert(rate, s.spend.InexactFloat64())
		revenue := Convert(rate, s.revenue.InexactFloat64())
		out = append(out, model.StationPerf{
			Date:       d,
			Account:    key.Account,
			Site:       key.Site,
			SpendCNY:   spend,
			RevenueCNY: revenue,
			ROI:        ROI(spend, revenue),
		})
	}
	return out
}

// OrderedSKU 有订单的 sku 按 (日期, sku) 汇总
// 排序：日期升序、ROI 降序、销售额升序
func OrderedSKU(key model.AccountKey, records []model.AdRecord, rate float64) []model.SkuPerf {
	type sums struct {
		spend, revenue decimal.Decimal
		orders, units  int
	}
	groups := make(map[daySku]*sums)
	var order []daySku
	for _, r := range records {
		if r.Orders == 0 {
			continue
		}
		k := daySku{date: r.Date, sku: r.SellerSKU}
		s, ok := groups[k]
		if !ok {
			s = &sums{}
			groups[k] = s
			order = append(order, k)
		}
		s.spend = s.spend.Add(decimal.NewFromFloat(r.Spend))
		s.revenue = s.revenue.Add(decimal.NewFromFloat(r.Revenue))
		s.orders += r.Orders
		s.units += r.UnitsSold
	}
	if len(order) == 0 {
		return nil
	}

	out := make([]model.SkuPerf, 0, len(order))
	for _, k := range order {
		s := groups[k]
		spend := Convert(rate, s.spend.InexactFloat64())
		revenue := Convert(rate, s.revenue.InexactFloat64())
		out = append(out, model.SkuPerf{
			Date:       k.date,
			Account:    key.Account,
			Site:       key.Site,
			SellerSKU:  k.sku,
			SpendCNY:   spend,
			RevenueCNY: revenue,
			Orders:     s.orders,
			UnitsSold:  s.units,
			ROI:        ROI(spend, revenue),
		})
	}
	SortSkuPerf(out)
	return out
}

// SortSkuPerf 按 (日期升序, ROI 降序, 销售额升序) 稳定排序
func SortSkuPerf(rows []model.SkuPerf) {
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if !a.Date.Equal(b.Date) {
			return a.Date.Before(b.Date)
		}
		if a.ROI != b.ROI {
			return a.ROI > b.ROI
		}
		return a.RevenueCNY < b.RevenueCNY
	})
}

// UnorderedSKU 无订单的 sku 按 (日期, sku) 统计出现次数
func UnorderedSKU(key model.AccountKey, records []model.AdRecord) []model.UnorderedSkuPerf {
	counts := make(map[daySku]int)
	var order []daySku
	for _, r := range records {
		if r.Orders != 0 {
			continue
		}
		k := daySku{date: r.Date, sku: r.SellerSKU}
		if _, ok := counts[k]; !ok {
			order = append(order, k)
		}
		counts[k]++
	}
	if len(order) == 0 {
		return nil
	}

	sort.SliceStable(order, func(i, j int) bool { return order[i].date.Before(order[j].date) })
	out := make([]model.UnorderedSkuPerf, 0, len(order))
	for _, k := range order {
		out = append(out, model.UnorderedSkuPerf{
			Date:        k.date,
			Account:     key.Account,
			Site:        key.Site,
			SellerSKU:   k.sku,
			Occurrences: counts[k],
		})
	}
	return out
}

// Union 跨站点合并结果，跳过为空的汇总
type Union struct {
	StationLevel []model.StationPerf
	OrderedSKU   []model.SkuPerf
	UnorderedSKU []model.UnorderedSkuPerf
}

// Add 追加一个站点的结果
func (u *Union) Add(r Result) {
	if r.StationLevel != nil {
		u.StationLevel = append(u.StationLevel, r.StationLevel...)
	}
	if r.OrderedSKU != nil {
		u.OrderedSKU = append(u.OrderedSKU, r.OrderedSKU...)
	}
	if r.UnorderedSKU != nil {
		u.UnorderedSKU = append(u.UnorderedSKU, r.UnorderedSKU...)
	}
}
