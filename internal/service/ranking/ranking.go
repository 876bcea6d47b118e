// Package ranking 按店铺销售额给 seller sku 排名
package ranking

import (
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ZhangYupengCHY/lazada/internal/model"
)

// DefaultTopN 默认取前 10
const DefaultTopN = 10

// Result 排名结果
type Result struct {
	// LastDay 全部店铺销量中最大的付款日期
	LastDay time.Time

	Day1  []model.TopNEntry
	Day7  []model.TopNEntry
	Day30 []model.TopNEntry

	Daily []model.DailyRankEntry
}

// Window 返回指定窗口的排名
func (r Result) Window(w model.Window) []model.TopNEntry {
	switch w {
	case model.Window1D:
		return r.Day1
	case model.Window7D:
		return r.Day7
	case model.Window30D:
		return r.Day30
	default:
		return nil
	}
}

// Rank 计算各账号站点的窗口 TopN 与每日排名
// 没有 seller sku 的销量不参与排名
func Rank(daily []model.LedgerDaily, n int) Result {
	if n <= 0 {
		n = DefaultTopN
	}
	rows := make([]model.LedgerDaily, 0, len(daily))
	var res Result
	for _, d := range daily {
		if strings.TrimSpace(d.SellerSKU) == "" {
			continue
		}
		rows = append(rows, d)
		if d.PayDate.After(res.LastDay) {
			res.LastDay = d.PayDate
		}
	}
	if len(rows) == 0 {
		return res
	}

	res.Day1 = topN(rows, res.LastDay, model.Window1D, n)
	res.Day7 = topN(rows, res.LastDay, model.Window7D, n)
	res.Day30 = topN(rows, res.LastDay, model.Window30D, n)
	res.Daily = dailyRank(rows)
	return res
}

type accountSite struct {
	account string
	site    string
}

func topN(rows []model.LedgerDaily, lastDay time.Time, w model.Window, n int) []model.TopNEntry {
	from := lastDay.AddDate(0, 0, -w.Days())

	sums := make(map[accountSite]map[string]decimal.Decimal)
	for _, r := range rows {
		if r.PayDate.Before(from) || r.PayDate.After(lastDay) {
			continue
		}
		k := accountSite{account: r.Account, site: r.Site}
		if sums[k] == nil {
			sums[k] = make(map[string]decimal.Decimal)
		}
		sums[k][r.SellerSKU] = sums[k][r.SellerSKU].Add(decimal.NewFromFloat(r.RevenueCNY))
	}

	groups := make([]accountSite, 0, len(sums))
	for k := range sums {
		groups = append(groups, k)
	}
	sort.Slice(groups, func(i, j int) bool {
		if groups[i].account != groups[j].account {
			return groups[i].account < groups[j].account
		}
		return groups[i].site < groups[j].site
	})

	var out []model.TopNEntry
	for _, g := range groups {
		entries := make([]model.TopNEntry, 0, len(sums[g]))
		for sku, rev := range sums[g] {
			entries = append(entries, model.TopNEntry{
				Account:    g.account,
				Site:       g.site,
				Window:     w,
				SellerSKU:  sku,
				RevenueCNY: rev.Round(2).InexactFloat64(),
			})
		}
		sort.Slice(entries, func(i, j int) bool {
			if entries[i].RevenueCNY != entries[j].RevenueCNY {
				return entries[i].RevenueCNY > entries[j].RevenueCNY
			}
			return entries[i].SellerSKU < entries[j].SellerSKU
		})
		if len(entries) > n {
			entries = entries[:n]
		}
		for i := range entries {
			entries[i].Rank = i + 1
			out = append(out, entries[i])
		}
	}
	return out
}

// dailyRank 每个 (付款日期, 账号) 内按销售额降序编号，销售额相同保持原顺序
func dailyRank(rows []model.LedgerDaily) []model.DailyRankEntry {
	type dayAccount struct {
		day     time.Time
		account string
	}
	parts := make(map[dayAccount][]model.DailyRankEntry)
	for _, r := range rows {
		k := dayAccount{day: r.PayDate, account: r.Account}
		parts[k] = append(parts[k], model.DailyRankEntry{
			PayDate:    r.PayDate,
			Account:    r.Account,
			SellerSKU:  r.SellerSKU,
			ErpSKU:     r.SKU,
			RevenueCNY: r.RevenueCNY,
			Units:      r.Units,
		})
	}

	keys := make([]dayAccount, 0, len(parts))
	for k := range parts {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if !keys[i].day.Equal(keys[j].day) {
			return keys[i].day.Before(keys[j].day)
		}
		return keys[i].account < keys[j].account
	})

	var out []model.DailyRankEntry
	for _, k := range keys {
		p := parts[k]
		sort.SliceStable(p, func(i, j int) bool {
			return p[i].RevenueCNY > p[j].RevenueCNY
		})
		for i := range p {
			p[i].Rank = i + 1
		}
		out = append(out, p...)
	}
	return out
}

// SideBySideRow 同一账号站点、同一名次在三个窗口中的 sku
type SideBySideRow struct {
	Account string
	Site    string
	Rank    int
	Cells   map[model.Window]model.TopNEntry
}

// SideBySide 按名次把三个窗口的排名拼成一行；某窗口没有该名次时对应格为空
func SideBySide(r Result) []SideBySideRow {
	type rowKey struct {
		group accountSite
		rank  int
	}
	index := make(map[rowKey]*SideBySideRow)
	var keys []rowKey
	for _, w := range model.Windows {
		for _, e := range r.Window(w) {
			k := rowKey{group: accountSite{account: e.Account, site: e.Site}, rank: e.Rank}
			row, ok := index[k]
			if !ok {
				row = &SideBySideRow{
					Account: e.Account,
					Site:    e.Site,
					Rank:    e.Rank,
					Cells:   make(map[model.Window]model.TopNEntry, len(model.Windows)),
				}
				index[k] = row
				keys = append(keys, k)
			}
			row.Cells[w] = e
		}
	}

	sort.Slice(keys, func(i, j int) bool {
		a, b := keys[i], keys[j]
		if a.group.account != b.group.account {
			return a.group.account < b.group.account
		}
		if a.group.site != b.group.site {
			return a.group.site < b.group.site
		}
		return a.rank < b.rank
	})
	out := make([]SideBySideRow, 0, len(keys))
	for _, k := range keys {
		out = append(out, *index[k])
	}
	return out
}
