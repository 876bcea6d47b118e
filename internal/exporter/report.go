package exporter

import (
	"github.com/ZhangYupengCHY/lazada/internal/model"
	"github.com/ZhangYupengCHY/lazada/internal/service/ranking"
)

// 工作表名
const (
	SheetStation      = "站点表现"
	SheetOrdered      = "有订单sku表现"
	SheetUnordered    = "无订单sku表现"
	SheetShopSaleNoAd = "店铺有销量无广告"
	SheetTopN         = "销量前十"
	SheetDailyRank    = "每日销量排名"
	SheetNoFile       = "无文件账号"
	SheetRates        = "汇率"
)

// Sheet 一个待写出的工作表
type Sheet struct {
	Name    string
	Headers []string
	Rows    [][]interface{}
}

// Report 报表全部内容
type Report struct {
	StationLevel []model.StationPerf
	OrderedSKU   []model.SkuPerf
	UnorderedSKU []model.UnorderedSkuPerf
	ShopSaleNoAd []model.LedgerDaily
	TopN         []ranking.SideBySideRow
	DailyRank    []model.DailyRankEntry
	NoFile       []string
	Rates        *model.RateTable
}

// Sheets 按固定顺序生成工作表；没有数据的表不输出
func (r Report) Sheets() []Sheet {
	all := []Sheet{
		stationSheet(r.StationLevel),
		orderedSheet(r.OrderedSKU),
		unorderedSheet(r.UnorderedSKU),
		shopSaleNoAdSheet(r.ShopSaleNoAd),
		topNSheet(r.TopN),
		dailyRankSheet(r.DailyRank),
		noFileSheet(r.NoFile),
		rateSheet(r.Rates),
	}
	out := make([]Sheet, 0, len(all))
	for _, s := range all {
		if len(s.Rows) > 0 {
			out = append(out, s)
		}
	}
	return out
}

func stationSheet(rows []model.StationPerf) Sheet {
	s := Sheet{
		Name:    SheetStation,
		Headers: []string{"Date", "account", "site", "Spend", "Revenue", "ROI"},
	}
	for _, r := range rows {
		s.Rows = append(s.Rows, []interface{}{FormatDate(r.Date), r.Account, string(r.Site), r.SpendCNY, r.RevenueCNY, r.ROI})
	}
	return s
}

func orderedSheet(rows []model.SkuPerf) Sheet {
	s := Sheet{
		Name: SheetOrdered,
		Headers: []string{
			"Date", "account", "site", "Seller SKU", "erp sku", "Spend", "Revenue",
			"Orders", "Units Sold", "ROI", "销量占比", "销售额占比",
		},
	}
	for _, r := range rows {
		s.Rows = append(s.Rows, []interface{}{
			FormatDate(r.Date), r.Account, string(r.Site), r.SellerSKU, r.ErpSKU,
			r.SpendCNY, r.RevenueCNY, r.Orders, r.UnitsSold, r.ROI,
			FormatShare(r.UnitsShare), FormatShare(r.RevenueShare),
		})
	}
	return s
}

func unorderedSheet(rows []model.UnorderedSkuPerf) Sheet {
	s := Sheet{
		Name:    SheetUnordered,
		Headers: []string{"Date", "account", "site", "Seller SKU", "erp sku", "次数", "店铺销量", "店铺销售额"},
	}
	for _, r := range rows {
		s.Rows = append(s.Rows, []interface{}{
			FormatDate(r.Date), r.Account, string(r.Site), r.SellerSKU, r.ErpSKU,
			r.Occurrences, r.ShopUnits, r.ShopRevenueCNY,
		})
	}
	return s
}

func shopSaleNoAdSheet(rows []model.LedgerDaily) Sheet {
	s := Sheet{
		Name:    SheetShopSaleNoAd,
		Headers: []string{"付款日期", "账号", "站点", "sku", "Seller SKU", "销量", "销售额", "订单数", "当日投放"},
	}
	for _, r := range rows {
		s.Rows = append(s.Rows, []interface{}{
			FormatDate(r.PayDate), r.Account, r.Site, r.SKU, r.SellerSKU,
			r.Units, r.RevenueCNY, r.Orders, r.Coverage.String(),
		})
	}
	return s
}

func topNSheet(rows []ranking.SideBySideRow) Sheet {
	s := Sheet{
		Name:    SheetTopN,
		Headers: []string{"账号", "站点", "排名"},
	}
	for _, w := range model.Windows {
		s.Headers = append(s.Headers, w.Label()+" Seller SKU", w.Label()+"销售额")
	}
	for _, r := range rows {
		line := []interface{}{r.Account, r.Site, r.Rank}
		for _, w := range model.Windows {
			if e, ok := r.Cells[w]; ok {
				line = append(line, e.SellerSKU, e.RevenueCNY)
			} else {
				line = append(line, "", "")
			}
		}
		s.Rows = append(s.Rows, line)
	}
	return s
}

func dailyRankSheet(rows []model.DailyRankEntry) Sheet {
	s := Sheet{
		Name:    SheetDailyRank,
		Headers: []string{"付款日期", "账号", "Seller SKU", "sku", "销售额", "销量", "排名"},
	}
	for _, r := range rows {
		s.Rows = append(s.Rows, []interface{}{
			FormatDate(r.PayDate), r.Account, r.SellerSKU, r.ErpSKU, r.RevenueCNY, r.Units, r.Rank,
		})
	}
	return s
}

func noFileSheet(names []string) Sheet {
	s := Sheet{Name: SheetNoFile, Headers: []string{"站点"}}
	for _, n := range names {
		s.Rows = append(s.Rows, []interface{}{n})
	}
	return s
}

func rateSheet(t *model.RateTable) Sheet {
	s := Sheet{Name: SheetRates, Headers: []string{"国家", "国家简称", "Country", "汇率"}}
	if t == nil {
		return s
	}
	for _, site := range model.Sites() {
		rate, ok := t.Rate(site)
		if !ok {
			continue
		}
		s.Rows = append(s.Rows, []interface{}{site.NameZH(), string(site), CountryName(site), rate})
	}
	s.Rows = append(s.Rows, []interface{}{"", "更新时间", "", t.UpdatedAt})
	return s
}
