package ledger

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/ZhangYupengCHY/lazada/internal/model"
)

// JoinResult 关联后的结果；输入切片不被修改
type JoinResult struct {
	Ordered   []model.SkuPerf
	Unordered []model.UnorderedSkuPerf
	// Daily 带覆盖标记的店铺销量
	Daily []model.LedgerDaily
	// ShopSaleNoAd 店铺有销量但当日没有投放的 sku
	ShopSaleNoAd []model.LedgerDaily
}

type dayAccount struct {
	day     time.Time
	account string
}

// Join 用店铺销量补充 sku 表现
//
// 有订单 sku 得到销量/销售额占比（店铺侧为 0 或缺失时无效）；
// 无订单 sku 得到当日店铺销量；每条店铺销量标记是否在当日投放的 sku 中。
func Join(ordered []model.SkuPerf, unordered []model.UnorderedSkuPerf, daily []model.LedgerDaily) JoinResult {
	shop := make(map[dayAccountSku]model.LedgerDaily, len(daily))
	for _, d := range daily {
		k := dayAccountSku{day: d.PayDate, account: normalize(d.Account), sku: normalize(d.SKU)}
		if _, ok := shop[k]; !ok {
			shop[k] = d
		}
	}

	adDays := make(map[dayAccount]struct{})
	advertised := make(map[dayAccountSku]struct{})
	mark := func(day time.Time, account, erp string) {
		adDays[dayAccount{day: day, account: normalize(account)}] = struct{}{}
		if erp != "" {
			advertised[dayAccountSku{day: day, account: normalize(account), sku: normalize(erp)}] = struct{}{}
		}
	}

	res := JoinResult{
		Ordered:   make([]model.SkuPerf, len(ordered)),
		Unordered: make([]model.UnorderedSkuPerf, len(unordered)),
		Daily:     make([]model.LedgerDaily, len(daily)),
	}

	for i, o := range ordered {
		mark(o.Date, o.Account, o.ErpSKU)
		if o.ErpSKU != "" {
			if s, ok := shop[dayAccountSku{day: o.Date, account: normalize(o.Account), sku: normalize(o.ErpSKU)}]; ok {
				o.UnitsShare = SharePercent(float64(o.UnitsSold), float64(s.Units))
				o.RevenueShare = SharePercent(o.RevenueCNY, s.RevenueCNY)
			} else {
				o.UnitsShare = model.Share{}
				o.RevenueShare = model.Share{}
			}
		}
		res.Ordered[i] = o
	}

	for i, u := range unordered {
		mark(u.Date, u.Account, u.ErpSKU)
		if u.ErpSKU != "" {
			if s, ok := shop[dayAccountSku{day: u.Date, account: normalize(u.Account), sku: normalize(u.ErpSKU)}]; ok {
				u.ShopUnits = s.Units
				u.ShopRevenueCNY = s.RevenueCNY
			}
		}
		res.Unordered[i] = u
	}

	for i, d := range daily {
		switch {
		case !hasKey(adDays, dayAccount{day: d.PayDate, account: normalize(d.Account)}):
			d.Coverage = model.NoAdData
		case hasKey(advertised, dayAccountSku{day: d.PayDate, account: normalize(d.Account), sku: normalize(d.SKU)}):
			d.Coverage = model.Matched
		default:
			d.Coverage = model.NotMatched
		}
		res.Daily[i] = d
		if d.Coverage != model.Matched {
			res.ShopSaleNoAd = append(res.ShopSaleNoAd, d)
		}
	}
	return res
}

// SharePercent ad*100/shop 保留两位小数；shop 为 0 时无效
func SharePercent(ad, shop float64) model.Share {
	if shop == 0 {
		return model.Share{}
	}
	v := decimal.NewFromFloat(ad).
		Mul(decimal.NewFromInt(100)).
		DivRound(decimal.NewFromFloat(shop), 2)
	return model.Share{Value: v.InexactFloat64(), Valid: true}
}

func hasKey[K comparable](m map[K]struct{}, k K) bool {
	_, ok := m[k]
	return ok
}
