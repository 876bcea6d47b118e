package model

import "time"

// AdRecord 统一口径的广告数据行
type AdRecord struct {
	Date        time.Time `json:"date"`
	ProductName string    `json:"productName"`
	SellerSKU   string    `json:"sellerSku"`
	SkuID       string    `json:"skuId"`
	Spend       float64   `json:"spend"`
	Revenue     float64   `json:"revenue"`
	Orders      int       `json:"orders"`
	UnitsSold   int       `json:"unitsSold"`
	EstROI      float64   `json:"estRoi"`
}

// StationPerf 站点每日表现（本币已换算）
type StationPerf struct {
	Date       time.Time `json:"date"`
	Account    string    `json:"account"`
	Site       Site      `json:"site"`
	SpendCNY   float64   `json:"spendCny"`
	RevenueCNY float64   `json:"revenueCny"`
	ROI        float64   `json:"roi"`
}

// Share 占比（百分数数值）
// Valid 为 false 表示店铺侧分母为 0 或缺失
type Share struct {
	Value float64 `json:"value"`
	Valid bool    `json:"valid"`
}

// SkuPerf 有订单 sku 每日表现
type SkuPerf struct {
	Date       time.Time `json:"date"`
	Account    string    `json:"account"`
	Site       Site      `json:"site"`
	SellerSKU  string    `json:"sellerSku"`
	ErpSKU     string    `json:"erpSku"`
	SpendCNY   float64   `json:"spendCny"`
	RevenueCNY float64   `json:"revenueCny"`
	Orders     int       `json:"orders"`
	UnitsSold  int       `json:"unitsSold"`
	ROI        float64   `json:"roi"`

	UnitsShare   Share `json:"unitsShare"`
	RevenueShare Share `json:"revenueShare"`
}

// UnorderedSkuPerf 无订单 sku 每日出现次数
type UnorderedSkuPerf struct {
	Date        time.Time `json:"date"`
	Account     string    `json:"account"`
	Site        Site      `json:"site"`
	SellerSKU   string    `json:"sellerSku"`
	ErpSKU      string    `json:"erpSku"`
	Occurrences int       `json:"occurrences"`

	// 当日店铺侧销量（无对应店铺记录时为 0）
	ShopUnits      int     `json:"shopUnits"`
	ShopRevenueCNY float64 `json:"shopRevenueCny"`
}

// IdentityLink seller sku 与 erp sku 对应关系
type IdentityLink struct {
	SellerSKU   string `json:"seller_sku"`
	ErpSKU      string `json:"sku"`
	AccountName string `json:"seller_name"`
}

// Empty 未匹配时的空对应
func (l IdentityLink) Empty() bool {
	return l.SellerSKU == "" && l.ErpSKU == "" && l.AccountName == ""
}
