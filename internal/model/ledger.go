package model

import "time"

// ShopLedgerRecord 店铺销量明细
type ShopLedgerRecord struct {
	PayDate    time.Time `json:"payDate"`
	Account    string    `json:"account"`
	Site       string    `json:"site"`
	SKU        string    `json:"sku"`
	Units      int       `json:"units"`
	RevenueCNY float64   `json:"revenueCny"`
	Platform   string    `json:"platform"`
	OrderID    string    `json:"orderId"`
	Currency   string    `json:"currency"`
}

// CoverageFlag 店铺销量 sku 是否出现在当日广告中
type CoverageFlag int

const (
	// NoAdData 账号当日没有广告数据
	NoAdData CoverageFlag = iota - 1
	// NotMatched 有广告数据但 sku 不在其中
	NotMatched
	// Matched sku 在当日广告中
	Matched
)

// String 报表展示值：1 / 0 / 空
func (f CoverageFlag) String() string {
	switch f {
	case Matched:
		return "1"
	case NotMatched:
		return "0"
	default:
		return ""
	}
}

// LedgerDaily 按 (付款日期, 账号, sku) 汇总后的店铺销量
type LedgerDaily struct {
	PayDate    time.Time `json:"payDate"`
	Account    string    `json:"account"`
	Site       string    `json:"site"`
	SKU        string    `json:"sku"`
	SellerSKU  string    `json:"sellerSku"`
	Units      int       `json:"units"`
	RevenueCNY float64   `json:"revenueCny"`
	Orders     int       `json:"orders"`

	Coverage CoverageFlag `json:"coverage"`
}
