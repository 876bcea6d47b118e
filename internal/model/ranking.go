package model

import "time"

// Window 排名时间窗口
type Window string

const (
	Window1D  Window = "1d"
	Window7D  Window = "7d"
	Window30D Window = "30d"
)

// Windows 全部窗口（展示顺序）
var Windows = []Window{Window1D, Window7D, Window30D}

// Days 窗口向前回溯的天数
func (w Window) Days() int {
	switch w {
	case Window7D:
		return 7
	case Window30D:
		return 30
	default:
		return 0
	}
}

// Label 报表列名
func (w Window) Label() string {
	switch w {
	case Window1D:
		return "昨天"
	case Window7D:
		return "近7天"
	case Window30D:
		return "近30天"
	default:
		return string(w)
	}
}

// TopNEntry 窗口内销售额排名
type TopNEntry struct {
	Account    string  `json:"account"`
	Site       string  `json:"site"`
	Window     Window  `json:"window"`
	Rank       int     `json:"rank"`
	SellerSKU  string  `json:"sellerSku"`
	RevenueCNY float64 `json:"revenueCny"`
}

// DailyRankEntry 每日销售额排名
type DailyRankEntry struct {
	PayDate    time.Time `json:"payDate"`
	Account    string    `json:"account"`
	SellerSKU  string    `json:"sellerSku"`
	ErpSKU     string    `json:"erpSku"`
	RevenueCNY float64   `json:"revenueCny"`
	Units      int       `json:"units"`
	Rank       int       `json:"rank"`
}
