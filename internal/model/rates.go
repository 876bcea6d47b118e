package model

// RateSource 汇率来源
type RateSource string

const (
	RateLive     RateSource = "live"
	RateFallback RateSource = "fallback"
)

// RateTable 站点本币到目标币种的换算系数
type RateTable struct {
	Rates     map[Site]float64 `json:"rates"`
	UpdatedAt string           `json:"updatedAt"`
	Source    RateSource       `json:"source"`
}

// Rate 站点汇率，未知站点返回 false
func (t *RateTable) Rate(site Site) (float64, bool) {
	if t == nil || t.Rates == nil {
		return 0, false
	}
	r, ok := t.Rates[site]
	return r, ok
}
