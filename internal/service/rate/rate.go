// Package rate 获取各站点本币到人民币/美元的汇率
package rate

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/ZhangYupengCHY/lazada/internal/model"
)

// Provider 汇率来源
type Provider interface {
	Rates(ctx context.Context) *model.RateTable
}

// FallbackCurrency 内置汇率的目标币种
const FallbackCurrency = "CNY"

// Fallback 接口不可用时使用的人民币汇率
func Fallback() *model.RateTable {
	return &model.RateTable{
		Rates: map[model.Site]float64{
			model.SiteID: 0.000481,
			model.SiteMY: 1.646287,
			model.SitePH: 0.142238,
			model.SiteSG: 5.07489,
			model.SiteTH: 0.22187,
			model.SiteVN: 0.000303,
		},
		UpdatedAt: "",
		Source:    model.RateFallback,
	}
}

// 报价时间按东八区展示
var quoteZone = time.FixedZone("UTC+8", 8*3600)

// CurrencyLayer currencylayer live 接口
type CurrencyLayer struct {
	endpoint  string
	accessKey string
	home      string
	client    *http.Client
	logger    zerolog.Logger
}

// NewCurrencyLayer 创建汇率客户端；home 为 CNY 或 USD
func NewCurrencyLayer(endpoint, accessKey, home string, logger zerolog.Logger) *CurrencyLayer {
	return &CurrencyLayer{
		endpoint:  endpoint,
		accessKey: accessKey,
		home:      home,
		client:    &http.Client{Timeout: 30 * time.Second},
		logger:    logger,
	}
}

type liveResponse struct {
	Success   bool               `json:"success"`
	Timestamp int64              `json:"timestamp"`
	Quotes    map[string]float64 `json:"quotes"`
}

// Rates 请求实时汇率，任何失败都返回内置汇率
func (c *CurrencyLayer) Rates(ctx context.Context) *model.RateTable {
	table, err := c.fetch(ctx)
	if err != nil {
		fb := Fallback()
		c.logger.Warn().
			Err(err).
			Str("endpoint", c.endpoint).
			Interface("rates", fb.Rates).
			Msg("汇率接口不可用，使用内置汇率")
		if c.home != FallbackCurrency {
			c.logger.Error().
				Str("home", c.home).
				Str("fallbackCurrency", FallbackCurrency).
				Msg("内置汇率为人民币汇率，报表金额按人民币换算")
		}
		return fb
	}
	return table
}

func (c *CurrencyLayer) fetch(ctx context.Context) (*model.RateTable, error) {
	u, err := url.Parse(c.endpoint)
	if err != nil {
		return nil, err
	}
	q := u.Query()
	q.Set("access_key", c.accessKey)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status code is %d", resp.StatusCode)
	}

	var body liveResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("解析汇率失败: %w", err)
	}
	return FromQuotes(body.Quotes, body.Timestamp, c.home)
}

// FromQuotes 由 USD 报价计算站点汇率（保留 6 位小数）
func FromQuotes(quotes map[string]float64, timestamp int64, home string) (*model.RateTable, error) {
	homeRate := decimal.NewFromInt(1)
	if home == "CNY" {
		q, ok := quotes["USDCNY"]
		if !ok || q <= 0 {
			return nil, fmt.Errorf("缺少报价 USDCNY")
		}
		homeRate = decimal.NewFromFloat(q)
	} else if home != "USD" {
		return nil, fmt.Errorf("目标币种只能是 CNY 或 USD: %s", home)
	}

	table := &model.RateTable{
		Rates:  make(map[model.Site]float64),
		Source: model.RateLive,
	}
	for _, site := range model.Sites() {
		code := "USD" + site.Currency()
		q, ok := quotes[code]
		if !ok || q <= 0 {
			return nil, fmt.Errorf("缺少报价 %s", code)
		}
		table.Rates[site] = decimal.NewFromInt(1).
			DivRound(decimal.NewFromFloat(q), 16).
			Mul(homeRate).
			Round(6).
			InexactFloat64()
	}
	if timestamp > 0 {
		table.UpdatedAt = time.Unix(timestamp, 0).In(quoteZone).Format("2006-01-02 15-04-05")
	}
	return table, nil
}

// Static 固定汇率（测试或离线使用）
type Static struct {
	Table *model.RateTable
}

// Rates 返回固定汇率
func (s Static) Rates(context.Context) *model.RateTable {
	if s.Table == nil {
		return Fallback()
	}
	return s.Table
}
