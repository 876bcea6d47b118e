package rate

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ZhangYupengCHY/lazada/internal/model"
)

const liveBody = `{
  "success": true,
  "timestamp": 1596240000,
  "source": "USD",
  "quotes": {
    "USDCNY": 7.0,
    "USDIDR": 14000,
    "USDMYR": 4.2,
    "USDPHP": 49.0,
    "USDSGD": 1.4,
    "USDTHB": 31.0,
    "USDVND": 23000
  }
}`

func TestCurrencyLayer_Live(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "secret", r.URL.Query().Get("access_key"))
		_, _ = w.Write([]byte(liveBody))
	}))
	defer srv.Close()

	table := NewCurrencyLayer(srv.URL+"/live", "secret", "CNY", zerolog.Nop()).Rates(context.Background())
	assert.Equal(t, model.RateLive, table.Source)
	assert.Equal(t, 0.0005, table.Rates[model.SiteID])
	assert.Equal(t, 5.0, table.Rates[model.SiteSG])
	assert.Equal(t, 1.666667, table.Rates[model.SiteMY])
	assert.Equal(t, "2020-08-01 08-00-00", table.UpdatedAt)
}

func TestCurrencyLayer_FallbackOnNon200(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	table := NewCurrencyLayer(srv.URL, "k", "CNY", zerolog.Nop()).Rates(context.Background())
	assert.Equal(t, model.RateFallback, table.Source)
	assert.Equal(t, "", table.UpdatedAt)
	assert.Len(t, table.Rates, 6)
	assert.Equal(t, 0.000481, table.Rates[model.SiteID])
}

func TestCurrencyLayer_FallbackOnBadPayload(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success":false,"error":{"code":101}}`))
	}))
	defer srv.Close()

	table := NewCurrencyLayer(srv.URL, "k", "CNY", zerolog.Nop()).Rates(context.Background())
	assert.Equal(t, model.RateFallback, table.Source)
}

func TestCurrencyLayer_FallbackLogsHomeMismatch(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	var usdLog bytes.Buffer
	table := NewCurrencyLayer(srv.URL, "k", "USD", zerolog.New(&usdLog)).Rates(context.Background())
	assert.Equal(t, model.RateFallback, table.Source)
	assert.Contains(t, usdLog.String(), `"home":"USD"`)
	assert.Contains(t, usdLog.String(), `"fallbackCurrency":"CNY"`)

	var cnyLog bytes.Buffer
	NewCurrencyLayer(srv.URL, "k", "CNY", zerolog.New(&cnyLog)).Rates(context.Background())
	assert.NotContains(t, cnyLog.String(), "fallbackCurrency")
}

func TestFromQuotes_USD(t *testing.T) {
	t.Parallel()

	table, err := FromQuotes(map[string]float64{
		"USDIDR": 14000, "USDMYR": 4, "USDPHP": 50, "USDSGD": 1.25, "USDTHB": 32, "USDVND": 25000,
	}, 0, "USD")
	require.NoError(t, err)
	assert.Equal(t, 0.25, table.Rates[model.SiteMY])
	assert.Equal(t, 0.8, table.Rates[model.SiteSG])
	assert.Equal(t, 0.00004, table.Rates[model.SiteVN])
	assert.Equal(t, "", table.UpdatedAt)

	_, err = FromQuotes(map[string]float64{}, 0, "EUR")
	assert.Error(t, err)
}

func TestStatic(t *testing.T) {
	t.Parallel()

	tbl := &model.RateTable{Rates: map[model.Site]float64{model.SiteID: 0.0005}}
	assert.Same(t, tbl, Static{Table: tbl}.Rates(context.Background()))
	assert.Equal(t, model.RateFallback, Static{}.Rates(context.Background()).Source)
}
