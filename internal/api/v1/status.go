package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ZhangYupengCHY/lazada/internal/exporter"
	"github.com/ZhangYupengCHY/lazada/internal/model"
	"github.com/ZhangYupengCHY/lazada/internal/pipeline"
)

// StatusResponse 系统状态响应
type StatusResponse struct {
	Running   bool              `json:"running"`   // 是否有任务在运行
	LastRun   *pipeline.Summary `json:"lastRun"`   // 最近一次成功运行
	LastError string            `json:"lastError"` // 最近一次失败原因
}

// GetStatus 获取系统状态
// GET /api/status
func (h *Handler) GetStatus(c *gin.Context) {
	h.lastMu.Lock()
	resp := StatusResponse{
		Running:   h.running.Load(),
		LastRun:   h.lastRun,
		LastError: h.lastError,
	}
	h.lastMu.Unlock()
	c.JSON(http.StatusOK, resp)
}

// RateRow 汇率表一行
type RateRow struct {
	Site    model.Site `json:"site"`
	NameZH  string     `json:"nameZh"`
	Country string     `json:"country"`
	Rate    float64    `json:"rate"`
}

// RatesResponse 汇率响应
type RatesResponse struct {
	Source    model.RateSource `json:"source"`
	UpdatedAt string           `json:"updatedAt"`
	Rows      []RateRow        `json:"rows"`
}

// GetRates 查询当前汇率（接口不可用时为内置汇率）
// GET /api/rates
func (h *Handler) GetRates(c *gin.Context) {
	table := h.deps.NewRates(h.currentConfig()).Rates(c.Request.Context())
	resp := RatesResponse{
		Source:    table.Source,
		UpdatedAt: table.UpdatedAt,
	}
	for _, site := range model.Sites() {
		r, ok := table.Rate(site)
		if !ok {
			continue
		}
		resp.Rows = append(resp.Rows, RateRow{
			Site:    site,
			NameZH:  site.NameZH(),
			Country: exporter.CountryName(site),
			Rate:    r,
		})
	}
	c.JSON(http.StatusOK, resp)
}
