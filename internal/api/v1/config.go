package v1

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ZhangYupengCHY/lazada/internal/config"
)

// GetConfig 获取配置（不含汇率接口密钥）
// GET /api/config
func (h *Handler) GetConfig(c *gin.Context) {
	c.JSON(http.StatusOK, h.currentConfig())
}

// UpdateConfig 部分更新配置并写回 config.toml
// PATCH /api/config
//
// 请求体与 GET 返回的结构相同，只需包含要修改的字段。
func (h *Handler) UpdateConfig(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil || len(body) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请求体为空"})
		return
	}

	h.cfgMu.Lock()
	defer h.cfgMu.Unlock()

	// 在副本上合并，校验通过后再替换
	next := *h.cfg
	next.Pipeline.AccountMapFiles = append([]string(nil), h.cfg.Pipeline.AccountMapFiles...)
	next.Pipeline.LedgerFiles = append([]string(nil), h.cfg.Pipeline.LedgerFiles...)
	if err := json.Unmarshal(body, &next); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请求参数错误: " + err.Error()})
		return
	}
	if err := next.Validate(); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, config.ErrInvalidConfig) {
			status = http.StatusBadRequest
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	if err := h.deps.SaveConfig(&next); err != nil {
		h.deps.Logger.Error().Err(err).Msg("保存配置失败")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "保存配置失败"})
		return
	}

	h.cfg = &next
	c.JSON(http.StatusOK, h.cfg)
}
