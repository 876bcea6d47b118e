package v1

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ZhangYupengCHY/lazada/internal/pipeline"
)

// RunRequest 处理请求
type RunRequest struct {
	Folder string `json:"folder"`
}

// RunStream 处理文件夹（SSE 进度 + 完成后提供下载地址）
// POST /api/run/stream
func (h *Handler) RunStream(c *gin.Context) {
	var req RunRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Folder) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请输入文件夹路径"})
		return
	}
	if !h.running.CompareAndSwap(false, true) {
		c.JSON(http.StatusConflict, gin.H{"error": "已有任务在运行，请稍后再试"})
		return
	}
	defer h.running.Store(false)

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "不支持流式响应"})
		return
	}

	send := func(event pipeline.ProgressEvent) {
		b, err := json.Marshal(event)
		if err != nil {
			return
		}
		fmt.Fprintf(c.Writer, "data: %s\n\n", b)
		flusher.Flush()
	}

	cfg := h.currentConfig()
	runner := h.deps.NewRunner(cfg)
	for event := range runner.Run(c.Request.Context(), pipeline.OptionsFromConfig(cfg, req.Folder)) {
		switch event.Type {
		case pipeline.EventDone:
			summary, _ := event.Data.(*pipeline.Summary)
			h.recordRun(summary, "")
			if summary != nil {
				token := h.downloads.put(summary.OutputPath, 30*time.Minute)
				event.Data = gin.H{
					"summary":     summary,
					"downloadUrl": "/api/report/download/" + token,
				}
			}
		case pipeline.EventError, pipeline.EventAnomaly:
			h.recordRun(nil, event.Message)
		}
		send(event)
	}
}

func (h *Handler) recordRun(summary *pipeline.Summary, errMsg string) {
	h.lastMu.Lock()
	defer h.lastMu.Unlock()
	h.lastRun = summary
	h.lastError = errMsg
}

// DownloadReport 下载生成的报表（token 一次性有效）
// GET /api/report/download/:token
func (h *Handler) DownloadReport(c *gin.Context) {
	token := c.Param("token")
	if token == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "缺少 token"})
		return
	}

	item, ok := h.downloads.take(token)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "下载链接已失效"})
		return
	}
	if _, err := os.Stat(item.filePath); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "报表文件不存在"})
		return
	}

	c.Header("Content-Disposition", contentDisposition(filepath.Base(item.filePath)))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.File(item.filePath)
}

func contentDisposition(name string) string {
	return fmt.Sprintf("attachment; filename=\"lazada-station-perf.xlsx\"; filename*=UTF-8''%s", url.PathEscape(name))
}
