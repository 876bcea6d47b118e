package v1

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/ZhangYupengCHY/lazada/internal/config"
	"github.com/ZhangYupengCHY/lazada/internal/pipeline"
	"github.com/ZhangYupengCHY/lazada/internal/service/rate"
)

// Runner 执行一次处理流程
type Runner interface {
	Run(ctx context.Context, opts pipeline.Options) <-chan pipeline.ProgressEvent
}

// Deps 处理器依赖；运行器与汇率来源按当前配置创建
type Deps struct {
	Config     *config.AppConfig
	SaveConfig func(*config.AppConfig) error
	NewRunner  func(*config.AppConfig) Runner
	NewRates   func(*config.AppConfig) rate.Provider
	Logger     zerolog.Logger
}

// Handler API 处理器
type Handler struct {
	deps      Deps
	downloads *downloadStore

	cfgMu sync.RWMutex
	cfg   *config.AppConfig

	running atomic.Bool

	lastMu    sync.Mutex
	lastRun   *pipeline.Summary
	lastError string
}

// NewHandler 创建 API 处理器
func NewHandler(deps Deps) *Handler {
	if deps.Config == nil {
		deps.Config = config.DefaultConfig()
	}
	if deps.SaveConfig == nil {
		deps.SaveConfig = config.SaveConfig
	}
	if deps.NewRunner == nil {
		deps.NewRunner = func(cfg *config.AppConfig) Runner {
			return pipeline.FromConfig(cfg, deps.Logger)
		}
	}
	if deps.NewRates == nil {
		deps.NewRates = func(cfg *config.AppConfig) rate.Provider {
			return rate.NewCurrencyLayer(cfg.Rate.URL, cfg.Rate.AccessKey, cfg.Rate.HomeCurrency, deps.Logger)
		}
	}
	return &Handler{
		deps:      deps,
		downloads: newDownloadStore(),
		cfg:       deps.Config,
	}
}

// RegisterRoutes 注册 API 路由
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	// 系统状态
	router.GET("/status", h.GetStatus)

	// 配置管理
	router.GET("/config", h.GetConfig)
	router.PATCH("/config", h.UpdateConfig)

	// 汇率
	router.GET("/rates", h.GetRates)

	// 处理与下载
	router.POST("/run/stream", h.RunStream)
	router.GET("/report/download/:token", h.DownloadReport)
}

func (h *Handler) currentConfig() *config.AppConfig {
	h.cfgMu.RLock()
	defer h.cfgMu.RUnlock()
	return h.cfg
}
