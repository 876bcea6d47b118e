// Package pipeline 串联扫描、规范化、汇总、sku 对应、店铺销量关联、排名与报表输出
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ZhangYupengCHY/lazada/internal/config"
	"github.com/ZhangYupengCHY/lazada/internal/exporter"
	"github.com/ZhangYupengCHY/lazada/internal/model"
	"github.com/ZhangYupengCHY/lazada/internal/parser"
	"github.com/ZhangYupengCHY/lazada/internal/service/accountmap"
	"github.com/ZhangYupengCHY/lazada/internal/service/canonical"
	"github.com/ZhangYupengCHY/lazada/internal/service/identity"
	"github.com/ZhangYupengCHY/lazada/internal/service/ledger"
	"github.com/ZhangYupengCHY/lazada/internal/service/ranking"
	"github.com/ZhangYupengCHY/lazada/internal/service/rate"
	"github.com/ZhangYupengCHY/lazada/internal/service/scan"
	"github.com/ZhangYupengCHY/lazada/internal/service/station"
)

// 进度事件类型
const (
	EventStart   = "start"
	EventInfo    = "info"
	EventWarn    = "warn"
	EventAnomaly = "anomaly"
	EventError   = "error"
	EventDone    = "done"
)

// ProgressEvent 进度事件
type ProgressEvent struct {
	RunID     string      `json:"runId"`
	Type      string      `json:"type"`    // start/info/warn/anomaly/error/done
	Message   string      `json:"message"` // 事件消息
	Data      interface{} `json:"data,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// Options 一次运行的参数
type Options struct {
	Folder          string
	SkipRows        int
	OutputName      string
	AccountMapFiles []string
	LedgerFiles     []string
	TopN            int
	FolderCheck     FolderCheck
}

// OptionsFromConfig 由配置生成运行参数
func OptionsFromConfig(cfg *config.AppConfig, folder string) Options {
	return Options{
		Folder:          folder,
		SkipRows:        cfg.Pipeline.SkipRows,
		OutputName:      cfg.Pipeline.OutputName,
		AccountMapFiles: cfg.Pipeline.AccountMapFiles,
		LedgerFiles:     cfg.Pipeline.LedgerFiles,
		TopN:            cfg.Pipeline.TopN,
		FolderCheck: FolderCheck{
			Enabled:           cfg.FolderCheck.Enabled,
			RecheckOnMismatch: cfg.FolderCheck.RecheckOnMismatch,
		},
	}
}

// Summary 运行结果
type Summary struct {
	RunID            string           `json:"runId"`
	OutputPath       string           `json:"outputPath"`
	Stations         int              `json:"stations"`
	NoFile           []string         `json:"noFile"`
	UnmappedAccounts []string         `json:"unmappedAccounts"`
	RateSource       model.RateSource `json:"rateSource"`
	SellerLookup     identity.Stats   `json:"sellerLookup"`
	ErpLookup        identity.Stats   `json:"erpLookup"`
	Duration         time.Duration    `json:"duration"`
}

// Coordinator 处理流程协调器
type Coordinator struct {
	rates    rate.Provider
	lookup   identity.Lookup
	resolver *identity.Resolver
	logger   zerolog.Logger
}

// NewCoordinator 创建协调器
func NewCoordinator(rates rate.Provider, lookup identity.Lookup, opts identity.Options, logger zerolog.Logger) *Coordinator {
	return &Coordinator{
		rates:    rates,
		lookup:   lookup,
		resolver: identity.NewResolver(lookup, opts, logger),
		logger:   logger,
	}
}

// FromConfig 使用 HTTP 查询接口与 currencylayer 汇率创建协调器
func FromConfig(cfg *config.AppConfig, logger zerolog.Logger) *Coordinator {
	lookup := identity.NewHTTPLookup(cfg.Lookup.URL, time.Duration(cfg.Lookup.TimeoutSeconds)*time.Second)
	rates := rate.NewCurrencyLayer(cfg.Rate.URL, cfg.Rate.AccessKey, cfg.Rate.HomeCurrency, logger)
	return NewCoordinator(rates, lookup, identity.Options{
		BatchSize: cfg.Lookup.BatchSize,
		Workers:   cfg.Lookup.Workers,
	}, logger)
}

// Run 异步执行，返回进度通道；通道在运行结束后关闭
func (c *Coordinator) Run(ctx context.Context, opts Options) <-chan ProgressEvent {
	ch := make(chan ProgressEvent, 100)
	runID := uuid.NewString()

	go func() {
		defer close(ch)
		emit := func(e ProgressEvent) {
			e.RunID = runID
			select {
			case ch <- e:
			case <-ctx.Done():
			}
		}

		summary, err := c.execute(ctx, runID, opts, emit)
		if err != nil {
			var anomaly *AnomalyError
			if errors.As(err, &anomaly) {
				emit(ProgressEvent{Type: EventAnomaly, Message: anomaly.Error(), Data: anomaly, Timestamp: time.Now()})
				return
			}
			emit(ProgressEvent{Type: EventError, Message: err.Error(), Timestamp: time.Now()})
			return
		}
		emit(ProgressEvent{
			Type:      EventDone,
			Message:   fmt.Sprintf("处理完毕，结果输出在文件: %s", summary.OutputPath),
			Data:      summary,
			Timestamp: time.Now(),
		})
	}()
	return ch
}

// Execute 同步执行；progress 可为 nil
func (c *Coordinator) Execute(ctx context.Context, opts Options, progress func(ProgressEvent)) (*Summary, error) {
	runID := uuid.NewString()
	emit := func(e ProgressEvent) {
		e.RunID = runID
		if progress != nil {
			progress(e)
		}
	}
	return c.execute(ctx, runID, opts, emit)
}

type stationData struct {
	key     model.AccountKey
	records []model.AdRecord
}

func (c *Coordinator) execute(ctx context.Context, runID string, opts Options, emit func(ProgressEvent)) (*Summary, error) {
	start := time.Now()
	logger := c.logger.With().Str("runId", runID).Logger()
	info := func(msg string, data interface{}) {
		emit(ProgressEvent{Type: EventInfo, Message: msg, Data: data, Timestamp: time.Now()})
	}
	warn := func(msg string, data interface{}) {
		logger.Warn().Interface("data", data).Msg(msg)
		emit(ProgressEvent{Type: EventWarn, Message: msg, Data: data, Timestamp: time.Now()})
	}

	folder := filepath.Clean(strings.Trim(opts.Folder, "\" "))
	emit(ProgressEvent{
		Type:      EventStart,
		Message:   fmt.Sprintf("开始处理 \"%s\" 文件夹，请耐心等待", folder),
		Data:      map[string]string{"folder": folder},
		Timestamp: time.Now(),
	})

	found, err := scan.Scan(folder)
	if err != nil {
		return nil, err
	}
	parent := filepath.Dir(folder)
	mapPath, err := findSideFile(parent, opts.AccountMapFiles)
	if err != nil {
		return nil, err
	}
	ledgerPath, err := findSideFile(parent, opts.LedgerFiles)
	if err != nil {
		return nil, err
	}
	info(fmt.Sprintf("发现 %d 个站点", len(found.Stations)), map[string]int{
		"stations":      len(found.Stations),
		"noFile":        len(found.NoFile),
		"multipleFiles": len(found.MultipleFiles),
	})
	if len(found.NoFile) > 0 {
		warn("以下站点没有文件", found.NoFile)
	}

	rates := c.rates.Rates(ctx)
	if rates.Source == model.RateFallback {
		warn("汇率接口不可用，使用内置汇率", rates.Rates)
	}

	// 规范化各站点数据；异常站点汇总后统一报告
	anomaly := &AnomalyError{MultipleFiles: found.MultipleFiles}
	var stations []stationData
	for _, st := range found.Stations {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		key, err := model.ParseAccountKey(st.Name)
		if err != nil {
			return nil, err
		}
		tbl, err := parser.ReadFile(st.File, opts.SkipRows)
		if err != nil {
			logger.Error().Err(err).Str("station", st.Name).Msg("读取站点文件失败")
			anomaly.BadHeader = append(anomaly.BadHeader, st.Name)
			continue
		}
		records, err := canonical.Canonicalize(st.Name, tbl)
		if err != nil {
			logger.Error().Err(err).Str("station", st.Name).Msg("站点数据无法规范化")
			anomaly.BadHeader = append(anomaly.BadHeader, st.Name)
			continue
		}
		if len(records) == 0 {
			continue
		}
		if c.misplaced(ctx, opts.FolderCheck, key, records) {
			anomaly.WrongFolder = append(anomaly.WrongFolder, st.Name)
			continue
		}
		stations = append(stations, stationData{key: key, records: records})
	}
	if !anomaly.Empty() {
		return nil, anomaly
	}

	var union station.Union
	for _, sd := range stations {
		r, ok := rates.Rate(sd.key.Site)
		if !ok {
			return nil, fmt.Errorf("%s 没有汇率: %w", sd.key, model.ErrInvalidSite)
		}
		union.Add(station.Aggregate(sd.key, sd.records, r))
	}
	info(fmt.Sprintf("完成 %d 个站点的汇总", len(stations)), nil)

	// seller sku -> erp sku
	var sellerIDs []string
	for _, o := range union.OrderedSKU {
		sellerIDs = append(sellerIDs, o.SellerSKU)
	}
	for _, u := range union.UnorderedSKU {
		sellerIDs = append(sellerIDs, u.SellerSKU)
	}
	sellers := c.resolver.Resolve(ctx, identity.BySellerSKU, sellerIDs)
	for i := range union.OrderedSKU {
		union.OrderedSKU[i].ErpSKU = sellers.Counterpart(union.OrderedSKU[i].SellerSKU)
	}
	for i := range union.UnorderedSKU {
		union.UnorderedSKU[i].ErpSKU = sellers.Counterpart(union.UnorderedSKU[i].SellerSKU)
	}
	info("seller sku 对应 erp sku 完成", sellers.Stats)

	// 广告账号 -> 店铺账号
	accounts, err := accountmap.Load(mapPath)
	if err != nil {
		return nil, err
	}
	info(fmt.Sprintf("读取账号对应表 %d 条", accounts.Len()), map[string]string{"file": filepath.Base(mapPath)})
	unmapped := accounts.Apply(&union)
	if len(unmapped) > 0 {
		warn("以下站点在账号对应表中没有记录，保留原账号", unmapped)
	}

	// 店铺销量: erp sku -> seller sku
	shopRecords, err := ledger.Load(ledgerPath)
	if err != nil {
		return nil, err
	}
	daily := ledger.Aggregate(shopRecords)
	erpIDs := make([]string, 0, len(daily))
	for _, d := range daily {
		erpIDs = append(erpIDs, d.SKU)
	}
	erps := c.resolver.Resolve(ctx, identity.ByErpSKU, erpIDs)
	for i := range daily {
		daily[i].SellerSKU = erps.Prefer(daily[i].SKU, daily[i].Account).SellerSKU
	}
	info(fmt.Sprintf("读取店铺销量 %d 条", len(shopRecords)), erps.Stats)

	joined := ledger.Join(union.OrderedSKU, union.UnorderedSKU, daily)
	ranked := ranking.Rank(joined.Daily, opts.TopN)

	output := filepath.Join(parent, opts.OutputName)
	report := exporter.Report{
		StationLevel: union.StationLevel,
		OrderedSKU:   joined.Ordered,
		UnorderedSKU: joined.Unordered,
		ShopSaleNoAd: joined.ShopSaleNoAd,
		TopN:         ranking.SideBySide(ranked),
		DailyRank:    ranked.Daily,
		NoFile:       found.NoFile,
		Rates:        rates,
	}
	err = exporter.WriteFile(output, report, func(e exporter.ProgressEvent) {
		info(fmt.Sprintf("写入工作表 %s", e.Stage), e)
	})
	if err != nil {
		return nil, err
	}

	summary := &Summary{
		RunID:            runID,
		OutputPath:       output,
		Stations:         len(stations),
		NoFile:           found.NoFile,
		UnmappedAccounts: unmapped,
		RateSource:       rates.Source,
		SellerLookup:     sellers.Stats,
		ErpLookup:        erps.Stats,
		Duration:         time.Since(start),
	}
	logger.Info().
		Str("output", output).
		Int("stations", summary.Stations).
		Dur("duration", summary.Duration).
		Msg("处理完成")
	return summary, nil
}

// findSideFile 在 dir 中按顺序查找第一个存在的文件
func findSideFile(dir string, names []string) (string, error) {
	for _, name := range names {
		p := filepath.Join(dir, name)
		if st, err := os.Stat(p); err == nil && !st.IsDir() {
			return p, nil
		}
	}
	return "", fmt.Errorf("%s 下缺少 %s: %w", dir, strings.Join(names, " / "), ErrMissingSideFile)
}
