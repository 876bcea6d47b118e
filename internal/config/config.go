package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// 环境变量覆盖
const (
	EnvLookupURL     = "STATIONPERF_LOOKUP_URL"
	EnvRateAccessKey = "STATIONPERF_RATE_ACCESS_KEY"
	EnvLogLevel      = "STATIONPERF_LOG_LEVEL"
)

// ErrInvalidConfig 配置值不合法
var ErrInvalidConfig = errors.New("invalid config")

// AppConfig 应用配置
type AppConfig struct {
	Server      ServerConfig      `toml:"server" json:"server"`
	Pipeline    PipelineConfig    `toml:"pipeline" json:"pipeline"`
	Lookup      LookupConfig      `toml:"lookup" json:"lookup"`
	Rate        RateConfig        `toml:"rate" json:"rate"`
	FolderCheck FolderCheckConfig `toml:"folder_check" json:"folderCheck"`
	Log         LogConfig         `toml:"log" json:"log"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Port    int  `toml:"port" json:"port"`
	DevMode bool `toml:"dev_mode" json:"devMode"`
}

// PipelineConfig 处理流程配置
type PipelineConfig struct {
	// SkipRows 广告报表表头前的说明行数
	SkipRows        int      `toml:"skip_rows" json:"skipRows"`
	OutputName      string   `toml:"output_name" json:"outputName"`
	AccountMapFiles []string `toml:"account_map_files" json:"accountMapFiles"`
	LedgerFiles     []string `toml:"ledger_files" json:"ledgerFiles"`
	TopN            int      `toml:"top_n" json:"topN"`
}

// LookupConfig sku 对应关系接口
type LookupConfig struct {
	URL            string `toml:"url" json:"url"`
	BatchSize      int    `toml:"batch_size" json:"batchSize"`
	Workers        int    `toml:"workers" json:"workers"`
	TimeoutSeconds int    `toml:"timeout_seconds" json:"timeoutSeconds"`
}

// RateConfig 汇率接口
type RateConfig struct {
	URL          string `toml:"url" json:"url"`
	AccessKey    string `toml:"access_key" json:"-"`
	HomeCurrency string `toml:"home_currency" json:"homeCurrency"`
}

// FolderCheckConfig 检查文件是否放错站点文件夹
type FolderCheckConfig struct {
	Enabled           bool `toml:"enabled" json:"enabled"`
	RecheckOnMismatch bool `toml:"recheck_on_mismatch" json:"recheckOnMismatch"`
}

// LogConfig 日志配置
type LogConfig struct {
	Level      string `toml:"level" json:"level"`
	Dir        string `toml:"dir" json:"dir"`
	MaxSizeMB  int    `toml:"max_size_mb" json:"maxSizeMb"`
	MaxBackups int    `toml:"max_backups" json:"maxBackups"`
	MaxAgeDays int    `toml:"max_age_days" json:"maxAgeDays"`
}

// LoadConfigInfo 配置加载元信息
type LoadConfigInfo struct {
	Path          string
	FileFound     bool
	PortSpecified bool
}

// DefaultConfig 默认配置
func DefaultConfig() *AppConfig {
	return &AppConfig{
		Server: ServerConfig{
			Port:    20261,
			DevMode: false,
		},
		Pipeline: PipelineConfig{
			SkipRows:        5,
			OutputName:      "lazada站点表现.xlsx",
			AccountMapFiles: []string{"账号对应表.xlsx", "account_map.xlsx"},
			LedgerFiles:     []string{"店铺销量.xlsx", "店铺销量.csv", "shop_sales.xlsx"},
			TopN:            10,
		},
		Lookup: LookupConfig{
			URL:            "http://erppub.yibainetwork.com/services/lazada/lazadaforeign/getlistingmesg",
			BatchSize:      1000,
			Workers:        4,
			TimeoutSeconds: 0,
		},
		Rate: RateConfig{
			URL:          "http://api.currencylayer.com/live",
			HomeCurrency: "CNY",
		},
		Log: LogConfig{
			Level:      "info",
			Dir:        "logs",
			MaxSizeMB:  20,
			MaxBackups: 5,
			MaxAgeDays: 30,
		},
	}
}

// Validate 检查配置取值
func (c *AppConfig) Validate() error {
	var problems []string
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		problems = append(problems, fmt.Sprintf("server.port=%d", c.Server.Port))
	}
	if c.Pipeline.SkipRows < 0 {
		problems = append(problems, fmt.Sprintf("pipeline.skip_rows=%d", c.Pipeline.SkipRows))
	}
	if strings.TrimSpace(c.Pipeline.OutputName) == "" {
		problems = append(problems, "pipeline.output_name 为空")
	}
	if c.Pipeline.TopN <= 0 {
		problems = append(problems, fmt.Sprintf("pipeline.top_n=%d", c.Pipeline.TopN))
	}
	if c.Lookup.BatchSize <= 0 {
		problems = append(problems, fmt.Sprintf("lookup.batch_size=%d", c.Lookup.BatchSize))
	}
	if c.Lookup.Workers <= 0 {
		problems = append(problems, fmt.Sprintf("lookup.workers=%d", c.Lookup.Workers))
	}
	if c.Lookup.TimeoutSeconds < 0 {
		problems = append(problems, fmt.Sprintf("lookup.timeout_seconds=%d", c.Lookup.TimeoutSeconds))
	}
	switch c.Rate.HomeCurrency {
	case "CNY", "USD":
	default:
		problems = append(problems, fmt.Sprintf("rate.home_currency=%q", c.Rate.HomeCurrency))
	}
	if len(problems) > 0 {
		return fmt.Errorf("%s: %w", strings.Join(problems, "; "), ErrInvalidConfig)
	}
	return nil
}

func isPortSpecifiedInToml(data []byte) bool {
	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		return false
	}

	serverAny, ok := raw["server"]
	if !ok {
		return false
	}

	serverMap, ok := serverAny.(map[string]any)
	if !ok {
		return false
	}

	_, ok = serverMap["port"]
	return ok
}

// GetExeDir 获取可执行文件所在目录
func GetExeDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", err
	}
	return filepath.Dir(exe), nil
}

// Path 配置文件路径（可执行文件同目录下的 config.toml）
func Path() string {
	exeDir, err := GetExeDir()
	if err != nil {
		// 无法获取可执行文件目录，使用当前目录
		exeDir = "."
	}
	return filepath.Join(exeDir, "config.toml")
}

// LoadConfigWithInfo 从 config.toml 加载配置并返回元信息
func LoadConfigWithInfo() (*AppConfig, LoadConfigInfo, error) {
	return LoadFile(Path())
}

// LoadFile 从指定文件加载配置；文件不存在时使用默认配置
func LoadFile(path string) (*AppConfig, LoadConfigInfo, error) {
	info := LoadConfigInfo{Path: path}
	config := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		info.FileFound = true
		info.PortSpecified = isPortSpecifiedInToml(data)
		if err := toml.Unmarshal(data, config); err != nil {
			return nil, info, fmt.Errorf("解析 %s 失败: %w", path, err)
		}
	case os.IsNotExist(err):
		// 配置文件不存在，使用默认配置
	default:
		return nil, info, err
	}

	applyEnv(config)
	if err := config.Validate(); err != nil {
		return nil, info, err
	}
	return config, info, nil
}

func applyEnv(config *AppConfig) {
	if v := strings.TrimSpace(os.Getenv(EnvLookupURL)); v != "" {
		config.Lookup.URL = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvRateAccessKey)); v != "" {
		config.Rate.AccessKey = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		config.Log.Level = v
	}
}

// SaveConfig 保存配置到 config.toml
func SaveConfig(config *AppConfig) error {
	return SaveFile(Path(), config)
}

// SaveFile 保存配置到指定文件
func SaveFile(path string, config *AppConfig) error {
	if err := config.Validate(); err != nil {
		return err
	}
	data, err := toml.Marshal(config)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// LogDir 日志目录；相对路径相对于可执行文件所在目录
func LogDir(config *AppConfig) string {
	if filepath.IsAbs(config.Log.Dir) {
		return config.Log.Dir
	}
	exeDir, _ := GetExeDir()
	if exeDir == "" {
		exeDir = "."
	}
	return filepath.Join(exeDir, config.Log.Dir)
}
