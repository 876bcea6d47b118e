package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/ZhangYupengCHY/lazada/internal/config"
	"github.com/ZhangYupengCHY/lazada/internal/logging"
	"github.com/ZhangYupengCHY/lazada/internal/pipeline"
	"github.com/ZhangYupengCHY/lazada/internal/server"
	"github.com/ZhangYupengCHY/lazada/internal/util"
)

var (
	port    = flag.Int("port", 0, "服务端口 (config.toml 优先；仅当未显式配置 port 时生效)")
	devMode = flag.Bool("dev", false, "开发模式")
	folder  = flag.String("folder", "", "直接处理该文件夹后退出（不启动网页）")
)

func main() {
	flag.Parse()

	fmt.Println("==========================================")
	fmt.Println("  Lazada 广告站点表现汇总")
	fmt.Println("==========================================")

	// 加载配置
	cfg, info, cfgErr := config.LoadConfigWithInfo()
	if cfgErr != nil {
		cfg = config.DefaultConfig()
		info = config.LoadConfigInfo{}
	}

	logger, closer, err := logging.New(cfg.Log, config.LogDir(cfg), os.Stdout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "初始化日志失败: %v\n", err)
		os.Exit(1)
	}
	defer closer.Close()

	if cfgErr != nil {
		logger.Warn().Err(cfgErr).Msg("加载配置失败，使用默认配置")
	} else if info.FileFound {
		logger.Info().Str("path", info.Path).Msg("已加载配置")
	}

	// 命令行参数覆盖配置
	if *port > 0 && !info.PortSpecified {
		cfg.Server.Port = *port
	}
	if *devMode {
		cfg.Server.DevMode = true
	}

	if *folder != "" {
		code := runOnce(cfg, logger, *folder)
		closer.Close()
		os.Exit(code)
	}

	srv := server.NewServer(cfg, logger)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	url := fmt.Sprintf("http://localhost:%d", cfg.Server.Port)

	go func() {
		logger.Info().Int("port", cfg.Server.Port).Msg("服务启动中")
		if err := srv.Run(addr); err != nil {
			logger.Fatal().Err(err).Msg("服务启动失败")
		}
	}()

	// 打开浏览器
	if !cfg.Server.DevMode {
		fmt.Printf("正在打开浏览器: %s\n", url)
		if err := util.OpenBrowser(url); err != nil {
			fmt.Printf("无法自动打开浏览器，请手动访问: %s\n", url)
		}
	} else {
		fmt.Printf("开发模式: 请访问 %s\n", url)
	}

	fmt.Println("\n按 Ctrl+C 停止服务...")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	fmt.Println("\n正在关闭服务...")
}

// runOnce 命令行模式：处理一个文件夹，返回进程退出码
func runOnce(cfg *config.AppConfig, logger zerolog.Logger, dir string) int {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	coord := pipeline.FromConfig(cfg, logger)
	summary, err := coord.Execute(ctx, pipeline.OptionsFromConfig(cfg, dir), func(e pipeline.ProgressEvent) {
		fmt.Printf("[%s] %s\n", e.Type, e.Message)
	})
	if err != nil {
		var anomaly *pipeline.AnomalyError
		if errors.As(err, &anomaly) {
			fmt.Println("请修正以下问题后重新运行:")
			fmt.Println(anomaly.Error())
			return 2
		}
		logger.Error().Err(err).Msg("处理失败")
		return 1
	}

	fmt.Printf("完成，输出文件: %s\n", summary.OutputPath)
	return 0
}
