package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"gitee.com/hgg_test/ry_admin/logx"
	"gitee.com/hgg_test/ry_admin/serviceLogicX/ryAdminX/config"
	"github.com/spf13/pflag"
)

func main() {
	cfgFile := pflag.String("config", "config/dev.yaml", "配置文件路径")
	pflag.Parse()

	boot := newZerolog("info")
	cfg, err := config.LoadConfig(*cfgFile, boot)
	if err != nil {
		boot.Error("加载配置失败", logx.Error(err))
		os.Exit(1)
	}

	app, cleanup, err := InitApp(cfg)
	if err != nil {
		boot.Error("初始化失败", logx.Error(err))
		os.Exit(1)
	}
	defer cleanup()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err = app.Run(ctx); err != nil {
		boot.Error("服务异常退出", logx.Error(err))
	}
}
