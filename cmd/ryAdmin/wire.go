//go:build wireinject

package main

import (
	"gitee.com/hgg_test/ry_admin/serviceLogicX/ryAdminX/config"
	"gitee.com/hgg_test/ry_admin/serviceLogicX/ryAdminX/dataScope"
	"gitee.com/hgg_test/ry_admin/serviceLogicX/ryAdminX/invoker"
	"gitee.com/hgg_test/ry_admin/serviceLogicX/ryAdminX/repository"
	"gitee.com/hgg_test/ry_admin/serviceLogicX/ryAdminX/repository/dao"
	"gitee.com/hgg_test/ry_admin/serviceLogicX/ryAdminX/scheduler"
	"gitee.com/hgg_test/ry_admin/serviceLogicX/ryAdminX/service"
	"gitee.com/hgg_test/ry_admin/serviceLogicX/ryAdminX/web"
	"github.com/google/wire"
)

var thirdPartySet = wire.NewSet(
	InitLogger,
	InitDB,
	InitRedis,
	InitLeader,
	InitOtel,
)

var jobSet = wire.NewSet(
	dao.NewJobDAO,
	dao.NewJobLogDAO,
	dao.NewRbacDAO,
	repository.NewJobRepository,
	repository.NewJobLogRepository,
	InitDirectory,
	dataScope.NewCompiler,
	InitQueue,
	InitQueueRegistrar,
	scheduler.NewJobReconciler,
	InitLogSink,
	InitLogWriter,
	InitRegistry,
	invoker.NewRunner,
	service.NewJobService,
	service.NewJobLogService,
	web.NewJobWeb,
	web.NewJobLogWeb,
)

func InitApp(cfg *config.Config) (*App, func(), error) {
	wire.Build(
		thirdPartySet,
		jobSet,
		InitJwt,
		InitMiddlewares,
		InitWebServer,
		NewApp,
	)
	return nil, nil, nil
}
