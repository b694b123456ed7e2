package web

import (
	"net/http"
	"strconv"

	"gitee.com/hgg_test/ry_admin/serviceLogicX/ryAdminX/domain"
	"gitee.com/hgg_test/ry_admin/serviceLogicX/ryAdminX/service"
	"gitee.com/hgg_test/ry_admin/webx/ginx"
	"github.com/gin-gonic/gin"
)

type JobLogWeb struct {
	svc service.JobLogService
}

func NewJobLogWeb(svc service.JobLogService) *JobLogWeb {
	return &JobLogWeb{svc: svc}
}

func (w *JobLogWeb) Register(server *gin.Engine) {
	g := server.Group("/monitor/jobLog")
	{
		g.GET("/list", ginx.WrapBody[JobLogListReq](w.List))
		g.GET("/:jobLogId", ginx.Wrap(w.Detail))
		g.DELETE("/clean", ginx.Wrap(w.Clean)) // 清空
		g.DELETE("/:jobLogIds", ginx.Wrap(w.Delete))
	}
}

type JobLogListReq struct {
	domain.JobLogFilter
	domain.Page
}

func (w *JobLogWeb) List(ctx *gin.Context, req JobLogListReq) (ginx.Result, error) {
	logs, err := w.svc.SelectJobLogList(ctx.Request.Context(), req.JobLogFilter, req.Page)
	if err != nil {
		return failOf(err), err
	}
	total, err := w.svc.CountJobLogList(ctx.Request.Context(), req.JobLogFilter)
	if err != nil {
		return failOf(err), err
	}
	return ginx.Table(logs, total), nil
}

func (w *JobLogWeb) Detail(ctx *gin.Context) (ginx.Result, error) {
	id, err := strconv.ParseInt(ctx.Param("jobLogId"), 10, 64)
	if err != nil {
		return ginx.Fail(http.StatusBadRequest, "日志id错误"), nil
	}
	log, err := w.svc.SelectJobLogById(ctx.Request.Context(), id)
	if err != nil {
		return failOf(err), err
	}
	return ginx.Success(log), nil
}

func (w *JobLogWeb) Delete(ctx *gin.Context) (ginx.Result, error) {
	ids, err := parseIds(ctx.Param("jobLogIds"))
	if err != nil {
		return ginx.Fail(http.StatusBadRequest, "日志id错误"), nil
	}
	n, err := w.svc.DeleteJobLogByIds(ctx.Request.Context(), ids)
	if err != nil {
		return failOf(err), err
	}
	return ginx.Success(n), nil
}

func (w *JobLogWeb) Clean(ctx *gin.Context) (ginx.Result, error) {
	n, err := w.svc.CleanJobLog(ctx.Request.Context())
	if err != nil {
		return failOf(err), err
	}
	return ginx.Success(n), nil
}
