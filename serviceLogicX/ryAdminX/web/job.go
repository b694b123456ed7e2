package web

import (
	"net/http"
	"strconv"

	"gitee.com/hgg_test/ry_admin/serviceLogicX/ryAdminX/domain"
	"gitee.com/hgg_test/ry_admin/serviceLogicX/ryAdminX/service"
	"gitee.com/hgg_test/ry_admin/webx/ginx"
	"gitee.com/hgg_test/ry_admin/webx/ginx/middleware/jwtx"
	"github.com/gin-gonic/gin"
)

type JobWeb struct {
	svc service.JobService
}

func NewJobWeb(svc service.JobService) *JobWeb {
	return &JobWeb{svc: svc}
}

func (w *JobWeb) Register(server *gin.Engine) {
	g := server.Group("/monitor/job")
	{
		g.GET("/list", ginx.WrapBodyAndClaims[JobListReq, *jwtx.UserClaims](w.List)) // 列表，按数据权限过滤
		g.GET("/checkCron", ginx.WrapBody[CheckCronReq](w.CheckCron))                // 校验 cron 表达式
		g.GET("/:jobId", ginx.Wrap(w.Detail))
		g.POST("", ginx.WrapBodyAndClaims[domain.SysJob, *jwtx.UserClaims](w.Add))
		g.PUT("", ginx.WrapBodyAndClaims[domain.SysJob, *jwtx.UserClaims](w.Edit))
		g.PUT("/changeStatus", ginx.WrapBodyAndClaims[ChangeStatusReq, *jwtx.UserClaims](w.ChangeStatus)) // 0 恢复 1 暂停
		g.PUT("/run", ginx.WrapBody[RunReq](w.Run))                                                       // 立即执行一次
		g.DELETE("/:jobIds", ginx.Wrap(w.Delete))                                                         // DELETE /monitor/job/1,2,3
	}
}

type JobListReq struct {
	domain.JobFilter
	domain.Page
}

type CheckCronReq struct {
	CronExpression string `form:"cronExpression" json:"cronExpression" binding:"required"`
}

type ChangeStatusReq struct {
	JobId  int64  `json:"jobId" binding:"required"`
	Status string `json:"status" binding:"required"`
}

type RunReq struct {
	JobId int64 `json:"jobId" binding:"required"`
}

func (w *JobWeb) List(ctx *gin.Context, req JobListReq, uc *jwtx.UserClaims) (ginx.Result, error) {
	jobs, err := w.svc.SelectJobList(ctx.Request.Context(), uc.Uid, req.JobFilter, req.Page)
	if err != nil {
		return failOf(err), err
	}
	total, err := w.svc.CountJobList(ctx.Request.Context(), uc.Uid, req.JobFilter)
	if err != nil {
		return failOf(err), err
	}
	return ginx.Table(jobs, total), nil
}

func (w *JobWeb) CheckCron(ctx *gin.Context, req CheckCronReq) (ginx.Result, error) {
	return ginx.Success(w.svc.CheckCronExpressionIsValid(req.CronExpression)), nil
}

func (w *JobWeb) Detail(ctx *gin.Context) (ginx.Result, error) {
	jobId, err := strconv.ParseInt(ctx.Param("jobId"), 10, 64)
	if err != nil {
		return ginx.Fail(http.StatusBadRequest, "任务id错误"), nil
	}
	job, err := w.svc.SelectJobById(ctx.Request.Context(), jobId)
	if err != nil {
		return failOf(err), err
	}
	return ginx.Success(job), nil
}

func (w *JobWeb) Add(ctx *gin.Context, req domain.SysJob, uc *jwtx.UserClaims) (ginx.Result, error) {
	req.JobId = 0
	n, err := w.svc.InsertJob(ctx.Request.Context(), req, uc.UserName)
	if err != nil {
		return failOf(err), err
	}
	return ginx.Success(n), nil
}

func (w *JobWeb) Edit(ctx *gin.Context, req domain.SysJob, uc *jwtx.UserClaims) (ginx.Result, error) {
	if req.JobId <= 0 {
		return ginx.Fail(http.StatusBadRequest, "任务id错误"), nil
	}
	n, err := w.svc.UpdateJob(ctx.Request.Context(), req, uc.UserName)
	if err != nil {
		return failOf(err), err
	}
	return ginx.Success(n), nil
}

func (w *JobWeb) ChangeStatus(ctx *gin.Context, req ChangeStatusReq, uc *jwtx.UserClaims) (ginx.Result, error) {
	n, err := w.svc.ChangeStatus(ctx.Request.Context(), req.JobId, req.Status, uc.UserName)
	if err != nil {
		return failOf(err), err
	}
	return ginx.Success(n), nil
}

func (w *JobWeb) Run(ctx *gin.Context, req RunReq) (ginx.Result, error) {
	if err := w.svc.Run(ctx.Request.Context(), req.JobId); err != nil {
		return failOf(err), err
	}
	return ginx.Success(nil), nil
}

func (w *JobWeb) Delete(ctx *gin.Context) (ginx.Result, error) {
	ids, err := parseIds(ctx.Param("jobIds"))
	if err != nil {
		return ginx.Fail(http.StatusBadRequest, "任务id错误"), nil
	}
	n, err := w.svc.DeleteJobByIds(ctx.Request.Context(), ids)
	if err != nil {
		return failOf(err), err
	}
	return ginx.Success(n), nil
}
