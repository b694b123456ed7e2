package web

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"gitee.com/hgg_test/ry_admin/serviceLogicX/ryAdminX/errs"
	"gitee.com/hgg_test/ry_admin/webx/ginx"
)

// failOf 业务错误转换为统一响应，HTTP 状态码始终 200，错误码放在 code
func failOf(err error) ginx.Result {
	var (
		ve *errs.ValidationError
		ne *errs.NotFoundError
		ie *errs.InvocationError
	)
	switch {
	case errors.As(err, &ve):
		return ginx.Fail(http.StatusBadRequest, ve.Msg)
	case errors.As(err, &ne):
		return ginx.Fail(http.StatusNotFound, ne.Error())
	case errors.As(err, &ie):
		return ginx.Fail(http.StatusBadRequest, ie.Error())
	default:
		return ginx.Fail(http.StatusInternalServerError, "系统错误")
	}
}

// parseIds 路径参数 "1,2,3"
func parseIds(s string) ([]int64, error) {
	parts := strings.Split(s, ",")
	ids := make([]int64, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		id, err := strconv.ParseInt(p, 10, 64)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return nil, errors.New("ids 为空")
	}
	return ids, nil
}
