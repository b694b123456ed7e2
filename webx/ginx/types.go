package ginx

import "net/http"

// Result 统一响应结构 {code, msg, data}；列表查询带 rows/total
type Result struct {
	Code  int    `json:"code"`
	Msg   string `json:"msg"`
	Data  any    `json:"data,omitempty"`
	Rows  any    `json:"rows,omitempty"`
	Total *int64 `json:"total,omitempty"`
}

func Success(data any) Result {
	return Result{Code: http.StatusOK, Msg: "操作成功", Data: data}
}

func Table(rows any, total int64) Result {
	return Result{Code: http.StatusOK, Msg: "查询成功", Rows: rows, Total: &total}
}

func Fail(code int, msg string) Result {
	return Result{Code: code, Msg: msg}
}
