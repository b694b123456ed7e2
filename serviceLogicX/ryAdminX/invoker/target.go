// Package invoker 解析调用目标字符串并分发到注册的任务方法，记录执行日志
package invoker

import (
	"regexp"
	"strconv"
	"strings"

	"gitee.com/hgg_test/ry_admin/serviceLogicX/ryAdminX/errs"
)

var (
	// 命名空间.方法 或 命名空间.方法(参数)
	targetRegexp = regexp.MustCompile(`^(\w+)\.(\w+)(\((.*)\))?$`)
	numberRegexp = regexp.MustCompile(`^-?\d+(\.\d+)?[LD]?$`)
)

// Target 解析后的调用目标
//   - Args 元素类型：string、bool、float64，无法识别的参数保留原始字符串
type Target struct {
	Namespace string
	Method    string
	Args      []any
}

// ParseTarget 如 ryTask.ryMultipleParams('ry', true, 2000L, 316.50D, 100)
func ParseTarget(s string) (Target, error) {
	m := targetRegexp.FindStringSubmatch(s)
	if m == nil {
		return Target{}, errs.NewInvocation(s, "无效的调用目标")
	}
	t := Target{Namespace: m[1], Method: m[2]}
	if m[4] == "" {
		return t, nil
	}
	for _, p := range strings.Split(m[4], ",") {
		t.Args = append(t.Args, parseArg(strings.TrimSpace(p)))
	}
	return t, nil
}

func parseArg(p string) any {
	if len(p) >= 2 && strings.ContainsRune(`'"`, rune(p[0])) && strings.ContainsRune(`'"`, rune(p[len(p)-1])) {
		return p[1 : len(p)-1]
	}
	switch p {
	case "true":
		return true
	case "false":
		return false
	}
	if numberRegexp.MatchString(p) {
		if f, err := strconv.ParseFloat(strings.TrimRight(p, "LD"), 64); err == nil {
			return f
		}
	}
	return p
}
