// Package jwtx 解析 Authorization: Bearer 令牌，把 *UserClaims 放进 gin 上下文的 "user"
package jwtx

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid token, token无效/伪造的token")

// UserClaims 登录用户声明，数据权限按 Uid / DeptId 计算
type UserClaims struct {
	jwt.RegisteredClaims
	Uid      int64  `json:"uid"`
	DeptId   int64  `json:"deptId"`
	UserName string `json:"userName"`
}

type Config struct {
	JwtKey        []byte            // 【必传】
	SigningMethod jwt.SigningMethod // 默认 HS512
	ExpiresIn     time.Duration     // 默认30分钟
}

type JwtHandler struct {
	Config
	ignorePaths map[string]struct{}
}

func NewJwtHandler(conf Config) *JwtHandler {
	if conf.SigningMethod == nil {
		conf.SigningMethod = jwt.SigningMethodHS512
	}
	if conf.ExpiresIn <= 0 {
		conf.ExpiresIn = 30 * time.Minute
	}
	return &JwtHandler{Config: conf, ignorePaths: map[string]struct{}{}}
}

// IgnorePaths 不校验登录态的路由
func (j *JwtHandler) IgnorePaths(paths ...string) *JwtHandler {
	for _, p := range paths {
		j.ignorePaths[p] = struct{}{}
	}
	return j
}

// SetToken 签发令牌
func (j *JwtHandler) SetToken(uid, deptId int64, userName string) (string, error) {
	uc := UserClaims{
		Uid:      uid,
		DeptId:   deptId,
		UserName: userName,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(j.ExpiresIn)),
		},
	}
	return jwt.NewWithClaims(j.SigningMethod, uc).SignedString(j.JwtKey)
}

// ExtractToken Authorization: Bearer XXXXX
func ExtractToken(ctx *gin.Context) string {
	segs := strings.SplitN(ctx.GetHeader("Authorization"), " ", 2)
	if len(segs) != 2 || !strings.EqualFold(segs[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(segs[1])
}

// VerifyToken 校验签名、算法与过期时间
func (j *JwtHandler) VerifyToken(tokenStr string) (*UserClaims, error) {
	uc := &UserClaims{}
	t, err := jwt.ParseWithClaims(tokenStr, uc, func(token *jwt.Token) (interface{}, error) {
		return j.JwtKey, nil
	}, jwt.WithValidMethods([]string{j.SigningMethod.Alg()}))
	if err != nil || t == nil || !t.Valid {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	return uc, nil
}

func (j *JwtHandler) Build() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if _, ok := j.ignorePaths[ctx.Request.URL.Path]; ok {
			return
		}
		uc, err := j.VerifyToken(ExtractToken(ctx))
		if err != nil {
			ctx.AbortWithStatus(http.StatusUnauthorized)
			return
		}
		ctx.Set("user", uc)
	}
}
