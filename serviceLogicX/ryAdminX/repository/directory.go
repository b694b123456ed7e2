package repository

import (
	"context"
	"time"

	"gitee.com/hgg_test/ry_admin/DBx/cachex/cacheLocalx"
	"gitee.com/hgg_test/ry_admin/logx"
	"gitee.com/hgg_test/ry_admin/serviceLogicX/ryAdminX/domain"
	"gitee.com/hgg_test/ry_admin/serviceLogicX/ryAdminX/repository/dao"
	"gitee.com/hgg_test/ry_admin/sliceX"
)

// Directory 用户、角色只读查询
type Directory interface {
	GetRolesForUser(ctx context.Context, userId int64) ([]domain.Role, error)
	GetUser(ctx context.Context, userId int64) (domain.User, error)
}

type directory struct {
	dao dao.RbacDAO
}

func NewDirectory(d dao.RbacDAO) Directory {
	return &directory{dao: d}
}

func (d *directory) GetRolesForUser(ctx context.Context, userId int64) ([]domain.Role, error) {
	roles, err := d.dao.FindRolesByUserId(ctx, userId)
	if err != nil {
		return nil, err
	}
	return sliceX.Map[dao.SysRole, domain.Role](roles, func(idx int, src dao.SysRole) domain.Role {
		return domain.Role{
			RoleId:    src.RoleId,
			RoleName:  src.RoleName,
			RoleKey:   src.RoleKey,
			DataScope: domain.DataScope(src.DataScope),
			Status:    src.Status,
		}
	}), nil
}

func (d *directory) GetUser(ctx context.Context, userId int64) (domain.User, error) {
	u, err := d.dao.FindUserById(ctx, userId)
	if err != nil {
		return domain.User{}, err
	}
	return domain.User{UserId: u.UserId, DeptId: u.DeptId, UserName: u.UserName, Status: u.Status}, nil
}

// CachedDirectory 本地缓存用户与角色，角色变更后由调用方 Invalidate
type CachedDirectory struct {
	Directory
	roles cacheLocalx.CacheLocalIn[int64, []domain.Role]
	users cacheLocalx.CacheLocalIn[int64, domain.User]
	ttl   time.Duration
	l     logx.Loggerx
}

func NewCachedDirectory(d Directory,
	roles cacheLocalx.CacheLocalIn[int64, []domain.Role],
	users cacheLocalx.CacheLocalIn[int64, domain.User],
	ttl time.Duration, l logx.Loggerx) *CachedDirectory {
	return &CachedDirectory{Directory: d, roles: roles, users: users, ttl: ttl, l: l}
}

func (c *CachedDirectory) GetRolesForUser(ctx context.Context, userId int64) ([]domain.Role, error) {
	if roles, err := c.roles.Get(userId); err == nil {
		return roles, nil
	}
	roles, err := c.Directory.GetRolesForUser(ctx, userId)
	if err != nil {
		return nil, err
	}
	if er := c.roles.Set(userId, roles, c.ttl, 1); er != nil {
		c.l.Debug("角色写入本地缓存失败", logx.Int64("userId", userId), logx.Error(er))
	}
	return roles, nil
}

func (c *CachedDirectory) GetUser(ctx context.Context, userId int64) (domain.User, error) {
	if u, err := c.users.Get(userId); err == nil {
		return u, nil
	}
	u, err := c.Directory.GetUser(ctx, userId)
	if err != nil {
		return domain.User{}, err
	}
	if er := c.users.Set(userId, u, c.ttl, 1); er != nil {
		c.l.Debug("用户写入本地缓存失败", logx.Int64("userId", userId), logx.Error(er))
	}
	return u, nil
}

func (c *CachedDirectory) Invalidate(userId int64) {
	_ = c.roles.Del(userId)
	_ = c.users.Del(userId)
}

func (c *CachedDirectory) InvalidateAll() {
	c.roles.Clear()
	c.users.Clear()
}

// Close 释放缓存协程
func (c *CachedDirectory) Close() {
	c.roles.Close()
	c.users.Close()
}
