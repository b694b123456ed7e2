package dao

import (
	"context"

	"gorm.io/gorm"
)

// RbacDAO 数据权限需要的用户、角色只读查询
type RbacDAO interface {
	FindUserById(ctx context.Context, userId int64) (SysUser, error)
	// FindRolesByUserId 未删除的角色，按 role_sort 排序，含停用角色
	FindRolesByUserId(ctx context.Context, userId int64) ([]SysRole, error)
}

type GormRbacDAO struct {
	db *gorm.DB
}

func NewRbacDAO(db *gorm.DB) RbacDAO {
	return &GormRbacDAO{db: db}
}

func (g *GormRbacDAO) FindUserById(ctx context.Context, userId int64) (SysUser, error) {
	var u SysUser
	err := g.db.WithContext(ctx).Where("user_id = ? AND del_flag = ?", userId, "0").First(&u).Error
	return u, translate(err)
}

func (g *GormRbacDAO) FindRolesByUserId(ctx context.Context, userId int64) ([]SysRole, error) {
	var roles []SysRole
	err := g.db.WithContext(ctx).Table("sys_role r").
		Select("r.*").
		Joins("JOIN sys_user_role ur ON ur.role_id = r.role_id").
		Where("ur.user_id = ? AND r.del_flag = ?", userId, "0").
		Order("r.role_sort, r.role_id").
		Find(&roles).Error
	return roles, translate(err)
}
