package dao

import (
	"errors"

	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
)

// InitTables 建表，只在开发环境或测试中使用，生产环境以 sql 脚本为准
func InitTables(db *gorm.DB) error {
	return db.AutoMigrate(
		&SysJob{},
		&SysJobLog{},
		&SysUser{},
		&SysRole{},
		&SysDept{},
		&SysUserRole{},
		&SysRoleDept{},
	)
}

// translate 把 gorm / mysql 错误转成本包的错误
func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrDataRecordNotFound
	}
	var me *mysql.MySQLError
	if errors.As(err, &me) {
		const duplicateError uint16 = 1062
		if me.Number == duplicateError {
			return ErrDuplicateData
		}
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicateData
	}
	return err
}
