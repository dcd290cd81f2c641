package database

import (
	"padmin/internal/models"

	"gorm.io/gorm"
)

// Migrate 执行数据库迁移
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Role{},
		&models.Resource{},
		&models.UserRole{},
		&models.RoleResource{},
	)
}
