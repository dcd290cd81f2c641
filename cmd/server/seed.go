package main

import (
	"fmt"

	"padmin/internal/database"
	"padmin/internal/models"
	"padmin/pkg/logger"

	"gorm.io/gorm"
)

// seedData 初始化种子数据
func seedData() error {
	appLogger := logger.GetLogger()
	appLogger.Info("Starting seed data initialization...")

	db := database.GetDB()

	if err := createDefaultAdmin(db); err != nil {
		return fmt.Errorf("创建默认管理员失败: %v", err)
	}

	appLogger.Info("Seed data initialization completed successfully")
	return nil
}

// createDefaultAdmin 创建默认管理员用户
func createDefaultAdmin(db *gorm.DB) error {
	var count int64
	db.Model(&models.User{}).Where("username = ?", "admin").Count(&count)
	if count > 0 {
		logger.GetLogger().Info("默认管理员已存在，跳过创建")
		return nil
	}

	admin := &models.User{
		BaseModel: models.BaseModel{
			CreatedBy: "system",
			UpdatedBy: "system",
		},
		Username: "admin",
		IsAdmin:  true,
		Status:   models.StatusEnabled,
	}
	if err := admin.SetPassword("admin123"); err != nil {
		return err
	}

	if err := db.Create(admin).Error; err != nil {
		return err
	}

	logger.GetLogger().Warn("默认管理员创建成功，用户名admin，请尽快修改初始密码")
	return nil
}
