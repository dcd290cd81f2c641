package services

import (
	"testing"

	"padmin/internal/database"
	"padmin/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// newTestDB 每个测试一个独立的内存库
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	// 内存库每个连接各自独立，必须限制成单连接
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.Migrate(db))
	return db
}

func mustCreateUser(t *testing.T, db *gorm.DB, username string) *models.PublicUser {
	t.Helper()
	user, err := NewUserService(db).Create(CreateUserParams{
		Username: username,
		Password: "secret123",
		Operator: "tester",
	})
	require.NoError(t, err)
	return user
}

func mustCreateRole(t *testing.T, db *gorm.DB, roleCode, roleName string) *models.Role {
	t.Helper()
	role, err := NewRoleService(db).Create(CreateRoleParams{
		RoleCode: roleCode,
		RoleName: roleName,
		Operator: "tester",
	})
	require.NoError(t, err)
	return role
}

func mustCreateResource(t *testing.T, db *gorm.DB, params CreateResourceParams) *models.Resource {
	t.Helper()
	if params.Operator == "" {
		params.Operator = "tester"
	}
	resource, err := NewResourceService(db).Create(params)
	require.NoError(t, err)
	return resource
}
