package models

import (
	"golang.org/x/crypto/bcrypt"
)

// User 用户模型
type User struct {
	BaseModel
	Username     string `json:"username" gorm:"uniqueIndex;not null;size:50"`
	PasswordHash string `json:"-" gorm:"column:password;not null;size:255"`
	IsAdmin      bool   `json:"is_admin" gorm:"default:false"`
	Status       string `json:"status" gorm:"size:20;default:'enabled'"`
	LastSignInAt *int64 `json:"last_sign_in_at"`
	DelFlag      bool   `json:"del_flag" gorm:"default:false"` // 软删除标记
}

// TableName 表名
func (u *User) TableName() string {
	return "users"
}

// UserRole 用户角色关联表，组合键唯一防止重复授权
type UserRole struct {
	BaseModel
	Username string `json:"username" gorm:"not null;size:50;uniqueIndex:idx_user_role_pair"`
	RoleCode string `json:"role_code" gorm:"not null;size:100;uniqueIndex:idx_user_role_pair"`
}

// TableName 表名
func (ur *UserRole) TableName() string {
	return "user_roles"
}

// PublicUser 用户公开视图，永不携带密码摘要
type PublicUser struct {
	ID           uint   `json:"id"`
	Username     string `json:"username"`
	IsAdmin      bool   `json:"is_admin"`
	Status       string `json:"status"`
	LastSignInAt *int64 `json:"last_sign_in_at"`
	Sort         int    `json:"sort"`
	Remark       string `json:"remark"`
	CreatedAt    int64  `json:"created_at"`
	UpdatedAt    int64  `json:"updated_at"`
	CreatedBy    string `json:"created_by"`
	UpdatedBy    string `json:"updated_by"`
}

// Public 转换为公开视图
func (u *User) Public() *PublicUser {
	return &PublicUser{
		ID:           u.ID,
		Username:     u.Username,
		IsAdmin:      u.IsAdmin,
		Status:       u.Status,
		LastSignInAt: u.LastSignInAt,
		Sort:         u.Sort,
		Remark:       u.Remark,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
		CreatedBy:    u.CreatedBy,
		UpdatedBy:    u.UpdatedBy,
	}
}

// SetPassword 设置密码
func (u *User) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hashedPassword)
	return nil
}

// CheckPassword 验证密码
func (u *User) CheckPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
	return err == nil
}
