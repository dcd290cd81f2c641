package models

// Role 角色模型
type Role struct {
	BaseModel
	RoleCode string `json:"role_code" gorm:"uniqueIndex;not null;size:100"` // 角色编码
	RoleName string `json:"role_name" gorm:"not null;size:100"`             // 角色名称
	Status   string `json:"status" gorm:"size:20;default:'enabled'"`        // 状态：enabled, disabled
}

// TableName 表名
func (r *Role) TableName() string {
	return "roles"
}

// RoleResource 角色资源关联表，组合键唯一防止重复授权
type RoleResource struct {
	BaseModel
	RoleCode     string `json:"role_code" gorm:"not null;size:100;uniqueIndex:idx_role_resource_pair"`
	ResourceCode string `json:"resource_code" gorm:"not null;size:100;uniqueIndex:idx_role_resource_pair"`
}

// TableName 表名
func (rr *RoleResource) TableName() string {
	return "role_resources"
}
