package models

// 资源类型常量
const (
	ResourceTypeMenu    = "menu"    // 菜单
	ResourceTypePage    = "page"    // 页面
	ResourceTypeElement = "element" // 元素
)

// Resource 资源模型，通过ParentID组成森林，根节点ParentID为0
type Resource struct {
	BaseModel
	ParentID     uint   `json:"parent_id" gorm:"default:0"`
	ResourceCode string `json:"resource_code" gorm:"uniqueIndex;not null;size:100"` // 资源编码
	ResourceName string `json:"resource_name" gorm:"not null;size:100"`             // 资源名称
	ResourceType string `json:"resource_type" gorm:"not null;size:20"`              // 资源类型：menu, page, element
	Path         string `json:"path" gorm:"size:255"`                               // 页面路径
	ActivePath   string `json:"active_path" gorm:"size:255"`                        // 激活路径
	Component    string `json:"component" gorm:"size:255"`                          // 组件路径
	Icon         string `json:"icon" gorm:"size:100"`                               // 图标
	IsLink       bool   `json:"is_link" gorm:"default:false"`                       // 是否外链
	IsCache      bool   `json:"is_cache" gorm:"default:false"`                      // 是否缓存
	IsAffix      bool   `json:"is_affix" gorm:"default:false"`                      // 是否固定
	IsHide       bool   `json:"is_hide" gorm:"default:false"`                       // 是否隐藏
	Status       string `json:"status" gorm:"size:20;default:'enabled'"`            // 状态：enabled, disabled

	Children []*Resource `json:"children" gorm:"-"`
}

// TableName 表名
func (r *Resource) TableName() string {
	return "resources"
}

// IsValidResourceType 检查资源类型是否有效
func IsValidResourceType(resourceType string) bool {
	switch resourceType {
	case ResourceTypeMenu, ResourceTypePage, ResourceTypeElement:
		return true
	default:
		return false
	}
}
