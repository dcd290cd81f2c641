package models

// 通用状态常量
const (
	StatusEnabled  = "enabled"
	StatusDisabled = "disabled"
)

// BaseModel 基础模型，时间戳为服务端写入的毫秒值
type BaseModel struct {
	ID        uint   `json:"id" gorm:"primarykey"`
	Sort      int    `json:"sort" gorm:"not null;default:0"`
	Remark    string `json:"remark" gorm:"size:255"`
	CreatedAt int64  `json:"created_at" gorm:"autoCreateTime:milli"`
	UpdatedAt int64  `json:"updated_at" gorm:"autoUpdateTime:milli"`
	CreatedBy string `json:"created_by" gorm:"size:50"`
	UpdatedBy string `json:"updated_by" gorm:"size:50"`
}
