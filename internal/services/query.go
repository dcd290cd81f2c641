package services

import (
	"fmt"

	"gorm.io/gorm"
)

// TimeRangeParams 时间范围过滤参数，毫秒时间戳，闭区间
type TimeRangeParams struct {
	CreatedFrom int64 `json:"created_from" form:"created_from"`
	CreatedTo   int64 `json:"created_to" form:"created_to"`
	UpdatedFrom int64 `json:"updated_from" form:"updated_from"`
	UpdatedTo   int64 `json:"updated_to" form:"updated_to"`
}

// applyTimeRange 追加时间范围条件
func applyTimeRange(query *gorm.DB, p TimeRangeParams) *gorm.DB {
	if p.CreatedFrom > 0 {
		query = query.Where("created_at >= ?", p.CreatedFrom)
	}
	if p.CreatedTo > 0 {
		query = query.Where("created_at <= ?", p.CreatedTo)
	}
	if p.UpdatedFrom > 0 {
		query = query.Where("updated_at >= ?", p.UpdatedFrom)
	}
	if p.UpdatedTo > 0 {
		query = query.Where("updated_at <= ?", p.UpdatedTo)
	}
	return query
}

// likeIf 字符串字段非空时追加模糊匹配条件
func likeIf(query *gorm.DB, column, value string) *gorm.DB {
	if value == "" {
		return query
	}
	return query.Where(column+" LIKE ?", fmt.Sprintf("%%%s%%", value))
}
