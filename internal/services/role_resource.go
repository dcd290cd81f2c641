package services

import (
	"errors"

	"padmin/internal/models"
	apperrors "padmin/pkg/errors"
	"padmin/pkg/pagination"

	"gorm.io/gorm"
)

type RoleResourceService struct {
	db *gorm.DB
}

func NewRoleResourceService(db *gorm.DB) *RoleResourceService {
	return &RoleResourceService{db: db}
}

// RoleResourceFilter 角色-资源关联查询条件
type RoleResourceFilter struct {
	RoleCode     string `json:"role_code" form:"role_code"`
	ResourceCode string `json:"resource_code" form:"resource_code"`
	TimeRangeParams
}

// Grant 给角色授予资源
//
// 角色与资源都必须已存在，重复授予返回冲突。
func (s *RoleResourceService) Grant(roleCode, resourceCode, operator string) (*models.RoleResource, error) {
	var roleCount int64
	if err := s.db.Model(&models.Role{}).Where("role_code = ?", roleCode).Count(&roleCount).Error; err != nil {
		return nil, err
	}
	if roleCount == 0 {
		return nil, apperrors.New(apperrors.KindNotFound, "角色不存在")
	}

	var resourceCount int64
	if err := s.db.Model(&models.Resource{}).Where("resource_code = ?", resourceCode).Count(&resourceCount).Error; err != nil {
		return nil, err
	}
	if resourceCount == 0 {
		return nil, apperrors.New(apperrors.KindNotFound, "资源不存在")
	}

	link := &models.RoleResource{
		BaseModel: models.BaseModel{
			CreatedBy: operator,
			UpdatedBy: operator,
		},
		RoleCode:     roleCode,
		ResourceCode: resourceCode,
	}
	if err := s.db.Create(link).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.New(apperrors.KindDuplicateLink, "该角色已拥有此资源")
		}
		return nil, err
	}
	return link, nil
}

// Revoke 解除角色的资源
func (s *RoleResourceService) Revoke(roleCode, resourceCode string) error {
	result := s.db.Where("role_code = ? AND resource_code = ?", roleCode, resourceCode).Delete(&models.RoleResource{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperrors.New(apperrors.KindNotFound, "该角色未拥有此资源")
	}
	return nil
}

// Find 组合条件查询角色-资源关联列表
func (s *RoleResourceService) Find(filter RoleResourceFilter, page *pagination.PageParams) ([]*models.RoleResource, int64, error) {
	page.Normalize()

	query := s.db.Model(&models.RoleResource{})
	query = likeIf(query, "role_code", filter.RoleCode)
	query = likeIf(query, "resource_code", filter.ResourceCode)
	query = applyTimeRange(query, filter.TimeRangeParams)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var links []*models.RoleResource
	if !page.ReturnAll {
		query = query.Offset(page.GetOffset()).Limit(page.GetLimit())
	}
	if err := query.Order("id ASC").Find(&links).Error; err != nil {
		return nil, 0, err
	}
	return links, total, nil
}
