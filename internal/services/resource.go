package services

import (
	"errors"

	"padmin/internal/models"
	apperrors "padmin/pkg/errors"
	"padmin/pkg/pagination"

	"gorm.io/gorm"
)

type ResourceService struct {
	db *gorm.DB
}

func NewResourceService(db *gorm.DB) *ResourceService {
	return &ResourceService{db: db}
}

// CreateResourceParams 创建资源参数
type CreateResourceParams struct {
	ParentID     uint
	ResourceCode string
	ResourceName string
	ResourceType string
	Path         string
	ActivePath   string
	Component    string
	Icon         string
	IsLink       bool
	IsCache      bool
	IsAffix      bool
	IsHide       bool
	Sort         int
	Remark       string
	Operator     string
}

// UpdateResourceParams 更新资源参数，资源编码不可变更
type UpdateResourceParams struct {
	ParentID     *uint
	ResourceName string
	ResourceType string
	Path         *string
	ActivePath   *string
	Component    *string
	Icon         *string
	IsLink       *bool
	IsCache      *bool
	IsAffix      *bool
	IsHide       *bool
	Status       string
	Sort         *int
	Remark       *string
	Operator     string
}

// ResourceFilter 资源查询过滤条件
type ResourceFilter struct {
	ResourceCode string `json:"resource_code" form:"resource_code"`
	ResourceName string `json:"resource_name" form:"resource_name"`
	ResourceType string `json:"resource_type" form:"resource_type"`
	Path         string `json:"path" form:"path"`
	Status       string `json:"status" form:"status"`
	ParentID     *uint  `json:"parent_id" form:"parent_id"`
	TimeRangeParams
}

// ========== 基础CRUD方法 ==========

// Create 创建资源
//
// page类型资源必须携带path，component缺省时取path。
func (s *ResourceService) Create(params CreateResourceParams) (*models.Resource, error) {
	if params.ResourceCode == "" {
		return nil, apperrors.New(apperrors.KindValidation, "资源编码不能为空")
	}
	if !models.IsValidResourceType(params.ResourceType) {
		return nil, apperrors.New(apperrors.KindValidation, "资源类型只能是menu、page或element")
	}
	if params.ResourceType == models.ResourceTypePage && params.Path == "" {
		return nil, apperrors.New(apperrors.KindValidation, "page类型资源必须设置path")
	}

	component := params.Component
	if component == "" {
		component = params.Path
	}

	resource := &models.Resource{
		BaseModel: models.BaseModel{
			Sort:      params.Sort,
			Remark:    params.Remark,
			CreatedBy: params.Operator,
			UpdatedBy: params.Operator,
		},
		ParentID:     params.ParentID,
		ResourceCode: params.ResourceCode,
		ResourceName: params.ResourceName,
		ResourceType: params.ResourceType,
		Path:         params.Path,
		ActivePath:   params.ActivePath,
		Component:    component,
		Icon:         params.Icon,
		IsLink:       params.IsLink,
		IsCache:      params.IsCache,
		IsAffix:      params.IsAffix,
		IsHide:       params.IsHide,
		Status:       models.StatusEnabled,
	}

	if err := s.db.Create(resource).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.New(apperrors.KindDuplicateKey, "资源编码已存在")
		}
		return nil, err
	}
	return resource, nil
}

// GetByCode 根据资源编码获取资源
func (s *ResourceService) GetByCode(resourceCode string) (*models.Resource, error) {
	var resource models.Resource
	err := s.db.Where("resource_code = ?", resourceCode).First(&resource).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.New(apperrors.KindNotFound, "资源不存在")
		}
		return nil, err
	}
	return &resource, nil
}

// Update 更新资源
func (s *ResourceService) Update(resourceCode string, params UpdateResourceParams) (*models.Resource, error) {
	if params.ResourceType != "" && !models.IsValidResourceType(params.ResourceType) {
		return nil, apperrors.New(apperrors.KindValidation, "资源类型只能是menu、page或element")
	}
	if params.Status != "" && params.Status != models.StatusEnabled && params.Status != models.StatusDisabled {
		return nil, apperrors.New(apperrors.KindValidation, "状态只能是enabled或disabled")
	}

	resource, err := s.GetByCode(resourceCode)
	if err != nil {
		return nil, err
	}

	if params.ParentID != nil {
		resource.ParentID = *params.ParentID
	}
	if params.ResourceName != "" {
		resource.ResourceName = params.ResourceName
	}
	if params.ResourceType != "" {
		resource.ResourceType = params.ResourceType
	}
	if params.Path != nil {
		resource.Path = *params.Path
	}
	if params.ActivePath != nil {
		resource.ActivePath = *params.ActivePath
	}
	if params.Component != nil {
		resource.Component = *params.Component
	}
	if params.Icon != nil {
		resource.Icon = *params.Icon
	}
	if params.IsLink != nil {
		resource.IsLink = *params.IsLink
	}
	if params.IsCache != nil {
		resource.IsCache = *params.IsCache
	}
	if params.IsAffix != nil {
		resource.IsAffix = *params.IsAffix
	}
	if params.IsHide != nil {
		resource.IsHide = *params.IsHide
	}
	if params.Status != "" {
		resource.Status = params.Status
	}
	if params.Sort != nil {
		resource.Sort = *params.Sort
	}
	if params.Remark != nil {
		resource.Remark = *params.Remark
	}

	// page类型资源不允许清空path
	if resource.ResourceType == models.ResourceTypePage && resource.Path == "" {
		return nil, apperrors.New(apperrors.KindValidation, "page类型资源必须设置path")
	}
	resource.UpdatedBy = params.Operator

	if err := s.db.Save(resource).Error; err != nil {
		return nil, err
	}
	return resource, nil
}

// Delete 删除资源
//
// 仍被任何角色引用、或存在子资源的资源不可删除，需先逐一解除。
func (s *ResourceService) Delete(resourceCode string) (*models.Resource, error) {
	resource, err := s.GetByCode(resourceCode)
	if err != nil {
		return nil, err
	}

	var refCount int64
	if err := s.db.Model(&models.RoleResource{}).Where("resource_code = ?", resourceCode).Count(&refCount).Error; err != nil {
		return nil, err
	}
	if refCount > 0 {
		return nil, apperrors.New(apperrors.KindResourceInUse, "资源仍被%d个角色引用，不可删除", refCount)
	}

	var childCount int64
	if err := s.db.Model(&models.Resource{}).Where("parent_id = ?", resource.ID).Count(&childCount).Error; err != nil {
		return nil, err
	}
	if childCount > 0 {
		return nil, apperrors.New(apperrors.KindResourceInUse, "资源存在%d个子资源，不可删除", childCount)
	}

	if err := s.db.Delete(&models.Resource{}, resource.ID).Error; err != nil {
		return nil, err
	}
	return resource, nil
}

// Find 组合条件查询资源列表
func (s *ResourceService) Find(filter ResourceFilter, page *pagination.PageParams) ([]*models.Resource, int64, error) {
	page.Normalize()

	query := s.db.Model(&models.Resource{})
	query = likeIf(query, "resource_code", filter.ResourceCode)
	query = likeIf(query, "resource_name", filter.ResourceName)
	query = likeIf(query, "resource_type", filter.ResourceType)
	query = likeIf(query, "path", filter.Path)
	query = likeIf(query, "status", filter.Status)
	if filter.ParentID != nil {
		query = query.Where("parent_id = ?", *filter.ParentID)
	}
	query = applyTimeRange(query, filter.TimeRangeParams)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var resources []*models.Resource
	if !page.ReturnAll {
		query = query.Offset(page.GetOffset()).Limit(page.GetLimit())
	}
	if err := query.Order("sort ASC").Find(&resources).Error; err != nil {
		return nil, 0, err
	}
	return resources, total, nil
}

// Tree 全量资源树，按sort升序
func (s *ResourceService) Tree() ([]*models.Resource, error) {
	var resources []*models.Resource
	if err := s.db.Order("sort ASC").Find(&resources).Error; err != nil {
		return nil, err
	}
	return buildResourceTree(resources), nil
}
