package services

import (
	"errors"
	"unicode/utf8"

	"padmin/internal/models"
	apperrors "padmin/pkg/errors"
	"padmin/pkg/pagination"

	"gorm.io/gorm"
)

type RoleService struct {
	db *gorm.DB
}

func NewRoleService(db *gorm.DB) *RoleService {
	return &RoleService{db: db}
}

// CreateRoleParams 创建角色参数
type CreateRoleParams struct {
	RoleCode string
	RoleName string
	Sort     int
	Remark   string
	Operator string
}

// UpdateRoleParams 更新角色参数，角色编码不可变更
type UpdateRoleParams struct {
	RoleName string
	Status   string
	Sort     *int
	Remark   *string
	Operator string
}

// RoleFilter 角色查询过滤条件
type RoleFilter struct {
	RoleCode string `json:"role_code" form:"role_code"`
	RoleName string `json:"role_name" form:"role_name"`
	Status   string `json:"status" form:"status"`
	TimeRangeParams
}

// ========== 基础CRUD方法 ==========

// Create 创建角色
func (s *RoleService) Create(params CreateRoleParams) (*models.Role, error) {
	if err := s.ValidateCreateParams(params.RoleCode, params.RoleName); err != nil {
		return nil, err
	}

	role := &models.Role{
		BaseModel: models.BaseModel{
			Sort:      params.Sort,
			Remark:    params.Remark,
			CreatedBy: params.Operator,
			UpdatedBy: params.Operator,
		},
		RoleCode: params.RoleCode,
		RoleName: params.RoleName,
		Status:   models.StatusEnabled,
	}

	if err := s.db.Create(role).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.New(apperrors.KindDuplicateKey, "角色编码已存在")
		}
		return nil, err
	}
	return role, nil
}

// GetByCode 根据角色编码获取角色
func (s *RoleService) GetByCode(roleCode string) (*models.Role, error) {
	var role models.Role
	err := s.db.Where("role_code = ?", roleCode).First(&role).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.New(apperrors.KindNotFound, "角色不存在")
		}
		return nil, err
	}
	return &role, nil
}

// Update 更新角色
func (s *RoleService) Update(roleCode string, params UpdateRoleParams) (*models.Role, error) {
	if params.Status != "" && !s.IsValidStatus(params.Status) {
		return nil, apperrors.New(apperrors.KindValidation, "状态只能是enabled或disabled")
	}
	if params.RoleName != "" && !s.ValidateName(params.RoleName) {
		return nil, apperrors.New(apperrors.KindValidation, "角色名称长度必须在2-50个字符之间")
	}

	role, err := s.GetByCode(roleCode)
	if err != nil {
		return nil, err
	}

	if params.RoleName != "" {
		role.RoleName = params.RoleName
	}
	if params.Status != "" {
		role.Status = params.Status
	}
	if params.Sort != nil {
		role.Sort = *params.Sort
	}
	if params.Remark != nil {
		role.Remark = *params.Remark
	}
	role.UpdatedBy = params.Operator

	if err := s.db.Save(role).Error; err != nil {
		return nil, err
	}
	return role, nil
}

// Delete 删除角色
//
// 仍被任何用户引用的角色不可删除。可删除时，角色的资源授权与角色行
// 在同一事务内移除，失败整体回滚。
func (s *RoleService) Delete(roleCode string) (*models.Role, error) {
	role, err := s.GetByCode(roleCode)
	if err != nil {
		return nil, err
	}

	var refCount int64
	if err := s.db.Model(&models.UserRole{}).Where("role_code = ?", roleCode).Count(&refCount).Error; err != nil {
		return nil, err
	}
	if refCount > 0 {
		return nil, apperrors.New(apperrors.KindRoleInUse, "角色仍被%d个用户引用，不可删除", refCount)
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("role_code = ?", roleCode).Delete(&models.RoleResource{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Role{}, role.ID).Error
	})
	if err != nil {
		return nil, err
	}
	return role, nil
}

// Find 组合条件查询角色列表
func (s *RoleService) Find(filter RoleFilter, page *pagination.PageParams) ([]*models.Role, int64, error) {
	page.Normalize()

	query := s.db.Model(&models.Role{})
	query = likeIf(query, "role_code", filter.RoleCode)
	query = likeIf(query, "role_name", filter.RoleName)
	query = likeIf(query, "status", filter.Status)
	query = applyTimeRange(query, filter.TimeRangeParams)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var roles []*models.Role
	if !page.ReturnAll {
		query = query.Offset(page.GetOffset()).Limit(page.GetLimit())
	}
	if err := query.Find(&roles).Error; err != nil {
		return nil, 0, err
	}
	return roles, total, nil
}

// ========== 验证方法 ==========

// ValidateCode 验证角色编码
func (s *RoleService) ValidateCode(code string) bool {
	if len(code) < 2 || len(code) > 50 {
		return false
	}
	// 只允许字母、数字和下划线
	for _, r := range code {
		if !((r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '_') {
			return false
		}
	}
	return true
}

// ValidateName 验证角色名称
func (s *RoleService) ValidateName(name string) bool {
	runeCount := utf8.RuneCountInString(name)
	return runeCount >= 2 && runeCount <= 50
}

// IsValidStatus 验证角色状态
func (s *RoleService) IsValidStatus(status string) bool {
	return status == models.StatusEnabled || status == models.StatusDisabled
}

// ValidateCreateParams 验证创建角色的参数
func (s *RoleService) ValidateCreateParams(code, name string) error {
	if !s.ValidateCode(code) {
		return apperrors.New(apperrors.KindValidation, "角色编码长度必须在2-50个字符之间，且只能包含字母、数字和下划线")
	}
	if !s.ValidateName(name) {
		return apperrors.New(apperrors.KindValidation, "角色名称长度必须在2-50个字符之间")
	}
	return nil
}
