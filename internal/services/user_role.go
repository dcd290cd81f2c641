package services

import (
	"errors"

	"padmin/internal/models"
	apperrors "padmin/pkg/errors"
	"padmin/pkg/pagination"

	"gorm.io/gorm"
)

type UserRoleService struct {
	db *gorm.DB
}

func NewUserRoleService(db *gorm.DB) *UserRoleService {
	return &UserRoleService{db: db}
}

// UserRoleFilter 用户-角色关联查询条件
type UserRoleFilter struct {
	Username string `json:"username" form:"username"`
	RoleCode string `json:"role_code" form:"role_code"`
	TimeRangeParams
}

// Grant 给用户授予角色
//
// 用户与角色都必须已存在，重复授予返回冲突。
// 唯一性由(username, role_code)复合唯一索引兜底，并发授予只会成功一次。
func (s *UserRoleService) Grant(username, roleCode, operator string) (*models.UserRole, error) {
	var userCount int64
	if err := s.db.Model(&models.User{}).Where("username = ? AND del_flag = ?", username, false).Count(&userCount).Error; err != nil {
		return nil, err
	}
	if userCount == 0 {
		return nil, apperrors.New(apperrors.KindNotFound, "用户不存在")
	}

	var roleCount int64
	if err := s.db.Model(&models.Role{}).Where("role_code = ?", roleCode).Count(&roleCount).Error; err != nil {
		return nil, err
	}
	if roleCount == 0 {
		return nil, apperrors.New(apperrors.KindNotFound, "角色不存在")
	}

	link := &models.UserRole{
		BaseModel: models.BaseModel{
			CreatedBy: operator,
			UpdatedBy: operator,
		},
		Username: username,
		RoleCode: roleCode,
	}
	if err := s.db.Create(link).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.New(apperrors.KindDuplicateLink, "该用户已拥有此角色")
		}
		return nil, err
	}
	return link, nil
}

// Revoke 解除用户的角色
func (s *UserRoleService) Revoke(username, roleCode string) error {
	result := s.db.Where("username = ? AND role_code = ?", username, roleCode).Delete(&models.UserRole{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperrors.New(apperrors.KindNotFound, "该用户未拥有此角色")
	}
	return nil
}

// Find 组合条件查询用户-角色关联列表
func (s *UserRoleService) Find(filter UserRoleFilter, page *pagination.PageParams) ([]*models.UserRole, int64, error) {
	page.Normalize()

	query := s.db.Model(&models.UserRole{})
	query = likeIf(query, "username", filter.Username)
	query = likeIf(query, "role_code", filter.RoleCode)
	query = applyTimeRange(query, filter.TimeRangeParams)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var links []*models.UserRole
	if !page.ReturnAll {
		query = query.Offset(page.GetOffset()).Limit(page.GetLimit())
	}
	if err := query.Order("id ASC").Find(&links).Error; err != nil {
		return nil, 0, err
	}
	return links, total, nil
}
