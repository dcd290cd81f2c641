package services

import (
	"errors"
	"time"

	"padmin/internal/models"
	apperrors "padmin/pkg/errors"
	"padmin/pkg/pagination"
	"padmin/pkg/tree"

	"gorm.io/gorm"
)

type UserService struct {
	db *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

// CreateUserParams 创建用户参数
type CreateUserParams struct {
	Username string
	Password string
	IsAdmin  bool
	Sort     int
	Remark   string
	Operator string
}

// UpdateUserParams 更新用户参数，密码不在此处修改
type UpdateUserParams struct {
	IsAdmin  *bool
	Status   string
	Sort     *int
	Remark   *string
	Operator string
}

// UserFilter 用户查询过滤条件
type UserFilter struct {
	Username string `json:"username" form:"username"`
	Status   string `json:"status" form:"status"`
	Remark   string `json:"remark" form:"remark"`
	IsAdmin  *bool  `json:"is_admin" form:"is_admin"`
	TimeRangeParams
}

// ========== 基础CRUD方法 ==========

// Create 创建用户
func (s *UserService) Create(params CreateUserParams) (*models.PublicUser, error) {
	if err := s.ValidateCreateParams(params.Username, params.Password); err != nil {
		return nil, err
	}

	user := &models.User{
		BaseModel: models.BaseModel{
			Sort:      params.Sort,
			Remark:    params.Remark,
			CreatedBy: params.Operator,
			UpdatedBy: params.Operator,
		},
		Username: params.Username,
		IsAdmin:  params.IsAdmin,
		Status:   models.StatusEnabled,
	}
	if err := user.SetPassword(params.Password); err != nil {
		return nil, err
	}

	if err := s.db.Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.New(apperrors.KindDuplicateKey, "用户名已存在")
		}
		return nil, err
	}
	return user.Public(), nil
}

// GetByUsername 根据用户名获取用户公开视图
func (s *UserService) GetByUsername(username string) (*models.PublicUser, error) {
	user, err := s.GetSensitiveByUsername(username)
	if err != nil {
		return nil, err
	}
	return user.Public(), nil
}

// GetSensitiveByUsername 根据用户名获取用户（含密码摘要），仅登录校验使用
func (s *UserService) GetSensitiveByUsername(username string) (*models.User, error) {
	var user models.User
	err := s.db.Where("username = ? AND del_flag = ?", username, false).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.New(apperrors.KindNotFound, "用户不存在")
		}
		return nil, err
	}
	return &user, nil
}

// Update 更新用户
func (s *UserService) Update(username string, params UpdateUserParams) (*models.PublicUser, error) {
	if params.Status != "" && !s.IsValidStatus(params.Status) {
		return nil, apperrors.New(apperrors.KindValidation, "状态只能是enabled或disabled")
	}

	user, err := s.GetSensitiveByUsername(username)
	if err != nil {
		return nil, err
	}

	if params.IsAdmin != nil {
		user.IsAdmin = *params.IsAdmin
	}
	if params.Status != "" {
		user.Status = params.Status
	}
	if params.Sort != nil {
		user.Sort = *params.Sort
	}
	if params.Remark != nil {
		user.Remark = *params.Remark
	}
	user.UpdatedBy = params.Operator

	if err := s.db.Save(user).Error; err != nil {
		return nil, err
	}
	return user.Public(), nil
}

// Delete 删除用户，级联删除其全部角色关联
//
// 三步在同一事务内执行：删除用户角色关联、删除用户行，任一步失败整体回滚。
// 共享角色的资源授权不受影响。
func (s *UserService) Delete(username string) (*models.PublicUser, error) {
	user, err := s.GetSensitiveByUsername(username)
	if err != nil {
		return nil, err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("username = ?", username).Delete(&models.UserRole{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.User{}, user.ID).Error
	})
	if err != nil {
		return nil, err
	}
	return user.Public(), nil
}

// SoftDelete 软删除用户，同样先解除全部角色关联
func (s *UserService) SoftDelete(username, operator string) (*models.PublicUser, error) {
	user, err := s.GetSensitiveByUsername(username)
	if err != nil {
		return nil, err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("username = ?", username).Delete(&models.UserRole{}).Error; err != nil {
			return err
		}
		return tx.Model(&models.User{}).Where("id = ?", user.ID).
			Updates(map[string]interface{}{"del_flag": true, "updated_by": operator}).Error
	})
	if err != nil {
		return nil, err
	}
	user.DelFlag = true
	return user.Public(), nil
}

// UpdateLastSignIn 更新最后登录时间
func (s *UserService) UpdateLastSignIn(username string) error {
	now := time.Now().UnixMilli()
	return s.db.Model(&models.User{}).Where("username = ?", username).
		Update("last_sign_in_at", now).Error
}

// ========== 查询方法 ==========

// Find 组合条件查询用户列表
func (s *UserService) Find(filter UserFilter, page *pagination.PageParams) ([]*models.PublicUser, int64, error) {
	page.Normalize()

	query := s.db.Model(&models.User{}).Where("del_flag = ?", false)
	query = likeIf(query, "username", filter.Username)
	query = likeIf(query, "status", filter.Status)
	query = likeIf(query, "remark", filter.Remark)
	if filter.IsAdmin != nil {
		query = query.Where("is_admin = ?", *filter.IsAdmin)
	}
	query = applyTimeRange(query, filter.TimeRangeParams)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var users []*models.User
	if !page.ReturnAll {
		query = query.Offset(page.GetOffset()).Limit(page.GetLimit())
	}
	if err := query.Find(&users).Error; err != nil {
		return nil, 0, err
	}

	records := make([]*models.PublicUser, 0, len(users))
	for _, user := range users {
		records = append(records, user.Public())
	}
	return records, total, nil
}

// ========== 角色与资源方法 ==========

// roleCodes 用户被授予的角色编码
func (s *UserService) roleCodes(username string) ([]string, error) {
	var codes []string
	err := s.db.Model(&models.UserRole{}).Where("username = ?", username).
		Pluck("role_code", &codes).Error
	return codes, err
}

// GetRoles 获取用户的角色列表
func (s *UserService) GetRoles(username string, page *pagination.PageParams) ([]*models.Role, int64, error) {
	page.Normalize()

	if _, err := s.GetSensitiveByUsername(username); err != nil {
		return nil, 0, err
	}

	codes, err := s.roleCodes(username)
	if err != nil {
		return nil, 0, err
	}
	if len(codes) == 0 {
		return []*models.Role{}, 0, nil
	}

	query := s.db.Model(&models.Role{}).Where("role_code IN ?", codes)

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

// effectiveResources 用户经启用角色可达的资源集合，按sort升序
func (s *UserService) effectiveResources(username string, onlyVisible bool) ([]*models.Resource, error) {
	if _, err := s.GetSensitiveByUsername(username); err != nil {
		return nil, err
	}

	codes, err := s.roleCodes(username)
	if err != nil {
		return nil, err
	}
	if len(codes) == 0 {
		return []*models.Resource{}, nil
	}

	// 只保留启用状态的角色
	var enabledCodes []string
	err = s.db.Model(&models.Role{}).
		Where("role_code IN ? AND status = ?", codes, models.StatusEnabled).
		Pluck("role_code", &enabledCodes).Error
	if err != nil {
		return nil, err
	}
	if len(enabledCodes) == 0 {
		return []*models.Resource{}, nil
	}

	var resourceCodes []string
	err = s.db.Model(&models.RoleResource{}).
		Where("role_code IN ?", enabledCodes).
		Distinct("resource_code").
		Pluck("resource_code", &resourceCodes).Error
	if err != nil {
		return nil, err
	}
	if len(resourceCodes) == 0 {
		return []*models.Resource{}, nil
	}

	query := s.db.Where("resource_code IN ?", resourceCodes)
	if onlyVisible {
		query = query.Where("status = ? AND is_hide = ?", models.StatusEnabled, false)
	}

	var resources []*models.Resource
	if err := query.Order("sort ASC").Find(&resources).Error; err != nil {
		return nil, err
	}
	return resources, nil
}

// GetResources 获取用户可达的资源平铺列表
func (s *UserService) GetResources(username string, page *pagination.PageParams) ([]*models.Resource, int64, error) {
	page.Normalize()

	resources, err := s.effectiveResources(username, false)
	if err != nil {
		return nil, 0, err
	}

	total := int64(len(resources))
	if page.ReturnAll {
		return resources, total, nil
	}

	start := page.GetOffset()
	if start >= len(resources) {
		return []*models.Resource{}, total, nil
	}
	end := start + page.GetLimit()
	if end > len(resources) {
		end = len(resources)
	}
	return resources[start:end], total, nil
}

// EffectiveResourceTree 用户有效资源树
//
// 取用户启用角色可达、启用且未隐藏的资源，按sort升序连接成森林。
// 没有可达资源时返回空森林而非错误。
func (s *UserService) EffectiveResourceTree(username string) ([]*models.Resource, error) {
	resources, err := s.effectiveResources(username, true)
	if err != nil {
		return nil, err
	}
	return buildResourceTree(resources), nil
}

// buildResourceTree 把资源平铺列表连接成森林，ParentID为0的节点作为根
func buildResourceTree(resources []*models.Resource) []*models.Resource {
	for _, r := range resources {
		r.Children = make([]*models.Resource, 0)
	}
	return tree.Build(resources, tree.Config[*models.Resource, uint]{
		ID:       func(r *models.Resource) uint { return r.ID },
		ParentID: func(r *models.Resource) uint { return r.ParentID },
		IsRoot:   func(r *models.Resource) bool { return r.ParentID == 0 },
		AddChild: func(parent, child *models.Resource) {
			parent.Children = append(parent.Children, child)
		},
	})
}

// ========== 验证相关方法 ==========

// ValidateUsername 验证用户名
func (s *UserService) ValidateUsername(username string) bool {
	if len(username) < 3 || len(username) > 50 {
		return false
	}
	// 只允许字母、数字和下划线
	for _, r := range username {
		if !((r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '_') {
			return false
		}
	}
	return true
}

// ValidatePassword 验证密码
func (s *UserService) ValidatePassword(password string) error {
	if len(password) < 6 {
		return apperrors.New(apperrors.KindValidation, "密码长度不能少于6位")
	}
	if len(password) > 50 {
		return apperrors.New(apperrors.KindValidation, "密码长度不能超过50位")
	}
	return nil
}

// IsValidStatus 检查状态是否有效
func (s *UserService) IsValidStatus(status string) bool {
	return status == models.StatusEnabled || status == models.StatusDisabled
}

// ValidateCreateParams 验证创建用户的参数
func (s *UserService) ValidateCreateParams(username, password string) error {
	if !s.ValidateUsername(username) {
		return apperrors.New(apperrors.KindValidation, "用户名长度必须在3-50个字符之间，且只能包含字母、数字和下划线")
	}
	return s.ValidatePassword(password)
}
