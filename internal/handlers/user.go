package handlers

import (
	"padmin/internal/services"
	"padmin/pkg/pagination"
	"padmin/pkg/response"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	userService *services.UserService
}

func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

type CreateUserRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
	IsAdmin  bool   `json:"is_admin"`
	Sort     int    `json:"sort"`
	Remark   string `json:"remark"`
}

type UpdateUserRequest struct {
	IsAdmin *bool   `json:"is_admin"`
	Status  string  `json:"status"`
	Sort    *int    `json:"sort"`
	Remark  *string `json:"remark"`
}

// Create 创建用户
func (h *UserHandler) Create(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "请求参数错误: "+err.Error())
		return
	}

	user, err := h.userService.Create(services.CreateUserParams{
		Username: req.Username,
		Password: req.Password,
		IsAdmin:  req.IsAdmin,
		Sort:     req.Sort,
		Remark:   req.Remark,
		Operator: c.GetString("username"),
	})
	if err != nil {
		response.AppError(c, err)
		return
	}

	response.Success(c, user)
}

// List 组合条件查询用户列表
func (h *UserHandler) List(c *gin.Context) {
	var filter services.UserFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "请求参数错误: "+err.Error())
		return
	}

	page := pagination.ParsePageParams(c)
	users, total, err := h.userService.Find(filter, page)
	if err != nil {
		response.AppError(c, err)
		return
	}

	response.SuccessWithPage(c, users, pagination.NewPageInfo(page.Page, page.PageSize, total))
}

// Get 根据用户名获取用户
func (h *UserHandler) Get(c *gin.Context) {
	user, err := h.userService.GetByUsername(c.Param("username"))
	if err != nil {
		response.AppError(c, err)
		return
	}
	response.Success(c, user)
}

// Update 更新用户
func (h *UserHandler) Update(c *gin.Context) {
	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "请求参数错误: "+err.Error())
		return
	}

	user, err := h.userService.Update(c.Param("username"), services.UpdateUserParams{
		IsAdmin:  req.IsAdmin,
		Status:   req.Status,
		Sort:     req.Sort,
		Remark:   req.Remark,
		Operator: c.GetString("username"),
	})
	if err != nil {
		response.AppError(c, err)
		return
	}

	response.Success(c, user)
}

// Delete 删除用户，连带清理其全部角色授权
func (h *UserHandler) Delete(c *gin.Context) {
	user, err := h.userService.Delete(c.Param("username"))
	if err != nil {
		response.AppError(c, err)
		return
	}
	response.Success(c, user)
}

// SoftDelete 软删除用户
//
// 标记del_flag并清理其角色授权，行本身保留用于审计。
func (h *UserHandler) SoftDelete(c *gin.Context) {
	user, err := h.userService.SoftDelete(c.Param("username"), c.GetString("username"))
	if err != nil {
		response.AppError(c, err)
		return
	}
	response.Success(c, user)
}

// GetRoles 获取用户的角色列表
func (h *UserHandler) GetRoles(c *gin.Context) {
	page := pagination.ParsePageParams(c)
	roles, total, err := h.userService.GetRoles(c.Param("username"), page)
	if err != nil {
		response.AppError(c, err)
		return
	}
	response.SuccessWithPage(c, roles, pagination.NewPageInfo(page.Page, page.PageSize, total))
}

// GetResources 获取用户可达的资源平铺列表
func (h *UserHandler) GetResources(c *gin.Context) {
	page := pagination.ParsePageParams(c)
	resources, total, err := h.userService.GetResources(c.Param("username"), page)
	if err != nil {
		response.AppError(c, err)
		return
	}
	response.SuccessWithPage(c, resources, pagination.NewPageInfo(page.Page, page.PageSize, total))
}

// GetResourceTree 获取用户有效资源树
func (h *UserHandler) GetResourceTree(c *gin.Context) {
	resources, err := h.userService.EffectiveResourceTree(c.Param("username"))
	if err != nil {
		response.AppError(c, err)
		return
	}
	response.Success(c, resources)
}
