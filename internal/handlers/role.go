package handlers

import (
	"padmin/internal/services"
	"padmin/pkg/pagination"
	"padmin/pkg/response"

	"github.com/gin-gonic/gin"
)

type RoleHandler struct {
	roleService *services.RoleService
}

func NewRoleHandler(roleService *services.RoleService) *RoleHandler {
	return &RoleHandler{roleService: roleService}
}

type CreateRoleRequest struct {
	RoleCode string `json:"role_code" binding:"required"`
	RoleName string `json:"role_name" binding:"required"`
	Sort     int    `json:"sort"`
	Remark   string `json:"remark"`
}

type UpdateRoleRequest struct {
	RoleName string  `json:"role_name"`
	Status   string  `json:"status"`
	Sort     *int    `json:"sort"`
	Remark   *string `json:"remark"`
}

// Create 创建角色
func (h *RoleHandler) Create(c *gin.Context) {
	var req CreateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "请求参数错误: "+err.Error())
		return
	}

	role, err := h.roleService.Create(services.CreateRoleParams{
		RoleCode: req.RoleCode,
		RoleName: req.RoleName,
		Sort:     req.Sort,
		Remark:   req.Remark,
		Operator: c.GetString("username"),
	})
	if err != nil {
		response.AppError(c, err)
		return
	}

	response.Success(c, role)
}

// List 组合条件查询角色列表
func (h *RoleHandler) List(c *gin.Context) {
	var filter services.RoleFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "请求参数错误: "+err.Error())
		return
	}

	page := pagination.ParsePageParams(c)
	roles, total, err := h.roleService.Find(filter, page)
	if err != nil {
		response.AppError(c, err)
		return
	}

	response.SuccessWithPage(c, roles, pagination.NewPageInfo(page.Page, page.PageSize, total))
}

// Get 根据角色编码获取角色
func (h *RoleHandler) Get(c *gin.Context) {
	role, err := h.roleService.GetByCode(c.Param("code"))
	if err != nil {
		response.AppError(c, err)
		return
	}
	response.Success(c, role)
}

// Update 更新角色，角色编码不可变更
func (h *RoleHandler) Update(c *gin.Context) {
	var req UpdateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "请求参数错误: "+err.Error())
		return
	}

	role, err := h.roleService.Update(c.Param("code"), services.UpdateRoleParams{
		RoleName: req.RoleName,
		Status:   req.Status,
		Sort:     req.Sort,
		Remark:   req.Remark,
		Operator: c.GetString("username"),
	})
	if err != nil {
		response.AppError(c, err)
		return
	}

	response.Success(c, role)
}

// Delete 删除角色，仍被用户引用时拒绝
func (h *RoleHandler) Delete(c *gin.Context) {
	role, err := h.roleService.Delete(c.Param("code"))
	if err != nil {
		response.AppError(c, err)
		return
	}
	response.Success(c, role)
}
