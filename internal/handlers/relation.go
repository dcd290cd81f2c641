package handlers

import (
	"padmin/internal/services"
	"padmin/pkg/pagination"
	"padmin/pkg/response"

	"github.com/gin-gonic/gin"
)

// RelationHandler 用户-角色、角色-资源授权接口
type RelationHandler struct {
	userRoleService     *services.UserRoleService
	roleResourceService *services.RoleResourceService
}

func NewRelationHandler(userRoleService *services.UserRoleService, roleResourceService *services.RoleResourceService) *RelationHandler {
	return &RelationHandler{
		userRoleService:     userRoleService,
		roleResourceService: roleResourceService,
	}
}

// GrantRole 给用户授予角色
func (h *RelationHandler) GrantRole(c *gin.Context) {
	link, err := h.userRoleService.Grant(c.Param("username"), c.Param("code"), c.GetString("username"))
	if err != nil {
		response.AppError(c, err)
		return
	}
	response.Success(c, link)
}

// RevokeRole 解除用户的角色
func (h *RelationHandler) RevokeRole(c *gin.Context) {
	if err := h.userRoleService.Revoke(c.Param("username"), c.Param("code")); err != nil {
		response.AppError(c, err)
		return
	}
	response.SuccessWithMessage(c, "解除成功", nil)
}

// ListUserRoles 组合条件查询用户-角色关联列表
func (h *RelationHandler) ListUserRoles(c *gin.Context) {
	var filter services.UserRoleFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "请求参数错误: "+err.Error())
		return
	}

	page := pagination.ParsePageParams(c)
	links, total, err := h.userRoleService.Find(filter, page)
	if err != nil {
		response.AppError(c, err)
		return
	}

	response.SuccessWithPage(c, links, pagination.NewPageInfo(page.Page, page.PageSize, total))
}

// GrantResource 给角色授予资源
func (h *RelationHandler) GrantResource(c *gin.Context) {
	link, err := h.roleResourceService.Grant(c.Param("code"), c.Param("resourceCode"), c.GetString("username"))
	if err != nil {
		response.AppError(c, err)
		return
	}
	response.Success(c, link)
}

// RevokeResource 解除角色的资源
func (h *RelationHandler) RevokeResource(c *gin.Context) {
	if err := h.roleResourceService.Revoke(c.Param("code"), c.Param("resourceCode")); err != nil {
		response.AppError(c, err)
		return
	}
	response.SuccessWithMessage(c, "解除成功", nil)
}

// ListRoleResources 组合条件查询角色-资源关联列表
func (h *RelationHandler) ListRoleResources(c *gin.Context) {
	var filter services.RoleResourceFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "请求参数错误: "+err.Error())
		return
	}

	page := pagination.ParsePageParams(c)
	links, total, err := h.roleResourceService.Find(filter, page)
	if err != nil {
		response.AppError(c, err)
		return
	}

	response.SuccessWithPage(c, links, pagination.NewPageInfo(page.Page, page.PageSize, total))
}
