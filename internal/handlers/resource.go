package handlers

import (
	"padmin/internal/services"
	"padmin/pkg/pagination"
	"padmin/pkg/response"

	"github.com/gin-gonic/gin"
)

type ResourceHandler struct {
	resourceService *services.ResourceService
}

func NewResourceHandler(resourceService *services.ResourceService) *ResourceHandler {
	return &ResourceHandler{resourceService: resourceService}
}

type CreateResourceRequest struct {
	ParentID     uint   `json:"parent_id"`
	ResourceCode string `json:"resource_code" binding:"required"`
	ResourceName string `json:"resource_name" binding:"required"`
	ResourceType string `json:"resource_type" binding:"required"`
	Path         string `json:"path"`
	ActivePath   string `json:"active_path"`
	Component    string `json:"component"`
	Icon         string `json:"icon"`
	IsLink       bool   `json:"is_link"`
	IsCache      bool   `json:"is_cache"`
	IsAffix      bool   `json:"is_affix"`
	IsHide       bool   `json:"is_hide"`
	Sort         int    `json:"sort"`
	Remark       string `json:"remark"`
}

type UpdateResourceRequest struct {
	ParentID     *uint   `json:"parent_id"`
	ResourceName string  `json:"resource_name"`
	ResourceType string  `json:"resource_type"`
	Path         *string `json:"path"`
	ActivePath   *string `json:"active_path"`
	Component    *string `json:"component"`
	Icon         *string `json:"icon"`
	IsLink       *bool   `json:"is_link"`
	IsCache      *bool   `json:"is_cache"`
	IsAffix      *bool   `json:"is_affix"`
	IsHide       *bool   `json:"is_hide"`
	Status       string  `json:"status"`
	Sort         *int    `json:"sort"`
	Remark       *string `json:"remark"`
}

// Create 创建资源
func (h *ResourceHandler) Create(c *gin.Context) {
	var req CreateResourceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "请求参数错误: "+err.Error())
		return
	}

	resource, err := h.resourceService.Create(services.CreateResourceParams{
		ParentID:     req.ParentID,
		ResourceCode: req.ResourceCode,
		ResourceName: req.ResourceName,
		ResourceType: req.ResourceType,
		Path:         req.Path,
		ActivePath:   req.ActivePath,
		Component:    req.Component,
		Icon:         req.Icon,
		IsLink:       req.IsLink,
		IsCache:      req.IsCache,
		IsAffix:      req.IsAffix,
		IsHide:       req.IsHide,
		Sort:         req.Sort,
		Remark:       req.Remark,
		Operator:     c.GetString("username"),
	})
	if err != nil {
		response.AppError(c, err)
		return
	}

	response.Success(c, resource)
}

// List 组合条件查询资源列表
func (h *ResourceHandler) List(c *gin.Context) {
	var filter services.ResourceFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "请求参数错误: "+err.Error())
		return
	}

	page := pagination.ParsePageParams(c)
	resources, total, err := h.resourceService.Find(filter, page)
	if err != nil {
		response.AppError(c, err)
		return
	}

	response.SuccessWithPage(c, resources, pagination.NewPageInfo(page.Page, page.PageSize, total))
}

// Get 根据资源编码获取资源
func (h *ResourceHandler) Get(c *gin.Context) {
	resource, err := h.resourceService.GetByCode(c.Param("code"))
	if err != nil {
		response.AppError(c, err)
		return
	}
	response.Success(c, resource)
}

// Update 更新资源，资源编码不可变更
func (h *ResourceHandler) Update(c *gin.Context) {
	var req UpdateResourceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "请求参数错误: "+err.Error())
		return
	}

	resource, err := h.resourceService.Update(c.Param("code"), services.UpdateResourceParams{
		ParentID:     req.ParentID,
		ResourceName: req.ResourceName,
		ResourceType: req.ResourceType,
		Path:         req.Path,
		ActivePath:   req.ActivePath,
		Component:    req.Component,
		Icon:         req.Icon,
		IsLink:       req.IsLink,
		IsCache:      req.IsCache,
		IsAffix:      req.IsAffix,
		IsHide:       req.IsHide,
		Status:       req.Status,
		Sort:         req.Sort,
		Remark:       req.Remark,
		Operator:     c.GetString("username"),
	})
	if err != nil {
		response.AppError(c, err)
		return
	}

	response.Success(c, resource)
}

// Delete 删除资源，仍被角色引用或存在子资源时拒绝
func (h *ResourceHandler) Delete(c *gin.Context) {
	resource, err := h.resourceService.Delete(c.Param("code"))
	if err != nil {
		response.AppError(c, err)
		return
	}
	response.Success(c, resource)
}

// Tree 全量资源树
func (h *ResourceHandler) Tree(c *gin.Context) {
	forest, err := h.resourceService.Tree()
	if err != nil {
		response.AppError(c, err)
		return
	}
	response.Success(c, forest)
}
