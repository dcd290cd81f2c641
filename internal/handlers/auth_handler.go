package handlers

import (
	"padmin/internal/models"
	"padmin/internal/services"
	"padmin/pkg/config"
	apperrors "padmin/pkg/errors"
	"padmin/pkg/jwt"
	"padmin/pkg/logger"
	"padmin/pkg/pagination"
	"padmin/pkg/response"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	userService    *services.UserService
	accessManager  *jwt.TokenManager
	refreshManager *jwt.TokenManager
	cookieCfg      config.JWTConfig
}

func NewAuthHandler(userService *services.UserService, accessManager, refreshManager *jwt.TokenManager, cookieCfg config.JWTConfig) *AuthHandler {
	return &AuthHandler{
		userService:    userService,
		accessManager:  accessManager,
		refreshManager: refreshManager,
		cookieCfg:      cookieCfg,
	}
}

type SignInRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type SignUpRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type SignInResponse struct {
	User      *models.PublicUser `json:"user"`
	Tokens    TokenPair          `json:"tokens"`
	Resources []*models.Resource `json:"resources"`
}

// issueTokens 签发双令牌并写入Cookie
func (h *AuthHandler) issueTokens(c *gin.Context, username string) (*TokenPair, error) {
	accessToken, err := h.accessManager.Sign(username)
	if err != nil {
		return nil, err
	}
	refreshToken, err := h.refreshManager.Sign(username)
	if err != nil {
		return nil, err
	}

	c.SetCookie(h.accessManager.Name(), accessToken, h.accessManager.ExpireIn(), h.cookieCfg.CookiePath, "", h.cookieCfg.CookieSecure, true)
	c.SetCookie(h.refreshManager.Name(), refreshToken, h.refreshManager.ExpireIn(), h.cookieCfg.CookiePath, "", h.cookieCfg.CookieSecure, true)

	return &TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

// clearTokens 清除双令牌Cookie
func (h *AuthHandler) clearTokens(c *gin.Context) {
	c.SetCookie(h.accessManager.Name(), "", -1, h.cookieCfg.CookiePath, "", h.cookieCfg.CookieSecure, true)
	c.SetCookie(h.refreshManager.Name(), "", -1, h.cookieCfg.CookiePath, "", h.cookieCfg.CookieSecure, true)
}

// SignIn 用户登录
//
// 用户不存在与密码错误返回完全一致的响应，不暴露账号是否存在。
func (h *AuthHandler) SignIn(c *gin.Context) {
	var req SignInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "请求参数错误: "+err.Error())
		return
	}

	user, err := h.userService.GetSensitiveByUsername(req.Username)
	if err != nil || !user.CheckPassword(req.Password) {
		response.AppError(c, apperrors.New(apperrors.KindInvalidCredentials, "用户名或密码错误"))
		return
	}

	if user.Status != models.StatusEnabled {
		response.AppError(c, apperrors.New(apperrors.KindForbidden, "用户已被禁用"))
		return
	}

	tokens, err := h.issueTokens(c, user.Username)
	if err != nil {
		response.ServerError(c, "生成Token失败")
		return
	}

	// 更新最后登录时间，失败不影响登录流程
	if err := h.userService.UpdateLastSignIn(user.Username); err != nil {
		logger.GetLogger().Warnf("更新最后登录时间失败: %v", err)
	}

	resources, err := h.userService.EffectiveResourceTree(user.Username)
	if err != nil {
		response.AppError(c, err)
		return
	}

	response.Success(c, SignInResponse{
		User:      user.Public(),
		Tokens:    *tokens,
		Resources: resources,
	})
}

// SignUp 用户注册
func (h *AuthHandler) SignUp(c *gin.Context) {
	var req SignUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "请求参数错误: "+err.Error())
		return
	}

	user, err := h.userService.Create(services.CreateUserParams{
		Username: req.Username,
		Password: req.Password,
		Operator: req.Username,
	})
	if err != nil {
		response.AppError(c, err)
		return
	}

	response.Success(c, user)
}

// Refresh 轮换双令牌
//
// 仅凭刷新令牌Cookie换发，新旧访问令牌互不影响。
func (h *AuthHandler) Refresh(c *gin.Context) {
	tokenString, err := c.Cookie(h.refreshManager.Name())
	if err != nil || tokenString == "" {
		response.Unauthorized(c, "请先登录")
		return
	}

	claims, err := h.refreshManager.Verify(tokenString)
	if err != nil || claims.Subject == "" {
		response.Forbidden(c, "令牌无效或已过期")
		return
	}

	user, err := h.userService.GetByUsername(claims.Subject)
	if err != nil {
		response.Forbidden(c, "令牌无效或已过期")
		return
	}

	tokens, err := h.issueTokens(c, user.Username)
	if err != nil {
		response.ServerError(c, "生成Token失败")
		return
	}

	response.Success(c, tokens)
}

// SignOut 用户登出
//
// 无条件清除Cookie，重复调用同样成功。
func (h *AuthHandler) SignOut(c *gin.Context) {
	h.clearTokens(c)
	response.SuccessWithMessage(c, "登出成功", nil)
}

// Me 当前用户信息，含角色与有效资源树
func (h *AuthHandler) Me(c *gin.Context) {
	username := c.GetString("username")

	user, err := h.userService.GetByUsername(username)
	if err != nil {
		response.AppError(c, err)
		return
	}

	roles, _, err := h.userService.GetRoles(username, &pagination.PageParams{ReturnAll: true})
	if err != nil {
		response.AppError(c, err)
		return
	}

	resources, err := h.userService.EffectiveResourceTree(username)
	if err != nil {
		response.AppError(c, err)
		return
	}

	response.Success(c, gin.H{
		"user":      user,
		"roles":     roles,
		"resources": resources,
	})
}
