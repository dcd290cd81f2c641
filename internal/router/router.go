package router

import (
	"time"

	"padmin/internal/handlers"
	"padmin/internal/middleware"
	"padmin/internal/services"
	"padmin/pkg/config"
	"padmin/pkg/jwt"
	"padmin/pkg/response"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SetupRouter 设置路由
func SetupRouter(db *gorm.DB, cfg *config.Config) *gin.Engine {
	router := gin.New()

	// 中间件，panic统一由ErrorHandler兜成标准错误响应
	router.Use(gin.Logger())
	router.Use(middleware.RequestID())
	router.Use(middleware.ErrorHandler())
	router.Use(middleware.SetupCORS(cfg.CORS))

	registerRoutes(router, db, cfg)
	return router
}

// 注册所有路由
func registerRoutes(router *gin.Engine, db *gorm.DB, cfg *config.Config) {
	accessManager := jwt.NewTokenManager(cfg.JWT.AccessCookie, cfg.JWT.AccessSecret, cfg.JWT.AccessExpire)
	refreshManager := jwt.NewTokenManager(cfg.JWT.RefreshCookie, cfg.JWT.RefreshSecret, cfg.JWT.RefreshExpire)

	userService := services.NewUserService(db)
	roleService := services.NewRoleService(db)
	resourceService := services.NewResourceService(db)
	userRoleService := services.NewUserRoleService(db)
	roleResourceService := services.NewRoleResourceService(db)

	auth := middleware.NewAuthMiddleware(userService, accessManager)
	// 写操作仅管理员可用，读操作所有登录用户可用
	admin := auth.RequireAdmin()

	api := router.Group("/api/v1")
	{
		// 健康检查接口
		api.GET("/health", healthCheck)
		api.GET("/ping", ping)

		// 认证路由（无需登录）
		authHandler := handlers.NewAuthHandler(userService, accessManager, refreshManager, cfg.JWT)
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/sign-in", authHandler.SignIn)   // 用户登录
			authGroup.POST("/sign-up", authHandler.SignUp)   // 用户注册
			authGroup.POST("/refresh", authHandler.Refresh)  // 轮换双令牌
			authGroup.POST("/sign-out", authHandler.SignOut) // 用户登出

			// 获取当前用户完整信息
			authGroup.GET("/me", auth.RequireAuth(), authHandler.Me)
		}

		relationHandler := handlers.NewRelationHandler(userRoleService, roleResourceService)

		// 用户路由
		userHandler := handlers.NewUserHandler(userService)
		users := api.Group("/users", auth.RequireAuth())
		{
			users.POST("", admin, userHandler.Create)
			users.GET("", userHandler.List)
			users.GET("/:username", userHandler.Get)
			users.PUT("/:username", admin, userHandler.Update)
			users.DELETE("/:username", admin, userHandler.Delete)
			users.POST("/:username/soft-delete", admin, userHandler.SoftDelete)

			// 用户的角色与可达资源
			users.GET("/:username/roles", userHandler.GetRoles)
			users.GET("/:username/resources", userHandler.GetResources)
			users.GET("/:username/resource-tree", userHandler.GetResourceTree)
			users.POST("/:username/roles/:code", admin, relationHandler.GrantRole)
			users.DELETE("/:username/roles/:code", admin, relationHandler.RevokeRole)
		}

		// 角色路由
		roleHandler := handlers.NewRoleHandler(roleService)
		roles := api.Group("/roles", auth.RequireAuth())
		{
			roles.POST("", admin, roleHandler.Create)
			roles.GET("", roleHandler.List)
			roles.GET("/:code", roleHandler.Get)
			roles.PUT("/:code", admin, roleHandler.Update)
			roles.DELETE("/:code", admin, roleHandler.Delete)

			// 角色的资源授权
			roles.POST("/:code/resources/:resourceCode", admin, relationHandler.GrantResource)
			roles.DELETE("/:code/resources/:resourceCode", admin, relationHandler.RevokeResource)
		}

		// 资源路由
		resourceHandler := handlers.NewResourceHandler(resourceService)
		resources := api.Group("/resources", auth.RequireAuth())
		{
			resources.POST("", admin, resourceHandler.Create)
			resources.GET("", resourceHandler.List)
			resources.GET("/tree", resourceHandler.Tree)
			resources.GET("/:code", resourceHandler.Get)
			resources.PUT("/:code", admin, resourceHandler.Update)
			resources.DELETE("/:code", admin, resourceHandler.Delete)
		}

		// 关联表查询
		api.GET("/user-roles", auth.RequireAuth(), relationHandler.ListUserRoles)
		api.GET("/role-resources", auth.RequireAuth(), relationHandler.ListRoleResources)
	}
}

func healthCheck(c *gin.Context) {
	data := map[string]interface{}{
		"status":    "ok",
		"timestamp": time.Now(),
		"service":   "padmin",
		"version":   "1.0.0",
	}
	response.Success(c, data)
}

func ping(c *gin.Context) {
	response.SuccessWithMessage(c, "pong", nil)
}
