package main

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/society-admin/backend/internal/amenities"
	"github.com/society-admin/backend/internal/auth"
	"github.com/society-admin/backend/internal/managers"
	"github.com/society-admin/backend/internal/middleware"
	"github.com/society-admin/backend/internal/models"
	"github.com/society-admin/backend/internal/parking"
	"github.com/society-admin/backend/pkg/response"
)

// routeDeps is everything the router needs; main wires it from Postgres, tests from memory.
type routeDeps struct {
	logger         *zap.Logger
	allowedOrigins []string
	validate       middleware.TokenValidator
	roles          middleware.RoleResolver

	auth      *auth.Handler
	amenities *amenities.Handler
	parking   *parking.Handler
	managers  *managers.Handler
}

func newRouter(d routeDeps) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORS(d.allowedOrigins))
	router.Use(middleware.Logger(d.logger))

	// Health
	router.GET("/health", func(c *gin.Context) { response.OK(c, gin.H{"status": "ok"}) })

	// Auth (public)
	router.POST("/auth/login", d.auth.Login)
	// Me resolves the role itself.
	router.GET("/auth/me", middleware.JWT(d.validate), d.auth.Me)

	// Protected API: JWT, then the caller's current role on every request.
	api := router.Group("/api")
	api.Use(middleware.JWT(d.validate), middleware.ResolveRole(d.roles, d.logger))

	staff := api.Group("", middleware.RequireRole(models.RoleSuperadmin, models.RoleManager))
	{
		staff.GET("/amenities", d.amenities.List)
		staff.POST("/amenities/reorder", d.amenities.Reorder)
		staff.PATCH("/amenities", d.amenities.Rename)

		staff.GET("/parking", d.parking.List)
		staff.PATCH("/parking", d.parking.Set)
	}

	admin := api.Group("/managers", middleware.RequireRole(models.RoleSuperadmin))
	{
		admin.GET("", d.managers.List)
		admin.POST("", d.managers.Create)
		admin.DELETE("", d.managers.Delete)
	}

	return router
}
