package router

import (
	"github.com/aidocs/backend/config"
	"github.com/aidocs/backend/internal/handler"
	"github.com/aidocs/backend/internal/middleware"
	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
)

func Setup(
	cfg *config.Config,
	authenticator middleware.Authenticator,
	authHandler *handler.AuthHandler,
	projectHandler *handler.ProjectHandler,
	sectionHandler *handler.SectionHandler,
) *gin.Engine {
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()

	r.Use(middleware.RequestIDMiddleware())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition", middleware.RequestIDHeader},
		AllowCredentials: true,
	}))
	// 导出文件本身已是 zip 压缩包
	r.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPathsRegexs([]string{`^/projects/[^/]+/export$`})))

	r.GET("/healthz", handler.Health)
	authHandler.RegisterRoutes(r)

	authed := r.Group("")
	authed.Use(middleware.BearerAuth(authenticator))
	{
		projectHandler.RegisterRoutes(authed)
		sectionHandler.RegisterRoutes(authed)
	}

	return r
}
