package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"gestion-notas/config"
	"gestion-notas/internal/api/handler"
	"gestion-notas/internal/api/middleware"
	"gestion-notas/pkg/jwt"
	"gestion-notas/pkg/redis"
	"gestion-notas/pkg/response"
	"gestion-notas/pkg/validation"
)

// Setup 初始化并返回 Gin 路由引擎
// rdb 可为 nil（未启用 Redis 时认证接口不限流）
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, rdb *redis.Client, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	validation.Register()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := middleware.NewMetrics(reg)

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(middleware.RequestID())
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Logger(logger))
	r.Use(metrics.Handler())
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(cfg.Server.BodyLimit))

	r.NoRoute(func(c *gin.Context) {
		response.NotFound(c, "not found")
	})

	// ── 探测与运维 ──
	r.GET("/", h.System.Probe)
	r.GET("/health", h.System.Health)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	// ── 认证模块（无需认证，限流）──
	var limiter middleware.RateLimiter
	if rdb != nil {
		limiter = rdb
	}
	auth := r.Group("/auth")
	{
		limited := auth.Group("", middleware.RateLimit(limiter, cfg.RateLimit.AuthLimit, cfg.RateLimit.AuthWindow, logger))
		limited.POST("/register", h.Auth.Register)
		limited.POST("/login", h.Auth.Login)
	}

	// ── 需要认证的路由 ──
	authorized := r.Group("")
	authorized.Use(middleware.JWTAuth(jwtMgr))
	{
		authorized.GET("/auth/me", h.Auth.Me)

		// 学生模块
		alumnos := authorized.Group("/alumnos")
		{
			alumnos.GET("", h.Student.List)
			alumnos.GET("/:id", h.Student.Get)
			alumnos.POST("", h.Student.Create)
			alumnos.PUT("/:id", h.Student.Update)
			alumnos.DELETE("/:id", h.Student.Delete)
		}

		// 课程模块
		materias := authorized.Group("/materias")
		{
			materias.GET("", h.Course.List)
			materias.GET("/:id", h.Course.Get)
			materias.POST("", h.Course.Create)
			materias.PUT("/:id", h.Course.Update)
			materias.DELETE("/:id", h.Course.Delete)
		}

		// 成绩模块
		notas := authorized.Group("/notas")
		{
			notas.GET("/alumno/:alumnoId", h.Grade.ListByStudent)
			notas.GET("/materia/:materiaId", h.Grade.ListByCourse)
			notas.GET("/materia/:materiaId/export", h.Grade.ExportCourse)
			notas.POST("/materia/:materiaId/import", h.Grade.ImportCourse)
			notas.GET("/promedio/:alumnoId/:materiaId", h.Grade.Average)
			notas.PUT("/upsert/:alumnoId/:materiaId", h.Grade.Upsert)

			notas.GET("/:alumnoId/:materiaId", h.Grade.Get)
			notas.POST("/:alumnoId/:materiaId", h.Grade.Create)
			notas.PUT("/:alumnoId/:materiaId", h.Grade.Update)
			notas.DELETE("/:alumnoId/:materiaId", h.Grade.Delete)
		}
	}

	return r
}
