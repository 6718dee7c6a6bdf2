package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/handrailjsp/Scheduling/config"
	"github.com/handrailjsp/Scheduling/internal/api/handler"
	"github.com/handrailjsp/Scheduling/internal/api/middleware"
	"github.com/handrailjsp/Scheduling/pkg/jwt"
	"github.com/handrailjsp/Scheduling/pkg/redis"
)

// 登录接口限流：每 IP 每分钟 10 次
const (
	loginRateLimit  = 10
	loginRateWindow = time.Minute
)

// Setup 初始化并返回 Gin 路由引擎
// rdb 可为 nil（Redis 不可用时黑名单与限流降级放行）
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, rdb *redis.Client, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	handler.RegisterValidators()

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(cfg.Server.BodyLimit))

	// ── 健康检查 / 指标 ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	admin := middleware.RoleAuth(jwt.RoleAdmin)

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		// 认证模块（无需认证）
		v1.POST("/auth/login", middleware.RateLimit(rdb, loginRateLimit, loginRateWindow), h.Auth.Login)

		// 只读接口（无需认证）
		v1.GET("/professors", h.Professor.List)
		v1.GET("/professors/:id", h.Professor.Get)
		v1.GET("/professors/:id/slots", h.Slot.ListByProfessor)
		v1.GET("/professors/:id/grid", h.Grid.Week)
		v1.POST("/editor/range-check", h.Grid.RangeCheck)
		v1.GET("/calendar/events", h.Calendar.Events)
		v1.GET("/calendar/events.ics", h.Calendar.ICS)

		// 需要能力凭证的路由
		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(jwtMgr, rdb), admin)
		{
			authorized.POST("/auth/logout", h.Auth.Logout)

			// 教授模块
			authorized.POST("/professors", h.Professor.Create)
			authorized.DELETE("/professors/:id", h.Professor.Delete)
			authorized.DELETE("/professors/:id/slots", h.Slot.DeleteByProfessor)
			authorized.POST("/professors/:id/slots/import", h.Slot.ImportICS)

			// 课时模块
			slots := authorized.Group("/slots")
			{
				slots.POST("", h.Slot.Create)
				slots.PUT("/:id", h.Slot.Update)
				slots.DELETE("/:id", h.Slot.Delete)
			}

			// 排课生成模块
			schedules := authorized.Group("/schedules")
			{
				schedules.POST("/generate", h.Schedule.Generate)
				schedules.GET("", h.Schedule.List)
				schedules.GET("/:id", h.Schedule.Get)
				schedules.GET("/:id/result", h.Schedule.Result)
				schedules.POST("/:id/approve", h.Schedule.Approve)
				schedules.POST("/:id/reject", h.Schedule.Reject)
			}

			// 统计与导出
			authorized.GET("/stats/workload", h.Stats.Workload)
			authorized.GET("/export/professors/:id/timetable", h.Export.ProfessorTimetable)
		}
	}

	return r
}
