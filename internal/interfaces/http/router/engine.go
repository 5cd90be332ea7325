package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/learnhub/backoffice/internal/infrastructure/auth"
	"github.com/learnhub/backoffice/internal/infrastructure/config"
	"github.com/learnhub/backoffice/internal/infrastructure/logger"
	"github.com/learnhub/backoffice/internal/interfaces/http/handler"
	"github.com/learnhub/backoffice/internal/interfaces/http/middleware"
	"go.uber.org/zap"
)

// Dependencies are the collaborators NewEngine wires together
type Dependencies struct {
	Logger    *zap.Logger
	HTTP      config.HTTPConfig
	Tracing   middleware.TracingConfig
	Metrics   MetricsHandler
	Tokens    middleware.TokenValidator
	Reports   *handler.ReportHandler
	Dashboard *handler.DashboardHandler
	System    *handler.SystemHandler
	// ExportLimiter throttles the export endpoints per user; nil disables it
	ExportLimiter *middleware.RateLimiter
	APIVersion    string
}

// MetricsHandler records requests and serves the Prometheus exposition
type MetricsHandler interface {
	middleware.RequestObserver
	Handler() http.Handler
}

// NewEngine builds the gin engine with the global middleware chain
// (request id, recovery, request log, tracing, security headers, CORS),
// the unauthenticated /health and /metrics endpoints and the
// JWT-protected admin and student groups.
func NewEngine(deps Dependencies) (*gin.Engine, error) {
	log := deps.Logger
	if log == nil {
		log = zap.NewNop()
	}

	engine := gin.New()
	// nil trusts no proxy
	if err := engine.SetTrustedProxies(deps.HTTP.TrustedProxies); err != nil {
		return nil, err
	}

	engine.Use(
		middleware.RequestID(),
		logger.Recovery(log),
		logger.GinMiddleware(log),
		middleware.TracingWithConfig(deps.Tracing),
		middleware.SpanErrorMarker(),
		middleware.Secure(),
		middleware.CORSWithConfig(middleware.CORSConfigFrom(deps.HTTP)),
	)
	if deps.Metrics != nil {
		engine.Use(middleware.HTTPMetrics(deps.Metrics))
		engine.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))
	}
	if deps.System != nil {
		engine.GET("/health", deps.System.Health)
	}

	jwt := middleware.JWTAuthMiddlewareWithConfig(middleware.JWTMiddlewareConfig{
		Validator: deps.Tokens,
		Logger:    log,
	})

	admin := NewDomainGroup("admin", "/admin").
		Use(jwt, middleware.TracingAttributeInjector(), middleware.RequireRole(auth.RoleAdmin))
	if deps.Dashboard != nil {
		admin.GET("/dashboard", deps.Dashboard.Metrics)
	}
	student := NewDomainGroup("student", "/student").
		Use(jwt, middleware.TracingAttributeInjector(), middleware.RequireRole(auth.RoleStudent))

	if h := deps.Reports; h != nil {
		throttle := middleware.RateLimit(deps.ExportLimiter)
		admin.
			GET("/reports/course-sales", h.CourseSales).
			GET("/reports/course-sales/export", throttle, h.ExportCourseSales).
			GET("/reports/membership-sales", h.MembershipSales).
			GET("/reports/membership-sales/export", throttle, h.ExportMembershipSales)
		student.
			GET("/reports/courses", h.StudentCourses).
			GET("/reports/courses/export", throttle, h.ExportStudentCourses).
			GET("/reports/slots", h.StudentSlots).
			GET("/reports/slots/export", throttle, h.ExportStudentSlots)
	}

	version := deps.APIVersion
	if version == "" {
		version = "v1"
	}
	NewRouter(engine, WithAPIVersion(version)).
		Register(admin).
		Register(student).
		Setup()

	return engine, nil
}
