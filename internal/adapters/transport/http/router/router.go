package router

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/Miraines/MoonyAndStarry/commission-service/internal/adapters/transport/http/handler"
	httpmw "github.com/Miraines/MoonyAndStarry/commission-service/internal/adapters/transport/http/middleware"
	appsvc "github.com/Miraines/MoonyAndStarry/commission-service/internal/app/auth/service"
	dashsvc "github.com/Miraines/MoonyAndStarry/commission-service/internal/app/dashboard/service"
	"github.com/Miraines/MoonyAndStarry/commission-service/internal/domain/dashboard"
)

const (
	rateLimitClients = 10_000
	rateLimitIdleTTL = time.Hour
)

type Options struct {
	Auth      appsvc.Service
	Dashboard dashsvc.Service
	Health    []handler.Dependency
	Cookies   handler.CookieConfig
	Registry  *prometheus.Registry
	Logger    *zap.Logger

	Production       bool
	AllowedOrigins   []string
	AllowCredentials bool
	RateLimitRPS     int
	RateLimitBurst   int
}

var dashboardRoutes = map[string]map[string]dashboard.ReportID{
	"/api/dashboard": {
		"getProfitByDateRange": dashboard.ProfitByDate,
		"getCostByDateRange":   dashboard.CostByDate,
	},
	"/api/qf-dashboard": {
		"loadsPerCustomerByDateRange":         dashboard.LoadsPerCustomer,
		"loadsPerCarrierByDateRange":          dashboard.LoadsPerCarrier,
		"loadsByRangeDate":                    dashboard.LoadsByDate,
		"loadsPerCityOriginByDateRange":       dashboard.LoadsPerCityOrigin,
		"loadsPerCityDestinationByDateRange":  dashboard.LoadsPerCityDestination,
		"loadsPerStateOriginByDateRange":      dashboard.LoadsPerStateOrigin,
		"loadsPerStateDestinationByDateRange": dashboard.LoadsPerStateDestination,
	},
	"/api/gtt-dashboard": {
		"callVolumePerAgentByDateRange":      dashboard.CallVolumePerAgent,
		"totalTimeOnCallPerAgentByDateRange": dashboard.TotalTimeOnCallPerAgent,
		"averageCallTimePerAgentByDateRange": dashboard.AverageCallTimePerAgent,
		"callDispositionSummaryByDateRange":  dashboard.CallDispositionSummary,
		"callVolumeByDateRange":              dashboard.CallVolumeByDate,
	},
}

// New builds the HTTP surface. ctx bounds the background work of the rate
// limiter.
func New(ctx context.Context, o Options) *gin.Engine {
	r := gin.New()
	// Metrics wraps the error handler so recovered panics are counted as 500s.
	r.Use(httpmw.Metrics(o.Registry))
	r.Use(httpmw.ErrorHandler(o.Logger, o.Production))
	r.Use(httpmw.RequestLogger(o.Logger))
	r.Use(httpmw.CORS(o.AllowedOrigins, o.AllowCredentials))
	r.NoRoute(httpmw.NotFound())

	health := handler.NewHealthHandler(o.Logger, o.Health...)
	r.GET("/", health.Root)
	r.GET("/db-health-check", health.DBHealthCheck)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(o.Registry, promhttp.HandlerOpts{})))

	authH := handler.NewAuthHandler(o.Auth, o.Cookies, o.Logger)
	requireAuth := httpmw.Authenticate(o.Auth)
	limited := httpmw.NewHTTPRateLimitPerIP(ctx, o.RateLimitRPS, o.RateLimitBurst, rateLimitClients, rateLimitIdleTTL)

	auth := r.Group("/api/auth")
	auth.POST("/register", limited, authH.Register)
	auth.POST("/login", limited, authH.Login)
	auth.POST("/logout", authH.Logout)
	auth.POST("/refresh", limited, authH.Refresh)
	auth.GET("/verify", authH.Verify)
	auth.GET("/profile", requireAuth, authH.Profile)
	auth.POST("/block-user/:id", requireAuth, authH.BlockUser)
	auth.POST("/unblock-user/:id", requireAuth, authH.UnblockUser)
	auth.POST("/delete-user/:id", requireAuth, authH.DeleteUser)
	auth.POST("/restore-user/:id", requireAuth, authH.RestoreUser)

	dashH := handler.NewDashboardHandler(o.Dashboard)
	for prefix, routes := range dashboardRoutes {
		g := r.Group(prefix, requireAuth)
		for path, id := range routes {
			g.GET("/"+path, dashH.Chart(id))
		}
	}
	return r
}
