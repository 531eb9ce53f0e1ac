package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Miraines/MoonyAndStarry/commission-service/internal/adapters/transport/http/dto"
	"github.com/Miraines/MoonyAndStarry/commission-service/internal/adapters/transport/http/handler"
	httpmw "github.com/Miraines/MoonyAndStarry/commission-service/internal/adapters/transport/http/middleware"
	appsvc "github.com/Miraines/MoonyAndStarry/commission-service/internal/app/auth/service"
	customErrors "github.com/Miraines/MoonyAndStarry/commission-service/internal/domain/auth/errors"
	"github.com/Miraines/MoonyAndStarry/commission-service/internal/domain/auth/model"
	"github.com/Miraines/MoonyAndStarry/commission-service/internal/domain/dashboard"
	"github.com/Miraines/MoonyAndStarry/commission-service/internal/domain/result"
)

func init() { gin.SetMode(gin.TestMode) }

// authStub answers only what the routed paths below need.
type authStub struct {
	appsvc.Service
}

func (authStub) VerifyPrincipal(_ context.Context, access string) result.Result[model.Principal] {
	if access != "good" {
		return result.Fail[model.Principal](customErrors.NewInvalidToken("bad token"))
	}
	return result.Ok(model.Principal{Email: "a@b.co"})
}

func (authStub) Login(context.Context, dto.LoginDTO) result.Result[model.Tokens] {
	return result.Fail[model.Tokens](customErrors.ErrInvalidCredentials)
}

type dashStub struct{ ids []dashboard.ReportID }

func (d *dashStub) Chart(_ context.Context, id dashboard.ReportID, _, _ string) result.Result[dashboard.Chart] {
	d.ids = append(d.ids, id)
	return result.Ok(dashboard.Chart{XAxis: []string{}, YAxis: []string{}})
}

func newTestRouter(t *testing.T, dash *dashStub) *gin.Engine {
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	return New(ctx, Options{
		Auth:           authStub{},
		Dashboard:      dash,
		Registry:       prometheus.NewRegistry(),
		Logger:         zap.NewNop(),
		Production:     true,
		RateLimitRPS:   1,
		RateLimitBurst: 2,
		Cookies:        handler.CookieConfig{SameSite: http.SameSiteLaxMode},
	})
}

func serve(r http.Handler, method, target, body string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestDashboardRoutes(t *testing.T) {
	dash := &dashStub{}
	r := newTestRouter(t, dash)
	good := &http.Cookie{Name: httpmw.AccessCookie, Value: "good"}

	var n int
	for prefix, routes := range dashboardRoutes {
		for path, id := range routes {
			target := prefix + "/" + path + "?beginDate=2024-01-01&endDate=2024-01-02"

			w := serve(r, http.MethodGet, target, "")
			require.Equal(t, http.StatusUnauthorized, w.Code, target)

			w = serve(r, http.MethodGet, target, "", good)
			require.Equal(t, http.StatusOK, w.Code, target)
			require.Equal(t, id, dash.ids[len(dash.ids)-1])
			n++
		}
	}
	require.Equal(t, 14, n)
}

func TestNoRouteAndRoot(t *testing.T) {
	r := newTestRouter(t, &dashStub{})

	w := serve(r, http.MethodGet, "/", "")
	require.Equal(t, http.StatusOK, w.Code)

	w = serve(r, http.MethodGet, "/api/unknown", "")
	require.Equal(t, http.StatusNotFound, w.Code)
	require.Contains(t, w.Body.String(), "route not found: GET /api/unknown")
}

func TestLoginIsRateLimited(t *testing.T) {
	r := newTestRouter(t, &dashStub{})
	body := `{"email":"a@b.co","password":"x"}`

	require.Equal(t, http.StatusBadRequest, serve(r, http.MethodPost, "/api/auth/login", body).Code)
	require.Equal(t, http.StatusBadRequest, serve(r, http.MethodPost, "/api/auth/login", body).Code)
	require.Equal(t, http.StatusTooManyRequests, serve(r, http.MethodPost, "/api/auth/login", body).Code)
}

func TestMetricsEndpoint(t *testing.T) {
	r := newTestRouter(t, &dashStub{})
	serve(r, http.MethodGet, "/", "")

	w := serve(r, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "commission_http_requests_total")
}

func TestPanicIsContained(t *testing.T) {
	r := newTestRouter(t, &dashStub{})
	// Register is not implemented by the stub and panics on the nil interface.
	w := serve(r, http.MethodPost, "/api/auth/register", `{"id":"1","email":"a@b.co","password":"Secret123"}`)
	require.Equal(t, http.StatusInternalServerError, w.Code)
	require.NotContains(t, w.Body.String(), "stack")

	w = serve(r, http.MethodGet, "/metrics", "")
	require.Contains(t, w.Body.String(),
		`commission_http_requests_total{method="POST",route="/api/auth/register",status="500"} 1`,
		"recovered panics are counted")
}
