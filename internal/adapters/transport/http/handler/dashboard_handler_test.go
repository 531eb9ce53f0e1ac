package handler

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	dashsvc "github.com/Miraines/MoonyAndStarry/commission-service/internal/app/dashboard/service"
	customErrors "github.com/Miraines/MoonyAndStarry/commission-service/internal/domain/auth/errors"
	"github.com/Miraines/MoonyAndStarry/commission-service/internal/domain/dashboard"
	"github.com/Miraines/MoonyAndStarry/commission-service/internal/domain/result"
)

type dashRepoStub struct {
	chart dashboard.Chart
	err   error
	gotID dashboard.ReportID
	gotR  dashboard.DateRange
}

func (s *dashRepoStub) Chart(_ context.Context, id dashboard.ReportID, r dashboard.DateRange) (dashboard.Chart, error) {
	s.gotID, s.gotR = id, r
	return s.chart, s.err
}

func dashRouter(repo dashboard.Repo) *gin.Engine {
	h := NewDashboardHandler(dashsvc.New(repo))
	r := gin.New()
	r.GET("/profit", h.Chart(dashboard.ProfitByDate))
	return r
}

func TestDashboardChart_OK(t *testing.T) {
	repo := &dashRepoStub{chart: dashboard.Chart{
		XAxis: []string{"2024-01-01 (Mon)"},
		YAxis: []string{"12.5"},
	}}
	w := do(dashRouter(repo), http.MethodGet, "/profit?beginDate=2024-01-01&endDate=2024-01-31", "")

	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `{"success":true,"chart":{"xAxis":["2024-01-01 (Mon)"],"yAxis":["12.5"]}}`, w.Body.String())
	require.Equal(t, dashboard.ProfitByDate, repo.gotID)
	require.Equal(t, "2024-01-31", repo.gotR.EndString())
}

func TestDashboardChart_BadRange(t *testing.T) {
	for _, q := range []string{
		"",
		"?beginDate=2024-01-01",
		"?beginDate=01/02/2024&endDate=2024-01-31",
		"?beginDate=2024-02-01&endDate=2024-01-01",
	} {
		repo := &dashRepoStub{}
		w := do(dashRouter(repo), http.MethodGet, "/profit"+q, "")
		require.Equal(t, http.StatusBadRequest, w.Code, q)
		require.Equal(t, false, jsonBody(t, w)["success"])
		require.Empty(t, repo.gotID, "repo must not be queried for %q", q)
	}
}

func TestDashboardChart_StoreFailure(t *testing.T) {
	repo := &dashRepoStub{err: errors.New("connection reset")}
	w := do(dashRouter(repo), http.MethodGet, "/profit?beginDate=2024-01-01&endDate=2024-01-02", "")

	require.Equal(t, http.StatusInternalServerError, w.Code)
	require.NotContains(t, w.Body.String(), "connection reset")
}

type chartSvcStub struct {
	res result.Result[dashboard.Chart]
}

func (s chartSvcStub) Chart(context.Context, dashboard.ReportID, string, string) result.Result[dashboard.Chart] {
	return s.res
}

func TestDashboardChart_UnknownReport(t *testing.T) {
	h := NewDashboardHandler(chartSvcStub{res: result.Fail[dashboard.Chart](customErrors.NewInvalidArgument(`unknown report "x"`))})
	r := gin.New()
	r.GET("/x", h.Chart("x"))

	w := do(r, http.MethodGet, "/x?beginDate=2024-01-01&endDate=2024-01-02", "")
	require.Equal(t, http.StatusBadRequest, w.Code)
}
