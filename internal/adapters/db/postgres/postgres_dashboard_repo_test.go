package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	customErrors "github.com/Miraines/MoonyAndStarry/commission-service/internal/domain/auth/errors"
	"github.com/Miraines/MoonyAndStarry/commission-service/internal/domain/dashboard"
)

func newMockDashboard(t *testing.T) (*PostgresDashboardRepo, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{})
	require.NoError(t, err)
	return NewPostgresDashboardRepo(db), mock
}

func day(s string) time.Time {
	t, _ := time.Parse(dashboard.DateLayout, s)
	return t
}

var january = dashboard.DateRange{Begin: day("2024-01-01"), End: day("2024-01-31")}

func TestDashboardRepo_ProfitByDate(t *testing.T) {
	r, mock := newMockDashboard(t)

	mock.ExpectQuery(`SELECT pickup_date, SUM\(profit\) FROM tbl_qf_src`).
		WithArgs(january.Begin, january.End).
		WillReturnRows(sqlmock.NewRows([]string{"pickup_date", "sum"}).
			AddRow(day("2024-01-01"), "1200.50").
			AddRow(day("2024-01-02"), "80.00"))

	chart, err := r.Chart(context.Background(), dashboard.ProfitByDate, january)
	require.NoError(t, err)
	require.Equal(t, []string{"2024-01-01 (Mon)", "2024-01-02 (Tue)"}, chart.XAxis)
	require.Equal(t, []string{"1200.50", "80.00"}, chart.YAxis)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDashboardRepo_CountByCity(t *testing.T) {
	r, mock := newMockDashboard(t)

	mock.ExpectQuery(`SELECT origin_city, COUNT\(bol\) AS quantity FROM tbl_finance_qf`).
		WillReturnRows(sqlmock.NewRows([]string{"origin_city", "quantity"}).
			AddRow("Dallas", int64(12)).
			AddRow("Austin", int64(3)))

	chart, err := r.Chart(context.Background(), dashboard.LoadsPerCityOrigin, january)
	require.NoError(t, err)
	require.Equal(t, []string{"Dallas", "Austin"}, chart.XAxis)
	require.Equal(t, []string{"12", "3"}, chart.YAxis)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDashboardRepo_OriginAndDestinationAreDistinct(t *testing.T) {
	pairs := map[dashboard.ReportID]string{
		dashboard.LoadsPerCityOrigin:       "origin_city",
		dashboard.LoadsPerCityDestination:  "destination_city",
		dashboard.LoadsPerStateOrigin:      "origin_state",
		dashboard.LoadsPerStateDestination: "destination_state",
	}
	for id, column := range pairs {
		require.Contains(t, reports[id].query, "SELECT "+column+",", id)
	}
}

func TestDashboardRepo_MinutesAreRounded(t *testing.T) {
	r, mock := newMockDashboard(t)

	mock.ExpectQuery(`AVG\(call_duration\)`).
		WithArgs(january.Begin, january.End.Add(24*time.Hour-time.Microsecond)).
		WillReturnRows(sqlmock.NewRows([]string{"user_name", "avg_seconds"}).
			AddRow("ana", 150.0).
			AddRow("luis", 89.0))

	chart, err := r.Chart(context.Background(), dashboard.AverageCallTimePerAgent, january)
	require.NoError(t, err)
	require.Equal(t, []string{"ana", "luis"}, chart.XAxis)
	require.Equal(t, []string{"3", "1"}, chart.YAxis)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDashboardRepo_NullDispositionIsUnknown(t *testing.T) {
	r, mock := newMockDashboard(t)

	mock.ExpectQuery(`SELECT disposition, COUNT\(\*\) AS total FROM tbl_gttapp`).
		WillReturnRows(sqlmock.NewRows([]string{"disposition", "total"}).
			AddRow("Sale", int64(4)).
			AddRow(nil, int64(2)))

	chart, err := r.Chart(context.Background(), dashboard.CallDispositionSummary, january)
	require.NoError(t, err)
	require.Equal(t, []string{"Sale", "Unknown"}, chart.XAxis)
	require.Equal(t, []string{"4", "2"}, chart.YAxis)
}

func TestDashboardRepo_EmptyRangeGivesEmptyAxes(t *testing.T) {
	r, mock := newMockDashboard(t)

	mock.ExpectQuery(`FROM tbl_gttapp`).
		WillReturnRows(sqlmock.NewRows([]string{"call_date", "count"}))

	chart, err := r.Chart(context.Background(), dashboard.CallVolumeByDate, january)
	require.NoError(t, err)
	require.NotNil(t, chart.XAxis)
	require.Empty(t, chart.XAxis)
	require.Empty(t, chart.YAxis)
}

func TestDashboardRepo_Errors(t *testing.T) {
	r, mock := newMockDashboard(t)

	_, err := r.Chart(context.Background(), dashboard.ReportID("nope"), january)
	require.True(t, customErrors.IsInvalidArgument(err))

	mock.ExpectQuery(`FROM tbl_qf_src`).WillReturnError(errors.New("connection reset"))
	_, err = r.Chart(context.Background(), dashboard.CostByDate, january)
	require.Error(t, err)
	require.Contains(t, err.Error(), "connection reset")
}

func TestDashboardRepo_EveryReportIsCatalogued(t *testing.T) {
	ids := []dashboard.ReportID{
		dashboard.ProfitByDate, dashboard.CostByDate,
		dashboard.LoadsPerCustomer, dashboard.LoadsPerCarrier, dashboard.LoadsByDate,
		dashboard.LoadsPerCityOrigin, dashboard.LoadsPerCityDestination,
		dashboard.LoadsPerStateOrigin, dashboard.LoadsPerStateDestination,
		dashboard.CallVolumePerAgent, dashboard.TotalTimeOnCallPerAgent, dashboard.AverageCallTimePerAgent,
		dashboard.CallDispositionSummary, dashboard.CallVolumeByDate,
	}
	require.Len(t, reports, len(ids))
	for _, id := range ids {
		rep, ok := reports[id]
		require.True(t, ok, id)
		require.Contains(t, rep.query, "BETWEEN ? AND ?", id)
		require.Contains(t, rep.query, "LIMIT 1000", id)
	}
}
