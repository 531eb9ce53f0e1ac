package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"strconv"
	"time"

	"gorm.io/gorm"

	customErrors "github.com/Miraines/MoonyAndStarry/commission-service/internal/domain/auth/errors"
	"github.com/Miraines/MoonyAndStarry/commission-service/internal/domain/dashboard"
)

// MaxChartPoints caps every report.
const MaxChartPoints = 1000

// ChartDateLayout renders date buckets as "2024-01-02 (Tue)".
const ChartDateLayout = "2006-01-02 (Mon)"

type labelKind int

const (
	labelText labelKind = iota
	labelDate
)

type valueKind int

const (
	valueRaw valueKind = iota
	valueMinutes
)

// report is one aggregation. query selects exactly two columns, the label
// and the value, and takes the range bounds as its two parameters.
type report struct {
	query     string
	label     labelKind
	value     valueKind
	nullLabel string
	// timestamp columns need the whole end day
	wholeEndDay bool
}

var reports = map[dashboard.ReportID]report{
	dashboard.ProfitByDate: {
		query: `SELECT pickup_date, SUM(profit) FROM tbl_qf_src
			WHERE pickup_date BETWEEN ? AND ?
			GROUP BY pickup_date ORDER BY pickup_date ASC LIMIT 1000`,
		label: labelDate,
	},
	dashboard.CostByDate: {
		query: `SELECT pickup_date, SUM(cost) FROM tbl_qf_src
			WHERE pickup_date BETWEEN ? AND ?
			GROUP BY pickup_date ORDER BY pickup_date ASC LIMIT 1000`,
		label: labelDate,
	},

	dashboard.LoadsPerCustomer: countBy("customer", "*"),
	dashboard.LoadsPerCarrier:  countBy("carrier", "*"),
	dashboard.LoadsByDate: {
		query: `SELECT pickup_date, COUNT(bol) FROM tbl_finance_qf
			WHERE pickup_date BETWEEN ? AND ?
			GROUP BY pickup_date ORDER BY pickup_date ASC LIMIT 1000`,
		label: labelDate,
	},
	dashboard.LoadsPerCityOrigin:       countBy("origin_city", "bol"),
	dashboard.LoadsPerCityDestination:  countBy("destination_city", "bol"),
	dashboard.LoadsPerStateOrigin:      countBy("origin_state", "bol"),
	dashboard.LoadsPerStateDestination: countBy("destination_state", "bol"),

	dashboard.CallVolumePerAgent: {
		query: `SELECT user_name, COUNT(*) AS call_volume FROM tbl_gttapp
			WHERE start_time BETWEEN ? AND ?
			GROUP BY user_name ORDER BY call_volume DESC LIMIT 1000`,
		wholeEndDay: true,
	},
	dashboard.TotalTimeOnCallPerAgent: {
		query: `SELECT user_name, SUM(call_duration) AS total_seconds FROM tbl_gttapp
			WHERE start_time BETWEEN ? AND ?
			GROUP BY user_name ORDER BY total_seconds DESC LIMIT 1000`,
		value:       valueMinutes,
		wholeEndDay: true,
	},
	dashboard.AverageCallTimePerAgent: {
		query: `SELECT user_name, AVG(call_duration) AS avg_seconds FROM tbl_gttapp
			WHERE start_time BETWEEN ? AND ?
			GROUP BY user_name ORDER BY avg_seconds DESC LIMIT 1000`,
		value:       valueMinutes,
		wholeEndDay: true,
	},
	dashboard.CallDispositionSummary: {
		query: `SELECT disposition, COUNT(*) AS total FROM tbl_gttapp
			WHERE start_time BETWEEN ? AND ?
			GROUP BY disposition ORDER BY total DESC LIMIT 1000`,
		nullLabel:   "Unknown",
		wholeEndDay: true,
	},
	dashboard.CallVolumeByDate: {
		query: `SELECT CAST(start_time AS DATE) AS call_date, COUNT(*) FROM tbl_gttapp
			WHERE start_time BETWEEN ? AND ?
			GROUP BY call_date ORDER BY call_date ASC LIMIT 1000`,
		label:       labelDate,
		wholeEndDay: true,
	},
}

func countBy(column, counted string) report {
	return report{query: fmt.Sprintf(`SELECT %[1]s, COUNT(%[2]s) AS quantity FROM tbl_finance_qf
			WHERE pickup_date BETWEEN ? AND ?
			GROUP BY %[1]s ORDER BY quantity DESC LIMIT 1000`, column, counted)}
}

type PostgresDashboardRepo struct {
	db *gorm.DB
}

func NewPostgresDashboardRepo(db *gorm.DB) *PostgresDashboardRepo {
	return &PostgresDashboardRepo{db: db}
}

var _ dashboard.Repo = (*PostgresDashboardRepo)(nil)

func (p *PostgresDashboardRepo) Chart(ctx context.Context, id dashboard.ReportID, r dashboard.DateRange) (dashboard.Chart, error) {
	rep, ok := reports[id]
	if !ok {
		return dashboard.Chart{}, customErrors.NewInvalidArgument(fmt.Sprintf("unknown report %q", id))
	}

	end := r.End
	if rep.wholeEndDay {
		end = end.Add(24*time.Hour - time.Microsecond)
	}

	rows, err := p.db.WithContext(ctx).Raw(rep.query, r.Begin, end).Rows()
	if err != nil {
		return dashboard.Chart{}, err
	}
	defer rows.Close()

	chart := dashboard.Chart{XAxis: []string{}, YAxis: []string{}}
	for rows.Next() {
		x, y, err := rep.scan(rows)
		if err != nil {
			return dashboard.Chart{}, err
		}
		chart.XAxis = append(chart.XAxis, x)
		chart.YAxis = append(chart.YAxis, y)
		if len(chart.XAxis) == MaxChartPoints {
			break
		}
	}
	if err := rows.Err(); err != nil {
		return dashboard.Chart{}, err
	}
	return chart, nil
}

func (rep report) scan(rows *sql.Rows) (string, string, error) {
	var (
		text    sql.NullString
		date    sql.NullTime
		raw     sql.NullString
		seconds sql.NullFloat64
	)
	dest := make([]any, 0, 2)
	if rep.label == labelDate {
		dest = append(dest, &date)
	} else {
		dest = append(dest, &text)
	}
	if rep.value == valueMinutes {
		dest = append(dest, &seconds)
	} else {
		dest = append(dest, &raw)
	}
	if err := rows.Scan(dest...); err != nil {
		return "", "", err
	}

	var x string
	switch {
	case rep.label == labelDate && date.Valid:
		x = date.Time.Format(ChartDateLayout)
	case rep.label == labelText && text.Valid && text.String != "":
		x = text.String
	default:
		x = rep.nullLabel
	}

	y := raw.String
	switch {
	case rep.value == valueMinutes:
		y = strconv.FormatInt(int64(math.Round(seconds.Float64/60)), 10)
	case !raw.Valid:
		y = "0"
	}
	return x, y, nil
}
