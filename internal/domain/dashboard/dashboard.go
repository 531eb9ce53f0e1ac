// Package dashboard describes the pre-aggregated reports served to the
// analytics front end.
package dashboard

import (
	"context"
	"time"
)

// DateLayout is the wire format of beginDate / endDate.
const DateLayout = "2006-01-02"

type ReportID string

const (
	ProfitByDate ReportID = "profit_by_date"
	CostByDate   ReportID = "cost_by_date"

	LoadsPerCustomer         ReportID = "loads_per_customer"
	LoadsPerCarrier          ReportID = "loads_per_carrier"
	LoadsByDate              ReportID = "loads_by_date"
	LoadsPerCityOrigin       ReportID = "loads_per_city_origin"
	LoadsPerCityDestination  ReportID = "loads_per_city_destination"
	LoadsPerStateOrigin      ReportID = "loads_per_state_origin"
	LoadsPerStateDestination ReportID = "loads_per_state_destination"

	CallVolumePerAgent      ReportID = "call_volume_per_agent"
	TotalTimeOnCallPerAgent ReportID = "total_time_on_call_per_agent"
	AverageCallTimePerAgent ReportID = "average_call_time_per_agent"
	CallDispositionSummary  ReportID = "call_disposition_summary"
	CallVolumeByDate        ReportID = "call_volume_by_date"
)

// Chart is the two-axis series every report renders to. Both axes have the
// same length; numbers are carried as strings.
type Chart struct {
	XAxis []string `json:"xAxis"`
	YAxis []string `json:"yAxis"`
}

type DateRange struct {
	Begin time.Time
	End   time.Time
}

func (r DateRange) BeginString() string { return r.Begin.Format(DateLayout) }

func (r DateRange) EndString() string { return r.End.Format(DateLayout) }

type Repo interface {
	Chart(ctx context.Context, id ReportID, r DateRange) (Chart, error)
}
