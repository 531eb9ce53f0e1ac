package service

import (
	"context"
	"fmt"
	"time"

	customErrors "github.com/Miraines/MoonyAndStarry/commission-service/internal/domain/auth/errors"
	"github.com/Miraines/MoonyAndStarry/commission-service/internal/domain/dashboard"
	"github.com/Miraines/MoonyAndStarry/commission-service/internal/domain/result"
)

type Service interface {
	Chart(ctx context.Context, id dashboard.ReportID, beginDate, endDate string) result.Result[dashboard.Chart]
}

type dashboardService struct {
	repo dashboard.Repo
}

func New(repo dashboard.Repo) Service {
	return &dashboardService{repo: repo}
}

func (s *dashboardService) Chart(ctx context.Context, id dashboard.ReportID, beginDate, endDate string) result.Result[dashboard.Chart] {
	rng, err := ParseDateRange(beginDate, endDate)
	if err != nil {
		return result.Fail[dashboard.Chart](err)
	}

	chart, err := s.repo.Chart(ctx, id, rng)
	if err != nil {
		if customErrors.IsInvalidArgument(err) {
			return result.Fail[dashboard.Chart](err)
		}
		return result.Fail[dashboard.Chart](customErrors.WrapInternal(err, string(id)))
	}
	return result.Ok(chart)
}

// ParseDateRange accepts YYYY-MM-DD bounds with begin <= end.
func ParseDateRange(beginDate, endDate string) (dashboard.DateRange, error) {
	if beginDate == "" || endDate == "" {
		return dashboard.DateRange{}, customErrors.NewInvalidArgument("beginDate and endDate are required")
	}
	begin, err := time.Parse(dashboard.DateLayout, beginDate)
	if err != nil {
		return dashboard.DateRange{}, customErrors.NewInvalidArgument(fmt.Sprintf("beginDate %q is not a YYYY-MM-DD date", beginDate))
	}
	end, err := time.Parse(dashboard.DateLayout, endDate)
	if err != nil {
		return dashboard.DateRange{}, customErrors.NewInvalidArgument(fmt.Sprintf("endDate %q is not a YYYY-MM-DD date", endDate))
	}
	if end.Before(begin) {
		return dashboard.DateRange{}, customErrors.NewInvalidArgument("endDate is before beginDate")
	}
	return dashboard.DateRange{Begin: begin, End: end}, nil
}
