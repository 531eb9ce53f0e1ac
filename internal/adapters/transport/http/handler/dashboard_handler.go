package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Miraines/MoonyAndStarry/commission-service/internal/adapters/transport/http/dto"
	dashsvc "github.com/Miraines/MoonyAndStarry/commission-service/internal/app/dashboard/service"
	"github.com/Miraines/MoonyAndStarry/commission-service/internal/domain/dashboard"
)

type DashboardHandler struct {
	svc dashsvc.Service
}

func NewDashboardHandler(svc dashsvc.Service) *DashboardHandler {
	return &DashboardHandler{svc: svc}
}

// Chart serves one report. Date validation belongs to the service so every
// report rejects bad ranges the same way.
func (h *DashboardHandler) Chart(id dashboard.ReportID) gin.HandlerFunc {
	return func(c *gin.Context) {
		var q dto.DateRangeQuery
		if err := c.ShouldBindQuery(&q); err != nil {
			fail(c, http.StatusBadRequest, err.Error())
			return
		}

		chart, err := h.svc.Chart(c.Request.Context(), id, q.BeginDate, q.EndDate).Unwrap()
		if err != nil {
			handleError(c, err, http.StatusInternalServerError)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "chart": chart})
	}
}
