package handler

import (
	"net/http"

	"github.com/mtlprog/hrtask/internal/handler/dto"
	"github.com/mtlprog/hrtask/internal/repository"
)

// handleRatingReport returns average ratings of completed tasks.
// @Summary Rating report
// @Description Average rating per day or month of assignment date, plus per-employee totals
// @Tags reports
// @Produce json
// @Param granularity query string false "daily (default) or monthly"
// @Param employee_id query string false "Filter by employee"
// @Param from query string false "Period start (YYYY-MM-DD), default 30 days ago"
// @Param to query string false "Period end (YYYY-MM-DD), default today"
// @Success 200 {object} dto.RatingReportResponse
// @Failure 422 {object} dto.ErrorResponse
// @Router /reports/ratings [get]
func (h *Handler) handleRatingReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	query := r.URL.Query()

	granularity := repository.RatingGranularity(query.Get("granularity"))
	if granularity == "" {
		granularity = repository.GranularityDaily
	}

	y, m, d := h.taskService.Now().Date()
	today := dto.Date(y, m, d)

	to, ok := parseOptionalDate(w, query.Get("to"), "to")
	if !ok {
		return
	}
	if to == nil {
		to = &today
	}

	from, ok := parseOptionalDate(w, query.Get("from"), "from")
	if !ok {
		return
	}
	if from == nil {
		start := to.AddDate(0, 0, -30)
		from = &start
	}

	filters := repository.StatsFilters{
		Granularity: granularity,
		PeriodStart: *from,
		PeriodEnd:   *to,
	}
	if employeeID := query.Get("employee_id"); employeeID != "" {
		filters.EmployeeID = &employeeID
	}

	points, err := h.taskService.RatingSeries(ctx, filters)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	employees, err := h.taskService.EmployeeStats(ctx, filters)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.ToRatingReport(granularity, *from, *to, points, employees))
}
