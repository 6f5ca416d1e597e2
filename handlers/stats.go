package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"expense-tracker/api/models"
)

// HandleDailyTotals returns the owner's per-day spending series,
// ascending by date. An optional month=YYYY-MM query narrows the range;
// without it the whole history is covered.
func (h *Handler) HandleDailyTotals(c *gin.Context) {
	id, ok := userID(c)
	if !ok {
		return
	}

	var from, to time.Time
	if month := c.Query("month"); month != "" {
		start, end, err := monthRange(month)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid month"})
			return
		}
		from, to = start, end
	}

	totals, err := h.expenses.DailyTotals(c.Request.Context(), id, from, to)
	if err != nil {
		serverError(c, "error aggregating daily totals", err)
		return
	}
	c.JSON(http.StatusOK, totals)
}

// HandleMonthlyStats returns per-category totals (descending) and the
// grand total for one month, defaulting to the current one.
func (h *Handler) HandleMonthlyStats(c *gin.Context) {
	id, ok := userID(c)
	if !ok {
		return
	}

	var start, end time.Time
	if month := c.Query("month"); month != "" {
		var err error
		start, end, err = monthRange(month)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid month"})
			return
		}
	} else {
		now := time.Now().UTC()
		start = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
		end = start.AddDate(0, 1, 0)
	}

	byCategory, err := h.expenses.CategoryTotals(c.Request.Context(), id, start, end)
	if err != nil {
		serverError(c, "error aggregating category totals", err)
		return
	}

	var total float64
	for _, ct := range byCategory {
		total += ct.Total
	}

	c.JSON(http.StatusOK, models.MonthlyStats{
		ByCategory: byCategory,
		Total:      total,
		Month:      start.Format("2006-01"),
	})
}

// monthRange maps YYYY-MM to [start of month, start of next month) in UTC.
func monthRange(month string) (time.Time, time.Time, error) {
	start, err := time.Parse("2006-01", month)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return start, start.AddDate(0, 1, 0), nil
}
