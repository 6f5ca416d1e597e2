package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/v2/bson"

	"expense-tracker/api/models"
)

// HandleListExpenses returns the owner's expenses, newest first,
// narrowed by the from/to/category/q query parameters.
func (h *Handler) HandleListExpenses(c *gin.Context) {
	id, ok := userID(c)
	if !ok {
		return
	}

	var filter models.ExpenseFilter
	if from := c.Query("from"); from != "" {
		t, err := parseDate(from)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid 'from' date"})
			return
		}
		filter.From = t
	}
	if to := c.Query("to"); to != "" {
		t, err := parseDate(to)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid 'to' date"})
			return
		}
		filter.To = t
	}
	filter.Category = c.Query("category")
	filter.Query = c.Query("q")

	expenses, err := h.expenses.List(c.Request.Context(), id, filter)
	if err != nil {
		serverError(c, "error listing expenses", err)
		return
	}
	c.JSON(http.StatusOK, expenses)
}

// HandleCreateExpense persists a new expense owned by the caller.
func (h *Handler) HandleCreateExpense(c *gin.Context) {
	id, ok := userID(c)
	if !ok {
		return
	}

	fields, ok := bindExpense(c)
	if !ok {
		return
	}

	owner, err := bson.ObjectIDFromHex(id)
	if err != nil {
		serverError(c, "invalid owner id in session", err)
		return
	}
	expense := &models.Expense{
		UserID:    owner,
		Title:     fields.Title,
		Amount:    fields.Amount,
		Category:  fields.Category,
		Date:      fields.Date,
		Note:      fields.Note,
		CreatedAt: time.Now(),
	}
	if err := h.expenses.Create(c.Request.Context(), expense); err != nil {
		serverError(c, "error creating expense", err)
		return
	}
	c.JSON(http.StatusCreated, expense)
}

// HandleUpdateExpense replaces the five mutable fields on an owned expense.
func (h *Handler) HandleUpdateExpense(c *gin.Context) {
	id, ok := userID(c)
	if !ok {
		return
	}

	fields, ok := bindExpense(c)
	if !ok {
		return
	}

	updated, err := h.expenses.Update(c.Request.Context(), id, c.Param("id"), fields)
	if err != nil {
		notFoundOrServerError(c, "error updating expense", err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// HandleDeleteExpense removes an owned expense.
func (h *Handler) HandleDeleteExpense(c *gin.Context) {
	id, ok := userID(c)
	if !ok {
		return
	}

	if err := h.expenses.Delete(c.Request.Context(), id, c.Param("id")); err != nil {
		notFoundOrServerError(c, "error deleting expense", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// bindExpense parses and validates the shared create/update body.
func bindExpense(c *gin.Context) (models.ExpenseFields, bool) {
	var req models.ExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid data"})
		return models.ExpenseFields{}, false
	}
	if req.Title == "" || req.Amount == nil || req.Category == "" || req.Date.IsZero() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid data"})
		return models.ExpenseFields{}, false
	}
	if !models.ValidCategory(req.Category) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid category"})
		return models.ExpenseFields{}, false
	}

	return models.ExpenseFields{
		Title:    req.Title,
		Amount:   *req.Amount,
		Category: req.Category,
		Date:     req.Date,
		Note:     req.Note,
	}, true
}

// parseDate accepts a calendar date or a full RFC3339 timestamp.
func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}
