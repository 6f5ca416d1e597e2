package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"expense-tracker/api/auth"
	"expense-tracker/api/logger"
	"expense-tracker/api/middleware"
	"expense-tracker/api/models"
	"expense-tracker/api/mongodb"
)

// UserStore is what the auth endpoints need from persistence.
type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	UserByEmail(ctx context.Context, email string) (*models.User, error)
	UserByID(ctx context.Context, id string) (*models.User, error)
}

// ExpenseStore is what the expense endpoints need from persistence.
// Every method scopes by the owner id.
type ExpenseStore interface {
	Create(ctx context.Context, expense *models.Expense) error
	List(ctx context.Context, ownerID string, f models.ExpenseFilter) ([]models.Expense, error)
	Update(ctx context.Context, ownerID, id string, fields models.ExpenseFields) (*models.Expense, error)
	Delete(ctx context.Context, ownerID, id string) error
	DailyTotals(ctx context.Context, ownerID string, from, to time.Time) ([]models.DailyTotal, error)
	CategoryTotals(ctx context.Context, ownerID string, from, to time.Time) ([]models.CategoryTotal, error)
}

// Options carries the request-independent handler settings.
type Options struct {
	// SecureCookies marks the session cookie Secure (production).
	SecureCookies bool
	// BcryptCost is the password hashing work factor.
	BcryptCost int
}

// Handler serves the REST API. Stores and the token issuer are injected
// so tests can swap them out.
type Handler struct {
	users    UserStore
	expenses ExpenseStore
	tokens   *auth.TokenIssuer
	opts     Options
}

func New(users UserStore, expenses ExpenseStore, tokens *auth.TokenIssuer, opts Options) *Handler {
	return &Handler{users: users, expenses: expenses, tokens: tokens, opts: opts}
}

// MountRoutes attaches every endpoint under the given group. requireAuth
// gates all expense routes and /auth/me.
func (h *Handler) MountRoutes(api *gin.RouterGroup, requireAuth gin.HandlerFunc) {
	api.GET("/health", h.HandleHealth)

	authGroup := api.Group("/auth")
	{
		authGroup.POST("/register", h.HandleRegister)
		authGroup.POST("/login", h.HandleLogin)
		authGroup.GET("/me", requireAuth, h.HandleMe)
		authGroup.POST("/logout", h.HandleLogout)
	}

	expenses := api.Group("/expenses", requireAuth)
	{
		expenses.GET("", h.HandleListExpenses)
		expenses.POST("", h.HandleCreateExpense)
		expenses.PUT("/:id", h.HandleUpdateExpense)
		expenses.DELETE("/:id", h.HandleDeleteExpense)
		expenses.GET("/stats/month", h.HandleMonthlyStats)
		expenses.GET("/stats/daily", h.HandleDailyTotals)
	}
}

func (h *Handler) HandleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// userID returns the id the auth middleware verified. Expense routes are
// always mounted behind RequireAuth, so absence is a wiring bug.
func userID(c *gin.Context) (string, bool) {
	id := c.GetString(middleware.UserIDKey)
	if id == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return "", false
	}
	return id, true
}

// serverError hides store internals behind a generic 500.
func serverError(c *gin.Context, msg string, err error) {
	logger.Get().Error(msg,
		zap.Error(err),
		zap.String("request_id", c.GetString(middleware.RequestIDKey)))
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
}

// notFoundOrServerError maps store errors for routes where a missing or
// foreign-owned document is a 404.
func notFoundOrServerError(c *gin.Context, msg string, err error) {
	if errors.Is(err, mongodb.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
		return
	}
	serverError(c, msg, err)
}
