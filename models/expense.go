package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Categories is the fixed set the client offers and the server enforces.
var Categories = []string{"Food", "Transport", "Shopping", "Bills", "Entertainment", "Other"}

// ValidCategory reports whether c is one of the fixed categories.
func ValidCategory(c string) bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// Expense is a single owner-scoped spending record.
type Expense struct {
	ID        bson.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    bson.ObjectID `bson:"user" json:"user"`
	Title     string        `bson:"title" json:"title"`
	Amount    float64       `bson:"amount" json:"amount"`
	Category  string        `bson:"category" json:"category"`
	Date      time.Time     `bson:"date" json:"date"`
	Note      string        `bson:"note,omitempty" json:"note,omitempty"`
	CreatedAt time.Time     `bson:"created_at" json:"created_at"`
}

// ExpenseRequest carries the five mutable fields for create and update.
// Amount is a pointer so an explicit zero survives the required check.
type ExpenseRequest struct {
	Title    string    `json:"title"`
	Amount   *float64  `json:"amount"`
	Category string    `json:"category"`
	Date     time.Time `json:"date"`
	Note     string    `json:"note"`
}

// ExpenseFields is the validated form of ExpenseRequest handed to the store.
type ExpenseFields struct {
	Title    string
	Amount   float64
	Category string
	Date     time.Time
	Note     string
}

// ExpenseFilter narrows a list query. Zero times mean unbounded;
// Query matches case-insensitively against the note field.
type ExpenseFilter struct {
	From     time.Time
	To       time.Time
	Category string
	Query    string
}

// DailyTotal is one point of the daily spending series.
type DailyTotal struct {
	Date  string  `bson:"_id" json:"date"`
	Total float64 `bson:"total" json:"total"`
}

// CategoryTotal is one row of the monthly per-category breakdown.
type CategoryTotal struct {
	Category string  `bson:"_id" json:"category"`
	Total    float64 `bson:"total" json:"total"`
}

// MonthlyStats is the response of the monthly stats endpoint.
type MonthlyStats struct {
	ByCategory []CategoryTotal `json:"byCategory"`
	Total      float64         `json:"total"`
	Month      string          `json:"month"`
}
