package handlers

import (
	"context"
	"sort"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"expense-tracker/api/models"
	"expense-tracker/api/mongodb"
)

// In-memory stores implementing the handler interfaces with the same
// semantics as the Mongo-backed ones.

type memUserStore struct {
	users []models.User
}

func (s *memUserStore) CreateUser(_ context.Context, user *models.User) error {
	for _, existing := range s.users {
		if existing.Email == user.Email {
			return mongodb.ErrEmailTaken
		}
	}
	if user.ID.IsZero() {
		user.ID = bson.NewObjectID()
	}
	s.users = append(s.users, *user)
	return nil
}

func (s *memUserStore) UserByEmail(_ context.Context, email string) (*models.User, error) {
	for _, user := range s.users {
		if user.Email == email {
			u := user
			return &u, nil
		}
	}
	return nil, mongodb.ErrNotFound
}

func (s *memUserStore) UserByID(_ context.Context, id string) (*models.User, error) {
	for _, user := range s.users {
		if user.ID.Hex() == id {
			u := user
			return &u, nil
		}
	}
	return nil, mongodb.ErrNotFound
}

type memExpenseStore struct {
	expenses []models.Expense
}

func (s *memExpenseStore) Create(_ context.Context, expense *models.Expense) error {
	if expense.ID.IsZero() {
		expense.ID = bson.NewObjectID()
	}
	s.expenses = append(s.expenses, *expense)
	return nil
}

func (s *memExpenseStore) List(_ context.Context, ownerID string, f models.ExpenseFilter) ([]models.Expense, error) {
	matched := []models.Expense{}
	for _, e := range s.expenses {
		if e.UserID.Hex() != ownerID {
			continue
		}
		if !f.From.IsZero() && e.Date.Before(f.From) {
			continue
		}
		if !f.To.IsZero() && e.Date.After(f.To) {
			continue
		}
		if f.Category != "" && e.Category != f.Category {
			continue
		}
		if f.Query != "" && !strings.Contains(strings.ToLower(e.Note), strings.ToLower(f.Query)) {
			continue
		}
		matched = append(matched, e)
	}
	sort.SliceStable(matched, func(i, j int) bool {
		if !matched[i].Date.Equal(matched[j].Date) {
			return matched[i].Date.After(matched[j].Date)
		}
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})
	return matched, nil
}

func (s *memExpenseStore) Update(_ context.Context, ownerID, id string, fields models.ExpenseFields) (*models.Expense, error) {
	for i, e := range s.expenses {
		if e.ID.Hex() != id || e.UserID.Hex() != ownerID {
			continue
		}
		s.expenses[i].Title = fields.Title
		s.expenses[i].Amount = fields.Amount
		s.expenses[i].Category = fields.Category
		s.expenses[i].Date = fields.Date
		s.expenses[i].Note = fields.Note
		updated := s.expenses[i]
		return &updated, nil
	}
	return nil, mongodb.ErrNotFound
}

func (s *memExpenseStore) Delete(_ context.Context, ownerID, id string) error {
	for i, e := range s.expenses {
		if e.ID.Hex() == id && e.UserID.Hex() == ownerID {
			s.expenses = append(s.expenses[:i], s.expenses[i+1:]...)
			return nil
		}
	}
	return mongodb.ErrNotFound
}

func (s *memExpenseStore) DailyTotals(_ context.Context, ownerID string, from, to time.Time) ([]models.DailyTotal, error) {
	byDate := map[string]float64{}
	for _, e := range s.expenses {
		if e.UserID.Hex() != ownerID {
			continue
		}
		if !from.IsZero() && (e.Date.Before(from) || !e.Date.Before(to)) {
			continue
		}
		byDate[e.Date.UTC().Format("2006-01-02")] += e.Amount
	}

	totals := []models.DailyTotal{}
	for date, total := range byDate {
		totals = append(totals, models.DailyTotal{Date: date, Total: total})
	}
	sort.Slice(totals, func(i, j int) bool { return totals[i].Date < totals[j].Date })
	return totals, nil
}

func (s *memExpenseStore) CategoryTotals(_ context.Context, ownerID string, from, to time.Time) ([]models.CategoryTotal, error) {
	byCategory := map[string]float64{}
	for _, e := range s.expenses {
		if e.UserID.Hex() != ownerID {
			continue
		}
		if e.Date.Before(from) || !e.Date.Before(to) {
			continue
		}
		byCategory[e.Category] += e.Amount
	}

	totals := []models.CategoryTotal{}
	for category, total := range byCategory {
		totals = append(totals, models.CategoryTotal{Category: category, Total: total})
	}
	sort.SliceStable(totals, func(i, j int) bool { return totals[i].Total > totals[j].Total })
	return totals, nil
}
