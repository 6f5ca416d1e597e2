package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"expense-tracker/api/models"
)

type ExpenseStore struct {
	col *mongo.Collection
}

// Create inserts a new expense, assigning its id.
func (s *ExpenseStore) Create(ctx context.Context, expense *models.Expense) error {
	if expense.ID.IsZero() {
		expense.ID = bson.NewObjectID()
	}
	_, err := s.col.InsertOne(ctx, expense)
	if err != nil {
		return fmt.Errorf("error creating expense: %w", err)
	}
	return nil
}

// List returns the owner's expenses matching every supplied filter,
// sorted by date descending then creation time descending.
func (s *ExpenseStore) List(ctx context.Context, ownerID string, f models.ExpenseFilter) ([]models.Expense, error) {
	owner, err := bson.ObjectIDFromHex(ownerID)
	if err != nil {
		return nil, ErrNotFound
	}

	filter := bson.M{"user": owner}
	if !f.From.IsZero() || !f.To.IsZero() {
		dateRange := bson.M{}
		if !f.From.IsZero() {
			dateRange["$gte"] = f.From
		}
		if !f.To.IsZero() {
			dateRange["$lte"] = f.To
		}
		filter["date"] = dateRange
	}
	if f.Category != "" {
		filter["category"] = f.Category
	}
	if f.Query != "" {
		filter["note"] = bson.M{"$regex": f.Query, "$options": "i"}
	}

	opts := options.Find().SetSort(bson.D{
		{Key: "date", Value: -1},
		{Key: "created_at", Value: -1},
	})
	cursor, err := s.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("error fetching expenses: %w", err)
	}
	defer cursor.Close(ctx)

	expenses := []models.Expense{}
	for cursor.Next(ctx) {
		var expense models.Expense
		if err := cursor.Decode(&expense); err != nil {
			return nil, fmt.Errorf("error decoding expense: %w", err)
		}
		expenses = append(expenses, expense)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %w", err)
	}
	return expenses, nil
}

// Update replaces the five mutable fields on the owner's expense and
// returns the updated document.
func (s *ExpenseStore) Update(ctx context.Context, ownerID, id string, fields models.ExpenseFields) (*models.Expense, error) {
	owner, oid, err := ownedID(ownerID, id)
	if err != nil {
		return nil, err
	}

	update := bson.M{"$set": bson.M{
		"title":    fields.Title,
		"amount":   fields.Amount,
		"category": fields.Category,
		"date":     fields.Date,
		"note":     fields.Note,
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated models.Expense
	err = s.col.FindOneAndUpdate(ctx, bson.M{"_id": oid, "user": owner}, update, opts).Decode(&updated)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error updating expense: %w", err)
	}
	return &updated, nil
}

// Delete removes the owner's expense.
func (s *ExpenseStore) Delete(ctx context.Context, ownerID, id string) error {
	owner, oid, err := ownedID(ownerID, id)
	if err != nil {
		return err
	}

	res, err := s.col.DeleteOne(ctx, bson.M{"_id": oid, "user": owner})
	if err != nil {
		return fmt.Errorf("error deleting expense: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// DailyTotals groups the owner's expenses by calendar date and sums
// amounts, ascending by date. A zero from/to leaves the range unbounded.
// Dates without expenses produce no entry.
func (s *ExpenseStore) DailyTotals(ctx context.Context, ownerID string, from, to time.Time) ([]models.DailyTotal, error) {
	owner, err := bson.ObjectIDFromHex(ownerID)
	if err != nil {
		return nil, ErrNotFound
	}

	match := bson.M{"user": owner}
	if !from.IsZero() {
		match["date"] = bson.M{"$gte": from, "$lt": to}
	}

	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: match}},
		bson.D{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: bson.D{{Key: "$dateToString", Value: bson.D{
				{Key: "format", Value: "%Y-%m-%d"},
				{Key: "date", Value: "$date"},
			}}}},
			{Key: "total", Value: bson.D{{Key: "$sum", Value: "$amount"}}},
		}}},
		bson.D{{Key: "$sort", Value: bson.D{{Key: "_id", Value: 1}}}},
	}

	cursor, err := s.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("error aggregating daily totals: %w", err)
	}
	defer cursor.Close(ctx)

	totals := []models.DailyTotal{}
	if err := cursor.All(ctx, &totals); err != nil {
		return nil, fmt.Errorf("error decoding daily totals: %w", err)
	}
	return totals, nil
}

// CategoryTotals sums the owner's expenses per category within
// [from, to), sorted descending by total.
func (s *ExpenseStore) CategoryTotals(ctx context.Context, ownerID string, from, to time.Time) ([]models.CategoryTotal, error) {
	owner, err := bson.ObjectIDFromHex(ownerID)
	if err != nil {
		return nil, ErrNotFound
	}

	match := bson.M{
		"user": owner,
		"date": bson.M{"$gte": from, "$lt": to},
	}
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: match}},
		bson.D{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$category"},
			{Key: "total", Value: bson.D{{Key: "$sum", Value: "$amount"}}},
		}}},
		bson.D{{Key: "$sort", Value: bson.D{{Key: "total", Value: -1}}}},
	}

	cursor, err := s.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("error aggregating category totals: %w", err)
	}
	defer cursor.Close(ctx)

	totals := []models.CategoryTotal{}
	if err := cursor.All(ctx, &totals); err != nil {
		return nil, fmt.Errorf("error decoding category totals: %w", err)
	}
	return totals, nil
}

func ownedID(ownerID, id string) (bson.ObjectID, bson.ObjectID, error) {
	owner, err := bson.ObjectIDFromHex(ownerID)
	if err != nil {
		return bson.ObjectID{}, bson.ObjectID{}, ErrNotFound
	}
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		// A malformed id can never name an owned expense.
		return bson.ObjectID{}, bson.ObjectID{}, ErrNotFound
	}
	return owner, oid, nil
}
