package mongodb

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.uber.org/zap"

	"expense-tracker/api/logger"
)

const (
	UserCollection    = "users"
	ExpenseCollection = "expenses"
)

var (
	// ErrNotFound covers both absent documents and documents owned by
	// someone else; callers cannot tell the two apart.
	ErrNotFound = errors.New("not found")

	// ErrEmailTaken is returned when the unique email index rejects an insert.
	ErrEmailTaken = errors.New("email already in use")
)

// Client wraps a mongo connection scoped to one database.
type Client struct {
	mc *mongo.Client
	db string
}

// Connect dials MongoDB and verifies the connection with a ping.
func Connect(ctx context.Context, uri, database string) (*Client, error) {
	serverAPI := options.ServerAPI(options.ServerAPIVersion1)
	opts := options.Client().ApplyURI(uri).SetServerAPIOptions(serverAPI)

	mc, err := mongo.Connect(opts)
	if err != nil {
		return nil, fmt.Errorf("error connecting to MongoDB: %w", err)
	}
	if err := mc.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("error pinging MongoDB: %w", err)
	}

	logger.Get().Info("connected to MongoDB", zap.String("database", database))
	return &Client{mc: mc, db: database}, nil
}

// EnsureIndexes creates the unique email index the registration conflict
// path depends on.
func (c *Client) EnsureIndexes(ctx context.Context) error {
	users := c.mc.Database(c.db).Collection(UserCollection)
	_, err := users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("error creating email index: %w", err)
	}
	return nil
}

func (c *Client) Close(ctx context.Context) {
	if err := c.mc.Disconnect(ctx); err != nil {
		logger.Get().Error("failed to disconnect from MongoDB", zap.Error(err))
		return
	}
	logger.Get().Info("disconnected from MongoDB")
}

// Users returns the user store backed by this client.
func (c *Client) Users() *UserStore {
	return &UserStore{col: c.mc.Database(c.db).Collection(UserCollection)}
}

// Expenses returns the expense store backed by this client.
func (c *Client) Expenses() *ExpenseStore {
	return &ExpenseStore{col: c.mc.Database(c.db).Collection(ExpenseCollection)}
}
