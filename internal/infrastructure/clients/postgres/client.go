package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"
	"github.com/zatekoja/dentalclinic/pkg/config"
	"github.com/zatekoja/dentalclinic/pkg/retry"
)

// Client represents a PostgreSQL database client
type Client struct {
	db           *sql.DB
	queryTimeout time.Duration
}

// NewClient creates a new PostgreSQL client with exponential backoff retry
func NewClient(cfg *config.DatabaseConfig) (*Client, error) {
	db, err := sql.Open("postgres", cfg.DatabaseDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	// Set connection pool settings
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	// Test the connection with retry
	retryConfig := retry.DefaultConfig()
	err = retry.DoWithLog(
		context.Background(),
		retryConfig,
		"PostgreSQL",
		func() error {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return db.PingContext(ctx)
		},
		func(attempt int, err error, nextDelay time.Duration) {
			log.Warn().Err(err).Int("attempt", attempt).Dur("retry_in", nextDelay).Msg("PostgreSQL connection attempt failed")
		},
	)

	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to PostgreSQL after retries: %w", err)
	}

	log.Info().Str("host", cfg.Host).Str("database", cfg.Database).Msg("Successfully connected to PostgreSQL")
	return NewClientWithDB(db, cfg.QueryTimeout), nil
}

// NewClientWithDB wraps an already opened database handle
func NewClientWithDB(db *sql.DB, queryTimeout time.Duration) *Client {
	if queryTimeout <= 0 {
		queryTimeout = 3 * time.Second
	}
	return &Client{db: db, queryTimeout: queryTimeout}
}

// DB returns the underlying database connection
func (c *Client) DB() *sql.DB {
	return c.db
}

// WithTimeout bounds a single store round trip
func (c *Client) WithTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, c.queryTimeout)
}

// Close closes the database connection
func (c *Client) Close() error {
	return c.db.Close()
}
