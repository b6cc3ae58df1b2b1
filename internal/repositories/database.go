package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/XSAM/otelsql"
	"github.com/aaravmahajanofficial/storefront/internal/config"
	"github.com/lib/pq"
	"go.opentelemetry.io/otel/attribute"
)

const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
)

var ErrCartNotActive = errors.New("cart is not active")

type Repository struct {
	DB *sql.DB
}

func New(cfg *config.Config) (*Repository, error) {
	db, err := otelsql.Open("postgres", cfg.Database.GetDSN(),
		otelsql.WithAttributes(attribute.String("db.system", "postgresql")),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)
	db.SetConnMaxIdleTime(cfg.Database.ConnMaxIdleTime)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Test the connection to make sure DB is reachable
	if err := db.PingContext(ctx); err != nil {
		db.Close()

		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return &Repository{DB: db}, nil
}

func (p *Repository) Store() Store {
	return NewStore(p.DB)
}

func (p *Repository) Close() error {
	return p.DB.Close()
}

// IsUniqueViolation reports whether err is a postgres unique constraint failure.
func IsUniqueViolation(err error) bool {
	var pqErr *pq.Error

	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}

// IsForeignKeyViolation reports whether err is a postgres foreign key failure.
func IsForeignKeyViolation(err error) bool {
	var pqErr *pq.Error

	return errors.As(err, &pqErr) && pqErr.Code == foreignKeyViolation
}
