package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/aaravmahajanofficial/storefront/internal/models"
	"github.com/aaravmahajanofficial/storefront/internal/utils"
	"github.com/google/uuid"
)

var ErrUserNotFound = errors.New("user not found")

type UserRepository interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

type userRepository struct {
	DB DBTX
}

func NewUserRepo(db DBTX) UserRepository {
	return &userRepository{DB: db}
}

func (r *userRepository) CreateUser(ctx context.Context, user *models.User) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		INSERT INTO users(email, password, name, role, created_at, updated_at)
		VALUES($1, $2, $3, $4, NOW(), NOW())
		RETURNING id, created_at, updated_at`

	return r.DB.QueryRowContext(dbCtx, query, user.Email, user.Password, user.Name, user.Role).
		Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
}

func (r *userRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	user := &models.User{}
	query := `SELECT id, email, password, name, role, created_at, updated_at
			  FROM users
			  WHERE email = $1`

	err := r.DB.QueryRowContext(dbCtx, query, email).
		Scan(&user.ID, &user.Email, &user.Password, &user.Name, &user.Role, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return nil, err
	}

	return user, nil
}

func (r *userRepository) GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	user := &models.User{}

	query := `
	SELECT id, email, name, role, created_at, updated_at
	FROM users
	WHERE id = $1
	`

	err := r.DB.QueryRowContext(dbCtx, query, id).
		Scan(&user.ID, &user.Email, &user.Name, &user.Role, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}

		return nil, err
	}

	return user, nil
}
