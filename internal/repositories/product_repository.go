package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/aaravmahajanofficial/storefront/internal/models"
	"github.com/aaravmahajanofficial/storefront/internal/utils"
	"github.com/google/uuid"
)

type ProductRepository interface {
	CreateProduct(ctx context.Context, product *models.Product) error
	GetProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	ListProducts(ctx context.Context) ([]*models.Product, error)
	UpdateProduct(ctx context.Context, product *models.Product) error
	DeleteProduct(ctx context.Context, id uuid.UUID) error
}

type productRepository struct {
	DB *sql.DB
}

func NewProductRepo(db *sql.DB) ProductRepository {
	return &productRepository{DB: db}
}

// CreateProduct inserts the product and its variants in one transaction.
func (r *productRepository) CreateProduct(ctx context.Context, product *models.Product) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	tx, err := r.DB.BeginTx(dbCtx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	query := `
		INSERT INTO products (id, title, description, image_url, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		RETURNING created_at, updated_at
	`

	product.ID = uuid.New()

	err = tx.QueryRowContext(dbCtx, query, product.ID, product.Title, product.Description, product.ImageURL).
		Scan(&product.CreatedAt, &product.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert product: %w", err)
	}

	variantQuery := `
		INSERT INTO product_variants (id, product_id, name, sku, price, stock, created_at, updated_at)
		VALUES ($1, $2, $3, NULLIF($4, ''), $5, $6, NOW(), NOW())
		RETURNING created_at, updated_at
	`

	for i := range product.Variants {
		v := &product.Variants[i]
		v.ID = uuid.New()
		v.ProductID = product.ID

		err := tx.QueryRowContext(dbCtx, variantQuery, v.ID, v.ProductID, v.Name, v.SKU, v.Price, v.Stock).
			Scan(&v.CreatedAt, &v.UpdatedAt)
		if err != nil {
			return fmt.Errorf("failed to insert product variant: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit product: %w", err)
	}

	return nil
}

const productWithVariantsQuery = `
		SELECT p.id, p.title, p.description, p.image_url, p.created_at, p.updated_at,
			v.id, v.name, COALESCE(v.sku, ''), v.price, v.stock, v.created_at, v.updated_at
		FROM products p
		LEFT JOIN product_variants v ON v.product_id = p.id
	`

func (r *productRepository) GetProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := productWithVariantsQuery + `
		WHERE p.id = $1
		ORDER BY v.created_at ASC
	`

	rows, err := r.DB.QueryContext(dbCtx, query, id)
	if err != nil {
		return nil, fmt.Errorf("querying database: %w", err)
	}
	defer rows.Close()

	products, err := scanProducts(rows)
	if err != nil {
		return nil, err
	}

	if len(products) == 0 {
		return nil, sql.ErrNoRows
	}

	return products[0], nil
}

// ListProducts returns every product with its variants, newest first.
func (r *productRepository) ListProducts(ctx context.Context) ([]*models.Product, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := productWithVariantsQuery + `
		ORDER BY p.created_at DESC, p.id, v.created_at ASC
	`

	rows, err := r.DB.QueryContext(dbCtx, query)
	if err != nil {
		return nil, fmt.Errorf("querying database: %w", err)
	}
	defer rows.Close()

	return scanProducts(rows)
}

// UpdateProduct writes the display fields only; variants and prices are
// left alone.
func (r *productRepository) UpdateProduct(ctx context.Context, product *models.Product) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		UPDATE products
		SET title = $1, description = $2, image_url = $3, updated_at = NOW()
		WHERE id = $4
		RETURNING updated_at
	`

	err := r.DB.QueryRowContext(dbCtx, query, product.Title, product.Description, product.ImageURL, product.ID).
		Scan(&product.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return sql.ErrNoRows
		}

		return fmt.Errorf("failed to update product: %w", err)
	}

	return nil
}

// DeleteProduct removes the product and, by cascade, its variants. Variants
// still sitting in a cart block the delete with a foreign key violation.
func (r *productRepository) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	result, err := r.DB.ExecContext(dbCtx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}

	if rowsAffected == 0 {
		return sql.ErrNoRows
	}

	return nil
}

// scanProducts folds the product/variant join back into products, keeping
// row order.
func scanProducts(rows *sql.Rows) ([]*models.Product, error) {
	products := []*models.Product{}
	byID := map[uuid.UUID]*models.Product{}

	for rows.Next() {
		var (
			p         models.Product
			variantID uuid.NullUUID
			name, sku sql.NullString
			price     sql.NullInt64
			stock     sql.NullInt64
			vCreated  sql.NullTime
			vUpdated  sql.NullTime
		)

		err := rows.Scan(&p.ID, &p.Title, &p.Description, &p.ImageURL, &p.CreatedAt, &p.UpdatedAt,
			&variantID, &name, &sku, &price, &stock, &vCreated, &vUpdated)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}

		product, ok := byID[p.ID]
		if !ok {
			p.Variants = []models.ProductVariant{}
			product = &p
			byID[p.ID] = product
			products = append(products, product)
		}

		if variantID.Valid {
			product.Variants = append(product.Variants, models.ProductVariant{
				ID:        variantID.UUID,
				ProductID: product.ID,
				Name:      name.String,
				SKU:       sku.String,
				Price:     price.Int64,
				Stock:     int(stock.Int64),
				CreatedAt: vCreated.Time,
				UpdatedAt: vUpdated.Time,
			})
		}
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over the rows: %w", err)
	}

	return products, nil
}

type VariantRepository interface {
	GetVariant(ctx context.Context, id uuid.UUID) (*models.ProductVariant, error)
}

type variantRepository struct {
	DB DBTX
}

func NewVariantRepo(db DBTX) VariantRepository {
	return &variantRepository{DB: db}
}

// GetVariant always reads the live catalog row.
func (r *variantRepository) GetVariant(ctx context.Context, id uuid.UUID) (*models.ProductVariant, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		SELECT id, product_id, name, COALESCE(sku, ''), price, stock, created_at, updated_at
		FROM product_variants
		WHERE id = $1
	`

	v := &models.ProductVariant{}

	err := r.DB.QueryRowContext(dbCtx, query, id).
		Scan(&v.ID, &v.ProductID, &v.Name, &v.SKU, &v.Price, &v.Stock, &v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}

		return nil, fmt.Errorf("failed to get variant: %w", err)
	}

	return v, nil
}
