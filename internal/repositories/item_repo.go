package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"

	"klimarechner/internal/models"
)

type ItemRepository interface {
	Create(ctx context.Context, item *models.Item) error
	GetByID(ctx context.Context, id int64) (*models.Item, error)
	GetByName(ctx context.Context, name string) (*models.Item, error)
	Update(ctx context.Context, item *models.Item) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, limit, offset int) ([]*models.Item, error)
	ListByCategory(ctx context.Context, categoryID int64, limit, offset int) ([]*models.Item, error)
	IncrementCount(ctx context.Context, id int64, delta int) (*models.Item, error)
	TotalSavings(ctx context.Context) (float64, error)
}

type itemRepo struct {
	db Database
}

func NewItemRepo(db Database) ItemRepository {
	return &itemRepo{db: db}
}

func (r *itemRepo) Create(ctx context.Context, item *models.Item) error {
	query := `
		INSERT INTO items (category_id, name, count, base_co2, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRow(ctx, query, item.CategoryID, item.Name, item.Count, item.BaseCO2).
		Scan(&item.ID, &item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateName
		}
		return err
	}
	return nil
}

func (r *itemRepo) GetByID(ctx context.Context, id int64) (*models.Item, error) {
	item := &models.Item{}
	query := `
		SELECT id, category_id, name, count, base_co2, created_at, updated_at
		FROM items
		WHERE id = $1
	`
	err := r.db.QueryRow(ctx, query, id).Scan(
		&item.ID, &item.CategoryID, &item.Name, &item.Count, &item.BaseCO2, &item.CreatedAt, &item.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return item, nil
}

func (r *itemRepo) GetByName(ctx context.Context, name string) (*models.Item, error) {
	item := &models.Item{}
	query := `
		SELECT id, category_id, name, count, base_co2, created_at, updated_at
		FROM items
		WHERE name = $1
	`
	err := r.db.QueryRow(ctx, query, name).Scan(
		&item.ID, &item.CategoryID, &item.Name, &item.Count, &item.BaseCO2, &item.CreatedAt, &item.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return item, nil
}

func (r *itemRepo) Update(ctx context.Context, item *models.Item) error {
	query := `
		UPDATE items
		SET category_id = $1, name = $2, base_co2 = $3, updated_at = NOW()
		WHERE id = $4
	`
	_, err := r.db.Exec(ctx, query, item.CategoryID, item.Name, item.BaseCO2, item.ID)
	return err
}

func (r *itemRepo) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM items WHERE id = $1`
	_, err := r.db.Exec(ctx, query, id)
	return err
}

func (r *itemRepo) List(ctx context.Context, limit, offset int) ([]*models.Item, error) {
	query := `
		SELECT id, category_id, name, count, base_co2, created_at, updated_at
		FROM items
		ORDER BY category_id ASC, name ASC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanItems(rows)
}

func (r *itemRepo) ListByCategory(ctx context.Context, categoryID int64, limit, offset int) ([]*models.Item, error) {
	query := `
		SELECT id, category_id, name, count, base_co2, created_at, updated_at
		FROM items
		WHERE category_id = $1
		ORDER BY name ASC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.Query(ctx, query, categoryID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanItems(rows)
}

// IncrementCount atomically bumps the use counter and returns the updated row.
func (r *itemRepo) IncrementCount(ctx context.Context, id int64, delta int) (*models.Item, error) {
	item := &models.Item{}
	query := `
		UPDATE items
		SET count = count + $1, updated_at = NOW()
		WHERE id = $2
		RETURNING id, category_id, name, count, base_co2, created_at, updated_at
	`
	err := r.db.QueryRow(ctx, query, delta, id).Scan(
		&item.ID, &item.CategoryID, &item.Name, &item.Count, &item.BaseCO2, &item.CreatedAt, &item.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return item, nil
}

func (r *itemRepo) TotalSavings(ctx context.Context) (float64, error) {
	var total float64
	query := `SELECT COALESCE(SUM(count * base_co2), 0) FROM items`
	if err := r.db.QueryRow(ctx, query).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

func scanItems(rows pgx.Rows) ([]*models.Item, error) {
	var items []*models.Item
	for rows.Next() {
		item := &models.Item{}
		if err := rows.Scan(
			&item.ID, &item.CategoryID, &item.Name, &item.Count, &item.BaseCO2, &item.CreatedAt, &item.UpdatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}
