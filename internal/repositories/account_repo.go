package repositories

import (
	"context"

	"klimarechner/internal/models"
)

type AccountRepository interface {
	Create(ctx context.Context, account *models.Account) error
	GetByID(ctx context.Context, id int64) (*models.Account, error)
	GetByEmail(ctx context.Context, email string) (*models.Account, error)
	Update(ctx context.Context, account *models.Account) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, role string, limit, offset int) ([]*models.Account, error)
}

type accountRepo struct {
	db Database
}

func NewAccountRepo(db Database) AccountRepository {
	return &accountRepo{db: db}
}

func (r *accountRepo) Create(ctx context.Context, account *models.Account) error {
	query := `
		INSERT INTO accounts (role, email, first_name, last_name, password_hash, is_verified, force_password_change, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
		RETURNING id, created_at
	`
	err := r.db.QueryRow(ctx, query,
		account.Role,
		account.Email,
		account.FirstName,
		account.LastName,
		account.PasswordHash,
		account.IsVerified,
		account.ForcePasswordChange,
	).Scan(&account.ID, &account.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateEmail
		}
		return err
	}
	return nil
}

func (r *accountRepo) GetByID(ctx context.Context, id int64) (*models.Account, error) {
	account := &models.Account{}
	query := `
		SELECT id, role, email, first_name, last_name, password_hash, is_verified, force_password_change, created_at, verified_at
		FROM accounts
		WHERE id = $1
	`
	err := r.db.QueryRow(ctx, query, id).Scan(
		&account.ID, &account.Role, &account.Email, &account.FirstName, &account.LastName,
		&account.PasswordHash, &account.IsVerified, &account.ForcePasswordChange,
		&account.CreatedAt, &account.VerifiedAt,
	)
	if err != nil {
		return nil, err
	}
	return account, nil
}

func (r *accountRepo) GetByEmail(ctx context.Context, email string) (*models.Account, error) {
	account := &models.Account{}
	query := `
		SELECT id, role, email, first_name, last_name, password_hash, is_verified, force_password_change, created_at, verified_at
		FROM accounts
		WHERE email = $1
	`
	err := r.db.QueryRow(ctx, query, email).Scan(
		&account.ID, &account.Role, &account.Email, &account.FirstName, &account.LastName,
		&account.PasswordHash, &account.IsVerified, &account.ForcePasswordChange,
		&account.CreatedAt, &account.VerifiedAt,
	)
	if err != nil {
		return nil, err
	}
	return account, nil
}

func (r *accountRepo) Update(ctx context.Context, account *models.Account) error {
	query := `
		UPDATE accounts
		SET first_name = $1, last_name = $2, password_hash = $3, is_verified = $4, force_password_change = $5, verified_at = $6
		WHERE id = $7
	`
	_, err := r.db.Exec(ctx, query,
		account.FirstName,
		account.LastName,
		account.PasswordHash,
		account.IsVerified,
		account.ForcePasswordChange,
		account.VerifiedAt,
		account.ID,
	)
	return err
}

func (r *accountRepo) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM accounts WHERE id = $1`
	_, err := r.db.Exec(ctx, query, id)
	return err
}

func (r *accountRepo) List(ctx context.Context, role string, limit, offset int) ([]*models.Account, error) {
	query := `
		SELECT id, role, email, first_name, last_name, is_verified, force_password_change, created_at, verified_at
		FROM accounts
		WHERE role = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.Query(ctx, query, role, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var accounts []*models.Account
	for rows.Next() {
		account := &models.Account{}
		if err := rows.Scan(
			&account.ID, &account.Role, &account.Email, &account.FirstName, &account.LastName,
			&account.IsVerified, &account.ForcePasswordChange, &account.CreatedAt, &account.VerifiedAt,
		); err != nil {
			return nil, err
		}
		accounts = append(accounts, account)
	}
	return accounts, rows.Err()
}
