package repositories

import (
	"context"

	"klimarechner/internal/models"
)

type UserProfileRepository interface {
	Create(ctx context.Context, profile *models.UserProfile) error
	GetByUserID(ctx context.Context, userID int64) (*models.UserProfile, error)
	Update(ctx context.Context, profile *models.UserProfile) error
}

type userProfileRepo struct {
	db Database
}

func NewUserProfileRepo(db Database) UserProfileRepository {
	return &userProfileRepo{db: db}
}

func (r *userProfileRepo) Create(ctx context.Context, profile *models.UserProfile) error {
	query := `
		INSERT INTO user_profiles (user_id, company_name, location, created_at, updated_at)
		VALUES ($1, $2, $3, NOW(), NOW())
		ON CONFLICT (user_id) DO NOTHING
	`
	_, err := r.db.Exec(ctx, query, profile.UserID, profile.CompanyName, profile.Location)
	return err
}

func (r *userProfileRepo) GetByUserID(ctx context.Context, userID int64) (*models.UserProfile, error) {
	profile := &models.UserProfile{}
	query := `
		SELECT user_id, company_name, location, created_at, updated_at
		FROM user_profiles
		WHERE user_id = $1
	`
	err := r.db.QueryRow(ctx, query, userID).Scan(
		&profile.UserID, &profile.CompanyName, &profile.Location, &profile.CreatedAt, &profile.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return profile, nil
}

func (r *userProfileRepo) Update(ctx context.Context, profile *models.UserProfile) error {
	query := `
		UPDATE user_profiles
		SET company_name = $1, location = $2, updated_at = NOW()
		WHERE user_id = $3
	`
	_, err := r.db.Exec(ctx, query, profile.CompanyName, profile.Location, profile.UserID)
	return err
}
