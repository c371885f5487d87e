package services

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"klimarechner/internal/models"
	"klimarechner/internal/repositories"
)

// ProfileService manages the company profile attached to client accounts.
type ProfileService interface {
	// Get returns the profile, creating an empty one on first access.
	Get(ctx context.Context, userID int64) (*models.UserProfile, error)
	Update(ctx context.Context, profile *models.UserProfile) (*models.UserProfile, error)
}

type profileService struct {
	profiles repositories.UserProfileRepository
}

func NewProfileService(profiles repositories.UserProfileRepository) ProfileService {
	return &profileService{profiles: profiles}
}

func (s *profileService) Get(ctx context.Context, userID int64) (*models.UserProfile, error) {
	profile, err := s.profiles.GetByUserID(ctx, userID)
	if errors.Is(err, pgx.ErrNoRows) {
		profile = &models.UserProfile{UserID: userID}
		if err := s.profiles.Create(ctx, profile); err != nil {
			return nil, err
		}
		return s.profiles.GetByUserID(ctx, userID)
	}
	if err != nil {
		return nil, err
	}
	return profile, nil
}

func (s *profileService) Update(ctx context.Context, profile *models.UserProfile) (*models.UserProfile, error) {
	if _, err := s.Get(ctx, profile.UserID); err != nil {
		return nil, err
	}
	if err := s.profiles.Update(ctx, profile); err != nil {
		return nil, err
	}
	return s.profiles.GetByUserID(ctx, profile.UserID)
}
