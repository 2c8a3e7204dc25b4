package service

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/observability"
	"github.com/pageza/foodgram/backend/internal/repository"
)

type UserService struct {
	db        *gorm.DB
	users     repository.UserRepository
	recipes   repository.RecipeRepository
	relations repository.RelationRepository
}

func NewUserService(db *gorm.DB, users repository.UserRepository, recipes repository.RecipeRepository, relations repository.RelationRepository) *UserService {
	return &UserService{
		db:        db,
		users:     users,
		recipes:   recipes,
		relations: relations,
	}
}

// Get returns a user's profile; IsSubscribed tells whether viewerID follows them.
func (s *UserService) Get(ctx context.Context, viewerID, userID uuid.UUID) (*UserProfile, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	subscribed := false
	if viewerID != uuid.Nil && viewerID != userID {
		subscribed, err = s.relations.Exists(ctx, models.FollowKind, viewerID, userID)
		if err != nil {
			return nil, err
		}
	}

	profile := toUserProfile(user, subscribed)
	return &profile, nil
}

// Delete removes the account together with its recipes and every relation
// row in which the user is subject or target.
func (s *UserService) Delete(ctx context.Context, actorID, userID uuid.UUID) error {
	if actorID != userID {
		return models.NewForbiddenError("users can only delete their own account")
	}

	span, ctx := observability.NewSpan(ctx, "user.delete")
	defer span.End()

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		users := s.users.WithTx(tx)
		recipes := s.recipes.WithTx(tx)
		relations := s.relations.WithTx(tx)

		if _, err := users.GetByID(ctx, userID); err != nil {
			return err
		}

		for _, kind := range models.RelationKinds {
			if err := relations.DeleteBySubject(ctx, kind, userID); err != nil {
				return err
			}
		}
		if err := relations.DeleteByTarget(ctx, models.FollowKind, userID); err != nil {
			return err
		}

		authored, err := recipes.IDsByAuthor(ctx, userID)
		if err != nil {
			return err
		}
		for _, recipeID := range authored {
			if err := deleteRecipeCascade(ctx, recipes, relations, recipeID); err != nil {
				return err
			}
		}

		return users.Delete(ctx, userID)
	})
	span.SetError(err)
	return err
}
