package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"gorm.io/gorm"

	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/observability"
	"github.com/pageza/foodgram/backend/internal/repository"
)

// RelationManager adds, removes and lists user -> target relations of any
// kind described by a models.RelationKind.
type RelationManager struct {
	db        *gorm.DB
	relations repository.RelationRepository
	recipes   repository.RecipeRepository
	users     repository.UserRepository
	images    ImageURLResolver
}

func NewRelationManager(db *gorm.DB, relations repository.RelationRepository, recipes repository.RecipeRepository, users repository.UserRepository, images ImageURLResolver) *RelationManager {
	return &RelationManager{
		db:        db,
		relations: relations,
		recipes:   recipes,
		users:     users,
		images:    images,
	}
}

// Add creates the (userID, targetID) relation and returns the target view.
func (m *RelationManager) Add(ctx context.Context, userID uuid.UUID, kind models.RelationKind, targetID uuid.UUID) (Target, error) {
	span, ctx := observability.NewSpan(ctx, "relation.add",
		attribute.String("relation.kind", kind.Name),
		attribute.String("relation.target_id", targetID.String()),
	)
	defer span.End()

	err := m.add(ctx, userID, kind, targetID)
	observability.RecordRelationOperation(kind.Name, "add", err)
	if err != nil {
		span.SetError(err)
		return nil, err
	}

	targets, err := m.present(ctx, kind, []uuid.UUID{targetID}, 0)
	if err == nil && len(targets) == 0 {
		err = models.NewNotFoundError(kind.TargetResource, targetID)
	}
	if err != nil {
		span.SetError(err)
		return nil, err
	}
	return targets[0], nil
}

func (m *RelationManager) add(ctx context.Context, userID uuid.UUID, kind models.RelationKind, targetID uuid.UUID) error {
	if kind.ForbidSelf && userID == targetID {
		return models.NewValidationError(fmt.Sprintf("cannot create %s to yourself", kind.Name))
	}

	return m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		relations := m.relations.WithTx(tx)

		exists, err := relations.TargetExists(ctx, kind, targetID)
		if err != nil {
			return err
		}
		if !exists {
			return models.NewNotFoundError(kind.TargetResource, targetID)
		}

		linked, err := relations.Exists(ctx, kind, userID, targetID)
		if err != nil {
			return err
		}
		if linked {
			return models.NewConflictError(kind.Resource, fmt.Sprintf("%s for %s already exists", kind.Resource, targetID))
		}

		return relations.Create(ctx, kind, userID, targetID)
	})
}

// Remove deletes the (userID, targetID) relation. A missing target is
// NOT_FOUND; an existing target without the relation is RELATION_NOT_FOUND.
func (m *RelationManager) Remove(ctx context.Context, userID uuid.UUID, kind models.RelationKind, targetID uuid.UUID) error {
	span, ctx := observability.NewSpan(ctx, "relation.remove",
		attribute.String("relation.kind", kind.Name),
		attribute.String("relation.target_id", targetID.String()),
	)
	defer span.End()

	err := m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		relations := m.relations.WithTx(tx)

		exists, err := relations.TargetExists(ctx, kind, targetID)
		if err != nil {
			return err
		}
		if !exists {
			return models.NewNotFoundError(kind.TargetResource, targetID)
		}
		return relations.Delete(ctx, kind, userID, targetID)
	})
	observability.RecordRelationOperation(kind.Name, "remove", err)
	span.SetError(err)
	return err
}

// List returns the user's targets of kind in the order the relations were created.
func (m *RelationManager) List(ctx context.Context, userID uuid.UUID, kind models.RelationKind, page PageRequest) (*Page[Target], error) {
	span, ctx := observability.NewSpan(ctx, "relation.list", attribute.String("relation.kind", kind.Name))
	defer span.End()

	page = page.normalize()
	ids, total, err := m.relations.ListTargetIDs(ctx, kind, userID, page.Limit, page.Offset)
	if err == nil {
		var targets []Target
		targets, err = m.present(ctx, kind, ids, page.RecipesLimit)
		if err == nil {
			observability.RecordRelationOperation(kind.Name, "list", nil)
			return &Page[Target]{Count: total, Results: targets}, nil
		}
	}

	observability.RecordRelationOperation(kind.Name, "list", err)
	span.SetError(err)
	return nil, err
}

// present loads the views of ids, keeping their order. Targets deleted in
// the meantime are skipped.
func (m *RelationManager) present(ctx context.Context, kind models.RelationKind, ids []uuid.UUID, recipesLimit int) ([]Target, error) {
	targets := make([]Target, 0, len(ids))

	if kind.TargetsRecipes() {
		recipes, err := m.recipes.GetByIDs(ctx, ids)
		if err != nil {
			return nil, err
		}
		byID := make(map[uuid.UUID]*models.Recipe, len(recipes))
		for i := range recipes {
			byID[recipes[i].ID] = &recipes[i]
		}
		for _, id := range ids {
			if recipe, ok := byID[id]; ok {
				targets = append(targets, toRecipeShort(ctx, m.images, recipe))
			}
		}
	} else {
		users, err := m.users.GetByIDs(ctx, ids)
		if err != nil {
			return nil, err
		}
		byID := make(map[uuid.UUID]*models.User, len(users))
		for i := range users {
			byID[users[i].ID] = &users[i]
		}
		for _, id := range ids {
			user, ok := byID[id]
			if !ok {
				continue
			}
			summary, err := authorSummary(ctx, m.recipes, m.images, user, recipesLimit)
			if err != nil {
				return nil, err
			}
			summary.IsSubscribed = true
			targets = append(targets, summary)
		}
	}

	return targets, nil
}

func authorSummary(ctx context.Context, recipes repository.RecipeRepository, images ImageURLResolver, user *models.User, recipesLimit int) (AuthorSummary, error) {
	authored, err := recipes.ListByAuthor(ctx, user.ID, recipesLimit)
	if err != nil {
		return AuthorSummary{}, err
	}
	count, err := recipes.CountByAuthor(ctx, user.ID)
	if err != nil {
		return AuthorSummary{}, err
	}

	summary := AuthorSummary{
		ID:           user.ID,
		Email:        user.Email,
		Username:     user.Username,
		FirstName:    user.FirstName,
		LastName:     user.LastName,
		Recipes:      make([]RecipeShort, 0, len(authored)),
		RecipesCount: count,
	}
	for i := range authored {
		summary.Recipes = append(summary.Recipes, toRecipeShort(ctx, images, &authored[i]))
	}
	return summary, nil
}
