package service

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"gorm.io/gorm"

	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/observability"
	"github.com/pageza/foodgram/backend/internal/repository"
)

const maxRecipeNameLength = 200

// IngredientAmount is one requested recipe line.
type IngredientAmount struct {
	IngredientID uuid.UUID
	Amount       int
}

// RecipeInput carries the writable fields of a recipe. AuthorID is the
// requested author, if any; it is ignored on create and must match the
// current author on update.
type RecipeInput struct {
	Name        string
	Text        string
	Image       string
	CookingTime int
	TagIDs      []uuid.UUID
	Ingredients []IngredientAmount
	AuthorID    *uuid.UUID
}

func (in RecipeInput) validate() error {
	var problems []string
	if strings.TrimSpace(in.Name) == "" {
		problems = append(problems, "name is required")
	} else if utf8.RuneCountInString(in.Name) > maxRecipeNameLength {
		problems = append(problems, fmt.Sprintf("name must be at most %d characters", maxRecipeNameLength))
	}
	if strings.TrimSpace(in.Text) == "" {
		problems = append(problems, "text is required")
	}
	if in.CookingTime < 1 {
		problems = append(problems, "cooking_time must be at least 1")
	}
	if len(in.Ingredients) == 0 {
		problems = append(problems, "at least one ingredient is required")
	}
	for i, line := range in.Ingredients {
		if line.Amount < 1 {
			problems = append(problems, fmt.Sprintf("ingredients[%d]: amount must be at least 1", i))
		}
	}
	if len(problems) > 0 {
		return models.NewValidationError(strings.Join(problems, "; "))
	}
	return nil
}

// RecipeService handles recipe operations
type RecipeService struct {
	db          *gorm.DB
	recipes     repository.RecipeRepository
	relations   repository.RelationRepository
	ingredients repository.IngredientRepository
	tags        repository.TagRepository
	images      ImageURLResolver
}

// NewRecipeService creates a new RecipeService instance
func NewRecipeService(
	db *gorm.DB,
	recipes repository.RecipeRepository,
	relations repository.RelationRepository,
	ingredients repository.IngredientRepository,
	tags repository.TagRepository,
	images ImageURLResolver,
) *RecipeService {
	return &RecipeService{
		db:          db,
		recipes:     recipes,
		relations:   relations,
		ingredients: ingredients,
		tags:        tags,
		images:      images,
	}
}

// Create stores a new recipe authored by actorID together with its tags and
// lines in one transaction.
func (s *RecipeService) Create(ctx context.Context, actorID uuid.UUID, in RecipeInput) (*models.Recipe, error) {
	span, ctx := observability.NewSpan(ctx, "recipe.create")
	defer span.End()

	recipeID, err := s.create(ctx, actorID, in)
	observability.RecordRecipeMutation("create", err)
	if err != nil {
		span.SetError(err)
		return nil, err
	}
	return s.Get(ctx, actorID, recipeID)
}

func (s *RecipeService) create(ctx context.Context, actorID uuid.UUID, in RecipeInput) (uuid.UUID, error) {
	if err := in.validate(); err != nil {
		return uuid.Nil, err
	}

	recipe := &models.Recipe{
		AuthorID:    actorID,
		Name:        strings.TrimSpace(in.Name),
		Text:        in.Text,
		Image:       in.Image,
		CookingTime: in.CookingTime,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		tagIDs, lines, err := s.resolveReferences(ctx, tx, in)
		if err != nil {
			return err
		}

		recipes := s.recipes.WithTx(tx)
		if err := recipes.Create(ctx, recipe); err != nil {
			return err
		}
		if err := recipes.ReplaceTags(ctx, recipe.ID, tagIDs); err != nil {
			return err
		}
		return recipes.ReplaceLines(ctx, recipe.ID, lines)
	})
	return recipe.ID, err
}

// Update replaces the recipe's fields, tags and lines in one transaction.
// Only the author may update, and authorship cannot be reassigned.
func (s *RecipeService) Update(ctx context.Context, actorID, recipeID uuid.UUID, in RecipeInput) (*models.Recipe, error) {
	span, ctx := observability.NewSpan(ctx, "recipe.update", attribute.String("recipe.id", recipeID.String()))
	defer span.End()

	err := s.update(ctx, actorID, recipeID, in)
	observability.RecordRecipeMutation("update", err)
	if err != nil {
		span.SetError(err)
		return nil, err
	}
	return s.Get(ctx, actorID, recipeID)
}

func (s *RecipeService) update(ctx context.Context, actorID, recipeID uuid.UUID, in RecipeInput) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		recipes := s.recipes.WithTx(tx)

		recipe, err := recipes.GetByID(ctx, recipeID)
		if err != nil {
			return err
		}
		if recipe.AuthorID != actorID {
			return models.NewForbiddenError("only the author can modify this recipe")
		}
		if in.AuthorID != nil && *in.AuthorID != recipe.AuthorID {
			return models.NewForbiddenError("recipe author cannot be changed")
		}
		if err := in.validate(); err != nil {
			return err
		}

		tagIDs, lines, err := s.resolveReferences(ctx, tx, in)
		if err != nil {
			return err
		}

		recipe.Name = strings.TrimSpace(in.Name)
		recipe.Text = in.Text
		recipe.CookingTime = in.CookingTime
		if in.Image != "" {
			recipe.Image = in.Image
		}
		if err := recipes.UpdateFields(ctx, recipe); err != nil {
			return err
		}
		if err := recipes.ReplaceTags(ctx, recipe.ID, tagIDs); err != nil {
			return err
		}
		return recipes.ReplaceLines(ctx, recipe.ID, lines)
	})
}

// resolveReferences checks that every referenced ingredient and tag exists
// and returns the deduplicated tag ids and the lines to store.
func (s *RecipeService) resolveReferences(ctx context.Context, tx *gorm.DB, in RecipeInput) ([]uuid.UUID, []models.RecipeIngredient, error) {
	requested := make([]uuid.UUID, 0, len(in.Ingredients))
	for _, line := range in.Ingredients {
		requested = append(requested, line.IngredientID)
	}
	ingredientIDs := uniqueIDs(requested)
	found, err := s.ingredients.WithTx(tx).GetByIDs(ctx, ingredientIDs)
	if err != nil {
		return nil, nil, err
	}
	known := make(map[uuid.UUID]bool, len(found))
	for _, ingredient := range found {
		known[ingredient.ID] = true
	}
	for _, id := range ingredientIDs {
		if !known[id] {
			return nil, nil, models.NewValidationError(fmt.Sprintf("ingredient %s does not exist", id))
		}
	}

	tagIDs := uniqueIDs(in.TagIDs)
	tags, err := s.tags.WithTx(tx).GetByIDs(ctx, tagIDs)
	if err != nil {
		return nil, nil, err
	}
	if len(tags) != len(tagIDs) {
		knownTags := make(map[uuid.UUID]bool, len(tags))
		for _, tag := range tags {
			knownTags[tag.ID] = true
		}
		for _, id := range tagIDs {
			if !knownTags[id] {
				return nil, nil, models.NewValidationError(fmt.Sprintf("tag %s does not exist", id))
			}
		}
	}

	lines := make([]models.RecipeIngredient, 0, len(in.Ingredients))
	for _, line := range in.Ingredients {
		lines = append(lines, models.RecipeIngredient{IngredientID: line.IngredientID, Amount: line.Amount})
	}
	return tagIDs, lines, nil
}

// uniqueIDs drops repeated ids, keeping the first occurrence.
func uniqueIDs(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]bool, len(ids))
	unique := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			unique = append(unique, id)
		}
	}
	return unique
}

// Delete removes the recipe and every relation row pointing at it.
func (s *RecipeService) Delete(ctx context.Context, actorID, recipeID uuid.UUID) error {
	span, ctx := observability.NewSpan(ctx, "recipe.delete", attribute.String("recipe.id", recipeID.String()))
	defer span.End()

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		recipes := s.recipes.WithTx(tx)
		relations := s.relations.WithTx(tx)

		recipe, err := recipes.GetByID(ctx, recipeID)
		if err != nil {
			return err
		}
		if recipe.AuthorID != actorID {
			return models.NewForbiddenError("only the author can delete this recipe")
		}
		return deleteRecipeCascade(ctx, recipes, relations, recipeID)
	})
	observability.RecordRecipeMutation("delete", err)
	span.SetError(err)
	return err
}

func deleteRecipeCascade(ctx context.Context, recipes repository.RecipeRepository, relations repository.RelationRepository, recipeID uuid.UUID) error {
	for _, kind := range []models.RelationKind{models.FavoriteKind, models.ShoppingCartKind} {
		if err := relations.DeleteByTarget(ctx, kind, recipeID); err != nil {
			return err
		}
	}
	return recipes.Delete(ctx, recipeID)
}

// Get loads a recipe with per-viewer flags. viewerID may be uuid.Nil for
// anonymous access.
func (s *RecipeService) Get(ctx context.Context, viewerID, recipeID uuid.UUID) (*models.Recipe, error) {
	recipe, err := s.recipes.GetByID(ctx, recipeID)
	if err != nil {
		return nil, err
	}
	recipes := []models.Recipe{*recipe}
	if err := s.decorate(ctx, viewerID, recipes); err != nil {
		return nil, err
	}
	return &recipes[0], nil
}

// List returns one page of recipes, newest first, with per-viewer flags.
func (s *RecipeService) List(ctx context.Context, viewerID uuid.UUID, filter repository.RecipeFilter) (*Page[models.Recipe], error) {
	page := PageRequest{Limit: filter.Limit, Offset: filter.Offset}.normalize()
	filter.Limit, filter.Offset = page.Limit, page.Offset

	recipes, total, err := s.recipes.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	if err := s.decorate(ctx, viewerID, recipes); err != nil {
		return nil, err
	}
	return &Page[models.Recipe]{Count: total, Results: recipes}, nil
}

func (s *RecipeService) decorate(ctx context.Context, viewerID uuid.UUID, recipes []models.Recipe) error {
	ids := make([]uuid.UUID, 0, len(recipes))
	for _, recipe := range recipes {
		ids = append(ids, recipe.ID)
	}

	favorited, err := s.relations.TargetIDsAmong(ctx, models.FavoriteKind, viewerID, ids)
	if err != nil {
		return err
	}
	inCart, err := s.relations.TargetIDsAmong(ctx, models.ShoppingCartKind, viewerID, ids)
	if err != nil {
		return err
	}

	for i := range recipes {
		recipes[i].IsFavorited = favorited[recipes[i].ID]
		recipes[i].IsInShoppingCart = inCart[recipes[i].ID]
		recipes[i].ImageURL = resolveImage(ctx, s.images, recipes[i].Image)
	}
	return nil
}
