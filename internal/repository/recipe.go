package repository

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/observability"
)

// RecipeFilter narrows a recipe listing. Zero values do not filter.
type RecipeFilter struct {
	AuthorID    *uuid.UUID
	TagSlugs    []string
	FavoritedBy *uuid.UUID
	InCartOf    *uuid.UUID
	Limit       int
	Offset      int
}

// RecipeRepository defines the interface for recipe data operations
type RecipeRepository interface {
	WithTx(tx *gorm.DB) RecipeRepository
	Create(ctx context.Context, recipe *models.Recipe) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Recipe, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Recipe, error)
	List(ctx context.Context, filter RecipeFilter) ([]models.Recipe, int64, error)
	ListByAuthor(ctx context.Context, authorID uuid.UUID, limit int) ([]models.Recipe, error)
	CountByAuthor(ctx context.Context, authorID uuid.UUID) (int64, error)
	IDsByAuthor(ctx context.Context, authorID uuid.UUID) ([]uuid.UUID, error)
	UpdateFields(ctx context.Context, recipe *models.Recipe) error
	ReplaceTags(ctx context.Context, recipeID uuid.UUID, tagIDs []uuid.UUID) error
	ReplaceLines(ctx context.Context, recipeID uuid.UUID, lines []models.RecipeIngredient) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type recipeRepository struct {
	db  *gorm.DB
	log *observability.RepoLogger
}

// NewRecipeRepository creates a new recipe repository
func NewRecipeRepository(db *gorm.DB) RecipeRepository {
	return &recipeRepository{db: db, log: observability.NewRepoLogger("recipes")}
}

func (r *recipeRepository) WithTx(tx *gorm.DB) RecipeRepository {
	return &recipeRepository{db: tx, log: r.log}
}

func preloadDetail(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Author").
		Preload("Tags").
		Preload("Lines", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC, id ASC")
		}).
		Preload("Lines.Ingredient")
}

func sortLines(recipe *models.Recipe) {
	sort.SliceStable(recipe.Lines, func(i, j int) bool {
		return recipe.Lines[i].Position < recipe.Lines[j].Position
	})
}

// Create inserts the recipe row only; tags and lines are written by
// ReplaceTags and ReplaceLines.
func (r *recipeRepository) Create(ctx context.Context, recipe *models.Recipe) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(recipe).Error; err != nil {
		r.log.LogError(ctx, err, "create")
		return models.NewInternalError(err)
	}
	r.log.LogCreate(ctx, map[string]interface{}{"recipe_id": recipe.ID, "author_id": recipe.AuthorID})
	return nil
}

func (r *recipeRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Recipe, error) {
	var recipe models.Recipe
	if err := preloadDetail(r.db.WithContext(ctx)).First(&recipe, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Recipe", id)
		}
		return nil, models.NewInternalError(err)
	}
	sortLines(&recipe)
	return &recipe, nil
}

// GetByIDs loads bare recipe rows; the result order is unspecified.
func (r *recipeRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Recipe, error) {
	var recipes []models.Recipe
	if len(ids) == 0 {
		return recipes, nil
	}
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&recipes).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return recipes, nil
}

func (r *recipeRepository) filtered(ctx context.Context, filter RecipeFilter) *gorm.DB {
	db := r.db.WithContext(ctx)
	query := db.Model(&models.Recipe{})

	if filter.AuthorID != nil {
		query = query.Where("recipes.author_id = ?", *filter.AuthorID)
	}
	if len(filter.TagSlugs) > 0 {
		tagged := db.Table("recipe_tags").
			Select("recipe_tags.recipe_id").
			Joins("JOIN tags ON tags.id = recipe_tags.tag_id").
			Where("tags.slug IN ?", filter.TagSlugs)
		query = query.Where("recipes.id IN (?)", tagged)
	}
	if filter.FavoritedBy != nil {
		favorited := db.Table("favorites").Select("recipe_id").Where("user_id = ?", *filter.FavoritedBy)
		query = query.Where("recipes.id IN (?)", favorited)
	}
	if filter.InCartOf != nil {
		inCart := db.Table("shopping_carts").Select("recipe_id").Where("user_id = ?", *filter.InCartOf)
		query = query.Where("recipes.id IN (?)", inCart)
	}
	return query
}

// List returns one page of recipes, newest first, and the total match count.
func (r *recipeRepository) List(ctx context.Context, filter RecipeFilter) ([]models.Recipe, int64, error) {
	var total int64
	if err := r.filtered(ctx, filter).Count(&total).Error; err != nil {
		return nil, 0, models.NewInternalError(err)
	}

	query := preloadDetail(r.filtered(ctx, filter)).Order("recipes.created_at DESC")
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit).Offset(filter.Offset)
	}

	var recipes []models.Recipe
	if err := query.Find(&recipes).Error; err != nil {
		return nil, 0, models.NewInternalError(err)
	}
	for i := range recipes {
		sortLines(&recipes[i])
	}
	return recipes, total, nil
}

// ListByAuthor returns the author's newest recipes. limit <= 0 returns all.
func (r *recipeRepository) ListByAuthor(ctx context.Context, authorID uuid.UUID, limit int) ([]models.Recipe, error) {
	query := r.db.WithContext(ctx).Where("author_id = ?", authorID).Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	var recipes []models.Recipe
	if err := query.Find(&recipes).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return recipes, nil
}

func (r *recipeRepository) CountByAuthor(ctx context.Context, authorID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Recipe{}).Where("author_id = ?", authorID).Count(&count).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}

func (r *recipeRepository) IDsByAuthor(ctx context.Context, authorID uuid.UUID) ([]uuid.UUID, error) {
	var rows []struct{ ID uuid.UUID }
	if err := r.db.WithContext(ctx).Model(&models.Recipe{}).Select("id").Where("author_id = ?", authorID).Scan(&rows).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	ids := make([]uuid.UUID, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ID)
	}
	return ids, nil
}

// UpdateFields writes the scalar columns of recipe.
func (r *recipeRepository) UpdateFields(ctx context.Context, recipe *models.Recipe) error {
	result := r.db.WithContext(ctx).Model(&models.Recipe{}).Where("id = ?", recipe.ID).Updates(map[string]interface{}{
		"name":         recipe.Name,
		"text":         recipe.Text,
		"image":        recipe.Image,
		"cooking_time": recipe.CookingTime,
		"updated_at":   time.Now().UTC(),
	})
	if result.Error != nil {
		return models.NewInternalError(result.Error)
	}
	if result.RowsAffected == 0 {
		return models.NewNotFoundError("Recipe", recipe.ID)
	}
	r.log.LogUpdate(ctx, map[string]interface{}{"recipe_id": recipe.ID})
	return nil
}

// ReplaceTags sets the recipe's tag links to exactly tagIDs.
func (r *recipeRepository) ReplaceTags(ctx context.Context, recipeID uuid.UUID, tagIDs []uuid.UUID) error {
	db := r.db.WithContext(ctx)
	if err := db.Exec("DELETE FROM recipe_tags WHERE recipe_id = ?", recipeID).Error; err != nil {
		return models.NewInternalError(err)
	}
	for _, tagID := range tagIDs {
		if err := db.Exec("INSERT INTO recipe_tags (recipe_id, tag_id) VALUES (?, ?)", recipeID, tagID).Error; err != nil {
			return models.NewInternalError(err)
		}
	}
	return nil
}

// ReplaceLines deletes every line of the recipe and inserts lines in order.
func (r *recipeRepository) ReplaceLines(ctx context.Context, recipeID uuid.UUID, lines []models.RecipeIngredient) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("recipe_id = ?", recipeID).Delete(&models.RecipeIngredient{}).Error; err != nil {
		return models.NewInternalError(err)
	}
	if len(lines) == 0 {
		return nil
	}
	for i := range lines {
		lines[i].ID = 0
		lines[i].RecipeID = recipeID
		lines[i].Position = i
	}
	if err := db.Omit(clause.Associations).Create(&lines).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// Delete removes the recipe with its lines and tag links. Relation rows are
// the caller's responsibility.
func (r *recipeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("recipe_id = ?", id).Delete(&models.RecipeIngredient{}).Error; err != nil {
		return models.NewInternalError(err)
	}
	if err := db.Exec("DELETE FROM recipe_tags WHERE recipe_id = ?", id).Error; err != nil {
		return models.NewInternalError(err)
	}
	result := db.Where("id = ?", id).Delete(&models.Recipe{})
	if result.Error != nil {
		return models.NewInternalError(result.Error)
	}
	if result.RowsAffected == 0 {
		return models.NewNotFoundError("Recipe", id)
	}
	r.log.LogDelete(ctx, map[string]interface{}{"recipe_id": id})
	return nil
}
