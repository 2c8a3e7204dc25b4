package repository

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/observability"
)

type IngredientRepository interface {
	WithTx(tx *gorm.DB) IngredientRepository
	CreateBatch(ctx context.Context, ingredients []models.Ingredient) error
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Ingredient, error)
	SearchByPrefix(ctx context.Context, prefix string, limit int) ([]models.Ingredient, error)
}

type ingredientRepository struct {
	db  *gorm.DB
	log *observability.RepoLogger
}

func NewIngredientRepository(db *gorm.DB) IngredientRepository {
	return &ingredientRepository{db: db, log: observability.NewRepoLogger("ingredients")}
}

func (r *ingredientRepository) WithTx(tx *gorm.DB) IngredientRepository {
	return &ingredientRepository{db: tx, log: r.log}
}

func (r *ingredientRepository) CreateBatch(ctx context.Context, ingredients []models.Ingredient) error {
	if len(ingredients) == 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).CreateInBatches(ingredients, 500).Error; err != nil {
		r.log.LogError(ctx, err, "create")
		return models.NewInternalError(err)
	}
	r.log.LogCreate(ctx, map[string]interface{}{"count": len(ingredients)})
	return nil
}

func (r *ingredientRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Ingredient, error) {
	var ingredients []models.Ingredient
	if len(ids) == 0 {
		return ingredients, nil
	}
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&ingredients).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return ingredients, nil
}

// SearchByPrefix matches names case-insensitively by prefix, alphabetically.
func (r *ingredientRepository) SearchByPrefix(ctx context.Context, prefix string, limit int) ([]models.Ingredient, error) {
	query := r.db.WithContext(ctx).Order("name ASC, measurement_unit ASC")
	if prefix = strings.TrimSpace(prefix); prefix != "" {
		escaped := strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`).Replace(strings.ToLower(prefix))
		query = query.Where(`LOWER(name) LIKE ? ESCAPE '\'`, escaped+"%")
	}
	if limit > 0 {
		query = query.Limit(limit)
	}

	var ingredients []models.Ingredient
	if err := query.Find(&ingredients).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return ingredients, nil
}
