package service

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"

	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/repository"
)

const maxIngredientResults = 50

// IngredientService exposes the ingredient ledger.
type IngredientService struct {
	ingredients repository.IngredientRepository
}

func NewIngredientService(ingredients repository.IngredientRepository) *IngredientService {
	return &IngredientService{ingredients: ingredients}
}

// Search returns ingredients whose name starts with prefix, ignoring case.
func (s *IngredientService) Search(ctx context.Context, prefix string) ([]models.Ingredient, error) {
	return s.ingredients.SearchByPrefix(ctx, prefix, maxIngredientResults)
}

// ImportCSV loads "name,measurement_unit" rows. A first row equal to that
// header is skipped. Returns the number of ingredients stored.
func (s *IngredientService) ImportCSV(ctx context.Context, r io.Reader) (int, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = 2
	reader.TrimLeadingSpace = true

	var batch []models.Ingredient
	for line := 1; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return 0, models.NewValidationError(fmt.Sprintf("line %d: %v", line, err))
		}

		name, unit := strings.TrimSpace(record[0]), strings.TrimSpace(record[1])
		if line == 1 && strings.EqualFold(name, "name") && strings.EqualFold(unit, "measurement_unit") {
			continue
		}
		if name == "" || unit == "" {
			return 0, models.NewValidationError(fmt.Sprintf("line %d: name and measurement unit are required", line))
		}
		batch = append(batch, models.Ingredient{Name: name, MeasurementUnit: unit})
	}

	if err := s.ingredients.CreateBatch(ctx, batch); err != nil {
		return 0, err
	}
	return len(batch), nil
}

type TagService struct {
	tags repository.TagRepository
}

func NewTagService(tags repository.TagRepository) *TagService {
	return &TagService{tags: tags}
}

func (s *TagService) List(ctx context.Context) ([]models.Tag, error) {
	return s.tags.List(ctx)
}

func (s *TagService) Get(ctx context.Context, id uuid.UUID) (*models.Tag, error) {
	return s.tags.GetByID(ctx, id)
}
