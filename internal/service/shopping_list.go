package service

import (
	"bytes"
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/observability"
	"github.com/pageza/foodgram/backend/internal/repository"
)

const (
	ShoppingListContentType = "text/plain"
	ShoppingListFilename    = "shopping_list.txt"
)

// ShoppingListFile is the downloadable shopping list.
type ShoppingListFile struct {
	Content     []byte
	ContentType string
	Filename    string
}

type ShoppingListService struct {
	lines repository.ShoppingListRepository
}

func NewShoppingListService(lines repository.ShoppingListRepository) *ShoppingListService {
	return &ShoppingListService{lines: lines}
}

// DownloadShoppingList sums the ingredients of every recipe in the user's
// cart. It only reads.
func (s *ShoppingListService) DownloadShoppingList(ctx context.Context, userID uuid.UUID) (*ShoppingListFile, error) {
	span, ctx := observability.NewSpan(ctx, "shopping_list.download")
	defer span.End()

	lines, err := s.lines.CartLines(ctx, userID)
	if err != nil {
		span.SetError(err)
		return nil, err
	}

	content, items := BuildShoppingList(lines)
	observability.ShoppingListItems.Observe(float64(items))

	return &ShoppingListFile{
		Content:     content,
		ContentType: ShoppingListContentType,
		Filename:    ShoppingListFilename,
	}, nil
}

type shoppingKey struct {
	name string
	unit string
}

// BuildShoppingList groups lines by (name, unit) in first-seen order and
// renders one "{name} ({unit}) - {total}" line per group. It also returns
// the number of groups. No lines yields empty content.
func BuildShoppingList(lines []models.ShoppingLine) ([]byte, int) {
	order := make([]shoppingKey, 0, len(lines))
	totals := make(map[shoppingKey]int, len(lines))
	for _, line := range lines {
		key := shoppingKey{name: line.Name, unit: line.MeasurementUnit}
		if _, seen := totals[key]; !seen {
			order = append(order, key)
		}
		totals[key] += line.Amount
	}

	var buf bytes.Buffer
	for _, key := range order {
		fmt.Fprintf(&buf, "%s (%s) - %d\n", key.name, key.unit, totals[key])
	}
	return buf.Bytes(), len(order)
}
