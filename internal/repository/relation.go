// Package repository provides data access layer implementations for the application.
package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pageza/foodgram/backend/internal/database"
	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/observability"
)

// RelationRepository stores user -> target relation rows of any kind.
type RelationRepository interface {
	WithTx(tx *gorm.DB) RelationRepository
	TargetExists(ctx context.Context, kind models.RelationKind, targetID uuid.UUID) (bool, error)
	Exists(ctx context.Context, kind models.RelationKind, userID, targetID uuid.UUID) (bool, error)
	Create(ctx context.Context, kind models.RelationKind, userID, targetID uuid.UUID) error
	Delete(ctx context.Context, kind models.RelationKind, userID, targetID uuid.UUID) error
	ListTargetIDs(ctx context.Context, kind models.RelationKind, userID uuid.UUID, limit, offset int) ([]uuid.UUID, int64, error)
	TargetIDsAmong(ctx context.Context, kind models.RelationKind, userID uuid.UUID, targetIDs []uuid.UUID) (map[uuid.UUID]bool, error)
	DeleteByTarget(ctx context.Context, kind models.RelationKind, targetID uuid.UUID) error
	DeleteBySubject(ctx context.Context, kind models.RelationKind, userID uuid.UUID) error
}

type relationRepository struct {
	db  *gorm.DB
	log *observability.RepoLogger
}

// NewRelationRepository creates a new relation repository
func NewRelationRepository(db *gorm.DB) RelationRepository {
	return &relationRepository{db: db, log: observability.NewRepoLogger("relations")}
}

func (r *relationRepository) WithTx(tx *gorm.DB) RelationRepository {
	return &relationRepository{db: tx, log: r.log}
}

type targetRow struct {
	TargetID uuid.UUID
}

func (r *relationRepository) TargetExists(ctx context.Context, kind models.RelationKind, targetID uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Table(kind.TargetTable).Where("id = ?", targetID).Count(&count).Error; err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

func (r *relationRepository) Exists(ctx context.Context, kind models.RelationKind, userID, targetID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table(kind.Table).
		Where("user_id = ? AND "+kind.TargetColumn+" = ?", userID, targetID).
		Count(&count).Error
	if err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

// Create inserts one relation row. A unique violation on the pair is
// reported as a conflict.
func (r *relationRepository) Create(ctx context.Context, kind models.RelationKind, userID, targetID uuid.UUID) error {
	query := fmt.Sprintf("INSERT INTO %s (user_id, %s, created_at) VALUES (?, ?, ?)", kind.Table, kind.TargetColumn)
	if err := r.db.WithContext(ctx).Exec(query, userID, targetID, time.Now().UTC()).Error; err != nil {
		if database.IsUniqueViolation(err) {
			return models.NewConflictError(kind.Resource, fmt.Sprintf("%s for %s already exists", kind.Resource, targetID))
		}
		r.log.LogError(ctx, err, "create")
		return models.NewInternalError(err)
	}
	r.log.LogCreate(ctx, map[string]interface{}{"kind": kind.Name, "user_id": userID, "target_id": targetID})
	return nil
}

// Delete removes exactly the (userID, targetID) row. Zero affected rows means
// the relation did not exist.
func (r *relationRepository) Delete(ctx context.Context, kind models.RelationKind, userID, targetID uuid.UUID) error {
	query := fmt.Sprintf("DELETE FROM %s WHERE user_id = ? AND %s = ?", kind.Table, kind.TargetColumn)
	result := r.db.WithContext(ctx).Exec(query, userID, targetID)
	if result.Error != nil {
		r.log.LogError(ctx, result.Error, "delete")
		return models.NewInternalError(result.Error)
	}
	if result.RowsAffected == 0 {
		return models.NewRelationNotFoundError(kind.Resource, targetID)
	}
	r.log.LogDelete(ctx, map[string]interface{}{"kind": kind.Name, "user_id": userID, "target_id": targetID})
	return nil
}

// ListTargetIDs returns the user's targets in relation insertion order along
// with the total number of rows. limit <= 0 returns everything.
func (r *relationRepository) ListTargetIDs(ctx context.Context, kind models.RelationKind, userID uuid.UUID, limit, offset int) ([]uuid.UUID, int64, error) {
	db := r.db.WithContext(ctx)

	var total int64
	if err := db.Table(kind.Table).Where("user_id = ?", userID).Count(&total).Error; err != nil {
		return nil, 0, models.NewInternalError(err)
	}

	query := db.Table(kind.Table).
		Select(kind.TargetColumn+" AS target_id").
		Where("user_id = ?", userID).
		Order("id ASC")
	if limit > 0 {
		query = query.Limit(limit).Offset(offset)
	}

	var rows []targetRow
	if err := query.Scan(&rows).Error; err != nil {
		return nil, 0, models.NewInternalError(err)
	}

	ids := make([]uuid.UUID, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.TargetID)
	}
	r.log.LogRead(ctx, map[string]interface{}{"kind": kind.Name, "user_id": userID, "count": len(ids)})
	return ids, total, nil
}

// TargetIDsAmong reports which of targetIDs the user holds a relation to.
func (r *relationRepository) TargetIDsAmong(ctx context.Context, kind models.RelationKind, userID uuid.UUID, targetIDs []uuid.UUID) (map[uuid.UUID]bool, error) {
	found := make(map[uuid.UUID]bool, len(targetIDs))
	if userID == uuid.Nil || len(targetIDs) == 0 {
		return found, nil
	}

	var rows []targetRow
	err := r.db.WithContext(ctx).
		Table(kind.Table).
		Select(kind.TargetColumn+" AS target_id").
		Where("user_id = ? AND "+kind.TargetColumn+" IN ?", userID, targetIDs).
		Scan(&rows).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	for _, row := range rows {
		found[row.TargetID] = true
	}
	return found, nil
}

func (r *relationRepository) DeleteByTarget(ctx context.Context, kind models.RelationKind, targetID uuid.UUID) error {
	query := fmt.Sprintf("DELETE FROM %s WHERE %s = ?", kind.Table, kind.TargetColumn)
	if err := r.db.WithContext(ctx).Exec(query, targetID).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *relationRepository) DeleteBySubject(ctx context.Context, kind models.RelationKind, userID uuid.UUID) error {
	query := fmt.Sprintf("DELETE FROM %s WHERE user_id = ?", kind.Table)
	if err := r.db.WithContext(ctx).Exec(query, userID).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}
