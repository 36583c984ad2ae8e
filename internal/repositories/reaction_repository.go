package repositories

import (
	"errors"

	"github.com/rhamilton21/rememora-web/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ReactionRepository defines the interface for reaction data operations.
// Toggle is the single write entry point so the one-row-per-(user, target)
// invariant is enforced in one place, backed by the composite unique index.
type ReactionRepository interface {
	Toggle(userID uint, targetType, targetID, reactionType string) (*models.Reaction, bool, error)
	GetReactionsForTarget(targetType, targetID string) ([]models.Reaction, error)
	GetCountsForTarget(targetType, targetID string) (map[string]int64, error)
	GetUserReaction(userID uint, targetType, targetID string) (*models.Reaction, error)
}

// PostgresReactionRepository implements ReactionRepository for PostgreSQL
type PostgresReactionRepository struct {
	db *gorm.DB
}

// NewPostgresReactionRepository creates a new PostgresReactionRepository
func NewPostgresReactionRepository(db *gorm.DB) *PostgresReactionRepository {
	return &PostgresReactionRepository{db: db}
}

// Toggle applies a reaction as a conditional write at the store boundary:
// deleting the same-typed row toggles the reaction off, otherwise an upsert
// on the (user, target) unique index creates the row or replaces its type in
// place. Returns the resulting row, or removed=true when toggled off.
func (r *PostgresReactionRepository) Toggle(userID uint, targetType, targetID, reactionType string) (*models.Reaction, bool, error) {
	res := r.db.Where("user_id = ? AND target_type = ? AND target_id = ? AND type = ?",
		userID, targetType, targetID, reactionType).Delete(&models.Reaction{})
	if res.Error != nil {
		return nil, false, res.Error
	}
	if res.RowsAffected > 0 {
		return nil, true, nil
	}

	reaction := &models.Reaction{
		UserID:     userID,
		TargetType: targetType,
		TargetID:   targetID,
		Type:       reactionType,
	}
	err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "target_type"}, {Name: "target_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{"type": reactionType}),
	}).Create(reaction).Error
	if err != nil {
		return nil, false, err
	}

	// Re-read: on the conflict path the returned struct carries the insert
	// attempt's zero ID, not the surviving row.
	var current models.Reaction
	if err := r.db.Where("user_id = ? AND target_type = ? AND target_id = ?",
		userID, targetType, targetID).First(&current).Error; err != nil {
		return nil, false, err
	}
	return &current, false, nil
}

// GetReactionsForTarget retrieves all reactions on a target
func (r *PostgresReactionRepository) GetReactionsForTarget(targetType, targetID string) ([]models.Reaction, error) {
	var reactions []models.Reaction
	if err := r.db.Where("target_type = ? AND target_id = ?", targetType, targetID).Find(&reactions).Error; err != nil {
		return nil, err
	}
	return reactions, nil
}

// GetCountsForTarget retrieves per-type reaction counts for a target
func (r *PostgresReactionRepository) GetCountsForTarget(targetType, targetID string) (map[string]int64, error) {
	type row struct {
		Type  string
		Count int64
	}
	var rows []row
	err := r.db.Model(&models.Reaction{}).
		Select("type, COUNT(*) as count").
		Where("target_type = ? AND target_id = ?", targetType, targetID).
		Group("type").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int64, len(rows))
	for _, rw := range rows {
		counts[rw.Type] = rw.Count
	}
	return counts, nil
}

// GetUserReaction retrieves a user's reaction on a target, or nil if none
func (r *PostgresReactionRepository) GetUserReaction(userID uint, targetType, targetID string) (*models.Reaction, error) {
	var reaction models.Reaction
	err := r.db.Where("user_id = ? AND target_type = ? AND target_id = ?", userID, targetType, targetID).First(&reaction).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &reaction, nil
}
