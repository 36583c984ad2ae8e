package repositories

import (
	"errors"

	"github.com/rhamilton21/rememora-web/internal/apperrors"
	"github.com/rhamilton21/rememora-web/internal/models"
	"gorm.io/gorm"
)

// CommentRepository defines the interface for comment data operations
type CommentRepository interface {
	CreateComment(comment *models.Comment) error
	GetCommentByID(id uint) (*models.Comment, error)
	GetCommentsByItemID(itemID string) ([]models.Comment, error)
	GetCommentsCountByItemID(itemID string) (int64, error)
}

// PostgresCommentRepository implements CommentRepository for PostgreSQL
type PostgresCommentRepository struct {
	db *gorm.DB
}

// NewPostgresCommentRepository creates a new PostgresCommentRepository
func NewPostgresCommentRepository(db *gorm.DB) *PostgresCommentRepository {
	return &PostgresCommentRepository{db: db}
}

// CreateComment creates a new comment in PostgreSQL
func (r *PostgresCommentRepository) CreateComment(comment *models.Comment) error {
	return r.db.Create(comment).Error
}

// GetCommentByID retrieves a comment by ID
func (r *PostgresCommentRepository) GetCommentByID(id uint) (*models.Comment, error) {
	var comment models.Comment
	if err := r.db.First(&comment, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &comment, nil
}

// GetCommentsByItemID retrieves all comments for an item, oldest first
func (r *PostgresCommentRepository) GetCommentsByItemID(itemID string) ([]models.Comment, error) {
	var comments []models.Comment
	if err := r.db.Where("item_id = ?", itemID).Order("created_at ASC").Find(&comments).Error; err != nil {
		return nil, err
	}
	return comments, nil
}

// GetCommentsCountByItemID retrieves the count of comments for an item
func (r *PostgresCommentRepository) GetCommentsCountByItemID(itemID string) (int64, error) {
	var count int64
	if err := r.db.Model(&models.Comment{}).Where("item_id = ?", itemID).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
