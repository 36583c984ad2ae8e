package repositories

import (
	"errors"

	"github.com/rhamilton21/rememora-web/internal/apperrors"
	"github.com/rhamilton21/rememora-web/internal/models"
	"gorm.io/gorm"
)

// MemorialRepository defines the interface for memorial data operations
type MemorialRepository interface {
	CreateMemorial(memorial *models.Memorial) error
	GetMemorialByID(id uint) (*models.Memorial, error)
	GetMemorialsByOwnerID(ownerID uint) ([]models.Memorial, error)
	UpdateMemorial(id uint, patch map[string]interface{}) error
}

// PostgresMemorialRepository implements MemorialRepository for PostgreSQL
type PostgresMemorialRepository struct {
	db *gorm.DB
}

// NewPostgresMemorialRepository creates a new PostgresMemorialRepository
func NewPostgresMemorialRepository(db *gorm.DB) *PostgresMemorialRepository {
	return &PostgresMemorialRepository{db: db}
}

// CreateMemorial creates a new memorial in PostgreSQL
func (r *PostgresMemorialRepository) CreateMemorial(memorial *models.Memorial) error {
	return r.db.Create(memorial).Error
}

// GetMemorialByID retrieves a memorial by ID from PostgreSQL
func (r *PostgresMemorialRepository) GetMemorialByID(id uint) (*models.Memorial, error) {
	var memorial models.Memorial
	if err := r.db.First(&memorial, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &memorial, nil
}

// GetMemorialsByOwnerID retrieves the memorials owned by a user, newest first
func (r *PostgresMemorialRepository) GetMemorialsByOwnerID(ownerID uint) ([]models.Memorial, error) {
	var memorials []models.Memorial
	if err := r.db.Where("owner_id = ?", ownerID).Order("created_at DESC").Find(&memorials).Error; err != nil {
		return nil, err
	}
	return memorials, nil
}

// UpdateMemorial applies a partial update to a memorial
func (r *PostgresMemorialRepository) UpdateMemorial(id uint, patch map[string]interface{}) error {
	res := r.db.Model(&models.Memorial{}).Where("id = ?", id).Updates(patch)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
