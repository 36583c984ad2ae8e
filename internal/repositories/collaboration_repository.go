package repositories

import (
	"errors"

	"github.com/rhamilton21/rememora-web/internal/apperrors"
	"github.com/rhamilton21/rememora-web/internal/models"
	"gorm.io/gorm"
)

// CollaborationRepository defines the interface for collaboration request operations
type CollaborationRepository interface {
	CreateRequest(request *models.CollaborationRequest) error
	GetRequestByID(id uint) (*models.CollaborationRequest, error)
	GetRequestsForMemorial(memorialID uint) ([]models.CollaborationRequest, error)
	GetRequestsByRequesterID(requesterID uint) ([]models.CollaborationRequest, error)
	GetRequestForUser(memorialID, requesterID uint) (*models.CollaborationRequest, error)
	HasAcceptedRequest(memorialID, requesterID uint) (bool, error)
	UpdateRequestStatus(id uint, status string) error
}

// PostgresCollaborationRepository implements CollaborationRepository for PostgreSQL
type PostgresCollaborationRepository struct {
	db *gorm.DB
}

// NewPostgresCollaborationRepository creates a new PostgresCollaborationRepository
func NewPostgresCollaborationRepository(db *gorm.DB) *PostgresCollaborationRepository {
	return &PostgresCollaborationRepository{db: db}
}

// CreateRequest inserts a new pending request. The unique index on
// (memorial_id, requester_id) rejects a second request from the same user.
func (r *PostgresCollaborationRepository) CreateRequest(request *models.CollaborationRequest) error {
	request.Status = models.CollaborationPending
	if err := r.db.Create(request).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperrors.ErrConflict
		}
		return err
	}
	return nil
}

// GetRequestByID retrieves a collaboration request by ID
func (r *PostgresCollaborationRepository) GetRequestByID(id uint) (*models.CollaborationRequest, error) {
	var request models.CollaborationRequest
	if err := r.db.First(&request, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &request, nil
}

// GetRequestsForMemorial retrieves all requests for a memorial, newest first
func (r *PostgresCollaborationRepository) GetRequestsForMemorial(memorialID uint) ([]models.CollaborationRequest, error) {
	var requests []models.CollaborationRequest
	err := r.db.Where("memorial_id = ?", memorialID).Order("created_at DESC").Find(&requests).Error
	return requests, err
}

// GetRequestsByRequesterID retrieves all requests a user has made, newest first
func (r *PostgresCollaborationRepository) GetRequestsByRequesterID(requesterID uint) ([]models.CollaborationRequest, error) {
	var requests []models.CollaborationRequest
	err := r.db.Where("requester_id = ?", requesterID).Order("created_at DESC").Find(&requests).Error
	return requests, err
}

// GetRequestForUser retrieves a user's request for a memorial, or nil if none
func (r *PostgresCollaborationRepository) GetRequestForUser(memorialID, requesterID uint) (*models.CollaborationRequest, error) {
	var request models.CollaborationRequest
	err := r.db.Where("memorial_id = ? AND requester_id = ?", memorialID, requesterID).First(&request).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &request, nil
}

// HasAcceptedRequest checks whether a user is an accepted collaborator
func (r *PostgresCollaborationRepository) HasAcceptedRequest(memorialID, requesterID uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.CollaborationRequest{}).
		Where("memorial_id = ? AND requester_id = ? AND status = ?", memorialID, requesterID, models.CollaborationAccepted).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// UpdateRequestStatus transitions a request out of pending. The WHERE clause
// is the compare-and-swap: a request that is already terminal matches no
// rows and the caller gets a conflict instead of a silent double-transition.
func (r *PostgresCollaborationRepository) UpdateRequestStatus(id uint, status string) error {
	res := r.db.Model(&models.CollaborationRequest{}).
		Where("id = ? AND status = ?", id, models.CollaborationPending).
		Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrConflict
	}
	return nil
}
