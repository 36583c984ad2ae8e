package access

import (
	"github.com/rhamilton21/rememora-web/internal/models"
	"github.com/rhamilton21/rememora-web/internal/repositories"
)

// Tier is a user's permission level on a memorial. Tiers are ordered:
// a higher tier implies every capability of the lower ones.
type Tier int

const (
	TierNone Tier = iota
	TierViewer
	TierContributor
	TierOwner
)

func (t Tier) String() string {
	switch t {
	case TierOwner:
		return "owner"
	case TierContributor:
		return "contributor"
	case TierViewer:
		return "viewer"
	default:
		return "none"
	}
}

// Engine resolves permission tiers and capability checks for memorials.
// Decisions are never cached: every request resolves against the store.
type Engine struct {
	collaborationRepository repositories.CollaborationRepository
}

// NewEngine creates a new access Engine
func NewEngine(collabRepo repositories.CollaborationRepository) *Engine {
	return &Engine{collaborationRepository: collabRepo}
}

// Resolve determines the tier of a user on a memorial. userID 0 means
// unauthenticated.
func (e *Engine) Resolve(userID uint, memorial *models.Memorial) (Tier, error) {
	if userID != 0 && userID == memorial.OwnerID {
		return TierOwner, nil
	}
	if userID != 0 {
		accepted, err := e.collaborationRepository.HasAcceptedRequest(memorial.ID, userID)
		if err != nil {
			return TierNone, err
		}
		if accepted {
			return TierContributor, nil
		}
	}
	if memorial.Visibility == models.VisibilityPublic {
		return TierViewer, nil
	}
	return TierNone, nil
}

// CanView reports whether the tier may read the memorial and its approved items
func (e *Engine) CanView(tier Tier) bool {
	return tier >= TierViewer
}

// CanContribute reports whether the tier may submit items, comments and reactions
func (e *Engine) CanContribute(tier Tier) bool {
	return tier >= TierContributor
}

// CanModerate reports whether the tier may approve/reject items and
// collaboration requests, and edit the memorial
func (e *Engine) CanModerate(tier Tier) bool {
	return tier >= TierOwner
}
