package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/rhamilton21/rememora-web/internal/apperrors"
	"github.com/rhamilton21/rememora-web/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MemorialItemRepository defines the interface for memorial item (contribution)
// data operations
type MemorialItemRepository interface {
	CreateItem(ctx context.Context, item *models.MemorialItem) error
	GetItemByID(ctx context.Context, id string) (*models.MemorialItem, error)
	GetApprovedItems(ctx context.Context, memorialID uint) ([]models.MemorialItem, error)
	GetItemsByStatus(ctx context.Context, memorialID uint, status string) ([]models.MemorialItem, error)
	GetStatusCounts(ctx context.Context, memorialID uint) (*models.ItemStatusCounts, error)
	UpdateItemStatus(ctx context.Context, id, status string) error
}

// MongoMemorialItemRepository implements MemorialItemRepository for MongoDB
type MongoMemorialItemRepository struct {
	collection *mongo.Collection
}

// NewMongoMemorialItemRepository creates a new MongoMemorialItemRepository
func NewMongoMemorialItemRepository(db *mongo.Database) *MongoMemorialItemRepository {
	return &MongoMemorialItemRepository{collection: db.Collection("memorial_items")}
}

// CreateItem inserts a new contribution. Items always start pending.
func (r *MongoMemorialItemRepository) CreateItem(ctx context.Context, item *models.MemorialItem) error {
	item.ID = primitive.NewObjectID()
	item.Status = models.ItemStatusPending
	item.CreatedAt = time.Now()
	item.UpdatedAt = time.Now()
	_, err := r.collection.InsertOne(ctx, item)
	return err
}

// GetItemByID retrieves an item by ID from MongoDB
func (r *MongoMemorialItemRepository) GetItemByID(ctx context.Context, id string) (*models.MemorialItem, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid item ID format: %w", apperrors.ErrNotFound)
	}

	var item models.MemorialItem
	err = r.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&item)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &item, nil
}

// GetApprovedItems retrieves the publicly visible items of a memorial,
// newest first
func (r *MongoMemorialItemRepository) GetApprovedItems(ctx context.Context, memorialID uint) ([]models.MemorialItem, error) {
	return r.findItems(ctx, bson.M{"memorial_id": memorialID, "status": models.ItemStatusApproved})
}

// GetItemsByStatus retrieves a memorial's items filtered by status; an empty
// status returns every item. The filter here matches the one GetStatusCounts
// uses so the moderation tabs and their counters never disagree.
func (r *MongoMemorialItemRepository) GetItemsByStatus(ctx context.Context, memorialID uint, status string) ([]models.MemorialItem, error) {
	filter := bson.M{"memorial_id": memorialID}
	if status != "" {
		filter["status"] = status
	}
	return r.findItems(ctx, filter)
}

func (r *MongoMemorialItemRepository) findItems(ctx context.Context, filter bson.M) ([]models.MemorialItem, error) {
	var items []models.MemorialItem
	findOptions := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// GetStatusCounts retrieves per-status item counts for a memorial in one
// aggregation pass
func (r *MongoMemorialItemRepository) GetStatusCounts(ctx context.Context, memorialID uint) (*models.ItemStatusCounts, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"memorial_id": memorialID}}},
		{{Key: "$group", Value: bson.M{"_id": "$status", "count": bson.M{"$sum": 1}}}},
	}
	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Status string `bson:"_id"`
		Count  int64  `bson:"count"`
	}
	if err = cursor.All(ctx, &rows); err != nil {
		return nil, err
	}

	counts := &models.ItemStatusCounts{}
	for _, row := range rows {
		switch row.Status {
		case models.ItemStatusPending:
			counts.Pending = row.Count
		case models.ItemStatusApproved:
			counts.Approved = row.Count
		case models.ItemStatusRejected:
			counts.Rejected = row.Count
		}
		counts.Total += row.Count
	}
	return counts, nil
}

// UpdateItemStatus transitions an item out of pending. The filter doubles as
// a compare-and-swap: only a still-pending item matches, so two moderators
// racing on the same item cannot both win.
func (r *MongoMemorialItemRepository) UpdateItemStatus(ctx context.Context, id, status string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid item ID format: %w", apperrors.ErrNotFound)
	}

	res, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": objID, "status": models.ItemStatusPending},
		bson.M{"$set": bson.M{"status": status, "updated_at": time.Now()}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		// Distinguish a missing item from one that is already terminal.
		if err := r.collection.FindOne(ctx, bson.M{"_id": objID}).Err(); err == mongo.ErrNoDocuments {
			return apperrors.ErrNotFound
		}
		return apperrors.ErrConflict
	}
	return nil
}
