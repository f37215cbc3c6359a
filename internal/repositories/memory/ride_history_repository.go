package memory

import (
	"context"
	"sort"
	"time"

	"ridepool/internal/models"
	"ridepool/internal/repositories/interfaces"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type rideHistoryRepository struct {
	entries *collection[models.RideHistory]
}

func NewRideHistoryRepository() interfaces.RideHistoryRepository {
	return &rideHistoryRepository{entries: newCollection[models.RideHistory]()}
}

func (r *rideHistoryRepository) Create(ctx context.Context, entry *models.RideHistory) error {
	entry.ID = primitive.NewObjectID()
	entry.CreatedAt = time.Now()
	entry.UpdatedAt = entry.CreatedAt
	if entry.Status == "" {
		entry.Status = models.RideHistoryStatusActive
	}
	r.entries.insert(entry.ID, entry)
	return nil
}

func (r *rideHistoryRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.RideHistory, error) {
	return r.entries.get(id)
}

// GetByUser returns the user's history, newest first.
func (r *rideHistoryRepository) GetByUser(ctx context.Context, userID primitive.ObjectID) ([]*models.RideHistory, error) {
	entries := r.entries.find(func(h *models.RideHistory) bool { return h.UserID == userID })
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].CreatedAt.After(entries[j].CreatedAt) })
	return entries, nil
}

func (r *rideHistoryRepository) Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error {
	_, err := r.entries.modify(id, func(h *models.RideHistory) error {
		if err := applyUpdates(h, updates); err != nil {
			return err
		}
		h.UpdatedAt = time.Now()
		return nil
	})
	return err
}
