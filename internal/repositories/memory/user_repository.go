package memory

import (
	"context"
	"strings"
	"time"

	"ridepool/internal/models"
	"ridepool/internal/repositories/interfaces"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type userRepository struct {
	users *collection[models.User]
}

func NewUserRepository() interfaces.UserRepository {
	return &userRepository{users: newCollection[models.User]()}
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	user.ID = primitive.NewObjectID()
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt

	email := strings.ToLower(user.Email)
	taken := r.users.insertUnless(user.ID, user, func(u *models.User) bool {
		return strings.ToLower(u.Email) == email
	})
	if taken != nil {
		return interfaces.ErrDuplicateEmail
	}
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	return r.users.get(id)
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	email = strings.ToLower(email)
	found := r.users.find(func(u *models.User) bool { return strings.ToLower(u.Email) == email })
	if len(found) == 0 {
		return nil, interfaces.ErrNotFound
	}
	return found[0], nil
}

func (r *userRepository) Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error {
	_, err := r.users.modify(id, func(u *models.User) error {
		if err := applyUpdates(u, updates); err != nil {
			return err
		}
		u.UpdatedAt = time.Now()
		return nil
	})
	return err
}
