package mongostore

import (
	"context"
	"time"

	"storefront/internal/domain/entity"
	"storefront/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

type userDocument struct {
	ID           string    `bson:"_id"`
	Name         string    `bson:"name"`
	Email        string    `bson:"email"`
	PasswordHash string    `bson:"password_hash"`
	Role         string    `bson:"role"`
	CreatedAt    time.Time `bson:"created_at"`
	UpdatedAt    time.Time `bson:"updated_at"`
}

type userRepository struct {
	col *mongo.Collection
}

// NewUserRepository is the constructor for userRepository.
func NewUserRepository(store *Store) repository.UserRepository {
	return &userRepository{col: store.col(ColUsers)}
}

func (repo *userRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	doc, err := findOne[userDocument](ctx, repo.col, idFilter(id))
	if err != nil {
		return nil, errors.Wrap(wrapError(err, repository.ErrUserNotFound, nil), "failed to find user by ID")
	}

	return toUserDomain(doc), nil
}

func (repo *userRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	doc, err := findOne[userDocument](ctx, repo.col, bson.D{{Key: "email", Value: entity.NormalizeEmail(email)}})
	if err != nil {
		return nil, errors.Wrap(wrapError(err, repository.ErrUserNotFound, nil), "failed to find user by email")
	}

	return toUserDomain(doc), nil
}

func (repo *userRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*entity.User, error) {
	if len(ids) == 0 {
		return []*entity.User{}, nil
	}

	docs, err := findMany[userDocument](ctx, repo.col, idsFilter(ids))
	if err != nil {
		return nil, errors.Wrap(err, "failed to find users by IDs")
	}

	users := make([]*entity.User, 0, len(docs))
	for _, doc := range docs {
		users = append(users, toUserDomain(doc))
	}

	return users, nil
}

func (repo *userRepository) Create(ctx context.Context, user *entity.User) error {
	ensureID(&user.ID)
	now := time.Now().UTC()
	user.CreatedAt, user.UpdatedAt = now, now

	if _, err := repo.col.InsertOne(ctx, fromUserDomain(user)); err != nil {
		return errors.Wrap(wrapError(err, nil, repository.ErrDuplicateEmail), "failed to create user")
	}

	return nil
}

func (repo *userRepository) Update(ctx context.Context, user *entity.User) error {
	user.UpdatedAt = time.Now().UTC()
	res, err := repo.col.UpdateOne(ctx, idFilter(user.ID), bson.D{{Key: "$set", Value: bson.D{
		{Key: "name", Value: user.Name},
		{Key: "email", Value: user.Email},
		{Key: "password_hash", Value: user.PasswordHash},
		{Key: "role", Value: user.Role.String()},
		{Key: "updated_at", Value: user.UpdatedAt},
	}}})
	if err != nil {
		return errors.Wrap(wrapError(err, nil, repository.ErrDuplicateEmail), "failed to update user")
	}
	if res.MatchedCount == 0 {
		return repository.ErrUserNotFound
	}

	return nil
}

// --- Mapper Functions ---

func toUserDomain(doc *userDocument) *entity.User {
	return &entity.User{
		ID:           parseID(doc.ID),
		Name:         doc.Name,
		Email:        doc.Email,
		PasswordHash: doc.PasswordHash,
		Role:         entity.Role(doc.Role),
		CreatedAt:    doc.CreatedAt,
		UpdatedAt:    doc.UpdatedAt,
	}
}

func fromUserDomain(user *entity.User) *userDocument {
	return &userDocument{
		ID:           user.ID.String(),
		Name:         user.Name,
		Email:        user.Email,
		PasswordHash: user.PasswordHash,
		Role:         user.Role.String(),
		CreatedAt:    user.CreatedAt,
		UpdatedAt:    user.UpdatedAt,
	}
}
