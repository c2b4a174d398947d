package mongostore

import (
	"context"
	"strings"
	"time"

	"storefront/internal/domain/entity"
	"storefront/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

type categoryDocument struct {
	ID          string    `bson:"_id"`
	Name        string    `bson:"name"`
	Description string    `bson:"description"`
	CreatedAt   time.Time `bson:"created_at"`
	UpdatedAt   time.Time `bson:"updated_at"`
}

type categoryRepository struct {
	col *mongo.Collection
}

// NewCategoryRepository is the constructor for categoryRepository.
func NewCategoryRepository(store *Store) repository.CategoryRepository {
	return &categoryRepository{col: store.col(ColCategories)}
}

func (repo *categoryRepository) List(ctx context.Context) ([]*entity.Category, error) {
	docs, err := findMany[categoryDocument](ctx, repo.col, bson.D{}, newestFirst())
	if err != nil {
		return nil, errors.Wrap(err, "failed to list categories")
	}

	return toCategoryDomainList(docs), nil
}

func (repo *categoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Category, error) {
	doc, err := findOne[categoryDocument](ctx, repo.col, idFilter(id))
	if err != nil {
		return nil, errors.Wrap(wrapError(err, repository.ErrCategoryNotFound, nil), "failed to find category by ID")
	}

	return toCategoryDomain(doc), nil
}

func (repo *categoryRepository) FindByName(ctx context.Context, name string) (*entity.Category, error) {
	doc, err := findOne[categoryDocument](ctx, repo.col, bson.D{{Key: "name", Value: strings.TrimSpace(name)}})
	if err != nil {
		return nil, errors.Wrap(wrapError(err, repository.ErrCategoryNotFound, nil), "failed to find category by name")
	}

	return toCategoryDomain(doc), nil
}

func (repo *categoryRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*entity.Category, error) {
	if len(ids) == 0 {
		return []*entity.Category{}, nil
	}

	docs, err := findMany[categoryDocument](ctx, repo.col, idsFilter(ids))
	if err != nil {
		return nil, errors.Wrap(err, "failed to find categories by IDs")
	}

	return toCategoryDomainList(docs), nil
}

func (repo *categoryRepository) Create(ctx context.Context, category *entity.Category) error {
	ensureID(&category.ID)
	now := time.Now().UTC()
	category.CreatedAt, category.UpdatedAt = now, now

	if _, err := repo.col.InsertOne(ctx, fromCategoryDomain(category)); err != nil {
		return errors.Wrap(wrapError(err, nil, repository.ErrDuplicateCategory), "failed to create category")
	}

	return nil
}

func (repo *categoryRepository) Update(ctx context.Context, category *entity.Category) error {
	category.UpdatedAt = time.Now().UTC()
	res, err := repo.col.UpdateOne(ctx, idFilter(category.ID), bson.D{{Key: "$set", Value: bson.D{
		{Key: "name", Value: category.Name},
		{Key: "description", Value: category.Description},
		{Key: "updated_at", Value: category.UpdatedAt},
	}}})
	if err != nil {
		return errors.Wrap(wrapError(err, nil, repository.ErrDuplicateCategory), "failed to update category")
	}
	if res.MatchedCount == 0 {
		return repository.ErrCategoryNotFound
	}

	return nil
}

func (repo *categoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := repo.col.DeleteOne(ctx, idFilter(id))
	if err != nil {
		return errors.Wrap(err, "failed to delete category")
	}
	if res.DeletedCount == 0 {
		return repository.ErrCategoryNotFound
	}

	return nil
}

// --- Mapper Functions ---

func toCategoryDomain(doc *categoryDocument) *entity.Category {
	return &entity.Category{
		ID:          parseID(doc.ID),
		Name:        doc.Name,
		Description: doc.Description,
		CreatedAt:   doc.CreatedAt,
		UpdatedAt:   doc.UpdatedAt,
	}
}

func toCategoryDomainList(docs []*categoryDocument) []*entity.Category {
	categories := make([]*entity.Category, 0, len(docs))
	for _, doc := range docs {
		categories = append(categories, toCategoryDomain(doc))
	}

	return categories
}

func fromCategoryDomain(category *entity.Category) *categoryDocument {
	return &categoryDocument{
		ID:          category.ID.String(),
		Name:        category.Name,
		Description: category.Description,
		CreatedAt:   category.CreatedAt,
		UpdatedAt:   category.UpdatedAt,
	}
}
