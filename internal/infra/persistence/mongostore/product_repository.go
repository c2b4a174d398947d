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

type productDocument struct {
	ID          string    `bson:"_id"`
	Name        string    `bson:"name"`
	Description string    `bson:"description"`
	Price       float64   `bson:"price"`
	Image       string    `bson:"image"`
	CategoryID  string    `bson:"category_id"`
	Stock       int       `bson:"stock"`
	CreatedAt   time.Time `bson:"created_at"`
	UpdatedAt   time.Time `bson:"updated_at"`
}

type productRepository struct {
	col *mongo.Collection
}

// NewProductRepository is the constructor for productRepository.
func NewProductRepository(store *Store) repository.ProductRepository {
	return &productRepository{col: store.col(ColProducts)}
}

// List uses the text index on name and description for the search term.
func (repo *productRepository) List(ctx context.Context, filter entity.ProductFilter) ([]*entity.Product, error) {
	query := bson.D{}
	if filter.CategoryID != nil {
		query = append(query, bson.E{Key: "category_id", Value: filter.CategoryID.String()})
	}

	priceRange := bson.D{}
	if filter.MinPrice != nil {
		priceRange = append(priceRange, bson.E{Key: "$gte", Value: *filter.MinPrice})
	}
	if filter.MaxPrice != nil {
		priceRange = append(priceRange, bson.E{Key: "$lte", Value: *filter.MaxPrice})
	}
	if len(priceRange) > 0 {
		query = append(query, bson.E{Key: "price", Value: priceRange})
	}

	if search := strings.TrimSpace(filter.Search); search != "" {
		query = append(query, bson.E{Key: "$text", Value: bson.D{{Key: "$search", Value: search}}})
	}

	docs, err := findMany[productDocument](ctx, repo.col, query, newestFirst())
	if err != nil {
		return nil, errors.Wrap(err, "failed to list products")
	}

	return toProductDomainList(docs), nil
}

func (repo *productRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	doc, err := findOne[productDocument](ctx, repo.col, idFilter(id))
	if err != nil {
		return nil, errors.Wrap(wrapError(err, repository.ErrProductNotFound, nil), "failed to find product by ID")
	}

	return toProductDomain(doc), nil
}

func (repo *productRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*entity.Product, error) {
	if len(ids) == 0 {
		return []*entity.Product{}, nil
	}

	docs, err := findMany[productDocument](ctx, repo.col, idsFilter(ids))
	if err != nil {
		return nil, errors.Wrap(err, "failed to find products by IDs")
	}

	return toProductDomainList(docs), nil
}

func (repo *productRepository) ListByCategory(ctx context.Context, categoryID uuid.UUID) ([]*entity.Product, error) {
	docs, err := findMany[productDocument](ctx, repo.col, bson.D{{Key: "category_id", Value: categoryID.String()}}, newestFirst())
	if err != nil {
		return nil, errors.Wrap(err, "failed to list products by category")
	}

	return toProductDomainList(docs), nil
}

func (repo *productRepository) CountByCategory(ctx context.Context, categoryID uuid.UUID) (int64, error) {
	count, err := repo.col.CountDocuments(ctx, bson.D{{Key: "category_id", Value: categoryID.String()}})
	if err != nil {
		return 0, errors.Wrap(err, "failed to count products by category")
	}

	return count, nil
}

func (repo *productRepository) Create(ctx context.Context, product *entity.Product) error {
	ensureID(&product.ID)
	now := time.Now().UTC()
	product.CreatedAt, product.UpdatedAt = now, now

	if _, err := repo.col.InsertOne(ctx, fromProductDomain(product)); err != nil {
		return errors.Wrap(err, "failed to create product")
	}

	return nil
}

func (repo *productRepository) Update(ctx context.Context, product *entity.Product, fields []repository.ProductField) error {
	product.UpdatedAt = time.Now().UTC()

	set := make(bson.D, 0, len(fields)+1)
	for _, field := range fields {
		set = append(set, bson.E{Key: string(field), Value: productFieldValue(product, field)})
	}
	set = append(set, bson.E{Key: "updated_at", Value: product.UpdatedAt})

	res, err := repo.col.UpdateOne(ctx, idFilter(product.ID), bson.D{{Key: "$set", Value: set}})
	if err != nil {
		return errors.Wrap(err, "failed to update product")
	}
	if res.MatchedCount == 0 {
		return repository.ErrProductNotFound
	}

	return nil
}

func productFieldValue(product *entity.Product, field repository.ProductField) any {
	switch field {
	case repository.ProductFieldName:
		return product.Name
	case repository.ProductFieldDescription:
		return product.Description
	case repository.ProductFieldPrice:
		return product.Price
	case repository.ProductFieldImage:
		return product.Image
	case repository.ProductFieldCategory:
		return product.CategoryID.String()
	case repository.ProductFieldStock:
		return product.Stock
	default:
		return nil
	}
}

func (repo *productRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := repo.col.DeleteOne(ctx, idFilter(id))
	if err != nil {
		return errors.Wrap(err, "failed to delete product")
	}
	if res.DeletedCount == 0 {
		return repository.ErrProductNotFound
	}

	return nil
}

// DecrementStock matches only when enough stock remains, so the $inc can never go below zero.
func (repo *productRepository) DecrementStock(ctx context.Context, id uuid.UUID, quantity int) error {
	filter := bson.D{
		{Key: "_id", Value: id.String()},
		{Key: "stock", Value: bson.D{{Key: "$gte", Value: quantity}}},
	}
	update := bson.D{
		{Key: "$inc", Value: bson.D{{Key: "stock", Value: -quantity}}},
		{Key: "$set", Value: bson.D{{Key: "updated_at", Value: time.Now().UTC()}}},
	}

	res, err := repo.col.UpdateOne(ctx, filter, update)
	if err != nil {
		return errors.Wrap(err, "failed to decrement product stock")
	}
	if res.MatchedCount == 0 {
		if _, err := repo.FindByID(ctx, id); err != nil {
			return err
		}

		return repository.ErrInsufficientStock
	}

	return nil
}

// --- Mapper Functions ---

func toProductDomain(doc *productDocument) *entity.Product {
	return &entity.Product{
		ID:          parseID(doc.ID),
		Name:        doc.Name,
		Description: doc.Description,
		Price:       doc.Price,
		Image:       doc.Image,
		CategoryID:  parseID(doc.CategoryID),
		Stock:       doc.Stock,
		CreatedAt:   doc.CreatedAt,
		UpdatedAt:   doc.UpdatedAt,
	}
}

func toProductDomainList(docs []*productDocument) []*entity.Product {
	products := make([]*entity.Product, 0, len(docs))
	for _, doc := range docs {
		products = append(products, toProductDomain(doc))
	}

	return products
}

func fromProductDomain(product *entity.Product) *productDocument {
	return &productDocument{
		ID:          product.ID.String(),
		Name:        product.Name,
		Description: product.Description,
		Price:       product.Price,
		Image:       product.Image,
		CategoryID:  product.CategoryID.String(),
		Stock:       product.Stock,
		CreatedAt:   product.CreatedAt,
		UpdatedAt:   product.UpdatedAt,
	}
}
