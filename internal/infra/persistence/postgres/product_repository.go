package postgres

import (
	"context"
	"strings"
	"time"

	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/repository"
	"storefront/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// productSearchExpr must stay identical to the expression indexed by the migrator.
const productSearchExpr = "to_tsvector('simple', name || ' ' || description)"

type productRepository struct {
	db *gorm.DB
}

// NewProductRepository is the constructor for productRepository.
func NewProductRepository(db *gorm.DB) repository.ProductRepository {
	return &productRepository{db: db}
}

// List applies every set field of filter. On PostgreSQL the search term goes through the full-text index,
// other dialects fall back to a case-insensitive substring match.
func (repo *productRepository) List(ctx context.Context, filter entity.ProductFilter) ([]*entity.Product, error) {
	query := repo.db.WithContext(ctx).Model(&model.ProductModel{})

	if filter.CategoryID != nil {
		query = query.Where("category_id = ?", *filter.CategoryID)
	}
	if filter.MinPrice != nil {
		query = query.Where("price >= ?", *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		query = query.Where("price <= ?", *filter.MaxPrice)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		if repo.db.Dialector.Name() == "postgres" {
			query = query.Where(productSearchExpr+" @@ plainto_tsquery('simple', ?)", search)
		} else {
			pattern := "%" + strings.ToLower(search) + "%"
			query = query.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", pattern, pattern)
		}
	}

	var productModels []*model.ProductModel
	if err := query.
		Order("created_at DESC").
		Order("id DESC").
		Find(&productModels).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list products")
	}

	return toProductDomainList(productModels), nil
}

func (repo *productRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	var productM model.ProductModel
	if err := repo.db.WithContext(ctx).
		Where("id = ?", id).
		First(&productM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrProductNotFound
		}

		return nil, errors.Wrap(err, "failed to find product by ID")
	}

	return toProductDomain(&productM), nil
}

func (repo *productRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*entity.Product, error) {
	if len(ids) == 0 {
		return []*entity.Product{}, nil
	}

	var productModels []*model.ProductModel
	if err := repo.db.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&productModels).Error; err != nil {
		return nil, errors.Wrap(err, "failed to find products by IDs")
	}

	return toProductDomainList(productModels), nil
}

func (repo *productRepository) ListByCategory(ctx context.Context, categoryID uuid.UUID) ([]*entity.Product, error) {
	var productModels []*model.ProductModel
	if err := repo.db.WithContext(ctx).
		Where("category_id = ?", categoryID).
		Order("created_at DESC").
		Order("id DESC").
		Find(&productModels).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list products by category")
	}

	return toProductDomainList(productModels), nil
}

func (repo *productRepository) CountByCategory(ctx context.Context, categoryID uuid.UUID) (int64, error) {
	var count int64
	if err := repo.db.WithContext(ctx).
		Model(&model.ProductModel{}).
		Where("category_id = ?", categoryID).
		Count(&count).Error; err != nil {
		return 0, errors.Wrap(err, "failed to count products by category")
	}

	return count, nil
}

func (repo *productRepository) Create(ctx context.Context, product *entity.Product) error {
	productM := fromProductDomain(product)

	if err := repo.db.WithContext(ctx).Create(productM).Error; err != nil {
		if isCheckConstraintViolation(err) {
			return errors.Wrap(err, "product violates price or stock constraint")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create product")
	}

	product.ID = productM.ID
	product.CreatedAt = productM.CreatedAt
	product.UpdatedAt = productM.UpdatedAt

	return nil
}

func (repo *productRepository) Update(ctx context.Context, product *entity.Product, fields []repository.ProductField) error {
	columns := make(map[string]any, len(fields)+1)
	for _, field := range fields {
		columns[string(field)] = productColumnValue(product, field)
	}
	columns["updated_at"] = time.Now()

	result := repo.db.WithContext(ctx).
		Model(&model.ProductModel{}).
		Where("id = ?", product.ID).
		UpdateColumns(columns)

	if result.Error != nil {
		if isCheckConstraintViolation(result.Error) {
			return errors.Wrap(result.Error, "product violates price or stock constraint")
		}

		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to update product")
	}

	if result.RowsAffected == 0 {
		return repository.ErrProductNotFound
	}

	return nil
}

func (repo *productRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := repo.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&model.ProductModel{})

	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to delete product")
	}

	if result.RowsAffected == 0 {
		return repository.ErrProductNotFound
	}

	return nil
}

// DecrementStock is a single conditional UPDATE, so concurrent orders can never drive stock below zero.
func (repo *productRepository) DecrementStock(ctx context.Context, id uuid.UUID, quantity int) error {
	result := repo.db.WithContext(ctx).
		Model(&model.ProductModel{}).
		Where("id = ? AND stock >= ?", id, quantity).
		UpdateColumns(map[string]any{
			"stock":      gorm.Expr("stock - ?", quantity),
			"updated_at": time.Now(),
		})

	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to decrement product stock")
	}

	if result.RowsAffected == 0 {
		if _, err := repo.FindByID(ctx, id); err != nil {
			return err
		}

		return repository.ErrInsufficientStock
	}

	return nil
}

// --- Mapper Functions ---

func productColumnValue(product *entity.Product, field repository.ProductField) any {
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
		return product.CategoryID
	case repository.ProductFieldStock:
		return product.Stock
	default:
		return nil
	}
}

func toProductDomain(data *model.ProductModel) *entity.Product {
	if data == nil {
		return nil
	}

	return &entity.Product{
		ID:          data.ID,
		Name:        data.Name,
		Description: data.Description,
		Price:       data.Price,
		Image:       data.Image,
		CategoryID:  data.CategoryID,
		Stock:       data.Stock,
		CreatedAt:   data.CreatedAt,
		UpdatedAt:   data.UpdatedAt,
	}
}

func toProductDomainList(data []*model.ProductModel) []*entity.Product {
	products := make([]*entity.Product, 0, len(data))
	for _, productM := range data {
		products = append(products, toProductDomain(productM))
	}

	return products
}

func fromProductDomain(data *entity.Product) *model.ProductModel {
	if data == nil {
		return nil
	}

	return &model.ProductModel{
		ID:          data.ID,
		Name:        data.Name,
		Description: data.Description,
		Price:       data.Price,
		Image:       data.Image,
		CategoryID:  data.CategoryID,
		Stock:       data.Stock,
		CreatedAt:   data.CreatedAt,
		UpdatedAt:   data.UpdatedAt,
	}
}
