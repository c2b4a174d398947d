package impl

import (
	"context"
	"log/slog"
	"math"
	"strings"

	deliverycontext "storefront/internal/delivery/context"
	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/repository"
	"storefront/internal/domain/service"
	"storefront/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

type productService struct {
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
	media        service.MediaStorage
	logger       *slog.Logger
}

// ProductServiceParams holds dependencies for ProductService, injected by Fx.
type ProductServiceParams struct {
	fx.In

	ProductRepo  repository.ProductRepository
	CategoryRepo repository.CategoryRepository
	Media        service.MediaStorage
	Logger       *slog.Logger
}

func NewProductService(params ProductServiceParams) usecase.ProductUsecase {
	return &productService{
		productRepo:  params.ProductRepo,
		categoryRepo: params.CategoryRepo,
		media:        params.Media,
		logger:       params.Logger,
	}
}

func (srv *productService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// ListProducts returns the filtered catalog, newest first, with each product's category resolved.
func (srv *productService) ListProducts(ctx context.Context, filter entity.ProductFilter) ([]*usecase.ProductDetail, error) {
	filter.Search = strings.TrimSpace(filter.Search)
	if filter.MinPrice != nil && filter.MaxPrice != nil && *filter.MinPrice > *filter.MaxPrice {
		return nil, domainerrors.ErrValidationFailed.WithMessage("minPrice cannot be greater than maxPrice")
	}

	products, err := srv.productRepo.List(ctx, filter)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list products")
	}

	categories, err := srv.categoriesFor(ctx, products)
	if err != nil {
		return nil, err
	}

	details := make([]*usecase.ProductDetail, 0, len(products))
	for _, product := range products {
		details = append(details, &usecase.ProductDetail{
			Product:  product,
			Category: categories[product.CategoryID],
		})
	}

	return details, nil
}

func (srv *productService) GetProduct(ctx context.Context, id uuid.UUID) (*usecase.ProductDetail, error) {
	product, err := srv.findProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	return srv.detail(ctx, product)
}

func (srv *productService) CreateProduct(ctx context.Context, input usecase.ProductInput) (*usecase.ProductDetail, error) {
	if isBlank(input.Name) || isBlank(input.Description) || input.Price == nil || isBlank(input.CategoryID) {
		return nil, domainerrors.ErrMissingProductFields
	}
	if err := validatePrice(*input.Price); err != nil {
		return nil, err
	}

	stock := 0
	if input.Stock != nil {
		stock = *input.Stock
	}
	if stock < 0 {
		return nil, domainerrors.ErrInvalidProductField.WithMessage("Stock cannot be negative")
	}

	category, err := srv.resolveCategory(ctx, *input.CategoryID)
	if err != nil {
		return nil, err
	}

	image, err := srv.upload(ctx, input.Image)
	if err != nil {
		return nil, err
	}

	product := entity.NewProduct(*input.Name, *input.Description, *input.Price, category.ID, stock, image)
	if err := srv.productRepo.Create(ctx, product); err != nil {
		srv.release(ctx, image)

		return nil, errors.Wrap(err, "failed to create product")
	}

	srv.log(ctx).Info("Product created", slog.Any("productID", product.ID), slog.String("name", product.Name))

	return &usecase.ProductDetail{Product: product, Category: category}, nil
}

// UpdateProduct applies and writes only the fields present in input. A new image replaces the old one,
// which is removed from storage after the product is saved.
func (srv *productService) UpdateProduct(ctx context.Context, id uuid.UUID, input usecase.ProductInput) (*usecase.ProductDetail, error) {
	product, err := srv.findProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	var fields []repository.ProductField

	if input.Name != nil {
		if isBlank(input.Name) {
			return nil, domainerrors.ErrInvalidProductField.WithMessage("Product name cannot be empty")
		}
		product.Name = strings.TrimSpace(*input.Name)
		fields = append(fields, repository.ProductFieldName)
	}
	if input.Description != nil {
		if isBlank(input.Description) {
			return nil, domainerrors.ErrInvalidProductField.WithMessage("Product description cannot be empty")
		}
		product.Description = strings.TrimSpace(*input.Description)
		fields = append(fields, repository.ProductFieldDescription)
	}
	if input.Price != nil {
		if err := validatePrice(*input.Price); err != nil {
			return nil, err
		}
		product.Price = *input.Price
		fields = append(fields, repository.ProductFieldPrice)
	}
	if input.Stock != nil {
		if *input.Stock < 0 {
			return nil, domainerrors.ErrInvalidProductField.WithMessage("Stock cannot be negative")
		}
		product.Stock = *input.Stock
		fields = append(fields, repository.ProductFieldStock)
	}

	var category *entity.Category
	if input.CategoryID != nil {
		category, err = srv.resolveCategory(ctx, *input.CategoryID)
		if err != nil {
			return nil, err
		}
		product.CategoryID = category.ID
		fields = append(fields, repository.ProductFieldCategory)
	}

	previousImage := product.Image
	image, err := srv.upload(ctx, input.Image)
	if err != nil {
		return nil, err
	}
	if image != "" {
		product.Image = image
		fields = append(fields, repository.ProductFieldImage)
	}

	if err := srv.productRepo.Update(ctx, product, fields); err != nil {
		srv.release(ctx, image)
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, domainerrors.ErrProductNotFound
		}

		return nil, errors.Wrap(err, "failed to update product")
	}

	if image != "" && previousImage != image {
		srv.release(ctx, previousImage)
	}

	// Stock may have moved since the read above; return what is stored now.
	if product, err = srv.findProduct(ctx, id); err != nil {
		return nil, err
	}

	if category == nil {
		return srv.detail(ctx, product)
	}

	return &usecase.ProductDetail{Product: product, Category: category}, nil
}

func (srv *productService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	product, err := srv.findProduct(ctx, id)
	if err != nil {
		return err
	}

	if err := srv.productRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return domainerrors.ErrProductNotFound
		}

		return errors.Wrap(err, "failed to delete product")
	}

	srv.release(ctx, product.Image)
	srv.log(ctx).Info("Product deleted", slog.Any("productID", id))

	return nil
}

func (srv *productService) findProduct(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	product, err := srv.productRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, domainerrors.ErrProductNotFound
		}

		return nil, errors.Wrap(err, "failed to find product")
	}

	return product, nil
}

// detail attaches the product's category. A dangling category reference yields a nil category.
func (srv *productService) detail(ctx context.Context, product *entity.Product) (*usecase.ProductDetail, error) {
	category, err := srv.categoryRepo.FindByID(ctx, product.CategoryID)
	if err != nil && !errors.Is(err, repository.ErrCategoryNotFound) {
		return nil, errors.Wrap(err, "failed to find product category")
	}

	return &usecase.ProductDetail{Product: product, Category: category}, nil
}

func (srv *productService) categoriesFor(ctx context.Context, products []*entity.Product) (map[uuid.UUID]*entity.Category, error) {
	result := make(map[uuid.UUID]*entity.Category)
	if len(products) == 0 {
		return result, nil
	}

	seen := make(map[uuid.UUID]struct{}, len(products))
	ids := make([]uuid.UUID, 0, len(products))
	for _, product := range products {
		if _, ok := seen[product.CategoryID]; ok {
			continue
		}
		seen[product.CategoryID] = struct{}{}
		ids = append(ids, product.CategoryID)
	}

	categories, err := srv.categoryRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, errors.Wrap(err, "failed to find product categories")
	}
	for _, category := range categories {
		result[category.ID] = category
	}

	return result, nil
}

func (srv *productService) resolveCategory(ctx context.Context, raw string) (*entity.Category, error) {
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return nil, domainerrors.ErrInvalidProductField.WithMessage("Invalid category")
	}

	category, err := srv.categoryRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			return nil, domainerrors.ErrInvalidProductField.WithMessage("Invalid category")
		}

		return nil, errors.Wrap(err, "failed to find category")
	}

	return category, nil
}

// upload stores the image when one was sent and returns its public URL, or "" when none was sent.
func (srv *productService) upload(ctx context.Context, image *service.MediaUpload) (string, error) {
	if image == nil {
		return "", nil
	}

	url, err := srv.media.Upload(ctx, image)
	if err != nil {
		return "", err
	}

	return url, nil
}

// release removes an image this service stored. Failures are logged, not returned.
func (srv *productService) release(ctx context.Context, url string) {
	if url == "" || !srv.media.Owns(url) {
		return
	}

	if err := srv.media.Delete(ctx, url); err != nil {
		srv.log(ctx).Warn("Failed to delete product image", slog.String("url", url), slog.Any("error", err))
	}
}

func validatePrice(price float64) error {
	if math.IsNaN(price) || math.IsInf(price, 0) || price < 0 {
		return domainerrors.ErrInvalidProductField.WithMessage("Price must be a non-negative number")
	}

	return nil
}

func isBlank(value *string) bool {
	return value == nil || strings.TrimSpace(*value) == ""
}
