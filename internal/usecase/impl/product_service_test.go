package impl

import (
	"context"
	"testing"

	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/repository"
	"storefront/internal/domain/service"
	mockRepo "storefront/internal/mocks/repository"
	mockSvc "storefront/internal/mocks/service"
	"storefront/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type productServiceFixtures struct {
	service      usecase.ProductUsecase
	productRepo  *mockRepo.MockProductRepository
	categoryRepo *mockRepo.MockCategoryRepository
	media        *mockSvc.MockMediaStorage
}

func createTestProductService(t *testing.T) productServiceFixtures {
	productRepo := mockRepo.NewMockProductRepository(t)
	categoryRepo := mockRepo.NewMockCategoryRepository(t)
	media := mockSvc.NewMockMediaStorage(t)

	return productServiceFixtures{
		service: NewProductService(ProductServiceParams{
			ProductRepo:  productRepo,
			CategoryRepo: categoryRepo,
			Media:        media,
			Logger:       newDiscardLogger(),
		}),
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		media:        media,
	}
}

func ptr[T any](v T) *T {
	return &v
}

func TestProductService_CreateProduct_PlaceholderImage(t *testing.T) {
	fx := createTestProductService(t)
	ctx := context.Background()
	category := entity.NewCategory("Tools", "Hand tools")

	fx.categoryRepo.EXPECT().FindByID(ctx, category.ID).Return(category, nil)
	fx.productRepo.EXPECT().Create(ctx, mock.AnythingOfType("*entity.Product")).Return(nil)

	detail, err := fx.service.CreateProduct(ctx, usecase.ProductInput{
		Name:        ptr("Hammer"),
		Description: ptr("Steel"),
		Price:       ptr(12.5),
		CategoryID:  ptr(category.ID.String()),
	})

	require.NoError(t, err)
	assert.Equal(t, entity.PlaceholderImage, detail.Product.Image)
	assert.Equal(t, 0, detail.Product.Stock)
	assert.Equal(t, category, detail.Category)
}

func TestProductService_CreateProduct_WithImage(t *testing.T) {
	fx := createTestProductService(t)
	ctx := context.Background()
	category := entity.NewCategory("Tools", "Hand tools")
	upload := &service.MediaUpload{Filename: "hammer.png", Data: []byte("png")}

	fx.categoryRepo.EXPECT().FindByID(ctx, category.ID).Return(category, nil)
	fx.media.EXPECT().Upload(ctx, upload).Return("http://cdn/products/hammer.png", nil)
	fx.productRepo.EXPECT().Create(ctx, mock.AnythingOfType("*entity.Product")).Return(nil)

	detail, err := fx.service.CreateProduct(ctx, usecase.ProductInput{
		Name:        ptr("Hammer"),
		Description: ptr("Steel"),
		Price:       ptr(12.5),
		CategoryID:  ptr(category.ID.String()),
		Stock:       ptr(4),
		Image:       upload,
	})

	require.NoError(t, err)
	assert.Equal(t, "http://cdn/products/hammer.png", detail.Product.Image)
	assert.Equal(t, 4, detail.Product.Stock)
}

func TestProductService_CreateProduct_ReleasesImageOnFailure(t *testing.T) {
	fx := createTestProductService(t)
	ctx := context.Background()
	category := entity.NewCategory("Tools", "Hand tools")
	upload := &service.MediaUpload{Filename: "hammer.png", Data: []byte("png")}

	fx.categoryRepo.EXPECT().FindByID(ctx, category.ID).Return(category, nil)
	fx.media.EXPECT().Upload(ctx, upload).Return("http://cdn/products/hammer.png", nil)
	fx.productRepo.EXPECT().Create(ctx, mock.AnythingOfType("*entity.Product")).Return(errors.New("db down"))
	fx.media.EXPECT().Owns("http://cdn/products/hammer.png").Return(true)
	fx.media.EXPECT().Delete(ctx, "http://cdn/products/hammer.png").Return(nil)

	_, err := fx.service.CreateProduct(ctx, usecase.ProductInput{
		Name:        ptr("Hammer"),
		Description: ptr("Steel"),
		Price:       ptr(12.5),
		CategoryID:  ptr(category.ID.String()),
		Image:       upload,
	})

	require.Error(t, err)
}

func TestProductService_CreateProduct_Validation(t *testing.T) {
	categoryID := uuid.New()

	tests := []struct {
		name  string
		input usecase.ProductInput
		want  error
	}{
		{
			name:  "missing price",
			input: usecase.ProductInput{Name: ptr("A"), Description: ptr("B"), CategoryID: ptr(categoryID.String())},
			want:  domainerrors.ErrMissingProductFields,
		},
		{
			name:  "negative price",
			input: usecase.ProductInput{Name: ptr("A"), Description: ptr("B"), Price: ptr(-1.0), CategoryID: ptr(categoryID.String())},
			want:  domainerrors.ErrInvalidProductField,
		},
		{
			name:  "negative stock",
			input: usecase.ProductInput{Name: ptr("A"), Description: ptr("B"), Price: ptr(1.0), CategoryID: ptr(categoryID.String()), Stock: ptr(-2)},
			want:  domainerrors.ErrInvalidProductField,
		},
		{
			name:  "malformed category",
			input: usecase.ProductInput{Name: ptr("A"), Description: ptr("B"), Price: ptr(1.0), CategoryID: ptr("abc")},
			want:  domainerrors.ErrInvalidProductField,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fx := createTestProductService(t)

			_, err := fx.service.CreateProduct(context.Background(), tt.input)

			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}
}

func TestProductService_CreateProduct_UnknownCategory(t *testing.T) {
	fx := createTestProductService(t)
	ctx := context.Background()
	categoryID := uuid.New()

	fx.categoryRepo.EXPECT().FindByID(ctx, categoryID).Return(nil, repository.ErrCategoryNotFound)

	_, err := fx.service.CreateProduct(ctx, usecase.ProductInput{
		Name:        ptr("Hammer"),
		Description: ptr("Steel"),
		Price:       ptr(1.0),
		CategoryID:  ptr(categoryID.String()),
	})

	assert.True(t, errors.Is(err, domainerrors.ErrInvalidProductField))
}

func TestProductService_UpdateProduct_ReplacesImage(t *testing.T) {
	fx := createTestProductService(t)
	ctx := context.Background()
	category := entity.NewCategory("Tools", "Hand tools")
	product := entity.NewProduct("Hammer", "Steel", 10, category.ID, 2, "http://cdn/products/old.png")
	upload := &service.MediaUpload{Filename: "new.png", Data: []byte("png")}

	fx.productRepo.EXPECT().FindByID(ctx, product.ID).Return(product, nil)
	fx.media.EXPECT().Upload(ctx, upload).Return("http://cdn/products/new.png", nil)
	fx.productRepo.EXPECT().Update(ctx, product, []repository.ProductField{
		repository.ProductFieldPrice,
		repository.ProductFieldImage,
	}).Return(nil)
	fx.media.EXPECT().Owns("http://cdn/products/old.png").Return(true)
	fx.media.EXPECT().Delete(ctx, "http://cdn/products/old.png").Return(nil)
	fx.categoryRepo.EXPECT().FindByID(ctx, category.ID).Return(category, nil)

	detail, err := fx.service.UpdateProduct(ctx, product.ID, usecase.ProductInput{
		Price: ptr(15.0),
		Image: upload,
	})

	require.NoError(t, err)
	assert.Equal(t, "http://cdn/products/new.png", detail.Product.Image)
	assert.InDelta(t, 15.0, detail.Product.Price, 0.0001)
	assert.Equal(t, "Hammer", detail.Product.Name)
}

func TestProductService_UpdateProduct_NotFound(t *testing.T) {
	fx := createTestProductService(t)
	ctx := context.Background()
	id := uuid.New()

	fx.productRepo.EXPECT().FindByID(ctx, id).Return(nil, repository.ErrProductNotFound)

	_, err := fx.service.UpdateProduct(ctx, id, usecase.ProductInput{Name: ptr("X")})

	assert.True(t, errors.Is(err, domainerrors.ErrProductNotFound))
}

func TestProductService_DeleteProduct_KeepsForeignImage(t *testing.T) {
	fx := createTestProductService(t)
	ctx := context.Background()
	product := entity.NewProduct("Hammer", "Steel", 10, uuid.New(), 2, "")

	fx.productRepo.EXPECT().FindByID(ctx, product.ID).Return(product, nil)
	fx.productRepo.EXPECT().Delete(ctx, product.ID).Return(nil)
	fx.media.EXPECT().Owns(entity.PlaceholderImage).Return(false)

	require.NoError(t, fx.service.DeleteProduct(ctx, product.ID))
}

func TestProductService_ListProducts_ResolvesCategories(t *testing.T) {
	fx := createTestProductService(t)
	ctx := context.Background()
	tools := entity.NewCategory("Tools", "Hand tools")
	garden := entity.NewCategory("Garden", "Outdoor")
	products := []*entity.Product{
		entity.NewProduct("Hammer", "Steel", 10, tools.ID, 2, ""),
		entity.NewProduct("Saw", "Sharp", 20, tools.ID, 1, ""),
		entity.NewProduct("Rake", "Wood", 15, garden.ID, 5, ""),
	}
	filter := entity.ProductFilter{Search: "a"}

	fx.productRepo.EXPECT().List(ctx, filter).Return(products, nil)
	fx.categoryRepo.EXPECT().FindByIDs(ctx, []uuid.UUID{tools.ID, garden.ID}).Return([]*entity.Category{tools, garden}, nil)

	details, err := fx.service.ListProducts(ctx, entity.ProductFilter{Search: " a "})

	require.NoError(t, err)
	require.Len(t, details, 3)
	assert.Equal(t, tools, details[0].Category)
	assert.Equal(t, garden, details[2].Category)
}

func TestProductService_ListProducts_InvalidRange(t *testing.T) {
	fx := createTestProductService(t)

	_, err := fx.service.ListProducts(context.Background(), entity.ProductFilter{MinPrice: ptr(20.0), MaxPrice: ptr(10.0)})

	assert.True(t, errors.Is(err, domainerrors.ErrValidationFailed))
}
