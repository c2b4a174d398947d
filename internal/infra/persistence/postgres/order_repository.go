package postgres

import (
	"context"

	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/repository"
	"storefront/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type orderRepository struct {
	db *gorm.DB
}

// NewOrderRepository is the constructor for orderRepository.
func NewOrderRepository(db *gorm.DB) repository.OrderRepository {
	return &orderRepository{db: db}
}

// Create inserts the order row and its items in one statement batch. Call it inside
// TransactionManager.Execute together with the stock updates it depends on.
func (repo *orderRepository) Create(ctx context.Context, order *entity.Order) error {
	orderM := fromOrderDomain(order)

	if err := repo.db.WithContext(ctx).Create(orderM).Error; err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to create order")
	}

	order.ID = orderM.ID
	order.CreatedAt = orderM.CreatedAt
	order.UpdatedAt = orderM.UpdatedAt

	return nil
}

func (repo *orderRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Order, error) {
	var orderM model.OrderModel
	if err := repo.withItems(ctx).
		Where("id = ?", id).
		First(&orderM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrOrderNotFound
		}

		return nil, errors.Wrap(err, "failed to find order by ID")
	}

	return toOrderDomain(&orderM), nil
}

func (repo *orderRepository) List(ctx context.Context, filter entity.OrderFilter) ([]*entity.Order, error) {
	query := repo.withItems(ctx)
	if filter.UserID != nil {
		query = query.Where("user_id = ?", *filter.UserID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", string(*filter.Status))
	}

	var orderModels []*model.OrderModel
	if err := query.
		Order("created_at DESC").
		Order("id DESC").
		Find(&orderModels).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list orders")
	}

	orders := make([]*entity.Order, 0, len(orderModels))
	for _, orderM := range orderModels {
		orders = append(orders, toOrderDomain(orderM))
	}

	return orders, nil
}

func (repo *orderRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status entity.OrderStatus) error {
	result := repo.db.WithContext(ctx).
		Model(&model.OrderModel{}).
		Where("id = ?", id).
		Update("status", string(status))

	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to update order status")
	}

	if result.RowsAffected == 0 {
		return repository.ErrOrderNotFound
	}

	return nil
}

func (repo *orderRepository) withItems(ctx context.Context) *gorm.DB {
	return repo.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		})
}

// --- Mapper Functions ---

func toOrderDomain(data *model.OrderModel) *entity.Order {
	if data == nil {
		return nil
	}

	items := make([]entity.OrderItem, 0, len(data.Items))
	for _, itemM := range data.Items {
		items = append(items, entity.OrderItem{
			ProductID: itemM.ProductID,
			Quantity:  itemM.Quantity,
			Price:     itemM.Price,
		})
	}

	var info *entity.CustomerInfo
	if data.CustomerName != "" || data.CustomerPhone != "" || data.CustomerAddress != "" || data.CustomerNotes != "" {
		info = &entity.CustomerInfo{
			Name:    data.CustomerName,
			Phone:   data.CustomerPhone,
			Address: data.CustomerAddress,
			Notes:   data.CustomerNotes,
		}
	}

	return &entity.Order{
		ID:           data.ID,
		UserID:       data.UserID,
		CustomerInfo: info,
		Items:        items,
		Total:        data.Total,
		Status:       entity.OrderStatus(data.Status),
		Source:       entity.OrderSource(data.Source),
		CreatedAt:    data.CreatedAt,
		UpdatedAt:    data.UpdatedAt,
	}
}

func fromOrderDomain(data *entity.Order) *model.OrderModel {
	if data == nil {
		return nil
	}

	items := make([]model.OrderItemModel, 0, len(data.Items))
	for i, item := range data.Items {
		items = append(items, model.OrderItemModel{
			OrderID:   data.ID,
			ProductID: item.ProductID,
			Position:  i,
			Quantity:  item.Quantity,
			Price:     item.Price,
		})
	}

	orderM := &model.OrderModel{
		ID:        data.ID,
		UserID:    data.UserID,
		Total:     data.Total,
		Status:    string(data.Status),
		Source:    string(data.Source),
		CreatedAt: data.CreatedAt,
		UpdatedAt: data.UpdatedAt,
		Items:     items,
	}
	if data.CustomerInfo != nil {
		orderM.CustomerName = data.CustomerInfo.Name
		orderM.CustomerPhone = data.CustomerInfo.Phone
		orderM.CustomerAddress = data.CustomerInfo.Address
		orderM.CustomerNotes = data.CustomerInfo.Notes
	}

	return orderM
}
