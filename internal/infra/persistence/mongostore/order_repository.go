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

type orderItemDocument struct {
	ProductID string  `bson:"product_id"`
	Quantity  int     `bson:"quantity"`
	Price     float64 `bson:"price"`
}

type customerInfoDocument struct {
	Name    string `bson:"name"`
	Phone   string `bson:"phone"`
	Address string `bson:"address"`
	Notes   string `bson:"notes,omitempty"`
}

type orderDocument struct {
	ID           string                `bson:"_id"`
	UserID       *string               `bson:"user_id,omitempty"`
	CustomerInfo *customerInfoDocument `bson:"customer_info,omitempty"`
	Items        []orderItemDocument   `bson:"items"`
	Total        float64               `bson:"total"`
	Status       string                `bson:"status"`
	Source       string                `bson:"source"`
	CreatedAt    time.Time             `bson:"created_at"`
	UpdatedAt    time.Time             `bson:"updated_at"`
}

type orderRepository struct {
	col *mongo.Collection
}

// NewOrderRepository is the constructor for orderRepository.
func NewOrderRepository(store *Store) repository.OrderRepository {
	return &orderRepository{col: store.col(ColOrders)}
}

func (repo *orderRepository) Create(ctx context.Context, order *entity.Order) error {
	ensureID(&order.ID)
	now := time.Now().UTC()
	order.CreatedAt, order.UpdatedAt = now, now

	if _, err := repo.col.InsertOne(ctx, fromOrderDomain(order)); err != nil {
		return errors.Wrap(err, "failed to create order")
	}

	return nil
}

func (repo *orderRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Order, error) {
	doc, err := findOne[orderDocument](ctx, repo.col, idFilter(id))
	if err != nil {
		return nil, errors.Wrap(wrapError(err, repository.ErrOrderNotFound, nil), "failed to find order by ID")
	}

	return toOrderDomain(doc), nil
}

func (repo *orderRepository) List(ctx context.Context, filter entity.OrderFilter) ([]*entity.Order, error) {
	query := bson.D{}
	if filter.UserID != nil {
		query = append(query, bson.E{Key: "user_id", Value: filter.UserID.String()})
	}
	if filter.Status != nil {
		query = append(query, bson.E{Key: "status", Value: string(*filter.Status)})
	}

	docs, err := findMany[orderDocument](ctx, repo.col, query, newestFirst())
	if err != nil {
		return nil, errors.Wrap(err, "failed to list orders")
	}

	orders := make([]*entity.Order, 0, len(docs))
	for _, doc := range docs {
		orders = append(orders, toOrderDomain(doc))
	}

	return orders, nil
}

func (repo *orderRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status entity.OrderStatus) error {
	res, err := repo.col.UpdateOne(ctx, idFilter(id), bson.D{{Key: "$set", Value: bson.D{
		{Key: "status", Value: string(status)},
		{Key: "updated_at", Value: time.Now().UTC()},
	}}})
	if err != nil {
		return errors.Wrap(err, "failed to update order status")
	}
	if res.MatchedCount == 0 {
		return repository.ErrOrderNotFound
	}

	return nil
}

// --- Mapper Functions ---

func toOrderDomain(doc *orderDocument) *entity.Order {
	order := &entity.Order{
		ID:        parseID(doc.ID),
		Items:     make([]entity.OrderItem, 0, len(doc.Items)),
		Total:     doc.Total,
		Status:    entity.OrderStatus(doc.Status),
		Source:    entity.OrderSource(doc.Source),
		CreatedAt: doc.CreatedAt,
		UpdatedAt: doc.UpdatedAt,
	}
	if doc.UserID != nil {
		userID := parseID(*doc.UserID)
		order.UserID = &userID
	}
	if doc.CustomerInfo != nil {
		order.CustomerInfo = &entity.CustomerInfo{
			Name:    doc.CustomerInfo.Name,
			Phone:   doc.CustomerInfo.Phone,
			Address: doc.CustomerInfo.Address,
			Notes:   doc.CustomerInfo.Notes,
		}
	}
	for _, item := range doc.Items {
		order.Items = append(order.Items, entity.OrderItem{
			ProductID: parseID(item.ProductID),
			Quantity:  item.Quantity,
			Price:     item.Price,
		})
	}

	return order
}

func fromOrderDomain(order *entity.Order) *orderDocument {
	doc := &orderDocument{
		ID:        order.ID.String(),
		Items:     make([]orderItemDocument, 0, len(order.Items)),
		Total:     order.Total,
		Status:    string(order.Status),
		Source:    string(order.Source),
		CreatedAt: order.CreatedAt,
		UpdatedAt: order.UpdatedAt,
	}
	if order.UserID != nil {
		userID := order.UserID.String()
		doc.UserID = &userID
	}
	if order.CustomerInfo != nil {
		doc.CustomerInfo = &customerInfoDocument{
			Name:    order.CustomerInfo.Name,
			Phone:   order.CustomerInfo.Phone,
			Address: order.CustomerInfo.Address,
			Notes:   order.CustomerInfo.Notes,
		}
	}
	for _, item := range order.Items {
		doc.Items = append(doc.Items, orderItemDocument{
			ProductID: item.ProductID.String(),
			Quantity:  item.Quantity,
			Price:     item.Price,
		})
	}

	return doc
}
