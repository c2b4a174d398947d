package handler

import (
	"time"

	"storefront/internal/domain/entity"
	"storefront/internal/usecase"

	"github.com/google/uuid"
)

// JSON views. Identifiers serialize as _id and field names are camelCase.

type userView struct {
	ID        uuid.UUID `json:"_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

type authView struct {
	ID    uuid.UUID `json:"_id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
	Role  string    `json:"role"`
	Token string    `json:"token"`
}

type categoryView struct {
	ID          uuid.UUID `json:"_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type categoryDetailView struct {
	categoryView
	Products []categoryProductView `json:"products"`
}

type categoryProductView struct {
	ID    uuid.UUID `json:"_id"`
	Name  string    `json:"name"`
	Price float64   `json:"price"`
	Image string    `json:"image"`
	Stock int       `json:"stock"`
}

type categoryRefView struct {
	ID          uuid.UUID `json:"_id"`
	Name        string    `json:"name,omitempty"`
	Description string    `json:"description,omitempty"`
}

type productView struct {
	ID          uuid.UUID       `json:"_id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       float64         `json:"price"`
	Image       string          `json:"image"`
	Category    categoryRefView `json:"category"`
	Stock       int             `json:"stock"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

type ownerView struct {
	ID    uuid.UUID `json:"_id"`
	Name  string    `json:"name,omitempty"`
	Email string    `json:"email,omitempty"`
}

type orderProductView struct {
	ID    uuid.UUID `json:"_id"`
	Name  string    `json:"name,omitempty"`
	Price *float64  `json:"price,omitempty"`
	Image string    `json:"image,omitempty"`
}

type orderItemView struct {
	Product  orderProductView `json:"product"`
	Quantity int              `json:"quantity"`
	Price    float64          `json:"price"`
}

type customerInfoView struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	Notes   string `json:"notes,omitempty"`
}

type orderView struct {
	ID           uuid.UUID         `json:"_id"`
	User         *ownerView        `json:"user"`
	CustomerInfo *customerInfoView `json:"customerInfo,omitempty"`
	Items        []orderItemView   `json:"items"`
	Total        float64           `json:"total"`
	Status       string            `json:"status"`
	OrderSource  string            `json:"orderSource"`
	CreatedAt    time.Time         `json:"createdAt"`
	UpdatedAt    time.Time         `json:"updatedAt"`
}

// --- View Mappers ---

func toUserView(user *entity.User) userView {
	return userView{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		Role:      user.Role.String(),
		CreatedAt: user.CreatedAt,
	}
}

func toAuthView(out *usecase.AuthOutput) authView {
	return authView{
		ID:    out.User.ID,
		Name:  out.User.Name,
		Email: out.User.Email,
		Role:  out.User.Role.String(),
		Token: out.Token,
	}
}

func toCategoryView(category *entity.Category) categoryView {
	return categoryView{
		ID:          category.ID,
		Name:        category.Name,
		Description: category.Description,
		CreatedAt:   category.CreatedAt,
		UpdatedAt:   category.UpdatedAt,
	}
}

func toCategoryViews(categories []*entity.Category) []categoryView {
	views := make([]categoryView, 0, len(categories))
	for _, category := range categories {
		views = append(views, toCategoryView(category))
	}

	return views
}

func toCategoryDetailView(detail *usecase.CategoryDetail) categoryDetailView {
	products := make([]categoryProductView, 0, len(detail.Products))
	for _, product := range detail.Products {
		products = append(products, categoryProductView{
			ID:    product.ID,
			Name:  product.Name,
			Price: product.Price,
			Image: product.Image,
			Stock: product.Stock,
		})
	}

	return categoryDetailView{
		categoryView: toCategoryView(detail.Category),
		Products:     products,
	}
}

// toProductView renders a product. withDescription adds the category description, as on the detail endpoint.
func toProductView(detail *usecase.ProductDetail, withDescription bool) productView {
	product := detail.Product
	ref := categoryRefView{ID: product.CategoryID}
	if detail.Category != nil {
		ref.Name = detail.Category.Name
		if withDescription {
			ref.Description = detail.Category.Description
		}
	}

	return productView{
		ID:          product.ID,
		Name:        product.Name,
		Description: product.Description,
		Price:       product.Price,
		Image:       product.Image,
		Category:    ref,
		Stock:       product.Stock,
		CreatedAt:   product.CreatedAt,
		UpdatedAt:   product.UpdatedAt,
	}
}

func toProductViews(details []*usecase.ProductDetail) []productView {
	views := make([]productView, 0, len(details))
	for _, detail := range details {
		views = append(views, toProductView(detail, false))
	}

	return views
}

func toOrderView(detail *usecase.OrderDetail) orderView {
	order := detail.Order

	view := orderView{
		ID:          order.ID,
		Items:       make([]orderItemView, 0, len(order.Items)),
		Total:       order.Total,
		Status:      string(order.Status),
		OrderSource: string(order.Source),
		CreatedAt:   order.CreatedAt,
		UpdatedAt:   order.UpdatedAt,
	}

	if order.UserID != nil {
		view.User = &ownerView{ID: *order.UserID}
		if detail.Owner != nil {
			view.User.Name = detail.Owner.Name
			view.User.Email = detail.Owner.Email
		}
	}

	if info := order.CustomerInfo; info != nil {
		view.CustomerInfo = &customerInfoView{
			Name:    info.Name,
			Phone:   info.Phone,
			Address: info.Address,
			Notes:   info.Notes,
		}
	}

	for _, item := range order.Items {
		productRef := orderProductView{ID: item.ProductID}
		if product, ok := detail.Products[item.ProductID]; ok && product != nil {
			price := product.Price
			productRef.Name = product.Name
			productRef.Price = &price
			productRef.Image = product.Image
		}

		view.Items = append(view.Items, orderItemView{
			Product:  productRef,
			Quantity: item.Quantity,
			Price:    item.Price,
		})
	}

	return view
}

func toOrderViews(details []*usecase.OrderDetail) []orderView {
	views := make([]orderView, 0, len(details))
	for _, detail := range details {
		views = append(views, toOrderView(detail))
	}

	return views
}
