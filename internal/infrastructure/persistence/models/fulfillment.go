package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/givebridge/backend/internal/domain/fulfillment"
)

// OrderModel is the persistence model for the orders table
type OrderModel struct {
	AggregateModel
	DonationID         uuid.UUID           `gorm:"type:uuid;not null;uniqueIndex"`
	OrganizationID     uuid.UUID           `gorm:"type:uuid;not null;index"`
	MarketplaceOrderID *string             `gorm:"type:varchar(100);index"`
	Products           []OrderProductModel `gorm:"foreignKey:OrderID"`
	TotalAmount        decimal.Decimal     `gorm:"type:numeric(15,2);not null"`
	Status             string              `gorm:"type:varchar(32);not null;index"`
	RecipientName      string              `gorm:"type:varchar(100)"`
	RecipientPhone     string              `gorm:"type:varchar(30)"`
	Address            string              `gorm:"type:varchar(300)"`
	TrackingNumber     *string             `gorm:"type:varchar(100)"`
	Carrier            string              `gorm:"type:varchar(50)"`
	ErrorMessage       string              `gorm:"type:varchar(500)"`
	AcceptedAt         *time.Time
	ShippedAt          *time.Time
	DeliveredAt        *time.Time
}

// TableName returns the table name for GORM
func (OrderModel) TableName() string {
	return "orders"
}

// OrderProductModel is the persistence model for the order_products table
type OrderProductModel struct {
	ID         uuid.UUID       `gorm:"type:uuid;primary_key"`
	OrderID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID  string          `gorm:"type:varchar(100);not null"`
	Name       string          `gorm:"type:varchar(200);not null"`
	Quantity   decimal.Decimal `gorm:"type:numeric(10,2);not null"`
	UnitPrice  decimal.Decimal `gorm:"type:numeric(15,2);not null"`
	TotalPrice decimal.Decimal `gorm:"type:numeric(15,2);not null"`
	CreatedAt  time.Time       `gorm:"not null"`
	UpdatedAt  time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (OrderProductModel) TableName() string {
	return "order_products"
}

// ToDomain converts the persistence model to a domain Order
func (m *OrderModel) ToDomain() *fulfillment.Order {
	products := make([]fulfillment.OrderProduct, 0, len(m.Products))
	for _, p := range m.Products {
		products = append(products, fulfillment.OrderProduct{
			ID:         p.ID,
			OrderID:    p.OrderID,
			ProductID:  p.ProductID,
			Name:       p.Name,
			Quantity:   p.Quantity,
			UnitPrice:  p.UnitPrice,
			TotalPrice: p.TotalPrice,
			CreatedAt:  p.CreatedAt,
			UpdatedAt:  p.UpdatedAt,
		})
	}

	o := &fulfillment.Order{
		DonationID:         m.DonationID,
		OrganizationID:     m.OrganizationID,
		MarketplaceOrderID: m.MarketplaceOrderID,
		Products:           products,
		TotalAmount:        m.TotalAmount,
		Status:             fulfillment.OrderStatus(m.Status),
		RecipientName:      m.RecipientName,
		RecipientPhone:     m.RecipientPhone,
		Address:            m.Address,
		TrackingNumber:     m.TrackingNumber,
		Carrier:            m.Carrier,
		ErrorMessage:       m.ErrorMessage,
		AcceptedAt:         m.AcceptedAt,
		ShippedAt:          m.ShippedAt,
		DeliveredAt:        m.DeliveredAt,
	}
	m.PopulateAggregateRoot(&o.BaseAggregateRoot)
	return o
}

// FromDomain populates the persistence model from a domain Order
func (m *OrderModel) FromDomain(o *fulfillment.Order) {
	m.FromDomainAggregateRoot(o.BaseAggregateRoot)
	m.DonationID = o.DonationID
	m.OrganizationID = o.OrganizationID
	m.MarketplaceOrderID = o.MarketplaceOrderID
	m.TotalAmount = o.TotalAmount
	m.Status = o.Status.String()
	m.RecipientName = o.RecipientName
	m.RecipientPhone = o.RecipientPhone
	m.Address = o.Address
	m.TrackingNumber = o.TrackingNumber
	m.Carrier = o.Carrier
	m.ErrorMessage = o.ErrorMessage
	m.AcceptedAt = o.AcceptedAt
	m.ShippedAt = o.ShippedAt
	m.DeliveredAt = o.DeliveredAt

	m.Products = make([]OrderProductModel, 0, len(o.Products))
	for _, p := range o.Products {
		m.Products = append(m.Products, OrderProductModel{
			ID:         p.ID,
			OrderID:    o.ID,
			ProductID:  p.ProductID,
			Name:       p.Name,
			Quantity:   p.Quantity,
			UnitPrice:  p.UnitPrice,
			TotalPrice: p.TotalPrice,
			CreatedAt:  p.CreatedAt,
			UpdatedAt:  p.UpdatedAt,
		})
	}
}
