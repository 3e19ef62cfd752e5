package fulfillment

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	donationapp "github.com/givebridge/backend/internal/application/donation"
	"github.com/givebridge/backend/internal/domain/donation"
	"github.com/givebridge/backend/internal/domain/fulfillment"
	"github.com/givebridge/backend/internal/domain/shared"
	"github.com/givebridge/backend/internal/domain/shared/valueobject"
)

// OrderService orchestrates marketplace orders for confirmed donations
type OrderService struct {
	orderRepo       fulfillment.OrderRepository
	donationService *donationapp.Service
	donationRepo    donation.DonationRepository
	marketplace     fulfillment.Marketplace
	catalog         fulfillment.Catalog
	eventPublisher  shared.EventPublisher
}

// NewOrderService creates a new OrderService
func NewOrderService(
	orderRepo fulfillment.OrderRepository,
	donationService *donationapp.Service,
	donationRepo donation.DonationRepository,
	marketplace fulfillment.Marketplace,
	catalog fulfillment.Catalog,
) *OrderService {
	return &OrderService{
		orderRepo:       orderRepo,
		donationService: donationService,
		donationRepo:    donationRepo,
		marketplace:     marketplace,
		catalog:         catalog,
	}
}

// SetEventPublisher sets the event publisher for cross-context integration
func (s *OrderService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// CreateOrder creates a purchase order for a payment-confirmed donation.
// The donation moves to ORDERED; a second order for the same donation is
// rejected by the donation_id unique constraint.
func (s *OrderService) CreateOrder(ctx context.Context, donationID uuid.UUID) (*OrderResponse, error) {
	d, err := s.donationRepo.FindByID(ctx, donationID)
	if err != nil {
		return nil, err
	}
	if d.Status != donation.StatusPaymentConfirmed {
		return nil, shared.NewPreconditionFailedError(
			fmt.Sprintf("Cannot order for donation in %s status", d.Status))
	}

	items, err := s.catalog.NeededItems(ctx, d.BeneficiaryItemID)
	if err != nil {
		return nil, shared.NewExternalServiceError("Catalog lookup failed: " + err.Error())
	}
	if len(items) == 0 {
		return nil, shared.NewPreconditionFailedError("Beneficiary item has no products to order")
	}

	order, err := fulfillment.NewOrder(d.ID, d.OrganizationID)
	if err != nil {
		return nil, err
	}
	for _, item := range items {
		if _, err := order.AddProduct(item.ProductID, item.Name, item.Quantity, valueobject.NewMoneyKRW(item.UnitPrice)); err != nil {
			return nil, err
		}
	}

	addr, err := s.catalog.GetShippingAddress(ctx, d.BeneficiaryItemID)
	if err != nil {
		return nil, shared.NewExternalServiceError("Shipping address lookup failed: " + err.Error())
	}
	if err := order.SetShippingInfo(addr.RecipientName, addr.RecipientPhone, addr.Address); err != nil {
		return nil, err
	}

	if err := s.orderRepo.Save(ctx, order); err != nil {
		if shared.IsCode(err, shared.CodeConflict) {
			return nil, shared.NewConflictError("An order already exists for this donation")
		}
		return nil, err
	}

	if _, err := s.donationService.MarkOrdered(ctx, d.ID); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, order)

	response := ToOrderResponse(order)
	return &response, nil
}

// PlaceWithMarketplace submits a PENDING order to the marketplace. On
// acceptance the order moves to ACCEPTED with the marketplace order ID; on
// rejection it moves to FAILED with the upstream message recorded. Retrying a
// failed placement is a scheduler concern, not done inline.
func (s *OrderService) PlaceWithMarketplace(ctx context.Context, orderID uuid.UUID) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.Status != fulfillment.OrderStatusPending {
		return nil, shared.NewPreconditionFailedError(
			fmt.Sprintf("Cannot place order in %s status", order.Status))
	}

	req := fulfillment.PlaceOrderRequest{
		ReferenceID: order.ID.String(),
		Shipping: fulfillment.ShippingAddress{
			RecipientName:  order.RecipientName,
			RecipientPhone: order.RecipientPhone,
			Address:        order.Address,
		},
		TotalAmount: order.TotalAmount,
	}
	for _, p := range order.Products {
		req.Products = append(req.Products, fulfillment.ProductLine{
			ProductID: p.ProductID,
			Quantity:  p.Quantity,
			UnitPrice: p.UnitPrice,
		})
	}

	resp, callErr := s.marketplace.PlaceOrder(ctx, req)
	if callErr != nil {
		if failErr := order.Fail(callErr.Error()); failErr != nil {
			return nil, failErr
		}
		if err := s.orderRepo.SaveWithLock(ctx, order); err != nil {
			return nil, err
		}
		s.publishEvents(ctx, order)
		return nil, shared.NewExternalServiceError("Marketplace rejected order: " + callErr.Error())
	}

	if err := order.Accept(resp.MarketplaceOrderID); err != nil {
		return nil, err
	}
	if err := s.orderRepo.SaveWithLock(ctx, order); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, order)

	response := ToOrderResponse(order)
	return &response, nil
}

// CancelWithMarketplace cancels an order upstream and locally. Only orders
// that have not shipped can be cancelled.
func (s *OrderService) CancelWithMarketplace(ctx context.Context, orderID uuid.UUID, reason string) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if order.MarketplaceOrderID != nil {
		if err := s.marketplace.CancelOrder(ctx, *order.MarketplaceOrderID, reason); err != nil {
			return nil, shared.NewExternalServiceError("Marketplace cancel failed: " + err.Error())
		}
	}

	if err := order.Cancel(reason); err != nil {
		return nil, err
	}
	if err := s.orderRepo.SaveWithLock(ctx, order); err != nil {
		return nil, err
	}

	response := ToOrderResponse(order)
	return &response, nil
}

// GetByID retrieves an order by ID
func (s *OrderService) GetByID(ctx context.Context, orderID uuid.UUID) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	response := ToOrderResponse(order)
	return &response, nil
}

// List retrieves orders with filtering and pagination
func (s *OrderService) List(ctx context.Context, filter OrderListFilter) (shared.Paginated[OrderResponse], error) {
	domainFilter := shared.DefaultFilter()
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}
	if filter.OrderBy != "" {
		domainFilter.OrderBy = filter.OrderBy
	}
	if filter.OrderDir != "" {
		domainFilter.OrderDir = filter.OrderDir
	}
	if filter.OrganizationID != nil {
		domainFilter.Filters["organization_id"] = *filter.OrganizationID
	}
	if filter.Status != nil {
		domainFilter.Filters["status"] = filter.Status.String()
	}

	page, err := s.orderRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return shared.Paginated[OrderResponse]{}, err
	}

	return shared.NewPaginated(ToOrderResponses(page.Items), page.Total, page.Page, page.PageSize), nil
}

// publishEvents publishes the aggregate's pending events and clears them
func (s *OrderService) publishEvents(ctx context.Context, o *fulfillment.Order) {
	if s.eventPublisher == nil {
		return
	}
	for _, event := range o.GetDomainEvents() {
		_ = s.eventPublisher.Publish(ctx, event)
	}
	o.ClearDomainEvents()
}
