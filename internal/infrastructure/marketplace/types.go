package marketplace

import (
	"github.com/shopspring/decimal"
)

// apiEnvelope is the common response wrapper returned by the marketplace API
type apiEnvelope struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// IsSuccess reports whether the API call succeeded
func (e *apiEnvelope) IsSuccess() bool {
	return e.Code == 0
}

// placeOrderPayload is the request body for POST /orders
type placeOrderPayload struct {
	ReferenceID string          `json:"reference_id"`
	Products    []productLine   `json:"products"`
	Shipping    shippingInfo    `json:"shipping"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}

type productLine struct {
	ProductID string          `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

type shippingInfo struct {
	RecipientName  string `json:"recipient_name"`
	RecipientPhone string `json:"recipient_phone"`
	Address        string `json:"address"`
}

// placeOrderResponse is the response body for POST /orders
type placeOrderResponse struct {
	apiEnvelope
	Data *struct {
		OrderID string `json:"order_id"`
	} `json:"data"`
}

// orderStatusResponse is the response body for GET /orders/{id}
type orderStatusResponse struct {
	apiEnvelope
	Data *struct {
		OrderID string `json:"order_id"`
		Status  string `json:"status"`
	} `json:"data"`
}

// trackingResponse is the response body for GET /orders/{id}/tracking
type trackingResponse struct {
	apiEnvelope
	Data *struct {
		TrackingNumber string `json:"tracking_number"`
		Carrier        string `json:"carrier"`
	} `json:"data"`
}

// cancelOrderPayload is the request body for POST /orders/{id}/cancel
type cancelOrderPayload struct {
	Reason string `json:"reason"`
}

// cancelOrderResponse is the response body for POST /orders/{id}/cancel
type cancelOrderResponse struct {
	apiEnvelope
}
