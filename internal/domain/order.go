package domain

import "time"

// OrderStatus is the order lifecycle state.
type OrderStatus string

const (
	OrderPlaced         OrderStatus = "placed"
	OrderPreparing      OrderStatus = "preparing"
	OrderOutForDelivery OrderStatus = "out-for-delivery"
	OrderDelivered      OrderStatus = "delivered"
	OrderCancelled      OrderStatus = "cancelled"
)

// Terminal reports whether no further status transition is permitted.
func (s OrderStatus) Terminal() bool {
	return s == OrderDelivered || s == OrderCancelled
}

// Valid reports whether s is a known status.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderPlaced, OrderPreparing, OrderOutForDelivery, OrderDelivered, OrderCancelled:
		return true
	}
	return false
}

// CanTransitionTo enforces the forward-only status machine; cancelled
// is reachable from any non-terminal state. Forward jumps are allowed
// (a restaurant may mark delivered straight from placed).
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	if s.Terminal() || !next.Valid() {
		return false
	}
	if next == OrderCancelled {
		return true
	}
	rank := map[OrderStatus]int{
		OrderPlaced:         0,
		OrderPreparing:      1,
		OrderOutForDelivery: 2,
		OrderDelivered:      3,
	}
	cur, ok1 := rank[s]
	nxt, ok2 := rank[next]
	return ok1 && ok2 && nxt > cur
}

// PaymentState is the order-side payment status.
type PaymentState string

const (
	PaymentPending PaymentState = "pending"
	PaymentPaid    PaymentState = "paid"
	PaymentFailed  PaymentState = "failed"
)

// Billing is the bill computed at placement time and never recomputed.
type Billing struct {
	Subtotal         int64 `json:"subtotal"`
	PromoDiscount    int64 `json:"promoDiscount"`
	LoyaltyDiscount  int64 `json:"loyaltyDiscount"`
	TotalDiscount    int64 `json:"totalDiscount"`
	DeliveryFee      int64 `json:"deliveryFee"`
	Tax              int64 `json:"tax"`
	PackagingFee     int64 `json:"packagingFee"`
	PlatformFee      int64 `json:"platformFee"`
	Tip              int64 `json:"tip"`
	TotalAmount      int64 `json:"totalAmount"`
	NanoPointsEarned int64 `json:"nanoPointsEarned"`
}

// OrderLine is an immutable snapshot of a cart line at placement time.
type OrderLine struct {
	MenuItemID    string        `json:"menuItem"`
	ItemName      string        `json:"name,omitempty"`
	Quantity      int           `json:"quantity"`
	Price         int64         `json:"price"`
	Customization Customization `json:"customizations"`
}

// Order is the immutable record a cart converts into. The delivery
// address is a denormalized copy so the order survives address
// deletion.
type Order struct {
	ID              string       `json:"id"`
	OrderNumber     string       `json:"orderNumber"`
	UserID          string       `json:"-"`
	Vendor          VendorRef    `json:"vendor"`
	Lines           []OrderLine  `json:"items"`
	Billing         Billing      `json:"billing"`
	Status          OrderStatus  `json:"status"`
	PaymentStatus   PaymentState `json:"paymentStatus"`
	DeliveryAddress Address      `json:"deliveryAddress"`
	PromoCode       string       `json:"promoCode,omitempty"`
	CreatedAt       time.Time    `json:"createdAt"`
	UpdatedAt       time.Time    `json:"updatedAt"`
}

// PaymentMethod is how the order is paid.
type PaymentMethod string

const (
	PayCOD        PaymentMethod = "cod"
	PayCard       PaymentMethod = "card"
	PayUPI        PaymentMethod = "upi"
	PayNetbanking PaymentMethod = "netbanking"
	PayWallet     PaymentMethod = "wallet"
)

// Valid reports whether m is a known payment method.
func (m PaymentMethod) Valid() bool {
	switch m {
	case PayCOD, PayCard, PayUPI, PayNetbanking, PayWallet:
		return true
	}
	return false
}

// Prepaid reports whether the method settles through a gateway before
// delivery.
func (m PaymentMethod) Prepaid() bool { return m != PayCOD }

// PaymentStatus is the payment-record state.
type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusSuccess PaymentStatus = "success"
	PaymentStatusFailed  PaymentStatus = "failed"
)

// Payment is one-to-one with an order; the gateway response payload is
// kept opaque for reconciliation.
type Payment struct {
	ID              string                 `json:"id"`
	OrderID         string                 `json:"orderId"`
	Method          PaymentMethod          `json:"method"`
	Status          PaymentStatus          `json:"status"`
	Amount          int64                  `json:"amount"`
	CouponUsed      string                 `json:"couponUsed,omitempty"`
	GatewayResponse map[string]interface{} `json:"paymentGatewayResponse,omitempty"`
	CreatedAt       time.Time              `json:"createdAt"`
}
