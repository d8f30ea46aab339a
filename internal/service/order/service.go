package order

import (
	"context"
	"fmt"
	"log"
	"time"

	"nanoeats/internal/domain"
	orderrepo "nanoeats/internal/repository/order"
	"nanoeats/internal/service/notification"
	"nanoeats/internal/service/promo"

	"github.com/google/uuid"
)

// Service drives the cart-to-order transition and the order status
// machine.
type Service struct {
	orders     orderRepo
	carts      cartGetter
	addresses  addressGetter
	promos     promoEvaluator
	billing    biller
	popularity popularityCounter
	notify     notification.Sender
	logger     *log.Logger
}

type orderRepo interface {
	Place(ctx context.Context, in orderrepo.PlaceInput) (*domain.Order, *domain.Payment, error)
	GetByID(ctx context.Context, userID, orderID string) (*domain.Order, error)
	GetAnyByID(ctx context.Context, orderID string) (*domain.Order, error)
	GetPayment(ctx context.Context, orderID string) (*domain.Payment, error)
	ListByUser(ctx context.Context, userID string, f orderrepo.ListFilter) ([]domain.Order, int, error)
	ApplyStatus(ctx context.Context, orderID string, upd orderrepo.StatusUpdate) error
	ApplyPaymentResult(ctx context.Context, orderID string, status domain.PaymentStatus, response map[string]interface{}) error
}

type cartGetter interface {
	GetByID(ctx context.Context, userID, cartID string) (*domain.Cart, error)
}

type addressGetter interface {
	GetByID(ctx context.Context, userID, id string) (*domain.Address, error)
}

type promoEvaluator interface {
	Validate(ctx context.Context, userID string, vendor domain.VendorRef, code string, subtotal int64) (*promo.Result, error)
	RedeemQuote(ctx context.Context, userID string, points int64) (int64, error)
}

type biller interface {
	Compute(lines []domain.CartLine, promoDiscount, loyaltyDiscount, tip int64) domain.Billing
}

type popularityCounter interface {
	RecordOrder(ctx context.Context, menuItemID string, at time.Time) error
}

func New(orders orderRepo, carts cartGetter, addresses addressGetter, promos promoEvaluator, billing biller, pop popularityCounter, notify notification.Sender, logger *log.Logger) *Service {
	return &Service{
		orders:     orders,
		carts:      carts,
		addresses:  addresses,
		promos:     promos,
		billing:    billing,
		popularity: pop,
		notify:     notify,
		logger:     logger,
	}
}

// PlaceOrderInput is the user's placement request.
type PlaceOrderInput struct {
	CartID          string
	AddressID       string
	Method          domain.PaymentMethod
	GatewayResponse map[string]interface{}
	PromoCode       string
	RedeemPoints    int64
	Tip             int64
}

// PlaceOrder converts the cart into an order + payment pair. Billing
// is computed up front; the persistence layer commits the order,
// payment, promo usage, loyalty debit/credit and cart deletion in one
// transaction. Popularity counters and notifications run best-effort
// after the commit.
func (s *Service) PlaceOrder(ctx context.Context, userID string, in PlaceOrderInput) (*domain.Order, *domain.Payment, error) {
	if !in.Method.Valid() {
		return nil, nil, domain.Validationf("unknown payment method %q", in.Method)
	}
	if in.Tip < 0 {
		return nil, nil, domain.Validationf("tip cannot be negative")
	}

	cart, err := s.carts.GetByID(ctx, userID, in.CartID)
	if err != nil {
		return nil, nil, err
	}
	if len(cart.Lines) == 0 {
		return nil, nil, domain.Validationf("cannot place an order with empty cart")
	}

	addr, err := s.addresses.GetByID(ctx, userID, in.AddressID)
	if err != nil {
		return nil, nil, err
	}

	subtotal := cart.Subtotal()

	var promoDiscount int64
	var promoCode string
	if in.PromoCode != "" {
		res, err := s.promos.Validate(ctx, userID, cart.Vendor, in.PromoCode, subtotal)
		if err != nil {
			return nil, nil, err
		}
		promoDiscount = res.Discount
		promoCode = res.Code
	}

	var loyaltyDiscount int64
	if in.RedeemPoints > 0 {
		loyaltyDiscount, err = s.promos.RedeemQuote(ctx, userID, in.RedeemPoints)
		if err != nil {
			return nil, nil, err
		}
	}

	bill := s.billing.Compute(cart.Lines, promoDiscount, loyaltyDiscount, in.Tip)

	lines := make([]domain.OrderLine, 0, len(cart.Lines))
	for _, l := range cart.Lines {
		lines = append(lines, domain.OrderLine{
			MenuItemID:    l.MenuItemID,
			ItemName:      l.ItemName,
			Quantity:      l.Quantity,
			Price:         l.Price,
			Customization: l.Customization,
		})
	}

	ord, pay, err := s.orders.Place(ctx, orderrepo.PlaceInput{
		OrderNumber:     uuid.NewString(),
		UserID:          userID,
		Vendor:          cart.Vendor,
		CartID:          cart.ID,
		CartVersion:     cart.Version,
		Lines:           lines,
		Billing:         bill,
		Address:         *addr,
		Method:          in.Method,
		GatewayResponse: in.GatewayResponse,
		PaidImmediately: in.Method.Prepaid() && gatewaySucceeded(in.GatewayResponse),
		PromoCode:       promoCode,
		RedeemPoints:    in.RedeemPoints,
	})
	if err != nil {
		return nil, nil, err
	}

	s.recordPopularity(ctx, ord)
	s.notify.Send(ctx, notification.Message{
		UserID:  userID,
		Kind:    "order_placed",
		OrderID: ord.ID,
		Body:    fmt.Sprintf("Your order %s has been placed", ord.OrderNumber),
		SentAt:  time.Now().UTC(),
	})

	return ord, pay, nil
}

// UpdateStatus moves an order forward, or to cancelled. Delivered COD
// orders settle their payment atomically with the status change.
func (s *Service) UpdateStatus(ctx context.Context, orderID string, status domain.OrderStatus) error {
	if !status.Valid() || status == domain.OrderPlaced {
		return domain.Validationf("invalid status %q", status)
	}

	ord, err := s.orders.GetAnyByID(ctx, orderID)
	if err != nil {
		return err
	}
	if ord.Status.Terminal() {
		return domain.Conflictf("cannot update status for %s order", ord.Status)
	}
	if !ord.Status.CanTransitionTo(status) {
		return domain.Conflictf("cannot move order from %s to %s", ord.Status, status)
	}

	upd := orderrepo.StatusUpdate{Status: status}
	if status == domain.OrderDelivered {
		pay, err := s.orders.GetPayment(ctx, orderID)
		if err != nil {
			return err
		}
		if pay.Method == domain.PayCOD && pay.Status != domain.PaymentStatusSuccess {
			upd.SettlePayment = true
		}
	}

	if err := s.orders.ApplyStatus(ctx, orderID, upd); err != nil {
		return err
	}

	s.notify.Send(ctx, notification.Message{
		UserID:  ord.UserID,
		Kind:    "order_status",
		OrderID: ord.ID,
		Body:    fmt.Sprintf("Order %s is now %s", ord.OrderNumber, status),
		SentAt:  time.Now().UTC(),
	})
	return nil
}

// Cancel rejects terminal orders and marks the payment pending again
// to signal the refund workflow.
func (s *Service) Cancel(ctx context.Context, userID, orderID string) error {
	ord, err := s.orders.GetByID(ctx, userID, orderID)
	if err != nil {
		return err
	}
	if ord.Status.Terminal() {
		return domain.Conflictf("cannot cancel a %s order", ord.Status)
	}

	if err := s.orders.ApplyStatus(ctx, orderID, orderrepo.StatusUpdate{
		Status:       domain.OrderCancelled,
		ResetPayment: true,
	}); err != nil {
		return err
	}

	s.notify.Send(ctx, notification.Message{
		UserID:  userID,
		Kind:    "order_cancelled",
		OrderID: ord.ID,
		Body:    fmt.Sprintf("Order %s has been cancelled", ord.OrderNumber),
		SentAt:  time.Now().UTC(),
	})
	return nil
}

// RecordPaymentResult handles the gateway webhook.
func (s *Service) RecordPaymentResult(ctx context.Context, orderID string, status domain.PaymentStatus, response map[string]interface{}) error {
	switch status {
	case domain.PaymentStatusSuccess, domain.PaymentStatusFailed, domain.PaymentStatusPending:
	default:
		return domain.Validationf("unknown payment status %q", status)
	}
	if _, err := s.orders.GetAnyByID(ctx, orderID); err != nil {
		return err
	}
	return s.orders.ApplyPaymentResult(ctx, orderID, status, response)
}

func (s *Service) Get(ctx context.Context, userID, orderID string) (*domain.Order, *domain.Payment, error) {
	ord, err := s.orders.GetByID(ctx, userID, orderID)
	if err != nil {
		return nil, nil, err
	}
	pay, err := s.orders.GetPayment(ctx, orderID)
	if err != nil {
		return nil, nil, err
	}
	return ord, pay, nil
}

func (s *Service) ListByUser(ctx context.Context, userID string, f orderrepo.ListFilter) ([]domain.Order, int, error) {
	return s.orders.ListByUser(ctx, userID, f)
}

// Status is the light projection served by the status endpoint.
type Status struct {
	OrderID       string               `json:"orderId"`
	OrderStatus   domain.OrderStatus   `json:"orderStatus"`
	PaymentStatus domain.PaymentState  `json:"paymentStatus"`
	PaymentMethod domain.PaymentMethod `json:"paymentMethod"`
	CreatedAt     time.Time            `json:"createdAt"`
	UpdatedAt     time.Time            `json:"updatedAt"`
}

func (s *Service) GetStatus(ctx context.Context, userID, orderID string) (*Status, error) {
	ord, err := s.orders.GetByID(ctx, userID, orderID)
	if err != nil {
		return nil, err
	}
	pay, err := s.orders.GetPayment(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return &Status{
		OrderID:       ord.ID,
		OrderStatus:   ord.Status,
		PaymentStatus: ord.PaymentStatus,
		PaymentMethod: pay.Method,
		CreatedAt:     ord.CreatedAt,
		UpdatedAt:     ord.UpdatedAt,
	}, nil
}

// recordPopularity bumps each ordered item's counters. Best-effort:
// a dead counter store must not fail a placed order.
func (s *Service) recordPopularity(ctx context.Context, ord *domain.Order) {
	if s.popularity == nil {
		return
	}
	now := time.Now().UTC()
	for _, l := range ord.Lines {
		if err := s.popularity.RecordOrder(ctx, l.MenuItemID, now); err != nil {
			if s.logger != nil {
				s.logger.Printf("popularity update failed for item %s: %v", l.MenuItemID, err)
			}
			return
		}
	}
}

func gatewaySucceeded(response map[string]interface{}) bool {
	if response == nil {
		return false
	}
	status, ok := response["status"].(string)
	return ok && status == "success"
}
