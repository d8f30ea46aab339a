package domain

import "testing"

func TestOrderStatusTransitions(t *testing.T) {
	cases := []struct {
		from, to OrderStatus
		ok       bool
	}{
		{OrderPlaced, OrderPreparing, true},
		{OrderPlaced, OrderDelivered, true},
		{OrderPreparing, OrderOutForDelivery, true},
		{OrderOutForDelivery, OrderDelivered, true},
		{OrderPreparing, OrderPlaced, false},
		{OrderOutForDelivery, OrderPreparing, false},
		{OrderPreparing, OrderPreparing, false},
		{OrderPlaced, OrderCancelled, true},
		{OrderOutForDelivery, OrderCancelled, true},
		{OrderDelivered, OrderCancelled, false},
		{OrderCancelled, OrderPreparing, false},
		{OrderDelivered, OrderDelivered, false},
		{OrderPlaced, "lost", false},
	}
	for _, c := range cases {
		if got := c.from.CanTransitionTo(c.to); got != c.ok {
			t.Errorf("%s -> %s: got %v, want %v", c.from, c.to, got, c.ok)
		}
	}
}

func TestOrderStatusTerminal(t *testing.T) {
	for _, s := range []OrderStatus{OrderPlaced, OrderPreparing, OrderOutForDelivery} {
		if s.Terminal() {
			t.Errorf("%s must not be terminal", s)
		}
	}
	for _, s := range []OrderStatus{OrderDelivered, OrderCancelled} {
		if !s.Terminal() {
			t.Errorf("%s must be terminal", s)
		}
	}
}

func TestPaymentMethodPrepaid(t *testing.T) {
	if PayCOD.Prepaid() {
		t.Error("cod is not prepaid")
	}
	for _, m := range []PaymentMethod{PayCard, PayUPI, PayNetbanking, PayWallet} {
		if !m.Prepaid() {
			t.Errorf("%s is prepaid", m)
		}
	}
	if PaymentMethod("bitcoin").Valid() {
		t.Error("unknown method must be invalid")
	}
}
