package payment

import "context"

// PurchasedEvent is published after a gateway accepted a purchase.
type PurchasedEvent struct {
	Invoice       *Invoice
	TransactionID string
	Driver        string
}

// VerifiedEvent is published after a gateway confirmed a payment.
type VerifiedEvent struct {
	Receipt *Receipt
	Driver  string
}

// Listener receives lifecycle notifications.
type Listener interface {
	Purchased(ctx context.Context, e PurchasedEvent)
	Verified(ctx context.Context, e VerifiedEvent)
}

// ListenerFuncs adapts plain functions to a Listener. Nil fields are skipped.
type ListenerFuncs struct {
	OnPurchased func(ctx context.Context, e PurchasedEvent)
	OnVerified  func(ctx context.Context, e VerifiedEvent)
}

func (l ListenerFuncs) Purchased(ctx context.Context, e PurchasedEvent) {
	if l.OnPurchased != nil {
		l.OnPurchased(ctx, e)
	}
}

func (l ListenerFuncs) Verified(ctx context.Context, e VerifiedEvent) {
	if l.OnVerified != nil {
		l.OnVerified(ctx, e)
	}
}
