package domain

import "context"

// Repo abstracts billing persistence
type Repo interface {
	GetCustomer(ctx context.Context, userID string) (Customer, bool, error)
	GetCustomerByProviderID(ctx context.Context, providerID string) (Customer, bool, error)
	InsertCustomer(ctx context.Context, c Customer) error

	GetSubscriptionByUser(ctx context.Context, userID string) (Subscription, bool, error)
	UpsertSubscription(ctx context.Context, s Subscription) error
	SetSubscriptionStatus(ctx context.Context, providerID, status string, cancelAtPeriodEnd bool) (bool, error)

	InsertHistory(ctx context.Context, h HistoryEntry) error
	ListHistoryByUser(ctx context.Context, userID string) ([]HistoryEntry, error)
}

// PaymentsPort is the outbound surface to the payment provider
// the provider itself stays a black box behind this seam
type PaymentsPort interface {
	CreateCustomer(ctx context.Context, email string) (string, error)
	CreateCheckoutSession(ctx context.Context, p CheckoutParams) (string, error)
	CancelAtPeriodEnd(ctx context.Context, subscriptionID string) error
}
