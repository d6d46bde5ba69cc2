package ports

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
)

// DevPaymentProvider authorizes every charge. Used when no real provider is
// configured so local checkouts complete end to end.
type DevPaymentProvider struct{}

func (DevPaymentProvider) Authorize(_ context.Context, _ string, _ int64) (string, error) {
	return "dev-" + uuid.NewString(), nil
}

// LogNotifier writes notifications to the log instead of a push gateway.
type LogNotifier struct {
	Logger *slog.Logger
}

func (n LogNotifier) OrderCreated(ctx context.Context, userID, orderID string) error {
	n.Logger.InfoContext(ctx, "order notification", "user_id", userID, "order_id", orderID)
	return nil
}
