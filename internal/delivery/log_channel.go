package delivery

import (
	"context"

	"supplymatch_backend/internal/logger"
)

// LogChannel writes notifications to the log instead of delivering them.
// Default channel in development.
type LogChannel struct{}

func NewLogChannel() *LogChannel {
	return &LogChannel{}
}

func (c *LogChannel) Deliver(ctx context.Context, notification Notification) error {
	logger.CtxInfo(ctx, "delivering match notification",
		"match_id", notification.MatchID,
		"supplier_user_id", notification.SupplierUserID,
		"request_id", notification.Request.RequestID,
	)
	return nil
}
