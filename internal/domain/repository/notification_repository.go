package repository

import (
	"context"

	"unimarket/internal/domain/entity"
)

type NotificationRepository interface {
	Create(ctx context.Context, notification *entity.Notification) error
	GetByID(ctx context.Context, id string) (*entity.Notification, error)
	ListByUserID(ctx context.Context, userID string, limit, offset int) ([]*entity.Notification, int64, error)
	CountUnread(ctx context.Context, userID string) (int64, error)
	MarkRead(ctx context.Context, id string) error
	MarkAllRead(ctx context.Context, userID string) error
	// MarkThreadMessagesRead flips the message-type notifications that
	// deep-link into the given thread.
	MarkThreadMessagesRead(ctx context.Context, threadID, userID string) error
}
