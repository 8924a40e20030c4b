package repository

import (
	"context"

	"unimarket/internal/domain/entity"
)

// ThreadRepository owns threads and their message subcollection. GetOrCreate
// is the uniqueness authority for the conversation tuple: the store, not the
// process, decides which concurrent creator wins.
type ThreadRepository interface {
	// GetOrCreate returns the existing thread for thread.ID, or persists the
	// given one. A creation that loses a race returns the winner's row.
	GetOrCreate(ctx context.Context, thread *entity.Thread) (*entity.Thread, error)
	GetByID(ctx context.Context, id string) (*entity.Thread, error)
	ListByUserID(ctx context.Context, userID string, limit, offset int) ([]*entity.Thread, int64, error)

	// CreateMessage persists the message and updates the parent thread's
	// lastMessage/lastMessageAt summary in the same transaction.
	CreateMessage(ctx context.Context, message *entity.Message) error
	ListMessages(ctx context.Context, threadID string, limit, offset int) ([]*entity.Message, int64, error)
	MarkMessagesRead(ctx context.Context, threadID, userID string) error
	CountUnreadMessages(ctx context.Context, threadID, userID string) (int64, error)
}
