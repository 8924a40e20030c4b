package usecase

import (
	"context"
	"fmt"

	"unimarket/internal/domain/entity"
	"unimarket/internal/domain/repository"
	"unimarket/internal/domain/service"
	"unimarket/pkg/errors"
)

// NotificationUseCase creates and queries the typed notification records that
// back badges and deep links. Persisting the record is the hard requirement
// of every notify operation; the live push that follows is best-effort.
type NotificationUseCase struct {
	notificationRepo repository.NotificationRepository
	channel          service.RealtimeChannel
}

func NewNotificationUseCase(
	notificationRepo repository.NotificationRepository,
	channel service.RealtimeChannel,
) *NotificationUseCase {
	return &NotificationUseCase{
		notificationRepo: notificationRepo,
		channel:          channel,
	}
}

// NotifyBid records the seller's bid alert. RelatedID carries the thread so
// the client can deep-link straight into the conversation.
func (uc *NotificationUseCase) NotifyBid(ctx context.Context, thread *entity.Thread, sellerID, buyerName string, amount float64, productTitle, productImage string) (*entity.Notification, error) {
	notification := &entity.Notification{
		UserID:    sellerID,
		Type:      entity.NotificationTypeBid,
		Message:   fmt.Sprintf("%s placed a bid of $%s on %q", buyerName, formatAmount(amount), productTitle),
		RelatedID: thread.ID,
	}

	if err := uc.notificationRepo.Create(ctx, notification); err != nil {
		return nil, err
	}

	uc.channel.EmitToUser(sellerID, newNotificationEvent(notification, thread.ProductID, productImage))

	return notification, nil
}

// NotifyMessage records the receiver's new-message alert for a thread. These
// are the records the thread-scoped notification cursor operates on.
func (uc *NotificationUseCase) NotifyMessage(ctx context.Context, thread *entity.Thread, receiverID, senderName string) (*entity.Notification, error) {
	notification := &entity.Notification{
		UserID:    receiverID,
		Type:      entity.NotificationTypeMessage,
		Message:   fmt.Sprintf("New message from %s", senderName),
		RelatedID: thread.ID,
	}

	if err := uc.notificationRepo.Create(ctx, notification); err != nil {
		return nil, err
	}

	uc.channel.EmitToUser(receiverID, newNotificationEvent(notification, thread.ProductID, ""))

	return notification, nil
}

// NotifyAdminMessage records a moderation alert for a user.
func (uc *NotificationUseCase) NotifyAdminMessage(ctx context.Context, userID, message, relatedID, productID, productImage string) (*entity.Notification, error) {
	notification := &entity.Notification{
		UserID:    userID,
		Type:      entity.NotificationTypeAdmin,
		Message:   message,
		RelatedID: relatedID,
	}

	if err := uc.notificationRepo.Create(ctx, notification); err != nil {
		return nil, err
	}

	uc.channel.EmitToUser(userID, newNotificationEvent(notification, productID, productImage))

	return notification, nil
}

func (uc *NotificationUseCase) List(ctx context.Context, userID string, limit, offset int) ([]*entity.Notification, int64, error) {
	return uc.notificationRepo.ListByUserID(ctx, userID, limit, offset)
}

func (uc *NotificationUseCase) UnreadCount(ctx context.Context, userID string) (int64, error) {
	return uc.notificationRepo.CountUnread(ctx, userID)
}

// MarkRead flips one notification, owner-checked.
func (uc *NotificationUseCase) MarkRead(ctx context.Context, userID, notificationID string) error {
	notification, err := uc.notificationRepo.GetByID(ctx, notificationID)
	if err != nil {
		return err
	}

	if notification.UserID != userID {
		return errors.Forbidden("Notification belongs to another user", nil)
	}

	return uc.notificationRepo.MarkRead(ctx, notificationID)
}

func (uc *NotificationUseCase) MarkAllRead(ctx context.Context, userID string) error {
	return uc.notificationRepo.MarkAllRead(ctx, userID)
}

// MarkThreadMessagesRead clears the message-type notifications that
// deep-link into the given thread. This is the notification half of the
// two-cursor read state.
func (uc *NotificationUseCase) MarkThreadMessagesRead(ctx context.Context, threadID, userID string) error {
	return uc.notificationRepo.MarkThreadMessagesRead(ctx, threadID, userID)
}
