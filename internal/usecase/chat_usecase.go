package usecase

import (
	"context"
	"strings"

	"unimarket/internal/domain/entity"
	"unimarket/internal/domain/repository"
	"unimarket/internal/domain/service"
	"unimarket/internal/infrastructure/ratelimit"
	"unimarket/pkg/errors"
	"unimarket/pkg/logger"
)

// ChatUseCase owns conversations: the idempotent thread registry, the
// append-only message ledger, and the per-thread read cursors.
type ChatUseCase struct {
	threadRepo  repository.ThreadRepository
	userRepo    repository.UserRepository
	notifier    *NotificationUseCase
	channel     service.RealtimeChannel
	rateLimiter *ratelimit.RateLimiter
}

func NewChatUseCase(
	threadRepo repository.ThreadRepository,
	userRepo repository.UserRepository,
	notifier *NotificationUseCase,
	channel service.RealtimeChannel,
) *ChatUseCase {
	rateLimiter := ratelimit.NewRateLimiter()
	rateLimiter.StartCleanupRoutine()

	return &ChatUseCase{
		threadRepo:  threadRepo,
		userRepo:    userRepo,
		notifier:    notifier,
		channel:     channel,
		rateLimiter: rateLimiter,
	}
}

type ThreadResponse struct {
	*entity.Thread
	OtherUser   *entity.User `json:"other_user,omitempty"`
	UnreadCount int64        `json:"unread_count"`
}

type MessageResponse struct {
	*entity.Message
	Sender *entity.User `json:"sender,omitempty"`
}

// EnsureThread is the get-or-create registry operation. The conversation key
// is deterministic, so concurrent callers converge on a single row; losing a
// creation race is resolved by returning the winner, never an error.
func (uc *ChatUseCase) EnsureThread(ctx context.Context, productID, buyerID, sellerID string) (*entity.Thread, error) {
	if buyerID == "" || sellerID == "" {
		return nil, errors.Validation("Both participants are required", nil)
	}
	if buyerID == sellerID {
		return nil, errors.Validation("A conversation needs two distinct participants", nil)
	}

	thread := &entity.Thread{
		ID:        entity.ThreadKey(productID, buyerID, sellerID),
		BuyerID:   buyerID,
		SellerID:  sellerID,
		ProductID: productID,
	}

	return uc.threadRepo.GetOrCreate(ctx, thread)
}

// StartThread opens (or returns) the product-less conversation between the
// caller and a recipient, the entry point for feed-originated chats.
func (uc *ChatUseCase) StartThread(ctx context.Context, userID, recipientID string) (*ThreadResponse, error) {
	if userID == recipientID {
		return nil, errors.BadRequest("You cannot start a conversation with yourself", nil)
	}

	recipient, err := uc.userRepo.GetByID(ctx, recipientID)
	if err != nil {
		return nil, errors.NotFound("Recipient", err)
	}

	thread, err := uc.EnsureThread(ctx, "", userID, recipientID)
	if err != nil {
		return nil, err
	}

	return &ThreadResponse{
		Thread:    thread,
		OtherUser: recipient,
	}, nil
}

// Append is the message ledger operation: it persists one immutable message
// and updates the thread summary transactionally. It does not push. Callers
// that want live delivery emit after the append succeeds.
func (uc *ChatUseCase) Append(ctx context.Context, thread *entity.Thread, senderID, receiverID, text, productImage, kind string) (*entity.Message, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, errors.Validation("Message text is required", nil)
	}

	switch kind {
	case entity.MessageKindUser:
		if !thread.HasParticipant(senderID) {
			return nil, errors.Forbidden("Sender is not a participant in this conversation", nil)
		}
	case entity.MessageKindSystem:
		if senderID != entity.SystemSenderID && !thread.HasParticipant(senderID) {
			return nil, errors.Forbidden("System messages require a participant or the system author", nil)
		}
	default:
		return nil, errors.Validation("Unknown message kind", nil)
	}

	if !thread.HasParticipant(receiverID) || receiverID == senderID {
		return nil, errors.Validation("Receiver must be the other participant", nil)
	}

	message := &entity.Message{
		ThreadID:     thread.ID,
		SenderID:     senderID,
		ReceiverID:   receiverID,
		Text:         text,
		ProductImage: productImage,
		Kind:         kind,
	}

	if err := uc.threadRepo.CreateMessage(ctx, message); err != nil {
		return nil, err
	}

	return message, nil
}

// SendMessage is the user-facing send path: participant check, ledger append,
// then best-effort live push and a message-type notification for the
// receiver's badge.
func (uc *ChatUseCase) SendMessage(ctx context.Context, senderID, threadID, text string) (*MessageResponse, error) {
	allowed, wait := uc.rateLimiter.Allow(senderID, "send_message")
	if !allowed {
		logger.Warn("rate limited: user %s must wait %v before sending", senderID, wait)
		return nil, errors.TooManyRequests("You are sending messages too quickly")
	}

	thread, err := uc.threadRepo.GetByID(ctx, threadID)
	if err != nil {
		return nil, err
	}

	if !thread.HasParticipant(senderID) {
		return nil, errors.Forbidden("You are not a participant in this conversation", nil)
	}

	sender, err := uc.userRepo.GetByID(ctx, senderID)
	if err != nil {
		return nil, errors.NotFound("Sender", err)
	}

	receiverID := thread.Counterpart(senderID)

	message, err := uc.Append(ctx, thread, senderID, receiverID, text, "", entity.MessageKindUser)
	if err != nil {
		return nil, err
	}

	uc.channel.EmitToRoom(thread.ID, newMessageEvent(message))

	if _, err := uc.notifier.NotifyMessage(ctx, thread, receiverID, sender.Username); err != nil {
		logger.Error("failed to create message notification for thread %s: %v", thread.ID, err)
	}

	return &MessageResponse{
		Message: message,
		Sender:  sender,
	}, nil
}

// ListThreads returns the caller's conversations with counterpart identity
// and the unread message count backing the chat badge.
func (uc *ChatUseCase) ListThreads(ctx context.Context, userID string, limit, offset int) ([]*ThreadResponse, int64, error) {
	threads, total, err := uc.threadRepo.ListByUserID(ctx, userID, limit, offset)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]*ThreadResponse, 0, len(threads))
	for _, thread := range threads {
		resp := &ThreadResponse{Thread: thread}

		if otherID := thread.Counterpart(userID); otherID != "" && otherID != entity.SystemSenderID {
			otherUser, err := uc.userRepo.GetByID(ctx, otherID)
			if err != nil {
				logger.Warn("counterpart %s not found for thread %s: %v", otherID, thread.ID, err)
			} else {
				resp.OtherUser = otherUser
			}
		}

		unread, err := uc.threadRepo.CountUnreadMessages(ctx, thread.ID, userID)
		if err != nil {
			logger.Warn("failed to count unread for thread %s: %v", thread.ID, err)
		} else {
			resp.UnreadCount = unread
		}

		responses = append(responses, resp)
	}

	return responses, total, nil
}

// ListMessages returns the ordered history of a thread for a participant.
func (uc *ChatUseCase) ListMessages(ctx context.Context, userID, threadID string, limit, offset int) ([]*entity.Message, int64, error) {
	thread, err := uc.threadRepo.GetByID(ctx, threadID)
	if err != nil {
		return nil, 0, err
	}

	if !thread.HasParticipant(userID) {
		return nil, 0, errors.Forbidden("You are not a participant in this conversation", nil)
	}

	return uc.threadRepo.ListMessages(ctx, threadID, limit, offset)
}

// MarkThreadRead advances both unread cursors for the thread: messages
// addressed to the caller and the message-type notifications that deep-link
// into it. Chat and notification badges therefore agree once a conversation
// is opened, regardless of which endpoint the client calls.
func (uc *ChatUseCase) MarkThreadRead(ctx context.Context, userID, threadID string) error {
	thread, err := uc.threadRepo.GetByID(ctx, threadID)
	if err != nil {
		return err
	}

	if !thread.HasParticipant(userID) {
		return errors.Forbidden("You are not a participant in this conversation", nil)
	}

	if err := uc.threadRepo.MarkMessagesRead(ctx, threadID, userID); err != nil {
		return err
	}

	return uc.notifier.MarkThreadMessagesRead(ctx, threadID, userID)
}
