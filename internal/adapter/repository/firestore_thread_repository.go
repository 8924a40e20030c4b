package repository

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"unimarket/internal/domain/entity"
	"unimarket/internal/domain/repository"
	"unimarket/pkg/errors"
	"unimarket/pkg/logger"
)

type firestoreThreadRepository struct {
	client *firestore.Client
}

func NewFirestoreThreadRepository(client *firestore.Client) repository.ThreadRepository {
	return &firestoreThreadRepository{
		client: client,
	}
}

func (r *firestoreThreadRepository) threads() *firestore.CollectionRef {
	return r.client.Collection("threads")
}

func (r *firestoreThreadRepository) messages(threadID string) *firestore.CollectionRef {
	return r.threads().Doc(threadID).Collection("messages")
}

// GetOrCreate relies on the thread's deterministic document ID: Create fails
// with AlreadyExists when a concurrent caller won the race, and the winner's
// row is re-read instead of surfacing the conflict.
func (r *firestoreThreadRepository) GetOrCreate(ctx context.Context, thread *entity.Thread) (*entity.Thread, error) {
	docRef := r.threads().Doc(thread.ID)

	doc, err := docRef.Get(ctx)
	if err == nil {
		var existing entity.Thread
		if err := doc.DataTo(&existing); err != nil {
			return nil, errors.Internal("Failed to parse thread data", err)
		}
		return &existing, nil
	}
	if status.Code(err) != codes.NotFound {
		return nil, errors.Internal("Failed to look up thread", err)
	}

	now := time.Now()
	thread.CreatedAt = now
	thread.UpdatedAt = now
	thread.LastMessageAt = now

	if _, err := docRef.Create(ctx, thread); err != nil {
		if status.Code(err) == codes.AlreadyExists {
			logger.Debug("thread %s lost creation race, returning winner", thread.ID)
			return r.GetByID(ctx, thread.ID)
		}
		return nil, errors.Internal("Failed to create thread", err)
	}

	return thread, nil
}

func (r *firestoreThreadRepository) GetByID(ctx context.Context, id string) (*entity.Thread, error) {
	doc, err := r.threads().Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Thread", nil)
		}
		return nil, errors.Internal("Failed to get thread", err)
	}

	var thread entity.Thread
	if err := doc.DataTo(&thread); err != nil {
		return nil, errors.Internal("Failed to parse thread data", err)
	}

	return &thread, nil
}

func (r *firestoreThreadRepository) ListByUserID(ctx context.Context, userID string, limit, offset int) ([]*entity.Thread, int64, error) {
	// A thread stores the user in either role, so both sides are queried and
	// merged ordered by recency.
	buyerDocs, err := r.threads().Where("buyerId", "==", userID).Documents(ctx).GetAll()
	if err != nil {
		return nil, 0, errors.Internal("Failed to fetch threads", err)
	}
	sellerDocs, err := r.threads().Where("sellerId", "==", userID).Documents(ctx).GetAll()
	if err != nil {
		return nil, 0, errors.Internal("Failed to fetch threads", err)
	}

	var threads []*entity.Thread
	for _, doc := range append(buyerDocs, sellerDocs...) {
		var thread entity.Thread
		if err := doc.DataTo(&thread); err != nil {
			logger.Warn("skipping malformed thread %s: %v", doc.Ref.ID, err)
			continue
		}
		threads = append(threads, &thread)
	}

	sortThreadsByActivity(threads)
	total := int64(len(threads))

	start := offset
	if start > len(threads) {
		start = len(threads)
	}
	end := len(threads)
	if limit > 0 && start+limit < end {
		end = start + limit
	}

	return threads[start:end], total, nil
}

func sortThreadsByActivity(threads []*entity.Thread) {
	for i := 1; i < len(threads); i++ {
		for j := i; j > 0 && threads[j].LastMessageAt.After(threads[j-1].LastMessageAt); j-- {
			threads[j], threads[j-1] = threads[j-1], threads[j]
		}
	}
}

// CreateMessage pairs the message insert with the thread summary update in a
// single transaction so the denormalized lastMessage can never drift from the
// ledger.
func (r *firestoreThreadRepository) CreateMessage(ctx context.Context, message *entity.Message) error {
	if message.ID == "" {
		message.ID = uuid.New().String()
	}
	message.CreatedAt = time.Now()

	threadRef := r.threads().Doc(message.ThreadID)
	messageRef := r.messages(message.ThreadID).Doc(message.ID)

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		if _, err := tx.Get(threadRef); err != nil {
			return err
		}
		if err := tx.Create(messageRef, message); err != nil {
			return err
		}
		return tx.Update(threadRef, []firestore.Update{
			{Path: "lastMessage", Value: message.Text},
			{Path: "lastMessageAt", Value: message.CreatedAt},
			{Path: "updatedAt", Value: message.CreatedAt},
		})
	})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return errors.NotFound("Thread", err)
		}
		return errors.Internal("Failed to create message", err)
	}

	return nil
}

func (r *firestoreThreadRepository) ListMessages(ctx context.Context, threadID string, limit, offset int) ([]*entity.Message, int64, error) {
	query := r.messages(threadID).OrderBy("createdAt", firestore.Asc)

	allDocs, err := query.Documents(ctx).GetAll()
	if err != nil {
		return nil, 0, errors.Internal("Failed to fetch messages", err)
	}
	total := int64(len(allDocs))

	start := offset
	if start > len(allDocs) {
		start = len(allDocs)
	}
	end := len(allDocs)
	if limit > 0 && start+limit < end {
		end = start + limit
	}

	var messages []*entity.Message
	for _, doc := range allDocs[start:end] {
		var message entity.Message
		if err := doc.DataTo(&message); err != nil {
			logger.Warn("skipping malformed message %s in thread %s: %v", doc.Ref.ID, threadID, err)
			continue
		}
		messages = append(messages, &message)
	}

	return messages, total, nil
}

func (r *firestoreThreadRepository) MarkMessagesRead(ctx context.Context, threadID, userID string) error {
	docs, err := r.messages(threadID).
		Where("receiverId", "==", userID).
		Where("isRead", "==", false).
		Documents(ctx).GetAll()
	if err != nil {
		return errors.Internal("Failed to query unread messages", err)
	}
	if len(docs) == 0 {
		return nil
	}

	bw := r.client.BulkWriter(ctx)
	for _, doc := range docs {
		if _, err := bw.Update(doc.Ref, []firestore.Update{
			{Path: "isRead", Value: true},
		}); err != nil {
			bw.End()
			return errors.Internal("Failed to mark messages read", err)
		}
	}
	bw.End()

	return nil
}

func (r *firestoreThreadRepository) CountUnreadMessages(ctx context.Context, threadID, userID string) (int64, error) {
	iter := r.messages(threadID).
		Where("receiverId", "==", userID).
		Where("isRead", "==", false).
		Documents(ctx)

	var count int64
	for {
		_, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return 0, errors.Internal("Failed to count unread messages", err)
		}
		count++
	}

	return count, nil
}
