package usecase

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"unimarket/internal/domain/entity"
	"unimarket/pkg/errors"
)

func newTestUsers() (*entity.User, *entity.User) {
	alice := &entity.User{ID: "alice", Username: "alice", Email: "alice@campus.edu", University: "State U", Status: entity.UserStatusActive}
	bob := &entity.User{ID: "bob", Username: "bob", Email: "bob@campus.edu", University: "State U", Status: entity.UserStatusActive}
	return alice, bob
}

func newChatFixture(users ...*entity.User) (*ChatUseCase, *fakeThreadRepo, *fakeNotificationRepo, *recordChannel) {
	threadRepo := newFakeThreadRepo()
	notificationRepo := newFakeNotificationRepo()
	channel := newRecordChannel()
	notifier := NewNotificationUseCase(notificationRepo, channel)
	chat := NewChatUseCase(threadRepo, newFakeUserRepo(users...), notifier, channel)
	return chat, threadRepo, notificationRepo, channel
}

func TestEnsureThreadIdempotent(t *testing.T) {
	alice, bob := newTestUsers()
	chat, threadRepo, _, _ := newChatFixture(alice, bob)
	ctx := context.Background()

	first, err := chat.EnsureThread(ctx, "prod-1", "alice", "bob")
	require.NoError(t, err)

	second, err := chat.EnsureThread(ctx, "prod-1", "alice", "bob")
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 1, threadRepo.creates)
}

func TestEnsureThreadConcurrent(t *testing.T) {
	alice, bob := newTestUsers()
	chat, threadRepo, _, _ := newChatFixture(alice, bob)
	ctx := context.Background()

	var wg sync.WaitGroup
	ids := make([]string, 16)
	for i := range ids {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			thread, err := chat.EnsureThread(ctx, "prod-1", "alice", "bob")
			if assert.NoError(t, err) {
				ids[i] = thread.ID
			}
		}(i)
	}
	wg.Wait()

	for _, id := range ids {
		assert.Equal(t, ids[0], id)
	}
	assert.Equal(t, 1, threadRepo.creates)
}

func TestEnsureThreadDirectPairSymmetric(t *testing.T) {
	alice, bob := newTestUsers()
	chat, threadRepo, _, _ := newChatFixture(alice, bob)
	ctx := context.Background()

	first, err := chat.EnsureThread(ctx, "", "alice", "bob")
	require.NoError(t, err)

	// The same pair with the roles flipped resolves to the same thread.
	second, err := chat.EnsureThread(ctx, "", "bob", "alice")
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 1, threadRepo.creates)
}

func TestEnsureThreadDistinctPerProduct(t *testing.T) {
	alice, bob := newTestUsers()
	chat, _, _, _ := newChatFixture(alice, bob)
	ctx := context.Background()

	productThread, err := chat.EnsureThread(ctx, "prod-1", "alice", "bob")
	require.NoError(t, err)

	otherProduct, err := chat.EnsureThread(ctx, "prod-2", "alice", "bob")
	require.NoError(t, err)

	direct, err := chat.EnsureThread(ctx, "", "alice", "bob")
	require.NoError(t, err)

	assert.NotEqual(t, productThread.ID, otherProduct.ID)
	assert.NotEqual(t, productThread.ID, direct.ID)
}

func TestEnsureThreadRejectsSelfAndEmpty(t *testing.T) {
	alice, bob := newTestUsers()
	chat, _, _, _ := newChatFixture(alice, bob)
	ctx := context.Background()

	_, err := chat.EnsureThread(ctx, "", "alice", "alice")
	assert.True(t, errors.Is(err, "VALIDATION_ERROR"))

	_, err = chat.EnsureThread(ctx, "", "", "bob")
	assert.True(t, errors.Is(err, "VALIDATION_ERROR"))
}

func TestStartThreadRequiresRecipient(t *testing.T) {
	alice, bob := newTestUsers()
	chat, _, _, _ := newChatFixture(alice, bob)
	ctx := context.Background()

	_, err := chat.StartThread(ctx, "alice", "ghost")
	assert.True(t, errors.Is(err, "NOT_FOUND"))

	resp, err := chat.StartThread(ctx, "alice", "bob")
	require.NoError(t, err)
	assert.Equal(t, "bob", resp.OtherUser.ID)
}

func TestSendMessagePersistsAndNotifies(t *testing.T) {
	alice, bob := newTestUsers()
	chat, threadRepo, notificationRepo, channel := newChatFixture(alice, bob)
	ctx := context.Background()

	thread, err := chat.EnsureThread(ctx, "", "alice", "bob")
	require.NoError(t, err)

	resp, err := chat.SendMessage(ctx, "alice", thread.ID, "  hey, is the bike still available?  ")
	require.NoError(t, err)

	assert.Equal(t, "hey, is the bike still available?", resp.Text)
	assert.Equal(t, "alice", resp.SenderID)
	assert.Equal(t, "bob", resp.ReceiverID)
	assert.Equal(t, entity.MessageKindUser, resp.Kind)
	assert.False(t, resp.IsRead)

	// Thread summary moved with the append.
	stored, err := threadRepo.GetByID(ctx, thread.ID)
	require.NoError(t, err)
	assert.Equal(t, "hey, is the bike still available?", stored.LastMessage)

	// One push to the thread room and one message notification for bob.
	assert.Len(t, channel.roomEvents[thread.ID], 1)
	require.Len(t, notificationRepo.notifications, 1)
	assert.Equal(t, "bob", notificationRepo.notifications[0].UserID)
	assert.Equal(t, entity.NotificationTypeMessage, notificationRepo.notifications[0].Type)
	assert.Equal(t, thread.ID, notificationRepo.notifications[0].RelatedID)
}

func TestSendMessageRejectsOutsiderAndBlankText(t *testing.T) {
	alice, bob := newTestUsers()
	mallory := &entity.User{ID: "mallory", Username: "mallory", University: "State U", Status: entity.UserStatusActive}
	chat, _, _, _ := newChatFixture(alice, bob, mallory)
	ctx := context.Background()

	thread, err := chat.EnsureThread(ctx, "", "alice", "bob")
	require.NoError(t, err)

	_, err = chat.SendMessage(ctx, "mallory", thread.ID, "let me in")
	assert.True(t, errors.Is(err, "FORBIDDEN"))

	_, err = chat.SendMessage(ctx, "alice", thread.ID, "   ")
	assert.True(t, errors.Is(err, "VALIDATION_ERROR"))

	_, err = chat.SendMessage(ctx, "alice", "no-such-thread", "hello")
	assert.True(t, errors.Is(err, "NOT_FOUND"))
}

func TestAppendRejectsUnknownKind(t *testing.T) {
	alice, bob := newTestUsers()
	chat, _, _, _ := newChatFixture(alice, bob)
	ctx := context.Background()

	thread, err := chat.EnsureThread(ctx, "", "alice", "bob")
	require.NoError(t, err)

	_, err = chat.Append(ctx, thread, "alice", "bob", "hi", "", "broadcast")
	assert.True(t, errors.Is(err, "VALIDATION_ERROR"))
}

func TestAppendSystemKindAllowsSystemAuthor(t *testing.T) {
	bob := &entity.User{ID: "bob", Username: "bob", University: "State U", Status: entity.UserStatusActive}
	chat, _, _, _ := newChatFixture(bob)
	ctx := context.Background()

	thread, err := chat.EnsureThread(ctx, "", entity.SystemSenderID, "bob")
	require.NoError(t, err)

	message, err := chat.Append(ctx, thread, entity.SystemSenderID, "bob", "Your listing was suspended.", "", entity.MessageKindSystem)
	require.NoError(t, err)
	assert.Equal(t, entity.SystemSenderID, message.SenderID)

	// An unrelated ID cannot author system messages.
	_, err = chat.Append(ctx, thread, "mallory", "bob", "spoofed", "", entity.MessageKindSystem)
	assert.True(t, errors.Is(err, "FORBIDDEN"))
}

func TestListThreadsCountsUnread(t *testing.T) {
	alice, bob := newTestUsers()
	chat, _, _, _ := newChatFixture(alice, bob)
	ctx := context.Background()

	thread, err := chat.EnsureThread(ctx, "", "alice", "bob")
	require.NoError(t, err)

	for _, text := range []string{"one", "two", "three"} {
		_, err := chat.SendMessage(ctx, "alice", thread.ID, text)
		require.NoError(t, err)
	}

	bobThreads, _, err := chat.ListThreads(ctx, "bob", 20, 0)
	require.NoError(t, err)
	require.Len(t, bobThreads, 1)
	assert.Equal(t, int64(3), bobThreads[0].UnreadCount)
	assert.Equal(t, "alice", bobThreads[0].OtherUser.ID)

	aliceThreads, _, err := chat.ListThreads(ctx, "alice", 20, 0)
	require.NoError(t, err)
	require.Len(t, aliceThreads, 1)
	assert.Equal(t, int64(0), aliceThreads[0].UnreadCount)
}

func TestMarkThreadReadClearsBothCursors(t *testing.T) {
	alice, bob := newTestUsers()
	chat, threadRepo, notificationRepo, _ := newChatFixture(alice, bob)
	ctx := context.Background()

	thread, err := chat.EnsureThread(ctx, "", "alice", "bob")
	require.NoError(t, err)

	_, err = chat.SendMessage(ctx, "alice", thread.ID, "ping")
	require.NoError(t, err)

	unread, err := threadRepo.CountUnreadMessages(ctx, thread.ID, "bob")
	require.NoError(t, err)
	assert.Equal(t, int64(1), unread)

	require.NoError(t, chat.MarkThreadRead(ctx, "bob", thread.ID))

	unread, err = threadRepo.CountUnreadMessages(ctx, thread.ID, "bob")
	require.NoError(t, err)
	assert.Equal(t, int64(0), unread)

	// The message notification for the thread is cleared in the same call.
	count, err := notificationRepo.CountUnread(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}

func TestMarkThreadReadOnlyFlipsReadFlag(t *testing.T) {
	alice, bob := newTestUsers()
	chat, _, _, _ := newChatFixture(alice, bob)
	ctx := context.Background()

	thread, err := chat.EnsureThread(ctx, "", "alice", "bob")
	require.NoError(t, err)

	sent, err := chat.SendMessage(ctx, "alice", thread.ID, "meet at the library?")
	require.NoError(t, err)

	require.NoError(t, chat.MarkThreadRead(ctx, "bob", thread.ID))

	messages, _, err := chat.ListMessages(ctx, "bob", thread.ID, 50, 0)
	require.NoError(t, err)
	require.Len(t, messages, 1)

	// Read marks flip isRead and nothing else.
	stored := messages[0]
	assert.True(t, stored.IsRead)
	assert.Equal(t, sent.ID, stored.ID)
	assert.Equal(t, "meet at the library?", stored.Text)
	assert.Equal(t, "alice", stored.SenderID)
	assert.Equal(t, "bob", stored.ReceiverID)
	assert.Equal(t, entity.MessageKindUser, stored.Kind)
	assert.Equal(t, sent.CreatedAt, stored.CreatedAt)
}

func TestMarkThreadReadRequiresParticipant(t *testing.T) {
	alice, bob := newTestUsers()
	mallory := &entity.User{ID: "mallory", Username: "mallory", University: "State U", Status: entity.UserStatusActive}
	chat, _, _, _ := newChatFixture(alice, bob, mallory)
	ctx := context.Background()

	thread, err := chat.EnsureThread(ctx, "", "alice", "bob")
	require.NoError(t, err)

	err = chat.MarkThreadRead(ctx, "mallory", thread.ID)
	assert.True(t, errors.Is(err, "FORBIDDEN"))
}

func TestListMessagesRequiresParticipant(t *testing.T) {
	alice, bob := newTestUsers()
	mallory := &entity.User{ID: "mallory", Username: "mallory", University: "State U", Status: entity.UserStatusActive}
	chat, _, _, _ := newChatFixture(alice, bob, mallory)
	ctx := context.Background()

	thread, err := chat.EnsureThread(ctx, "", "alice", "bob")
	require.NoError(t, err)

	_, err = chat.SendMessage(ctx, "alice", thread.ID, "hello")
	require.NoError(t, err)

	messages, total, err := chat.ListMessages(ctx, "bob", thread.ID, 50, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Len(t, messages, 1)

	_, _, err = chat.ListMessages(ctx, "mallory", thread.ID, 50, 0)
	assert.True(t, errors.Is(err, "FORBIDDEN"))
}

func TestSendMessageRateLimited(t *testing.T) {
	alice, bob := newTestUsers()
	chat, _, _, _ := newChatFixture(alice, bob)
	ctx := context.Background()

	thread, err := chat.EnsureThread(ctx, "", "alice", "bob")
	require.NoError(t, err)

	// send_message allows 10 per minute.
	for i := 0; i < 10; i++ {
		_, err := chat.SendMessage(ctx, "alice", thread.ID, "burst")
		require.NoError(t, err)
	}

	_, err = chat.SendMessage(ctx, "alice", thread.ID, "one too many")
	assert.True(t, errors.Is(err, "TOO_MANY_REQUESTS"))

	// The limit is per user; bob is unaffected.
	_, err = chat.SendMessage(ctx, "bob", thread.ID, "still fine")
	assert.NoError(t, err)
}
