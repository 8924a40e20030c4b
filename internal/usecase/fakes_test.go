package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"unimarket/internal/domain/entity"
	"unimarket/pkg/errors"
)

// fakeThreadRepo is an in-memory ThreadRepository with the same contract as
// the Firestore adapter: GetOrCreate is first-writer-wins on thread.ID, and
// CreateMessage fills server-side fields and the thread summary together.
type fakeThreadRepo struct {
	mu       sync.Mutex
	threads  map[string]*entity.Thread
	messages []*entity.Message
	seq      int

	creates           int
	failGetOrCreate   error
	failCreateMessage error
}

func newFakeThreadRepo() *fakeThreadRepo {
	return &fakeThreadRepo{threads: make(map[string]*entity.Thread)}
}

func (r *fakeThreadRepo) GetOrCreate(ctx context.Context, thread *entity.Thread) (*entity.Thread, error) {
	if r.failGetOrCreate != nil {
		return nil, r.failGetOrCreate
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.threads[thread.ID]; ok {
		return existing, nil
	}

	now := time.Now()
	stored := *thread
	stored.CreatedAt = now
	stored.UpdatedAt = now
	r.threads[stored.ID] = &stored
	r.creates++
	return &stored, nil
}

func (r *fakeThreadRepo) GetByID(ctx context.Context, id string) (*entity.Thread, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	thread, ok := r.threads[id]
	if !ok {
		return nil, errors.NotFound("Thread", nil)
	}
	return thread, nil
}

func (r *fakeThreadRepo) ListByUserID(ctx context.Context, userID string, limit, offset int) ([]*entity.Thread, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*entity.Thread
	for _, thread := range r.threads {
		if thread.HasParticipant(userID) {
			out = append(out, thread)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeThreadRepo) CreateMessage(ctx context.Context, message *entity.Message) error {
	if r.failCreateMessage != nil {
		return r.failCreateMessage
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	thread, ok := r.threads[message.ThreadID]
	if !ok {
		return errors.NotFound("Thread", nil)
	}

	r.seq++
	message.ID = fmt.Sprintf("msg-%d", r.seq)
	message.IsRead = false
	message.CreatedAt = time.Now()

	stored := *message
	r.messages = append(r.messages, &stored)

	thread.LastMessage = message.Text
	thread.LastMessageAt = message.CreatedAt
	thread.UpdatedAt = message.CreatedAt
	return nil
}

func (r *fakeThreadRepo) ListMessages(ctx context.Context, threadID string, limit, offset int) ([]*entity.Message, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*entity.Message
	for _, m := range r.messages {
		if m.ThreadID == threadID {
			out = append(out, m)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeThreadRepo) MarkMessagesRead(ctx context.Context, threadID, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, m := range r.messages {
		if m.ThreadID == threadID && m.ReceiverID == userID {
			m.IsRead = true
		}
	}
	return nil
}

func (r *fakeThreadRepo) CountUnreadMessages(ctx context.Context, threadID, userID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var count int64
	for _, m := range r.messages {
		if m.ThreadID == threadID && m.ReceiverID == userID && !m.IsRead {
			count++
		}
	}
	return count, nil
}

type fakeNotificationRepo struct {
	mu            sync.Mutex
	notifications []*entity.Notification
	seq           int

	failCreate error
}

func newFakeNotificationRepo() *fakeNotificationRepo {
	return &fakeNotificationRepo{}
}

func (r *fakeNotificationRepo) Create(ctx context.Context, notification *entity.Notification) error {
	if r.failCreate != nil {
		return r.failCreate
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.seq++
	notification.ID = fmt.Sprintf("notif-%d", r.seq)
	notification.CreatedAt = time.Now()

	stored := *notification
	r.notifications = append(r.notifications, &stored)
	return nil
}

func (r *fakeNotificationRepo) GetByID(ctx context.Context, id string) (*entity.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, n := range r.notifications {
		if n.ID == id {
			return n, nil
		}
	}
	return nil, errors.NotFound("Notification", nil)
}

func (r *fakeNotificationRepo) ListByUserID(ctx context.Context, userID string, limit, offset int) ([]*entity.Notification, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*entity.Notification
	for _, n := range r.notifications {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeNotificationRepo) CountUnread(ctx context.Context, userID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var count int64
	for _, n := range r.notifications {
		if n.UserID == userID && !n.IsRead {
			count++
		}
	}
	return count, nil
}

func (r *fakeNotificationRepo) MarkRead(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, n := range r.notifications {
		if n.ID == id {
			n.IsRead = true
			return nil
		}
	}
	return errors.NotFound("Notification", nil)
}

func (r *fakeNotificationRepo) MarkAllRead(ctx context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, n := range r.notifications {
		if n.UserID == userID {
			n.IsRead = true
		}
	}
	return nil
}

func (r *fakeNotificationRepo) MarkThreadMessagesRead(ctx context.Context, threadID, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, n := range r.notifications {
		if n.UserID == userID && n.Type == entity.NotificationTypeMessage && n.RelatedID == threadID {
			n.IsRead = true
		}
	}
	return nil
}

type fakeBidRepo struct {
	mu   sync.Mutex
	bids []*entity.Bid
	seq  int

	failCreate error
}

func newFakeBidRepo() *fakeBidRepo {
	return &fakeBidRepo{}
}

func (r *fakeBidRepo) Create(ctx context.Context, bid *entity.Bid) error {
	if r.failCreate != nil {
		return r.failCreate
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.seq++
	bid.ID = fmt.Sprintf("bid-%d", r.seq)
	bid.CreatedAt = time.Now()

	stored := *bid
	r.bids = append(r.bids, &stored)
	return nil
}

func (r *fakeBidRepo) GetByID(ctx context.Context, id string) (*entity.Bid, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, b := range r.bids {
		if b.ID == id {
			return b, nil
		}
	}
	return nil, errors.NotFound("Bid", nil)
}

func (r *fakeBidRepo) ListByProductID(ctx context.Context, productID string, limit, offset int) ([]*entity.Bid, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*entity.Bid
	for _, b := range r.bids {
		if b.ProductID == productID {
			out = append(out, b)
		}
	}
	return out, int64(len(out)), nil
}

type fakeUserRepo struct {
	users map[string]*entity.User
}

func newFakeUserRepo(users ...*entity.User) *fakeUserRepo {
	repo := &fakeUserRepo{users: make(map[string]*entity.User)}
	for _, u := range users {
		repo.users[u.ID] = u
	}
	return repo
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, errors.NotFound("User", nil)
	}
	return user, nil
}

type fakeProductRepo struct {
	mu       sync.Mutex
	products map[string]*entity.Product

	failUpdate error
}

func newFakeProductRepo(products ...*entity.Product) *fakeProductRepo {
	repo := &fakeProductRepo{products: make(map[string]*entity.Product)}
	for _, p := range products {
		repo.products[p.ID] = p
	}
	return repo
}

func (r *fakeProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	product, ok := r.products[id]
	if !ok {
		return nil, errors.NotFound("Product", nil)
	}
	return product, nil
}

func (r *fakeProductRepo) UpdateStatus(ctx context.Context, id, status string) error {
	if r.failUpdate != nil {
		return r.failUpdate
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	product, ok := r.products[id]
	if !ok {
		return errors.NotFound("Product", nil)
	}
	product.Status = status
	return nil
}

// recordChannel captures pushed events for assertions.
type recordChannel struct {
	mu         sync.Mutex
	roomEvents map[string][]interface{}
	userEvents map[string][]interface{}
}

func newRecordChannel() *recordChannel {
	return &recordChannel{
		roomEvents: make(map[string][]interface{}),
		userEvents: make(map[string][]interface{}),
	}
}

func (c *recordChannel) JoinRoom(roomID, userID string)  {}
func (c *recordChannel) LeaveRoom(roomID, userID string) {}

func (c *recordChannel) EmitToRoom(roomID string, event interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.roomEvents[roomID] = append(c.roomEvents[roomID], event)
}

func (c *recordChannel) EmitToUser(userID string, event interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.userEvents[userID] = append(c.userEvents[userID], event)
}

type sentMail struct {
	to           string
	productTitle string
	reason       string
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []sentMail

	failSend error
}

func (m *fakeMailer) SendSuspensionNotice(ctx context.Context, to, productTitle, reason string) error {
	if m.failSend != nil {
		return m.failSend
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, sentMail{to: to, productTitle: productTitle, reason: reason})
	return nil
}
