package entity

import "time"

const (
	MessageKindUser   = "user"
	MessageKindSystem = "system"
)

// SystemSenderID is the reserved author ID for automated messages (bid
// confirmations, moderation notices). It is a constant, not a persisted
// account, and can never authenticate.
const SystemSenderID = "system"

// Message is one unit of conversation content. Immutable after creation
// except for IsRead.
type Message struct {
	ID           string    `json:"id" firestore:"id"`
	ThreadID     string    `json:"thread_id" firestore:"threadId"`
	SenderID     string    `json:"sender_id" firestore:"senderId"`
	ReceiverID   string    `json:"receiver_id" firestore:"receiverId"`
	Text         string    `json:"text" firestore:"text"`
	ProductImage string    `json:"product_image,omitempty" firestore:"productImage,omitempty"`
	Kind         string    `json:"kind" firestore:"kind"`
	IsRead       bool      `json:"is_read" firestore:"isRead"`
	CreatedAt    time.Time `json:"created_at" firestore:"createdAt"`
}
