package entity

import "time"

const (
	NotificationTypeBid     = "bid"
	NotificationTypeSale    = "sale" // reserved for the transaction flow
	NotificationTypeMessage = "message"
	NotificationTypeAdmin   = "admin_message"
)

// Notification is a queryable, user-addressed alert record distinct from a
// chat message. RelatedID carries the thread or entity ID for deep-linking.
type Notification struct {
	ID        string    `json:"id" firestore:"id"`
	UserID    string    `json:"user_id" firestore:"userId"`
	Type      string    `json:"type" firestore:"type"`
	Message   string    `json:"message" firestore:"message"`
	RelatedID string    `json:"related_id,omitempty" firestore:"relatedId,omitempty"`
	IsRead    bool      `json:"is_read" firestore:"isRead"`
	CreatedAt time.Time `json:"created_at" firestore:"createdAt"`
}
