package entity

import (
	"fmt"
	"time"
)

// Thread is the unique conversation container for a buyer/seller pair,
// optionally scoped to a single product. The document ID doubles as the
// uniqueness key for the (buyer, seller, product) tuple.
type Thread struct {
	ID            string    `json:"id" firestore:"id"`
	BuyerID       string    `json:"buyer_id" firestore:"buyerId"`
	SellerID      string    `json:"seller_id" firestore:"sellerId"`
	ProductID     string    `json:"product_id,omitempty" firestore:"productId,omitempty"`
	LastMessage   string    `json:"last_message,omitempty" firestore:"lastMessage,omitempty"`
	LastMessageAt time.Time `json:"last_message_at" firestore:"lastMessageAt"`
	CreatedAt     time.Time `json:"created_at" firestore:"createdAt"`
	UpdatedAt     time.Time `json:"updated_at" firestore:"updatedAt"`
}

// ThreadKey builds the deterministic document ID for a conversation tuple.
// Product threads keep buyer/seller roles in order; product-less threads use
// the sorted pair so lookups resolve regardless of who initiated.
func ThreadKey(productID, buyerID, sellerID string) string {
	if productID != "" {
		return fmt.Sprintf("p:%s:%s:%s", productID, buyerID, sellerID)
	}
	a, b := buyerID, sellerID
	if b < a {
		a, b = b, a
	}
	return fmt.Sprintf("d:%s:%s", a, b)
}

// HasParticipant reports whether userID is one side of the conversation.
func (t *Thread) HasParticipant(userID string) bool {
	return userID == t.BuyerID || userID == t.SellerID
}

// Counterpart returns the other participant's ID, or "" when userID is not a
// participant.
func (t *Thread) Counterpart(userID string) string {
	switch userID {
	case t.BuyerID:
		return t.SellerID
	case t.SellerID:
		return t.BuyerID
	}
	return ""
}
