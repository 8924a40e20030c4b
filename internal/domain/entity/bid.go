package entity

import "time"

// Bid is the trigger record for the bid-to-thread flow. It is committed
// before any thread, message, or notification side effect is attempted.
type Bid struct {
	ID        string    `json:"id" firestore:"id"`
	ProductID string    `json:"product_id" firestore:"productId"`
	BuyerID   string    `json:"buyer_id" firestore:"buyerId"`
	SellerID  string    `json:"seller_id" firestore:"sellerId"`
	Amount    float64   `json:"amount" firestore:"amount"`
	CreatedAt time.Time `json:"created_at" firestore:"createdAt"`
}
