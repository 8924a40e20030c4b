package entity

import "time"

const (
	ProductStatusAvailable = "available"
	ProductStatusSold      = "sold"
	ProductStatusSuspended = "suspended"
)

type ProductImage struct {
	URL          string `json:"url" firestore:"url"`
	DisplayOrder int    `json:"display_order" firestore:"displayOrder"`
}

// Product listings are owned by the catalog; this core reads them when a bid
// arrives and flags their status during moderation.
type Product struct {
	ID        string         `json:"id" firestore:"id"`
	SellerID  string         `json:"seller_id" firestore:"sellerId"`
	Title     string         `json:"title" firestore:"title"`
	Price     float64        `json:"price" firestore:"price"`
	Images    []ProductImage `json:"images" firestore:"images"`
	Status    string         `json:"status" firestore:"status"`
	CreatedAt time.Time      `json:"created_at" firestore:"createdAt"`
	UpdatedAt time.Time      `json:"updated_at" firestore:"updatedAt"`
}

// PrimaryImage returns the first image URL, or "" for imageless listings.
func (p *Product) PrimaryImage() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0].URL
}
