package entity

import "time"

const (
	UserStatusActive    = "active"
	UserStatusSuspended = "suspended"

	UserRoleAdmin = "admin"
)

// User identity is owned by the participant store; this core reads it for
// authorization, same-university checks, and counterpart display.
type User struct {
	ID         string    `json:"id" firestore:"id"`
	Email      string    `json:"email" firestore:"email"`
	Username   string    `json:"username" firestore:"username"`
	University string    `json:"university" firestore:"university"`
	Role       string    `json:"role" firestore:"role"`
	Status     string    `json:"status" firestore:"status"`
	AvatarURL  string    `json:"avatar_url,omitempty" firestore:"avatarURL,omitempty"`
	CreatedAt  time.Time `json:"created_at" firestore:"createdAt"`
	UpdatedAt  time.Time `json:"updated_at" firestore:"updatedAt"`
}
