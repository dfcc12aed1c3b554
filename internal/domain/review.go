package domain

import (
	"time"
)

// Grade bounds for a review.
const (
	MinGrade = 1
	MaxGrade = 5
)

// Review represents a buyer's review of a product. Reviews are soft-deleted;
// only active reviews contribute to the product rating.
type Review struct {
	ID          string    `json:"id"`
	ProductID   string    `json:"product_id"`
	BuyerID     string    `json:"buyer_id"`
	Grade       int       `json:"grade"`
	Comment     string    `json:"comment"`
	CommentDate time.Time `json:"comment_date"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
}

// CreateReviewInput holds the parameters for creating a review.
type CreateReviewInput struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
	Grade     int    `json:"grade" validate:"required,min=1,max=5"`
	Comment   string `json:"comment" validate:"max=5000"`
}
