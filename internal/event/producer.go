package event

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/utafrali/marketplace/internal/domain"
	pkgkafka "github.com/utafrali/marketplace/pkg/kafka"
)

// Kafka topics for marketplace domain events.
const (
	TopicProductCreated = "marketplace.product.created"
	TopicProductUpdated = "marketplace.product.updated"
	TopicProductDeleted = "marketplace.product.deleted"
	TopicReviewCreated  = "marketplace.review.created"
	TopicReviewDeleted  = "marketplace.review.deleted"
	TopicUserRegistered = "marketplace.user.registered"
)

// Entity type constants.
const (
	EntityTypeProduct = "product"
	EntityTypeReview  = "review"
	EntityTypeUser    = "user"
)

// Source identifier for events originating from this service.
const Source = "marketplace"

// Publisher is the event publishing surface the services depend on.
type Publisher interface {
	ProductCreated(ctx context.Context, product *domain.Product) error
	ProductUpdated(ctx context.Context, product *domain.Product) error
	ProductDeleted(ctx context.Context, id string) error
	ReviewCreated(ctx context.Context, review *domain.Review, newRating float64) error
	ReviewDeleted(ctx context.Context, review *domain.Review, newRating float64) error
	UserRegistered(ctx context.Context, user *domain.User) error
}

// ProductData is the payload for product.created and product.updated events.
type ProductData struct {
	ID         string  `json:"id"`
	SellerID   string  `json:"seller_id"`
	CategoryID string  `json:"category_id"`
	Name       string  `json:"name"`
	Slug       string  `json:"slug"`
	Price      int64   `json:"price"`
	Stock      int     `json:"stock"`
	Rating     float64 `json:"rating"`
}

// ProductDeletedData is the payload for a product.deleted event.
type ProductDeletedData struct {
	ID string `json:"id"`
}

// ReviewData is the payload for review.created and review.deleted events.
// NewRating carries the product rating recomputed in the same transaction
// as the review mutation.
type ReviewData struct {
	ID        string  `json:"id"`
	ProductID string  `json:"product_id"`
	BuyerID   string  `json:"buyer_id"`
	Grade     int     `json:"grade"`
	NewRating float64 `json:"new_rating"`
}

// UserRegisteredData is the payload for a user.registered event.
type UserRegisteredData struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// Producer publishes marketplace domain events to Kafka.
type Producer struct {
	kafka  *pkgkafka.Producer
	logger *slog.Logger
}

// NewProducer creates a new event producer.
func NewProducer(kafka *pkgkafka.Producer, logger *slog.Logger) *Producer {
	return &Producer{
		kafka:  kafka,
		logger: logger,
	}
}

// ProductCreated publishes a product.created event.
func (p *Producer) ProductCreated(ctx context.Context, product *domain.Product) error {
	return p.publishProduct(ctx, TopicProductCreated, product)
}

// ProductUpdated publishes a product.updated event.
func (p *Producer) ProductUpdated(ctx context.Context, product *domain.Product) error {
	return p.publishProduct(ctx, TopicProductUpdated, product)
}

// ProductDeleted publishes a product.deleted event.
func (p *Producer) ProductDeleted(ctx context.Context, id string) error {
	event, err := pkgkafka.NewEvent(TopicProductDeleted, id, EntityTypeProduct, Source, ProductDeletedData{ID: id})
	if err != nil {
		return fmt.Errorf("create product.deleted event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicProductDeleted, event); err != nil {
		return fmt.Errorf("publish product.deleted event: %w", err)
	}

	p.logger.DebugContext(ctx, "published product.deleted event",
		slog.String("product_id", id),
	)

	return nil
}

// ReviewCreated publishes a review.created event.
func (p *Producer) ReviewCreated(ctx context.Context, review *domain.Review, newRating float64) error {
	return p.publishReview(ctx, TopicReviewCreated, review, newRating)
}

// ReviewDeleted publishes a review.deleted event.
func (p *Producer) ReviewDeleted(ctx context.Context, review *domain.Review, newRating float64) error {
	return p.publishReview(ctx, TopicReviewDeleted, review, newRating)
}

// UserRegistered publishes a user.registered event.
func (p *Producer) UserRegistered(ctx context.Context, user *domain.User) error {
	data := UserRegisteredData{
		ID:    user.ID,
		Email: user.Email,
		Role:  user.Role,
	}

	event, err := pkgkafka.NewEvent(TopicUserRegistered, user.ID, EntityTypeUser, Source, data)
	if err != nil {
		return fmt.Errorf("create user.registered event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicUserRegistered, event); err != nil {
		return fmt.Errorf("publish user.registered event: %w", err)
	}

	p.logger.DebugContext(ctx, "published user.registered event",
		slog.String("user_id", user.ID),
	)

	return nil
}

func (p *Producer) publishProduct(ctx context.Context, topic string, product *domain.Product) error {
	data := ProductData{
		ID:         product.ID,
		SellerID:   product.SellerID,
		CategoryID: product.CategoryID,
		Name:       product.Name,
		Slug:       product.Slug,
		Price:      product.Price,
		Stock:      product.Stock,
		Rating:     product.Rating,
	}

	event, err := pkgkafka.NewEvent(topic, product.ID, EntityTypeProduct, Source, data)
	if err != nil {
		return fmt.Errorf("create %s event: %w", topic, err)
	}

	if err := p.kafka.Publish(ctx, topic, event); err != nil {
		return fmt.Errorf("publish %s event: %w", topic, err)
	}

	p.logger.DebugContext(ctx, "published product event",
		slog.String("topic", topic),
		slog.String("product_id", product.ID),
	)

	return nil
}

func (p *Producer) publishReview(ctx context.Context, topic string, review *domain.Review, newRating float64) error {
	data := ReviewData{
		ID:        review.ID,
		ProductID: review.ProductID,
		BuyerID:   review.BuyerID,
		Grade:     review.Grade,
		NewRating: newRating,
	}

	// Keyed by product so review events interleave correctly with the
	// rating they carry.
	event, err := pkgkafka.NewEvent(topic, review.ProductID, EntityTypeReview, Source, data)
	if err != nil {
		return fmt.Errorf("create %s event: %w", topic, err)
	}

	if err := p.kafka.Publish(ctx, topic, event); err != nil {
		return fmt.Errorf("publish %s event: %w", topic, err)
	}

	p.logger.DebugContext(ctx, "published review event",
		slog.String("topic", topic),
		slog.String("review_id", review.ID),
		slog.String("product_id", review.ProductID),
	)

	return nil
}
