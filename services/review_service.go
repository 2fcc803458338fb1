package services

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/homeservices/booking-api/authz"
	"github.com/homeservices/booking-api/models"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const (
	DefaultLatestReviews = 6
	MaxLatestReviews     = 50
)

// ReviewService attaches ratings to completed orders
type ReviewService struct {
	db *gorm.DB
}

func NewReviewService(db *gorm.DB) *ReviewService {
	return &ReviewService{db: db}
}

// Submit records the requester's review of a completed order. Checks run in
// the order: input, existence, existing review, ownership, status. A second
// review is a Conflict whoever sends it. The unique index on order_id settles
// concurrent submissions; the loser gets Conflict too.
func (s *ReviewService) Submit(ctx context.Context, r authz.Requester, orderID uint, rating int, comment *string) (*models.Review, error) {
	if rating < models.MinRating || rating > models.MaxRating {
		return nil, ValidationError("INVALID_RATING", fmt.Sprintf("Rating must be between %d and %d", models.MinRating, models.MaxRating))
	}
	comment = nonEmpty(comment)
	if comment != nil && utf8.RuneCountInString(*comment) > models.MaxCommentLength {
		return nil, ValidationError("COMMENT_TOO_LONG", fmt.Sprintf("Comment must be at most %d characters", models.MaxCommentLength))
	}
	if orderID == 0 {
		return nil, ValidationError("VALIDATION_ERROR", "order_id is required")
	}

	db := s.db.WithContext(ctx)

	var order models.Order
	if err := db.Preload("Review").First(&order, orderID).Error; err != nil {
		return nil, notFoundOr(err, "ORDER_NOT_FOUND", "Order not found")
	}

	hasReview := order.Review != nil
	if !authz.CanSubmitReview(r, &order, hasReview) {
		switch {
		case hasReview:
			return nil, reviewExists()
		case !authz.IsOwner(r.ID, order.UserID):
			return nil, UnauthorizedError("Only the customer who placed the order can review it")
		default:
			return nil, InvalidStateError("ORDER_NOT_COMPLETED", "Can only review completed orders")
		}
	}

	review := models.Review{
		OrderID: order.ID,
		UserID:  r.ID,
		Rating:  rating,
		Comment: comment,
	}
	if err := db.Create(&review).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, reviewExists()
		}
		return nil, DependencyError("failed to create review", err)
	}

	logrus.WithFields(logrus.Fields{
		"review_id": review.ID,
		"order_id":  order.ID,
		"rating":    rating,
	}).Info("Review submitted")
	return &review, nil
}

// Latest returns the n most recent reviews with reviewer and service details.
// Reviews whose service was deleted keep a null service name.
func (s *ReviewService) Latest(ctx context.Context, n int) ([]models.PublicReview, error) {
	if n <= 0 {
		n = DefaultLatestReviews
	}
	if n > MaxLatestReviews {
		n = MaxLatestReviews
	}

	reviews := []models.PublicReview{}
	err := s.db.WithContext(ctx).
		Table("reviews").
		Select(strings.Join([]string{
			"reviews.id",
			"reviews.rating",
			"reviews.comment",
			"reviews.created_at",
			"users.name AS reviewer_name",
			"services.name AS service_name",
			"services.icon AS service_icon",
		}, ", ")).
		Joins("JOIN users ON users.id = reviews.user_id").
		Joins("JOIN orders ON orders.id = reviews.order_id").
		Joins("LEFT JOIN services ON services.id = orders.service_id").
		Order("reviews.created_at DESC").
		Order("reviews.id DESC").
		Limit(n).
		Scan(&reviews).Error
	if err != nil {
		return nil, DependencyError("failed to fetch reviews", err)
	}
	return reviews, nil
}

func reviewExists() *AppError {
	return ConflictError("REVIEW_EXISTS", "A review already exists for this order")
}
