package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/homeservices/booking-api/authz"
	"github.com/homeservices/booking-api/models"
	"github.com/homeservices/booking-api/utils"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// CreateOrderInput is everything a customer supplies when booking
type CreateOrderInput struct {
	ServiceID     uint
	Address       string
	City          string
	Area          *string
	Pincode       *string
	Description   string
	ScheduledDate *time.Time
	Images        []string
}

// OrderFilter narrows an admin listing
type OrderFilter struct {
	Status *models.OrderStatus
}

// OrderService runs the order lifecycle
type OrderService struct {
	db     *gorm.DB
	images ImageService
	now    func() time.Time
}

// NewOrderService builds an OrderService. images may be nil, in which case
// responses carry storage keys only.
func NewOrderService(db *gorm.DB, images ImageService) *OrderService {
	return &OrderService{db: db, images: images, now: time.Now}
}

// WithClock replaces the time source used for completion stamps
func (s *OrderService) WithClock(now func() time.Time) *OrderService {
	s.now = now
	return s
}

// Create books a service for the requester. The order always starts in
// PROCESSING.
func (s *OrderService) Create(ctx context.Context, r authz.Requester, in CreateOrderInput) (*models.Order, error) {
	if r.Anonymous() {
		return nil, UnauthorizedError("Sign in to place an order")
	}
	if err := validateCreateOrder(in); err != nil {
		return nil, err
	}

	var service models.Service
	if err := s.db.WithContext(ctx).First(&service, in.ServiceID).Error; err != nil {
		return nil, notFoundOr(err, "SERVICE_NOT_FOUND", "Service not found")
	}
	if !service.Active {
		return nil, ValidationError("SERVICE_INACTIVE", "This service is not currently offered")
	}

	order := models.Order{
		UserID:        r.ID,
		ServiceID:     in.ServiceID,
		Address:       strings.TrimSpace(in.Address),
		City:          strings.TrimSpace(in.City),
		Area:          nonEmpty(in.Area),
		Pincode:       nonEmpty(in.Pincode),
		Description:   strings.TrimSpace(in.Description),
		ScheduledDate: in.ScheduledDate,
		Images:        append([]string{}, in.Images...),
		Status:        models.StatusProcessing,
	}

	if err := s.db.WithContext(ctx).Create(&order).Error; err != nil {
		return nil, DependencyError("failed to create order", err)
	}

	logrus.WithFields(logrus.Fields{
		"order_id":   order.ID,
		"user_id":    r.ID,
		"service_id": order.ServiceID,
	}).Info("Order created")

	return s.load(ctx, order.ID)
}

// Transition moves an order along the lifecycle. The status check and the
// write happen in a single conditional UPDATE, so of two racing admins only
// one succeeds and the other gets InvalidTransition.
func (s *OrderService) Transition(ctx context.Context, r authz.Requester, orderID uint, newStatus string) (*models.Order, error) {
	if !authz.CanMutateOrderStatus(r) {
		return nil, UnauthorizedError("Only admins can change order status")
	}

	next, ok := models.ParseOrderStatus(newStatus)
	if !ok {
		return nil, ValidationError("INVALID_STATUS", fmt.Sprintf("Unknown order status %q", newStatus))
	}

	db := s.db.WithContext(ctx)

	var order models.Order
	if err := db.First(&order, orderID).Error; err != nil {
		return nil, notFoundOr(err, "ORDER_NOT_FOUND", "Order not found")
	}

	if !order.Status.CanTransitionTo(next) {
		return nil, InvalidTransitionError(fmt.Sprintf("Cannot move order from %s to %s", order.Status, next))
	}

	now := s.now()
	updates := map[string]interface{}{
		"status":     next,
		"updated_at": now,
	}
	if next == models.StatusCompleted {
		updates["completed_date"] = now
	}

	result := db.Model(&models.Order{}).
		Where("id = ? AND status = ?", orderID, order.Status).
		Updates(updates)
	if result.Error != nil {
		return nil, DependencyError("failed to update order status", result.Error)
	}

	if result.RowsAffected == 0 {
		var current models.Order
		if err := db.First(&current, orderID).Error; err != nil {
			return nil, notFoundOr(err, "ORDER_NOT_FOUND", "Order not found")
		}
		return nil, InvalidTransitionError(fmt.Sprintf("Order moved to %s before it could be set to %s", current.Status, next))
	}

	logrus.WithFields(logrus.Fields{
		"order_id": orderID,
		"from":     order.Status,
		"to":       next,
		"admin_id": r.ID,
	}).Info("Order status changed")

	return s.load(ctx, orderID)
}

// Get returns an order visible to the requester. A missing order is reported
// as NotFound before ownership is checked.
func (s *OrderService) Get(ctx context.Context, r authz.Requester, orderID uint) (*models.Order, error) {
	order, err := s.load(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !authz.CanViewOrder(r, order) {
		return nil, UnauthorizedError("You do not have permission to view this order")
	}
	return order, nil
}

// ListForUser returns the user's orders, newest first
func (s *OrderService) ListForUser(ctx context.Context, r authz.Requester, page utils.Pagination) ([]models.Order, utils.Pagination, error) {
	if r.Anonymous() {
		return nil, page, UnauthorizedError("Sign in to see your orders")
	}
	return s.list(ctx, s.db.WithContext(ctx).Where("user_id = ?", r.ID), page)
}

// ListAll returns every order, newest first (admins only)
func (s *OrderService) ListAll(ctx context.Context, r authz.Requester, filter OrderFilter, page utils.Pagination) ([]models.Order, utils.Pagination, error) {
	if !authz.IsAdmin(r.Role) {
		return nil, page, UnauthorizedError("Only admins can list all orders")
	}

	query := s.db.WithContext(ctx)
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	return s.list(ctx, query, page)
}

func (s *OrderService) list(ctx context.Context, query *gorm.DB, page utils.Pagination) ([]models.Order, utils.Pagination, error) {
	// the count and the page query both start from the same conditions
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Model(&models.Order{}).Count(&total).Error; err != nil {
		return nil, page, DependencyError("failed to count orders", err)
	}

	var orders []models.Order
	err := query.
		Preload("Service").
		Preload("User").
		Preload("Review").
		Order("created_at DESC").
		Order("id DESC").
		Limit(page.Limit).
		Offset(page.Offset()).
		Find(&orders).Error
	if err != nil {
		return nil, page, DependencyError("failed to fetch orders", err)
	}

	for i := range orders {
		s.decorate(ctx, &orders[i])
	}
	return orders, page.WithTotal(total), nil
}

func (s *OrderService) load(ctx context.Context, orderID uint) (*models.Order, error) {
	var order models.Order
	err := s.db.WithContext(ctx).
		Preload("Service").
		Preload("User").
		Preload("Review").
		First(&order, orderID).Error
	if err != nil {
		return nil, notFoundOr(err, "ORDER_NOT_FOUND", "Order not found")
	}
	s.decorate(ctx, &order)
	return &order, nil
}

// decorate fills the computed fields of an order response
func (s *OrderService) decorate(ctx context.Context, order *models.Order) {
	if order.User != nil {
		summary := order.User.Summary()
		order.Customer = &summary
	}
	if order.Images == nil {
		order.Images = []string{}
	}
	if s.images == nil || len(order.Images) == 0 {
		return
	}

	order.ImageURLs = make([]string, 0, len(order.Images))
	for _, key := range order.Images {
		url, err := s.images.GetImageURL(ctx, key)
		if err != nil {
			logrus.WithError(err).WithField("key", key).Warn("Failed to presign order image")
			continue
		}
		order.ImageURLs = append(order.ImageURLs, url)
	}
}

func validateCreateOrder(in CreateOrderInput) *AppError {
	var missing []string
	if in.ServiceID == 0 {
		missing = append(missing, "service_id")
	}
	if strings.TrimSpace(in.Address) == "" {
		missing = append(missing, "address")
	}
	if strings.TrimSpace(in.City) == "" {
		missing = append(missing, "city")
	}
	if strings.TrimSpace(in.Description) == "" {
		missing = append(missing, "description")
	}
	if len(missing) > 0 {
		return ValidationError("VALIDATION_ERROR", "Missing required fields: "+strings.Join(missing, ", "))
	}
	if len(in.Images) > models.MaxOrderImages {
		return ValidationError("TOO_MANY_IMAGES", fmt.Sprintf("At most %d images can be attached", models.MaxOrderImages))
	}
	for _, key := range in.Images {
		if strings.TrimSpace(key) == "" {
			return ValidationError("VALIDATION_ERROR", "Image references cannot be empty")
		}
	}
	return nil
}

func nonEmpty(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
