package services

import (
	"context"
	"strings"

	"github.com/homeservices/booking-api/authz"
	"github.com/homeservices/booking-api/models"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// ServiceInput carries the editable fields of a catalog entry
type ServiceInput struct {
	Name        *string
	Description *string
	Icon        *string
	Price       *string
	Active      *bool
}

// DeleteResult reports what Delete did with a catalog entry
type DeleteResult struct {
	Deleted     bool `json:"deleted"`
	Deactivated bool `json:"deactivated"`
}

// CatalogService manages the bookable services
type CatalogService struct {
	db *gorm.DB
}

func NewCatalogService(db *gorm.DB) *CatalogService {
	return &CatalogService{db: db}
}

// List returns active services newest first. Admins may ask for inactive
// ones too, in which case each entry carries its order count.
func (s *CatalogService) List(ctx context.Context, r authz.Requester, activeOnly bool) ([]models.Service, error) {
	if !activeOnly && !authz.CanManageCatalogOrLocations(r) {
		return nil, UnauthorizedError("Only admins can list inactive services")
	}

	query := s.db.WithContext(ctx).Order("created_at DESC").Order("id DESC")
	if activeOnly {
		query = query.Where("active = ?", true)
	}

	var list []models.Service
	if err := query.Find(&list).Error; err != nil {
		return nil, DependencyError("failed to fetch services", err)
	}

	if !activeOnly {
		counts, err := s.orderCounts(ctx)
		if err != nil {
			return nil, err
		}
		for i := range list {
			n := counts[list[i].ID]
			list[i].OrderCount = &n
		}
	}
	return list, nil
}

// Get returns a single service, active or not
func (s *CatalogService) Get(ctx context.Context, id uint) (*models.Service, error) {
	var service models.Service
	if err := s.db.WithContext(ctx).First(&service, id).Error; err != nil {
		return nil, notFoundOr(err, "SERVICE_NOT_FOUND", "Service not found")
	}
	return &service, nil
}

// Create adds a catalog entry. Active defaults to true.
func (s *CatalogService) Create(ctx context.Context, r authz.Requester, in ServiceInput) (*models.Service, error) {
	if !authz.CanManageCatalogOrLocations(r) {
		return nil, UnauthorizedError("Only admins can manage services")
	}
	if in.Name == nil || strings.TrimSpace(*in.Name) == "" {
		return nil, ValidationError("VALIDATION_ERROR", "Name is required")
	}

	service := models.Service{
		Name:   strings.TrimSpace(*in.Name),
		Icon:   in.Icon,
		Price:  in.Price,
		Active: true,
	}
	if in.Description != nil {
		service.Description = *in.Description
	}
	if in.Active != nil {
		service.Active = *in.Active
	}

	if err := s.db.WithContext(ctx).Create(&service).Error; err != nil {
		return nil, DependencyError("failed to create service", err)
	}

	logrus.WithFields(logrus.Fields{"service_id": service.ID, "admin_id": r.ID}).Info("Service created")
	return &service, nil
}

// Update changes the supplied fields of a catalog entry
func (s *CatalogService) Update(ctx context.Context, r authz.Requester, id uint, in ServiceInput) (*models.Service, error) {
	if !authz.CanManageCatalogOrLocations(r) {
		return nil, UnauthorizedError("Only admins can manage services")
	}

	service, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, ValidationError("VALIDATION_ERROR", "Name cannot be empty")
		}
		updates["name"] = name
	}
	if in.Description != nil {
		updates["description"] = *in.Description
	}
	if in.Icon != nil {
		updates["icon"] = *in.Icon
	}
	if in.Price != nil {
		updates["price"] = *in.Price
	}
	if in.Active != nil {
		updates["active"] = *in.Active
	}
	if len(updates) == 0 {
		return service, nil
	}

	if err := s.db.WithContext(ctx).Model(service).Updates(updates).Error; err != nil {
		return nil, DependencyError("failed to update service", err)
	}
	return s.Get(ctx, id)
}

// Delete hard-deletes a service nobody has booked. A service with orders is
// deactivated instead so historical orders keep their reference.
func (s *CatalogService) Delete(ctx context.Context, r authz.Requester, id uint) (*DeleteResult, error) {
	if !authz.CanManageCatalogOrLocations(r) {
		return nil, UnauthorizedError("Only admins can manage services")
	}

	result := &DeleteResult{}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var service models.Service
		if err := tx.First(&service, id).Error; err != nil {
			return notFoundOr(err, "SERVICE_NOT_FOUND", "Service not found")
		}

		var orders int64
		if err := tx.Model(&models.Order{}).Where("service_id = ?", id).Count(&orders).Error; err != nil {
			return DependencyError("failed to count orders", err)
		}

		if orders > 0 {
			if err := tx.Model(&service).Update("active", false).Error; err != nil {
				return DependencyError("failed to deactivate service", err)
			}
			result.Deactivated = true
			return nil
		}

		if err := tx.Delete(&service).Error; err != nil {
			return DependencyError("failed to delete service", err)
		}
		result.Deleted = true
		return nil
	})
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"service_id":  id,
		"deleted":     result.Deleted,
		"deactivated": result.Deactivated,
	}).Info("Service removed from catalog")
	return result, nil
}

func (s *CatalogService) orderCounts(ctx context.Context) (map[uint]int64, error) {
	var rows []struct {
		ServiceID uint
		Count     int64
	}
	err := s.db.WithContext(ctx).Model(&models.Order{}).
		Select("service_id, COUNT(*) AS count").
		Group("service_id").
		Scan(&rows).Error
	if err != nil {
		return nil, DependencyError("failed to count orders", err)
	}

	counts := make(map[uint]int64, len(rows))
	for _, row := range rows {
		counts[row.ServiceID] = row.Count
	}
	return counts, nil
}
