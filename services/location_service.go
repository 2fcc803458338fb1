package services

import (
	"context"
	"strings"

	"github.com/homeservices/booking-api/authz"
	"github.com/homeservices/booking-api/models"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// LocationInput carries the fields of an AvailableLocation. Nil pointers
// mean "not supplied"; on update they leave the stored value untouched.
type LocationInput struct {
	City    *string
	Area    *string
	Pincode *string
	Active  *bool
}

// Availability is the answer to a location check
type Availability struct {
	Available bool                      `json:"available"`
	Location  *models.AvailableLocation `json:"location"`
}

// LocationService answers availability queries and manages serviceable areas
type LocationService struct {
	db *gorm.DB
}

func NewLocationService(db *gorm.DB) *LocationService {
	return &LocationService{db: db}
}

// CheckAvailability finds an active location matching city (case-insensitive)
// and, when supplied, area (case-insensitive) and pincode (exact). When several
// records match, the most specific wins: pincode, then area, then city-only,
// with the lowest id breaking ties.
func (s *LocationService) CheckAvailability(ctx context.Context, city, area, pincode string) (*Availability, error) {
	city = strings.TrimSpace(city)
	area = strings.TrimSpace(area)
	pincode = strings.TrimSpace(pincode)
	if city == "" {
		return nil, ValidationError("VALIDATION_ERROR", "City is required")
	}

	query := s.db.WithContext(ctx).Where("active = ?", true).Where("LOWER(city) = LOWER(?)", city)
	if area != "" {
		query = query.Where("LOWER(area) = LOWER(?)", area)
	}
	if pincode != "" {
		query = query.Where("pincode = ?", pincode)
	}

	var matches []models.AvailableLocation
	err := query.
		Order("CASE WHEN pincode <> '' THEN 0 ELSE 1 END").
		Order("CASE WHEN area <> '' THEN 0 ELSE 1 END").
		Order("id ASC").
		Limit(1).
		Find(&matches).Error
	if err != nil {
		return nil, DependencyError("failed to check location", err)
	}

	if len(matches) == 0 {
		return &Availability{Available: false}, nil
	}
	return &Availability{Available: true, Location: &matches[0]}, nil
}

// List returns every location ordered by city
func (s *LocationService) List(ctx context.Context, r authz.Requester) ([]models.AvailableLocation, error) {
	if !authz.CanManageCatalogOrLocations(r) {
		return nil, UnauthorizedError("Only admins can manage locations")
	}

	var locations []models.AvailableLocation
	if err := s.db.WithContext(ctx).Order("city ASC").Order("area ASC").Order("id ASC").Find(&locations).Error; err != nil {
		return nil, DependencyError("failed to fetch locations", err)
	}
	return locations, nil
}

// Create adds a serviceable area. Active defaults to true.
func (s *LocationService) Create(ctx context.Context, r authz.Requester, in LocationInput) (*models.AvailableLocation, error) {
	if !authz.CanManageCatalogOrLocations(r) {
		return nil, UnauthorizedError("Only admins can manage locations")
	}
	if in.City == nil || strings.TrimSpace(*in.City) == "" {
		return nil, ValidationError("VALIDATION_ERROR", "City is required")
	}

	location := models.AvailableLocation{
		City:    strings.TrimSpace(*in.City),
		Area:    trimmed(in.Area),
		Pincode: trimmed(in.Pincode),
		Active:  true,
	}
	if in.Active != nil {
		location.Active = *in.Active
	}

	if err := s.db.WithContext(ctx).Create(&location).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, duplicateLocation()
		}
		return nil, DependencyError("failed to create location", err)
	}

	logrus.WithFields(logrus.Fields{
		"location_id": location.ID,
		"city":        location.City,
		"admin_id":    r.ID,
	}).Info("Location created")
	return &location, nil
}

// Update changes the supplied fields of a location
func (s *LocationService) Update(ctx context.Context, r authz.Requester, id uint, in LocationInput) (*models.AvailableLocation, error) {
	if !authz.CanManageCatalogOrLocations(r) {
		return nil, UnauthorizedError("Only admins can manage locations")
	}

	var location models.AvailableLocation
	if err := s.db.WithContext(ctx).First(&location, id).Error; err != nil {
		return nil, notFoundOr(err, "LOCATION_NOT_FOUND", "Location not found")
	}

	updates := map[string]interface{}{}
	if in.City != nil {
		city := strings.TrimSpace(*in.City)
		if city == "" {
			return nil, ValidationError("VALIDATION_ERROR", "City cannot be empty")
		}
		updates["city"] = city
	}
	if in.Area != nil {
		updates["area"] = trimmed(in.Area)
	}
	if in.Pincode != nil {
		updates["pincode"] = trimmed(in.Pincode)
	}
	if in.Active != nil {
		updates["active"] = *in.Active
	}
	if len(updates) == 0 {
		return &location, nil
	}

	if err := s.db.WithContext(ctx).Model(&location).Updates(updates).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, duplicateLocation()
		}
		return nil, DependencyError("failed to update location", err)
	}

	if err := s.db.WithContext(ctx).First(&location, id).Error; err != nil {
		return nil, DependencyError("failed to reload location", err)
	}
	return &location, nil
}

// Delete removes a location
func (s *LocationService) Delete(ctx context.Context, r authz.Requester, id uint) error {
	if !authz.CanManageCatalogOrLocations(r) {
		return UnauthorizedError("Only admins can manage locations")
	}

	result := s.db.WithContext(ctx).Delete(&models.AvailableLocation{}, id)
	if result.Error != nil {
		return DependencyError("failed to delete location", result.Error)
	}
	if result.RowsAffected == 0 {
		return NotFoundError("LOCATION_NOT_FOUND", "Location not found")
	}
	return nil
}

func duplicateLocation() *AppError {
	return ConflictError("DUPLICATE_LOCATION", "This location already exists")
}

func trimmed(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}
