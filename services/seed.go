package services

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/homeservices/booking-api/models"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
)

// SeedFile is the YAML document accepted by --seed
type SeedFile struct {
	Admin *struct {
		Name     string `yaml:"name"`
		Email    string `yaml:"email"`
		Password string `yaml:"password"`
	} `yaml:"admin"`
	Services []struct {
		Name        string  `yaml:"name"`
		Description string  `yaml:"description"`
		Icon        *string `yaml:"icon"`
		Price       *string `yaml:"price"`
	} `yaml:"services"`
	Locations []struct {
		City    string `yaml:"city"`
		Area    string `yaml:"area"`
		Pincode string `yaml:"pincode"`
	} `yaml:"locations"`
}

// SeedSummary counts the rows a seed run inserted
type SeedSummary struct {
	Admin     bool
	Services  int
	Locations int
}

// LoadSeedFile reads and parses a seed document
func LoadSeedFile(path string) (*SeedFile, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}
	return ParseSeed(raw)
}

// ParseSeed parses a seed document
func ParseSeed(raw []byte) (*SeedFile, error) {
	var seed SeedFile
	if err := yaml.Unmarshal(raw, &seed); err != nil {
		return nil, fmt.Errorf("failed to parse seed file: %w", err)
	}
	return &seed, nil
}

// ApplySeed inserts what is missing from the seed. Services match by name,
// locations by their (city, area, pincode) triple, and the admin by email;
// existing rows are left untouched, so running it twice is a no-op.
func ApplySeed(ctx context.Context, db *gorm.DB, seed *SeedFile) (*SeedSummary, error) {
	summary := &SeedSummary{}

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if a := seed.Admin; a != nil && a.Email != "" {
			hash, err := bcrypt.GenerateFromPassword([]byte(a.Password), bcrypt.DefaultCost)
			if err != nil {
				return fmt.Errorf("failed to hash admin password: %w", err)
			}
			admin := models.User{
				Name:         a.Name,
				Email:        normalizeEmail(a.Email),
				PasswordHash: string(hash),
				Role:         models.RoleAdmin,
			}
			created, err := createIfMissing(tx, tx.Model(&models.User{}).Where("email = ?", admin.Email), &admin)
			if err != nil {
				return fmt.Errorf("failed to seed admin: %w", err)
			}
			summary.Admin = created
		}

		for _, s := range seed.Services {
			name := strings.TrimSpace(s.Name)
			if name == "" {
				continue
			}
			service := models.Service{
				Name:        name,
				Description: s.Description,
				Icon:        s.Icon,
				Price:       s.Price,
				Active:      true,
			}
			created, err := createIfMissing(tx, tx.Model(&models.Service{}).Where("name = ?", name), &service)
			if err != nil {
				return fmt.Errorf("failed to seed service %q: %w", name, err)
			}
			if created {
				summary.Services++
			}
		}

		for _, l := range seed.Locations {
			city := strings.TrimSpace(l.City)
			if city == "" {
				continue
			}
			location := models.AvailableLocation{
				City:    city,
				Area:    strings.TrimSpace(l.Area),
				Pincode: strings.TrimSpace(l.Pincode),
				Active:  true,
			}
			existing := tx.Model(&models.AvailableLocation{}).
				Where("LOWER(city) = LOWER(?) AND LOWER(area) = LOWER(?) AND pincode = ?", location.City, location.Area, location.Pincode)
			created, err := createIfMissing(tx, existing, &location)
			if err != nil {
				return fmt.Errorf("failed to seed location %q: %w", city, err)
			}
			if created {
				summary.Locations++
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"admin":     summary.Admin,
		"services":  summary.Services,
		"locations": summary.Locations,
	}).Info("Seed applied")
	return summary, nil
}

// createIfMissing inserts row unless existing matches at least one record
func createIfMissing(tx, existing *gorm.DB, row interface{}) (bool, error) {
	var n int64
	if err := existing.Count(&n).Error; err != nil {
		return false, err
	}
	if n > 0 {
		return false, nil
	}
	if err := tx.Create(row).Error; err != nil {
		return false, err
	}
	return true, nil
}
