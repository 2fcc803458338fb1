package services

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"time"

	"github.com/homeservices/booking-api/authz"
	"github.com/homeservices/booking-api/models"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const MinPasswordLength = 6

// RegisterInput is the self-service sign-up form
type RegisterInput struct {
	Name     string
	Email    string
	Phone    *string
	Password string
}

// ProfileInput carries the fields a user may change on their own account
type ProfileInput struct {
	Name    *string
	Phone   *string
	Address *string
}

// AdminUserInput carries the fields an admin may change on any account
type AdminUserInput struct {
	Name  *string
	Phone *string
	Role  *string
}

// LoginResult is returned on successful sign-in
type LoginResult struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      *models.User `json:"user"`
}

// UserService owns accounts: registration, sign-in, profiles and admin management
type UserService struct {
	db     *gorm.DB
	tokens *TokenService
}

func NewUserService(db *gorm.DB, tokens *TokenService) *UserService {
	return &UserService{db: db, tokens: tokens}
}

// Register creates a CUSTOMER account
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	name := strings.TrimSpace(in.Name)
	email := normalizeEmail(in.Email)
	if name == "" || email == "" {
		return nil, ValidationError("VALIDATION_ERROR", "Name and email are required")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, ValidationError("INVALID_EMAIL", "Email address is not valid")
	}
	if len(in.Password) < MinPasswordLength {
		return nil, ValidationError("WEAK_PASSWORD", "Password must be at least 6 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, DependencyError("failed to hash password", err)
	}

	user := models.User{
		Name:         name,
		Email:        email,
		Phone:        nonEmpty(in.Phone),
		PasswordHash: string(hash),
		Role:         models.RoleCustomer,
	}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, emailExists()
		}
		return nil, DependencyError("failed to create user", err)
	}

	logrus.WithField("user_id", user.ID).Info("User registered")
	return &user, nil
}

// Login checks credentials and issues an access token. Unknown emails and
// wrong passwords produce the same error.
func (s *UserService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	invalid := &AppError{Kind: KindUnauthorized, Code: "INVALID_CREDENTIALS", Message: "Invalid email or password"}

	var user models.User
	if err := s.db.WithContext(ctx).Where("email = ?", normalizeEmail(email)).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, invalid
		}
		return nil, DependencyError("failed to look up user", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, invalid
	}

	token, expires, err := s.tokens.Issue(&user)
	if err != nil {
		return nil, DependencyError("failed to issue token", err)
	}
	return &LoginResult{Token: token, ExpiresAt: expires, User: &user}, nil
}

// Get returns the account with the given id
func (s *UserService) Get(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, notFoundOr(err, "USER_NOT_FOUND", "User profile not found")
	}
	return &user, nil
}

// UpdateProfile changes the requester's own name, phone or address
func (s *UserService) UpdateProfile(ctx context.Context, r authz.Requester, in ProfileInput) (*models.User, error) {
	if r.Anonymous() {
		return nil, UnauthorizedError("Sign in to update your profile")
	}

	updates := map[string]interface{}{}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, ValidationError("VALIDATION_ERROR", "Name cannot be empty")
		}
		updates["name"] = name
	}
	if in.Phone != nil {
		updates["phone"] = nonEmpty(in.Phone)
	}
	if in.Address != nil {
		updates["address"] = nonEmpty(in.Address)
	}
	return s.apply(ctx, r.ID, updates)
}

// List returns every account (admins only)
func (s *UserService) List(ctx context.Context, r authz.Requester) ([]models.User, error) {
	if !authz.CanManageUsers(r) {
		return nil, UnauthorizedError("Only admins can manage users")
	}

	var users []models.User
	if err := s.db.WithContext(ctx).Order("created_at DESC").Order("id DESC").Find(&users).Error; err != nil {
		return nil, DependencyError("failed to fetch users", err)
	}
	return users, nil
}

// AdminUpdate changes the name, phone or role of any account
func (s *UserService) AdminUpdate(ctx context.Context, r authz.Requester, id uint, in AdminUserInput) (*models.User, error) {
	if !authz.CanManageUsers(r) {
		return nil, UnauthorizedError("Only admins can manage users")
	}

	updates := map[string]interface{}{}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, ValidationError("VALIDATION_ERROR", "Name cannot be empty")
		}
		updates["name"] = name
	}
	if in.Phone != nil {
		updates["phone"] = nonEmpty(in.Phone)
	}
	if in.Role != nil {
		role := models.Role(strings.ToUpper(strings.TrimSpace(*in.Role)))
		if !role.Valid() {
			return nil, ValidationError("INVALID_ROLE", "Role must be CUSTOMER or ADMIN")
		}
		updates["role"] = role
	}
	return s.apply(ctx, id, updates)
}

// Delete removes an account together with its orders, their reviews and
// payments, in one transaction
func (s *UserService) Delete(ctx context.Context, r authz.Requester, id uint) error {
	if !authz.CanManageUsers(r) {
		return UnauthorizedError("Only admins can manage users")
	}
	if r.ID == id {
		return ValidationError("CANNOT_DELETE_SELF", "Admins cannot delete their own account")
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.First(&user, id).Error; err != nil {
			return notFoundOr(err, "USER_NOT_FOUND", "User not found")
		}

		orderIDs := tx.Model(&models.Order{}).Select("id").Where("user_id = ?", id)
		if err := tx.Where("order_id IN (?) OR user_id = ?", orderIDs, id).Delete(&models.Review{}).Error; err != nil {
			return DependencyError("failed to delete reviews", err)
		}
		if err := tx.Where("order_id IN (?)", orderIDs).Delete(&models.Payment{}).Error; err != nil {
			return DependencyError("failed to delete payments", err)
		}
		if err := tx.Where("user_id = ?", id).Delete(&models.Order{}).Error; err != nil {
			return DependencyError("failed to delete orders", err)
		}
		if err := tx.Delete(&user).Error; err != nil {
			return DependencyError("failed to delete user", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	logrus.WithFields(logrus.Fields{"user_id": id, "admin_id": r.ID}).Info("User deleted")
	return nil
}

func (s *UserService) apply(ctx context.Context, id uint, updates map[string]interface{}) (*models.User, error) {
	user, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if len(updates) == 0 {
		return user, nil
	}

	if err := s.db.WithContext(ctx).Model(user).Updates(updates).Error; err != nil {
		return nil, DependencyError("failed to update user", err)
	}
	return s.Get(ctx, id)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func emailExists() *AppError {
	return ConflictError("EMAIL_EXISTS", "A user with this email already exists")
}
