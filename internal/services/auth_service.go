package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/gobinath946/project-weaver-sub001/internal/apperrors"
	"github.com/gobinath946/project-weaver-sub001/internal/auth"
	"github.com/gobinath946/project-weaver-sub001/internal/models"
)

// AuthService owns signup and login. Token issuance is deliberately thin:
// issue on login, verify on every request, nothing else.
type AuthService struct {
	db        *gorm.DB
	jwtSecret string
	jwtTTL    time.Duration
}

func NewAuthService(db *gorm.DB, jwtSecret string, jwtTTL time.Duration) *AuthService {
	return &AuthService{db: db, jwtSecret: jwtSecret, jwtTTL: jwtTTL}
}

type SignupInput struct {
	CompanyName string
	Email       string
	Password    string
	FirstName   string
	LastName    string
}

type LoginInput struct {
	Email    string
	Password string
}

// Signup creates a company and its first admin user atomically.
func (s *AuthService) Signup(ctx context.Context, input SignupInput) (*models.User, string, error) {
	if strings.TrimSpace(input.CompanyName) == "" {
		return nil, "", apperrors.Validation("company_name is required")
	}
	if strings.TrimSpace(input.Email) == "" {
		return nil, "", apperrors.Validation("email is required")
	}
	if len(input.Password) < 8 {
		return nil, "", apperrors.Validation("password must be at least 8 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", apperrors.Internal(fmt.Errorf("hash password: %w", err))
	}

	user := &models.User{
		Email:        strings.ToLower(strings.TrimSpace(input.Email)),
		PasswordHash: string(hash),
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Roles:        models.RoleList{models.RoleAdmin},
		Active:       true,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		company := &models.Company{Name: strings.TrimSpace(input.CompanyName), Active: true}
		if err := tx.Create(company).Error; err != nil {
			return apperrors.Internal(fmt.Errorf("create company: %w", err))
		}

		user.CompanyID = company.ID
		if err := tx.Create(user).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return apperrors.Duplicate("An account with this email already exists")
			}
			return apperrors.Internal(fmt.Errorf("create user: %w", err))
		}
		return nil
	})
	if err != nil {
		return nil, "", err
	}

	token, err := auth.GenerateToken(user, s.jwtSecret, s.jwtTTL)
	if err != nil {
		return nil, "", apperrors.Internal(err)
	}
	return user, token, nil
}

// Login verifies credentials and issues a token. Wrong email and wrong
// password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*models.User, string, error) {
	var user models.User
	err := s.db.WithContext(ctx).
		Where("email = ? AND deleted_at IS NULL", strings.ToLower(strings.TrimSpace(input.Email))).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", apperrors.Unauthorized(apperrors.CodeInvalidToken, "Invalid email or password")
		}
		return nil, "", apperrors.Internal(err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)) != nil {
		return nil, "", apperrors.Unauthorized(apperrors.CodeInvalidToken, "Invalid email or password")
	}
	if !user.Active {
		return nil, "", apperrors.Unauthorized(apperrors.CodeUserInactive, "User account is deactivated")
	}

	token, err := auth.GenerateToken(&user, s.jwtSecret, s.jwtTTL)
	if err != nil {
		return nil, "", apperrors.Internal(err)
	}
	return &user, token, nil
}

// GetUser returns an active user by id.
func (s *AuthService) GetUser(ctx context.Context, userID uint64) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).
		Where("id = ? AND deleted_at IS NULL", userID).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("User not found")
		}
		return nil, apperrors.Internal(err)
	}
	return &user, nil
}
