// internal/domain/user/service.go
package user

import (
	"errors"
	"fmt"
	"time"

	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/pkg/auth"
	"gorm.io/gorm"
)

// Sentinel errors for the user service.
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccountDisabled    = errors.New("account is disabled")
)

// Service handles user business logic
type Service struct {
	db         *gorm.DB
	config     *config.Config
	jwtManager *auth.JWTManager
}

// NewService creates a new user service
func NewService(db *gorm.DB, cfg *config.Config) *Service {
	return &Service{
		db:         db,
		config:     cfg,
		jwtManager: auth.NewJWTManager(cfg),
	}
}

// RegisterRequest represents user registration data
type RegisterRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`
	FirstName string `json:"first_name" binding:"max=100"`
	LastName  string `json:"last_name" binding:"max=100"`
	Phone     string `json:"phone" binding:"max=20"`
}

// LoginRequest represents login credentials
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// AuthResponse carries a signed token pair and the authenticated user
type AuthResponse struct {
	User         *User  `json:"user"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

// Register creates a new user account
func (s *Service) Register(req *RegisterRequest) (*AuthResponse, error) {
	if err := auth.ValidatePassword(req.Password); err != nil {
		return nil, err
	}

	var existing User
	err := s.db.Where("email = ?", req.Email).First(&existing).Error
	if err == nil {
		return nil, ErrEmailTaken
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}

	hashed, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	u := User{
		Email:     req.Email,
		Password:  hashed,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
		IsActive:  true,
	}

	if err := s.db.Create(&u).Error; err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return s.issueTokens(&u)
}

// Login authenticates a user and returns a token pair
func (s *Service) Login(req *LoginRequest) (*AuthResponse, error) {
	var u User
	err := s.db.Where("email = ?", req.Email).First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to retrieve user: %w", err)
	}

	if err := auth.CheckPassword(u.Password, req.Password); err != nil {
		return nil, ErrInvalidCredentials
	}

	if !u.IsActive {
		return nil, ErrAccountDisabled
	}

	now := time.Now().UTC()
	if err := s.db.Model(&u).Update("last_login", now).Error; err != nil {
		return nil, fmt.Errorf("failed to record login: %w", err)
	}
	u.LastLogin = &now

	return s.issueTokens(&u)
}

// RefreshToken exchanges a valid refresh token for a new token pair
func (s *Service) RefreshToken(refreshToken string) (*AuthResponse, error) {
	claims, err := s.jwtManager.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, err
	}

	u, err := s.GetByID(claims.UserID)
	if err != nil {
		return nil, err
	}

	if !u.IsActive {
		return nil, ErrAccountDisabled
	}

	return s.issueTokens(u)
}

// GetByID retrieves a user by ID
func (s *Service) GetByID(id uint) (*User, error) {
	var u User
	err := s.db.First(&u, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to retrieve user: %w", err)
	}
	return &u, nil
}

func (s *Service) issueTokens(u *User) (*AuthResponse, error) {
	pair, err := s.jwtManager.GenerateTokenPair(u.ID, u.Email, u.IsAdmin)
	if err != nil {
		return nil, fmt.Errorf("failed to generate tokens: %w", err)
	}

	return &AuthResponse{
		User:         u,
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		ExpiresIn:    pair.ExpiresIn,
	}, nil
}
