package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"restaurant_backend/internal/models"
	"restaurant_backend/internal/repositories"
	"restaurant_backend/pkg/utils"

	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 6

// TokenIssuer signs access tokens.
type TokenIssuer interface {
	GenerateToken(userID int64, role string) (string, error)
}

// --- AuthService Interface ---
type AuthService interface {
	Register(ctx context.Context, req models.RegistrationPayload) (*models.AuthResponse, error)
	Login(ctx context.Context, req models.Credentials) (*models.AuthResponse, error)
	Me(ctx context.Context, userID int64) (*models.User, error)
}

// --- authService Implementation ---
type authService struct {
	users      repositories.UserRepository
	tokens     TokenIssuer
	bcryptCost int
}

// NewAuthService creates a new instance of AuthService. A zero bcryptCost selects bcrypt.DefaultCost.
func NewAuthService(users repositories.UserRepository, tokens TokenIssuer, bcryptCost int) AuthService {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &authService{users: users, tokens: tokens, bcryptCost: bcryptCost}
}

func hashPassword(password string, cost int) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validateCredentials(email, password string) error {
	if !utils.IsValidEmail(email) {
		return validationErrorf("please include a valid email")
	}
	if !utils.IsValidPasswordLength(password, minPasswordLength) {
		return validationErrorf("password must be at least 6 characters")
	}
	return nil
}

// Register creates a customer account and signs the user in.
func (s *authService) Register(ctx context.Context, req models.RegistrationPayload) (*models.AuthResponse, error) {
	name := strings.TrimSpace(req.Name)
	email := normalizeEmail(req.Email)
	if name == "" {
		return nil, validationErrorf("name is required")
	}
	if err := validateCredentials(email, req.Password); err != nil {
		return nil, err
	}

	if _, err := s.users.GetUserByEmail(ctx, email); err == nil {
		return nil, ErrDuplicateEmail
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return nil, fmt.Errorf("registering user: %w", err)
	}

	hash, err := hashPassword(req.Password, s.bcryptCost)
	if err != nil {
		return nil, err
	}
	user := &models.User{Name: name, Email: email, PasswordHash: hash, Role: models.RoleCustomer}
	if err := s.users.CreateUser(ctx, nil, user); err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("registering user: %w", err)
	}

	utils.LogInfo("User registered", map[string]interface{}{"user_id": user.ID})
	return s.respond(user)
}

// Login verifies the password and issues a token. Unknown email and wrong password fail identically.
func (s *authService) Login(ctx context.Context, req models.Credentials) (*models.AuthResponse, error) {
	email := normalizeEmail(req.Email)
	if email == "" || req.Password == "" {
		return nil, validationErrorf("email and password are required")
	}

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("login attempt failed: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return s.respond(user)
}

func (s *authService) respond(user *models.User) (*models.AuthResponse, error) {
	token, err := s.tokens.GenerateToken(user.ID, string(user.Role))
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}
	user.PasswordHash = ""
	return &models.AuthResponse{Token: token, User: user}, nil
}

func (s *authService) Me(ctx context.Context, userID int64) (*models.User, error) {
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to retrieve user profile: %w", err)
	}
	user.PasswordHash = ""
	return user, nil
}
