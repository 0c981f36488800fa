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

// --- User DTOs ---
type UpdateRoleRequest struct {
	Role models.Role `json:"role" binding:"required"`
}

type UpdateProfileRequest struct {
	Name     *string `json:"name"`
	Email    *string `json:"email"`
	Password *string `json:"password"`
}

// --- UserService Interface ---
type UserService interface {
	ListUsers(ctx context.Context) ([]models.User, error)
	UpdateRole(ctx context.Context, id int64, role models.Role) (*models.User, error)
	DeleteUser(ctx context.Context, id int64) error
	UpdateProfile(ctx context.Context, userID int64, req UpdateProfileRequest) (*models.User, error)
	// EnsureAdmin creates the admin account or promotes an existing one. It is idempotent.
	EnsureAdmin(ctx context.Context, email, password string) error
}

type userService struct {
	users      repositories.UserRepository
	bcryptCost int
}

// NewUserService creates a new instance of UserService. A zero bcryptCost selects bcrypt.DefaultCost.
func NewUserService(users repositories.UserRepository, bcryptCost int) UserService {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &userService{users: users, bcryptCost: bcryptCost}
}

func (s *userService) ListUsers(ctx context.Context) ([]models.User, error) {
	users, err := s.users.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}
	for i := range users {
		users[i].PasswordHash = ""
	}
	return users, nil
}

func (s *userService) load(ctx context.Context, id int64) (*models.User, error) {
	user, err := s.users.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("getting user %d: %w", id, err)
	}
	return user, nil
}

func (s *userService) save(ctx context.Context, user *models.User) (*models.User, error) {
	if err := s.users.UpdateUser(ctx, nil, user); err != nil {
		switch {
		case errors.Is(err, repositories.ErrNotFound):
			return nil, ErrUserNotFound
		case errors.Is(err, repositories.ErrDuplicateKey):
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("updating user %d: %w", user.ID, err)
	}
	user.PasswordHash = ""
	return user, nil
}

func (s *userService) UpdateRole(ctx context.Context, id int64, role models.Role) (*models.User, error) {
	parsed, ok := models.ParseRole(string(role))
	if !ok {
		return nil, validationErrorf("role must be one of customer, staff or admin")
	}
	user, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	user.Role = parsed
	updated, err := s.save(ctx, user)
	if err != nil {
		return nil, err
	}
	utils.LogInfo("User role updated", map[string]interface{}{"user_id": id, "role": parsed})
	return updated, nil
}

// DeleteUser removes the account together with its reservations. Users with order history are kept.
func (s *userService) DeleteUser(ctx context.Context, id int64) error {
	if err := s.users.DeleteUser(ctx, nil, id); err != nil {
		switch {
		case errors.Is(err, repositories.ErrNotFound):
			return ErrUserNotFound
		case errors.Is(err, repositories.ErrForeignKey):
			return ErrUserHasOrders
		}
		return fmt.Errorf("deleting user %d: %w", id, err)
	}
	utils.LogInfo("User deleted", map[string]interface{}{"user_id": id})
	return nil
}

func (s *userService) UpdateProfile(ctx context.Context, userID int64, req UpdateProfileRequest) (*models.User, error) {
	user, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, validationErrorf("name cannot be empty")
		}
		user.Name = name
	}
	if req.Email != nil {
		email := normalizeEmail(*req.Email)
		if !utils.IsValidEmail(email) {
			return nil, validationErrorf("please include a valid email")
		}
		user.Email = email
	}
	if req.Password != nil {
		if !utils.IsValidPasswordLength(*req.Password, minPasswordLength) {
			return nil, validationErrorf("password must be at least 6 characters")
		}
		hash, err := hashPassword(*req.Password, s.bcryptCost)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hash
	}
	return s.save(ctx, user)
}

func (s *userService) EnsureAdmin(ctx context.Context, email, password string) error {
	email = normalizeEmail(email)
	if err := validateCredentials(email, password); err != nil {
		return err
	}

	user, err := s.users.GetUserByEmail(ctx, email)
	switch {
	case err == nil:
		if user.Role == models.RoleAdmin {
			return nil
		}
		user.Role = models.RoleAdmin
		if _, err := s.save(ctx, user); err != nil {
			return err
		}
		utils.LogInfo("Existing user promoted to admin", map[string]interface{}{"user_id": user.ID})
		return nil
	case !errors.Is(err, repositories.ErrNotFound):
		return fmt.Errorf("looking up admin account: %w", err)
	}

	hash, err := hashPassword(password, s.bcryptCost)
	if err != nil {
		return err
	}
	admin := &models.User{Name: "Administrator", Email: email, PasswordHash: hash, Role: models.RoleAdmin}
	if err := s.users.CreateUser(ctx, nil, admin); err != nil {
		return fmt.Errorf("creating admin account: %w", err)
	}
	utils.LogInfo("Admin account created", map[string]interface{}{"user_id": admin.ID})
	return nil
}
