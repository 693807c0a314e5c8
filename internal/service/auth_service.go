package service

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"rentkar/internal/model"
	"rentkar/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var emailPattern = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)

// --- DTOs ---

type RegisterRequestDTO struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	FullName string `json:"full_name" binding:"required"`
	Phone    string `json:"phone"`
}

type LoginRequestDTO struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type UserResponse struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	FullName  string `json:"full_name"`
	Phone     string `json:"phone"`
	Role      string `json:"role"`
	CreatedAt string `json:"created_at"`
}

type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// --- Interface ---

type AuthService interface {
	Register(ctx context.Context, req RegisterRequestDTO) (UserResponse, error)
	Login(ctx context.Context, req LoginRequestDTO) (LoginResponse, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (UserResponse, error)
}

type authService struct {
	users     repository.UserRepository
	jwtSecret []byte
	tokenTTL  time.Duration
}

func NewAuthService(users repository.UserRepository, jwtSecret []byte) AuthService {
	return &authService{users: users, jwtSecret: jwtSecret, tokenTTL: 24 * time.Hour}
}

// --- Implementation ---

func (s *authService) Register(ctx context.Context, req RegisterRequestDTO) (UserResponse, error) {
	if !emailPattern.MatchString(req.Email) {
		return UserResponse{}, fmt.Errorf("%w: invalid email format", ErrValidation)
	}
	if len(req.Password) < 8 {
		return UserResponse{}, fmt.Errorf("%w: password must be at least 8 characters", ErrValidation)
	}

	emailTaken, err := s.users.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return UserResponse{}, fmt.Errorf("failed to check email: %w", err)
	}
	if emailTaken {
		return UserResponse{}, ErrEmailTaken
	}

	usernameTaken, err := s.users.ExistsByUsername(ctx, req.Username)
	if err != nil {
		return UserResponse{}, fmt.Errorf("failed to check username: %w", err)
	}
	if usernameTaken {
		return UserResponse{}, ErrUsernameTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return UserResponse{}, fmt.Errorf("failed to hash password: %w", err)
	}

	user := model.User{
		Username: req.Username,
		Email:    req.Email,
		FullName: req.FullName,
		Phone:    req.Phone,
		Password: string(hash),
		Role:     model.RoleUser,
	}
	if err := s.users.Create(ctx, &user); err != nil {
		return UserResponse{}, fmt.Errorf("failed to create user: %w", err)
	}

	return toUserResponse(user), nil
}

func (s *authService) Login(ctx context.Context, req LoginRequestDTO) (LoginResponse, error) {
	user, err := s.users.FindByUsername(ctx, req.Username)
	if err != nil {
		// Do not reveal whether the username exists.
		return LoginResponse{}, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return LoginResponse{}, ErrInvalidCredentials
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   user.ID.String(),
		"name":  user.FullName,
		"email": user.Email,
		"role":  user.Role,
		"iat":   now.Unix(),
		"exp":   now.Add(s.tokenTTL).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
	if err != nil {
		return LoginResponse{}, fmt.Errorf("failed to sign token: %w", err)
	}

	return LoginResponse{Token: token, User: toUserResponse(*user)}, nil
}

func (s *authService) GetUserByID(ctx context.Context, id uuid.UUID) (UserResponse, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return UserResponse{}, notFoundOr(err, ErrUserNotFound)
	}
	return toUserResponse(*user), nil
}

func toUserResponse(user model.User) UserResponse {
	return UserResponse{
		ID:        user.ID.String(),
		Username:  user.Username,
		Email:     user.Email,
		FullName:  user.FullName,
		Phone:     user.Phone,
		Role:      user.Role,
		CreatedAt: user.CreatedAt.Format(time.RFC3339),
	}
}
