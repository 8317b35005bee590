package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"hvac-pq-report/internal/models"
	"hvac-pq-report/internal/repository"
	"hvac-pq-report/pkg/utils"

	"go.uber.org/zap"
)

var (
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrUsernameTaken       = errors.New("username already exists")
	ErrInvalidRole         = errors.New("invalid role")
	ErrInvalidRefreshToken = errors.New("invalid or revoked refresh token")
	ErrRefreshTokenExpired = errors.New("refresh token expired")
)

type AuthService struct {
	userRepo  *repository.UserRepository
	auditRepo *repository.AuditRepository
	log       *zap.Logger
}

func NewAuthService(userRepo *repository.UserRepository, auditRepo *repository.AuditRepository, log *zap.Logger) *AuthService {
	return &AuthService{
		userRepo:  userRepo,
		auditRepo: auditRepo,
		log:       log,
	}
}

// LoginResponse represents the response structure for login
type LoginResponse struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	User         UserResponse `json:"user"`
}

type UserResponse struct {
	ID             uint   `json:"id"`
	Username       string `json:"username"`
	Email          string `json:"email"`
	Role           string `json:"role"`
	OrganizationID uint   `json:"organization_id"`
}

// RegisterRequest is the data needed to open an account
type RegisterRequest struct {
	Username       string
	Email          string
	Password       string
	Role           string
	OrganizationID uint
}

// Login authenticates a user and returns tokens
func (s *AuthService) Login(username, password string) (*LoginResponse, error) {
	user, err := s.userRepo.FindUserByUsername(username)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	if !utils.ComparePassword(user.PasswordHash, password) {
		s.log.Warn("failed login", zap.String("username", username))
		return nil, ErrInvalidCredentials
	}

	resp, err := s.issueTokens(user)
	if err != nil {
		return nil, err
	}

	_ = s.auditRepo.CreateAuditLog(&user.ID, "user_login", fmt.Sprintf("User %s logged in", username))
	s.log.Info("user logged in", zap.Uint("user_id", user.ID), zap.String("role", user.Role))
	return resp, nil
}

// RefreshAccessToken generates a new access token from a refresh token
func (s *AuthService) RefreshAccessToken(refreshToken string) (string, error) {
	token, err := s.userRepo.FindRefreshTokenByHash(utils.HashRefreshToken(refreshToken))
	if err != nil {
		return "", ErrInvalidRefreshToken
	}
	if time.Now().After(token.ExpiresAt) {
		return "", ErrRefreshTokenExpired
	}

	accessToken, err := utils.GenerateAccessToken(token.User.ID, token.User.Role, token.User.OrganizationID)
	if err != nil {
		return "", fmt.Errorf("failed to generate access token: %w", err)
	}
	return accessToken, nil
}

// Logout revokes a refresh token
func (s *AuthService) Logout(refreshToken string) error {
	if err := s.userRepo.RevokeRefreshTokenByHash(utils.HashRefreshToken(refreshToken)); err != nil {
		return fmt.Errorf("failed to revoke refresh token: %w", err)
	}
	return nil
}

// LogoutAll revokes every refresh token of the user
func (s *AuthService) LogoutAll(userID uint) error {
	if err := s.userRepo.RevokeUserTokens(userID); err != nil {
		return fmt.Errorf("failed to revoke refresh tokens: %w", err)
	}
	_ = s.auditRepo.CreateAuditLog(&userID, "user_logout_all", "Revoked all refresh tokens")
	return nil
}

// Register creates a new user account. An empty role means technician.
func (s *AuthService) Register(req RegisterRequest) (*LoginResponse, error) {
	if req.Role == "" {
		req.Role = models.RoleTechnician
	}
	if !models.ValidRole(req.Role) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidRole, req.Role)
	}
	if existing, err := s.userRepo.FindUserByUsername(req.Username); err == nil && existing != nil {
		return nil, ErrUsernameTaken
	}

	passwordHash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username:       req.Username,
		Email:          strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash:   passwordHash,
		Role:           req.Role,
		OrganizationID: req.OrganizationID,
	}
	if err := s.userRepo.CreateUser(user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	resp, err := s.issueTokens(user)
	if err != nil {
		return nil, err
	}

	_ = s.auditRepo.CreateAuditLog(&user.ID, "user_registration", fmt.Sprintf("User %s registered as %s", req.Username, req.Role))
	s.log.Info("user registered", zap.Uint("user_id", user.ID), zap.String("role", user.Role))
	return resp, nil
}

func (s *AuthService) issueTokens(user *models.User) (*LoginResponse, error) {
	accessToken, err := utils.GenerateAccessToken(user.ID, user.Role, user.OrganizationID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken, err := utils.GenerateRefreshToken()
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	// Only the hash of the refresh token is stored
	record := &models.RefreshToken{
		UserID:    user.ID,
		TokenHash: utils.HashRefreshToken(refreshToken),
		ExpiresAt: time.Now().Add(utils.GetRefreshTokenExpiry()),
	}
	if err := s.userRepo.CreateRefreshToken(record); err != nil {
		return nil, fmt.Errorf("failed to store refresh token: %w", err)
	}

	return &LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User: UserResponse{
			ID:             user.ID,
			Username:       user.Username,
			Email:          user.Email,
			Role:           user.Role,
			OrganizationID: user.OrganizationID,
		},
	}, nil
}
