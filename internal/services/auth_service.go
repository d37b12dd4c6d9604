// internal/services/auth_service.go
package services

import (
	"errors"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/qrtrace/qrtrace-api/internal/apperrors"
	"github.com/qrtrace/qrtrace-api/internal/config"
	"github.com/qrtrace/qrtrace-api/internal/models"
	"github.com/qrtrace/qrtrace-api/internal/store"
	"github.com/qrtrace/qrtrace-api/internal/utils"
)

// AuthService authenticates manufacturer accounts and issues access tokens
// for the record-issuing endpoints. Public verification needs no account.
type AuthService struct {
	users store.UserStore
	cfg   *config.Config
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type AuthResponse struct {
	User        *models.User `json:"user"`
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
	ExpiresIn   int          `json:"expires_in"` // in seconds
}

func NewAuthService(users store.UserStore, cfg *config.Config) *AuthService {
	return &AuthService{
		users: users,
		cfg:   cfg,
	}
}

func (s *AuthService) Login(req *LoginRequest) (*AuthResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, apperrors.NewValidation("validation failed", utils.GetValidationErrors(err))
	}

	user, err := s.users.GetByEmail(req.Email)
	if err != nil {
		var notFound *apperrors.NotFoundError
		if errors.As(err, &notFound) {
			// Same failure for unknown email and wrong password.
			return nil, apperrors.NewValidation("invalid email or password", nil)
		}
		return nil, err
	}

	if user.Status != models.UserStatusActive {
		return nil, apperrors.NewValidation("account is not active", nil)
	}

	if err := user.CheckPassword(req.Password); err != nil {
		return nil, apperrors.NewValidation("invalid email or password", nil)
	}

	token, err := utils.GenerateJWT(user.ID, user.Username, string(user.Role), s.cfg.JWT.AccessTokenTTL)
	if err != nil {
		return nil, apperrors.NewPersistence("token generation", err)
	}

	if err := s.users.RecordLogin(user.ID); err != nil {
		logrus.WithError(err).WithField("user_id", user.ID).Warn("Failed to record login time")
	}

	logrus.WithFields(logrus.Fields{
		"user_id": user.ID,
		"role":    user.Role,
	}).Info("User logged in")

	return &AuthResponse{
		User:        user,
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   s.cfg.JWT.AccessTokenTTL * 3600,
	}, nil
}

func (s *AuthService) GetUserByID(userID uuid.UUID) (*models.User, error) {
	return s.users.GetByID(userID)
}
