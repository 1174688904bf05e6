package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopswift/commerce-backend/services/auth-service/models"
	"github.com/shopswift/commerce-backend/services/auth-service/repository"
	apperrors "github.com/shopswift/commerce-backend/services/common/errors"
	"github.com/shopswift/commerce-backend/services/common/events"
	"github.com/shopswift/commerce-backend/services/common/logger"
	"github.com/shopswift/commerce-backend/services/common/mailer"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const (
	MsgUserNotFound      = "User not found with this email."
	MsgResetCodeSent     = "Password reset code sent to your email."
	MsgInvalidResetToken = "Invalid or expired reset token"
	MsgPasswordReset     = "Password has been reset successfully."
)

// ResetTokenTTL is how long an issued reset token stays valid.
const ResetTokenTTL = time.Hour

type IUserRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	SaveResetToken(ctx context.Context, userID uuid.UUID, digest string, expires, at time.Time) error
	RedeemResetToken(ctx context.Context, userID uuid.UUID, digest, passwordHash string, at time.Time) error
}

// IPasswordResetService is what the HTTP layer needs.
type IPasswordResetService interface {
	RequestReset(ctx context.Context, email string) error
	CompleteReset(ctx context.Context, email, token, newPassword string) error
}

type PasswordResetService struct {
	users     IUserRepository
	mailer    mailer.Mailer
	publisher events.Publisher
	validator *PasswordValidator
	now       func() time.Time
	newToken  func() (string, string, error)
}

func NewPasswordResetService(users IUserRepository, m mailer.Mailer, publisher events.Publisher) *PasswordResetService {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &PasswordResetService{
		users:     users,
		mailer:    m,
		publisher: publisher,
		validator: NewPasswordValidator(),
		now:       time.Now,
		newToken:  GenerateResetToken,
	}
}

type resetEventPayload struct {
	UserID    string     `json:"user_id"`
	Email     string     `json:"email"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

// RequestReset issues a new token for the user, replacing any earlier one,
// and mails it. Only the token's digest is stored.
func (s *PasswordResetService) RequestReset(ctx context.Context, email string) error {
	user, err := s.users.FindByEmail(ctx, email)
	if errors.Is(err, repository.ErrUserNotFound) {
		return apperrors.NotFound(MsgUserNotFound)
	}
	if err != nil {
		return apperrors.Internal(err)
	}

	token, digest, err := s.newToken()
	if err != nil {
		return apperrors.Internal(err)
	}
	now := s.now().UTC()
	expires := now.Add(ResetTokenTTL)
	if err := s.users.SaveResetToken(ctx, user.ID, digest, expires, now); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return apperrors.NotFound(MsgUserNotFound)
		}
		return apperrors.Internal(err)
	}
	user.SetResetToken(digest, expires)

	body := buildPasswordResetEmailHTML(token, ResetTokenTTL)
	if err := s.mailer.Send(ctx, user.Email, PasswordResetSubject, body, PasswordResetCategory); err != nil {
		return apperrors.Internal(err)
	}

	s.publish(ctx, events.PasswordResetRequested, user, &expires)
	logger.Info(ctx, "password reset requested", zap.String("user_id", user.ID.String()))
	return nil
}

// CompleteReset sets a new password when token is the live token for email.
// Every token failure reports the same error so the endpoint does not reveal which accounts exist.
func (s *PasswordResetService) CompleteReset(ctx context.Context, email, token, newPassword string) error {
	user, err := s.users.FindByEmail(ctx, email)
	if errors.Is(err, repository.ErrUserNotFound) {
		return apperrors.BadRequest(MsgInvalidResetToken)
	}
	if err != nil {
		return apperrors.Internal(err)
	}

	if user.ResetPasswordToken == nil || user.ResetPasswordExpires == nil {
		return apperrors.BadRequest(MsgInvalidResetToken)
	}
	if !resetTokenMatches(token, *user.ResetPasswordToken) || !s.now().Before(*user.ResetPasswordExpires) {
		return apperrors.BadRequest(MsgInvalidResetToken)
	}

	if err := s.validator.ValidatePassword(newPassword); err != nil {
		return apperrors.Validation(apperrors.Issue{Field: "password", Message: err.Error()})
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return apperrors.Internal(err)
	}

	// A racing redemption or re-issue makes the conditional update miss.
	err = s.users.RedeemResetToken(ctx, user.ID, HashResetToken(token), string(hashed), s.now().UTC())
	if errors.Is(err, repository.ErrResetTokenInvalid) {
		return apperrors.BadRequest(MsgInvalidResetToken)
	}
	if err != nil {
		return apperrors.Internal(err)
	}
	user.Password = string(hashed)
	user.ClearResetToken()

	s.publish(ctx, events.PasswordResetCompleted, user, nil)
	logger.Info(ctx, "password reset completed", zap.String("user_id", user.ID.String()))
	return nil
}

func (s *PasswordResetService) publish(ctx context.Context, eventType string, user *models.User, expires *time.Time) {
	event := events.NewEvent(eventType, user.ID.String(), resetEventPayload{
		UserID:    user.ID.String(),
		Email:     user.Email,
		ExpiresAt: expires,
	})
	if err := s.publisher.Publish(ctx, event); err != nil {
		logger.Warn(ctx, "failed to publish auth event", zap.String("event_type", eventType), zap.Error(err))
	}
}
