package services

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/you/identitysvc/domain"
	"github.com/you/identitysvc/internal/logger"
)

const emailChannel = "email"

// VerificationConfig controls email verification resends
type VerificationConfig struct {
	ResendWindow time.Duration
}

// VerificationServiceImpl implements domain.VerificationService
type VerificationServiceImpl struct {
	userRepo        domain.UserRepository
	notificationSvc domain.NotificationService
	store           domain.VerificationStore
	audit           domain.AuditLogger
	config          VerificationConfig
	logger          *zap.Logger
}

// NewVerificationService creates a new email verification service
func NewVerificationService(
	userRepo domain.UserRepository,
	notificationSvc domain.NotificationService,
	store domain.VerificationStore,
	audit domain.AuditLogger,
	config VerificationConfig,
	lg *zap.Logger,
) domain.VerificationService {
	if lg == nil {
		lg = zap.NewNop()
	}
	return &VerificationServiceImpl{
		userRepo:        userRepo,
		notificationSvc: notificationSvc,
		store:           store,
		audit:           audit,
		config:          config,
		logger:          lg,
	}
}

// SendEmailVerification implements domain.VerificationService
func (s *VerificationServiceImpl) SendEmailVerification(ctx context.Context, userID uint) error {
	user, err := s.verifiableUser(ctx, userID)
	if err != nil {
		return err
	}

	key := resendKey(user.Email)
	if s.config.ResendWindow > 0 {
		acquired, wait, err := s.store.Acquire(ctx, key, s.config.ResendWindow)
		if err != nil {
			return fmt.Errorf("failed to check resend throttle: %w", err)
		}
		if !acquired {
			return &domain.ThrottledError{RetryAfterSeconds: int64(math.Ceil(wait.Seconds()))}
		}
	}

	if err := s.notificationSvc.StartVerification(user.Email, emailChannel); err != nil {
		// Let the caller retry straight away
		if s.config.ResendWindow > 0 {
			if relErr := s.store.Release(ctx, key); relErr != nil {
				logger.WithContext(ctx, s.logger).Warn("release resend throttle failed",
					zap.Uint("user_id", userID), zap.Error(relErr))
			}
		}
		return fmt.Errorf("failed to send verification email: %w", err)
	}

	s.record(ctx, domain.NewAuditEvent(domain.EmailVerificationRequestEvent, userID).
		WithEmail(logger.MaskEmail(user.Email)))
	return nil
}

// ConfirmEmail implements domain.VerificationService
func (s *VerificationServiceImpl) ConfirmEmail(ctx context.Context, userID uint, code string) error {
	code = strings.TrimSpace(code)
	if code == "" {
		return domain.ErrVerificationCodeInvalid
	}

	user, err := s.verifiableUser(ctx, userID)
	if err != nil {
		return err
	}

	approved, err := s.notificationSvc.CheckVerification(user.Email, code)
	if err != nil {
		return fmt.Errorf("failed to check verification code: %w", err)
	}
	if !approved {
		s.record(ctx, domain.NewAuditEvent(domain.EmailVerifiedEvent, userID).
			WithEmail(logger.MaskEmail(user.Email)).
			WithError(domain.ErrVerificationCodeInvalid))
		return domain.ErrVerificationCodeInvalid
	}

	if err := s.userRepo.MarkEmailVerified(ctx, userID); err != nil {
		return fmt.Errorf("failed to mark email verified: %w", err)
	}

	if s.config.ResendWindow > 0 {
		if err := s.store.Release(ctx, resendKey(user.Email)); err != nil {
			logger.WithContext(ctx, s.logger).Warn("release resend throttle failed",
				zap.Uint("user_id", userID), zap.Error(err))
		}
	}

	s.record(ctx, domain.NewAuditEvent(domain.EmailVerifiedEvent, userID).
		WithEmail(logger.MaskEmail(user.Email)))
	return nil
}

func (s *VerificationServiceImpl) verifiableUser(ctx context.Context, userID uint) (*domain.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if isPlaceholderEmail(user.Email) {
		return nil, domain.ErrEmailNotVerifiable
	}
	if user.EmailVerified {
		return nil, domain.ErrEmailAlreadyVerified
	}
	return user, nil
}

func (s *VerificationServiceImpl) record(ctx context.Context, event *domain.AuditEvent) {
	if s.audit == nil {
		return
	}
	if err := s.audit.LogEvent(ctx, event); err != nil {
		logger.WithContext(ctx, s.logger).Warn("audit log failed",
			zap.String("event_type", string(event.EventType)),
			zap.Error(err))
	}
}

func resendKey(email string) string {
	return "email:" + strings.ToLower(email)
}
