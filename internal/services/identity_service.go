package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/you/identitysvc/domain"
	"github.com/you/identitysvc/internal/logger"
	"github.com/you/identitysvc/internal/phone"
)

// IdentityServiceImpl implements domain.IdentityService
type IdentityServiceImpl struct {
	userRepo    domain.UserRepository
	passwordSvc domain.PasswordService
	uniqueness  *UniquenessChecker
	credentials *CredentialService
	audit       domain.AuditLogger
	logger      *zap.Logger
}

// NewIdentityService creates a new identity service. audit and lg may be nil.
func NewIdentityService(
	userRepo domain.UserRepository,
	passwordSvc domain.PasswordService,
	tokenSvc domain.TokenService,
	audit domain.AuditLogger,
	lg *zap.Logger,
) domain.IdentityService {
	if lg == nil {
		lg = zap.NewNop()
	}
	return &IdentityServiceImpl{
		userRepo:    userRepo,
		passwordSvc: passwordSvc,
		uniqueness:  NewUniquenessChecker(userRepo),
		credentials: NewCredentialService(passwordSvc, tokenSvc),
		audit:       audit,
		logger:      lg,
	}
}

// SignUp implements domain.IdentityService
func (s *IdentityServiceImpl) SignUp(ctx context.Context, req domain.SignUpRequest) (*domain.User, error) {
	user, err := s.signUp(ctx, req)
	if err != nil {
		s.record(ctx, domain.NewAuditEvent(domain.UserRegistrationFailureEvent, 0).
			WithEmail(logger.MaskEmail(strings.TrimSpace(req.Email))).
			WithError(err))
		return nil, err
	}

	s.record(ctx, domain.NewAuditEvent(domain.UserRegistrationEvent, user.ID).
		WithEmail(logger.MaskEmail(user.Email)).
		WithMetadata("has_phone", user.Phone != nil).
		WithMetadata("has_whatsapp", user.Whatsapp != nil))
	return user, nil
}

func (s *IdentityServiceImpl) signUp(ctx context.Context, req domain.SignUpRequest) (*domain.User, error) {
	// Validate phones
	var err error
	if req.Phone, err = normalizePair(req.Phone); err != nil {
		return nil, err
	}
	if req.Whatsapp, err = normalizePair(req.Whatsapp); err != nil {
		return nil, err
	}

	identity, err := SanitizeIdentity(req)
	if err != nil {
		return nil, err
	}

	if req.Password == "" {
		return nil, domain.ErrPasswordRequired
	}

	if err := s.uniqueness.CheckExists(ctx, identity); err != nil {
		return nil, err
	}

	hashedPassword, err := s.passwordSvc.Hash(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	user := &domain.User{
		Email:        identity.Email,
		Username:     identity.Username,
		Phone:        identity.Phone,
		Whatsapp:     identity.Whatsapp,
		PasswordHash: hashedPassword,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	logger.WithContext(ctx, s.logger).Info("user signed up",
		zap.Uint("user_id", user.ID),
		zap.String("email", logger.MaskEmail(user.Email)))
	return user, nil
}

// SignIn implements domain.IdentityService
func (s *IdentityServiceImpl) SignIn(ctx context.Context, req domain.SignInRequest) (*domain.AuthResult, error) {
	id, err := domain.ResolveSignInIdentifier(req)
	if err != nil {
		s.recordLoginFailure(ctx, id, err)
		return nil, err
	}

	user, err := s.findByIdentifier(ctx, id)
	if err != nil {
		s.recordLoginFailure(ctx, id, err)
		return nil, err
	}

	token, err := s.credentials.IssueToken(user, req.Password)
	if err != nil {
		s.record(ctx, domain.NewAuditEvent(domain.UserLoginFailureEvent, user.ID).
			WithIdentifier(id.Kind).
			WithError(err))
		return nil, err
	}

	s.record(ctx, domain.NewAuditEvent(domain.UserLoginEvent, user.ID).
		WithIdentifier(id.Kind).
		WithEmail(logger.MaskEmail(user.Email)))

	return &domain.AuthResult{
		User:        user,
		AccessToken: token,
	}, nil
}

// GetProfile implements domain.IdentityService
func (s *IdentityServiceImpl) GetProfile(ctx context.Context, userID uint) (*domain.User, error) {
	return s.userRepo.FindByID(ctx, userID)
}

func (s *IdentityServiceImpl) findByIdentifier(ctx context.Context, id domain.Identifier) (*domain.User, error) {
	var (
		user *domain.User
		err  error
	)

	switch id.Kind {
	case domain.IdentifierPhone, domain.IdentifierWhatsapp:
		pair, pairErr := normalizePair(id.Pair)
		if pairErr != nil {
			return nil, pairErr
		}
		if id.Kind == domain.IdentifierPhone {
			user, err = s.userRepo.FindByPhone(ctx, pair)
		} else {
			user, err = s.userRepo.FindByWhatsapp(ctx, pair)
		}
	case domain.IdentifierEmail:
		user, err = s.userRepo.FindByEmail(ctx, id.Value)
	case domain.IdentifierUsername:
		user, err = s.userRepo.FindByUsername(ctx, id.Value)
	default:
		return nil, domain.ErrInvalidCredentials
	}

	if errors.Is(err, domain.ErrUserNotFound) {
		return nil, domain.ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user by %s: %w", id.Kind, err)
	}
	return user, nil
}

func (s *IdentityServiceImpl) recordLoginFailure(ctx context.Context, id domain.Identifier, err error) {
	event := domain.NewAuditEvent(domain.UserLoginFailureEvent, 0).
		WithIdentifier(id.Kind).
		WithError(err)
	if id.Kind == domain.IdentifierEmail {
		event.WithEmail(logger.MaskEmail(id.Value))
	}
	s.record(ctx, event)
}

func (s *IdentityServiceImpl) record(ctx context.Context, event *domain.AuditEvent) {
	if s.audit == nil {
		return
	}
	if err := s.audit.LogEvent(ctx, event); err != nil {
		logger.WithContext(ctx, s.logger).Warn("audit log failed",
			zap.String("event_type", string(event.EventType)),
			zap.Error(err))
	}
}

// normalizePair validates a fully supplied pair and returns its cleaned
// digits. A pair missing either half is returned as the zero pair.
func normalizePair(pair domain.PhonePair) (domain.PhonePair, error) {
	if !pair.Present() {
		return domain.PhonePair{}, nil
	}

	result := phone.ValidatePair(pair)
	if err := result.Err(); err != nil {
		return domain.PhonePair{}, err
	}
	return result.Pair(), nil
}
