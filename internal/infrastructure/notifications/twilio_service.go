package notifications

import (
	"fmt"

	"github.com/twilio/twilio-go"
	verify "github.com/twilio/twilio-go/rest/verify/v2"
	"go.uber.org/zap"

	"github.com/you/identitysvc/domain"
	"github.com/you/identitysvc/internal/logger"
)

const statusApproved = "approved"

// verifyAPI is the part of the Twilio Verify v2 client used here
type verifyAPI interface {
	CreateVerification(serviceSid string, params *verify.CreateVerificationParams) (*verify.VerifyV2Verification, error)
	CreateVerificationCheck(serviceSid string, params *verify.CreateVerificationCheckParams) (*verify.VerifyV2VerificationCheck, error)
}

// TwilioConfig holds the Verify service credentials
type TwilioConfig struct {
	AccountSID       string
	AuthToken        string
	VerifyServiceSID string
}

// Configured reports whether every credential is present
func (c TwilioConfig) Configured() bool {
	return c.AccountSID != "" && c.AuthToken != "" && c.VerifyServiceSID != ""
}

// TwilioServiceImpl implements domain.NotificationService with Twilio Verify
type TwilioServiceImpl struct {
	api        verifyAPI
	serviceSID string
	logger     *zap.Logger
}

// NewTwilioService creates a new Twilio notification service. Without
// credentials both starting and checking a verification fail with
// domain.ErrVerificationUnavailable.
func NewTwilioService(cfg TwilioConfig, lg *zap.Logger) domain.NotificationService {
	if lg == nil {
		lg = zap.NewNop()
	}
	svc := &TwilioServiceImpl{serviceSID: cfg.VerifyServiceSID, logger: lg}
	if cfg.Configured() {
		client := twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: cfg.AccountSID,
			Password: cfg.AuthToken,
		})
		svc.api = client.VerifyV2
	}
	return svc
}

// StartVerification implements domain.NotificationService
func (t *TwilioServiceImpl) StartVerification(to, channel string) error {
	if t.api == nil {
		t.logger.Warn("verification not sent, twilio is not configured",
			zap.String("to", maskRecipient(to, channel)),
			zap.String("channel", channel))
		return domain.ErrVerificationUnavailable
	}

	params := &verify.CreateVerificationParams{}
	params.SetTo(to)
	params.SetChannel(channel)

	if _, err := t.api.CreateVerification(t.serviceSID, params); err != nil {
		return fmt.Errorf("failed to start %s verification: %w", channel, err)
	}
	return nil
}

// CheckVerification implements domain.NotificationService
func (t *TwilioServiceImpl) CheckVerification(to, code string) (bool, error) {
	if t.api == nil {
		return false, domain.ErrVerificationUnavailable
	}

	params := &verify.CreateVerificationCheckParams{}
	params.SetTo(to)
	params.SetCode(code)

	check, err := t.api.CreateVerificationCheck(t.serviceSID, params)
	if err != nil {
		return false, fmt.Errorf("failed to check verification: %w", err)
	}
	return check.Status != nil && *check.Status == statusApproved, nil
}

func maskRecipient(to, channel string) string {
	if channel == "email" {
		return logger.MaskEmail(to)
	}
	return logger.MaskPhone(to)
}
