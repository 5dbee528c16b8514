package provider

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"doodh-waitlist/repository"
	"doodh-waitlist/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	smsCodeLength = 6
	// wrong guesses allowed per code before it is thrown away
	smsMaxMisses = 5
)

var e164Pattern = regexp.MustCompile(`^\+[1-9]\d{7,14}$`)

// phoneNamespace derives stable user ids from verified phone numbers
var phoneNamespace = uuid.MustParse("6f1c3c3e-8a9b-4f43-9d0e-2b7f5d1a4c61")

// BotVerifier checks a browser bot-check token server side
type BotVerifier interface {
	Verify(ctx context.Context, token string) error
}

// SMSSender delivers a text message
type SMSSender interface {
	Send(ctx context.Context, to, body string) error
}

// SMSProvider generates codes itself, keeps them hashed in a code store and
// texts them out through an SMSSender
type SMSProvider struct {
	*ChallengeRegistry
	bots    BotVerifier
	codes   repository.VerificationRepository
	sender  SMSSender
	codeTTL time.Duration
	appName string
	logger  *zap.Logger
}

// NewSMSProvider wires the provider. A nil bots skips the server-side bot check.
func NewSMSProvider(
	registry *ChallengeRegistry,
	bots BotVerifier,
	codes repository.VerificationRepository,
	sender SMSSender,
	codeTTL time.Duration,
	appName string,
	logger *zap.Logger,
) *SMSProvider {
	return &SMSProvider{
		ChallengeRegistry: registry,
		bots:              bots,
		codes:             codes,
		sender:            sender,
		codeTTL:           codeTTL,
		appName:           appName,
		logger:            logger,
	}
}

func (p *SMSProvider) SendCode(ctx context.Context, phoneNumber string, challenge *Challenge) (Confirmation, error) {
	token, err := challenge.Consume()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrChallengeRejected, err)
	}
	if !e164Pattern.MatchString(phoneNumber) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidPhone, phoneNumber)
	}
	if p.bots != nil {
		if err := p.bots.Verify(ctx, token); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrChallengeRejected, err)
		}
	}

	code, err := util.GenerateRandomDigits(smsCodeLength)
	if err != nil {
		return nil, fmt.Errorf("generate code: %w", err)
	}
	hashed, err := util.HashCode(code)
	if err != nil {
		return nil, fmt.Errorf("hash code: %w", err)
	}

	// the key plays the part of the provider's session info
	key := uuid.NewString()
	if err := p.codes.Save(ctx, key, hashed, p.codeTTL); err != nil {
		return nil, fmt.Errorf("store code: %w", err)
	}

	body := fmt.Sprintf("%s is your %s verification code. It expires in %d minutes.",
		code, p.appName, int(p.codeTTL.Minutes()))
	if err := p.sender.Send(ctx, phoneNumber, body); err != nil {
		_ = p.codes.Delete(ctx, key)
		return nil, fmt.Errorf("deliver code: %w", err)
	}

	p.logger.Info("sms verification code sent", zap.String("challenge_id", challenge.ID()))
	return &smsConfirmation{provider: p, key: key, phoneNumber: phoneNumber}, nil
}

type smsConfirmation struct {
	provider    *SMSProvider
	key         string
	phoneNumber string
}

func (c *smsConfirmation) Confirm(ctx context.Context, code string) (*UserRecord, error) {
	hashed, err := c.provider.codes.Get(ctx, c.key)
	if errors.Is(err, repository.ErrCodeNotFound) || errors.Is(err, repository.ErrCodeExpired) {
		return nil, fmt.Errorf("%w: %v", ErrCodeExpired, err)
	}
	if err != nil {
		return nil, err
	}

	if !util.CompareCode(hashed, code) {
		misses, err := c.provider.codes.RecordMiss(ctx, c.key)
		if errors.Is(err, repository.ErrCodeNotFound) || errors.Is(err, repository.ErrCodeExpired) {
			return nil, fmt.Errorf("%w: %v", ErrCodeExpired, err)
		}
		if err != nil {
			return nil, err
		}
		if misses >= smsMaxMisses {
			_ = c.provider.codes.Delete(ctx, c.key)
			c.provider.logger.Warn("sms code burned after wrong guesses", zap.Int("misses", misses))
			return nil, fmt.Errorf("%w: %w", ErrCodeExpired, ErrQuotaExceeded)
		}
		return nil, ErrInvalidCode
	}

	// one use only
	_ = c.provider.codes.Delete(ctx, c.key)

	return &UserRecord{
		UID:         uuid.NewSHA1(phoneNamespace, []byte(c.phoneNumber)).String(),
		PhoneNumber: c.phoneNumber,
	}, nil
}
