package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"doodh-waitlist/model"
	"doodh-waitlist/repository"
	"doodh-waitlist/util"

	"go.uber.org/zap"
)

// Enroller receives every verified signup. Its errors never undo a verification.
type Enroller interface {
	Enroll(ctx context.Context, entry *model.WaitlistEntry) error
}

type WelcomeMailer interface {
	SendWelcome(toEmail, name, brand string) error
}

type JoinedPublisher interface {
	PublishJoined(entry *model.WaitlistEntry) error
}

// WaitlistService stores verified signups and fans the news out by mail and Kafka.
// Mailer and publisher are optional.
type WaitlistService struct {
	repo      repository.WaitlistRepository
	mailer    WelcomeMailer
	publisher JoinedPublisher
	brand     string
	logger    *zap.Logger

	mails sync.WaitGroup
}

func NewWaitlistService(
	repo repository.WaitlistRepository,
	mailer WelcomeMailer,
	publisher JoinedPublisher,
	brand string,
	logger *zap.Logger,
) *WaitlistService {
	return &WaitlistService{
		repo:      repo,
		mailer:    mailer,
		publisher: publisher,
		brand:     brand,
		logger:    logger,
	}
}

// Enroll creates the entry. A phone number that is already on the list is
// refreshed in place and gets no second welcome.
func (s *WaitlistService) Enroll(ctx context.Context, entry *model.WaitlistEntry) error {
	err := s.repo.Create(ctx, entry)
	if util.IsDuplicateKeyError(err) {
		return s.refresh(ctx, entry)
	}
	if err != nil {
		return fmt.Errorf("create waitlist entry: %w", err)
	}
	s.logger.Info("joined waitlist", zap.String("entry_id", entry.ID.String()), zap.String("pincode", entry.Pincode))

	if s.mailer != nil && entry.Email != "" {
		s.mails.Add(1)
		go func(to, name string) {
			defer s.mails.Done()
			if err := s.mailer.SendWelcome(to, name, s.brand); err != nil {
				s.logger.Error("welcome mail failed", zap.String("to", to), zap.Error(err))
			}
		}(entry.Email, entry.Name)
	}

	if s.publisher != nil {
		if err := s.publisher.PublishJoined(entry); err != nil {
			return err
		}
	}
	return nil
}

func (s *WaitlistService) refresh(ctx context.Context, entry *model.WaitlistEntry) error {
	existing, err := s.repo.GetByPhone(ctx, entry.Phone)
	if err != nil {
		return fmt.Errorf("load existing entry: %w", err)
	}
	existing.Name = entry.Name
	existing.Email = entry.Email
	existing.Pincode = entry.Pincode
	existing.ProviderUID = entry.ProviderUID
	existing.VerifiedAt = entry.VerifiedAt
	if err := s.repo.Update(ctx, existing); err != nil {
		return fmt.Errorf("update waitlist entry: %w", err)
	}
	*entry = *existing
	s.logger.Info("already on waitlist, details refreshed", zap.String("entry_id", existing.ID.String()))
	return nil
}

func (s *WaitlistService) Count(ctx context.Context) (int64, error) {
	return s.repo.Count(ctx)
}

// Wait blocks until queued welcome mails are done
func (s *WaitlistService) Wait() {
	s.mails.Wait()
}

// LogEnroller only records the signup; used when no waitlist store is configured
type LogEnroller struct {
	logger *zap.Logger
}

func NewLogEnroller(logger *zap.Logger) *LogEnroller {
	return &LogEnroller{logger: logger}
}

func (e *LogEnroller) Enroll(_ context.Context, entry *model.WaitlistEntry) error {
	if entry == nil {
		return errors.New("nil waitlist entry")
	}
	e.logger.Info("verified signup (no waitlist store configured)",
		zap.String("phone", entry.Phone),
		zap.String("pincode", entry.Pincode),
	)
	return nil
}
