// Package capture accepts text from the capture window, journals it locally
// and forwards it to the Memoir API.
package capture

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
)

// ErrEmptyContent is returned for blank captures.
var ErrEmptyContent = errors.New("capture content is empty")

// Sink accepts captured text.
type Sink interface {
	Capture(ctx context.Context, content string) error
}

// Service journals every capture and, when a Sender is configured, delivers
// it. A failed delivery leaves the entry pending for Flush. An entry is sent
// by at most one caller at a time.
type Service struct {
	journal *Journal

	mu     sync.RWMutex
	sender Sender

	flushMu sync.Mutex

	claimMu  sync.Mutex
	inFlight map[string]struct{}
}

// NewService creates a service. sender may be nil to keep captures local.
func NewService(journal *Journal, sender Sender) *Service {
	return &Service{journal: journal, sender: sender, inFlight: make(map[string]struct{})}
}

// claim marks id as being delivered. It fails when another caller holds it.
func (s *Service) claim(id string) bool {
	s.claimMu.Lock()
	defer s.claimMu.Unlock()
	if _, busy := s.inFlight[id]; busy {
		return false
	}
	s.inFlight[id] = struct{}{}
	return true
}

func (s *Service) release(id string) {
	s.claimMu.Lock()
	delete(s.inFlight, id)
	s.claimMu.Unlock()
}

// SetSender swaps the delivery target, e.g. after the API settings change.
func (s *Service) SetSender(sender Sender) {
	s.mu.Lock()
	s.sender = sender
	s.mu.Unlock()
}

func (s *Service) currentSender() Sender {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sender
}

// Capture stores content and tries to deliver it once. Delivery failures
// are logged, not returned: the entry is safe in the journal.
func (s *Service) Capture(ctx context.Context, content string) error {
	content = strings.TrimSpace(content)
	if content == "" {
		return ErrEmptyContent
	}

	entry, err := s.journal.Append(ctx, content)
	if err != nil {
		return err
	}
	log.Printf("Capture: Stored %s (%d chars)", entry.ID, len(content))

	sender := s.currentSender()
	if sender == nil {
		return nil
	}
	if _, err := s.sendOnce(ctx, sender, entry.ID); err != nil {
		log.Printf("Capture: Delivery of %s failed, kept for retry: %v", entry.ID, err)
	}
	return nil
}

// Flush retries every pending entry and reports how many were delivered.
func (s *Service) Flush(ctx context.Context) (int, error) {
	sender := s.currentSender()
	if sender == nil {
		return 0, nil
	}

	s.flushMu.Lock()
	defer s.flushMu.Unlock()

	pending, err := s.journal.Pending(ctx, 0)
	if err != nil {
		return 0, err
	}

	delivered := 0
	var errs []error
	for _, e := range pending {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		ok, err := s.sendOnce(ctx, sender, e.ID)
		if err != nil {
			errs = append(errs, fmt.Errorf("capture %s: %w", e.ID, err))
			continue
		}
		if ok {
			delivered++
		}
	}
	if len(pending) > 0 {
		log.Printf("Capture: Flushed %d of %d pending captures", delivered, len(pending))
	}
	return delivered, errors.Join(errs...)
}

// sendOnce delivers id unless another caller is sending it or it has already
// been delivered.
func (s *Service) sendOnce(ctx context.Context, sender Sender, id string) (bool, error) {
	if !s.claim(id) {
		return false, nil
	}
	defer s.release(id)

	e, err := s.journal.Get(ctx, id)
	if err != nil {
		return false, err
	}
	if e.Delivered {
		return false, nil
	}
	if err := s.deliver(ctx, sender, e); err != nil {
		return false, err
	}
	return true, nil
}

// PendingCount returns the number of undelivered captures.
func (s *Service) PendingCount(ctx context.Context) (int, error) {
	pending, err := s.journal.Pending(ctx, 0)
	return len(pending), err
}

func (s *Service) deliver(ctx context.Context, sender Sender, e Entry) error {
	sendCtx, cancel := context.WithTimeout(ctx, DefaultTimeout)
	defer cancel()

	if err := sender.Send(sendCtx, e); err != nil {
		if markErr := s.journal.MarkFailed(ctx, e.ID, err); markErr != nil {
			log.Printf("Capture: %v", markErr)
		}
		return err
	}
	return s.journal.MarkDelivered(ctx, e.ID)
}
