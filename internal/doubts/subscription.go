package doubts

import (
	"context"
	"sync"

	"learnhub/internal/models"
	"learnhub/internal/repository"
)

// Subscription is a live, ordered feed of one module's doubts. Only the latest snapshot is
// buffered: a consumer that falls behind skips intermediate states.
type Subscription struct {
	updates chan []*models.DoubtMessage
	done    chan struct{}
	once    sync.Once

	cancel context.CancelFunc
	it     repository.DoubtIterator

	errLock sync.Mutex
	err     error
}

func newSubscription(ctx context.Context, cancel context.CancelFunc, it repository.DoubtIterator, scope scope) *Subscription {
	sub := &Subscription{
		updates: make(chan []*models.DoubtMessage, 1),
		done:    make(chan struct{}),
		cancel:  cancel,
		it:      it,
	}
	go sub.run(scope)
	return sub
}

// Updates delivers ordered snapshots. It is closed when the subscription ends; Err then reports
// why.
func (s *Subscription) Updates() <-chan []*models.DoubtMessage {
	return s.updates
}

// Err returns the transport error that ended the subscription, or nil if it was unsubscribed.
func (s *Subscription) Err() error {
	s.errLock.Lock()
	defer s.errLock.Unlock()
	return s.err
}

// Unsubscribe stops delivery and releases the underlying listener. Calling it more than once is
// a no-op.
func (s *Subscription) Unsubscribe() {
	s.once.Do(func() {
		close(s.done)
		s.cancel()
		s.it.Stop()
	})
}

func (s *Subscription) stopped() bool {
	select {
	case <-s.done:
		return true
	default:
		return false
	}
}

func (s *Subscription) run(sc scope) {
	defer close(s.updates)
	defer s.Unsubscribe()

	for {
		doubts, err := s.it.Next()
		if err == repository.ErrWatchStopped {
			return
		}
		if err != nil {
			if !s.stopped() {
				s.errLock.Lock()
				s.err = err
				s.errLock.Unlock()
			}
			return
		}
		if s.stopped() {
			return
		}

		snapshot := Order(normalize(doubts, sc))

		// Replace any snapshot the consumer has not picked up yet.
		select {
		case s.updates <- snapshot:
		default:
			select {
			case <-s.updates:
			default:
			}
			s.updates <- snapshot
		}
	}
}
