package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	cointime "github.com/drakos74/nn-playground/internal/time"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// DefaultInterval is the pause between two epochs of a running trainer.
const DefaultInterval = 100 * time.Millisecond

// Trainer shares one session between the periodic training loop and any other callers.
// All access to the session goes through the trainer lock,
// so an epoch never interleaves with a reset or an evaluation.
type Trainer struct {
	mutex       sync.Mutex
	session     *Session
	interval    time.Duration
	active      bool
	closed      bool
	subscribers map[string]chan State
}

// NewTrainer creates a new trainer for the given session.
// The trainer starts stopped.
func NewTrainer(session *Session, interval time.Duration) *Trainer {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Trainer{
		session:     session,
		interval:    interval,
		subscribers: make(map[string]chan State),
	}
}

// Run trains the session once per interval while the trainer is active.
// It blocks until the context is done and then closes all subscriptions.
func (t *Trainer) Run(ctx context.Context) {
	log.Info().Str("interval", t.interval.String()).Msg("trainer started")
	cointime.Execute(ctx, t.interval, t.tick)

	t.mutex.Lock()
	defer t.mutex.Unlock()
	t.active = false
	t.closed = true
	for id, ch := range t.subscribers {
		close(ch)
		delete(t.subscribers, id)
	}
}

func (t *Trainer) tick() error {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	if !t.active {
		return nil
	}
	if _, err := t.session.Step(); err != nil {
		t.active = false
		return fmt.Errorf("training stopped: %w", err)
	}
	t.publish()
	return nil
}

// Start enables the periodic training.
func (t *Trainer) Start() {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	t.active = true
}

// Stop disables the periodic training, the network keeps its weights.
func (t *Trainer) Stop() {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	t.active = false
}

func (t *Trainer) Active() bool {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	return t.active
}

// Step trains the session for exactly one epoch.
func (t *Trainer) Step() (float64, error) {
	var loss float64
	err := t.Do(func(s *Session) error {
		l, err := s.Step()
		loss = l
		return err
	})
	return loss, err
}

// View gives read access to the session.
func (t *Trainer) View(fn func(s *Session)) {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	fn(t.session)
}

// Do applies the given change to the session and notifies the subscribers if it succeeds.
func (t *Trainer) Do(fn func(s *Session) error) error {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	if err := fn(t.session); err != nil {
		return err
	}
	t.publish()
	return nil
}

// State returns the current state of the session.
func (t *Trainer) State() State {
	var state State
	t.View(func(s *Session) {
		state = s.State()
	})
	return state
}

// Subscribe registers for the session state after every change.
// Slow subscribers miss updates instead of blocking the training.
// The returned function cancels the subscription.
func (t *Trainer) Subscribe() (<-chan State, func()) {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	ch := make(chan State, 1)
	if t.closed {
		close(ch)
		return ch, func() {}
	}

	id := uuid.New().String()
	t.subscribers[id] = ch
	return ch, func() {
		t.mutex.Lock()
		defer t.mutex.Unlock()
		if ch, ok := t.subscribers[id]; ok {
			close(ch)
			delete(t.subscribers, id)
		}
	}
}

// publish must be called while holding the lock.
func (t *Trainer) publish() {
	if len(t.subscribers) == 0 {
		return
	}
	state := t.session.State()
	for id, ch := range t.subscribers {
		select {
		case ch <- state:
		default:
			log.Debug().Str("subscriber", id).Int("epoch", state.Epoch).Msg("dropped update")
		}
	}
}
