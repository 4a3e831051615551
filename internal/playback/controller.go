// Package playback replays a simulated order timeline on the shopper side,
// advancing a small state machine with real delays between phases.
package playback

import (
	"context"
	"maps"
	"slices"
	"sync"

	"github.com/AnthonyGillesRudolfo/Storefront-Order-Simulator/internal/order"
)

// State is the shopper-visible status of a purchase attempt.
type State string

const (
	StateIdle       State = "idle"
	StateProcessing State = "processing"
	StateSuccess    State = "success"
	StateFailed     State = "failed"
)

// Terminal reports whether no further transitions happen for this attempt.
func (s State) Terminal() bool { return s == StateSuccess || s == StateFailed }

// Stage groups phases into the two progress indicators a storefront shows.
type Stage string

const (
	StageNone     Stage = ""
	StagePayment  Stage = "payment"
	StageDelivery Stage = "delivery"
)

// StageOf maps a timeline phase onto its progress stage.
func StageOf(p order.Phase) Stage {
	switch p {
	case order.PhaseCreated, order.PhaseRedirect, order.PhaseProcessing:
		return StagePayment
	case order.PhaseWebhook, order.PhaseCompleted:
		return StageDelivery
	default:
		return StageNone
	}
}

const (
	IdleMessage         = "Choose a pack to get started"
	CreatingMessage     = "Creating your order..."
	ConfirmationMessage = "Payment confirmed. Items will arrive within a few minutes."
)

// Snapshot is the observable state handed to listeners.
type Snapshot struct {
	State      State
	Phase      order.Phase
	Message    string
	Submitting bool
}

// Stage is derived from the current phase.
func (s Snapshot) Stage() Stage { return StageOf(s.Phase) }

// Controller drives one purchase attempt through its timeline. Playback is
// strictly sequential; listeners are called synchronously, in order, after
// every change.
type Controller struct {
	sched Scheduler

	mu        sync.Mutex
	snap      Snapshot
	listeners map[int]func(Snapshot)
	nextID    int
}

func NewController(sched Scheduler) *Controller {
	if sched == nil {
		sched = TimerScheduler{}
	}
	return &Controller{
		sched:     sched,
		snap:      Snapshot{State: StateIdle, Message: IdleMessage},
		listeners: make(map[int]func(Snapshot)),
	}
}

// Snapshot returns the current state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snap
}

// Subscribe registers fn for every subsequent change and returns a function
// that removes it.
func (c *Controller) Subscribe(fn func(Snapshot)) func() {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := c.nextID
	c.nextID++
	c.listeners[id] = fn
	return func() {
		c.mu.Lock()
		delete(c.listeners, id)
		c.mu.Unlock()
	}
}

func (c *Controller) update(mutate func(*Snapshot)) {
	c.mu.Lock()
	mutate(&c.snap)
	snap := c.snap
	fns := make([]func(Snapshot), 0, len(c.listeners))
	for _, id := range slices.Sorted(maps.Keys(c.listeners)) {
		fns = append(fns, c.listeners[id])
	}
	c.mu.Unlock()

	for _, fn := range fns {
		fn(snap)
	}
}

// Begin resets the controller for a new attempt.
func (c *Controller) Begin(message string) {
	c.update(func(s *Snapshot) {
		*s = Snapshot{State: StateProcessing, Message: message, Submitting: true}
	})
}

// Fail ends the attempt with message, e.g. when the order request is rejected.
func (c *Controller) Fail(message string) {
	c.update(func(s *Snapshot) {
		s.State = StateFailed
		s.Message = message
	})
}

// Notify changes only the displayed message.
func (c *Controller) Notify(message string) {
	c.update(func(s *Snapshot) { s.Message = message })
}

// Done clears the submitting flag once the attempt is over.
func (c *Controller) Done() {
	c.update(func(s *Snapshot) { s.Submitting = false })
}

// Play walks the timeline in order. A completed phase moves to success; a
// failed phase moves to failed and stops immediately, returning
// order.ErrSimulatedPaymentFailure. After a full run with no failed phase the
// confirmation message replaces the last entry's message. There is no abort:
// ctx only interrupts a pending wait, in which case ctx.Err() is returned and
// the snapshot stays at the last phase entered.
func (c *Controller) Play(ctx context.Context, timeline []order.TimelineEntry) error {
	for _, entry := range timeline {
		c.update(func(s *Snapshot) {
			s.Phase = entry.Phase
			s.Message = entry.Message
			switch entry.Phase {
			case order.PhaseCompleted:
				s.State = StateSuccess
			case order.PhaseFailed:
				s.State = StateFailed
			default:
				s.State = StateProcessing
			}
		})
		if entry.Phase == order.PhaseFailed {
			return order.ErrSimulatedPaymentFailure
		}
		if entry.Delay > 0 {
			if err := c.sched.Sleep(ctx, entry.Delay); err != nil {
				return err
			}
		}
	}

	c.Notify(ConfirmationMessage)
	return nil
}
