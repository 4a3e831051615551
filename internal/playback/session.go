package playback

import (
	"context"
	"errors"
	"net/http"
	"slices"
	"strings"
	"sync"

	"github.com/AnthonyGillesRudolfo/Storefront-Order-Simulator/internal/catalog"
	"github.com/AnthonyGillesRudolfo/Storefront-Order-Simulator/internal/order"
)

const (
	MissingUserMessage = "Please enter your player ID before continuing"
	FallbackMessage    = "Payment simulation failed, please try again"
)

var (
	ErrMissingUserID    = errors.New("playback: player id required")
	ErrPurchaseInFlight = errors.New("playback: purchase already in flight for this product")
)

// OrderClient submits an intent to the order processor. *order.Processor and
// the HTTP client both satisfy it.
type OrderClient interface {
	CreateOrder(ctx context.Context, in order.Intent) (*order.Response, error)
}

// Session is one shopper on one storefront. Each purchase gets its own
// Controller; only the most recent attempt is forwarded to listeners.
type Session struct {
	client OrderClient
	sched  Scheduler
	store  string

	mu        sync.Mutex
	userID    string
	inFlight  map[string]struct{}
	gen       int
	last      Snapshot
	listeners []func(Snapshot)
}

func NewSession(client OrderClient, storeSlug string, sched Scheduler) *Session {
	return &Session{
		client:   client,
		sched:    sched,
		store:    storeSlug,
		inFlight: make(map[string]struct{}),
		last:     Snapshot{State: StateIdle, Message: IdleMessage},
	}
}

// SetUserID records the shopper's in-game identifier.
func (s *Session) SetUserID(id string) {
	s.mu.Lock()
	s.userID = id
	s.mu.Unlock()
}

// Subscribe registers fn for snapshots of the visible attempt.
func (s *Session) Subscribe(fn func(Snapshot)) {
	s.mu.Lock()
	s.listeners = append(s.listeners, fn)
	s.mu.Unlock()
}

// Snapshot returns the latest visible state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}

// InFlight reports whether productID has an attempt that has not finished.
func (s *Session) InFlight(productID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.inFlight[productID]
	return ok
}

func (s *Session) publish(gen int, snap Snapshot) {
	s.mu.Lock()
	if gen != s.gen {
		s.mu.Unlock()
		return
	}
	s.last = snap
	fns := slices.Clone(s.listeners)
	s.mu.Unlock()

	for _, fn := range fns {
		fn(snap)
	}
}

// Purchase submits an order for productID and plays the returned timeline.
// A blank player id is rejected before anything is sent. A product already
// being purchased returns ErrPurchaseInFlight; other products may proceed.
// The returned response is nil when the order request itself failed.
func (s *Session) Purchase(ctx context.Context, productID string, method catalog.PaymentMethod) (*order.Response, error) {
	s.mu.Lock()
	userID := strings.TrimSpace(s.userID)
	if userID == "" {
		s.last.Message = MissingUserMessage
		snap := s.last
		fns := slices.Clone(s.listeners)
		s.mu.Unlock()
		for _, fn := range fns {
			fn(snap)
		}
		return nil, ErrMissingUserID
	}
	if _, busy := s.inFlight[productID]; busy {
		s.mu.Unlock()
		return nil, ErrPurchaseInFlight
	}
	s.inFlight[productID] = struct{}{}
	s.gen++
	gen := s.gen
	ctrl := NewController(s.sched)
	s.mu.Unlock()

	ctrl.Subscribe(func(snap Snapshot) { s.publish(gen, snap) })
	defer func() {
		ctrl.Done()
		s.mu.Lock()
		delete(s.inFlight, productID)
		s.mu.Unlock()
	}()

	ctrl.Begin(CreatingMessage)

	resp, err := s.client.CreateOrder(ctx, order.Intent{
		StoreSlug:     s.store,
		ProductID:     productID,
		UserID:        userID,
		PaymentMethod: method,
	})
	if err != nil {
		ctrl.Fail(failureMessage(err))
		return nil, err
	}

	if err := ctrl.Play(ctx, resp.Timeline); err != nil {
		return resp, err
	}
	return resp, nil
}

// failureMessage prefers the server-provided text and falls back to a
// generic message.
func failureMessage(err error) string {
	var pub interface{ PublicMessage() string }
	if errors.As(err, &pub) && pub.PublicMessage() != "" {
		return pub.PublicMessage()
	}
	if order.HTTPStatus(err) != http.StatusInternalServerError {
		return order.PublicMessage(err)
	}
	return FallbackMessage
}
