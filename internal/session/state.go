package session

import (
	"context"
	"errors"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"watchhub/internal/guide"
	"watchhub/pkg/models"
)

// Phase values for State.Phase.
const (
	PhaseIdle    = "idle"
	PhaseLoading = "loading"
	PhaseReady   = "ready"
	PhaseError   = "error"
)

// Shown when a lookup dies on a dataset or provider failure. Details go
// to the log, not the user.
const lookupFailedMessage = "Could not load watch order data."

// ErrStaleConfirmation means the id presented to confirm or cancel does
// not match the pending confirmation (already handled, or replaced by a
// newer one).
var ErrStaleConfirmation = errors.New("session: confirmation is no longer pending")

// State is the whole renderer-facing session: what to show and whether
// a link is waiting on the user. Only Store methods write it.
type State struct {
	Phase        string                   `json:"phase"`
	Message      string                   `json:"message,omitempty"` // one line, set in the error phase
	MediaID      int                      `json:"media_id,omitempty"`
	Found        bool                     `json:"found"`
	Series       string                   `json:"series,omitempty"`
	Order        string                   `json:"order,omitempty"`
	Items        []models.DisplayItem     `json:"items"`
	Confirmation *models.LinkConfirmation `json:"confirmation,omitempty"`
}

// Looker runs one watch-order lookup. Implemented by guide.Service.
type Looker interface {
	Lookup(ctx context.Context, mediaID int) (guide.Result, error)
}

// Store owns the session state. Every write happens under one mutex and
// every transition is broadcast, so subscribers see a consistent stream.
type Store struct {
	mu    sync.Mutex
	state State
	hub   *Hub
	svc   Looker
}

func NewStore(svc Looker, hub *Hub) *Store {
	return &Store{
		svc: svc,
		hub: hub,
		state: State{
			Phase: PhaseIdle,
			Items: []models.DisplayItem{},
		},
	}
}

// Snapshot returns a copy of the current state. Items and the pending
// confirmation are never mutated after publication, so sharing the
// backing slice is fine.
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Lookup resolves mediaID and publishes the outcome. Overlapping calls
// are not serialized or cancelled: whichever finishes last owns the
// final state. Every path ends in ready or error, never in a stuck
// loading phase.
func (s *Store) Lookup(ctx context.Context, mediaID int) State {
	s.setLoading(mediaID)

	res, err := s.svc.Lookup(ctx, mediaID)
	if err != nil {
		log.Printf("[session] lookup %d failed: %v", mediaID, err)
		return s.setError(mediaID)
	}
	return s.setResult(res)
}

func (s *Store) setLoading(mediaID int) {
	s.mu.Lock()
	// a fresh lookup drops any stale confirmation along with old items
	s.state = State{
		Phase:   PhaseLoading,
		MediaID: mediaID,
		Items:   []models.DisplayItem{},
	}
	st := s.state
	s.mu.Unlock()
	s.publish("session.update", st)
}

func (s *Store) setError(mediaID int) State {
	s.mu.Lock()
	s.state = State{
		Phase:   PhaseError,
		Message: lookupFailedMessage,
		MediaID: mediaID,
		Items:   []models.DisplayItem{},
	}
	st := s.state
	s.mu.Unlock()
	s.publish("session.update", st)
	return st
}

func (s *Store) setResult(res guide.Result) State {
	s.mu.Lock()
	s.state = State{
		Phase:   PhaseReady,
		MediaID: res.MediaID,
		Found:   res.Found,
		Series:  res.Series,
		Order:   res.Order,
		Items:   res.Items,
	}
	st := s.state
	s.mu.Unlock()
	s.publish("session.update", st)
	return st
}

// RequestLink stages url behind a confirmation prompt. Any prior pending
// confirmation is replaced; nothing opens until the user confirms.
func (s *Store) RequestLink(url string) (models.LinkConfirmation, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return models.LinkConfirmation{}, errors.New("session: link url required")
	}

	conf := models.LinkConfirmation{
		ID:      uuid.NewString(),
		URL:     url,
		Message: "Open external link? " + url,
	}

	s.mu.Lock()
	s.state.Confirmation = &conf
	st := s.state
	s.mu.Unlock()
	s.publish("session.confirmation", st)
	return conf, nil
}

// ConfirmLink approves the pending confirmation and returns its URL for
// the caller to open. Ids that do not match the pending confirmation are
// rejected, so a stale approval can never open a newer link.
func (s *Store) ConfirmLink(id string) (string, error) {
	s.mu.Lock()
	conf := s.state.Confirmation
	if conf == nil || conf.ID != id {
		s.mu.Unlock()
		return "", ErrStaleConfirmation
	}
	url := conf.URL
	s.state.Confirmation = nil
	st := s.state
	s.mu.Unlock()

	s.publish("session.confirmation", st)
	log.Printf("[session] link confirmed: %s", url)
	return url, nil
}

// CancelLink declines the pending confirmation.
func (s *Store) CancelLink(id string) error {
	s.mu.Lock()
	conf := s.state.Confirmation
	if conf == nil || conf.ID != id {
		s.mu.Unlock()
		return ErrStaleConfirmation
	}
	s.state.Confirmation = nil
	st := s.state
	s.mu.Unlock()

	s.publish("session.confirmation", st)
	return nil
}

// DismissConfirmation clears any pending confirmation (backdrop
// dismissal). Dismissing nothing is fine.
func (s *Store) DismissConfirmation() {
	s.mu.Lock()
	changed := s.state.Confirmation != nil
	s.state.Confirmation = nil
	st := s.state
	s.mu.Unlock()

	if changed {
		s.publish("session.confirmation", st)
	}
}

// publish is synchronous so subscribers see transitions in the order
// they happened. Slow clients are bounded by the hub's write deadline.
func (s *Store) publish(eventType string, st State) {
	if s.hub == nil {
		return
	}
	s.hub.Broadcast(Event{Type: eventType, At: time.Now().UTC(), State: st})
}
