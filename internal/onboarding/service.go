package onboarding

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/opensensemap/osem-map/internal/catalog"
	"github.com/opensensemap/osem-map/internal/config"
	"github.com/opensensemap/osem-map/internal/model"
	"github.com/opensensemap/osem-map/internal/wizard"
)

const cleanupInterval = 1 * time.Minute

// ErrSessionNotFound is returned for unknown or expired session ids.
var ErrSessionNotFound = errors.New("onboarding session not found")

// DeviceCreator persists a finished draft and returns the new device id.
type DeviceCreator interface {
	CreateDevice(ctx context.Context, draft model.DeviceDraft) (string, error)
}

// State is a read-only view of a session.
type State struct {
	ID        string             `json:"id"`
	Step      wizard.StepID      `json:"step"`
	Steps     []wizard.StepID    `json:"steps"`
	IsFirst   bool               `json:"is_first"`
	IsLast    bool               `json:"is_last"`
	Completed bool               `json:"completed"`
	DeviceID  string             `json:"device_id,omitempty"`
	Data      wizard.Accumulator `json:"data"`
}

type session struct {
	id       string
	wizard   *wizard.Controller
	touched   time.Time
	completed time.Time
	deviceID  string
}

// Service holds in-progress onboarding sessions in memory.
//
// Close() must be called on shutdown to stop the background cleanup goroutine.
type Service struct {
	creator  DeviceCreator
	catalog  *catalog.Catalog
	validate *validator.Validate
	ttl      time.Duration
	logger   *slog.Logger
	now      func() time.Time

	mu       sync.Mutex
	sessions map[string]*session

	cleanupDone chan struct{}
	closeOnce   sync.Once
}

// Option is a functional option for configuring a Service.
type Option func(*Service)

// WithTTL sets how long an idle session is kept.
func WithTTL(ttl time.Duration) Option {
	return func(s *Service) {
		s.ttl = ttl
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// NewService creates the service and starts its cleanup loop.
func NewService(creator DeviceCreator, cat *catalog.Catalog, opts ...Option) (*Service, error) {
	if creator == nil {
		return nil, errors.New("device creator is required")
	}
	if cat == nil {
		return nil, errors.New("device catalog is required")
	}

	s := &Service{
		creator:     creator,
		catalog:     cat,
		validate:    wizard.NewValidator(),
		ttl:         config.DefaultSessionTTL,
		logger:      slog.Default(),
		now:         time.Now,
		sessions:    make(map[string]*session),
		cleanupDone: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.ttl <= 0 {
		return nil, fmt.Errorf("session TTL must be positive, got %s", s.ttl)
	}

	go s.cleanupLoop()
	return s, nil
}

// Start opens a new session on the first step.
func (s *Service) Start() (State, error) {
	sess := &session{id: uuid.NewString()}

	ctrl, err := wizard.New(Steps(s.catalog, s.validate), s.completeFunc(sess),
		wizard.WithLogger(s.logger.With("session", sess.id)))
	if err != nil {
		return State{}, fmt.Errorf("create wizard: %w", err)
	}
	sess.wizard = ctrl

	s.mu.Lock()
	sess.touched = s.now()
	s.sessions[sess.id] = sess
	s.mu.Unlock()

	s.logger.Info("onboarding session started", "session", sess.id)
	return s.state(sess), nil
}

// Get returns the state of a session.
func (s *Service) Get(id string) (State, error) {
	sess, err := s.lookup(id)
	if err != nil {
		return State{}, err
	}
	return s.state(sess), nil
}

// Next validates the current step and advances.
func (s *Service) Next(id string, input json.RawMessage) (State, error) {
	return s.apply(id, func(c *wizard.Controller) error { return c.Next(input) })
}

// Back moves one step back.
func (s *Service) Back(id string) (State, error) {
	return s.apply(id, func(c *wizard.Controller) error { return c.Back() })
}

// GoTo jumps to the given step.
func (s *Service) GoTo(id string, step wizard.StepID) (State, error) {
	return s.apply(id, func(c *wizard.Controller) error { return c.GoTo(step) })
}

// Submit validates the summary step and creates the device.
func (s *Service) Submit(ctx context.Context, id string, input json.RawMessage) (State, error) {
	return s.apply(id, func(c *wizard.Controller) error { return c.Submit(ctx, input) })
}

// Len returns the number of live sessions.
func (s *Service) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Close stops the background cleanup goroutine. Safe to call multiple times.
func (s *Service) Close() {
	s.closeOnce.Do(func() {
		close(s.cleanupDone)
	})
}

// apply runs op on the session's wizard. The state is returned even when op fails so
// callers can show where the user is.
func (s *Service) apply(id string, op func(*wizard.Controller) error) (State, error) {
	sess, err := s.lookup(id)
	if err != nil {
		return State{}, err
	}
	opErr := op(sess.wizard)
	return s.state(sess), opErr
}

func (s *Service) lookup(id string) (*session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	sess.touched = s.now()
	return sess, nil
}

func (s *Service) state(sess *session) State {
	st := State{
		ID:        sess.id,
		Step:      sess.wizard.CurrentStepID(),
		Steps:     sess.wizard.StepIDs(),
		IsFirst:   sess.wizard.IsFirst(),
		IsLast:    sess.wizard.IsLast(),
		Completed: sess.wizard.Completed(),
		Data:      sess.wizard.Accumulator(),
	}

	s.mu.Lock()
	st.DeviceID = sess.deviceID
	s.mu.Unlock()
	return st
}

func (s *Service) completeFunc(sess *session) wizard.CompleteFunc {
	return func(ctx context.Context, acc wizard.Accumulator) error {
		draft, err := BuildDraft(acc, s.catalog)
		if err != nil {
			return fmt.Errorf("build device draft: %w", err)
		}

		deviceID, err := s.creator.CreateDevice(ctx, draft)
		if err != nil {
			return fmt.Errorf("create device: %w", err)
		}

		s.mu.Lock()
		sess.deviceID = deviceID
		sess.completed = s.now()
		s.mu.Unlock()

		s.logger.Info("device registered", "session", sess.id, "device_id", deviceID, "model", draft.Model)
		return nil
	}
}

func (s *Service) cleanupLoop() {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.cleanup()
		case <-s.cleanupDone:
			return
		}
	}
}

// cleanup drops sessions idle for longer than the TTL and submitted sessions older
// than config.CompletedSessionRetention.
func (s *Service) cleanup() {
	now := s.now()
	idleCutoff := now.Add(-s.ttl)
	doneCutoff := now.Add(-config.CompletedSessionRetention)

	s.mu.Lock()
	defer s.mu.Unlock()

	for id, sess := range s.sessions {
		switch {
		case !sess.completed.IsZero() && sess.completed.Before(doneCutoff):
			delete(s.sessions, id)
			s.logger.Debug("onboarding session closed", "session", id)
		case sess.touched.Before(idleCutoff):
			delete(s.sessions, id)
			s.logger.Debug("onboarding session expired", "session", id)
		}
	}
}
