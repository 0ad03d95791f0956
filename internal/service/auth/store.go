package auth

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	"smartband-store/internal/domain"
	"smartband-store/internal/metrics"
	"smartband-store/internal/repository/record"
)

// ErrBusy is returned when a login or register is already in flight.
var ErrBusy = errors.New("another auth operation is in progress")

const (
	MsgInvalidCredentials = "ایمیل یا رمز عبور اشتباه است"
	MsgEmailTaken         = "کاربری با این ایمیل قبلاً ثبت نام کرده است"
	MsgLoginFailed        = "خطا در ورود به سیستم"
	MsgRegisterFailed     = "خطا در ثبت نام"
)

// DashboardPath is where the client goes after login or register.
const DashboardPath = "/dashboard"

type Phase string

const (
	PhaseLoggedOut     Phase = "logged-out"
	PhaseLoggingIn     Phase = "logging-in"
	PhaseRegisteringIn Phase = "registering-in"
	PhaseLoggedIn      Phase = "logged-in"
)

type State struct {
	User      *domain.User `json:"user"`
	IsLoading bool         `json:"isLoading"`
	Error     *string      `json:"error"`
	Phase     Phase        `json:"phase"`
}

// Store is one session's authentication state.
type Store struct {
	mu      sync.RWMutex
	user    *domain.User
	pending Phase
	errMsg  *string

	inflight *semaphore.Weighted
	creds    CredentialStore
	records  record.Store
	delay    time.Duration
	logger   *slog.Logger
}

type Option func(*Store)

// WithDelay sets the simulated latency of login and register.
func WithDelay(d time.Duration) Option {
	return func(s *Store) { s.delay = d }
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

func NewStore(creds CredentialStore, records record.Store, opts ...Option) *Store {
	s := &Store{
		inflight: semaphore.NewWeighted(1),
		creds:    creds,
		records:  records,
		delay:    time.Second,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st := State{IsLoading: s.pending != "", Phase: s.phaseLocked()}
	if s.user != nil {
		u := *s.user
		st.User = &u
	}
	if s.errMsg != nil {
		m := *s.errMsg
		st.Error = &m
	}
	return st
}

func (s *Store) Phase() Phase {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.phaseLocked()
}

func (s *Store) phaseLocked() Phase {
	switch {
	case s.pending != "":
		return s.pending
	case s.user != nil:
		return PhaseLoggedIn
	default:
		return PhaseLoggedOut
	}
}

// Hydrate restores the user from the persisted record. A record that cannot
// be decoded is deleted and the store stays logged out.
func (s *Store) Hydrate(ctx context.Context) error {
	u, err := s.records.Load(ctx)
	if err != nil {
		if errors.Is(err, record.ErrCorrupt) {
			s.logger.Warn("dropping corrupt user record", "err", err)
			if derr := s.records.Delete(ctx); derr != nil {
				return fmt.Errorf("delete corrupt record: %w", derr)
			}
			return nil
		}
		return fmt.Errorf("hydrate: %w", err)
	}
	s.mu.Lock()
	s.user = u
	s.mu.Unlock()
	return nil
}

// Login reports whether the credentials were accepted. The returned error is
// reserved for ErrBusy, cancellation and storage failures; rejected
// credentials are reported through State().Error.
func (s *Store) Login(ctx context.Context, email, password string) (bool, error) {
	return s.run(ctx, PhaseLoggingIn, "login", MsgLoginFailed, func(ctx context.Context) (*domain.User, error) {
		return s.creds.Authenticate(ctx, email, password)
	})
}

func (s *Store) Register(ctx context.Context, in RegisterInput) (bool, error) {
	return s.run(ctx, PhaseRegisteringIn, "register", MsgRegisterFailed, func(ctx context.Context) (*domain.User, error) {
		return s.creds.Register(ctx, in)
	})
}

func (s *Store) run(ctx context.Context, phase Phase, op, genericMsg string, attempt func(context.Context) (*domain.User, error)) (bool, error) {
	if !s.inflight.TryAcquire(1) {
		metrics.AuthAttempts.WithLabelValues(op, "busy").Inc()
		return false, ErrBusy
	}
	defer s.inflight.Release(1)

	s.mu.Lock()
	s.pending = phase
	s.errMsg = nil
	s.mu.Unlock()

	if err := s.wait(ctx); err != nil {
		s.fail(genericMsg)
		metrics.AuthAttempts.WithLabelValues(op, "cancelled").Inc()
		return false, err
	}

	user, err := attempt(ctx)
	switch {
	case errors.Is(err, ErrInvalidCredentials):
		s.fail(MsgInvalidCredentials)
		metrics.AuthAttempts.WithLabelValues(op, "rejected").Inc()
		return false, nil
	case errors.Is(err, ErrEmailTaken):
		s.fail(MsgEmailTaken)
		metrics.AuthAttempts.WithLabelValues(op, "rejected").Inc()
		return false, nil
	case err != nil:
		s.fail(genericMsg)
		metrics.AuthAttempts.WithLabelValues(op, "error").Inc()
		s.logger.Error("auth attempt failed", "op", op, "err", err)
		return false, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.records.Save(ctx, *user); err != nil {
		s.fail(genericMsg)
		metrics.AuthAttempts.WithLabelValues(op, "error").Inc()
		return false, fmt.Errorf("%s: persist user: %w", op, err)
	}

	s.mu.Lock()
	s.user = user
	s.pending = ""
	s.errMsg = nil
	s.mu.Unlock()

	metrics.AuthAttempts.WithLabelValues(op, "ok").Inc()
	s.logger.Info("auth succeeded", "op", op, "user_id", user.ID)
	return true, nil
}

// fail clears the user and records msg. The persisted record is left alone.
func (s *Store) fail(msg string) {
	s.mu.Lock()
	s.user = nil
	s.pending = ""
	s.errMsg = &msg
	s.mu.Unlock()
}

func (s *Store) wait(ctx context.Context) error {
	if s.delay <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(s.delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Logout deletes the persisted record and resets the state.
func (s *Store) Logout(ctx context.Context) error {
	err := s.records.Delete(ctx)
	s.mu.Lock()
	s.user = nil
	s.errMsg = nil
	s.mu.Unlock()
	if err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	return nil
}

func (s *Store) ClearError() {
	s.mu.Lock()
	s.errMsg = nil
	s.mu.Unlock()
}
