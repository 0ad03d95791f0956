package session

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"smartband-store/internal/metrics"
	"smartband-store/internal/repository/record"
	"smartband-store/internal/service/auth"
	"smartband-store/internal/service/cart"
	"smartband-store/internal/service/checkout"
)

// Session is the explicit per-visitor context: one cart, one checkout flow and
// one auth store, created together and never shared between visitors.
type Session struct {
	ID       string
	Cart     *cart.Store
	Checkout *checkout.Flow
	Auth     *auth.Store

	mu       sync.Mutex
	lastSeen time.Time
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

// Builder constructs the stores of a new or resumed session.
type Builder func(ctx context.Context, id string) (*Session, error)

// Deps are what NewBuilder wires into every session.
type Deps struct {
	Records   record.Factory
	Gateway   checkout.PaymentGateway
	AuthDelay time.Duration
	Logger    *slog.Logger
}

// NewBuilder returns the production Builder. The auth store is hydrated from
// the persisted record so a resumed session keeps its login.
func NewBuilder(d Deps) Builder {
	logger := d.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return func(ctx context.Context, id string) (*Session, error) {
		l := logger.With("session_id", id)
		c := cart.NewStore(l.With("component", "cart"))
		rec := d.Records.For(id)
		a := auth.NewStore(auth.NewMockCredentials(rec), rec,
			auth.WithDelay(d.AuthDelay),
			auth.WithLogger(l.With("component", "auth")),
		)
		if err := a.Hydrate(ctx); err != nil {
			return nil, err
		}
		return &Session{
			ID:       id,
			Cart:     c,
			Checkout: checkout.NewFlow(c, d.Gateway, l.With("component", "checkout")),
			Auth:     a,
		}, nil
	}
}

type Config struct {
	Secret  string
	Issuer  string
	TTL     time.Duration
	IdleTTL time.Duration
}

// Manager maps session tokens to live sessions.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Session
	tokens   *tokenManager
	build    Builder
	idleTTL  time.Duration
	now      func() time.Time
	logger   *slog.Logger
}

func NewManager(cfg Config, build Builder, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if cfg.TTL <= 0 {
		cfg.TTL = 30 * 24 * time.Hour
	}
	return &Manager{
		sessions: make(map[string]*Session),
		tokens:   newTokenManager(cfg.Secret, cfg.Issuer, cfg.TTL),
		build:    build,
		idleTTL:  cfg.IdleTTL,
		now:      time.Now,
		logger:   logger,
	}
}

// Issued is the result of Resolve: the session plus the token to hand back
// when a new one was minted.
type Issued struct {
	Session   *Session
	Token     string
	ExpiresAt time.Time
	Fresh     bool
}

// Resolve returns the session for token. A missing or invalid token gets a
// fresh session; a valid token whose session was evicted is rebuilt under the
// same id.
func (m *Manager) Resolve(ctx context.Context, token string) (Issued, error) {
	if token != "" {
		id, err := m.tokens.Validate(token)
		if err == nil {
			s, err := m.getOrBuild(ctx, id)
			if err != nil {
				return Issued{}, err
			}
			return Issued{Session: s, Token: token}, nil
		}
		m.logger.Debug("rejecting session token", "err", err)
	}
	return m.Issue(ctx)
}

// Issue starts a brand-new session.
func (m *Manager) Issue(ctx context.Context) (Issued, error) {
	id := uuid.NewString()
	s, err := m.getOrBuild(ctx, id)
	if err != nil {
		return Issued{}, err
	}
	tok, exp, err := m.tokens.Issue(id)
	if err != nil {
		return Issued{}, err
	}
	return Issued{Session: s, Token: tok, ExpiresAt: exp, Fresh: true}, nil
}

func (m *Manager) getOrBuild(ctx context.Context, id string) (*Session, error) {
	now := m.now()
	m.mu.Lock()
	if s, ok := m.sessions[id]; ok {
		m.mu.Unlock()
		s.touch(now)
		return s, nil
	}
	m.mu.Unlock()

	built, err := m.build(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("build session: %w", err)
	}
	built.touch(now)

	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.sessions[id]; ok {
		return s, nil
	}
	m.sessions[id] = built
	metrics.ActiveSessions.Set(float64(len(m.sessions)))
	return built, nil
}

func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Sweep evicts sessions idle for longer than the idle TTL and returns how many
// were removed.
func (m *Manager) Sweep() int {
	if m.idleTTL <= 0 {
		return 0
	}
	cutoff := m.now().Add(-m.idleTTL)
	m.mu.Lock()
	defer m.mu.Unlock()
	removed := 0
	for id, s := range m.sessions {
		if s.idleSince().Before(cutoff) {
			delete(m.sessions, id)
			removed++
		}
	}
	metrics.ActiveSessions.Set(float64(len(m.sessions)))
	return removed
}

// Run sweeps on every interval until ctx is done.
func (m *Manager) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 || m.idleTTL <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := m.Sweep(); n > 0 {
				m.logger.Info("evicted idle sessions", "count", n)
			}
		}
	}
}
