package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"smartband-store/internal/domain"
	"smartband-store/internal/repository/record"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailTaken         = errors.New("email already registered")
)

// CredentialStore checks logins and creates accounts. It does not persist the
// session's user record; Store does that.
type CredentialStore interface {
	Authenticate(ctx context.Context, email, password string) (*domain.User, error)
	Register(ctx context.Context, in RegisterInput) (*domain.User, error)
}

const (
	DemoEmail    = "test@example.com"
	DemoPassword = "123456"
)

// MockCredentials accepts only the demo account and treats the session's
// single persisted record as the whole user table. A second registration
// overwrites the first; there is no password storage of any kind.
type MockCredentials struct {
	records record.Store
	now     func() time.Time
}

func NewMockCredentials(records record.Store) *MockCredentials {
	return &MockCredentials{records: records, now: time.Now}
}

func (m *MockCredentials) Authenticate(_ context.Context, email, password string) (*domain.User, error) {
	if email != DemoEmail || password != DemoPassword {
		return nil, ErrInvalidCredentials
	}
	return &domain.User{
		ID:    "1",
		Name:  "کاربر تست",
		Email: email,
		Phone: "09123456789",
	}, nil
}

func (m *MockCredentials) Register(ctx context.Context, in RegisterInput) (*domain.User, error) {
	existing, err := m.records.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("read user record: %w", err)
	}
	if existing != nil && existing.Email == in.Email {
		return nil, ErrEmailTaken
	}
	return &domain.User{
		ID:    strconv.FormatInt(m.now().UnixMilli(), 10),
		Name:  in.Name,
		Email: in.Email,
		Phone: in.Phone,
	}, nil
}
