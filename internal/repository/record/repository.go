package record

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"smartband-store/internal/domain"
)

// Key is the name of the persisted user record.
const Key = "user"

// ErrCorrupt is returned by Load when the stored record cannot be decoded.
var ErrCorrupt = errors.New("corrupt user record")

// Store is a session's persisted user record. Load returns nil, nil when no
// record exists.
type Store interface {
	Load(ctx context.Context) (*domain.User, error)
	Save(ctx context.Context, user domain.User) error
	Delete(ctx context.Context) error
}

// Factory hands out the record store of one session.
type Factory interface {
	For(sessionID string) Store
}

func encode(u domain.User) ([]byte, error) {
	return json.Marshal(u)
}

func decode(raw []byte) (*domain.User, error) {
	var u domain.User
	if err := json.Unmarshal(raw, &u); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	if u.ID == "" || u.Email == "" {
		return nil, fmt.Errorf("%w: missing id or email", ErrCorrupt)
	}
	return &u, nil
}
