package oauth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/johnquangdev/meeting-insights/internal/infrastructure/cache"
)

// StateManager manages OAuth state tokens for CSRF protection. Each state is
// bound to the organisation that started the connect flow.
type StateManager struct {
	store      cache.Store
	expiration time.Duration
}

// NewStateManager creates a new state manager over the given store
func NewStateManager(store cache.Store) *StateManager {
	return &StateManager{
		store:      store,
		expiration: 15 * time.Minute, // State expires in 15 minutes
	}
}

// GenerateState generates a random state token for the organisation
func (sm *StateManager) GenerateState(ctx context.Context, organisationID uuid.UUID) (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}

	state := base64.RawURLEncoding.EncodeToString(b)

	if err := sm.store.Set(ctx, stateKey(state), organisationID.String(), sm.expiration); err != nil {
		return "", fmt.Errorf("failed to store oauth state: %w", err)
	}

	return state, nil
}

// ValidateState consumes a state token (one-time use) and returns the
// organisation it was issued for. ok is false for unknown or expired states.
func (sm *StateManager) ValidateState(ctx context.Context, state string) (uuid.UUID, bool, error) {
	if state == "" {
		return uuid.Nil, false, nil
	}

	value, exists, err := sm.store.Take(ctx, stateKey(state))
	if err != nil {
		return uuid.Nil, false, fmt.Errorf("failed to read oauth state: %w", err)
	}
	if !exists {
		return uuid.Nil, false, nil
	}

	organisationID, err := uuid.Parse(value)
	if err != nil {
		return uuid.Nil, false, nil
	}

	return organisationID, true, nil
}

func stateKey(state string) string {
	return fmt.Sprintf("oauth:state:%s", state)
}
