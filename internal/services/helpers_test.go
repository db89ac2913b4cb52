package services

import (
	"context"
	"sync"
	"time"

	"finance4all/internal/auth"
	"finance4all/internal/models"
)

func ptr[T any](v T) *T { return &v }

func identityFor(user *models.User) *auth.Identity {
	return auth.NewIdentity(auth.Claims{UID: user.FirebaseUID, Email: user.Email}, user)
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

// recordingAudit captures audit calls for assertions.
type recordingAudit struct {
	mu      sync.Mutex
	actions []string
}

func (r *recordingAudit) Log(_ context.Context, _, action, _, _ string, _ map[string]interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.actions = append(r.actions, action)
}

func (r *recordingAudit) has(action string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.actions {
		if a == action {
			return true
		}
	}
	return false
}
