package sessionbridge

import (
	"context"
	"encoding/gob"

	"github.com/alexedwards/scs/v2"
)

func init() {
	// Session payloads decoded from JSON hold these shapes.
	gob.Register(map[string]any{})
	gob.Register([]any{})
}

// ScsSession adapts an scs session manager to Session. The context must be
// one that passed through the manager's LoadAndSave middleware.
type ScsSession struct {
	manager *scs.SessionManager
}

var _ Session = ScsSession{}

// NewScsSession wraps manager.
func NewScsSession(manager *scs.SessionManager) ScsSession {
	return ScsSession{manager: manager}
}

func (s ScsSession) Snapshot(ctx context.Context) (map[string]any, error) {
	values := map[string]any{}
	for _, key := range s.manager.Keys(ctx) {
		values[key] = s.manager.Get(ctx, key)
	}
	return values, nil
}

func (s ScsSession) Replace(ctx context.Context, values map[string]any) error {
	if err := s.manager.Clear(ctx); err != nil {
		return err
	}
	for key, value := range values {
		s.manager.Put(ctx, key, value)
	}
	return nil
}
