package sessionbridge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/goliatone/go-cms-workflow/internal/logging"
	"github.com/goliatone/go-cms-workflow/pkg/interfaces"
	"github.com/google/uuid"
)

// TokenParam is the query parameter carrying a cross domain session token.
const TokenParam = "workflowCrossDomainSessionToken"

const (
	defaultTTL       = 60 * time.Second
	defaultKeyPrefix = "workflow:session-token:"
)

var (
	// ErrTokenExpired is reported when a token is unknown or already used.
	// It is a soft condition: the session is left untouched.
	ErrTokenExpired = errors.New("sessionbridge: expired or nonexistent cross domain session token")
	// ErrTokenRequired indicates an empty token.
	ErrTokenRequired = errors.New("sessionbridge: token is required")
)

// Session is the request session the bridge reads and replaces.
type Session interface {
	Snapshot(ctx context.Context) (map[string]any, error)
	Replace(ctx context.Context, values map[string]any) error
}

// Bridge moves session contents between hostnames of the same site through
// one-shot tokens held in a shared cache.
type Bridge struct {
	cache     interfaces.CacheProvider
	logger    interfaces.Logger
	ttl       time.Duration
	keyPrefix string
	newToken  func() string

	// mu serializes the get and clear of a token for caches without Take.
	mu sync.Mutex
}

// Option configures the bridge.
type Option func(*Bridge)

// WithLogger sets the bridge logger.
func WithLogger(logger interfaces.Logger) Option {
	return func(b *Bridge) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// WithTTL sets how long an issued token stays redeemable.
func WithTTL(ttl time.Duration) Option {
	return func(b *Bridge) {
		if ttl > 0 {
			b.ttl = ttl
		}
	}
}

// WithKeyPrefix namespaces token keys in the shared cache.
func WithKeyPrefix(prefix string) Option {
	return func(b *Bridge) {
		if strings.TrimSpace(prefix) != "" {
			b.keyPrefix = prefix
		}
	}
}

// WithTokenGenerator overrides token generation.
func WithTokenGenerator(generator func() string) Option {
	return func(b *Bridge) {
		if generator != nil {
			b.newToken = generator
		}
	}
}

// New builds a bridge over the shared cache.
func New(cache interfaces.CacheProvider, opts ...Option) *Bridge {
	b := &Bridge{
		cache:     cache,
		logger:    logging.NoOp(),
		ttl:       defaultTTL,
		keyPrefix: defaultKeyPrefix,
		newToken:  uuid.NewString,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(b)
		}
	}
	return b
}

// Issue stores a snapshot of session under a fresh token and returns it.
func (b *Bridge) Issue(ctx context.Context, session Session) (string, error) {
	values, err := session.Snapshot(ctx)
	if err != nil {
		return "", fmt.Errorf("sessionbridge: snapshot session: %w", err)
	}
	encoded, err := json.Marshal(values)
	if err != nil {
		return "", fmt.Errorf("sessionbridge: encode session: %w", err)
	}
	token := b.newToken()
	if err := b.cache.Set(ctx, b.key(token), encoded, b.ttl); err != nil {
		return "", fmt.Errorf("sessionbridge: store token: %w", err)
	}
	return token, nil
}

// Accept redeems token and replaces the contents of session with the
// payload stored under it. Unknown tokens return ErrTokenExpired and leave
// the session untouched. A failure to clear the redeemed token is logged
// and does not stop the session from being replaced.
func (b *Bridge) Accept(ctx context.Context, token string, session Session) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return ErrTokenRequired
	}
	payload, err := b.take(ctx, token)
	if err != nil {
		return err
	}
	if err := session.Replace(ctx, payload); err != nil {
		return fmt.Errorf("sessionbridge: replace session: %w", err)
	}
	return nil
}

// take redeems a token at most once. Caches implementing TakingCache do it
// atomically, which holds across processes sharing the cache. Others fall
// back to get then clear under mu, which only holds within this Bridge.
func (b *Bridge) take(ctx context.Context, token string) (map[string]any, error) {
	key := b.key(token)

	var raw any
	var err error
	if taker, ok := b.cache.(interfaces.TakingCache); ok {
		raw, err = taker.Take(ctx, key)
	} else {
		raw, err = b.getAndClear(ctx, key)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTokenExpired, err)
	}
	if raw == nil {
		return nil, ErrTokenExpired
	}
	payload, err := decodePayload(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTokenExpired, err)
	}
	return payload, nil
}

func (b *Bridge) getAndClear(ctx context.Context, key string) (any, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	raw, err := b.cache.Get(ctx, key)
	if err != nil || raw == nil {
		return raw, err
	}
	if err := b.cache.Set(ctx, key, nil, 0); err != nil {
		b.logger.Warn("sessionbridge.clear_failed", "error", err)
	}
	return raw, nil
}

func (b *Bridge) key(token string) string {
	return b.keyPrefix + token
}

func decodePayload(raw any) (map[string]any, error) {
	var data []byte
	switch typed := raw.(type) {
	case map[string]any:
		return typed, nil
	case []byte:
		data = typed
	case string:
		data = []byte(typed)
	default:
		return nil, fmt.Errorf("unsupported payload %T", raw)
	}
	if len(data) == 0 {
		return nil, errors.New("empty payload")
	}
	payload := map[string]any{}
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, err
	}
	return payload, nil
}
