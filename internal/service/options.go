package service

import "time"

// DefaultTokenTTL: срок жизни токена подтверждения email.
const DefaultTokenTTL = 24 * time.Hour

// Option настраивает сервисы.
type Option func(*options)

type options struct {
	now      func() time.Time
	tokenTTL time.Duration
}

func newOptions(opts []Option) options {
	o := options{
		now:      func() time.Time { return time.Now().UTC() },
		tokenTTL: DefaultTokenTTL,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithClock подменяет источник времени (используется в тестах).
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

// WithTokenTTL задаёт срок жизни токена подтверждения.
func WithTokenTTL(ttl time.Duration) Option {
	return func(o *options) {
		if ttl > 0 {
			o.tokenTTL = ttl
		}
	}
}
