package storefront

import (
	"crypto/subtle"

	"storefront/internal/apperr"

	"github.com/asaskevich/EventBus"
)

// Session carries the admin flag for the lifetime of the process. It is not
// persisted and has no identity behind it.
type Session struct {
	secret string
	bus    EventBus.Bus
	admin  bool
}

func NewSession(secret string, bus EventBus.Bus) *Session {
	return &Session{secret: secret, bus: bus}
}

func (s *Session) Authenticate(secret string) error {
	if subtle.ConstantTimeCompare([]byte(secret), []byte(s.secret)) != 1 {
		return apperr.ErrAuth
	}
	s.admin = true
	publish(s.bus, TopicSessionChanged)
	return nil
}

func (s *Session) Deauthenticate() {
	s.admin = false
	publish(s.bus, TopicSessionChanged)
}

func (s *Session) IsAdmin() bool {
	return s.admin
}
