package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Session is a verified sign-in, passed explicitly through request contexts
type Session struct {
	ID          uuid.UUID `json:"id"`
	AuthUserID  string    `json:"auth_user_id"`
	Email       string    `json:"email,omitempty"`
	AccessToken string    `json:"-"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewSession creates a session for a verified auth user
func NewSession(authUserID, email, accessToken string) *Session {
	return &Session{
		ID:          uuid.New(),
		AuthUserID:  authUserID,
		Email:       email,
		AccessToken: accessToken,
		CreatedAt:   time.Now(),
	}
}

type sessionKey struct{}

// WithSession returns a copy of ctx carrying the session
func WithSession(ctx context.Context, session *Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, session)
}

// SessionFromContext returns the session attached to ctx, if any
func SessionFromContext(ctx context.Context) (*Session, bool) {
	session, ok := ctx.Value(sessionKey{}).(*Session)
	return session, ok && session != nil
}

// WithoutSession returns a copy of ctx with any attached session masked,
// so downstream reads run with anonymous credentials
func WithoutSession(ctx context.Context) context.Context {
	return context.WithValue(ctx, sessionKey{}, (*Session)(nil))
}
