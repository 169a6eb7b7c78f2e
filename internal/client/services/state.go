package services

import (
	"github.com/dmitrijs2005/hydratemate/internal/client/models"
)

// State is the identity mode of the session.
type State int

const (
	StateAnonymous State = iota
	StateGuest
	StateAuthenticated
)

func (s State) String() string {
	switch s {
	case StateGuest:
		return "guest"
	case StateAuthenticated:
		return "authenticated"
	default:
		return "anonymous"
	}
}

// session is the in-memory identity. user is never mutated in place, only
// replaced.
type session struct {
	user    *models.User
	token   string
	isGuest bool
}

func (s session) state() State {
	switch {
	case s.isGuest:
		return StateGuest
	case s.token != "" && s.user != nil:
		return StateAuthenticated
	default:
		return StateAnonymous
	}
}

// authenticated is the routing predicate: a real session or a guest.
func (s session) authenticated() bool {
	return (s.token != "" && s.user != nil && !s.isGuest) || s.isGuest
}
