package services

import (
	"errors"
)

// Failure kinds. Every failed Result carries an *AuthError whose Kind is one
// of these, so callers can branch with errors.Is.
var (
	ErrTransport         = errors.New("transport failure")
	ErrServerFault       = errors.New("server fault")
	ErrClientRejection   = errors.New("client rejection")
	ErrMalformedResponse = errors.New("malformed response")
	ErrCorruptedState    = errors.New("corrupted local state")
	ErrGuardViolation    = errors.New("guard violation")
	ErrStorage           = errors.New("local storage failure")
)

// User-facing messages.
const (
	MsgServerError         = "Server Fehler - Bitte Backend Logs prüfen!"
	MsgInvalidCredentials  = "Ungültige Email oder Passwort"
	MsgInvalidRegistration = "Ungültige Registrierungsdaten"
	MsgLoginFailed         = "Login fehlgeschlagen"
	MsgRegisterFailed      = "Registrierung fehlgeschlagen"
	MsgNotGuest            = "Nicht im Gast-Modus"
	MsgStorageFailed       = "Lokaler Speicher nicht verfügbar"
)

// AuthError is the error of a failed operation. Error returns the message
// meant for the user; the kind and the underlying cause stay reachable
// through errors.Is and errors.As.
type AuthError struct {
	Kind    error
	Message string
	Err     error
}

func (e *AuthError) Error() string {
	return e.Message
}

func (e *AuthError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// Result is the outcome of a session transition. Navigation based on it is
// up to the caller.
type Result struct {
	Success bool
	// Migrated reports whether a non-empty guest snapshot was collected for
	// migration, not whether the backend accepted it.
	Migrated bool
	Err      error
}

// Message is the user-facing error text, or "" on success.
func (r Result) Message() string {
	if r.Err == nil {
		return ""
	}
	return r.Err.Error()
}

func ok(migrated bool) Result {
	return Result{Success: true, Migrated: migrated}
}

func fail(kind error, msg string, cause error) Result {
	return Result{Err: &AuthError{Kind: kind, Message: msg, Err: cause}}
}

func guardViolation() *AuthError {
	return &AuthError{Kind: ErrGuardViolation, Message: MsgNotGuest}
}
