package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/hydratemate/internal/client/models"
	"github.com/dmitrijs2005/hydratemate/internal/netx"
)

func newTestClient(t *testing.T, h http.HandlerFunc) (*HTTPClient, *httptest.Server) {
	t.Helper()
	ts := httptest.NewServer(h)
	t.Cleanup(ts.Close)
	return NewHTTPClient(netx.NewURLBuilder(ts.URL), netx.NewFetcher(ts.Client()), 3, time.Millisecond), ts
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}

func TestHTTPClient_Login_Success(t *testing.T) {
	var gotPath, gotCT string
	var gotBody models.Credentials
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotCT = r.Header.Get("Content-Type")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		writeJSON(w, http.StatusOK, `{"token":"jwt","user":{"id":7,"email":"a@b.de","name":"Anna"}}`)
	})

	resp, err := c.Login(context.Background(), models.Credentials{Email: "a@b.de", Password: "secret1"})
	require.NoError(t, err)

	assert.Equal(t, netx.PathLogin, gotPath)
	assert.Equal(t, "application/json", gotCT)
	assert.Equal(t, models.Credentials{Email: "a@b.de", Password: "secret1"}, gotBody)

	want := &models.AuthResponse{Token: "jwt", User: &models.User{ID: 7, Email: "a@b.de", Name: "Anna"}}
	if diff := cmp.Diff(want, resp); diff != "" {
		t.Fatalf("response mismatch (-want +got):\n%s", diff)
	}
}

func TestHTTPClient_Login_StatusesAreNotRetried(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		wantMessage string
	}{
		{"401 with error", http.StatusUnauthorized, `{"error":"Ungültige Email oder Passwort"}`, "Ungültige Email oder Passwort"},
		{"500 plain text", http.StatusInternalServerError, `Internal Server Error`, "HTTP 500"},
		{"422 with message", http.StatusUnprocessableEntity, `{"message":"bad input"}`, "bad input"},
		{"403 empty", http.StatusForbidden, ``, "HTTP 403"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var hits atomic.Int32
			c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				hits.Add(1)
				writeJSON(w, tt.status, tt.body)
			})

			_, err := c.Login(context.Background(), models.Credentials{Email: "a@b.de", Password: "x"})
			require.Error(t, err)

			var apiErr *APIError
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tt.status, apiErr.StatusCode)
			assert.Equal(t, tt.wantMessage, apiErr.Error())
			assert.EqualValues(t, 1, hits.Load())
		})
	}
}

func TestHTTPClient_Login_401MatchesErrUnauthorized(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, `{}`)
	})

	_, err := c.Login(context.Background(), models.Credentials{})
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestHTTPClient_Login_MalformedBodies(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"empty", ""},
		{"not json", "<html>oops</html>"},
		{"missing user", `{"token":"jwt"}`},
		{"missing token", `{"user":{"id":1}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, http.StatusOK, tt.body)
			})

			_, err := c.Login(context.Background(), models.Credentials{})
			assert.ErrorIs(t, err, ErrMalformedResponse)
		})
	}
}

func TestHTTPClient_Login_EmptyBodyIsDistinct(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, "")
	})

	_, err := c.Login(context.Background(), models.Credentials{})
	assert.ErrorIs(t, err, netx.ErrEmptyBody)
	assert.NotErrorIs(t, err, netx.ErrInvalidJSON)
}

func TestHTTPClient_Login_Unreachable(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	url := ts.URL
	ts.Close()

	c := NewHTTPClient(netx.NewURLBuilder(url), netx.NewFetcher(nil), 2, time.Millisecond)
	_, err := c.Login(context.Background(), models.Credentials{})

	assert.ErrorIs(t, err, ErrUnavailable)
	assert.ErrorIs(t, err, netx.ErrRetriesExhausted)
	assert.Contains(t, err.Error(), "failed after 2 attempts")
}

func TestHTTPClient_Register_SendsDefaults(t *testing.T) {
	var got map[string]any
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, netx.PathRegister, r.URL.Path)
		_ = json.NewDecoder(r.Body).Decode(&got)
		writeJSON(w, http.StatusCreated, `{"token":"t","user":{"id":1,"email":"n@e.com","name":"New User"}}`)
	})

	req := models.NewRegisterRequest(models.RegisterData{Name: "New User", Email: "n@e.com", Password: "password123"})
	resp, err := c.Register(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "t", resp.Token)

	assert.Equal(t, map[string]any{
		"name":          "New User",
		"email":         "n@e.com",
		"password":      "password123",
		"climate":       "NORMAL",
		"weightKg":      float64(70),
		"activityLevel": "MEDIUM",
	}, got)
}

func TestHTTPClient_MigrateGuestData(t *testing.T) {
	var gotAuth string
	var gotSnap models.GuestSnapshot
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, netx.PathMigrateGuestData, r.URL.Path)
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&gotSnap)
		w.WriteHeader(http.StatusNoContent)
	})

	h := models.NewGuestHydration("2026-10-18")
	h.Add(250)
	snap := &models.GuestSnapshot{
		Hydration:  &h,
		History:    []models.GuestIntake{{ClientID: "c1", VolumeMl: 250, Source: models.SourceGlass, Date: "2026-10-18"}},
		ExportedAt: time.Date(2026, 10, 18, 10, 0, 0, 0, time.UTC),
	}

	require.NoError(t, c.MigrateGuestData(context.Background(), "jwt", snap))
	assert.Equal(t, "Bearer jwt", gotAuth)
	assert.Equal(t, 250, gotSnap.Hydration.ConsumedMl)
	assert.Len(t, gotSnap.History, 1)
	assert.Nil(t, gotSnap.Profile)
}

func TestHTTPClient_MigrateGuestData_Rejected(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusBadRequest, `{"error":"duplicate"}`)
	})

	err := c.MigrateGuestData(context.Background(), "jwt", &models.GuestSnapshot{})
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Equal(t, "duplicate", apiErr.ErrorText)
}

func TestHTTPClient_Me(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer good" {
			writeJSON(w, http.StatusUnauthorized, `{"error":"invalid token"}`)
			return
		}
		writeJSON(w, http.StatusOK, `{"id":3,"email":"m@e.com","name":"Me"}`)
	})

	u, err := c.Me(context.Background(), "good")
	require.NoError(t, err)
	assert.Equal(t, &models.User{ID: 3, Email: "m@e.com", Name: "Me"}, u)

	_, err = c.Me(context.Background(), "bad")
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.ErrorIs(t, err, netx.ErrRetriesExhausted)
}

func TestHTTPClient_Me_HTMLIsMalformed(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = io.WriteString(w, "<html>waking up</html>")
	})

	_, err := c.Me(context.Background(), "t")
	assert.ErrorIs(t, err, ErrMalformedResponse)
	assert.ErrorIs(t, err, netx.ErrInvalidContentType)
}

func TestAPIError_Message(t *testing.T) {
	assert.Equal(t, "e", (&APIError{StatusCode: 400, ErrorText: "e", MessageText: "m"}).Error())
	assert.Equal(t, "m", (&APIError{StatusCode: 400, MessageText: "m"}).Error())
	assert.Equal(t, "HTTP 418", (&APIError{StatusCode: 418}).Error())
	assert.True(t, (&APIError{StatusCode: 503}).ServerFault())
	assert.False(t, (&APIError{StatusCode: 404}).ServerFault())
	assert.False(t, errors.Is(&APIError{StatusCode: 403}, ErrUnauthorized))
}
