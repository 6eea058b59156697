package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/staffrate/staffrate/internal/api"
)

// fakeSession satisfies Session without touching the filesystem.
type fakeSession struct {
	access   string
	refresh  string
	setCalls []string
	cleared  bool
}

func (f *fakeSession) AccessToken() string  { return f.access }
func (f *fakeSession) RefreshToken() string { return f.refresh }

func (f *fakeSession) SetAccessToken(token string) error {
	f.access = token
	f.setCalls = append(f.setCalls, token)
	return nil
}

func (f *fakeSession) ClearLocal() error {
	f.cleared = true
	f.access = ""
	f.refresh = ""
	return nil
}

func TestDo_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer access-1", r.Header.Get("Authorization"))
		assert.NotEmpty(t, r.Header.Get("X-Request-Id"))
		json.NewEncoder(w).Encode([]api.Role{{ID: "r1", Name: "support"}})
	}))
	defer srv.Close()

	sess := &fakeSession{access: "access-1", refresh: "refresh-1"}
	gw := New(srv.URL, http.DefaultClient, sess)

	body, err := gw.Do(context.Background(), Request{Method: http.MethodGet, Path: "/all-roles"})
	require.NoError(t, err)

	roles, _, err := DecodeList[api.Role](body)
	require.NoError(t, err)
	assert.Len(t, roles, 1)
}

func TestDo_RefreshAndRetry(t *testing.T) {
	t.Run("401 triggers one refresh and a single replay", func(t *testing.T) {
		var refreshCalls int
		var seenTokens []string
		var seenRequestIDs []string

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/auth/refresh-token" {
				refreshCalls++

				var payload map[string]string
				require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
				assert.Equal(t, "refresh-1", payload["refreshToken"])

				json.NewEncoder(w).Encode(api.RefreshResponse{AccessToken: "access-2"})
				return
			}

			seenTokens = append(seenTokens, r.Header.Get("Authorization"))
			seenRequestIDs = append(seenRequestIDs, r.Header.Get("X-Request-Id"))

			if r.Header.Get("Authorization") != "Bearer access-2" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}

			json.NewEncoder(w).Encode([]api.Employee{{ID: "u1"}})
		}))
		defer srv.Close()

		sess := &fakeSession{access: "access-1", refresh: "refresh-1"}
		gw := New(srv.URL, http.DefaultClient, sess)

		body, err := gw.Do(context.Background(), Request{Method: http.MethodGet, Path: "/all-user"})
		require.NoError(t, err)

		employees, _, err := DecodeList[api.Employee](body)
		require.NoError(t, err)
		assert.Len(t, employees, 1)

		// Caller never saw the 401; exactly one refresh happened.
		assert.Equal(t, 1, refreshCalls)
		assert.Equal(t, []string{"Bearer access-1", "Bearer access-2"}, seenTokens)
		assert.Equal(t, []string{"access-2"}, sess.setCalls)
		assert.False(t, sess.cleared)

		// The replay belongs to the same logical call.
		require.Len(t, seenRequestIDs, 2)
		assert.Equal(t, seenRequestIDs[0], seenRequestIDs[1])
	})

	t.Run("refresh failure clears the session and is terminal", func(t *testing.T) {
		var refreshCalls int

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/auth/refresh-token" {
				refreshCalls++
				w.WriteHeader(http.StatusUnauthorized)
				json.NewEncoder(w).Encode(api.MessageResponse{Message: "refresh token revoked"})
				return
			}
			w.WriteHeader(http.StatusUnauthorized)
		}))
		defer srv.Close()

		sess := &fakeSession{access: "stale", refresh: "revoked"}
		gw := New(srv.URL, http.DefaultClient, sess)

		_, err := gw.Do(context.Background(), Request{Method: http.MethodGet, Path: "/all-user"})
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrSessionExpired)
		assert.True(t, sess.cleared)
		assert.Equal(t, 1, refreshCalls)
	})

	t.Run("second 401 after the replay is surfaced, never re-refreshed", func(t *testing.T) {
		var refreshCalls, resourceCalls int

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/auth/refresh-token" {
				refreshCalls++
				json.NewEncoder(w).Encode(api.RefreshResponse{AccessToken: "access-2"})
				return
			}

			resourceCalls++
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(api.MessageResponse{Message: "Token invalid"})
		}))
		defer srv.Close()

		sess := &fakeSession{access: "access-1", refresh: "refresh-1"}
		gw := New(srv.URL, http.DefaultClient, sess)

		_, err := gw.Do(context.Background(), Request{Method: http.MethodGet, Path: "/all-user"})
		require.Error(t, err)

		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, http.StatusUnauthorized, apiErr.Status)

		assert.Equal(t, 1, refreshCalls)
		assert.Equal(t, 2, resourceCalls)
	})

	t.Run("refresh response without a token is a failure", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/auth/refresh-token" {
				json.NewEncoder(w).Encode(api.RefreshResponse{})
				return
			}
			w.WriteHeader(http.StatusUnauthorized)
		}))
		defer srv.Close()

		sess := &fakeSession{access: "stale", refresh: "refresh-1"}
		gw := New(srv.URL, http.DefaultClient, sess)

		_, err := gw.Do(context.Background(), Request{Method: http.MethodGet, Path: "/all-user"})
		assert.ErrorIs(t, err, ErrSessionExpired)
		assert.True(t, sess.cleared)
	})
}

func TestDo_ServerRejection(t *testing.T) {
	t.Run("message body is carried verbatim", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnprocessableEntity)
			json.NewEncoder(w).Encode(api.MessageResponse{Message: "employeeId already exists"})
		}))
		defer srv.Close()

		gw := New(srv.URL, http.DefaultClient, &fakeSession{access: "tok"})

		_, err := gw.Do(context.Background(), Request{Method: http.MethodPost, Path: "/add-user", JSON: map[string]string{}})
		require.Error(t, err)

		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, http.StatusUnprocessableEntity, apiErr.Status)
		assert.Equal(t, "employeeId already exists", apiErr.Message)
	})

	t.Run("opaque body falls back to a generic message", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
			w.Write([]byte("<html>upstream broke</html>"))
		}))
		defer srv.Close()

		gw := New(srv.URL, http.DefaultClient, &fakeSession{access: "tok"})

		_, err := gw.Do(context.Background(), Request{Method: http.MethodGet, Path: "/all-user"})
		require.Error(t, err)

		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Contains(t, apiErr.Message, "502")
	})
}

func TestDo_MultipartForm(t *testing.T) {
	photoPath := filepath.Join(t.TempDir(), "photo.jpg")
	require.NoError(t, os.WriteFile(photoPath, []byte("jpeg-bytes"), 0600))

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "Asha", r.FormValue("employeeName"))

		_, header, err := r.FormFile("employeePhoto")
		require.NoError(t, err)
		assert.Equal(t, "photo.jpg", header.Filename)

		json.NewEncoder(w).Encode(api.EmployeeEnvelope{User: &api.Employee{ID: "u1"}})
	}))
	defer srv.Close()

	gw := New(srv.URL, http.DefaultClient, &fakeSession{access: "tok"})

	form := api.NewForm().Set("employeeName", "Asha").Attach("employeePhoto", photoPath)
	_, err := gw.Do(context.Background(), Request{Method: http.MethodPost, Path: "/add-user", Form: form})
	require.NoError(t, err)
}

func TestProfile(t *testing.T) {
	t.Run("enveloped identity", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "/profile", r.URL.Path)
			json.NewEncoder(w).Encode(api.ProfileResponse{User: &api.User{ID: "u1", EmployeeID: "E1"}})
		}))
		defer srv.Close()

		gw := New(srv.URL, http.DefaultClient, &fakeSession{access: "tok"})

		user, err := gw.Profile(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "E1", user.EmployeeID)
	})

	t.Run("bare identity", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(api.User{ID: "u1", EmployeeID: "E1"})
		}))
		defer srv.Close()

		gw := New(srv.URL, http.DefaultClient, &fakeSession{access: "tok"})

		user, err := gw.Profile(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "u1", user.ID)
	})
}

func TestIsAuthFailure(t *testing.T) {
	assert.False(t, IsAuthFailure(nil))
	assert.False(t, IsAuthFailure(errors.New("connection refused")))
	assert.True(t, IsAuthFailure(ErrSessionExpired))
	assert.True(t, IsAuthFailure(&APIError{Status: http.StatusUnauthorized, Message: "nope"}))
	assert.True(t, IsAuthFailure(&APIError{Status: http.StatusForbidden, Message: "nope"}))
	assert.True(t, IsAuthFailure(errors.New("Token expired")))
	assert.True(t, IsAuthFailure(errors.New("Forbidden")))
	assert.False(t, IsAuthFailure(&APIError{Status: http.StatusConflict, Message: "duplicate"}))
}
