package backend

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"trading-journal-go/internal/assets"
	"trading-journal-go/internal/auth"
	"trading-journal-go/internal/config"
	"trading-journal-go/internal/models"
	"trading-journal-go/internal/repository"
)

const (
	serviceKey = "service-key"
	anonKey    = "anon-key"
	alice      = "4b6f3d1e-6f3b-4a8e-9a51-7f0d5c2c9e11"
)

// setupTestServer creates a new test server and a Client configured to use it.
func setupTestServer(handler http.Handler) (*Client, *httptest.Server) {
	server := httptest.NewServer(handler)

	c := NewClient(&config.Backend{
		URL:            server.URL + "/",
		APIKey:         anonKey,
		ServiceKey:     serviceKey,
		RateLimit:      0, // unlimited in tests
		RateLimitBurst: 1,
		Timeout:        5 * time.Second,
	}, zap.NewNop())

	return c, server
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

func TestCurrentUser(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		// Arrange
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/auth/v1/user", r.URL.Path)
			assert.Equal(t, "Bearer user-token", r.Header.Get("Authorization"))
			assert.Equal(t, anonKey, r.Header.Get("apikey"))
			writeJSON(w, http.StatusOK, `{"id":"`+alice+`","email":"alice@example.com","user_metadata":{"name":"Alice"}}`)
		})
		c, server := setupTestServer(handler)
		defer server.Close()

		// Act
		user, err := c.CurrentUser(context.Background(), "user-token")

		// Assert
		require.NoError(t, err)
		assert.Equal(t, alice, user.ID)
		assert.Equal(t, "alice@example.com", user.Email)
		assert.Equal(t, "Alice", user.Metadata["name"])
	})

	t.Run("Expired token", func(t *testing.T) {
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusUnauthorized, `{"code":401,"error_code":"bad_jwt","msg":"invalid JWT"}`)
		})
		c, server := setupTestServer(handler)
		defer server.Close()

		_, err := c.CurrentUser(context.Background(), "stale")

		assert.ErrorIs(t, err, auth.ErrUnauthenticated)
	})

	t.Run("No token skips the call", func(t *testing.T) {
		c, server := setupTestServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("unexpected request")
		}))
		defer server.Close()

		_, err := c.CurrentUser(context.Background(), "")
		assert.ErrorIs(t, err, auth.ErrUnauthenticated)
	})

	t.Run("Server error", func(t *testing.T) {
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusInternalServerError, `{"message":"database unavailable"}`)
		})
		c, server := setupTestServer(handler)
		defer server.Close()

		_, err := c.CurrentUser(context.Background(), "user-token")

		var be *repository.BackendError
		require.ErrorAs(t, err, &be)
		assert.Equal(t, http.StatusInternalServerError, be.Status)
		assert.Equal(t, "database unavailable", be.Message)
	})
}

func TestResponseError(t *testing.T) {
	testCases := []struct {
		name string
		body string
		want repository.BackendError
	}{
		{
			name: "Postgrest",
			body: `{"message":"new row violates row-level security policy","details":"Failing row","hint":"check policy","code":"42501"}`,
			want: repository.BackendError{Message: "new row violates row-level security policy", Details: "Failing row", Hint: "check policy", Code: "42501", Status: 400},
		},
		{
			name: "Storage",
			body: `{"statusCode":"400","error":"InvalidKey","message":"Invalid key"}`,
			want: repository.BackendError{Message: "Invalid key", Code: "InvalidKey", Status: 400},
		},
		{
			name: "Not JSON",
			body: `bad gateway`,
			want: repository.BackendError{Message: "bad gateway", Status: 400},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			c, server := setupTestServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadRequest)
				_, _ = w.Write([]byte(tc.body))
			}))
			defer server.Close()

			_, err := NewTable[models.Trade](c, "personal_trades").List(context.Background(), alice)

			var be *repository.BackendError
			require.ErrorAs(t, err, &be)
			assert.Equal(t, tc.want, *be)
		})
	}
}

func TestStorage(t *testing.T) {
	t.Run("Upload", func(t *testing.T) {
		// Arrange
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/storage/v1/object/mgi-images/"+alice+"/EURUSD_1_daily chart.png", r.URL.Path)
			assert.Equal(t, "true", r.Header.Get("x-upsert"))
			assert.Equal(t, "image/png", r.Header.Get("Content-Type"))
			assert.Equal(t, "Bearer "+serviceKey, r.Header.Get("Authorization"))
			body, _ := io.ReadAll(r.Body)
			assert.Equal(t, []byte("png-bytes"), body)
			writeJSON(w, http.StatusOK, `{"Key":"mgi-images/x"}`)
		})
		c, server := setupTestServer(handler)
		defer server.Close()

		// Act
		err := c.Upload(context.Background(), "mgi-images", alice+"/EURUSD_1_daily chart.png",
			assets.File{Name: "a.png", ContentType: "image/png", Data: []byte("png-bytes")}, true)

		// Assert
		assert.NoError(t, err)
	})

	t.Run("Upload failure", func(t *testing.T) {
		c, server := setupTestServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusRequestEntityTooLarge, `{"statusCode":"413","error":"Payload too large","message":"The object exceeded the maximum allowed size"}`)
		}))
		defer server.Close()

		err := c.Upload(context.Background(), "mgi-images", "u/a.png", assets.File{Data: []byte("x")}, true)

		assert.ErrorContains(t, err, "maximum allowed size")
	})

	t.Run("Public URL round-trips through ObjectPath", func(t *testing.T) {
		c, server := setupTestServer(http.NotFoundHandler())
		defer server.Close()

		url := c.PublicURL("trader-images", "u/my chart.png")

		assert.Equal(t, server.URL+"/storage/v1/object/public/trader-images/u/my%20chart.png", url)
		assert.Equal(t, "u/my chart.png", assets.ObjectPath("trader-images", url))
	})

	t.Run("Remove", func(t *testing.T) {
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodDelete, r.Method)
			assert.Equal(t, "/storage/v1/object/trader-images", r.URL.Path)
			var body map[string][]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, []string{"u/a.png"}, body["prefixes"])
			writeJSON(w, http.StatusOK, `[]`)
		})
		c, server := setupTestServer(handler)
		defer server.Close()

		assert.NoError(t, c.Remove(context.Background(), "trader-images", []string{"u/a.png"}))
		assert.NoError(t, c.Remove(context.Background(), "trader-images", nil))
	})
}
