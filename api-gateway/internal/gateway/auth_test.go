package gateway

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type clientFunc func(*http.Request) (*http.Response, error)

func (f clientFunc) Do(req *http.Request) (*http.Response, error) { return f(req) }

func respond(status int, body string) *http.Response {
	return &http.Response{StatusCode: status, Body: io.NopCloser(strings.NewReader(body)), Header: make(http.Header)}
}

func TestAuthClient_UserID(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		want    string
		wantErr error
	}{
		{name: "ok", status: http.StatusOK, body: `{"id":"user-1","email":"a@b.c"}`, want: "user-1"},
		{name: "unauthorized", status: http.StatusUnauthorized, body: `{}`, wantErr: ErrInvalidToken},
		{name: "missing id", status: http.StatusOK, body: `{}`, wantErr: ErrInvalidToken},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			var seen *http.Request
			client := clientFunc(func(req *http.Request) (*http.Response, error) {
				seen = req
				return respond(testCase.status, testCase.body), nil
			})
			auth := NewAuthClient("https://auth.example.com/", "anon-key", time.Second, client, zerolog.Nop())

			got, err := auth.UserID(context.Background(), "tok")

			require.NotNil(t, seen)
			assert.Equal(t, "https://auth.example.com/auth/v1/user", seen.URL.String())
			assert.Equal(t, "Bearer tok", seen.Header.Get("Authorization"))
			assert.Equal(t, "anon-key", seen.Header.Get("apikey"))
			if testCase.wantErr != nil {
				assert.ErrorIs(t, err, testCase.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, testCase.want, got)
		})
	}
}

func TestAuthClient_BreakerOpensOnProviderFailures(t *testing.T) {
	calls := 0
	client := clientFunc(func(*http.Request) (*http.Response, error) {
		calls++
		return nil, errors.New("connection refused")
	})
	auth := NewAuthClient("https://auth.example.com", "", time.Second, client, zerolog.Nop())

	for i := 0; i < 5; i++ {
		_, err := auth.UserID(context.Background(), "tok")
		assert.Error(t, err)
	}
	_, err := auth.UserID(context.Background(), "tok")

	assert.Error(t, err)
	assert.Equal(t, 5, calls)
}

func TestAuthClient_RejectedTokensDoNotTripBreaker(t *testing.T) {
	calls := 0
	client := clientFunc(func(*http.Request) (*http.Response, error) {
		calls++
		return respond(http.StatusUnauthorized, `{}`), nil
	})
	auth := NewAuthClient("https://auth.example.com", "", time.Second, client, zerolog.Nop())

	for i := 0; i < 7; i++ {
		_, err := auth.UserID(context.Background(), "tok")
		assert.ErrorIs(t, err, ErrInvalidToken)
	}
	assert.Equal(t, 7, calls)
}

func TestBearerToken(t *testing.T) {
	tests := map[string]string{
		"Bearer abc":  "abc",
		"bearer  xyz": "xyz",
		"Basic abc":   "",
		"":            "",
	}
	for header, want := range tests {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		assert.Equal(t, want, bearerToken(req), header)
	}
}
