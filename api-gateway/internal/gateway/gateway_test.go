package gateway_test

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"ironxpress/api-gateway/internal/gateway"
	"ironxpress/api-gateway/internal/mocks"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func okResponse(body string) *http.Response {
	resp := &http.Response{
		StatusCode: http.StatusOK,
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     make(http.Header),
	}
	resp.Header.Set("Content-Type", "application/json")
	return resp
}

func TestGateway_HealthCheck(t *testing.T) {
	gw := gateway.NewGateway(gateway.Config{}, nil, nil, zerolog.Nop())

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rr := httptest.NewRecorder()

	gw.HealthCheck(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	var body map[string]string
	json.NewDecoder(rr.Body).Decode(&body)
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "api-gateway", body["service"])
}

func TestGateway_RouteHandler_ProxiesToStorefront(t *testing.T) {
	mockClient := mocks.NewHTTPClient(t)
	gw := gateway.NewGateway(gateway.Config{StorefrontURL: "http://storefront"}, mockClient, nil, zerolog.Nop())

	mockClient.On("Do", mock.MatchedBy(func(req *http.Request) bool {
		return req.URL.String() == "http://storefront/api/categories/7/products?limit=5" &&
			req.Header.Get("X-Session-ID") == "sess-1"
	})).Return(okResponse(`[{"product_name":"Shirt"}]`), nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/api/categories/7/products?limit=5", nil)
	req.Header.Set("X-Session-ID", "sess-1")
	rr := httptest.NewRecorder()

	gw.RouteHandler(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "Shirt")
}

func TestGateway_UserHeader(t *testing.T) {
	tests := []struct {
		name       string
		authHeader string
		setupAuth  func(*mocks.UserResolver)
		wantUser   string
	}{
		{
			name:       "resolved token",
			authHeader: "Bearer good-token",
			setupAuth: func(m *mocks.UserResolver) {
				m.On("UserID", mock.Anything, "good-token").Return("user-1", nil).Once()
			},
			wantUser: "user-1",
		},
		{
			name:       "rejected token is anonymous",
			authHeader: "Bearer bad-token",
			setupAuth: func(m *mocks.UserResolver) {
				m.On("UserID", mock.Anything, "bad-token").Return("", gateway.ErrInvalidToken).Once()
			},
			wantUser: "",
		},
		{
			name:      "no token is anonymous",
			setupAuth: func(*mocks.UserResolver) {},
			wantUser:  "",
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			mockClient := mocks.NewHTTPClient(t)
			resolver := new(mocks.UserResolver)
			testCase.setupAuth(resolver)
			gw := gateway.NewGateway(gateway.Config{StorefrontURL: "http://storefront"}, mockClient, resolver, zerolog.Nop())

			var forwarded http.Header
			mockClient.On("Do", mock.Anything).Run(func(args mock.Arguments) {
				forwarded = args.Get(0).(*http.Request).Header
			}).Return(okResponse(`{}`), nil).Once()

			req := httptest.NewRequest(http.MethodGet, "/api/profile", nil)
			req.Header.Set(gateway.UserHeader, "spoofed")
			if testCase.authHeader != "" {
				req.Header.Set("Authorization", testCase.authHeader)
			}
			rr := httptest.NewRecorder()

			gw.RouteHandler(rr, req)

			require.Equal(t, http.StatusOK, rr.Code)
			assert.Equal(t, testCase.wantUser, forwarded.Get(gateway.UserHeader))
			assert.Empty(t, forwarded.Get("Authorization"))
			resolver.AssertExpectations(t)
		})
	}
}

func TestGateway_RouteHandler_UnknownRoute(t *testing.T) {
	gw := gateway.NewGateway(gateway.Config{}, nil, nil, zerolog.Nop())

	req := httptest.NewRequest(http.MethodGet, "/unknown", nil)
	rr := httptest.NewRecorder()

	gw.RouteHandler(rr, req)

	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestGateway_RouteHandler_ProxyError(t *testing.T) {
	mockClient := mocks.NewHTTPClient(t)
	gw := gateway.NewGateway(gateway.Config{StorefrontURL: "http://invalid"}, mockClient, nil, zerolog.Nop())

	mockClient.On("Do", mock.Anything).Return(nil, errors.New("connection failed")).Once()

	req := httptest.NewRequest(http.MethodGet, "/api/cart", nil)
	rr := httptest.NewRecorder()

	gw.RouteHandler(rr, req)

	assert.Equal(t, http.StatusBadGateway, rr.Code)
	assert.NotContains(t, rr.Body.String(), "connection failed")
}

func TestGateway_StreamsEvents(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, "event: ready\ndata: {}\n\n")
		w.(http.Flusher).Flush()
		<-r.Context().Done()
	}))
	defer upstream.Close()

	gw := gateway.NewGateway(gateway.Config{StorefrontURL: upstream.URL}, http.DefaultClient, nil, zerolog.Nop())
	server := httptest.NewServer(gw.SetupRoutes())
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, server.URL+"/api/cart/events", nil)
	require.NoError(t, err)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	line, err := bufio.NewReader(resp.Body).ReadString('\n')
	require.NoError(t, err)
	assert.Equal(t, "event: ready\n", line)
}
