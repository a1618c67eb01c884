package gateway

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
)

const UserHeader = "X-User-ID"

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// UserResolver maps an access token to a user id.
type UserResolver interface {
	UserID(ctx context.Context, token string) (string, error)
}

type Config struct {
	StorefrontURL string
}

type Gateway struct {
	config Config
	client HTTPClient
	auth   UserResolver
	logger zerolog.Logger
}

func NewGateway(config Config, client HTTPClient, auth UserResolver, logger zerolog.Logger) *Gateway {
	return &Gateway{
		config: config,
		client: client,
		auth:   auth,
		logger: logger,
	}
}

func (g *Gateway) HealthCheck(w http.ResponseWriter, r *http.Request) {
	response := map[string]string{
		"status":  "healthy",
		"service": "api-gateway",
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// resolveUser returns the caller's user id, or "" for anonymous requests.
// Auth provider failures are logged and the request proceeds anonymously.
func (g *Gateway) resolveUser(r *http.Request) string {
	token := bearerToken(r)
	if token == "" || g.auth == nil {
		return ""
	}
	userID, err := g.auth.UserID(r.Context(), token)
	if err != nil {
		g.logger.Warn().Err(err).Str("url", r.URL.Path).Msg("could not resolve user")
		return ""
	}
	return userID
}

func (g *Gateway) ProxyRequest(w http.ResponseWriter, r *http.Request, targetURL string) {
	g.logger.Debug().Str("method", r.Method).Str("path", r.URL.Path).Str("target", targetURL).Msg("proxy")

	url := targetURL + r.URL.Path
	if r.URL.RawQuery != "" {
		url += "?" + r.URL.RawQuery
	}

	req, err := http.NewRequestWithContext(r.Context(), r.Method, url, r.Body)
	if err != nil {
		g.logger.Error().Err(err).Msg("Failed to create request")
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	for k, v := range r.Header {
		req.Header[k] = v
	}
	req.Header.Del(UserHeader)
	req.Header.Del("Authorization")
	if userID := g.resolveUser(r); userID != "" {
		req.Header.Set(UserHeader, userID)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		g.logger.Error().Err(err).Str("target", targetURL).Msg("Failed to proxy")
		writeError(w, http.StatusBadGateway, "Storefront unavailable")
		return
	}
	defer resp.Body.Close()

	for k, v := range resp.Header {
		w.Header()[k] = v
	}
	w.WriteHeader(resp.StatusCode)

	if err := copyFlushing(w, resp.Body); err != nil && r.Context().Err() == nil {
		g.logger.Error().Err(err).Msg("Failed to copy response")
	}
}

// copyFlushing forwards the body chunk by chunk so event streams reach the
// client as they are written.
func copyFlushing(w http.ResponseWriter, body io.Reader) error {
	rc := http.NewResponseController(w)
	buf := make([]byte, 32*1024)
	for {
		n, err := body.Read(buf)
		if n > 0 {
			if _, werr := w.Write(buf[:n]); werr != nil {
				return werr
			}
			if ferr := rc.Flush(); ferr != nil {
				return ferr
			}
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

func (g *Gateway) RouteHandler(w http.ResponseWriter, r *http.Request) {
	if strings.HasPrefix(r.URL.Path, "/api/") {
		g.ProxyRequest(w, r, g.config.StorefrontURL)
		return
	}
	writeError(w, http.StatusNotFound, "Route not found")
}

func (g *Gateway) SetupRoutes() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/health", g.HealthCheck).Methods("GET")
	r.PathPrefix("/").HandlerFunc(g.RouteHandler)
	return r
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
