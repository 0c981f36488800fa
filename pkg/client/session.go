// Package client is a Go client for the restaurant API that keeps the same
// state the web frontend does: the session token, the cached menu and the cart.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"restaurant_backend/internal/models"
	"restaurant_backend/pkg/utils"
)

// ErrNotAuthenticated is returned by calls that need a token when none is held.
var ErrNotAuthenticated = errors.New("not authenticated")

// Session holds the bearer token and the current user. It is safe for concurrent use.
type Session struct {
	baseURL string
	http    *http.Client

	mu    sync.RWMutex
	token string
	user  *models.User
}

// NewSession creates a session against baseURL, e.g. "http://localhost:5000". httpClient may be nil.
func NewSession(baseURL string, httpClient *http.Client) *Session {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &Session{baseURL: strings.TrimRight(baseURL, "/"), http: httpClient}
}

func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// SetToken restores a previously issued token.
func (s *Session) SetToken(token string) {
	s.mu.Lock()
	s.token = token
	s.mu.Unlock()
}

func (s *Session) User() *models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

func (s *Session) IsAuthenticated() bool {
	return s.Token() != ""
}

func (s *Session) Logout() {
	s.mu.Lock()
	s.token = ""
	s.user = nil
	s.mu.Unlock()
}

// Login exchanges credentials for a token and loads the user profile.
func (s *Session) Login(ctx context.Context, email, password string) (*models.User, error) {
	return s.authenticate(ctx, "/api/auth/login", models.Credentials{Email: email, Password: password})
}

// Register creates a customer account and signs in with it.
func (s *Session) Register(ctx context.Context, name, email, password string) (*models.User, error) {
	return s.authenticate(ctx, "/api/auth/register", models.RegistrationPayload{Name: name, Email: email, Password: password})
}

func (s *Session) authenticate(ctx context.Context, path string, payload interface{}) (*models.User, error) {
	var resp models.AuthResponse
	if err := s.do(ctx, http.MethodPost, path, payload, &resp); err != nil {
		return nil, err
	}
	s.SetToken(resp.Token)
	return s.FetchUser(ctx)
}

// FetchUser refreshes the current user from /api/auth/me.
func (s *Session) FetchUser(ctx context.Context) (*models.User, error) {
	if !s.IsAuthenticated() {
		return nil, ErrNotAuthenticated
	}
	var user models.User
	if err := s.do(ctx, http.MethodGet, "/api/auth/me", nil, &user); err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.user = &user
	s.mu.Unlock()
	return &user, nil
}

// do sends a JSON request with the session token. A 401 response drops the token.
func (s *Session) do(ctx context.Context, method, path string, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := s.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := s.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		s.Logout()
	}
	if resp.StatusCode >= 400 {
		apiErr := &utils.APIError{StatusCode: resp.StatusCode}
		if err := json.NewDecoder(resp.Body).Decode(apiErr); err != nil || apiErr.Message == "" {
			apiErr.Message = http.StatusText(resp.StatusCode)
		}
		return apiErr
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}
