package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"dilse/internal/models"
)

// ErrSessionExpired reports that the stored token was rejected. The session
// is cleared before this is returned; the caller should log in again.
var ErrSessionExpired = errors.New("session expired, please log in again")

// APIError is a non-2xx response from the server.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error (%d): %s", e.Status, e.Message)
}

// Client talks to a DilSe server.
type Client struct {
	baseURL  string
	http     *http.Client
	Sessions *SessionStore
}

// New creates a client for the server at baseURL.
func New(baseURL string, sessions *SessionStore) *Client {
	return &Client{
		baseURL:  baseURL,
		http:     &http.Client{Timeout: 15 * time.Second},
		Sessions: sessions,
	}
}

type credentials struct {
	Nickname string `json:"nickname"`
	Password string `json:"password"`
}

type authResponse struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

// Signup registers a new account and stores the resulting session.
func (c *Client) Signup(ctx context.Context, nickname, password string) (*Session, error) {
	return c.authenticate(ctx, "/api/auth/signup", nickname, password)
}

// Login authenticates and stores the resulting session.
func (c *Client) Login(ctx context.Context, nickname, password string) (*Session, error) {
	return c.authenticate(ctx, "/api/auth/login", nickname, password)
}

func (c *Client) authenticate(ctx context.Context, path, nickname, password string) (*Session, error) {
	var resp authResponse
	if err := c.do(ctx, http.MethodPost, path, credentials{Nickname: nickname, Password: password}, &resp, false); err != nil {
		return nil, err
	}

	session := Session{Token: resp.Token, User: resp.User}
	if err := c.Sessions.Save(session); err != nil {
		return nil, err
	}
	return &session, nil
}

// Logout discards the stored session. The token simply expires server-side.
func (c *Client) Logout() error {
	return c.Sessions.Clear()
}

// Posts fetches the feed.
func (c *Client) Posts(ctx context.Context) ([]models.Post, error) {
	var posts []models.Post
	if err := c.do(ctx, http.MethodGet, "/api/posts", nil, &posts, false); err != nil {
		return nil, err
	}
	return posts, nil
}

// Tags fetches the emotion tag catalog.
func (c *Client) Tags(ctx context.Context) ([]models.EmotionTag, error) {
	var tags []models.EmotionTag
	if err := c.do(ctx, http.MethodGet, "/api/tags", nil, &tags, false); err != nil {
		return nil, err
	}
	return tags, nil
}

// CreatePost publishes a new confession.
func (c *Client) CreatePost(ctx context.Context, title, content string, tag models.EmotionTagID) (*models.Post, error) {
	body := map[string]string{"title": title, "content": content, "tag": string(tag)}
	var post models.Post
	if err := c.do(ctx, http.MethodPost, "/api/posts", body, &post, true); err != nil {
		return nil, err
	}
	return &post, nil
}

// React sends a reaction and returns the post with server-confirmed counts.
func (c *Client) React(ctx context.Context, postID string, kind models.ReactionKind) (*models.Post, error) {
	body := map[string]string{"reaction": string(kind)}
	var post models.Post
	if err := c.do(ctx, http.MethodPost, "/api/posts/"+postID+"/react", body, &post, true); err != nil {
		return nil, err
	}
	return &post, nil
}

// Reply appends a reply and returns the updated post.
func (c *Client) Reply(ctx context.Context, postID, content string) (*models.Post, error) {
	body := map[string]string{"content": content}
	var post models.Post
	if err := c.do(ctx, http.MethodPost, "/api/posts/"+postID+"/reply", body, &post, true); err != nil {
		return nil, err
	}
	return &post, nil
}

// SuggestTag asks the server's AI to pick an emotion tag for a draft. The
// suggestion is decorative, so every failure degrades to "no suggestion"
// rather than an error.
func (c *Client) SuggestTag(ctx context.Context, content string) (models.EmotionTagID, bool) {
	var resp struct {
		Tag models.EmotionTagID `json:"tag"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/suggest-tag", map[string]string{"content": content}, &resp, true); err != nil {
		return "", false
	}
	if !models.ValidTag(resp.Tag) {
		return "", false
	}
	return resp.Tag, true
}

func (c *Client) do(ctx context.Context, method, path string, body, out any, authed bool) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if authed {
		session, err := c.Sessions.Current()
		if err != nil {
			return err
		}
		if session == nil {
			return ErrSessionExpired
		}
		req.Header.Set("Authorization", "Bearer "+session.Token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusUnauthorized && authed {
		// The token was rejected; drop it so the next call fails fast.
		_ = c.Sessions.Clear()
		return ErrSessionExpired
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr models.ErrorResponse
		if decodeErr := json.NewDecoder(resp.Body).Decode(&apiErr); decodeErr != nil || apiErr.Message == "" {
			apiErr.Message = http.StatusText(resp.StatusCode)
		}
		return &APIError{Status: resp.StatusCode, Message: apiErr.Message}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
