// Package api is a thin HTTP client for the document library server. It
// speaks the server's JSON envelope and keeps the bearer token between calls.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"
)

// Document mirrors the server's document representation.
type Document struct {
	ID        string    `json:"id"`
	Filename  string    `json:"filename"`
	MIME      string    `json:"mime"`
	Content   string    `json:"content,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// payload is the server's response envelope.
type payload struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// Client calls the server API. Zero value is not usable; use New.
type Client struct {
	baseURL string
	http    *http.Client
	token   string
}

func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

// SetToken installs the bearer token used on document endpoints.
func (c *Client) SetToken(token string) { c.token = token }

// LoggedIn reports whether a bearer token is present.
func (c *Client) LoggedIn() bool { return c.token != "" }

func (c *Client) Register(ctx context.Context, email, password string) error {
	body := map[string]string{"email": email, "password": password}
	_, err := c.doJSON(ctx, http.MethodPost, "/api/v1/auth/sign-up", body)
	return err
}

// Login authenticates and remembers the returned token for later calls.
func (c *Client) Login(ctx context.Context, email, password string) error {
	body := map[string]string{"email": email, "password": password}
	data, err := c.doJSON(ctx, http.MethodPost, "/api/v1/auth/login", body)
	if err != nil {
		return err
	}

	var resp struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		return fmt.Errorf("decoding login response: %w", err)
	}
	c.token = resp.AccessToken
	return nil
}

// Recover requests a password reset token for the email.
func (c *Client) Recover(ctx context.Context, email string) (string, error) {
	data, err := c.doJSON(ctx, http.MethodPost, "/api/v1/auth/recover", map[string]string{"email": email})
	if err != nil {
		return "", err
	}

	var resp struct {
		ResetToken string `json:"reset_token"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		return "", fmt.Errorf("decoding recover response: %w", err)
	}
	return resp.ResetToken, nil
}

// Reset redeems a recovery token for a new password.
func (c *Client) Reset(ctx context.Context, email, token, newPassword string) error {
	body := map[string]string{"email": email, "token": token, "new_password": newPassword}
	_, err := c.doJSON(ctx, http.MethodPost, "/api/v1/auth/reset", body)
	return err
}

// SaveText stores pasted text as a document.
func (c *Client) SaveText(ctx context.Context, content string) (*Document, error) {
	data, err := c.doJSON(ctx, http.MethodPost, "/api/v1/documents/", map[string]string{"content": content})
	if err != nil {
		return nil, err
	}
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decoding document: %w", err)
	}
	return &doc, nil
}

// Upload sends file bytes as a multipart upload; the server extracts text.
func (c *Client) Upload(ctx context.Context, filename string, content []byte) (*Document, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return nil, err
	}
	if _, err := fw.Write(content); err != nil {
		return nil, err
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/v1/documents/upload", &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	data, err := c.do(req)
	if err != nil {
		return nil, err
	}
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decoding document: %w", err)
	}
	return &doc, nil
}

func (c *Client) List(ctx context.Context) ([]Document, error) {
	data, err := c.doJSON(ctx, http.MethodGet, "/api/v1/documents/", nil)
	if err != nil {
		return nil, err
	}
	var docs []Document
	if err := json.Unmarshal(data, &docs); err != nil {
		return nil, fmt.Errorf("decoding document list: %w", err)
	}
	return docs, nil
}

func (c *Client) Get(ctx context.Context, id string) (*Document, error) {
	data, err := c.doJSON(ctx, http.MethodGet, "/api/v1/documents/"+id, nil)
	if err != nil {
		return nil, err
	}
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decoding document: %w", err)
	}
	return &doc, nil
}

func (c *Client) Delete(ctx context.Context, id string) error {
	_, err := c.doJSON(ctx, http.MethodDelete, "/api/v1/documents/"+id, nil)
	return err
}

// doJSON sends an optional JSON body and returns the envelope's data field.
func (c *Client) doJSON(ctx context.Context, method, path string, body any) (json.RawMessage, error) {
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		rd = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rd)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return c.do(req)
}

// do executes the request, attaches the token, and unwraps the envelope.
// Server-reported failures become plain errors carrying the server message.
func (c *Client) do(req *http.Request) (json.RawMessage, error) {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var p payload
	if err := json.NewDecoder(resp.Body).Decode(&p); err != nil {
		return nil, fmt.Errorf("unexpected response (status %d): %w", resp.StatusCode, err)
	}
	if !p.Success {
		return nil, fmt.Errorf("%s", p.Message)
	}
	return p.Data, nil
}
