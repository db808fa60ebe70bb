package internal

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

// Client is the HTTP facade over the backend's /api endpoints. Every
// call surfaces transport and server failures to its caller unmodified
// after logging; there is no retry layer. Callers decide the UI
// fallback.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewClient creates a client for the given backend base URL.
func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL:    baseURL,
		HTTPClient: &http.Client{Timeout: 60 * time.Second},
	}
}

// doRequest performs an HTTP request and decodes the response into out.
func (c *Client) doRequest(ctx context.Context, method, path string, body []byte, out interface{}) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reader)
	if err != nil {
		return &TransportError{Op: "request", URL: c.BaseURL + path, Err: err}
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		LogError("Request failed: %s %s: %v", method, path, err)
		return &TransportError{Op: "request", URL: c.BaseURL + path, Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		LogError("Reading response failed: %s %s: %v", method, path, err)
		return &TransportError{Op: "request", URL: c.BaseURL + path, Err: err}
	}

	if resp.StatusCode >= 400 {
		var errResp struct {
			Error   string `json:"error"`
			Message string `json:"message"`
		}
		_ = json.Unmarshal(respBody, &errResp)
		msg := errResp.Error
		if msg == "" {
			msg = errResp.Message
		}
		serverErr := &ServerError{Status: resp.StatusCode, Path: path, Message: msg}
		LogError("Server error: %s %s: %v", method, path, serverErr)
		return serverErr
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		LogError("Decoding response failed: %s %s: %v", method, path, err)
		return fmt.Errorf("failed to decode %s response: %w", path, err)
	}
	return nil
}

// ListFiles returns the uploaded file listing.
func (c *Client) ListFiles(ctx context.Context) (*FileList, error) {
	var list FileList
	if err := c.doRequest(ctx, http.MethodGet, "/api/files", nil, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// UploadFiles uploads a batch of already-validated PDF files as a
// multipart request. Validation against type and size happens in the
// caller before this point; invalid payloads are never sent.
func (c *Client) UploadFiles(ctx context.Context, paths []string) (*UploadResult, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	for _, path := range paths {
		f, err := os.Open(path)
		if err != nil {
			return nil, &TransportError{Op: "request", URL: c.BaseURL + "/api/upload", Err: err}
		}
		part, err := writer.CreateFormFile("files", filepath.Base(path))
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to build multipart request: %w", err)
		}
		if _, err := io.Copy(part, f); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
		f.Close()
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize multipart request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/api/upload", &buf)
	if err != nil {
		return nil, &TransportError{Op: "request", URL: c.BaseURL + "/api/upload", Err: err}
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		LogError("Upload failed: %v", err)
		return nil, &TransportError{Op: "request", URL: c.BaseURL + "/api/upload", Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		LogError("Reading upload response failed: %v", err)
		return nil, &TransportError{Op: "request", URL: c.BaseURL + "/api/upload", Err: err}
	}
	if resp.StatusCode >= 400 {
		serverErr := &ServerError{Status: resp.StatusCode, Path: "/api/upload"}
		LogError("Upload rejected: %v", serverErr)
		return nil, serverErr
	}

	var result UploadResult
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, fmt.Errorf("failed to decode upload response: %w", err)
	}
	return &result, nil
}

// CreateChat creates a new chat session and returns its id.
func (c *Client) CreateChat(ctx context.Context) (*ChatCreated, error) {
	var created ChatCreated
	if err := c.doRequest(ctx, http.MethodPost, "/api/chat/create", nil, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// GetChatHistory fetches the full history for a session id.
func (c *Client) GetChatHistory(ctx context.Context, chatID string) (*ChatHistory, error) {
	var history ChatHistory
	if err := c.doRequest(ctx, http.MethodGet, "/api/chat/"+chatID, nil, &history); err != nil {
		return nil, err
	}
	return &history, nil
}

// Ask sends one question over plain HTTP, the fallback transport when
// the websocket channel is not in use.
func (c *Client) Ask(ctx context.Context, chatID, question string) (*AnswerResponse, error) {
	body, err := json.Marshal(map[string]string{
		"chat_id":  chatID,
		"question": question,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode question: %w", err)
	}

	var answer AnswerResponse
	if err := c.doRequest(ctx, http.MethodPost, "/api/chat", body, &answer); err != nil {
		return nil, err
	}
	answer.Timestamp = NormalizeTimestamp(answer.Timestamp)
	return &answer, nil
}

// ResetChat asks the server to discard the current session's state.
func (c *Client) ResetChat(ctx context.Context) error {
	return c.doRequest(ctx, http.MethodPost, "/api/reset", nil, nil)
}

// ListChats returns all chat sessions known to the server.
func (c *Client) ListChats(ctx context.Context) (*ChatList, error) {
	var list ChatList
	if err := c.doRequest(ctx, http.MethodGet, "/api/chat", nil, &list); err != nil {
		return nil, err
	}
	return &list, nil
}
