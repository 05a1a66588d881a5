package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/moodlog/internal/model"
)

type httpDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// HTTPClient 通过服务端 REST 接口访问远端存储，会话保存在 cookie jar 中。
type HTTPClient struct {
	http    httpDoer
	baseURL string
	userID  string
}

// NewHTTPClient 构造客户端，baseURL 形如 http://localhost:8080
func NewHTTPClient(baseURL string) *HTTPClient {
	jar, _ := cookiejar.New(nil)
	c := &HTTPClient{http: &http.Client{Timeout: 20 * time.Second, Jar: jar}}
	c.SetBaseURL(baseURL)
	return c
}

// SetHTTPClient 替换底层 HTTP 客户端，主要面向测试场景。
func (c *HTTPClient) SetHTTPClient(client httpDoer) {
	if client == nil {
		jar, _ := cookiejar.New(nil)
		c.http = &http.Client{Timeout: 20 * time.Second, Jar: jar}
		return
	}
	c.http = client
}

func (c *HTTPClient) SetBaseURL(base string) {
	c.baseURL = strings.TrimRight(strings.TrimSpace(base), "/")
}

// UserID 返回登录后服务端确认的用户 ID
func (c *HTTPClient) UserID() string {
	return c.userID
}

type loginResponse struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
}

// Login 建立会话并记录用户 ID
func (c *HTTPClient) Login(ctx context.Context, username, password string) (string, error) {
	var resp loginResponse
	body := map[string]string{"username": username, "password": password}
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", body, &resp); err != nil {
		return "", err
	}
	c.userID = resp.UserID
	return resp.UserID, nil
}

// Logout 结束会话
func (c *HTTPClient) Logout(ctx context.Context) error {
	if err := c.do(ctx, http.MethodPost, "/api/auth/logout", nil, nil); err != nil {
		return err
	}
	c.userID = ""
	return nil
}

func (c *HTTPClient) FetchCheckIns(ctx context.Context, userID string) ([]CheckInRecord, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	var resp struct {
		CheckIns []CheckInRecord `json:"checkins"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/checkins", nil, &resp); err != nil {
		return nil, err
	}
	return resp.CheckIns, nil
}

func (c *HTTPClient) CreateCheckIn(ctx context.Context, userID string, in model.CheckInInput) (CheckInRecord, error) {
	if err := requireUser(userID); err != nil {
		return CheckInRecord{}, err
	}
	var resp struct {
		CheckIn CheckInRecord `json:"checkin"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/checkins", in, &resp); err != nil {
		return CheckInRecord{}, err
	}
	return resp.CheckIn, nil
}

func (c *HTTPClient) FetchJournalEntries(ctx context.Context, userID string) ([]JournalRecord, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	var resp struct {
		Entries []JournalRecord `json:"entries"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/journal", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Entries, nil
}

func (c *HTTPClient) CreateJournalEntry(ctx context.Context, userID string, in model.JournalInput) (JournalRecord, error) {
	if err := requireUser(userID); err != nil {
		return JournalRecord{}, err
	}
	var resp struct {
		Entry JournalRecord `json:"entry"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/journal", in, &resp); err != nil {
		return JournalRecord{}, err
	}
	return resp.Entry, nil
}

func (c *HTTPClient) UpdateJournalEntry(ctx context.Context, userID, id string, patch model.JournalPatch) (JournalRecord, error) {
	if err := requireUser(userID); err != nil {
		return JournalRecord{}, err
	}
	var resp struct {
		Entry JournalRecord `json:"entry"`
	}
	if err := c.do(ctx, http.MethodPut, "/api/journal/"+url.PathEscape(id), patch, &resp); err != nil {
		return JournalRecord{}, err
	}
	return resp.Entry, nil
}

func (c *HTTPClient) DeleteJournalEntry(ctx context.Context, userID, id string) error {
	if err := requireUser(userID); err != nil {
		return err
	}
	return c.do(ctx, http.MethodDelete, "/api/journal/"+url.PathEscape(id), nil, nil)
}

func (c *HTTPClient) do(ctx context.Context, method, path string, payload, dst any) error {
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request %s %s: %w", method, path, err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "moodlog-cli/1.0")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s %s: %w", ErrUnavailable, method, path, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return fmt.Errorf("%w: read response: %w", ErrUnavailable, err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return statusError(resp.StatusCode, respBody)
	}
	if dst == nil || len(respBody) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, dst); err != nil {
		return fmt.Errorf("%w: decode response: %w", ErrUnavailable, err)
	}
	return nil
}

func statusError(status int, body []byte) error {
	var payload struct {
		Error string `json:"error"`
	}
	_ = json.Unmarshal(body, &payload)
	message := strings.TrimSpace(payload.Error)
	if message == "" {
		message = http.StatusText(status)
	}

	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return fmt.Errorf("%w: %s", ErrUnauthorized, message)
	case status == http.StatusNotFound:
		return fmt.Errorf("%w: %s", ErrNotFound, message)
	case status == http.StatusConflict:
		return fmt.Errorf("%w: %s", ErrLocked, message)
	case status == http.StatusBadRequest || status == http.StatusUnprocessableEntity:
		return fmt.Errorf("%w: %s", model.ErrInvalidValue, message)
	default:
		return fmt.Errorf("%w: status %d: %s", ErrUnavailable, status, message)
	}
}
