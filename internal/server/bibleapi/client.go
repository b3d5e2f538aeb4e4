// Package bibleapi talks to the external scripture text provider: it
// authenticates, lists the licensed translations, and fetches passages.
package bibleapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/dailyword/internal/common"
	"github.com/dmitrijs2005/dailyword/internal/server/models"
)

// ErrTokenRejected means the provider answered 401 to a data call; the held
// credential must be dropped.
var ErrTokenRejected = errors.New("access token rejected")

// AuthResult is the provider's answer to an authentication exchange.
type AuthResult struct {
	Success     bool
	SubjectID   string
	AccessToken string
	ExpiresAt   time.Time
}

// TranslationEntry is one row of the provider catalog.
type TranslationEntry struct {
	Code         string
	Name         string
	LastModified string
}

// Client is a thin HTTP client for the provider endpoints. It holds no
// credentials; callers pass the access token on every data call.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient returns a Client whose every request is bounded by timeout.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

type authEnvelope struct {
	Authentication *struct {
		Success     bool            `json:"success"`
		UserID      json.RawMessage `json:"user_id"`
		AccessToken string          `json:"access_token"`
		Expires     json.Number     `json:"expires"`
	} `json:"authentication"`
}

// Authenticate performs POST /user/authenticate. Rejections (4xx) and
// responses that do not decode into the expected shape are reported as
// common.ErrAuthentication; transport failures and 5xx as
// common.ErrUpstreamUnavailable.
func (c *Client) Authenticate(ctx context.Context, username, password string) (*AuthResult, error) {
	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/user/authenticate", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusInternalServerError {
		return nil, fmt.Errorf("%w: authenticate: %s", common.ErrUpstreamUnavailable, resp.Status)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %s", common.ErrAuthentication, resp.Status)
	}

	var env authEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", common.ErrAuthentication, err)
	}
	if env.Authentication == nil {
		return nil, fmt.Errorf("%w: missing authentication payload", common.ErrAuthentication)
	}

	a := env.Authentication
	result := &AuthResult{
		Success:     a.Success,
		SubjectID:   strings.Trim(string(a.UserID), `"`),
		AccessToken: a.AccessToken,
	}
	if a.Expires != "" {
		sec, err := strconv.ParseInt(a.Expires.String(), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: bad expires %q", common.ErrAuthentication, a.Expires)
		}
		result.ExpiresAt = time.Unix(sec, 0)
	}
	return result, nil
}

// ListTranslations performs GET /bible.
func (c *Client) ListTranslations(ctx context.Context, token string) ([]TranslationEntry, error) {
	var body struct {
		Data []struct {
			Translation  string `json:"translation"`
			Name         string `json:"name"`
			LastModified string `json:"last_modified"`
		} `json:"data"`
	}
	if err := c.get(ctx, "/bible", token, &body); err != nil {
		return nil, err
	}

	entries := make([]TranslationEntry, 0, len(body.Data))
	for _, d := range body.Data {
		entries = append(entries, TranslationEntry{Code: d.Translation, Name: d.Name, LastModified: d.LastModified})
	}
	return entries, nil
}

// GetTranslation performs GET /bible/{code} and returns the attribution.
func (c *Client) GetTranslation(ctx context.Context, token, code string) (*models.VersionInfo, error) {
	var body struct {
		Data []struct {
			Attribution struct {
				Translation     string `json:"translation"`
				TranslationName string `json:"translation_name"`
			} `json:"attribution"`
		} `json:"data"`
	}
	if err := c.get(ctx, "/bible/"+url.PathEscape(code), token, &body); err != nil {
		return nil, err
	}
	if len(body.Data) == 0 {
		return nil, fmt.Errorf("translation %s: %w", code, common.ErrorNotFound)
	}
	a := body.Data[0].Attribution
	return &models.VersionInfo{Code: a.Translation, Name: a.TranslationName}, nil
}

// GetPassage performs GET /bible/{osis}/{code} and returns the content of the
// first passage of the first result.
func (c *Client) GetPassage(ctx context.Context, token, osis, code string) (string, error) {
	var body struct {
		Data []struct {
			Passages []struct {
				Content string `json:"content"`
			} `json:"passages"`
		} `json:"data"`
	}
	if err := c.get(ctx, "/bible/"+url.PathEscape(osis)+"/"+url.PathEscape(code), token, &body); err != nil {
		return "", err
	}
	if len(body.Data) == 0 || len(body.Data[0].Passages) == 0 {
		return "", fmt.Errorf("passage %s in %s: %w", osis, code, common.ErrorNotFound)
	}
	return body.Data[0].Passages[0].Content, nil
}

func (c *Client) get(ctx context.Context, path, token string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?access_token="+url.QueryEscape(token), nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return fmt.Errorf("%w: %w", common.ErrUpstreamUnavailable, ErrTokenRejected)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%w: GET %s: %s; body: %s", common.ErrUpstreamUnavailable, path, resp.Status, string(b))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode %s: %v", common.ErrUpstreamUnavailable, path, err)
	}
	return nil
}
