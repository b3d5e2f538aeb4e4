package bibleapi

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/dmitrijs2005/dailyword/internal/server/models"
)

// ServiceName identifies this provider on Versions built from its catalog.
const ServiceName = "biblegateway"

var lastModifiedLayouts = []string{time.RFC3339, time.DateTime, time.DateOnly}

// Session pairs a Client with an Authenticator so callers never handle
// tokens. A data call rejected with 401 drops the credential and is retried
// once with a fresh one.
type Session struct {
	client *Client
	auth   *Authenticator
}

func NewSession(client *Client, auth *Authenticator) *Session {
	return &Session{client: client, auth: auth}
}

// Translations lists the translations the account is licensed for.
func (s *Session) Translations(ctx context.Context) ([]models.Translation, error) {
	var entries []TranslationEntry
	err := s.withToken(ctx, func(token string) error {
		var err error
		entries, err = s.client.ListTranslations(ctx, token)
		return err
	})
	if err != nil {
		return nil, err
	}

	out := make([]models.Translation, 0, len(entries))
	for _, e := range entries {
		title := e.Name
		if title == "" {
			title = e.Code
		}
		out = append(out, models.Translation{
			Code:         e.Code,
			Title:        title,
			LastModified: parseLastModified(e.LastModified),
		})
	}
	return out, nil
}

// TranslationInfo returns the provider attribution for code.
func (s *Session) TranslationInfo(ctx context.Context, code string) (*models.VersionInfo, error) {
	var info *models.VersionInfo
	err := s.withToken(ctx, func(token string) error {
		var err error
		info, err = s.client.GetTranslation(ctx, token, code)
		return err
	})
	return info, err
}

// Passage fetches the text of osis in the translation code.
func (s *Session) Passage(ctx context.Context, osis, code string) (string, error) {
	var content string
	err := s.withToken(ctx, func(token string) error {
		var err error
		content, err = s.client.GetPassage(ctx, token, osis, code)
		return err
	})
	return content, err
}

func (s *Session) withToken(ctx context.Context, call func(token string) error) error {
	token, err := s.auth.Authenticate(ctx)
	if err != nil {
		return err
	}

	err = call(token)
	if !errors.Is(err, ErrTokenRejected) {
		return err
	}

	s.auth.Invalidate()
	if token, err = s.auth.Authenticate(ctx); err != nil {
		return err
	}
	return call(token)
}

// parseLastModified accepts the timestamp layouts the provider has used. An
// unparseable value sorts as the oldest.
func parseLastModified(v string) time.Time {
	v = strings.TrimSpace(v)
	for _, layout := range lastModifiedLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t
		}
	}
	return time.Time{}
}
