package bibleapi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dmitrijs2005/dailyword/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL+"/", 2*time.Second)
}

func TestClient_Authenticate_Success(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/user/authenticate", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "svc", r.PostForm.Get("username"))
		assert.Equal(t, "secret", r.PostForm.Get("password"))

		_, _ = w.Write([]byte(`{"authentication":{"success":true,"user_id":1234,"access_token":"abc","expires":1792396800}}`))
	})

	res, err := c.Authenticate(context.Background(), "svc", "secret")
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, "1234", res.SubjectID)
	assert.Equal(t, "abc", res.AccessToken)
	assert.Equal(t, time.Unix(1792396800, 0), res.ExpiresAt)
}

func TestClient_Authenticate_Failures(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{"rejected", http.StatusUnauthorized, `{}`, common.ErrAuthentication},
		{"missing payload", http.StatusOK, `{"error":"nope"}`, common.ErrAuthentication},
		{"not json", http.StatusOK, `<html>`, common.ErrAuthentication},
		{"bad expires", http.StatusOK, `{"authentication":{"success":true,"access_token":"a","expires":"soon"}}`, common.ErrAuthentication},
		{"server error", http.StatusBadGateway, ``, common.ErrUpstreamUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			_, err := c.Authenticate(context.Background(), "u", "p")
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestClient_Authenticate_UnsuccessfulFlagIsReturned(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"authentication":{"success":false}}`))
	})

	res, err := c.Authenticate(context.Background(), "u", "p")
	require.NoError(t, err)
	assert.False(t, res.Success)
}

func TestClient_ListTranslations(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/bible", r.URL.Path)
		assert.Equal(t, "tok", r.URL.Query().Get("access_token"))
		_, _ = w.Write([]byte(`{"data":[{"translation":"NKJV","last_modified":"2020-01-01"},{"translation":"ESV","last_modified":"2021-06-01"}]}`))
	})

	got, err := c.ListTranslations(context.Background(), "tok")
	require.NoError(t, err)
	assert.Equal(t, []TranslationEntry{
		{Code: "NKJV", LastModified: "2020-01-01"},
		{Code: "ESV", LastModified: "2021-06-01"},
	}, got)
}

func TestClient_GetTranslation(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/bible/NIV", r.URL.Path)
		_, _ = w.Write([]byte(`{"data":[{"attribution":{"translation":"NIV","translation_name":"New International Version"}}]}`))
	})

	got, err := c.GetTranslation(context.Background(), "tok", "NIV")
	require.NoError(t, err)
	assert.Equal(t, "NIV", got.Code)
	assert.Equal(t, "New International Version", got.Name)
}

func TestClient_GetTranslation_Empty(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":[]}`))
	})

	_, err := c.GetTranslation(context.Background(), "tok", "XYZ")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestClient_GetPassage(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/bible/Ps.23/NIV", r.URL.Path)
		_, _ = w.Write([]byte(`{"data":[{"passages":[{"content":"The Lord is my shepherd..."},{"content":"ignored"}]}]}`))
	})

	got, err := c.GetPassage(context.Background(), "tok", "Ps.23", "NIV")
	require.NoError(t, err)
	assert.Equal(t, "The Lord is my shepherd...", got)
}

func TestClient_GetPassage_NoPassages(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":[{"passages":[]}]}`))
	})

	_, err := c.GetPassage(context.Background(), "tok", "Ps.151", "NIV")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestClient_DataCallErrors(t *testing.T) {
	tests := []struct {
		name         string
		status       int
		body         string
		wantRejected bool
	}{
		{"unauthorized", http.StatusUnauthorized, `{}`, true},
		{"server error", http.StatusInternalServerError, `oops`, false},
		{"bad json", http.StatusOK, `{"data":`, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			_, err := c.ListTranslations(context.Background(), "tok")
			require.ErrorIs(t, err, common.ErrUpstreamUnavailable)
			assert.Equal(t, tt.wantRejected, errors.Is(err, ErrTokenRejected))
		})
	}
}

func TestClient_Timeout(t *testing.T) {
	block := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-block
	}))
	t.Cleanup(func() {
		close(block)
		srv.Close()
	})

	c := NewClient(srv.URL, 50*time.Millisecond)

	_, err := c.ListTranslations(context.Background(), "tok")
	assert.ErrorIs(t, err, common.ErrUpstreamUnavailable)
}
