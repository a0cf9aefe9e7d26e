package internal

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := NewDefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, ":8080", cfg.App.HTTP.Address())
	assert.Equal(t, "https://hn.algolia.com/api/v1", cfg.HN.BaseURL)
	assert.Zero(t, cfg.HN.Timeout, "no timeout by default")
}

func TestHTTPConfig_InvalidPort(t *testing.T) {
	for _, port := range []int{0, -1, 70000} {
		cfg := HTTPConfig{Port: port}
		assert.Error(t, cfg.Validate(), "port %d", port)
	}
}

func TestHNConfig_EmptyOrderingDefaultsToRelevance(t *testing.T) {
	cfg := HNConfig{BaseURL: "https://hn.algolia.com/api/v1"}
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "relevance", cfg.Ordering)
}

func TestHNConfig_Invalid(t *testing.T) {
	cases := map[string]HNConfig{
		"missing base url": {Ordering: "date"},
		"bad base url":     {BaseURL: "not a url", Ordering: "date"},
		"bad ordering":     {BaseURL: "https://x.test", Ordering: "popularity"},
		"negative timeout": {BaseURL: "https://x.test", Ordering: "date", Timeout: -time.Second},
	}
	for name, cfg := range cases {
		t.Run(name, func(t *testing.T) {
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestHNConfig_Options(t *testing.T) {
	cfg := HNConfig{BaseURL: "https://x.test", Ordering: "date", Timeout: 3 * time.Second, UserAgent: "ua"}
	opts := cfg.Options()
	assert.Equal(t, "https://x.test", opts.BaseURL)
	assert.EqualValues(t, "date", opts.Ordering)
	assert.Equal(t, 3*time.Second, opts.Timeout)
	assert.Equal(t, "ua", opts.UserAgent)
}

func TestUIConfig_CookieName(t *testing.T) {
	cfg := UIConfig{Title: "t", CookieName: "bad cookie;"}
	assert.Error(t, cfg.Validate())

	cfg.CookieName = "hn_session-1"
	assert.NoError(t, cfg.Validate())
}

func TestFullConfig_NestedValidationCalled(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.UI.Title = ""
	assert.Error(t, cfg.Validate())

	cfg = NewDefaultConfig()
	cfg.HN.Ordering = "random"
	assert.Error(t, cfg.Validate())
}
