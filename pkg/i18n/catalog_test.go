// SPDX-FileCopyrightText: 2024 Deutsche Telekom AG
//
// SPDX-License-Identifier: Apache-2.0

package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCatalog(t *testing.T) *Catalog {
	t.Helper()
	c, err := New("en", map[string]map[string]string{
		"en": {
			"auth.mfa.subject":  "Your one-time code",
			"auth.ciba.subject": "Confirm sign-in",
		},
		"de": {
			"auth.mfa.subject": "Ihr Einmalcode",
		},
	})
	require.NoError(t, err)
	return c
}

func TestCatalog_Message(t *testing.T) {
	c := newTestCatalog(t)

	tests := []struct {
		name     string
		locale   string
		key      string
		fallback string
		want     string
	}{
		{name: "default language", key: "auth.mfa.subject", want: "Your one-time code"},
		{name: "exact locale", locale: "de", key: "auth.mfa.subject", want: "Ihr Einmalcode"},
		{name: "regional locale matches base", locale: "de-CH", key: "auth.mfa.subject", want: "Ihr Einmalcode"},
		{name: "missing in locale falls back to default language", locale: "de", key: "auth.ciba.subject", want: "Confirm sign-in"},
		{name: "unsupported locale uses default", locale: "ja", key: "auth.mfa.subject", want: "Your one-time code"},
		{name: "unknown key returns fallback", key: "Plain subject", fallback: "Plain subject", want: "Plain subject"},
		{name: "fallback percent kept literally", key: "100% done", fallback: "100% done", want: "100% done"},
		{name: "empty key", key: "", fallback: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := c.Message(tt.locale, tt.key, tt.fallback)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCatalog_PercentInBundleText(t *testing.T) {
	c, err := New("en", map[string]map[string]string{
		"en": {
			"promo.subject": "50% off",
			"done.subject":  "100%",
		},
		"de": {
			"promo.subject": "50 % Rabatt",
		},
	})
	require.NoError(t, err)

	got, err := c.Message("", "promo.subject", "")
	require.NoError(t, err)
	assert.Equal(t, "50% off", got)

	got, err = c.Message("en", "done.subject", "")
	require.NoError(t, err)
	assert.Equal(t, "100%", got)

	got, err = c.Message("de", "promo.subject", "")
	require.NoError(t, err)
	assert.Equal(t, "50 % Rabatt", got)

	// de has no done.subject, so the en text is used
	got, err = c.Message("de", "done.subject", "")
	require.NoError(t, err)
	assert.Equal(t, "100%", got)
}

func TestCatalog_InvalidLocale(t *testing.T) {
	c := newTestCatalog(t)
	_, err := c.Message("not a locale!", "auth.mfa.subject", "x")
	assert.Error(t, err)
}

func TestNew_InvalidLanguages(t *testing.T) {
	_, err := New("??", nil)
	assert.Error(t, err)

	_, err = New("en", map[string]map[string]string{"!!": {"k": "v"}})
	assert.Error(t, err)
}
