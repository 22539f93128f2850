// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package site

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func load(t *testing.T) *Content {
	t.Helper()
	c, err := Load()
	require.NoError(t, err)
	return c
}

func TestLoad_AllPagesPresent(t *testing.T) {
	c := load(t)
	slugs := c.Slugs()
	sort.Strings(slugs)
	assert.Equal(t, []string{"about-us", "attorneys", "client-industries", "home", "our-expertise", "our-firm", "privacy-policy"}, slugs)
}

func TestPage_Languages(t *testing.T) {
	c := load(t)

	tests := []struct {
		name     string
		slug     string
		lang     string
		wantLang string
		wantHas  string
	}{
		{"indonesian default", "home", "", LangID, "Wiratama & Rekan"},
		{"english", "home", "en", LangEN, "Wiratama & Partners"},
		{"region tag", "about-us", "en-US", LangEN, "About Us"},
		{"unknown language falls back", "our-firm", "fr", LangID, "Kantor Kami"},
		{"missing translation falls back", "privacy-policy", "en", LangID, "Kebijakan Privasi"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := c.Page(tt.slug, tt.lang)
			require.NoError(t, err)
			assert.Equal(t, tt.wantLang, p.Lang)
			assert.Equal(t, tt.wantHas, p.Title)
			assert.Equal(t, tt.slug, p.Slug)
		})
	}

	_, err := c.Page("careers", "id")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAttorneys(t *testing.T) {
	c := load(t)

	page, err := c.Page("attorneys", "en")
	require.NoError(t, err)
	require.Len(t, page.Attorneys, 3)

	a, err := c.Attorney("maya-lestari", "en")
	require.NoError(t, err)
	assert.Equal(t, LangEN, a.Lang)
	assert.Equal(t, []string{"Litigation", "Arbitration"}, a.PracticeAreas)

	// Only Indonesian text exists for this attorney
	r, err := c.Attorney("rizky-pratama", "en")
	require.NoError(t, err)
	assert.Equal(t, LangID, r.Lang)
	assert.Equal(t, "Associate", r.Position)

	_, err = c.Attorney("nobody", "id")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestNormalizeLang(t *testing.T) {
	assert.Equal(t, LangEN, NormalizeLang(" EN "))
	assert.Equal(t, LangEN, NormalizeLang("en_GB"))
	assert.Equal(t, LangID, NormalizeLang("id-ID"))
	assert.Equal(t, LangID, NormalizeLang(""))
	assert.Equal(t, LangID, NormalizeLang("de"))
}
