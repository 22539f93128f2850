// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package site

import (
	"embed"
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed content/*.yaml
var contentFS embed.FS

// Supported languages
const (
	LangID = "id"
	LangEN = "en"

	DefaultLang = LangID
)

var ErrNotFound = errors.New("content not found")

type Section struct {
	Heading string   `yaml:"heading" json:"heading,omitempty"`
	Body    string   `yaml:"body" json:"body,omitempty"`
	Items   []string `yaml:"items" json:"items,omitempty"`
}

type pageText struct {
	Title    string    `yaml:"title"`
	Summary  string    `yaml:"summary"`
	Sections []Section `yaml:"sections"`
}

type attorneyText struct {
	Position      string   `yaml:"position"`
	Bio           string   `yaml:"bio"`
	PracticeAreas []string `yaml:"practice_areas"`
	Education     []string `yaml:"education"`
}

type attorneyEntry struct {
	Slug  string                  `yaml:"slug"`
	Name  string                  `yaml:"name"`
	Email string                  `yaml:"email"`
	Image string                  `yaml:"image"`
	Text  map[string]attorneyText `yaml:",inline"`
}

// Page is one marketing page in one language.
type Page struct {
	Slug      string     `json:"slug"`
	Lang      string     `json:"lang"`
	Title     string     `json:"title"`
	Summary   string     `json:"summary,omitempty"`
	Sections  []Section  `json:"sections,omitempty"`
	Attorneys []Attorney `json:"attorneys,omitempty"`
}

// Attorney is one attorney profile in one language.
type Attorney struct {
	Slug          string   `json:"slug"`
	Lang          string   `json:"lang"`
	Name          string   `json:"name"`
	Email         string   `json:"email,omitempty"`
	ImageURL      string   `json:"image_url,omitempty"`
	Position      string   `json:"position"`
	Bio           string   `json:"bio,omitempty"`
	PracticeAreas []string `json:"practice_areas,omitempty"`
	Education     []string `json:"education,omitempty"`
}

// Content is the parsed site content. It is read-only after Load.
type Content struct {
	pages     map[string]map[string]pageText
	attorneys []attorneyEntry
}

// Load parses the embedded content.
func Load() (*Content, error) {
	c := &Content{}

	raw, err := contentFS.ReadFile("content/pages.yaml")
	if err != nil {
		return nil, fmt.Errorf("failed to read pages: %w", err)
	}
	if err := yaml.Unmarshal(raw, &c.pages); err != nil {
		return nil, fmt.Errorf("failed to parse pages: %w", err)
	}

	raw, err = contentFS.ReadFile("content/attorneys.yaml")
	if err != nil {
		return nil, fmt.Errorf("failed to read attorneys: %w", err)
	}
	if err := yaml.Unmarshal(raw, &c.attorneys); err != nil {
		return nil, fmt.Errorf("failed to parse attorneys: %w", err)
	}

	for slug, langs := range c.pages {
		if _, ok := langs[DefaultLang]; !ok {
			return nil, fmt.Errorf("page %s has no %q content", slug, DefaultLang)
		}
	}
	for _, a := range c.attorneys {
		if _, ok := a.Text[DefaultLang]; !ok {
			return nil, fmt.Errorf("attorney %s has no %q content", a.Slug, DefaultLang)
		}
	}
	return c, nil
}

// NormalizeLang maps a requested language to a supported one.
func NormalizeLang(lang string) string {
	lang = strings.ToLower(strings.TrimSpace(lang))
	if i := strings.IndexAny(lang, "-_"); i > 0 {
		lang = lang[:i]
	}
	if lang == LangEN {
		return LangEN
	}
	return DefaultLang
}

// resolve picks lang when present, else the default language.
func resolve[T any](texts map[string]T, lang string) (T, string) {
	if t, ok := texts[lang]; ok {
		return t, lang
	}
	return texts[DefaultLang], DefaultLang
}

// Page returns a page in lang, falling back to Indonesian.
func (c *Content) Page(slug, lang string) (Page, error) {
	langs, ok := c.pages[slug]
	if !ok {
		return Page{}, fmt.Errorf("%w: page %s", ErrNotFound, slug)
	}
	text, used := resolve(langs, NormalizeLang(lang))

	p := Page{Slug: slug, Lang: used, Title: text.Title, Summary: text.Summary, Sections: text.Sections}
	if slug == "attorneys" {
		p.Attorneys = c.Attorneys(lang)
	}
	return p, nil
}

// Attorneys lists every attorney in lang.
func (c *Content) Attorneys(lang string) []Attorney {
	out := make([]Attorney, 0, len(c.attorneys))
	for _, a := range c.attorneys {
		out = append(out, a.localize(lang))
	}
	return out
}

// Attorney returns one attorney in lang, falling back to Indonesian.
func (c *Content) Attorney(slug, lang string) (Attorney, error) {
	for _, a := range c.attorneys {
		if a.Slug == slug {
			return a.localize(lang), nil
		}
	}
	return Attorney{}, fmt.Errorf("%w: attorney %s", ErrNotFound, slug)
}

// Slugs lists the page slugs.
func (c *Content) Slugs() []string {
	out := make([]string, 0, len(c.pages))
	for s := range c.pages {
		out = append(out, s)
	}
	return out
}

func (a attorneyEntry) localize(lang string) Attorney {
	text, used := resolve(a.Text, NormalizeLang(lang))
	return Attorney{
		Slug:          a.Slug,
		Lang:          used,
		Name:          a.Name,
		Email:         a.Email,
		ImageURL:      a.Image,
		Position:      text.Position,
		Bio:           text.Bio,
		PracticeAreas: text.PracticeAreas,
		Education:     text.Education,
	}
}
