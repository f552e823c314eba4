// SPDX-FileCopyrightText: 2024 Deutsche Telekom AG
//
// SPDX-License-Identifier: Apache-2.0

// Package i18n resolves localized message texts (mail subjects and the
// like) from configured per-language bundles.
package i18n

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// Catalog is an immutable set of message bundles keyed by language.
type Catalog struct {
	fallback language.Tag
	tags     []language.Tag
	matcher  language.Matcher
	builder  *catalog.Builder
	keys     map[language.Tag]map[string]struct{}
}

// New builds a Catalog. bundles maps a BCP 47 language tag to message
// key/text pairs. Texts are taken literally; a % needs no escaping.
func New(defaultLanguage string, bundles map[string]map[string]string) (*Catalog, error) {
	fallback, err := language.Parse(defaultLanguage)
	if err != nil {
		return nil, fmt.Errorf("invalid default language %q: %w", defaultLanguage, err)
	}

	b := catalog.NewBuilder(catalog.Fallback(fallback))

	langs := make([]string, 0, len(bundles))
	for l := range bundles {
		langs = append(langs, l)
	}
	sort.Strings(langs)

	// fallback first so the matcher prefers it on low confidence
	tags := []language.Tag{fallback}
	keys := make(map[language.Tag]map[string]struct{}, len(langs))
	for _, l := range langs {
		tag, err := language.Parse(l)
		if err != nil {
			return nil, fmt.Errorf("invalid bundle language %q: %w", l, err)
		}
		if keys[tag] == nil {
			keys[tag] = make(map[string]struct{}, len(bundles[l]))
		}
		for key, text := range bundles[l] {
			if err := b.SetString(tag, key, escapePercent(text)); err != nil {
				return nil, fmt.Errorf("bundle %s key %q: %w", l, key, err)
			}
			keys[tag][key] = struct{}{}
		}
		if tag != fallback {
			tags = append(tags, tag)
		}
	}

	return &Catalog{
		fallback: fallback,
		tags:     tags,
		matcher:  language.NewMatcher(tags),
		builder:  b,
		keys:     keys,
	}, nil
}

// Message returns the text for key in the language best matching locale.
// A key missing in that language is looked up in the default language;
// keys unknown to both resolve to fallback verbatim. A blank locale selects the
// default language; a malformed one is an error.
func (c *Catalog) Message(locale, key, fallback string) (string, error) {
	tag := c.fallback
	if strings.TrimSpace(locale) != "" {
		requested, err := language.Parse(locale)
		if err != nil {
			return "", fmt.Errorf("invalid locale %q: %w", locale, err)
		}
		_, idx, conf := c.matcher.Match(requested)
		if conf != language.No {
			tag = c.tags[idx]
		}
	}
	if key == "" {
		return fallback, nil
	}
	if !c.has(tag, key) {
		if !c.has(c.fallback, key) {
			return fallback, nil
		}
		tag = c.fallback
	}
	p := message.NewPrinter(tag, message.Catalog(c.builder))
	return p.Sprintf(message.Key(key, escapePercent(fallback))), nil
}

func (c *Catalog) has(tag language.Tag, key string) bool {
	_, ok := c.keys[tag][key]
	return ok
}

// escapePercent keeps a text literal when it is used as a printf pattern.
func escapePercent(s string) string {
	return strings.ReplaceAll(s, "%", "%%")
}
