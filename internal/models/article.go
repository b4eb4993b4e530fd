package models

import (
	"bytes"
	"encoding/json"
	"net/url"
	"strconv"
	"time"

	"blog_section/internal/content"
)

// Article is a blog entry as served by the dashboard blog API.
type Article struct {
	ID            string          `json:"_id"`
	Title         string          `json:"title"`
	FeaturedImage string          `json:"featuredImage"`
	Content       content.Content `json:"content"`
	CreatedAt     time.Time       `json:"createdAt"`
}

// UnmarshalJSON accepts "id" when "_id" is absent. A createdAt that cannot
// be read as a time leaves CreatedAt zero instead of failing the article.
func (a *Article) UnmarshalJSON(data []byte) error {
	type plain Article
	aux := struct {
		*plain
		AltID     string          `json:"id"`
		CreatedAt json.RawMessage `json:"createdAt"`
	}{plain: (*plain)(a)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if a.ID == "" {
		a.ID = aux.AltID
	}
	a.CreatedAt = ParseTimestamp(aux.CreatedAt)
	return nil
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02",
	time.RFC1123Z,
	time.RFC1123,
}

// ParseTimestamp reads a JSON timestamp in any of the forms the blog API has
// been seen to send: RFC 3339 strings, date-only strings, and epoch
// milliseconds as a number or a numeric string. Times without a zone are UTC.
// Anything else yields the zero time.
func ParseTimestamp(raw json.RawMessage) time.Time {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || string(raw) == "null" {
		return time.Time{}
	}

	if raw[0] != '"' {
		var ms float64
		if err := json.Unmarshal(raw, &ms); err != nil {
			return time.Time{}
		}
		return time.UnixMilli(int64(ms)).UTC()
	}

	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return time.Time{}
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.UnixMilli(ms).UTC()
	}
	return time.Time{}
}

// URL is the detail page route of the article.
func (a Article) URL() string {
	return "/blog/" + url.PathEscape(a.ID)
}

// UniqueByID keeps the first article for every id, preserving order, and
// reports the ids that were seen more than once.
func UniqueByID(articles []Article) ([]Article, []string) {
	seen := make(map[string]bool, len(articles))
	out := make([]Article, 0, len(articles))
	var dups []string
	for _, a := range articles {
		if seen[a.ID] {
			dups = append(dups, a.ID)
			continue
		}
		seen[a.ID] = true
		out = append(out, a)
	}
	return out, dups
}
