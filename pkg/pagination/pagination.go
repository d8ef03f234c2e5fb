// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package pagination parses page/limit query parameters and builds the
// metadata block of list responses.
package pagination

import (
	"net/http"
	"net/url"
	"strconv"
)

const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// Params is a 1-based page request.
type Params struct {
	Page  int
	Limit int
}

// Offset is the number of rows to skip for p.
func (p Params) Offset() int {
	return max(p.Page-1, 0) * p.Limit
}

// Meta describes where a page sits in the full result set.
type Meta struct {
	Page       int  `json:"page"`
	Limit      int  `json:"limit"`
	Total      int  `json:"total"`
	TotalPages int  `json:"total_pages"`
	HasNext    bool `json:"has_next"`
}

// NewMeta derives the page count of total rows split into pages of limit.
func NewMeta(page, limit, total int) Meta {
	meta := Meta{Page: page, Limit: limit, Total: total}
	if limit > 0 {
		meta.TotalPages = (total + limit - 1) / limit
	}
	meta.HasNext = page < meta.TotalPages
	return meta
}

// FromRequest reads ?page= and ?limit=. Unparseable or non-positive values
// fall back to page 1 and [DefaultLimit]; limits above [MaxLimit] are capped.
func FromRequest(r *http.Request) Params {
	query := r.URL.Query()
	return Params{
		Page:  positive(query, "page", 1),
		Limit: min(positive(query, "limit", DefaultLimit), MaxLimit),
	}
}

func positive(query url.Values, key string, fallback int) int {
	n, err := strconv.Atoi(query.Get(key))
	if err != nil || n < 1 {
		return fallback
	}
	return n
}
