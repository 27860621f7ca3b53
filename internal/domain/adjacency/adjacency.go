// Package adjacency holds per-context tag adjacency tables and the relatedness check built on them.
package adjacency

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/kailas-cloud/supportqa/internal/domain"
	"github.com/kailas-cloud/supportqa/internal/domain/searchctx"
)

// Table maps each context to its tags and their directly related tags. Immutable after construction.
type Table struct {
	contexts        map[searchctx.Context]map[string][]string
	defaultFallback bool
}

// Option configures a Table.
type Option func(*Table)

// WithDefaultFallback makes contexts without a table use the default context's table.
func WithDefaultFallback() Option {
	return func(t *Table) { t.defaultFallback = true }
}

// New builds a Table from raw data. Keys and values are normalized and the input is copied.
// The other_contexts entry, if any, is rejected: that context never consults a table.
func New(data map[searchctx.Context]map[string][]string, opts ...Option) (*Table, error) {
	t := &Table{contexts: make(map[searchctx.Context]map[string][]string, len(data))}
	for ctx, tags := range data {
		if !ctx.IsValid() {
			return nil, fmt.Errorf("adjacency: unknown context %q: %w", ctx, domain.ErrValidation)
		}
		if ctx == searchctx.Other {
			return nil, fmt.Errorf("adjacency: %s cannot have a table: %w", ctx, domain.ErrValidation)
		}
		m := make(map[string][]string, len(tags))
		for key, related := range tags {
			k := normalize(key)
			if k == "" {
				return nil, fmt.Errorf("adjacency: empty tag key in %s: %w", ctx, domain.ErrValidation)
			}
			for _, r := range related {
				if n := normalize(r); n != "" {
					m[k] = append(m[k], n)
				}
			}
		}
		t.contexts[ctx] = m
	}
	for _, opt := range opts {
		opt(t)
	}
	return t, nil
}

// LoadFile reads a YAML override of the form `context: {tag: [related, ...]}`.
func LoadFile(path string, opts ...Option) (*Table, error) {
	data, err := os.ReadFile(path) //nolint:gosec // operator-supplied path
	if err != nil {
		return nil, fmt.Errorf("read adjacency file: %w", err)
	}
	var raw map[string]map[string][]string
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse adjacency file: %w", err)
	}
	typed := make(map[searchctx.Context]map[string][]string, len(raw))
	for name, tags := range raw {
		ctx, err := searchctx.Parse(name)
		if err != nil {
			return nil, fmt.Errorf("adjacency file: %w: %w", err, domain.ErrValidation)
		}
		typed[ctx] = tags
	}
	return New(typed, opts...)
}

// AreRelated reports whether two tags are topically related within ctx.
// Equal tags are always related. Otherwise the context table is checked
// directly in both directions, then for a shared key (one hop only).
func (t *Table) AreRelated(a, b string, ctx searchctx.Context) bool {
	a, b = normalize(a), normalize(b)
	if a == b {
		return a != ""
	}
	if ctx == searchctx.Other {
		return false
	}
	table := t.lookup(ctx)
	if table == nil {
		return false
	}
	if contains(table[a], b) || contains(table[b], a) {
		return true
	}
	for _, related := range table {
		if contains(related, a) && contains(related, b) {
			return true
		}
	}
	return false
}

// Contexts returns the contexts that have a table, sorted.
func (t *Table) Contexts() []searchctx.Context {
	out := make([]searchctx.Context, 0, len(t.contexts))
	for ctx := range t.contexts {
		out = append(out, ctx)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Related returns a copy of the tags listed under tag in the ctx table.
func (t *Table) Related(ctx searchctx.Context, tag string) []string {
	table := t.lookup(ctx)
	if table == nil {
		return nil
	}
	related := table[normalize(tag)]
	if related == nil {
		return nil
	}
	out := make([]string, len(related))
	copy(out, related)
	return out
}

func (t *Table) lookup(ctx searchctx.Context) map[string][]string {
	if table, ok := t.contexts[ctx]; ok {
		return table
	}
	if t.defaultFallback && ctx != searchctx.Other {
		return t.contexts[searchctx.Default]
	}
	return nil
}

func normalize(tag string) string {
	return strings.ToLower(strings.TrimSpace(tag))
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
