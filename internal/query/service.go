// Package query implements the transport-agnostic Query & Follow Service
// (§4.4): the one core both internal/queryrpc and the CLI's one-shot
// `otelscope query` subcommand drive.
package query

import (
	"context"

	"github.com/otelscope/otelscope/internal/sqlengine"
	"github.com/otelscope/otelscope/internal/store"
)

// defaultFollowBufferSize is how many pending frames a Follow subscription
// buffers before it is disconnected as lagged (§6, §7 "Backpressure").
const defaultFollowBufferSize = 64

// Service binds internal/sqlengine's stateless evaluator to one store.
type Service struct {
	store           *store.Store
	followBufferSize int
}

// NewService wraps a store for querying, using the default Follow buffer size.
func NewService(s *store.Store) *Service {
	return NewServiceWithFollowBuffer(s, defaultFollowBufferSize)
}

// NewServiceWithFollowBuffer wraps a store for querying, sizing every
// Follow subscription's backlog at bufSize frames.
func NewServiceWithFollowBuffer(s *store.Store, bufSize int) *Service {
	if bufSize <= 0 {
		bufSize = defaultFollowBufferSize
	}
	return &Service{store: s, followBufferSize: bufSize}
}

// Query parses sql, pins a consistent snapshot of the target table, and
// evaluates it (§4.2, §4.4). A parse or validation error never touches the
// store.
func (svc *Service) Query(ctx context.Context, sql string) (*sqlengine.Result, error) {
	return sqlengine.Execute(ctx, svc.store, sql)
}

// Counts reports how many entries Clear removed, per kind.
type Counts map[store.Kind]int

// Clear drops every entry for the given kinds, leaving the others
// untouched (§4.1, Testable Property 7).
func (svc *Service) Clear(_ context.Context, kinds []store.Kind) (Counts, error) {
	removed := svc.store.Clear(kinds)
	return Counts(removed), nil
}

// Schema returns the static column descriptors for every table, used by
// the `otelscope query --schema` CLI path and the Schema RPC.
func (svc *Service) Schema() map[string]sqlengine.TableSchema {
	return sqlengine.Tables
}
