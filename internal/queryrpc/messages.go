package queryrpc

import "github.com/otelscope/otelscope/internal/sqlengine"

// QueryRequest carries a one-shot SQL statement.
type QueryRequest struct {
	SQL string
}

// QueryResponse mirrors sqlengine.Result over the wire.
type QueryResponse struct {
	Table   string
	Columns []string
	Rows    [][]interface{}
}

// FollowRequest starts a streaming query.
type FollowRequest struct {
	SQL  string
	Mode string // "new_spans_only" (default) or "full_group"
}

// FollowFrame is one frame of a Follow stream.
type FollowFrame struct {
	Kind  string // "snapshot" or "delta"
	Table string
	Columns []string
	Rows    [][]interface{}
}

// ClearRequest names the table kinds to clear; empty clears all three.
type ClearRequest struct {
	Tables []string
}

// ClearResponse reports how many rows of each table were cleared.
type ClearResponse struct {
	Counts map[string]int
}

// SchemaResponse describes every table's columns and types.
type SchemaResponse struct {
	Tables map[string][]ColumnInfo
}

// ColumnInfo names one column's declared SQL type.
type ColumnInfo struct {
	Name string
	Type string
}

func resultToResponse(r *sqlengine.Result) *QueryResponse {
	resp := &QueryResponse{Table: r.Table, Columns: r.Columns}
	resp.Rows = make([][]interface{}, len(r.Rows))
	for i, row := range r.Rows {
		resp.Rows[i] = make([]interface{}, len(row))
		for j, v := range row {
			resp.Rows[i][j] = v.Native()
		}
	}
	return resp
}
