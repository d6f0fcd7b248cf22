package sqlengine

// ColumnType drives the coercion rules of §4.2: how a literal compares
// against a column's stored representation.
type ColumnType int

const (
	TypeString ColumnType = iota
	TypeHex               // trace_id, span_id, parent_span_id
	TypeTime               // start_time, end_time, timestamp
	TypeSeverity            // severity
	TypeInt
	TypeFloat
	TypeResource   // resource['k']
	TypeAttributes // attributes['k']
)

// String names a column type for schema introspection (the CLI's
// `query --schema` flag and the queryrpc Schema RPC).
func (t ColumnType) String() string {
	switch t {
	case TypeHex:
		return "hex"
	case TypeTime:
		return "time"
	case TypeSeverity:
		return "severity"
	case TypeInt:
		return "int"
	case TypeFloat:
		return "float"
	case TypeResource:
		return "resource"
	case TypeAttributes:
		return "attributes"
	default:
		return "string"
	}
}

// TableSchema describes one virtual table's column set, in declaration
// order (used for SELECT * projection order).
type TableSchema struct {
	Name    string
	Columns []ColumnDef
}

// ColumnDef is one column's name and coercion type.
type ColumnDef struct {
	Name string
	Type ColumnType
}

// Tables holds the three virtual tables' column sets verbatim from §4.2's
// table.
var Tables = map[string]TableSchema{
	"traces": {
		Name: "traces",
		Columns: []ColumnDef{
			{"trace_id", TypeHex},
			{"span_id", TypeHex},
			{"parent_span_id", TypeHex},
			{"service_name", TypeString},
			{"span_name", TypeString},
			{"kind", TypeString},
			{"status_code", TypeString},
			{"start_time", TypeTime},
			{"end_time", TypeTime},
			{"duration_ns", TypeInt},
			{"resource", TypeResource},
			{"attributes", TypeAttributes},
		},
	},
	"logs": {
		Name: "logs",
		Columns: []ColumnDef{
			{"timestamp", TypeTime},
			{"severity", TypeSeverity},
			{"severity_number", TypeInt},
			{"body", TypeString},
			{"service_name", TypeString},
			{"resource", TypeResource},
			{"attributes", TypeAttributes},
		},
	},
	"metrics": {
		Name: "metrics",
		Columns: []ColumnDef{
			{"timestamp", TypeTime},
			{"metric_name", TypeString},
			{"type", TypeString},
			{"value", TypeFloat},
			{"count", TypeInt},
			{"sum", TypeFloat},
			{"service_name", TypeString},
			{"resource", TypeResource},
			{"attributes", TypeAttributes},
		},
	},
}

// ColumnDefByName looks up a column within a table schema.
func (t TableSchema) ColumnDefByName(name string) (ColumnDef, bool) {
	for _, c := range t.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return ColumnDef{}, false
}

// Names returns the column names in declaration order, used by SELECT *.
func (t TableSchema) Names() []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	return names
}
