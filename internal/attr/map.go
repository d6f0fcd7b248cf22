package attr

// Map is an attribute map: string key to tagged scalar value. Bracket
// access (attributes['k']) is Map.Get; a missing key reports ok=false,
// which the SQL evaluator treats as NULL.
type Map map[string]Value

// Get implements bracket access. A missing key returns (Null, false).
func (m Map) Get(key string) (Value, bool) {
	if m == nil {
		return Null, false
	}
	v, ok := m[key]
	return v, ok
}
