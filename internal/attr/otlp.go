package attr

import (
	commonpb "go.opentelemetry.io/proto/otlp/common/v1"
)

// FromOTLPAnyValue converts a decoded OTLP AnyValue into a tagged Value,
// preserving its type instead of the teacher's string-only flattening —
// the SQL evaluator needs typed comparisons (attributes['retry'] = true).
func FromOTLPAnyValue(v *commonpb.AnyValue) Value {
	if v == nil {
		return Null
	}
	switch val := v.Value.(type) {
	case *commonpb.AnyValue_StringValue:
		return String(val.StringValue)
	case *commonpb.AnyValue_IntValue:
		return Int64(val.IntValue)
	case *commonpb.AnyValue_DoubleValue:
		return Float64(val.DoubleValue)
	case *commonpb.AnyValue_BoolValue:
		return Bool(val.BoolValue)
	case *commonpb.AnyValue_ArrayValue:
		return arrayFromOTLP(val.ArrayValue)
	case *commonpb.AnyValue_KvlistValue:
		// Flatten nested kv-lists to their string rendering; the data
		// model has no nested-map column type.
		return String(MapFromOTLPKeyValues(val.KvlistValue.GetValues()).String())
	case *commonpb.AnyValue_BytesValue:
		return String(string(val.BytesValue))
	default:
		return Null
	}
}

func arrayFromOTLP(arr *commonpb.ArrayValue) Value {
	if arr == nil {
		return Array(nil)
	}
	vs := make([]Value, len(arr.Values))
	for i, e := range arr.Values {
		vs[i] = FromOTLPAnyValue(e)
	}
	return Array(vs)
}

// MapFromOTLPKeyValues converts a decoded OTLP attribute list into a Map.
func MapFromOTLPKeyValues(kvs []*commonpb.KeyValue) Map {
	m := make(Map, len(kvs))
	for _, kv := range kvs {
		m[kv.GetKey()] = FromOTLPAnyValue(kv.GetValue())
	}
	return m
}

// String renders a Map for diagnostic/body-fallback purposes.
func (m Map) String() string {
	s := "{"
	first := true
	for k, v := range m {
		if !first {
			s += ","
		}
		first = false
		s += k + ":" + v.String()
	}
	return s + "}"
}

// ServiceName extracts the service.name resource attribute, defaulting to
// "unknown" per the teacher's extractServiceName.
func (m Map) ServiceName() string {
	if v, ok := m.Get("service.name"); ok {
		if s, ok := v.AsString(); ok {
			return s
		}
	}
	return "unknown"
}
