package otlp

import (
	"strings"
	"testing"
)

func TestConvertLogs(t *testing.T) {
	payload := `{
		"resourceLogs": [{
			"resource": {
				"attributes": [
					{"key": "service.name", "value": {"stringValue": "billing-api"}}
				]
			},
			"scopeLogs": [{
				"scope": {"name": "billing", "version": "1.0.0"},
				"logRecords": [
					{
						"timeUnixNano": "1703500000000000000",
						"severityNumber": 9,
						"severityText": "INFO",
						"body": {"stringValue": "invoice generated"},
						"attributes": [
							{"key": "invoice.id", "value": {"stringValue": "inv-42"}}
						]
					},
					{
						"timeUnixNano": "1703500001000000000",
						"severityNumber": 17,
						"body": {"intValue": 500}
					}
				]
			}]
		}]
	}`

	decoder, err := GetDecoder("application/json")
	if err != nil {
		t.Fatalf("failed to get decoder: %v", err)
	}
	req, err := decoder.DecodeLogs(strings.NewReader(payload))
	if err != nil {
		t.Fatalf("failed to decode logs: %v", err)
	}

	logs := ConvertLogs(req)
	if len(logs) != 2 {
		t.Fatalf("expected 2 log records, got %d", len(logs))
	}

	first := logs[0]
	if first.ServiceName != "billing-api" {
		t.Errorf("ServiceName = %q, want %q", first.ServiceName, "billing-api")
	}
	if first.SeverityText != "INFO" {
		t.Errorf("SeverityText = %q, want %q", first.SeverityText, "INFO")
	}
	if first.Body != "invoice generated" {
		t.Errorf("Body = %q, want %q", first.Body, "invoice generated")
	}
	if v, ok := first.LogAttributes.Get("invoice.id"); !ok || v.String() != "inv-42" {
		t.Errorf("LogAttributes[invoice.id] = %v, want %q", v, "inv-42")
	}

	second := logs[1]
	if second.SeverityText != "ERROR" {
		t.Errorf("expected empty SeverityText to derive %q from severity number, got %q", "ERROR", second.SeverityText)
	}
	if second.Body != "500" {
		t.Errorf("Body = %q, want %q", second.Body, "500")
	}
}

func TestConvertLogs_EventNameFallsBackToBody(t *testing.T) {
	payload := `{
		"resourceLogs": [{
			"resource": {"attributes": [{"key": "service.name", "value": {"stringValue": "bridge"}}]},
			"scopeLogs": [{
				"scope": {"name": "bridge"},
				"logRecords": [
					{
						"timeUnixNano": "1703500000000000000",
						"severityNumber": 9,
						"attributes": [
							{"key": "event.name", "value": {"stringValue": "request.started"}}
						]
					}
				]
			}]
		}]
	}`

	decoder, _ := GetDecoder("application/json")
	req, err := decoder.DecodeLogs(strings.NewReader(payload))
	if err != nil {
		t.Fatalf("failed to decode logs: %v", err)
	}

	logs := ConvertLogs(req)
	if len(logs) != 1 {
		t.Fatalf("expected 1 log record, got %d", len(logs))
	}
	if logs[0].Body != "request.started" {
		t.Errorf("Body = %q, want event.name fallback %q", logs[0].Body, "request.started")
	}
}

func TestConvertLogs_TimestampFallsBackToObserved(t *testing.T) {
	payload := `{
		"resourceLogs": [{
			"resource": {"attributes": []},
			"scopeLogs": [{
				"scope": {"name": "s"},
				"logRecords": [
					{
						"observedTimeUnixNano": "1703500000000000000",
						"severityNumber": 9,
						"body": {"stringValue": "no own timestamp"}
					}
				]
			}]
		}]
	}`

	decoder, _ := GetDecoder("application/json")
	req, err := decoder.DecodeLogs(strings.NewReader(payload))
	if err != nil {
		t.Fatalf("failed to decode logs: %v", err)
	}

	logs := ConvertLogs(req)
	if len(logs) != 1 {
		t.Fatalf("expected 1 log record, got %d", len(logs))
	}
	if logs[0].TimestampNS != 1703500000000000000 {
		t.Errorf("TimestampNS = %d, want observed timestamp fallback %d", logs[0].TimestampNS, 1703500000000000000)
	}
}

func TestConvertLogs_EmptyRequest(t *testing.T) {
	logs := ConvertLogs(nil)
	if len(logs) != 0 {
		t.Errorf("expected 0 log records for a nil request, got %d", len(logs))
	}
}
