package sarif

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("write failure") }

func TestNewLog(t *testing.T) {
	log := NewLog()
	if log.Version != Version || log.Schema != Schema {
		t.Fatalf("unexpected header: %+v", log)
	}
	if log.Runs == nil || len(log.Runs) != 0 {
		t.Fatalf("runs should be an empty slice, got %v", log.Runs)
	}
}

func TestFileLocation(t *testing.T) {
	if loc := FileLocation("a.py", 0); loc.PhysicalLocation.Region != nil {
		t.Error("line 0 must not produce a region")
	}
	loc := FileLocation("a.py", 10)
	if loc.PhysicalLocation.Region == nil || loc.PhysicalLocation.Region.StartLine != 10 {
		t.Errorf("region = %+v", loc.PhysicalLocation.Region)
	}
}

func TestEncode(t *testing.T) {
	log := NewLog()
	log.Runs = append(log.Runs, Run{
		Tool: Tool{Driver: Driver{Name: "docscore"}},
		Results: []Result{{
			RuleID:    "python/missing_import",
			Level:     LevelError,
			Message:   Message{Text: "Wildcard import at line 10"},
			Locations: []Location{FileLocation("analysis.py", 10)},
		}},
	})

	var buf bytes.Buffer
	if err := NewEncoder(&buf).Encode(log); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.Contains(out, "\n  \"version\"") {
		t.Errorf("expected indented output, got %s", out)
	}
	var decoded map[string]any
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatal(err)
	}
	if decoded["$schema"] != Schema {
		t.Errorf("schema = %v", decoded["$schema"])
	}
	if !strings.Contains(out, `"startLine": 10`) {
		t.Errorf("missing region in %s", out)
	}
}

func TestEncodeWriterError(t *testing.T) {
	if err := NewEncoder(failingWriter{}).Encode(NewLog()); err == nil {
		t.Error("expected write error")
	}
}
