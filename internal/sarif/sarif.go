// Package sarif holds the subset of SARIF 2.1.0 that docscore emits.
package sarif

import (
	"encoding/json"
	"io"
)

const (
	Version = "2.1.0"
	Schema  = "https://json.schemastore.org/sarif-2.1.0.json"
)

// Levels a result can carry.
const (
	LevelError   = "error"
	LevelWarning = "warning"
	LevelNote    = "note"
)

// Log is the top-level SARIF document.
type Log struct {
	Version string `json:"version"`
	Schema  string `json:"$schema,omitempty"`
	Runs    []Run  `json:"runs"`
}

// Run is one invocation of the tool.
type Run struct {
	Tool        Tool         `json:"tool"`
	Invocations []Invocation `json:"invocations,omitempty"`
	Results     []Result     `json:"results"`
}

type Tool struct {
	Driver Driver `json:"driver"`
}

type Driver struct {
	Name           string                `json:"name"`
	Version        string                `json:"version,omitempty"`
	InformationURI string                `json:"informationUri,omitempty"`
	Rules          []ReportingDescriptor `json:"rules,omitempty"`
}

// ReportingDescriptor describes one rule id.
type ReportingDescriptor struct {
	ID                   string         `json:"id"`
	ShortDescription     *Message       `json:"shortDescription,omitempty"`
	DefaultConfiguration *Configuration `json:"defaultConfiguration,omitempty"`
	Properties           map[string]any `json:"properties,omitempty"`
}

type Configuration struct {
	Level string `json:"level"`
}

// Invocation records whether the run succeeded.
type Invocation struct {
	ExecutionSuccessful bool           `json:"executionSuccessful"`
	ToolExecutionNotifs []Notification `json:"toolExecutionNotifications,omitempty"`
	Properties          map[string]any `json:"properties,omitempty"`
}

// Notification reports a problem running the tool, such as an unreadable file.
type Notification struct {
	Level     string     `json:"level"`
	Message   Message    `json:"message"`
	Locations []Location `json:"locations,omitempty"`
}

// Result is a single finding.
type Result struct {
	RuleID     string         `json:"ruleId"`
	Level      string         `json:"level,omitempty"`
	Message    Message        `json:"message"`
	Locations  []Location     `json:"locations,omitempty"`
	Properties map[string]any `json:"properties,omitempty"`
}

type Message struct {
	Text string `json:"text"`
}

type Location struct {
	PhysicalLocation PhysicalLocation `json:"physicalLocation"`
}

type PhysicalLocation struct {
	ArtifactLocation ArtifactLocation `json:"artifactLocation"`
	Region           *Region          `json:"region,omitempty"`
}

type ArtifactLocation struct {
	URI string `json:"uri"`
}

type Region struct {
	StartLine int `json:"startLine,omitempty"`
}

// NewLog returns an empty log with the version and schema set.
func NewLog() *Log {
	return &Log{Version: Version, Schema: Schema, Runs: []Run{}}
}

// FileLocation builds a location for path, with a region when line is known.
func FileLocation(path string, line int) Location {
	loc := Location{PhysicalLocation: PhysicalLocation{ArtifactLocation: ArtifactLocation{URI: path}}}
	if line > 0 {
		loc.PhysicalLocation.Region = &Region{StartLine: line}
	}
	return loc
}

// Encoder writes indented SARIF logs.
type Encoder struct {
	enc *json.Encoder
}

func NewEncoder(w io.Writer) *Encoder {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return &Encoder{enc: enc}
}

func (e *Encoder) Encode(log *Log) error {
	return e.enc.Encode(log)
}
