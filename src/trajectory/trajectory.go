// Package trajectory loads the simulation's inference results document and turns its
// per-step history into aligned numeric series ready for charting.
//
// The document is produced by the external simulation and looks like:
//
//	{"history": [{"step": 0, "functional_integrity": 0.8, "recovery_capacity": 1.0, "resilience_potential": 0.72}, ...]}
//
// Only key presence and JSON types are checked; values are trusted as produced.
package trajectory

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/iafilius/TrajectoryPlot/src/logging"
)

// DefaultInputFile is read when no path is given.
const DefaultInputFile = "inference_results.json"

// ErrNotFound reports a missing input document. It is the only failure callers recover from.
var ErrNotFound = errors.New("input file not found")

// History is the ordered list of raw per-step records, in simulation order.
type History []json.RawMessage

// Record is one decoded simulation step.
type Record struct {
	Step                int     `json:"step"`
	FunctionalIntegrity float64 `json:"functional_integrity"`
	RecoveryCapacity    float64 `json:"recovery_capacity"`
	ResiliencePotential float64 `json:"resilience_potential"`
}

// wireRecord accepts integral floats such as 3.0 for step, which the schema treats as integers.
type wireRecord struct {
	Step                float64 `json:"step"`
	FunctionalIntegrity float64 `json:"functional_integrity"`
	RecoveryCapacity    float64 `json:"recovery_capacity"`
	ResiliencePotential float64 `json:"resilience_potential"`
}

type document struct {
	History History `json:"history"`
}

// RecordError describes a history entry missing required keys or carrying wrong types.
type RecordError struct {
	Index    int
	Problems []string
}

func (e *RecordError) Error() string {
	return fmt.Sprintf("history[%d]: %s", e.Index, strings.Join(e.Problems, "; "))
}

// Load reads path and returns the history array unchanged.
// A missing file yields an error wrapping ErrNotFound; every other failure is returned as-is (wrapped).
func Load(path string) (History, error) {
	defer logging.TimeTrack(time.Now(), "load "+path)
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return Parse(b)
}

// Parse decodes a results document already in memory.
func Parse(b []byte) (History, error) {
	if !json.Valid(b) {
		// Unmarshal gives the offset-carrying syntax error.
		var v interface{}
		if err := json.Unmarshal(b, &v); err != nil {
			return nil, fmt.Errorf("parse document: %w", err)
		}
		return nil, errors.New("parse document: invalid JSON")
	}
	problems, err := validate(docSchema, b)
	if err != nil {
		return nil, fmt.Errorf("validate document: %w", err)
	}
	if len(problems) > 0 {
		return nil, fmt.Errorf("invalid document: %s", strings.Join(problems, "; "))
	}
	var doc document
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	logging.Debugf("loaded history with %d records", len(doc.History))
	return doc.History, nil
}

// Decode checks and decodes a single raw record.
func Decode(index int, raw json.RawMessage) (Record, error) {
	problems, err := validate(recSchema, raw)
	if err != nil {
		return Record{}, &RecordError{Index: index, Problems: []string{err.Error()}}
	}
	if len(problems) > 0 {
		return Record{}, &RecordError{Index: index, Problems: problems}
	}
	var w wireRecord
	if err := json.Unmarshal(raw, &w); err != nil {
		return Record{}, &RecordError{Index: index, Problems: []string{err.Error()}}
	}
	return Record{
		Step:                int(w.Step),
		FunctionalIntegrity: w.FunctionalIntegrity,
		RecoveryCapacity:    w.RecoveryCapacity,
		ResiliencePotential: w.ResiliencePotential,
	}, nil
}
