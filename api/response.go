package api

import (
	"encoding/json"
	"fmt"
)

// Outcome is Jobe's classification of how a run finished.
type Outcome int

const (
	OutcomeCompileError   Outcome = 11
	OutcomeRuntimeError   Outcome = 12
	OutcomeTimeLimit      Outcome = 13
	OutcomeSuccess        Outcome = 15
	OutcomeMemoryLimit    Outcome = 17
	OutcomeIllegalSyscall Outcome = 19
	OutcomeInternalError  Outcome = 20
	OutcomeServerOverload Outcome = 21
)

// RunResult is the JSON body Jobe answers a run with.
type RunResult struct {
	RunID   *string `json:"run_id,omitempty"`
	Outcome Outcome `json:"outcome"`
	CmpInfo string  `json:"cmpinfo"`
	Stdout  string  `json:"stdout"`
	Stderr  string  `json:"stderr"`
}

// Language is one entry of the Jobe languages resource, sent as a
// [id, version] pair.
type Language struct {
	ID      string
	Version string
}

func (l *Language) UnmarshalJSON(b []byte) error {
	var pair []string
	if err := json.Unmarshal(b, &pair); err != nil {
		return err
	}
	if len(pair) != 2 {
		return fmt.Errorf("language entry must have 2 elements, got %d", len(pair))
	}
	l.ID, l.Version = pair[0], pair[1]
	return nil
}
