package api

import (
	"fmt"
	"time"
)

// EventType names a telemetry record kind.
type EventType string

const (
	LiveCodeEvent EventType = "livecode"
	UnitTestEvent EventType = "unittest"
)

// Event is a scored telemetry record emitted after every run.
type Event struct {
	Event EventType `json:"event"`
	Act   string    `json:"act"`
	DivID string    `json:"div_id"`

	RunID    string `json:"run_id"`
	Language string `json:"language"`
	Status   string `json:"status"`

	Correct *bool    `json:"correct,omitempty"`
	Percent *float64 `json:"percent,omitempty"`
	Passed  *int     `json:"passed,omitempty"`
	Failed  *int     `json:"failed,omitempty"`

	Timestamp string `json:"timestamp"`
}

// NewRunEvent builds the record for a run without a score.
func NewRunEvent(divID, runID, language, status, act string) Event {
	return Event{
		Event:     LiveCodeEvent,
		Act:       act,
		DivID:     divID,
		RunID:     runID,
		Language:  language,
		Status:    status,
		Timestamp: time.Now().Format(time.RFC3339),
	}
}

// NewScoredEvent builds the record for a run that produced a test score.
func NewScoredEvent(divID, runID, language, status string, percent float64, passed, failed int) Event {
	correct := failed == 0 && passed > 0
	ev := NewRunEvent(divID, runID, language, status,
		fmt.Sprintf("percent:%.1f:passed:%d:failed:%d", percent, passed, failed))
	ev.Event = UnitTestEvent
	ev.Correct = &correct
	ev.Percent = &percent
	ev.Passed = &passed
	ev.Failed = &failed
	return ev
}
