package events

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tenured-master-chef-607/Reflash-sub001/internal/domain/analysis"
)

// Event types
const (
	TypeAnalysisCompleted = "analysis.completed"
	TypeAnalysisFailed    = "analysis.failed"
)

// Envelope wraps every published event
type Envelope struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Source    string    `json:"source"`
	Timestamp time.Time `json:"timestamp"`
	Version   string    `json:"version"`
}

// EventType reports the envelope type. Producers copy it into a message header.
func (e Envelope) EventType() string { return e.Type }

// AnalysisRunEvent announces a finished agent run. It never carries the analysis text.
type AnalysisRunEvent struct {
	Envelope
	Run *analysis.Run `json:"run"`
}

// NewAnalysisRunEvent builds the event for a run record
func NewAnalysisRunEvent(source string, run *analysis.Run) *AnalysisRunEvent {
	eventType := TypeAnalysisCompleted
	if !run.Success {
		eventType = TypeAnalysisFailed
	}

	sanitized := *run
	sanitized.Error = SanitizeUTF8(run.Error)
	sanitized.CompanyName = SanitizeUTF8(run.CompanyName)

	return &AnalysisRunEvent{
		Envelope: Envelope{
			ID:        uuid.NewString(),
			Type:      eventType,
			Source:    source,
			Timestamp: time.Now().UTC(),
			Version:   "1.0",
		},
		Run: &sanitized,
	}
}

// SanitizeUTF8 drops invalid UTF-8 sequences. Backend error bodies occasionally
// contain raw bytes that JSON consumers reject.
func SanitizeUTF8(s string) string {
	return strings.ToValidUTF8(s, "")
}
