package domain

import "time"

// SessionStatus is the lifecycle state of a treatment session.
type SessionStatus string

const (
	StatusActive    SessionStatus = "active"
	StatusCompleted SessionStatus = "completed"
)

// Speaker identifies who produced a transcript entry.
type Speaker string

const (
	SpeakerUser   Speaker = "user"
	SpeakerSystem Speaker = "system"
)

// TranscriptEntry is one utterance in the conversation. The transcript
// is append-only during normal play and truncated only by undo.
type TranscriptEntry struct {
	Speaker   Speaker   `json:"speaker"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// Stats holds the running response counters for a session.
type Stats struct {
	ScriptedCount  int   `json:"scripted_count"`
	AICount        int   `json:"ai_count"`
	LastResponseMs int64 `json:"last_response_ms"`
}

// AIUsagePercent reports the share of turns answered by the generative
// adapter. Operators watch this against the 5% target; exceeding it is
// an observability signal, not an error.
func (s Stats) AIUsagePercent() float64 {
	total := s.ScriptedCount + s.AICount
	if total == 0 {
		return 0
	}
	return float64(s.AICount) / float64(total) * 100
}

// State is the full snapshot of one treatment conversation.
type State struct {
	SessionID string `json:"session_id"`
	UserID    string `json:"user_id"`

	// FirstName is used for template substitution in scripted replies.
	// Optional; templates degrade gracefully when empty.
	FirstName string `json:"first_name,omitempty"`

	CurrentStep Step     `json:"current_step"`
	WorkType    WorkType `json:"work_type,omitempty"`
	Method      Method   `json:"method,omitempty"`

	Transcript []TranscriptEntry `json:"transcript"`
	Stats      Stats             `json:"stats"`
	Status     SessionStatus     `json:"status"`

	// History is the bounded undo stack, oldest first. See history.go.
	History []HistoryEntry `json:"history"`

	// Sealed carries the encrypted transcript/history envelope when
	// the encryption store middleware is active. Empty otherwise.
	Sealed string `json:"sealed,omitempty"`

	// Revision increments on every committed mutation. The session
	// manager uses it to detect writes that raced an in-flight turn,
	// so the per-session lock does not need to be held across the AI
	// round-trip.
	Revision int64 `json:"revision"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewState creates a fresh active session positioned at the entry step.
func NewState(sessionID, userID string) *State {
	return &State{
		SessionID:   sessionID,
		UserID:      userID,
		CurrentStep: StepMindShiftingExplanation,
		Status:      StatusActive,
	}
}

// Clone returns a deep copy, so a turn can mutate freely without the
// caller's snapshot observing partial updates.
func (s *State) Clone() *State {
	if s == nil {
		return nil
	}
	next := *s
	next.Transcript = append([]TranscriptEntry(nil), s.Transcript...)
	next.History = make([]HistoryEntry, len(s.History))
	for i, h := range s.History {
		next.History[i] = h.clone()
	}
	return &next
}

// AppendUser adds a user utterance to the transcript.
func (s *State) AppendUser(text string, at time.Time) {
	s.Transcript = append(s.Transcript, TranscriptEntry{Speaker: SpeakerUser, Text: text, Timestamp: at})
}

// AppendSystem adds an engine reply to the transcript.
func (s *State) AppendSystem(text string, at time.Time) {
	s.Transcript = append(s.Transcript, TranscriptEntry{Speaker: SpeakerSystem, Text: text, Timestamp: at})
}
