package domain

// HistoryDepth bounds the undo stack. Oldest entries are dropped first
// (ring semantics): undo is guaranteed for at least one step whenever a
// prior snapshot exists, but unlimited history is not.
const HistoryDepth = 10

// HistoryEntry is an immutable snapshot captured after every successful
// transition. Undo restores the session from the previous snapshot.
type HistoryEntry struct {
	Transcript  []TranscriptEntry `json:"transcript"`
	CurrentStep Step              `json:"current_step"`
	WorkType    WorkType          `json:"work_type,omitempty"`
	Method      Method            `json:"method,omitempty"`
	Stats       Stats             `json:"stats"`
}

func (h HistoryEntry) clone() HistoryEntry {
	h.Transcript = append([]TranscriptEntry(nil), h.Transcript...)
	return h
}

// Snapshot captures the undoable portion of the current state.
func (s *State) Snapshot() HistoryEntry {
	return HistoryEntry{
		Transcript:  append([]TranscriptEntry(nil), s.Transcript...),
		CurrentStep: s.CurrentStep,
		WorkType:    s.WorkType,
		Method:      s.Method,
		Stats:       s.Stats,
	}
}

// PushHistory appends a post-transition snapshot, dropping the oldest
// entry once HistoryDepth is exceeded.
func (s *State) PushHistory() {
	s.History = append(s.History, s.Snapshot())
	if len(s.History) > HistoryDepth {
		s.History = s.History[len(s.History)-HistoryDepth:]
	}
}

// RestorePrevious pops the most recent snapshot and restores the
// session from the one beneath it. The restored step is authoritative;
// callers must use the state's CurrentStep after a successful restore.
// Returns false when no prior snapshot exists.
func (s *State) RestorePrevious() bool {
	if len(s.History) < 2 {
		return false
	}
	s.History = s.History[:len(s.History)-1]
	prev := s.History[len(s.History)-1]

	s.Transcript = append([]TranscriptEntry(nil), prev.Transcript...)
	s.CurrentStep = prev.CurrentStep
	s.WorkType = prev.WorkType
	s.Method = prev.Method
	s.Stats = prev.Stats
	return true
}
