// Package job owns the in-memory job table: job state, the RFC 2911
// transition-validity rules, and a bounded worker pool that hands
// completed jobs off to a pluggable sink.
package job

import (
	"fmt"
	"sort"
	"sync"
	"time"
)

// State is the job-state enum (RFC 8011 §4.3.7).
type State int32

const (
	StatePending           State = 3
	StatePendingHeld       State = 4
	StateProcessing        State = 5
	StateProcessingStopped State = 6
	StateCanceled          State = 7
	StateAborted           State = 8
	StateCompleted         State = 9
)

func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StatePendingHeld:
		return "pending-held"
	case StateProcessing:
		return "processing"
	case StateProcessingStopped:
		return "processing-stopped"
	case StateCanceled:
		return "canceled"
	case StateAborted:
		return "aborted"
	case StateCompleted:
		return "completed"
	default:
		return "unknown"
	}
}

// validTransitions is the transition-validity table ported verbatim
// from the original's job state machine. Terminal states have no
// outgoing transitions.
var validTransitions = map[State][]State{
	StatePending:           {StatePendingHeld, StateProcessing, StateCanceled},
	StatePendingHeld:       {StatePending, StateProcessing, StateCanceled},
	StateProcessing:        {StateProcessingStopped, StateCompleted, StateCanceled, StateAborted},
	StateProcessingStopped: {StateProcessing, StateCanceled, StateAborted},
	StateCanceled:          {},
	StateAborted:           {},
	StateCompleted:         {},
}

// CanTransition reports whether from->to is a valid job-state transition.
func CanTransition(from, to State) bool {
	for _, s := range validTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// IsTerminal reports whether a state has no valid outgoing transitions.
func IsTerminal(s State) bool {
	return len(validTransitions[s]) == 0
}

// Reasons returns the job-state-reasons keyword list for a state:
// active jobs report job-incoming, canceled jobs report
// job-canceled-by-user, aborted jobs report job-aborted-by-system, and
// completed jobs report none.
func (s State) Reasons() []string {
	switch s {
	case StateCanceled:
		return []string{"job-canceled-by-user"}
	case StateAborted:
		return []string{"job-aborted-by-system"}
	case StateCompleted:
		return []string{"none"}
	default:
		return []string{"job-incoming"}
	}
}

// Job is one print job: its attributes, current state, and data.
type Job struct {
	ID            int32
	Name          string
	Originator    string
	State         State
	StateMessage  string
	Attributes    map[string]string
	Data          []byte
	DocumentFormat string
	CreatedAt     time.Time
	ProcessingAt  time.Time
	CompletedAt   time.Time

	mu sync.Mutex
}

// SetState transitions the job to a new state if the transition is
// valid, stamping ProcessingAt/CompletedAt as appropriate. Returns
// false (no-op) for an invalid transition rather than erroring, since
// callers generally want to log-and-ignore rather than crash a
// dispatcher goroutine over a stray late transition.
func (j *Job) SetState(to State, message string) bool {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.State == to {
		return true
	}
	if !CanTransition(j.State, to) {
		return false
	}
	j.State = to
	j.StateMessage = message
	switch to {
	case StateProcessing:
		j.ProcessingAt = time.Now()
	case StateCompleted, StateCanceled, StateAborted:
		j.CompletedAt = time.Now()
	}
	return true
}

// ReplaceData swaps the job's document bytes, used by the processor
// once the converter has produced the PDF rendition.
func (j *Job) ReplaceData(data []byte) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Data = data
}

// Snapshot is a point-in-time copy of a job's fields, safe to read
// without further locking.
type Snapshot struct {
	ID             int32
	Name           string
	Originator     string
	State          State
	StateMessage   string
	Attributes     map[string]string
	Data           []byte
	DocumentFormat string
	CreatedAt      time.Time
	ProcessingAt   time.Time
	CompletedAt    time.Time
}

// Snapshot returns a copy of the job's current state fields, safe to
// read without holding the job's own lock afterward.
func (j *Job) Snapshot() Snapshot {
	j.mu.Lock()
	defer j.mu.Unlock()
	return Snapshot{
		ID:             j.ID,
		Name:           j.Name,
		Originator:     j.Originator,
		State:          j.State,
		StateMessage:   j.StateMessage,
		Attributes:     j.Attributes,
		Data:           j.Data,
		DocumentFormat: j.DocumentFormat,
		CreatedAt:      j.CreatedAt,
		ProcessingAt:   j.ProcessingAt,
		CompletedAt:    j.CompletedAt,
	}
}

// Manager owns the job table: creation, lookup, listing, and purging.
// All methods are safe for concurrent use.
type Manager struct {
	mu     sync.RWMutex
	jobs   map[int32]*Job
	nextID int32
}

// NewManager creates an empty job table, jobs numbered starting at 1.
func NewManager() *Manager {
	return &Manager{jobs: make(map[int32]*Job), nextID: 1}
}

// Create allocates a new job in StatePending and adds it to the table.
// An empty name defaults to "Job <id>".
func (m *Manager) Create(name, originator, documentFormat string, attrs map[string]string, data []byte) *Job {
	m.mu.Lock()
	defer m.mu.Unlock()

	if name == "" {
		name = fmt.Sprintf("Job %d", m.nextID)
	}
	j := &Job{
		ID:             m.nextID,
		Name:           name,
		Originator:     originator,
		State:          StatePending,
		Attributes:     attrs,
		Data:           data,
		DocumentFormat: documentFormat,
		CreatedAt:      time.Now(),
	}
	m.jobs[j.ID] = j
	m.nextID++
	return j
}

// Get looks up a job by id.
func (m *Manager) Get(id int32) (*Job, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	j, ok := m.jobs[id]
	return j, ok
}

// List returns every job, newest (highest id) first — an explicitly
// preserved quirk of the original server's Get-Jobs response.
func (m *Manager) List() []*Job {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*Job, 0, len(m.jobs))
	for _, j := range m.jobs {
		out = append(out, j)
	}
	sort.Slice(out, func(i, k int) bool { return out[i].ID > out[k].ID })
	return out
}

// QueueStatus summarizes queue depth for the printer attribute table.
type QueueStatus struct {
	PendingOrProcessing int
	QueuedJobCount      int
}

// Status computes the current queue status across all jobs.
func (m *Manager) Status() QueueStatus {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var q QueueStatus
	for _, j := range m.jobs {
		s := j.Snapshot().State
		if s == StatePending || s == StatePendingHeld || s == StateProcessing || s == StateProcessingStopped {
			q.PendingOrProcessing++
		}
		if s == StatePending || s == StatePendingHeld {
			q.QueuedJobCount++
		}
	}
	return q
}

// PurgeJobs removes every job in a terminal state (completed, canceled,
// aborted) from the table, leaving active jobs untouched — the original
// server's Purge-Jobs deliberately does not cancel in-flight jobs.
func (m *Manager) PurgeJobs() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	purged := 0
	for id, j := range m.jobs {
		if IsTerminal(j.Snapshot().State) {
			delete(m.jobs, id)
			purged++
		}
	}
	return purged
}
