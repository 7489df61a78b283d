package batch

import (
	"sync"
	"time"
)

// RunStatus represents the state of a batch run.
type RunStatus string

const (
	StatusRunning   RunStatus = "running"
	StatusCompleted RunStatus = "completed"
	StatusPartial   RunStatus = "partial"
	StatusFailed    RunStatus = "failed"
)

// Run tracks the state of one batch-directory extraction.
type Run struct {
	mu sync.Mutex

	ID        string    `json:"run_id"`
	InputDir  string    `json:"input_dir"`
	OutputDir string    `json:"output_dir"`
	Status    RunStatus `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Progress Progress `json:"progress"`
}

// Progress tracks per-file outcomes within a run.
type Progress struct {
	Total     int      `json:"total"`
	Succeeded int      `json:"succeeded"`
	Failed    int      `json:"failed"`
	Errors    []string `json:"errors"`
}

func (r *Run) setTotal(n int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Progress.Total = n
	r.UpdatedAt = time.Now()
}

func (r *Run) addSuccess() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Progress.Succeeded++
	r.UpdatedAt = time.Now()
}

func (r *Run) addFailure(err string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Progress.Failed++
	r.Progress.Errors = append(r.Progress.Errors, err)
	r.UpdatedAt = time.Now()
}

func (r *Run) setStatus(status RunStatus) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Status = status
	r.UpdatedAt = time.Now()
}

// RunSnapshot is a read-only, JSON-safe copy of run state.
type RunSnapshot struct {
	ID        string    `json:"run_id"`
	InputDir  string    `json:"input_dir"`
	OutputDir string    `json:"output_dir"`
	Status    RunStatus `json:"status"`
	Progress  Progress  `json:"progress"`
}

// Snapshot returns a JSON-safe copy of the run state.
func (r *Run) Snapshot() RunSnapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	errs := r.Progress.Errors
	if errs == nil {
		errs = []string{}
	}
	return RunSnapshot{
		ID:        r.ID,
		InputDir:  r.InputDir,
		OutputDir: r.OutputDir,
		Status:    r.Status,
		Progress: Progress{
			Total:     r.Progress.Total,
			Succeeded: r.Progress.Succeeded,
			Failed:    r.Progress.Failed,
			Errors:    errs,
		},
	}
}

// RunStore is a thread-safe in-memory run registry with TTL eviction.
type RunStore struct {
	mu   sync.Mutex
	runs map[string]*Run
	ttl  time.Duration
}

func NewRunStore(ttl time.Duration) *RunStore {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &RunStore{
		runs: make(map[string]*Run),
		ttl:  ttl,
	}
}

func (s *RunStore) Put(run *Run) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs[run.ID] = run
}

func (s *RunStore) Get(id string) *Run {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.runs[id]
}

// Cleanup removes expired runs.
func (s *RunStore) Cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	for id, run := range s.runs {
		run.mu.Lock()
		expired := now.Sub(run.UpdatedAt) > s.ttl && run.Status != StatusRunning
		run.mu.Unlock()
		if expired {
			delete(s.runs, id)
		}
	}
}
