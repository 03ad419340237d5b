package job

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

type recordingSink struct {
	mu   sync.Mutex
	seen [][]byte
	err  error
}

func (s *recordingSink) Process(ctx context.Context, j *Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seen = append(s.seen, j.Data)
	return s.err
}

func waitForTerminal(t *testing.T, j *Job) State {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if s := j.Snapshot().State; IsTerminal(s) {
			return s
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("job %d never reached a terminal state", j.ID)
	return 0
}

func TestProcessorCompletesJobThroughSink(t *testing.T) {
	sink := &recordingSink{}
	p := NewProcessor(sink, 1, 4, zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go p.Start(ctx)

	m := NewManager()
	j := m.Create("doc", "u", "application/pdf", nil, []byte("%PDF-1.4"))
	p.Submit(j)

	if got := waitForTerminal(t, j); got != StateCompleted {
		t.Errorf("state = %v, want completed", got)
	}
	if snap := j.Snapshot(); snap.CompletedAt.IsZero() {
		t.Error("CompletedAt not stamped on completion")
	}
}

func TestProcessorAbortsJobOnSinkError(t *testing.T) {
	sink := &recordingSink{err: fmt.Errorf("disk full")}
	p := NewProcessor(sink, 1, 4, zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go p.Start(ctx)

	m := NewManager()
	j := m.Create("doc", "u", "application/pdf", nil, []byte("%PDF-1.4"))
	p.Submit(j)

	if got := waitForTerminal(t, j); got != StateAborted {
		t.Errorf("state = %v, want aborted", got)
	}
}

func TestProcessorRunsConverterBeforeSink(t *testing.T) {
	sink := &recordingSink{}
	p := NewProcessor(sink, 1, 4, zerolog.Nop())
	p.SetConverter(func(data []byte, mimeType string) ([]byte, error) {
		return append([]byte("converted:"), data...), nil
	})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go p.Start(ctx)

	m := NewManager()
	j := m.Create("doc", "u", "application/postscript", nil, []byte("%!PS"))
	p.Submit(j)

	waitForTerminal(t, j)
	sink.mu.Lock()
	defer sink.mu.Unlock()
	if len(sink.seen) != 1 || string(sink.seen[0]) != "converted:%!PS" {
		t.Errorf("sink saw %q, want the converter's output", sink.seen)
	}
}

func TestProcessorAbortsJobOnConversionFailure(t *testing.T) {
	sink := &recordingSink{}
	p := NewProcessor(sink, 1, 4, zerolog.Nop())
	p.SetConverter(func(data []byte, mimeType string) ([]byte, error) {
		return nil, fmt.Errorf("no converter for %s", mimeType)
	})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go p.Start(ctx)

	m := NewManager()
	j := m.Create("doc", "u", "application/x-unknown", nil, []byte("???"))
	p.Submit(j)

	if got := waitForTerminal(t, j); got != StateAborted {
		t.Errorf("state = %v, want aborted", got)
	}
	sink.mu.Lock()
	defer sink.mu.Unlock()
	if len(sink.seen) != 0 {
		t.Error("sink should not run when conversion fails")
	}
}

func TestProcessorSkipsJobCanceledWhileQueued(t *testing.T) {
	sink := &recordingSink{}
	p := NewProcessor(sink, 1, 4, zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	m := NewManager()
	j := m.Create("doc", "u", "application/pdf", nil, []byte("%PDF-1.4"))
	j.SetState(StateCanceled, "canceled by client")
	p.Submit(j)
	go p.Start(ctx)

	time.Sleep(50 * time.Millisecond)
	sink.mu.Lock()
	defer sink.mu.Unlock()
	if len(sink.seen) != 0 {
		t.Error("sink should not see a job canceled before processing started")
	}
	if got := j.Snapshot().State; got != StateCanceled {
		t.Errorf("state = %v, want canceled preserved", got)
	}
}
