package job

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// Sink is what a job processor hands a job's document data to once it's
// fully received: save to disk, pipe to a command, forward to a postal
// service, or simply discard it. Implementations live in internal/sink.
type Sink interface {
	Process(ctx context.Context, j *Job) error
}

// subprocessDeadline bounds how long a single job may occupy a worker,
// matching the 300-second timeout the original's run/saveandrun sinks
// enforce on their child processes.
const subprocessDeadline = 5 * time.Minute

// Converter turns a job's document bytes into PDF bytes before they
// reach the sink. Implemented by internal/convert; nil means the
// document is passed through unchanged.
type Converter func(data []byte, mimeType string) ([]byte, error)

// Processor drains a bounded queue of jobs through a fixed-size worker
// pool, replacing one-goroutine-per-job with backpressure: a print
// burst queues up instead of spawning unboundedly.
type Processor struct {
	sink    Sink
	convert Converter
	queue   chan *Job
	log     zerolog.Logger
	workers int
}

// NewProcessor creates a processor with the given number of concurrent
// workers and queue depth. Call Start to begin consuming jobs, and
// cancel the context passed to Start to shut the workers down.
func NewProcessor(sink Sink, workers, queueDepth int, log zerolog.Logger) *Processor {
	if workers < 1 {
		workers = 1
	}
	if queueDepth < 1 {
		queueDepth = 1
	}
	return &Processor{
		sink:    sink,
		queue:   make(chan *Job, queueDepth),
		log:     log.With().Str("component", "job-processor").Logger(),
		workers: workers,
	}
}

// SetConverter installs the document converter jobs pass through before
// reaching the sink. Must be called before Start.
func (p *Processor) SetConverter(c Converter) {
	p.convert = c
}

// Start launches the worker pool; once ctx is canceled it closes the
// queue, and it returns after the workers have run every job still in
// the queue.
func (p *Processor) Start(ctx context.Context) {
	done := make(chan struct{})
	for i := 0; i < p.workers; i++ {
		go p.worker(ctx, done)
	}
	go func() {
		<-ctx.Done()
		close(p.queue)
	}()
	for i := 0; i < p.workers; i++ {
		<-done
	}
}

func (p *Processor) worker(ctx context.Context, done chan<- struct{}) {
	defer func() { done <- struct{}{} }()
	for j := range p.queue {
		p.run(ctx, j)
	}
}

// run processes one job, enforcing the per-job subprocess deadline and
// recording the terminal state (completed or aborted) regardless of
// whether the sink succeeds.
func (p *Processor) run(ctx context.Context, j *Job) {
	jobCtx, cancel := context.WithTimeout(ctx, subprocessDeadline)
	defer cancel()

	if IsTerminal(j.Snapshot().State) {
		// Canceled while still queued; nothing to hand the sink.
		return
	}
	j.SetState(StateProcessing, "processing")
	p.log.Info().Int32("job_id", j.ID).Str("name", j.Name).Msg("processing job")

	if p.convert != nil {
		snap := j.Snapshot()
		pdf, err := p.convert(snap.Data, snap.DocumentFormat)
		if err != nil {
			p.log.Error().Int32("job_id", j.ID).Str("format", j.DocumentFormat).Err(err).Msg("document conversion failed")
			j.SetState(StateAborted, err.Error())
			return
		}
		j.ReplaceData(pdf)
	}

	if err := p.sink.Process(jobCtx, j); err != nil {
		p.log.Error().Int32("job_id", j.ID).Err(err).Msg("job failed")
		j.SetState(StateAborted, err.Error())
		return
	}

	j.SetState(StateCompleted, "completed")
	p.log.Info().Int32("job_id", j.ID).Msg("job completed")
}

// Submit enqueues a job for processing. It blocks if the queue is full,
// providing the backpressure a client sees as a slow Print-Job response
// rather than an unbounded goroutine spawn.
func (p *Processor) Submit(j *Job) {
	p.queue <- j
}

// Sink returns the sink jobs are processed through, so a dispatcher can
// special-case behavior for a particular sink (e.g. the reject-all
// sink's non-standard Get-Job-Attributes response) without this
// package needing to know about any concrete sink type.
func (p *Processor) Sink() Sink {
	return p.sink
}
