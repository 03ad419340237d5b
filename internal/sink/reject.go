package sink

import (
	"context"
	"fmt"

	"github.com/h2g2bob/ippserver/internal/job"
)

// RejectSink accepts nothing: every job it's handed immediately aborts.
// Paired with the dispatcher's IsRejectAll check in
// handleGetJobAttributes, its Get-Job-Attributes response always
// answers server-error-job-canceled even for jobs that do exist in the
// table — a deliberately preserved non-standard quirk of the original's
// RejectAllPrinter (see DESIGN.md Open Questions).
type RejectSink struct{}

func (RejectSink) Process(ctx context.Context, j *job.Job) error {
	return fmt.Errorf("sink: this printer rejects all jobs")
}

// IsRejectAll reports whether sink behaves like RejectSink, the hook the
// dispatcher uses to apply the Get-Job-Attributes override without
// internal/dispatch needing to import internal/sink's concrete types.
func IsRejectAll(s job.Sink) bool {
	_, ok := s.(RejectSink)
	return ok
}
