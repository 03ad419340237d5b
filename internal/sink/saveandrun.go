package sink

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/h2g2bob/ippserver/internal/job"
)

// SaveAndRunSink writes the document to disk like SaveSink, then runs a
// command with the saved file's path as its final argument. The command
// runs through RunSink, so the document is also piped to its stdin.
type SaveAndRunSink struct {
	Dir     string
	Command []string
	UseEnv  bool
}

func (s SaveAndRunSink) Process(ctx context.Context, j *job.Job) error {
	name := LeafFilename(j)
	path := filepath.Join(s.Dir, name)
	if err := os.WriteFile(path, j.Data, 0644); err != nil {
		return fmt.Errorf("sink: saving job %d: %w", j.ID, err)
	}

	run := RunSink{Command: append(append([]string(nil), s.Command...), path), UseEnv: s.UseEnv}
	if err := run.Process(ctx, j); err != nil {
		return fmt.Errorf("sink: saveandrun for job %d: %w", j.ID, err)
	}
	return nil
}
