package sink

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"

	"github.com/h2g2bob/ippserver/internal/job"
)

// RunSink pipes a job's document data to a command's stdin. When
// UseEnv is set, the job's attributes are exported into the child's
// environment as well (see env.go), matching the original's --env flag.
type RunSink struct {
	Command []string
	UseEnv  bool
}

// Process runs s.Command with j.Data on stdin, honoring ctx's deadline
// (the processor bounds every job at five minutes, matching the
// original's subprocess timeout and SIGKILL-on-timeout behavior).
func (s RunSink) Process(ctx context.Context, j *job.Job) error {
	if len(s.Command) == 0 {
		return fmt.Errorf("sink: run sink has no command configured")
	}
	cmd := exec.CommandContext(ctx, s.Command[0], s.Command[1:]...)
	cmd.Stdin = bytes.NewReader(j.Data)
	if s.UseEnv {
		cmd.Env = append(cmd.Env, jobEnviron(j)...)
	}
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("sink: running command for job %d: %w: %s", j.ID, err, stderr.String())
	}
	return nil
}
