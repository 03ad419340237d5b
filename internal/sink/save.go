// Package sink implements the pluggable JobSink behaviors a print job's
// document data is handed off to once it's fully received: save to
// disk, run a command, do both, reject outright, or forward to a postal
// printing service.
package sink

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/h2g2bob/ippserver/internal/job"
)

// SaveSink writes every job's document data to Dir using a filename
// derived from the job name, its media/color/copies attributes, a
// timestamp, and a short random suffix.
type SaveSink struct {
	Dir string
}

// Process writes j.Data to a file in s.Dir.
func (s SaveSink) Process(ctx context.Context, j *job.Job) error {
	name := LeafFilename(j)
	path := filepath.Join(s.Dir, name)
	if err := os.WriteFile(path, j.Data, 0644); err != nil {
		return fmt.Errorf("sink: saving job %d: %w", j.ID, err)
	}
	return nil
}

// LeafFilename builds the on-disk filename for a job's document,
// following the original's SaveFilePrinter.leaf_filename layout:
// "<job-name>_<params>_<timestamp>_<suffix>.pdf" where params condenses
// media (up to the first underscore), the first three letters of the
// color mode, and an "Nx" copies suffix when copies > 1.
func LeafFilename(j *job.Job) string {
	safeName := sanitizeFilenamePart(j.Name)
	params := leafParams(j)
	timestamp := j.CreatedAt.Format("20060102_150405")
	if j.CreatedAt.IsZero() {
		timestamp = time.Now().Format("20060102_150405")
	}
	suffix := shortUUIDSuffix()

	parts := []string{safeName}
	if params != "" {
		parts = append(parts, params)
	}
	parts = append(parts, timestamp, suffix)
	return strings.Join(parts, "_") + ".pdf"
}

func leafParams(j *job.Job) string {
	var parts []string
	if media, ok := j.Attributes["media"]; ok && media != "" {
		if idx := strings.IndexByte(media, '_'); idx > 0 {
			parts = append(parts, media[:idx])
		} else {
			parts = append(parts, media)
		}
	}
	if mode, ok := j.Attributes["print-color-mode"]; ok && len(mode) >= 3 {
		parts = append(parts, mode[:3])
	}
	if copiesStr, ok := j.Attributes["copies"]; ok {
		if copies, err := strconv.Atoi(copiesStr); err == nil && copies > 1 {
			parts = append(parts, fmt.Sprintf("%dx", copies))
		}
	}
	return strings.Join(parts, "")
}

func sanitizeFilenamePart(s string) string {
	if s == "" {
		return "untitled"
	}
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-':
			b.WriteRune(r)
		case r == ' ':
			b.WriteRune('_')
		default:
			b.WriteRune('_')
		}
	}
	return b.String()
}

func shortUUIDSuffix() string {
	return strings.ReplaceAll(uuid.New().String(), "-", "")[:8]
}
