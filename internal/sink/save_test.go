package sink

import (
	"strings"
	"testing"
	"time"

	"github.com/h2g2bob/ippserver/internal/job"
)

func TestLeafFilenameIncludesParamsAndExtension(t *testing.T) {
	j := &job.Job{
		Name:      "Invoice Batch",
		CreatedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		Attributes: map[string]string{
			"media":            "na_letter_8.5x11in",
			"print-color-mode": "color",
			"copies":           "3",
		},
	}
	name := LeafFilename(j)

	if !strings.HasSuffix(name, ".pdf") {
		t.Errorf("filename %q doesn't end in .pdf", name)
	}
	if !strings.Contains(name, "Invoice_Batch") {
		t.Errorf("filename %q doesn't contain sanitized job name", name)
	}
	if !strings.Contains(name, "na") {
		t.Errorf("filename %q doesn't contain media prefix", name)
	}
	if !strings.Contains(name, "col") {
		t.Errorf("filename %q doesn't contain color-mode prefix", name)
	}
	if !strings.Contains(name, "3x") {
		t.Errorf("filename %q doesn't contain copies suffix", name)
	}
	if !strings.Contains(name, "20260102_030405") {
		t.Errorf("filename %q doesn't contain timestamp", name)
	}
}

func TestLeafFilenameOmitsCopiesSuffixWhenSingleCopy(t *testing.T) {
	j := &job.Job{
		Name:       "doc",
		CreatedAt:  time.Now(),
		Attributes: map[string]string{"copies": "1"},
	}
	name := LeafFilename(j)
	if strings.Contains(name, "1x") {
		t.Errorf("filename %q should not contain a copies suffix for a single copy", name)
	}
}

func TestIsRejectAll(t *testing.T) {
	if !IsRejectAll(RejectSink{}) {
		t.Error("RejectSink should report IsRejectAll = true")
	}
	if IsRejectAll(SaveSink{Dir: "/tmp"}) {
		t.Error("SaveSink should report IsRejectAll = false")
	}
}
