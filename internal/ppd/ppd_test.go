package ppd

import (
	"strings"
	"testing"

	"github.com/h2g2bob/ippserver/internal/printer"
)

func TestGenerateIncludesModelAndMedia(t *testing.T) {
	p := &printer.Printer{
		Name: "Office Printer", Manufacturer: "Acme", Model: "Acme 9000",
		ColorSupported: true, DuplexSupported: true,
	}
	text := string(Generate(p))

	if !strings.Contains(text, "*PPD-Adobe") {
		t.Error("missing PPD header")
	}
	if !strings.Contains(text, "Acme 9000") {
		t.Error("missing model name")
	}
	if !strings.Contains(text, "na_letter_8.5x11in") {
		t.Error("missing na_letter_8.5x11in page size")
	}
	if !strings.Contains(text, "DuplexNoTumble") {
		t.Error("expected duplex options for a duplex-capable printer")
	}
}

func TestGenerateOmitsDuplexOptionsWhenUnsupported(t *testing.T) {
	p := &printer.Printer{Name: "Simple", Manufacturer: "Acme", Model: "Lite", DuplexSupported: false}
	text := string(Generate(p))
	if strings.Contains(text, "DuplexNoTumble") {
		t.Error("did not expect duplex options for a simplex-only printer")
	}
}
