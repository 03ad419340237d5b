package printer

import (
	"time"

	"github.com/h2g2bob/ippserver/internal/ipp"
)

// QueueStatus is the subset of job-manager state the printer attribute
// table needs to derive printer-state and printer-state-reasons,
// avoiding an import cycle between internal/job and internal/printer.
type QueueStatus struct {
	PendingOrProcessing int
	QueuedJobCount      int
}

// State derives printer-state from queue status and the paused flag,
// matching the original's printer_list_attributes(): stopped when
// paused, processing when any job is active, idle otherwise.
func (p *Printer) State(q QueueStatus) State {
	if p.Paused {
		return StateStopped
	}
	if q.PendingOrProcessing > 0 {
		return StateProcessing
	}
	return StateIdle
}

// StateReasons derives printer-state-reasons from the same inputs.
func (p *Printer) StateReasons(q QueueStatus) []StateReason {
	if p.Paused {
		return []StateReason{ReasonPaused}
	}
	return []StateReason{ReasonNone}
}

// MinimalAttributes writes the small attribute set sent alongside
// the Print-Job response's job attributes, mirroring
// minimal_attributes() in the original.
func MinimalAttributes(g *ipp.AttributeGroup, p *Printer, q QueueStatus) {
	g.Add("printer-uri-supported", ipp.URI(p.URI))
	g.Add("printer-state", ipp.Enum(p.State(q)))
	reasons := p.StateReasons(q)
	values := make([]ipp.Value, len(reasons))
	for i, r := range reasons {
		values[i] = ipp.Keyword(r)
	}
	g.AddMulti("printer-state-reasons", values...)
}

// Attributes writes the full Get-Printer-Attributes response table,
// mirroring printer_list_attributes() in the original: identity,
// capability, job-template-default, and state attributes in one group.
func Attributes(g *ipp.AttributeGroup, p *Printer, q QueueStatus) {
	g.Add("printer-uri-supported", ipp.URI(p.URI))
	g.Add("uri-security-supported", ipp.Keyword("tls"))
	g.Add("uri-authentication-supported", ipp.Keyword("none"))
	g.Add("printer-name", ipp.NameWithoutLang(p.Name))
	g.Add("printer-info", ipp.TextWithoutLang(p.Description))
	g.Add("printer-location", ipp.TextWithoutLang(p.Location))
	g.Add("printer-make-and-model", ipp.TextWithoutLang(p.MakeAndModel()))
	g.Add("printer-more-info", ipp.URI(p.URI))
	g.Add("printer-uuid", ipp.URI("urn:uuid:"+p.UUID))

	g.Add("printer-state", ipp.Enum(p.State(q)))
	reasons := p.StateReasons(q)
	reasonValues := make([]ipp.Value, len(reasons))
	for i, r := range reasons {
		reasonValues[i] = ipp.Keyword(r)
	}
	g.AddMulti("printer-state-reasons", reasonValues...)
	g.Add("printer-is-accepting-jobs", ipp.Boolean(!p.Paused))
	g.Add("printer-up-time", ipp.Integer(int32(time.Since(p.StartedAt).Seconds())))
	g.Add("queued-job-count", ipp.Integer(int32(q.QueuedJobCount)))
	g.Add("pdl-override-supported", ipp.Keyword("not-attempted"))

	g.Add("charset-configured", ipp.Charset("utf-8"))
	g.AddMulti("charset-supported", ipp.Charset("utf-8"), ipp.Charset("us-ascii"), ipp.Charset("iso-8859-1"))
	g.Add("natural-language-configured", ipp.NaturalLanguage("en"))
	g.AddMulti("natural-language-supported", ipp.NaturalLanguage("en"))
	g.AddMulti("generated-natural-language-supported", ipp.NaturalLanguage("en"))
	g.Add("document-format-default", ipp.MimeMediaType("application/pdf"))
	formatValues := make([]ipp.Value, len(DocumentFormatsSupported))
	for i, f := range DocumentFormatsSupported {
		formatValues[i] = ipp.MimeMediaType(f)
	}
	g.AddMulti("document-format-supported", formatValues...)
	g.Add("compression-supported-default", ipp.Keyword("none"))
	g.AddMulti("compression-supported", ipp.Keyword("none"), ipp.Keyword("gzip"), ipp.Keyword("deflate"), ipp.Keyword("compress"))

	g.AddMulti("operations-supported", supportedOperationsValues()...)
	g.Add("multiple-document-jobs-supported", ipp.Boolean(false))
	g.Add("multiple-operation-time-out", ipp.Integer(300))
	g.Add("printer-settable-attributes-supported", ipp.Keyword("none"))

	g.AddMulti("ipp-versions-supported", ipp.Keyword("1.1"), ipp.Keyword("2.0"), ipp.Keyword("2.1"), ipp.Keyword("2.2"))
	g.AddMulti("ipp-features-supported", ipp.Keyword("subscription-object"))

	g.Add("color-supported", ipp.Boolean(p.ColorSupported))
	g.Add("sides-default", sidesDefault(p))
	g.AddMulti("sides-supported", sidesSupported(p)...)

	g.Add("media-default", ipp.Keyword(MediaDefault))
	mediaValues := make([]ipp.Value, len(MediaSupported))
	for i, m := range MediaSupported {
		mediaValues[i] = ipp.Keyword(m)
	}
	g.AddMulti("media-supported", mediaValues...)

	g.Add("printer-resolution-default", ResolutionDefault)
	resValues := make([]ipp.Value, len(ResolutionsSupported))
	for i, r := range ResolutionsSupported {
		resValues[i] = r
	}
	g.AddMulti("printer-resolution-supported", resValues...)

	g.Add("print-quality-default", ipp.Enum(4)) // normal
	g.AddMulti("print-quality-supported", ipp.Enum(3), ipp.Enum(4), ipp.Enum(5)) // draft/normal/high

	g.Add("copies-default", ipp.Integer(1))
	g.Add("copies-supported", ipp.RangeOfInteger{Lower: 1, Upper: 999})

	g.Add("job-priority-default", ipp.Integer(50))
	g.Add("job-priority-supported", ipp.Integer(100))
	g.Add("job-sheets-default", ipp.Keyword("none"))
	g.AddMulti("job-sheets-supported", ipp.Keyword("none"))

	g.Add("print-color-mode-default", ipp.Keyword(colorModeDefault(p)))
	g.AddMulti("print-color-mode-supported", colorModeSupported(p)...)
	g.AddMulti("color-model-supported", ipp.Keyword("rgb"), ipp.Keyword("gray"))
	g.Add("color-depth-supported", ipp.RangeOfInteger{Lower: 8, Upper: 48})
	g.Add("color-depth-default", ipp.Integer(24))
	colorResValues := make([]ipp.Value, len(PhotoResolutionsSupported))
	for i, r := range PhotoResolutionsSupported {
		colorResValues[i] = r
	}
	g.AddMulti("color-resolution-supported", colorResValues...)

	g.Add("orientation-requested-default", ipp.Enum(3))
	g.AddMulti("orientation-requested-supported", ipp.Enum(3), ipp.Enum(4), ipp.Enum(5), ipp.Enum(6))
	g.Add("number-up-default", ipp.Integer(1))
	g.AddMulti("number-up-supported",
		ipp.Integer(1), ipp.Integer(2), ipp.Integer(4), ipp.Integer(6), ipp.Integer(9), ipp.Integer(16))
	g.Add("finishings-default", ipp.Enum(3))
	g.AddMulti("finishings-supported", ipp.Enum(3), ipp.Enum(4), ipp.Enum(5)) // none/staple/punch

	g.Add("photographic-printing-supported", ipp.Boolean(true))
	photoMediaValues := make([]ipp.Value, len(PhotoMediaSupported))
	for i, m := range PhotoMediaSupported {
		photoMediaValues[i] = ipp.Keyword(m)
	}
	g.AddMulti("photographic-media-supported", photoMediaValues...)
	photoResValues := make([]ipp.Value, len(PhotoResolutionsSupported))
	for i, r := range PhotoResolutionsSupported {
		photoResValues[i] = r
	}
	g.AddMulti("photographic-resolution-supported", photoResValues...)
	g.Add("photographic-resolution-default", PhotoResolutionDefault)
	g.Add("photo-optimized-default", ipp.Boolean(true))
}

func sidesDefault(p *Printer) ipp.Value {
	if p.DuplexSupported {
		return ipp.Keyword("two-sided-long-edge")
	}
	return ipp.Keyword("one-sided")
}

func sidesSupported(p *Printer) []ipp.Value {
	if p.DuplexSupported {
		return []ipp.Value{ipp.Keyword("one-sided"), ipp.Keyword("two-sided-long-edge"), ipp.Keyword("two-sided-short-edge")}
	}
	return []ipp.Value{ipp.Keyword("one-sided")}
}

func colorModeDefault(p *Printer) string {
	if p.ColorSupported {
		return "auto"
	}
	return "monochrome"
}

func colorModeSupported(p *Printer) []ipp.Value {
	if p.ColorSupported {
		return []ipp.Value{
			ipp.Keyword("auto"), ipp.Keyword("color"), ipp.Keyword("monochrome"), ipp.Keyword("photo-color"),
		}
	}
	return []ipp.Value{ipp.Keyword("monochrome")}
}

func supportedOperationsValues() []ipp.Value {
	ops := []ipp.Operation{
		ipp.OpPrintJob, ipp.OpValidateJob, ipp.OpCancelJob,
		ipp.OpGetJobAttributes, ipp.OpGetJobs, ipp.OpGetPrinterAttributes,
		ipp.OpPausePrinter, ipp.OpResumePrinter, ipp.OpPurgeJobs,
		ipp.OpCupsGetDefault, ipp.OpCupsListAllPrinters,
	}
	values := make([]ipp.Value, len(ops))
	for i, op := range ops {
		values[i] = ipp.Enum(op)
	}
	return values
}

// CupsDefaultURI renders the CUPS-Get-Default response URI attribute.
func CupsDefaultURI(p *Printer) string {
	return p.URI
}
