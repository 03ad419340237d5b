package dispatch

import (
	"archive/zip"
	"bytes"
	"compress/flate"
	"compress/gzip"
	"compress/zlib"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/h2g2bob/ippserver/internal/ipp"
	"github.com/h2g2bob/ippserver/internal/job"
	"github.com/h2g2bob/ippserver/internal/printer"
)

// imageMonochromeKeywords is the set of print-color-mode keywords
// Windows' image print path sends to mean "don't color-correct this",
// every one of which this server overrides to color for image
// documents (spec §4.5 step 5).
var imageMonochromeKeywords = map[string]bool{
	"monochrome":          true,
	"bi-level":            true,
	"auto-monochrome":     true,
	"process-monochrome":  true,
	"gray":                true,
	"auto":                true,
}

// handlePrintJob decodes job-name/job-originating-user-name/
// document-format/compression, decompresses the document if needed,
// applies the image-document overrides, creates the job, and enqueues
// it straight into processing — this server never holds a job pending,
// a deliberately preserved simplification of the original. An
// empty-body request is created as a job but completed immediately
// without ever reaching the sink.
func (d *Dispatcher) handlePrintJob(req *ipp.Request) *ipp.Response {
	jobName, _ := req.LookupString(ipp.TagOperationAttrs, "job-name")
	userName, _ := req.LookupString(ipp.TagOperationAttrs, "job-originating-user-name")
	if userName == "" {
		userName = "unknown"
	}
	documentFormat, _ := req.LookupString(ipp.TagOperationAttrs, "document-format")
	if documentFormat == "" {
		documentFormat = "application/octet-stream"
	}
	compression, _ := req.LookupString(ipp.TagOperationAttrs, "compression")

	empty := len(req.Data) == 0

	var data []byte
	if !empty {
		decoded, err := decompress(req.Data, compression)
		if err != nil {
			resp := ipp.NewResponse(req, ipp.StatusClientErrorCompressionError)
			withOperationAttrs(resp)
			return resp
		}
		data = decoded
	}

	attrs := jobTemplateAttributes(req)
	if isImageDocument(documentFormat) {
		applyImageDocumentOverrides(attrs)
	}

	j := d.Jobs.Create(jobName, userName, documentFormat, attrs, data)

	if empty {
		// Empty document body: complete the job without ever handing it
		// to the converter/sink.
		j.SetState(job.StateProcessing, "processing")
		j.SetState(job.StateCompleted, "none")
	} else {
		// Always transition straight to processing: this server never
		// holds a job in the pending state, a deliberately preserved
		// simplification.
		j.SetState(job.StateProcessing, "processing")
		d.Processor.Submit(j)
	}

	resp := ipp.NewResponse(req, ipp.StatusOK)
	withOperationAttrs(resp)
	jobGroup := resp.AddGroup(ipp.TagJobAttrs)
	jobGroup.Add("job-id", ipp.Integer(j.ID))
	jobGroup.Add("job-uri", ipp.URI(d.Printer.URI+"/job/"+strconv.Itoa(int(j.ID))))
	state := j.Snapshot().State
	jobGroup.Add("job-state", ipp.Enum(state))
	jobGroup.AddMulti("job-state-reasons", stateReasonValues(state)...)
	printer.MinimalAttributes(jobGroup, d.Printer, d.queueStatus())
	return resp
}

// decompress applies the wire compression named by compression,
// mirroring spec §4.5's decompression table: gzip is always
// gzip-decompressed, zip opens the container and takes the first
// entry, and deflate tries zlib-wrapped deflate first, falling back to
// raw (headerless) deflate only when no zlib header is present.
func decompress(data []byte, compression string) ([]byte, error) {
	switch compression {
	case "", "none":
		return data, nil
	case "gzip":
		r, err := gzip.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, err
		}
		defer r.Close()
		return io.ReadAll(r)
	case "deflate":
		return decompressDeflate(data)
	case "zip":
		return decompressZip(data)
	default:
		return data, nil
	}
}

func decompressDeflate(data []byte) ([]byte, error) {
	if zr, err := zlib.NewReader(bytes.NewReader(data)); err == nil {
		defer zr.Close()
		return io.ReadAll(zr)
	}
	r := flate.NewReader(bytes.NewReader(data))
	defer r.Close()
	return io.ReadAll(r)
}

func decompressZip(data []byte) ([]byte, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, err
	}
	if len(zr.File) == 0 {
		return nil, fmt.Errorf("ipp: zip document has no entries")
	}
	f, err := zr.File[0].Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

func isImageDocument(mimeType string) bool {
	return strings.HasPrefix(mimeType, "image/")
}

// applyImageDocumentOverrides mirrors the original's Windows-client
// workaround: image documents submitted with a monochrome-flavored
// print-color-mode are forced to color, because Windows' image print
// path mislabels color photos as monochrome more often than a user
// actually wants grayscale, and a normal-quality image job is upgraded
// to high quality.
func applyImageDocumentOverrides(attrs map[string]string) {
	if imageMonochromeKeywords[attrs["print-color-mode"]] {
		attrs["print-color-mode"] = "color"
	}
	if q := attrs["print-quality"]; q == "" || q == "normal" {
		attrs["print-quality"] = "high"
	}
}

// jobTemplateDefaults are the values stored when the client omits a
// job-template attribute.
var jobTemplateDefaults = map[string]string{
	"media":            "iso_a4_210x297mm",
	"copies":           "1",
	"print-quality":    "normal",
	"print-color-mode": "auto",
}

// jobTemplateAttributes collects the job-template attributes from the
// request, checking the operation group first and the job-attributes
// group second (clients differ on where they put these), then filling
// in defaults for anything missing.
func jobTemplateAttributes(req *ipp.Request) map[string]string {
	attrs := make(map[string]string)
	for _, name := range []string{"print-color-mode", "sides", "media", "copies", "print-quality", "job-sheets"} {
		for _, group := range []ipp.Tag{ipp.TagOperationAttrs, ipp.TagJobAttrs} {
			if v, ok := req.LookupString(group, name); ok {
				attrs[name] = v
				break
			}
			if n, ok := req.LookupInt(group, name); ok {
				attrs[name] = strconv.Itoa(int(n))
				break
			}
		}
	}
	if q, ok := printQualityKeywords[attrs["print-quality"]]; ok {
		attrs["print-quality"] = q
	}
	for name, def := range jobTemplateDefaults {
		if attrs[name] == "" {
			attrs[name] = def
		}
	}
	return attrs
}

// printQualityKeywords maps the print-quality enum's wire values onto
// the keywords the rest of the server (and sink filenames) work with.
var printQualityKeywords = map[string]string{
	"3": "draft",
	"4": "normal",
	"5": "high",
}
