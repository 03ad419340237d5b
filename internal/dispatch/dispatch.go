// Package dispatch wires incoming IPP requests to the printer model and
// job manager: operation routing, version validation, and the
// misidentified-as-HTTP special case.
package dispatch

import (
	"github.com/rs/zerolog"

	"github.com/h2g2bob/ippserver/internal/ipp"
	"github.com/h2g2bob/ippserver/internal/job"
	"github.com/h2g2bob/ippserver/internal/printer"
)

// Dispatcher routes IPP requests to the right operation handler against
// one printer and its job manager.
type Dispatcher struct {
	Printer   *printer.Printer
	Jobs      *job.Manager
	Processor *job.Processor
	Log       zerolog.Logger
}

// Handle processes one decoded IPP request and returns the response to
// send back, never panicking across the boundary: any unexpected error
// from a handler is converted into server-error-internal-error.
func (d *Dispatcher) Handle(req *ipp.Request) (resp *ipp.Response) {
	defer func() {
		if r := recover(); r != nil {
			d.Log.Error().Interface("panic", r).Msg("recovered from panic handling ipp request")
			resp = ipp.NewResponse(req, ipp.StatusServerErrorInternalError)
			withOperationAttrs(resp)
		}
	}()

	if req.Operation == 0x0d0a {
		return d.handleMisidentifiedAsHTTP(req)
	}

	if !versionSupported(req.Version) {
		resp := ipp.NewResponse(req, ipp.StatusServerErrorVersionNotSupported)
		resp.Version = ipp.Version11
		withOperationAttrs(resp)
		return resp
	}

	switch req.Operation {
	case ipp.OpPrintJob:
		return d.handlePrintJob(req)
	case ipp.OpValidateJob:
		return d.handleValidateJob(req)
	case ipp.OpCancelJob:
		return d.handleCancelJob(req)
	case ipp.OpGetJobAttributes:
		return d.handleGetJobAttributes(req)
	case ipp.OpGetJobs:
		return d.handleGetJobs(req)
	case ipp.OpGetPrinterAttributes:
		return d.handleGetPrinterAttributes(req)
	case ipp.OpPausePrinter:
		return d.handlePausePrinter(req)
	case ipp.OpResumePrinter:
		return d.handleResumePrinter(req)
	case ipp.OpPurgeJobs:
		return d.handlePurgeJobs(req)
	case ipp.OpCupsGetDefault:
		return d.handleCupsGetDefault(req)
	case ipp.OpCupsListAllPrinters:
		return d.handleCupsListAllPrinters(req)
	case ipp.OpCupsGetPPD, ipp.OpCupsMoveJob, ipp.OpCupsAuthenticateJob:
		d.Log.Debug().Uint16("opid", uint16(req.Operation)).Msg("unsupported CUPS extension operation")
		return d.notSupported(req)
	default:
		d.Log.Debug().Uint16("opid", uint16(req.Operation)).Msg("unsupported operation")
		return d.notSupported(req)
	}
}

func (d *Dispatcher) notSupported(req *ipp.Request) *ipp.Response {
	resp := ipp.NewResponse(req, ipp.StatusServerErrorOperationNotSupported)
	withOperationAttrs(resp)
	return resp
}

// supportedVersions is the version set the dispatcher accepts; anything
// else answers server-error-version-not-supported with version 1.1.
var supportedVersions = map[ipp.Version]bool{
	{Major: 1, Minor: 1}: true,
	{Major: 2, Minor: 0}: true,
	{Major: 2, Minor: 1}: true,
	{Major: 2, Minor: 2}: true,
}

func versionSupported(v ipp.Version) bool {
	return supportedVersions[v]
}

// handleMisidentifiedAsHTTP answers a client that opened a plain HTTP
// connection on the IPP port (the bytes "\r\n" decoded as an opid) with
// a minimal, well-formed response naming the mistake, rather than
// failing to parse further.
func (d *Dispatcher) handleMisidentifiedAsHTTP(req *ipp.Request) *ipp.Response {
	d.Log.Warn().Msg("request body looks like an HTTP request sent to the IPP handler")
	resp := ipp.NewResponse(req, ipp.StatusClientErrorBadRequest)
	resp.Version = ipp.Version11
	g := resp.OperationAttrs()
	g.Add("attributes-charset", ipp.Charset("utf-8"))
	g.Add("attributes-natural-language", ipp.NaturalLanguage("en"))
	g.Add("status-message", ipp.TextWithoutLang("got an HTTP request where an IPP request was expected"))
	return resp
}

// withOperationAttrs adds the operation attributes every response must
// carry: attributes-charset, attributes-natural-language, and a
// status-message matching the response's status code.
func withOperationAttrs(resp *ipp.Response) {
	g := resp.OperationAttrs()
	g.Add("attributes-charset", ipp.Charset("utf-8"))
	g.Add("attributes-natural-language", ipp.NaturalLanguage("en"))
	g.Add("status-message", ipp.TextWithoutLang(statusMessage(resp.Status)))
}

// statusMessage renders the human-readable status-message text for a
// status code; clients see this string, so it stays short and generic.
func statusMessage(s ipp.Status) string {
	switch s {
	case ipp.StatusOK, ipp.StatusOKIgnoredOrSubstitutedAttributes, ipp.StatusOKConflictingAttributes:
		return "Success"
	case ipp.StatusClientErrorNotFound:
		return "No such job"
	case ipp.StatusClientErrorNotPossible:
		return "Not possible in the job's current state"
	case ipp.StatusClientErrorDocumentFormatNotSupported:
		return "Unsupported document format"
	case ipp.StatusClientErrorAttributesOrValuesNotSupported:
		return "Unsupported attribute value"
	case ipp.StatusClientErrorCompressionError:
		return "Could not decompress document data"
	case ipp.StatusServerErrorOperationNotSupported:
		return "Operation not supported"
	case ipp.StatusServerErrorVersionNotSupported:
		return "IPP version not supported"
	case ipp.StatusServerErrorJobCanceled:
		return "Job canceled"
	default:
		return "Server error"
	}
}

func (d *Dispatcher) queueStatus() printer.QueueStatus {
	s := d.Jobs.Status()
	return printer.QueueStatus{PendingOrProcessing: s.PendingOrProcessing, QueuedJobCount: s.QueuedJobCount}
}
