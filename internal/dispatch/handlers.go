package dispatch

import (
	"strconv"

	"github.com/h2g2bob/ippserver/internal/ipp"
	"github.com/h2g2bob/ippserver/internal/job"
	"github.com/h2g2bob/ippserver/internal/printer"
	"github.com/h2g2bob/ippserver/internal/sink"
)

// handleValidateJob checks the request's attributes are acceptable
// without creating a job, mirroring operation_validate_job_response:
// document-format must be in the supported MIME set and media must be
// in the supported media set, when either is present.
func (d *Dispatcher) handleValidateJob(req *ipp.Request) *ipp.Response {
	if format, ok := req.LookupString(ipp.TagOperationAttrs, "document-format"); ok && format != "" {
		if !contains(printer.DocumentFormatsSupported, format) {
			resp := ipp.NewResponse(req, ipp.StatusClientErrorDocumentFormatNotSupported)
			withOperationAttrs(resp)
			return resp
		}
	}
	if media, ok := req.LookupString(ipp.TagOperationAttrs, "media"); ok && media != "" {
		if !contains(printer.MediaSupported, media) {
			resp := ipp.NewResponse(req, ipp.StatusClientErrorAttributesOrValuesNotSupported)
			withOperationAttrs(resp)
			return resp
		}
	}
	resp := ipp.NewResponse(req, ipp.StatusOK)
	withOperationAttrs(resp)
	return resp
}

func contains(values []string, v string) bool {
	for _, s := range values {
		if s == v {
			return true
		}
	}
	return false
}

// handleGetJobAttributes looks a job up by id and returns its full
// attribute set, or client-error-bad-request if job-id is missing, or
// client-error-not-found if the job doesn't exist.
func (d *Dispatcher) handleGetJobAttributes(req *ipp.Request) *ipp.Response {
	id, ok := req.LookupInt(ipp.TagOperationAttrs, "job-id")
	if !ok {
		resp := ipp.NewResponse(req, ipp.StatusClientErrorBadRequest)
		withOperationAttrs(resp)
		return resp
	}
	j, ok := d.Jobs.Get(id)
	if !ok {
		resp := ipp.NewResponse(req, ipp.StatusClientErrorNotFound)
		withOperationAttrs(resp)
		return resp
	}
	if sink.IsRejectAll(d.Processor.Sink()) {
		// Non-standard, deliberately preserved: the reject-all sink
		// answers job-canceled even though the job is right there.
		resp := ipp.NewResponse(req, ipp.StatusServerErrorJobCanceled)
		withOperationAttrs(resp)
		return resp
	}

	resp := ipp.NewResponse(req, ipp.StatusOK)
	withOperationAttrs(resp)
	jobGroup := resp.AddGroup(ipp.TagJobAttrs)
	writeJobAttributes(jobGroup, j.Snapshot(), d.Printer)
	return resp
}

// completedStates is the state set which-jobs=completed matches;
// which-jobs=not-completed matches everything else.
var completedStates = map[job.State]bool{
	job.StateCompleted: true,
	job.StateCanceled:  true,
	job.StateAborted:   true,
}

// handleGetJobs lists jobs newest id first (an explicitly preserved
// quirk — see DESIGN.md Open Questions), filtered by which-jobs
// (default "completed"), my-jobs, and truncated to limit.
func (d *Dispatcher) handleGetJobs(req *ipp.Request) *ipp.Response {
	whichJobs, ok := req.LookupString(ipp.TagOperationAttrs, "which-jobs")
	if !ok || whichJobs == "" {
		whichJobs = "completed"
	}
	myJobs, _ := req.LookupBool(ipp.TagOperationAttrs, "my-jobs")
	requestingUser, _ := req.LookupString(ipp.TagOperationAttrs, "requesting-user-name")
	limit, hasLimit := req.LookupInt(ipp.TagOperationAttrs, "limit")

	resp := ipp.NewResponse(req, ipp.StatusOK)
	withOperationAttrs(resp)

	count := int32(0)
	for _, j := range d.Jobs.List() {
		snap := j.Snapshot()
		if whichJobs == "not-completed" && completedStates[snap.State] {
			continue
		}
		if whichJobs == "completed" && !completedStates[snap.State] {
			continue
		}
		if myJobs && snap.Originator != requestingUser {
			continue
		}
		if hasLimit && limit > 0 && count >= limit {
			break
		}
		jobGroup := resp.AddGroup(ipp.TagJobAttrs)
		writeJobAttributes(jobGroup, snap, d.Printer)
		count++
	}
	return resp
}

func writeJobAttributes(g *ipp.AttributeGroup, snap job.Snapshot, p *printer.Printer) {
	g.Add("job-id", ipp.Integer(snap.ID))
	g.Add("job-uri", ipp.URI(p.URI+"/job/"+strconv.Itoa(int(snap.ID))))
	g.Add("job-printer-uri", ipp.URI(p.URI))
	g.Add("job-name", ipp.NameWithoutLang(snap.Name))
	g.Add("job-originating-user-name", ipp.NameWithoutLang(snap.Originator))
	g.Add("job-state", ipp.Enum(snap.State))
	g.AddMulti("job-state-reasons", stateReasonValues(snap.State)...)
	g.Add("job-state-message", ipp.TextWithoutLang(snap.StateMessage))
	g.Add("job-k-octets", ipp.Integer(int32(len(snap.Data)/1024)))
	g.Add("document-format", ipp.MimeMediaType(snap.DocumentFormat))
	if !snap.CreatedAt.IsZero() {
		g.Add("time-at-creation", ipp.Integer(int32(snap.CreatedAt.Unix())))
	}
	if !snap.ProcessingAt.IsZero() {
		g.Add("time-at-processing", ipp.Integer(int32(snap.ProcessingAt.Unix())))
	}
	if !snap.CompletedAt.IsZero() {
		g.Add("time-at-completed", ipp.Integer(int32(snap.CompletedAt.Unix())))
	}
}

func stateReasonValues(s job.State) []ipp.Value {
	reasons := s.Reasons()
	values := make([]ipp.Value, len(reasons))
	for i, r := range reasons {
		values[i] = ipp.Keyword(r)
	}
	return values
}

// handleCancelJob transitions a job to canceled if it's still active;
// terminal jobs (already completed/canceled/aborted) answer
// client-error-not-possible, matching operation_cancel_job_response.
func (d *Dispatcher) handleCancelJob(req *ipp.Request) *ipp.Response {
	id, ok := req.LookupInt(ipp.TagOperationAttrs, "job-id")
	if !ok {
		resp := ipp.NewResponse(req, ipp.StatusClientErrorBadRequest)
		withOperationAttrs(resp)
		return resp
	}
	j, ok := d.Jobs.Get(id)
	if !ok {
		resp := ipp.NewResponse(req, ipp.StatusClientErrorNotFound)
		withOperationAttrs(resp)
		return resp
	}
	if !j.SetState(job.StateCanceled, "canceled by client") {
		resp := ipp.NewResponse(req, ipp.StatusClientErrorNotPossible)
		withOperationAttrs(resp)
		return resp
	}
	resp := ipp.NewResponse(req, ipp.StatusOK)
	withOperationAttrs(resp)
	return resp
}

// handleGetPrinterAttributes returns the printer attribute table,
// narrowed to the requested-attributes names when the client sent any
// (the keyword "all" means no narrowing).
func (d *Dispatcher) handleGetPrinterAttributes(req *ipp.Request) *ipp.Response {
	resp := ipp.NewResponse(req, ipp.StatusOK)
	withOperationAttrs(resp)
	g := resp.AddGroup(ipp.TagPrinterAttrs)
	printer.Attributes(g, d.Printer, d.queueStatus())
	filterRequestedAttributes(req, g)
	return resp
}

// filterRequestedAttributes drops attributes the client didn't ask for
// from a printer-attributes group, per the requested-attributes
// operation attribute. An absent list, or one containing "all", leaves
// the group untouched.
func filterRequestedAttributes(req *ipp.Request, g *ipp.AttributeGroup) {
	values := req.Only(ipp.TagOperationAttrs, "requested-attributes")
	if len(values) == 0 {
		return
	}
	requested := make(map[string]bool, len(values))
	for _, v := range values {
		kw, ok := v.(ipp.Keyword)
		if !ok {
			continue
		}
		if kw == "all" {
			return
		}
		requested[string(kw)] = true
	}
	if len(requested) == 0 {
		return
	}
	kept := g.Attributes[:0]
	for _, a := range g.Attributes {
		if requested[a.Name] {
			kept = append(kept, a)
		}
	}
	g.Attributes = kept
}

// handlePausePrinter marks the printer paused, so printer-state reads
// stopped, printer-state-reasons reads paused and
// printer-is-accepting-jobs reads false. Print-Job requests are still
// accepted while paused, and jobs already in flight are not affected.
func (d *Dispatcher) handlePausePrinter(req *ipp.Request) *ipp.Response {
	d.Printer.Paused = true
	resp := ipp.NewResponse(req, ipp.StatusOK)
	withOperationAttrs(resp)
	return resp
}

func (d *Dispatcher) handleResumePrinter(req *ipp.Request) *ipp.Response {
	d.Printer.Paused = false
	resp := ipp.NewResponse(req, ipp.StatusOK)
	withOperationAttrs(resp)
	return resp
}

// handlePurgeJobs clears completed/canceled/aborted jobs from the table
// but deliberately does not cancel anything active — see DESIGN.md
// Open Questions.
func (d *Dispatcher) handlePurgeJobs(req *ipp.Request) *ipp.Response {
	purged := d.Jobs.PurgeJobs()
	d.Log.Debug().Int("purged", purged).Msg("purged terminal jobs")
	resp := ipp.NewResponse(req, ipp.StatusOK)
	withOperationAttrs(resp)
	return resp
}

// handleCupsGetDefault answers with this server's one printer, the
// simplest possible "default printer" for a single-printer server.
func (d *Dispatcher) handleCupsGetDefault(req *ipp.Request) *ipp.Response {
	resp := ipp.NewResponse(req, ipp.StatusOK)
	withOperationAttrs(resp)
	g := resp.AddGroup(ipp.TagPrinterAttrs)
	printer.Attributes(g, d.Printer, d.queueStatus())
	return resp
}

// handleCupsListAllPrinters answers with this server's one printer.
func (d *Dispatcher) handleCupsListAllPrinters(req *ipp.Request) *ipp.Response {
	resp := ipp.NewResponse(req, ipp.StatusOK)
	withOperationAttrs(resp)
	g := resp.AddGroup(ipp.TagPrinterAttrs)
	printer.Attributes(g, d.Printer, d.queueStatus())
	return resp
}
