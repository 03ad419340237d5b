package dispatch

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/h2g2bob/ippserver/internal/ipp"
	"github.com/h2g2bob/ippserver/internal/job"
	"github.com/h2g2bob/ippserver/internal/printer"
)

type noopSink struct{}

func (noopSink) Process(ctx context.Context, j *job.Job) error { return nil }

func newTestDispatcher(t *testing.T) *Dispatcher {
	t.Helper()
	p := &printer.Printer{
		Name: "test", URI: "ipp://localhost:631/ipp/print", UUID: "00000000-0000-0000-0000-000000000000",
		StartedAt: time.Now(),
	}
	jobs := job.NewManager()
	proc := job.NewProcessor(noopSink{}, 2, 8, zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go proc.Start(ctx)
	return &Dispatcher{Printer: p, Jobs: jobs, Processor: proc, Log: zerolog.Nop()}
}

func baseRequest(op ipp.Operation) *ipp.Request {
	return &ipp.Request{
		Message:   ipp.Message{Version: ipp.Version11, RequestID: 7},
		Operation: op,
	}
}

func TestRequestIDEchoed(t *testing.T) {
	d := newTestDispatcher(t)
	req := baseRequest(ipp.OpGetPrinterAttributes)
	resp := d.Handle(req)
	if resp.RequestID != 7 {
		t.Errorf("request id = %d, want 7", resp.RequestID)
	}
}

func TestVersionNotSupported(t *testing.T) {
	d := newTestDispatcher(t)
	req := baseRequest(ipp.OpGetPrinterAttributes)
	req.Version = ipp.Version{Major: 9, Minor: 9}
	resp := d.Handle(req)
	if resp.Status != ipp.StatusServerErrorVersionNotSupported {
		t.Errorf("status = 0x%04x, want 0x%04x", resp.Status, ipp.StatusServerErrorVersionNotSupported)
	}
	if resp.Version != ipp.Version11 {
		t.Errorf("response version = %+v, want 1.1", resp.Version)
	}
}

func TestVersion2xAccepted(t *testing.T) {
	for _, v := range []ipp.Version{{Major: 1, Minor: 1}, {Major: 2, Minor: 0}, {Major: 2, Minor: 1}, {Major: 2, Minor: 2}} {
		d := newTestDispatcher(t)
		req := baseRequest(ipp.OpGetPrinterAttributes)
		req.Version = v
		resp := d.Handle(req)
		if resp.Status != ipp.StatusOK {
			t.Errorf("version %d.%d: status = 0x%04x, want ok", v.Major, v.Minor, resp.Status)
		}
	}
}

func TestVersion10Rejected(t *testing.T) {
	d := newTestDispatcher(t)
	req := baseRequest(ipp.OpGetPrinterAttributes)
	req.Version = ipp.Version{Major: 1, Minor: 0}
	resp := d.Handle(req)
	if resp.Status != ipp.StatusServerErrorVersionNotSupported {
		t.Errorf("status = 0x%04x, want version-not-supported", resp.Status)
	}
}

func TestUnsupportedOperationEchoesRequestID(t *testing.T) {
	d := newTestDispatcher(t)
	req := baseRequest(ipp.Operation(0x0006)) // Send-Document
	req.RequestID = 4
	resp := d.Handle(req)
	if resp.Status != ipp.StatusServerErrorOperationNotSupported {
		t.Errorf("status = 0x%04x, want operation-not-supported", resp.Status)
	}
	if resp.RequestID != 4 {
		t.Errorf("request id = %d, want 4", resp.RequestID)
	}
}

func TestMisidentifiedAsHTTPRequest(t *testing.T) {
	d := newTestDispatcher(t)
	req := baseRequest(ipp.Operation(0x0d0a))
	req.Version = ipp.Version{Major: 'G', Minor: 'E'} // "GE" of a GET line
	resp := d.Handle(req)
	if resp.Status != ipp.StatusClientErrorBadRequest {
		t.Errorf("status = 0x%04x, want bad-request", resp.Status)
	}
	if resp.Version != ipp.Version11 {
		t.Errorf("response version = %+v, want 1.1", resp.Version)
	}
	if msg, ok := resp.LookupString(ipp.TagOperationAttrs, "status-message"); !ok || msg == "Success" {
		t.Errorf("status-message = %q, want a message naming the HTTP mixup", msg)
	}
}

func TestResponsesCarryStatusMessage(t *testing.T) {
	d := newTestDispatcher(t)
	resp := d.Handle(baseRequest(ipp.OpGetPrinterAttributes))
	if msg, ok := resp.LookupString(ipp.TagOperationAttrs, "status-message"); !ok || msg != "Success" {
		t.Errorf("status-message = %q, want Success", msg)
	}
}

func TestGetPrinterAttributesFiltersRequestedAttributes(t *testing.T) {
	d := newTestDispatcher(t)
	req := baseRequest(ipp.OpGetPrinterAttributes)
	req.OperationAttrs().AddMulti("requested-attributes",
		ipp.Keyword("printer-name"), ipp.Keyword("printer-state"))
	resp := d.Handle(req)

	var printerGroup *ipp.AttributeGroup
	for i := range resp.Groups {
		if resp.Groups[i].Tag == ipp.TagPrinterAttrs {
			printerGroup = &resp.Groups[i]
		}
	}
	if printerGroup == nil {
		t.Fatal("no printer-attributes group in response")
	}
	if len(printerGroup.Attributes) != 2 {
		t.Errorf("got %d attributes, want exactly the 2 requested", len(printerGroup.Attributes))
	}
	for _, a := range printerGroup.Attributes {
		if a.Name != "printer-name" && a.Name != "printer-state" {
			t.Errorf("unexpected attribute %q survived the filter", a.Name)
		}
	}
}

func TestGetPrinterAttributesRequestedAllIsUnfiltered(t *testing.T) {
	d := newTestDispatcher(t)
	req := baseRequest(ipp.OpGetPrinterAttributes)
	req.OperationAttrs().Add("requested-attributes", ipp.Keyword("all"))
	resp := d.Handle(req)
	if len(resp.Groups) < 2 || len(resp.Groups[1].Attributes) < 20 {
		t.Error("requested-attributes=all should return the full table")
	}
}

func TestGetJobAttributesNotFound(t *testing.T) {
	d := newTestDispatcher(t)
	req := baseRequest(ipp.OpGetJobAttributes)
	req.OperationAttrs().Add("job-id", ipp.Integer(999))
	resp := d.Handle(req)
	if resp.Status != ipp.StatusClientErrorNotFound {
		t.Errorf("status = 0x%04x, want 0x%04x", resp.Status, ipp.StatusClientErrorNotFound)
	}
}

func TestCancelCompletedJobNotPossible(t *testing.T) {
	d := newTestDispatcher(t)
	j := d.Jobs.Create("doc", "user", "application/pdf", nil, nil)
	j.SetState(job.StateProcessing, "processing")
	j.SetState(job.StateCompleted, "completed")

	req := baseRequest(ipp.OpCancelJob)
	req.OperationAttrs().Add("job-id", ipp.Integer(j.ID))
	resp := d.Handle(req)
	if resp.Status != ipp.StatusClientErrorNotPossible {
		t.Errorf("status = 0x%04x, want 0x%04x", resp.Status, ipp.StatusClientErrorNotPossible)
	}
}

func TestPurgeJobsDoesNotCancelActive(t *testing.T) {
	d := newTestDispatcher(t)
	active := d.Jobs.Create("active", "user", "application/pdf", nil, nil)
	active.SetState(job.StateProcessing, "processing")
	done := d.Jobs.Create("done", "user", "application/pdf", nil, nil)
	done.SetState(job.StateProcessing, "processing")
	done.SetState(job.StateCompleted, "completed")

	req := baseRequest(ipp.OpPurgeJobs)
	d.Handle(req)

	if _, ok := d.Jobs.Get(active.ID); !ok {
		t.Error("active job was purged, want preserved")
	}
	if _, ok := d.Jobs.Get(done.ID); ok {
		t.Error("completed job was not purged")
	}
}

func TestGetJobsNewestFirst(t *testing.T) {
	d := newTestDispatcher(t)
	first := d.Jobs.Create("a", "user", "application/pdf", nil, nil)
	first.SetState(job.StateProcessing, "processing")
	first.SetState(job.StateCompleted, "completed")
	second := d.Jobs.Create("b", "user", "application/pdf", nil, nil)
	second.SetState(job.StateProcessing, "processing")
	second.SetState(job.StateCompleted, "completed")

	req := baseRequest(ipp.OpGetJobs)
	resp := d.Handle(req)
	if len(resp.Groups) < 3 {
		t.Fatalf("expected operation-attrs + 2 job groups, got %d groups", len(resp.Groups))
	}
	firstGroup := resp.Groups[1]
	id, _ := firstGroupJobID(firstGroup)
	if id != second.ID {
		t.Errorf("first job in response = %d, want newest (%d)", id, second.ID)
	}
	_ = first
}

func TestGetJobsDefaultsToCompletedOnly(t *testing.T) {
	d := newTestDispatcher(t)
	pending := d.Jobs.Create("pending", "user", "application/pdf", nil, nil)
	done := d.Jobs.Create("done", "user", "application/pdf", nil, nil)
	done.SetState(job.StateProcessing, "processing")
	done.SetState(job.StateCompleted, "completed")

	req := baseRequest(ipp.OpGetJobs)
	resp := d.Handle(req)
	if len(resp.Groups) != 2 {
		t.Fatalf("expected operation-attrs + 1 job group, got %d groups", len(resp.Groups))
	}
	id, _ := firstGroupJobID(resp.Groups[1])
	if id != done.ID {
		t.Errorf("job in response = %d, want the completed job (%d)", id, done.ID)
	}
	_ = pending
}

func TestGetJobsNotCompletedReturnsActiveJobs(t *testing.T) {
	d := newTestDispatcher(t)
	pending := d.Jobs.Create("pending", "user", "application/pdf", nil, nil)
	done := d.Jobs.Create("done", "user", "application/pdf", nil, nil)
	done.SetState(job.StateProcessing, "processing")
	done.SetState(job.StateCompleted, "completed")

	req := baseRequest(ipp.OpGetJobs)
	req.OperationAttrs().Add("which-jobs", ipp.Keyword("not-completed"))
	resp := d.Handle(req)
	if len(resp.Groups) != 2 {
		t.Fatalf("expected operation-attrs + 1 job group, got %d groups", len(resp.Groups))
	}
	id, _ := firstGroupJobID(resp.Groups[1])
	if id != pending.ID {
		t.Errorf("job in response = %d, want the pending job (%d)", id, pending.ID)
	}
}

func TestGetJobsRespectsLimit(t *testing.T) {
	d := newTestDispatcher(t)
	for i := 0; i < 3; i++ {
		j := d.Jobs.Create("doc", "user", "application/pdf", nil, nil)
		j.SetState(job.StateProcessing, "processing")
		j.SetState(job.StateCompleted, "completed")
	}

	req := baseRequest(ipp.OpGetJobs)
	req.OperationAttrs().Add("limit", ipp.Integer(2))
	resp := d.Handle(req)
	if len(resp.Groups) != 3 {
		t.Fatalf("expected operation-attrs + 2 job groups (limit=2), got %d groups", len(resp.Groups))
	}
}

func TestValidateJobRejectsUnsupportedDocumentFormat(t *testing.T) {
	d := newTestDispatcher(t)
	req := baseRequest(ipp.OpValidateJob)
	req.OperationAttrs().Add("document-format", ipp.MimeMediaType("application/x-unsupported"))
	resp := d.Handle(req)
	if resp.Status != ipp.StatusClientErrorDocumentFormatNotSupported {
		t.Errorf("status = 0x%04x, want document-format-not-supported", resp.Status)
	}
}

func TestValidateJobRejectsUnsupportedMedia(t *testing.T) {
	d := newTestDispatcher(t)
	req := baseRequest(ipp.OpValidateJob)
	req.OperationAttrs().Add("media", ipp.Keyword("not-a-real-media-size"))
	resp := d.Handle(req)
	if resp.Status != ipp.StatusClientErrorAttributesOrValuesNotSupported {
		t.Errorf("status = 0x%04x, want attributes-or-values-not-supported", resp.Status)
	}
}

func TestValidateJobAcceptsSupportedAttributes(t *testing.T) {
	d := newTestDispatcher(t)
	req := baseRequest(ipp.OpValidateJob)
	req.OperationAttrs().Add("document-format", ipp.MimeMediaType("application/pdf"))
	req.OperationAttrs().Add("media", ipp.Keyword(printer.MediaDefault))
	resp := d.Handle(req)
	if resp.Status != ipp.StatusOK {
		t.Errorf("status = 0x%04x, want ok", resp.Status)
	}
}

func firstGroupJobID(g ipp.AttributeGroup) (int32, bool) {
	for _, a := range g.Attributes {
		if a.Name == "job-id" && len(a.Values) > 0 {
			if n, ok := a.Values[0].(ipp.Integer); ok {
				return int32(n), true
			}
		}
	}
	return 0, false
}

func TestPrintJobGoesStraightToProcessing(t *testing.T) {
	d := newTestDispatcher(t)
	req := baseRequest(ipp.OpPrintJob)
	req.OperationAttrs().Add("job-name", ipp.NameWithoutLang("doc"))
	req.Data = []byte("%PDF-1.4 fake")

	resp := d.Handle(req)
	if resp.Status != ipp.StatusOK {
		t.Fatalf("status = 0x%04x, want ok", resp.Status)
	}
	jobGroup := resp.Groups[1]
	for _, a := range jobGroup.Attributes {
		if a.Name == "job-state" {
			if a.Values[0].(ipp.Enum) != ipp.Enum(job.StateProcessing) {
				t.Errorf("job-state = %v, want processing", a.Values[0])
			}
			return
		}
	}
	t.Fatal("job-state attribute not present")
}
