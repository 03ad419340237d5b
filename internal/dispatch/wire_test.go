package dispatch

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/h2g2bob/ippserver/internal/ipp"
)

// buildWireRequest assembles a raw IPP request the way a client puts it
// on the wire: header, one operation group with the standard charset/
// language/printer-uri attributes plus any extras, end tag, body.
func buildWireRequest(op ipp.Operation, requestID uint32, extra map[string]string, body []byte) []byte {
	var buf bytes.Buffer
	buf.WriteByte(1)
	buf.WriteByte(1)
	binary.Write(&buf, binary.BigEndian, uint16(op))
	binary.Write(&buf, binary.BigEndian, requestID)

	buf.WriteByte(byte(ipp.TagOperationAttrs))
	writeWireAttr(&buf, ipp.TagCharset, "attributes-charset", "utf-8")
	writeWireAttr(&buf, ipp.TagNaturalLang, "attributes-natural-language", "en")
	writeWireAttr(&buf, ipp.TagURI, "printer-uri", "ipp://h/")
	for name, value := range extra {
		writeWireAttr(&buf, ipp.TagNameWithoutLang, name, value)
	}
	buf.WriteByte(byte(ipp.TagEnd))
	buf.Write(body)
	return buf.Bytes()
}

func writeWireAttr(buf *bytes.Buffer, tag ipp.Tag, name, value string) {
	buf.WriteByte(byte(tag))
	binary.Write(buf, binary.BigEndian, uint16(len(name)))
	buf.WriteString(name)
	binary.Write(buf, binary.BigEndian, uint16(len(value)))
	buf.WriteString(value)
}

// decodeWireResponse re-reads an encoded response through the request
// decoder (the envelope layouts are byte-identical) so tests can assert
// on status, request id, and attributes.
func decodeWireResponse(t *testing.T, wire []byte) (*ipp.Request, ipp.Status) {
	t.Helper()
	msg, err := ipp.DecodeRequest(wire)
	if err != nil {
		t.Fatalf("response did not decode: %v", err)
	}
	return msg, ipp.Status(msg.Operation)
}

func TestWireGetPrinterAttributesIdle(t *testing.T) {
	d := newTestDispatcher(t)
	wire := buildWireRequest(ipp.OpGetPrinterAttributes, 1, nil, nil)

	req, err := ipp.DecodeRequest(wire)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	out := ipp.EncodeResponse(d.Handle(req))

	msg, status := decodeWireResponse(t, out)
	if status != ipp.StatusOK {
		t.Errorf("status = 0x%04x, want 0x0000", status)
	}
	if msg.RequestID != 1 {
		t.Errorf("request id = %d, want 1", msg.RequestID)
	}
	state, ok := msg.LookupInt(ipp.TagPrinterAttrs, "printer-state")
	if !ok || state != 3 {
		t.Errorf("printer-state = %d, %v; want 3 (idle)", state, ok)
	}
}

func TestWirePrintJobHappyPath(t *testing.T) {
	d := newTestDispatcher(t)
	wire := buildWireRequest(ipp.OpPrintJob, 2,
		map[string]string{"job-name": "hello"},
		[]byte("%PDF-1.4\nfake document"))

	req, err := ipp.DecodeRequest(wire)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if string(req.Data) != "%PDF-1.4\nfake document" {
		t.Fatalf("document data = %q, want the bytes after end-of-attributes", req.Data)
	}

	out := ipp.EncodeResponse(d.Handle(req))
	msg, status := decodeWireResponse(t, out)
	if status != ipp.StatusOK {
		t.Fatalf("status = 0x%04x, want 0x0000", status)
	}
	if msg.RequestID != 2 {
		t.Errorf("request id = %d, want 2", msg.RequestID)
	}
	id, ok := msg.LookupInt(ipp.TagJobAttrs, "job-id")
	if !ok || id != 1 {
		t.Errorf("job-id = %d, %v; want 1", id, ok)
	}
	uri, _ := msg.LookupString(ipp.TagJobAttrs, "job-uri")
	if uri != d.Printer.URI+"/job/1" {
		t.Errorf("job-uri = %q, want %q", uri, d.Printer.URI+"/job/1")
	}
	state, _ := msg.LookupInt(ipp.TagJobAttrs, "job-state")
	if state != 5 && state != 9 {
		t.Errorf("job-state = %d, want 5 (processing) or 9 (completed)", state)
	}
}

func TestWireUnsupportedOperation(t *testing.T) {
	d := newTestDispatcher(t)
	wire := buildWireRequest(ipp.Operation(0x0006), 4, nil, nil) // Send-Document

	req, err := ipp.DecodeRequest(wire)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	out := ipp.EncodeResponse(d.Handle(req))
	msg, status := decodeWireResponse(t, out)
	if status != ipp.StatusServerErrorOperationNotSupported {
		t.Errorf("status = 0x%04x, want 0x0501", status)
	}
	if msg.RequestID != 4 {
		t.Errorf("request id = %d, want 4", msg.RequestID)
	}
}
