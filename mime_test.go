package ssmtp

import (
	"bytes"
	"encoding/base64"
	"io"
	"regexp"
	"strings"
	"testing"
	"time"
)

func TestContainsEndOfData(t *testing.T) {
	if !containsEndOfData("hello\r\n.\r\nworld") {
		t.Error("expected sentinel to be detected")
	}
	if containsEndOfData("hello world") {
		t.Error("did not expect sentinel to be detected")
	}
}

var dateRe = regexp.MustCompile(`^(Sun|Mon|Tue|Wed|Thu|Fri|Sat), \d{2} (Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec) \d{4} \d{2}:\d{2}:\d{2} [+-]\d{4}$`)

func TestRFC5322DateFormat(t *testing.T) {
	now := time.Date(2026, time.March, 5, 13, 4, 9, 0, time.UTC)
	got := rfc5322Date(now)
	if !dateRe.MatchString(got) {
		t.Errorf("rfc5322Date(%v) = %q, does not match expected format", now, got)
	}
}

func TestGenerateBoundaryAvoidsCollision(t *testing.T) {
	// a reader whose first draw collides with the body, second doesn't
	collidingDigits := []byte{0, 0, 0, 0, 0} // "Boundary00000"
	freshDigits := []byte{1, 2, 3, 4, 5}     // "Boundary12345"
	r := &scriptedReader{chunks: [][]byte{collidingDigits, freshDigits}}

	body := "here is Boundary00000 right in the body"
	got, err := generateBoundary(r, 5, body)
	if err != nil {
		t.Fatalf("generateBoundary: %v", err)
	}
	if strings.Contains(body, got) {
		t.Errorf("chosen boundary %q collides with body", got)
	}
	if got != "Boundary12345" {
		t.Errorf("got %q, want Boundary12345", got)
	}
}

type scriptedReader struct {
	chunks [][]byte
}

func (r *scriptedReader) Read(p []byte) (int, error) {
	if len(r.chunks) == 0 {
		return 0, io.EOF
	}
	chunk := r.chunks[0]
	r.chunks = r.chunks[1:]
	n := copy(p, chunk)
	return n, nil
}

func TestWriteAddressHeadersGroupsByKind(t *testing.T) {
	var l ledger
	l.append(AddressFrom, "a@x")
	l.append(AddressTo, "b@y")
	l.append(AddressTo, "c@y")
	l.append(AddressCC, "d@y")

	var out []byte
	buf := newSendBuffer(4096, func(p []byte) error {
		out = append(out, p...)
		return nil
	})
	if err := writeAddressHeaders(buf, &l); err != nil {
		t.Fatalf("writeAddressHeaders: %v", err)
	}
	if err := buf.flush(); err != nil {
		t.Fatalf("flush: %v", err)
	}

	want := "From: a@x\r\nTo: b@y,\r\n c@y\r\nCc: d@y\r\n"
	if string(out) != want {
		t.Errorf("got %q, want %q", out, want)
	}
}

func TestWriteMIMEBodyStructure(t *testing.T) {
	attachmentData := make([]byte, 5000)
	for i := range attachmentData {
		attachmentData[i] = byte(i % 251)
	}

	var out []byte
	buf := newSendBuffer(4096, func(p []byte) error {
		out = append(out, p...)
		return nil
	})

	attachments := Attachments{{
		Name:   "blob.bin",
		Reader: bytes.NewReader(attachmentData),
	}}

	if err := writeMIMEBody(buf, fixedRandReader{}, 5, "Hello.", attachments); err != nil {
		t.Fatalf("writeMIMEBody: %v", err)
	}
	if err := buf.flush(); err != nil {
		t.Fatalf("flush: %v", err)
	}

	s := string(out)
	boundaryLine := regexp.MustCompile(`boundary=(\S+)`).FindStringSubmatch(s)
	if boundaryLine == nil {
		t.Fatalf("no boundary found in output: %q", s)
	}
	boundary := boundaryLine[1]

	if got := strings.Count(s, "--"+boundary); got != 3 {
		t.Errorf("boundary %q appears %d times, want 3 (opening, between parts, closing)", boundary, got)
	}
	if !strings.HasSuffix(s, "--"+boundary+"--") {
		t.Errorf("output does not end with the closing delimiter")
	}

	for _, line := range strings.Split(s, "\r\n") {
		if len(line) > mimeLineLength {
			t.Errorf("line exceeds %d columns: %q (%d)", mimeLineLength, line, len(line))
		}
	}

	parts := strings.Split(s, "--"+boundary)
	base64Part := parts[2]
	base64Part = strings.TrimPrefix(base64Part, "\r\n")
	headerEnd := strings.Index(base64Part, "\r\n\r\n")
	if headerEnd < 0 {
		t.Fatalf("could not find end of attachment headers")
	}
	payload := base64Part[headerEnd+4:]
	payload = strings.TrimRight(payload, "\r\n")
	payload = strings.ReplaceAll(payload, "\r\n", "")

	decoded, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		t.Fatalf("decode attachment payload: %v", err)
	}
	if !bytes.Equal(decoded, attachmentData) {
		t.Errorf("decoded attachment payload does not match original (%d vs %d bytes)", len(decoded), len(attachmentData))
	}
}

type fixedRandReader struct{}

func (fixedRandReader) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = byte(7 + i)
	}
	return len(p), nil
}
