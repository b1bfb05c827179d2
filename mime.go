package ssmtp

import (
	"fmt"
	"io"
	"strings"
	"time"
)

const (
	mimeLineLength = 76
	boundaryPrefix = "Boundary"
)

var (
	crlf       = []byte("\r\n")
	endOfData  = []byte("\r\n.\r\n")
	weekdays   = [...]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}
	monthNames = [...]string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}
)

// containsEndOfData reports whether body contains the literal CRLF . CRLF
// sentinel that terminates the DATA phase — if it does, the body can't be
// sent as-is (spec.md §4.4 / §8 "End-of-data sentinel").
func containsEndOfData(body string) bool {
	return strings.Contains(body, string(endOfData))
}

// rfc5322Date renders now per the exact format spec.md §4.4 requires:
// English three-letter weekday and month, two-digit day, four-digit year,
// HH:MM:SS time, and a ±HHMM zone offset. The C original derived the offset
// by subtracting hand-rolled GMT/local tm struct arithmetic and documented
// its own uncertainty about DST correctness; time.Time.Zone() gives the
// signed UTC offset directly (spec.md's redesign note).
func rfc5322Date(now time.Time) string {
	_, offsetSec := now.Zone()
	sign := '+'
	if offsetSec < 0 {
		sign = '-'
		offsetSec = -offsetSec
	}
	offsetH := offsetSec / 3600
	offsetM := (offsetSec % 3600) / 60

	return fmt.Sprintf("%s, %02d %s %04d %02d:%02d:%02d %c%02d%02d",
		weekdays[now.Weekday()], now.Day(), monthNames[now.Month()-1], now.Year(),
		now.Hour(), now.Minute(), now.Second(),
		sign, offsetH, offsetM)
}

// generateBoundary draws a boundary token of the form "Boundary" + n
// decimal digits, redrawing until the candidate doesn't appear inside body
// — a boundary collision would prematurely close a MIME part. rnd supplies
// randomness; Config.Rand defaults to crypto/rand.Reader, but any
// io.Reader can be injected (e.g. in tests, to pin the boundary).
func generateBoundary(rnd io.Reader, digits int, body string) (string, error) {
	buf := make([]byte, digits)
	for {
		if _, err := io.ReadFull(rnd, buf); err != nil {
			return "", newStatusError(Buffer, "could not draw boundary randomness: "+err.Error())
		}
		var sb strings.Builder
		sb.WriteString(boundaryPrefix)
		for _, b := range buf {
			sb.WriteByte('0' + b%10)
		}
		candidate := sb.String()
		if !strings.Contains(body, candidate) {
			return candidate, nil
		}
	}
}

// writeAddressHeaders renders the From/To/Cc header block from the ledger,
// grouping consecutive entries of the same kind onto one folded header per
// spec.md §4.4 item 2: a new "Kind: " label is emitted only when the kind
// changes; same-kind entries are joined with ",\r\n ".
func writeAddressHeaders(b *sendBuffer, l *ledger) error {
	prevKind := AddressKind(-1)
	for i, e := range l.entries {
		if i == 0 || e.kind != prevKind {
			if i != 0 {
				if err := b.append(crlf); err != nil {
					return err
				}
			}
			if err := b.appendString(e.kind.String() + ": "); err != nil {
				return err
			}
		} else {
			if err := b.appendAll([]byte(","), crlf, []byte(" ")); err != nil {
				return err
			}
		}
		if err := b.appendString(e.original); err != nil {
			return err
		}
		prevKind = e.kind
	}
	if l.len() > 0 {
		if err := b.append(crlf); err != nil {
			return err
		}
	}
	return nil
}

// writeMIMEBody drives the MIME-multipart rendering of the body and
// attachments through b: the envelope headers, the text/plain body part,
// one base64-encoded part per attachment (with 76-column line folding),
// and the closing delimiter. It is a direct port of richwalm/ssmtp's
// MIMEData.
func writeMIMEBody(b *sendBuffer, rnd io.Reader, boundaryDigits int, body string, attachments Attachments) error {
	boundary, err := generateBoundary(rnd, boundaryDigits, body)
	if err != nil {
		return err
	}

	if err := b.appendAll(
		[]byte("MIME-Version: 1.0"), crlf,
		[]byte("Content-Type: multipart/mixed; boundary="+boundary), crlf,
		crlf,
	); err != nil {
		return newStatusError(Protocol, err.Error())
	}

	if err := b.appendAll(
		[]byte("--"+boundary), crlf,
		[]byte("Content-Type: text/plain"), crlf,
		crlf,
		[]byte(body), crlf,
	); err != nil {
		return newStatusError(Protocol, err.Error())
	}

	for _, a := range attachments {
		if err := writeAttachmentPart(b, boundary, a); err != nil {
			return err
		}
	}

	if err := b.appendAll([]byte("--"+boundary+"--")); err != nil {
		return newStatusError(Protocol, err.Error())
	}
	return nil
}

func writeAttachmentPart(b *sendBuffer, boundary string, a Attachment) error {
	if err := b.appendAll(
		[]byte("--"+boundary), crlf,
		[]byte("Content-Type: "+a.mimeType()), crlf,
		[]byte("Content-Disposition: attachment"),
	); err != nil {
		return newStatusError(Protocol, err.Error())
	}
	if a.Name != "" {
		if err := b.appendString("; filename=" + a.Name); err != nil {
			return newStatusError(Protocol, err.Error())
		}
	}
	if err := b.appendAll(crlf, []byte("Content-Transfer-Encoding: base64"), crlf, crlf); err != nil {
		return newStatusError(Protocol, err.Error())
	}

	if err := writeBase64Part(b, a); err != nil {
		return err
	}
	return nil
}

// writeBase64Part reads a's Reader to EOF, driving the streaming base64
// encoder and folding its output at mimeLineLength columns. A read error
// (other than io.EOF) is a Data error — the reader is contractually
// responsible for its own cleanup in that case, so writeBase64Part does
// not call Close. A sink failure mid-attachment is a Protocol error, and
// in that case writeBase64Part does invoke Close, since the failure is the
// engine's, not the reader's.
func writeBase64Part(b *sendBuffer, a Attachment) error {
	var (
		enc  = newBase64Stream()
		in   = make([]byte, 4096)
		out  = make([]byte, 4096)
		col  = 0
		done = false
	)

	for !done {
		n, rerr := a.Reader.Read(in)
		if rerr != nil && rerr != io.EOF {
			return newStatusError(Data, "attachment read failed: "+rerr.Error())
		}
		if n == 0 || rerr == io.EOF {
			done = true
		}

		chunk := in[:n]
		for len(chunk) > 0 || done {
			consumed, produced := enc.step(chunk, out, done)
			if produced > 0 {
				if err := foldBase64(b, out[:produced], &col); err != nil {
					a.closeOnError()
					return newStatusError(Protocol, err.Error())
				}
			}
			chunk = chunk[consumed:]
			if done && len(chunk) == 0 && produced < len(out) {
				break
			}
		}
	}

	if col != 0 {
		if err := b.append(crlf); err != nil {
			a.closeOnError()
			return newStatusError(Protocol, err.Error())
		}
	}
	return nil
}

// foldBase64 writes p through b, inserting a CRLF every mimeLineLength
// columns regardless of how the encoder chunked its output, and advances
// *col across calls so folding is correct no matter how writeBase64Part's
// caller sized its buffers.
func foldBase64(b *sendBuffer, p []byte, col *int) error {
	for len(p) > 0 {
		room := mimeLineLength - *col
		n := room
		if n > len(p) {
			n = len(p)
		}
		if err := b.append(p[:n]); err != nil {
			return err
		}
		*col += n
		p = p[n:]
		if *col >= mimeLineLength {
			if err := b.append(crlf); err != nil {
				return err
			}
			*col = 0
		}
	}
	return nil
}
