package ssmtp

// sendSink is the callback a sendBuffer flushes through. It returns nil on
// success; any other error is propagated to the buffer's caller without
// retrying. The sink is responsible for handling short writes itself (the
// buffer makes exactly one call per flush).
type sendSink func(p []byte) error

// sendBuffer is a fixed-capacity coalescing buffer: it accumulates bytes
// and only invokes its sink once it has a capacity's worth to send, or on
// an explicit flush. This is a direct port of richwalm/ssmtp's CSendBuffer,
// whose purpose was to avoid issuing a socket write for every few bytes of
// a hand-assembled SMTP command or MIME part.
type sendBuffer struct {
	data   []byte
	cursor int
	sink   sendSink
}

// newSendBuffer returns a sendBuffer with the given capacity, flushing
// through sink.
func newSendBuffer(capacity int, sink sendSink) *sendBuffer {
	return &sendBuffer{data: make([]byte, capacity), sink: sink}
}

// append copies p into the buffer, flushing through the sink as many times
// as needed to fit. On a sink error, append returns immediately: bytes
// already accepted by an earlier flush in this call are not lost, but
// nothing past the failure point is appended.
func (b *sendBuffer) append(p []byte) error {
	for len(p) > 0 {
		room := len(b.data) - b.cursor
		n := room
		if n > len(p) {
			n = len(p)
		}
		copy(b.data[b.cursor:], p[:n])
		b.cursor += n
		p = p[n:]

		if b.cursor >= len(b.data) {
			if err := b.sink(b.data[:b.cursor]); err != nil {
				return err
			}
			b.cursor = 0
		}
	}
	return nil
}

// appendAll appends each part in order, stopping at the first error. This
// replaces the C original's CSendStrings varargs convenience (which relied
// on NUL-terminated C strings and a nil sentinel); Go slices carry their
// own length, so no sentinel is needed.
func (b *sendBuffer) appendAll(parts ...[]byte) error {
	for _, p := range parts {
		if err := b.append(p); err != nil {
			return err
		}
	}
	return nil
}

// appendString is a convenience wrapper around append for string literals.
func (b *sendBuffer) appendString(s string) error {
	return b.append([]byte(s))
}

// flush invokes the sink exactly once with the currently accumulated
// prefix. It is a no-op when the cursor is already at 0.
func (b *sendBuffer) flush() error {
	if b.cursor == 0 {
		return nil
	}
	if err := b.sink(b.data[:b.cursor]); err != nil {
		return err
	}
	b.cursor = 0
	return nil
}
