package ssmtp

import "io"

// Attachment is one file to be delivered as a MIME part. Name and MIMEType
// are both optional; an empty MIMEType renders as application/octet-stream.
//
// Reader is caller-owned: the engine only borrows it for the duration of
// the Data call. On a normal end of input (io.EOF with no prior error) the
// caller is responsible for closing it, matching the C original's contract
// that Close is "only called when an internal error occurs". If Reader also
// implements io.Closer, Close is invoked exactly once, and only when a
// transport failure aborts the attachment mid-stream (the engine never
// calls Close after a clean read-to-EOF).
type Attachment struct {
	Name     string
	MIMEType string
	Reader   io.Reader
}

// Attachments is an ordered sequence of attachment descriptors. The C
// original threads these through a forward-linked list (SMTPAttach.Next);
// per the spec's redesign notes that's a source-organization detail, not
// part of the contract, so this port uses a plain ordered slice instead.
type Attachments []Attachment

func (a Attachment) mimeType() string {
	if a.MIMEType == "" {
		return "application/octet-stream"
	}
	return a.MIMEType
}

func (a Attachment) closeOnError() {
	if c, ok := a.Reader.(io.Closer); ok {
		_ = c.Close()
	}
}
