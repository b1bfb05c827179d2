// Package ssmtp is a client library for delivering a single mail message
// over plain SMTP (RFC 5321), without a local mail submission agent.
//
// Given a destination domain, a sender address, one or more recipients, a
// subject, a body, and zero or more attachments, a Session locates an
// accepting mail exchanger via MX discovery, opens a TCP connection,
// carries out the SMTP conversation (HELO, MAIL FROM, RCPT TO, DATA, RSET,
// QUIT), and frames the message as MIME multipart/mixed with base64-encoded
// attachments when one or more are present.
//
// A Session is a simple state machine:
//
//	Disconnected --Connect--> Connected --Address(From)--> AwaitingRecipient
//	AwaitingRecipient --Address(To/Cc/Bcc)--> Ready --Data--> Ready
//
// Reset returns an AwaitingRecipient or Ready session to Connected, clearing the
// address ledger. Disconnect (or any transport/protocol error) returns a
// session to Disconnected. Calling a method from a state it doesn't permit
// returns InvalidState without touching the wire.
//
// SMTP AUTH, STARTTLS/SMTPS, command pipelining, and ESMTP extension
// negotiation are out of scope: the engine speaks plain RFC 5321 with a
// single HELO greeting.
package ssmtp
