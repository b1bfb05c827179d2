package ssmtp

import (
	"bufio"
	"io"
	"net"
	"time"
)

// State is a Session's lifecycle position, per spec: DISCONNECTED has no
// transport and an empty ledger; CONNECTED means the greeting succeeded and
// no MAIL FROM has been sent; AwaitingRecipient means MAIL FROM was
// accepted and no RCPT TO yet; Ready means at least one RCPT TO was
// accepted.
type State int

const (
	Disconnected State = iota
	Connected
	AwaitingRecipient
	Ready
)

func (s State) String() string {
	switch s {
	case Disconnected:
		return "disconnected"
	case Connected:
		return "connected"
	case AwaitingRecipient:
		return "awaiting_recipient"
	case Ready:
		return "ready"
	default:
		return "unknown"
	}
}

// Session is one SMTP dialog: a transport, a lifecycle state, cumulative
// byte counters, and the address ledger rendered into the DATA headers. The
// caller owns a Session single-threaded — nothing here is safe for
// concurrent use by more than one goroutine at a time, matching the
// strictly synchronous model the C original assumes.
type Session struct {
	cfg Config

	conn    *countingConn
	replies *replyReader

	state  State
	domain string
	host   string
	ledger ledger
}

// NewSession builds a Session from cfg, filling any zero field with its
// documented default. The returned Session starts Disconnected; call
// Connect before anything else.
func NewSession(cfg Config) (*Session, error) {
	cfg, err := cfg.withDefaults()
	if err != nil {
		return nil, err
	}
	return &Session{cfg: cfg, state: Disconnected}, nil
}

// State reports the session's current lifecycle position.
func (s *Session) State() State { return s.state }

// BytesSent is the cumulative count of bytes written to the wire since the
// last successful Connect. Observational only; never reset except by a
// fresh Connect.
func (s *Session) BytesSent() uint64 {
	if s.conn == nil {
		return 0
	}
	return s.conn.sent
}

// BytesReceived is the cumulative count of bytes read from the wire since
// the last successful Connect.
func (s *Session) BytesReceived() uint64 {
	if s.conn == nil {
		return 0
	}
	return s.conn.received
}

// countingConn wraps a net.Conn to maintain the session's monotonic
// send/receive counters, standing in for the C original's Conn->TotalSent /
// Conn->TotalRecv fields.
type countingConn struct {
	net.Conn
	sent, received uint64
}

func (c *countingConn) Read(p []byte) (int, error) {
	n, err := c.Conn.Read(p)
	c.received += uint64(n)
	return n, err
}

func (c *countingConn) Write(p []byte) (int, error) {
	n, err := c.Conn.Write(p)
	c.sent += uint64(n)
	return n, err
}

func (s *Session) publish(topic Event, args ...interface{}) {
	if s.cfg.EventBus == nil {
		return
	}
	s.cfg.EventBus.Publish(topic, args...)
}

// Connect performs MX DISCOVERY followed by CONNECT-AND-GREET against each
// candidate host in turn, in ascending MX preference order, succeeding as
// soon as one candidate completes the HELO exchange with 250. If the MX
// lookup itself fails or returns nothing, or if every MX candidate it does
// return fails to connect, Connect falls back to one A-record attempt
// against domain itself.
func (s *Session) Connect(domain string) error {
	if s.state != Disconnected {
		return newStatusError(InvalidState, "Connect: session is not Disconnected")
	}

	candidates := mxCandidates(s.cfg.Resolver, domain)
	tried := make(map[string]bool, len(candidates)+1)
	var lastErr error

	for _, host := range candidates {
		if tried[host] {
			continue
		}
		tried[host] = true

		s.publish(EventMXTried, domain, host)
		if err := s.connectAndGreet(domain, host); err != nil {
			s.cfg.Logger.WithHost(host).WithError(err).Debug("candidate failed")
			lastErr = err
			continue
		}
		s.domain, s.host = domain, host
		s.state = Connected
		s.publish(EventConnected, domain, host)
		return nil
	}

	// mxCandidates already returns domain itself when the MX lookup
	// failed or was empty; this covers the remaining case, where real MX
	// records existed but every one of them refused the connection.
	if !tried[domain] {
		s.publish(EventMXTried, domain, domain)
		if err := s.connectAndGreet(domain, domain); err == nil {
			s.domain, s.host = domain, domain
			s.state = Connected
			s.publish(EventConnected, domain, domain)
			return nil
		} else {
			lastErr = err
		}
	}

	if lastErr == nil {
		lastErr = newStatusError(Failure, "no MX or A record for "+domain)
	}
	return newStatusError(Failure, "all candidates failed: "+lastErr.Error())
}

// connectAndGreet resolves host to one or more addresses, and for each in
// turn: dials with cfg.ConnectTimeout, reads the 220 greeting, sends
// HELO <cfg.HeloName>, and reads the 250 reply. The first address whose
// full exchange succeeds wins; any failing step closes that socket and
// moves on to the next address.
func (s *Session) connectAndGreet(domain, host string) error {
	addrs, err := s.cfg.Resolver.LookupHost(host)
	if err != nil || len(addrs) == 0 {
		addrs = []string{host}
	}

	var lastErr error
	for _, addr := range addrs {
		raw, err := net.DialTimeout("tcp", net.JoinHostPort(addr, s.cfg.Port), s.cfg.ConnectTimeout)
		if err != nil {
			lastErr = newStatusError(Protocol, "dial "+addr+": "+err.Error())
			continue
		}
		conn := &countingConn{Conn: raw}
		replies := newReplyReader(bufio.NewReader(conn))

		conn.SetReadDeadline(time.Now().Add(s.cfg.ReadTimeout))
		greeting, err := replies.readReply()
		if err != nil {
			conn.Close()
			lastErr = err
			continue
		}
		if greeting.Code != 220 {
			conn.Close()
			lastErr = newReplyError(Failure, greeting.Code, greeting.Text)
			continue
		}

		if _, err := io.WriteString(conn, "HELO "+s.cfg.HeloName+"\r\n"); err != nil {
			conn.Close()
			lastErr = newStatusError(Protocol, "HELO write: "+err.Error())
			continue
		}
		conn.SetReadDeadline(time.Now().Add(s.cfg.ReadTimeout))
		helloReply, err := replies.readReply()
		if err != nil {
			conn.Close()
			lastErr = err
			continue
		}
		if helloReply.Code != 250 {
			conn.Close()
			lastErr = newReplyError(Failure, helloReply.Code, helloReply.Text)
			continue
		}

		s.conn = conn
		s.replies = replies
		return nil
	}

	if lastErr == nil {
		lastErr = newStatusError(Protocol, "no addresses resolved for "+host)
	}
	return lastErr
}

// sendCommand writes cmd (which must already be CRLF-terminated) and reads
// back exactly one reply.
func (s *Session) sendCommand(cmd string) (reply, error) {
	s.conn.SetReadDeadline(time.Now().Add(s.cfg.ReadTimeout))
	if _, err := io.WriteString(s.conn, cmd); err != nil {
		return reply{}, newStatusError(Protocol, "write failed: "+err.Error())
	}
	return s.replies.readReply()
}

// Address submits one participant. kind selects the SMTP verb (MAIL FROM
// for AddressFrom, RCPT TO otherwise) and the required prior state (see the
// state table in Session's package doc). On success the full original
// input — not the parsed wire address — is appended to the ledger, unless
// kind is AddressBCC: BCC addresses are sent on the wire but never recorded,
// so they never appear in a rendered header.
func (s *Session) Address(kind AddressKind, address string) error {
	switch kind {
	case AddressFrom:
		if s.state != Connected {
			return newStatusError(InvalidState, "Address(From): requires Connected state")
		}
	case AddressTo, AddressCC, AddressBCC:
		if s.state != AwaitingRecipient && s.state != Ready {
			return newStatusError(InvalidState, "Address: requires AwaitingRecipient or Ready state")
		}
	default:
		return newStatusError(Data, "unrecognised address kind")
	}

	wireAddr, err := parseAddress(address)
	if err != nil {
		return err
	}

	var cmd string
	if kind == AddressFrom {
		cmd = "MAIL FROM:<" + wireAddr + ">\r\n"
	} else {
		cmd = "RCPT TO:<" + wireAddr + ">\r\n"
	}

	rep, err := s.sendCommand(cmd)
	if err != nil {
		s.shutdown(err)
		return err
	}
	if rep.Code != 250 && rep.Code != 251 {
		return newReplyError(Failure, rep.Code, rep.Text)
	}

	switch kind {
	case AddressFrom:
		s.ledger.append(AddressFrom, address)
		s.state = AwaitingRecipient
	case AddressTo:
		s.ledger.append(AddressTo, address)
		if s.state == AwaitingRecipient {
			s.state = Ready
		}
	case AddressCC:
		s.ledger.append(AddressCC, address)
		if s.state == AwaitingRecipient {
			s.state = Ready
		}
	case AddressBCC:
		if s.state == AwaitingRecipient {
			s.state = Ready
		}
	}

	s.publish(EventAddressed, kind, address)
	return nil
}

// Data sends the DATA command and, once the server replies 354, the full
// MIME envelope (Date/address/Subject headers, then either the bare body or
// a multipart/mixed envelope if attachments were supplied), terminated by
// the end-of-data sentinel. The session is left Ready on success — per the
// redesign note this deliberately does not clear the ledger, so a second
// Data without an intervening Reset re-renders the same recipients.
func (s *Session) Data(subject, body string, attachments Attachments) error {
	if s.state != Ready {
		return newStatusError(InvalidState, "Data: requires Ready state")
	}
	if containsEndOfData(body) {
		return newStatusError(Data, "body contains the end-of-data sentinel")
	}

	rep, err := s.sendCommand("DATA\r\n")
	if err != nil {
		s.shutdown(err)
		return err
	}
	if rep.Code != 354 {
		return newReplyError(Failure, rep.Code, rep.Text)
	}

	s.conn.SetReadDeadline(time.Now().Add(s.cfg.ReadTimeout))
	sink := func(p []byte) error {
		if _, err := s.conn.Write(p); err != nil {
			return newStatusError(Protocol, "write failed: "+err.Error())
		}
		return nil
	}
	buf := newSendBuffer(2048, sink)

	fail := func(err error) error {
		s.shutdown(err)
		return err
	}

	if err := buf.appendString("Date: " + rfc5322Date(time.Now()) + "\r\n"); err != nil {
		return fail(err)
	}
	if err := writeAddressHeaders(buf, &s.ledger); err != nil {
		return fail(err)
	}
	if subject != "" {
		if err := buf.appendString("Subject: " + subject + "\r\n"); err != nil {
			return fail(err)
		}
	}

	if len(attachments) == 0 {
		if err := buf.appendAll(crlf, []byte(body)); err != nil {
			return fail(err)
		}
	} else {
		if err := writeMIMEBody(buf, s.cfg.Rand, s.cfg.BoundaryDigits, body, attachments); err != nil {
			return fail(err)
		}
	}

	if err := buf.append(endOfData); err != nil {
		return fail(err)
	}
	if err := buf.flush(); err != nil {
		return fail(err)
	}

	rep, err = s.replies.readReply()
	if err != nil {
		s.shutdown(err)
		return err
	}
	if rep.Code != 250 {
		return newReplyError(Failure, rep.Code, rep.Text)
	}

	s.publish(EventDataSent, int(s.conn.sent))
	return nil
}

// Reset sends RSET, clearing the ledger and returning to Connected (the
// sender must be re-submitted via a fresh Address(From, ...)).
func (s *Session) Reset() error {
	if s.state != AwaitingRecipient && s.state != Ready {
		return newStatusError(InvalidState, "Reset: requires AwaitingRecipient or Ready state")
	}

	rep, err := s.sendCommand("RSET\r\n")
	if err != nil {
		s.shutdown(err)
		return err
	}
	if rep.Code != 250 {
		return newReplyError(Failure, rep.Code, rep.Text)
	}

	s.ledger.reset()
	s.state = Connected
	return nil
}

// Disconnect sends QUIT (advisory; its reply and any write error are both
// ignored) and shuts the session down unconditionally.
func (s *Session) Disconnect() error {
	if s.state == Disconnected {
		return newStatusError(InvalidState, "Disconnect: session already Disconnected")
	}
	_, _ = s.sendCommand("QUIT\r\n")
	s.shutdown(nil)
	return nil
}

// shutdown closes the transport, clears the ledger, and sets state
// Disconnected. reason is nil for a caller-requested Disconnect, and
// non-nil when invoked from a protocol or transport error — either way it
// is published via EventDisconnected, and via EventError too when non-nil.
// The closed connection is kept so BytesSent/BytesReceived keep reporting
// its totals until the next successful Connect replaces it.
func (s *Session) shutdown(reason error) {
	if s.conn != nil {
		s.conn.Close()
	}
	s.replies = nil
	s.ledger.reset()
	s.state = Disconnected

	s.publish(EventDisconnected, reason)
	if reason != nil {
		s.publish(EventError, reason)
	}
}
