package ssmtp

import (
	"bufio"
	"strings"
	"testing"
)

func TestReadReplySingleLine(t *testing.T) {
	r := newReplyReader(bufio.NewReader(strings.NewReader("250 OK\r\n")))
	rep, err := r.readReply()
	if err != nil {
		t.Fatalf("readReply: %v", err)
	}
	if rep.Code != 250 {
		t.Errorf("code = %d, want 250", rep.Code)
	}
}

func TestReadReplyMultiLineStopsAtBoundary(t *testing.T) {
	script := "250-hello\r\n250-PIPELINING\r\n250 SIZE 1024\r\nNOTPARTOFTHISREPLY"
	br := bufio.NewReader(strings.NewReader(script))
	r := newReplyReader(br)

	rep, err := r.readReply()
	if err != nil {
		t.Fatalf("readReply: %v", err)
	}
	if rep.Code != 250 {
		t.Errorf("code = %d, want 250", rep.Code)
	}
	rest, _ := br.ReadString(0)
	if rest != "NOTPARTOFTHISREPLY" {
		t.Errorf("reader consumed past the reply boundary: left %q", rest)
	}
}

func TestReadReplyMalformedDigit(t *testing.T) {
	r := newReplyReader(bufio.NewReader(strings.NewReader("25x OK\r\n")))
	if _, err := r.readReply(); err == nil {
		t.Error("expected an error for a non-digit status byte")
	}
}

func TestReadReplyClosedConnection(t *testing.T) {
	r := newReplyReader(bufio.NewReader(strings.NewReader("")))
	if _, err := r.readReply(); err == nil {
		t.Error("expected an error reading from an exhausted reader")
	}
}
