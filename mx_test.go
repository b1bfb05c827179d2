package ssmtp

import (
	"errors"
	"net"
	"testing"
)

type fakeResolver struct {
	mx      []*net.MX
	mxErr   error
	hostErr error
}

func (f fakeResolver) LookupMX(domain string) ([]*net.MX, error) { return f.mx, f.mxErr }
func (f fakeResolver) LookupHost(host string) ([]string, error) {
	if f.hostErr != nil {
		return nil, f.hostErr
	}
	return []string{"127.0.0.1"}, nil
}

func TestMXCandidatesSortedByPreference(t *testing.T) {
	r := fakeResolver{mx: []*net.MX{
		{Host: "b.example.org.", Pref: 20},
		{Host: "a.example.org.", Pref: 10},
	}}
	got := mxCandidates(r, "example.org")
	want := []string{"a.example.org", "b.example.org"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("candidate %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestMXCandidatesFallsBackOnLookupError(t *testing.T) {
	r := fakeResolver{mxErr: errors.New("no such host")}
	got := mxCandidates(r, "example.org")
	if len(got) != 1 || got[0] != "example.org" {
		t.Errorf("got %v, want [example.org]", got)
	}
}

func TestMXCandidatesFallsBackOnEmptyList(t *testing.T) {
	r := fakeResolver{}
	got := mxCandidates(r, "example.org")
	if len(got) != 1 || got[0] != "example.org" {
		t.Errorf("got %v, want [example.org]", got)
	}
}

func TestTrimDot(t *testing.T) {
	if got := trimDot("mail.example.org."); got != "mail.example.org" {
		t.Errorf("got %q", got)
	}
	if got := trimDot("mail.example.org"); got != "mail.example.org" {
		t.Errorf("got %q", got)
	}
}
