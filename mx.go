package ssmtp

import (
	"net"
	"sort"

	"golang.org/x/net/idna"
)

// Resolver is the DNS seam the MX discovery step depends on. It exists so
// tests can script lookups without touching a real nameserver; the default
// implementation (netResolver) just calls the net package functions the C
// original's Windows DnsQuery_A path and Loweel-sinksmtp's mxresolve.go
// both reach for.
type Resolver interface {
	LookupMX(domain string) ([]*net.MX, error)
	LookupHost(host string) ([]string, error)
}

type netResolver struct{}

func (netResolver) LookupMX(domain string) ([]*net.MX, error)  { return net.LookupMX(domain) }
func (netResolver) LookupHost(host string) ([]string, error)   { return net.LookupHost(host) }

// mxCandidates returns the hosts to attempt, in the order they should be
// tried: each MX record sorted by ascending preference, or — if the MX
// lookup fails or returns nothing — the domain itself as a single
// A-record fallback candidate, per spec.md's MX DISCOVERY.
func mxCandidates(r Resolver, domain string) []string {
	ascii, err := idna.Lookup.ToASCII(domain)
	if err != nil {
		ascii = domain
	}

	mxs, err := r.LookupMX(ascii)
	if err != nil || len(mxs) == 0 {
		return []string{ascii}
	}

	sort.SliceStable(mxs, func(i, j int) bool {
		return mxs[i].Pref < mxs[j].Pref
	})

	hosts := make([]string, 0, len(mxs))
	for _, mx := range mxs {
		hosts = append(hosts, trimDot(mx.Host))
	}
	return hosts
}

func trimDot(host string) string {
	if len(host) > 0 && host[len(host)-1] == '.' {
		return host[:len(host)-1]
	}
	return host
}
