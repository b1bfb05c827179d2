package ssmtp

// AddressKind identifies the role of an address ledger entry.
type AddressKind int

const (
	// AddressFrom is the single sender. It must be the first ledger entry.
	AddressFrom AddressKind = iota
	AddressTo
	AddressCC
	// AddressBCC is sent on the wire as a RCPT TO but is never appended
	// to the ledger, so it never appears in a rendered header.
	AddressBCC
)

func (k AddressKind) String() string {
	switch k {
	case AddressFrom:
		return "From"
	case AddressTo:
		return "To"
	case AddressCC:
		return "Cc"
	case AddressBCC:
		return "Bcc"
	default:
		return "?"
	}
}

// ledgerEntry is one address as the caller originally supplied it (so a
// quoted display name survives into the rendered header), tagged with its
// kind.
type ledgerEntry struct {
	kind     AddressKind
	original string
}

// ledger is the session's append-only, insertion-ordered record of the
// sender and non-BCC recipients, used to render the From/To/Cc headers in
// the DATA phase. BCC addresses are sent on the wire but are never given to
// ledger.append, so they never appear here.
//
// The C original backs this with a realloc'd byte buffer that doubles in
// size (at least to a 2KB page) as entries are appended. A Go slice of
// structs gives the same amortized-append behavior via the runtime's slice
// growth, without hand-rolled doubling logic — grounded in the same
// insertion-order and one-FROM-only invariants as the original.
type ledger struct {
	entries []ledgerEntry
}

// append adds an entry. The caller is responsible for ensuring at most one
// AddressFrom entry is ever appended, and that it is appended first — the
// session engine enforces this via its state machine before calling
// append.
func (l *ledger) append(kind AddressKind, original string) {
	l.entries = append(l.entries, ledgerEntry{kind: kind, original: original})
}

// reset clears the ledger, freeing its backing storage.
func (l *ledger) reset() {
	l.entries = nil
}

func (l *ledger) len() int {
	return len(l.entries)
}
