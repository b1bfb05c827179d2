package ssmtp

// RFC 5321 §4.5.3.1 length limits applied to the local-part and domain of
// an address handed to Address. A few major mail providers don't respect
// the 64-octet local-part limit in practice, so (matching the behaviour
// this was adapted from) it's doubled here rather than enforced strictly.
const (
	limitLocalPart = 64 * 2
	limitDomain    = 255
)
