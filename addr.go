package ssmtp

import "strings"

// parseAddress extracts the bracketed wire address from a caller-supplied
// address string, which may be either a bare "user@host" or a display-name
// form such as `"Mrs. From" <from@example.org>`. It is a direct port of
// richwalm/ssmtp's SMTPAddress bracket scan: '<' and '>' are only
// recognised outside a double-quoted run, a second unmatched '<' or a '>'
// with no preceding '<' is rejected, and when no brackets are present the
// whole input is taken as the address.
//
// parseAddress returns the substring to place inside "MAIL FROM:<...>" /
// "RCPT TO:<...>"; the caller keeps the original input string for the
// ledger and rendered headers.
func parseAddress(input string) (string, error) {
	var (
		start     = -1
		end       = -1
		inQuotes  bool
		reachedEnd bool
	)

	for i := 0; i < len(input); i++ {
		c := input[i]
		if !inQuotes {
			switch c {
			case '<':
				if start != -1 {
					return "", newStatusError(Data, "nested '<' in address")
				}
				start = i + 1
			case '>':
				if start == -1 {
					return "", newStatusError(Data, "unmatched '>' in address")
				}
				end = i
				reachedEnd = true
			}
		}
		if c == '"' {
			inQuotes = !inQuotes
		}
		if reachedEnd {
			break
		}
	}

	var addr string
	switch {
	case start == -1:
		addr = input
	case !reachedEnd:
		return "", newStatusError(Data, "unbalanced '<' in address")
	default:
		addr = input[start:end]
	}

	if !strings.Contains(addr, "@") {
		return "", newStatusError(Data, "address missing '@'")
	}

	local, domain, _ := strings.Cut(addr, "@")
	if len(local) > limitLocalPart {
		return "", newStatusError(Data, "local part too long")
	}
	if len(domain) > limitDomain {
		return "", newStatusError(Data, "domain too long")
	}

	return addr, nil
}
