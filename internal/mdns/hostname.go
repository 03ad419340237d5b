package mdns

import "strings"

// SanitizeHostname turns an arbitrary printer name into an mDNS-safe
// single-label hostname. The exact order of these steps matters and is
// carried over from the original's _sanitize_hostname: spaces become
// hyphens before anything else is stripped, and consecutive hyphens are
// only collapsed after truncation/fallback, so a truncation boundary
// landing between two hyphens still gets cleaned up.
func SanitizeHostname(name string) string {
	if name == "" {
		return "ipp-printer"
	}

	sanitized := strings.ReplaceAll(name, " ", "-")
	sanitized = stripNonHostnameChars(sanitized)
	sanitized = strings.Trim(sanitized, "-")
	sanitized = strings.ToLower(sanitized)

	switch {
	case len(sanitized) > 63:
		sanitized = sanitized[:63]
	case len(sanitized) == 0:
		sanitized = "ipp-printer"
	}

	for strings.Contains(sanitized, "--") {
		sanitized = strings.ReplaceAll(sanitized, "--", "-")
	}

	return sanitized
}

func stripNonHostnameChars(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
