package hash

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// SHA256Hex returns the hex-encoded SHA256 hash of the input string.
func SHA256Hex(input string) string {
	h := sha256.Sum256([]byte(input))
	return hex.EncodeToString(h[:])
}

// Sentence returns the stable hash of a sentence: SHA256 of the trimmed
// text. The consumption ledger keys sentences by this value.
func Sentence(text string) string {
	return SHA256Hex(strings.TrimSpace(text))
}

// ShortIP produces a short, irreversible hash prefix of an IP address for
// log correlation without storing raw PII.
func ShortIP(ip string) string {
	return SHA256Hex(ip)[:12]
}

// AnonymizeIP strips the host-identifying tail of an address before it is
// persisted. IPv4 keeps the first two octets; IPv6 keeps the first four
// groups. Malformed input is dropped rather than stored raw.
func AnonymizeIP(ip string) string {
	if ip == "" {
		return ""
	}
	if strings.Contains(ip, ":") {
		parts := strings.Split(ip, ":")
		if len(parts) >= 4 {
			return strings.Join(parts[:4], ":") + "::"
		}
		return ip
	}
	parts := strings.Split(ip, ".")
	if len(parts) == 4 {
		return parts[0] + "." + parts[1] + ".0.0"
	}
	return ""
}
