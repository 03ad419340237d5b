package mdns

import (
	"encoding/binary"
)

// DNS record types used by the service advertisements this server sends.
const (
	dnsTypeA   uint16 = 1
	dnsTypePTR uint16 = 12
	dnsTypeTXT uint16 = 16
	dnsTypeSRV uint16 = 33

	dnsClassINCacheFlush uint16 = 0x8001
)

// encodeName encodes a dotted DNS name as length-prefixed labels
// terminated by a zero byte. Each label is truncated to 63 bytes if
// needed and written as raw UTF-8 — unlike presentation-format DNS
// names, mDNS service instance names may contain spaces and other
// punctuation unescaped inside a label.
func encodeName(name string) []byte {
	var out []byte
	for _, part := range splitLabels(name) {
		b := []byte(part)
		if len(b) > 63 {
			b = b[:63]
		}
		out = append(out, byte(len(b)))
		out = append(out, b...)
	}
	out = append(out, 0)
	return out
}

func splitLabels(name string) []string {
	var labels []string
	start := 0
	for i := 0; i < len(name); i++ {
		if name[i] == '.' {
			labels = append(labels, name[start:i])
			start = i + 1
		}
	}
	labels = append(labels, name[start:])
	return labels
}

// createRecord builds one DNS resource record: name, type, class (with
// the mDNS cache-flush bit set), TTL, and length-prefixed data.
func createRecord(name string, rtype uint16, ttl uint32, data []byte) []byte {
	var out []byte
	out = append(out, encodeName(name)...)
	out = appendUint16(out, rtype)
	out = appendUint16(out, dnsClassINCacheFlush)
	out = appendUint32(out, ttl)
	out = appendUint16(out, uint16(len(data)))
	out = append(out, data...)
	return out
}

func appendUint16(b []byte, v uint16) []byte {
	var tmp [2]byte
	binary.BigEndian.PutUint16(tmp[:], v)
	return append(b, tmp[:]...)
}

func appendUint32(b []byte, v uint32) []byte {
	var tmp [4]byte
	binary.BigEndian.PutUint32(tmp[:], v)
	return append(b, tmp[:]...)
}
