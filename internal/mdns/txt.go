package mdns

import "fmt"

// ServiceInfo is everything the TXT/PTR/SRV records need to describe
// this printer's one advertised service.
type ServiceInfo struct {
	Name         string // printer display name, used to build the service instance name
	Hostname     string // sanitized hostname, see SanitizeHostname
	IP           [4]byte
	Port         int
	SSLPort      int
	HTTPSAvailable bool
	UUID         string
	Manufacturer string
	Model        string
	Serial       string
	Location     string
	DocumentFormats []string // MIME types, used to derive pdl
}

// txtPair is one ordered key=value entry; order matters because some
// mDNS browsers display TXT records in receipt order.
type txtPair struct {
	key   string
	value string
}

// buildTXTPairs returns the ordered TXT attribute list, an exact port of
// the original's txt_attrs dict (which in CPython 3.7+ preserves
// insertion order) built by _create_service_packet, including the
// scheme-dependent adminurl/TLS/URISchemes override at the end.
func buildTXTPairs(info ServiceInfo, isSSL bool) []txtPair {
	adminScheme := "http"
	adminPort := info.Port
	if info.HTTPSAvailable {
		adminPort = info.SSLPort
		adminScheme = "https"
	}

	pairs := []txtPair{
		{"txtvers", "1"},
		{"adminurl", fmt.Sprintf("%s://%s.local:%d/", adminScheme, info.Hostname, adminPort)},
		{"note", info.Location},
		{"product", fmt.Sprintf("(%s)", info.Model)},
		{"ty", fmt.Sprintf("%s %s", info.Manufacturer, info.Model)},
		{"usb_MFG", info.Manufacturer},
		{"usb_MDL", info.Model},
		// Preserved quirk: PCL is advertised here even though it never
		// appears in document-format-supported — see DESIGN.md.
		{"usb_CMD", "POSTSCRIPT,PDF,PCL"},
		{"SN", info.Serial},
		{"UUID", info.UUID},
		{"rp", "ipp/print"},
		{"pdl", joinFormats(info.DocumentFormats)},
		{"qtotal", "1"},
		{"priority", "0"},
		{"Color", "T"},
		{"Duplex", "T"},
		{"Copies", "T"},
		{"Collate", "F"},
		{"Staple", "F"},
		{"hostname", info.Hostname + ".local"},
		{"papersize", "na_letter_8.5x11in,iso_a4_210x297mm,iso_a5_148x210mm,na_legal_8.5x14in,om_folio_210x330mm,jpn_hagaki_100x148mm"},
		{"resolution", "300,600,1200dpi"},
		{"kind", "document,envelope,postcard,photo,label"},
		{"paper", "plain,photo,glossy,transparency"},
		{"print_color_mode", "color,monochrome"},
		{"Bin", "tray1,tray2,photo-tray"},
		{"photo", "T"},
		{"photopaper", "T"},
		{"photoresolution", "1200,2400dpi"},
	}

	switch {
	case isSSL && info.HTTPSAvailable:
		pairs = append(pairs, txtPair{"TLS", "1"}, txtPair{"URISchemes", "https,ipps"})
	case info.HTTPSAvailable:
		pairs = append(pairs, txtPair{"URISchemes", "https,ipps"})
	default:
		pairs = append(pairs, txtPair{"URISchemes", "http,ipp"})
	}

	return pairs
}

func joinFormats(formats []string) string {
	out := ""
	for i, f := range formats {
		if i > 0 {
			out += ","
		}
		out += f
	}
	return out
}

// encodeTXTData packs ordered TXT pairs into the wire format: each
// "key=value" entry UTF-8 encoded, truncated to 255 bytes, and
// length-prefixed with a single byte.
func encodeTXTData(pairs []txtPair) []byte {
	var out []byte
	for _, p := range pairs {
		entry := []byte(p.key + "=" + p.value)
		if len(entry) > 255 {
			entry = entry[:255]
		}
		out = append(out, byte(len(entry)))
		out = append(out, entry...)
	}
	return out
}
