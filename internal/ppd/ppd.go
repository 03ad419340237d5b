// Package ppd produces a minimal static PPD document for a printer, the
// way CUPS clients that still probe "GET /printer.ppd" expect. This is
// not a PPD compiler: it's a fixed header plus the printer's media list,
// grounded on original_source/ippserver/ppd.py's overall shape but
// without its translation layer or its full per-model paper-size tables.
package ppd

import (
	"fmt"
	"strings"

	"github.com/h2g2bob/ippserver/internal/printer"
)

// Generate builds the PPD text for p.
func Generate(p *printer.Printer) []byte {
	var b strings.Builder

	fmt.Fprintf(&b, "*PPD-Adobe: \"4.3\"\n\n")
	fmt.Fprintf(&b, "*LanguageLevel: \"3\"\n")
	fmt.Fprintf(&b, "*LanguageEncoding: ISOLatin1\n")
	fmt.Fprintf(&b, "*LanguageVersion: English\n")
	fmt.Fprintf(&b, "*PCFileName: \"%s.ppd\"\n\n", sanitize(p.Model))

	fmt.Fprintf(&b, "*Product: \"(%s)\"\n", p.Name)
	fmt.Fprintf(&b, "*Manufacturer: \"%s\"\n", p.Manufacturer)
	fmt.Fprintf(&b, "*ModelName: \"%s\"\n", p.Model)
	fmt.Fprintf(&b, "*ShortNickName: \"%s\"\n", p.Model)
	fmt.Fprintf(&b, "*NickName: \"%s\"\n", p.MakeAndModel())
	fmt.Fprintf(&b, "*cupsVersion: 2.3\n\n")

	fmt.Fprintf(&b, "*ColorDevice: %s\n", boolKeyword(p.ColorSupported))
	fmt.Fprintf(&b, "*DefaultColorSpace: %s\n", colorSpace(p.ColorSupported))
	fmt.Fprintf(&b, "*Throughput: \"1\"\n")
	fmt.Fprintf(&b, "*cupsManualCopies: False\n\n")

	fmt.Fprintf(&b, "*OpenUI *PageSize/Page Size: PickOne\n")
	fmt.Fprintf(&b, "*OrderDependency: 10 AnySetup *PageSize\n")
	fmt.Fprintf(&b, "*DefaultPageSize: %s\n", ppdMediaName(printer.MediaDefault))
	for _, m := range printer.MediaSupported {
		name := ppdMediaName(m)
		fmt.Fprintf(&b, "*PageSize %s/%s: \"<</PageSize[%s]>>setpagedevice\"\n", name, name, name)
	}
	fmt.Fprintf(&b, "*CloseUI: *PageSize\n\n")

	fmt.Fprintf(&b, "*OpenUI *Duplex/Double-Sided Printing: PickOne\n")
	fmt.Fprintf(&b, "*DefaultDuplex: None\n")
	fmt.Fprintf(&b, "*Duplex None/Off: \"<</Duplex false>>setpagedevice\"\n")
	if p.DuplexSupported {
		fmt.Fprintf(&b, "*Duplex DuplexNoTumble/Long Edge: \"<</Duplex true/Tumble false>>setpagedevice\"\n")
		fmt.Fprintf(&b, "*Duplex DuplexTumble/Short Edge: \"<</Duplex true/Tumble true>>setpagedevice\"\n")
	}
	fmt.Fprintf(&b, "*CloseUI: *Duplex\n\n")

	fmt.Fprintf(&b, "*cupsFilter2: \"application/pdf 0 -\"\n")
	fmt.Fprintf(&b, "*%%End\n")

	return []byte(b.String())
}

func boolKeyword(v bool) string {
	if v {
		return "True"
	}
	return "False"
}

func colorSpace(color bool) string {
	if color {
		return "RGB"
	}
	return "Gray"
}

// ppdMediaName turns a PWG media keyword like "na_letter_8.5x11in" into a
// PPD-style token like "na_letter_8.5x11in" unchanged — PPD PageSize
// tokens don't need escaping for the keyword set this printer supports.
func ppdMediaName(pwgKeyword string) string {
	return pwgKeyword
}

func sanitize(s string) string {
	return strings.ReplaceAll(s, " ", "_")
}
