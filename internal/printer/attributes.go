// Package printer holds the static virtual-printer model: the attribute
// table returned by Get-Printer-Attributes, the supported media/
// resolution/format keyword lists, and printer state derivation from
// job-manager queue state.
package printer

import (
	"time"

	"github.com/h2g2bob/ippserver/internal/ipp"
)

// State is the three-value printer-state enum (RFC 8011 §4.4.11).
type State int32

const (
	StateIdle       State = 3
	StateProcessing State = 4
	StateStopped    State = 5
)

// StateReason is a printer-state-reasons keyword.
type StateReason string

const (
	ReasonNone             StateReason = "none"
	ReasonMediaNeeded      StateReason = "media-needed"
	ReasonPaused           StateReason = "paused"
	ReasonMovingToPaused   StateReason = "moving-to-paused"
)

// DocumentFormatsSupported is the MIME types this printer accepts,
// matching behaviour.py's document_formats_supported list: PDF and
// PostScript at the front (the formats that are actually usable),
// followed by image and generic-octet-stream fallbacks.
var DocumentFormatsSupported = []string{
	"application/pdf",
	"application/postscript",
	"image/jpeg",
	"image/png",
	"image/tiff",
	"image/bmp",
	"image/gif",
	"image/svg+xml",
	"text/plain",
	"application/octet-stream",
}

// PhotoMediaSupported is the photo-print subset of MediaSupported,
// covering the common wallet through poster sizes Windows Photo
// Printing offers in its size picker.
var PhotoMediaSupported = []string{
	"oe_photo-2x3_2x3in", "oe_photo-3x5_3x5in", "oe_photo-4x6_4x6in", "oe_photo-5x7_5x7in",
	"oe_photo-8x10_8x10in",
	"oe_photo-10x15_100x150mm", "oe_photo-13x18_130x180mm", "oe_photo-15x20_150x200mm",
	"oe_photo-20x25_200x250mm", "oe_photo-30x40_300x400mm",
}

// MediaSupported is the printer's advertised media-size keyword list,
// grounded on the PWG standard media-size-self-describing-name registry
// the original's _get_supported_media_sizes() draws from: the full ISO
// A/B/C and JIS B ranges, North-American stock and card sizes, the
// photo-print sizes in PhotoMediaSupported, common envelopes, and the
// custom-size bounds.
var MediaSupported = append(append([]string{
	"iso_a0_841x1189mm", "iso_a1_594x841mm", "iso_a2_420x594mm", "iso_a3_297x420mm",
	"iso_a4_210x297mm", "iso_a5_148x210mm", "iso_a6_105x148mm", "iso_a7_74x105mm",
	"iso_a8_52x74mm", "iso_a9_37x52mm", "iso_a10_26x37mm",
	"iso_b0_1000x1414mm", "iso_b1_707x1000mm", "iso_b2_500x707mm", "iso_b3_353x500mm",
	"iso_b4_250x353mm", "iso_b5_176x250mm", "iso_b6_125x176mm", "iso_b7_88x125mm",
	"iso_b8_62x88mm", "iso_b9_44x62mm", "iso_b10_31x44mm",
	"iso_c0_917x1297mm", "iso_c1_648x917mm", "iso_c2_458x648mm", "iso_c3_324x458mm",
	"iso_c4_229x324mm", "iso_c5_162x229mm", "iso_c6_114x162mm", "iso_c7_81x114mm",
	"iso_c8_57x81mm", "iso_c9_40x57mm", "iso_c10_28x40mm",
	"iso_dl_110x220mm",
	"jis_b0_1030x1456mm", "jis_b1_728x1030mm", "jis_b2_515x728mm", "jis_b3_364x515mm",
	"jis_b4_257x364mm", "jis_b5_182x257mm", "jis_b6_128x182mm", "jis_b7_91x128mm",
	"jis_b8_64x91mm", "jis_b9_45x64mm", "jis_b10_32x45mm",
	"na_letter_8.5x11in", "na_legal_8.5x14in", "na_ledger_11x17in",
	"na_executive_7.25x10.5in", "na_govt-letter_8x10in", "na_govt-legal_8x13.5in",
	"na_junior-legal_8x5in", "na_5x7_5x7in", "na_8x10_8x10in",
	"na_invoice_5.5x8.5in",
	"na_number-10_4.125x9.5in", "na_monarch_3.875x7.5in",
	"na_index-3x5_3x5in", "na_index-4x6_4x6in", "na_index-5x8_5x8in",
	"na_foolscap_8.5x13in",
	"om_folio_210x330mm", "om_small-photo_100x150mm", "om_business-card_85x55mm",
	"jpn_hagaki_100x148mm", "jpn_oufuku_148x200mm",
	"prc_1_102x165mm", "prc_32k_97x151mm",
	"roll_max_8.5x3000in", "roll_min_3x5in",
}, PhotoMediaSupported...), "custom_min_10x10mm", "custom_max_1000x1400mm")

// MediaDefault is the printer's default media keyword.
const MediaDefault = "iso_a4_210x297mm"

// ResolutionsSupported is the full DPI ladder the original advertises,
// spanning the common fax/draft/photo range in both per-inch and
// per-centimeter units.
var ResolutionsSupported = []ipp.Resolution{
	{CrossFeed: 72, Feed: 72, Units: ipp.ResolutionPerInch},
	{CrossFeed: 100, Feed: 100, Units: ipp.ResolutionPerInch},
	{CrossFeed: 150, Feed: 150, Units: ipp.ResolutionPerInch},
	{CrossFeed: 200, Feed: 200, Units: ipp.ResolutionPerInch},
	{CrossFeed: 300, Feed: 300, Units: ipp.ResolutionPerInch},
	{CrossFeed: 360, Feed: 360, Units: ipp.ResolutionPerInch},
	{CrossFeed: 400, Feed: 400, Units: ipp.ResolutionPerInch},
	{CrossFeed: 600, Feed: 600, Units: ipp.ResolutionPerInch},
	{CrossFeed: 720, Feed: 720, Units: ipp.ResolutionPerInch},
	{CrossFeed: 1200, Feed: 1200, Units: ipp.ResolutionPerInch},
	{CrossFeed: 2400, Feed: 2400, Units: ipp.ResolutionPerInch},
	{CrossFeed: 4800, Feed: 4800, Units: ipp.ResolutionPerInch},
	{CrossFeed: 28, Feed: 28, Units: ipp.ResolutionPerCentimeter},
	{CrossFeed: 118, Feed: 118, Units: ipp.ResolutionPerCentimeter},
	{CrossFeed: 236, Feed: 236, Units: ipp.ResolutionPerCentimeter},
}

// ResolutionDefault is the default print resolution.
var ResolutionDefault = ipp.Resolution{CrossFeed: 300, Feed: 300, Units: ipp.ResolutionPerInch}

// PhotoResolutionsSupported is the high-end subset of ResolutionsSupported
// this printer offers for photographic printing.
var PhotoResolutionsSupported = []ipp.Resolution{
	{CrossFeed: 300, Feed: 300, Units: ipp.ResolutionPerInch},
	{CrossFeed: 600, Feed: 600, Units: ipp.ResolutionPerInch},
	{CrossFeed: 1200, Feed: 1200, Units: ipp.ResolutionPerInch},
	{CrossFeed: 2400, Feed: 2400, Units: ipp.ResolutionPerInch},
	{CrossFeed: 4800, Feed: 4800, Units: ipp.ResolutionPerInch},
}

// PhotoResolutionDefault is the default photographic-print resolution.
var PhotoResolutionDefault = ipp.Resolution{CrossFeed: 2400, Feed: 2400, Units: ipp.ResolutionPerInch}

// Printer is the static model for the one virtual printer this server
// advertises. Only Paused changes at runtime (Pause-Printer and
// Resume-Printer set it); stopped is derived from Paused, and idle/
// processing and queue depth are derived from the job manager.
type Printer struct {
	Name         string
	Description  string
	Location     string
	URI          string
	UUID         string
	Manufacturer string
	Model        string
	Serial       string
	ColorSupported bool
	DuplexSupported bool
	Paused       bool
	StartedAt    time.Time
}

// MakeAndModel formats printer-make-and-model the way CUPS/AirPrint
// clients expect: "<manufacturer> <model>" trimmed of empties.
func (p *Printer) MakeAndModel() string {
	switch {
	case p.Manufacturer != "" && p.Model != "":
		return p.Manufacturer + " " + p.Model
	case p.Model != "":
		return p.Model
	case p.Manufacturer != "":
		return p.Manufacturer
	default:
		return p.Name
	}
}
