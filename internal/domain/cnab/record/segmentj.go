package record

import "github.com/FACorreiaa/cnab-engine/internal/domain/cnab/layout"

func parseSegmentJ(line string, lineNum int) *Decoded {
	sub := ClassifyJ(line)
	kind := Kind{Type: Detalhe, Segment: SegmentJ, JSubtype: sub}
	if sub == J02 {
		return decode(line, lineNum, kind, layout.SegmentoJ02240)
	}
	return decode(line, lineNum, kind, layout.SegmentoJ240)
}

// ClassifyJ resolves the Segment J subtype from the marker field:
// "0003" opens a J01 boleto payment line, "0005" a J02 payer complement.
// Without a marker, 20 contiguous digits at the barcode position still
// indicate a J01. Anything inconclusive defaults to J01 — a legacy guess,
// kept on purpose rather than silently tightened.
func ClassifyJ(line string) JSubtype {
	switch line[layout.JMarkerStart:layout.JMarkerEnd] {
	case "0003":
		return J01
	case "0005":
		return J02
	}
	// No marker. A run of 20 contiguous digits at the barcode position is
	// still a J01 payment line, and J01 is also the fallback when nothing
	// matches at all.
	return J01
}
