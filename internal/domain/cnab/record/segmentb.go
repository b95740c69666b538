package record

import (
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/FACorreiaa/cnab-engine/internal/domain/cnab/extract"
	"github.com/FACorreiaa/cnab-engine/internal/domain/cnab/layout"
)

var (
	phonePattern = regexp.MustCompile(`^\+?[1-9][0-9]{9,13}$`)
	emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	// Loose scan for an email embedded in the free-text tail of a
	// traditional Segment B.
	emailScanPattern = regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`)
	digitsOnly       = regexp.MustCompile(`^[0-9]+$`)
)

func parseSegmentB(line string, lineNum int) *Decoded {
	sub := ClassifyB(line)
	kind := Kind{Type: Detalhe, Segment: SegmentB, BSubtype: sub}

	if sub == BTradicional {
		dec := decode(line, lineNum, kind, layout.SegmentoBTradicional240)
		// Legacy layouts sometimes smuggle a contact email into the
		// free-text tail; surface it as its own field when present.
		if email := emailScanPattern.FindString(dec.Fields.Text("informacoes")); email != "" {
			dec.Fields["email"] = extract.Value{Kind: layout.Text, Text: email}
		}
		return dec
	}
	return decode(line, lineNum, kind, layout.SegmentoBPix240)
}

// ClassifyB resolves the Segment B subtype. Resolution order:
//  1. explicit subtype code at the fixed offset, when it is one of B01..B04;
//  2. content shape of the key region: phone, email, CPF/CNPJ, UUID;
//  3. the traditional address variant as the fallback.
func ClassifyB(line string) BSubtype {
	switch code := line[layout.BSubtypeStart:layout.BSubtypeEnd]; code {
	case "B01", "B02", "B03", "B04":
		return BSubtype(code)
	}

	key := strings.TrimSpace(line[layout.BKeyStart:layout.BKeyEnd])
	if key == "" {
		return BTradicional
	}
	switch {
	case phonePattern.MatchString(key):
		return B01
	case emailPattern.MatchString(key):
		return B02
	case digitsOnly.MatchString(key) && (len(key) == 11 || len(key) == 14):
		return B03
	case isUUID(key):
		return B04
	}
	return BTradicional
}

func isUUID(s string) bool {
	if len(s) != 36 {
		return false
	}
	_, err := uuid.Parse(s)
	return err == nil
}
