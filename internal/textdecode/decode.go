// Package textdecode guesses the byte encoding of a manifest and decodes it.
//
// Detection is best-effort: it picks the first candidate of an ordered policy
// whose byte pattern matches and whose decoded output passes an acceptance
// check. UTF-8 is always the last resort, so decoding never fails.
package textdecode

import (
	"bytes"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/transform"
)

const (
	// sniffLen bounds how many leading bytes the lead-byte scan inspects.
	sniffLen = 1000
	// maxInvalidRatio is the replacement-character share above which a legacy
	// decode is rejected.
	maxInvalidRatio = 0.05
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Candidate is one step of a decoding policy.
type Candidate struct {
	Name string
	// Match reports whether raw looks like this encoding. Nil matches everything.
	Match func(raw []byte) bool
	// Prepare may trim raw before decoding (e.g. a byte-order mark).
	Prepare func(raw []byte) []byte
	// Encoding decodes raw. Nil means UTF-8.
	Encoding encoding.Encoding
	// Accept validates the decoded text. Nil accepts everything.
	Accept func(text string) bool
}

// Policy is an ordered list of candidates; the first accepted one wins.
type Policy []Candidate

// Result is a decoded manifest.
type Result struct {
	Text     string
	Encoding string
}

// DefaultPolicy returns UTF-8 with BOM, then Shift_JIS, then plain UTF-8.
func DefaultPolicy() Policy {
	return Policy{
		{
			Name:    "utf-8-bom",
			Match:   func(raw []byte) bool { return bytes.HasPrefix(raw, utf8BOM) },
			Prepare: func(raw []byte) []byte { return raw[len(utf8BOM):] },
		},
		{
			Name:     "shift_jis",
			Match:    HasShiftJISLeadByte,
			Encoding: japanese.ShiftJIS,
			Accept:   MostlyValid,
		},
		{Name: "utf-8"},
	}
}

// Decode decodes raw with the default policy.
func Decode(raw []byte) Result {
	return DefaultPolicy().Decode(raw)
}

// Decode tries each candidate in order and falls back to UTF-8 if none is
// accepted.
func (p Policy) Decode(raw []byte) Result {
	for _, c := range p {
		if c.Match != nil && !c.Match(raw) {
			continue
		}
		text, ok := c.decode(raw)
		if !ok {
			continue
		}
		if c.Accept != nil && !c.Accept(text) {
			continue
		}
		return Result{Text: text, Encoding: c.Name}
	}
	return Result{Text: toUTF8(raw), Encoding: "utf-8"}
}

func (c Candidate) decode(raw []byte) (string, bool) {
	if c.Prepare != nil {
		raw = c.Prepare(raw)
	}
	if c.Encoding == nil {
		return toUTF8(raw), true
	}
	out, _, err := transform.Bytes(c.Encoding.NewDecoder(), raw)
	if err != nil {
		return "", false
	}
	return string(out), true
}

// toUTF8 mirrors a lenient UTF-8 decoder: invalid sequences become U+FFFD.
func toUTF8(raw []byte) string {
	if utf8.Valid(raw) {
		return string(raw)
	}
	return strings.ToValidUTF8(string(raw), string(utf8.RuneError))
}

// HasShiftJISLeadByte reports whether any of the first 1000 bytes falls in a
// Shift_JIS double-byte lead range.
func HasShiftJISLeadByte(raw []byte) bool {
	n := min(len(raw), sniffLen)
	for _, b := range raw[:n] {
		if (b >= 0x81 && b <= 0x9F) || (b >= 0xE0 && b <= 0xEF) {
			return true
		}
	}
	return false
}

// MostlyValid reports whether fewer than 5% of the runes in text are U+FFFD.
func MostlyValid(text string) bool {
	total := utf8.RuneCountInString(text)
	if total == 0 {
		return true
	}
	invalid := strings.Count(text, string(utf8.RuneError))
	return float64(invalid) < float64(total)*maxInvalidRatio
}

// PreferValidUTF8 returns p with a leading candidate that accepts input which
// is already well-formed UTF-8, so UTF-8 Japanese text is not mistaken for
// Shift_JIS by the lead-byte scan.
func PreferValidUTF8(p Policy) Policy {
	out := make(Policy, 0, len(p)+1)
	out = append(out, Candidate{Name: "utf-8", Match: utf8.Valid})
	return append(out, p...)
}
