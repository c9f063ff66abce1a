package textdecode

import (
	"strings"
	"testing"

	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/transform"
)

func shiftJIS(t *testing.T, s string) []byte {
	t.Helper()
	out, _, err := transform.Bytes(japanese.ShiftJIS.NewEncoder(), []byte(s))
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	return out
}

func TestDecode_UTF8BOMStripped(t *testing.T) {
	raw := append([]byte{0xEF, 0xBB, 0xBF}, []byte("src,title\na.jpg,写真")...)
	r := Decode(raw)
	if r.Encoding != "utf-8-bom" {
		t.Errorf("encoding = %q, want utf-8-bom", r.Encoding)
	}
	if r.Text != "src,title\na.jpg,写真" {
		t.Errorf("text = %q", r.Text)
	}
}

func TestDecode_ShiftJIS(t *testing.T) {
	want := "src,title,subject\na.jpg,夏の写真,空・海"
	r := Decode(shiftJIS(t, want))
	if r.Encoding != "shift_jis" {
		t.Fatalf("encoding = %q, want shift_jis", r.Encoding)
	}
	if r.Text != want {
		t.Errorf("text = %q, want %q", r.Text, want)
	}
}

func TestDecode_ASCIIFallsBackToUTF8(t *testing.T) {
	r := Decode([]byte("src,title\na.jpg,Hello"))
	if r.Encoding != "utf-8" {
		t.Errorf("encoding = %q, want utf-8", r.Encoding)
	}
	if r.Text != "src,title\na.jpg,Hello" {
		t.Errorf("text = %q", r.Text)
	}
}

func TestDecode_RejectedShiftJISFallsBack(t *testing.T) {
	// Lead bytes followed by invalid trail bytes decode mostly to U+FFFD.
	raw := []byte(strings.Repeat("\x81 ", 20))
	r := Decode(raw)
	if r.Encoding != "utf-8" {
		t.Errorf("encoding = %q, want utf-8 fallback", r.Encoding)
	}
}

func TestDecode_EmptyInput(t *testing.T) {
	r := Decode(nil)
	if r.Text != "" || r.Encoding != "utf-8" {
		t.Errorf("got %+v", r)
	}
}

func TestHasShiftJISLeadByte_OnlyFirst1000Bytes(t *testing.T) {
	raw := append([]byte(strings.Repeat("a", 1000)), 0x82, 0xA0)
	if HasShiftJISLeadByte(raw) {
		t.Error("lead byte beyond the sniff window should be ignored")
	}
	if !HasShiftJISLeadByte(raw[999:]) {
		t.Error("lead byte inside the window should match")
	}
}

func TestMostlyValid(t *testing.T) {
	if !MostlyValid(strings.Repeat("a", 100) + "�") {
		t.Error("1% replacement should be accepted")
	}
	if MostlyValid(strings.Repeat("a", 19) + "�") {
		t.Error("5% replacement should be rejected")
	}
}

func TestPolicy_CustomCandidateOrder(t *testing.T) {
	p := Policy{
		{Name: "never", Match: func([]byte) bool { return false }},
		{Name: "upper", Accept: func(s string) bool { return s == strings.ToUpper(s) }},
	}
	if r := p.Decode([]byte("ABC")); r.Encoding != "upper" {
		t.Errorf("encoding = %q, want upper", r.Encoding)
	}
	if r := p.Decode([]byte("abc")); r.Encoding != "utf-8" {
		t.Errorf("encoding = %q, want utf-8 fallback", r.Encoding)
	}
}

func TestPreferValidUTF8(t *testing.T) {
	text := "src,title\na.jpg,夏の写真"
	r := PreferValidUTF8(DefaultPolicy()).Decode([]byte(text))
	if r.Text != text {
		t.Errorf("text = %q, want %q", r.Text, text)
	}
	sjis := shiftJIS(t, text)
	r = PreferValidUTF8(DefaultPolicy()).Decode(sjis)
	if r.Encoding != "shift_jis" || r.Text != text {
		t.Errorf("got %+v", r)
	}
}
