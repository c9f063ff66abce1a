package manifest

import (
	"errors"
	"strings"
	"testing"

	"github.com/starford/shashin/internal/apperr"
)

func TestParse_RoundTrip(t *testing.T) {
	r := Parse("src,title,description,subject\na.jpg,T,D,S\n", DefaultOptions())
	if len(r.Records) != 1 {
		t.Fatalf("len(records) = %d, want 1", len(r.Records))
	}
	rec := r.Records[0]
	if rec.Src != "data/images/a.jpg" {
		t.Errorf("src = %q", rec.Src)
	}
	if rec.Thumbnail != "data/images/thumbnail/a.jpg" {
		t.Errorf("thumbnail = %q", rec.Thumbnail)
	}
	if rec.Title != "T" || rec.Description != "D" || rec.Subject != "S" {
		t.Errorf("display fields = %q/%q/%q", rec.Title, rec.Description, rec.Subject)
	}
}

func TestParse_PreservesRowOrder(t *testing.T) {
	text := "src\n3.jpg\n1.jpg\n2.jpg"
	r := Parse(text, DefaultOptions())
	var got []string
	for _, rec := range r.Records {
		got = append(got, rec.Src)
	}
	want := "data/images/3.jpg,data/images/1.jpg,data/images/2.jpg"
	if strings.Join(got, ",") != want {
		t.Errorf("order = %v", got)
	}
}

func TestParse_SkipsRowWithoutImagePath(t *testing.T) {
	text := "src,title\na.jpg,A\n,B\nc.jpg,C\n"
	r := Parse(text, DefaultOptions())
	if len(r.Records) != 2 {
		t.Fatalf("len(records) = %d, want 2", len(r.Records))
	}
	if len(r.Skipped) != 1 {
		t.Fatalf("len(skipped) = %d, want 1", len(r.Skipped))
	}
	if r.Skipped[0].Line != 2 {
		t.Errorf("skipped line = %d, want 2", r.Skipped[0].Line)
	}
	if !strings.Contains(r.Skipped[0].Reason, "src") {
		t.Errorf("reason = %q", r.Skipped[0].Reason)
	}
}

func TestParse_SrcAliases(t *testing.T) {
	text := "filename,file,path,image,title\n,,p.png,i.png,x\n"
	r := Parse(text, DefaultOptions())
	if len(r.Records) != 1 {
		t.Fatalf("len(records) = %d", len(r.Records))
	}
	if r.Records[0].Src != "data/images/p.png" {
		t.Errorf("src = %q, want first non-empty alias", r.Records[0].Src)
	}
	if r.Records[0].Thumbnail != "data/images/thumbnail/p.jpg" {
		t.Errorf("thumbnail = %q", r.Records[0].Thumbnail)
	}
}

func TestParse_AlreadyRootedSrcKept(t *testing.T) {
	r := Parse("src\ndata/images/x.webp\n", DefaultOptions())
	if r.Records[0].Src != "data/images/x.webp" {
		t.Errorf("src = %q", r.Records[0].Src)
	}
}

func TestParse_Defaults(t *testing.T) {
	r := Parse("src,title\n\na.jpg\n", DefaultOptions())
	if len(r.Records) != 1 {
		t.Fatalf("len(records) = %d", len(r.Records))
	}
	rec := r.Records[0]
	// Blank line 1 still counts toward the row number.
	if rec.Title != "Photo 2" {
		t.Errorf("title = %q, want Photo 2", rec.Title)
	}
	if rec.Description != "" || rec.Subject != "" {
		t.Errorf("description/subject should default to empty")
	}
}

func TestParse_HeaderCleanup(t *testing.T) {
	text := "\uFEFF \"src\" , title* ,説明\r\na.jpg,T,x\r\n"
	r := Parse(text, DefaultOptions())
	if got := strings.Join(r.Headers, "|"); got != "src|title|" {
		t.Errorf("headers = %q", got)
	}
	if len(r.Records) != 1 || r.Records[0].Title != "T" {
		t.Fatalf("records = %+v", r.Records)
	}
}

func TestParse_ExtraColumnsKeptInOrder(t *testing.T) {
	r := Parse("camera,src,year\nX100,a.jpg,2025\n", DefaultOptions())
	rec := r.Records[0]
	if len(rec.Fields) != 3 || rec.Fields[0].Name != "camera" || rec.Fields[2].Name != "year" {
		t.Fatalf("fields = %+v", rec.Fields)
	}
	if v, ok := rec.Get("year"); !ok || v != "2025" {
		t.Errorf("year = %q, %v", v, ok)
	}
	if v, _ := rec.Get("src"); v != "data/images/a.jpg" {
		t.Errorf("Get(src) = %q, want resolved path", v)
	}
}

func TestParse_EmptyText(t *testing.T) {
	r := Parse("", DefaultOptions())
	if len(r.Records) != 0 || len(r.Headers) != 0 {
		t.Errorf("expected empty result, got %+v", r)
	}
}

func TestSplitFields(t *testing.T) {
	tests := []struct {
		line string
		want []string
	}{
		{`a,b,c`, []string{"a", "b", "c"}},
		{`"a,b",c`, []string{"a,b", "c"}},
		{`"a""b",c`, []string{`a"b`, "c"}},
		{`a,,`, []string{"a", "", ""}},
		{`"写真,夏",空`, []string{"写真,夏", "空"}},
		{``, []string{""}},
	}
	for _, tt := range tests {
		got := SplitFields(tt.line)
		if strings.Join(got, "|") != strings.Join(tt.want, "|") || len(got) != len(tt.want) {
			t.Errorf("SplitFields(%q) = %q, want %q", tt.line, got, tt.want)
		}
	}
}

func TestThumbnailFor_ReplacesExtension(t *testing.T) {
	opts := DefaultOptions()
	if got := ThumbnailFor("data/images/20250824_3.webp", opts); got != "data/images/thumbnail/20250824_3.jpg" {
		t.Errorf("thumbnail = %q", got)
	}
	if got := ThumbnailFor("data/images/noext", opts); got != "data/images/thumbnail/noext.jpg" {
		t.Errorf("thumbnail = %q", got)
	}
}

func TestOptions_Validate(t *testing.T) {
	opts := DefaultOptions()
	if err := opts.Validate(); err != nil {
		t.Fatalf("default options invalid: %v", err)
	}
	opts.ThumbnailExt = "jpg"
	if err := opts.Validate(); err == nil {
		t.Error("extension without dot should fail validation")
	}
}

func TestErrNoSrcWrapsSentinel(t *testing.T) {
	if !errors.Is(errNoSrc, apperr.ErrNoImagePath) {
		t.Error("errNoSrc should wrap apperr.ErrNoImagePath")
	}
}

func TestParse_ZeroOptionsUseDefaults(t *testing.T) {
	r := Parse("src\na.png\n", Options{})
	if r.Records[0].Src != "data/images/a.png" || r.Records[0].Thumbnail != "data/images/thumbnail/a.jpg" {
		t.Errorf("record = %+v", r.Records[0])
	}
	if r.Records[0].Title != "Photo 1" {
		t.Errorf("title = %q", r.Records[0].Title)
	}
}
