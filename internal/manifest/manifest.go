// Package manifest parses the gallery's delimited text manifest into Records.
package manifest

import (
	"fmt"
	"path"
	"regexp"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/shashin/internal/apperr"
	"github.com/starford/shashin/internal/models"
)

// SrcAliases lists the header names that may carry the image path, in
// priority order.
var SrcAliases = []string{"src", "filename", "file", "path", "image"}

var (
	headerStripRe = regexp.MustCompile(`[^\w\-_]`)
	thumbExtRe    = regexp.MustCompile(`^\.[A-Za-z0-9]+$`)

	errNoSrc = fmt.Errorf("%w (tried %s)", apperr.ErrNoImagePath, strings.Join(SrcAliases, ", "))
)

// Options controls path resolution and display defaults.
type Options struct {
	// ImageRoot is the app-root-relative image directory, e.g. "data/images".
	ImageRoot string
	// ThumbnailDir is the subdirectory of ImageRoot holding thumbnails.
	ThumbnailDir string
	// ThumbnailExt is the extension every thumbnail uses, including the dot.
	ThumbnailExt string
	// TitleFormat receives the row number when a row has no title.
	TitleFormat string
}

// DefaultOptions returns the layout the gallery ships with.
func DefaultOptions() Options {
	return Options{
		ImageRoot:    "data/images",
		ThumbnailDir: "thumbnail",
		ThumbnailExt: ".jpg",
		TitleFormat:  "Photo %d",
	}
}

// Validate validates the options.
func (o *Options) Validate() error {
	return validation.ValidateStruct(o,
		validation.Field(&o.ImageRoot, validation.Required),
		validation.Field(&o.ThumbnailDir, validation.Required),
		validation.Field(&o.ThumbnailExt, validation.Required, validation.Match(thumbExtRe)),
		validation.Field(&o.TitleFormat, validation.Required),
	)
}

// WithDefaults fills empty fields from DefaultOptions.
func (o Options) WithDefaults() Options {
	d := DefaultOptions()
	if o.ImageRoot == "" {
		o.ImageRoot = d.ImageRoot
	}
	if o.ThumbnailDir == "" {
		o.ThumbnailDir = d.ThumbnailDir
	}
	if o.ThumbnailExt == "" {
		o.ThumbnailExt = d.ThumbnailExt
	}
	if o.TitleFormat == "" {
		o.TitleFormat = d.TitleFormat
	}
	return o
}

func (o Options) root() string {
	return strings.TrimSuffix(o.ImageRoot, "/")
}

// Skip describes a row that was dropped.
type Skip struct {
	Line    int      `json:"line"`
	Reason  string   `json:"reason"`
	Columns []string `json:"columns"`
}

// Result holds the outcome of parsing a manifest.
type Result struct {
	Headers []string
	Records []models.Record
	Skipped []Skip
}

// Parse splits text into rows, uses the first non-blank line as the header,
// and builds one Record per remaining non-blank row. Rows without an image
// path are reported in Skipped and do not abort the parse.
func Parse(text string, opts Options) Result {
	opts = opts.WithDefaults()
	text = strings.TrimPrefix(text, "\uFEFF")
	lines := strings.Split(strings.TrimSpace(text), "\n")

	var res Result
	headerAt := -1
	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		if headerAt < 0 {
			headerAt = i
			res.Headers = cleanHeaders(SplitFields(line))
			continue
		}
		row := i - headerAt
		rec, err := buildRecord(res.Headers, SplitFields(line), row, opts)
		if err != nil {
			res.Skipped = append(res.Skipped, Skip{
				Line:    row,
				Reason:  err.Error(),
				Columns: res.Headers,
			})
			continue
		}
		res.Records = append(res.Records, rec)
	}
	return res
}

// SplitFields splits one manifest line on commas outside double quotes.
// A doubled quote inside a quoted field is a literal quote.
func SplitFields(line string) []string {
	var (
		out      []string
		cur      strings.Builder
		inQuotes bool
	)
	runes := []rune(line)
	for i := 0; i < len(runes); i++ {
		c := runes[i]
		switch {
		case c == '"':
			if inQuotes && i+1 < len(runes) && runes[i+1] == '"' {
				cur.WriteRune('"')
				i++
			} else {
				inQuotes = !inQuotes
			}
		case c == ',' && !inQuotes:
			out = append(out, cur.String())
			cur.Reset()
		default:
			cur.WriteRune(c)
		}
	}
	return append(out, cur.String())
}

func cleanHeaders(raw []string) []string {
	out := make([]string, len(raw))
	for i, h := range raw {
		out[i] = headerStripRe.ReplaceAllString(strings.TrimSpace(h), "")
	}
	return out
}

func buildRecord(headers, values []string, row int, opts Options) (models.Record, error) {
	var fields []models.Field
	pos := make(map[string]int, len(headers))
	for i, h := range headers {
		v := ""
		if i < len(values) {
			v = strings.TrimSpace(values[i])
		}
		if j, dup := pos[h]; dup {
			fields[j].Value = v
			continue
		}
		pos[h] = len(fields)
		fields = append(fields, models.Field{Name: h, Value: v})
	}
	get := func(name string) string {
		if j, ok := pos[name]; ok {
			return fields[j].Value
		}
		return ""
	}

	var src string
	for _, alias := range SrcAliases {
		if v := get(alias); v != "" {
			src = v
			break
		}
	}
	if src == "" {
		return models.Record{}, errNoSrc
	}

	rec := models.Record{
		Src:         ResolveSrc(src, opts),
		Title:       get("title"),
		Description: get("description"),
		Subject:     get("subject"),
		Fields:      fields,
	}
	rec.Thumbnail = ThumbnailFor(rec.Src, opts)
	if rec.Title == "" {
		rec.Title = fmt.Sprintf(opts.TitleFormat, row)
	}
	return rec, nil
}

// ResolveSrc prefixes src with the image root unless it already starts there.
func ResolveSrc(src string, opts Options) string {
	root := opts.WithDefaults().root()
	if strings.HasPrefix(src, root+"/") {
		return src
	}
	return root + "/" + strings.TrimPrefix(src, "/")
}

// ThumbnailFor derives the thumbnail path from src's basename. The thumbnail
// extension is fixed regardless of the source image's format.
func ThumbnailFor(src string, opts Options) string {
	opts = opts.WithDefaults()
	base := path.Base(src)
	stem := strings.TrimSuffix(base, path.Ext(base))
	return opts.root() + "/" + opts.ThumbnailDir + "/" + stem + opts.ThumbnailExt
}
