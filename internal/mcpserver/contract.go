package mcpserver

// ManifestFormatContract describes the manifest file that the gallery reads,
// for LLM consumers that prepare or check one.
const ManifestFormatContract = `# Shashin Manifest Format

The gallery reads one delimited text file (default ` + "`" + `data/csv/information.csv` + "`" + `).

## Structure

` + "```" + `csv
src,title,description,subject
20250824_1.jpeg,Harbor,Morning at the harbor,sea・boat
"shrine,gate.webp",Gate,"The ""red"" gate",shrine
` + "```" + `

## Rules

1. **The first non-blank line is the header.** Header names are trimmed and
   everything outside ` + "`" + `A-Z a-z 0-9 _ -` + "`" + ` is removed.
2. **Image column.** The image path is the first non-empty value among
   ` + "`" + `src` + "`" + `, ` + "`" + `filename` + "`" + `, ` + "`" + `file` + "`" + `, ` + "`" + `path` + "`" + `, ` + "`" + `image` + "`" + `.
   A row without one is skipped and reported; the rest still load.
3. **Quoting.** A field wrapped in double quotes may contain commas. Inside
   quotes, ` + "`" + `""` + "`" + ` is a literal quote.
4. **Paths.** A path not already under the image root (default
   ` + "`" + `data/images` + "`" + `) gets that prefix. The thumbnail is
   ` + "`" + `<image root>/thumbnail/<name without extension>.jpg` + "`" + `.
5. **Display fields.** ` + "`" + `title` + "`" + ` defaults to ` + "`" + `Photo <row>` + "`" + `; ` + "`" + `description` + "`" + `
   and ` + "`" + `subject` + "`" + ` default to empty. Other columns are kept as-is.
6. **Tags.** ` + "`" + `subject` + "`" + ` is split on ` + "`" + `・` + "`" + ` (U+30FB) into filter tags.
7. **Encoding.** UTF-8 (with or without BOM) or Shift_JIS. Detection is a
   best-effort heuristic; prefer UTF-8.
8. **Search** is a case-insensitive substring match over title, description
   and subject.
`
