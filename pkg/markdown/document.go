// Package markdown moves notes in and out of Markdown files with YAML
// frontmatter, one note per file.
package markdown

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/aretw0/notelin/pkg/core"
)

// Frontmatter is the YAML header of an exported note.
type Frontmatter struct {
	Title   string `yaml:"title,omitempty"`
	Created string `yaml:"created,omitempty"`
	Changed string `yaml:"changed,omitempty"`
}

// Document is a Markdown file with optional frontmatter.
type Document struct {
	Frontmatter Frontmatter
	Body        string
}

var errUnclosed = errors.New("frontmatter started but no closing delimiter found")

// Parse reads a stream and decodes it into a Document.
// Frontmatter is only recognized when the stream starts with a --- line.
// Delimiter lines may end in CRLF; the body is kept byte for byte.
func Parse(r io.Reader) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	d := &Document{}
	first, rest, ok := cutLine(data)
	if !ok || !isDelimiter(first) {
		d.Body = string(data)
		return d, nil
	}

	header, body, found := splitHeader(rest)
	if !found {
		return nil, errUnclosed
	}
	if err := yaml.Unmarshal(header, &d.Frontmatter); err != nil {
		return nil, fmt.Errorf("failed to parse frontmatter: %w", err)
	}
	d.Body = string(body)
	return d, nil
}

// splitHeader finds the closing delimiter line in data, which may also be
// the last line without a line break.
func splitHeader(data []byte) (header, body []byte, found bool) {
	for off := 0; off < len(data); {
		line, rest, terminated := cutLine(data[off:])
		if isDelimiter(line) {
			return data[:off], rest, true
		}
		if !terminated {
			break
		}
		off = len(data) - len(rest)
	}
	return nil, nil, false
}

// cutLine splits data after its first line break. terminated reports whether
// a line break was found; without one line is all of data.
func cutLine(data []byte) (line, rest []byte, terminated bool) {
	i := bytes.IndexByte(data, '\n')
	if i < 0 {
		return data, nil, false
	}
	return data[:i], data[i+1:], true
}

func isDelimiter(line []byte) bool {
	return string(bytes.TrimSuffix(line, []byte("\r"))) == "---"
}

// String serializes the document back to Markdown with frontmatter.
func (d *Document) String() (string, error) {
	var buf bytes.Buffer

	if d.Frontmatter != (Frontmatter{}) {
		buf.WriteString("---\n")
		encoder := yaml.NewEncoder(&buf)
		encoder.SetIndent(2)
		if err := encoder.Encode(d.Frontmatter); err != nil {
			return "", err
		}
		encoder.Close()
		buf.WriteString("---\n")
	}

	buf.WriteString(d.Body)
	return buf.String(), nil
}

// FromNote builds the exported form of n.
func FromNote(n core.Note) *Document {
	return &Document{
		Frontmatter: Frontmatter{
			Title:   n.Title,
			Created: formatTime(n.CreatedDate),
			Changed: formatTime(n.ChangeDate),
		},
		Body: n.Text,
	}
}

// Note converts the document into an unsaved note. name is the source file
// path, whose base name is the title when the frontmatter has none.
// Missing or malformed dates are left zero.
func (d *Document) Note(name string) core.Note {
	title := strings.TrimSpace(d.Frontmatter.Title)
	if title == "" {
		base := filepath.Base(name)
		title = strings.TrimSuffix(base, filepath.Ext(base))
	}
	return core.Note{
		Title:       title,
		Text:        d.Body,
		CreatedDate: parseTime(d.Frontmatter.Created),
		ChangeDate:  parseTime(d.Frontmatter.Changed),
	}
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t.UTC()
}
