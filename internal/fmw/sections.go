package fmw

import (
	"bytes"
	"io"
	"strings"

	mdwerror "github.com/msto63/fmwkit/foundation/core/error"
)

// RawSections holds the three buffers recovered from a workspace file:
// command-line usage entries, the XML document with comment markers
// removed, and the script tail. It is not modified after Split returns.
type RawSections struct {
	usage  []string
	xml    []xmlLine
	script []string
}

// xmlLine keeps what was stripped from an XML line so the source can be
// rebuilt exactly.
type xmlLine struct {
	marker string // "#!" plus the pad space when present
	body   string
	cr     bool // line ended in "\r\n"
	source int  // 1-based line number in the file
}

// CommandLineArg is one --NAME value pair of the usage header.
type CommandLineArg struct {
	Name  string
	Value string
}

type lineClass int

const (
	classXMLDecl lineClass = iota
	classXML
	classUsage
	classContinuation
	classBlank
	classInvalid
)

// SplitReader reads a workspace file and splits it into sections.
func SplitReader(r io.Reader) (*RawSections, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, mdwerror.Wrap(err, "read workspace").WithCode(mdwerror.CodeInvalidInput)
	}
	return Split(splitLines(data))
}

// splitLines splits on "\n" and keeps a trailing "\r" on each line; a final
// newline does not produce an extra empty line.
func splitLines(data []byte) []string {
	if len(data) == 0 {
		return nil
	}
	data = bytes.TrimSuffix(data, []byte("\n"))
	return strings.Split(string(data), "\n")
}

// Split classifies each line of a workspace file and rebuilds the usage,
// XML and script buffers. Lines are matched in priority order: the XML
// declaration, any other "#!" line, a "#" comment (usage), and, directly
// after a usage entry, an unmarked non-empty continuation line. Empty
// lines before the end of the document are skipped and end the current
// usage entry. Anything else is a format error.
//
// The first start tag fixes the root element; the line holding its closing
// tag ends the document and every later line belongs to the script tail.
func Split(lines []string) (*RawSections, error) {
	s := &RawSections{}

	var (
		root      string
		ended     bool
		lastUsage = -1 // index into s.usage that continuations extend
	)

	for i, raw := range lines {
		lineNo := i + 1
		line, cr := trimCR(raw)

		if ended {
			s.script = append(s.script, line)
			continue
		}

		switch classify(line, lastUsage >= 0) {
		case classXMLDecl, classXML:
			marker, body := stripMarker(line, xmlMarker)
			s.xml = append(s.xml, xmlLine{marker: marker, body: body, cr: cr, source: lineNo})
			lastUsage = -1

			if root == "" {
				if m := startTagPattern.FindStringSubmatch(body); m != nil && !strings.HasPrefix(strings.TrimSpace(body), "<?") {
					root = m[1]
				}
				continue
			}
			if m := closeTagPattern.FindStringSubmatch(body); m != nil && m[1] == root {
				ended = true
			}

		case classUsage:
			_, body := stripMarker(line, usageMarker)
			s.usage = append(s.usage, strings.TrimSpace(body))
			lastUsage = len(s.usage) - 1

		case classContinuation:
			s.usage[lastUsage] += "\n" + line

		case classBlank:
			lastUsage = -1

		default:
			return nil, formatErr("fmw.Split", lineNo, "unrecognised line %q", abbreviate(line))
		}
	}

	if root == "" {
		return nil, formatErr("fmw.Split", 0, "no workspace document found")
	}
	if !ended {
		return nil, formatErr("fmw.Split", len(lines), "document root <%s> is never closed", root)
	}

	return s, nil
}

func classify(line string, afterUsage bool) lineClass {
	switch {
	case xmlDeclPattern.MatchString(line):
		return classXMLDecl
	case strings.HasPrefix(line, xmlMarker):
		return classXML
	case strings.HasPrefix(line, usageMarker):
		return classUsage
	case strings.TrimSpace(line) == "":
		return classBlank
	case afterUsage:
		return classContinuation
	default:
		return classInvalid
	}
}

func stripMarker(line, marker string) (string, string) {
	body := strings.TrimPrefix(line, marker)
	if strings.HasPrefix(body, markerPad) {
		return marker + markerPad, body[len(markerPad):]
	}
	return marker, body
}

func trimCR(line string) (string, bool) {
	if strings.HasSuffix(line, "\r") {
		return line[:len(line)-1], true
	}
	return line, false
}

func abbreviate(s string) string {
	const max = 60
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}

// Usage returns the command-line usage entries with their comment markers
// removed. Continuation lines are joined to their entry with "\n".
func (s *RawSections) Usage() []string {
	return append([]string(nil), s.usage...)
}

// XML returns the XML lines with their comment markers removed.
func (s *RawSections) XML() []string {
	out := make([]string, len(s.xml))
	for i, l := range s.xml {
		out[i] = l.body
	}
	return out
}

// Script returns the script tail lines.
func (s *RawSections) Script() []string {
	return append([]string(nil), s.script...)
}

// XMLDocument returns the recovered XML document.
func (s *RawSections) XMLDocument() string {
	return strings.Join(s.XML(), "\n")
}

// XMLSource rebuilds the XML portion of the file as it appeared in the
// source, markers and line endings included.
func (s *RawSections) XMLSource() string {
	var b strings.Builder
	for i, l := range s.xml {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(l.marker)
		b.WriteString(l.body)
		if l.cr {
			b.WriteString("\r")
		}
	}
	return b.String()
}

// SourceLine maps a 1-based line of XMLDocument to the file line it came
// from; it returns 0 when out of range.
func (s *RawSections) SourceLine(n int) int {
	if n < 1 || n > len(s.xml) {
		return 0
	}
	return s.xml[n-1].source
}

// CommandLineArgs returns the --NAME value pairs of the usage header in
// order of appearance. Surrounding double quotes are removed from values.
func (s *RawSections) CommandLineArgs() []CommandLineArg {
	var args []CommandLineArg
	for _, entry := range s.usage {
		m := usageArgPattern.FindStringSubmatch(entry)
		if m == nil {
			continue
		}
		args = append(args, CommandLineArg{Name: m[1], Value: unquote(strings.TrimSpace(m[2]))})
	}
	return args
}

func unquote(s string) string {
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		return s[1 : len(s)-1]
	}
	return s
}
