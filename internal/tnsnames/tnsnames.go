// Package tnsnames reads Oracle TNSNAMES.ORA files into alias entries and
// resolves them to connect strings.
package tnsnames

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode"

	mdwerror "github.com/msto63/fmwkit/foundation/core/error"
)

// DefaultPort is the listener port assumed when an address names none.
const DefaultPort = "1521"

// Node is one "(KEY = VALUE)" or "(KEY = (child)...)" group.
type Node struct {
	Key      string
	Value    string
	Children []*Node
	Line     int
}

// Find returns the first node below and including n whose key matches,
// depth first and case-insensitive.
func (n *Node) Find(key string) *Node {
	if n == nil {
		return nil
	}
	if strings.EqualFold(n.Key, key) {
		return n
	}
	for _, c := range n.Children {
		if f := c.Find(key); f != nil {
			return f
		}
	}
	return nil
}

func (n *Node) value(key string) string {
	if f := n.Find(key); f != nil {
		return f.Value
	}
	return ""
}

// Entry is one alias definition.
type Entry struct {
	Aliases []string
	Node    *Node
	Line    int
}

// Host returns the first HOST value.
func (e *Entry) Host() string { return e.Node.value("HOST") }

// Port returns the first PORT value, DefaultPort when absent.
func (e *Entry) Port() string {
	if p := e.Node.value("PORT"); p != "" {
		return p
	}
	return DefaultPort
}

// ServiceName returns SERVICE_NAME, falling back to SID.
func (e *Entry) ServiceName() string {
	if s := e.Node.value("SERVICE_NAME"); s != "" {
		return s
	}
	return e.Node.value("SID")
}

// EasyConnect formats the entry as host:port/service.
func (e *Entry) EasyConnect() (string, error) {
	host, service := e.Host(), e.ServiceName()
	if host == "" || service == "" {
		return "", mdwerror.Newf("entry %s has no host or service name", e.Aliases[0]).
			WithCode(mdwerror.CodeNotFound).
			WithDetail("alias", e.Aliases[0])
	}
	return fmt.Sprintf("%s:%s/%s", host, e.Port(), service), nil
}

// Lookup returns the entry carrying alias, compared case-insensitively.
// Domain-qualified aliases also match on their first label.
func Lookup(entries []Entry, alias string) (*Entry, bool) {
	for i := range entries {
		for _, a := range entries[i].Aliases {
			if strings.EqualFold(a, alias) {
				return &entries[i], true
			}
		}
	}
	for i := range entries {
		for _, a := range entries[i].Aliases {
			if short, _, ok := strings.Cut(a, "."); ok && strings.EqualFold(short, alias) {
				return &entries[i], true
			}
		}
	}
	return nil, false
}

// ParseError reports malformed input at a 1-based line.
type ParseError struct {
	Line   int
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Reason)
}

// Parse reads every entry of a TNSNAMES.ORA document.
func Parse(r io.Reader) ([]Entry, error) {
	text, err := stripComments(r)
	if err != nil {
		return nil, mdwerror.Wrap(err, "read tnsnames").WithCode(mdwerror.CodeInvalidInput)
	}

	p := &parser{src: []rune(text), line: 1}
	var entries []Entry
	for {
		p.skipSpace()
		if p.eof() {
			return entries, nil
		}
		e, err := p.entry()
		if err != nil {
			var pe *ParseError
			line := 0
			if errors.As(err, &pe) {
				line = pe.Line
			}
			return nil, mdwerror.Wrap(err, "parse tnsnames").
				WithCode(mdwerror.CodeInvalidFormat).
				WithDetail("line", line)
		}
		entries = append(entries, e)
	}
}

// stripComments drops everything from '#' to the end of each line while
// keeping the line breaks so positions stay accurate.
func stripComments(r io.Reader) (string, error) {
	var b strings.Builder
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		b.WriteString(line)
		b.WriteByte('\n')
	}
	return b.String(), scanner.Err()
}

type parser struct {
	src  []rune
	pos  int
	line int
}

func (p *parser) eof() bool { return p.pos >= len(p.src) }

func (p *parser) peek() rune { return p.src[p.pos] }

func (p *parser) next() rune {
	r := p.src[p.pos]
	p.pos++
	if r == '\n' {
		p.line++
	}
	return r
}

func (p *parser) skipSpace() {
	for !p.eof() && unicode.IsSpace(p.peek()) {
		p.next()
	}
}

func (p *parser) fail(line int, format string, args ...any) error {
	return &ParseError{Line: line, Reason: fmt.Sprintf(format, args...)}
}

// until reads up to, not including, the first rune in stop.
func (p *parser) until(stop string) string {
	start := p.pos
	for !p.eof() && !strings.ContainsRune(stop, p.peek()) {
		p.next()
	}
	return string(p.src[start:p.pos])
}

func (p *parser) entry() (Entry, error) {
	line := p.line
	names := p.until("=()")
	if p.eof() || p.peek() != '=' {
		if !p.eof() && p.peek() == ')' {
			return Entry{}, p.fail(p.line, "unbalanced parentheses: unexpected ')'")
		}
		return Entry{}, p.fail(line, "expected '=' after alias %q", strings.TrimSpace(names))
	}
	p.next()

	var aliases []string
	for _, a := range strings.Split(names, ",") {
		a = strings.TrimSpace(a)
		if a == "" {
			return Entry{}, p.fail(line, "empty alias in %q", strings.TrimSpace(names))
		}
		aliases = append(aliases, a)
	}

	p.skipSpace()
	if p.eof() || p.peek() != '(' {
		return Entry{}, p.fail(p.line, "expected '(' after %s =", aliases[0])
	}
	n, err := p.node()
	if err != nil {
		return Entry{}, err
	}
	return Entry{Aliases: aliases, Node: n, Line: line}, nil
}

// node parses one parenthesised group; the cursor is on its '('.
func (p *parser) node() (*Node, error) {
	open := p.line
	p.next()

	key := strings.TrimSpace(p.until("=()"))
	if p.eof() {
		return nil, p.fail(open, "unbalanced parentheses: group opened here is never closed")
	}
	if p.peek() != '=' {
		return nil, p.fail(p.line, "expected '=' after key %q", key)
	}
	if key == "" {
		return nil, p.fail(p.line, "group without key")
	}
	p.next()
	n := &Node{Key: key, Line: open}

	p.skipSpace()
	if !p.eof() && p.peek() == '(' {
		for {
			p.skipSpace()
			if p.eof() {
				return nil, p.fail(open, "unbalanced parentheses: group opened here is never closed")
			}
			if p.peek() == ')' {
				p.next()
				return n, nil
			}
			if p.peek() != '(' {
				return nil, p.fail(p.line, "unexpected text inside %s", key)
			}
			child, err := p.node()
			if err != nil {
				return nil, err
			}
			n.Children = append(n.Children, child)
		}
	}

	n.Value = strings.TrimSpace(p.until("()"))
	if p.eof() || p.peek() == '(' {
		return nil, p.fail(open, "unbalanced parentheses: group opened here is never closed")
	}
	p.next()
	return n, nil
}
