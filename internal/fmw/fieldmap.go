package fmw

import (
	"iter"
	"strings"

	"github.com/msto63/fmwkit/foundation/core/log"
)

// FieldMapEntry renames column Old to New.
type FieldMapEntry struct {
	Old string `json:"old" yaml:"old"`
	New string `json:"new" yaml:"new"`
}

// FieldMapSet holds the field maps found by both extraction paths.
type FieldMapSet struct {
	Renamer []FieldMapEntry
	Drawn   []FieldMapEntry

	// Conflict is set when both paths produced entries.
	Conflict *ConflictWarning
}

// All returns renamer entries followed by drawn-line entries. Duplicates
// are kept.
func (s FieldMapSet) All() []FieldMapEntry {
	out := make([]FieldMapEntry, 0, len(s.Renamer)+len(s.Drawn))
	out = append(out, s.Renamer...)
	return append(out, s.Drawn...)
}

// Len returns the combined number of entries.
func (s FieldMapSet) Len() int { return len(s.Renamer) + len(s.Drawn) }

// DrawnLineGroups returns the @RenameAttributes groups of a script tail.
// Each range over the sequence scans the lines from the start.
func DrawnLineGroups(script []string) iter.Seq[[]FieldMapEntry] {
	return drawnLineGroups(script, log.GetDefault())
}

func drawnLineGroups(script []string, logger *log.Logger) iter.Seq[[]FieldMapEntry] {
	return func(yield func([]FieldMapEntry) bool) {
		for line := range joinContinued(script) {
			if !strings.Contains(line, drawnLineToken) {
				continue
			}
			group, ok := parseDrawnLine(line, logger)
			if !ok || len(group) == 0 {
				continue
			}
			if !yield(group) {
				return
			}
		}
	}
}

// joinContinued yields logical lines, joining lines that end in a
// backslash with the line after them.
func joinContinued(lines []string) iter.Seq[string] {
	return func(yield func(string) bool) {
		var pending strings.Builder
		for _, l := range lines {
			if strings.HasSuffix(l, lineContinue) {
				pending.WriteString(strings.TrimSuffix(l, lineContinue))
				continue
			}
			pending.WriteString(l)
			logical := pending.String()
			pending.Reset()
			if !yield(logical) {
				return
			}
		}
		if pending.Len() > 0 {
			yield(pending.String())
		}
	}
}

// parseDrawnLine reads the new,old,new,old list between the sentinels and
// returns it as old/new pairs.
func parseDrawnLine(line string, logger *log.Logger) ([]FieldMapEntry, bool) {
	start := strings.Index(line, drawnLineOpen)
	if start < 0 {
		logger.Debug("rename call without FME_STRICT list skipped", log.String("line", abbreviate(line)))
		return nil, false
	}
	interior := line[start+len(drawnLineOpen):]
	end := strings.Index(interior, drawnLineClose)
	if end < 0 {
		logger.Warn("unterminated rename call skipped", log.String("line", abbreviate(line)))
		return nil, false
	}
	interior = interior[:end]
	if strings.TrimSpace(interior) == "" {
		return nil, true
	}

	tokens := splitList(interior)
	if len(tokens)%2 != 0 {
		logger.Warn("odd rename token dropped", log.String("token", tokens[len(tokens)-1]))
		tokens = tokens[:len(tokens)-1]
	}

	group := make([]FieldMapEntry, 0, len(tokens)/2)
	for i := 0; i+1 < len(tokens); i += 2 {
		group = append(group, FieldMapEntry{Old: tokens[i+1], New: tokens[i]})
	}
	return group, true
}

func splitList(s string) []string {
	parts := strings.Split(s, listSeparator)
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return parts
}

// RenamerFieldMaps reads the rename list of an AttributeRenamer. Version 1
// lists old,new pairs; later versions list old,new,default triples whose
// default is discarded. Other transformer types yield nothing.
func RenamerFieldMaps(t *Transformer) ([]FieldMapEntry, error) {
	if t.Type() != renamerType {
		return nil, nil
	}

	var list string
	for _, name := range renamerListParams {
		if v, ok := t.Param(name); ok && v != "" {
			list = v
			break
		}
	}
	if list == "" {
		return nil, nil
	}

	size := 3
	if t.Version() == renamerPairVersion {
		size = 2
	}
	tokens := splitList(list)
	if len(tokens)%size != 0 {
		return nil, formatErr("fmw.RenamerFieldMaps", t.line,
			"rename list of %s has %d entries, not a multiple of %d", t.Identifier(), len(tokens), size)
	}

	logger := t.logger
	if logger == nil {
		logger = log.GetDefault()
	}

	entries := make([]FieldMapEntry, 0, len(tokens)/size)
	for i := 0; i < len(tokens); i += size {
		if size == 3 && tokens[i+2] != "" {
			logger.Warn("rename default value discarded", log.Fields{
				"old":     tokens[i],
				"default": tokens[i+2],
			})
		}
		entries = append(entries, FieldMapEntry{Old: tokens[i], New: tokens[i+1]})
	}
	return entries, nil
}

// FieldMaps collects field maps from the enabled renamers and from the
// script tail. When both produce entries the set carries a conflict.
func (w *Workspace) FieldMaps() (FieldMapSet, error) {
	var set FieldMapSet
	for _, t := range w.Transformers(true) {
		entries, err := RenamerFieldMaps(t)
		if err != nil {
			return FieldMapSet{}, err
		}
		set.Renamer = append(set.Renamer, entries...)
	}
	for group := range drawnLineGroups(w.sections.Script(), w.logger) {
		set.Drawn = append(set.Drawn, group...)
	}

	if len(set.Renamer) > 0 && len(set.Drawn) > 0 {
		set.Conflict = &ConflictWarning{Renamer: len(set.Renamer), Drawn: len(set.Drawn)}
		w.logger.Warn(set.Conflict.Error(), log.Fields{
			"renamer": len(set.Renamer),
			"drawn":   len(set.Drawn),
		})
	}
	return set, nil
}
