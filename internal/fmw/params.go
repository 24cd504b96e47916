package fmw

import (
	"strings"

	"github.com/msto63/fmwkit/foundation/core/log"
)

// PublishedParameter is a user-overridable value declared by the workspace.
type PublishedParameter struct {
	Name    string
	Default string

	// Descriptor is the free text after the name in GUI_LINE, usually the
	// prompt shown to users.
	Descriptor string
	Kind       string
	Optional   bool
	Ignored    bool

	// Options holds the %-separated choices of CHOICE-type parameters.
	Options []string

	Line int
}

// Scripted reports whether the value is produced by a script. The
// comparison is case-sensitive.
func (p PublishedParameter) Scripted() bool {
	return p.Descriptor == ScriptedDescriptor
}

// parseGUILine reads "GUI [OPTIONAL|IGNORE]... KIND NAME descriptor..." into p.
func parseGUILine(p *PublishedParameter, guiLine string) error {
	fields := strings.Fields(guiLine)
	if len(fields) == 0 || fields[0] != "GUI" {
		return formatErr("fmw.parseGUILine", p.Line, "GUI_LINE %q does not start with GUI", guiLine)
	}
	fields = fields[1:]

	for len(fields) > 0 && guiFlags[fields[0]] {
		switch fields[0] {
		case "OPTIONAL":
			p.Optional = true
		case "IGNORE":
			p.Ignored = true
		}
		fields = fields[1:]
	}

	if len(fields) < 2 {
		return formatErr("fmw.parseGUILine", p.Line, "GUI_LINE %q has no parameter name", guiLine)
	}
	p.Kind = fields[0]
	p.Name = fields[1]
	rest := fields[2:]

	// CHOICE kinds carry their options between the name and the prompt.
	if strings.Contains(p.Kind, "CHOICE") && len(rest) > 1 && strings.Contains(rest[0], "%") {
		p.Options = strings.Split(rest[0], "%")
		rest = rest[1:]
	}
	p.Descriptor = strings.Join(rest, " ")
	return nil
}

// PublishedParameters returns the published parameters in document order.
func (w *Workspace) PublishedParameters() []PublishedParameter {
	return append([]PublishedParameter(nil), w.params...)
}

// Parameter returns the published parameter with the given name.
func (w *Workspace) Parameter(name string) (PublishedParameter, bool) {
	i, ok := w.paramIndex[name]
	if !ok {
		return PublishedParameter{}, false
	}
	return w.params[i], true
}

// lookupParameter finds name directly and then by descriptor, which is how
// dataset-linked parameters are aliased.
func (w *Workspace) lookupParameter(name string) (PublishedParameter, error) {
	if p, ok := w.Parameter(name); ok {
		return p, nil
	}
	for _, p := range w.params {
		if p.Descriptor == name {
			return p, nil
		}
	}
	return PublishedParameter{}, lookupErr("fmw.Dereference", name, "")
}

// Dereference substitutes a published parameter reference in value. The
// forms $(NAME), $(NAME).suffix and prefix.$(NAME) are recognised; only
// the variable part is replaced. Scripted parameters and values of any
// other shape are returned unchanged. Defaults are not dereferenced again.
func (w *Workspace) Dereference(value string) (string, error) {
	if m := fullRefPattern.FindStringSubmatch(value); m != nil {
		return w.substitute(value, "", m[1], "")
	}
	if m := suffixRefPattern.FindStringSubmatch(value); m != nil {
		return w.substitute(value, "", m[1], m[2])
	}
	if m := prefixRefPattern.FindStringSubmatch(value); m != nil {
		return w.substitute(value, m[1], m[2], "")
	}
	return value, nil
}

func (w *Workspace) substitute(value, prefix, name, suffix string) (string, error) {
	p, err := w.lookupParameter(name)
	if err != nil {
		return "", err
	}
	if p.Scripted() {
		w.logger.Debug("scripted parameter left unresolved", log.String("name", p.Name))
		return value, nil
	}
	return prefix + p.Default + suffix, nil
}
