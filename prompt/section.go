// Package prompt compiles assembled context into the instruction text sent to
// the generative model, one template per task.
package prompt

import (
	"strings"
)

// DefaultFallback is rendered for a mandatory section with no data
const DefaultFallback = "Not specified"

// Section is one block of a compiled prompt.
// A mandatory section always renders, using Fallback when Body is blank.
// A conditional section renders only when Body is non-blank.
type Section struct {
	Heading   string
	Mandatory bool
	Fallback  string
	Body      string
}

// Render returns the section text and whether it should appear
func (s Section) Render() (string, bool) {
	body := strings.TrimSpace(s.Body)
	if body == "" {
		if !s.Mandatory {
			return "", false
		}
		body = s.Fallback
		if body == "" {
			body = DefaultFallback
		}
	}
	if s.Heading == "" {
		return body, true
	}
	return "## " + s.Heading + "\n" + body, true
}

// Builder collects sections in order
type Builder struct {
	sections []Section
}

// Text adds an unheaded block that always renders
func (b *Builder) Text(body string) *Builder {
	b.sections = append(b.sections, Section{Body: body, Mandatory: true})
	return b
}

// Required adds a mandatory section
func (b *Builder) Required(heading, body, fallback string) *Builder {
	b.sections = append(b.sections, Section{Heading: heading, Body: body, Mandatory: true, Fallback: fallback})
	return b
}

// Optional adds a conditional section
func (b *Builder) Optional(heading, body string) *Builder {
	b.sections = append(b.sections, Section{Heading: heading, Body: body})
	return b
}

// Sections returns the sections that will render, in order
func (b *Builder) Sections() []Section {
	out := make([]Section, 0, len(b.sections))
	for _, s := range b.sections {
		if _, ok := s.Render(); ok {
			out = append(out, s)
		}
	}
	return out
}

// String renders every visible section separated by blank lines
func (b *Builder) String() string {
	parts := make([]string, 0, len(b.sections))
	for _, s := range b.sections {
		if text, ok := s.Render(); ok {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, "\n\n")
}

// field renders "Label: value" with a fallback for blank values
func field(label, value, fallback string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		value = fallback
	}
	return label + ": " + value
}

// lines joins non-blank lines
func lines(values ...string) string {
	kept := make([]string, 0, len(values))
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			kept = append(kept, v)
		}
	}
	return strings.Join(kept, "\n")
}
