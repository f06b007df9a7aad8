package axon

import (
	"strings"
)

// AxonPathPartType represents the type of path part
type AxonPathPartType int

const (
	StaticPart AxonPathPartType = iota
	ParameterPart
	WildcardPart
)

// AxonPathPart represents a single part of an Axon path
type AxonPathPart struct {
	Type      AxonPathPartType
	Value     string // For static parts: the literal text, for parameters: the parameter name
	ParamType string // For parameters: the type (e.g., "int", "string"), empty for untyped
}

// AxonPath represents a path in Axon format, e.g. "/users/{id:int}/email"
type AxonPath string

// NewAxonPath creates a new AxonPath from a string
func NewAxonPath(path string) AxonPath {
	return AxonPath(path)
}

// Raw returns the original Axon path format
func (p AxonPath) Raw() string {
	return string(p)
}

// Join appends p to prefix, collapsing the slash between them. A bare "/"
// is treated as the prefix itself.
func (p AxonPath) Join(prefix string) AxonPath {
	suffix := string(p)
	if suffix == "" || suffix == "/" {
		if prefix == "" {
			return AxonPath("/")
		}
		return AxonPath(prefix)
	}
	return AxonPath(strings.TrimSuffix(prefix, "/") + "/" + strings.TrimPrefix(suffix, "/"))
}

// Parts parses the Axon path and returns the individual parts
func (p AxonPath) Parts() []AxonPathPart {
	path := string(p)
	var parts []AxonPathPart

	i := 0
	for i < len(path) {
		if path[i] != '{' {
			// Static part - collect consecutive static characters
			start := i
			for i < len(path) && path[i] != '{' {
				i++
			}
			parts = append(parts, AxonPathPart{Type: StaticPart, Value: path[start:i]})
			continue
		}

		j := strings.IndexByte(path[i:], '}')
		if j == -1 {
			// Malformed, treat the rest as static
			parts = append(parts, AxonPathPart{Type: StaticPart, Value: path[i:]})
			break
		}
		content := path[i+1 : i+j]
		i += j + 1

		if content == "*" {
			parts = append(parts, AxonPathPart{Type: WildcardPart, Value: "*"})
			continue
		}

		name, typ := content, ""
		if colon := strings.IndexByte(content, ':'); colon != -1 {
			name, typ = content[:colon], content[colon+1:]
		}
		parts = append(parts, AxonPathPart{Type: ParameterPart, Value: name, ParamType: typ})
	}

	return parts
}

// Convert renders the path in a framework specific syntax. param formats a
// parameter name (":id" for gin, "{id}" for chi) and wildcard replaces {*}.
func (p AxonPath) Convert(param func(name string) string, wildcard string) string {
	var b strings.Builder
	for _, part := range p.Parts() {
		switch part.Type {
		case ParameterPart:
			b.WriteString(param(part.Value))
		case WildcardPart:
			b.WriteString(wildcard)
		default:
			b.WriteString(part.Value)
		}
	}
	if b.Len() == 0 {
		return "/"
	}
	return b.String()
}

// ColonParam formats a parameter the way gin, echo and fiber expect it
func ColonParam(name string) string {
	return ":" + name
}
