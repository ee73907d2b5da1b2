package parser

import "strings"

// SourceType distinguishes regular modules from type stubs.
type SourceType int

const (
	// SourcePython is a regular ".py" module.
	SourcePython SourceType = iota
	// SourceStub is a ".pyi" type stub.
	SourceStub
)

// SourceTypeFromExtension derives the source type from a file extension,
// with or without the leading dot. Unknown extensions are regular modules.
func SourceTypeFromExtension(ext string) SourceType {
	if strings.EqualFold(strings.TrimPrefix(ext, "."), "pyi") {
		return SourceStub
	}
	return SourcePython
}

// IsStub reports whether the source is a type stub.
func (s SourceType) IsStub() bool {
	return s == SourceStub
}

// Mode returns the parse mode used for this source type.
func (s SourceType) Mode() Mode {
	return ModeModule
}

func (s SourceType) String() string {
	if s == SourceStub {
		return "stub"
	}
	return "python"
}

// Mode selects what the parser accepts.
type Mode int

const (
	// ModeModule accepts a full module: any sequence of statements.
	ModeModule Mode = iota
	// ModeExpression accepts a single expression.
	ModeExpression
)
