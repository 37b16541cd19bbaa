package filterscript

import "errors"

var (
	// ErrInvalidFilterAST is returned when the compiler encounters an
	// unsupported AST node, e.g. a Derived (custom-predicate) filter.
	ErrInvalidFilterAST = errors.New("filterscript: invalid filter AST")

	// ErrInvalidBytecode is returned by Deserialize on a bad magic,
	// unknown version, malformed constant pool, or unknown opcode.
	ErrInvalidBytecode = errors.New("filterscript: invalid bytecode")

	// ErrRegexCompile is returned at compile time when a MATCHES or
	// LIKE pattern fails to compile as a regular expression.
	ErrRegexCompile = errors.New("filterscript: regex compile failure")
)
