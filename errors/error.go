// Package errors defines the error values threaded through the parser,
// validator and executor.
package errors

import "fmt"

// GraphQLError is the single error value produced by every stage: parsing,
// validation and execution. Path is only populated by the executor.
type GraphQLError struct {
	Message       string                 `json:"message"`
	Locations     []Location             `json:"locations,omitempty"`
	Path          []interface{}          `json:"path,omitempty"`
	Rule          string                 `json:"-"`
	ResolverError error                  `json:"-"`
	Extensions    map[string]interface{} `json:"extensions,omitempty"`
}

func (err *GraphQLError) Error() string {
	if err == nil {
		return "<nil>"
	}
	str := fmt.Sprintf("graphql: %s", err.Message)
	if err.ResolverError != nil {
		str += " " + err.ResolverError.Error()
	}
	for _, loc := range err.Locations {
		str += fmt.Sprintf(" (%d:%d)", loc.Line, loc.Column)
	}
	if err.Path != nil {
		str += fmt.Sprintf(" path: %v", err.Path)
	}
	return str
}

var _ error = (*GraphQLError)(nil)

// MultiError collects every rule/execution error produced in one pass.
type MultiError []*GraphQLError

func (m MultiError) Error() string {
	var res string
	for _, err := range m {
		res += err.Error() + "\n"
	}
	return res
}

func (m *MultiError) Add(err *GraphQLError) {
	*m = append(*m, err)
}

// Location is a zero-based line/column source position, matching the
// column/line convention already baked into the published error fixtures.
type Location struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

func (a Location) Before(b Location) bool {
	return a.Line < b.Line || (a.Line == b.Line && a.Column < b.Column)
}

// New builds a GraphQLError with no location; callers attach one when known.
func New(format string, arg ...interface{}) *GraphQLError {
	return &GraphQLError{Message: fmt.Sprintf(format, arg...)}
}

// At attaches a single source location to the error and returns it.
func (err *GraphQLError) At(loc Location) *GraphQLError {
	err.Locations = []Location{loc}
	return err
}

// WithPath attaches a field path to the error and returns it.
func (err *GraphQLError) WithPath(path []interface{}) *GraphQLError {
	err.Path = path
	return err
}
