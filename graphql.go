// Package graphql implements a GraphQL server-side execution core: parse
// a request document, validate it against a built Schema, and execute it
// into an ordered result plus a list of located errors. HTTP transport,
// request/response JSON encoding and an example schema are not part of
// this module.
package graphql

import (
	"context"

	"go.uber.org/zap"

	"github.com/unrotten/graphql/ast"
	"github.com/unrotten/graphql/errors"
	"github.com/unrotten/graphql/language"
	"github.com/unrotten/graphql/validation"
)

// Params is one request to execute: a query document, the operation to
// run if the document defines more than one, and the already-decoded
// variables map a transport layer extracted from the request body.
type Params struct {
	Query         string
	OperationName string
	Variables     map[string]interface{}
	Context       context.Context
}

// Response is the result of Execute. A parse, validation,
// operation-selection or variable-coercion failure carries only Errors;
// an execution failure may carry both Data and Errors.
type Response struct {
	Data       *OrderedMap            `json:"data,omitempty"`
	Errors     []*errors.GraphQLError `json:"errors,omitempty"`
	Extensions map[string]interface{} `json:"extensions,omitempty"`
}

// Logger receives the one class of diagnostic this package ever logs
// itself: an abstract-type resolution failure, which indicates the
// schema was built incorrectly rather than that the request was bad. It
// defaults to zap's no-op logger; callers that want these surfaced
// should pass their own *zap.Logger as Execute's logger argument.
var defaultLogger = zap.NewNop()

// Execute parses, validates and runs params.Query against schema. It
// never panics: a resolver panic is recovered and reported as that
// field's execution error.
func Execute(schema *Schema, params Params, logger *zap.Logger) *Response {
	if logger == nil {
		logger = defaultLogger
	}

	doc, perr := language.Parse(params.Query)
	if perr != nil {
		return &Response{Errors: []*errors.GraphQLError{perr}}
	}

	if verrs := validation.Validate(schema.registry, schema.meta.Query, schema.meta.Mutation, doc); len(verrs) > 0 {
		return &Response{Errors: verrs}
	}

	op, fragments, serr := selectOperation(doc, params.OperationName)
	if serr != nil {
		return &Response{Errors: []*errors.GraphQLError{serr}}
	}

	root := schema.meta.Query
	if op.Operation == ast.Mutation {
		if schema.meta.Mutation == nil {
			return &Response{Errors: []*errors.GraphQLError{
				errors.New("Schema is not configured for mutations."),
			}}
		}
		root = schema.meta.Mutation
	}

	variables, verr := coerceVariableValues(schema.registry, op.Vars, params.Variables)
	if verr != nil {
		return &Response{Errors: []*errors.GraphQLError{verr}}
	}

	ctx := params.Context
	if ctx == nil {
		ctx = context.Background()
	}

	exec := &executor{variables: variables, fragments: fragments, logger: logger}
	data, errs := exec.execute(ctx, root, nil, op.SelectionSet)
	return &Response{Data: data, Errors: errs}
}
