package language

import (
	"fmt"

	"github.com/unrotten/graphql/ast"
	"github.com/unrotten/graphql/errors"
	"github.com/unrotten/graphql/token"
)

// Parse parses a single GraphQL document (one or more operation/fragment
// definitions) and returns its located AST. On the first malformed token it
// stops and returns a single GraphQLError; it never returns a partial
// Document alongside an error.
func Parse(source string) (doc *ast.Document, err *errors.GraphQLError) {
	l := newLexer(source)
	err = l.catchSyntaxError(func() {
		l.skipWhitespace()
		doc = parseDocument(l)
	})
	return
}

func parseDocument(l *lexer) *ast.Document {
	var definitions []ast.Definition
	for l.peek() != token.EOF {
		definitions = append(definitions, parseDefinition(l))
	}
	if len(definitions) == 0 {
		l.SyntaxError("Unexpected <EOF>.")
	}
	return &ast.Document{Definitions: definitions}
}

func parseDefinition(l *lexer) ast.Definition {
	if l.peek() == token.BRACE_L {
		return parseOperationDefinition(l, "")
	}
	if l.peek() == token.NAME {
		switch l.scan.TokenText() {
		case token.QUERY, token.MUTATION:
			return parseOperationDefinition(l, l.scan.TokenText())
		case token.FRAGMENT:
			return parseFragmentDefinition(l)
		}
	}
	l.SyntaxError(fmt.Sprintf("Unexpected %s.", l.describe()))
	panic("unreachable")
}

func parseOperationDefinition(l *lexer, opText string) *ast.OperationDefinition {
	loc := l.location()
	op := ast.Query
	if opText != "" {
		l.advanceKeyword(opText)
		if opText == token.MUTATION {
			op = ast.Mutation
		}
	}

	var name *ast.Name
	if l.peek() == token.NAME && opText != "" {
		name = parseName(l)
	}

	var vars []*ast.VariableDefinition
	if l.peek() == token.PAREN_L {
		vars = parseVariableDefinitions(l)
	}

	selSet := parseSelectionSet(l)

	return &ast.OperationDefinition{
		Operation:    op,
		Name:         name,
		Vars:         vars,
		SelectionSet: selSet,
		Loc:          loc,
	}
}

func parseVariableDefinitions(l *lexer) []*ast.VariableDefinition {
	l.advance(token.PAREN_L)
	var defs []*ast.VariableDefinition
	for l.peek() != token.PAREN_R {
		defs = append(defs, parseVariableDefinition(l))
	}
	l.advance(token.PAREN_R)
	return defs
}

func parseVariableDefinition(l *lexer) *ast.VariableDefinition {
	loc := l.location()
	v := parseVariable(l)
	l.advance(token.COLON)
	ty := parseType(l)
	var def ast.Value
	if l.peek() == token.EQUALS {
		l.advance(token.EQUALS)
		def = parseValueLiteral(l, true)
	}
	return &ast.VariableDefinition{Var: v, Type: ty, DefaultValue: def, Loc: loc}
}

func parseVariable(l *lexer) *ast.Variable {
	loc := l.location()
	l.advance(token.DOLLAR)
	return &ast.Variable{Name: parseName(l), Loc: loc}
}

func parseFragmentDefinition(l *lexer) *ast.FragmentDefinition {
	loc := l.location()
	l.advanceKeyword(token.FRAGMENT)
	name := parseName(l)
	l.advanceKeyword(token.ON)
	typeCondition := parseNamed(l)
	selSet := parseSelectionSet(l)
	return &ast.FragmentDefinition{
		Name:         name,
		TypeCondition: typeCondition,
		SelectionSet: selSet,
		Loc:          loc,
	}
}

func parseSelectionSet(l *lexer) *ast.SelectionSet {
	loc := l.location()
	l.advance(token.BRACE_L)
	var sels []ast.Selection
	for l.peek() != token.BRACE_R {
		sels = append(sels, parseSelection(l))
	}
	l.advance(token.BRACE_R)
	return &ast.SelectionSet{Selections: sels, Loc: loc}
}

func parseSelection(l *lexer) ast.Selection {
	if l.peek() == token.SPREAD {
		return parseFragment(l)
	}
	return parseField(l)
}

func parseField(l *lexer) *ast.Field {
	loc := l.location()
	nameOrAlias := parseName(l)
	var alias, name *ast.Name
	if l.peek() == token.COLON {
		l.advance(token.COLON)
		alias = nameOrAlias
		name = parseName(l)
	} else {
		name = nameOrAlias
	}

	var args []*ast.Argument
	if l.peek() == token.PAREN_L {
		args = parseArguments(l)
	}

	directives := parseDirectives(l)

	var selSet *ast.SelectionSet
	if l.peek() == token.BRACE_L {
		selSet = parseSelectionSet(l)
	}

	return &ast.Field{
		Alias:        alias,
		Name:         name,
		Arguments:    args,
		Directives:   directives,
		SelectionSet: selSet,
		Loc:          loc,
	}
}

func parseArguments(l *lexer) []*ast.Argument {
	l.advance(token.PAREN_L)
	var args []*ast.Argument
	for l.peek() != token.PAREN_R {
		args = append(args, parseArgument(l))
	}
	l.advance(token.PAREN_R)
	return args
}

func parseArgument(l *lexer) *ast.Argument {
	loc := l.location()
	name := parseName(l)
	l.advance(token.COLON)
	value := parseValueLiteral(l, false)
	return &ast.Argument{Name: name, Value: value, Loc: loc}
}

func parseFragment(l *lexer) ast.Selection {
	loc := l.location()
	l.advance(token.SPREAD)
	l.advance(token.SPREAD)
	l.advance(token.SPREAD)
	if l.peek() == token.NAME && l.scan.TokenText() != token.ON {
		name := parseName(l)
		directives := parseDirectives(l)
		return &ast.FragmentSpread{Name: name, Directives: directives, Loc: loc}
	}
	var typeCondition *ast.Named
	if l.peek() == token.NAME && l.scan.TokenText() == token.ON {
		l.advanceKeyword(token.ON)
		typeCondition = parseNamed(l)
	}
	directives := parseDirectives(l)
	selSet := parseSelectionSet(l)
	return &ast.InlineFragment{TypeCondition: typeCondition, Directives: directives, SelectionSet: selSet, Loc: loc}
}

// parseDirectives parses a `@name(args)` list. Any directive name is
// accepted here and kept on the node; the validator rejects every name
// other than `skip`/`include`.
func parseDirectives(l *lexer) []*ast.Directive {
	var directives []*ast.Directive
	for l.peek() == token.AT {
		loc := l.location()
		l.advance(token.AT)
		name := parseName(l)
		var args []*ast.Argument
		if l.peek() == token.PAREN_L {
			args = parseArguments(l)
		}
		directives = append(directives, &ast.Directive{Name: name, Arguments: args, Loc: loc})
	}
	return directives
}

func parseName(l *lexer) *ast.Name {
	loc := l.location()
	if l.peek() != token.NAME {
		l.SyntaxError(fmt.Sprintf("Expected Name, found %s.", l.describe()))
	}
	name := l.scan.TokenText()
	l.skipWhitespace()
	return &ast.Name{Name: name, Loc: loc}
}

func parseNamed(l *lexer) *ast.Named {
	loc := l.location()
	return &ast.Named{Name: parseName(l), Loc: loc}
}

func parseType(l *lexer) ast.Type {
	loc := l.location()
	var ty ast.Type
	if l.peek() == token.BRACKET_L {
		l.advance(token.BRACKET_L)
		inner := parseType(l)
		l.advance(token.BRACKET_R)
		ty = &ast.List{Type: inner, Loc: loc}
	} else {
		ty = parseNamed(l)
	}
	if l.peek() == token.BANG {
		l.advance(token.BANG)
		ty = &ast.NonNull{Type: ty, Loc: loc}
	}
	return ty
}

func parseValueLiteral(l *lexer, isConst bool) ast.Value {
	loc := l.location()
	switch l.peek() {
	case token.BRACKET_L:
		return parseList(l, isConst)
	case token.BRACE_L:
		return parseObject(l, isConst)
	case token.INT:
		v := l.scan.TokenText()
		l.skipWhitespace()
		return &ast.IntValue{Value: v, Loc: loc}
	case token.FLOAT:
		v := l.scan.TokenText()
		l.skipWhitespace()
		return &ast.FloatValue{Value: v, Loc: loc}
	case token.STRING:
		v, uerr := unquoteString(l.scan.TokenText())
		if uerr != nil {
			l.SyntaxError(uerr.Error())
		}
		l.skipWhitespace()
		return &ast.StringValue{Value: v, Loc: loc}
	case token.NAME:
		text := l.scan.TokenText()
		switch text {
		case token.TRUE, token.FALSE:
			l.skipWhitespace()
			return &ast.BooleanValue{Value: text == token.TRUE, Loc: loc}
		case token.NULL:
			l.skipWhitespace()
			return &ast.NullValue{Loc: loc}
		default:
			l.skipWhitespace()
			return &ast.EnumValue{Value: text, Loc: loc}
		}
	case token.DOLLAR:
		if !isConst {
			return parseVariable(l)
		}
	}
	l.SyntaxError(fmt.Sprintf("Unexpected %s.", l.describe()))
	panic("unreachable")
}

func parseList(l *lexer, isConst bool) ast.Value {
	loc := l.location()
	l.advance(token.BRACKET_L)
	var values []ast.Value
	for l.peek() != token.BRACKET_R {
		values = append(values, parseValueLiteral(l, isConst))
	}
	l.advance(token.BRACKET_R)
	return &ast.ListValue{Values: values, Loc: loc}
}

func parseObject(l *lexer, isConst bool) ast.Value {
	loc := l.location()
	l.advance(token.BRACE_L)
	var fields []*ast.ObjectField
	for l.peek() != token.BRACE_R {
		fields = append(fields, parseObjectField(l, isConst))
	}
	l.advance(token.BRACE_R)
	return &ast.ObjectValue{Fields: fields, Loc: loc}
}

func parseObjectField(l *lexer, isConst bool) *ast.ObjectField {
	loc := l.location()
	name := parseName(l)
	l.advance(token.COLON)
	value := parseValueLiteral(l, isConst)
	return &ast.ObjectField{Name: name, Value: value, Loc: loc}
}

// unquoteString resolves the Go-syntax escapes already validated by
// text/scanner.ScanStrings, including \uXXXX, stripping the surrounding
// quotes.
func unquoteString(raw string) (string, error) {
	var unq string
	if _, err := fmt.Sscanf(raw, "%q", &unq); err != nil {
		return "", fmt.Errorf("Invalid string literal %s.", raw)
	}
	return unq, nil
}
