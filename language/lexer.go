// Package language implements the GraphQL query-language lexer and a
// recursive-descent parser producing the ast package's Document tree.
package language

import (
	"bytes"
	"fmt"
	"strings"
	"text/scanner"

	"github.com/unrotten/graphql/errors"
	"github.com/unrotten/graphql/token"
)

// syntaxError is the panic value used to unwind out of a parse on the
// first error; the parser is fail-fast per spec.md §4.1.
type syntaxError string

type lexer struct {
	scan    *scanner.Scanner
	next    rune
	comment bytes.Buffer
}

func newLexer(source string) *lexer {
	scan := &scanner.Scanner{
		Mode: scanner.ScanIdents | scanner.ScanInts | scanner.ScanFloats | scanner.ScanStrings,
	}
	scan.Init(strings.NewReader(source))
	return &lexer{scan: scan}
}

// catchSyntaxError runs fn, converting any syntaxError panic raised during
// parsing into a single located GraphQLError. Any other panic propagates.
func (l *lexer) catchSyntaxError(fn func()) (graphQLError *errors.GraphQLError) {
	defer func() {
		if err := recover(); err != nil {
			if msg, ok := err.(syntaxError); ok {
				graphQLError = errors.New("Syntax Error: %s", msg).At(l.location())
				return
			}
			panic(err)
		}
	}()
	fn()
	return
}

func (l *lexer) peek() rune {
	return l.next
}

func (l *lexer) location() errors.Location {
	return errors.Location{Line: l.scan.Line - 1, Column: l.scan.Column - 1}
}

// skipWhitespace advances past insignificant separators: whitespace,
// commas and `#` comments.
func (l *lexer) skipWhitespace() {
	l.comment.Reset()
	for {
		l.next = l.scan.Scan()
		if l.next == ',' {
			continue
		}
		if l.next == '#' {
			l.skipComment()
			continue
		}
		break
	}
}

func (l *lexer) skipComment() {
	if l.scan.Peek() == ' ' {
		l.scan.Next()
	}
	if l.comment.Len() > 0 {
		l.comment.WriteRune('\n')
	}
	for {
		next := l.scan.Next()
		if next == '\r' || next == '\n' || next == scanner.EOF {
			break
		}
		l.comment.WriteRune(next)
	}
}

// advance requires the current token to be `expected`, then moves past it.
func (l *lexer) advance(expected rune) {
	if l.next != expected {
		l.SyntaxError(fmt.Sprintf("Expected %s, found %s.", scanner.TokenString(expected), l.describe()))
	}
	l.skipWhitespace()
}

func (l *lexer) advanceKeyword(keyword string) {
	if l.next != token.NAME || l.scan.TokenText() != keyword {
		l.SyntaxError(fmt.Sprintf("Expected %q, found %s.", keyword, l.describe()))
	}
	l.skipWhitespace()
}

func (l *lexer) describe() string {
	if l.next == token.EOF {
		return "<EOF>"
	}
	text := strings.TrimPrefix(l.scan.TokenText(), `"`)
	text = strings.TrimSuffix(text, `"`)
	return fmt.Sprintf("%q", text)
}

func (l *lexer) SyntaxError(message string) {
	panic(syntaxError(message))
}
