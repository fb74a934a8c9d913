package expr

import (
	"strings"
	"unicode"

	"github.com/vegasq/tabula/errs"
)

// Lexer tokenizes expression strings
type Lexer struct {
	input []rune
	pos   int
	ch    rune
}

// NewLexer creates a new lexer
func NewLexer(input string) *Lexer {
	l := &Lexer{input: []rune(input)}
	l.readChar()
	return l
}

// readChar reads the next character
func (l *Lexer) readChar() {
	if l.pos >= len(l.input) {
		l.ch = 0
	} else {
		l.ch = l.input[l.pos]
	}
	l.pos++
}

// peekChar looks at the next character without advancing
func (l *Lexer) peekChar() rune {
	if l.pos >= len(l.input) {
		return 0
	}
	return l.input[l.pos]
}

// offset is the index of the current character
func (l *Lexer) offset() int {
	return l.pos - 1
}

func (l *Lexer) atEnd() bool {
	return l.pos > len(l.input)
}

func (l *Lexer) skipWhitespace() {
	for unicode.IsSpace(l.ch) {
		l.readChar()
	}
}

// readString reads a quoted string with backslash escapes
func (l *Lexer) readString(quote rune) (string, bool) {
	var result strings.Builder
	l.readChar() // skip opening quote

	for l.ch != quote {
		if l.atEnd() {
			return result.String(), false
		}
		if l.ch == '\\' {
			l.readChar()
			switch l.ch {
			case 'n':
				result.WriteRune('\n')
			case 't':
				result.WriteRune('\t')
			case 'r':
				result.WriteRune('\r')
			default:
				if l.atEnd() {
					return result.String(), false
				}
				result.WriteRune(l.ch)
			}
		} else {
			result.WriteRune(l.ch)
		}
		l.readChar()
	}

	l.readChar() // skip closing quote
	return result.String(), true
}

// readDelimited reads everything up to the closing delimiter, used for
// [column names] and #date literals#
func (l *Lexer) readDelimited(closing rune) (string, bool) {
	var result strings.Builder
	l.readChar() // skip opening delimiter

	for l.ch != closing {
		if l.atEnd() {
			return result.String(), false
		}
		result.WriteRune(l.ch)
		l.readChar()
	}

	l.readChar() // skip closing delimiter
	return result.String(), true
}

// readNumber reads an integer or decimal number with an optional exponent
func (l *Lexer) readNumber() (string, TokenType) {
	var result strings.Builder
	typ := TokenInt

	for unicode.IsDigit(l.ch) {
		result.WriteRune(l.ch)
		l.readChar()
	}
	if l.ch == '.' && unicode.IsDigit(l.peekChar()) {
		typ = TokenNumber
		result.WriteRune(l.ch)
		l.readChar()
		for unicode.IsDigit(l.ch) {
			result.WriteRune(l.ch)
			l.readChar()
		}
	}
	if l.ch == 'e' || l.ch == 'E' {
		next := l.peekChar()
		if unicode.IsDigit(next) || next == '+' || next == '-' {
			typ = TokenNumber
			result.WriteRune(l.ch)
			l.readChar()
			if l.ch == '+' || l.ch == '-' {
				result.WriteRune(l.ch)
				l.readChar()
			}
			for unicode.IsDigit(l.ch) {
				result.WriteRune(l.ch)
				l.readChar()
			}
		}
	}
	return result.String(), typ
}

func isIdentStart(ch rune) bool {
	return unicode.IsLetter(ch) || ch == '_' || ch == '.'
}

func isIdentPart(ch rune) bool {
	return unicode.IsLetter(ch) || unicode.IsDigit(ch) || ch == '_' || ch == '.'
}

// readIdentifier reads a function name, bare column name or keyword
func (l *Lexer) readIdentifier() string {
	var result strings.Builder
	for isIdentPart(l.ch) {
		result.WriteRune(l.ch)
		l.readChar()
	}
	return result.String()
}

// NextToken returns the next token
func (l *Lexer) NextToken() Token {
	l.skipWhitespace()

	start := l.offset()
	tok := Token{Pos: start}

	single := func(t TokenType, value string) {
		tok.Type, tok.Value = t, value
		l.readChar()
	}
	double := func(t TokenType, value string) {
		tok.Type, tok.Value = t, value
		l.readChar()
		l.readChar()
	}

	switch {
	case l.atEnd():
		tok.Type = TokenEOF
	case l.ch == '=':
		if l.peekChar() == '=' {
			double(TokenEqual, "==")
		} else {
			single(TokenEqual, "=")
		}
	case l.ch == '!':
		if l.peekChar() == '=' {
			double(TokenNotEqual, "!=")
		} else {
			single(TokenBang, "!")
		}
	case l.ch == '<':
		switch l.peekChar() {
		case '=':
			double(TokenLessEqual, "<=")
		case '>':
			double(TokenNotEqual, "<>")
		default:
			single(TokenLess, "<")
		}
	case l.ch == '>':
		if l.peekChar() == '=' {
			double(TokenGreaterEqual, ">=")
		} else {
			single(TokenGreater, ">")
		}
	case l.ch == '+':
		single(TokenPlus, "+")
	case l.ch == '-':
		single(TokenMinus, "-")
	case l.ch == '*':
		single(TokenStar, "*")
	case l.ch == '/':
		single(TokenSlash, "/")
	case l.ch == '%':
		single(TokenPercent, "%")
	case l.ch == '^':
		single(TokenCaret, "^")
	case l.ch == ',':
		single(TokenComma, ",")
	case l.ch == '(':
		single(TokenLeftParen, "(")
	case l.ch == ')':
		single(TokenRightParen, ")")
	case l.ch == '\'' || l.ch == '"':
		value, ok := l.readString(l.ch)
		tok.Type, tok.Value = TokenString, value
		if !ok {
			tok.Type, tok.Value = TokenError, "unterminated string"
		}
	case l.ch == '[':
		value, ok := l.readDelimited(']')
		tok.Type, tok.Value = TokenColumn, value
		if !ok {
			tok.Type, tok.Value = TokenError, "unterminated column name"
		}
	case l.ch == '#':
		value, ok := l.readDelimited('#')
		tok.Type, tok.Value = TokenDate, strings.TrimSpace(value)
		if !ok {
			tok.Type, tok.Value = TokenError, "unterminated date literal"
		}
	case unicode.IsDigit(l.ch) || (l.ch == '.' && unicode.IsDigit(l.peekChar())):
		tok.Value, tok.Type = l.readNumber()
	case isIdentStart(l.ch):
		tok.Value = l.readIdentifier()
		tok.Type = identifierType(tok.Value)
	default:
		tok.Type, tok.Value = TokenError, string(l.ch)
		l.readChar()
	}

	return tok
}

// identifierType determines if an identifier is a keyword
func identifierType(ident string) TokenType {
	if tokType, ok := keywords[strings.ToUpper(ident)]; ok {
		return tokType
	}
	return TokenIdent
}

// Tokenize returns all tokens from the input, ending with TokenEOF.
// A malformed token yields a SyntaxError.
func Tokenize(input string) ([]Token, error) {
	if err := ValidateExpression(input); err != nil {
		return nil, err
	}

	lexer := NewLexer(input)
	var tokens []Token

	for {
		tok := lexer.NextToken()
		if tok.Type == TokenError {
			return nil, &errs.SyntaxError{Pos: tok.Pos, Expected: "valid token", Found: tok.Value}
		}
		tokens = append(tokens, tok)
		if tok.Type == TokenEOF {
			break
		}
	}

	if err := ValidateTokens(tokens); err != nil {
		return nil, err
	}
	return tokens, nil
}
