package expr

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/vegasq/tabula/errs"
	"github.com/vegasq/tabula/scalar"
)

// Parser turns expression text into a Node tree.
//
// A Parser holds no per-parse state, so one value can be shared by any
// number of goroutines. Each Parse call works on its own token cursor.
type Parser struct {
	MaxDepth int
}

// NewParser creates a parser with the default nesting limit
func NewParser() *Parser {
	return &Parser{MaxDepth: MaxExpressionDepth}
}

var defaultParser = NewParser()

// Parse parses text with the shared default parser
func Parse(text string) (Node, error) {
	return defaultParser.Parse(text)
}

// Parse parses a complete expression. On failure no tree is returned.
func (p *Parser) Parse(text string) (Node, error) {
	tokens, err := Tokenize(text)
	if err != nil {
		return nil, wrapSyntax(err)
	}

	maxDepth := p.MaxDepth
	if maxDepth <= 0 {
		maxDepth = MaxExpressionDepth
	}
	ps := &parser{tokens: tokens, depth: depthCounter{maxDepth: maxDepth}}

	node, err := ps.parseOr()
	if err != nil {
		return nil, wrapSyntax(err)
	}
	if ps.current().Type != TokenEOF {
		return nil, ps.unexpected("end of expression")
	}
	return node, nil
}

func wrapSyntax(err error) error {
	if _, ok := err.(*errs.SyntaxError); ok {
		return err
	}
	return fmt.Errorf("%w: %w", errs.ErrSyntax, err)
}

// parser is the cursor over one token stream
type parser struct {
	tokens []Token
	pos    int
	depth  depthCounter
}

// current returns the current token
func (p *parser) current() Token {
	if p.pos >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[p.pos]
}

// peek returns the token after the current one
func (p *parser) peek() Token {
	if p.pos+1 >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[p.pos+1]
}

// advance moves to the next token
func (p *parser) advance() {
	if p.pos < len(p.tokens) {
		p.pos++
	}
}

// expect consumes a token of the given type or fails
func (p *parser) expect(t TokenType) error {
	if p.current().Type != t {
		return p.unexpected(t.String())
	}
	p.advance()
	return nil
}

func (p *parser) unexpected(expected string) error {
	tok := p.current()
	found := tok.Value
	if tok.Type == TokenEOF {
		found = ""
	}
	return &errs.SyntaxError{Pos: tok.Pos, Expected: expected, Found: found}
}

// parseOr parses OR and XOR (lowest precedence)
func (p *parser) parseOr() (Node, error) {
	if err := p.depth.enter(); err != nil {
		return nil, err
	}
	defer p.depth.exit()

	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}

	for p.current().Type == TokenOr || p.current().Type == TokenXor {
		op := OpOr
		if p.current().Type == TokenXor {
			op = OpXor
		}
		p.advance()
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = &BinaryExpr{Left: left, Operator: op, Right: right}
	}

	return left, nil
}

// parseAnd parses AND expressions
func (p *parser) parseAnd() (Node, error) {
	left, err := p.parseNot()
	if err != nil {
		return nil, err
	}

	for p.current().Type == TokenAnd {
		p.advance()
		right, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		left = &BinaryExpr{Left: left, Operator: OpAnd, Right: right}
	}

	return left, nil
}

// parseNot parses the keyword NOT that binds looser than comparisons
func (p *parser) parseNot() (Node, error) {
	if p.current().Type != TokenNot {
		return p.parseComparison()
	}
	if err := p.depth.enter(); err != nil {
		return nil, err
	}
	defer p.depth.exit()

	p.advance()
	operand, err := p.parseNot()
	if err != nil {
		return nil, err
	}
	return &UnaryExpr{Operator: OpNot, Operand: operand}, nil
}

var comparisonOperators = map[TokenType]BinaryOperator{
	TokenEqual:        OpEq,
	TokenNotEqual:     OpNe,
	TokenLess:         OpLt,
	TokenLessEqual:    OpLe,
	TokenGreater:      OpGt,
	TokenGreaterEqual: OpGe,
}

// parseComparison parses one comparison, IS [NOT] NULL, LIKE or IN.
// The level is non-associative: at most one operator is consumed.
func (p *parser) parseComparison() (Node, error) {
	left, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}

	tok := p.current()
	if op, ok := comparisonOperators[tok.Type]; ok {
		p.advance()
		right, err := p.parseAdditive()
		if err != nil {
			return nil, err
		}
		return &BinaryExpr{Left: left, Operator: op, Right: right}, nil
	}

	negate := false
	if tok.Type == TokenNot {
		switch p.peek().Type {
		case TokenLike, TokenLikeI, TokenIn:
			negate = true
			p.advance()
		default:
			return left, nil
		}
	}

	switch p.current().Type {
	case TokenIs:
		return p.parseIsNull(left)
	case TokenLike, TokenLikeI:
		caseInsensitive := p.current().Type == TokenLikeI
		p.advance()
		pattern, err := p.parseAdditive()
		if err != nil {
			return nil, err
		}
		return &LikeExpr{Probe: left, Pattern: pattern, CaseInsensitive: caseInsensitive, Negate: negate}, nil
	case TokenIn:
		return p.parseIn(left, negate)
	}

	return left, nil
}

// parseIsNull parses "IS [NOT] NULL"
func (p *parser) parseIsNull(left Node) (Node, error) {
	p.advance() // skip IS
	op := OpIs
	if p.current().Type == TokenNot {
		op = OpIsNot
		p.advance()
	}
	if err := p.expect(TokenNull); err != nil {
		return nil, err
	}
	return &BinaryExpr{Left: left, Operator: op, Right: &NullLiteral{}}, nil
}

// parseIn parses "IN (e1, e2, ...)"
func (p *parser) parseIn(probe Node, negate bool) (Node, error) {
	p.advance() // skip IN
	if err := p.expect(TokenLeftParen); err != nil {
		return nil, err
	}
	if p.current().Type == TokenRightParen {
		return nil, p.unexpected("at least one IN value")
	}

	var candidates []Node
	for {
		c, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		candidates = append(candidates, c)
		if p.current().Type != TokenComma {
			break
		}
		p.advance()
	}

	if err := p.expect(TokenRightParen); err != nil {
		return nil, err
	}
	return &InExpr{Probe: probe, Candidates: candidates, Negate: negate}, nil
}

// parseAdditive parses + and -
func (p *parser) parseAdditive() (Node, error) {
	left, err := p.parseMultiplicative()
	if err != nil {
		return nil, err
	}

	for p.current().Type == TokenPlus || p.current().Type == TokenMinus {
		op := OpAdd
		if p.current().Type == TokenMinus {
			op = OpSub
		}
		p.advance()
		right, err := p.parseMultiplicative()
		if err != nil {
			return nil, err
		}
		left = &BinaryExpr{Left: left, Operator: op, Right: right}
	}

	return left, nil
}

var multiplicativeOperators = map[TokenType]BinaryOperator{
	TokenStar:    OpMul,
	TokenSlash:   OpDiv,
	TokenPercent: OpMod,
}

// parseMultiplicative parses *, / and %
func (p *parser) parseMultiplicative() (Node, error) {
	left, err := p.parseExponent()
	if err != nil {
		return nil, err
	}

	for {
		op, ok := multiplicativeOperators[p.current().Type]
		if !ok {
			return left, nil
		}
		p.advance()
		right, err := p.parseExponent()
		if err != nil {
			return nil, err
		}
		left = &BinaryExpr{Left: left, Operator: op, Right: right}
	}
}

// parseExponent parses ^, left-associative like every binary level
func (p *parser) parseExponent() (Node, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}

	for p.current().Type == TokenCaret {
		p.advance()
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = &BinaryExpr{Left: left, Operator: OpPow, Right: right}
	}

	return left, nil
}

// parseUnary parses prefix -, +, NOT and !
func (p *parser) parseUnary() (Node, error) {
	tok := p.current()
	switch tok.Type {
	case TokenMinus, TokenPlus, TokenNot, TokenBang:
	default:
		return p.parsePrimary()
	}

	if err := p.depth.enter(); err != nil {
		return nil, err
	}
	defer p.depth.exit()

	p.advance()
	operand, err := p.parseUnary()
	if err != nil {
		return nil, err
	}

	switch tok.Type {
	case TokenPlus:
		return operand, nil
	case TokenMinus:
		if lit, ok := operand.(*Literal); ok {
			if neg, ok := negateLiteral(lit.Value); ok {
				return &Literal{Value: neg}, nil
			}
		}
		return &UnaryExpr{Operator: OpNeg, Operand: operand}, nil
	default:
		return &UnaryExpr{Operator: OpNot, Operand: operand}, nil
	}
}

// negateLiteral folds a minus sign into a numeric literal
func negateLiteral(v scalar.Value) (scalar.Value, bool) {
	switch v.Type() {
	case scalar.Int32:
		n, _ := v.Int()
		if n == math.MinInt32 {
			return scalar.I64(-n), true
		}
		return scalar.I32(int32(-n)), true
	case scalar.Int64:
		n, _ := v.Int()
		return scalar.I64(-n), true
	case scalar.Double:
		f, _ := v.Float()
		return scalar.Float64(-f), true
	}
	return v, false
}

// parsePrimary parses literals, column references, function calls and
// parenthesized expressions
func (p *parser) parsePrimary() (Node, error) {
	tok := p.current()

	switch tok.Type {
	case TokenInt:
		p.advance()
		return intLiteral(tok)
	case TokenNumber:
		p.advance()
		f, err := strconv.ParseFloat(tok.Value, 64)
		if err != nil {
			return nil, &errs.SyntaxError{Pos: tok.Pos, Expected: "number", Found: tok.Value}
		}
		return &Literal{Value: scalar.Float64(f)}, nil
	case TokenString:
		p.advance()
		return &Literal{Value: scalar.Str(tok.Value)}, nil
	case TokenBool:
		p.advance()
		return &Literal{Value: scalar.Bool(strings.EqualFold(tok.Value, "true"))}, nil
	case TokenDate:
		p.advance()
		t, ok := scalar.ParseDate(tok.Value)
		if !ok {
			return nil, &errs.SyntaxError{Pos: tok.Pos, Expected: "date literal", Found: tok.Value}
		}
		return &Literal{Value: scalar.Time(t)}, nil
	case TokenNull:
		p.advance()
		return &NullLiteral{}, nil
	case TokenColumn:
		p.advance()
		if err := ValidateColumnName(tok.Value); err != nil {
			return nil, err
		}
		return &ColumnRef{Name: tok.Value}, nil
	case TokenIdent:
		if p.peek().Type == TokenLeftParen {
			return p.parseFunctionCall()
		}
		p.advance()
		if err := ValidateColumnName(tok.Value); err != nil {
			return nil, err
		}
		return &ColumnRef{Name: tok.Value}, nil
	case TokenLeftParen:
		p.advance()
		inner, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		if err := p.expect(TokenRightParen); err != nil {
			return nil, err
		}
		return inner, nil
	}

	return nil, p.unexpected("expression")
}

// intLiteral types an integer as Int32 when it fits, then Int64, then Double
func intLiteral(tok Token) (Node, error) {
	n, err := strconv.ParseInt(tok.Value, 10, 64)
	if err == nil {
		if n <= math.MaxInt32 {
			return &Literal{Value: scalar.I32(int32(n))}, nil
		}
		return &Literal{Value: scalar.I64(n)}, nil
	}
	f, ferr := strconv.ParseFloat(tok.Value, 64)
	if ferr != nil {
		return nil, &errs.SyntaxError{Pos: tok.Pos, Expected: "integer", Found: tok.Value}
	}
	return &Literal{Value: scalar.Float64(f)}, nil
}

// parseFunctionCall parses NAME(arg, ...)
func (p *parser) parseFunctionCall() (Node, error) {
	name := p.current().Value
	p.advance() // skip name
	p.advance() // skip (

	call := &FunctionCall{Name: name}
	if p.current().Type == TokenRightParen {
		p.advance()
		return call, nil
	}

	for {
		arg, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		call.Args = append(call.Args, arg)
		if p.current().Type != TokenComma {
			break
		}
		p.advance()
	}

	if err := p.expect(TokenRightParen); err != nil {
		return nil, err
	}
	return call, nil
}
