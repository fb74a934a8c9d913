package expr

// TokenType represents the type of a lexical token
type TokenType int

const (
	TokenEOF TokenType = iota
	TokenError
	TokenColumn
	TokenIdent
	TokenInt
	TokenNumber
	TokenString
	TokenBool
	TokenDate
	TokenNull
	TokenNot
	TokenAnd
	TokenOr
	TokenXor
	TokenIs
	TokenIn
	TokenLike
	TokenLikeI
	TokenEqual
	TokenNotEqual
	TokenLess
	TokenLessEqual
	TokenGreater
	TokenGreaterEqual
	TokenPlus
	TokenMinus
	TokenStar
	TokenSlash
	TokenPercent
	TokenCaret
	TokenBang
	TokenComma
	TokenLeftParen
	TokenRightParen
)

var tokenNames = map[TokenType]string{
	TokenEOF:          "end of expression",
	TokenError:        "error",
	TokenColumn:       "column",
	TokenIdent:        "identifier",
	TokenInt:          "integer",
	TokenNumber:       "number",
	TokenString:       "string",
	TokenBool:         "boolean",
	TokenDate:         "date",
	TokenNull:         "NULL",
	TokenNot:          "NOT",
	TokenAnd:          "AND",
	TokenOr:           "OR",
	TokenXor:          "XOR",
	TokenIs:           "IS",
	TokenIn:           "IN",
	TokenLike:         "LIKE",
	TokenLikeI:        "LIKEI",
	TokenEqual:        "==",
	TokenNotEqual:     "!=",
	TokenLess:         "<",
	TokenLessEqual:    "<=",
	TokenGreater:      ">",
	TokenGreaterEqual: ">=",
	TokenPlus:         "+",
	TokenMinus:        "-",
	TokenStar:         "*",
	TokenSlash:        "/",
	TokenPercent:      "%",
	TokenCaret:        "^",
	TokenBang:         "!",
	TokenComma:        ",",
	TokenLeftParen:    "(",
	TokenRightParen:   ")",
}

func (t TokenType) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}
	return "unknown"
}

// Token represents a lexical token. Pos is the rune offset of its first
// character in the expression text.
type Token struct {
	Type  TokenType
	Value string
	Pos   int
}

var keywords = map[string]TokenType{
	"NOT":   TokenNot,
	"AND":   TokenAnd,
	"OR":    TokenOr,
	"XOR":   TokenXor,
	"IS":    TokenIs,
	"IN":    TokenIn,
	"LIKE":  TokenLike,
	"LIKEI": TokenLikeI,
	"NULL":  TokenNull,
	"TRUE":  TokenBool,
	"FALSE": TokenBool,
}
