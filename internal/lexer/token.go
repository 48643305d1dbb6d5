package lexer

import "fmt"

// TokenType classifies a lexeme.
type TokenType int

// Span represents the source location of a token.
type Span struct {
	Filename string // optional source filename for diagnostics
	Line     int    // 1-based line number
	Column   int    // 1-based column number, counted in bytes
	Start    int    // byte offset of the first byte
	End      int    // exclusive byte offset
}

// String returns file:line:column, or line:column when no filename is set.
func (s Span) String() string {
	if s.Filename != "" {
		return fmt.Sprintf("%s:%d:%d", s.Filename, s.Line, s.Column)
	}
	return fmt.Sprintf("%d:%d", s.Line, s.Column)
}

// Len returns the number of bytes covered by the span.
func (s Span) Len() int { return s.End - s.Start }

// Token is a classified lexeme. Lexeme is the exact source slice.
type Token struct {
	Type   TokenType
	Lexeme string
	Span   Span
}

func (t Token) String() string {
	switch t.Type {
	case EOF:
		return "end of input"
	case IDENT, INT, UINT, FLOAT, STRING, ILLEGAL:
		return fmt.Sprintf("%s %q", t.Type, t.Lexeme)
	default:
		return t.Type.String()
	}
}

// Token type constants
const (
	// Special tokens
	ILLEGAL TokenType = iota
	EOF

	// Keywords
	FUN
	CLASS
	VAL // also spelled "let"
	VAR
	PUB
	PRIV
	IMPORT
	GROUP
	RET
	NEW
	IF
	ELSE
	WHILE
	FOR
	IN
	TRUE
	FALSE

	IDENT

	// Literals
	INT    // 1_000
	UINT   // 42u
	FLOAT  // 3.14, 1.0e-3
	STRING // "hello"

	// Operators
	PLUS     // +
	MINUS    // -
	ASTERISK // *
	SLASH    // /
	PERCENT  // %

	ASSIGN // =
	EQ     // ==
	NOT_EQ // !=
	LT     // <
	LE     // <=
	GT     // >
	GE     // >=

	AND   // &&
	OR    // ||
	BANG  // !
	TILDE // ~

	// Punctuation
	SEMICOLON
	COLON
	COMMA
	DOT
	LPAREN
	RPAREN
	LBRACE
	RBRACE
	LBRACKET
	RBRACKET

	AT // @
)

var tokenNames = [...]string{
	ILLEGAL: "illegal token",
	EOF:     "end of input",

	FUN:    "'fun'",
	CLASS:  "'class'",
	VAL:    "'val'",
	VAR:    "'var'",
	PUB:    "'pub'",
	PRIV:   "'priv'",
	IMPORT: "'import'",
	GROUP:  "'group'",
	RET:    "'ret'",
	NEW:    "'new'",
	IF:     "'if'",
	ELSE:   "'else'",
	WHILE:  "'while'",
	FOR:    "'for'",
	IN:     "'in'",
	TRUE:   "'true'",
	FALSE:  "'false'",

	IDENT: "identifier",

	INT:    "integer literal",
	UINT:   "unsigned integer literal",
	FLOAT:  "float literal",
	STRING: "string literal",

	PLUS:     "'+'",
	MINUS:    "'-'",
	ASTERISK: "'*'",
	SLASH:    "'/'",
	PERCENT:  "'%'",

	ASSIGN: "'='",
	EQ:     "'=='",
	NOT_EQ: "'!='",
	LT:     "'<'",
	LE:     "'<='",
	GT:     "'>'",
	GE:     "'>='",

	AND:   "'&&'",
	OR:    "'||'",
	BANG:  "'!'",
	TILDE: "'~'",

	SEMICOLON: "';'",
	COLON:     "':'",
	COMMA:     "','",
	DOT:       "'.'",
	LPAREN:    "'('",
	RPAREN:    "')'",
	LBRACE:    "'{'",
	RBRACE:    "'}'",
	LBRACKET:  "'['",
	RBRACKET:  "']'",

	AT: "'@'",
}

// String returns the name used for the token type in diagnostics.
func (tt TokenType) String() string {
	if tt >= 0 && int(tt) < len(tokenNames) && tokenNames[tt] != "" {
		return tokenNames[tt]
	}
	return fmt.Sprintf("TokenType(%d)", int(tt))
}

// IsKeyword reports whether tt is a reserved word.
func (tt TokenType) IsKeyword() bool {
	return tt >= FUN && tt <= FALSE
}

var keywords = map[string]TokenType{
	"fun":    FUN,
	"class":  CLASS,
	"val":    VAL,
	"let":    VAL,
	"var":    VAR,
	"pub":    PUB,
	"priv":   PRIV,
	"import": IMPORT,
	"group":  GROUP,
	"ret":    RET,
	"new":    NEW,
	"if":     IF,
	"else":   ELSE,
	"while":  WHILE,
	"for":    FOR,
	"in":     IN,
	"true":   TRUE,
	"false":  FALSE,
}

// LookupIdent checks if the identifier is a keyword
func LookupIdent(ident string) TokenType {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return IDENT
}
