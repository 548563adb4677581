package parser

import "fmt"

// TokenType identifies the lexical category of a token.
type TokenType int

const (
	// Single character tokens.
	LeftParen TokenType = iota
	RightParen
	LeftBrace
	RightBrace
	Comma
	Dot
	Semi
	Plus
	Minus
	Star
	Slash
	Rem

	// One or two character tokens.
	Bang
	BangEqual
	Equal
	EqualEqual
	Less
	LessEqual
	Greater
	GreaterEqual

	// Literals.
	Identifier
	String
	Number

	// Keywords.
	And
	ClassKw
	Def
	Else
	False
	For
	If
	LetKw
	NilKw
	Or
	PrintKw
	Return
	Super
	This
	True
	While

	EOF
)

var tokenNames = map[TokenType]string{
	LeftParen: "(", RightParen: ")", LeftBrace: "{", RightBrace: "}",
	Comma: ",", Dot: ".", Semi: ";", Plus: "+", Minus: "-", Star: "*",
	Slash: "/", Rem: "%", Bang: "!", BangEqual: "!=", Equal: "=",
	EqualEqual: "==", Less: "<", LessEqual: "<=", Greater: ">",
	GreaterEqual: ">=", Identifier: "identifier", String: "string",
	Number: "number", And: "and", ClassKw: "class", Def: "def",
	Else: "else", False: "false", For: "for", If: "if", LetKw: "let",
	NilKw: "nil", Or: "or", PrintKw: "print", Return: "return",
	Super: "super", This: "this", True: "true", While: "while", EOF: "eof",
}

func (t TokenType) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}
	return fmt.Sprintf("token(%d)", int(t))
}

// Token is a lexeme tagged with its type, literal value, and source line.
type Token struct {
	Type    TokenType
	Lexeme  string
	Literal any // string for String tokens, float64 for Number tokens
	Line    int
}

func (t Token) String() string {
	return fmt.Sprintf("%s %q line=%d", t.Type, t.Lexeme, t.Line)
}

var keywords = map[string]TokenType{
	"and":    And,
	"class":  ClassKw,
	"def":    Def,
	"else":   Else,
	"false":  False,
	"for":    For,
	"if":     If,
	"let":    LetKw,
	"nil":    NilKw,
	"or":     Or,
	"print":  PrintKw,
	"return": Return,
	"super":  Super,
	"this":   This,
	"true":   True,
	"while":  While,
}
