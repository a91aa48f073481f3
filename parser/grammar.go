package parser

import "github.com/alecthomas/participle/v2/lexer"

// Grammar structs for the participle parser.
//
// The shape mirrors the rule language's single repetition level: an
// expression is one operand followed by any number of (operator,
// operand) steps. All four operators live in that one repetition, which
// is what yields the flat, precedence-free chain.

type expression struct {
	First *operand     `parser:"@@"`
	Rest  []*operation `parser:"@@*"`
}

type operation struct {
	Op      string   `parser:"@( Eq | Neq | And | Or )"`
	Operand *operand `parser:"@@"`
}

type operand struct {
	Nots    []string   `parser:"@Not*"`
	Primary *primary   `parser:"@@"`
	Postfix []*postfix `parser:"@@*"`
}

type postfix struct {
	Pos    lexer.Position
	Hex    bool    `parser:"( @DotHex"`
	Exists bool    `parser:"| @DotExists"`
	SubOpt *string `parser:"| DotOption LBracket @Int RBracket )"`
}

type primary struct {
	Pos       lexer.Position
	Paren     *expression    `parser:"( LParen @@ RParen"`
	Substring *substringCall `parser:"| @@"`
	Concat    *concatCall    `parser:"| @@"`
	Option    *string        `parser:"| Option LBracket @Int RBracket"`
	Relay     *string        `parser:"| Relay LBracket @Int RBracket"`
	Member    *string        `parser:"| Member LParen @String RParen"`
	Field     *string        `parser:"| @PktField"`
	Bool      *string        `parser:"| @Bool"`
	Ip        *string        `parser:"| @Ip"`
	Hex       *string        `parser:"| @Hex"`
	Int       *string        `parser:"| @Int"`
	Str       *string        `parser:"| @String )"`
}

type substringCall struct {
	Pos    lexer.Position
	Source *expression `parser:"Substring LParen @@"`
	Start  string      `parser:"Comma @Int"`
	Length string      `parser:"Comma @Int RParen"`
}

type concatCall struct {
	Left  *expression `parser:"Concat LParen @@"`
	Right *expression `parser:"Comma @@ RParen"`
}
