package parser

import (
	"github.com/alecthomas/participle/v2/lexer"
)

// classLexer tokenizes classification rule source. Every keyword and
// accessor is its own terminal; there are no generic identifiers, so an
// unknown field name fails lexing rather than parsing. Ordering
// matters: ip literals must win over integers, hex blobs over the
// leading 0, and the dotted postfixes over anything else starting with
// a dot.
var classLexer = lexer.MustStateful(lexer.Rules{
	"Root": {
		{Name: "Whitespace", Pattern: `[ \t\r\n]+`},
		{Name: "PktField", Pattern: `pkt4\.(?:mac|hlen|htype|ciaddr|giaddr|yiaddr|siaddr|msgtype|transid)\b`},
		{Name: "DotHex", Pattern: `\.hex\b`},
		{Name: "DotExists", Pattern: `\.exists\b`},
		{Name: "DotOption", Pattern: `\.option\b`},
		{Name: "Option", Pattern: `option\b`},
		{Name: "Relay", Pattern: `relay4\b`},
		{Name: "Member", Pattern: `member\b`},
		{Name: "Substring", Pattern: `substring\b`},
		{Name: "Concat", Pattern: `concat\b`},
		{Name: "Not", Pattern: `not\b`},
		{Name: "Bool", Pattern: `(?:true|false)\b`},
		{Name: "And", Pattern: `and\b`},
		{Name: "Or", Pattern: `or\b`},
		{Name: "Eq", Pattern: `==`},
		{Name: "Neq", Pattern: `!=`},
		{Name: "Ip", Pattern: `[0-9]{1,3}\.[0-9]{1,3}\.[0-9]{1,3}\.[0-9]{1,3}`},
		{Name: "Hex", Pattern: `0[xX][0-9A-Fa-f]*`},
		{Name: "Int", Pattern: `-?(?:0|[1-9][0-9]*)`},
		{Name: "String", Pattern: `'[^']*(?:''[^']*)*'`},
		{Name: "LBracket", Pattern: `\[`},
		{Name: "RBracket", Pattern: `\]`},
		{Name: "LParen", Pattern: `\(`},
		{Name: "RParen", Pattern: `\)`},
		{Name: "Comma", Pattern: `,`},
	},
})
