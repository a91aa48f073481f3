// Package parser compiles client classification rule source into an
// AST using participle.
package parser

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"

	"github.com/jasongoodwin/dora/ast"
)

var classParser = participle.MustBuild[expression](
	participle.Lexer(classLexer),
	participle.Elide("Whitespace"),
	participle.UseLookahead(2),
)

// SyntaxError reports input that does not match the grammar end to end,
// including trailing garbage after an otherwise valid expression.
type SyntaxError struct {
	Offset   int
	Expected string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error at offset %d: %s", e.Offset, e.Expected)
}

// Parse compiles rule source into an expression tree. The whole input
// must match; failures are reported as *SyntaxError with the byte
// offset of the first token that could not be consumed.
func Parse(source string) (ast.Expr, error) {
	tree, err := classParser.ParseString("", source)
	if err != nil {
		var perr participle.Error
		if errors.As(err, &perr) {
			return nil, &SyntaxError{Offset: perr.Position().Offset, Expected: perr.Message()}
		}
		return nil, err
	}
	return convertExpression(tree)
}

func convertExpression(e *expression) (ast.Expr, error) {
	first, err := convertOperand(e.First)
	if err != nil {
		return nil, err
	}
	if len(e.Rest) == 0 {
		return first, nil
	}
	chain := ast.Chain{First: first, Rest: make([]ast.OpTerm, 0, len(e.Rest))}
	for _, step := range e.Rest {
		operand, err := convertOperand(step.Operand)
		if err != nil {
			return nil, err
		}
		chain.Rest = append(chain.Rest, ast.OpTerm{Op: operatorFor(step.Op), Operand: operand})
	}
	return chain, nil
}

func operatorFor(tok string) ast.Operator {
	switch tok {
	case "==":
		return ast.OpEqual
	case "!=":
		return ast.OpNotEqual
	case "and":
		return ast.OpAnd
	default:
		return ast.OpOr
	}
}

// convertOperand lowers prefix* primary postfix*. Postfix modifiers
// bind tighter than the not prefixes.
func convertOperand(o *operand) (ast.Expr, error) {
	node, err := convertPrimary(o.Primary)
	if err != nil {
		return nil, err
	}
	for _, p := range o.Postfix {
		switch {
		case p.Hex:
			node = ast.ToHex{Base: node}
		case p.Exists:
			node = ast.Exists{Base: node}
		case p.SubOpt != nil:
			code, err := optionCode(*p.SubOpt, p.Pos.Offset)
			if err != nil {
				return nil, err
			}
			node = ast.SubOption{Base: node, Code: code}
		}
	}
	for range o.Nots {
		node = ast.Not{Operand: node}
	}
	return node, nil
}

func convertPrimary(p *primary) (ast.Expr, error) {
	switch {
	case p.Paren != nil:
		return convertExpression(p.Paren)

	case p.Substring != nil:
		source, err := convertExpression(p.Substring.Source)
		if err != nil {
			return nil, err
		}
		start, err := strconv.ParseInt(p.Substring.Start, 10, 64)
		if err != nil {
			return nil, &SyntaxError{Offset: p.Substring.Pos.Offset, Expected: "substring start out of range"}
		}
		length, err := strconv.ParseInt(p.Substring.Length, 10, 64)
		if err != nil {
			return nil, &SyntaxError{Offset: p.Substring.Pos.Offset, Expected: "substring length out of range"}
		}
		return ast.Substring{Source: source, Start: start, Length: length}, nil

	case p.Concat != nil:
		left, err := convertExpression(p.Concat.Left)
		if err != nil {
			return nil, err
		}
		right, err := convertExpression(p.Concat.Right)
		if err != nil {
			return nil, err
		}
		return ast.Concat{Left: left, Right: right}, nil

	case p.Option != nil:
		code, err := optionCode(*p.Option, p.Pos.Offset)
		if err != nil {
			return nil, err
		}
		return ast.Option{Code: code}, nil

	case p.Relay != nil:
		code, err := optionCode(*p.Relay, p.Pos.Offset)
		if err != nil {
			return nil, err
		}
		return ast.Relay{Code: code}, nil

	case p.Member != nil:
		return ast.Member{Name: unquote(*p.Member)}, nil

	case p.Field != nil:
		return ast.FieldAccess{Field: fieldFor(*p.Field)}, nil

	case p.Bool != nil:
		return ast.Literal{Value: ast.NewBoolean(*p.Bool == "true")}, nil

	case p.Ip != nil:
		return ast.Literal{Value: ipLiteral(*p.Ip)}, nil

	case p.Hex != nil:
		v, err := hexLiteral(*p.Hex)
		if err != nil {
			return nil, &SyntaxError{Offset: p.Pos.Offset, Expected: "hex digits"}
		}
		return ast.Literal{Value: v}, nil

	case p.Int != nil:
		n, err := strconv.ParseInt(*p.Int, 10, 64)
		if err != nil {
			return nil, &SyntaxError{Offset: p.Pos.Offset, Expected: "integer in int64 range"}
		}
		return ast.Literal{Value: ast.NewInteger(n)}, nil

	case p.Str != nil:
		return ast.Literal{Value: ast.NewText([]byte(unquote(*p.Str)))}, nil
	}

	return nil, fmt.Errorf("unknown primary type")
}

func optionCode(tok string, offset int) (uint32, error) {
	code, err := strconv.ParseUint(tok, 10, 32)
	if err != nil {
		return 0, &SyntaxError{Offset: offset, Expected: "option code in u32 range"}
	}
	return uint32(code), nil
}

func fieldFor(tok string) ast.Field {
	switch strings.TrimPrefix(tok, "pkt4.") {
	case "mac":
		return ast.FieldMac
	case "hlen":
		return ast.FieldHlen
	case "htype":
		return ast.FieldHtype
	case "ciaddr":
		return ast.FieldCiaddr
	case "giaddr":
		return ast.FieldGiaddr
	case "yiaddr":
		return ast.FieldYiaddr
	case "siaddr":
		return ast.FieldSiaddr
	case "msgtype":
		return ast.FieldMsgType
	default:
		return ast.FieldTransID
	}
}

// ipLiteral converts a dotted quad token. Octets are not range-checked
// here; the grammar accepts 999.999.999.999 and validity is deferred to
// evaluation-time canonicalization.
func ipLiteral(tok string) ast.Value {
	parts := strings.SplitN(tok, ".", 4)
	var octets [4]int
	for i, part := range parts {
		n, _ := strconv.Atoi(part)
		octets[i] = n
	}
	return ast.NewIPv4(octets)
}

// hexLiteral decodes a 0x token. An odd digit count is legal; the
// leading byte gets a zero nibble left-padded (0xABC -> 0A BC).
func hexLiteral(tok string) (ast.Value, error) {
	digits := tok[2:]
	if len(digits)%2 == 1 {
		digits = "0" + digits
	}
	b, err := hex.DecodeString(digits)
	if err != nil {
		return ast.Value{}, err
	}
	return ast.NewHexBlob(b), nil
}

// unquote strips the surrounding quotes and collapses the '' escape,
// the only escape the string syntax has.
func unquote(tok string) string {
	return strings.ReplaceAll(tok[1:len(tok)-1], "''", "'")
}
