// Package ast defines the Abstract Syntax Tree types for client
// classification expressions, plus the runtime value model they
// evaluate to. A tree is built once when a rule is compiled and is
// never mutated afterwards, so it can be shared across concurrently
// processed packets.
package ast

import (
	"fmt"
	"strings"
)

// Field identifies one of the fixed pkt4.* header accessors.
type Field uint8

const (
	FieldMac Field = iota
	FieldHlen
	FieldHtype
	FieldCiaddr
	FieldGiaddr
	FieldYiaddr
	FieldSiaddr
	FieldMsgType
	FieldTransID
)

func (f Field) String() string {
	switch f {
	case FieldMac:
		return "mac"
	case FieldHlen:
		return "hlen"
	case FieldHtype:
		return "htype"
	case FieldCiaddr:
		return "ciaddr"
	case FieldGiaddr:
		return "giaddr"
	case FieldYiaddr:
		return "yiaddr"
	case FieldSiaddr:
		return "siaddr"
	case FieldMsgType:
		return "msgtype"
	case FieldTransID:
		return "transid"
	default:
		return "unknown"
	}
}

// Operator is one of the four chain operators. All four sit at the same
// grammar level; there are no precedence tiers.
type Operator uint8

const (
	OpEqual Operator = iota
	OpNotEqual
	OpAnd
	OpOr
)

func (op Operator) String() string {
	switch op {
	case OpEqual:
		return "=="
	case OpNotEqual:
		return "!="
	case OpAnd:
		return "and"
	case OpOr:
		return "or"
	default:
		return "unknown"
	}
}

// Expr represents an expression node.
type Expr interface {
	exprNode()
}

// Literal holds a constant value produced from a literal token.
type Literal struct {
	Value Value
}

func (Literal) exprNode() {}

func (l Literal) String() string { return l.Value.String() }

// FieldAccess reads one of the nine pkt4.* header fields.
type FieldAccess struct {
	Field Field
}

func (FieldAccess) exprNode() {}

func (f FieldAccess) String() string { return "pkt4." + f.Field.String() }

// Option looks up a top-level DHCP option payload by code.
type Option struct {
	Code uint32
}

func (Option) exprNode() {}

func (o Option) String() string { return fmt.Sprintf("option[%d]", o.Code) }

// Relay looks up a relay-agent-information sub-option payload by code.
type Relay struct {
	Code uint32
}

func (Relay) exprNode() {}

func (r Relay) String() string { return fmt.Sprintf("relay4[%d]", r.Code) }

// Member tests whether the client already belongs to a named class.
type Member struct {
	Name string
}

func (Member) exprNode() {}

func (m Member) String() string {
	return "member('" + strings.ReplaceAll(m.Name, "'", "''") + "')"
}

// Substring extracts a byte range from the canonical form of Source.
// Start and Length are integer literals per the grammar; negative
// values mean "from the end" and "to end of string" respectively.
type Substring struct {
	Source Expr
	Start  int64
	Length int64
}

func (Substring) exprNode() {}

func (s Substring) String() string {
	return fmt.Sprintf("substring(%v,%d,%d)", s.Source, s.Start, s.Length)
}

// Concat joins the canonical byte forms of its two arguments.
type Concat struct {
	Left  Expr
	Right Expr
}

func (Concat) exprNode() {}

func (c Concat) String() string { return fmt.Sprintf("concat(%v,%v)", c.Left, c.Right) }

// Not negates a boolean operand.
type Not struct {
	Operand Expr
}

func (Not) exprNode() {}

func (n Not) String() string { return "not " + paren(n.Operand) }

// ToHex is the .hex postfix: the base's canonical bytes reinterpreted
// as a hex blob.
type ToHex struct {
	Base Expr
}

func (ToHex) exprNode() {}

func (h ToHex) String() string { return paren(h.Base) + ".hex" }

// Exists is the .exists postfix. It is the only construct that may
// observe an absent option without an evaluation error.
type Exists struct {
	Base Expr
}

func (Exists) exprNode() {}

func (e Exists) String() string { return paren(e.Base) + ".exists" }

// SubOption is the .option[N] postfix: the base's bytes interpreted as
// a TLV stream, extracting the sub-option with type N.
type SubOption struct {
	Base Expr
	Code uint32
}

func (SubOption) exprNode() {}

func (s SubOption) String() string { return fmt.Sprintf("%s.option[%d]", paren(s.Base), s.Code) }

// OpTerm is one (operator, operand) step of a chain.
type OpTerm struct {
	Op      Operator
	Operand Expr
}

// Chain is a flat sequence of binary operators folded strictly left to
// right. ==, !=, and and or all live at this single level; grouping
// only ever comes from explicit parentheses in the source.
type Chain struct {
	First Expr
	Rest  []OpTerm
}

func (Chain) exprNode() {}

func (c Chain) String() string {
	var b strings.Builder
	b.WriteString(paren(c.First))
	for _, t := range c.Rest {
		fmt.Fprintf(&b, " %s %s", t.Op, paren(t.Operand))
	}
	return b.String()
}

// paren re-wraps nested chains so that a rendered expression parses
// back to the same tree.
func paren(e Expr) string {
	if c, ok := e.(Chain); ok {
		return "(" + c.String() + ")"
	}
	return fmt.Sprintf("%v", e)
}
