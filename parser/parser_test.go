package parser

import (
	"bytes"
	"errors"
	"fmt"
	"testing"

	"github.com/jasongoodwin/dora/ast"
)

func mustParse(t *testing.T, input string) ast.Expr {
	t.Helper()
	expr, err := Parse(input)
	if err != nil {
		t.Fatalf("failed to parse %q: %v", input, err)
	}
	return expr
}

func TestParseLiterals(t *testing.T) {
	tests := []struct {
		input string
		kind  ast.Kind
		want  string // canonical render
	}{
		{"123", ast.KindInteger, "123"},
		{"0", ast.KindInteger, "0"},
		{"-7", ast.KindInteger, "-7"},
		{"true", ast.KindBoolean, "true"},
		{"false", ast.KindBoolean, "false"},
		{"'hello'", ast.KindText, "'hello'"},
		{"'it''s'", ast.KindText, "'it''s'"},
		{"''", ast.KindText, "''"},
		{"192.168.0.1", ast.KindIPv4, "192.168.0.1"},
		{"999.999.999.999", ast.KindIPv4, "999.999.999.999"},
		{"0x", ast.KindHexBlob, "0x"},
		{"0x1a2b", ast.KindHexBlob, "0x1a2b"},
		{"0xABC", ast.KindHexBlob, "0x0abc"},
		{"0X12", ast.KindHexBlob, "0x12"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			lit, ok := mustParse(t, tt.input).(ast.Literal)
			if !ok {
				t.Fatalf("expected ast.Literal, got %T", mustParse(t, tt.input))
			}
			if lit.Value.Kind() != tt.kind {
				t.Errorf("kind = %v, want %v", lit.Value.Kind(), tt.kind)
			}
			if got := lit.Value.String(); got != tt.want {
				t.Errorf("render = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseStringEscape(t *testing.T) {
	lit := mustParse(t, "'it''s'").(ast.Literal)
	b, err := lit.Value.Bytes()
	if err != nil {
		t.Fatalf("Bytes: %v", err)
	}
	if string(b) != "it's" {
		t.Errorf("got %q, want %q", b, "it's")
	}
}

func TestParseHexPadding(t *testing.T) {
	lit := mustParse(t, "0xabc").(ast.Literal)
	b, err := lit.Value.Bytes()
	if err != nil {
		t.Fatalf("Bytes: %v", err)
	}
	if !bytes.Equal(b, []byte{0x0a, 0xbc}) {
		t.Errorf("got % x, want 0a bc", b)
	}
}

func TestParseFlatChain(t *testing.T) {
	// One repetition level, no precedence: this is a single 3-operator
	// chain, not (a=='a') and (true==true).
	chain, ok := mustParse(t, "'a' == 'a' and true == true").(ast.Chain)
	if !ok {
		t.Fatal("expected a single flat chain")
	}
	if len(chain.Rest) != 3 {
		t.Fatalf("expected 3 chain steps, got %d", len(chain.Rest))
	}
	wantOps := []ast.Operator{ast.OpEqual, ast.OpAnd, ast.OpEqual}
	for i, term := range chain.Rest {
		if term.Op != wantOps[i] {
			t.Errorf("op[%d] = %v, want %v", i, term.Op, wantOps[i])
		}
		if _, nested := term.Operand.(ast.Chain); nested {
			t.Errorf("op[%d]: operand is a nested chain, chain must stay flat", i)
		}
	}
	if _, nested := chain.First.(ast.Chain); nested {
		t.Error("first operand is a nested chain, chain must stay flat")
	}
}

func TestParseNoPrecedence(t *testing.T) {
	chain := mustParse(t, "true or true and false").(ast.Chain)
	if len(chain.Rest) != 2 {
		t.Fatalf("expected 2 chain steps, got %d", len(chain.Rest))
	}
	if chain.Rest[0].Op != ast.OpOr || chain.Rest[1].Op != ast.OpAnd {
		t.Errorf("ops = %v %v, want or and", chain.Rest[0].Op, chain.Rest[1].Op)
	}
}

func TestParseParens(t *testing.T) {
	chain := mustParse(t, "(true or false) and true").(ast.Chain)
	if len(chain.Rest) != 1 || chain.Rest[0].Op != ast.OpAnd {
		t.Fatalf("expected single 'and' step, got %v", chain.Rest)
	}
	inner, ok := chain.First.(ast.Chain)
	if !ok {
		t.Fatal("parenthesized group should be its own chain")
	}
	if len(inner.Rest) != 1 || inner.Rest[0].Op != ast.OpOr {
		t.Errorf("inner chain = %v, want single or", inner.Rest)
	}
}

func TestParseAccessors(t *testing.T) {
	// Canonical renders round-trip exactly.
	inputs := []string{
		"option[60]",
		"relay4[2]",
		"member('routers')",
		"pkt4.mac",
		"pkt4.hlen",
		"pkt4.htype",
		"pkt4.ciaddr",
		"pkt4.giaddr",
		"pkt4.yiaddr",
		"pkt4.siaddr",
		"pkt4.msgtype",
		"pkt4.transid",
		"option[82].option[1].exists",
		"pkt4.mac.hex",
		"option[43].exists",
		"substring(option[60],0,4)",
		"substring(pkt4.mac,-2,3)",
		"concat('a','b')",
		"not option[82].exists",
	}
	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			if got := fmt.Sprintf("%v", mustParse(t, input)); got != input {
				t.Errorf("render = %q, want %q", got, input)
			}
		})
	}
}

func TestParsePostfixShape(t *testing.T) {
	exists, ok := mustParse(t, "option[82].option[1].exists").(ast.Exists)
	if !ok {
		t.Fatal("expected Exists at the top")
	}
	sub, ok := exists.Base.(ast.SubOption)
	if !ok {
		t.Fatal("expected SubOption under Exists")
	}
	if sub.Code != 1 {
		t.Errorf("sub-option code = %d, want 1", sub.Code)
	}
	opt, ok := sub.Base.(ast.Option)
	if !ok {
		t.Fatal("expected Option under SubOption")
	}
	if opt.Code != 82 {
		t.Errorf("option code = %d, want 82", opt.Code)
	}
}

func TestParseNot(t *testing.T) {
	outer, ok := mustParse(t, "not not true").(ast.Not)
	if !ok {
		t.Fatal("expected Not")
	}
	if _, ok := outer.Operand.(ast.Not); !ok {
		t.Fatal("expected nested Not")
	}

	// Postfix binds tighter than not.
	n := mustParse(t, "not option[1].exists").(ast.Not)
	if _, ok := n.Operand.(ast.Exists); !ok {
		t.Errorf("expected Not(Exists(...)), got not(%T)", n.Operand)
	}
}

func TestParseSubstringArgs(t *testing.T) {
	sub := mustParse(t, "substring(option[60],-2,-1)").(ast.Substring)
	if sub.Start != -2 || sub.Length != -1 {
		t.Errorf("start,length = %d,%d, want -2,-1", sub.Start, sub.Length)
	}
	if _, ok := sub.Source.(ast.Option); !ok {
		t.Errorf("source = %T, want ast.Option", sub.Source)
	}
}

func TestParseWhitespace(t *testing.T) {
	a := fmt.Sprintf("%v", mustParse(t, "substring( option[60] ,\t0 ,\r\n4 ) == 'MSFT'"))
	b := fmt.Sprintf("%v", mustParse(t, "substring(option[60],0,4)=='MSFT'"))
	if a != b {
		t.Errorf("whitespace changed the parse: %q vs %q", a, b)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		input  string
		offset int // -1: don't check
	}{
		{"option[1] ===", 12},
		{"", 0},
		{"true true", 5},
		{"01", 1},
		{"pkt4.bogus", 0},
		{"foo", 0},
		{"'unterminated", 0},
		{"option 60", -1},
		{"substring(option[60],0)", -1},
		{"option[60] and", -1},
		{"member(routers)", -1},
		{"(true", -1},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			_, err := Parse(tt.input)
			if err == nil {
				t.Fatalf("expected parse error for %q", tt.input)
			}
			var serr *SyntaxError
			if !errors.As(err, &serr) {
				t.Fatalf("expected *SyntaxError, got %T: %v", err, err)
			}
			if tt.offset >= 0 && serr.Offset != tt.offset {
				t.Errorf("offset = %d, want %d (%v)", serr.Offset, tt.offset, err)
			}
		})
	}
}

func TestRenderRoundTrip(t *testing.T) {
	inputs := []string{
		"substring(option[60],0,4) == 'MSFT'",
		"not member('gateways') and relay4[1].exists",
		"(pkt4.msgtype == 0x03 or pkt4.msgtype == 0x08) and option[61].exists",
		"concat(substring(option[60],0,4),0x2e) == 'MSFT.'",
		"0x48656c6c6f == 'Hello'.hex",
	}
	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			first := fmt.Sprintf("%v", mustParse(t, input))
			second := fmt.Sprintf("%v", mustParse(t, first))
			if first != second {
				t.Errorf("render not stable: %q -> %q", first, second)
			}
		})
	}
}
