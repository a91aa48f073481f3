package parser

import (
	"fmt"
	"testing"
)

// FuzzParse checks that arbitrary input never panics the parser and
// that anything that does parse renders to a stable canonical form.
func FuzzParse(f *testing.F) {
	seeds := []string{
		"substring(option[60],0,4) == 'MSFT'",
		"option[82].option[1].exists",
		"not member('x') or pkt4.msgtype == 0x01",
		"0x48656c6c6f == 'Hello'.hex",
		"999.999.999.999 == 0x",
		"concat('a','''b''')",
		"true == true and 'a' == 'a'",
		"option[1] ===",
		"0xabc",
		"-42",
	}
	for _, seed := range seeds {
		f.Add(seed)
	}

	f.Fuzz(func(t *testing.T, input string) {
		expr, err := Parse(input)
		if err != nil {
			return
		}
		rendered := fmt.Sprintf("%v", expr)
		again, err := Parse(rendered)
		if err != nil {
			t.Fatalf("canonical render %q of %q does not reparse: %v", rendered, input, err)
		}
		if second := fmt.Sprintf("%v", again); second != rendered {
			t.Fatalf("render not stable: %q -> %q", rendered, second)
		}
	})
}
