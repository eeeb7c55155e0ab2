package simplify

import (
	"testing"

	"github.com/irx-lang/irx-optimizer/pkg/ir"
)

func TestFold(t *testing.T) {
	tests := []struct {
		name string
		op   ir.BinOp
		a, b uint64
		want uint64
	}{
		{"add", ir.Add, 3, 4, 7},
		{"sub", ir.Sub, 10, 4, 6},
		{"umul", ir.UMul, 6, 7, 42},
		{"smul_neg", ir.SMul, uint64(int64(-3)), 4, uint64(int64(-12))},
		{"udiv", ir.UDiv, 17, 5, 3},
		{"urem", ir.URem, 17, 5, 2},
		{"sdiv_neg", ir.SDiv, uint64(int64(-7)), 2, uint64(int64(-3))},
		{"srem_neg", ir.SRem, uint64(int64(-7)), 2, uint64(int64(-1))},
		{"and", ir.And, 0xF0, 0x0F, 0},
		{"or", ir.Or, 0xF0, 0x0F, 0xFF},
		{"xor", ir.Xor, 0xFF, 0x0F, 0xF0},
		{"shl", ir.Shl, 1, 4, 16},
		{"ushr", ir.Ushr, 0x8000000000000000, 63, 1},
		{"sshr", ir.Sshr, 0x8000000000000000, 1, 0xC000000000000000},
		{"shl_masked", ir.Shl, 1, 64, 1}, // shift count masked by 0x3F
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Fold(tt.op, tt.a, tt.b)
			if got != tt.want {
				t.Errorf("Fold(%v, %d, %d) = %d, want %d", tt.op, tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestNegate64(t *testing.T) {
	if got := negate64(3); got != uint64(int64(-3)) {
		t.Errorf("negate64(3) = %d, want %d", got, uint64(int64(-3)))
	}
	if got := negate64(0); got != 0 {
		t.Errorf("negate64(0) = %d, want 0", got)
	}
}
