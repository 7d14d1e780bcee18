package stack

import "testing"

// TestCatalogExhaustive verifies every opcode has a row in Catalog, detected
// by a non-empty mnemonic. Each row also sets the opcode's Delta, which the
// scheduler's rebalance step depends on; Delta itself is not checked here,
// since 0 is a legitimate value.
func TestCatalogExhaustive(t *testing.T) {
	for op := Op(0); op < OpCount; op++ {
		if Catalog[op].Mnemonic == "" {
			t.Errorf("opcode %d has no mnemonic in Catalog", op)
		}
	}
}

func TestTakesOperand(t *testing.T) {
	want := map[Op]bool{SET: true, BRANCH: true, BRZERO: true}
	for op := Op(0); op < OpCount; op++ {
		if got := TakesOperand(op); got != want[op] {
			t.Errorf("TakesOperand(%s) = %v, want %v", Mnemonic(op), got, want[op])
		}
	}
}

func TestLookupMnemonicRoundTrip(t *testing.T) {
	for op := Op(0); op < OpCount; op++ {
		got, ok := LookupMnemonic(Catalog[op].Mnemonic)
		if !ok || got != op {
			t.Errorf("LookupMnemonic(%q) = %v, %v; want %v, true", Catalog[op].Mnemonic, got, ok, op)
		}
	}
}
