package stack

// Info holds static metadata for a stack opcode.
type Info struct {
	Mnemonic string
	Delta    int // net data-stack depth change: pops subtracted, pushes added
}

// Catalog maps each Op to its Info.
var Catalog [OpCount]Info

func init() {
	type row struct {
		op    Op
		name  string
		delta int
	}
	// Delta is derived exhaustively from the operation semantics in §4.5:
	// pure binary ops pop two and push one (-1); unary ops that replace the
	// top in place are 0; the tests (TGT/TLT/TEQ/TSZ) read without popping,
	// so 0; data movement and control follow their documented stack effect;
	// SSET/IBRANCH/CALL/RETURN/PUSH/POP are present for layout completeness
	// (§3's full 37-symbol enumeration) but never emitted by the translator
	// or scheduler — their deltas follow the conventional meaning of the
	// mnemonic (SSET behaves as SET, IBRANCH as BRANCH, CALL pushes a return
	// address, RETURN pops it, PUSH/POP move exactly one word).
	rows := []row{
		{ADD, "ADD", -1}, {SUB, "SUB", -1}, {AND, "AND", -1}, {OR, "OR", -1},
		{NOT, "NOT", 0}, {XOR, "XOR", -1}, {SHR, "SHR", -1}, {SHL, "SHL", -1},
		{INC, "INC", 0}, {DEC, "DEC", 0},
		{TGT, "TGT", 0}, {TLT, "TLT", 0}, {TEQ, "TEQ", 0}, {TSZ, "TSZ", 0},
		{SSET, "SSET", 1}, {SET, "SET", 1}, {LOAD, "LOAD", 0}, {STORE, "STORE", -2},
		{BRANCH, "BRANCH", 0}, {BRZERO, "BRZERO", 0}, {IBRANCH, "IBRANCH", 0},
		{CALL, "CALL", 1}, {RETURN, "RETURN", -1}, {STOP, "STOP", 0}, {OUT, "OUT", 0},
		{DROP, "DROP", -1}, {DUP, "DUP", 1}, {SWAP, "SWAP", 0},
		{RSD3, "RSD3", 0}, {RSU3, "RSU3", 0}, {TUCK2, "TUCK2", 1}, {TUCK3, "TUCK3", 1},
		{COPY3, "COPY3", 1}, {PUSH, "PUSH", 1}, {POP, "POP", -1},
	}
	for _, r := range rows {
		Catalog[r.op] = Info{Mnemonic: r.name, Delta: r.delta}
	}
}

// Mnemonic returns the assembly mnemonic for op.
func Mnemonic(op Op) string { return Catalog[op].Mnemonic }

// StackDelta returns the net data-stack depth change of executing one
// instance of op, used by the scheduler's rebalance step.
func StackDelta(op Op) int { return Catalog[op].Delta }

// LookupMnemonic finds the Op for a mnemonic, case-sensitive.
func LookupMnemonic(name string) (Op, bool) {
	for i := Op(0); i < OpCount; i++ {
		if Catalog[i].Mnemonic == name {
			return i, true
		}
	}
	return 0, false
}

// TakesOperand reports whether op carries an operand in well-formed code
// (only SET, BRANCH, BRZERO do; §3's invariant).
func TakesOperand(op Op) bool {
	return op == SET || op == BRANCH || op == BRZERO
}
