package stackvm

// Flag bit positions within Machine.Flags (§3).
const (
	FlagCarry = 0
	FlagZero  = 1
	FlagIMode = 6
	FlagInter = 7
)

func (m *Machine) setFlag(bit uint8, v bool) {
	if v {
		m.Flags |= 1 << bit
	} else {
		m.Flags &^= 1 << bit
	}
}

func (m *Machine) flag(bit uint8) bool {
	return m.Flags&(1<<bit) != 0
}

// SetZero sets or clears the ZERO flag, consumed by BRZERO.
func (m *Machine) SetZero(v bool) { m.setFlag(FlagZero, v) }

// Zero reports the current ZERO flag.
func (m *Machine) Zero() bool { return m.flag(FlagZero) }
