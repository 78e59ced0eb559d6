/*
Package opcode contains Neo VM opcodes used by standard account scripts.
*/
package opcode

import "fmt"

// Opcode represents a single operation code for the Neo virtual machine.
type Opcode byte

// Instructions that may appear in invocation and verification scripts of
// standard accounts.
const (
	PUSHNULL Opcode = 0x0B

	PUSHDATA1 Opcode = 0x0C
	PUSHDATA2 Opcode = 0x0D
	PUSHDATA4 Opcode = 0x0E

	SYSCALL Opcode = 0x41
)

var names = map[Opcode]string{
	PUSHNULL:  "PUSHNULL",
	PUSHDATA1: "PUSHDATA1",
	PUSHDATA2: "PUSHDATA2",
	PUSHDATA4: "PUSHDATA4",
	SYSCALL:   "SYSCALL",
}

// String implements the fmt.Stringer interface.
func (op Opcode) String() string {
	if s, ok := names[op]; ok {
		return s
	}
	return fmt.Sprintf("Opcode(0x%02x)", byte(op))
}
