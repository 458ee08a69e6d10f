// Package vm implements the Lox virtual machine.
//
// This package contains:
//   - The operand stack and call frames
//   - The bytecode dispatch loop
//   - Typed compile, runtime and fault errors
//   - Execution tracing
//
// A VM owns a heap and a global table that persist across Interpret calls.
// Runtime errors carry a call-stack trace, innermost frame first. Limits
// the program cannot meet, such as a full operand stack, are reported as a
// *FaultError rather than crashing the process.
package vm
