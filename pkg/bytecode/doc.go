// Package bytecode defines the in-memory program representation shared by
// the Lox compiler and virtual machine.
//
// # Architecture Overview
//
//   - Opcodes: a fixed instruction set. Each opcode is followed by 0, 1 or 2
//     operand bytes; the count is determined by the opcode alone.
//
//   - Chunk: one function's code bytes, a parallel per-byte line table and a
//     constant pool of Values addressed by a single-byte index.
//
//   - Value: a tagged union of nil, bool, number and object handle.
//
//   - Heap: an append-only store of strings and functions addressed by
//     stable handles. Strings are interned, so equal strings share a handle
//     and object equality is handle comparison.
//
//   - Function: arity, name and the Chunk holding the body.
//
// # Jumps
//
// Jump operands are unsigned big-endian 16-bit distances measured from the
// byte after the operand. OpJump and OpJumpIfFalse move forward, OpLoop
// moves backward.
//
// # Memory
//
// The heap never frees objects. This is a known limitation; handles stay
// valid for the heap's whole lifetime.
//
// Bytecode is never serialized: it exists only for the duration of one
// process.
package bytecode
