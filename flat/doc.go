// Package flat builds column-oriented, zero-copy binary buffers that are
// byte-compatible with the FlatBuffers wire format.
//
// A Builder assembles a buffer from a tree of Components: strings, scalar
// and reference vectors, generated tables, unions, and nested buffers.
// Components are not nested directly in memory — a parent enqueues its
// children on the Builder's work queue and the Builder backpatches the
// parent's placeholder offset once the child's start position is known.
// This keeps the whole tree flat during assembly even though the logical
// schema is recursive.
package flat
