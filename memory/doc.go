// Package memory is the trust boundary between raw guest memory and the
// conversion core.
//
// Guests hand over pointers to NUL-terminated strings. The functions here
// locate the terminator once, within an explicit limit, and return ordinary
// bounded slices; nothing downstream scans for sentinels again.
//
// Two Memory implementations are provided: Wazero adapts a live instance's
// linear memory, Buffer wraps a plain byte slice for in-process callers.
package memory
