package decoder

import "errors"

// Sentinel errors surfaced across the slot boundary. CORE decode
// failures deliberately do not exist as errors (see SPEC_FULL.md §7): a
// corrupted slot is still fully decoded and simply marked BFI. These
// three cover only the host-facing I/O and usage boundary.
var (
	// ErrEndOfStream is returned by the Burst Reader once the input has
	// been fully consumed and no further slot is available.
	ErrEndOfStream = errors.New("decoder: end of stream")

	// ErrIO wraps an underlying read/write failure from the host's file
	// handles.
	ErrIO = errors.New("decoder: I/O error")

	// ErrUsage marks a malformed invocation (such as an unknown
	// CoderType) the CLI should report with a non-zero exit code. A
	// truncated final slot is reported as ErrIO, not ErrUsage.
	ErrUsage = errors.New("decoder: usage error")
)
