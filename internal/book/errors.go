package book

import "errors"

// Non-fatal error kinds (§7). These are data-integrity conditions a
// well-formed feed should never trigger; the book reports them without
// mutating state so the engine can count and log them per its policy.
var (
	ErrUnknownRef   = errors.New("book: unknown order reference")
	ErrDuplicateRef = errors.New("book: duplicate order reference")
)
