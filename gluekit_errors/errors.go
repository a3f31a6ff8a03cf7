// Provides common gluekit errors definitions.
package gluekit_errors

import "errors"

var (
	ErrIndexRange       = errors.New("gluekit: index out of range")
	ErrNotChained       = errors.New("gluekit: changes do not chain")
	ErrSpanMismatch     = errors.New("gluekit: stated old span does not match actual span")
	ErrCountMismatch    = errors.New("gluekit: sequence count mismatch")
	ErrNotInTransaction = errors.New("gluekit: end without matching begin")
)
