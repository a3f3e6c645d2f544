// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package chain

import (
	"errors"
	"fmt"
)

var (
	ErrMissingSignature            = errors.New("missing required signature")
	ErrInvalidSignature            = errors.New("invalid signature")
	ErrDuplicateTx                 = errors.New("duplicate transaction")
	ErrNoInstructions              = errors.New("transaction has no instructions")
	ErrTooManyInstructions         = errors.New("too many instructions")
	ErrTooManyAccounts             = errors.New("too many accounts")
	ErrInstructionDataTooLarge     = errors.New("instruction data too large")
	ErrNotEnoughAccountKeys        = errors.New("insufficient account keys for instruction")
	ErrInvalidInstructionData      = errors.New("invalid instruction data")
	ErrUnknownProgram              = errors.New("unknown program")
	ErrDuplicateProgram            = errors.New("duplicate program")
	ErrMissingAccount              = errors.New("account not passed to instruction")
	ErrPrivilegeEscalation         = errors.New("cross-program invocation with unauthorized signer or writable account")
	ErrCallDepth                   = errors.New("cross-program invocation call depth too deep")
	ErrReadonlyAccount             = errors.New("instruction modified a readonly account")
	ErrExternalAccountDataModified = errors.New("instruction modified data of an account it does not own")
	ErrExternalLamportSpend        = errors.New("instruction spent from the balance of an account it does not own")
	ErrModifiedProgramID           = errors.New("instruction illegally modified the program id of an account")
)

// Coder is implemented by program errors that carry a stable numeric code.
type Coder interface {
	Code() uint32
}

// InstructionError reports which top-level instruction aborted a
// transaction.
type InstructionError struct {
	Index int
	Err   error
}

func (e *InstructionError) Error() string {
	var c Coder
	if errors.As(e.Err, &c) {
		return fmt.Sprintf("Error processing Instruction %d: custom program error: 0x%x", e.Index, c.Code())
	}
	return fmt.Sprintf("Error processing Instruction %d: %v", e.Index, e.Err)
}

func (e *InstructionError) Unwrap() error {
	return e.Err
}

// ErrorCode returns the custom program error code carried by [err], if any.
func ErrorCode(err error) (uint32, bool) {
	var c Coder
	if !errors.As(err, &c) {
		return 0, false
	}
	return c.Code(), true
}
