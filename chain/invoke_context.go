// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package chain

import (
	"bytes"
	"context"
	"fmt"

	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/ava-labs/avalanchego/utils/set"
	"go.uber.org/zap"

	"github.com/bgl-labs/glyphs/codec"
	"github.com/bgl-labs/glyphs/state"
	"github.com/bgl-labs/glyphs/storage"
	"github.com/bgl-labs/glyphs/sysvar"
)

// InvokeContext is what a program sees while it executes one instruction.
type InvokeContext struct {
	registry *Registry
	log      logging.Logger
	mu       state.Mutable
	clock    sysvar.Clock
	schedule sysvar.EpochSchedule
	logs     *[]string

	programID codec.Address
	accounts  []AccountInfo
	depth     int
}

func (ic *InvokeContext) ProgramID() codec.Address {
	return ic.programID
}

// Accounts returns the accounts passed to the instruction, in order.
func (ic *InvokeContext) Accounts() []AccountInfo {
	return ic.accounts
}

func (ic *InvokeContext) Clock() sysvar.Clock {
	return ic.clock
}

func (ic *InvokeContext) EpochSchedule() sysvar.EpochSchedule {
	return ic.schedule
}

// Depth is 1 for a top-level instruction and grows by one per nested
// invocation.
func (ic *InvokeContext) Depth() int {
	return ic.depth
}

func (ic *InvokeContext) Log() logging.Logger {
	return ic.log
}

// Msg appends a line to the transaction log.
func (ic *InvokeContext) Msg(format string, args ...any) {
	*ic.logs = append(*ic.logs, "Program log: "+fmt.Sprintf(format, args...))
}

// info returns the privileges held on [addr], merged across every position
// it was passed in.
func (ic *InvokeContext) info(addr codec.Address) (AccountInfo, bool) {
	var (
		merged = AccountInfo{Address: addr}
		found  bool
	)
	for _, a := range ic.accounts {
		if a.Address != addr {
			continue
		}
		found = true
		merged.Signer = merged.Signer || a.Signer
		merged.Writable = merged.Writable || a.Writable
	}
	return merged, found
}

// Account loads [addr]. The account must have been passed to the
// instruction.
func (ic *InvokeContext) Account(ctx context.Context, addr codec.Address) (*storage.Account, error) {
	if _, ok := ic.info(addr); !ok {
		return nil, fmt.Errorf("%w: %s", ErrMissingAccount, addr)
	}
	return storage.GetAccount(ctx, ic.mu, addr)
}

// SetAccount stores [post] at [addr] after checking that the executing
// program is allowed to make the change:
//   - only writable accounts may change
//   - only the owner may change data, reduce lamports or reassign the owner
func (ic *InvokeContext) SetAccount(ctx context.Context, addr codec.Address, post *storage.Account) error {
	info, ok := ic.info(addr)
	if !ok {
		return fmt.Errorf("%w: %s", ErrMissingAccount, addr)
	}
	pre, err := storage.GetAccount(ctx, ic.mu, addr)
	if err != nil {
		return err
	}
	dataChanged := !bytes.Equal(pre.Data, post.Data)
	changed := dataChanged || pre.Owner != post.Owner || pre.Lamports != post.Lamports || pre.Executable != post.Executable
	if !changed {
		return nil
	}
	if !info.Writable {
		return fmt.Errorf("%w: %s", ErrReadonlyAccount, addr)
	}
	owned := pre.Owner == ic.programID
	switch {
	case dataChanged && !owned:
		return fmt.Errorf("%w: %s", ErrExternalAccountDataModified, addr)
	case post.Lamports < pre.Lamports && !owned:
		return fmt.Errorf("%w: %s", ErrExternalLamportSpend, addr)
	case pre.Owner != post.Owner && !owned:
		return fmt.Errorf("%w: %s", ErrModifiedProgramID, addr)
	case pre.Executable != post.Executable:
		return fmt.Errorf("%w: executable flag of %s", ErrModifiedProgramID, addr)
	}
	return storage.SetAccount(ctx, ic.mu, addr, post)
}

// Invoke runs [ins] as a nested call. Each entry of [signerSeeds] is the seed
// list of a program address owned by the caller; those addresses are treated
// as signers of [ins].
func (ic *InvokeContext) Invoke(ctx context.Context, ins *Instruction, signerSeeds ...[][]byte) error {
	if ic.depth >= MaxCallDepth {
		return ErrCallDepth
	}
	pdas := set.NewSet[codec.Address](len(signerSeeds))
	for _, seeds := range signerSeeds {
		pda, err := codec.CreateProgramAddress(seeds, ic.programID)
		if err != nil {
			return err
		}
		pdas.Add(pda)
	}
	if _, ok := ic.info(ins.ProgramID); !ok {
		return fmt.Errorf("%w: program %s", ErrMissingAccount, ins.ProgramID)
	}
	accounts := make([]AccountInfo, len(ins.Accounts))
	for i, meta := range ins.Accounts {
		caller, ok := ic.info(meta.Address)
		if !ok {
			return fmt.Errorf("%w: %s", ErrMissingAccount, meta.Address)
		}
		if meta.Writable && !caller.Writable {
			return fmt.Errorf("%w: %s is not writable", ErrPrivilegeEscalation, meta.Address)
		}
		if meta.Signer && !caller.Signer && !pdas.Contains(meta.Address) {
			return fmt.Errorf("%w: %s did not sign", ErrPrivilegeEscalation, meta.Address)
		}
		accounts[i] = AccountInfo{
			Address:  meta.Address,
			Signer:   meta.Signer,
			Writable: meta.Writable,
		}
	}
	return ic.process(ctx, ins.ProgramID, accounts, ins.Data, ic.depth+1)
}

func (ic *InvokeContext) process(
	ctx context.Context,
	programID codec.Address,
	accounts []AccountInfo,
	data []byte,
	depth int,
) error {
	program, ok := ic.registry.Lookup(programID)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownProgram, programID)
	}
	callee := &InvokeContext{
		registry: ic.registry,
		log:      ic.log,
		mu:       ic.mu,
		clock:    ic.clock,
		schedule: ic.schedule,
		logs:     ic.logs,

		programID: programID,
		accounts:  accounts,
		depth:     depth,
	}
	*ic.logs = append(*ic.logs, fmt.Sprintf("Program %s invoke [%d]", programID, depth))
	if err := program.Execute(ctx, callee, data); err != nil {
		*ic.logs = append(*ic.logs, fmt.Sprintf("Program %s failed: %v", programID, err))
		ic.log.Debug("program failed",
			zap.String("program", program.Name()),
			zap.Int("depth", depth),
			zap.Error(err),
		)
		return err
	}
	*ic.logs = append(*ic.logs, fmt.Sprintf("Program %s success", programID))
	return nil
}
