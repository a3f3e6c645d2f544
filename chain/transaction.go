// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package chain

import (
	"fmt"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/utils/set"

	"github.com/bgl-labs/glyphs/codec"
	"github.com/bgl-labs/glyphs/consts"
	"github.com/bgl-labs/glyphs/crypto/ed25519"
	"github.com/bgl-labs/glyphs/state"
	"github.com/bgl-labs/glyphs/storage"
	"github.com/bgl-labs/glyphs/utils"
)

type TxSignature struct {
	PublicKey ed25519.PublicKey `json:"publicKey"`
	Signature ed25519.Signature `json:"signature"`
}

// Transaction is an atomic list of instructions. [Nonce] distinguishes
// otherwise identical transactions.
type Transaction struct {
	Nonce        uint64         `json:"nonce"`
	Instructions []*Instruction `json:"instructions"`
	Signatures   []TxSignature  `json:"signatures"`

	digest []byte
	bytes  []byte
	id     ids.ID
}

func NewTx(nonce uint64, instructions ...*Instruction) *Transaction {
	return &Transaction{
		Nonce:        nonce,
		Instructions: instructions,
	}
}

// Digest returns the bytes every signer signs.
func (t *Transaction) Digest() ([]byte, error) {
	if len(t.digest) > 0 {
		return t.digest, nil
	}
	size := consts.Uint64Len + consts.Uint32Len
	for _, ins := range t.Instructions {
		size += ins.Size()
	}
	p := codec.NewWriter(size, MaxTxSize)
	t.marshalUnsigned(p)
	if err := p.Err(); err != nil {
		return nil, err
	}
	t.digest = p.Bytes()
	return t.digest, nil
}

func (t *Transaction) marshalUnsigned(p *codec.Packer) {
	p.PackUint64(t.Nonce)
	p.PackCount(len(t.Instructions))
	for _, ins := range t.Instructions {
		ins.Marshal(p)
	}
}

// Sign appends a signature over the digest for every key in [privs].
func (t *Transaction) Sign(privs ...ed25519.PrivateKey) error {
	msg, err := t.Digest()
	if err != nil {
		return err
	}
	for _, priv := range privs {
		t.Signatures = append(t.Signatures, TxSignature{
			PublicKey: priv.PublicKey(),
			Signature: ed25519.Sign(msg, priv),
		})
	}
	t.bytes = nil
	t.id = ids.Empty
	return nil
}

// Signers returns every address marked as a signer by an instruction.
func (t *Transaction) Signers() set.Set[codec.Address] {
	signers := set.Set[codec.Address]{}
	for _, ins := range t.Instructions {
		for _, meta := range ins.Accounts {
			if meta.Signer {
				signers.Add(meta.Address)
			}
		}
	}
	return signers
}

// Verify checks the structure of [t] and that every required signer has a
// valid signature.
func (t *Transaction) Verify() error {
	switch {
	case len(t.Instructions) == 0:
		return ErrNoInstructions
	case len(t.Instructions) > MaxInstructions:
		return ErrTooManyInstructions
	}
	for _, ins := range t.Instructions {
		if len(ins.Accounts) > MaxAccountsPerInstruction {
			return ErrTooManyAccounts
		}
		if len(ins.Data) > MaxInstructionDataLen {
			return ErrInstructionDataTooLarge
		}
	}
	msg, err := t.Digest()
	if err != nil {
		return err
	}
	signed := set.NewSet[codec.Address](len(t.Signatures))
	if len(t.Signatures) >= ed25519.MinBatchSize {
		batch := ed25519.NewBatch(len(t.Signatures))
		for _, sig := range t.Signatures {
			batch.Add(msg, sig.PublicKey, sig.Signature)
			signed.Add(sig.PublicKey.Address())
		}
		if !batch.Verify() {
			return ErrInvalidSignature
		}
	} else {
		for _, sig := range t.Signatures {
			if !ed25519.Verify(msg, sig.PublicKey, sig.Signature) {
				return fmt.Errorf("%w: %s", ErrInvalidSignature, sig.PublicKey.Address())
			}
			signed.Add(sig.PublicKey.Address())
		}
	}
	for signer := range t.Signers() {
		if !signed.Contains(signer) {
			return fmt.Errorf("%w: %s", ErrMissingSignature, signer)
		}
	}
	return nil
}

// StateKeys returns every key [t] may touch. Accounts that any instruction
// marks writable may be created or modified, all others are read only.
func (t *Transaction) StateKeys() state.Keys {
	ks := state.Keys{}
	for _, ins := range t.Instructions {
		ks.Add(string(storage.AccountKey(ins.ProgramID)), state.Read)
		for _, meta := range ins.Accounts {
			perm := state.Read
			if meta.Writable {
				perm = state.All
			}
			ks.Add(string(storage.AccountKey(meta.Address)), perm)
		}
	}
	return ks
}

func (t *Transaction) Bytes() ([]byte, error) {
	if len(t.bytes) > 0 {
		return t.bytes, nil
	}
	msg, err := t.Digest()
	if err != nil {
		return nil, err
	}
	size := len(msg) + consts.Uint32Len + len(t.Signatures)*(ed25519.PublicKeyLen+ed25519.SignatureLen)
	p := codec.NewWriter(size, MaxTxSize)
	p.PackFixedBytes(msg)
	p.PackCount(len(t.Signatures))
	for _, sig := range t.Signatures {
		p.PackFixedBytes(sig.PublicKey[:])
		p.PackFixedBytes(sig.Signature[:])
	}
	if err := p.Err(); err != nil {
		return nil, err
	}
	t.bytes = p.Bytes()
	return t.bytes, nil
}

// ID is the hash of the signed transaction bytes.
func (t *Transaction) ID() (ids.ID, error) {
	if t.id != ids.Empty {
		return t.id, nil
	}
	b, err := t.Bytes()
	if err != nil {
		return ids.Empty, err
	}
	t.id = utils.ToID(b)
	return t.id, nil
}

func UnmarshalTx(b []byte) (*Transaction, error) {
	p := codec.NewReader(b, MaxTxSize)
	t := &Transaction{
		Nonce: p.UnpackUint64(false),
	}
	n := p.UnpackCount(MaxInstructions)
	for i := 0; i < n; i++ {
		ins, err := UnmarshalInstruction(p)
		if err != nil {
			return nil, fmt.Errorf("%w: instruction %d", err, i)
		}
		t.Instructions = append(t.Instructions, ins)
	}
	digestLen := p.Offset()
	numSigs := p.UnpackCount(MaxSignatures)
	for i := 0; i < numSigs; i++ {
		pk := make([]byte, ed25519.PublicKeyLen)
		sig := make([]byte, ed25519.SignatureLen)
		p.UnpackFixedBytes(ed25519.PublicKeyLen, &pk)
		p.UnpackFixedBytes(ed25519.SignatureLen, &sig)
		t.Signatures = append(t.Signatures, TxSignature{
			PublicKey: ed25519.PublicKey(pk),
			Signature: ed25519.Signature(sig),
		})
	}
	if err := p.Err(); err != nil {
		return nil, err
	}
	if !p.Empty() {
		return nil, fmt.Errorf("%w: %d trailing bytes", codec.ErrInvalidSize, len(b)-p.Offset())
	}
	t.digest = b[:digestLen]
	t.bytes = b
	return t, nil
}
