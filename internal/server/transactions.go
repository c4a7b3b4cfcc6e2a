package server

import (
	"context"
	"errors"
	"fmt"

	"github.com/fedimint-nostimint/nostimint/internal/common"
	"github.com/fedimint-nostimint/nostimint/internal/crypto"
	"github.com/fedimint-nostimint/nostimint/internal/storage/keyValueDb"
)

// TransactionItemAmount is the fee-bearing amount a processed input or
// output contributes to a transaction.
type TransactionItemAmount struct {
	Amount common.Amount
	Fee    common.Amount
}

// InputMeta is returned by ProcessInput: the fee-bearing amount plus the
// account whose signature must already have authorized the input at the
// host transaction layer (out of scope for this module, per spec.md §1).
type InputMeta struct {
	Amount  TransactionItemAmount
	PubKeys []common.Account
}

// ProcessInput debits amount from account's funds, unless account is the
// federation's faucet account, in which case it credits amount instead
// (the faucet "prints" money rather than spending a pre-existing balance).
// A non-faucet account spending more than its current balance fails with
// ErrNotEnoughFunds. Faucet inputs are exempt from balance checks.
func (m *Module) ProcessInput(ctx context.Context, in common.Input) (InputMeta, error) {
	current, err := m.getFunds(ctx, in.Account)
	if err != nil {
		return InputMeta{}, err
	}

	isFaucet := in.Account.Equal(crypto.FaucetAccount())
	if in.Amount > current && !isFaucet {
		return InputMeta{}, fmt.Errorf("%w: account %s has %s, wants to spend %s", ErrNotEnoughFunds, in.Account, current, in.Amount)
	}

	var updated common.Amount
	if isFaucet {
		updated = current + in.Amount
	} else {
		updated = current - in.Amount
	}

	if err := m.putFunds(ctx, in.Account, updated); err != nil {
		return InputMeta{}, err
	}
	m.invalidateVerificationCache(in.Account)

	return InputMeta{
		Amount:  TransactionItemAmount{Amount: in.Amount, Fee: m.cfg.Consensus.TxFee},
		PubKeys: []common.Account{in.Account},
	}, nil
}

// ProcessOutput credits amount to account's funds and records the
// resulting OutputOutcome so a client can later poll OutputStatus for
// confirmation. Crediting happens unconditionally once consensus accepts the output.
func (m *Module) ProcessOutput(ctx context.Context, out common.Output, point common.OutPoint) (TransactionItemAmount, error) {
	current, err := m.getFunds(ctx, out.Account)
	if err != nil {
		return TransactionItemAmount{}, err
	}
	updated := current + out.Amount

	if err := m.putFunds(ctx, out.Account, updated); err != nil {
		return TransactionItemAmount{}, err
	}
	m.invalidateVerificationCache(out.Account)

	outcome := common.OutputOutcome{UpdatedFunds: updated, Account: out.Account}
	w := common.NewWriter()
	outcome.UpdatedFunds.Encode(w)
	outcome.Account.Encode(w)
	if err := m.db.Write(ctx, outcomeKey(point), w.Bytes()); err != nil {
		return TransactionItemAmount{}, fmt.Errorf("server: write outcome: %w", err)
	}

	return TransactionItemAmount{Amount: out.Amount, Fee: m.cfg.Consensus.TxFee}, nil
}

// OutputStatus reports the outcome of a previously processed output, or
// (false) if point has never been processed by ProcessOutput.
func (m *Module) OutputStatus(ctx context.Context, point common.OutPoint) (common.OutputOutcome, bool, error) {
	raw, err := m.db.Read(ctx, outcomeKey(point))
	if err != nil {
		if errors.Is(err, keyValueDb.ErrKeyNotFound) {
			return common.OutputOutcome{}, false, nil
		}
		return common.OutputOutcome{}, false, fmt.Errorf("server: read outcome: %w", err)
	}
	r := common.NewReader(raw)
	amt, err := common.DecodeAmount(r)
	if err != nil {
		return common.OutputOutcome{}, false, err
	}
	acct, err := common.DecodeAccount(r)
	if err != nil {
		return common.OutputOutcome{}, false, err
	}
	return common.OutputOutcome{UpdatedFunds: amt, Account: acct}, true, nil
}

// AuditEntry is one account's contribution to the module's balance sheet:
// positive for the faucet's printed supply (an asset from the federation's
// point of view), negative for every other account's claim on it (a
// liability), summing signed balances across all tracked accounts.
type AuditEntry struct {
	Account common.Account
	Value   int64
}

// Audit enumerates every funded account's signed contribution to the
// module's balance sheet.
func (m *Module) Audit(ctx context.Context) ([]AuditEntry, error) {
	start, end := keyValueDb.PrefixRange(prefixFunds)
	it, err := m.db.Iterator(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("server: audit: open iterator: %w", err)
	}
	defer it.Close()

	faucet := crypto.FaucetAccount()
	var entries []AuditEntry
	for it.Next() {
		acct, err := common.AccountFromBytes(it.Key()[1:])
		if err != nil {
			return nil, err
		}
		amt, err := common.DecodeAmount(common.NewReader(it.Value()))
		if err != nil {
			return nil, err
		}
		value := int64(amt)
		if !acct.Equal(faucet) {
			value = -value
		}
		entries = append(entries, AuditEntry{Account: acct, Value: value})
	}
	if err := it.Error(); err != nil {
		return nil, fmt.Errorf("server: audit: iterate: %w", err)
	}
	return entries, nil
}
