package client

import (
	"context"
	"errors"
	"fmt"

	"github.com/fedimint-nostimint/nostimint/internal/common"
	"github.com/fedimint-nostimint/nostimint/internal/storage/keyValueDb"
)

// prefixClientFunds namespaces the client's own running balance row.
const prefixClientFunds byte = 0x04

var clientFundsKey = keyValueDb.PrefixKey(prefixClientFunds, nil)

func getFunds(ctx context.Context, db keyValueDb.DB) (common.Amount, error) {
	raw, err := db.Read(ctx, clientFundsKey)
	if err != nil {
		if errors.Is(err, keyValueDb.ErrKeyNotFound) {
			return common.ZeroAmount, nil
		}
		return 0, fmt.Errorf("client: read funds: %w", err)
	}
	return common.DecodeAmount(common.NewReader(raw))
}

func addFunds(ctx context.Context, db keyValueDb.DB, amount common.Amount) error {
	current, err := getFunds(ctx, db)
	if err != nil {
		return err
	}
	w := common.NewWriter()
	(current + amount).Encode(w)
	if err := db.Write(ctx, clientFundsKey, w.Bytes()); err != nil {
		return fmt.Errorf("client: write funds: %w", err)
	}
	return nil
}
