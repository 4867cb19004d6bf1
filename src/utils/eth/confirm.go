package eth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/core/types"
)

var ErrConfirmTimeout = errors.New("call not confirmed within the configured timeout")

// WaitConfirmed polls for the receipt of a submitted call until it is
// mined or the configured timeout passes. A mined-but-reverted call is an
// error, not a confirmation.
func (self *Client) WaitConfirmed(ctx context.Context, handle TxHandle) (err error) {
	ctx, cancel := context.WithTimeout(ctx, self.config.Ledger.ConfirmTimeout)
	defer cancel()

	ticker := time.NewTicker(self.config.Ledger.ConfirmInterval)
	defer ticker.Stop()

	for {
		var receipt *types.Receipt
		receipt, err = self.client.TransactionReceipt(ctx, handle.Hash)
		switch {
		case err == nil:
			if receipt.Status != types.ReceiptStatusSuccessful {
				return fmt.Errorf("call %s reverted on chain", handle)
			}
			self.log.WithField("tx", handle.String()).Debug("Call confirmed")
			return nil
		case errors.Is(err, ethereum.NotFound):
			// Not mined yet, keep polling
		default:
			self.log.WithError(err).WithField("tx", handle.String()).Warn("Receipt poll failed")
		}

		select {
		case <-ctx.Done():
			return ErrConfirmTimeout
		case <-ticker.C:
		}
	}
}
