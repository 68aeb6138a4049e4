package memory

import (
	"context"

	"github.com/maxviazov/scrollwindow/internal/repository"
)

type txManager struct{}

// NewTxManager runs fn directly. The store has no transactions; each call
// sees the latest appends.
func NewTxManager() repository.TxManager { return txManager{} }

func (txManager) WithinTx(ctx context.Context, fn repository.TxFunc) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return fn(ctx)
}
