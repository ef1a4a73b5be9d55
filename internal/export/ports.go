package export

import (
	"context"

	"finboard/internal/core"
)

// Ports for outbound export adapters.
type (
	TransactionWriter interface {
		Append(ctx context.Context, id int64, t core.Transaction) (rowRef string, err error)
	}

	TransactionDeleter interface {
		Delete(ctx context.Context, id int64) error
	}
)
