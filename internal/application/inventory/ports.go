package inventory

import (
	"context"

	"github.com/jhoicas/ventas-ledger/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción, pasando el repositorio de productos
// atado a esa transacción. Commit si fn retorna nil, Rollback en otro caso.
type TxRunner interface {
	Run(ctx context.Context, fn func(products repository.ProductRepository) error) error
}

// SnapshotRunner ejecuta lecturas sobre un snapshot consistente sin bloquear escritores.
type SnapshotRunner interface {
	ReadSnapshot(ctx context.Context, fn func(reports repository.ReportRepository) error) error
}
