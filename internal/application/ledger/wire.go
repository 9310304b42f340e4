package ledger

import (
	"github.com/rs/zerolog"

	"github.com/jhoicas/ventas-ledger/internal/application/analytics"
	"github.com/jhoicas/ventas-ledger/internal/application/inventory"
	"github.com/jhoicas/ventas-ledger/internal/application/sales"
)

// Runner lo cumplen los TxRunner de memoria y de Postgres.
type Runner interface {
	sales.TxRunner
	inventory.TxRunner
	inventory.SnapshotRunner
}

// Build arma la fachada completa sobre un único almacenamiento.
func Build(r Runner, audit AuditSink, dedup PaymentDedup, log zerolog.Logger, opts Options) *Service {
	engine := sales.NewPaymentEngine(r)
	stock := inventory.NewStockLedger(r, r)
	return NewService(Deps{
		CreateOrder: sales.NewCreateOrderUseCase(r, stock, engine),
		Payments:    engine,
		Orders:      sales.NewOrderQueryUseCase(r),
		Stock:       stock,
		Reports:     analytics.NewReportUseCase(r),
		Audit:       audit,
		Dedup:       dedup,
		Logger:      log,
	}, opts)
}
