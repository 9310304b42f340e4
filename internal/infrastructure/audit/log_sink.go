// Package audit sink de auditoría sobre el log estructurado.
package audit

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/jhoicas/ventas-ledger/internal/domain/entity"
)

// LogSink escribe cada evento como una línea de log. Se usa cuando no hay Kafka configurado.
type LogSink struct {
	log zerolog.Logger
}

// NewLogSink construye el sink.
func NewLogSink(log zerolog.Logger) *LogSink {
	return &LogSink{log: log.With().Str("component", "audit").Logger()}
}

// Record nunca falla.
func (s *LogSink) Record(_ context.Context, ev entity.AuditEvent) error {
	s.log.Info().
		Str("actor", ev.Actor).
		Str("op", ev.Operation).
		Str("entity_id", ev.EntityID).
		Str("outcome", ev.Outcome).
		Time("at", ev.Timestamp).
		Msg("audit")
	return nil
}
