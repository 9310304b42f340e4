// Package kafka publica los eventos de auditoría del ledger en un tópico Kafka.
package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"

	"github.com/jhoicas/ventas-ledger/internal/domain/entity"
)

// ErrBufferFull el buzón de envío está lleno; el evento se descarta.
var ErrBufferFull = errors.New("buffer de auditoría lleno")

// messageWriter lo cumple *kafka.Writer.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// auditMessage formato del evento en el tópico.
type auditMessage struct {
	Actor     string    `json:"actor"`
	Operation string    `json:"operation"`
	EntityID  string    `json:"entity_id,omitempty"`
	Outcome   string    `json:"outcome"`
	Timestamp time.Time `json:"timestamp"`
}

// AuditProducer implementa ledger.AuditSink. Record solo encola; una goroutine escribe en Kafka,
// así la latencia del broker nunca llega a la transacción del ledger.
type AuditProducer struct {
	w       messageWriter
	inbox   chan kafka.Message
	closeCh chan struct{}
	log     zerolog.Logger
}

// NewAuditProducer crea el productor. buf es la capacidad del buzón.
func NewAuditProducer(brokers []string, topic string, buf int, log zerolog.Logger) *AuditProducer {
	return newAuditProducer(&kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		BatchTimeout: 10 * time.Millisecond,
	}, buf, log)
}

func newAuditProducer(w messageWriter, buf int, log zerolog.Logger) *AuditProducer {
	if buf <= 0 {
		buf = 1
	}
	return &AuditProducer{
		w:       w,
		inbox:   make(chan kafka.Message, buf),
		closeCh: make(chan struct{}),
		log:     log,
	}
}

// Start lanza la goroutine de envío. Al cancelar ctx vacía el buzón y cierra el writer.
func (p *AuditProducer) Start(ctx context.Context) {
	go func() {
		defer close(p.closeCh)
		for {
			select {
			case <-ctx.Done():
				p.drain()
				return
			case m := <-p.inbox:
				p.write(m)
			}
		}
	}()
}

// Record encola el evento. La clave del mensaje es la entidad: los eventos de un mismo pedido
// o producto caen en la misma partición y conservan su orden.
func (p *AuditProducer) Record(_ context.Context, ev entity.AuditEvent) error {
	msg, err := encode(ev)
	if err != nil {
		return err
	}
	select {
	case p.inbox <- msg:
		return nil
	default:
		return ErrBufferFull
	}
}

// WaitClosed espera a que la goroutine termine de vaciar el buzón.
func (p *AuditProducer) WaitClosed() { <-p.closeCh }

func (p *AuditProducer) drain() {
	for {
		select {
		case m := <-p.inbox:
			p.write(m)
		default:
			if err := p.w.Close(); err != nil {
				p.log.Warn().Err(err).Msg("cerrar writer de auditoría")
			}
			return
		}
	}
}

func (p *AuditProducer) write(m kafka.Message) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := p.w.WriteMessages(ctx, m); err != nil {
		p.log.Warn().Err(err).Str("key", string(m.Key)).Msg("evento de auditoría no publicado")
	}
}

func encode(ev entity.AuditEvent) (kafka.Message, error) {
	body, err := json.Marshal(auditMessage{
		Actor:     ev.Actor,
		Operation: ev.Operation,
		EntityID:  ev.EntityID,
		Outcome:   ev.Outcome,
		Timestamp: ev.Timestamp.UTC(),
	})
	if err != nil {
		return kafka.Message{}, err
	}
	return kafka.Message{
		Key:   []byte(ev.EntityID),
		Value: body,
		Time:  ev.Timestamp,
		Headers: []kafka.Header{
			{Key: "operation", Value: []byte(ev.Operation)},
		},
	}, nil
}
