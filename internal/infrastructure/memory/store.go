// Package memory implementa los puertos del ledger sobre go-memdb.
//
// go-memdb es MVCC sobre árboles radix inmutables: una transacción de lectura ve un snapshot
// fijo sin bloquear a nadie, y solo el commit toma el escritor global (brevemente).
// La serialización por entidad (equivalente al SELECT ... FOR UPDATE de Postgres) la da una
// tabla de locks por clave con espera acotada.
package memory

import (
	"fmt"
	"time"

	"github.com/hashicorp/go-memdb"

	"github.com/jhoicas/ventas-ledger/internal/domain/entity"
)

const (
	tableProducts = "productos"
	tableOrders   = "pedidos"
	tablePayments = "pagos"

	dayLayout = "2006-01-02"

	defaultLockTimeout = 5 * time.Second
)

// Registros almacenados. memdb guarda punteros: nunca se mutan después de insertarlos.
type productRecord struct {
	ID      string
	Product entity.Product
}

type orderRecord struct {
	ID     string
	Day    string // fecha_pedido UTC, YYYY-MM-DD
	Estado string // derivado de Order.Estado() al escribir
	Order  entity.Order
}

type paymentRecord struct {
	ID      string
	OrderID string
	Code    string
	Day     string
	Payment entity.Payment
}

func newProductRecord(p *entity.Product) *productRecord {
	return &productRecord{ID: p.ID, Product: *p}
}

func newOrderRecord(o *entity.Order) *orderRecord {
	c := o.Clone()
	return &orderRecord{ID: c.ID, Day: dayKey(c.FechaPedido), Estado: c.Estado(), Order: *c}
}

func newPaymentRecord(p *entity.Payment) *paymentRecord {
	return &paymentRecord{ID: p.ID, OrderID: p.OrderID, Code: p.CodigoConfirmacion, Day: dayKey(p.FechaPago), Payment: *p}
}

func dayKey(t time.Time) string {
	return t.UTC().Format(dayLayout)
}

func schema() *memdb.DBSchema {
	return &memdb.DBSchema{
		Tables: map[string]*memdb.TableSchema{
			tableProducts: {
				Name: tableProducts,
				Indexes: map[string]*memdb.IndexSchema{
					"id": {Name: "id", Unique: true, Indexer: &memdb.StringFieldIndex{Field: "ID"}},
				},
			},
			tableOrders: {
				Name: tableOrders,
				Indexes: map[string]*memdb.IndexSchema{
					"id":     {Name: "id", Unique: true, Indexer: &memdb.StringFieldIndex{Field: "ID"}},
					"day":    {Name: "day", AllowMissing: true, Indexer: &memdb.StringFieldIndex{Field: "Day"}},
					"estado": {Name: "estado", AllowMissing: true, Indexer: &memdb.StringFieldIndex{Field: "Estado"}},
				},
			},
			tablePayments: {
				Name: tablePayments,
				Indexes: map[string]*memdb.IndexSchema{
					"id":    {Name: "id", Unique: true, Indexer: &memdb.StringFieldIndex{Field: "ID"}},
					"order": {Name: "order", AllowMissing: true, Indexer: &memdb.StringFieldIndex{Field: "OrderID"}},
					// memdb no rechaza duplicados en índices Unique: la unicidad real se verifica
					// en la transacción con el lock del pedido tomado.
					"confirmation": {
						Name:         "confirmation",
						Unique:       true,
						AllowMissing: true,
						Indexer: &memdb.CompoundIndex{Indexes: []memdb.Indexer{
							&memdb.StringFieldIndex{Field: "OrderID"},
							&memdb.StringFieldIndex{Field: "Code"},
						}},
					},
					"day": {Name: "day", AllowMissing: true, Indexer: &memdb.StringFieldIndex{Field: "Day"}},
				},
			},
		},
	}
}

// Store base de datos en memoria con locks por entidad.
type Store struct {
	db          *memdb.MemDB
	locks       *lockTable
	lockTimeout time.Duration
}

// NewStore crea el store. lockTimeout <= 0 usa 5s; al vencer la espera de un lock la
// operación falla con domain.ErrConcurrencyConflict.
func NewStore(lockTimeout time.Duration) (*Store, error) {
	db, err := memdb.NewMemDB(schema())
	if err != nil {
		return nil, fmt.Errorf("memdb: %w", err)
	}
	if lockTimeout <= 0 {
		lockTimeout = defaultLockTimeout
	}
	return &Store{db: db, locks: newLockTable(), lockTimeout: lockTimeout}, nil
}
