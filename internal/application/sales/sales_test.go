package sales_test

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/ventas-ledger/internal/application/inventory"
	"github.com/jhoicas/ventas-ledger/internal/application/sales"
	"github.com/jhoicas/ventas-ledger/internal/domain"
	"github.com/jhoicas/ventas-ledger/internal/domain/entity"
	"github.com/jhoicas/ventas-ledger/internal/infrastructure/memory"
)

type fixture struct {
	store    *memory.Store
	create   *sales.CreateOrderUseCase
	payments *sales.PaymentEngine
	queries  *sales.OrderQueryUseCase
}

func newFixture(t *testing.T, products ...entity.Product) *fixture {
	t.Helper()
	store, err := memory.NewStore(0)
	require.NoError(t, err)
	for i := range products {
		require.NoError(t, store.Products().Create(context.Background(), &products[i]))
	}
	runner := memory.NewTxRunner(store)
	engine := sales.NewPaymentEngine(runner)
	return &fixture{
		store:    store,
		create:   sales.NewCreateOrderUseCase(runner, inventory.NewStockLedger(runner, runner), engine),
		payments: engine,
		queries:  sales.NewOrderQueryUseCase(runner),
	}
}

func (f *fixture) stock(t *testing.T, id string) int64 {
	t.Helper()
	p, err := f.store.Products().GetByID(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, p)
	return p.Stock
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func price(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func prod(id string, stock int64, precio string) entity.Product {
	return entity.Product{ID: id, Name: "Producto " + id, Price: dec(precio), Stock: stock}
}

func pay(monto, code string) sales.PaymentInput {
	return sales.PaymentInput{Monto: dec(monto), CuentaOrigen: "cta-001", CodigoConfirmacion: code}
}

func TestCreateOrder_ReservaYCalculaTotal(t *testing.T) {
	f := newFixture(t, prod("p1", 10, "5.00"), prod("p2", 3, "7.00"))

	order, payment, err := f.create.CreateOrder(context.Background(), sales.CreateOrderInput{
		ClienteID: "c1",
		Lines: []sales.LineInput{
			{ProductID: "p1", Cantidad: 2, PrecioUnitario: price("15.50")},
			{ProductID: "p2", Cantidad: 3, PrecioUnitario: price("10.00")},
		},
		Actor: "u1",
	})
	require.NoError(t, err)
	assert.Nil(t, payment)
	assert.True(t, order.Total.Equal(dec("61.00")), order.Total.String())
	assert.True(t, order.TotalPagado.IsZero())
	assert.Equal(t, entity.EstadoPendiente, order.Estado())
	assert.Len(t, order.Lines, 2)
	assert.Equal(t, int64(8), f.stock(t, "p1"))
	assert.Equal(t, int64(0), f.stock(t, "p2"))
}

func TestCreateOrder_PrecioDelCatalogoSiSeOmite(t *testing.T) {
	f := newFixture(t, prod("p1", 10, "12.25"))

	order, _, err := f.create.CreateOrder(context.Background(), sales.CreateOrderInput{
		ClienteID: "c1",
		Lines:     []sales.LineInput{{ProductID: "p1", Cantidad: 2}},
	})
	require.NoError(t, err)
	assert.True(t, order.Lines[0].PrecioUnitario.Equal(dec("12.25")))
	assert.True(t, order.Total.Equal(dec("24.50")))
}

// Una línea sin stock aborta todo el pedido: ninguna reserva previa queda aplicada.
func TestCreateOrder_TodoONada(t *testing.T) {
	f := newFixture(t, prod("p1", 10, "1.00"), prod("p2", 1, "1.00"))

	_, _, err := f.create.CreateOrder(context.Background(), sales.CreateOrderInput{
		ClienteID: "c1",
		Lines: []sales.LineInput{
			{ProductID: "p1", Cantidad: 4},
			{ProductID: "p2", Cantidad: 2},
		},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, int64(10), f.stock(t, "p1"))
	assert.Equal(t, int64(1), f.stock(t, "p2"))

	list, err := f.queries.ListOrders(context.Background(), 10, 0)
	require.NoError(t, err)
	assert.Empty(t, list)
}

// Líneas repetidas del mismo producto se suman para la reserva.
func TestCreateOrder_LineasRepetidasSeAgrupan(t *testing.T) {
	f := newFixture(t, prod("p1", 5, "1.00"))

	_, _, err := f.create.CreateOrder(context.Background(), sales.CreateOrderInput{
		ClienteID: "c1",
		Lines:     []sales.LineInput{{ProductID: "p1", Cantidad: 3}, {ProductID: "p1", Cantidad: 3}},
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, int64(5), f.stock(t, "p1"))
}

// Cantidades repetidas cuya suma desborda int64 se rechazan sin reservar nada.
func TestCreateOrder_SumaDeLineasFueraDeRango(t *testing.T) {
	f := newFixture(t, prod("p1", 5, "1.00"))

	_, _, err := f.create.CreateOrder(context.Background(), sales.CreateOrderInput{
		ClienteID: "c1",
		Lines: []sales.LineInput{
			{ProductID: "p1", Cantidad: math.MaxInt64},
			{ProductID: "p1", Cantidad: math.MaxInt64},
			{ProductID: "p1", Cantidad: 3},
		},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidOrder)
	assert.Equal(t, int64(5), f.stock(t, "p1"))

	list, err := f.queries.ListOrders(context.Background(), 10, 0)
	require.NoError(t, err)
	assert.Empty(t, list)
}

// Pedidos concurrentes con los mismos productos en orden inverso no se bloquean entre sí.
func TestCreateOrder_ConcurrenteOrdenCruzadoSinDeadlock(t *testing.T) {
	f := newFixture(t, prod("a", 1000, "1.00"), prod("b", 1000, "1.00"))

	const workers = 200
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		failures []error
	)
	for i := 0; i < workers; i++ {
		lines := []sales.LineInput{{ProductID: "a", Cantidad: 1}, {ProductID: "b", Cantidad: 1}}
		if i%2 == 1 {
			lines[0], lines[1] = lines[1], lines[0]
		}
		wg.Add(1)
		go func(lines []sales.LineInput) {
			defer wg.Done()
			_, _, err := f.create.CreateOrder(context.Background(), sales.CreateOrderInput{ClienteID: "c1", Lines: lines})
			if err != nil {
				mu.Lock()
				failures = append(failures, err)
				mu.Unlock()
			}
		}(lines)
	}
	wg.Wait()

	assert.Empty(t, failures)
	assert.Equal(t, int64(800), f.stock(t, "a"))
	assert.Equal(t, int64(800), f.stock(t, "b"))
}

func TestCreateOrder_EntradaInvalida(t *testing.T) {
	f := newFixture(t, prod("p1", 5, "1.00"))
	ctx := context.Background()

	cases := map[string]sales.CreateOrderInput{
		"sin líneas":        {ClienteID: "c1"},
		"sin cliente":       {Lines: []sales.LineInput{{ProductID: "p1", Cantidad: 1}}},
		"cantidad cero":     {ClienteID: "c1", Lines: []sales.LineInput{{ProductID: "p1", Cantidad: 0}}},
		"precio negativo":   {ClienteID: "c1", Lines: []sales.LineInput{{ProductID: "p1", Cantidad: 1, PrecioUnitario: price("-1")}}},
		"precio 3 decimales": {ClienteID: "c1", Lines: []sales.LineInput{{ProductID: "p1", Cantidad: 1, PrecioUnitario: price("1.005")}}},
		"pago sin datos":    {ClienteID: "c1", Lines: []sales.LineInput{{ProductID: "p1", Cantidad: 1}}, PagoInmediato: true},
	}
	for name, in := range cases {
		_, _, err := f.create.CreateOrder(ctx, in)
		assert.ErrorIs(t, err, domain.ErrInvalidOrder, name)
	}
	assert.Equal(t, int64(5), f.stock(t, "p1"))
}

func TestCreateOrder_ProductoInexistente(t *testing.T) {
	f := newFixture(t)
	_, _, err := f.create.CreateOrder(context.Background(), sales.CreateOrderInput{
		ClienteID: "c1",
		Lines:     []sales.LineInput{{ProductID: "x", Cantidad: 1, PrecioUnitario: price("1")}},
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCreateOrder_PagoInmediatoQuedaPagado(t *testing.T) {
	f := newFixture(t, prod("p1", 5, "20.00"))
	p := pay("40.00", "TX-1")

	order, payment, err := f.create.CreateOrder(context.Background(), sales.CreateOrderInput{
		ClienteID:     "c1",
		Lines:         []sales.LineInput{{ProductID: "p1", Cantidad: 2}},
		PagoInmediato: true,
		Pago:          &p,
	})
	require.NoError(t, err)
	require.NotNil(t, payment)
	assert.Equal(t, entity.EstadoPagado, order.Estado())

	stored, err := f.queries.GetOrder(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.EstadoPagado, stored.Estado())
}

// Un pago inmediato mayor al total revierte también la reserva de stock.
func TestCreateOrder_PagoInmediatoExcedidoRevierteTodo(t *testing.T) {
	f := newFixture(t, prod("p1", 5, "20.00"))
	p := pay("40.01", "TX-1")

	_, _, err := f.create.CreateOrder(context.Background(), sales.CreateOrderInput{
		ClienteID:     "c1",
		Lines:         []sales.LineInput{{ProductID: "p1", Cantidad: 2}},
		PagoInmediato: true,
		Pago:          &p,
	})
	assert.ErrorIs(t, err, domain.ErrOverpaymentRejected)
	assert.Equal(t, int64(5), f.stock(t, "p1"))
}

// El código del pago inmediato se normaliza igual que el de un pago posterior.
func TestCreateOrder_PagoInmediatoCodigoNormalizado(t *testing.T) {
	f := newFixture(t, prod("p1", 5, "20.00"))
	p := pay("10.00", "  TX-9 ")

	order, payment, err := f.create.CreateOrder(context.Background(), sales.CreateOrderInput{
		ClienteID:     "c1",
		Lines:         []sales.LineInput{{ProductID: "p1", Cantidad: 2}},
		PagoInmediato: true,
		Pago:          &p,
	})
	require.NoError(t, err)
	assert.Equal(t, "TX-9", payment.CodigoConfirmacion)

	_, _, err = f.payments.Apply(context.Background(), order.ID, pay("10.00", "TX-9"), "u1")
	assert.ErrorIs(t, err, domain.ErrDuplicatePayment)
}

func newOrder(t *testing.T, f *fixture, total string) *entity.Order {
	t.Helper()
	order, _, err := f.create.CreateOrder(context.Background(), sales.CreateOrderInput{
		ClienteID: "c1",
		Lines:     []sales.LineInput{{ProductID: "p1", Cantidad: 1, PrecioUnitario: price(total)}},
	})
	require.NoError(t, err)
	return order
}

func TestApplyPayment_ParcialesHastaPagado(t *testing.T) {
	f := newFixture(t, prod("p1", 5, "1.00"))
	order := newOrder(t, f, "100.00")
	ctx := context.Background()

	_, o, err := f.payments.Apply(ctx, order.ID, pay("40.00", "A"), "u1")
	require.NoError(t, err)
	assert.Equal(t, entity.EstadoPendiente, o.Estado())

	_, o, err = f.payments.Apply(ctx, order.ID, pay("60.00", "B"), "u1")
	require.NoError(t, err)
	assert.Equal(t, entity.EstadoPagado, o.Estado())
	assert.True(t, o.Saldo().IsZero())

	summary, err := f.queries.PaymentSummary(ctx, order.ID)
	require.NoError(t, err)
	assert.Len(t, summary.Payments, 2)
	assert.True(t, summary.Pagado.Equal(summary.Order.TotalPagado))
}

func TestApplyPayment_SobrepagoRechazado(t *testing.T) {
	f := newFixture(t, prod("p1", 5, "1.00"))
	order := newOrder(t, f, "100.00")
	ctx := context.Background()

	_, _, err := f.payments.Apply(ctx, order.ID, pay("80.00", "A"), "u1")
	require.NoError(t, err)
	_, _, err = f.payments.Apply(ctx, order.ID, pay("30.00", "B"), "u1")
	assert.ErrorIs(t, err, domain.ErrOverpaymentRejected)

	got, err := f.queries.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.True(t, got.TotalPagado.Equal(dec("80")))
	assert.Equal(t, entity.EstadoPendiente, got.Estado())
}

// El reintento de un pago ya aplicado es duplicado aunque el pedido ya esté saldado.
func TestApplyPayment_DuplicadoAntesQueSaldo(t *testing.T) {
	f := newFixture(t, prod("p1", 5, "1.00"))
	order := newOrder(t, f, "50.00")
	ctx := context.Background()

	_, _, err := f.payments.Apply(ctx, order.ID, pay("50.00", "X"), "u1")
	require.NoError(t, err)
	_, _, err = f.payments.Apply(ctx, order.ID, pay("50.00", "X"), "u1")
	assert.ErrorIs(t, err, domain.ErrDuplicatePayment)

	// El mismo código en otro pedido sí es válido.
	other := newOrder(t, f, "50.00")
	_, _, err = f.payments.Apply(ctx, other.ID, pay("10.00", "X"), "u1")
	assert.NoError(t, err)
}

func TestApplyPayment_EntradaInvalida(t *testing.T) {
	f := newFixture(t, prod("p1", 5, "1.00"))
	order := newOrder(t, f, "50.00")
	ctx := context.Background()

	for _, in := range []sales.PaymentInput{
		pay("0", "A"),
		pay("-5", "A"),
		pay("1.001", "A"),
		{Monto: dec("1"), CuentaOrigen: "", CodigoConfirmacion: "A"},
		{Monto: dec("1"), CuentaOrigen: "c", CodigoConfirmacion: " "},
	} {
		_, _, err := f.payments.Apply(ctx, order.ID, in, "u1")
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	}
	_, _, err := f.payments.Apply(ctx, "no-existe", pay("1", "A"), "u1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// Pagos concurrentes que juntos exceden el total: solo se aplican los que caben.
func TestApplyPayment_ConcurrenteSinSobrepago(t *testing.T) {
	f := newFixture(t, prod("p1", 5, "1.00"))
	order := newOrder(t, f, "100.00")

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		ok, over int
	)
	for i := 0; i < 12; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, _, err := f.payments.Apply(context.Background(), order.ID, pay("20.00", fmt.Sprintf("C-%d", i)), "u1")
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				ok++
			case errors.Is(err, domain.ErrOverpaymentRejected):
				over++
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 5, ok)
	assert.Equal(t, 7, over)

	summary, err := f.queries.PaymentSummary(context.Background(), order.ID)
	require.NoError(t, err)
	assert.True(t, summary.Order.TotalPagado.Equal(dec("100")))
	assert.True(t, summary.Pagado.Equal(summary.Order.TotalPagado))
	assert.Equal(t, entity.EstadoPagado, summary.Order.Estado())
}

// El mismo código enviado en paralelo se aplica una sola vez.
func TestApplyPayment_ConcurrenteMismoCodigo(t *testing.T) {
	f := newFixture(t, prod("p1", 5, "1.00"))
	order := newOrder(t, f, "100.00")

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		ok, dup int
	)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, err := f.payments.Apply(context.Background(), order.ID, pay("10.00", "MISMO"), "u1")
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				ok++
			case errors.Is(err, domain.ErrDuplicatePayment):
				dup++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, ok)
	assert.Equal(t, 9, dup)
	got, err := f.queries.GetOrder(context.Background(), order.ID)
	require.NoError(t, err)
	assert.True(t, got.TotalPagado.Equal(dec("10")))
}

func TestDeleteOrder_PurgaSinDevolverStock(t *testing.T) {
	f := newFixture(t, prod("p1", 5, "1.00"))
	order := newOrder(t, f, "30.00")
	ctx := context.Background()
	_, _, err := f.payments.Apply(ctx, order.ID, pay("10.00", "A"), "u1")
	require.NoError(t, err)

	require.NoError(t, f.queries.DeleteOrder(ctx, order.ID))

	_, err = f.queries.GetOrder(ctx, order.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = f.queries.ListPayments(ctx, order.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, int64(4), f.stock(t, "p1"))

	assert.ErrorIs(t, f.queries.DeleteOrder(ctx, order.ID), domain.ErrNotFound)
}

func TestListOrders_MasRecientePrimero(t *testing.T) {
	f := newFixture(t, prod("p1", 10, "1.00"))
	first := newOrder(t, f, "1.00")
	second := newOrder(t, f, "2.00")

	list, err := f.queries.ListOrders(context.Background(), 10, 0)
	require.NoError(t, err)
	require.Len(t, list, 2)
	if list[0].FechaPedido.Equal(list[1].FechaPedido) {
		return
	}
	assert.Equal(t, second.ID, list[0].ID)
	assert.Equal(t, first.ID, list[1].ID)

	page, err := f.queries.ListOrders(context.Background(), 1, 1)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, first.ID, page[0].ID)
}
