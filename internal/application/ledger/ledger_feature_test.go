package ledger_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/cucumber/godog"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/ventas-ledger/internal/application/analytics"
	"github.com/jhoicas/ventas-ledger/internal/application/dto"
	"github.com/jhoicas/ventas-ledger/internal/application/inventory"
	"github.com/jhoicas/ventas-ledger/internal/application/ledger"
	"github.com/jhoicas/ventas-ledger/internal/application/sales"
	"github.com/jhoicas/ventas-ledger/internal/domain"
	"github.com/jhoicas/ventas-ledger/internal/domain/entity"
	"github.com/jhoicas/ventas-ledger/internal/infrastructure/memory"
)

type ledgerFeatureContext struct {
	store   *memory.Store
	svc     *ledger.Service
	order   *dto.OrderResponse
	payErr  error
	orderOK int
	errs    []error
	daily   *dto.DailyStatsResponse
}

func (c *ledgerFeatureContext) reset() error {
	store, err := memory.NewStore(0)
	if err != nil {
		return err
	}
	runner := memory.NewTxRunner(store)
	engine := sales.NewPaymentEngine(runner)
	stock := inventory.NewStockLedger(runner, runner)
	*c = ledgerFeatureContext{
		store: store,
		svc: ledger.NewService(ledger.Deps{
			CreateOrder: sales.NewCreateOrderUseCase(runner, stock, engine),
			Payments:    engine,
			Orders:      sales.NewOrderQueryUseCase(runner),
			Stock:       stock,
			Reports:     analytics.NewReportUseCase(runner),
			Logger:      zerolog.Nop(),
		}, ledger.Options{}),
	}
	return nil
}

func (c *ledgerFeatureContext) aProductWithStockAndPrice(id string, stock int, price string) error {
	p, err := decimal.NewFromString(price)
	if err != nil {
		return err
	}
	return c.store.Products().Create(context.Background(), &entity.Product{
		ID: id, Name: id, Price: p, Stock: int64(stock),
	})
}

func (c *ledgerFeatureContext) createOrder(lines ...dto.OrderLineRequest) (*dto.OrderResponse, error) {
	return c.svc.CreateOrder(context.Background(), actor, dto.CreateOrderRequest{ClienteID: "cliente-1", Detalles: lines})
}

func (c *ledgerFeatureContext) anOrderForUnitsOf(qty int, id string) error {
	o, err := c.createOrder(dto.OrderLineRequest{ProductID: id, Cantidad: int64(qty)})
	if err != nil {
		return err
	}
	c.order = o
	return nil
}

func (c *ledgerFeatureContext) twoConcurrentOrders(qty int, id string) error {
	var (
		wg sync.WaitGroup
		mu sync.Mutex
	)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := c.createOrder(dto.OrderLineRequest{ProductID: id, Cantidad: int64(qty)})
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				c.orderOK++
				return
			}
			c.errs = append(c.errs, err)
		}()
	}
	wg.Wait()
	return nil
}

func (c *ledgerFeatureContext) exactlyOrdersSucceed(n int) error {
	if c.orderOK != n {
		return fmt.Errorf("esperaba %d pedidos exitosos, hubo %d", n, c.orderOK)
	}
	return nil
}

func (c *ledgerFeatureContext) theOtherOrderFailsWith(code string) error {
	if len(c.errs) != 1 {
		return fmt.Errorf("esperaba 1 fallo, hubo %d", len(c.errs))
	}
	return expectCode(c.errs[0], code)
}

func (c *ledgerFeatureContext) theStockOfIs(id string, want int) error {
	p, err := c.store.Products().GetByID(context.Background(), id)
	if err != nil {
		return err
	}
	if p == nil || p.Stock != int64(want) {
		return fmt.Errorf("stock de %s: esperaba %d, obtuvo %+v", id, want, p)
	}
	return nil
}

func (c *ledgerFeatureContext) aPaymentIsApplied(amount, code string) error {
	m, err := decimal.NewFromString(amount)
	if err != nil {
		return err
	}
	_, c.payErr = c.svc.ApplyPayment(context.Background(), actor, dto.RegisterPaymentRequest{
		PedidoID: c.order.ID, Monto: m, CuentaOrigen: "cta-1", CodigoConfirmacion: code,
	})
	return nil
}

func (c *ledgerFeatureContext) reloadOrder() (*dto.OrderResponse, error) {
	return c.svc.GetOrder(context.Background(), c.order.ID)
}

func (c *ledgerFeatureContext) theOrderEstadoIs(want string) error {
	if c.payErr != nil {
		return c.payErr
	}
	o, err := c.reloadOrder()
	if err != nil {
		return err
	}
	if o.Estado != want {
		return fmt.Errorf("estado: esperaba %s, obtuvo %s", want, o.Estado)
	}
	return nil
}

func (c *ledgerFeatureContext) theOrderTotalPagadoIs(want string) error {
	o, err := c.reloadOrder()
	if err != nil {
		return err
	}
	if o.TotalPagado != want {
		return fmt.Errorf("total_pagado: esperaba %s, obtuvo %s", want, o.TotalPagado)
	}
	return nil
}

func (c *ledgerFeatureContext) thePaymentFailsWith(code string) error {
	return expectCode(c.payErr, code)
}

func (c *ledgerFeatureContext) anOrderPaidImmediately(qty int, id, amount, code string) error {
	m, err := decimal.NewFromString(amount)
	if err != nil {
		return err
	}
	o, err := c.svc.CreateOrder(context.Background(), actor, dto.CreateOrderRequest{
		ClienteID:     "cliente-1",
		Detalles:      []dto.OrderLineRequest{{ProductID: id, Cantidad: int64(qty)}},
		PagoInmediato: true,
		Pago:          &dto.PaymentInfoRequest{Monto: m, CuentaOrigen: "cta-1", CodigoConfirmacion: code},
	})
	if err != nil {
		return err
	}
	c.order = o
	return nil
}

func (c *ledgerFeatureContext) theOrderHasPayments(n int) error {
	list, err := c.svc.ListPayments(context.Background(), c.order.ID)
	if err != nil {
		return err
	}
	if len(list) != n {
		return fmt.Errorf("pagos: esperaba %d, obtuvo %d", n, len(list))
	}
	return nil
}

func (c *ledgerFeatureContext) anOrderRequestsTwoProducts(qa int, a string, qb int, b string) error {
	_, err := c.createOrder(
		dto.OrderLineRequest{ProductID: a, Cantidad: int64(qa)},
		dto.OrderLineRequest{ProductID: b, Cantidad: int64(qb)},
	)
	if err != nil {
		c.errs = append(c.errs, err)
	}
	return nil
}

func (c *ledgerFeatureContext) theOrderFailsWith(code string) error {
	if len(c.errs) == 0 {
		return fmt.Errorf("el pedido no falló")
	}
	return expectCode(c.errs[len(c.errs)-1], code)
}

func (c *ledgerFeatureContext) theDailyStatsAreRequested() error {
	var err error
	c.daily, err = c.svc.GetDailyStats(context.Background(), time.Time{})
	return err
}

func (c *ledgerFeatureContext) theReportShows(total, paid, pending int) error {
	d := c.daily
	if d.TotalOrders != total || d.PaidOrders != paid || d.PendingOrders != pending {
		return fmt.Errorf("reporte: %+v", d)
	}
	return nil
}

func (c *ledgerFeatureContext) theReportTotals(total, collected string) error {
	if c.daily.TotalSales != total || c.daily.TotalCollected != collected {
		return fmt.Errorf("totales: ventas %s, cobrado %s", c.daily.TotalSales, c.daily.TotalCollected)
	}
	return nil
}

func (c *ledgerFeatureContext) thePendingSummaryIs(count int, amount string) error {
	p, err := c.svc.GetPendingSummary(context.Background())
	if err != nil {
		return err
	}
	if p.Count != count || p.TotalAmount != amount {
		return fmt.Errorf("pendientes: %+v", p)
	}
	return nil
}

func expectCode(err error, code string) error {
	if err == nil {
		return fmt.Errorf("esperaba error %s, no hubo error", code)
	}
	if got := domain.ErrorCode(err); got != code {
		return fmt.Errorf("esperaba %s, obtuvo %s (%v)", code, got, err)
	}
	return nil
}

func InitializeScenario(ctx *godog.ScenarioContext) {
	tc := &ledgerFeatureContext{}

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		return ctx, tc.reset()
	})

	// Given
	ctx.Step(`^a product "([^"]*)" with stock (\d+) and price "([^"]*)"$`, tc.aProductWithStockAndPrice)
	ctx.Step(`^an order for (\d+) units? of "([^"]*)"$`, tc.anOrderForUnitsOf)
	ctx.Step(`^a payment of "([^"]*)" with code "([^"]*)" is applied$`, tc.aPaymentIsApplied)

	// When
	ctx.Step(`^two concurrent orders each request (\d+) units of "([^"]*)"$`, tc.twoConcurrentOrders)
	ctx.Step(`^an order for (\d+) units of "([^"]*)" is paid immediately with "([^"]*)" and code "([^"]*)"$`, tc.anOrderPaidImmediately)
	ctx.Step(`^an order requests (\d+) units of "([^"]*)" and (\d+) units of "([^"]*)"$`, tc.anOrderRequestsTwoProducts)
	ctx.Step(`^the daily stats are requested$`, tc.theDailyStatsAreRequested)

	// Then
	ctx.Step(`^exactly (\d+) order succeeds$`, tc.exactlyOrdersSucceed)
	ctx.Step(`^the other order fails with "([^"]*)"$`, tc.theOtherOrderFailsWith)
	ctx.Step(`^the stock of "([^"]*)" is (\d+)$`, tc.theStockOfIs)
	ctx.Step(`^the order estado is "([^"]*)"$`, tc.theOrderEstadoIs)
	ctx.Step(`^the order total_pagado is "([^"]*)"$`, tc.theOrderTotalPagadoIs)
	ctx.Step(`^the payment fails with "([^"]*)"$`, tc.thePaymentFailsWith)
	ctx.Step(`^the order has (\d+) payments?$`, tc.theOrderHasPayments)
	ctx.Step(`^the order fails with "([^"]*)"$`, tc.theOrderFailsWith)
	ctx.Step(`^the report shows (\d+) orders, (\d+) paid and (\d+) pending$`, tc.theReportShows)
	ctx.Step(`^the report total_sales is "([^"]*)" and total_collected is "([^"]*)"$`, tc.theReportTotals)
	ctx.Step(`^the pending summary is (\d+) order owing "([^"]*)"$`, tc.thePendingSummaryIs)
}

func TestFeatures(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: InitializeScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"../../../features/ledger.feature"},
			TestingT: t,
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}
