package sales

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"caixa/internal/core/apperror"
	"caixa/internal/core/id"
	"caixa/internal/core/numerator"
	"caixa/internal/core/types"
	"caixa/internal/domain"
	"caixa/internal/domain/catalog/product"
	"caixa/internal/domain/stock"
)

// --- Test fakes ---

// fakeTxManager runs the function directly; rollback is simulated by the
// stores below, which only mutate state that the test inspects afterwards.
type fakeTxManager struct{}

func (fakeTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeProductStore struct {
	stock map[id.ID]types.Quantity
}

func newFakeProductStore() *fakeProductStore {
	return &fakeProductStore{stock: make(map[id.ID]types.Quantity)}
}

func (f *fakeProductStore) GetStock(ctx context.Context, productID id.ID) (types.Quantity, error) {
	return f.stock[productID], nil
}

func (f *fakeProductStore) DecrementStock(ctx context.Context, productID id.ID, qty types.Quantity) (bool, error) {
	if f.stock[productID] < qty {
		return false, nil
	}
	f.stock[productID] -= qty
	return true, nil
}

func (f *fakeProductStore) IncrementStock(ctx context.Context, productID id.ID, qty types.Quantity) error {
	f.stock[productID] += qty
	return nil
}

type fakeSaleRepo struct {
	sales    map[id.ID]*Sale
	lines    map[id.ID][]SaleLine
	payments map[id.ID][]SalePayment
}

func newFakeSaleRepo() *fakeSaleRepo {
	return &fakeSaleRepo{
		sales:    make(map[id.ID]*Sale),
		lines:    make(map[id.ID][]SaleLine),
		payments: make(map[id.ID][]SalePayment),
	}
}

func (f *fakeSaleRepo) Create(ctx context.Context, sale *Sale) error {
	copied := *sale
	f.sales[sale.ID] = &copied
	return nil
}

func (f *fakeSaleRepo) SaveLines(ctx context.Context, saleID id.ID, lines []SaleLine) error {
	f.lines[saleID] = lines
	return nil
}

func (f *fakeSaleRepo) SavePayments(ctx context.Context, saleID id.ID, payments []SalePayment) error {
	f.payments[saleID] = payments
	return nil
}

func (f *fakeSaleRepo) GetByID(ctx context.Context, saleID id.ID) (*Sale, error) {
	sale, ok := f.sales[saleID]
	if !ok {
		return nil, apperror.NewNotFound("sale", saleID.String())
	}
	copied := *sale
	return &copied, nil
}

func (f *fakeSaleRepo) GetByNumber(ctx context.Context, number string) (*Sale, error) {
	for _, sale := range f.sales {
		if sale.Number == number {
			copied := *sale
			return &copied, nil
		}
	}
	return nil, apperror.NewNotFound("sale", number)
}

func (f *fakeSaleRepo) GetLines(ctx context.Context, saleID id.ID) ([]SaleLine, error) {
	return f.lines[saleID], nil
}

func (f *fakeSaleRepo) GetPayments(ctx context.Context, saleID id.ID) ([]SalePayment, error) {
	return f.payments[saleID], nil
}

func (f *fakeSaleRepo) UpdateStatus(ctx context.Context, saleID id.ID, status Status, version int) error {
	sale, ok := f.sales[saleID]
	if !ok {
		return apperror.NewNotFound("sale", saleID.String())
	}
	if sale.Version != version {
		return apperror.NewConcurrentModification("sale", saleID.String())
	}
	sale.Status = status
	sale.Version++
	return nil
}

func (f *fakeSaleRepo) List(ctx context.Context, filter ListFilter) (domain.ListResult[*Sale], error) {
	result := domain.ListResult[*Sale]{}
	for _, sale := range f.sales {
		result.Items = append(result.Items, sale)
	}
	result.TotalCount = int64(len(result.Items))
	return result, nil
}

type fakeMovementRecorder struct {
	recorded []stock.Movement
}

func (f *fakeMovementRecorder) CreateMovements(ctx context.Context, movements []stock.Movement) error {
	f.recorded = append(f.recorded, movements...)
	return nil
}

// failingSaleRepo wraps the fake repo and fails selected child writes.
type failingSaleRepo struct {
	*fakeSaleRepo
	failLines    bool
	failPayments bool
}

func (f *failingSaleRepo) SaveLines(ctx context.Context, saleID id.ID, lines []SaleLine) error {
	if f.failLines {
		return errors.New("lines insert failed")
	}
	return f.fakeSaleRepo.SaveLines(ctx, saleID, lines)
}

func (f *failingSaleRepo) SavePayments(ctx context.Context, saleID id.ID, payments []SalePayment) error {
	if f.failPayments {
		return errors.New("payments insert failed")
	}
	return f.fakeSaleRepo.SavePayments(ctx, saleID, payments)
}

type failingMovementRecorder struct{}

func (failingMovementRecorder) CreateMovements(ctx context.Context, movements []stock.Movement) error {
	return errors.New("movements insert failed")
}

type checkoutFixture struct {
	coordinator *Coordinator
	saleRepo    *fakeSaleRepo
	products    *fakeProductStore
	movements   *fakeMovementRecorder
}

func newCheckoutFixture() *checkoutFixture {
	saleRepo := newFakeSaleRepo()
	products := newFakeProductStore()
	movements := &fakeMovementRecorder{}

	coordinator := NewCoordinator(saleRepo, products, movements, nil, fakeTxManager{}, &numerator.MockGenerator{})
	return &checkoutFixture{
		coordinator: coordinator,
		saleRepo:    saleRepo,
		products:    products,
		movements:   movements,
	}
}

// --- Tests ---

func TestCheckout_EmptyCart(t *testing.T) {
	fx := newCheckoutFixture()

	_, err := fx.coordinator.Checkout(context.Background(), CheckoutInput{
		Cart:     NewCart(),
		Payments: NewPaymentLedger(),
	})

	require.Error(t, err)
	assert.True(t, apperror.HasCode(err, apperror.CodeEmptyCart))
}

func TestCheckout_EndToEnd(t *testing.T) {
	fx := newCheckoutFixture()
	rice := newTestProduct("Rice", "8.90")
	fx.products.stock[rice.ID] = 10 * types.One

	cart := NewCart()
	cart.AddOrIncrement(rice, 2*types.One)

	ledger := NewPaymentLedger()
	require.NoError(t, ledger.AddPayment(MethodCash, types.MustMoney("17.80")))

	sale, err := fx.coordinator.Checkout(context.Background(), CheckoutInput{
		Cart:     cart,
		Payments: ledger,
	})
	require.NoError(t, err)

	assert.Equal(t, StatusCompleted, sale.Status)
	assert.True(t, sale.Total.Equal(types.MustMoney("17.80")))
	assert.True(t, sale.TotalFees.IsZero())
	assert.NotEmpty(t, sale.Number)

	// Persisted aggregate
	require.Len(t, fx.saleRepo.lines[sale.ID], 1)
	require.Len(t, fx.saleRepo.payments[sale.ID], 1)

	// One outbound movement per line, linked to the sale
	require.Len(t, fx.movements.recorded, 1)
	m := fx.movements.recorded[0]
	assert.Equal(t, stock.TypeOut, m.Type)
	assert.Equal(t, stock.ReasonSale, m.Reason)
	assert.Equal(t, 2*types.One, m.Quantity)
	require.NotNil(t, m.SaleID)
	assert.Equal(t, sale.ID, *m.SaleID)

	// Stock decreased by exactly the sold quantity
	assert.Equal(t, 8*types.One, fx.products.stock[rice.ID])

	// Success clears both ledgers
	assert.True(t, cart.IsEmpty())
	assert.Empty(t, ledger.Payments())
}

func TestCheckout_PaymentMismatch(t *testing.T) {
	fx := newCheckoutFixture()
	rice := newTestProduct("Rice", "8.90")
	fx.products.stock[rice.ID] = 10 * types.One

	// Credit payment covering the bare total but not the 3% fee
	cart := NewCart()
	cart.AddOrIncrement(newTestProduct("Coffee", "100.00"), types.One)
	coffee := cart.Lines()[0].ProductID
	fx.products.stock[coffee] = 10 * types.One

	ledger := NewPaymentLedger()
	require.NoError(t, ledger.AddPayment(MethodCredit, types.MustMoney("100.00")))

	_, err := fx.coordinator.Checkout(context.Background(), CheckoutInput{
		Cart:     cart,
		Payments: ledger,
	})
	require.Error(t, err)
	assert.True(t, apperror.HasCode(err, apperror.CodePaymentMismatch))

	// Failed validation leaves the ledgers untouched
	assert.Equal(t, 1, cart.ItemCount())
	assert.Len(t, ledger.Payments(), 1)
	assert.Empty(t, fx.movements.recorded)
}

func TestCheckout_TransferFeeCoveredSucceeds(t *testing.T) {
	fx := newCheckoutFixture()
	water := newTestProduct("Water", "45.00")
	fx.products.stock[water.ID] = types.One

	cart := NewCart()
	cart.AddOrIncrement(water, types.One)

	// 45.45 by instant transfer: 0.45 fee, exact match against 45.00 + 0.45
	ledger := NewPaymentLedger()
	require.NoError(t, ledger.AddPayment(MethodTransfer, types.MustMoney("45.45")))

	sale, err := fx.coordinator.Checkout(context.Background(), CheckoutInput{
		Cart:     cart,
		Payments: ledger,
	})
	require.NoError(t, err)
	assert.True(t, sale.TotalFees.Equal(types.MustMoney("0.45")))
}

func TestCheckout_StockRevalidatedAtCommit(t *testing.T) {
	fx := newCheckoutFixture()
	rice := newTestProduct("Rice", "8.90")
	fx.products.stock[rice.ID] = 5 * types.One

	cart := NewCart()
	cart.AddOrIncrement(rice, 3*types.One)

	// Concurrent sale on another terminal reduces stock after the item
	// was added to the cart.
	fx.products.stock[rice.ID] = 2 * types.One

	ledger := NewPaymentLedger()
	require.NoError(t, ledger.AddPayment(MethodCash, types.MustMoney("26.70")))

	_, err := fx.coordinator.Checkout(context.Background(), CheckoutInput{
		Cart:     cart,
		Payments: ledger,
	})
	require.Error(t, err)
	assert.True(t, apperror.IsInsufficientStock(err))

	// Nothing was decremented
	assert.Equal(t, 2*types.One, fx.products.stock[rice.ID])
	assert.Empty(t, fx.movements.recorded)
}

func TestCheckout_ValidationOrder(t *testing.T) {
	fx := newCheckoutFixture()
	rice := newTestProduct("Rice", "8.90")
	// No stock and no payments: insufficient stock must be reported
	// before payment mismatch.
	cart := NewCart()
	cart.AddOrIncrement(rice, types.One)

	_, err := fx.coordinator.Checkout(context.Background(), CheckoutInput{
		Cart:     cart,
		Payments: NewPaymentLedger(),
	})
	require.Error(t, err)
	assert.True(t, apperror.IsInsufficientStock(err))
}

func TestCheckout_DiscountAppliedBeforeMatch(t *testing.T) {
	fx := newCheckoutFixture()
	rice := newTestProduct("Rice", "8.90")
	fx.products.stock[rice.ID] = 10 * types.One

	cart := NewCart()
	cart.AddOrIncrement(rice, 2*types.One) // 17.80

	ledger := NewPaymentLedger()
	require.NoError(t, ledger.AddPayment(MethodCash, types.MustMoney("15.80")))

	sale, err := fx.coordinator.Checkout(context.Background(), CheckoutInput{
		Cart:     cart,
		Payments: ledger,
		Discount: types.MustMoney("2.00"),
	})
	require.NoError(t, err)
	assert.True(t, sale.Total.Equal(types.MustMoney("15.80")))
	assert.True(t, sale.Discount.Equal(types.MustMoney("2.00")))
}

func TestCheckout_FractionalPieceQuantityRejected(t *testing.T) {
	fx := newCheckoutFixture()
	rice := newTestProduct("Rice", "8.90")
	fx.products.stock[rice.ID] = 10 * types.One

	cart := NewCart()
	cart.AddOrIncrement(rice, types.NewQuantityFromFloat64(1.5))

	// Exact payment for 1.5 * 8.90, so the only possible failure is the
	// whole-unit rule.
	ledger := NewPaymentLedger()
	require.NoError(t, ledger.AddPayment(MethodCash, types.MustMoney("13.35")))

	_, err := fx.coordinator.Checkout(context.Background(), CheckoutInput{
		Cart:     cart,
		Payments: ledger,
	})
	require.Error(t, err)
	assert.True(t, apperror.HasCode(err, apperror.CodeValidation))

	// Nothing committed, stock untouched
	assert.Empty(t, fx.saleRepo.sales)
	assert.Empty(t, fx.movements.recorded)
	assert.Equal(t, 10*types.One, fx.products.stock[rice.ID])
}

func TestCheckout_FractionalWeighedQuantityAllowed(t *testing.T) {
	fx := newCheckoutFixture()
	cheese := product.NewProduct("PRD-Cheese", "Cheese", product.UnitKg, types.MustMoney("40.00"))
	fx.products.stock[cheese.ID] = 5 * types.One

	cart := NewCart()
	cart.AddOrIncrement(cheese, types.NewQuantityFromFloat64(0.5))

	ledger := NewPaymentLedger()
	require.NoError(t, ledger.AddPayment(MethodCash, types.MustMoney("20.00")))

	sale, err := fx.coordinator.Checkout(context.Background(), CheckoutInput{
		Cart:     cart,
		Payments: ledger,
	})
	require.NoError(t, err)
	assert.True(t, sale.Total.Equal(types.MustMoney("20.00")))
	assert.Equal(t, types.NewQuantityFromFloat64(4.5), fx.products.stock[cheese.ID])
}

func TestCheckout_ChildWriteFailureMapsToPartialFailure(t *testing.T) {
	cases := []struct {
		name         string
		failLines    bool
		failPayments bool
		failMoves    bool
	}{
		{"lines", true, false, false},
		{"payments", false, true, false},
		{"movements", false, false, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo := &failingSaleRepo{
				fakeSaleRepo: newFakeSaleRepo(),
				failLines:    tc.failLines,
				failPayments: tc.failPayments,
			}
			products := newFakeProductStore()
			var movements MovementRecorder = &fakeMovementRecorder{}
			if tc.failMoves {
				movements = failingMovementRecorder{}
			}
			coordinator := NewCoordinator(repo, products, movements, nil, fakeTxManager{}, &numerator.MockGenerator{})

			rice := newTestProduct("Rice", "8.90")
			products.stock[rice.ID] = 10 * types.One
			cart := NewCart()
			cart.AddOrIncrement(rice, types.One)
			ledger := NewPaymentLedger()
			require.NoError(t, ledger.AddPayment(MethodCash, types.MustMoney("8.90")))

			_, err := coordinator.Checkout(context.Background(), CheckoutInput{
				Cart:     cart,
				Payments: ledger,
			})
			require.Error(t, err)

			// The mapped error comes back out of the transaction callback,
			// so the surrounding transaction rolls every write back.
			assert.True(t, apperror.HasCode(err, apperror.CodeCommitPartialFailure))

			// Failure leaves the ledgers intact for retry
			assert.Equal(t, 1, cart.ItemCount())
			assert.Len(t, ledger.Payments(), 1)
		})
	}
}

func TestCancel_RestoresStockAndRecordsReturns(t *testing.T) {
	fx := newCheckoutFixture()
	rice := newTestProduct("Rice", "8.90")
	fx.products.stock[rice.ID] = 10 * types.One

	cart := NewCart()
	cart.AddOrIncrement(rice, 2*types.One)
	ledger := NewPaymentLedger()
	require.NoError(t, ledger.AddPayment(MethodCash, types.MustMoney("17.80")))

	sale, err := fx.coordinator.Checkout(context.Background(), CheckoutInput{
		Cart:     cart,
		Payments: ledger,
	})
	require.NoError(t, err)
	require.Equal(t, 8*types.One, fx.products.stock[rice.ID])

	svc := NewService(fx.saleRepo, fx.products, fx.movements, nil, fakeTxManager{})
	require.NoError(t, svc.Cancel(context.Background(), sale.ID))

	stored, err := svc.GetByID(context.Background(), sale.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, stored.Status)

	// Stock restored, compensating inbound movement recorded
	assert.Equal(t, 10*types.One, fx.products.stock[rice.ID])
	require.Len(t, fx.movements.recorded, 2)
	ret := fx.movements.recorded[1]
	assert.Equal(t, stock.TypeIn, ret.Type)
	assert.Equal(t, stock.ReasonReturn, ret.Reason)

	// A cancelled sale cannot be cancelled again
	err = svc.Cancel(context.Background(), sale.ID)
	require.Error(t, err)
	assert.True(t, apperror.HasCode(err, apperror.CodeSaleNotCancellable))
}
