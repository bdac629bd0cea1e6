package finance

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/erp/platform/internal/domain/finance"
	"github.com/erp/platform/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// invoiceStore keeps committed invoice rows by value, so every read is an
// independent snapshot the way a database read is
type invoiceStore struct {
	finance.InvoiceRepository

	mu   sync.Mutex
	rows map[uuid.UUID]finance.Invoice
	// afterCandidateRead runs once the overdue candidates are read
	afterCandidateRead func()
}

func newInvoiceStore(invoices ...*finance.Invoice) *invoiceStore {
	st := &invoiceStore{rows: make(map[uuid.UUID]finance.Invoice)}
	for _, inv := range invoices {
		_ = st.Save(context.Background(), inv)
	}
	return st
}

func (st *invoiceStore) FindByIDForTenant(_ context.Context, tenantID, id uuid.UUID) (*finance.Invoice, error) {
	st.mu.Lock()
	defer st.mu.Unlock()
	row, ok := st.rows[id]
	if !ok || row.TenantID != tenantID {
		return nil, shared.ErrNotFound
	}
	row.Items = append([]finance.InvoiceItem(nil), row.Items...)
	return &row, nil
}

func (st *invoiceStore) FindByIDForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*finance.Invoice, error) {
	return st.FindByIDForTenant(ctx, tenantID, id)
}

func (st *invoiceStore) FindOverdueCandidates(_ context.Context, tenantID uuid.UUID, asOf time.Time) ([]finance.Invoice, error) {
	st.mu.Lock()
	var out []finance.Invoice
	for _, row := range st.rows {
		if row.TenantID == tenantID && row.IsOverdue(asOf) {
			row.Items = append([]finance.InvoiceItem(nil), row.Items...)
			out = append(out, row)
		}
	}
	st.mu.Unlock()
	if st.afterCandidateRead != nil {
		st.afterCandidateRead()
	}
	return out, nil
}

func (st *invoiceStore) Save(_ context.Context, inv *finance.Invoice) error {
	st.mu.Lock()
	defer st.mu.Unlock()
	row := *inv
	row.Items = append([]finance.InvoiceItem(nil), inv.Items...)
	row.ClearDomainEvents()
	st.rows[inv.ID] = row
	return nil
}

func (st *invoiceStore) stored(t *testing.T, id uuid.UUID) finance.Invoice {
	t.Helper()
	st.mu.Lock()
	defer st.mu.Unlock()
	row, ok := st.rows[id]
	require.True(t, ok)
	return row
}

type paymentStore struct {
	finance.PaymentRepository

	mu    sync.Mutex
	saved []finance.Payment
}

func (ps *paymentStore) GeneratePaymentNumber(context.Context, uuid.UUID) (string, error) {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	return fmt.Sprintf("PAY-2024-%05d", len(ps.saved)+1), nil
}

func (ps *paymentStore) Save(_ context.Context, p *finance.Payment) error {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	ps.saved = append(ps.saved, *p)
	return nil
}

// serialScope runs one transaction at a time, which is what the invoice row
// lock guarantees for writers of the same invoice
type serialScope struct {
	lock     sync.Mutex
	invoices *invoiceStore
	payments *paymentStore
}

func (s *serialScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	s.lock.Lock()
	defer s.lock.Unlock()
	return fn(s)
}

func (s *serialScope) Invoices() finance.InvoiceRepository { return s.invoices }
func (s *serialScope) Payments() finance.PaymentRepository { return s.payments }
func (s *serialScope) Budgets() finance.BudgetRepository   { return nil }

type lockingFixture struct {
	store    *invoiceStore
	invoices *InvoiceService
	payments *PaymentService
	invoice  *finance.Invoice
}

func newLockingFixture(t *testing.T, tenantID uuid.UUID) *lockingFixture {
	t.Helper()
	inv := newDraftInvoice(t, tenantID)
	require.NoError(t, inv.Send(uuid.New()))

	store := newInvoiceStore(inv)
	scope := &serialScope{invoices: store, payments: &paymentStore{}}
	invoices := NewInvoiceService(scope, store, nil, nil, nil, zap.NewNop())
	now := time.Date(2024, 2, 15, 0, 0, 0, 0, time.UTC)
	invoices.now = func() time.Time { return now }

	return &lockingFixture{
		store:    store,
		invoices: invoices,
		payments: NewPaymentService(scope, scope.payments, zap.NewNop()),
		invoice:  inv,
	}
}

func TestInvoiceService_MarkOverdueKeepsPaymentCommittedAfterCandidateRead(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	f := newLockingFixture(t, tenantID)

	f.store.afterCandidateRead = func() {
		_, err := f.payments.Record(ctx, tenantID, uuid.New(), RecordPaymentRequest{
			InvoiceID: f.invoice.ID, Amount: decimal.NewFromInt(40), Method: "cash",
		})
		require.NoError(t, err)
	}

	result, err := f.invoices.MarkOverdue(ctx, tenantID)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Updated)

	row := f.store.stored(t, f.invoice.ID)
	assert.True(t, decimal.NewFromInt(40).Equal(row.PaidAmount), "paid_amount=%s", row.PaidAmount)
	assert.Equal(t, finance.InvoiceStatusOverdue, row.Status)
}

func TestInvoiceService_CancelRejectsInvoicePaidSinceRead(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	f := newLockingFixture(t, tenantID)

	// a reader saw the invoice unpaid before this payment committed
	_, err := f.invoices.GetByID(ctx, tenantID, f.invoice.ID)
	require.NoError(t, err)
	_, err = f.payments.Record(ctx, tenantID, uuid.New(), RecordPaymentRequest{
		InvoiceID: f.invoice.ID, Amount: decimal.NewFromInt(10), Method: "cash",
	})
	require.NoError(t, err)

	_, err = f.invoices.Cancel(ctx, tenantID, uuid.New(), f.invoice.ID)

	assert.True(t, shared.HasCode(err, "INVALID_STATE"))
	row := f.store.stored(t, f.invoice.ID)
	assert.Equal(t, finance.InvoiceStatusPartiallyPaid, row.Status)
	assert.True(t, decimal.NewFromInt(10).Equal(row.PaidAmount))
}

func TestInvoiceService_ConcurrentPaymentsAndOverdueRuns(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	f := newLockingFixture(t, tenantID)

	const payments = 20
	var wg sync.WaitGroup
	errs := make(chan error, 2*payments)
	for i := 0; i < payments; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, err := f.payments.Record(ctx, tenantID, uuid.New(), RecordPaymentRequest{
				InvoiceID: f.invoice.ID, Amount: decimal.NewFromInt(1), Method: "bank_transfer",
			})
			errs <- err
		}()
		go func() {
			defer wg.Done()
			_, err := f.invoices.MarkOverdue(ctx, tenantID)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	row := f.store.stored(t, f.invoice.ID)
	assert.True(t, decimal.NewFromInt(payments).Equal(row.PaidAmount), "paid_amount=%s", row.PaidAmount)
	assert.Contains(t, []finance.InvoiceStatus{finance.InvoiceStatusPartiallyPaid, finance.InvoiceStatusOverdue}, row.Status)
}
