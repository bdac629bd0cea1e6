package purchasing

import (
	"context"
	"sync"
	"testing"

	"github.com/erp/platform/internal/domain/purchasing"
	"github.com/erp/platform/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// orderStore keeps committed orders by value so each read is a snapshot
type orderStore struct {
	purchasing.PurchaseOrderRepository

	mu   sync.Mutex
	rows map[uuid.UUID]purchasing.PurchaseOrder
}

func (st *orderStore) FindByIDForTenant(_ context.Context, tenantID, id uuid.UUID) (*purchasing.PurchaseOrder, error) {
	st.mu.Lock()
	defer st.mu.Unlock()
	row, ok := st.rows[id]
	if !ok || row.TenantID != tenantID {
		return nil, shared.ErrNotFound
	}
	row.Items = append([]purchasing.PurchaseOrderItem(nil), row.Items...)
	return &row, nil
}

func (st *orderStore) FindByIDForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*purchasing.PurchaseOrder, error) {
	return st.FindByIDForTenant(ctx, tenantID, id)
}

func (st *orderStore) Save(_ context.Context, po *purchasing.PurchaseOrder) error {
	st.mu.Lock()
	defer st.mu.Unlock()
	row := *po
	row.Items = append([]purchasing.PurchaseOrderItem(nil), po.Items...)
	row.ClearDomainEvents()
	st.rows[po.ID] = row
	return nil
}

// serialScope runs one transaction at a time, as the order row lock does
type serialScope struct {
	lock   sync.Mutex
	orders *orderStore
}

func (s *serialScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	s.lock.Lock()
	defer s.lock.Unlock()
	return fn(s)
}

func (s *serialScope) Suppliers() purchasing.SupplierRepository                     { return nil }
func (s *serialScope) PurchaseOrders() purchasing.PurchaseOrderRepository           { return s.orders }
func (s *serialScope) ProcurementRequests() purchasing.ProcurementRequestRepository { return nil }
func (s *serialScope) Performance() purchasing.SupplierPerformanceRepository        { return nil }

func newSerialOrderService(t *testing.T, po *purchasing.PurchaseOrder) (*PurchaseOrderService, *orderStore) {
	t.Helper()
	store := &orderStore{rows: make(map[uuid.UUID]purchasing.PurchaseOrder)}
	require.NoError(t, store.Save(context.Background(), po))
	scope := &serialScope{orders: store}
	return NewPurchaseOrderService(scope, store, nil, zap.NewNop()), store
}

func TestPurchaseOrderService_ConcurrentApprovalsApproveOnce(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	po := newPendingOrder(t, tenantID)
	svc, store := newSerialOrderService(t, po)

	const approvers = 8
	var wg sync.WaitGroup
	errs := make([]error, approvers)
	approverIDs := make([]uuid.UUID, approvers)
	for i := range errs {
		approverIDs[i] = uuid.New()
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Approve(ctx, tenantID, approverIDs[i], po.ID)
		}(i)
	}
	wg.Wait()

	var winner uuid.UUID
	succeeded := 0
	for i, err := range errs {
		if err == nil {
			succeeded++
			winner = approverIDs[i]
			continue
		}
		assert.True(t, shared.HasCode(err, "INVALID_STATE"), "unexpected error: %v", err)
	}
	assert.Equal(t, 1, succeeded)

	stored, err := store.FindByIDForTenant(ctx, tenantID, po.ID)
	require.NoError(t, err)
	assert.Equal(t, purchasing.PurchaseOrderStatusApproved, stored.Status)
	require.NotNil(t, stored.ApprovedBy)
	assert.Equal(t, winner, *stored.ApprovedBy)
}

func TestPurchaseOrderService_CancelAfterReceiptKeepsReceivedQuantities(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	po := newPendingOrder(t, tenantID)
	require.NoError(t, po.Approve(uuid.New()))
	svc, store := newSerialOrderService(t, po)

	// a reader saw the order with nothing received
	_, err := svc.GetByID(ctx, tenantID, po.ID)
	require.NoError(t, err)
	_, err = svc.Receive(ctx, tenantID, po.ID, ReceiveGoodsRequest{Items: []ReceiptLineInput{
		{ItemID: po.Items[0].ID, Quantity: dec(4)},
	}})
	require.NoError(t, err)

	_, err = svc.Cancel(ctx, tenantID, po.ID)
	assert.True(t, shared.HasCode(err, "INVALID_STATE"))

	stored, err := store.FindByIDForTenant(ctx, tenantID, po.ID)
	require.NoError(t, err)
	assert.Equal(t, purchasing.PurchaseOrderStatusPartiallyReceived, stored.Status)
	assert.True(t, stored.Items[0].ReceivedQuantity.Equal(dec(4)))
}
