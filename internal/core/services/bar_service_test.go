package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bbarni2020/Event-Pyramide/internal/adapter/repository/memory"
	"github.com/bbarni2020/Event-Pyramide/internal/core/domain"
	"github.com/bbarni2020/Event-Pyramide/internal/core/services"
)

func newBarService(store *memory.Store) *services.BarService {
	return services.NewBarService(testLogger(), store.Attendees(), store.Inventory(), store.Sales())
}

func TestRecordSale_ComputesTotalsAndDepletesStock(t *testing.T) {
	store := newTestStore()
	store.AddAttendee(domain.Attendee{ID: 7, Username: "bartender", Role: domain.RoleBartender})
	store.AddItem(domain.InventoryItem{ID: 1, Name: "Beer", UnitPrice: 7.50, Quantity: 10, Available: true})

	svc := newBarService(store)

	sale, err := svc.RecordSale(context.Background(), services.RecordSaleRequest{
		OperatorID:      7,
		Lines:           []services.SaleLine{{ItemID: 1, Quantity: 2}},
		DiscountPercent: 20,
		DeclaredGross:   15.00,
		DeclaredNet:     12.00,
	})
	require.NoError(t, err)

	assert.Equal(t, 15.00, sale.GrossAmount)
	assert.Equal(t, 12.00, sale.NetAmount)

	item, err := store.Inventory().GetItem(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 8, item.Quantity)

	sum, err := store.Sales().SumNetByOperator(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, 12.00, sum)
}

func TestRecordSale_OversellFloorsAtZero(t *testing.T) {
	store := newTestStore()
	store.AddAttendee(domain.Attendee{ID: 7, Username: "bartender", Role: domain.RoleBartender})
	store.AddItem(domain.InventoryItem{ID: 1, Name: "Beer", UnitPrice: 2.00, Quantity: 5, Available: true})

	svc := newBarService(store)

	_, err := svc.RecordSale(context.Background(), services.RecordSaleRequest{
		OperatorID:    7,
		Lines:         []services.SaleLine{{ItemID: 1, Quantity: 8}},
		DeclaredGross: 16.00,
		DeclaredNet:   16.00,
	})
	require.NoError(t, err)

	item, err := store.Inventory().GetItem(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 0, item.Quantity, "stock truncates at zero, never negative")
}

func TestRecordSale_DeclaredTotalMismatchRejected(t *testing.T) {
	store := newTestStore()
	store.AddAttendee(domain.Attendee{ID: 7, Username: "bartender", Role: domain.RoleBartender})
	store.AddItem(domain.InventoryItem{ID: 1, Name: "Beer", UnitPrice: 7.50, Quantity: 10, Available: true})

	svc := newBarService(store)

	_, err := svc.RecordSale(context.Background(), services.RecordSaleRequest{
		OperatorID:    7,
		Lines:         []services.SaleLine{{ItemID: 1, Quantity: 2}},
		DeclaredGross: 9.99,
		DeclaredNet:   9.99,
	})
	assert.ErrorIs(t, err, domain.ErrValidation)

	// Nothing was mutated.
	item, err := store.Inventory().GetItem(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 10, item.Quantity)

	sum, err := store.Sales().SumNetByOperator(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, 0.0, sum)
}

func TestRecordSale_UnknownItemRejectedBeforeMutation(t *testing.T) {
	store := newTestStore()
	store.AddAttendee(domain.Attendee{ID: 7, Username: "bartender", Role: domain.RoleBartender})
	store.AddItem(domain.InventoryItem{ID: 1, Name: "Beer", UnitPrice: 2.00, Quantity: 5, Available: true})

	svc := newBarService(store)

	_, err := svc.RecordSale(context.Background(), services.RecordSaleRequest{
		OperatorID: 7,
		Lines: []services.SaleLine{
			{ItemID: 1, Quantity: 1},
			{ItemID: 404, Quantity: 1},
		},
		DeclaredGross: 2.00,
		DeclaredNet:   2.00,
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	item, err := store.Inventory().GetItem(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 5, item.Quantity)
}

func TestRecordSale_Validation(t *testing.T) {
	store := newTestStore()
	store.AddAttendee(domain.Attendee{ID: 7, Username: "bartender", Role: domain.RoleBartender})

	svc := newBarService(store)
	ctx := context.Background()

	_, err := svc.RecordSale(ctx, services.RecordSaleRequest{OperatorID: 7})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = svc.RecordSale(ctx, services.RecordSaleRequest{
		OperatorID:      7,
		Lines:           []services.SaleLine{{ItemID: 1, Quantity: 1}},
		DiscountPercent: 120,
	})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = svc.RecordSale(ctx, services.RecordSaleRequest{
		OperatorID: 7,
		Lines:      []services.SaleLine{{ItemID: 1, Quantity: 0}},
	})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestSetStock(t *testing.T) {
	store := newTestStore()
	store.AddItem(domain.InventoryItem{ID: 1, Name: "Beer", UnitPrice: 2.00, Quantity: 0, Available: true})
	store.AddAttendee(domain.Attendee{ID: 7, Username: "bartender", Role: domain.RoleBartender})

	svc := newBarService(store)
	ctx := context.Background()

	require.NoError(t, svc.SetStock(ctx, 1, 24))

	item, err := store.Inventory().GetItem(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 24, item.Quantity)

	assert.ErrorIs(t, svc.SetStock(ctx, 1, -1), domain.ErrValidation)
	assert.ErrorIs(t, svc.SetStock(ctx, 404, 5), domain.ErrNotFound)
}
