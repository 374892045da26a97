package repository

import (
	"context"
	"testing"
	"time"

	"luxe-backoffice/internal/model"
	"luxe-backoffice/internal/query"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedCustomer(t *testing.T, pool *pgxpool.Pool, email, first, last string) model.Customer {
	t.Helper()
	repo := NewCustomerRepository(pool, zerolog.Nop())
	c := model.Customer{Email: email, FirstName: first, LastName: last, Country: "Uganda"}
	require.NoError(t, inTx(t, repo, func(tx pgx.Tx) error {
		return repo.Create(context.Background(), tx, &c)
	}))
	return c
}

// seedOrder creates an order with one line per product at the given unit prices.
func seedOrder(t *testing.T, pool *pgxpool.Pool, customerID int64, lines map[int64]string) model.Order {
	t.Helper()
	ctx := context.Background()
	repo := NewOrderRepository(pool, zerolog.Nop())

	o := model.Order{
		OrderNumber:   model.NewOrderNumber(uuid.NewString()),
		CustomerID:    customerID,
		Status:        model.OrderPending,
		PaymentStatus: model.PaymentPending,
	}
	for productID, price := range lines {
		o.Items = append(o.Items, model.OrderItem{ProductID: productID, Quantity: 1, Price: decimal.RequireFromString(price)})
	}
	o.RecalculateTotal()

	require.NoError(t, inTx(t, repo, func(tx pgx.Tx) error {
		if err := repo.CreateOrder(ctx, tx, &o); err != nil {
			return err
		}
		for i := range o.Items {
			o.Items[i].OrderID = o.ID
		}
		return repo.CreateOrderItems(ctx, tx, o.Items)
	}))
	return o
}

func TestCustomerRepository_CRUD(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	repo := NewCustomerRepository(pool, zerolog.Nop())

	jane := seedCustomer(t, pool, "jane@example.com", "Jane", "Doe")
	seedCustomer(t, pool, "john@example.com", "John", "Smith")

	got, err := repo.GetByID(ctx, jane.ID)
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", got.FullName())

	customers, total, err := repo.List(ctx, parse(t, query.Customers, "search=doe"))
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, customers, 1)
	assert.Equal(t, "jane@example.com", customers[0].Email)

	dup := model.Customer{Email: "jane@example.com", FirstName: "Other", LastName: "Jane"}
	err = inTx(t, repo, func(tx pgx.Tx) error { return repo.Create(ctx, tx, &dup) })
	de, ok := model.AsDomainError(err)
	require.True(t, ok)
	assert.Contains(t, de.Fields, "email")

	err = inTx(t, repo, func(tx pgx.Tx) error {
		c, err := repo.LockByID(ctx, tx, jane.ID)
		if err != nil {
			return err
		}
		c.City = "Kampala"
		return repo.Update(ctx, tx, c)
	})
	require.NoError(t, err)

	got, err = repo.GetByID(ctx, jane.ID)
	require.NoError(t, err)
	assert.Equal(t, "Kampala", got.City)
}

func TestOrderRepository_CreateAndGet(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	repo := NewOrderRepository(pool, zerolog.Nop())

	cat := seedCategory(t, pool, "Women", "women")
	a := seedProduct(t, pool, cat.ID, "Silk Scarf", "10.00", model.StatusPublished)
	b := seedProduct(t, pool, cat.ID, "Leather Belt", "15.00", model.StatusPublished)
	jane := seedCustomer(t, pool, "jane@example.com", "Jane", "Doe")

	o := seedOrder(t, pool, jane.ID, map[int64]string{a.ID: "10.00", b.ID: "15.00"})
	assert.NotZero(t, o.ID)
	assert.Regexp(t, `^ORD-[0-9A-F]{8}$`, o.OrderNumber)

	got, err := repo.GetByID(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", got.CustomerName())
	assert.True(t, got.TotalAmount.Equal(decimal.RequireFromString("25.00")))
	require.Len(t, got.Items, 2)
	assert.NotEmpty(t, got.Items[0].ProductName)

	tx, err := repo.BeginTx(ctx)
	require.NoError(t, err)
	defer tx.Rollback(ctx)

	total, err := repo.ItemsTotal(ctx, tx, o.ID)
	require.NoError(t, err)
	assert.True(t, total.Equal(decimal.RequireFromString("25")))

	_, err = repo.GetByID(ctx, 9999)
	assert.True(t, model.IsCode(err, model.ErrCodeNotFound))
}

func TestOrderRepository_CreateOrderItems_UnknownProduct(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	repo := NewOrderRepository(pool, zerolog.Nop())
	jane := seedCustomer(t, pool, "jane@example.com", "Jane", "Doe")

	err := inTx(t, repo, func(tx pgx.Tx) error {
		o := model.Order{OrderNumber: "ORD-TEST0001", CustomerID: jane.ID, Status: model.OrderPending, PaymentStatus: model.PaymentPending}
		if err := repo.CreateOrder(ctx, tx, &o); err != nil {
			return err
		}
		return repo.CreateOrderItems(ctx, tx, []model.OrderItem{
			{OrderID: o.ID, ProductID: 9999, Quantity: 1, Price: decimal.NewFromInt(1)},
		})
	})
	require.Error(t, err)
	de, ok := model.AsDomainError(err)
	require.True(t, ok)
	assert.Contains(t, de.Fields, "items")
}

func TestOrderRepository_UpdateAndList(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	repo := NewOrderRepository(pool, zerolog.Nop())

	cat := seedCategory(t, pool, "Women", "women")
	a := seedProduct(t, pool, cat.ID, "Silk Scarf", "10.00", model.StatusPublished)
	jane := seedCustomer(t, pool, "jane@example.com", "Jane", "Doe")
	john := seedCustomer(t, pool, "john@example.com", "John", "Smith")
	first := seedOrder(t, pool, jane.ID, map[int64]string{a.ID: "10.00"})
	seedOrder(t, pool, john.ID, map[int64]string{a.ID: "10.00"})

	now := time.Now()
	err := inTx(t, repo, func(tx pgx.Tx) error {
		o, err := repo.LockByID(ctx, tx, first.ID)
		if err != nil {
			return err
		}
		if err := o.MoveTo(model.OrderProcessing, now); err != nil {
			return err
		}
		if err := o.MoveTo(model.OrderShipped, now); err != nil {
			return err
		}
		return repo.UpdateOrder(ctx, tx, o)
	})
	require.NoError(t, err)

	orders, total, err := repo.List(ctx, parse(t, query.Orders, "status=shipped"))
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, orders, 1)
	assert.Equal(t, first.ID, orders[0].ID)
	assert.NotNil(t, orders[0].ShippedAt)
	assert.Len(t, orders[0].Items, 1)

	orders, total, err = repo.List(ctx, parse(t, query.Orders, "search=smith"))
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, "John Smith", orders[0].CustomerName())
}

func TestOrderRepository_DeletePolicies(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	orders := NewOrderRepository(pool, zerolog.Nop())
	customers := NewCustomerRepository(pool, zerolog.Nop())
	products := NewProductRepository(pool, zerolog.Nop())
	deliveries := NewDeliveryRepository(pool, zerolog.Nop())

	cat := seedCategory(t, pool, "Women", "women")
	a := seedProduct(t, pool, cat.ID, "Silk Scarf", "10.00", model.StatusPublished)
	jane := seedCustomer(t, pool, "jane@example.com", "Jane", "Doe")
	o := seedOrder(t, pool, jane.ID, map[int64]string{a.ID: "10.00"})

	d := model.Delivery{OrderID: o.ID, Status: model.DeliveryPending}
	require.NoError(t, inTx(t, deliveries, func(tx pgx.Tx) error { return deliveries.Create(ctx, tx, &d) }))

	// customer with orders is protected
	err := inTx(t, customers, func(tx pgx.Tx) error { return customers.Delete(ctx, tx, jane.ID) })
	assert.True(t, model.IsCode(err, model.ErrCodeConflict))

	// product referenced by an order item is protected
	err = inTx(t, products, func(tx pgx.Tx) error { return products.Delete(ctx, tx, a.ID) })
	assert.True(t, model.IsCode(err, model.ErrCodeConflict))

	// deleting the order cascades to items and delivery
	require.NoError(t, inTx(t, orders, func(tx pgx.Tx) error { return orders.Delete(ctx, tx, o.ID) }))

	_, err = deliveries.GetByID(ctx, d.ID)
	assert.True(t, model.IsCode(err, model.ErrCodeNotFound))

	var items int
	require.NoError(t, pool.QueryRow(ctx, "SELECT COUNT(*) FROM order_items WHERE order_id = $1", o.ID).Scan(&items))
	assert.Zero(t, items)

	require.NoError(t, inTx(t, customers, func(tx pgx.Tx) error { return customers.Delete(ctx, tx, jane.ID) }))
}

func TestDeliveryRepository_CRUD(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	repo := NewDeliveryRepository(pool, zerolog.Nop())

	cat := seedCategory(t, pool, "Women", "women")
	a := seedProduct(t, pool, cat.ID, "Silk Scarf", "10.00", model.StatusPublished)
	jane := seedCustomer(t, pool, "jane@example.com", "Jane", "Doe")
	o := seedOrder(t, pool, jane.ID, map[int64]string{a.ID: "10.00"})

	eta := time.Now().Add(72 * time.Hour).UTC().Truncate(time.Second)
	d := model.Delivery{OrderID: o.ID, DeliveryService: "DHL", TrackingNumber: "TRK-1", Status: model.DeliveryInTransit, EstimatedDelivery: &eta}
	require.NoError(t, inTx(t, repo, func(tx pgx.Tx) error { return repo.Create(ctx, tx, &d) }))

	// one delivery per order
	second := model.Delivery{OrderID: o.ID, Status: model.DeliveryPending}
	err := inTx(t, repo, func(tx pgx.Tx) error { return repo.Create(ctx, tx, &second) })
	de, ok := model.AsDomainError(err)
	require.True(t, ok)
	assert.Contains(t, de.Fields, "order")

	got, err := repo.GetByID(ctx, d.ID)
	require.NoError(t, err)
	assert.Equal(t, o.OrderNumber, got.OrderNumber)
	assert.Equal(t, "Jane Doe", got.CustomerName())
	require.NotNil(t, got.EstimatedDelivery)
	assert.True(t, eta.Equal(*got.EstimatedDelivery))
	assert.Nil(t, got.ActualDelivery)

	err = inTx(t, repo, func(tx pgx.Tx) error {
		locked, err := repo.LockByID(ctx, tx, d.ID)
		if err != nil {
			return err
		}
		status := string(model.DeliveryDelivered)
		(&model.DeliveryInput{Status: &status}).Apply(locked, time.Now())
		return repo.Update(ctx, tx, locked)
	})
	require.NoError(t, err)

	deliveries, total, err := repo.List(ctx, parse(t, query.Deliveries, "status=delivered&search="+o.OrderNumber))
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, deliveries, 1)
	assert.NotNil(t, deliveries[0].ActualDelivery)
}
