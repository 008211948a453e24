package admin

import (
	"context"
	"errors"
	"testing"
	"time"

	"materiaux-bot/internal/order"
	"materiaux-bot/internal/session"
	"materiaux-bot/internal/user"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const operatorChatID = int64(777)

type MockOrderService struct {
	mock.Mock
}

func (m *MockOrderService) Finalize(ctx context.Context, sess *session.Session) (*order.Order, error) {
	args := m.Called(ctx, sess)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderService) ListRecent(ctx context.Context, limit int) ([]order.Order, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]order.Order), args.Error(1)
}

func (m *MockOrderService) Detail(ctx context.Context, orderID int64) (*order.Order, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderService) SetStatus(ctx context.Context, orderID int64, token string) (*order.Order, error) {
	args := m.Called(ctx, orderID, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Upsert(ctx context.Context, u user.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id int64) (*user.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) StatusChanged(ctx context.Context, o *order.Order) {
	m.Called(ctx, o)
}

type fixture struct {
	orders   *MockOrderService
	users    *MockUserRepository
	notifier *MockNotifier
	handler  *Handler
}

func newFixture() *fixture {
	f := &fixture{
		orders:   new(MockOrderService),
		users:    new(MockUserRepository),
		notifier: new(MockNotifier),
	}
	f.handler = NewHandler(operatorChatID, f.orders, f.users, f.notifier)
	return f
}

func sampleOrder() *order.Order {
	return &order.Order{
		ID:           3,
		UserID:       42,
		Status:       order.Status("EN_COURS"),
		Total:        70000,
		DeliveryType: session.DeliveryExpress,
		Address:      "Lot II A Antananarivo",
		Phone:        "0341234567",
		CreatedAt:    time.Date(2025, 6, 1, 10, 30, 0, 0, time.UTC),
		Items: []order.Item{
			{ProductName: "Ciment (sac 50kg)", Unit: "sac", Quantity: 2, UnitPrice: 25000},
		},
	}
}

func TestHandler_IgnoresNonOperator(t *testing.T) {
	f := newFixture()

	reply := f.handler.Handle(context.Background(), 12345, "/list_orders")

	assert.Nil(t, reply)
	f.orders.AssertNotCalled(t, "ListRecent", mock.Anything, mock.Anything)
}

func TestHandler_IgnoresMalformedCommands(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	for _, text := range []string{
		"",
		"hello",
		"/view_order",
		"/view_order abc",
		"/view_order 1 extra",
		"/set_status 3",
		"/set_status xyz LIVRÉ",
		"/unknown_command",
	} {
		assert.Nil(t, f.handler.Handle(ctx, operatorChatID, text), "text=%q", text)
	}
}

func TestHandler_ListOrders(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	f.orders.On("ListRecent", ctx, 10).Return([]order.Order{*sampleOrder()}, nil)

	reply := f.handler.Handle(ctx, operatorChatID, "/list_orders")

	require.NotNil(t, reply)
	assert.True(t, reply.Markdown)
	assert.Contains(t, reply.Text, "*Commandes récentes:*")
	assert.Contains(t, reply.Text, "#3 — EN_COURS — 70000 Ar — 2025-06-01 10:30")
	f.orders.AssertExpectations(t)
}

func TestHandler_ListOrders_Empty(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	f.orders.On("ListRecent", ctx, 10).Return([]order.Order{}, nil)

	reply := f.handler.Handle(ctx, operatorChatID, "/list_orders")

	require.NotNil(t, reply)
	assert.Equal(t, "Aucune commande.", reply.Text)
}

func TestHandler_ViewOrder(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	f.orders.On("Detail", ctx, int64(3)).Return(sampleOrder(), nil)
	f.users.On("FindByID", ctx, int64(42)).Return(&user.User{ID: 42, Name: "Hery"}, nil)

	reply := f.handler.Handle(ctx, operatorChatID, "/view_order 3")

	require.NotNil(t, reply)
	assert.True(t, reply.Markdown)
	assert.Contains(t, reply.Text, "*Commande #3* — EN_COURS")
	assert.Contains(t, reply.Text, "Client: Hery (42)")
	assert.Contains(t, reply.Text, "- Ciment (sac 50kg): 2 sac x 25000 = 50000 Ar")
	assert.Contains(t, reply.Text, "*Total: 70000 Ar*")
	assert.Contains(t, reply.Text, "Utilise /set_status <id> STATUS (EN_COURS|LIVRÉ|ANNULÉ)")
}

func TestHandler_ViewOrder_UnknownCustomerFallsBackToID(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	f.orders.On("Detail", ctx, int64(3)).Return(sampleOrder(), nil)
	f.users.On("FindByID", ctx, int64(42)).Return(nil, errors.New("db down"))

	reply := f.handler.Handle(ctx, operatorChatID, "/view_order 3")

	require.NotNil(t, reply)
	assert.Contains(t, reply.Text, "Client: 42")
}

func TestHandler_ViewOrder_NotFound(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	f.orders.On("Detail", ctx, int64(99)).Return(nil, order.ErrOrderNotFound)

	reply := f.handler.Handle(ctx, operatorChatID, "/view_order 99")

	require.NotNil(t, reply)
	assert.Equal(t, "Commande introuvable.", reply.Text)
}

func TestHandler_SetStatus(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	updated := sampleOrder()
	updated.Status = order.Status("LIVRÉ")
	f.orders.On("SetStatus", ctx, int64(3), "livré").Return(updated, nil)
	f.notifier.On("StatusChanged", ctx, updated).Return()

	reply := f.handler.Handle(ctx, operatorChatID, "/set_status 3 livré")

	require.NotNil(t, reply)
	assert.Equal(t, "Commande #3 mise à jour: LIVRÉ", reply.Text)
	f.notifier.AssertExpectations(t)
}

func TestHandler_SetStatus_NotFound(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	f.orders.On("SetStatus", ctx, int64(99), "LIVRÉ").Return(nil, order.ErrOrderNotFound)

	reply := f.handler.Handle(ctx, operatorChatID, "/set_status 99 LIVRÉ")

	require.NotNil(t, reply)
	assert.Equal(t, "Commande introuvable.", reply.Text)
	f.notifier.AssertNotCalled(t, "StatusChanged", mock.Anything, mock.Anything)
}
