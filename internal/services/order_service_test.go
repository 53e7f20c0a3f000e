package services_test

import (
	"fmt"
	"sync"
	"testing"

	"lapak/internal/models"
	"lapak/internal/repositories"
	"lapak/internal/services"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockOrderRepository is a mock implementation of repositories.OrderRepository
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) GetAll(filter repositories.OrderFilter) ([]models.Order, error) {
	args := m.Called(filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Order), args.Error(1)
}

func (m *MockOrderRepository) GetByID(id string) (*models.Order, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

func (m *MockOrderRepository) Place(order *models.Order) error {
	args := m.Called(order)
	return args.Error(0)
}

func (m *MockOrderRepository) UpdateStatus(id string, status models.OrderStatus) error {
	args := m.Called(id, status)
	return args.Error(0)
}

// MockCartRepository is a mock implementation of repositories.CartRepository
type MockCartRepository struct {
	mock.Mock
}

func (m *MockCartRepository) GetOrCreateByUserID(userID string) (*models.Cart, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Cart), args.Error(1)
}

func (m *MockCartRepository) AddItem(cartID, productID string, quantity int) error {
	args := m.Called(cartID, productID, quantity)
	return args.Error(0)
}

func (m *MockCartRepository) UpdateItemQuantity(cartID, productID string, quantity int) error {
	args := m.Called(cartID, productID, quantity)
	return args.Error(0)
}

func (m *MockCartRepository) RemoveItem(cartID, productID string) error {
	args := m.Called(cartID, productID)
	return args.Error(0)
}

func (m *MockCartRepository) Clear(userID string) error {
	args := m.Called(userID)
	return args.Error(0)
}

// MockAssignmentRepository is a mock implementation of repositories.AssignmentRepository
type MockAssignmentRepository struct {
	mock.Mock
}

func (m *MockAssignmentRepository) Create(assignment *models.EmployeeCustomerAssignment) error {
	args := m.Called(assignment)
	return args.Error(0)
}

func (m *MockAssignmentRepository) Delete(employeeID, customerID string) error {
	args := m.Called(employeeID, customerID)
	return args.Error(0)
}

func (m *MockAssignmentRepository) ListByEmployee(employeeID string) ([]models.EmployeeCustomerAssignment, error) {
	args := m.Called(employeeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.EmployeeCustomerAssignment), args.Error(1)
}

func (m *MockAssignmentRepository) ListAll() ([]models.EmployeeCustomerAssignment, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.EmployeeCustomerAssignment), args.Error(1)
}

func (m *MockAssignmentRepository) Exists(employeeID, customerID string) (bool, error) {
	args := m.Called(employeeID, customerID)
	return args.Bool(0), args.Error(1)
}

// MockPublisher is a mock implementation of services.OrderEventPublisher
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) PublishOrderEvent(eventType string, payload interface{}) error {
	args := m.Called(eventType, payload)
	return args.Error(0)
}

type orderServiceFixture struct {
	orderRepo   *MockOrderRepository
	productRepo *MockProductRepository
	userRepo    *MockUserRepository
	assignRepo  *MockAssignmentRepository
	cartRepo    *MockCartRepository
	publisher   *MockPublisher
	service     *services.OrderService
}

func newOrderServiceFixture() *orderServiceFixture {
	f := &orderServiceFixture{
		orderRepo:   new(MockOrderRepository),
		productRepo: new(MockProductRepository),
		userRepo:    new(MockUserRepository),
		assignRepo:  new(MockAssignmentRepository),
		cartRepo:    new(MockCartRepository),
		publisher:   new(MockPublisher),
	}
	f.service = services.NewOrderService(f.orderRepo, f.productRepo, f.userRepo, f.assignRepo, f.cartRepo, f.publisher)
	return f
}

func testCustomer() *models.User {
	return &models.User{ID: "cust-1", Username: "alice", Role: models.RoleCustomer, Status: models.UserStatusActive}
}

func testProduct() *models.Product {
	return &models.Product{
		ID:       "prod-1",
		Name:     "Laptop",
		Price:    decimal.RequireFromString("100.00"),
		Stock:    5,
		IsActive: true,
	}
}

func TestOrderService_PlaceOrder_EmptyItems(t *testing.T) {
	f := newOrderServiceFixture()
	f.userRepo.On("GetByID", "cust-1").Return(testCustomer(), nil)

	_, err := f.service.PlaceOrder("cust-1", services.PlaceOrderInput{
		ShippingAddress: "Jl. Merdeka 1",
	})

	var vErr *services.ValidationError
	assert.ErrorAs(t, err, &vErr)
	assert.Equal(t, "items", vErr.Field)
	f.orderRepo.AssertNotCalled(t, "Place", mock.Anything)
}

func TestOrderService_PlaceOrder_InvalidQuantity(t *testing.T) {
	f := newOrderServiceFixture()
	f.userRepo.On("GetByID", "cust-1").Return(testCustomer(), nil)

	_, err := f.service.PlaceOrder("cust-1", services.PlaceOrderInput{
		ShippingAddress: "Jl. Merdeka 1",
		Items:           []services.OrderLineInput{{ProductID: "prod-1", Quantity: 0}},
	})

	var vErr *services.ValidationError
	assert.ErrorAs(t, err, &vErr)
	assert.Equal(t, "items", vErr.Field)
}

func TestOrderService_PlaceOrder_DeadlineOutOfRange(t *testing.T) {
	f := newOrderServiceFixture()
	f.userRepo.On("GetByID", "cust-1").Return(testCustomer(), nil)

	_, err := f.service.PlaceOrder("cust-1", services.PlaceOrderInput{
		ShippingAddress: "Jl. Merdeka 1",
		PaymentDeadline: 31,
		Items:           []services.OrderLineInput{{ProductID: "prod-1", Quantity: 1}},
	})

	var vErr *services.ValidationError
	assert.ErrorAs(t, err, &vErr)
	assert.Equal(t, "payment_deadline", vErr.Field)
}

func TestOrderService_PlaceOrder_UnknownProduct(t *testing.T) {
	f := newOrderServiceFixture()
	f.userRepo.On("GetByID", "cust-1").Return(testCustomer(), nil)
	f.productRepo.On("GetByID", "ghost").Return(nil, &repositories.ProductNotFoundError{ProductID: "ghost"})

	_, err := f.service.PlaceOrder("cust-1", services.PlaceOrderInput{
		ShippingAddress: "Jl. Merdeka 1",
		Items:           []services.OrderLineInput{{ProductID: "ghost", Quantity: 1}},
	})

	var vErr *services.ValidationError
	assert.ErrorAs(t, err, &vErr)
	assert.Contains(t, vErr.Message, "ghost")
	f.orderRepo.AssertNotCalled(t, "Place", mock.Anything)
}

func TestOrderService_PlaceOrder_InactiveProduct(t *testing.T) {
	f := newOrderServiceFixture()
	product := testProduct()
	product.IsActive = false
	f.userRepo.On("GetByID", "cust-1").Return(testCustomer(), nil)
	f.productRepo.On("GetByID", "prod-1").Return(product, nil)

	_, err := f.service.PlaceOrder("cust-1", services.PlaceOrderInput{
		ShippingAddress: "Jl. Merdeka 1",
		Items:           []services.OrderLineInput{{ProductID: "prod-1", Quantity: 1}},
	})

	var vErr *services.ValidationError
	assert.ErrorAs(t, err, &vErr)
	assert.Contains(t, vErr.Message, "Laptop")
}

func TestOrderService_PlaceOrder_CustomerCannotTargetOthers(t *testing.T) {
	f := newOrderServiceFixture()
	f.userRepo.On("GetByID", "cust-1").Return(testCustomer(), nil)

	_, err := f.service.PlaceOrder("cust-1", services.PlaceOrderInput{
		TargetUserID:    "cust-2",
		ShippingAddress: "Jl. Merdeka 1",
		Items:           []services.OrderLineInput{{ProductID: "prod-1", Quantity: 1}},
	})

	var pErr *services.PermissionError
	assert.ErrorAs(t, err, &pErr)
	f.orderRepo.AssertNotCalled(t, "Place", mock.Anything)
}

func TestOrderService_PlaceOrder_EmployeeUnassignedCustomer(t *testing.T) {
	f := newOrderServiceFixture()
	employee := &models.User{ID: "emp-1", Username: "bob", Role: models.RoleEmployee, Status: models.UserStatusActive}
	lat := decimal.RequireFromString("-6.200000")
	lon := decimal.RequireFromString("106.816666")

	f.userRepo.On("GetByID", "emp-1").Return(employee, nil)
	f.userRepo.On("GetByID", "cust-1").Return(testCustomer(), nil)
	f.assignRepo.On("Exists", "emp-1", "cust-1").Return(false, nil)

	_, err := f.service.PlaceOrder("emp-1", services.PlaceOrderInput{
		TargetUserID:        "cust-1",
		ShippingAddress:     "Jl. Merdeka 1",
		Items:               []services.OrderLineInput{{ProductID: "prod-1", Quantity: 1}},
		LocationState:       "Jakarta",
		LocationDisplayName: "Jakarta, Indonesia",
		LocationLatitude:    &lat,
		LocationLongitude:   &lon,
	})

	var pErr *services.PermissionError
	assert.ErrorAs(t, err, &pErr)
	assert.Contains(t, pErr.Message, "alice")
	f.orderRepo.AssertNotCalled(t, "Place", mock.Anything)
}

func TestOrderService_PlaceOrder_StaffRequiresLocation(t *testing.T) {
	f := newOrderServiceFixture()
	manager := &models.User{ID: "mgr-1", Username: "carol", Role: models.RoleManager, Status: models.UserStatusActive}
	f.userRepo.On("GetByID", "mgr-1").Return(manager, nil)

	_, err := f.service.PlaceOrder("mgr-1", services.PlaceOrderInput{
		ShippingAddress: "Jl. Merdeka 1",
		Items:           []services.OrderLineInput{{ProductID: "prod-1", Quantity: 1}},
	})

	var vErr *services.ValidationError
	assert.ErrorAs(t, err, &vErr)
	assert.Equal(t, "location", vErr.Field)
}

func TestOrderService_PlaceOrder_Success(t *testing.T) {
	f := newOrderServiceFixture()
	f.userRepo.On("GetByID", "cust-1").Return(testCustomer(), nil)
	f.productRepo.On("GetByID", "prod-1").Return(testProduct(), nil)

	f.orderRepo.On("Place", mock.AnythingOfType("*models.Order")).Run(func(args mock.Arguments) {
		// Simulate what the placement transaction fills in.
		order := args.Get(0).(*models.Order)
		order.ID = "order-1"
		order.Status = models.OrderStatusPending
		for i := range order.Items {
			order.Items[i].Price = decimal.RequireFromString("100.00")
		}
		order.TotalAmount = models.ComputeTotal(order.Items)
	}).Return(nil).Once()
	reloaded := &models.Order{
		ID:              "order-1",
		UserID:          "cust-1",
		Status:          models.OrderStatusPending,
		PaymentDeadline: 7,
		TotalAmount:     decimal.RequireFromString("300.00"),
		Items: []models.OrderItem{{
			OrderID:   "order-1",
			ProductID: "prod-1",
			Quantity:  3,
			Price:     decimal.RequireFromString("100.00"),
			Product:   testProduct(),
		}},
	}
	f.orderRepo.On("GetByID", "order-1").Return(reloaded, nil).Once()
	f.cartRepo.On("Clear", "cust-1").Return(nil).Once()
	f.publisher.On("PublishOrderEvent", "order.created", mock.Anything).Return(nil).Once()

	order, err := f.service.PlaceOrder("cust-1", services.PlaceOrderInput{
		ShippingAddress: "Jl. Merdeka 1",
		Items:           []services.OrderLineInput{{ProductID: "prod-1", Quantity: 3}},
	})

	assert.NoError(t, err)
	assert.Equal(t, "order-1", order.ID)
	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.Equal(t, 7, order.PaymentDeadline) // default applied
	assert.True(t, order.TotalAmount.Equal(decimal.RequireFromString("300.00")))
	// The returned order carries the detailed items, not the bare rows the
	// transaction wrote.
	assert.Len(t, order.Items, 1)
	assert.NotNil(t, order.Items[0].Product)
	assert.Equal(t, "Laptop", order.Items[0].Product.Name)
	f.orderRepo.AssertExpectations(t)
	f.cartRepo.AssertExpectations(t)
	f.publisher.AssertExpectations(t)
}

func TestOrderService_PlaceOrder_CartClearFailureDoesNotFailOrder(t *testing.T) {
	f := newOrderServiceFixture()
	f.userRepo.On("GetByID", "cust-1").Return(testCustomer(), nil)
	f.productRepo.On("GetByID", "prod-1").Return(testProduct(), nil)
	f.orderRepo.On("Place", mock.AnythingOfType("*models.Order")).Run(func(args mock.Arguments) {
		args.Get(0).(*models.Order).ID = "order-1"
	}).Return(nil).Once()
	f.orderRepo.On("GetByID", "order-1").Return(&models.Order{ID: "order-1", Status: models.OrderStatusPending}, nil).Once()
	f.cartRepo.On("Clear", "cust-1").Return(fmt.Errorf("cart table unavailable")).Once()
	f.publisher.On("PublishOrderEvent", "order.created", mock.Anything).Return(nil).Once()

	order, err := f.service.PlaceOrder("cust-1", services.PlaceOrderInput{
		ShippingAddress: "Jl. Merdeka 1",
		Items:           []services.OrderLineInput{{ProductID: "prod-1", Quantity: 1}},
	})

	assert.NoError(t, err)
	assert.NotNil(t, order)
	f.cartRepo.AssertExpectations(t)
}

func TestOrderService_PlaceOrder_InsufficientStockPassthrough(t *testing.T) {
	f := newOrderServiceFixture()
	f.userRepo.On("GetByID", "cust-1").Return(testCustomer(), nil)
	f.productRepo.On("GetByID", "prod-1").Return(testProduct(), nil)
	stockErr := &repositories.InsufficientStockError{
		ProductID: "prod-1", Name: "Laptop", Requested: 9, Available: 5,
	}
	f.orderRepo.On("Place", mock.AnythingOfType("*models.Order")).Return(stockErr).Once()

	_, err := f.service.PlaceOrder("cust-1", services.PlaceOrderInput{
		ShippingAddress: "Jl. Merdeka 1",
		Items:           []services.OrderLineInput{{ProductID: "prod-1", Quantity: 9}},
	})

	var got *repositories.InsufficientStockError
	assert.ErrorAs(t, err, &got)
	assert.Equal(t, 5, got.Available)
	f.cartRepo.AssertNotCalled(t, "Clear", mock.Anything)
	f.publisher.AssertNotCalled(t, "PublishOrderEvent", mock.Anything, mock.Anything)
}

func TestOrderService_AcceptOrder(t *testing.T) {
	f := newOrderServiceFixture()
	manager := &models.User{ID: "mgr-1", Role: models.RoleManager, Status: models.UserStatusActive}
	f.userRepo.On("GetByID", "mgr-1").Return(manager, nil)
	f.userRepo.On("GetByID", "cust-1").Return(testCustomer(), nil)

	pending := &models.Order{ID: "order-1", UserID: "cust-1", Status: models.OrderStatusPending}
	f.orderRepo.On("GetByID", "order-1").Return(pending, nil).Once()
	f.orderRepo.On("UpdateStatus", "order-1", models.OrderStatusAccepted).Return(nil).Once()
	f.publisher.On("PublishOrderEvent", "order.accepted", mock.Anything).Return(nil).Once()

	order, err := f.service.AcceptOrder("mgr-1", "order-1")
	assert.NoError(t, err)
	assert.Equal(t, models.OrderStatusAccepted, order.Status)
	f.orderRepo.AssertExpectations(t)

	// Non-managers may not transition orders.
	_, err = f.service.AcceptOrder("cust-1", "order-1")
	var pErr *services.PermissionError
	assert.ErrorAs(t, err, &pErr)

	// Terminal orders stay terminal.
	accepted := &models.Order{ID: "order-2", Status: models.OrderStatusAccepted}
	f.orderRepo.On("GetByID", "order-2").Return(accepted, nil).Once()
	_, err = f.service.RejectOrder("mgr-1", "order-2")
	var vErr *services.ValidationError
	assert.ErrorAs(t, err, &vErr)
}

func TestOrderService_ListOrders_ScopedByRole(t *testing.T) {
	f := newOrderServiceFixture()
	f.userRepo.On("GetByID", "cust-1").Return(testCustomer(), nil)
	manager := &models.User{ID: "mgr-1", Role: models.RoleManager, Status: models.UserStatusActive}
	f.userRepo.On("GetByID", "mgr-1").Return(manager, nil)

	// Customers are forced onto their own orders.
	f.orderRepo.On("GetAll", repositories.OrderFilter{UserID: "cust-1"}).Return([]models.Order{}, nil).Once()
	_, err := f.service.ListOrders("cust-1", repositories.OrderFilter{})
	assert.NoError(t, err)

	// Managers see everything.
	f.orderRepo.On("GetAll", repositories.OrderFilter{}).Return([]models.Order{}, nil).Once()
	_, err = f.service.ListOrders("mgr-1", repositories.OrderFilter{})
	assert.NoError(t, err)

	f.orderRepo.AssertExpectations(t)
}

// TestOrderService_ConcurrentPlacement races two checkouts for the same
// scarce product through the in-memory repositories, which serialize Place
// the same way the database row lock does. Combined quantity exceeds stock,
// so exactly one order may win and stock must never go negative.
func TestOrderService_ConcurrentPlacement(t *testing.T) {
	products := repositories.NewMockProductRepository()
	orders := repositories.NewMockOrderRepository(products)
	users := repositories.NewMockUserRepository()
	assignments := repositories.NewMockAssignmentRepository()
	carts := repositories.NewMockCartRepository()

	product := testProduct() // stock 5
	assert.NoError(t, products.Create(product))

	buyers := []*models.User{
		{ID: "cust-1", Username: "alice", Role: models.RoleCustomer, Status: models.UserStatusActive},
		{ID: "cust-2", Username: "bob", Role: models.RoleCustomer, Status: models.UserStatusActive},
	}
	for _, u := range buyers {
		assert.NoError(t, users.Create(u))
	}

	service := services.NewOrderService(orders, products, users, assignments, carts, nil)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, buyer := range buyers {
		wg.Add(1)
		go func(i int, buyerID string) {
			defer wg.Done()
			_, errs[i] = service.PlaceOrder(buyerID, services.PlaceOrderInput{
				ShippingAddress: "Jl. Merdeka 1",
				Items:           []services.OrderLineInput{{ProductID: product.ID, Quantity: 3}},
			})
		}(i, buyer.ID)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else {
			var stockErr *repositories.InsufficientStockError
			assert.ErrorAs(t, err, &stockErr)
			assert.Equal(t, "Laptop", stockErr.Name)
		}
	}
	assert.Equal(t, 1, succeeded, "exactly one of the two 3-unit orders fits into stock 5")

	remaining, err := products.GetByID(product.ID)
	assert.NoError(t, err)
	assert.Equal(t, 2, remaining.Stock)
	assert.GreaterOrEqual(t, remaining.Stock, 0, "stock must never go negative")

	placed, err := orders.GetAll(repositories.OrderFilter{})
	assert.NoError(t, err)
	assert.Len(t, placed, 1)
	assert.True(t, placed[0].TotalAmount.Equal(decimal.RequireFromString("300.00")))
}
