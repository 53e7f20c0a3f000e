package repositories_test

import (
	"testing"

	"lapak/internal/models"
	"lapak/internal/repositories"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupDB opens a fresh in-memory SQLite database per test.
func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	assert.NoError(t, err)
	assert.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.Order{},
		&models.OrderItem{},
	))
	return db
}

func seedBuyer(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	user := &models.User{
		ID:       "buyer-1",
		Username: "alice",
		Email:    "alice@example.com",
		Password: "hashed",
		Role:     models.RoleCustomer,
		Status:   models.UserStatusActive,
	}
	assert.NoError(t, db.Create(user).Error)
	return user
}

func seedProduct(t *testing.T, db *gorm.DB, id, name, price string, stock int, active bool) *models.Product {
	t.Helper()
	product := &models.Product{
		ID:       id,
		Name:     name,
		Price:    decimal.RequireFromString(price),
		Stock:    stock,
		IsActive: active,
	}
	assert.NoError(t, db.Create(product).Error)
	return product
}

func TestGORMOrderRepository_Place(t *testing.T) {
	db := setupDB(t)
	buyer := seedBuyer(t, db)
	seedProduct(t, db, "prod-1", "Laptop", "100.00", 5, true)
	repo := repositories.NewGORMOrderRepository(db)

	order := &models.Order{
		UserID:          buyer.ID,
		ShippingAddress: "Jl. Merdeka 1",
		PaymentDeadline: 7,
		CreatedByRole:   models.RoleCustomer,
		Items:           []models.OrderItem{{ProductID: "prod-1", Quantity: 3}},
	}
	assert.NoError(t, repo.Place(order))
	assert.NotEmpty(t, order.ID)
	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.True(t, order.TotalAmount.Equal(decimal.RequireFromString("300.00")))
	assert.True(t, order.Items[0].Price.Equal(decimal.RequireFromString("100.00")))

	var product models.Product
	assert.NoError(t, db.First(&product, "id = ?", "prod-1").Error)
	assert.Equal(t, 2, product.Stock)

	stored, err := repo.GetByID(order.ID)
	assert.NoError(t, err)
	assert.Len(t, stored.Items, 1)
	assert.True(t, stored.TotalAmount.Equal(decimal.RequireFromString("300.00")))
	assert.NotNil(t, stored.Items[0].Product)
	assert.Equal(t, "Laptop", stored.Items[0].Product.Name)

	// A second 3-unit order no longer fits into the remaining stock of 2.
	second := &models.Order{
		UserID:          buyer.ID,
		ShippingAddress: "Jl. Merdeka 1",
		Items:           []models.OrderItem{{ProductID: "prod-1", Quantity: 3}},
	}
	err = repo.Place(second)
	var stockErr *repositories.InsufficientStockError
	assert.ErrorAs(t, err, &stockErr)
	assert.Equal(t, "Laptop", stockErr.Name)
	assert.Equal(t, 3, stockErr.Requested)
	assert.Equal(t, 2, stockErr.Available)

	assert.NoError(t, db.First(&product, "id = ?", "prod-1").Error)
	assert.Equal(t, 2, product.Stock)
}

func TestGORMOrderRepository_Place_RollsBackCompletely(t *testing.T) {
	db := setupDB(t)
	buyer := seedBuyer(t, db)
	seedProduct(t, db, "prod-1", "Laptop", "100.00", 5, true)
	seedProduct(t, db, "prod-2", "Monitor", "75.50", 1, true)
	repo := repositories.NewGORMOrderRepository(db)

	// The first line fits, the second oversells. Nothing may persist.
	order := &models.Order{
		UserID:          buyer.ID,
		ShippingAddress: "Jl. Merdeka 1",
		Items: []models.OrderItem{
			{ProductID: "prod-1", Quantity: 2},
			{ProductID: "prod-2", Quantity: 4},
		},
	}
	err := repo.Place(order)
	var stockErr *repositories.InsufficientStockError
	assert.ErrorAs(t, err, &stockErr)
	assert.Equal(t, "Monitor", stockErr.Name)

	var orderCount, itemCount int64
	assert.NoError(t, db.Model(&models.Order{}).Count(&orderCount).Error)
	assert.NoError(t, db.Model(&models.OrderItem{}).Count(&itemCount).Error)
	assert.Zero(t, orderCount)
	assert.Zero(t, itemCount)

	var laptop models.Product
	assert.NoError(t, db.First(&laptop, "id = ?", "prod-1").Error)
	assert.Equal(t, 5, laptop.Stock, "partial decrement must be rolled back")
}

func TestGORMOrderRepository_Place_InactiveProduct(t *testing.T) {
	db := setupDB(t)
	buyer := seedBuyer(t, db)
	seedProduct(t, db, "prod-1", "Laptop", "100.00", 5, false)
	repo := repositories.NewGORMOrderRepository(db)

	order := &models.Order{
		UserID:          buyer.ID,
		ShippingAddress: "Jl. Merdeka 1",
		Items:           []models.OrderItem{{ProductID: "prod-1", Quantity: 1}},
	}
	err := repo.Place(order)
	var inactiveErr *repositories.ProductInactiveError
	assert.ErrorAs(t, err, &inactiveErr)

	var orderCount int64
	assert.NoError(t, db.Model(&models.Order{}).Count(&orderCount).Error)
	assert.Zero(t, orderCount)
}

func TestGORMOrderRepository_Place_UnknownProduct(t *testing.T) {
	db := setupDB(t)
	buyer := seedBuyer(t, db)
	repo := repositories.NewGORMOrderRepository(db)

	order := &models.Order{
		UserID:          buyer.ID,
		ShippingAddress: "Jl. Merdeka 1",
		Items:           []models.OrderItem{{ProductID: "ghost", Quantity: 1}},
	}
	err := repo.Place(order)
	var notFound *repositories.ProductNotFoundError
	assert.ErrorAs(t, err, &notFound)
	assert.Equal(t, "ghost", notFound.ProductID)
}

func TestGORMOrderRepository_SnapshotPriceSurvivesCatalogEdits(t *testing.T) {
	db := setupDB(t)
	buyer := seedBuyer(t, db)
	seedProduct(t, db, "prod-1", "Laptop", "100.00", 5, true)
	repo := repositories.NewGORMOrderRepository(db)

	order := &models.Order{
		UserID:          buyer.ID,
		ShippingAddress: "Jl. Merdeka 1",
		Items:           []models.OrderItem{{ProductID: "prod-1", Quantity: 2}},
	}
	assert.NoError(t, repo.Place(order))

	// Raise the catalog price after placement.
	assert.NoError(t, db.Model(&models.Product{}).Where("id = ?", "prod-1").
		Update("price", decimal.RequireFromString("150.00")).Error)

	stored, err := repo.GetByID(order.ID)
	assert.NoError(t, err)
	assert.True(t, stored.Items[0].Price.Equal(decimal.RequireFromString("100.00")),
		"line price is snapshotted at order creation")
	assert.True(t, stored.TotalAmount.Equal(decimal.RequireFromString("200.00")),
		"total is never recomputed from the live catalog")
}

func TestGORMOrderRepository_GetAllFiltersAndUpdateStatus(t *testing.T) {
	db := setupDB(t)
	buyer := seedBuyer(t, db)
	other := &models.User{
		ID: "buyer-2", Username: "bob", Email: "bob@example.com",
		Password: "hashed", Role: models.RoleCustomer, Status: models.UserStatusActive,
	}
	assert.NoError(t, db.Create(other).Error)
	seedProduct(t, db, "prod-1", "Laptop", "100.00", 10, true)
	repo := repositories.NewGORMOrderRepository(db)

	for _, userID := range []string{buyer.ID, other.ID} {
		order := &models.Order{
			UserID:          userID,
			ShippingAddress: "Jl. Merdeka 1",
			Items:           []models.OrderItem{{ProductID: "prod-1", Quantity: 1}},
		}
		assert.NoError(t, repo.Place(order))
	}

	mine, err := repo.GetAll(repositories.OrderFilter{UserID: buyer.ID})
	assert.NoError(t, err)
	assert.Len(t, mine, 1)
	assert.Equal(t, buyer.ID, mine[0].UserID)

	all, err := repo.GetAll(repositories.OrderFilter{})
	assert.NoError(t, err)
	assert.Len(t, all, 2)

	assert.NoError(t, repo.UpdateStatus(mine[0].ID, models.OrderStatusAccepted))
	accepted, err := repo.GetAll(repositories.OrderFilter{Status: models.OrderStatusAccepted})
	assert.NoError(t, err)
	assert.Len(t, accepted, 1)
	assert.Equal(t, mine[0].ID, accepted[0].ID)

	err = repo.UpdateStatus("ghost", models.OrderStatusRejected)
	var notFound *repositories.OrderNotFoundError
	assert.ErrorAs(t, err, &notFound)
	assert.Equal(t, "ghost", notFound.OrderID)
}

func TestGORMProductRepository_LowStockAndStats(t *testing.T) {
	db := setupDB(t)
	seedProduct(t, db, "prod-1", "Laptop", "100.00", 50, true)
	seedProduct(t, db, "prod-2", "Mouse", "15.00", 3, true)
	seedProduct(t, db, "prod-3", "Cable", "5.00", 0, true)
	seedProduct(t, db, "prod-4", "Floppy", "1.00", 0, false)
	repo := repositories.NewGORMProductRepository(db)

	short, err := repo.LowStock(10)
	assert.NoError(t, err)
	// Retired products never show up, lowest stock first.
	assert.Len(t, short, 2)
	assert.Equal(t, "Cable", short[0].Name)
	assert.Equal(t, "Mouse", short[1].Name)

	stats, err := repo.Stats(10)
	assert.NoError(t, err)
	assert.Equal(t, int64(3), stats.TotalProducts)
	assert.Equal(t, int64(2), stats.LowStock)
	assert.Equal(t, int64(1), stats.OutOfStock)
}
