package main

import (
	"github.com/Asadullah378/OmniValio-Junction2025/internal/config"
	"github.com/Asadullah378/OmniValio-Junction2025/internal/logger"
	"github.com/Asadullah378/OmniValio-Junction2025/internal/models"

	"github.com/shopspring/decimal"
)

func main() {
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		stdLog.Fatalf("Failed to connect database: %v", err)
	}

	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("Failed to migrate database: %v", err)
	}

	customers := []models.Customer{
		{Code: "CUST-1001", Name: "Ravintola Aurora", Email: "orders@aurora.example", City: "Helsinki"},
		{Code: "CUST-1002", Name: "Bistro Koli", Email: "kitchen@koli.example", City: "Joensuu"},
		{Code: "CUST-1003", Name: "Kahvila Satama", Email: "info@satama.example", City: "Turku"},
	}
	for _, customer := range customers {
		var existing models.Customer
		if err := models.DB.Where("code = ?", customer.Code).First(&existing).Error; err != nil {
			if err := models.DB.Create(&customer).Error; err != nil {
				stdLog.Printf("Failed to create customer %s: %v", customer.Code, err)
			} else {
				stdLog.Printf("Created customer: %s", customer.Code)
			}
		} else {
			stdLog.Printf("Customer already exists: %s", customer.Code)
		}
	}

	products := []models.Product{
		{Code: "MILK-1L", Name: "Whole Milk 1L", Category: "dairy", Unit: "pcs", Price: money("1.29"), Currency: "EUR", TemperatureZone: "chilled", IsActive: true},
		{Code: "MILK-1L-LACTOFREE", Name: "Lactose-Free Milk 1L", Category: "dairy", Unit: "pcs", Price: money("1.59"), Currency: "EUR", TemperatureZone: "chilled", IsActive: true},
		{Code: "BUTTER-500G", Name: "Butter 500g", Category: "dairy", Unit: "pcs", Price: money("3.49"), Currency: "EUR", TemperatureZone: "chilled", IsActive: true},
		{Code: "FLOUR-2KG", Name: "Wheat Flour 2kg", Category: "pantry", Unit: "pcs", Price: money("1.89"), Currency: "EUR", TemperatureZone: "ambient", IsActive: true},
		{Code: "RYE-BREAD", Name: "Rye Bread 500g", Category: "bakery", Unit: "pcs", Price: money("2.35"), Currency: "EUR", TemperatureZone: "ambient", IsActive: true},
		{Code: "OAT-BREAD", Name: "Oat Bread 500g", Category: "bakery", Unit: "pcs", Price: money("2.15"), Currency: "EUR", TemperatureZone: "ambient", IsActive: true},
		{Code: "CHICKEN-1KG", Name: "Chicken Fillet 1kg", Category: "meat", Unit: "kg", Price: money("9.90"), Currency: "EUR", TemperatureZone: "chilled", IsActive: true},
		{Code: "SALMON-1KG", Name: "Salmon Fillet 1kg", Category: "fish", Unit: "kg", Price: money("16.50"), Currency: "EUR", TemperatureZone: "chilled", IsActive: true},
		{Code: "POTATO-5KG", Name: "Potatoes 5kg", Category: "produce", Unit: "box", Price: money("4.25"), Currency: "EUR", TemperatureZone: "ambient", IsActive: true},
		{Code: "TOMATO-1KG", Name: "Tomatoes 1kg", Category: "produce", Unit: "kg", Price: money("2.95"), Currency: "EUR", TemperatureZone: "chilled", IsActive: true},
		{Code: "CUCUMBER-1KG", Name: "Cucumbers 1kg", Category: "produce", Unit: "kg", Price: money("2.45"), Currency: "EUR", TemperatureZone: "chilled", IsActive: true},
		{Code: "PEAS-FROZEN-1KG", Name: "Frozen Peas 1kg", Category: "frozen", Unit: "pcs", Price: money("2.79"), Currency: "EUR", TemperatureZone: "frozen", IsActive: true},
	}
	for _, product := range products {
		var existing models.Product
		if err := models.DB.Where("code = ?", product.Code).First(&existing).Error; err != nil {
			if err := models.DB.Create(&product).Error; err != nil {
				stdLog.Printf("Failed to create product %s: %v", product.Code, err)
			} else {
				stdLog.Printf("Created product: %s", product.Code)
			}
		} else {
			stdLog.Printf("Product already exists: %s", product.Code)
		}
	}

	stdLog.Printf("Seeding finished")
}

func money(value string) models.Money {
	d, err := decimal.NewFromString(value)
	if err != nil {
		d = decimal.Zero
	}
	return models.NewMoneyFromDecimal(d)
}
