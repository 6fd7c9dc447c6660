package app

import (
	"github.com/asaskevich/EventBus"
	"github.com/robfig/cron/v3"

	"github.com/stockd/stockd/config"
	"github.com/stockd/stockd/internal/store"
	"github.com/stockd/stockd/internal/warehouse"
	"github.com/stockd/stockd/pkg/idgen"
)

// ConfigProvider provides application configuration
type ConfigProvider interface {
	Config() *config.AppConfig
}

// RepositoryProvider provides entity repository access
type RepositoryProvider interface {
	Products() *store.ProductRepository
	Suppliers() *store.SupplierRepository
	Customers() *store.CustomerRepository
	Orders() *store.OrderRepository
}

// ServiceProvider provides the warehouse service and reporter
type ServiceProvider interface {
	Warehouse() *warehouse.Service
	Reporter() *warehouse.Reporter
}

// SettingsProvider provides system settings access
type SettingsProvider interface {
	GetSettingsStringValue(category, key string) string
	GetSettingsInt64Value(category, key string) int64
	GetSettingsBoolValue(category, key string) bool
	SaveSettings(settings map[string]interface{}) error
}

// SchedulerProvider provides task scheduling capability
type SchedulerProvider interface {
	Scheduler() *cron.Cron
}

// ConfigManagerProvider provides configuration manager access
type ConfigManagerProvider interface {
	ConfigMgr() *ConfigManager
}

// AppContext combines all provider interfaces for full application context.
// Services should depend on specific providers or this combined interface.
type AppContext interface {
	ConfigProvider
	RepositoryProvider
	ServiceProvider
	SettingsProvider
	SchedulerProvider
	ConfigManagerProvider

	Bus() EventBus.Bus
	IDGen() idgen.Generator
	LowStockThreshold() int

	// RunBackupNow triggers an immediate data-directory backup.
	RunBackupNow() error
}
