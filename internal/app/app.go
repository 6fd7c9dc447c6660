package app

import (
	"os"
	"path/filepath"
	"time"

	"github.com/asaskevich/EventBus"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/stockd/stockd/config"
	"github.com/stockd/stockd/internal/store"
	"github.com/stockd/stockd/internal/warehouse"
	"github.com/stockd/stockd/pkg/idgen"
	"github.com/stockd/stockd/pkg/metrics"
)

// Application wires config, repositories, services, settings, scheduler
// and the event bus together and owns their lifecycle.
type Application struct {
	appConfig *config.AppConfig

	products  *store.ProductRepository
	suppliers *store.SupplierRepository
	customers *store.CustomerRepository
	orders    *store.OrderRepository

	service  *warehouse.Service
	reporter *warehouse.Reporter

	configManager *ConfigManager
	sched         *cron.Cron
	bus           EventBus.Bus
	ids           idgen.Generator
}

// Ensure Application implements all interfaces
var (
	_ ConfigProvider        = (*Application)(nil)
	_ RepositoryProvider    = (*Application)(nil)
	_ ServiceProvider       = (*Application)(nil)
	_ SettingsProvider      = (*Application)(nil)
	_ SchedulerProvider     = (*Application)(nil)
	_ ConfigManagerProvider = (*Application)(nil)
	_ AppContext            = (*Application)(nil)
)

func NewApplication(appConfig *config.AppConfig) *Application {
	return &Application{appConfig: appConfig}
}

func (a *Application) Config() *config.AppConfig { return a.appConfig }

func (a *Application) Products() *store.ProductRepository   { return a.products }
func (a *Application) Suppliers() *store.SupplierRepository { return a.suppliers }
func (a *Application) Customers() *store.CustomerRepository { return a.customers }
func (a *Application) Orders() *store.OrderRepository       { return a.orders }

func (a *Application) Warehouse() *warehouse.Service { return a.service }
func (a *Application) Reporter() *warehouse.Reporter { return a.reporter }

// Scheduler returns the cron scheduler
func (a *Application) Scheduler() *cron.Cron { return a.sched }

// Bus returns the application event bus
func (a *Application) Bus() EventBus.Bus { return a.bus }

// IDGen returns the id generator
func (a *Application) IDGen() idgen.Generator { return a.ids }

func (a *Application) Init(cfg *config.AppConfig) error {
	loc, err := time.LoadLocation(cfg.System.Location)
	if err != nil {
		zap.S().Error("timezone config error")
	} else {
		time.Local = loc
	}

	a.initLogger(cfg)

	// Storage paths must exist before any load/save.
	for _, dir := range []string{cfg.System.Workdir, cfg.DataDir(), filepath.Join(cfg.System.Workdir, "backup")} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	if err := metrics.InitMetrics(cfg.System.Workdir); err != nil {
		zap.S().Warn("Failed to initialize metrics:", err)
	}

	a.ids, err = idgen.New(cfg.Inventory.IDNode)
	if err != nil {
		return err
	}

	a.bus = EventBus.New()

	datadir := cfg.DataDir()
	a.products = store.NewProductRepository(filepath.Join(datadir, "products.csv"))
	a.suppliers = store.NewSupplierRepository(filepath.Join(datadir, "suppliers.csv"))
	a.customers = store.NewCustomerRepository(filepath.Join(datadir, "customers.csv"))
	a.orders = store.NewOrderRepository(datadir, a.products, a.suppliers, a.customers)

	a.service = warehouse.NewService(a.products, a.suppliers, a.customers, a.orders, a.ids, a.bus)
	a.reporter = warehouse.NewReporter(a.products, a.orders)

	// Products and partners load before orders so references resolve.
	if err := a.service.LoadAll(); err != nil {
		return err
	}
	zap.S().Infof("loaded %d products, %d suppliers, %d customers",
		a.products.Count(), a.suppliers.Count(), a.customers.Count())

	a.configManager, err = NewConfigManager(filepath.Join(cfg.System.Workdir, "settings.db"))
	if err != nil {
		return err
	}

	a.initJob()
	return nil
}

func (a *Application) initLogger(cfg *config.AppConfig) {
	var zapConfig zap.Config
	if cfg.Logger.Mode == "production" {
		zapConfig = zap.NewProductionConfig()
	} else {
		zapConfig = zap.NewDevelopmentConfig()
	}

	var logger *zap.Logger
	if cfg.Logger.FileEnable {
		lumberJackLogger := &lumberjack.Logger{
			Filename:   cfg.Logger.Filename,
			MaxSize:    64,
			MaxBackups: 7,
			MaxAge:     7,
			Compress:   false,
		}

		core := zapcore.NewTee(
			zapcore.NewCore(
				zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
				zapcore.AddSync(lumberJackLogger),
				zapConfig.Level,
			),
			zapcore.NewCore(
				zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()),
				zapcore.AddSync(os.Stdout),
				zapConfig.Level,
			),
		)
		logger = zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1))
	} else {
		built, err := zapConfig.Build(zap.AddCaller(), zap.AddCallerSkip(1))
		if err != nil {
			panic(err)
		}
		logger = built
	}

	zap.ReplaceGlobals(logger)
}

// GetSettingsStringValue retrieves a string configuration value
func (a *Application) GetSettingsStringValue(category, key string) string {
	return a.configManager.GetString(category, key)
}

// GetSettingsInt64Value retrieves an int64 configuration value
func (a *Application) GetSettingsInt64Value(category, key string) int64 {
	return a.configManager.GetInt64(category, key)
}

// GetSettingsBoolValue retrieves a boolean configuration value
func (a *Application) GetSettingsBoolValue(category, key string) bool {
	return a.configManager.GetBool(category, key)
}

// SaveSettings saves configuration settings
func (a *Application) SaveSettings(settings map[string]interface{}) error {
	return a.configManager.SaveAll(settings)
}

// ConfigMgr returns the configuration manager
func (a *Application) ConfigMgr() *ConfigManager { return a.configManager }

// LowStockThreshold resolves the runtime threshold, preferring the
// settings store over the static config.
func (a *Application) LowStockThreshold() int {
	if v := a.configManager.GetInt64("inventory", "low_stock_threshold"); v > 0 {
		return int(v)
	}
	if a.appConfig.Inventory.LowStockThreshold > 0 {
		return a.appConfig.Inventory.LowStockThreshold
	}
	return warehouse.DefaultLowStockThreshold
}

// Release flushes state and releases application resources.
func (a *Application) Release() {
	if a.sched != nil {
		a.sched.Stop()
	}

	if a.service != nil {
		if err := a.service.SaveAll(); err != nil {
			zap.L().Error("final save failed", zap.Error(err))
		}
	}

	if a.configManager != nil {
		_ = a.configManager.Close()
	}

	_ = metrics.Close()
	_ = zap.L().Sync()
}
