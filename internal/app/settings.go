package app

import (
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/cast"
	bolt "go.etcd.io/bbolt"
	"go.uber.org/zap"
)

const settingsBucket = "settings"

// ConfigManager stores runtime-editable settings in a bbolt bucket,
// keyed "category.name". The static YAML config supplies startup values;
// this store holds whatever operators change afterwards.
type ConfigManager struct {
	db *bolt.DB
}

func NewConfigManager(path string) (*ConfigManager, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, err
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(settingsBucket))
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return &ConfigManager{db: db}, nil
}

func (m *ConfigManager) get(category, key string) string {
	var out string
	_ = m.db.View(func(tx *bolt.Tx) error {
		if v := tx.Bucket([]byte(settingsBucket)).Get([]byte(category + "." + key)); v != nil {
			out = string(v)
		}
		return nil
	})
	return out
}

// Set writes one setting value.
func (m *ConfigManager) Set(category, key string, value interface{}) error {
	return m.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(settingsBucket)).
			Put([]byte(category+"."+key), []byte(cast.ToString(value)))
	})
}

func (m *ConfigManager) GetString(category, key string) string {
	return m.get(category, key)
}

func (m *ConfigManager) GetInt64(category, key string) int64 {
	return cast.ToInt64(m.get(category, key))
}

func (m *ConfigManager) GetBool(category, key string) bool {
	return cast.ToBool(m.get(category, key))
}

// InventorySettings is the typed view of the inventory category.
type InventorySettings struct {
	LowStockThreshold int64 `mapstructure:"low_stock_threshold"`
}

// InventorySettings decodes the inventory category into its typed form.
func (m *ConfigManager) InventorySettings() InventorySettings {
	raw := map[string]interface{}{
		"low_stock_threshold": m.GetInt64("inventory", "low_stock_threshold"),
	}
	var out InventorySettings
	if err := mapstructure.Decode(raw, &out); err != nil {
		zap.L().Warn("decode inventory settings", zap.Error(err))
	}
	return out
}

// SaveAll writes a flat map of "category.name" keys in one transaction.
func (m *ConfigManager) SaveAll(settings map[string]interface{}) error {
	return m.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(settingsBucket))
		for k, v := range settings {
			if err := b.Put([]byte(k), []byte(cast.ToString(v))); err != nil {
				return err
			}
		}
		return nil
	})
}

func (m *ConfigManager) Close() error { return m.db.Close() }
