package config

import (
	"os"
	"path/filepath"

	"github.com/spf13/cast"
	"gopkg.in/yaml.v2"
)

type SysConfig struct {
	Appid    string `yaml:"appid"`
	Location string `yaml:"location"`
	Workdir  string `yaml:"workdir"`
	Debug    bool   `yaml:"debug"`
}

type WebConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type LogConfig struct {
	Mode       string `yaml:"mode"`
	FileEnable bool   `yaml:"file_enable"`
	Filename   string `yaml:"filename"`
}

type StorageConfig struct {
	// Datadir holds the flat entity stores. Defaults to workdir/data.
	Datadir string `yaml:"datadir"`
	// AutosaveCron flushes in-memory state to disk periodically.
	AutosaveCron string `yaml:"autosave_cron"`
}

type InventoryConfig struct {
	LowStockThreshold int `yaml:"low_stock_threshold"`
	// IDNode seeds the snowflake id generator (0..1023).
	IDNode int64 `yaml:"id_node"`
}

type BackupConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Cron     string `yaml:"cron"`
	SftpHost string `yaml:"sftp_host"`
	SftpPort int    `yaml:"sftp_port"`
	SftpUser string `yaml:"sftp_user"`
	SftpPwd  string `yaml:"sftp_pwd"`
	SftpDir  string `yaml:"sftp_dir"`
}

type NotifyConfig struct {
	WebhookURL string `yaml:"webhook_url"`
	SmtpHost   string `yaml:"smtp_host"`
	SmtpPort   int    `yaml:"smtp_port"`
	SmtpUser   string `yaml:"smtp_user"`
	SmtpPwd    string `yaml:"smtp_pwd"`
	MailFrom   string `yaml:"mail_from"`
	MailTo     string `yaml:"mail_to"`
}

type AppConfig struct {
	System    SysConfig       `yaml:"system"`
	Web       WebConfig       `yaml:"web"`
	Logger    LogConfig       `yaml:"logger"`
	Storage   StorageConfig   `yaml:"storage"`
	Inventory InventoryConfig `yaml:"inventory"`
	Backup    BackupConfig    `yaml:"backup"`
	Notify    NotifyConfig    `yaml:"notify"`
}

var DefaultAppConfig = &AppConfig{
	System: SysConfig{
		Appid:    "stockd",
		Location: "Asia/Ho_Chi_Minh",
		Workdir:  "/var/stockd",
		Debug:    true,
	},
	Web: WebConfig{
		Host: "0.0.0.0",
		Port: 1816,
	},
	Logger: LogConfig{
		Mode:       "development",
		FileEnable: true,
		Filename:   "/var/stockd/stockd.log",
	},
	Storage: StorageConfig{
		AutosaveCron: "@every 5m",
	},
	Inventory: InventoryConfig{
		LowStockThreshold: 10,
		IDNode:            1,
	},
	Backup: BackupConfig{
		Cron:     "@daily",
		SftpPort: 22,
	},
}

// DataDir is the directory of the flat entity stores.
func (c *AppConfig) DataDir() string {
	if c.Storage.Datadir != "" {
		return c.Storage.Datadir
	}
	return filepath.Join(c.System.Workdir, "data")
}

func setEnvValue(name string, f func(v string)) {
	if v, ok := os.LookupEnv(name); ok {
		f(v)
	}
}

// LoadConfig reads the YAML config file, falling back to defaults when
// the path is empty or missing, then applies environment overrides.
func LoadConfig(cfile string) *AppConfig {
	cfg := new(AppConfig)
	*cfg = *DefaultAppConfig
	if cfile != "" {
		if data, err := os.ReadFile(cfile); err == nil {
			fromFile := new(AppConfig)
			if err := yaml.Unmarshal(data, fromFile); err == nil {
				cfg = fromFile
			}
		}
	}

	setEnvValue("STOCKD_WORKDIR", func(v string) { cfg.System.Workdir = v })
	setEnvValue("STOCKD_DATADIR", func(v string) { cfg.Storage.Datadir = v })
	setEnvValue("STOCKD_DEBUG", func(v string) { cfg.System.Debug = cast.ToBool(v) })
	setEnvValue("STOCKD_WEB_HOST", func(v string) { cfg.Web.Host = v })
	setEnvValue("STOCKD_WEB_PORT", func(v string) { cfg.Web.Port = cast.ToInt(v) })
	setEnvValue("STOCKD_LOGGER_MODE", func(v string) { cfg.Logger.Mode = v })
	setEnvValue("STOCKD_LOW_STOCK_THRESHOLD", func(v string) { cfg.Inventory.LowStockThreshold = cast.ToInt(v) })
	setEnvValue("STOCKD_ID_NODE", func(v string) { cfg.Inventory.IDNode = cast.ToInt64(v) })
	return cfg
}

// WriteDefaultConfig writes the default configuration as a YAML file,
// refusing to overwrite an existing one.
func WriteDefaultConfig(cfile string) error {
	if _, err := os.Stat(cfile); err == nil {
		return os.ErrExist
	}
	data, err := yaml.Marshal(DefaultAppConfig)
	if err != nil {
		return err
	}
	return os.WriteFile(cfile, data, 0o644)
}
