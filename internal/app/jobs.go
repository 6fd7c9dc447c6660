package app

import (
	"os"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/shirou/gopsutil/cpu"
	"github.com/shirou/gopsutil/mem"
	"github.com/shirou/gopsutil/process"
	"go.uber.org/zap"

	"github.com/stockd/stockd/pkg/metrics"
)

var cronParser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

func (a *Application) initJob() {
	loc, _ := time.LoadLocation(a.appConfig.System.Location)
	a.sched = cron.New(cron.WithLocation(loc), cron.WithParser(cronParser))

	var err error
	_, err = a.sched.AddFunc("@every 30s", func() {
		go a.SchedSystemMonitorTask()
		go a.SchedProcessMonitorTask()
	})
	if err != nil {
		zap.S().Errorf("init job error %s", err.Error())
	}

	autosave := a.appConfig.Storage.AutosaveCron
	if autosave == "" {
		autosave = "@every 5m"
	}
	_, err = a.sched.AddFunc(autosave, a.SchedAutosaveTask)
	if err != nil {
		zap.S().Errorf("init job error %s", err.Error())
	}

	_, err = a.sched.AddFunc("@every 10m", a.SchedLowStockScanTask)
	if err != nil {
		zap.S().Errorf("init job error %s", err.Error())
	}

	if a.appConfig.Backup.Enabled {
		_, err = a.sched.AddFunc(a.appConfig.Backup.Cron, func() {
			if err := a.RunBackupNow(); err != nil {
				zap.L().Error("scheduled backup failed", zap.Error(err))
			}
		})
		if err != nil {
			zap.S().Errorf("init job error %s", err.Error())
		}
	}

	a.sched.Start()
}

// SchedSystemMonitorTask system monitor
func (a *Application) SchedSystemMonitorTask() {
	defer func() {
		if err := recover(); err != nil {
			zap.S().Error(err)
		}
	}()

	_cpuuse, err := cpu.Percent(0, false)
	if err == nil && len(_cpuuse) > 0 {
		metrics.SetGauge("system_cpuuse", int64(_cpuuse[0]*100))
	}

	_meminfo, err := mem.VirtualMemory()
	if err == nil {
		metrics.SetGauge("system_memuse", int64(_meminfo.Used/1024/1024))
	}
}

// SchedProcessMonitorTask app process monitor
func (a *Application) SchedProcessMonitorTask() {
	defer func() {
		if err := recover(); err != nil {
			zap.S().Error(err)
		}
	}()

	p, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return
	}

	cpuuse, err := p.CPUPercent()
	if err == nil {
		metrics.SetGauge("stockd_cpuuse", int64(cpuuse*100))
	}

	meminfo, err := p.MemoryInfo()
	if err == nil {
		metrics.SetGauge("stockd_memuse", int64(meminfo.RSS/1024/1024))
	}
}

// SchedAutosaveTask flushes in-memory repository state to disk. In-memory
// state can outrun the persisted state after a failed save; this narrows
// the window.
func (a *Application) SchedAutosaveTask() {
	defer func() {
		if err := recover(); err != nil {
			zap.S().Error(err)
		}
	}()

	if err := a.service.SaveAll(); err != nil {
		zap.L().Error("autosave failed", zap.Error(err))
		return
	}
	zap.L().Debug("autosave completed")
}

// SchedLowStockScanTask flags products under the configured threshold.
// Each hit is published on the bus for the notifier.
func (a *Application) SchedLowStockScanTask() {
	defer func() {
		if err := recover(); err != nil {
			zap.S().Error(err)
		}
	}()

	low := a.service.ScanLowStock(a.LowStockThreshold())
	if len(low) > 0 {
		zap.L().Warn("low stock products detected", zap.Int("count", len(low)))
	}
	metrics.SetGauge("inventory_low_stock", int64(len(low)))
}
