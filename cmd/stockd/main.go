package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	_ "time/tzdata"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/stockd/stockd/config"
	"github.com/stockd/stockd/internal/app"
	"github.com/stockd/stockd/internal/notify"
	"github.com/stockd/stockd/internal/webserver"
)

var (
	h        = flag.Bool("h", false, "help usage")
	showVer  = flag.Bool("v", false, "show version")
	cfile    = flag.String("c", "stockd.yml", "config file")
	port     = flag.Int("p", 0, "web port override")
	initCfg  = flag.Bool("x", false, "write default config file and exit")
	lowStock = flag.Int("t", 0, "low stock threshold override")
)

var (
	BuildVersion string
	ReleaseDate  string
)

func printVersion() {
	fmt.Printf("stockd version %s (%s)\n", BuildVersion, ReleaseDate)
}

func main() {
	flag.Parse()
	if *h {
		flag.Usage()
		return
	}
	if *showVer {
		printVersion()
		return
	}

	if *initCfg {
		if err := config.WriteDefaultConfig(*cfile); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		fmt.Println("wrote", *cfile)
		return
	}

	cfg := config.LoadConfig(*cfile)
	if *port > 0 {
		cfg.Web.Port = *port
	}
	if *lowStock > 0 {
		cfg.Inventory.LowStockThreshold = *lowStock
	}

	application := app.NewApplication(cfg)
	if err := application.Init(cfg); err != nil {
		fmt.Fprintln(os.Stderr, "init failed:", err)
		os.Exit(1)
	}
	defer application.Release()

	notifier, err := notify.New(cfg.Notify)
	if err != nil {
		fmt.Fprintln(os.Stderr, "notifier init failed:", err)
		os.Exit(1)
	}
	if err := notifier.Subscribe(application.Bus()); err != nil {
		zap.L().Warn("notifier subscribe failed", zap.Error(err))
	}
	defer notifier.Close()

	server := webserver.NewServer(application)

	g, ctx := errgroup.WithContext(context.Background())

	g.Go(func() error {
		return server.Start()
	})

	g.Go(func() error {
		sigs := make(chan os.Signal, 1)
		signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
		select {
		case sig := <-sigs:
			zap.L().Info("shutdown signal received", zap.String("signal", sig.String()))
			return server.Echo().Shutdown(context.Background())
		case <-ctx.Done():
			return ctx.Err()
		}
	})

	if err := g.Wait(); err != nil {
		zap.L().Error("stockd stopped", zap.Error(err))
	}
}
