package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"sync"

	"github.com/dbehnke/iq-verify/pkg/config"
	"github.com/dbehnke/iq-verify/pkg/dump"
	"github.com/dbehnke/iq-verify/pkg/harness"
	"github.com/dbehnke/iq-verify/pkg/interleave"
	"github.com/dbehnke/iq-verify/pkg/logger"
	"github.com/dbehnke/iq-verify/pkg/metrics"
	"github.com/dbehnke/iq-verify/pkg/pattern"
	"github.com/dbehnke/iq-verify/pkg/sdr"
	"github.com/dbehnke/iq-verify/pkg/web"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	// Parse command line flags
	configFile := flag.String("config", "", "Path to configuration file")
	showVersion := flag.Bool("version", false, "Show version information")
	validate := flag.Bool("validate", false, "Validate configuration and exit")
	flag.Parse()

	// Show version
	if *showVersion {
		fmt.Printf("iq-verify %s (built %s)\n", version, buildTime)
		return 0
	}

	// Initialize logger (basic console logger for now)
	log := logger.New(logger.Config{
		Level:  "info",
		Format: "text",
	})

	// Load configuration
	cfg, err := config.Load(*configFile)
	if err != nil {
		log.Error("Failed to load configuration", logger.Error(err))
		return 1
	}

	// Validate only mode
	if *validate {
		log.Info("Configuration is valid")
		return 0
	}

	// Re-create the logger at the configured level
	log = logger.New(logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})

	log.Info("Starting iq-verify",
		logger.String("version", version),
		logger.Int("num_samples", cfg.Harness.NumSamples))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var wg sync.WaitGroup

	// Metrics collector observes every case
	collector := metrics.NewCollector()

	// Start Prometheus metrics server if enabled
	if cfg.Metrics.Enabled && cfg.Metrics.Prometheus.Enabled {
		wg.Add(1)
		go func() {
			defer wg.Done()
			metricsServer := metrics.NewPrometheusServer(
				metrics.PrometheusConfig{
					Enabled: cfg.Metrics.Prometheus.Enabled,
					Port:    cfg.Metrics.Prometheus.Port,
					Path:    cfg.Metrics.Prometheus.Path,
				},
				collector,
				log,
			)
			if err := metricsServer.Start(ctx); err != nil && err != context.Canceled {
				log.Error("Prometheus metrics server error", logger.Error(err))
			}
		}()
	}

	// Start the live observation server if enabled
	var webServer *web.Server
	if cfg.Web.Enabled {
		webServer = web.NewServer(cfg.Web, collector, log.WithComponent("web"))
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := webServer.Start(ctx); err != nil && err != context.Canceled {
				log.Error("Web server error", logger.Error(err))
			}
		}()
	}

	// Assemble the harness
	dumper := dump.New(dump.Config{
		Enabled:   cfg.Dump.Enabled,
		Columns:   cfg.Dump.Columns,
		CellWidth: cfg.Dump.CellWidth,
		Excerpt:   cfg.Dump.Excerpt,
	}, log.WithComponent("dump"))

	orc := harness.NewOrchestrator(interleave.New(), pattern.NewPool(), dumper, log.WithComponent("harness"))
	runner := harness.NewRunner(orc, log.WithComponent("harness"))
	runner.AddObserver(collector)
	if webServer != nil {
		runner.AddObserver(webServer.Hub())
	}

	err = runner.Run(battery(cfg.Harness))

	if webServer != nil {
		webServer.Hub().BroadcastBatteryFinished(err == nil)
	}

	cancel()
	wg.Wait()

	if err != nil {
		log.Error("Verification failed", logger.Error(err))
		return 1
	}

	log.Info("Verification passed",
		logger.Int("cases", int(collector.GetCasesRun())))
	return 0
}

// battery builds the case list the configuration asks for. Single-channel
// cases confirm the transform is a no-op; two-channel cases exercise the
// real interleave. Metadata formats are paired with each when enabled.
func battery(cfg config.HarnessConfig) []harness.TestCase {
	formats := []sdr.SampleFormat{sdr.FormatSC16Q11}
	if cfg.Metadata {
		formats = append(formats, sdr.FormatSC16Q11Meta)
	}

	var cases []harness.TestCase
	if cfg.SingleChannel {
		for _, f := range formats {
			cases = append(cases, harness.TestCase{
				RXLayout:   sdr.LayoutRX1,
				TXLayout:   sdr.LayoutTX1,
				Format:     f,
				NumSamples: cfg.NumSamples,
			})
		}
	}
	if cfg.DualChannel {
		for _, f := range formats {
			cases = append(cases, harness.TestCase{
				RXLayout:   sdr.LayoutRX2,
				TXLayout:   sdr.LayoutTX2,
				Format:     f,
				NumSamples: cfg.NumSamples,
			})
		}
	}
	return cases
}
