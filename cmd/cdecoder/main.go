package main

import (
	"context"
	"flag"
	"fmt"
	"net"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"syscall"
	"time"

	"github.com/dbehnke/cdecoder/internal/decoder"
	"github.com/dbehnke/cdecoder/internal/paramset"
	"github.com/dbehnke/cdecoder/pkg/config"
	"github.com/dbehnke/cdecoder/pkg/database"
	"github.com/dbehnke/cdecoder/pkg/logger"
	"github.com/dbehnke/cdecoder/pkg/metrics"
	"github.com/dbehnke/cdecoder/pkg/mqtt"
	"github.com/dbehnke/cdecoder/pkg/web"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	version   = "dev"
	gitCommit = "unknown"
	buildTime = "unknown"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("cdecoder", flag.ContinueOnError)
	configFile := fs.String("config", "", "Path to configuration file")
	recordPath := fs.String("record", "", "Enable the run recorder at this SQLite path")
	metricsAddr := fs.String("metrics-addr", "", "Enable the Prometheus metrics server at this address (e.g. :9090)")
	webAddr := fs.String("web-addr", "", "Enable the live status server at this address (e.g. :8080)")
	mqttBroker := fs.String("mqtt-broker", "", "Enable the MQTT event publisher against this broker")
	showVersion := fs.Bool("version", false, "Show version information")

	if err := fs.Parse(args); err != nil {
		return 1
	}

	if *showVersion {
		fmt.Printf("cdecoder %s\n", version)
		fmt.Printf("Git Commit: %s\n", gitCommit)
		fmt.Printf("Built: %s\n", buildTime)
		return 0
	}

	positional := fs.Args()
	if len(positional) < 2 {
		fmt.Fprintln(os.Stderr, "usage: cdecoder <input_file> <output_file> [CoderType [S]] [--config file] [--record db] [--metrics-addr addr] [--web-addr addr] [--mqtt-broker addr]")
		return 1
	}

	inputPath, outputPath := positional[0], positional[1]

	coderType := paramset.TETRA
	if len(positional) >= 3 {
		n, err := strconv.Atoi(positional[2])
		if err != nil || (n != 0 && n != 1) {
			fmt.Fprintf(os.Stderr, "invalid CoderType %q: must be 0 (TETRA) or 1 (AMR475)\n", positional[2])
			return 1
		}
		coderType = paramset.CoderType(n)
	}

	stealingSimulated := len(positional) >= 4 && positional[3] == "S"

	log := logger.New(logger.Config{Level: "info", Format: "text"})

	cfg, err := config.Load(*configFile)
	if err != nil {
		log.Error("Failed to load configuration", logger.Error(err))
		return 1
	}

	log = logger.New(logger.Config{Level: cfg.Logging.Level, Format: cfg.Logging.Format})

	if len(positional) < 3 {
		coderType = paramset.CoderType(cfg.Decode.CoderType)
	}

	if *recordPath != "" {
		cfg.Record.Enabled = true
		cfg.Record.Path = *recordPath
	}
	if *metricsAddr != "" {
		cfg.Metrics.Enabled = true
		cfg.Metrics.Addr = *metricsAddr
	}
	if *webAddr != "" {
		cfg.Web.Enabled = true
		cfg.Web.Addr = *webAddr
	}
	if *mqttBroker != "" {
		cfg.MQTT.Enabled = true
		cfg.MQTT.Broker = *mqttBroker
	}

	params, err := paramset.New(coderType)
	if err != nil {
		log.Error("Failed to build parameter set", logger.Error(err))
		return 1
	}

	in, err := os.Open(inputPath)
	if err != nil {
		log.Error("Failed to open input file", logger.Error(err))
		return 1
	}
	defer func() { _ = in.Close() }()

	out, err := os.Create(outputPath)
	if err != nil {
		log.Error("Failed to create output file", logger.Error(err))
		return 1
	}
	defer func() { _ = out.Close() }()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Info("Received shutdown signal")
		cancel()
	}()

	var wg sync.WaitGroup
	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(registry)

	if cfg.Metrics.Enabled {
		startMetricsServer(ctx, &wg, cfg.Metrics, registry, log)
	}

	status := &runStatus{}
	var webServer *web.Server
	if cfg.Web.Enabled {
		webServer = web.NewServer(cfg.Web, log.WithComponent("web")).WithStatusProvider(status)
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := webServer.Start(ctx); err != nil && err != context.Canceled {
				log.Error("Web server error", logger.Error(err))
			}
		}()
	}

	var publisher *mqtt.Publisher
	if cfg.MQTT.Enabled {
		publisher = mqtt.New(mqtt.Config{
			Enabled:     cfg.MQTT.Enabled,
			Broker:      cfg.MQTT.Broker,
			TopicPrefix: cfg.MQTT.TopicPrefix,
			ClientID:    cfg.MQTT.ClientID,
			QoS:         cfg.MQTT.QoS,
			Retained:    cfg.MQTT.Retained,
		}, log.WithComponent("mqtt"))
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := publisher.Start(ctx); err != nil && err != context.Canceled {
				log.Error("MQTT publisher error", logger.Error(err))
			}
		}()
	}

	var slotRepo *database.SlotRepository
	var db *database.DB
	runID := fmt.Sprintf("run-%d", time.Now().UnixNano())
	if cfg.Record.Enabled {
		db, err = database.NewDB(database.Config{Path: cfg.Record.Path}, log.WithComponent("database"))
		if err != nil {
			log.Error("Failed to initialize run recorder", logger.Error(err))
			return 1
		}
		defer func() { _ = db.Close() }()
		slotRepo = database.NewSlotRepository(db.GetDB())
	}

	predicate := decoder.DefaultStealingPredicate(cfg.Decode.StealingModulus, cfg.Decode.StealingResidue)
	if !stealingSimulated {
		predicate = func(int) bool { return false }
	}
	fc := decoder.NewFrameController(params, predicate)
	reader := decoder.NewReader(in)
	writer := decoder.NewWriter(out, params)

	exitCode := mainLoop(ctx, log, fc, reader, writer, collector, slotRepo, publisher, webServer, status, params, runID)

	cancel()
	if publisher != nil {
		publisher.Stop()
	}
	wg.Wait()

	return exitCode
}

// runStatus implements web.StatusProvider, guarding the snapshot with a
// mutex since the decode goroutine writes it while the web server's HTTP
// handler goroutine reads it concurrently.
type runStatus struct {
	mu     sync.RWMutex
	status web.RunStatus
}

func (r *runStatus) Status() web.RunStatus {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.status
}

func (r *runStatus) update(fn func(*web.RunStatus)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fn(&r.status)
}

func mainLoop(
	ctx context.Context,
	log *logger.Logger,
	fc *decoder.FrameController,
	reader *decoder.Reader,
	writer *decoder.Writer,
	collector *metrics.Collector,
	slotRepo *database.SlotRepository,
	publisher *mqtt.Publisher,
	webServer *web.Server,
	status *runStatus,
	params *paramset.ParamSet,
	runID string,
) int {
	slotIndex := 0
	stolenCount := 0
	bfiCount := 0

	for {
		if ctx.Err() != nil {
			break
		}

		raw, err := reader.ReadSlot()
		if err != nil {
			break
		}

		result := fc.DecodeSlot(raw)
		collector.SlotProcessed(result.Stolen)

		if result.Stolen {
			stolenCount++
			log.Info(fmt.Sprintf("Frame Nb %d was stolen", slotIndex))
		}

		var bfi1, bfi2, bfi3 int
		for i, frame := range result.Frames {
			if frame.BFI {
				bfiCount++
				collector.BFIFrame(fmt.Sprintf("bfi%d", i+1))
				log.Info(fmt.Sprintf("Frame Nb %d Bfi active", slotIndex))
			}
			collector.BitsEmitted(len(frame.Bits))
			switch i {
			case 0:
				bfi1 = bfiInt(frame.BFI)
			case 1:
				bfi2 = bfiInt(frame.BFI)
			case 2:
				bfi3 = bfiInt(frame.BFI)
			}
		}

		if err := writer.WriteSlot(result); err != nil {
			log.Error("Write failed, stopping", logger.Error(err))
			break
		}

		if slotRepo != nil {
			rec := &database.SlotRecord{
				RunID:     runID,
				SlotIndex: slotIndex,
				CoderType: int(params.Coder),
				Stolen:    result.Stolen,
				BFI1:      bfi1,
				BFI2:      bfi2,
				BFI3:      bfi3,
			}
			if err := slotRepo.Create(rec); err != nil {
				log.Warn("Failed to persist slot record", logger.Error(err))
			}
		}

		if webServer != nil {
			webServer.GetHub().BroadcastSlotDecoded(slotIndex, result.Stolen, bfi1, bfi2, bfi3)
			if result.Stolen {
				webServer.GetHub().BroadcastFrameStolen(slotIndex)
			}
		}
		if publisher != nil {
			_ = publisher.PublishSlotDecoded(mqtt.SlotDecodedEvent{
				SlotIndex: slotIndex,
				CoderType: int(params.Coder),
				Stolen:    result.Stolen,
				BFI1:      bfi1,
				BFI2:      bfi2,
				BFI3:      bfi3,
				Timestamp: time.Now(),
			})
			if result.Stolen {
				_ = publisher.PublishFrameStolen(mqtt.FrameStolenEvent{SlotIndex: slotIndex, Timestamp: time.Now()})
			}
		}
		if status != nil {
			status.update(func(s *web.RunStatus) {
				s.CoderType = int(params.Coder)
				s.SlotsProcessed = slotIndex + 1
				s.SlotsStolen = stolenCount
				s.BFIFrames = bfiCount
			})
		}

		slotIndex++
	}

	log.Info(fmt.Sprintf("%d Channel Frames processed", slotIndex))
	log.Info(fmt.Sprintf("ie %d Speech Frames", slotIndex*params.SpFrmsPerTDM))

	if publisher != nil {
		_ = publisher.PublishRunSummary(mqtt.RunSummaryEvent{
			Slots:     slotIndex,
			Stolen:    stolenCount,
			BFIFrames: bfiCount,
			Timestamp: time.Now(),
		})
	}
	if webServer != nil {
		webServer.GetHub().BroadcastRunSummary(slotIndex, stolenCount, bfiCount)
	}
	if status != nil {
		status.update(func(s *web.RunStatus) { s.Done = true })
	}

	return 0
}

func bfiInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func startMetricsServer(ctx context.Context, wg *sync.WaitGroup, cfg config.MetricsConfig, registry *prometheus.Registry, log *logger.Logger) {
	port := 9090
	if _, p, err := net.SplitHostPort(cfg.Addr); err == nil {
		if n, err := strconv.Atoi(p); err == nil {
			port = n
		}
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		server := metrics.NewPrometheusServer(metrics.PrometheusConfig{
			Enabled: cfg.Enabled,
			Port:    port,
			Path:    cfg.Path,
		}, registry, log.WithComponent("metrics"))
		if err := server.Start(ctx); err != nil && err != context.Canceled {
			log.Error("Prometheus metrics server error", logger.Error(err))
		}
	}()
}
