package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sarchlab/dtnsim/config"
	"github.com/sarchlab/dtnsim/monitoring"
	"github.com/sarchlab/dtnsim/simulation"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a simulation and print the message statistics.",
	Long: `Run a simulation and print the message statistics. Parameters ` +
		`come from the defaults, then the config file, then DTNSIM_* ` +
		`environment variables, then the flags.`,
	Args: cobra.NoArgs,
	RunE: runSimulation,
}

func init() {
	f := runCmd.Flags()
	f.String("config", "", "YAML configuration file")
	f.StringSlice("env-file", nil, "dotenv files to load before reading DTNSIM_* variables")
	f.String("router", "", "forwarding strategy of every node")
	f.Int("nodes", 0, "number of nodes")
	f.Float64("duration", 0, "simulated time in seconds")
	f.Uint64("seed", 0, "random seed")
	f.String("output", "", "path of the SQLite recording, without extension")
	f.Bool("no-record", false, "do not record the simulation")
	f.String("recorder", "", "recorder backend, sqlite or clickhouse")
	f.String("clickhouse-dsn", "", "ClickHouse connection string")
	f.Int("monitor-port", 0, "serve the monitoring page on this port")
	f.Bool("open-browser", false, "open the monitoring page in a browser")
	f.Bool("json", false, "print the statistics as JSON")
	f.BoolP("verbose", "v", false, "log every world event")

	rootCmd.AddCommand(runCmd)
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	f := cmd.Flags()

	cfg := config.Default()
	if path, _ := f.GetString("config"); path != "" {
		var err error
		cfg, err = config.LoadFile(path)
		if err != nil {
			return nil, err
		}
	}

	envFiles, _ := f.GetStringSlice("env-file")
	if err := config.LoadEnv(cfg, envFiles...); err != nil {
		return nil, err
	}

	if f.Changed("router") {
		cfg.Router, _ = f.GetString("router")
	}
	if f.Changed("nodes") {
		cfg.Nodes, _ = f.GetInt("nodes")
	}
	if f.Changed("duration") {
		cfg.Duration, _ = f.GetFloat64("duration")
	}
	if f.Changed("seed") {
		cfg.Seed, _ = f.GetUint64("seed")
	}
	if f.Changed("output") {
		cfg.Output, _ = f.GetString("output")
	}
	if f.Changed("recorder") {
		cfg.Recorder.Type, _ = f.GetString("recorder")
	}
	if f.Changed("clickhouse-dsn") {
		cfg.Recorder.DSN, _ = f.GetString("clickhouse-dsn")
	}

	return cfg, cfg.Validate()
}

func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}

	return zap.NewProduction()
}

func runSimulation(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	f := cmd.Flags()
	verbose, _ := f.GetBool("verbose")
	logger, err := newLogger(verbose)
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}
	defer logger.Sync() //nolint:errcheck

	builder := simulation.MakeBuilder().WithConfig(cfg)
	if noRecord, _ := f.GetBool("no-record"); noRecord {
		builder = builder.WithoutRecording()
	}
	if port, _ := f.GetInt("monitor-port"); port > 0 {
		builder = builder.WithMonitorPort(port)
	}
	if verbose {
		builder = builder.WithLogger(logger)
	}

	s, err := builder.Build()
	if err != nil {
		return err
	}
	defer s.Terminate() //nolint:errcheck

	if open, _ := f.GetBool("open-browser"); open && s.MonitorURL() != "" {
		if err := monitoring.OpenInBrowser(s.MonitorURL()); err != nil {
			logger.Warn("cannot open browser", zap.Error(err))
		}
	}

	logger.Info("simulation started",
		zap.String("id", s.ID()),
		zap.String("router", cfg.Router),
		zap.Int("nodes", cfg.Nodes),
		zap.Float64("duration", cfg.Duration),
		zap.Uint64("seed", cfg.Seed),
	)

	if err := s.Run(); err != nil {
		return err
	}

	stats := s.Stats()
	logger.Info("simulation finished",
		zap.String("id", s.ID()),
		zap.Int("delivered", stats.Delivered),
		zap.Float64("delivery_prob", stats.DeliveryProb),
	)

	out := cmd.OutOrStdout()
	if asJSON, _ := f.GetBool("json"); asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(stats)
	}

	fmt.Fprintf(out, "router:        %s\n", cfg.Router)
	fmt.Fprintf(out, "created:       %d\n", stats.Created)
	fmt.Fprintf(out, "started:       %d\n", stats.Started)
	fmt.Fprintf(out, "relayed:       %d\n", stats.Relayed)
	fmt.Fprintf(out, "aborted:       %d\n", stats.Aborted)
	fmt.Fprintf(out, "dropped:       %d\n", stats.Dropped)
	fmt.Fprintf(out, "delivered:     %d\n", stats.Delivered)
	fmt.Fprintf(out, "delivery_prob: %.4f\n", stats.DeliveryProb)
	fmt.Fprintf(out, "overhead:      %.4f\n", stats.Overhead)
	fmt.Fprintf(out, "latency_avg:   %.4f\n", stats.LatencyAvg)
	fmt.Fprintf(out, "hopcount_avg:  %.4f\n", stats.HopCountAvg)

	return nil
}
