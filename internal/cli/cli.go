// ============================================================================
// jobshop CLI - Command Line Interface
// ============================================================================
//
// Package: internal/cli
// File: cli.go
// Purpose: Provides user-friendly command line interface based on Cobra framework
//
// Command Structure:
//   jobshop                        # Root command
//   ├── solve                      # Solve an instance with one dispatch rule
//   ├── compare                    # Solve with two rules and compare them
//   ├── generate                   # Write a sample or random instance file
//   ├── gantt                      # Render a schedule as PNG or text chart
//   ├── serve                      # HTTP solve API + Prometheus metrics
//   ├── status                     # Show effective configuration
//   ├── --version                  # Display version information
//   └── --help                     # Display help information
//
// Configuration Management:
//   Uses YAML format config file (default: configs/default.yaml)
//   Configuration items include:
//   - solver: Default dispatch rule
//   - generator: Random instance bounds and seed
//   - export: Default solution format
//   - metrics/server: Ports for serve mode
//
// ============================================================================

package cli

import (
	"fmt"
	"log"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/jobshop-dev/jobshop/internal/export"
	"github.com/jobshop-dev/jobshop/internal/gantt"
	"github.com/jobshop-dev/jobshop/internal/metrics"
	"github.com/jobshop-dev/jobshop/internal/parser"
	"github.com/jobshop-dev/jobshop/internal/runner"
	"github.com/jobshop-dev/jobshop/internal/server"
	"github.com/jobshop-dev/jobshop/internal/solver"
	"github.com/jobshop-dev/jobshop/pkg/jssp"
)

// DefaultConfigPath is used when --config is not given.
const DefaultConfigPath = "configs/default.yaml"

// Config represents the complete system configuration structure
// Maps config file fields through YAML tags
type Config struct {
	Solver struct {
		Algorithm string `yaml:"algorithm"`
	} `yaml:"solver"`

	Generator struct {
		Jobs     int   `yaml:"jobs"`
		Machines int   `yaml:"machines"`
		MinTime  int   `yaml:"min_time"`
		MaxTime  int   `yaml:"max_time"`
		Seed     int64 `yaml:"seed"`
	} `yaml:"generator"`

	Export struct {
		Format string `yaml:"format"`
	} `yaml:"export"`

	Metrics struct {
		Enabled bool `yaml:"enabled"`
		Port    int  `yaml:"port"`
	} `yaml:"metrics"`

	Server struct {
		Port int `yaml:"port"`
	} `yaml:"server"`
}

var configFile string

func BuildCLI() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "jobshop",
		Short: "jobshop: a job shop scheduling toolkit",
		Long: `jobshop solves job shop scheduling instances with greedy dispatch rules:
- FIFO, SPT, and LPT priority rules
- Side-by-side rule comparison
- Text/JSON/XML solution export
- Gantt chart rendering (PNG and terminal)
- HTTP solve API with Prometheus metrics`,
		Version: "1.0.0",
	}

	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", DefaultConfigPath, "config file path")

	rootCmd.AddCommand(buildSolveCommand())
	rootCmd.AddCommand(buildCompareCommand())
	rootCmd.AddCommand(buildGenerateCommand())
	rootCmd.AddCommand(buildGanttCommand())
	rootCmd.AddCommand(buildServeCommand())
	rootCmd.AddCommand(buildStatusCommand())

	return rootCmd
}

func buildSolveCommand() *cobra.Command {
	var (
		file      string
		sample    bool
		algorithm string
		output    string
		format    string
		chart     bool
	)

	cmd := &cobra.Command{
		Use:   "solve",
		Short: "Solve an instance with one dispatch rule",
		Long:  "Parse an instance file, schedule it with the chosen rule, and optionally export the solution.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configFile)
			if err != nil {
				return err
			}

			rule, err := pickRule(algorithm, cfg)
			if err != nil {
				return err
			}

			in, err := loadInstance(file, sample)
			if err != nil {
				return err
			}

			result, err := solver.New(rule).Solve(in)
			if err != nil {
				return err
			}

			printSummary(cmd, rule, result)
			if chart {
				gantt.RenderText(cmd.OutOrStdout(), result)
			}

			if output != "" {
				f := export.DetectFormat(output)
				if format != "" {
					if f, err = export.ParseFormat(format); err != nil {
						return err
					}
				}
				if err := export.Export(result, output, f); err != nil {
					return err
				}
				log.Printf("Solution written to %s as %s\n", output, f.Name())
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "instance file to solve")
	cmd.Flags().BoolVar(&sample, "sample", false, "solve the built-in sample instance")
	cmd.Flags().StringVarP(&algorithm, "algorithm", "a", "", "dispatch rule: fifo, spt, or lpt")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write the solution to this file")
	cmd.Flags().StringVar(&format, "format", "", "solution format: text, json, or xml (default: by extension)")
	cmd.Flags().BoolVar(&chart, "chart", false, "print a text gantt chart")

	return cmd
}

func buildCompareCommand() *cobra.Command {
	var (
		file   string
		sample bool
		first  string
		second string
	)

	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Solve with two dispatch rules and compare the results",
		RunE: func(cmd *cobra.Command, args []string) error {
			r1, err := solver.ParseRule(first)
			if err != nil {
				return err
			}
			r2, err := solver.ParseRule(second)
			if err != nil {
				return err
			}

			in, err := loadInstance(file, sample)
			if err != nil {
				return err
			}

			// Both solves read the same instance, so they run concurrently
			// on the pool.
			outcomes := runner.RunAll(in, []solver.Rule{r1, r2})
			for _, oc := range outcomes {
				if oc.Err != nil {
					return fmt.Errorf("solving with %s: %w", oc.Rule.DisplayName(), oc.Err)
				}
			}

			solver.Compare(cmd.OutOrStdout(), outcomes[0].Result, outcomes[1].Result,
				r1.DisplayName(), r2.DisplayName())
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "instance file to solve")
	cmd.Flags().BoolVar(&sample, "sample", false, "compare on the built-in sample instance")
	cmd.Flags().StringVar(&first, "first", "fifo", "first dispatch rule")
	cmd.Flags().StringVar(&second, "second", "spt", "second dispatch rule")

	return cmd
}

func buildGenerateCommand() *cobra.Command {
	var (
		output   string
		sample   bool
		jobs     int
		machines int
		minTime  int
		maxTime  int
		seed     int64
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Write a sample or random instance file",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configFile)
			if err != nil {
				return err
			}

			var in *jssp.Instance
			if sample {
				in = parser.Sample()
			} else {
				rc := parser.RandomConfig{
					Jobs:     pickInt(jobs, cfg.Generator.Jobs),
					Machines: pickInt(machines, cfg.Generator.Machines),
					MinTime:  pickInt(minTime, cfg.Generator.MinTime),
					MaxTime:  pickInt(maxTime, cfg.Generator.MaxTime),
				}
				s := seed
				if s == 0 {
					s = cfg.Generator.Seed
				}
				if s == 0 {
					s = time.Now().UnixNano()
				}
				if in, err = parser.Random(rc, rand.New(rand.NewSource(s))); err != nil {
					return err
				}
			}

			if err := parser.WriteFile(in, output); err != nil {
				return err
			}
			log.Printf("Instance with %d jobs and %d machines written to %s\n",
				in.NumJobs, in.NumMachines, output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "instance file to write")
	cmd.Flags().BoolVar(&sample, "sample", false, "write the built-in sample instance")
	cmd.Flags().IntVar(&jobs, "jobs", 0, "number of jobs (default from config)")
	cmd.Flags().IntVar(&machines, "machines", 0, "number of machines (default from config)")
	cmd.Flags().IntVar(&minTime, "min-time", 0, "minimum processing time (default from config)")
	cmd.Flags().IntVar(&maxTime, "max-time", 0, "maximum processing time (default from config)")
	cmd.Flags().Int64Var(&seed, "seed", 0, "random seed (0: config, then current time)")
	cmd.MarkFlagRequired("output")

	return cmd
}

func buildGanttCommand() *cobra.Command {
	var (
		file      string
		sample    bool
		algorithm string
		output    string
		ascii     bool
	)

	cmd := &cobra.Command{
		Use:   "gantt",
		Short: "Solve an instance and render the schedule as a gantt chart",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configFile)
			if err != nil {
				return err
			}

			rule, err := pickRule(algorithm, cfg)
			if err != nil {
				return err
			}

			in, err := loadInstance(file, sample)
			if err != nil {
				return err
			}

			result, err := solver.New(rule).Solve(in)
			if err != nil {
				return err
			}

			if ascii {
				gantt.RenderText(cmd.OutOrStdout(), result)
				return nil
			}
			if err := gantt.RenderPNG(result, output); err != nil {
				return err
			}
			log.Printf("Gantt chart written to %s\n", output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "instance file to solve")
	cmd.Flags().BoolVar(&sample, "sample", false, "render the built-in sample instance")
	cmd.Flags().StringVarP(&algorithm, "algorithm", "a", "", "dispatch rule: fifo, spt, or lpt")
	cmd.Flags().StringVarP(&output, "output", "o", "gantt.png", "PNG file to write")
	cmd.Flags().BoolVar(&ascii, "ascii", false, "print a text chart instead of a PNG")

	return cmd
}

func buildServeCommand() *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the solver over HTTP",
		Long:  "Start the HTTP solve API with Prometheus metrics and block until SIGINT/SIGTERM.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configFile)
			if err != nil {
				return err
			}
			if port == 0 {
				port = cfg.Server.Port
			}

			collector := metrics.NewCollector()
			srv := server.NewServer(collector)

			startMetrics(cfg)

			errCh := make(chan error, 1)
			go func() {
				errCh <- srv.ListenAndServe(port)
			}()

			sigChan := make(chan os.Signal, 1)
			signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

			select {
			case err := <-errCh:
				return fmt.Errorf("server failed: %w", err)
			case sig := <-sigChan:
				log.Printf("\nReceived %s, stopping gracefully...\n", sig)
				return nil
			}
		},
	}

	cmd.Flags().IntVar(&port, "port", 0, "HTTP port (default from config)")

	return cmd
}

func buildStatusCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show effective configuration",
		Long:  "Display the configuration the other commands would run with",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showStatus(cmd)
		},
	}
	return cmd
}

func showStatus(cmd *cobra.Command) error {
	cfg, err := loadConfig(configFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	out := cmd.OutOrStdout()

	fmt.Fprintln(out, "\n╔═══════════════════════════════════════════════════════════╗")
	fmt.Fprintln(out, "║           jobshop Configuration                           ║")
	fmt.Fprintln(out, "╚═══════════════════════════════════════════════════════════╝")
	fmt.Fprintln(out)

	fmt.Fprintln(out, "Configuration:")
	fmt.Fprintf(out, "  └─ Config File:       %s\n", configFile)
	fmt.Fprintf(out, "  └─ Default Algorithm: %s\n", cfg.Solver.Algorithm)
	fmt.Fprintf(out, "  └─ Default Format:    %s\n", cfg.Export.Format)
	fmt.Fprintln(out)

	fmt.Fprintln(out, "Generator:")
	fmt.Fprintf(out, "  ├─ Jobs x Machines:   %d x %d\n", cfg.Generator.Jobs, cfg.Generator.Machines)
	fmt.Fprintf(out, "  ├─ Processing Times:  [%d, %d]\n", cfg.Generator.MinTime, cfg.Generator.MaxTime)
	fmt.Fprintf(out, "  └─ Seed:              %d\n", cfg.Generator.Seed)
	fmt.Fprintln(out)

	fmt.Fprintln(out, "Dispatch Rules:")
	for _, rule := range solver.Rules() {
		fmt.Fprintf(out, "  ├─ %-6s %s\n", rule.String(), rule.DisplayName())
	}
	fmt.Fprintln(out)

	fmt.Fprintln(out, "Server:")
	fmt.Fprintf(out, "  └─ Solve API Port:    %d\n", cfg.Server.Port)

	fmt.Fprintln(out, "Metrics:")
	if cfg.Metrics.Enabled {
		fmt.Fprintf(out, "  └─ Status: Enabled on http://localhost:%d/metrics\n", cfg.Metrics.Port)
	} else {
		fmt.Fprintln(out, "  └─ Status: Disabled")
	}
	fmt.Fprintln(out)

	fmt.Fprintln(out, "═══════════════════════════════════════════════════════════")
	return nil
}

// startMetrics launches the standalone metrics listener when the config
// enables it, so scrapes need not go through the API port. Reports whether
// a listener was started.
func startMetrics(cfg *Config) bool {
	if !cfg.Metrics.Enabled {
		return false
	}
	go func() {
		log.Printf("Starting metrics server on :%d\n", cfg.Metrics.Port)
		if err := metrics.StartServer(cfg.Metrics.Port); err != nil {
			log.Printf("Metrics server error: %v\n", err)
		}
	}()
	return true
}

// loadInstance reads the instance from a file, or returns the built-in
// sample when requested.
func loadInstance(file string, sample bool) (*jssp.Instance, error) {
	if sample {
		return parser.Sample(), nil
	}
	if file == "" {
		return nil, fmt.Errorf("an instance is required (use --file or --sample)")
	}
	return parser.ParseFile(file)
}

// pickRule resolves the dispatch rule from the flag, falling back to the
// config file.
func pickRule(flagValue string, cfg *Config) (solver.Rule, error) {
	if flagValue != "" {
		return solver.ParseRule(flagValue)
	}
	if cfg.Solver.Algorithm != "" {
		return solver.ParseRule(cfg.Solver.Algorithm)
	}
	return solver.FIFO, nil
}

func pickInt(flagValue, cfgValue int) int {
	if flagValue != 0 {
		return flagValue
	}
	return cfgValue
}

func printSummary(cmd *cobra.Command, rule solver.Rule, result *jssp.Result) {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "\nScheduling completed!")
	fmt.Fprintf(out, "Algorithm: %s\n", rule.DisplayName())
	fmt.Fprintf(out, "Makespan: %d\n", result.Metrics.Makespan)
	fmt.Fprintf(out, "Total Completion Time: %d\n", result.Metrics.TotalCompletionTime)
	fmt.Fprintf(out, "Average Flow Time: %.2f\n", result.Metrics.AvgFlowTime)
	if result.Unplaced > 0 {
		fmt.Fprintf(out, "Warning: %d operation(s) could not be placed\n", result.Unplaced)
	}
}

// loadConfig reads the YAML config. A missing file at the default path is
// not an error: built-in defaults apply so the commands work without setup.
func loadConfig(path string) (*Config, error) {
	cfg := defaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && path == DefaultConfigPath {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config YAML: %w", err)
	}

	return cfg, nil
}

func defaultConfig() *Config {
	cfg := &Config{}
	cfg.Solver.Algorithm = "fifo"
	cfg.Generator.Jobs = 3
	cfg.Generator.Machines = 3
	cfg.Generator.MinTime = 1
	cfg.Generator.MaxTime = 10
	cfg.Export.Format = "text"
	cfg.Metrics.Port = 9090
	cfg.Server.Port = 8080
	return cfg
}
