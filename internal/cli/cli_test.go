package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jobshop-dev/jobshop/internal/solver"
)

func TestBuildCLI(t *testing.T) {
	cmd := BuildCLI()

	assert.NotNil(t, cmd, "BuildCLI should return a non-nil command")
	assert.Equal(t, "jobshop", cmd.Use, "Root command should be 'jobshop'")
	assert.Equal(t, "1.0.0", cmd.Version, "Version should be 1.0.0")

	commands := cmd.Commands()
	commandNames := make(map[string]bool)
	for _, c := range commands {
		commandNames[c.Use] = true
	}

	for _, name := range []string{"solve", "compare", "generate", "gantt", "serve", "status"} {
		assert.True(t, commandNames[name], "Should have %q command", name)
	}

	configFlag := cmd.PersistentFlags().Lookup("config")
	require.NotNil(t, configFlag, "Should have --config flag")
	assert.Equal(t, "configs/default.yaml", configFlag.DefValue, "Default config path should be configs/default.yaml")
}

func TestBuildSolveCommand(t *testing.T) {
	cmd := buildSolveCommand()

	assert.Equal(t, "solve", cmd.Use)
	assert.NotNil(t, cmd.RunE, "RunE function should be set")

	fileFlag := cmd.Flags().Lookup("file")
	require.NotNil(t, fileFlag, "Should have --file flag")
	assert.Equal(t, "f", fileFlag.Shorthand, "Should have -f shorthand")

	for _, name := range []string{"sample", "algorithm", "output", "format", "chart"} {
		assert.NotNil(t, cmd.Flags().Lookup(name), "Should have --%s flag", name)
	}
}

func TestBuildCompareCommand(t *testing.T) {
	cmd := buildCompareCommand()

	assert.Equal(t, "compare", cmd.Use)
	assert.NotNil(t, cmd.RunE, "RunE function should be set")

	first := cmd.Flags().Lookup("first")
	require.NotNil(t, first)
	assert.Equal(t, "fifo", first.DefValue, "First rule should default to fifo")

	second := cmd.Flags().Lookup("second")
	require.NotNil(t, second)
	assert.Equal(t, "spt", second.DefValue, "Second rule should default to spt")
}

func TestBuildGenerateCommand(t *testing.T) {
	cmd := buildGenerateCommand()

	assert.Equal(t, "generate", cmd.Use)
	for _, name := range []string{"output", "sample", "jobs", "machines", "min-time", "max-time", "seed"} {
		assert.NotNil(t, cmd.Flags().Lookup(name), "Should have --%s flag", name)
	}
}

func TestBuildGanttCommand(t *testing.T) {
	cmd := buildGanttCommand()

	assert.Equal(t, "gantt", cmd.Use)
	output := cmd.Flags().Lookup("output")
	require.NotNil(t, output)
	assert.Equal(t, "gantt.png", output.DefValue, "PNG output should default to gantt.png")
	assert.NotNil(t, cmd.Flags().Lookup("ascii"), "Should have --ascii flag")
}

func TestSolveSampleEndToEnd(t *testing.T) {
	var out bytes.Buffer
	cmd := BuildCLI()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"solve", "--sample"})

	require.NoError(t, cmd.Execute(), "Solving the built-in sample should succeed")

	assert.Contains(t, out.String(), "Scheduling completed!")
	assert.Contains(t, out.String(), "Makespan: 14", "FIFO makespan on the sample")
}

func TestSolveRequiresInstance(t *testing.T) {
	var out bytes.Buffer
	cmd := BuildCLI()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"solve"})

	err := cmd.Execute()
	require.Error(t, err, "solve without --file or --sample should fail")
	assert.Contains(t, err.Error(), "an instance is required")
}

func TestGenerateAndSolveFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "instance.txt")

	gen := BuildCLI()
	gen.SetArgs([]string{"generate", "--output", path, "--jobs", "4", "--machines", "3", "--seed", "11"})
	require.NoError(t, gen.Execute(), "generate should write the instance")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "4 3\n"), "Generated file should carry the header")

	var out bytes.Buffer
	slv := BuildCLI()
	slv.SetOut(&out)
	slv.SetArgs([]string{"solve", "--file", path, "--algorithm", "spt"})
	require.NoError(t, slv.Execute(), "Generated instance should solve")
	assert.Contains(t, out.String(), "SPT (Shortest Processing Time)")
}

func TestSolveExportsSolution(t *testing.T) {
	path := filepath.Join(t.TempDir(), "solution.json")

	cmd := BuildCLI()
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetArgs([]string{"solve", "--sample", "--output", path})
	require.NoError(t, cmd.Execute())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "\"makespan\"", "Extension should select JSON")
}

func TestCompareSampleEndToEnd(t *testing.T) {
	var out bytes.Buffer
	cmd := BuildCLI()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"compare", "--sample", "--first", "spt", "--second", "lpt"})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "=== Algorithm Comparison ===")
	assert.Contains(t, out.String(), "Better Solution:")
}

func TestStatusCommand(t *testing.T) {
	var out bytes.Buffer
	cmd := BuildCLI()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"status"})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "jobshop Configuration")
	assert.Contains(t, out.String(), "fifo", "Default algorithm should be listed")
}

func TestLoadConfigMissingDefaultFallsBack(t *testing.T) {
	cfg, err := loadConfig(DefaultConfigPath)
	require.NoError(t, err, "Missing default config is not an error")
	assert.Equal(t, "fifo", cfg.Solver.Algorithm)
	assert.Equal(t, 8080, cfg.Server.Port)
}

func TestLoadConfigMissingExplicitPathFails(t *testing.T) {
	_, err := loadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err, "An explicitly named missing config should fail")
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoadConfigParsesYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	doc := `solver:
  algorithm: lpt
generator:
  jobs: 7
  machines: 5
  min_time: 2
  max_time: 8
  seed: 42
server:
  port: 9999
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	cfg, err := loadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "lpt", cfg.Solver.Algorithm)
	assert.Equal(t, 7, cfg.Generator.Jobs)
	assert.Equal(t, int64(42), cfg.Generator.Seed)
	assert.Equal(t, 9999, cfg.Server.Port)
	assert.Equal(t, "text", cfg.Export.Format, "Unset sections keep their defaults")
}

func TestLoadConfigRejectsBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("solver: [unclosed"), 0o644))

	_, err := loadConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config YAML")
}

func TestStartMetrics(t *testing.T) {
	cfg := defaultConfig()
	assert.False(t, startMetrics(cfg), "Metrics are off by default, nothing should start")

	cfg.Metrics.Enabled = true
	cfg.Metrics.Port = 0 // ephemeral port, the listener just has to come up
	assert.True(t, startMetrics(cfg), "Enabled metrics should launch the listener")
}

func TestPickRule(t *testing.T) {
	cfg := defaultConfig()

	rule, err := pickRule("lpt", cfg)
	require.NoError(t, err)
	assert.Equal(t, solver.LPT, rule, "Flag wins over config")

	cfg.Solver.Algorithm = "spt"
	rule, err = pickRule("", cfg)
	require.NoError(t, err)
	assert.Equal(t, solver.SPT, rule, "Config applies when the flag is empty")

	cfg.Solver.Algorithm = ""
	rule, err = pickRule("", cfg)
	require.NoError(t, err)
	assert.Equal(t, solver.FIFO, rule, "FIFO is the last-resort default")

	_, err = pickRule("bogus", cfg)
	assert.Error(t, err)
}
