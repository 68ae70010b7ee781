package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/Moula-byte/predictive-maintenance-dashboard/pkg/config"
	"github.com/Moula-byte/predictive-maintenance-dashboard/pkg/engine"
	"github.com/Moula-byte/predictive-maintenance-dashboard/pkg/version"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   version.AppName,
	Short: "Synthetic sensor dashboard for predictive maintenance",
	Long: `sensordash simulates an hour of 1 Hz readings from four production machines
(vibration, temperature, oil level, pneumatic pressure, defect rate), injects
anomaly windows and an oil leak, and renders the fleet as a five-panel PNG.

Running it without arguments writes sensor_dashboard.png to the working directory.`,
	Version:       version.Current,
	SilenceUsage:  true,
	SilenceErrors: true,
	Args:          cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		eng, err := newEngine(ctx)
		if err != nil {
			return err
		}
		defer eng.Close(context.WithoutCancel(ctx))

		res, err := eng.Run(ctx)
		if err != nil {
			return err
		}

		printSummary(cmd.OutOrStdout(), res, eng)
		return nil
	},
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("Error: "+err.Error()))
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	setDefaults(viper.GetViper())

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "Config file (default $HOME/.sensordash.yaml)")
	flags.Uint64("seed", config.DefaultSeed, "Random seed; equal seeds give identical data")
	flags.Int("samples", config.DefaultSamples, "Samples per series, one per second")
	flags.StringP("output", "o", config.DefaultOutput, "Image destination: file path or s3://bucket/key")
	flags.String("profiles", "", "HCL fleet definition replacing the built-in machines")
	flags.Int("dpi", config.DefaultDPI, "Image resolution in dots per inch")
	flags.Bool("json-logs", true, "Emit JSON logs on stderr")
	flags.BoolP("verbose", "v", false, "Enable debug logging")
	flags.String("otel-endpoint", "", "OTLP/HTTP endpoint for traces")
	flags.Bool("no-telemetry", false, "Disable tracing")

	flags.VisitAll(func(f *pflag.Flag) {
		if f.Name == "config" {
			return
		}
		_ = viper.BindPFlag(f.Name, f)
	})

	rootCmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		renderHelp(cmd.OutOrStdout(), cmd)
	})

	rootCmd.AddCommand(tableCmd)
	rootCmd.AddCommand(profileCmd)
}

func setDefaults(v *viper.Viper) {
	d := engine.DefaultConfig()
	v.SetDefault("seed", d.Seed)
	v.SetDefault("samples", d.Samples)
	v.SetDefault("output", d.Output)
	v.SetDefault("dpi", d.DPI)
	v.SetDefault("json-logs", d.JsonLogs)
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.SetConfigFile(filepath.Join(home, ".sensordash.yaml"))
			viper.SetConfigType("yaml")
		}
	}
	viper.SetEnvPrefix("SENSORDASH")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil && cfgFile != "" {
		fmt.Fprintf(os.Stderr, "warning: failed to read config %s: %v\n", cfgFile, err)
	}
}

// loadConfig maps flags, env and config file values onto engine settings.
func loadConfig(v *viper.Viper) engine.Config {
	cfg := engine.DefaultConfig()
	cfg.Seed = v.GetUint64("seed")
	cfg.Samples = v.GetInt("samples")
	cfg.Output = v.GetString("output")
	cfg.ProfilesFile = v.GetString("profiles")
	cfg.DPI = v.GetInt("dpi")
	cfg.JsonLogs = v.GetBool("json-logs")
	cfg.Verbose = v.GetBool("verbose")
	cfg.OtelEndpoint = v.GetString("otel-endpoint")
	cfg.SkipTelemetry = v.GetBool("no-telemetry")
	return cfg
}

func newEngine(ctx context.Context) (*engine.Engine, error) {
	return newEngineFrom(ctx, loadConfig(viper.GetViper()))
}

func newEngineFrom(ctx context.Context, cfg engine.Config) (*engine.Engine, error) {
	eng, err := engine.New(ctx, engine.WithConfig(cfg))
	if err != nil {
		if errors.Is(err, config.ErrInvalidProfile) {
			return nil, fmt.Errorf("%w (check --profiles and --samples)", err)
		}
		return nil, err
	}
	return eng, nil
}

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#00FF99")).
			MarginBottom(1)

	flagStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#AAAAAA"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF5F5F"))
)

func renderHelp(w io.Writer, cmd *cobra.Command) {
	fmt.Fprintln(w, titleStyle.Render(fmt.Sprintf("SENSORDASH %s", version.Current)))
	fmt.Fprintln(w, cmd.Short)
	fmt.Fprintln(w)

	fmt.Fprintln(w, titleStyle.Render("USAGE"))
	fmt.Fprintf(w, "  %s\n\n", cmd.UseLine())

	if cmd.HasAvailableSubCommands() {
		fmt.Fprintln(w, titleStyle.Render("COMMANDS"))
		for _, c := range cmd.Commands() {
			if c.IsAvailableCommand() {
				fmt.Fprintf(w, "  %-12s %s\n", c.Name(), c.Short)
			}
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintln(w, titleStyle.Render("FLAGS"))
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		if f.Hidden {
			return
		}
		output := fmt.Sprintf("  --%-15s %s", f.Name, f.Usage)
		if f.DefValue != "" && f.DefValue != "false" && f.DefValue != "0" {
			output += fmt.Sprintf(" (default %s)", f.DefValue)
		}
		fmt.Fprintln(w, flagStyle.Render(output))
	})
	fmt.Fprintln(w)
}
