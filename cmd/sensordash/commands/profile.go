package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/Moula-byte/predictive-maintenance-dashboard/pkg/config"
)

type profileDoc struct {
	Seed     uint64                  `yaml:"seed"`
	Samples  int                     `yaml:"samples"`
	Machines []config.MachineProfile `yaml:"machines"`
	Panels   []config.Panel          `yaml:"panels"`
}

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Print the effective fleet profile as YAML",
	Long: `Print the machines, sensor distributions, anomaly windows and dashboard panels
that a run with the same flags would use.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig(viper.GetViper())
		cfg.SkipTelemetry = true

		eng, err := newEngineFrom(cmd.Context(), cfg)
		if err != nil {
			return err
		}

		doc := profileDoc{
			Seed:     eng.Config().Seed,
			Samples:  eng.Config().Samples,
			Machines: eng.Profiles(),
			Panels:   config.DefaultPanels(),
		}

		enc := yaml.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("failed to encode profile: %w", err)
		}
		return enc.Close()
	},
}
