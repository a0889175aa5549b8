package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/aretw0/mindpages"
	"github.com/aretw0/mindpages/pkg/core"
)

var (
	cfgFile string
	conf    = viper.New()
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "mindpages",
	Short: "A notes collection whose editor saves itself",
	Long: `MindPages keeps an ordered collection of note pages in memory.
Edits are buffered in a draft and committed once you stop typing.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := loadConfig(); err != nil {
			return err
		}

		level := slog.LevelInfo
		if conf.GetBool("verbose") {
			level = slog.LevelDebug
		}

		opts := &slog.HandlerOptions{
			Level: level,
		}
		logger := slog.New(slog.NewTextHandler(os.Stderr, opts))
		slog.SetDefault(logger)
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file (yaml, json or toml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().String("seed", "", "YAML file with the pages to start with (default: built-in samples)")

	_ = conf.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	_ = conf.BindPFlag("seed", rootCmd.PersistentFlags().Lookup("seed"))
}

// loadConfig reads the optional config file and MINDPAGES_* variables.
// Flags set on the command line win over both.
func loadConfig() error {
	conf.SetEnvPrefix("MINDPAGES")
	conf.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	conf.AutomaticEnv()

	if cfgFile == "" {
		return nil
	}
	conf.SetConfigFile(cfgFile)
	if err := conf.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to read config %s: %w", cfgFile, err)
	}
	slog.Debug("config loaded", "file", conf.ConfigFileUsed())
	return nil
}

// openStore builds the store from the seed file, or the samples when no
// seed is configured.
func openStore(extra ...mindpages.Option) (*core.Store, error) {
	opts := []mindpages.Option{mindpages.WithLogger(slog.Default())}
	if seed := conf.GetString("seed"); seed != "" {
		opts = append(opts, mindpages.WithSeedFile(seed))
	} else {
		opts = append(opts, mindpages.WithSamples(true))
	}
	return mindpages.NewStore(append(opts, extra...)...)
}
