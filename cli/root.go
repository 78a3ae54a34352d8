package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/magicworld/nativebridge"
)

var (
	k      = koanf.New(".")
	bridge *nativebridge.Bridge
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:          "magicworld",
	Short:        "Invoke the magicworld native library through the FFI bridge",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := initConfig(cmd.Flags()); err != nil {
			return err
		}

		var err error
		logger, err = newLogger(k.Bool("verbose"))
		if err != nil {
			return fmt.Errorf("build logger: %w", err)
		}

		bridge, err = nativebridge.New(nativebridge.Config{
			LibraryPath: k.String("library"),
			SearchPaths: k.Strings("search-path"),
			UseProcess:  k.Bool("process"),
			Logger:      logger,
		})
		return err
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if bridge != nil {
			if err := bridge.Close(); err != nil {
				return err
			}
		}
		if logger != nil {
			_ = logger.Sync()
		}
		return nil
	},
}

func initConfig(flagSet *pflag.FlagSet) error {
	defaults := map[string]interface{}{
		"library":     "",
		"search-path": []string{},
		"process":     false,
		"verbose":     false,
	}
	if err := k.Load(confmap.Provider(defaults, "."), nil); err != nil {
		return fmt.Errorf("error loading defaults: %w", err)
	}

	home, _ := os.UserHomeDir()
	paths := []string{
		filepath.Join(home, ".config", "magicworld", "config.yaml"),
		"config.yaml",
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			continue
		}
		if err := k.Load(file.Provider(p), yaml.Parser()); err != nil {
			return fmt.Errorf("error reading config %s: %w", p, err)
		}
		break
	}

	if err := k.Load(env.Provider("MAGICWORLD_", ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, "MAGICWORLD_")), "_", "-")
	}), nil); err != nil {
		return fmt.Errorf("error loading environment: %w", err)
	}

	if err := k.Load(posflag.Provider(flagSet, ".", k), nil); err != nil {
		return fmt.Errorf("error loading flags: %w", err)
	}
	return nil
}

func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	return cfg.Build()
}

func init() {
	rootCmd.PersistentFlags().String("library", "", "Path to the magicworld native module")
	rootCmd.PersistentFlags().StringSlice("search-path", nil, "Directory searched for the native module before the system loader")
	rootCmd.PersistentFlags().Bool("process", false, "Bind the host process image instead of loading a module")
	rootCmd.PersistentFlags().Bool("verbose", false, "Enable debug logging")

	rootCmd.AddCommand(infoCmd, greetCmd, addCmd, sumCmd, formatCmd, deviceCmd)
}
