package main

import (
	"fmt"
	"os"

	"adbdump/internal/adb"
	"adbdump/internal/config"
	"adbdump/internal/version"
	"github.com/spf13/cobra"
)

var (
	cfgFile   string
	adbPath   string
	adbSerial string
)

var rootCmd = &cobra.Command{
	Use:   "adbdump",
	Short: "Android partition dump and property inspection tool",
	Long: `adbdump talks to a connected Android device through adb to list MMC
block partitions, dump their raw contents to local image files, and
inspect device system properties.`,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the adbdump version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(version.Version)
	},
}

// loadConfig loads the config file and applies command-line overrides.
func loadConfig() *config.Config {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if adbPath != "" {
		cfg.ADB.Path = adbPath
	}
	if adbSerial != "" {
		cfg.ADB.Serial = adbSerial
	}
	return cfg
}

// bridge builds the device bridge from config, exiting if adb is missing.
func bridge(cfg *config.Config) *adb.Bridge {
	br := adb.New(cfg.ADB.Path, cfg.ADB.Serial)
	if !br.Available() {
		fmt.Fprintln(os.Stderr, "Error: adb binary not found (install platform-tools or set adb.path)")
		os.Exit(1)
	}
	return br
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is /etc/adbdump/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&adbPath, "adb", "", "path to the adb binary")
	rootCmd.PersistentFlags().StringVarP(&adbSerial, "serial", "s", "", "device serial to target")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(devicesCmd)
	rootCmd.AddCommand(partitionsCmd)
	rootCmd.AddCommand(dumpCmd)
	rootCmd.AddCommand(propsCmd)
	rootCmd.AddCommand(historyCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
