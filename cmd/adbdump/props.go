package main

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"adbdump/internal/adb"
	"adbdump/internal/cache"
	"adbdump/internal/config"
	"adbdump/internal/props"
	"github.com/spf13/cobra"
)

var propsCmd = &cobra.Command{
	Use:   "props",
	Short: "Show device system properties",
	Long: `Fetch the device's system properties via getprop and display a device
overview followed by the full property list grouped by category.

With --from-file (or props.static_file in the config) a saved getprop
dump is rendered instead, which works without a device attached.`,
	Run: runProps,
}

func init() {
	propsCmd.Flags().Bool("json", false, "Output as JSON")
	propsCmd.Flags().String("from-file", "", "Read properties from a saved getprop dump")
	propsCmd.Flags().String("category", "", "Show only properties in the given category")
	propsCmd.Flags().Bool("overview-only", false, "Show only the device overview")
	propsCmd.Flags().BoolP("verbose", "v", false, "Report skipped property lines")
}

// fetchProps returns the device property map, consulting the process-local
// cache so every consumer in one invocation shares a single getprop call.
// When the bridge fails and a static file is configured, that file is used
// instead. Under verbose, unparsable property lines are reported to stderr.
func fetchProps(cfg *config.Config, br props.Shell, fromFile string, verbose bool) (props.Map, error) {
	if fromFile != "" {
		m, skipped, err := props.LoadFile(fromFile)
		reportSkippedProps(verbose, skipped)
		return m, err
	}

	c := cache.Global()
	if cached := c.Get("bridge:props"); cached != nil {
		return cached.(props.Map), nil
	}

	m, skipped, err := props.Fetch(br)
	if err != nil {
		if cfg.Props.StaticFile != "" {
			fmt.Fprintf(os.Stderr, "Warning: device unreachable, using %s: %v\n", cfg.Props.StaticFile, err)
			m, skipped, err = props.LoadFile(cfg.Props.StaticFile)
			reportSkippedProps(verbose, skipped)
			return m, err
		}
		return nil, err
	}
	reportSkippedProps(verbose, skipped)
	c.Set("bridge:props", m, cache.TTLProps)
	return m, nil
}

func reportSkippedProps(verbose bool, skipped int) {
	if verbose && skipped > 0 {
		fmt.Fprintf(os.Stderr, "Warning: skipped %d unparsable property line(s)\n", skipped)
	}
}

func runProps(cmd *cobra.Command, args []string) {
	jsonOut, _ := cmd.Flags().GetBool("json")
	fromFile, _ := cmd.Flags().GetString("from-file")
	category, _ := cmd.Flags().GetString("category")
	overviewOnly, _ := cmd.Flags().GetBool("overview-only")
	verbose, _ := cmd.Flags().GetBool("verbose")

	cfg := loadConfig()

	var br *adb.Bridge
	if fromFile == "" {
		br = adb.New(cfg.ADB.Path, cfg.ADB.Serial)
		if !br.Available() && cfg.Props.StaticFile == "" {
			fmt.Fprintln(os.Stderr, "Error: adb binary not found (install platform-tools or set adb.path)")
			os.Exit(1)
		}
	}

	m, err := fetchProps(cfg, br, fromFile, verbose)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	overview := props.NewOverview(m)

	if jsonOut {
		out := struct {
			Overview   props.Overview    `json:"overview"`
			Properties map[string]string `json:"properties,omitempty"`
		}{Overview: overview}
		if !overviewOnly {
			out.Properties = m
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		enc.Encode(out)
		return
	}

	printOverview(overview)
	if overviewOnly {
		return
	}

	fmt.Println()
	printCategorized(m, category)
}

func printOverview(o props.Overview) {
	fmt.Println("Device Overview")
	fmt.Println("----------------------------------------")
	rows := []struct{ name, value string }{
		{"Model", o.Model},
		{"Manufacturer", o.Manufacturer},
		{"Android", versionWithSDK(o)},
		{"Security Patch", o.SecurityPatch},
		{"Build ID", o.BuildID},
		{"Fingerprint", o.Fingerprint},
		{"Serial", o.Serial},
		{"Bootloader", o.Bootloader},
		{"Baseband", o.Baseband},
		{"ROM", o.ROMVersion},
		{"Treble", boolString(o.Treble)},
		{"ADB Root", boolString(o.ADBRoot)},
	}
	for _, row := range rows {
		value := row.value
		if value == "" {
			value = "-"
		}
		fmt.Printf("  %-15s %s\n", row.name, value)
	}
}

func versionWithSDK(o props.Overview) string {
	switch {
	case o.AndroidVersion != "" && o.SDK != "":
		return fmt.Sprintf("%s (SDK %s)", o.AndroidVersion, o.SDK)
	case o.AndroidVersion != "":
		return o.AndroidVersion
	case o.SDK != "":
		return "SDK " + o.SDK
	}
	return ""
}

func boolString(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func printCategorized(m props.Map, only string) {
	buckets := props.Categorize(m)

	for _, cat := range props.CategoryOrder {
		keys := buckets[cat]
		if len(keys) == 0 {
			continue
		}
		if only != "" && cat != only {
			continue
		}

		sort.Strings(keys)
		fmt.Printf("[ %s ] (%d)\n", cat, len(keys))
		for _, k := range keys {
			fmt.Printf("  %-45s %s\n", k, m[k])
		}
		fmt.Println()
	}
}
