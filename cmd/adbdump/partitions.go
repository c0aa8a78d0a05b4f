package main

import (
	"encoding/json"
	"fmt"
	"math/big"
	"os"

	"adbdump/internal/cache"
	"adbdump/internal/partition"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var partitionsCmd = &cobra.Command{
	Use:   "partitions",
	Short: "List MMC partitions on the device",
	Long: `List the device's MMC block partitions with their labels and sizes.

Partition metadata comes from the kernel sysfs interface; sizes are
reported by the kernel in 512-byte sectors.`,
	Run: runPartitions,
}

func init() {
	partitionsCmd.Flags().Bool("json", false, "Output as JSON")
	partitionsCmd.Flags().BoolP("verbose", "v", false, "Report skipped listing lines")
}

// listPartitions enumerates partitions through the bridge, consulting the
// process-local cache so commands that need the listing twice issue one
// remote call. Under verbose, malformed listing lines the parser skipped are
// reported to stderr; cache hits stay quiet since the fetch already reported.
func listPartitions(br partition.Shell, verbose bool) ([]partition.Record, error) {
	c := cache.Global()
	if cached := c.Get("bridge:partitions"); cached != nil {
		return cached.([]partition.Record), nil
	}

	records, skipped, err := partition.List(br)
	if err != nil {
		return nil, err
	}
	if verbose && skipped > 0 {
		fmt.Fprintf(os.Stderr, "Warning: skipped %d malformed listing line(s)\n", skipped)
	}
	c.Set("bridge:partitions", records, cache.TTLListing)
	return records, nil
}

// sizeString renders a partition size the way the listing displays it:
// human-readable with the exact byte count alongside.
func sizeString(rec partition.Record) string {
	b := rec.SizeBytes()
	if b == nil {
		return "Unknown"
	}
	return fmt.Sprintf("%s (%s bytes)", humanize.BigIBytes(b), humanize.BigComma(new(big.Int).Set(b)))
}

type partitionJSON struct {
	Node        string   `json:"node"`
	Label       string   `json:"label"`
	SizeSectors *big.Int `json:"size_sectors,omitempty"`
	SizeBytes   *big.Int `json:"size_bytes,omitempty"`
}

func runPartitions(cmd *cobra.Command, args []string) {
	cfg := loadConfig()
	br := bridge(cfg)

	verbose, _ := cmd.Flags().GetBool("verbose")
	records, err := listPartitions(br, verbose)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	jsonOut, _ := cmd.Flags().GetBool("json")
	if jsonOut {
		out := make([]partitionJSON, 0, len(records))
		for _, r := range records {
			out = append(out, partitionJSON{
				Node:        r.Node,
				Label:       r.Label,
				SizeSectors: r.Sectors,
				SizeBytes:   r.SizeBytes(),
			})
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		enc.Encode(out)
		return
	}

	if len(records) == 0 {
		fmt.Println("No partitions found.")
		return
	}

	fmt.Printf("%-14s %-20s %s\n", "NODE", "PARTITION", "SIZE")
	for _, r := range records {
		fmt.Printf("%-14s %-20s %s\n", r.Node, r.Label, sizeString(r))
	}
}
