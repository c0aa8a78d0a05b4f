package main

import (
	"encoding/json"
	"fmt"
	"os"

	"adbdump/internal/config"
	"adbdump/internal/db"
	"adbdump/internal/partition"
	"adbdump/internal/props"
	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

var dumpCmd = &cobra.Command{
	Use:   "dump [partition...]",
	Short: "Dump partitions to local image files",
	Long: `Dump the raw contents of the named partitions to <label>.img files in
the output directory.

Each partition is read on the device through dd on its by-name block
device and streamed over adb exec-out. Dumps run one at a time; a
failed partition does not stop the rest of the batch. Files from dumps
not reported as done are removed.`,
	Run: runDump,
}

func init() {
	dumpCmd.Flags().Bool("all", false, "Dump every listed partition")
	dumpCmd.Flags().StringP("out", "o", "", "Output directory (default ./dumped)")
	dumpCmd.Flags().Bool("json", false, "Output results as JSON")
	dumpCmd.Flags().Bool("no-history", false, "Do not record this session in the history database")
	dumpCmd.Flags().BoolP("verbose", "v", false, "Report skipped listing lines")
}

type dumpJSON struct {
	Label     string `json:"label"`
	Dest      string `json:"dest,omitempty"`
	Outcome   string `json:"outcome"`
	SizeBytes int64  `json:"size_bytes,omitempty"`
	Error     string `json:"error,omitempty"`
}

func runDump(cmd *cobra.Command, args []string) {
	all, _ := cmd.Flags().GetBool("all")
	outFlag, _ := cmd.Flags().GetString("out")
	jsonOut, _ := cmd.Flags().GetBool("json")
	noHistory, _ := cmd.Flags().GetBool("no-history")
	verbose, _ := cmd.Flags().GetBool("verbose")

	if !all && len(args) == 0 {
		fmt.Fprintln(os.Stderr, "Error: no partitions specified (name partitions or pass --all)")
		os.Exit(1)
	}

	cfg := loadConfig()
	br := bridge(cfg)

	outDir := outFlag
	if outDir == "" {
		outDir = cfg.Output.Dir
	}
	outDir = config.ResolveOutputDir(outDir)

	labels := args
	if all {
		records, err := listPartitions(br, verbose)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		labels = make([]string, 0, len(records))
		for _, r := range records {
			labels = append(labels, r.Label)
		}
		if len(labels) == 0 {
			fmt.Fprintln(os.Stderr, "Error: no partitions found on device")
			os.Exit(1)
		}
	}

	// The listing supplies node metadata for the history records; under
	// --all this is a cache hit on the expansion above. With explicit
	// labels a failed listing is not fatal: the by-name device directory
	// is authoritative on the device side.
	records, listErr := listPartitions(br, verbose)
	if listErr != nil {
		fmt.Fprintf(os.Stderr, "Warning: partition listing unavailable: %v\n", listErr)
	}
	nodes := newNodeIndex(records)

	var history *db.DB
	var sessionID string
	if !noHistory {
		var err error
		history, err = db.New(cfg.Database.Path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: history database unavailable: %v\n", err)
		} else {
			defer history.Close()
			sessionID = uuid.NewString()
			session := &db.Session{
				ID:           sessionID,
				DeviceSerial: cfg.ADB.Serial,
				OutputDir:    outDir,
			}
			// Best-effort device identity from the cached property map.
			if m, err := fetchProps(cfg, br, "", verbose); err == nil {
				o := props.NewOverview(m)
				session.DeviceModel = o.Model
				if session.DeviceSerial == "" {
					session.DeviceSerial = o.Serial
				}
			}
			if err := history.CreateSession(session); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
				history = nil
			}
		}
	}

	tty := isatty.IsTerminal(os.Stdout.Fd()) && !jsonOut
	progress := func(label string) {
		if tty {
			fmt.Printf("Dumping %s...\r", label)
		}
	}

	results, err := partition.DumpAll(br, labels, outDir, progress)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	var done, failed, invalid int
	for _, res := range results {
		switch res.Outcome {
		case partition.OutcomeDone:
			done++
		case partition.OutcomeInvalidName:
			invalid++
		default:
			failed++
		}

		if !jsonOut {
			printDumpResult(res)
		}

		if history != nil {
			rec := &db.Dump{
				SessionID:  sessionID,
				Label:      res.Label,
				Node:       nodes.take(res.Label),
				SizeBytes:  res.SizeBytes,
				DestPath:   res.DestPath,
				Outcome:    string(res.Outcome),
				DurationMS: res.Duration.Milliseconds(),
			}
			if res.Err != nil {
				rec.Error = res.Err.Error()
			}
			if err := history.RecordDump(rec); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
			}
		}
	}

	if history != nil {
		if err := history.FinishSession(sessionID, done, failed, invalid); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		}
	}

	if jsonOut {
		out := make([]dumpJSON, 0, len(results))
		for _, res := range results {
			j := dumpJSON{
				Label:     res.Label,
				Dest:      res.DestPath,
				Outcome:   string(res.Outcome),
				SizeBytes: res.SizeBytes,
			}
			if res.Err != nil {
				j.Error = res.Err.Error()
			}
			out = append(out, j)
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		enc.Encode(out)
	} else {
		fmt.Printf("Dump complete to %s: %d done, %d failed, %d invalid\n",
			outDir, done, failed, invalid)
	}

	if failed > 0 || invalid > 0 {
		os.Exit(1)
	}
}

// nodeIndex hands out listing nodes per label in listing order. Labels can
// repeat when several unnamed partitions all fall back to "unknown"; popping
// per occurrence keeps each history record attributed to its own node, since
// dump results come back in the same order the labels went in.
type nodeIndex map[string][]string

func newNodeIndex(records []partition.Record) nodeIndex {
	ix := make(nodeIndex)
	for _, r := range records {
		ix[r.Label] = append(ix[r.Label], r.Node)
	}
	return ix
}

// take returns the next unclaimed node for a label, or "" when the label is
// not in the listing (or its occurrences are exhausted).
func (ix nodeIndex) take(label string) string {
	q := ix[label]
	if len(q) == 0 {
		return ""
	}
	ix[label] = q[1:]
	return q[0]
}

func printDumpResult(res partition.Result) {
	switch res.Outcome {
	case partition.OutcomeDone:
		fmt.Printf("%-20s done    %s\n", res.Label, humanize.IBytes(uint64(res.SizeBytes)))
	case partition.OutcomeInvalidName:
		fmt.Printf("%-20s skipped invalid partition name\n", res.Label)
	default:
		fmt.Printf("%-20s failed  %v\n", res.Label, res.Err)
	}
}
