package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"adbdump/internal/db"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect the dump history database",
	Long: `Inspect past dump sessions recorded in the history database.

Every dump invocation (unless run with --no-history) records which
partitions were attempted, where the images went, and how each dump
ended.`,
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent dump sessions",
	Run:   runHistoryList,
}

var historyShowCmd = &cobra.Command{
	Use:   "show <session-id>",
	Short: "Show the dumps in one session",
	Args:  cobra.ExactArgs(1),
	Run:   runHistoryShow,
}

var historyPartitionCmd = &cobra.Command{
	Use:   "partition <label>",
	Short: "Show the dump history of one partition",
	Args:  cobra.ExactArgs(1),
	Run:   runHistoryPartition,
}

func init() {
	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyShowCmd)
	historyCmd.AddCommand(historyPartitionCmd)

	historyListCmd.Flags().Bool("json", false, "Output as JSON")
	historyListCmd.Flags().Int("limit", 20, "Maximum number of sessions to show")
	historyPartitionCmd.Flags().Int("limit", 20, "Maximum number of dumps to show")
}

func openHistory() *db.DB {
	cfg := loadConfig()
	history, err := db.New(cfg.Database.Path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening history database: %v\n", err)
		os.Exit(1)
	}
	return history
}

func runHistoryList(cmd *cobra.Command, args []string) {
	history := openHistory()
	defer history.Close()

	limit, _ := cmd.Flags().GetInt("limit")
	sessions, err := history.GetRecentSessions(limit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if len(sessions) == 0 {
		fmt.Println("No dump sessions recorded.")
		return
	}

	jsonOut, _ := cmd.Flags().GetBool("json")
	if jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		enc.Encode(sessions)
		return
	}

	fmt.Printf("%-36s %-20s %-16s %-6s %-6s %s\n", "SESSION", "STARTED", "DEVICE", "DONE", "FAILED", "OUTPUT")
	fmt.Println(strings.Repeat("-", 100))
	for _, s := range sessions {
		device := s.DeviceModel
		if device == "" {
			device = s.DeviceSerial
		}
		if device == "" {
			device = "-"
		}
		fmt.Printf("%-36s %-20s %-16s %-6d %-6d %s\n",
			s.ID, s.StartedAt.Format("2006-01-02 15:04:05"), device,
			s.Done, s.Failed+s.Invalid, s.OutputDir)
	}
}

func runHistoryShow(cmd *cobra.Command, args []string) {
	history := openHistory()
	defer history.Close()

	session, err := history.GetSession(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if session == nil {
		fmt.Fprintf(os.Stderr, "Session not found: %s\n", args[0])
		os.Exit(1)
	}

	fmt.Printf("Session: %s\n", session.ID)
	fmt.Println(strings.Repeat("-", 40))
	if session.DeviceModel != "" || session.DeviceSerial != "" {
		fmt.Printf("  Device:    %s %s\n", session.DeviceModel, session.DeviceSerial)
	}
	fmt.Printf("  Output:    %s\n", session.OutputDir)
	fmt.Printf("  Started:   %s\n", session.StartedAt.Format("2006-01-02 15:04:05"))
	if session.FinishedAt != nil {
		fmt.Printf("  Finished:  %s\n", session.FinishedAt.Format("2006-01-02 15:04:05"))
	}
	fmt.Printf("  Outcome:   %d done, %d failed, %d invalid\n", session.Done, session.Failed, session.Invalid)

	dumps, err := history.GetSessionDumps(session.ID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if len(dumps) == 0 {
		return
	}

	fmt.Println()
	fmt.Printf("%-20s %-12s %-12s %s\n", "PARTITION", "OUTCOME", "SIZE", "FILE")
	fmt.Println(strings.Repeat("-", 80))
	for _, dump := range dumps {
		printHistoryDump(dump)
	}
}

func runHistoryPartition(cmd *cobra.Command, args []string) {
	history := openHistory()
	defer history.Close()

	limit, _ := cmd.Flags().GetInt("limit")
	dumps, err := history.GetDumpsByLabel(args[0], limit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if len(dumps) == 0 {
		fmt.Printf("No dumps recorded for partition %s.\n", args[0])
		return
	}

	fmt.Printf("%-20s %-12s %-12s %s\n", "TIMESTAMP", "OUTCOME", "SIZE", "FILE")
	fmt.Println(strings.Repeat("-", 80))
	for _, dump := range dumps {
		size := "-"
		if dump.SizeBytes > 0 {
			size = humanize.IBytes(uint64(dump.SizeBytes))
		}
		fmt.Printf("%-20s %-12s %-12s %s\n",
			dump.Timestamp.Format("2006-01-02 15:04:05"),
			strings.ToUpper(dump.Outcome), size, dump.DestPath)
	}
}

func printHistoryDump(dump *db.Dump) {
	size := "-"
	if dump.SizeBytes > 0 {
		size = humanize.IBytes(uint64(dump.SizeBytes))
	}
	file := dump.DestPath
	if file == "" {
		file = "-"
	}
	fmt.Printf("%-20s %-12s %-12s %s\n", dump.Label, strings.ToUpper(dump.Outcome), size, file)
}
