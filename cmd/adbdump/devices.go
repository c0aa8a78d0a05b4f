package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var devicesCmd = &cobra.Command{
	Use:   "devices",
	Short: "List connected devices",
	Run:   runDevices,
}

func init() {
	devicesCmd.Flags().Bool("json", false, "Output as JSON")
}

func runDevices(cmd *cobra.Command, args []string) {
	cfg := loadConfig()
	br := bridge(cfg)

	devices, err := br.Devices()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error listing devices: %v\n", err)
		os.Exit(1)
	}

	jsonOut, _ := cmd.Flags().GetBool("json")
	if jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		enc.Encode(devices)
		return
	}

	if len(devices) == 0 {
		fmt.Println("No devices connected.")
		return
	}

	fmt.Printf("%-24s %-12s %-16s %s\n", "SERIAL", "STATE", "MODEL", "PRODUCT")
	for _, d := range devices {
		model := d.Model
		if model == "" {
			model = "-"
		}
		product := d.Product
		if product == "" {
			product = "-"
		}
		fmt.Printf("%-24s %-12s %-16s %s\n", d.Serial, d.State, model, product)
	}
}
