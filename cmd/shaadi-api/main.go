package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "shaadi-api",
	Short: "Shaadi Timeline API - wedding planning collaboration backend",
	Long:  `Multi-tenant wedding planning API with role-based permissions, per-task visibility, budget tracking, and a multi-day event timeline.`,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
