package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/s0up4200/tvdeck/display"
)

// healthCmd represents the health command
var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Test connection to the backend",
	Args:  cobra.NoArgs,
	RunE:  runHealth,
}

// distributorsCmd represents the distributors command
var distributorsCmd = &cobra.Command{
	Use:   "distributors",
	Short: "List distributors",
	Args:  cobra.NoArgs,
	RunE:  runDistributors,
}

// statsCmd represents the stats command
var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show episode statistics",
	Args:  cobra.NoArgs,
	RunE:  runStats,
}

func runHealth(cmd *cobra.Command, args []string) error {
	fmt.Printf("Testing connection to %s...\n", client.BaseURL())

	resp, err := client.HealthCheck(requestContext(cmd))
	if err != nil {
		return err
	}

	fmt.Printf("✓ Connection successful! (HTTP %d)\n", resp.StatusCode)
	return nil
}

func runDistributors(cmd *cobra.Command, args []string) error {
	done := loading("Loading distributors...")
	distributors, err := client.Distributors(requestContext(cmd))
	done()
	if err != nil {
		return err
	}

	fmt.Print(formatter.FormatDistributors(distributors))
	return nil
}

func runStats(cmd *cobra.Command, args []string) error {
	resp, err := client.EpisodeStats(requestContext(cmd))
	if err != nil {
		return err
	}

	fmt.Println("Episode statistics:")
	fmt.Print(display.FormatStats(resp.Body, "  "))
	return nil
}
