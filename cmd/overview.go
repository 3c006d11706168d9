package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/s0up4200/tvdeck/display"
	"github.com/s0up4200/tvdeck/tvshows"
)

// overviewConcurrency bounds the number of requests in flight
const overviewConcurrency = 2

// overviewCmd represents the overview command
var overviewCmd = &cobra.Command{
	Use:   "overview",
	Short: "Summarize backend health, shows, distributors and episode stats",
	Args:  cobra.NoArgs,
	RunE:  runOverview,
}

func runOverview(cmd *cobra.Command, args []string) error {
	done := loading("Loading overview...")
	overview := loadOverview(requestContext(cmd), client)
	done()

	fmt.Print(formatter.FormatOverview(overview))
	return nil
}

// loadOverview fetches every section concurrently. A failed section is
// logged and recorded; it never cancels the others.
func loadOverview(ctx context.Context, c *tvshows.Client) display.Overview {
	overview := display.Overview{BaseURL: c.BaseURL()}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(overviewConcurrency)

	// Each goroutine writes only its own fields
	g.Go(func() error {
		resp, err := c.HealthCheck(ctx)
		if err != nil {
			logger.Warn().Err(err).Msg("Health check failed")
			overview.HealthErr = err
			return nil
		}
		overview.Health = resp.Body
		return nil
	})

	g.Go(func() error {
		shows, err := c.Shows(ctx, nil)
		if err != nil {
			logger.Warn().Err(err).Msg("Failed to load shows")
			overview.ShowsErr = err
			return nil
		}
		overview.ShowCount = len(shows)
		return nil
	})

	g.Go(func() error {
		distributors, err := c.Distributors(ctx)
		if err != nil {
			logger.Warn().Err(err).Msg("Failed to load distributors")
			overview.DistributorsErr = err
			return nil
		}
		overview.DistributorCount = len(distributors)
		return nil
	})

	g.Go(func() error {
		resp, err := c.EpisodeStats(ctx)
		if err != nil {
			logger.Warn().Err(err).Msg("Failed to load episode stats")
			overview.StatsErr = err
			return nil
		}
		overview.Stats = resp.Body
		return nil
	})

	// Goroutines never return errors
	_ = g.Wait()

	return overview
}
