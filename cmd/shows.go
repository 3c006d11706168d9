package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/s0up4200/tvdeck/filter"
	"github.com/s0up4200/tvdeck/tvshows"
)

var (
	// list flags
	filterExpr  string
	preset      string
	queryParams map[string]string
	jsonOutput  bool

	// create/update flags
	showTitle       string
	showGenre       string
	showSeasons     int
	showRating      float64
	showDescription string

	// delete flags
	noConfirm bool
)

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List TV shows",
	Long: `List the TV shows known to the backend, optionally narrowed by a filter
expression or a preset from config.

Filter expressions can use ID, Title, Genre, Description, Seasons, Rating,
HasTitle, HasGenre, HasRating, HasDescription and the helpers includes,
hasPrefix, hasSuffix, lower and upper. For example:

  tvdeck list --filter 'Rating >= 8 && includes(Genre, "drama")'`,
	Args: cobra.NoArgs,
	RunE: runList,
}

// getCmd represents the get command
var getCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show a single TV show",
	Args:  cobra.ExactArgs(1),
	RunE:  runGet,
}

// createCmd represents the create command
var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a TV show",
	Args:  cobra.NoArgs,
	RunE:  runCreate,
}

// updateCmd represents the update command
var updateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update a TV show",
	Long:  `Update a TV show. Only the attributes passed as flags are sent.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runUpdate,
}

// deleteCmd represents the delete command
var deleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a TV show",
	Args:  cobra.ExactArgs(1),
	RunE:  runDelete,
}

func init() {
	listCmd.Flags().StringVarP(&filterExpr, "filter", "f", "", "filter expression")
	listCmd.Flags().StringVarP(&preset, "preset", "p", "", "use a preset filter from config")
	listCmd.Flags().StringToStringVar(&queryParams, "param", nil, "query parameter sent to the backend (key=value)")
	listCmd.Flags().BoolVar(&jsonOutput, "json", false, "print the matching records as JSON")

	for _, c := range []*cobra.Command{createCmd, updateCmd} {
		c.Flags().StringVar(&showTitle, "title", "", "show title")
		c.Flags().StringVar(&showGenre, "genre", "", "show genre")
		c.Flags().IntVar(&showSeasons, "seasons", 0, "total number of seasons")
		c.Flags().Float64Var(&showRating, "rating", 0, "IMDb rating")
		c.Flags().StringVar(&showDescription, "description", "", "show description")
	}

	deleteCmd.Flags().BoolVarP(&noConfirm, "yes", "y", false, "skip confirmation prompt")
}

func runList(cmd *cobra.Command, args []string) error {
	expression, err := getFilterExpression()
	if err != nil {
		return err
	}

	var showFilter filter.Filter
	if expression != "" {
		logger.Debug().Str("filter", expression).Msg("Filtering shows")

		compiled, err := compiler.Compile(expression)
		if err != nil {
			return fmt.Errorf("invalid filter expression: %w", err)
		}
		showFilter = compiled
	}

	done := loading("Loading TV shows...")
	raws, err := client.Shows(requestContext(cmd), queryParams)
	done()
	if err != nil {
		return err
	}

	shows := filter.Apply(showFilter, tvshows.DecodeShows(raws))

	if jsonOutput {
		return printJSON(shows)
	}

	fmt.Print(formatter.FormatShowList(shows))
	return nil
}

func runGet(cmd *cobra.Command, args []string) error {
	resp, err := client.GetShow(requestContext(cmd), args[0])
	if err != nil {
		return err
	}

	fmt.Print(formatter.FormatShow(singleShow(resp.Body)))
	return nil
}

func runCreate(cmd *cobra.Command, args []string) error {
	input, err := showInputFromFlags(cmd.Flags())
	if err != nil {
		return err
	}
	if input.Title == "" {
		return fmt.Errorf("--title is required")
	}

	resp, err := client.CreateShow(requestContext(cmd), input)
	if err != nil {
		return err
	}

	show := singleShow(resp.Body)
	fmt.Printf("✓ Created %s", showTitleOrInput(show, input.Title))
	if show.HasID() {
		fmt.Printf(" (ID: %s)", show.IDString())
	}
	fmt.Println()
	return nil
}

func runUpdate(cmd *cobra.Command, args []string) error {
	changes := changedAttributes(cmd.Flags())
	if len(changes) == 0 {
		return fmt.Errorf("nothing to update: pass at least one of --title, --genre, --seasons, --rating, --description")
	}

	if _, err := client.UpdateShow(requestContext(cmd), args[0], changes); err != nil {
		return err
	}

	fmt.Printf("✓ Updated show %s\n", args[0])
	return nil
}

func runDelete(cmd *cobra.Command, args []string) error {
	id := args[0]

	if !noConfirm {
		fmt.Printf("Delete show %s? [y/N]: ", id)
		var response string
		fmt.Scanln(&response)
		if strings.ToLower(strings.TrimSpace(response)) != "y" {
			logger.Info().Str("id", id).Msg("Deletion cancelled")
			return nil
		}
	}

	if _, err := client.DeleteShow(requestContext(cmd), id); err != nil {
		return err
	}

	fmt.Printf("✓ Deleted show %s\n", id)
	return nil
}

// getFilterExpression determines the filter expression to use.
// An empty result means no filtering.
func getFilterExpression() (string, error) {
	// Priority: command line filter > preset
	if filterExpr != "" {
		return filterExpr, nil
	}

	if preset != "" {
		if expression, ok := cfg.Filter.Presets[preset]; ok {
			return expression, nil
		}
		return "", fmt.Errorf("preset '%s' not found in config", preset)
	}

	return "", nil
}

// showInputFromFlags builds a typed payload from the create flags
func showInputFromFlags(flags *pflag.FlagSet) (tvshows.ShowInput, error) {
	input := tvshows.ShowInput{
		Title:       strings.TrimSpace(showTitle),
		Genre:       strings.TrimSpace(showGenre),
		Description: strings.TrimSpace(showDescription),
	}

	if flags.Changed("seasons") {
		if showSeasons < 0 {
			return input, fmt.Errorf("--seasons must not be negative")
		}
		seasons := showSeasons
		input.TotalSeasons = &seasons
	}
	if flags.Changed("rating") {
		if showRating < 0 || showRating > 10 {
			return input, fmt.Errorf("--rating must be between 0 and 10")
		}
		rating := showRating
		input.Rating = &rating
	}

	return input, nil
}

// changedAttributes returns only the attributes whose flags were set
func changedAttributes(flags *pflag.FlagSet) map[string]any {
	changes := make(map[string]any)

	if flags.Changed("title") {
		changes["title"] = showTitle
	}
	if flags.Changed("genre") {
		changes["genre"] = showGenre
	}
	if flags.Changed("seasons") {
		changes["total_seasons"] = showSeasons
	}
	if flags.Changed("rating") {
		changes["imdb_rating"] = showRating
	}
	if flags.Changed("description") {
		changes["description"] = showDescription
	}

	return changes
}

// singleShow decodes a single-record response, unwrapping {"tv_show": {...}}
func singleShow(body []byte) tvshows.ShowRecord {
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(body, &envelope); err == nil {
		if inner, ok := envelope["tv_show"]; ok {
			return tvshows.DecodeShow(inner)
		}
	}
	return tvshows.DecodeShow(body)
}

func showTitleOrInput(show tvshows.ShowRecord, fallback string) string {
	if show.Title != nil && *show.Title != "" {
		return *show.Title
	}
	return fallback
}

func printJSON(shows []tvshows.ShowRecord) error {
	raws := make([]json.RawMessage, 0, len(shows))
	for _, show := range shows {
		raws = append(raws, show.Raw)
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(raws)
}

// requestContext returns the command context, falling back to Background
func requestContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
