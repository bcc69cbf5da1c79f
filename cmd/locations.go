package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/dost0092/hotel-mapped-url/internal/crawler"
	"github.com/dost0092/hotel-mapped-url/internal/model"
)

var locationsFile string

var locationsCmd = &cobra.Command{
	Use:   "locations",
	Short: "Validate and list the crawl seed locations",
	RunE: func(cmd *cobra.Command, _ []string) error {
		path := locationsFile
		if path == "" {
			path = cfg.Locations.Path
		}

		locations, err := crawler.LoadLocations(path)
		if err != nil {
			return err
		}

		if len(locations) == 0 {
			fmt.Fprintln(os.Stderr, "No locations configured.")
			return nil
		}

		formatLocations(os.Stdout, locations)
		return nil
	},
}

func init() {
	locationsCmd.Flags().StringVar(&locationsFile, "file", "", "seed file path (default from config)")
	rootCmd.AddCommand(locationsCmd)
}

func formatLocations(out io.Writer, locations []model.Location) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "NAME\tURL")
	_, _ = fmt.Fprintln(w, "----\t---")
	for _, loc := range locations {
		name := loc.Name
		if name == "" {
			name = "-"
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\n", name, loc.URL)
	}
	_ = w.Flush()
}
