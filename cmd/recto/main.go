package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Version information - will be set at build time
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "recto",
		Short: "IIIF Presentation API service for search-index repositories",
		Long: `Recto serves IIIF Presentation API 2.1 manifests assembled on the fly
from documents in a search index. Metadata is extracted with configurable
jq queries, page images are resolved against a IIIF Image API server, and
full-text search hits are exposed as annotation lists.`,
	}

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(versionCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
