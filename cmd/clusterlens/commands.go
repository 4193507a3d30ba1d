package main

import (
	"fmt"
	"io"
	"os"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/spektr-org/clusterlens/engine"
	"github.com/spektr-org/clusterlens/session"
)

var (
	requestPath string
	search      string
	format      string
	sortBy      string
)

// schemaCmd prints the derived schema.
var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the inferred schema of a CSV file as JSON",
	RunE: func(_ *cobra.Command, _ []string) error {
		s, err := openSession()
		if err != nil {
			return err
		}
		return withOutput(func(w io.Writer) error {
			return writeJSON(w, s.Schema())
		})
	},
}

// filterCmd exports the rows matching a filter request.
var filterCmd = &cobra.Command{
	Use:   "filter",
	Short: "Export the rows matching a filter request (csv, json or parquet)",
	RunE: func(_ *cobra.Command, _ []string) error {
		req, err := readRequest()
		if err != nil {
			return err
		}
		s, err := openSession()
		if err != nil {
			return err
		}
		if _, err := s.Filter(req); err != nil {
			return err
		}
		return withOutput(func(w io.Writer) error {
			return s.Export(w, format)
		})
	},
}

// summarizeCmd prints overview metrics and per-cluster summaries.
var summarizeCmd = &cobra.Command{
	Use:   "summarize",
	Short: "Summarize the rows matching a filter request per cluster",
	PreRunE: func(_ *cobra.Command, _ []string) error {
		if sortBy != engine.SortByKey && sortBy != engine.SortBySize {
			return fmt.Errorf("invalid --sort %q: want %q or %q", sortBy, engine.SortByKey, engine.SortBySize)
		}
		return nil
	},
	RunE: func(_ *cobra.Command, _ []string) error {
		req, err := readRequest()
		if err != nil {
			return err
		}
		s, err := openSession(session.WithSort(sortBy))
		if err != nil {
			return err
		}
		result, err := s.Filter(req)
		if err != nil {
			return err
		}
		return withOutput(func(w io.Writer) error {
			return writeJSON(w, summaryOutput{
				ClusterColumn: result.ClusterColumn,
				Overview:      result.Overview,
				Summaries:     result.Summaries,
			})
		})
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		return nil
	},
	Run: func(_ *cobra.Command, _ []string) {
		fmt.Printf("clusterlens %s\n", version)
	},
}

type summaryOutput struct {
	ClusterColumn string                  `json:"clusterColumn"`
	Overview      engine.Overview         `json:"overview"`
	Summaries     []engine.ClusterSummary `json:"summaries"`
}

// readRequest decodes --request (if given) and applies --search.
func readRequest() (engine.FilterRequest, error) {
	var req engine.FilterRequest
	if requestPath != "" {
		raw, err := os.ReadFile(requestPath)
		if err != nil {
			return req, fmt.Errorf("failed to read request %s: %w", requestPath, err)
		}
		if err := json.Unmarshal(raw, &req); err != nil {
			return req, fmt.Errorf("failed to decode request %s: %w", requestPath, err)
		}
	}
	if search != "" {
		req.Search = search
	}
	return req, nil
}

func init() {
	for _, cmd := range []*cobra.Command{schemaCmd, filterCmd, summarizeCmd} {
		addFileFlags(cmd)
		cmd.Flags().StringVarP(&outPath, "out", "o", "", "(Optional) Write output to this file instead of stdout")
	}

	for _, cmd := range []*cobra.Command{filterCmd, summarizeCmd} {
		cmd.Flags().StringVarP(&requestPath, "request", "r", "", "(Optional) Path to a JSON filter request")
		cmd.Flags().StringVarP(&search, "search", "s", "", "(Optional) Case-insensitive text search over categorical columns")
	}

	filterCmd.Flags().StringVarP(&format, "format", "", session.FormatCSV, "Output format: csv, json, parquet")
	summarizeCmd.Flags().StringVarP(&sortBy, "sort", "", engine.SortByKey, "Summary order: key or size")
}
