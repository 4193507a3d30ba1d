package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/spektr-org/clusterlens/internal/config"
	"github.com/spektr-org/clusterlens/internal/logger"
	"github.com/spektr-org/clusterlens/session"
)

// ============================================================================
// CLUSTERLENS CLI — Filter and summarize eligibility-cluster exports
// ============================================================================

var version = "dev"

var (
	configPath    string
	logLevel      string
	filePath      string
	clusterColumn string
	outPath       string

	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "clusterlens",
	Short: "Filter, summarize and export eligibility-cluster CSV files",
	Long: `clusterlens loads a clustered eligibility-criteria CSV export, infers a
typed schema, filters rows by per-column predicates and summarizes the
surviving rows per cluster.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		if logLevel != "" {
			cfg.LogLevel = logLevel
		}
		if clusterColumn != "" {
			cfg.ClusterColumn = clusterColumn
		}
		return logger.Init(logger.Config{Level: cfg.LogLevel, File: cfg.LogFile})
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "", "", "(Optional) Path to a YAML, JSON or TOML config file")
	rootCmd.PersistentFlags().StringVarP(&logLevel, "log-level", "", "", "(Optional) Log level: trace, debug, info, warn, error")

	rootCmd.AddCommand(schemaCmd, filterCmd, summarizeCmd, versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		logger.Fatal(err)
	}
}

// ============================================================================
// SHARED HELPERS
// ============================================================================

// addFileFlags registers the flags every data command takes.
func addFileFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&filePath, "file", "f", "", "(Required) Path to the CSV file")
	cmd.Flags().StringVarP(&clusterColumn, "cluster-column", "", "", "(Optional) Cluster-id column; detected from the header when empty")
	_ = cmd.MarkFlagRequired("file")
}

// openSession loads --file into a new session configured from cfg.
func openSession(opts ...session.Option) (*session.Session, error) {
	raw, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", filePath, err)
	}

	opts = append([]session.Option{
		session.WithMaxBytes(cfg.MaxUploadBytes),
		session.WithComma(cfg.Comma()),
		session.WithClusterColumn(cfg.ClusterColumn),
		session.WithPreviewRows(cfg.PreviewRows),
	}, opts...)

	s := session.New(opts...)
	if _, err := s.Upload(filepath.Base(filePath), raw); err != nil {
		return nil, err
	}
	return s, nil
}

// withOutput runs write against --out, or stdout when --out is empty.
func withOutput(write func(w io.Writer) error) error {
	if outPath == "" {
		return write(os.Stdout)
	}

	f, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", outPath, err)
	}
	if err := write(f); err != nil {
		if cerr := f.Close(); cerr != nil {
			logger.Errorf("failed to close %s: %s", outPath, cerr)
		}
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", outPath, err)
	}
	logger.Infof("wrote %s", outPath)
	return nil
}

func writeJSON(w io.Writer, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}
