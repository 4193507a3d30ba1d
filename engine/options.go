package engine

// ============================================================================
// ENGINE OPTIONS — Functional options for Execute()
// ============================================================================

// Option configures engine behavior via functional options pattern.
type Option func(*config)

type config struct {
	ClusterColumn string // "" = resolve from header names
	SortBy        string // SortByKey or SortBySize
	PreviewRows   int    // table row cap, 0 = all rows
}

// WithClusterColumn names the cluster-id column explicitly.
func WithClusterColumn(name string) Option {
	return func(c *config) {
		c.ClusterColumn = name
	}
}

// WithSort sets the summary order (SortByKey or SortBySize).
func WithSort(by string) Option {
	return func(c *config) {
		c.SortBy = by
	}
}

// WithPreviewRows caps the rows of the display table. 0 renders every row.
func WithPreviewRows(n int) Option {
	return func(c *config) {
		c.PreviewRows = n
	}
}

// applyOptions creates a config from functional options.
func applyOptions(opts []Option) *config {
	cfg := &config{
		SortBy: SortByKey,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}
