// Package clusterlens filters and summarizes eligibility-criteria cluster
// exports held in memory.
//
// Usage:
//
//	import (
//	    "github.com/spektr-org/clusterlens/dataset"
//	    "github.com/spektr-org/clusterlens/engine"
//	    "github.com/spektr-org/clusterlens/export"
//	    "github.com/spektr-org/clusterlens/schema"
//	)
//
//	ds, err := dataset.Load(raw)
//	sch, err := schema.Derive(ds)
//	rows, err := engine.Apply(ds, engine.FilterRequest{
//	    Predicates: map[string]engine.Predicate{"Type": engine.OneOf("inclusion")},
//	})
//	summaries, err := engine.Summarize(rows, sch.ClusterColumn)
//	out, err := export.EncodeCSV(rows)
//
// The loader fixes every column's type once; filters, summaries and exports
// read the dataset through dataset.View and never copy or modify rows.
// The session package wraps the pipeline for one interactive user and
// cmd/clusterlens exposes it on the command line.
package clusterlens
