// Package session holds one user's working state: the uploaded dataset, its
// schema and the result of the latest filter run.
//
// A Session is not safe for concurrent use. Sessions share nothing, so
// independent sessions can run in parallel.
package session

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/mitchellh/hashstructure"
	"github.com/oklog/ulid"

	"github.com/spektr-org/clusterlens/dataset"
	"github.com/spektr-org/clusterlens/engine"
	"github.com/spektr-org/clusterlens/export"
	"github.com/spektr-org/clusterlens/internal/logger"
	"github.com/spektr-org/clusterlens/schema"
)

var (
	ErrNoDataset     = errors.New("no dataset uploaded")
	ErrNoResult      = errors.New("no filter result yet")
	ErrUnknownFormat = errors.New("unknown export format")
)

// Export formats.
const (
	FormatCSV     = "csv"
	FormatJSON    = "json"
	FormatParquet = "parquet"
)

// Option configures a Session.
type Option func(*Session)

// WithMaxBytes caps the accepted upload size.
func WithMaxBytes(n int64) Option {
	return func(s *Session) { s.maxBytes = n }
}

// WithComma sets the CSV delimiter for uploads and CSV exports.
func WithComma(r rune) Option {
	return func(s *Session) { s.comma = r }
}

// WithClusterColumn names the cluster-id column instead of resolving it from
// the header.
func WithClusterColumn(name string) Option {
	return func(s *Session) { s.clusterColumn = name }
}

// WithSort sets the summary order of filter results.
func WithSort(by string) Option {
	return func(s *Session) { s.sortBy = by }
}

// WithPreviewRows caps the display table of filter results.
func WithPreviewRows(n int) Option {
	return func(s *Session) { s.previewRows = n }
}

// Session is the state behind one interactive user.
type Session struct {
	ID ulid.ULID

	maxBytes      int64
	comma         rune
	clusterColumn string
	sortBy        string
	previewRows   int

	name      string
	signature string
	ds        *dataset.Dataset
	schema    *schema.Schema

	resultKey uint64
	result    *engine.Result
}

// New starts an empty session with a fresh ULID.
func New(opts ...Option) *Session {
	s := &Session{
		ID:       ulid.MustNew(ulid.Timestamp(time.Now()), rand.Reader),
		maxBytes: dataset.DefaultMaxBytes,
		comma:    ',',
		sortBy:   engine.SortByKey,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Signature identifies an upload by file name, size and content digest.
func Signature(name string, raw []byte) string {
	sum := sha256.Sum256(raw)
	return fmt.Sprintf("%s:%d:%s", name, len(raw), hex.EncodeToString(sum[:]))
}

// Upload loads raw as the session dataset. Re-uploading a file with the same
// signature keeps the current dataset, schema and result and reports false.
// On error the previous state is kept.
func (s *Session) Upload(name string, raw []byte) (bool, error) {
	sig := Signature(name, raw)
	if s.ds != nil && sig == s.signature {
		logger.Debugf("session %s: %s unchanged, keeping loaded dataset", s.ID, name)
		return false, nil
	}

	ds, err := dataset.Load(raw, dataset.WithMaxBytes(s.maxBytes), dataset.WithComma(s.comma))
	if err != nil {
		s.warnKept(name, err)
		return false, fmt.Errorf("failed to load %s: %w", name, err)
	}
	sch, err := schema.Derive(ds, schema.WithClusterColumn(s.clusterColumn))
	if err != nil {
		s.warnKept(name, err)
		return false, fmt.Errorf("failed to derive schema of %s: %w", name, err)
	}

	s.name, s.signature = name, sig
	s.ds, s.schema = ds, sch
	s.result, s.resultKey = nil, 0

	logger.Infof("session %s: loaded %s (%d rows, %d columns, cluster column %q)",
		s.ID, name, ds.Len(), len(sch.Columns), sch.ClusterColumn)
	return true, nil
}

func (s *Session) warnKept(name string, err error) {
	if s.ds != nil {
		logger.Warnf("session %s: rejected %s, keeping %s: %s", s.ID, name, s.name, err)
	}
}

func (s *Session) Name() string              { return s.name }
func (s *Session) Dataset() *dataset.Dataset { return s.ds }
func (s *Session) Schema() *schema.Schema    { return s.schema }

// Result returns the latest filter result, nil before the first run.
func (s *Session) Result() *engine.Result { return s.result }

type resultKey struct {
	Signature string
	Request   engine.FilterRequest
	SortBy    string
	Preview   int
}

// Filter runs req against the session dataset. Running the same request
// again returns the cached result; any other request replaces it.
func (s *Session) Filter(req engine.FilterRequest) (*engine.Result, error) {
	if s.ds == nil {
		return nil, ErrNoDataset
	}

	key, err := hashstructure.Hash(resultKey{
		Signature: s.signature,
		Request:   req.Normalized(),
		SortBy:    s.sortBy,
		Preview:   s.previewRows,
	}, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to hash filter request: %w", err)
	}
	if s.result != nil && key == s.resultKey {
		logger.Debugf("session %s: reusing result %x", s.ID, key)
		return s.result, nil
	}

	result, err := engine.Execute(s.ds, req,
		engine.WithClusterColumn(s.schema.ClusterColumn),
		engine.WithSort(s.sortBy),
		engine.WithPreviewRows(s.previewRows),
	)
	if err != nil {
		return nil, err
	}

	s.result, s.resultKey = result, key
	logger.Infof("session %s: %d of %d rows in %d clusters", s.ID,
		result.Overview.Rows, s.ds.Len(), result.Overview.Clusters)
	return result, nil
}

// Export writes the rows of the latest result in the given format.
func (s *Session) Export(w io.Writer, format string) error {
	if s.ds == nil {
		return ErrNoDataset
	}
	if s.result == nil {
		return ErrNoResult
	}
	return Write(w, s.result.Rows, format, export.WithComma(s.comma))
}

// Write encodes view in the given format. CSV options apply to FormatCSV only.
func Write(w io.Writer, view dataset.View, format string, opts ...export.Option) error {
	switch format {
	case FormatCSV, "":
		return export.WriteCSV(w, view, opts...)
	case FormatJSON:
		return export.WriteJSON(w, view)
	case FormatParquet:
		return export.WriteParquet(w, view)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}
