package dataset

import (
	"context"
	"log"
	"net/http"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// Loader fetches the dataset once and hands the same Dataset to every caller
// for its lifetime. Only a successful load is kept; a failed attempt is
// retried on the next call.
type Loader struct {
	Source  string
	Timeout time.Duration
	Client  *http.Client

	mu      sync.Mutex
	data    *Dataset
	fetches int
}

// NewLoader creates a loader for a URL or file path.
func NewLoader(source string, timeout time.Duration) *Loader {
	return &Loader{
		Source:  source,
		Timeout: timeout,
		Client:  http.DefaultClient,
	}
}

// Load returns the memoized Dataset, fetching it on first use.
func (l *Loader) Load(ctx context.Context) (*Dataset, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.data != nil {
		return l.data, nil
	}

	ctx, span := otel.Tracer("ipedsviz/dataset").Start(ctx, "dataset.load")
	defer span.End()
	span.SetAttributes(attribute.String("ipedsviz.source", describe(l.Source)))

	if l.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.Timeout)
		defer cancel()
	}

	client := l.Client
	if client == nil {
		client = http.DefaultClient
	}

	l.fetches++
	start := time.Now()
	body, err := open(ctx, client, l.Source)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		log.Printf("dataset.Load: %v", err)
		return nil, err
	}
	defer body.Close()

	ds, err := ReadCSV(body)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		log.Printf("dataset.Load: %s: %v", describe(l.Source), err)
		return nil, err
	}

	span.SetAttributes(
		attribute.Int("ipedsviz.rows", ds.Len()),
		attribute.Int("ipedsviz.columns", len(ds.Columns())),
	)
	log.Printf("dataset.Load: %d rows, %d columns from %s in %s",
		ds.Len(), len(ds.Columns()), describe(l.Source), time.Since(start).Round(time.Millisecond))
	l.data = ds
	return ds, nil
}

// Loaded reports whether a Dataset has been memoized.
func (l *Loader) Loaded() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.data != nil
}

// Fetches returns how many times the source has been read.
func (l *Loader) Fetches() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.fetches
}
