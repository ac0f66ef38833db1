// Package statement reads bank statement exports (XML, HTML, OFX) into the
// transaction model. Format-specific readers share one assembly pipeline,
// so every source gets the same description parsing, VAT detection,
// counterparty extraction and categorization.
package statement

import (
	"context"
	"fmt"
	"io"

	"github.com/DevTechCode/rachunek-bankowy/internal/model"
)

// Options controls row-level error policy. The default is strict: the
// first bad row aborts the read. BestEffort keeps going and collects the
// failures instead.
type Options struct {
	BestEffort bool
}

// RowError is one row that could not be converted. Path identifies the
// row within the source document.
type RowError struct {
	Path string
	Err  error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e *RowError) Unwrap() error { return e.Err }

// Meta is statement-level information the source carried alongside the
// rows. Fields are empty when the format does not provide them.
type Meta struct {
	Account      string
	DateSince    string
	DateTo       string
	SourceFormat string
}

// Result is one parsed statement. RowErrors is only populated in
// best-effort mode; in strict mode a row failure is returned as the
// error instead.
type Result struct {
	Transactions []*model.Transaction
	RowErrors    []*RowError
	Meta         Meta
}

// Reader converts one statement document into a Result.
type Reader interface {
	Read(ctx context.Context, r io.Reader, opts Options) (*Result, error)
}
