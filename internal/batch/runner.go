// Package batch splits a tabular product dataset into bounded-size chunks,
// runs the content generation pipeline over every row, and merges the chunk
// results back into a single ordered dataset. Row failures are recorded in
// place, and a failure that escapes row-level handling downgrades the whole
// chunk rather than aborting the batch.
package batch

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/fpang/ai-commerce-copy/internal/content"
	"github.com/fpang/ai-commerce-copy/internal/csvio"
	"github.com/fpang/ai-commerce-copy/internal/metrics"
)

// NameColumn is the one column every input dataset must carry.
const NameColumn = "product_name"

// maxRowNameLength mirrors the record-level warning threshold so dataset
// validation can flag long names before any model call is made.
const maxRowNameLength = 200

// largeDatasetRows is the row count above which a processing-time warning
// is surfaced to the caller.
const largeDatasetRows = 10000

// generatedColumns are appended to the input schema in output order.
var generatedColumns = []string{
	"generated_title",
	"generated_description",
	"generated_hashtags",
	"processing_status",
	"error_message",
}

// RowProcessor generates content for a single product record. The batch
// runner treats any returned error as a per-row failure.
type RowProcessor interface {
	Process(ctx context.Context, rec content.ProductRecord, tone string) (content.GeneratedContent, error)
}

// ProgressFunc receives cumulative progress after each completed chunk.
type ProgressFunc func(rowsProcessed, totalRows int)

// RowResult is the outcome of processing one input row. Once placed into a
// ChunkResult it is never mutated.
type RowResult struct {
	Record       content.ProductRecord
	Cells        []string
	Content      *content.GeneratedContent
	Status       content.Status
	ErrorMessage string
}

// ChunkResult holds the ordered row results of one processed chunk along
// with the output column schema they share.
type ChunkResult struct {
	Columns []string
	Rows    []RowResult
}

// Result is the merged outcome of a batch run.
type Result struct {
	OperationID string
	Data        *csvio.Dataset
	Rows        int
	Succeeded   int
	Failed      int
	Chunks      int
	Duration    time.Duration
}

// Runner drives chunked batch processing over a dataset.
type Runner struct {
	proc    RowProcessor
	store   *OperationStore
	metrics *metrics.Recorder
}

// NewRunner builds a Runner around the given per-row processor. A nil store
// gets a private one, which still supports recovery for the runner's own
// operations.
func NewRunner(proc RowProcessor, store *OperationStore) *Runner {
	if store == nil {
		store = NewOperationStore()
	}
	return &Runner{proc: proc, store: store}
}

// SetMetrics attaches an EMF recorder that Run flushes on completion.
func (r *Runner) SetMetrics(rec *metrics.Recorder) {
	r.metrics = rec
}

// Store exposes the operation store used for partial-result recovery.
func (r *Runner) Store() *OperationStore {
	return r.store
}

// ValidateDataset checks that a dataset is processable: it must be non-empty
// and carry the product_name column. Rows with missing or very long names
// and oversized datasets produce warnings but do not block processing.
func ValidateDataset(d *csvio.Dataset) content.ValidationOutcome {
	var out content.ValidationOutcome
	out.Valid = true

	if d == nil || len(d.Rows) == 0 {
		out.Valid = false
		out.Errors = append(out.Errors, "file is empty")
		return out
	}
	nameIdx := d.ColumnIndex(NameColumn)
	if nameIdx < 0 {
		out.Valid = false
		out.Errors = append(out.Errors, "missing required columns: "+NameColumn)
		return out
	}

	missing, long := 0, 0
	for _, row := range d.Rows {
		name := strings.TrimSpace(row[nameIdx])
		if name == "" {
			missing++
		} else if len([]rune(name)) > maxRowNameLength {
			long++
		}
	}
	if missing > 0 {
		out.Warnings = append(out.Warnings, fmt.Sprintf("%d rows have missing product names", missing))
	}
	if long > 0 {
		out.Warnings = append(out.Warnings, fmt.Sprintf("%d rows have very long product names", long))
	}
	if len(d.Rows) > largeDatasetRows {
		out.Warnings = append(out.Warnings, fmt.Sprintf("large file with %d rows may take significant time to process", len(d.Rows)))
	}
	return out
}

// Run processes the dataset in chunks of chunkSize rows (a non-positive
// size is replaced by RecommendChunkSize) and returns the merged result.
// The progress sink, if non-nil, is invoked with cumulative row counts
// after each chunk. On error the operation state is retained under the
// returned result's OperationID so completed chunks can be recovered.
func (r *Runner) Run(ctx context.Context, d *csvio.Dataset, tone string, chunkSize int, progress ProgressFunc) (*Result, error) {
	start := time.Now()
	opID := uuid.NewString()
	r.store.Begin(opID)
	res := &Result{OperationID: opID}

	outcome := ValidateDataset(d)
	for _, w := range outcome.Warnings {
		log.Warn().Str("operation_id", opID).Msg(w)
	}
	if !outcome.Valid {
		// No chunks ran, so there is nothing to recover.
		r.store.Clear(opID)
		return res, fmt.Errorf("invalid input file: %s", strings.Join(outcome.Errors, "; "))
	}

	total := len(d.Rows)
	if chunkSize <= 0 {
		chunkSize = RecommendChunkSize(total, 0)
	}

	log.Info().
		Str("operation_id", opID).
		Int("rows", total).
		Int("chunk_size", chunkSize).
		Str("tone", tone).
		Msg("starting batch processing")

	processed := 0
	for offset := 0; offset < total; offset += chunkSize {
		if err := ctx.Err(); err != nil {
			return res, fmt.Errorf("batch aborted after %d of %d rows: %w", processed, total, err)
		}

		end := offset + chunkSize
		if end > total {
			end = total
		}
		rows := d.Rows[offset:end]
		chunkNum := offset/chunkSize + 1

		cr, err := r.processChunk(ctx, d.Columns, rows, tone)
		if err != nil {
			log.Error().
				Str("operation_id", opID).
				Int("chunk", chunkNum).
				Err(err).
				Msg("chunk failed, marking all rows as chunk_error")
			cr = chunkErrorResult(d.Columns, rows, err.Error())
		}

		r.store.Append(opID, cr)
		res.Chunks++
		processed += len(rows)
		if progress != nil {
			progress(processed, total)
		}
	}

	chunks, _ := r.store.Chunks(opID)
	res.Data = MergeChunks(chunks)
	res.Rows = total
	for _, cr := range chunks {
		for _, row := range cr.Rows {
			if row.Status == content.StatusSuccess {
				res.Succeeded++
			} else {
				res.Failed++
			}
		}
	}
	res.Duration = time.Since(start)
	r.store.Clear(opID)

	log.Info().
		Str("operation_id", opID).
		Int("succeeded", res.Succeeded).
		Int("failed", res.Failed).
		Dur("duration", res.Duration).
		Msg("batch processing complete")
	r.recordMetrics(res, tone)

	return res, nil
}

func (r *Runner) recordMetrics(res *Result, tone string) {
	if r.metrics == nil {
		return
	}
	r.metrics.
		Dimension("Tone", tone).
		Property("operation_id", res.OperationID).
		Metric("BatchRows", float64(res.Rows), metrics.UnitCount).
		Metric("BatchSucceeded", float64(res.Succeeded), metrics.UnitCount).
		Metric("BatchFailed", float64(res.Failed), metrics.UnitCount).
		Metric("BatchDuration", float64(res.Duration.Milliseconds()), metrics.UnitMilliseconds)
	r.metrics.Flush()
}

// processChunk runs the row processor over every row of one chunk. A row
// error is recorded on that row alone; a panic escaping row handling is
// converted to an error so the caller can downgrade the whole chunk.
func (r *Runner) processChunk(ctx context.Context, columns []string, rows [][]string, tone string) (cr ChunkResult, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("unexpected chunk failure: %v", p)
		}
	}()

	cr.Columns = outputColumns(columns)
	cr.Rows = make([]RowResult, 0, len(rows))

	for _, cells := range rows {
		rec := recordFromRow(columns, cells)
		generated, perr := r.proc.Process(ctx, rec, tone)
		if perr != nil {
			log.Debug().Str("product", rec.Name).Err(perr).Msg("row failed")
			cr.Rows = append(cr.Rows, RowResult{
				Record:       rec,
				Cells:        cells,
				Status:       content.StatusError,
				ErrorMessage: perr.Error(),
			})
			continue
		}
		cr.Rows = append(cr.Rows, RowResult{
			Record:  rec,
			Cells:   cells,
			Content: &generated,
			Status:  content.StatusSuccess,
		})
	}
	return cr, nil
}

// chunkErrorResult marks every row of a failed chunk with the same error.
func chunkErrorResult(columns []string, rows [][]string, msg string) ChunkResult {
	cr := ChunkResult{
		Columns: outputColumns(columns),
		Rows:    make([]RowResult, 0, len(rows)),
	}
	for _, cells := range rows {
		cr.Rows = append(cr.Rows, RowResult{
			Record:       recordFromRow(columns, cells),
			Cells:        cells,
			Status:       content.StatusChunkError,
			ErrorMessage: msg,
		})
	}
	return cr
}

// recordFromRow builds a ProductRecord from one CSV row. The product_name
// column becomes the name; every other non-empty cell is carried as an
// attribute in column order.
func recordFromRow(columns []string, cells []string) content.ProductRecord {
	var rec content.ProductRecord
	for i, col := range columns {
		if i >= len(cells) {
			break
		}
		val := strings.TrimSpace(cells[i])
		if val == "" {
			continue
		}
		if col == NameColumn {
			rec.Name = val
			continue
		}
		rec.Attributes = append(rec.Attributes, content.Attribute{Key: col, Value: val})
	}
	return rec
}

// outputColumns appends the generated columns to the input schema.
func outputColumns(columns []string) []string {
	out := make([]string, 0, len(columns)+len(generatedColumns))
	out = append(out, columns...)
	out = append(out, generatedColumns...)
	return out
}

// MergeChunks flattens chunk results into one dataset, preserving row order
// and adopting the column schema of the first chunk.
func MergeChunks(chunks []ChunkResult) *csvio.Dataset {
	if len(chunks) == 0 {
		return &csvio.Dataset{}
	}
	d := &csvio.Dataset{Columns: chunks[0].Columns}
	inputCols := len(chunks[0].Columns) - len(generatedColumns)

	for _, cr := range chunks {
		for _, row := range cr.Rows {
			cells := make([]string, inputCols, len(d.Columns))
			copy(cells, row.Cells)
			cells = append(cells, generatedCells(row)...)
			d.Rows = append(d.Rows, cells)
		}
	}
	return d
}

// generatedCells renders the generated columns for one row result.
func generatedCells(row RowResult) []string {
	title, desc, tags := "", "", ""
	if row.Content != nil {
		title = row.Content.Title
		desc = row.Content.Description
		tags = strings.Join(row.Content.Hashtags, " ")
	}
	return []string{title, desc, tags, string(row.Status), row.ErrorMessage}
}
