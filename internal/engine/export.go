package engine

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"path"
	"path/filepath"
	"strconv"

	"github.com/danieljhkim/smokeplan/internal/blob"
	"github.com/danieljhkim/smokeplan/internal/grid"
	"github.com/danieljhkim/smokeplan/internal/state"
)

var csvHeader = []string{
	"date", "weekday", "day", "unit", "position", "item_id", "base_id",
	"rc", "sk", "name", "quantity", "unit_of_measure", "raw_quantity",
	"category", "part_index", "note",
}

// Export writes the flattened plan as CSV or JSON, optionally archiving it.
func (e *Engine) Export(ctx context.Context, req *ExportRequest) (*ExportResult, error) {
	defer e.observe("export", e.clock.Now())

	week, start, err := e.resolveWeek(req.Week)
	if err != nil {
		return nil, err
	}
	format := req.Format
	if format == "" {
		format = FormatCSV
	}
	if format != FormatCSV && format != FormatJSON {
		return nil, fmt.Errorf("%w: unknown export format %q", ErrValidation, format)
	}
	plan, g, err := e.loadPlan(ctx, week)
	if err != nil {
		return nil, err
	}

	records := grid.Flatten(g, plan.Dimensions, start)
	var data []byte
	if format == FormatCSV {
		data, err = encodeCSV(records)
	} else {
		data, err = json.MarshalIndent(records, "", "  ")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to encode export: %w", err)
	}

	outDir := req.OutDir
	if outDir == "" && e.paths != nil {
		outDir = e.paths.Exports
	}
	out := filepath.Join(outDir, grid.ExportName(start)+"."+format)
	if err := e.fs.AtomicWrite(out, data, 0644); err != nil {
		return nil, fmt.Errorf("failed to write export: %w", err)
	}
	e.log.Printf("export week=%s format=%s path=%s", week, format, out)

	result := &ExportResult{
		Week:     week,
		Format:   format,
		Path:     out,
		Records:  len(records),
		Occupied: occupied(records),
		Checksum: e.hasher.HashBytes(data),
	}
	if req.Archive {
		if err := e.archive(ctx, plan, outDir, result); err != nil {
			return nil, err
		}
	}
	return result, nil
}

// archive stores a compressed copy of the plan in the blob store, or next
// to the export when no blob store is configured.
func (e *Engine) archive(ctx context.Context, plan *state.PlanState, outDir string, result *ExportResult) error {
	a, err := e.archives.Encode(plan)
	if err != nil {
		return fmt.Errorf("failed to encode archive: %w", err)
	}
	if e.blob == nil {
		p, err := e.archives.WriteFile(outDir, a)
		if err != nil {
			return err
		}
		result.ArchiveKey = a.Key()
		result.ArchiveLocation = p
		return nil
	}

	key := path.Join(e.cfg.Blob.Prefix, a.Key())
	info, err := e.blob.Put(ctx, key, bytes.NewReader(a.Data), "application/zstd")
	result.ArchiveKey = key
	switch {
	case errors.Is(err, blob.ErrExists):
		result.AlreadyArchived = true
		return nil
	case err != nil:
		e.log.Printf("archive week=%s key=%s failed: %v", a.Header.Week, key, err)
		return fmt.Errorf("failed to upload archive: %w", err)
	}
	result.ArchiveLocation = info.Location
	e.log.Printf("archive week=%s location=%s", a.Header.Week, info.Location)
	return nil
}

func occupied(records []grid.Record) int {
	n := 0
	for _, r := range records {
		if !r.Empty() {
			n++
		}
	}
	return n
}

func encodeCSV(records []grid.Record) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(csvHeader); err != nil {
		return nil, err
	}
	for _, r := range records {
		row := []string{
			r.Date, r.Weekday, strconv.Itoa(r.Day), strconv.Itoa(r.Unit), strconv.Itoa(r.Position),
			r.ItemID, r.BaseID, r.RC, r.SK, r.Name, formatFloat(r.Quantity), r.UnitOfMeasure,
			formatFloat(r.RawQuantity), r.Category, formatInt(r.PartIndex), r.Note,
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

func formatFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func formatInt(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}
