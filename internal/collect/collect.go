// Package collect walks a folder of per-event simulation outputs and writes
// their eccentricities, flows, multiplicities and spectra into a store.
package collect

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"

	"go.uber.org/zap"

	"ebecollect/internal/config"
	"ebecollect/internal/schema"
	"ebecollect/internal/store"
)

type Options struct {
	Mode Mode
	// SubfolderPattern selects event folders in filtered modes. A non-empty
	// first capture group is used as the event id.
	SubfolderPattern   string
	MultiplicityFactor float64
	Logger             *zap.Logger
}

type Result struct {
	EventsCollected  int
	EventIDs         []int64
	Rows             map[string]int // inserted rows per table
	DirsSkipped      int
	EccFilesRead     int
	FlowFilesRead    int
	FlowFilesSkipped int
}

type event struct {
	dir string
	id  int64
}

// CreateDatabaseFromEventFolders collects every event folder under root into
// st. Each event is written in its own transaction, so a failure leaves the
// events before it committed and nothing of the failing one. Collecting the
// same folder twice appends its rows twice.
func CreateDatabaseFromEventFolders(ctx context.Context, st store.Store, root string, opts Options) (*Result, error) {
	layout, err := opts.Mode.layout()
	if err != nil {
		return nil, err
	}
	opts = withDefaults(opts)
	log := opts.Logger

	pattern, err := regexp.Compile(opts.SubfolderPattern)
	if err != nil {
		return nil, fmt.Errorf("compiling subfolder pattern: %w", err)
	}

	result := &Result{Rows: make(map[string]int)}
	events, skipped, err := discoverEvents(root, pattern, layout.filtered)
	if err != nil {
		return nil, err
	}
	result.DirsSkipped = skipped

	err = st.InTx(ctx, func(tx store.Store) error {
		if err := schema.EnsureEccentricityTables(ctx, tx); err != nil {
			return err
		}
		return schema.EnsureFlowTables(ctx, tx)
	})
	if err != nil {
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	log.Info("collecting events",
		zap.String("root", root),
		zap.String("mode", string(opts.Mode)),
		zap.Int("events", len(events)),
		zap.Int("skipped_dirs", skipped),
	)

	for _, ev := range events {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		rows := newEventRows(ev.id)
		if err := collectEvent(ev, layout, opts, rows, result); err != nil {
			return result, fmt.Errorf("collecting %s: %w", ev.dir, err)
		}
		if err := st.InTx(ctx, func(tx store.Store) error { return rows.flush(ctx, tx) }); err != nil {
			return result, fmt.Errorf("writing event %d: %w", ev.id, err)
		}

		for table := range rows.tables {
			result.Rows[table] += rows.count(table)
		}
		result.EventsCollected++
		result.EventIDs = append(result.EventIDs, ev.id)
		log.Debug("collected event",
			zap.String("dir", ev.dir),
			zap.Int64("event_id", ev.id),
			zap.Int("rows", rows.total()),
		)
	}

	return result, nil
}

func collectEvent(ev event, layout folderLayout, opts Options, rows *eventRows, result *Result) error {
	eccFiles, err := collectEccentricities(layout.eccDir(ev.dir), rows)
	if err != nil {
		return err
	}
	result.EccFilesRead += eccFiles

	var read, skipped int
	switch layout.flow {
	case flowBinning:
		read, skipped, err = collectBinnedFlow(layout.flowDir(ev.dir), opts.MultiplicityFactor, rows, opts.Logger)
	case flowHydro:
		read, skipped, err = collectHydroFlow(layout.flowDir(ev.dir), rows, opts.Logger)
	}
	if err != nil {
		return err
	}
	result.FlowFilesRead += read
	result.FlowFilesSkipped += skipped
	return nil
}

func withDefaults(opts Options) Options {
	if opts.SubfolderPattern == "" {
		opts.SubfolderPattern = config.DefaultSubfolderPattern
	}
	if opts.MultiplicityFactor == 0 {
		opts.MultiplicityFactor = 1.0
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return opts
}

// discoverEvents lists the immediate subdirectories of root in lexical
// order. Unfiltered, every directory is an event numbered by position.
// Filtered, a directory must match pattern at its start; a non-empty first
// capture group is the event id, else the position among all directories.
// Positions count directories only and start at 1, so a fallback id is never
// 0.
func discoverEvents(root string, pattern *regexp.Regexp, filtered bool) ([]event, int, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, 0, fmt.Errorf("listing event folders: %w", err)
	}

	var events []event
	skipped := 0
	position := 0
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		position++
		dir := filepath.Join(root, entry.Name())

		if !filtered {
			events = append(events, event{dir: dir, id: int64(len(events) + 1)})
			continue
		}

		loc := pattern.FindStringSubmatchIndex(entry.Name())
		if loc == nil || loc[0] != 0 {
			skipped++
			continue
		}
		id := int64(position)
		if len(loc) >= 4 && loc[2] >= 0 && loc[3] > loc[2] {
			capture := entry.Name()[loc[2]:loc[3]]
			parsed, err := strconv.ParseInt(capture, 10, 64)
			if err != nil {
				return nil, 0, fmt.Errorf("event id %q in folder %s: %w", capture, entry.Name(), err)
			}
			id = parsed
		}
		events = append(events, event{dir: dir, id: id})
	}
	return events, skipped, nil
}
