package collect

import (
	"context"

	"ebecollect/internal/schema"
	"ebecollect/internal/store"
)

// eventRows buffers one event's rows per table so they can be written in a
// few multi-row inserts.
type eventRows struct {
	eventID int64
	tables  map[string][]store.Row
}

func newEventRows(eventID int64) *eventRows {
	return &eventRows{eventID: eventID, tables: make(map[string][]store.Row)}
}

// add prepends the event id to values.
func (r *eventRows) add(table string, values ...any) {
	row := make(store.Row, 0, len(values)+1)
	row = append(row, r.eventID)
	row = append(row, values...)
	r.tables[table] = append(r.tables[table], row)
}

func (r *eventRows) count(table string) int {
	return len(r.tables[table])
}

func (r *eventRows) flush(ctx context.Context, st store.Store) error {
	for _, table := range schema.DataTables() {
		if err := st.Insert(ctx, table, r.tables[table]); err != nil {
			return err
		}
	}
	return nil
}

func (r *eventRows) total() int {
	n := 0
	for _, rows := range r.tables {
		n += len(rows)
	}
	return n
}
