// Package eventlog collects the append-only transaction/event records the
// game engine emits. The log is a pure observer: game logic never reads it
// back, it exists for research export.
package eventlog

import (
	"encoding/csv"
	"io"
	"strconv"
	"time"
)

// Record is one immutable game event: a money movement, a quiz resolution,
// or a rent settlement, with before/after balances and tile context.
type Record struct {
	EventType   string    `json:"event_type"`
	Turn        int       `json:"turn"`
	PlayerIndex int       `json:"player_index"`
	PlayerName  string    `json:"player_name"`
	Action      string    `json:"action"`
	Amount      int       `json:"amount"`
	MoneyBefore int       `json:"money_before"`
	MoneyAfter  int       `json:"money_after"`
	TileID      int       `json:"tile_id"`
	TileName    string    `json:"tile_name"`
	Correct     *bool     `json:"correct,omitempty"`
	Notes       string    `json:"notes,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}

// Log is an append-only record sequence.
type Log struct {
	records []Record
}

// New returns an empty log.
func New() *Log {
	return &Log{}
}

// Append adds a record, stamping it with the current time when unset.
func (l *Log) Append(rec Record) {
	if rec.Timestamp.IsZero() {
		rec.Timestamp = time.Now()
	}
	l.records = append(l.records, rec)
}

// Records returns a copy of all records in append order.
func (l *Log) Records() []Record {
	out := make([]Record, len(l.records))
	copy(out, l.records)
	return out
}

// Len returns the number of records.
func (l *Log) Len() int {
	return len(l.records)
}

// csvHeader fixes the export column order. Analysis notebooks key on these
// names, so the schema does not change between exports.
var csvHeader = []string{
	"eventType", "turn", "playerIndex", "playerName", "action", "amount",
	"moneyBefore", "moneyAfter", "tileId", "tileName", "correct", "notes",
	"timestamp",
}

// WriteCSV writes every record as CSV with a header row. Quoting and quote
// doubling follow RFC 4180 via encoding/csv.
func (l *Log) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, rec := range l.records {
		correct := ""
		if rec.Correct != nil {
			correct = strconv.FormatBool(*rec.Correct)
		}
		row := []string{
			rec.EventType,
			strconv.Itoa(rec.Turn),
			strconv.Itoa(rec.PlayerIndex),
			rec.PlayerName,
			rec.Action,
			strconv.Itoa(rec.Amount),
			strconv.Itoa(rec.MoneyBefore),
			strconv.Itoa(rec.MoneyAfter),
			strconv.Itoa(rec.TileID),
			rec.TileName,
			correct,
			rec.Notes,
			rec.Timestamp.Format(time.RFC3339),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
