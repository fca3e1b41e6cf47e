// Package store persists activity events to the date-partitioned journal
// and guards the state directory with the single-instance lock.
package store

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/nodech/sway-matiane/internal/event"
	"github.com/nodech/sway-matiane/internal/json"
	"github.com/nodech/sway-matiane/internal/logging"
)

// EventWriter appends events to the journal file of their UTC date. Open
// creates the file for its start date; any later day's file is not
// created until the first event of that date is written, so quiet days
// leave no file behind.
type EventWriter struct {
	dir  string
	file *os.File
	date civilDate
}

// civilDate is a UTC calendar date.
type civilDate struct {
	year  int
	month time.Month
	day   int
}

func dateOf(t time.Time) civilDate {
	y, m, d := t.UTC().Date()
	return civilDate{year: y, month: m, day: d}
}

func (d civilDate) filename() string {
	return fmt.Sprintf("%04d%02d%02d.log", d.year, d.month, d.day)
}

// Open creates the state directory if needed and opens the journal file
// for now's UTC date in append mode.
func Open(dir string, now time.Time) (*EventWriter, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create state dir: %w", err)
	}

	date := dateOf(now)
	logging.Debugf("opening journal file: %s", date.filename())

	file, err := openAppend(filepath.Join(dir, date.filename()))
	if err != nil {
		return nil, err
	}

	return &EventWriter{dir: dir, file: file, date: date}, nil
}

// Write appends one record, rotating to a new file first when the event's
// UTC date differs from the current file's date. The record is serialized
// in full before the single write call, so a crash can truncate the file
// tail but never interleave records.
func (w *EventWriter) Write(ev *event.TimedEvent) error {
	if err := w.maybeRotate(dateOf(ev.Timestamp.Time)); err != nil {
		return err
	}

	encoded, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}
	encoded = append(encoded, '\n')

	if _, err := w.file.Write(encoded); err != nil {
		return fmt.Errorf("failed to write event: %w", err)
	}
	return nil
}

// Flush forces the OS to commit buffered writes for the current file.
func (w *EventWriter) Flush() error {
	if err := w.file.Sync(); err != nil {
		return fmt.Errorf("failed to flush journal: %w", err)
	}
	return nil
}

// Close flushes and closes the current file.
func (w *EventWriter) Close() error {
	if err := w.Flush(); err != nil {
		w.file.Close()
		return err
	}
	return w.file.Close()
}

func (w *EventWriter) maybeRotate(date civilDate) error {
	if w.date == date {
		return nil
	}

	logging.Debugf("rotating journal file: %s", date.filename())
	file, err := openAppend(filepath.Join(w.dir, date.filename()))
	if err != nil {
		return err
	}

	if err := w.Flush(); err != nil {
		file.Close()
		return err
	}
	w.file.Close()

	w.file = file
	w.date = date
	return nil
}

func openAppend(path string) (*os.File, error) {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open journal file: %w", err)
	}
	return file, nil
}
