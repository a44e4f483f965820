package importlog

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// Status values for an Entry.
const (
	StatusOK     = "ok"
	StatusFailed = "failed"
	StatusDryRun = "dry-run"
)

// Entry is one account import attempt.
type Entry struct {
	Timestamp time.Time
	RunID     string
	SyncID    string
	Account   string
	File      string
	Added     int
	Updated   int
	Skipped   int
	Errors    int
	Status    string
	Message   string
}

// Header is the CSV header for import-log.csv.
var Header = []string{"timestamp", "run_id", "sync_id", "account", "file", "added", "updated", "skipped", "errors", "status", "message"}

const (
	numFields  = 11
	logDir     = "logs"
	logFile    = "import-log.csv"
	colTime    = 0
	colRunID   = 1
	colSyncID  = 2
	colAccount = 3
	colFile    = 4
	colAdded   = 5
	colUpdated = 6
	colSkipped = 7
	colErrors  = 8
	colStatus  = 9
	colMessage = 10
)

// MarshalEntry converts an Entry to a CSV row.
func MarshalEntry(e Entry) []string {
	row := make([]string, numFields)
	row[colTime] = e.Timestamp.Format(time.RFC3339)
	row[colRunID] = e.RunID
	row[colSyncID] = e.SyncID
	row[colAccount] = e.Account
	row[colFile] = e.File
	row[colAdded] = strconv.Itoa(e.Added)
	row[colUpdated] = strconv.Itoa(e.Updated)
	row[colSkipped] = strconv.Itoa(e.Skipped)
	row[colErrors] = strconv.Itoa(e.Errors)
	row[colStatus] = e.Status
	row[colMessage] = e.Message
	return row
}

// UnmarshalEntry converts a CSV row to an Entry.
func UnmarshalEntry(record []string) (Entry, error) {
	if len(record) != numFields {
		return Entry{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	ts, err := time.Parse(time.RFC3339, record[colTime])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing timestamp %q: %w", record[colTime], err)
	}

	var counts [4]int
	for i, col := range []int{colAdded, colUpdated, colSkipped, colErrors} {
		counts[i], err = strconv.Atoi(record[col])
		if err != nil {
			return Entry{}, fmt.Errorf("parsing %s %q: %w", Header[col], record[col], err)
		}
	}

	return Entry{
		Timestamp: ts,
		RunID:     record[colRunID],
		SyncID:    record[colSyncID],
		Account:   record[colAccount],
		File:      record[colFile],
		Added:     counts[0],
		Updated:   counts[1],
		Skipped:   counts[2],
		Errors:    counts[3],
		Status:    record[colStatus],
		Message:   record[colMessage],
	}, nil
}

// Append writes entries to <dataDir>/logs/import-log.csv, creating the file
// and header if needed.
func Append(dataDir string, entries []Entry) error {
	dir := filepath.Join(dataDir, logDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating logs dir: %w", err)
	}

	path := filepath.Join(dir, logFile)
	needsHeader := false
	if _, err := os.Stat(path); os.IsNotExist(err) {
		needsHeader = true
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening import log: %w", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	if needsHeader {
		if err := cw.Write(Header); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}

	for i, e := range entries {
		if err := cw.Write(MarshalEntry(e)); err != nil {
			return fmt.Errorf("writing entry %d: %w", i, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// Read returns all entries from <dataDir>/logs/import-log.csv.
// Returns nil if the file does not exist.
func Read(dataDir string) ([]Entry, error) {
	f, err := os.Open(filepath.Join(dataDir, logDir, logFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening import log: %w", err)
	}
	defer f.Close()

	return readEntries(f)
}

func readEntries(r io.Reader) ([]Entry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading import log CSV: %w", err)
	}

	if len(records) <= 1 {
		return nil, nil
	}

	var entries []Entry
	for i, rec := range records[1:] {
		e, err := UnmarshalEntry(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}
