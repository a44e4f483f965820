package importer

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/text/encoding/charmap"
)

var (
	// ErrParse marks a structural failure reading a statement file.
	ErrParse = errors.New("parse error")
	// ErrFormat marks an amount or date field that cannot be parsed.
	ErrFormat = errors.New("format error")
	// ErrNoStatement is returned by FindLatest when no file matches.
	ErrNoStatement = errors.New("no statement file")
)

// Columns names the header keys a layout reads.
type Columns struct {
	BookingDate string
	ValueDate   string
	Status      string
	Payer       string
	Recipient   string
	Purpose     string
	Type        string
	IBAN        string
	Amount      string
	CreditorID  string
	MandateRef  string
	CustomerRef string
}

// Layout describes the shape of a bank's statement export.
type Layout struct {
	Name      string
	Delimiter rune
	SkipLines int
	Columns   Columns
}

// Registry holds named statement layouts.
type Registry struct {
	layouts map[string]Layout
}

// NewRegistry creates an empty layout registry.
func NewRegistry() *Registry {
	return &Registry{layouts: make(map[string]Layout)}
}

// Register adds a layout. Panics on duplicate name.
func (r *Registry) Register(l Layout) {
	key := strings.ToLower(l.Name)
	if _, ok := r.layouts[key]; ok {
		panic("duplicate statement layout: " + key)
	}
	r.layouts[key] = l
}

// Get returns the layout registered under name.
func (r *Registry) Get(name string) (Layout, bool) {
	l, ok := r.layouts[strings.ToLower(name)]
	return l, ok
}

// Names returns the registered layout names.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.layouts))
	for k := range r.layouts {
		names = append(names, k)
	}
	return names
}

// DefaultRegistry returns a registry with all built-in layouts.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(DKBLayout())
	return r
}

// Decode converts raw file bytes in the named encoding to a string.
// An empty name means UTF-8.
func Decode(data []byte, encoding string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(encoding)) {
	case "", "utf-8", "utf8":
		return string(data), nil
	case "windows-1252", "cp1252":
		out, err := charmap.Windows1252.NewDecoder().Bytes(data)
		if err != nil {
			return "", fmt.Errorf("decoding windows-1252: %w", err)
		}
		return string(out), nil
	case "iso-8859-1", "latin1":
		out, err := charmap.ISO8859_1.NewDecoder().Bytes(data)
		if err != nil {
			return "", fmt.Errorf("decoding iso-8859-1: %w", err)
		}
		return string(out), nil
	default:
		return "", fmt.Errorf("unsupported encoding %q", encoding)
	}
}

// FileInfo describes a statement file in the import directory.
type FileInfo struct {
	Name string
	Path string
	Date time.Time
}

// fileDateFormat is the date prefix of exported file names,
// e.g. "01-10-2024_Umsatzliste_Girokonto_DE02120300000000202051.csv".
const fileDateFormat = "02-01-2006"

// processedDir is the subdirectory of the import dir for handled files.
const processedDir = "processed"

// FindLatest returns the newest statement in dir whose name contains iban.
// Files without a leading date are ignored.
func FindLatest(dir, iban string) (FileInfo, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return FileInfo{}, fmt.Errorf("%w in %s", ErrNoStatement, dir)
		}
		return FileInfo{}, fmt.Errorf("reading import dir: %w", err)
	}

	want := normalizeIBAN(iban)
	var best FileInfo
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if !strings.HasSuffix(strings.ToLower(name), ".csv") {
			continue
		}
		if want == "" || !strings.Contains(strings.ToUpper(name), want) {
			continue
		}
		if len(name) < len(fileDateFormat) {
			continue
		}
		date, err := time.Parse(fileDateFormat, name[:len(fileDateFormat)])
		if err != nil {
			continue
		}
		if best.Name == "" || date.After(best.Date) || date.Equal(best.Date) && name > best.Name {
			best = FileInfo{Name: name, Path: filepath.Join(dir, name), Date: date}
		}
	}
	if best.Name == "" {
		return FileInfo{}, fmt.Errorf("%w for %s in %s", ErrNoStatement, iban, dir)
	}
	return best, nil
}

// MarkProcessed moves a file from dir to dir/processed/.
func MarkProcessed(dir, fileName string) error {
	dstDir := filepath.Join(dir, processedDir)
	if err := os.MkdirAll(dstDir, 0o755); err != nil {
		return fmt.Errorf("creating processed dir: %w", err)
	}

	src := filepath.Join(dir, fileName)
	dst := filepath.Join(dstDir, fileName)
	if err := os.Rename(src, dst); err != nil {
		return fmt.Errorf("moving %s to processed: %w", fileName, err)
	}
	return nil
}
