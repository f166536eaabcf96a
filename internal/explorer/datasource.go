package explorer

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"maps"
	"math"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/distscope/distscope/internal/observability"
	"github.com/spf13/afero"
	"github.com/wandb/simplejsonext"
	"gopkg.in/yaml.v3"
)

// Dataset is one parsed snapshot of the data file.
type Dataset struct {
	// Path is the source path, or "-" for stdin.
	Path string

	// Label names the column or field the values came from, when the
	// format has one.
	Label string

	// Values holds the finite values in file order.
	Values []float64

	// Dropped counts entries that were not finite numbers.
	Dropped int

	LoadedAt time.Time
}

type sourceFormat int

const (
	formatText sourceFormat = iota
	formatJSON
	formatJSONL
	formatCSV
	formatYAML
)

// DataSourceParams configures a DataSource. Zero values select the OS
// filesystem, the process stdin and a no-op logger.
type DataSourceParams struct {
	FileSystem afero.Fs
	Stdin      io.Reader

	// Column selects which column (CSV) or field (JSON/YAML objects)
	// to read. Empty means the first numeric one found.
	Column string

	Logger *observability.CoreLogger
}

// DataSource reads and parses datasets.
//
// The format is chosen by file extension: .json uses JSON with NaN and
// Infinity literals accepted, .jsonl and .ndjson parse one value or
// object per line, .csv uses CSV, .yaml and .yml use YAML, and
// anything else is whitespace-separated numbers. Stdin is sniffed for
// a JSON prefix and otherwise read as plain numbers.
type DataSource struct {
	fs     afero.Fs
	stdin  io.Reader
	column string
	logger *observability.CoreLogger
}

func NewDataSource(params DataSourceParams) *DataSource {
	if params.FileSystem == nil {
		params.FileSystem = afero.NewOsFs()
	}
	if params.Stdin == nil {
		params.Stdin = os.Stdin
	}
	if params.Logger == nil {
		params.Logger = observability.NewNoOpLogger()
	}
	return &DataSource{
		fs:     params.FileSystem,
		stdin:  params.Stdin,
		column: params.Column,
		logger: params.Logger,
	}
}

// Load reads and parses the dataset at path. Non-finite and
// non-numeric entries are dropped, not errors; an unreadable file or
// an unrecognizable structure is.
func (s *DataSource) Load(path string) (*Dataset, error) {
	var raw []byte
	var err error
	if path == "-" {
		raw, err = io.ReadAll(s.stdin)
	} else {
		raw, err = afero.ReadFile(s.fs, path)
	}
	if err != nil {
		return nil, fmt.Errorf("datasource: %w", err)
	}

	ds := &Dataset{Path: path, LoadedAt: time.Now()}
	switch detectFormat(path, raw) {
	case formatJSON:
		err = s.parseJSON(raw, ds)
	case formatJSONL:
		err = s.parseJSONL(raw, ds)
	case formatCSV:
		err = s.parseCSV(raw, ds)
	case formatYAML:
		err = s.parseYAML(raw, ds)
	default:
		err = s.parseText(raw, ds)
	}
	if err != nil {
		return nil, err
	}

	s.logger.Debug(
		"datasource: loaded",
		"path", path,
		"values", len(ds.Values),
		"dropped", ds.Dropped,
	)
	return ds, nil
}

func detectFormat(path string, raw []byte) sourceFormat {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return formatJSON
	case ".jsonl", ".ndjson":
		return formatJSONL
	case ".csv":
		return formatCSV
	case ".yaml", ".yml":
		return formatYAML
	case ".txt", ".dat", ".text":
		return formatText
	}

	// No recognized extension (including stdin): sniff for JSON.
	trimmed := bytes.TrimLeft(raw, " \t\r\n")
	if len(trimmed) > 0 && (trimmed[0] == '[' || trimmed[0] == '{') {
		return formatJSON
	}
	return formatText
}

// appendValue folds one decoded entry into the dataset. JSON numbers
// arrive as float64 or int64, YAML integers as int.
func (ds *Dataset) appendValue(v any) {
	var f float64
	switch v := v.(type) {
	case float64:
		f = v
	case int64:
		f = float64(v)
	case int:
		f = float64(v)
	default:
		ds.Dropped++
		return
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		ds.Dropped++
		return
	}
	ds.Values = append(ds.Values, f)
}

func (s *DataSource) parseJSON(raw []byte, ds *Dataset) error {
	doc, err := simplejsonext.Unmarshal(raw)
	if err != nil {
		return fmt.Errorf("datasource: invalid JSON in %s: %w", ds.Path, err)
	}
	return s.extract(doc, ds)
}

func (s *DataSource) parseJSONL(raw []byte, ds *Dataset) error {
	lineNo := 0
	for line := range bytes.Lines(raw) {
		lineNo++
		line = bytes.TrimSpace(line)
		if len(line) == 0 {
			continue
		}
		doc, err := simplejsonext.Unmarshal(line)
		if err != nil {
			return fmt.Errorf(
				"datasource: invalid JSON on line %d of %s: %w",
				lineNo, ds.Path, err)
		}
		switch doc := doc.(type) {
		case map[string]any:
			field, label, err := s.pickField(doc, true)
			if err != nil {
				return err
			}
			ds.Label = label
			ds.appendValue(field)
		default:
			ds.appendValue(doc)
		}
	}
	return nil
}

func (s *DataSource) parseYAML(raw []byte, ds *Dataset) error {
	var doc any
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("datasource: invalid YAML in %s: %w", ds.Path, err)
	}
	return s.extract(doc, ds)
}

// extract pulls values out of a decoded JSON or YAML document. The
// supported shapes are a flat array of numbers, an array of objects
// with a numeric field, and an object whose selected field is either
// of those.
func (s *DataSource) extract(doc any, ds *Dataset) error {
	switch doc := doc.(type) {
	case []any:
		if len(doc) == 0 {
			return nil
		}
		if obj, ok := doc[0].(map[string]any); ok {
			_, label, err := s.pickField(obj, true)
			if err != nil {
				return err
			}
			ds.Label = label
			for _, elem := range doc {
				obj, ok := elem.(map[string]any)
				if !ok {
					ds.Dropped++
					continue
				}
				ds.appendValue(obj[label])
			}
			return nil
		}
		for _, elem := range doc {
			ds.appendValue(elem)
		}
		return nil

	case map[string]any:
		inner, label, err := s.pickField(doc, false)
		if err != nil {
			return err
		}
		if _, ok := inner.([]any); !ok {
			return fmt.Errorf(
				"datasource: field %q in %s is not an array", label, ds.Path)
		}
		if ds.Label == "" {
			ds.Label = label
		}
		return s.extract(inner, ds)

	default:
		return fmt.Errorf(
			"datasource: %s is not an array or object", ds.Path)
	}
}

// pickField chooses which field of an object holds the data: the
// configured column if set, otherwise the first key in sorted order
// whose value looks usable. numericOnly restricts candidates to scalar
// numbers, for objects that are elements rather than the whole
// document.
func (s *DataSource) pickField(obj map[string]any, numericOnly bool) (any, string, error) {
	if s.column != "" {
		v, ok := obj[s.column]
		if !ok {
			return nil, "", fmt.Errorf(
				"datasource: no field %q in object", s.column)
		}
		return v, s.column, nil
	}
	for _, key := range slices.Sorted(maps.Keys(obj)) {
		switch obj[key].(type) {
		case float64, int64, int:
			return obj[key], key, nil
		case []any:
			if !numericOnly {
				return obj[key], key, nil
			}
		}
	}
	return nil, "", fmt.Errorf("datasource: no numeric field in object")
}

func (s *DataSource) parseCSV(raw []byte, ds *Dataset) error {
	reader := csv.NewReader(bytes.NewReader(raw))
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return fmt.Errorf("datasource: invalid CSV in %s: %w", ds.Path, err)
	}
	if len(rows) == 0 {
		return nil
	}

	// A first row with no parsable number is a header.
	header := rows[0]
	hasHeader := true
	for _, cell := range header {
		if _, err := parseNumber(cell); err == nil {
			hasHeader = false
			break
		}
	}

	col := 0
	if s.column != "" {
		if !hasHeader {
			return fmt.Errorf(
				"datasource: column %q requested but %s has no header row",
				s.column, ds.Path)
		}
		col = slices.Index(header, s.column)
		if col < 0 {
			return fmt.Errorf(
				"datasource: no column %q in %s", s.column, ds.Path)
		}
	} else if hasHeader {
		// Default to the first column that is numeric in the first
		// data row.
		col = -1
		for _, row := range rows[1:] {
			for i, cell := range row {
				if _, err := parseNumber(cell); err == nil {
					col = i
					break
				}
			}
			break
		}
		if col < 0 {
			return fmt.Errorf("datasource: no numeric column in %s", ds.Path)
		}
	}
	if hasHeader {
		ds.Label = header[col]
		rows = rows[1:]
	}

	for _, row := range rows {
		if col >= len(row) {
			ds.Dropped++
			continue
		}
		f, err := parseNumber(row[col])
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			ds.Dropped++
			continue
		}
		ds.Values = append(ds.Values, f)
	}
	return nil
}

func (s *DataSource) parseText(raw []byte, ds *Dataset) error {
	for line := range bytes.Lines(raw) {
		line = bytes.TrimSpace(line)
		if len(line) == 0 || line[0] == '#' {
			continue
		}
		fields := strings.FieldsFunc(string(line), func(r rune) bool {
			return r == ' ' || r == '\t' || r == ','
		})
		for _, field := range fields {
			f, err := parseNumber(field)
			if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
				ds.Dropped++
				continue
			}
			ds.Values = append(ds.Values, f)
		}
	}
	return nil
}

func parseNumber(s string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(s), 64)
}
