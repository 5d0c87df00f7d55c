// Package parsers loads household transaction snapshots from CSV exports.
//
// Snapshots come from whatever the household's banks and budgeting tools
// export, so the package tolerates the usual real-world variation: header
// name aliases, different date formats, empty rows, and the occasional
// malformed record. Bad rows are collected as parse errors rather than
// aborting the whole load.
//
// Example usage:
//
//	parser, err := NewTransactionParser(DefaultTransactionParserConfig())
//	transactions, stats, err := parser.ParseTransactions("snapshot.csv")
package parsers

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"homefinance-recurring-service/pkg/errors"
)

// ParseError describes a problem with one row or field of a snapshot
type ParseError struct {
	Line    int
	Field   string
	Value   string
	Message string
	Err     error
}

func (e *ParseError) Error() string {
	msg := fmt.Sprintf("line %d: %s", e.Line, e.Message)
	if e.Field != "" {
		msg = fmt.Sprintf("line %d (%s=%q): %s", e.Line, e.Field, e.Value, e.Message)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// snapshotReader walks one snapshot CSV file: it owns the open file, the
// header-to-index mapping, and the current line number for error reports.
type snapshotReader struct {
	file      *os.File
	csv       *csv.Reader
	headers   []string
	headerIdx map[string]int
	line      int
}

// openSnapshot opens the file, verifies the leading content is UTF-8, and
// reads and validates the header row against the required column names.
func openSnapshot(filePath string, delimiter rune, hasHeader bool, required []string) (*snapshotReader, error) {
	file, err := os.Open(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.FileError(errors.CodeFileNotFound, filePath, err)
		}
		if os.IsPermission(err) {
			return nil, errors.FileError(errors.CodeFilePermission, filePath, err)
		}
		return nil, errors.FileError(errors.CodeFileCorrupted, filePath, err)
	}

	if err := checkEncoding(file, filePath); err != nil {
		file.Close()
		return nil, err
	}
	if _, err := file.Seek(0, 0); err != nil {
		file.Close()
		return nil, errors.FileError(errors.CodeFileCorrupted, filePath, err)
	}

	reader := csv.NewReader(file)
	reader.Comma = delimiter
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	sr := &snapshotReader{
		file:      file,
		csv:       reader,
		headerIdx: make(map[string]int),
	}

	if err := sr.readHeaders(filePath, hasHeader, required); err != nil {
		file.Close()
		return nil, err
	}

	return sr, nil
}

// checkEncoding scans the first lines for invalid UTF-8, which usually
// means the export was saved in a legacy codepage.
func checkEncoding(file *os.File, filePath string) error {
	scanner := bufio.NewScanner(file)
	for line := 1; scanner.Scan() && line <= 100; line++ {
		if !utf8.Valid(scanner.Bytes()) {
			return errors.ParseError(errors.CodeEncodingError, filePath, line, "encoding", "",
				fmt.Errorf("invalid UTF-8 encoding detected"),
			).WithSuggestion("Save the file in UTF-8 encoding and try again")
		}
	}
	if err := scanner.Err(); err != nil {
		return errors.FileError(errors.CodeFileCorrupted, filePath, err)
	}
	return nil
}

func (sr *snapshotReader) readHeaders(filePath string, hasHeader bool, required []string) error {
	if !hasHeader {
		// Headerless exports must put the required columns in config order
		sr.headers = append(sr.headers, required...)
		for i, h := range sr.headers {
			sr.headerIdx[strings.ToLower(h)] = i
		}
		return nil
	}

	headers, err := sr.csv.Read()
	if err != nil {
		return errors.ParseError(errors.CodeInvalidFormat, filePath, 1, "headers", "", err).
			WithSuggestion("Ensure the file is a valid CSV with a header row")
	}
	sr.line++

	sr.headers = make([]string, len(headers))
	for i, h := range headers {
		sr.headers[i] = strings.TrimSpace(h)
		sr.headerIdx[strings.ToLower(sr.headers[i])] = i
	}

	var missing []string
	for _, h := range required {
		if _, ok := sr.headerIdx[strings.ToLower(h)]; !ok {
			missing = append(missing, h)
		}
	}
	if len(missing) > 0 {
		return errors.ParseError(errors.CodeMissingColumn, filePath, sr.line, "headers",
			strings.Join(missing, ", "), nil,
		).WithSuggestion(fmt.Sprintf("Ensure the CSV file contains these headers: %s", strings.Join(missing, ", ")))
	}

	return nil
}

// next returns the next non-empty record, or io.EOF when the file ends
func (sr *snapshotReader) next() ([]string, error) {
	for {
		record, err := sr.csv.Read()
		if err != nil {
			return nil, err
		}
		sr.line++

		empty := true
		for _, field := range record {
			if strings.TrimSpace(field) != "" {
				empty = false
				break
			}
		}
		if empty {
			continue
		}

		return record, nil
	}
}

// field returns the trimmed value of the named column in the record
func (sr *snapshotReader) field(record []string, name string) (string, error) {
	index, ok := sr.headerIdx[strings.ToLower(name)]
	if !ok {
		return "", fmt.Errorf("column %q not found in headers %v", name, sr.headers)
	}
	if index >= len(record) {
		return "", fmt.Errorf("row has %d fields, column %q is at index %d", len(record), name, index)
	}
	return strings.TrimSpace(record[index]), nil
}

func (sr *snapshotReader) close() error {
	return sr.file.Close()
}

// ParseStats holds statistics about a parsing operation
type ParseStats struct {
	TotalLines    int
	RecordsParsed int
	RecordsValid  int
	ErrorCount    int
	Errors        []*ParseError
}

// NewParseStats creates a new ParseStats instance
func NewParseStats() *ParseStats {
	return &ParseStats{
		Errors: make([]*ParseError, 0),
	}
}

// AddError adds an error to the parsing statistics
func (ps *ParseStats) AddError(err *ParseError) {
	ps.Errors = append(ps.Errors, err)
	ps.ErrorCount++
}

// HasErrors returns true if there were any parsing errors
func (ps *ParseStats) HasErrors() bool {
	return ps.ErrorCount > 0
}

// String returns a human-readable summary of parsing statistics
func (ps *ParseStats) String() string {
	return fmt.Sprintf("Parsed %d lines, %d records (%d valid), %d errors",
		ps.TotalLines, ps.RecordsParsed, ps.RecordsValid, ps.ErrorCount)
}
