package signal

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// ReadFunc reads one signal from a measurement file into a Table. The
// pipeline and plotters take this as a capability so tests can substitute
// synthetic readers.
type ReadFunc func(path, signal string) (*Table, error)

// binaryDecoder handles non-delimited measurement formats (MDF and friends).
// It must return the same two-column shape as the CSV reader.
var binaryDecoder ReadFunc

// RegisterBinaryDecoder installs the decoder used for any file extension the
// CSV reader does not claim.
func RegisterBinaryDecoder(d ReadFunc) {
	binaryDecoder = d
}

// Read loads one signal from path, dispatching on file extension:
// delimited text is parsed directly, everything else goes through the
// registered binary decoder.
func Read(path, signal string) (*Table, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".csv" || ext == ".tsv" {
		return ReadCSV(path, signal)
	}
	if binaryDecoder == nil {
		return nil, fmt.Errorf("read %s: no binary decoder registered for %q", filepath.Base(path), ext)
	}
	return binaryDecoder(path, signal)
}

// sniffDelimiter picks the field delimiter from the filename.
func sniffDelimiter(path string) rune {
	if strings.HasSuffix(strings.ToLower(path), ".tsv") {
		return '\t'
	}
	return ','
}

// ReadCSV parses a delimited text file into a {time, signal} table. The
// header must contain the signal column; a "time" column is optional and
// matched case-insensitively. Unparsable value cells become NaN.
func ReadCSV(path, signal string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.Comma = sniffDelimiter(path)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("read csv %s: empty file", filepath.Base(path))
		}
		return nil, fmt.Errorf("read csv header: %w", err)
	}

	timeIdx, valIdx := -1, -1
	for i, h := range header {
		name := strings.TrimSpace(h)
		if strings.EqualFold(name, "time") && timeIdx < 0 {
			timeIdx = i
		}
		if name == signal && valIdx < 0 {
			valIdx = i
		}
	}
	if valIdx < 0 {
		return nil, fmt.Errorf("read csv %s: signal %q not found in header", filepath.Base(path), signal)
	}

	t := &Table{Signal: signal}
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv row: %w", err)
		}
		if valIdx >= len(rec) {
			continue
		}
		t.Values = append(t.Values, parseCell(rec[valIdx]))
		if timeIdx >= 0 {
			if timeIdx < len(rec) {
				t.Time = append(t.Time, parseCell(rec[timeIdx]))
			} else {
				t.Time = append(t.Time, math.NaN())
			}
		}
	}
	return t, nil
}

func parseCell(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return math.NaN()
	}
	return v
}
