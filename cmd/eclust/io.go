package main

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// openInput opens path for reading; "-" means stdin.
func openInput(path string) (io.ReadCloser, error) {
	if path == "" || path == "-" {
		return io.NopCloser(os.Stdin), nil
	}
	return os.Open(path)
}

// readRows parses comma-separated numeric rows. A first row with no numeric
// field is treated as a header and skipped. Blank lines and lines starting
// with '#' are ignored.
func readRows(r io.Reader) ([][]float64, error) {
	cr := csv.NewReader(r)
	cr.Comment = '#'
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	var rows [][]float64
	for record := 1; ; record++ {
		fields, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		row, err := parseRecord(fields)
		if err != nil {
			if record == 1 && isHeader(fields) {
				continue
			}
			return nil, fmt.Errorf("row %d: %w", record, err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// isHeader reports whether no field of record parses as a number.
func isHeader(record []string) bool {
	for _, field := range record {
		if _, err := strconv.ParseFloat(strings.TrimSpace(field), 64); err == nil {
			return false
		}
	}
	return true
}

func parseRecord(record []string) ([]float64, error) {
	row := make([]float64, len(record))
	for i, field := range record {
		v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
		if err != nil {
			return nil, fmt.Errorf("column %d: %w", i+1, err)
		}
		row[i] = v
	}
	return row, nil
}

// readPoints reads one point per row from path.
func readPoints(path string) ([][]float64, error) {
	f, err := openInput(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return readRows(f)
}

// readColumn reads column col of every row from path.
func readColumn(path string, col int) ([]float64, error) {
	rows, err := readPoints(path)
	if err != nil {
		return nil, err
	}
	values := make([]float64, len(rows))
	for i, row := range rows {
		if col >= len(row) {
			return nil, fmt.Errorf("row %d has %d columns, want column %d", i+1, len(row), col+1)
		}
		values[i] = row[col]
	}
	return values, nil
}

// readLabels reads one integer label per row from column col of path.
func readLabels(path string, col int) ([]int, error) {
	values, err := readColumn(path, col)
	if err != nil {
		return nil, err
	}
	labels := make([]int, len(values))
	for i, v := range values {
		if v != float64(int(v)) {
			return nil, fmt.Errorf("row %d: label %v is not an integer", i+1, v)
		}
		labels[i] = int(v)
	}
	return labels, nil
}

// writeLabels writes one label per line.
func writeLabels(w io.Writer, labels []int) error {
	cw := csv.NewWriter(w)
	for _, l := range labels {
		if err := cw.Write([]string{strconv.Itoa(l)}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// writeSample writes value,label rows under a header.
func writeSample(w io.Writer, values []float64, truth []int) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"value", "label"}); err != nil {
		return err
	}
	for i, v := range values {
		record := []string{strconv.FormatFloat(v, 'g', -1, 64), strconv.Itoa(truth[i])}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
