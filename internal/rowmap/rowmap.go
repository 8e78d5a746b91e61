// Package rowmap shapes raw query results — ordered column names plus row
// tuples — into records whose JSON encoding preserves column declaration
// order. The shaping functions are pure; Collect adapts pgx.Rows into the
// column/tuple form they consume.
package rowmap

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

// Record is a single result row. Columns holds the column names in
// declaration order; Values holds the corresponding values.
type Record struct {
	Columns []string
	Values  []any
}

// Empty reports whether the record holds no columns, which is how an absent
// row or a statement without a result set shows up.
func (r Record) Empty() bool {
	return len(r.Columns) == 0
}

// Get returns the value of the named column and whether the column exists.
func (r Record) Get(column string) (any, bool) {
	for i, col := range r.Columns {
		if col == column {
			return r.Values[i], true
		}
	}
	return nil, false
}

// MarshalJSON encodes the record as a JSON object with keys in column order.
// An empty record encodes as {}.
func (r Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, col := range r.Columns {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(col)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := json.Marshal(r.Values[i])
		if err != nil {
			return nil, fmt.Errorf("column %q: %w", col, err)
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Single shapes the first row tuple into a Record. No columns or no rows
// produce an empty Record.
func Single(columns []string, tuples [][]any) Record {
	if len(columns) == 0 || len(tuples) == 0 {
		return Record{}
	}
	return Record{Columns: columns, Values: tuples[0]}
}

// List shapes every row tuple into a Record, preserving row order. No columns
// or no rows produce an empty (non-nil) slice.
func List(columns []string, tuples [][]any) []Record {
	records := make([]Record, 0, len(tuples))
	if len(columns) == 0 {
		return records
	}
	for _, tuple := range tuples {
		records = append(records, Record{Columns: columns, Values: tuple})
	}
	return records
}

// Collect drains rows into column names and converted value tuples. The rows
// are always closed.
func Collect(rows pgx.Rows) ([]string, [][]any, error) {
	defer rows.Close()

	fieldDescs := rows.FieldDescriptions()
	columns := make([]string, len(fieldDescs))
	for i, fd := range fieldDescs {
		columns[i] = fd.Name
	}

	var tuples [][]any
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, nil, err
		}
		tuple := make([]any, len(values))
		for i, v := range values {
			tuple[i] = convertValue(v)
		}
		tuples = append(tuples, tuple)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, err
	}
	return columns, tuples, nil
}

// convertValue converts a pgx-returned value to a JSON-friendly Go type.
func convertValue(v any) any {
	switch val := v.(type) {
	case nil:
		return nil
	case time.Time:
		return val.Format(time.RFC3339Nano)
	case float32:
		if math.IsNaN(float64(val)) {
			return "NaN"
		}
		if math.IsInf(float64(val), 1) {
			return "Infinity"
		}
		if math.IsInf(float64(val), -1) {
			return "-Infinity"
		}
		return val
	case float64:
		if math.IsNaN(val) {
			return "NaN"
		}
		if math.IsInf(val, 1) {
			return "Infinity"
		}
		if math.IsInf(val, -1) {
			return "-Infinity"
		}
		return val
	case pgtype.Numeric:
		if !val.Valid {
			return nil
		}
		if val.NaN {
			return "NaN"
		}
		b, err := val.MarshalJSON()
		if err != nil {
			return nil
		}
		return string(b)
	case [16]byte:
		// UUID
		return fmt.Sprintf("%x-%x-%x-%x-%x", val[0:4], val[4:6], val[6:8], val[8:10], val[10:16])
	case []byte:
		// bytea — base64 encode
		return base64.StdEncoding.EncodeToString(val)
	case string:
		return val
	case map[string]any:
		result := make(map[string]any, len(val))
		for k, v := range val {
			result[k] = convertValue(v)
		}
		return result
	case []any:
		result := make([]any, len(val))
		for i, v := range val {
			result[i] = convertValue(v)
		}
		return result
	default:
		return val
	}
}
