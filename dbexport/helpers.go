package dbexport

import (
	"fmt"
)

// ScanRow scans the current row into an ordered Row. Values are kept as the
// driver returns them; conversion happens in SerializeRow.
func ScanRow(rows Rows, cols []string) (Row, error) {
	columns := make([]interface{}, len(cols))
	columnPointers := make([]interface{}, len(cols))
	for i := range columns {
		columnPointers[i] = &columns[i]
	}
	if err := rows.Scan(columnPointers...); err != nil {
		return nil, fmt.Errorf("error scanning row: %w", err)
	}
	row := make(Row, len(cols))
	for i, colName := range cols {
		v := columns[i]
		if b, ok := v.([]byte); ok {
			// drivers may reuse the buffer on the next Scan
			v = append([]byte(nil), b...)
		}
		row[i] = Field{Name: colName, Value: v}
	}
	return row, nil
}
