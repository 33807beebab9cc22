package table

import (
	"encoding/json"
	"fmt"
)

// RowsOf converts typed records to rows through their JSON field names, so
// column keys match the API's wire names.
func RowsOf[T any](items []T) ([]Row, error) {
	raw, err := json.Marshal(items)
	if err != nil {
		return nil, fmt.Errorf("marshal rows: %w", err)
	}
	var rows []Row
	if err := json.Unmarshal(raw, &rows); err != nil {
		return nil, fmt.Errorf("unmarshal rows: %w", err)
	}
	return rows, nil
}
