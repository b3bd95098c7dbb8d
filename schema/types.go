// Package schema validates proposed rows against introspected table
// metadata and provides the read-only catalog used to fetch it.
package schema

import "strings"

// ColumnInfo describes one table column. Fetched once per table and
// treated as immutable for the lifetime of a batch.
type ColumnInfo struct {
	Name        string
	SQLType     string
	UDTName     string
	Nullable    bool
	HasDefault  bool
	IsGenerated bool
}

// IsArray reports whether the column's declared type is the array
// family. information_schema reports "ARRAY" with a "_"-prefixed UDT
// name; a "[]" suffix is accepted for callers that pass element types
// directly.
func (c ColumnInfo) IsArray() bool {
	return c.SQLType == "ARRAY" ||
		strings.HasPrefix(c.UDTName, "_") ||
		strings.HasSuffix(c.SQLType, "[]")
}

func findColumn(columns []ColumnInfo, name string) (ColumnInfo, bool) {
	for _, c := range columns {
		if c.Name == name {
			return c, true
		}
	}
	return ColumnInfo{}, false
}
