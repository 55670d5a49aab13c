package parquetread

import (
	"fmt"
	"strings"

	"github.com/parquet-go/parquet-go"
)

// ValidateColumn checks that column names a flat, non-repeated byte-array
// leaf of the schema. Dotted names address nested fields.
func ValidateColumn(schema *parquet.Schema, column string) (parquet.LeafColumn, error) {
	leaf, ok := schema.Lookup(columnPath(column)...)
	if !ok {
		return parquet.LeafColumn{}, fmt.Errorf("missing column %q; have: %s", column, strings.Join(ColumnNames(schema), ", "))
	}
	if leaf.MaxRepetitionLevel > 0 {
		return parquet.LeafColumn{}, fmt.Errorf("column %q is repeated", column)
	}
	if kind := leaf.Node.Type().Kind(); kind != parquet.ByteArray {
		return parquet.LeafColumn{}, fmt.Errorf("column %q has physical type %s, want BYTE_ARRAY", column, kind)
	}
	return leaf, nil
}

// ColumnNames lists the dotted paths of all leaf columns.
func ColumnNames(schema *parquet.Schema) []string {
	var names []string
	for _, path := range schema.Columns() {
		names = append(names, strings.Join(path, "."))
	}
	return names
}
