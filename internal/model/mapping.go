package model

// MappingRow is one row of the project-SKU mapping table. The SKU cell
// may hold several newline-separated codes; splitting happens when the
// mapping indices are built.
type MappingRow struct {
	Project string
	SKUCell string
}
