package importer

import (
	"fmt"

	"github.com/settled-dev/settled/internal/model"
)

// Mapping table column names.
const (
	colProject    = "项目"
	colMappingSKU = "SKU"
)

// mapHeaderScan is how many leading rows are searched for the header.
const mapHeaderScan = 4

// ReadMapping parses a project-SKU mapping CSV or XLSX file. SKU cells
// are kept verbatim; multi-line splitting happens when the mapping
// indices are built.
func ReadMapping(path string) ([]model.MappingRow, error) {
	rows, err := readRows(path)
	if err != nil {
		return nil, err
	}

	required := []string{colProject, colMappingSKU}
	headerIdx, cols, ok := findHeader(rows, required, mapHeaderScan)
	if !ok {
		return nil, fmt.Errorf("mapping table %s: required columns %v not found in the first %d rows", path, required, mapHeaderScan)
	}

	var mappingRows []model.MappingRow
	for _, row := range rows[headerIdx+1:] {
		if rowEmpty(row) {
			continue
		}
		mappingRows = append(mappingRows, model.MappingRow{
			Project: cell(row, cols[colProject]),
			SKUCell: rawCell(row, cols[colMappingSKU]),
		})
	}
	return mappingRows, nil
}

// rawCell keeps interior line breaks intact for multi-SKU cells.
func rawCell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}
