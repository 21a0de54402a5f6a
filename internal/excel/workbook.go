package excel

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Workbook is the in-memory handle for one spreadsheet file. Handles are
// owned by the Cache; tool handlers borrow one for a single operation.
type Workbook struct {
	file *excelize.File
	path string
}

// Path returns the canonical file path backing this workbook.
func (w *Workbook) Path() string {
	return w.path
}

// Save persists the workbook to its backing path, overwriting in place.
// Excelize's own Save restricts the path length to 207 characters; writing
// through os.OpenFile sidesteps that restriction.
func (w *Workbook) Save() error {
	file, err := os.OpenFile(filepath.Clean(w.path), os.O_WRONLY|os.O_TRUNC|os.O_CREATE, os.ModePerm)
	if err != nil {
		return err
	}
	defer file.Close()
	return w.file.Write(file)
}

// SheetNames returns all sheet names in document order.
func (w *Workbook) SheetNames() []string {
	return w.file.GetSheetList()
}

// HasSheet reports whether a sheet with the exact name exists.
// Excelize's own index lookup matches case-insensitively, which would
// make "sheet1" resolve "Sheet1", so the list is scanned directly.
func (w *Workbook) HasSheet(name string) bool {
	for _, sheet := range w.file.GetSheetList() {
		if sheet == name {
			return true
		}
	}
	return false
}

// Sheet resolves a worksheet by exact name. An empty name selects the
// first sheet in document order.
func (w *Workbook) Sheet(name string) (*Worksheet, error) {
	if name == "" {
		sheets := w.file.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("workbook has no sheets: %w", ErrNotFound)
		}
		return &Worksheet{file: w.file, name: sheets[0]}, nil
	}
	if !w.HasSheet(name) {
		return nil, fmt.Errorf("sheet %q: %w", name, ErrNotFound)
	}
	return &Worksheet{file: w.file, name: name}, nil
}

// CreateSheet adds a new empty sheet.
func (w *Workbook) CreateSheet(name string) error {
	if w.HasSheet(name) {
		return fmt.Errorf("sheet %q: %w", name, ErrExists)
	}
	if _, err := w.file.NewSheet(name); err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}
	return nil
}

// CopySheet duplicates a sheet, including values, styles, column widths,
// row heights and merged regions, placing the copy right after the source.
func (w *Workbook) CopySheet(srcName, destName string) error {
	if !w.HasSheet(srcName) {
		return fmt.Errorf("sheet %q: %w", srcName, ErrNotFound)
	}
	srcIndex, err := w.file.GetSheetIndex(srcName)
	if err != nil {
		return fmt.Errorf("sheet %q: %w", srcName, ErrNotFound)
	}
	if w.HasSheet(destName) {
		return fmt.Errorf("sheet %q: %w", destName, ErrExists)
	}
	destIndex, err := w.file.NewSheet(destName)
	if err != nil {
		return fmt.Errorf("failed to create destination sheet: %w", err)
	}
	if err := w.file.CopySheet(srcIndex, destIndex); err != nil {
		return fmt.Errorf("failed to copy sheet: %w", err)
	}
	sheets := w.file.GetSheetList()
	if srcIndex+1 < len(sheets) {
		srcNext := sheets[srcIndex+1]
		if srcNext != srcName && srcNext != destName {
			w.file.MoveSheet(destName, srcNext)
		}
	}
	return nil
}

// RenameSheet renames a sheet in place.
func (w *Workbook) RenameSheet(oldName, newName string) error {
	if !w.HasSheet(oldName) {
		return fmt.Errorf("sheet %q: %w", oldName, ErrNotFound)
	}
	if w.HasSheet(newName) {
		return fmt.Errorf("sheet %q: %w", newName, ErrExists)
	}
	if err := w.file.SetSheetName(oldName, newName); err != nil {
		return fmt.Errorf("failed to rename sheet: %w", err)
	}
	return nil
}

// DeleteSheet removes a sheet. Deleting the only sheet of a workbook is
// rejected because a workbook must always contain at least one.
func (w *Workbook) DeleteSheet(name string) error {
	if !w.HasSheet(name) {
		return fmt.Errorf("sheet %q: %w", name, ErrNotFound)
	}
	if len(w.file.GetSheetList()) == 1 {
		return fmt.Errorf("cannot delete sheet %q: it is the only sheet in the workbook", name)
	}
	if err := w.file.DeleteSheet(name); err != nil {
		return fmt.Errorf("failed to delete sheet: %w", err)
	}
	return nil
}

// AddPivotTable materializes a pivot table over dataRange of sourceSheet
// on a dedicated sheet named "<sourceSheet>_pivot", replacing any previous
// pivot sheet of that name. Returns the pivot sheet name.
func (w *Workbook) AddPivotTable(sourceSheet, dataRange string, rows, columns, values []string, subtotal string) (string, error) {
	pivotSheet := sourceSheet + "_pivot"
	if w.HasSheet(pivotSheet) {
		if err := w.file.DeleteSheet(pivotSheet); err != nil {
			return "", fmt.Errorf("failed to replace pivot sheet: %w", err)
		}
	}
	if _, err := w.file.NewSheet(pivotSheet); err != nil {
		return "", fmt.Errorf("failed to create pivot sheet: %w", err)
	}

	toFields := func(names []string) []excelize.PivotTableField {
		fields := make([]excelize.PivotTableField, len(names))
		for i, n := range names {
			fields[i] = excelize.PivotTableField{Data: n}
		}
		return fields
	}
	data := make([]excelize.PivotTableField, len(values))
	for i, n := range values {
		data[i] = excelize.PivotTableField{
			Data:     n,
			Subtotal: subtotal,
			Name:     fmt.Sprintf("%s of %s", subtotal, n),
		}
	}

	err := w.file.AddPivotTable(&excelize.PivotTableOptions{
		DataRange:       QualifiedRange(sourceSheet, dataRange),
		PivotTableRange: QualifiedRange(pivotSheet, "A3:M20"),
		Rows:            toFields(rows),
		Columns:         toFields(columns),
		Data:            data,
		RowGrandTotals:  true,
		ColGrandTotals:  true,
	})
	if err != nil {
		return "", fmt.Errorf("failed to add pivot table: %w", err)
	}
	return pivotSheet, nil
}

// Worksheet is a named view into one sheet of a workbook. It is always
// re-resolved by name per operation and holds no state of its own.
type Worksheet struct {
	file *excelize.File
	name string
}

// Name returns the sheet name.
func (s *Worksheet) Name() string {
	return s.name
}

func cellName(a Address) (string, error) {
	return excelize.CoordinatesToCellName(a.Col, a.Row)
}

// Dimension returns the sheet's used range. ok is false when the sheet
// cannot report its bounds (empty or dimension-less sheets).
func (s *Worksheet) Dimension() (Range, bool) {
	dim, err := s.file.GetSheetDimension(s.name)
	if err != nil || dim == "" {
		return Range{}, false
	}
	r, err := ParseCellOrRange(dim)
	if err != nil {
		return Range{}, false
	}
	return r, true
}

// Value reads the rendered value of a cell, computing the stored formula
// when the cached value is empty.
func (s *Worksheet) Value(a Address) (string, error) {
	cell, err := cellName(a)
	if err != nil {
		return "", err
	}
	value, err := s.file.GetCellValue(s.name, cell)
	if err != nil {
		return "", fmt.Errorf("failed to get cell value: %w", err)
	}
	if value == "" {
		formula, err := s.file.GetCellFormula(s.name, cell)
		if err != nil {
			return "", fmt.Errorf("failed to get formula: %w", err)
		}
		if formula != "" {
			// A formula excelize cannot evaluate (unsupported function,
			// external reference) must not abort a whole-range read; the
			// stored value stands in for the calculation.
			calculated, err := s.file.CalcCellValue(s.name, cell)
			if err != nil {
				return value, nil
			}
			return calculated, nil
		}
	}
	return value, nil
}

// SetValue writes a value and grows the recorded sheet dimension to
// cover the touched cell.
func (s *Worksheet) SetValue(a Address, value any) error {
	cell, err := cellName(a)
	if err != nil {
		return err
	}
	if err := s.file.SetCellValue(s.name, cell, value); err != nil {
		return err
	}
	return s.updateDimension(a)
}

// SetFormula stores a formula in a cell.
func (s *Worksheet) SetFormula(a Address, formula string) error {
	cell, err := cellName(a)
	if err != nil {
		return err
	}
	if err := s.file.SetCellFormula(s.name, cell, formula); err != nil {
		return err
	}
	return s.updateDimension(a)
}

// updateDimension widens the sheet dimension to include the updated cell.
// Excelize does not maintain the dimension on writes past the current
// bounds, which breaks later dimension-based reads.
func (s *Worksheet) updateDimension(updated Address) error {
	dim, ok := s.Dimension()
	if !ok {
		dim = Range{StartRow: updated.Row, StartCol: updated.Col, EndRow: updated.Row, EndCol: updated.Col}
	}
	if dim.StartRow > updated.Row {
		dim.StartRow = updated.Row
	}
	if dim.EndRow < updated.Row {
		dim.EndRow = updated.Row
	}
	if dim.StartCol > updated.Col {
		dim.StartCol = updated.Col
	}
	if dim.EndCol < updated.Col {
		dim.EndCol = updated.Col
	}
	return s.file.SetSheetDimension(s.name, dim.String())
}

// Merge merges the cells of r into one region.
func (s *Worksheet) Merge(r Range) error {
	topLeft, err := cellName(r.Start())
	if err != nil {
		return err
	}
	bottomRight, err := cellName(r.End())
	if err != nil {
		return err
	}
	return s.file.MergeCell(s.name, topLeft, bottomRight)
}

// Unmerge splits every merged region overlapping r.
func (s *Worksheet) Unmerge(r Range) error {
	topLeft, err := cellName(r.Start())
	if err != nil {
		return err
	}
	bottomRight, err := cellName(r.End())
	if err != nil {
		return err
	}
	return s.file.UnmergeCell(s.name, topLeft, bottomRight)
}

// MergedRegions returns the authoritative list of merged regions as
// reported by the file, not inferred by scanning cells.
func (s *Worksheet) MergedRegions() ([]Range, error) {
	cells, err := s.file.GetMergeCells(s.name)
	if err != nil {
		return nil, fmt.Errorf("failed to get merged regions: %w", err)
	}
	regions := make([]Range, 0, len(cells))
	for _, mc := range cells {
		start, err := ParseAddress(mc.GetStartAxis())
		if err != nil {
			return nil, err
		}
		end, err := ParseAddress(mc.GetEndAxis())
		if err != nil {
			return nil, err
		}
		regions = append(regions, Range{StartRow: start.Row, StartCol: start.Col, EndRow: end.Row, EndCol: end.Col})
	}
	return regions, nil
}

// SetColumnWidth sets the width of a contiguous run of columns.
func (s *Worksheet) SetColumnWidth(startCol, endCol int, width float64) error {
	start, err := ColumnName(startCol)
	if err != nil {
		return err
	}
	end, err := ColumnName(endCol)
	if err != nil {
		return err
	}
	return s.file.SetColWidth(s.name, start, end, width)
}

// SetRowHeight sets the height of one row.
func (s *Worksheet) SetRowHeight(row int, height float64) error {
	return s.file.SetRowHeight(s.name, row, height)
}

// InsertRows inserts count empty rows before row.
func (s *Worksheet) InsertRows(row, count int) error {
	return s.file.InsertRows(s.name, row, count)
}

// DeleteRows removes count rows starting at row.
func (s *Worksheet) DeleteRows(row, count int) error {
	for i := 0; i < count; i++ {
		if err := s.file.RemoveRow(s.name, row); err != nil {
			return fmt.Errorf("failed to delete row %d: %w", row, err)
		}
	}
	return nil
}

// InsertColumns inserts count empty columns before col.
func (s *Worksheet) InsertColumns(col, count int) error {
	name, err := ColumnName(col)
	if err != nil {
		return err
	}
	return s.file.InsertCols(s.name, name, count)
}

// DeleteColumns removes count columns starting at col.
func (s *Worksheet) DeleteColumns(col, count int) error {
	name, err := ColumnName(col)
	if err != nil {
		return err
	}
	for i := 0; i < count; i++ {
		if err := s.file.RemoveCol(s.name, name); err != nil {
			return fmt.Errorf("failed to delete column %s: %w", name, err)
		}
	}
	return nil
}

// FreezePanes freezes every row above and every column left of the cell.
func (s *Worksheet) FreezePanes(a Address) error {
	cell, err := cellName(a)
	if err != nil {
		return err
	}
	return s.file.SetPanes(s.name, &excelize.Panes{
		Freeze:      true,
		XSplit:      a.Col - 1,
		YSplit:      a.Row - 1,
		TopLeftCell: cell,
		ActivePane:  "bottomRight",
	})
}

// AddChart embeds a chart anchored at the given cell, charting dataRange
// of this sheet.
func (s *Worksheet) AddChart(anchor Address, chartType excelize.ChartType, dataRange, title, xTitle, yTitle string) error {
	cell, err := cellName(anchor)
	if err != nil {
		return err
	}
	chart := &excelize.Chart{
		Type: chartType,
		Series: []excelize.ChartSeries{
			{Values: QualifiedRange(s.name, dataRange)},
		},
	}
	if title != "" {
		chart.Title = []excelize.RichTextRun{{Text: title}}
	}
	if xTitle != "" {
		chart.XAxis = excelize.ChartAxis{Title: []excelize.RichTextRun{{Text: xTitle}}}
	}
	if yTitle != "" {
		chart.YAxis = excelize.ChartAxis{Title: []excelize.RichTextRun{{Text: yTitle}}}
	}
	return s.file.AddChart(s.name, cell, chart)
}

// ApplyStyle applies a style to every cell of r through a single style ID.
func (s *Worksheet) ApplyStyle(r Range, style *excelize.Style) error {
	styleID, err := s.file.NewStyle(style)
	if err != nil {
		return fmt.Errorf("failed to create style: %w", err)
	}
	topLeft, err := cellName(r.Start())
	if err != nil {
		return err
	}
	bottomRight, err := cellName(r.End())
	if err != nil {
		return err
	}
	return s.file.SetCellStyle(s.name, topLeft, bottomRight, styleID)
}

// NonEmptyCount counts populated cells within r.
func (s *Worksheet) NonEmptyCount(r Range) (int, error) {
	count := 0
	for row := r.StartRow; row <= r.EndRow; row++ {
		for col := r.StartCol; col <= r.EndCol; col++ {
			value, err := s.Value(Address{Row: row, Col: col})
			if err != nil {
				return 0, err
			}
			if value != "" {
				count++
			}
		}
	}
	return count, nil
}

// copyCell duplicates one cell (formula or typed value, plus style) from
// src on this sheet to dst on the target sheet.
func (s *Worksheet) copyCell(src Address, target *Worksheet, dst Address) error {
	srcCell, err := cellName(src)
	if err != nil {
		return err
	}
	dstCell, err := cellName(dst)
	if err != nil {
		return err
	}

	formula, err := s.file.GetCellFormula(s.name, srcCell)
	if err != nil {
		return err
	}
	if formula != "" {
		if err := target.file.SetCellFormula(target.name, dstCell, formula); err != nil {
			return err
		}
	} else {
		value, err := s.file.GetCellValue(s.name, srcCell)
		if err != nil {
			return err
		}
		if err := target.file.SetCellValue(target.name, dstCell, typedValue(value)); err != nil {
			return err
		}
	}

	styleID, err := s.file.GetCellStyle(s.name, srcCell)
	if err != nil {
		return err
	}
	if err := target.file.SetCellStyle(target.name, dstCell, dstCell, styleID); err != nil {
		return err
	}
	return target.updateDimension(dst)
}

// typedValue restores the numeric type of a rendered cell value so copies
// do not degrade numbers into text.
func typedValue(value string) any {
	if value == "" {
		return nil
	}
	if n, err := strconv.ParseFloat(value, 64); err == nil && !strings.EqualFold(value, "nan") && !strings.EqualFold(value, "inf") {
		return n
	}
	return value
}

// CopyRange copies src (values, formulas, styles) to the rectangle of the
// same shape anchored at dstStart on target. Source and target may be the
// same sheet.
func (s *Worksheet) CopyRange(src Range, target *Worksheet, dstStart Address) error {
	for row := 0; row < src.Rows(); row++ {
		for col := 0; col < src.Cols(); col++ {
			from := Address{Row: src.StartRow + row, Col: src.StartCol + col}
			to := Address{Row: dstStart.Row + row, Col: dstStart.Col + col}
			if err := s.copyCell(from, target, to); err != nil {
				return err
			}
		}
	}
	return nil
}

// ClearRange blanks every cell of r: value, style and number format.
func (s *Worksheet) ClearRange(r Range) error {
	for row := r.StartRow; row <= r.EndRow; row++ {
		for col := r.StartCol; col <= r.EndCol; col++ {
			cell, err := cellName(Address{Row: row, Col: col})
			if err != nil {
				return err
			}
			if err := s.file.SetCellValue(s.name, cell, nil); err != nil {
				return err
			}
			if err := s.file.SetCellStyle(s.name, cell, cell, 0); err != nil {
				return err
			}
		}
	}
	return nil
}

// ShiftDirection selects which neighboring cells fill a deleted range.
type ShiftDirection string

const (
	ShiftUp   ShiftDirection = "up"
	ShiftLeft ShiftDirection = "left"
)

// DeleteRangeShift clears r and shifts the cells strictly below (up) or
// strictly right (left) of it into the vacated space, clearing the source
// cells afterward. The shift is a bulk copy over the remaining sheet
// extent in that direction.
func (s *Worksheet) DeleteRangeShift(r Range, dir ShiftDirection) error {
	if err := s.ClearRange(r); err != nil {
		return err
	}
	dim, ok := s.Dimension()
	if !ok {
		return nil
	}

	switch dir {
	case ShiftUp:
		height := r.Rows()
		for row := r.EndRow + 1; row <= dim.EndRow; row++ {
			for col := r.StartCol; col <= r.EndCol; col++ {
				from := Address{Row: row, Col: col}
				to := Address{Row: row - height, Col: col}
				if err := s.copyCell(from, s, to); err != nil {
					return err
				}
			}
		}
		tail := Range{
			StartRow: max(dim.EndRow-height+1, r.StartRow),
			StartCol: r.StartCol,
			EndRow:   dim.EndRow,
			EndCol:   r.EndCol,
		}
		return s.ClearRange(tail)
	case ShiftLeft:
		width := r.Cols()
		for col := r.EndCol + 1; col <= dim.EndCol; col++ {
			for row := r.StartRow; row <= r.EndRow; row++ {
				from := Address{Row: row, Col: col}
				to := Address{Row: row, Col: col - width}
				if err := s.copyCell(from, s, to); err != nil {
					return err
				}
			}
		}
		tail := Range{
			StartRow: r.StartRow,
			StartCol: max(dim.EndCol-width+1, r.StartCol),
			EndRow:   r.EndRow,
			EndCol:   dim.EndCol,
		}
		return s.ClearRange(tail)
	default:
		return fmt.Errorf("unsupported shift direction: %q", dir)
	}
}

// FindReplace replaces occurrences of find within r (or the whole used
// range when r is nil) and returns the number of cells changed.
func (s *Worksheet) FindReplace(r *Range, find, replace string, matchCase, matchEntireCell bool) (int, error) {
	searchRange := Range{}
	if r != nil {
		searchRange = *r
	} else {
		dim, ok := s.Dimension()
		if !ok {
			return 0, nil
		}
		searchRange = dim
	}

	count := 0
	for row := searchRange.StartRow; row <= searchRange.EndRow; row++ {
		for col := searchRange.StartCol; col <= searchRange.EndCol; col++ {
			cell, err := cellName(Address{Row: row, Col: col})
			if err != nil {
				continue
			}
			value, err := s.file.GetCellValue(s.name, cell)
			if err != nil || value == "" {
				continue
			}
			newValue, matched := replaceValue(value, find, replace, matchCase, matchEntireCell)
			if !matched {
				continue
			}
			if err := s.file.SetCellValue(s.name, cell, newValue); err != nil {
				return count, err
			}
			count++
		}
	}
	return count, nil
}

func replaceValue(value, find, replace string, matchCase, matchEntireCell bool) (string, bool) {
	if matchEntireCell {
		if matchCase {
			if value == find {
				return replace, true
			}
		} else if strings.EqualFold(value, find) {
			return replace, true
		}
		return value, false
	}
	if matchCase {
		if strings.Contains(value, find) {
			return strings.ReplaceAll(value, find, replace), true
		}
		return value, false
	}
	lowerFind := strings.ToLower(find)
	if !strings.Contains(strings.ToLower(value), lowerFind) {
		return value, false
	}
	result := value
	idx := 0
	for {
		pos := strings.Index(strings.ToLower(result[idx:]), lowerFind)
		if pos < 0 {
			break
		}
		result = result[:idx+pos] + replace + result[idx+pos+len(find):]
		idx = idx + pos + len(replace)
	}
	return result, true
}
