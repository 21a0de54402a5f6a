package tools

import (
	"errors"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/isoittech/excel-mcp-server/internal/excel"
	imcp "github.com/isoittech/excel-mcp-server/internal/mcp"
)

// errorResult maps typed workbook errors onto the tool failure taxonomy.
// Not-found and collision conditions become structured tool failures;
// anything else propagates as a protocol error.
func errorResult(err error) (*mcp.CallToolResult, error) {
	switch {
	case errors.Is(err, excel.ErrNotFound):
		return imcp.NewToolResultNotFoundError(err.Error()), nil
	case errors.Is(err, excel.ErrExists):
		return imcp.NewToolResultInvalidArgumentError(err.Error()), nil
	}
	return nil, err
}

// openSheet resolves a workbook through the cache and a worksheet within
// it. An empty sheetName selects the first sheet.
func openSheet(cache *excel.Cache, filePath, sheetName string) (*excel.Workbook, *excel.Worksheet, *mcp.CallToolResult, error) {
	workbook, err := cache.Load(filePath)
	if err != nil {
		result, err := errorResult(err)
		return nil, nil, result, err
	}
	worksheet, err := workbook.Sheet(sheetName)
	if err != nil {
		result, err := errorResult(err)
		return nil, nil, result, err
	}
	return workbook, worksheet, nil, nil
}
