package tools

import (
	"context"
	"encoding/json"
	"fmt"

	z "github.com/Oudwins/zog"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/isoittech/excel-mcp-server/internal/excel"
	imcp "github.com/isoittech/excel-mcp-server/internal/mcp"
)

type GetWorkbookMetadataArguments struct {
	FilePath      string `zog:"filePath"`
	IncludeRanges bool   `zog:"includeRanges"`
}

var getWorkbookMetadataArgumentsSchema = z.Struct(z.Shape{
	"filePath":      z.String().Required(),
	"includeRanges": z.Bool().Default(false),
})

type sheetMetadata struct {
	Name          string   `json:"name"`
	UsedRange     string   `json:"usedRange,omitempty"`
	MergedRegions []string `json:"mergedRegions,omitempty"`
}

type workbookMetadata struct {
	File       string          `json:"file"`
	SheetCount int             `json:"sheetCount"`
	Sheets     []sheetMetadata `json:"sheets"`
}

func AddGetWorkbookMetadataTool(s *server.MCPServer, cache *excel.Cache) {
	s.AddTool(mcp.NewTool("get_workbook_metadata",
		mcp.WithDescription("List the sheets of a workbook, optionally with used ranges and merged regions"),
		mcp.WithString("filePath",
			mcp.Required(),
			mcp.Description("Path to the Excel file (relative paths resolve under EXCEL_FILES_PATH)"),
		),
		mcp.WithBoolean("includeRanges",
			mcp.Description("Include each sheet's used range and merged regions [default: false]"),
		),
	), WithRecovery(func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := GetWorkbookMetadataArguments{}
		if issues := getWorkbookMetadataArgumentsSchema.Parse(request.GetArguments(), &args); len(issues) != 0 {
			return imcp.NewToolResultZogIssueMap(issues), nil
		}
		return getWorkbookMetadata(cache, args)
	}))
}

func getWorkbookMetadata(cache *excel.Cache, args GetWorkbookMetadataArguments) (*mcp.CallToolResult, error) {
	workbook, err := cache.Load(args.FilePath)
	if err != nil {
		return errorResult(err)
	}

	names := workbook.SheetNames()
	metadata := workbookMetadata{
		File:       workbook.Path(),
		SheetCount: len(names),
		Sheets:     make([]sheetMetadata, 0, len(names)),
	}
	for _, name := range names {
		meta := sheetMetadata{Name: name}
		if args.IncludeRanges {
			worksheet, err := workbook.Sheet(name)
			if err != nil {
				return nil, err
			}
			if dim, ok := worksheet.Dimension(); ok {
				meta.UsedRange = dim.String()
			}
			regions, err := worksheet.MergedRegions()
			if err != nil {
				return nil, err
			}
			for _, region := range regions {
				meta.MergedRegions = append(meta.MergedRegions, region.String())
			}
		}
		metadata.Sheets = append(metadata.Sheets, meta)
	}

	payload, err := json.MarshalIndent(metadata, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to serialize metadata: %w", err)
	}
	return mcp.NewToolResultText(string(payload)), nil
}
