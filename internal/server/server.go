package server

import (
	"context"
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog"

	"github.com/isoittech/excel-mcp-server/internal/config"
	"github.com/isoittech/excel-mcp-server/internal/excel"
	"github.com/isoittech/excel-mcp-server/internal/tools"
)

// ExcelServer wires the workbook cache and the tool surface onto an MCP
// server speaking stdio.
type ExcelServer struct {
	server *server.MCPServer
	cache  *excel.Cache
}

func New(version string, logger zerolog.Logger) (*ExcelServer, error) {
	cfg, issues := config.Load()
	if issues != nil {
		return nil, fmt.Errorf("invalid configuration: %v", issues)
	}
	if err := os.MkdirAll(cfg.ExcelFilesPath, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create excel files directory: %w", err)
	}
	logger.Info().Str("excel_files_path", cfg.ExcelFilesPath).Msg("workbook directory configured")

	s := &ExcelServer{
		cache: excel.NewCache(cfg.ExcelFilesPath),
	}
	s.server = server.NewMCPServer(
		"excel-mcp-server",
		version,
		server.WithToolCapabilities(true),
		server.WithHooks(buildHooks(logger)),
	)

	tools.AddReadExcelTool(s.server, s.cache)
	tools.AddWriteExcelTool(s.server, s.cache)
	tools.AddCreateExcelTool(s.server, s.cache)
	tools.AddCreateSheetTool(s.server, s.cache)
	tools.AddGetWorkbookMetadataTool(s.server, s.cache)
	tools.AddRenameWorksheetTool(s.server, s.cache)
	tools.AddDeleteWorksheetTool(s.server, s.cache)
	tools.AddCopyWorksheetTool(s.server, s.cache)
	tools.AddApplyFormulaTool(s.server, s.cache)
	tools.AddValidateFormulaSyntaxTool(s.server, s.cache)
	tools.AddFormatRangeTool(s.server, s.cache)
	tools.AddMergeCellsTool(s.server, s.cache)
	tools.AddUnmergeCellsTool(s.server, s.cache)
	tools.AddCopyRangeTool(s.server, s.cache)
	tools.AddDeleteRangeTool(s.server, s.cache)
	tools.AddValidateExcelRangeTool(s.server, s.cache)
	tools.AddCreateChartTool(s.server, s.cache)
	tools.AddCreatePivotTableTool(s.server, s.cache)
	tools.AddInsertRowsTool(s.server, s.cache)
	tools.AddDeleteRowsTool(s.server, s.cache)
	tools.AddInsertColumnsTool(s.server, s.cache)
	tools.AddDeleteColumnsTool(s.server, s.cache)
	tools.AddSetColumnWidthTool(s.server, s.cache)
	tools.AddSetRowHeightTool(s.server, s.cache)
	tools.AddFindReplaceTool(s.server, s.cache)
	tools.AddFreezePanesTool(s.server, s.cache)
	return s, nil
}

func (s *ExcelServer) Start() error {
	return server.ServeStdio(s.server)
}

func buildHooks(logger zerolog.Logger) *server.Hooks {
	hooks := &server.Hooks{}

	hooks.AddOnRegisterSession(func(ctx context.Context, session server.ClientSession) {
		logger.Info().Str("session_id", session.SessionID()).Msg("session registered")
	})

	hooks.AddAfterCallTool(func(ctx context.Context, id any, req *mcp.CallToolRequest, res *mcp.CallToolResult) {
		logger.Info().Str("tool", req.Params.Name).Bool("is_error", res != nil && res.IsError).Msg("tool call served")
	})

	hooks.AddOnError(func(ctx context.Context, id any, method mcp.MCPMethod, message any, err error) {
		logger.Error().Str("method", string(method)).Err(err).Msg("request error")
	})

	return hooks
}
