// Package config loads server configuration from the environment.
package config

import (
	z "github.com/Oudwins/zog"
	"github.com/Oudwins/zog/zenv"
)

// Config holds the environment-driven settings of the server.
type Config struct {
	// ExcelFilesPath is the base directory under which relative workbook
	// paths are resolved. Created on startup if absent. The zog tag names
	// the environment variable the zenv provider reads.
	ExcelFilesPath string `zog:"EXCEL_FILES_PATH"`
}

// Shape keys pair with Config field names; the env var name comes from
// the field tag.
var configSchema = z.Struct(z.Shape{
	"excelFilesPath": z.String().Default("./excel_files"),
})

// Load parses configuration from environment variables, applying defaults.
func Load() (Config, z.ZogIssueMap) {
	config := Config{}
	if issues := configSchema.Parse(zenv.NewDataProvider(), &config); len(issues) != 0 {
		return config, issues
	}
	return config, nil
}
