package app

import (
	"path/filepath"
	"strings"
	"time"
)

// LogFilePath returns dir/check_results_YYYYMMDD_HHMMSS.log for t.
func LogFilePath(dir string, t time.Time) string {
	if strings.TrimSpace(dir) == "" {
		dir = DefaultLogDir
	}
	return filepath.Join(dir, "check_results_"+t.Format("20060102_150405")+".log")
}
