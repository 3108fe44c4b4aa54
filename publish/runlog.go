package publish

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/asthiranalyticsyt/Asthir-story/types"
)

// WriteRunLog saves the per-run publish summary to the logs directory
func WriteRunLog(logsDir string, runLog types.RunLog) error {
	if err := os.MkdirAll(logsDir, 0755); err != nil {
		return err
	}
	path := filepath.Join(logsDir, fmt.Sprintf("run_%s.json", time.Now().Format("20060102_150405")))
	data, err := json.MarshalIndent(runLog, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
