// Package activity reads the logs bots write about themselves.
package activity

import (
	"bufio"
	"bytes"
	"encoding/json"
	"os"

	"github.com/botboard-io/botboard/internal/models"
)

// maxLineSize bounds a single JSONL record. Longer lines are dropped.
const maxLineSize = 1 << 20

// ReadRecent parses every line of the JSONL log at path and returns the last
// n well-formed records in file order. Blank, malformed, non-object and
// oversized lines are dropped before the window is taken. A missing or unreadable file yields no
// records. n <= 0 returns every record.
func ReadRecent(path string, n int) []models.Activity {
	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()

	var records []models.Activity
	r := bufio.NewReader(f)
	for {
		line, err := r.ReadBytes('\n')
		if a, ok := parseRecord(line); ok {
			records = append(records, a)
		}
		if err != nil {
			break
		}
	}

	if n > 0 && len(records) > n {
		records = records[len(records)-n:]
	}
	return records
}

// parseRecord decodes one log line. Only JSON objects count as records.
func parseRecord(line []byte) (models.Activity, bool) {
	var a models.Activity
	line = bytes.TrimSpace(line)
	if len(line) == 0 || len(line) > maxLineSize || line[0] != '{' {
		return a, false
	}
	if err := json.Unmarshal(line, &a); err != nil {
		return a, false
	}
	return a, true
}

// ReadStatusFile reads the externally reported status file. A missing or
// malformed file yields an empty map.
func ReadStatusFile(path string) map[string]models.ReportedStatus {
	statuses := map[string]models.ReportedStatus{}
	data, err := os.ReadFile(path)
	if err != nil {
		return statuses
	}
	if err := json.Unmarshal(data, &statuses); err != nil {
		return map[string]models.ReportedStatus{}
	}
	return statuses
}
