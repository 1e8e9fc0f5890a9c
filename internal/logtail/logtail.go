package logtail

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"
)

const maxLineBytes = 1024 * 1024

// Tail parses the file at path and returns its last n records, oldest
// first. A non-positive n returns every record. Blank lines are skipped.
func Tail(path string, n int) ([]Record, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open log: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	var records []Record
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		records = append(records, Parse(line))
		// Compact once the window doubles so memory stays bounded by n.
		if n > 0 && len(records) >= 2*n {
			records = append(records[:0], records[len(records)-n:]...)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read log: %w", err)
	}
	if n > 0 && len(records) > n {
		records = records[len(records)-n:]
	}
	return records, nil
}
