package game

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// ExportResults appends the room's standings and match log to a text file.
func ExportResults(r *Room, filename string) error {
	// Create directory if it doesn't exist
	dir := filepath.Dir(filename)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	fileExists := false
	if _, err := os.Stat(filename); err == nil {
		fileExists = true
	}

	file, err := os.OpenFile(filename, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	s := r.Session
	results := s.Results()
	history := s.History()
	names := make(map[string]string, len(results))
	for _, it := range results {
		names[it.ID] = it.Name
	}

	var sb strings.Builder
	if fileExists {
		sb.WriteString("\n\n") // spacing between sessions
	}
	sb.WriteString(fmt.Sprintf("Suburb Swipe Results - Session %s\n", r.Code))
	sb.WriteString(fmt.Sprintf("Started: %s\n", r.CreatedAt.Format("2006-01-02 15:04:05")))
	sb.WriteString(strings.Repeat("=", 50) + "\n\n")

	sb.WriteString(fmt.Sprintf("Rounds played: %d of %d\n\n", len(history), s.Config().MaxRounds))

	if len(history) > 0 {
		sb.WriteString("Matches:\n")
		for _, m := range history {
			sb.WriteString(fmt.Sprintf("%d. %s (%d -> %d) over %s (%d -> %d)\n",
				m.Round, names[m.WinnerID], m.WinnerBefore, m.WinnerAfter,
				names[m.LoserID], m.LoserBefore, m.LoserAfter))
		}
		sb.WriteString("\n")
	}

	sb.WriteString("Final ranking:\n")
	sb.WriteString(strings.Repeat("-", 40) + "\n")
	for i, it := range results {
		sb.WriteString(fmt.Sprintf("%d. %s: %d (%d matches)\n", i+1, it.Name, it.Rating, it.Matches))
	}
	sb.WriteString(fmt.Sprintf("\nExported at %s\n", time.Now().Format("2006-01-02 15:04:05")))
	sb.WriteString(strings.Repeat("=", 50) + "\n")

	if _, err := file.WriteString(sb.String()); err != nil {
		return fmt.Errorf("failed to write to file: %w", err)
	}

	return nil
}
