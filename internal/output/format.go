// Package output provides formatters for CLI output.
package output

import (
	"fmt"
	"io"
	"strings"

	"taskboard/internal/service"
)

// FormatTask formats a task line.
// Format: "{ID:>4}  [{x| }] {PRIORITY:<6}  {TITLE}\n"
func FormatTask(w io.Writer, task service.Task) {
	fmt.Fprintf(w, "%4d  [%s] %-6s  %s\n", task.ID, completionMark(task.Completed), task.Priority, normalizeTitle(task.Title))
}

// FormatTaskLong formats a task line followed by its description, if any,
// indented under the title.
func FormatTaskLong(w io.Writer, task service.Task) {
	FormatTask(w, task)
	desc := strings.TrimSpace(task.Description)
	if desc == "" {
		return
	}
	for _, line := range strings.Split(desc, "\n") {
		fmt.Fprintf(w, "%18s%s\n", "", strings.TrimRight(line, "\r"))
	}
}

// FormatHealth formats the server's health report.
func FormatHealth(w io.Writer, url string, h service.Health) {
	fmt.Fprintf(w, "server:   %s\n", url)
	fmt.Fprintf(w, "status:   %s\n", h.Status)
	fmt.Fprintf(w, "database: %s\n", valueOr(h.Database, "unknown"))
	fmt.Fprintf(w, "version:  %s\n", valueOr(h.Version, "unknown"))
	fmt.Fprintf(w, "uptime:   %.0fs\n", h.Uptime)
}

func completionMark(done bool) string {
	if done {
		return "x"
	}
	return " "
}

// normalizeTitle normalizes a task title for display.
// - Empty or whitespace-only titles become "(untitled)"
// - Newlines are replaced with spaces
func normalizeTitle(title string) string {
	title = strings.ReplaceAll(title, "\r", " ")
	title = strings.ReplaceAll(title, "\n", " ")

	if strings.TrimSpace(title) == "" {
		return "(untitled)"
	}
	return title
}

func valueOr(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}
