package mapping

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// saveTranscript writes one suggestion request and its outcome to dir.
func saveTranscript(dir string, labels, markers []string, suggestions []Suggestion, err error) (string, error) {
	if mkErr := os.MkdirAll(dir, 0755); mkErr != nil {
		return "", mkErr
	}

	now := time.Now()
	path := filepath.Join(dir, fmt.Sprintf("ai_alias_%s.txt", now.Format("2006-01-02_15-04-05")))
	file, fileErr := os.Create(path)
	if fileErr != nil {
		return "", fileErr
	}
	defer file.Close()

	fmt.Fprintf(file, "AI Alias Suggestions - %s\n", now.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(file, "===========================================\n\n")

	fmt.Fprintf(file, "UNMATCHED GRADE LABELS (%d):\n", len(labels))
	for i, l := range labels {
		fmt.Fprintf(file, "%d. %s\n", i+1, l)
	}

	fmt.Fprintf(file, "\nTEMPLATE MARKERS (%d):\n", len(markers))
	for i, m := range markers {
		fmt.Fprintf(file, "%d. %s\n", i+1, m)
	}

	fmt.Fprintf(file, "\nAI RESPONSE:\n")
	if err != nil {
		fmt.Fprintf(file, "ERROR: %v\n", err)
	} else if len(suggestions) == 0 {
		fmt.Fprintf(file, "No suggestions (all were NO_MATCH, unknown markers or low confidence)\n")
	} else {
		fmt.Fprintf(file, "SUCCESS - %d suggestions:\n", len(suggestions))
		for i, s := range suggestions {
			fmt.Fprintf(file, "%d. '%s' → '%s' (%.2f confidence)\n", i+1, s.GradeLabel, s.MarkerLabel, s.Confidence)
		}
	}

	fmt.Fprintf(file, "\n===========================================\n")
	return path, nil
}
