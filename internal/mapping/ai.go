package mapping

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"cubeproc/internal/grade"
	"cubeproc/internal/logger"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

const noMatch = "NO_MATCH"

// Suggestion is an AI-proposed alias with its confidence in [0,1].
type Suggestion struct {
	GradeLabel  string  `json:"grade_label"`
	MarkerLabel string  `json:"marker_label"`
	Confidence  float64 `json:"confidence"`
}

// SuggesterOptions configures a Suggester. Zero values select defaults.
type SuggesterOptions struct {
	Model         string
	MinConfidence float64
	Timeout       time.Duration
	// DebugDir receives a transcript of every request when set.
	DebugDir string
}

// Suggester asks Gemini which template marker an unmatched grade label means.
type Suggester struct {
	client *genai.Client
	model  *genai.GenerativeModel
	opts   SuggesterOptions
}

// NewSuggester creates a Gemini-backed suggester.
func NewSuggester(ctx context.Context, apiKey string, opts SuggesterOptions) (*Suggester, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}
	if opts.Model == "" {
		opts.Model = "gemini-2.0-flash-exp"
	}
	if opts.MinConfidence == 0 {
		opts.MinConfidence = 0.8
	}
	if opts.Timeout == 0 {
		opts.Timeout = 60 * time.Second
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		logger.Error("Failed to create Gemini client", "error", err)
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := client.GenerativeModel(opts.Model)
	model.SetTemperature(0.1)

	logger.Info("Alias suggester initialized", "model", opts.Model, "min_confidence", opts.MinConfidence)
	return &Suggester{client: client, model: model, opts: opts}, nil
}

func (s *Suggester) Close() error {
	if s.client != nil {
		return s.client.Close()
	}
	return nil
}

// Suggest proposes a marker for each label. Only suggestions naming one of
// markers with at least the configured confidence are returned.
func (s *Suggester) Suggest(ctx context.Context, labels, markers []string) ([]Suggestion, error) {
	if len(labels) == 0 || len(markers) == 0 {
		return nil, fmt.Errorf("both grade labels and template markers must be provided")
	}

	prompt := buildPrompt(labels, markers)
	logger.Info("Sending alias request to Gemini", "labels", len(labels), "markers", len(markers))
	logger.Debug("AI prompt", "content", prompt)

	ctx, cancel := context.WithTimeout(ctx, s.opts.Timeout)
	defer cancel()

	start := time.Now()
	resp, err := s.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		logger.Error("Gemini request failed", "error", err, "duration", time.Since(start))
		err = fmt.Errorf("failed to generate AI response: %w", err)
		s.transcript(labels, markers, nil, err)
		return nil, err
	}
	logger.Info("Received response from Gemini", "duration", time.Since(start))

	text, err := responseText(resp)
	if err != nil {
		s.transcript(labels, markers, nil, err)
		return nil, err
	}
	logger.Debug("AI response", "content", text)

	suggestions := parseSuggestions(text, labels, markers, s.opts.MinConfidence)
	s.transcript(labels, markers, suggestions, nil)
	return suggestions, nil
}

func (s *Suggester) transcript(labels, markers []string, suggestions []Suggestion, err error) {
	if s.opts.DebugDir == "" {
		return
	}
	if path, werr := saveTranscript(s.opts.DebugDir, labels, markers, suggestions, err); werr != nil {
		logger.Warn("Failed to write AI transcript", "error", werr)
	} else {
		logger.Debug("Wrote AI transcript", "path", path)
	}
}

func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("no response generated from AI")
	}

	var b strings.Builder
	for i, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			b.WriteString(string(text))
		} else {
			logger.Warn("Non-text part in response", "index", i, "type", fmt.Sprintf("%T", part))
		}
	}
	if b.Len() == 0 {
		return "", fmt.Errorf("no response generated from AI")
	}
	return b.String(), nil
}

func buildPrompt(labels, markers []string) string {
	var b strings.Builder
	b.WriteString(`You are helping a concrete testing laboratory match cube test result files to report sheets.

Each result file is named after a concrete grade (for example M20, M25) or a mortar mix ratio (for example 1:4).
Each report sheet carries a marker with the grade or ratio it belongs to.
The labels below were taken from file names and match no marker exactly.

TASK: For each label, pick the marker it most likely means, or "NO_MATCH" if uncertain.

LABELS (from file names):
`)
	for _, l := range labels {
		fmt.Fprintf(&b, "- %s\n", l)
	}
	b.WriteString("\nMARKERS (from report sheets):\n")
	for _, m := range markers {
		fmt.Fprintf(&b, "- %s\n", m)
	}
	b.WriteString(`
INSTRUCTIONS:
1. Only use markers from the list above
2. A grade and a mortar ratio never match each other
3. Ignore case, spaces, underscores and hyphens
4. If uncertain, use "NO_MATCH"

OUTPUT FORMAT (one line per label, nothing else):
Label|Marker|Confidence

EXAMPLES:
GRADE20|M20|0.95
MORTAR14|1:4|0.90
TRIAL|NO_MATCH|0.00
`)
	return b.String()
}

// parseSuggestions keeps lines naming a requested label and a known marker
// with at least minConfidence. Markers are returned in the template's spelling.
func parseSuggestions(response string, labels, markers []string, minConfidence float64) []Suggestion {
	wantLabel := make(map[string]string, len(labels))
	for _, l := range labels {
		wantLabel[grade.Normalize(l)] = l
	}
	knownMarker := make(map[string]string, len(markers))
	for _, m := range markers {
		knownMarker[grade.Normalize(m)] = m
	}

	var out []Suggestion
	seen := make(map[string]bool)
	for _, line := range strings.Split(strings.TrimSpace(response), "\n") {
		line = strings.Trim(strings.TrimSpace(line), "`")
		parts := strings.Split(line, "|")
		if len(parts) != 3 || strings.HasPrefix(line, "Label|") {
			continue
		}

		label, ok := wantLabel[grade.Normalize(parts[0])]
		if !ok || seen[grade.Normalize(label)] {
			continue
		}
		target := strings.TrimSpace(parts[1])
		if target == noMatch {
			continue
		}
		marker, ok := knownMarker[grade.Normalize(target)]
		if !ok {
			logger.Debug("Skipping suggestion for unknown marker", "label", label, "marker", target)
			continue
		}
		confidence, err := strconv.ParseFloat(strings.TrimSpace(parts[2]), 64)
		if err != nil || confidence < minConfidence {
			continue
		}

		seen[grade.Normalize(label)] = true
		out = append(out, Suggestion{GradeLabel: label, MarkerLabel: marker, Confidence: confidence})
	}

	logger.Info("Parsed AI suggestions", "kept", len(out))
	return out
}

// APIKey reads the Gemini API key from the named environment variable.
func APIKey(envVar string) string {
	if envVar == "" {
		envVar = "GEMINI_API_KEY"
	}
	key := os.Getenv(envVar)
	if key == "" {
		logger.Warn("Gemini API key environment variable not set", "var", envVar)
	}
	return key
}
