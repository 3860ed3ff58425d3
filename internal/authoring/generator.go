// internal/authoring/generator.go
//
// Puzzle-generation collaborator for the portal's "magic fill".
//   - GeminiGenerator calls the Gemini generateContent REST endpoint.
//   - MockGenerator returns canned puzzles when no API key is configured.
//
// Output is never trusted: Service runs the validation rules on every
// candidate before handing it to an editor.

package authoring

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Candidate is one generated clue/answer pair.
type Candidate struct {
	Clue   string `json:"clue"`
	Answer string `json:"answer"`
}

// Generator produces candidate puzzles for a theme.
type Generator interface {
	Generate(ctx context.Context, theme string) ([]Candidate, error)
	GenerateOne(ctx context.Context, theme string, existing []string) (Candidate, error)
}

// ErrGeneratorDisabled is returned when no generator is configured.
var ErrGeneratorDisabled = errors.New("puzzle generation is not configured")

// GeminiConfig configures the Gemini REST client.
type GeminiConfig struct {
	APIKey  string `json:"-"` // Never serialize
	BaseURL string `json:"baseUrl"`
	Model   string `json:"model"`
	Timeout time.Duration
}

// DefaultGeminiBaseURL is the public generateContent base.
const DefaultGeminiBaseURL = "https://generativelanguage.googleapis.com/v1beta/models"

// Endpoint returns the generateContent URL for the configured model.
func (c GeminiConfig) Endpoint() string {
	return strings.TrimRight(c.BaseURL, "/") + "/" + c.Model + ":generateContent"
}

// GeminiGenerator implements Generator over HTTP.
type GeminiGenerator struct {
	config GeminiConfig
	client *http.Client
}

// NewGeminiGenerator builds a generator; zero fields get defaults.
func NewGeminiGenerator(cfg GeminiConfig) *GeminiGenerator {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultGeminiBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = "gemini-2.0-flash"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 20 * time.Second
	}
	return &GeminiGenerator{config: cfg, client: &http.Client{Timeout: cfg.Timeout}}
}

const systemPrompt = `Persona: You are a puzzle master with a dry sense of humor who loves word play and homophones, in the spirit of a crossword editor.

Tone: Fun, cheeky, slightly tricky but fair. Puns encouraged. Keep exclamation points rare.

Rules:
1. OUTPUT FORMAT: STRICT JSON only. No markdown, no pre-text, no post-text.
2. No repeating words from the answer in the clue.
3. Answers must be strictly A-Z letters and spaces. No numbers, no punctuation.
4. Length constraints: max 10 characters per word, max 30 characters total.
5. Prefer multi-word answers of around 10-15 letters.
6. CLUE STYLE: witty and short, max 100 characters.
`

func (g *GeminiGenerator) Generate(ctx context.Context, theme string) ([]Candidate, error) {
	prompt := fmt.Sprintf(`%s
TASK: Generate 5 distinct puzzles for the theme: %q.

Return strict JSON array:
[{"clue": "...", "answer": "..."}, ...]`, systemPrompt, theme)

	text, err := g.call(ctx, prompt)
	if err != nil {
		return nil, err
	}
	var out []Candidate
	if err := json.Unmarshal([]byte(stripFences(text)), &out); err != nil {
		return nil, fmt.Errorf("decode generated puzzles: %w", err)
	}
	for i := range out {
		out[i].Answer = SanitizeAnswer(out[i].Answer)
	}
	return out, nil
}

func (g *GeminiGenerator) GenerateOne(ctx context.Context, theme string, existing []string) (Candidate, error) {
	avoid, _ := json.Marshal(existing)
	prompt := fmt.Sprintf(`%s
TASK: Generate EXACTLY ONE puzzle for the theme: %q.

ADDITIONAL CONSTRAINTS:
- The answer MUST NOT be any of these: %s.

Return strict JSON object:
{"clue": "...", "answer": "..."}`, systemPrompt, theme, avoid)

	text, err := g.call(ctx, prompt)
	if err != nil {
		return Candidate{}, err
	}
	var c Candidate
	if err := json.Unmarshal([]byte(stripFences(text)), &c); err != nil {
		return Candidate{}, fmt.Errorf("decode generated puzzle: %w", err)
	}
	if c.Clue == "" || c.Answer == "" {
		return Candidate{}, errors.New("generator returned an incomplete puzzle")
	}
	c.Answer = SanitizeAnswer(c.Answer)
	return c, nil
}

// call makes one generateContent request and returns the first text part.
func (g *GeminiGenerator) call(ctx context.Context, prompt string) (string, error) {
	reqBody := map[string]any{
		"contents": []map[string]any{
			{"parts": []map[string]string{{"text": prompt}}},
		},
		"generationConfig": map[string]any{
			"responseMimeType": "application/json",
		},
	}
	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.config.Endpoint(), bytes.NewReader(jsonBody))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", g.config.APIKey)

	resp, err := g.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("gemini: status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var geminiResp struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}
	if err := json.Unmarshal(body, &geminiResp); err != nil {
		return "", err
	}
	if len(geminiResp.Candidates) > 0 && len(geminiResp.Candidates[0].Content.Parts) > 0 {
		return geminiResp.Candidates[0].Content.Parts[0].Text, nil
	}
	return "", errors.New("empty response from Gemini")
}

// stripFences removes markdown code fences the model sometimes adds.
func stripFences(s string) string {
	s = strings.ReplaceAll(s, "```json", "")
	s = strings.ReplaceAll(s, "```", "")
	return strings.TrimSpace(s)
}

// SanitizeAnswer upper-cases a generated answer and drops everything but
// A–Z and spaces.
func SanitizeAnswer(s string) string {
	var b strings.Builder
	for _, r := range strings.ToUpper(s) {
		if (r >= 'A' && r <= 'Z') || r == ' ' {
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}

// MockGenerator returns fixed puzzles; used when Gemini is not configured.
type MockGenerator struct{}

var mockPuzzles = []Candidate{
	{Clue: "It goes up but never comes down", Answer: "YOUR AGE"},
	{Clue: "A nap for a feline", Answer: "CAT NAP"},
	{Clue: "Where bread goes to warm up", Answer: "TOASTER"},
	{Clue: "A sweet way to end the day", Answer: "DESSERT"},
	{Clue: "Keys that open no doors", Answer: "PIANO"},
	{Clue: "A very bright idea", Answer: "LIGHT BULB"},
}

func (MockGenerator) Generate(ctx context.Context, theme string) ([]Candidate, error) {
	out := make([]Candidate, 5)
	copy(out, mockPuzzles)
	return out, nil
}

func (MockGenerator) GenerateOne(ctx context.Context, theme string, existing []string) (Candidate, error) {
	used := make(map[string]bool, len(existing))
	for _, e := range existing {
		used[strings.ToUpper(strings.TrimSpace(e))] = true
	}
	for _, c := range mockPuzzles {
		if !used[c.Answer] {
			return c, nil
		}
	}
	return Candidate{}, errors.New("mock generator exhausted")
}
