// Package explain asks an Anthropic model questions about a classification
// run, grounded on a compact JSON rendering of the run.
package explain

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/pable/go-nba-hotcold/internal/analysis"
)

// ErrNoAPIKey is returned when no Anthropic key is configured.
var ErrNoAPIKey = errors.New("no API key: set HOTCOLD_ANTHROPIC_API_KEY")

const systemPrompt = `You are an NBA performance analyst. You are given the output of a tool that
clusters one player's season games into hot, average and cold performances,
and a question from the user.

Rules:
- Answer ONLY from the data provided. Never invent or estimate statistics.
- Always cite specific numbers when making a claim.
- If the data is insufficient to answer confidently, say so explicitly.
- Be concise.

Metrics glossary:
- impact: PTS + 1.2*REB + 1.5*AST + 2*STL + 2*BLK - TOV + 0.5*PLUS_MINUS for one game.
- labels: clusters ranked by mean impact. Cold < Average < Hot.
- win_rate: fraction of the label's games that were wins (0-1).
- silhouette: clustering separation in [-1, 1]; null when undefined.`

// Explainer streams grounded answers from an Anthropic model.
type Explainer struct {
	client anthropic.Client
	model  string
}

// New returns an Explainer for model. Extra request options are passed to
// the SDK client.
func New(apiKey, model string, opts ...option.RequestOption) (*Explainer, error) {
	if apiKey == "" {
		return nil, ErrNoAPIKey
	}
	opts = append([]option.RequestOption{option.WithAPIKey(apiKey)}, opts...)
	return &Explainer{
		client: anthropic.NewClient(opts...),
		model:  model,
	}, nil
}

// BuildContext serialises a run into compact JSON.
func BuildContext(rep *analysis.Report) (string, error) {
	type gameEntry struct {
		Date    string  `json:"date"`
		Matchup string  `json:"matchup"`
		WL      string  `json:"wl"`
		PTS     float64 `json:"pts"`
		REB     float64 `json:"reb"`
		AST     float64 `json:"ast"`
		Impact  float64 `json:"impact"`
		Label   string  `json:"label"`
	}
	games := func(as []analysis.Assignment) []gameEntry {
		out := make([]gameEntry, 0, len(as))
		for _, a := range as {
			out = append(out, gameEntry{
				Date: a.GameDate, Matchup: a.Matchup, WL: a.WL.String(),
				PTS: a.PTS, REB: a.REB, AST: a.AST,
				Impact: round2(a.Impact), Label: a.Label,
			})
		}
		return out
	}

	type labelEntry struct {
		Label      string  `json:"label"`
		Games      int     `json:"games"`
		Percentage float64 `json:"pct"`
		PTS        float64 `json:"pts"`
		REB        float64 `json:"reb"`
		AST        float64 `json:"ast"`
		PlusMinus  float64 `json:"plus_minus"`
		Impact     float64 `json:"impact"`
		WinRate    float64 `json:"win_rate"`
	}
	labels := make([]labelEntry, 0, len(rep.Order()))
	for _, l := range rep.Order() {
		st := rep.Analysis[l]
		labels = append(labels, labelEntry{
			Label: l, Games: st.Count, Percentage: round2(st.Percentage),
			PTS: round2(st.AvgPTS), REB: round2(st.AvgREB), AST: round2(st.AvgAST),
			PlusMinus: round2(st.AvgPM), Impact: round2(st.AvgImpact), WinRate: round2(st.WinRate),
		})
	}

	var silhouette *float64
	if rep.Result != nil && rep.Result.Silhouette != nil {
		s := round2(*rep.Result.Silhouette)
		silhouette = &s
	}

	all := rep.Assignments()
	doc := map[string]interface{}{
		"player":         rep.Subject,
		"games_analyzed": rep.Games,
		"silhouette":     silhouette,
		"labels":         labels,
		"best_games":     games(analysis.TopByImpact(all, "", 3, true)),
		"worst_games":    games(analysis.TopByImpact(all, "", 3, false)),
		"monthly":        analysis.MonthlyImpact(all),
	}
	b, err := json.Marshal(doc)
	return string(b), err
}

// Explain streams the model's answer to question to w.
func (e *Explainer) Explain(ctx context.Context, w io.Writer, contextJSON, question string) error {
	userMsg := fmt.Sprintf("DATA:\n%s\n\nQUESTION: %s", contextJSON, question)

	stream := e.client.Messages.NewStreaming(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(e.model),
		MaxTokens: 1024,
		System: []anthropic.TextBlockParam{
			{Text: systemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(userMsg)),
		},
	})

	for stream.Next() {
		evt := stream.Current()
		if evt.Type == "content_block_delta" {
			delta := evt.AsContentBlockDelta()
			if delta.Delta.Type == "text_delta" {
				fmt.Fprint(w, delta.Delta.AsTextDelta().Text)
			}
		}
	}

	if err := stream.Err(); err != nil {
		errStr := err.Error()
		if strings.Contains(errStr, "401") || strings.Contains(errStr, "authentication") {
			return fmt.Errorf("API authentication failed: check your API key")
		}
		return fmt.Errorf("streaming error: %w", err)
	}
	return nil
}

// round2 rounds to 2 decimal places.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
