package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xzxcupidxzx/finance"
	"google.golang.org/genai"
)

// Classifier turns a user utterance into transaction proposals, using the
// names in vocab. Proposals are not trusted: they go through the regular
// mutators.
type Classifier interface {
	Classify(ctx context.Context, text string, vocab finance.Vocabulary) ([]finance.Proposal, error)
}

// DefaultModel is the Gemini model used when none is configured.
const DefaultModel = "gemini-2.5-flash"

// Gemini classifies utterances with a Gemini model.
type Gemini struct {
	client *genai.Client
	model  string
	// Now dates relative expressions such as "yesterday".
	Now func() time.Time
}

// NewGemini returns a classifier calling model through client.
func NewGemini(client *genai.Client, model string) *Gemini {
	if model == "" {
		model = DefaultModel
	}
	return &Gemini{client: client, model: model, Now: time.Now}
}

func (g *Gemini) Classify(ctx context.Context, text string, vocab finance.Vocabulary) ([]finance.Proposal, error) {
	config := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: systemInstruction}}},
		ResponseMIMEType:  "application/json",
		ResponseSchema:    proposalSchema(vocab),
	}
	contents := []*genai.Content{
		{
			Role:  "user",
			Parts: []*genai.Part{{Text: buildPrompt(text, vocab, g.Now())}},
		},
	}
	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, config)
	if err != nil {
		return nil, fmt.Errorf("classify: generate content: %w", err)
	}
	raw := resp.Text()
	if raw == "" {
		return nil, fmt.Errorf("classify: empty response from model")
	}
	return decodeProposals(raw)
}

// wireProposal is a proposal as returned by the model.
type wireProposal struct {
	Datetime    string          `json:"datetime"`
	Type        string          `json:"type"`
	Category    string          `json:"category"`
	Amount      decimal.Decimal `json:"amount"`
	Account     string          `json:"account"`
	ToAccount   string          `json:"toAccount"`
	Description string          `json:"description"`
}

// decodeProposals parses the model output. A type that cannot be parsed and
// a negative amount are kept as is, for validation to reject them.
func decodeProposals(raw string) ([]finance.Proposal, error) {
	clean := cleanModelJSON(raw)
	var wire []wireProposal
	if err := json.Unmarshal([]byte(clean), &wire); err != nil {
		return nil, fmt.Errorf("classify: unmarshal JSON: %w\nraw response: %s", err, raw)
	}
	proposals := make([]finance.Proposal, 0, len(wire))
	for _, w := range wire {
		p := finance.Proposal{
			Datetime:    strings.TrimSpace(w.Datetime),
			Type:        finance.Type(w.Type),
			Category:    strings.TrimSpace(w.Category),
			Amount:      w.Amount,
			Account:     strings.TrimSpace(w.Account),
			ToAccount:   strings.TrimSpace(w.ToAccount),
			Description: strings.TrimSpace(w.Description),
		}
		if t, err := finance.ParseType(w.Type); err == nil {
			p.Type = t
		}
		if p.IsTransfer() {
			p.Type, p.Category = finance.Expense, ""
		}
		proposals = append(proposals, p)
	}
	return proposals, nil
}

func cleanModelJSON(raw string) string {
	s := strings.TrimSpace(raw)

	// Handle ```json ... ``` or ``` ... ``` wrappers.
	if strings.HasPrefix(s, "```") {
		if idx := strings.Index(s, "\n"); idx != -1 {
			s = s[idx+1:]
		} else {
			return s
		}
		s = strings.TrimSpace(s)
	}
	if idx := strings.LastIndex(s, "```"); idx != -1 {
		s = s[:idx]
	}
	s = strings.TrimSpace(s)

	// A single object is a one-element list.
	if strings.HasPrefix(s, "{") {
		return "[" + s + "]"
	}
	// Keep only from the first '[' to the last ']'.
	if start := strings.Index(s, "["); start != -1 {
		if end := strings.LastIndex(s, "]"); end != -1 && end > start {
			s = strings.TrimSpace(s[start : end+1])
		}
	}
	return s
}
