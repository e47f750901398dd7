package agent

import (
	"fmt"
	"strings"
	"time"

	"github.com/xzxcupidxzx/finance"
	"google.golang.org/genai"
)

const systemInstruction = `You record personal expenses and incomes in Vietnamese dong (VND).

Task:
- Read the user's message, in Vietnamese or English, and extract every transaction it mentions.
- Output a JSON array, possibly empty. Never ask questions back.

Rules:
- "type" is "Income" or "Expense".
- "amount" is a positive number of VND. "50k" is 50000, "2tr" or "2m" is 2000000, "1 tỷ" is 1000000000.
- Prefer the listed categories and accounts. Invent a short new name only when none fits.
- Without an account, use the default account.
- A movement between two of the user's accounts (withdrawal, top-up, transfer) sets "account" to the source and "toAccount" to the destination.
- "datetime" is "YYYY-MM-DDTHH:MM:SS" in local time. Omit it when the message gives no date or time.
- "description" is a few words in the user's language.`

// buildPrompt returns the user turn: the vocabulary, the current time and
// the message.
func buildPrompt(text string, vocab finance.Vocabulary, now time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Now: %s (%s)\n", now.Format(finance.DatetimeFormat), now.Weekday())
	fmt.Fprintf(&b, "Default account: %s\n", vocab.DefaultAccount)
	fmt.Fprintf(&b, "Accounts: %s\n", strings.Join(vocab.Accounts, ", "))
	fmt.Fprintf(&b, "Expense categories: %s\n", strings.Join(vocab.ExpenseCategories, ", "))
	fmt.Fprintf(&b, "Income categories: %s\n", strings.Join(vocab.IncomeCategories, ", "))
	fmt.Fprintf(&b, "\nMessage:\n%s\n", strings.TrimSpace(text))
	return b.String()
}

// proposalSchema constrains the model output to a list of proposals.
func proposalSchema(vocab finance.Vocabulary) *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeArray,
		Items: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"datetime": {
					Type:        genai.TypeString,
					Description: "Local datetime, YYYY-MM-DDTHH:MM:SS.",
				},
				"type": {
					Type: genai.TypeString,
					Enum: []string{string(finance.Income), string(finance.Expense)},
				},
				"category": {
					Type:        genai.TypeString,
					Description: "One of: " + strings.Join(append(append([]string{}, vocab.ExpenseCategories...), vocab.IncomeCategories...), ", "),
				},
				"amount": {
					Type:        genai.TypeNumber,
					Description: "Positive amount in VND.",
				},
				"account": {
					Type:        genai.TypeString,
					Description: "One of: " + strings.Join(vocab.Accounts, ", "),
				},
				"toAccount": {
					Type:        genai.TypeString,
					Description: "Destination account of a transfer only.",
				},
				"description": {
					Type: genai.TypeString,
				},
			},
			Required: []string{"type", "amount", "account", "description"},
		},
	}
}
