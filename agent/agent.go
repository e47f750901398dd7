// Package agent is the natural language assistant: it classifies free text
// into transaction proposals and records them in the ledger.
package agent

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/xzxcupidxzx/finance"
	"github.com/xzxcupidxzx/finance/logger"
	"github.com/xzxcupidxzx/finance/renderer"
)

// Agent is the assistant session.
type Agent struct {
	w          io.Writer
	r          *bufio.Reader
	store      *finance.Store
	classifier Classifier
	// Markdown renders replies for the terminal. Replies are printed as
	// plain markdown when nil.
	Markdown func(string) string
}

// New creates a new Agent recording into store.
//
// It takes an io.Writer for the agent's output (e.g., os.Stdout), and an
// io.Reader for user input (e.g., os.Stdin).
func New(w io.Writer, r io.Reader, store *finance.Store, c Classifier) *Agent {
	return &Agent{
		w:          w,
		r:          bufio.NewReader(r),
		store:      store,
		classifier: c,
	}
}

// Record classifies text and applies the proposals to the store.
func (a *Agent) Record(ctx context.Context, text string) ([]finance.ProposalResult, error) {
	proposals, err := a.classifier.Classify(ctx, text, a.store.Vocabulary())
	if err != nil {
		return nil, err
	}
	results := a.store.ApplyProposals(proposals)
	log := logger.FromContext(ctx)
	for _, res := range results {
		if res.Err != nil {
			log.Warn().Err(res.Err).Str("type", string(res.Proposal.Type)).Msg("proposal not applied cleanly")
		}
	}
	return results, nil
}

const prompt = "assist> "

// Run starts the interactive REPL session for the agent.
func (a *Agent) Run(ctx context.Context, prompts ...string) error {
	fmt.Fprintln(a.w, "Welcome to pft assist. Describe your expenses, type 'bye' to exit.")

	// REPL loop
	for {
		fmt.Fprint(a.w, prompt)
		var input string

		// Flush prompts from the list and then ask for the user.
		if len(prompts) > 0 {
			input, prompts = prompts[0], prompts[1:]
			input = strings.TrimSpace(input)
			if input == "" {
				continue
			}
			fmt.Fprintln(a.w, input)
		} else {
			var err error
			input, err = a.r.ReadString('\n')
			if err != nil {
				if err == io.EOF {
					return nil // Clean exit on Ctrl+D
				}
				return err
			}
		}

		input = strings.TrimSpace(input)
		if input == "bye" {
			return nil
		}
		if input == "" {
			continue
		}

		results, err := a.Record(ctx, input)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			fmt.Fprintf(a.w, "Sorry, I could not understand that: %v\n", err)
			continue
		}
		a.print(renderer.ProposalsMarkdown(results))
	}
}

func (a *Agent) print(md string) {
	if a.Markdown != nil {
		md = a.Markdown(md)
	}
	fmt.Fprint(a.w, md)
}
