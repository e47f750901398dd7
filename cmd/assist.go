package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/google/subcommands"
	"github.com/xzxcupidxzx/finance/agent"
	"github.com/xzxcupidxzx/finance/logger"
	"google.golang.org/genai"
)

// assistCmd is the subcommand for the AI assistant.
type assistCmd struct {
	once bool
}

// Name returns the name of the command.
func (*assistCmd) Name() string { return "assist" }

// Synopsis returns a short-one line synopsis of the command.
func (*assistCmd) Synopsis() string { return "record transactions described in plain language" }

// Usage returns a long-form usage string.
func (*assistCmd) Usage() string {
	return `pft assist [-once] [<message>...]

  Starts an interactive session with the assistant: describe expenses and
  incomes in Vietnamese or English ("phở 45k", "lương tháng 3 15tr vào ngân
  hàng") and they are recorded. Unknown accounts and categories are created.
  The message given on the command line is handled first; with -once the
  session ends after it.

  The assistant calls Gemini: set GEMINI_API_KEY, and PFT_MODEL to change the
  model.
`
}

// SetFlags sets the flags for the command.
func (c *assistCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.once, "once", false, "Exit after handling the message given on the command line.")
}

// Execute executes the command.
func (c *assistCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	var prompts []string
	if f.NArg() > 0 {
		prompts = append(prompts, strings.Join(f.Args(), " "))
	}
	if c.once {
		if len(prompts) == 0 {
			fmt.Fprintln(os.Stderr, "Error: -once needs a message.")
			return subcommands.ExitUsageError
		}
		prompts = append(prompts, "bye")
	}

	s, err := openStore()
	if err != nil {
		return fail(err)
	}
	defer s.Close()

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  s.cfg.Assist.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error initializing Gemini's client:", err)
		return subcommands.ExitFailure
	}

	classifier := agent.NewGemini(client, s.cfg.Assist.Model)
	classifier.Now = s.store.Now
	a := agent.New(stdout, os.Stdin, s.store, classifier)
	a.Markdown = renderMarkdown

	ctx = logger.WithContext(ctx, logger.New(logger.ParseLevel(s.cfg.LogLevel)))
	if err := a.Run(ctx, prompts...); err != nil {
		fmt.Fprintln(os.Stderr, "Agent failed:", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
