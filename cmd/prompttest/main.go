package main

// Try an enhancement prompt against the configured provider:
//   go run ./cmd/prompttest --kind summary "Backend engineer with 5 years of Go"
//   echo "built billing pipeline" | go run ./cmd/prompttest --kind responsibility --job-title "SRE" -

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"resume-builder/internal/llm"
	"resume-builder/internal/llm/gemini"
	"resume-builder/internal/llm/openai"
	"resume-builder/internal/shared/config"
)

type options struct {
	kind     string
	jobTitle string
	provider string
	model    string
	showOnly bool
}

func newRootCmd(cfg config.Config, stdin io.Reader, stdout io.Writer) *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:          "prompttest [text|-]",
		Short:        "Print an enhancement prompt and the provider's rewrite",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			text := args[0]
			if text == "-" {
				raw, err := io.ReadAll(stdin)
				if err != nil {
					return err
				}
				text = string(raw)
			}
			return run(cmd.Context(), opts, text, stdout)
		},
	}
	cmd.Flags().StringVar(&opts.kind, "kind", string(llm.KindResponsibility), "summary or responsibility")
	cmd.Flags().StringVar(&opts.jobTitle, "job-title", "", "job title given to the model")
	cmd.Flags().StringVar(&opts.provider, "provider", cfg.LLMProvider, "openai, gemini or none")
	cmd.Flags().StringVar(&opts.model, "model", cfg.LLMModel, "model name")
	cmd.Flags().BoolVar(&opts.showOnly, "prompt-only", false, "print the prompts without calling the provider")
	return cmd
}

func run(ctx context.Context, opts *options, text string, out io.Writer) error {
	req := llm.Request{Kind: llm.Kind(opts.kind), Text: text, JobTitle: opts.jobTitle}
	fmt.Fprintf(out, "--- system ---\n%s\n--- user ---\n%s\n", llm.SystemPrompt(req.Kind), llm.UserPrompt(req))
	if opts.showOnly {
		return nil
	}

	client, closeFn, err := buildClient(ctx, opts)
	if err != nil {
		return err
	}
	defer closeFn()

	start := time.Now()
	rewritten, err := client.Enhance(ctx, req)
	if err != nil {
		return fmt.Errorf("enhance: %w", err)
	}
	fmt.Fprintf(out, "--- result (%s, %s) ---\n%s\n", opts.provider, time.Since(start).Round(time.Millisecond), rewritten)
	return nil
}

func buildClient(ctx context.Context, opts *options) (llm.Client, func(), error) {
	noop := func() {}
	switch strings.ToLower(strings.TrimSpace(opts.provider)) {
	case "openai":
		c, err := openai.NewClient(os.Getenv("OPENAI_API_KEY"), opts.model, 0)
		return c, noop, err
	case "gemini", "google":
		c, err := gemini.NewClient(ctx, os.Getenv("GEMINI_API_KEY"), opts.model)
		if err != nil {
			return nil, noop, err
		}
		return c, func() { _ = c.Close() }, nil
	default:
		return llm.PlaceholderClient{}, noop, nil
	}
}

func main() {
	cfg := config.Load()
	if err := newRootCmd(cfg, os.Stdin, os.Stdout).ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
