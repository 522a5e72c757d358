package main

// Render a resume JSON file with a catalog template:
//   go run ./cmd/renderdemo --template modern --out resume.html resume.json
//   go run ./cmd/renderdemo --template classic --pdf resume.pdf resume.json

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"resume-builder/internal/export"
	"resume-builder/internal/resumes"
	"resume-builder/internal/templates"
)

type options struct {
	templateID string
	mode       string
	htmlOut    string
	pdfOut     string
	chromePath string
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:          "renderdemo [resume.json]",
		Short:        "Render a resume with a catalog template to HTML or PDF",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), opts, args[0])
		},
	}
	cmd.Flags().StringVar(&opts.templateID, "template", "", "template id (defaults to the resume's templateId)")
	cmd.Flags().StringVar(&opts.mode, "mode", string(templates.ModeView), "view or edit")
	cmd.Flags().StringVar(&opts.htmlOut, "out", "", "write HTML here (stdout when empty and --pdf is not set)")
	cmd.Flags().StringVar(&opts.pdfOut, "pdf", "", "print the view-mode page to this PDF file")
	cmd.Flags().StringVar(&opts.chromePath, "chrome", os.Getenv("CHROME_PATH"), "Chrome executable")
	return cmd
}

func loadResume(path string) (resumes.Resume, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return resumes.Resume{}, fmt.Errorf("read resume: %w", err)
	}
	var doc resumes.Resume
	if err := json.Unmarshal(raw, &doc); err != nil {
		return resumes.Resume{}, fmt.Errorf("decode resume: %w", err)
	}
	if doc.ID == "" {
		doc.ID = "demo"
	}
	return doc, nil
}

func run(ctx context.Context, opts *options, path string) error {
	doc, err := loadResume(path)
	if err != nil {
		return err
	}
	if id := strings.TrimSpace(opts.templateID); id != "" {
		doc.TemplateID = id
	}

	catalog, err := templates.DefaultCatalog()
	if err != nil {
		return err
	}
	svc, err := templates.NewService(catalog)
	if err != nil {
		return err
	}

	if opts.pdfOut != "" {
		page, err := svc.Render(ctx, doc, templates.ModeView)
		if err != nil {
			return err
		}
		pdf, err := export.NewChromePrinter(opts.chromePath).PrintPDF(ctx, page, "#"+templates.RootID)
		if err != nil {
			return err
		}
		pages, err := export.PageCount(pdf)
		if err != nil {
			return err
		}
		if err := os.WriteFile(opts.pdfOut, pdf, 0o644); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "wrote %s (%d pages)\n", opts.pdfOut, pages)
		if opts.htmlOut == "" {
			return nil
		}
	}

	page, err := svc.Render(ctx, doc, templates.ParseMode(opts.mode))
	if err != nil {
		return err
	}
	if opts.htmlOut == "" {
		_, err = os.Stdout.Write(page)
		return err
	}
	return os.WriteFile(opts.htmlOut, page, 0o644)
}

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
