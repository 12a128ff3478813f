package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/shaharia-lab/notificator/internal/config"
	"github.com/shaharia-lab/notificator/internal/notification"
	"github.com/shaharia-lab/notificator/internal/service"
)

type contentsFile struct {
	Contents []notification.Content `yaml:"contents"`
}

// NewDispatchCmd returns the "dispatch" subcommand that sends the contents of
// a YAML file in one run.
func NewDispatchCmd(cfg *config.AppConfig) *cobra.Command {
	var (
		file   string
		dryRun bool
	)

	cmd := &cobra.Command{
		Use:   "dispatch",
		Short: "Send project update notifications from a YAML file",
		Example: `  notificator dispatch --file updates.yaml
  notificator dispatch --file updates.yaml --dry-run`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			contents, err := loadContentsFile(file)
			if err != nil {
				return err
			}
			if dryRun {
				return renderContents(cmd.OutOrStdout(), cfg, contents)
			}
			return runDispatch(cmd.Context(), cmd.OutOrStdout(), cfg, contents)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "YAML file with the notification contents")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Render the emails without sending them")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

// loadContentsFile reads notification contents from path. The file holds
// either a top-level list or a mapping with a "contents" list.
func loadContentsFile(path string) ([]notification.Content, error) {
	data, err := os.ReadFile(path) //nolint:gosec
	if err != nil {
		return nil, fmt.Errorf("reading contents file: %w", err)
	}

	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, fmt.Errorf("parsing contents file %s: %w", path, err)
	}
	if len(node.Content) == 0 {
		return nil, nil
	}

	root := node.Content[0]
	if root.Kind == yaml.SequenceNode {
		var contents []notification.Content
		if err := root.Decode(&contents); err != nil {
			return nil, fmt.Errorf("decoding contents in %s: %w", path, err)
		}
		return contents, nil
	}

	var f contentsFile
	if err := root.Decode(&f); err != nil {
		return nil, fmt.Errorf("decoding contents in %s: %w", path, err)
	}
	return f.Contents, nil
}

func renderContents(w io.Writer, cfg *config.AppConfig, contents []notification.Content) error {
	generator := notification.NewTemplateGenerator(cfg.SubjectPrefix, cfg.BrandName)
	for i, c := range contents {
		email, err := generator.Generate(c)
		if err != nil {
			return fmt.Errorf("rendering email %d of %d: %w", i+1, len(contents), err)
		}
		fmt.Fprintln(w, titleStyle.Render(fmt.Sprintf("[%d/%d] %s", i+1, len(contents), email.Subject)))
		fmt.Fprintln(w, labelStyle.Render("To")+email.To)
		fmt.Fprintln(w)
		fmt.Fprintln(w, email.TextBody)
	}
	fmt.Fprintln(w, okStyle.Render(fmt.Sprintf("%d email(s) rendered, nothing sent", len(contents))))
	return nil
}

func runDispatch(ctx context.Context, w io.Writer, cfg *config.AppConfig, contents []notification.Content) error {
	if ctx == nil {
		ctx = context.Background()
	}
	a, err := newApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := a.Close(context.WithoutCancel(ctx)); err != nil {
			fmt.Fprintf(os.Stderr, "shutdown: %v\n", err)
		}
	}()

	summary, runErr := a.service.DispatchContents(ctx, service.TriggerCLI, contents)
	if summary != nil {
		printSummary(w, summary)
	}
	if runErr != nil {
		return fmt.Errorf("dispatch failed: %w", runErr)
	}
	return nil
}

func printSummary(w io.Writer, s *service.RunSummary) {
	status := okStyle.Render("completed")
	if s.Error != "" {
		status = errorStyle.Render("failed")
	}
	rows := [][2]string{
		{"Run", s.RunID},
		{"Status", status},
		{"Items", fmt.Sprint(s.Items)},
		{"Submitted", fmt.Sprint(s.Submitted)},
		{"Unsent", fmt.Sprint(s.Unsent)},
		{"Notice", fmt.Sprint(s.FailureNoticeSent)},
	}
	if s.Error != "" {
		rows = append(rows, [2]string{"Error", s.Error})
	}
	for _, r := range rows {
		fmt.Fprintln(w, labelStyle.Render(r[0])+r[1])
	}
}
