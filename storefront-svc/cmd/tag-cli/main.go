// Command tag-cli maintains the promotional tag shown on storefront
// services.
//
// Example:
//
//	tag-cli set --service "Steam Iron" --tag Premium
package main

import (
	"fmt"
	"os"

	"ironxpress/config"
	"ironxpress/storefront-svc/internal/service"
	"ironxpress/storefront-svc/internal/storage"

	"github.com/spf13/cobra"
)

// TagRepositoryFactory opens the repository a command works against and
// returns a function that releases it.
type TagRepositoryFactory func() (service.TagRepository, func(), error)

type SetOptions struct {
	Service string
	Tag     string
}

func NewRootCommand(open TagRepositoryFactory) *cobra.Command {
	root := &cobra.Command{
		Use:           "tag-cli",
		Short:         "Manage storefront service tags",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(NewSetCommand(open))
	return root
}

func NewSetCommand(open TagRepositoryFactory) *cobra.Command {
	opts := &SetOptions{}

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Set the tag of a service by exact name",
		Long: `Set the tag of a service by exact name.

When no service matches, the available services are listed instead.
An empty --tag clears the tag.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSet(cmd, open, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Service, "service", "", "service name (required)")
	cmd.Flags().StringVar(&opts.Tag, "tag", "", "tag to set")
	cmd.MarkFlagRequired("service")

	return cmd
}

func runSet(cmd *cobra.Command, open TagRepositoryFactory, opts *SetOptions) error {
	repo, closeRepo, err := open()
	if err != nil {
		return err
	}
	defer closeRepo()

	result, err := service.NewTagService(repo).SetTag(cmd.Context(), opts.Service, opts.Tag)
	if err != nil {
		return fmt.Errorf("set tag: %w", err)
	}

	out := cmd.OutOrStdout()
	if len(result.Updated) > 0 {
		for _, s := range result.Updated {
			fmt.Fprintf(out, "Updated %q: tag=%q\n", s.Name, s.Tag)
		}
		return nil
	}

	fmt.Fprintf(out, "No service named %q. Available services:\n", opts.Service)
	for _, s := range result.Available {
		tag := s.Tag
		if tag == "" {
			tag = "-"
		}
		fmt.Fprintf(out, "  %s (tag: %s)\n", s.Name, tag)
	}
	return nil
}

func openPostgres() (service.TagRepository, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	db := config.MustInitPostgres(cfg)
	return storage.NewPostgresRepository(db), func() { db.Close() }, nil
}

func main() {
	if err := NewRootCommand(openPostgres).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
