package cmd

import (
	"fmt"

	"github/itish2003/localassist/controller"

	"github.com/spf13/cobra"
)

var (
	paperTopics string
	paperTopK   int
)

var addPaperCmd = &cobra.Command{
	Use:   "add_paper <path>",
	Short: "Add and classify a paper",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, done, err := newPaperController(cmd.Context(), cfg, cmd.OutOrStdout())
		if err != nil {
			return err
		}
		defer done()

		c.AddPaper(cmd.Context(), args[0], controller.ParseTopics(paperTopics))
		return nil
	},
}

var organizePapersCmd = &cobra.Command{
	Use:   "organize_papers <source_dir>",
	Short: "Classify and organize every PDF in a folder",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, done, err := newPaperController(cmd.Context(), cfg, cmd.OutOrStdout())
		if err != nil {
			return err
		}
		defer done()

		c.OrganizePapers(cmd.Context(), args[0], controller.ParseTopics(paperTopics))
		return nil
	},
}

var searchPaperCmd = &cobra.Command{
	Use:   "search_paper <query>",
	Short: "Semantic search over indexed papers",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		topK, err := resolveTopK(cmd, paperTopK)
		if err != nil {
			return err
		}
		c, done, err := newPaperController(cmd.Context(), cfg, cmd.OutOrStdout())
		if err != nil {
			return err
		}
		defer done()

		return c.SearchPapers(cmd.Context(), args[0], topK)
	},
}

var syncPapersCmd = &cobra.Command{
	Use:   "sync_papers",
	Short: "Remove index records for papers that no longer exist",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, done, err := newPaperController(cmd.Context(), cfg, cmd.OutOrStdout())
		if err != nil {
			return err
		}
		defer done()

		return c.SyncPapers(cmd.Context())
	},
}

var listPapersCmd = &cobra.Command{
	Use:   "list_papers",
	Short: "List indexed papers by topic",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, done, err := newPaperController(cmd.Context(), cfg, cmd.OutOrStdout())
		if err != nil {
			return err
		}
		defer done()

		return c.ListPapers(cmd.Context())
	},
}

var watchPapersCmd = &cobra.Command{
	Use:   "watch_papers <dir>",
	Short: "Organize papers as they appear in a folder",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, done, err := newPaperController(cmd.Context(), cfg, cmd.OutOrStdout())
		if err != nil {
			return err
		}
		defer done()

		return c.WatchPapers(cmd.Context(), args[0], controller.ParseTopics(paperTopics))
	},
}

// resolveTopK prefers an explicit --top_k over the configured default.
func resolveTopK(cmd *cobra.Command, flagValue int) (int, error) {
	topK := cfg.Search.TopK
	if cmd.Flags().Changed("top_k") {
		topK = flagValue
	}
	if topK < 1 {
		return 0, fmt.Errorf("--top_k must be at least 1, got %d", topK)
	}
	return topK, nil
}

func init() {
	for _, c := range []*cobra.Command{addPaperCmd, organizePapersCmd, watchPapersCmd} {
		c.Flags().StringVar(&paperTopics, "topics", "", "comma-separated topic list")
		c.MarkFlagRequired("topics")
	}
	searchPaperCmd.Flags().IntVar(&paperTopK, "top_k", 5, "number of results")

	rootCmd.AddCommand(addPaperCmd, organizePapersCmd, searchPaperCmd, syncPapersCmd, listPapersCmd, watchPapersCmd)
}
