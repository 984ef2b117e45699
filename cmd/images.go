package cmd

import (
	"github.com/spf13/cobra"
)

var imageTopK int

var addImageCmd = &cobra.Command{
	Use:   "add_image <path>",
	Short: "Add an image to the index",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, done, err := newImageController(cmd.Context(), cfg, cmd.OutOrStdout())
		if err != nil {
			return err
		}
		defer done()

		c.AddImage(cmd.Context(), args[0])
		return nil
	},
}

var indexImagesCmd = &cobra.Command{
	Use:   "index_images <image_dir>",
	Short: "Index every image in a folder",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, done, err := newImageController(cmd.Context(), cfg, cmd.OutOrStdout())
		if err != nil {
			return err
		}
		defer done()

		c.IndexImages(cmd.Context(), args[0])
		return nil
	},
}

var searchImageCmd = &cobra.Command{
	Use:   "search_image <query>",
	Short: "Find images by text description",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		topK, err := resolveTopK(cmd, imageTopK)
		if err != nil {
			return err
		}
		c, done, err := newImageController(cmd.Context(), cfg, cmd.OutOrStdout())
		if err != nil {
			return err
		}
		defer done()

		return c.SearchImages(cmd.Context(), args[0], topK)
	},
}

var syncImagesCmd = &cobra.Command{
	Use:   "sync_images",
	Short: "Remove index records for images that no longer exist",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, done, err := newImageController(cmd.Context(), cfg, cmd.OutOrStdout())
		if err != nil {
			return err
		}
		defer done()

		return c.SyncImages(cmd.Context())
	},
}

var listImagesCmd = &cobra.Command{
	Use:   "list_images",
	Short: "List indexed images by folder",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, done, err := newImageController(cmd.Context(), cfg, cmd.OutOrStdout())
		if err != nil {
			return err
		}
		defer done()

		return c.ListImages(cmd.Context())
	},
}

func init() {
	searchImageCmd.Flags().IntVar(&imageTopK, "top_k", 5, "number of results")

	rootCmd.AddCommand(addImageCmd, indexImagesCmd, searchImageCmd, syncImagesCmd, listImagesCmd)
}
