package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gemvoyage/web/internal/models"
)

func newVoteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:       "vote <gem-id> up|down",
		Short:     "Upvote or downvote a gem",
		Args:      cobra.ExactArgs(2),
		ValidArgs: []string{"up", "down"},
		RunE: func(cmd *cobra.Command, args []string) error {
			var positive bool
			switch strings.ToLower(args[1]) {
			case "up", "+", "+1":
				positive = true
			case "down", "-", "-1":
				positive = false
			default:
				return fmt.Errorf("vote must be up or down, got %q", args[1])
			}
			tally, err := a.flows(cmd.Context()).votes.Cast(cmd.Context(), args[0], positive)
			if err != nil {
				return err
			}
			writeln(cmd.OutOrStdout(), a.renderer.Tally(tally))
			return nil
		},
	}
}

func newCommentCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "comment <gem-id> <text>...",
		Short: "Comment on a gem",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			thread, err := a.flows(cmd.Context()).comments.Post(cmd.Context(), args[0], strings.Join(args[1:], " "))
			if err != nil {
				return err
			}
			if thread.Stale {
				writeln(cmd.ErrOrStderr(), "Comment posted; failed to refresh comments.")
			}
			writeln(cmd.OutOrStdout(), a.renderer.Comments(thread.Comments))
			return nil
		},
	}
}

func newCreateCmd(a *app) *cobra.Command {
	var (
		in        models.CreateGemRequest
		category  string
		imageFile string
	)
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Share a new gem",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			f := a.flows(ctx)
			in.Category = models.Category(category)

			if imageFile != "" {
				file, err := os.Open(imageFile)
				if err != nil {
					return err
				}
				defer file.Close()
				url, err := f.gems.UploadImage(ctx, filepath.Base(imageFile), file)
				if err != nil {
					return err
				}
				in.Image = url
			}

			gem, err := f.gems.Create(ctx, in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Gem created: /gem/%s\n", gem.PathID())
			writeln(cmd.OutOrStdout(), a.renderer.Card(gem))
			return nil
		},
	}
	cmd.Flags().StringVar(&in.Title, "title", "", "Gem title")
	cmd.Flags().StringVar(&in.Description, "description", "", "Description (markdown)")
	cmd.Flags().StringVar(&in.Location, "location", "", "Location, e.g. \"Porto, Portugal\"")
	cmd.Flags().StringVar(&category, "category", "", "Category (Culture, History, Nature, Shopping, Food, Entertainment)")
	cmd.Flags().StringVar(&in.Image, "image", "", "Image URL")
	cmd.Flags().StringVar(&imageFile, "image-file", "", "Local image to upload instead of --image")
	return cmd
}
