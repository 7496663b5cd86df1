package main

import (
	"net/url"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/gemvoyage/web/internal/browse"
)

type listFlags struct {
	category string
	query    string
	page     int
}

func (l *listFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&l.category, "category", "c", "All", "Category filter (All, Culture, History, Nature, Shopping, Food, Entertainment)")
	cmd.Flags().StringVarP(&l.query, "query", "q", "", "Free-text search in title, description and location")
	cmd.Flags().IntVarP(&l.page, "page", "p", 1, "Page number")
}

func (l *listFlags) values() url.Values {
	v := url.Values{}
	v.Set("category", l.category)
	v.Set("q", l.query)
	v.Set("page", strconv.Itoa(l.page))
	return v
}

func newBrowseCmd(a *app) *cobra.Command {
	var flags listFlags
	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Browse all gems, filtered and paginated",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			f := a.flows(ctx)
			b := browse.New(f.gems.AllSource(), browse.WithPerPage(a.cfg.PerPage), browse.WithLogger(a.logger))
			b.Load(ctx)
			b.Apply(flags.values())
			if b.LoadErr() != nil {
				writeln(cmd.ErrOrStderr(), "Failed to fetch gems.")
			}
			writeln(cmd.OutOrStdout(), a.renderer.Page(b.View()))
			return nil
		},
	}
	flags.register(cmd)
	return cmd
}

func newLatestCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "latest",
		Short: "Show the most recently added gems",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			list := a.flows(cmd.Context()).gems.Latest(cmd.Context())
			writeln(cmd.OutOrStdout(), a.renderer.List("Latest gems", list))
			return nil
		},
	}
}

func newCitiesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "cities",
		Short: "List the cities with gems",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cities := a.flows(cmd.Context()).gems.Cities(cmd.Context())
			writeln(cmd.OutOrStdout(), a.renderer.Cities(cities))
			return nil
		},
	}
}

func newCityCmd(a *app) *cobra.Command {
	var flags listFlags
	cmd := &cobra.Command{
		Use:   "city <slug>",
		Short: "Show the gems of one city, e.g. gemvoyage city new-york",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			f := a.flows(ctx)
			city := f.gems.City(ctx, args[0])

			b := browse.New(f.gems.CitySource(city.Name), browse.WithPerPage(a.cfg.PerPage), browse.WithLogger(a.logger))
			b.Load(ctx)
			b.Apply(flags.values())
			if b.LoadErr() != nil {
				writeln(cmd.ErrOrStderr(), "Failed to fetch city gems.")
			}
			writeln(cmd.OutOrStdout(), a.renderer.City(city, b.View()))
			return nil
		},
	}
	flags.register(cmd)
	return cmd
}

func newGemCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "gem <id-or-slug>",
		Short: "Show a gem with its votes and comments",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := a.flows(cmd.Context()).gems.Detail(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			writeln(cmd.OutOrStdout(), a.renderer.Detail(d))
			return nil
		},
	}
}
