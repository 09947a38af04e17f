package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/an4s911/library-fullstack/internal/api"
	"github.com/an4s911/library-fullstack/internal/options"
	"github.com/an4s911/library-fullstack/internal/query"
)

func newListCmd(a *app) *cobra.Command {
	var (
		search   string
		scope    string
		authors  []string
		genres   []string
		borrowed string
		allowed  string
		sortBy   string
		desc     bool
		page     int
		table    bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Fetch one page of books matching the given filters",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := query.Default(a.cfg.PageSize)
			opts.PageNum = page
			opts.FreeText = search
			opts.AuthorIDs = query.DedupIDs(authors)
			opts.GenreIDs = query.DedupIDs(genres)

			if scope != "" {
				sc, ok := query.ParseScope(scope)
				if !ok {
					return fmt.Errorf("unknown scope %q", scope)
				}
				opts.Scope = sc
			}
			if sortBy != "" {
				key, ok := query.ParseSortKey(sortBy)
				if !ok {
					return fmt.Errorf("unknown sort key %q", sortBy)
				}
				opts.SortBy = key
				opts.SortDesc = desc
			}
			var err error
			if opts.Borrowed, err = triStateFlag("borrowed", borrowed); err != nil {
				return err
			}
			if opts.BorrowAllowed, err = triStateFlag("allowed", allowed); err != nil {
				return err
			}

			result, err := a.client.GetBooks(cmd.Context(), opts)
			if err != nil {
				return err
			}
			mode := a.store.ViewMode()
			if table {
				mode = options.ViewList
			}
			a.render.Page(*result, mode)
			return nil
		},
	}

	cmd.Flags().StringVarP(&search, "search", "q", "", "free-text search term")
	cmd.Flags().StringVar(&scope, "in", "", "search scope: all, title, author or borrower")
	cmd.Flags().StringSliceVar(&authors, "author", nil, "filter by author id (repeatable)")
	cmd.Flags().StringSliceVar(&genres, "genre", nil, "filter by genre id (repeatable)")
	cmd.Flags().StringVar(&borrowed, "borrowed", "", "filter by borrow state: yes or no")
	cmd.Flags().StringVar(&allowed, "allowed", "", "filter by borrow permission: yes or no")
	cmd.Flags().StringVar(&sortBy, "sort", "", "sort key")
	cmd.Flags().BoolVar(&desc, "desc", false, "sort descending")
	cmd.Flags().IntVar(&page, "page", 1, "page number")
	cmd.Flags().BoolVar(&table, "table", false, "force table output")
	return cmd
}

func triStateFlag(name, v string) (*bool, error) {
	switch v {
	case "":
		return nil, nil
	case "yes", "true":
		t := true
		return &t, nil
	case "no", "false":
		f := false
		return &f, nil
	}
	return nil, fmt.Errorf("--%s must be yes or no", name)
}

func newShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one book",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			book, err := a.client.GetBook(cmd.Context(), id)
			if err != nil {
				return err
			}
			a.render.Book(*book)
			return nil
		},
	}
}

func newFacetsCmd(a *app, kind api.FacetKind) *cobra.Command {
	return &cobra.Command{
		Use:   kind.String() + "s",
		Short: fmt.Sprintf("List all %ss", kind),
		RunE: func(cmd *cobra.Command, args []string) error {
			facets, err := a.client.GetFacets(cmd.Context(), kind)
			if err != nil {
				return err
			}
			a.render.Facets(kind, facets)
			return nil
		},
	}
}
