package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/an4s911/library-fullstack/internal/api"
	"github.com/an4s911/library-fullstack/internal/validate"
)

func parseID(s string) (int, error) {
	id, err := strconv.Atoi(s)
	if err != nil || id < 1 {
		return 0, errors.New("id must be a positive integer")
	}
	return id, nil
}

func newAddCmd(a *app) *cobra.Command {
	var (
		title    string
		authorID string
		genreIDs []int
		allow    bool
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add one book",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validate.NewBook(title, authorID, genreIDs); err != nil {
				return err
			}
			err := a.client.AddBook(cmd.Context(), api.NewBook{
				Title:       title,
				AuthorID:    authorID,
				AllowBorrow: allow,
				GenreIDs:    genreIDs,
			})
			if err != nil {
				return err
			}
			a.render.Success("book %q added", title)
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "book title (required)")
	cmd.Flags().StringVar(&authorID, "author", "", "author id (required)")
	cmd.Flags().IntSliceVar(&genreIDs, "genre", nil, "genre id (repeatable, at least one)")
	cmd.Flags().BoolVar(&allow, "allow-borrow", true, "whether the book may be lent out")
	return cmd
}

func newImportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "import <books.csv>",
		Short: "Bulk add books from a CSV file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			f, err := os.Open(path)
			if err != nil {
				return err
			}
			rows, err := validate.ImportCSV(f)
			f.Close()
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}

			f, err = os.Open(path)
			if err != nil {
				return err
			}
			defer f.Close()
			if err := a.client.ImportBooks(cmd.Context(), f.Name(), f); err != nil {
				return err
			}
			a.render.Success("imported %d book(s)", rows)
			return nil
		},
	}
}

func newBorrowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "borrow <id> <borrower name>",
		Short: "Lend a book out",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			name, err := validate.BorrowerName(strings.Join(args[1:], " "))
			if err != nil {
				return err
			}
			if err := a.client.BorrowBook(cmd.Context(), id, name); err != nil {
				return err
			}
			a.render.Success("book %d lent to %s", id, name)
			return nil
		},
	}
}

func newReturnCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "return <id>",
		Short: "Record a borrowed book as returned",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := a.client.UnborrowBook(cmd.Context(), id); err != nil {
				return err
			}
			a.render.Success("book %d returned", id)
			return nil
		},
	}
}

func newAllowBorrowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "allow-borrow <id> <on|off>",
		Short: "Enable or disable borrowing for a book",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			var allow bool
			switch args[1] {
			case "on":
				allow = true
			case "off":
			default:
				return errors.New("second argument must be on or off")
			}
			if err := a.client.SetAllowBorrow(cmd.Context(), id, allow); err != nil {
				return err
			}
			a.render.Success("borrowing %s for book %d",
				map[bool]string{true: "enabled", false: "disabled"}[allow], id)
			return nil
		},
	}
}

func newDeleteCmd(a *app) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a book permanently",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if !yes && !confirmStdin(fmt.Sprintf("book %d will be permanently deleted. Continue? [y/N] ", id)) {
				return nil
			}
			if err := a.client.DeleteBook(cmd.Context(), id); err != nil {
				return err
			}
			a.render.Success("book %d deleted", id)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}

func newAddFacetCmd(a *app, kind api.FacetKind) *cobra.Command {
	return &cobra.Command{
		Use:   fmt.Sprintf("add-%s <name>", kind),
		Short: fmt.Sprintf("Create a new %s", kind),
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, err := validate.RequireBounded(kind.String()+" name", strings.Join(args, " "), 1, 150)
			if err != nil {
				return err
			}
			facet, err := a.client.AddFacet(cmd.Context(), kind, name)
			if err != nil {
				return err
			}
			a.render.Success("%s %q (id %d)", kind, facet.Name, facet.ID)
			return nil
		},
	}
}

func confirmStdin(question string) bool {
	fmt.Print(question)
	sc := bufio.NewScanner(os.Stdin)
	if !sc.Scan() {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(sc.Text()))
	return answer == "y" || answer == "yes"
}
