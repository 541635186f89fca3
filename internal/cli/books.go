package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/mrlokans/bestsellers/internal/books"
	"github.com/mrlokans/bestsellers/internal/config"
	"github.com/mrlokans/bestsellers/internal/database"
	booksrepo "github.com/mrlokans/bestsellers/internal/database/books"
)

// withBookService opens the database, runs fn and closes the database.
// Maintenance commands never consult the API, so no history provider is wired.
func withBookService(dbCfg config.Database, fn func(svc *books.Service) error) error {
	db, err := database.NewDatabase(dbCfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("error closing database", "error", err)
		}
	}()

	return fn(books.NewService(booksrepo.NewRepository(db.DB), nil))
}

func newListBooksCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list-books",
		Short: "List the stored books",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runListBooks(cmd, config.NewConfig().Database)
		},
	}
}

func runListBooks(cmd *cobra.Command, dbCfg config.Database) error {
	return withBookService(dbCfg, func(svc *books.Service) error {
		all, err := svc.All(cmd.Context())
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ISBN\tTITLE\tAUTHOR\tSTORED")
		for _, b := range all {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", b.ISBN10, b.Title, b.Author, humanize.Time(b.CreatedAt))
		}
		return w.Flush()
	})
}

func newDeleteBookCommand() *cobra.Command {
	var isbn string

	cmd := &cobra.Command{
		Use:   "delete-book",
		Short: "Delete a stored book and stop every user tracking it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDeleteBook(cmd, config.NewConfig().Database, isbn)
		},
	}
	cmd.Flags().StringVar(&isbn, "isbn", "", "ISBN-10 of the book (required)")
	_ = cmd.MarkFlagRequired("isbn")

	return cmd
}

func runDeleteBook(cmd *cobra.Command, dbCfg config.Database, isbn string) error {
	return withBookService(dbCfg, func(svc *books.Service) error {
		book, err := svc.Remove(cmd.Context(), isbn)
		if err != nil {
			if database.IsNotFound(err) {
				return fmt.Errorf("no book with ISBN %s", isbn)
			}
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted %q (ISBN %s)\n", book.Title, book.ISBN10)
		return nil
	})
}
