package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mrlokans/bestsellers/internal/books"
	"github.com/mrlokans/bestsellers/internal/config"
	"github.com/mrlokans/bestsellers/internal/database"
)

type seedBookOptions struct {
	ISBN        string
	Title       string
	Author      string
	Description string
	Publisher   string
}

// newSeedBookCommand stores a book directly so it can be tracked without
// asking the NYT API.
func newSeedBookCommand() *cobra.Command {
	opts := &seedBookOptions{}

	cmd := &cobra.Command{
		Use:   "seed-book",
		Short: "Store a book without fetching it from the NYT API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSeedBook(cmd, config.NewConfig().Database, opts)
		},
	}

	cmd.Flags().StringVar(&opts.ISBN, "isbn", "", "ISBN-10 of the book (required)")
	cmd.Flags().StringVar(&opts.Title, "title", "", "Book title (required)")
	cmd.Flags().StringVar(&opts.Author, "author", "", "Book author (required)")
	cmd.Flags().StringVar(&opts.Description, "description", "", "Short description")
	cmd.Flags().StringVar(&opts.Publisher, "publisher", "", "Publisher")
	_ = cmd.MarkFlagRequired("isbn")
	_ = cmd.MarkFlagRequired("title")
	_ = cmd.MarkFlagRequired("author")

	return cmd
}

func runSeedBook(cmd *cobra.Command, dbCfg config.Database, opts *seedBookOptions) error {
	return withBookService(dbCfg, func(svc *books.Service) error {
		book, err := svc.Seed(cmd.Context(), opts.Title, opts.Author, opts.Description, opts.Publisher, opts.ISBN)
		if err != nil {
			if database.IsUniqueViolation(err) {
				return fmt.Errorf("a book with ISBN %s already exists", opts.ISBN)
			}
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Stored %q by %s (ISBN %s, id %d)\n", book.Title, book.Author, book.ISBN10, book.ID)
		return nil
	})
}
