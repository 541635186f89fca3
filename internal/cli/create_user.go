package cli

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/mrlokans/bestsellers/internal/auth"
	"github.com/mrlokans/bestsellers/internal/config"
	"github.com/mrlokans/bestsellers/internal/database"
	"github.com/mrlokans/bestsellers/internal/database/users"
)

type createUserOptions struct {
	Username string
	Email    string
	Password string
	ImageURL string
}

func newCreateUserCommand() *cobra.Command {
	opts := &createUserOptions{}

	cmd := &cobra.Command{
		Use:   "create-user",
		Short: "Create an account from the command line",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.NewConfig()
			return runCreateUser(cmd, cfg.Database, cfg.Auth, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Username, "username", "", "Username (required)")
	cmd.Flags().StringVar(&opts.Email, "email", "", "Email address (required)")
	cmd.Flags().StringVar(&opts.Password, "password", "", "Password (required)")
	cmd.Flags().StringVar(&opts.ImageURL, "image-url", "", "Avatar URL")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}

func runCreateUser(cmd *cobra.Command, dbCfg config.Database, authCfg config.Auth, opts *createUserOptions) error {
	db, err := database.NewDatabase(dbCfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("error closing database", "error", err)
		}
	}()

	svc := auth.NewService(users.NewRepository(db.DB), authCfg)
	user, err := svc.Signup(cmd.Context(), opts.Username, opts.Email, opts.Password, opts.ImageURL)
	if err != nil {
		if msg := auth.FormErrorMessage(err); msg != "" {
			return errors.New(msg)
		}
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Created user %s (id %d)\n", user.Username, user.ID)
	return nil
}
