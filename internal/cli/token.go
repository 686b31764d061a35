package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/iliyamo/filmes-api/internal/utils"
)

// TokenOptions holds flags for the token command.
type TokenOptions struct {
	*RootOptions
	Subject string
	Role    string
	TTL     time.Duration
}

// NewTokenCommand creates the token command.
func NewTokenCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TokenOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue an access token for the write routes",
		Long: `Issue an HS256 access token signed with JWT_SECRET.

Example:
  filmes-api token --subject ops --role ADMIN --ttl 2h`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return issueToken(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Subject, "subject", "admin", "token subject")
	cmd.Flags().StringVar(&opts.Role, "role", utils.RoleAdmin, "role claim")
	cmd.Flags().DurationVar(&opts.TTL, "ttl", 0, "token lifetime (defaults to ACCESS_TOKEN_TTL_MIN)")
	return cmd
}

func issueToken(cmd *cobra.Command, opts *TokenOptions) error {
	auth := opts.Config.Auth
	if !auth.Enabled() {
		return errors.New("JWT_SECRET is not set")
	}
	ttl := opts.TTL
	if ttl <= 0 {
		ttl = time.Duration(auth.AccessTTLMin) * time.Minute
	}
	tok, err := utils.NewAccessToken(auth.Secret, opts.Subject, opts.Role, ttl)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), tok.Token)
	fmt.Fprintf(cmd.ErrOrStderr(), "expires %s\n", tok.Exp.Format(time.RFC3339))
	return nil
}
