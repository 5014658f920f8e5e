package main

import (
	"fmt"
	"strings"

	"github.com/odvcencio/gitlet/pkg/repo"
	"github.com/spf13/cobra"
)

func newCommitCmd() *cobra.Command {
	var sign bool
	var keyPath string

	cmd := &cobra.Command{
		Use:   "commit <message>",
		Short: "Record staged changes as a new commit",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 1 {
				return repo.ErrIncorrectOperands
			}
			message := ""
			if len(args) == 1 {
				message = args[0]
			}

			r, err := openRepo(cmd)
			if err != nil {
				return err
			}
			defer r.Close()

			var signer repo.CommitSigner
			if sign {
				if strings.TrimSpace(keyPath) == "" {
					keyPath = r.Config.User.SigningKey
				}
				s, _, err := newSSHCommitSigner(keyPath)
				if err != nil {
					return err
				}
				signer = s
			}

			h, err := r.CommitWithSigner(message, signer)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "[%s %s] %s\n", r.CurrentBranch(), h.Short(), firstLine(message))
			return nil
		},
	}

	cmd.Flags().BoolVar(&sign, "sign", false, "sign the commit with an SSH key")
	cmd.Flags().StringVar(&keyPath, "key", "", "SSH private key for --sign (default: user.signing_key or ~/.ssh/id_*)")

	return cmd
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return line
}
