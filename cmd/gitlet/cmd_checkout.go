package main

import (
	"github.com/odvcencio/gitlet/pkg/repo"
	"github.com/spf13/cobra"
)

func newCheckoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "checkout <branch> | -- <file> | <commit> -- <file>",
		Short: "Switch branches or restore a file from a commit",
		RunE: func(cmd *cobra.Command, args []string) error {
			dash := cmd.ArgsLenAtDash()

			r, err := openRepo(cmd)
			if err != nil {
				return err
			}
			defer r.Close()

			switch {
			case dash == -1 && len(args) == 1:
				return r.CheckoutBranch(args[0])
			case dash == 0 && len(args) == 1:
				path, err := r.RelPath(args[0])
				if err != nil {
					return err
				}
				return r.CheckoutPath("", path)
			case dash == 1 && len(args) == 2:
				path, err := r.RelPath(args[1])
				if err != nil {
					return err
				}
				return r.CheckoutPath(args[0], path)
			default:
				return repo.ErrIncorrectOperands
			}
		},
	}
}
