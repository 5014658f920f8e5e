package main

import (
	"fmt"

	"github.com/odvcencio/gitlet/pkg/repo"
	"github.com/spf13/cobra"
)

func newInitCmd() *cobra.Command {
	cfg := repo.DefaultConfig()

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create an empty gitlet repository in the current directory",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := repo.Init(".", cfg, repoOptions(cmd)...)
			if err != nil {
				return err
			}
			defer r.Close()

			fmt.Fprintf(cmd.OutOrStdout(), "initialized empty gitlet repository in %s (%s, %s backend)\n",
				r.GitletDir, r.Store.Algorithm(), r.Config.Storage.Backend)
			return nil
		},
	}

	cmd.Flags().StringVar(&cfg.Core.Hash, "hash", cfg.Core.Hash, "digest algorithm (sha256|sha1)")
	cmd.Flags().StringVar(&cfg.Storage.Backend, "backend", cfg.Storage.Backend, "storage backend (dir|badger)")
	cmd.Flags().StringVar(&cfg.Storage.Compression, "compression", cfg.Storage.Compression, "object compression (none|zstd)")
	cmd.Flags().StringVar(&cfg.Core.DefaultBranch, "branch", cfg.Core.DefaultBranch, "name of the initial branch")
	cmd.Flags().StringVar(&cfg.User.SigningKey, "signing-key", "", "default SSH key for commit --sign")

	return cmd
}
