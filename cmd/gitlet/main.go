package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/odvcencio/gitlet/pkg/repo"
	"github.com/spf13/cobra"
)

const version = "0.1.0-dev"

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes the CLI and returns the process exit code.
func run(args []string, stdout, stderr io.Writer) int {
	root := newRootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	if err := root.Execute(); err != nil {
		if msg, ok := repo.Message(err); ok {
			fmt.Fprintln(stderr, msg)
		} else {
			fmt.Fprintln(stderr, err)
		}
		return 1
	}
	return 0
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "gitlet",
		Short:         "A minimal version-control system",
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	root.PersistentFlags().BoolP("verbose", "v", false, "log debug records to stderr")

	root.AddCommand(newVersionCmd())
	root.AddCommand(newInitCmd())
	root.AddCommand(newAddCmd())
	root.AddCommand(newCommitCmd())
	root.AddCommand(newRmCmd())
	root.AddCommand(newLogCmd())
	root.AddCommand(newGlobalLogCmd())
	root.AddCommand(newFindCmd())
	root.AddCommand(newStatusCmd())
	root.AddCommand(newCheckoutCmd())
	root.AddCommand(newBranchCmd())
	root.AddCommand(newRmBranchCmd())
	root.AddCommand(newResetCmd())
	root.AddCommand(newMergeCmd())
	root.AddCommand(newVerifyCmd())
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "gitlet %s\n", version)
		},
	}
}

// repoOptions builds the options shared by every command from the root
// flags.
func repoOptions(cmd *cobra.Command) []repo.Option {
	verbose, _ := cmd.Flags().GetBool("verbose")
	if !verbose {
		return nil
	}
	handler := slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: slog.LevelDebug})
	return []repo.Option{repo.WithLogger(slog.New(handler))}
}

// openRepo opens the repository containing the working directory.
func openRepo(cmd *cobra.Command) (*repo.Repo, error) {
	return repo.Open(".", repoOptions(cmd)...)
}

// exactArgs rejects a wrong operand count with the user-facing
// "Incorrect operands." error.
func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) != n {
			return repo.ErrIncorrectOperands
		}
		return nil
	}
}

func noArgs(cmd *cobra.Command, args []string) error {
	return exactArgs(0)(cmd, args)
}
