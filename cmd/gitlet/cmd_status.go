package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show branches, staged files and working-tree changes",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := openRepo(cmd)
			if err != nil {
				return err
			}
			defer r.Close()

			st, err := r.Status()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			section(out, "Branches")
			for _, b := range st.Branches {
				if b == st.Head {
					fmt.Fprintf(out, "*%s\n", b)
				} else {
					fmt.Fprintln(out, b)
				}
			}
			fmt.Fprintln(out)

			section(out, "Staged Files")
			lines(out, st.Staged)

			section(out, "Removed Files")
			lines(out, st.Removed)

			section(out, "Modifications Not Staged For Commit")
			for _, m := range st.Modified {
				fmt.Fprintf(out, "%s (%s)\n", m.Path, m.Reason)
			}
			fmt.Fprintln(out)

			section(out, "Untracked Files")
			lines(out, st.Untracked)
			return nil
		},
	}
}

func section(out io.Writer, title string) {
	fmt.Fprintf(out, "=== %s ===\n", title)
}

func lines(out io.Writer, items []string) {
	for _, s := range items {
		fmt.Fprintln(out, s)
	}
	fmt.Fprintln(out)
}
