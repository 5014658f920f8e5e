package main

import (
	"fmt"
	"io"
	"time"

	"github.com/odvcencio/gitlet/pkg/object"
	"github.com/odvcencio/gitlet/pkg/repo"
	"github.com/spf13/cobra"
)

const logDateLayout = "Mon Jan 2 15:04:05 2006 -0700"

func newLogCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "log",
		Short: "Show first-parent history of the current branch",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := openRepo(cmd)
			if err != nil {
				return err
			}
			defer r.Close()

			entries, err := r.Log()
			if err != nil {
				return err
			}
			printLog(cmd.OutOrStdout(), entries)
			return nil
		},
	}
}

func newGlobalLogCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "global-log",
		Short: "Show every commit ever made",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := openRepo(cmd)
			if err != nil {
				return err
			}
			defer r.Close()

			entries, err := r.GlobalLog()
			if err != nil {
				return err
			}
			printLog(cmd.OutOrStdout(), entries)
			return nil
		},
	}
}

func printLog(out io.Writer, entries []repo.LogEntry) {
	for _, e := range entries {
		printCommit(out, e.Hash, e.Commit)
	}
}

func printCommit(out io.Writer, h object.Hash, c *object.Commit) {
	fmt.Fprintln(out, "===")
	fmt.Fprintf(out, "commit %s\n", h)
	if c.IsMerge() {
		fmt.Fprintf(out, "Merge: %s %s\n", shortID(c.Parent), shortID(c.SecondParent))
	}
	fmt.Fprintf(out, "Date: %s\n", time.Unix(c.Timestamp, 0).Format(logDateLayout))
	fmt.Fprintln(out, c.Message)
	fmt.Fprintln(out)
}

// shortID is the seven-character form used on merge lines.
func shortID(h object.Hash) string {
	if len(h) > 7 {
		return string(h[:7])
	}
	return string(h)
}
