package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newVerifyCmd() *cobra.Command {
	var signatures bool

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Verify object integrity and, optionally, commit signatures",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := openRepo(cmd)
			if err != nil {
				return err
			}
			defer r.Close()

			out := cmd.OutOrStdout()
			report, err := r.Verify()
			if err != nil {
				return err
			}
			for _, p := range report.Problems {
				fmt.Fprintln(out, p)
			}
			if !report.OK() {
				return fmt.Errorf("verify: %d problem(s) found", len(report.Problems))
			}
			fmt.Fprintf(out, "ok: verified %d commit(s), %d blob(s)\n", report.Commits, report.Blobs)

			if !signatures {
				return nil
			}
			reports, err := r.CheckSignatures(verifySSHCommitSignature)
			if err != nil {
				return err
			}
			bad := 0
			for _, rep := range reports {
				switch {
				case !rep.Signed:
					fmt.Fprintf(out, "%s unsigned\n", rep.Hash.Short())
				case rep.Err != nil:
					bad++
					fmt.Fprintf(out, "%s BAD signature: %v\n", rep.Hash.Short(), rep.Err)
				default:
					fmt.Fprintf(out, "%s good signature\n", rep.Hash.Short())
				}
			}
			if bad > 0 {
				return fmt.Errorf("verify: %d bad signature(s)", bad)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&signatures, "signatures", false, "also check SSH signatures on the current branch history")
	return cmd
}
