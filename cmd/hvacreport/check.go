package main

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"hvac-pq-report/internal/hvac"
	"hvac-pq-report/internal/report"
)

// errNonCompliant is returned by check --strict when a room fails
var errNonCompliant = errors.New("one or more rooms are not compliant")

func newCheckCmd() *cobra.Command {
	var (
		in     string
		strict bool
	)

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Validate a report file and print each room's verdicts",
		RunE: func(cmd *cobra.Command, _ []string) error {
			data, err := loadReport(in)
			if err != nil {
				return err
			}
			for _, step := range []hvac.Step{hvac.StepGeneral, hvac.StepRooms, hvac.StepTests} {
				if err := hvac.CheckStep(data, step); err != nil {
					return err
				}
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ROOM\tNAME\tCLASS\tPOINTS\tOVERALL")
			failed := false
			for _, sec := range report.BuildRoomSections(data) {
				fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n",
					sec.Room.RoomNo, sec.Room.RoomName, sec.Class, sec.SamplePoints, sec.Overall.Label())
				if sec.Overall == report.VerdictFail {
					failed = true
				}
			}
			if err := w.Flush(); err != nil {
				return err
			}
			if strict && failed {
				return errNonCompliant
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&in, "in", "i", "", "report file (.yaml, .yml or .json)")
	cmd.Flags().BoolVar(&strict, "strict", false, "exit non-zero when a room is not compliant")
	_ = cmd.MarkFlagRequired("in")
	return cmd
}
