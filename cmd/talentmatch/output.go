package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/poiesic/talentmatch/batch"
	"github.com/poiesic/talentmatch/core"
)

func printResults(w io.Writer, results []*core.MatchResult) error {
	if len(results) == 0 {
		_, err := fmt.Fprintln(w, "No matches")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "RANK\tCANDIDATE\tJOB\tFINAL\tQUALITY\tHYBRID\tTRADITIONAL\tMATCHED\tMISSING")
	for i, r := range results {
		fmt.Fprintf(tw, "%d\t%d\t%d\t%.3f\t%s\t%.3f\t%.3f\t%s\t%s\n",
			i+1, r.CandidateId, r.JobId, r.Final, r.Quality, r.Hybrid, r.Traditional,
			strings.Join(r.MatchedSkills, ","), strings.Join(r.MissingSkills, ","))
	}
	return tw.Flush()
}

func printSummary(w io.Writer, s *batch.Summary) {
	fmt.Fprintf(w, "Run %s (%s)\n", s.RunID, s.Direction)
	fmt.Fprintf(w, "  entities:  %d processed of %d, %d failed\n", s.Processed, s.Entities, s.Failed)
	fmt.Fprintf(w, "  results:   %d kept, %d pairs skipped, %d degraded\n", s.Results, s.Skipped, s.Degraded)
	fmt.Fprintf(w, "  chunks:    %d in %v\n", s.Chunks, s.Elapsed.Round(time.Millisecond))
	if s.Canceled {
		fmt.Fprintln(w, "  canceled before completion")
	}
}
