package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/dmitrijs2005/skdtracker/internal/api"
)

const timeLayout = "2006-01-02 15:04"

func printAttempts(w io.Writer, list []api.AttemptView) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tTWK\tTIU\tTKP\tTOTAL\tRECORDED")
	for _, v := range list {
		recorded := "-"
		if !v.CreatedAt.IsZero() {
			recorded = v.CreatedAt.Local().Format(timeLayout)
		}
		fmt.Fprintf(tw, "%d\t%d\t%d\t%d\t%d\t%s\n", v.Ordinal, v.TWK, v.TIU, v.TKP, v.Total, recorded)
	}
	_ = tw.Flush()
}

func printAccounts(w io.Writer, list []api.AccountView) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "USERNAME\tCOHORT\tROLE\tATTEMPTS\tLATEST\tID")
	for _, v := range list {
		cohort, latest := "-", "-"
		if v.Cohort != "" {
			cohort = v.Cohort
		}
		if v.Latest != nil {
			latest = fmt.Sprintf("#%d %d", v.Latest.Ordinal, v.Latest.Total)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\t%s\n", v.Username, cohort, v.Role, v.Attempts, latest, v.ID)
	}
	_ = tw.Flush()
}
