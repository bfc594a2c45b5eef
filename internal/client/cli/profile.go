package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/dmitrijs2005/gatewayclient/internal/client/session"
)

func printProfile(w io.Writer, p session.UserProfile) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	row := func(k, v string) {
		if v != "" {
			fmt.Fprintf(tw, "%s:\t%s\n", k, v)
		}
	}

	row("Username", p.Username)
	row("Name", strings.TrimSpace(p.Firstname+" "+p.Lastname))
	row("Email", p.Email)
	row("Phone", p.PhoneNumber)
	row("National ID", p.NationalID)
	row("Nationality", p.Nationality)
	row("Birthdate", p.Birthdate)
	if p.Gender != nil {
		row("Gender", fmt.Sprint(int(*p.Gender)))
	}
	if p.Role != nil {
		row("Role", string(*p.Role))
	}
	_ = tw.Flush()
}
