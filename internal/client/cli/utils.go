package cli

import (
	"errors"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/dmitrijs2005/sociopedia/internal/client/client"
)

func printUser(w io.Writer, u *client.User) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "ID:\t%s\n", u.ID)
	fmt.Fprintf(tw, "Name:\t%s %s\n", u.FirstName, u.LastName)
	fmt.Fprintf(tw, "Email:\t%s\n", u.Email)
	if u.Location != "" {
		fmt.Fprintf(tw, "Location:\t%s\n", u.Location)
	}
	if u.Occupation != "" {
		fmt.Fprintf(tw, "Occupation:\t%s\n", u.Occupation)
	}
	fmt.Fprintf(tw, "Profile views:\t%d\n", u.ViewedProfile)
	fmt.Fprintf(tw, "Impressions:\t%d\n", u.Impressions)
	_ = tw.Flush()
}

// describeError turns client errors into short user-facing messages.
func describeError(err error) string {
	switch {
	case errors.Is(err, errNotLoggedIn):
		return "you are not logged in, use 'login' first"
	case errors.Is(err, client.ErrInvalidCredentials):
		return "invalid email or password"
	case errors.Is(err, client.ErrUnauthorized):
		return "session expired, please log in again"
	case errors.Is(err, client.ErrAlreadyExists):
		return "this email is already registered"
	case errors.Is(err, client.ErrUnavailable):
		return "server is unavailable, try again later"
	default:
		return err.Error()
	}
}
