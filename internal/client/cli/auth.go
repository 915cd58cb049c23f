package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/sociopedia/internal/client/client"
	"github.com/dmitrijs2005/sociopedia/internal/common"
)

// getSimpleText and getPassword are swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

var errNotLoggedIn = errors.New("not logged in")

// Register prompts for the profile fields and a password and creates the
// account. It does not log the user in.
func (a *App) Register(ctx context.Context) error {
	var req client.RegisterRequest

	fields := []struct {
		prompt string
		dst    *string
	}{
		{"Enter first name", &req.FirstName},
		{"Enter last name", &req.LastName},
		{"Enter email", &req.Email},
		{"Enter location (optional)", &req.Location},
		{"Enter occupation (optional)", &req.Occupation},
	}
	for _, f := range fields {
		v, err := getSimpleText(a.reader, f.prompt, a.out)
		if err != nil {
			return err
		}
		*f.dst = v
	}

	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)
	req.Password = password

	u, err := a.api.Register(ctx, req)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Registered %s. Use 'login' to sign in.\n", u.Email)
	return nil
}

// Login prompts for credentials and keeps the issued token for later
// commands. A failed login clears any previous session.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	s, err := a.api.Login(ctx, email, password)
	if err != nil {
		a.session = nil
		return err
	}

	a.session = s
	fmt.Fprintf(a.out, "Welcome, %s!\n", s.User.FirstName)
	return nil
}

// Me prints the profile of the signed-in user. A rejected token ends the
// session.
func (a *App) Me(ctx context.Context) error {
	if a.session == nil {
		return errNotLoggedIn
	}

	u, err := a.api.Me(ctx, a.session.Token)
	if err != nil {
		if errors.Is(err, client.ErrUnauthorized) {
			a.session = nil
		}
		return err
	}

	printUser(a.out, u)
	return nil
}

func (a *App) Logout(_ context.Context) error {
	if a.session == nil {
		return errNotLoggedIn
	}
	a.session = nil
	fmt.Fprintln(a.out, "Logged out")
	return nil
}
