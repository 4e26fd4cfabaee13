package main

import (
	"fmt"

	echoapi "github.com/trezcool/ufundi/apps/api/echo"
	"github.com/trezcool/ufundi/core"
)

// mkToken mints a signed JWT for the given actor. Identity management lives with the
// authentication collaborator; this is a development/operations shortcut.
func (cli *commandLine) mkToken(role string, subjectID int) error {
	if !core.KnownRole(role) {
		return fmt.Errorf("%q: unknown role", role)
	}

	claims := echoapi.GetActorClaims(core.Actor{Role: role, SubjectID: subjectID}, cli.conf)
	token, err := echoapi.GenerateToken(claims, cli.conf)
	if err != nil {
		return err
	}

	fmt.Println(token)
	return nil
}
