package main

import (
	"database/sql"
	"errors"
	"flag"
	"fmt"

	"github.com/trezcool/ufundi/core"
)

var errHelp = errors.New("help provided")

type commandLine struct {
	db   *sql.DB
	conf *core.Config
}

func (cli *commandLine) printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  migrate COMMAND [args] - run database migrations (up, down, status, ...)")
	fmt.Println("  mktoken -role ROLE -subject ID - mint an access token for an actor")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	mkTokenCmd := flag.NewFlagSet("mktoken", flag.ExitOnError)
	mkTokenRole := mkTokenCmd.String("role", "", "The actor's role (teacher, trainee, institution:regional, institution:national, institution:training).")
	mkTokenSubject := mkTokenCmd.Int("subject", 0, "The actor's subject id.")

	switch args[1] {
	case "migrate":
		if len(args) < 3 {
			cli.printUsage()
			return errHelp
		}
		return cli.migrate(args[2:])
	case "mktoken":
		if err := mkTokenCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *mkTokenRole == "" || *mkTokenSubject == 0 {
			mkTokenCmd.Usage()
			return errHelp
		}
		return cli.mkToken(*mkTokenRole, *mkTokenSubject)
	default:
		cli.printUsage()
		return errHelp
	}
}
