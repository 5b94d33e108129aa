// See: https://github.com/pressly/goose/blob/master/examples/go-migrations/main.go

package main

import (
	"flag"
	"log"
	"os"

	"github.com/AstaRoggers/yt-summarizer/internal/store"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"
)

var flags = flag.NewFlagSet("goose", flag.ExitOnError)

func main() {
	flags.Parse(os.Args[1:])
	args := flags.Args()

	if len(args) < 2 {
		log.Println("usage: goose <dbstring> <command> [args]")
		flags.Usage()
		return
	}

	dbstring, command := args[0], args[1]

	db, err := goose.OpenDBWithDriver("sqlite", dbstring)
	if err != nil {
		log.Fatalf("goose: failed to open DB: %v\n", err)
	}

	defer func() {
		if err := db.Close(); err != nil {
			log.Fatalf("goose: failed to close DB: %v\n", err)
		}
	}()

	goose.SetBaseFS(store.MigrationsFS)

	arguments := []string{}
	if len(args) > 2 {
		arguments = append(arguments, args[2:]...)
	}

	if err := goose.Run(command, db, "migrations", arguments...); err != nil {
		log.Fatalf("goose %v: %v", command, err)
	}
}
