// Command migrate applies the database schema. The server only automigrates
// outside production, so production deploys run this explicitly.
package main

import (
	"flag"
	"fmt"
	"log"
	"strings"

	"dilse/internal/config"
	"dilse/internal/database"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func usage() error {
	return fmt.Errorf("usage: go run ./cmd/migrate <up|status>")
}

func run() error {
	flag.Parse()
	if flag.NArg() < 1 {
		return usage()
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}

	switch strings.ToLower(strings.TrimSpace(flag.Arg(0))) {
	case "up":
		if err := database.Migrate(db); err != nil {
			return err
		}
		log.Println("migrations applied")
	case "status":
		for _, table := range []string{"users", "posts", "replies"} {
			log.Printf("%s: exists=%t", table, db.Migrator().HasTable(table))
		}
	default:
		return usage()
	}

	return nil
}
