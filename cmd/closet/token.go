package main

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/erazemk/closet/internal/auth"
	"github.com/erazemk/closet/internal/config"
)

const tokenHelp = `Usage: closet token [flags]

Issues an intake token signed with the secret stored in the database.

Flags:
  -D, -driver <name>      database driver, sqlite or postgres (env CLOSET_DB_DRIVER, default: sqlite)
  -d, -db <dsn>           database path or DSN (env CLOSET_DB_DSN, default: closet.sqlite3)
  -s, -subject <name>     who the token is for (default: intake)
  -t, -ttl <duration>     token lifetime (default: 2160h)
  -l, -log <path>         log file path (env CLOSET_LOG)
  -h, -help               show this help and exit
`

func cmdToken(args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	var subject string
	var ttl time.Duration
	err = parseFlags("token", tokenHelp, cfg, args, func(fs *flag.FlagSet) {
		fs.StringVar(&subject, "subject", "intake", "")
		fs.StringVar(&subject, "s", "intake", "")
		fs.DurationVar(&ttl, "ttl", auth.TokenExpiry, "")
		fs.DurationVar(&ttl, "t", auth.TokenExpiry, "")
	})
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	closeLog, err := setupLogger(cfg.LogPath)
	if err != nil {
		return err
	}
	defer closeLog()

	database, st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer database.Close()

	secret, err := st.GetTokenSecret(context.Background())
	if err != nil {
		return fmt.Errorf("loading token secret: %w", err)
	}

	token, err := auth.GenerateToken(secret, subject, ttl)
	if err != nil {
		return err
	}

	fmt.Println(token)
	return nil
}
