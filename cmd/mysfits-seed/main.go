// Command mysfits-seed loads a JSON seed file into the mysfits table.
//
//	mysfits-seed -file mysfits.json
package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"

	"github.com/jacentio/mysfits/internal/awsclient"
	"github.com/jacentio/mysfits/internal/config"
	"github.com/jacentio/mysfits/internal/seed"
)

func main() {
	file := flag.String("file", "", "path to the seed file (JSON array of mysfits)")
	table := flag.String("table", "", "override the table name from the environment")
	flag.Parse()

	if err := run(*file, *table); err != nil {
		slog.Error("seed failed", "error", err)
		os.Exit(1)
	}
}

func run(path, table string) error {
	if path == "" {
		return errors.New("-file is required")
	}

	cfg, err := config.New()
	if err != nil {
		return err
	}
	logger := cfg.Logger(os.Stdout)
	if table == "" {
		table = cfg.TableName
	}

	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	mysfits, err := seed.Load(f)
	if err != nil {
		return err
	}

	ctx := context.Background()
	client, err := awsclient.NewDynamoDB(ctx, awsclient.Options{
		Region:      cfg.AWSRegion,
		Endpoint:    cfg.DynamoDBEndpoint,
		MaxAttempts: cfg.AWSMaxAttempts,
	})
	if err != nil {
		return err
	}

	if err := seed.Write(ctx, client, table, mysfits); err != nil {
		return err
	}
	logger.Info("seeded mysfits", "table", table, "count", len(mysfits))
	return nil
}
