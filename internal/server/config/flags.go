package config

import (
	"flag"
	"os"

	"github.com/dmitrijs2005/gophfeedback/internal/flagx"
)

// parseFlags populates server Config fields from command-line flags.
//
// Supported flags:
//
//	-a string   gRPC bind address (e.g., ":50051")
//	-l string   log level (debug, info, warn, error)
//	-s string   store backend (sql, dynamodb, memory)
//	-r string   SQL driver (pgx, sqlite)
//	-d string   SQL DSN
//	-t string   DynamoDB table
//	-g string   DynamoDB region
//	-e string   DynamoDB endpoint override (e.g., "http://127.0.0.1:8000")
//	-u string   DynamoDB access key
//	-p string   DynamoDB secret key
//	-create-table      create the DynamoDB table when missing
//	-f string   content YAML file
//	-n int      default page size
//	-no-default-plugin skip the built-in site and user plugin
//	-created           answer new entries with 201
//
// Arguments the set does not define, such as -c/-config handled by the
// JSON loader, are skipped by flagx.ParseKnown.
func parseFlags(config *Config) {
	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrGRPC, "a", config.EndpointAddrGRPC, "address and port to run server")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")

	fs.StringVar(&config.StoreBackend, "s", config.StoreBackend, "store backend (sql, dynamodb or memory)")
	fs.StringVar(&config.DatabaseDriver, "r", config.DatabaseDriver, "database driver (pgx or sqlite)")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")

	fs.StringVar(&config.DynamoTable, "t", config.DynamoTable, "DynamoDB table")
	fs.StringVar(&config.DynamoRegion, "g", config.DynamoRegion, "DynamoDB region")
	fs.StringVar(&config.DynamoEndpoint, "e", config.DynamoEndpoint, "DynamoDB endpoint")
	fs.StringVar(&config.DynamoAccessKey, "u", config.DynamoAccessKey, "DynamoDB access key")
	fs.StringVar(&config.DynamoSecretKey, "p", config.DynamoSecretKey, "DynamoDB secret key")
	fs.BoolVar(&config.DynamoCreateTable, "create-table", config.DynamoCreateTable, "create DynamoDB table if missing")

	fs.StringVar(&config.ContentFile, "f", config.ContentFile, "content YAML file")
	fs.IntVar(&config.PerPage, "n", config.PerPage, "default page size")
	fs.BoolVar(&config.DisableDefaultPlugin, "no-default-plugin", config.DisableDefaultPlugin, "disable the default plugin")
	fs.BoolVar(&config.CreatedStatus, "created", config.CreatedStatus, "respond 201 for new entries")

	if err := flagx.ParseKnown(fs, os.Args[1:]); err != nil {
		panic(err)
	}
}
