package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/gophfeedback/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   address and port of the feedback server
//	-i int      online check interval (in seconds)
//	-t int      request timeout (in seconds)
//	-culture    culture used for localized names
//
// Other arguments in os.Args are skipped by flagx.ParseKnown.
func parseFlags(cfg *Config) {
	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.ServerEndpointAddr, "a", cfg.ServerEndpointAddr, "address and port to access server")
	onlineCheckInterval := fs.Int("i", int(cfg.OnlineCheckInterval.Seconds()), "online check interval (in seconds)")
	requestTimeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")
	fs.StringVar(&cfg.Culture, "culture", cfg.Culture, "culture used for localized names")

	if err := flagx.ParseKnown(fs, os.Args[1:]); err != nil {
		panic(err)
	}

	cfg.OnlineCheckInterval = time.Duration(*onlineCheckInterval) * time.Second
	cfg.RequestTimeout = time.Duration(*requestTimeout) * time.Second
}
