package config

import (
	"flag"
	"os"

	"github.com/verlato/mathtutor/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-d string   path to the local database file
//	-p string   base URL of the AI provider endpoint
//	-m string   provider model name
//
// The function filters os.Args to only include the flags it knows about,
// using flagx.FilterArgs, to avoid interference with other components.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-d", "-p", "-m"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.DatabasePath, "d", cfg.DatabasePath, "path to the local database file")
	fs.StringVar(&cfg.ProviderEndpointAddr, "p", cfg.ProviderEndpointAddr, "AI provider endpoint")
	fs.StringVar(&cfg.ProviderModel, "m", cfg.ProviderModel, "AI provider model name")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
