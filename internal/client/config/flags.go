package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/skdtracker/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
//	-a string   address and port of the server (default from Config)
//	-w int      request timeout in seconds (default from Config)
//	-i int      online check interval in seconds (default from Config)
//	-o string   export download directory (default from Config)
//
// os.Args is filtered with flagx.FilterArgs so -c/-config does not break
// parsing.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-w", "-i", "-o"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.ServerEndpointAddr, "a", cfg.ServerEndpointAddr, "address and port to access server")
	timeout := fs.Int("w", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")
	onlineCheckInterval := fs.Int("i", int(cfg.OnlineCheckInterval.Seconds()), "online check interval (in seconds)")
	fs.StringVar(&cfg.ExportDir, "o", cfg.ExportDir, "directory for downloaded exports")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.RequestTimeout = time.Duration(*timeout) * time.Second
	cfg.OnlineCheckInterval = time.Duration(*onlineCheckInterval) * time.Second
}
