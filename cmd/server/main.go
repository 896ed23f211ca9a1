// Command server is the DRTP server CLI: bind a UDP port, accept
// exactly one transfer under the chosen reliability engine, save the
// received file, and exit. See cmd/gui-server for the optional
// desktop dashboard over the same internal/role entrypoint.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/lukscarv/drtp/internal/config"
	"github.com/lukscarv/drtp/internal/logger"
	"github.com/lukscarv/drtp/internal/role"
)

func main() {
	ip := flag.String("ip", "", "bind IP address (required)")
	port := flag.Int("port", 0, "bind port (required)")
	reliable := flag.String("reliable", "", "reliability engine: stop_and_wait, gbn, or sr (required)")
	test := flag.String("test", "", "fault injection for this run: skip_ack (server-only)")
	flag.Parse()

	if *ip == "" || *port == 0 || *reliable == "" {
		fmt.Fprintln(os.Stderr, "usage: server --ip IP --port PORT --reliable {stop_and_wait,gbn,sr} [--test skip_ack]")
		os.Exit(2)
	}
	if err := config.ValidateHost(*ip); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if err := config.ValidatePort(*port); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if !config.ValidReliable(*reliable) {
		fmt.Fprintf(os.Stderr, "invalid --reliable %q\n", *reliable)
		os.Exit(1)
	}
	if *test == string(config.Lose) || *test == string(config.Double) {
		fmt.Fprintf(os.Stderr, "--test %s is client-only\n", *test)
		os.Exit(1)
	}
	if !config.ValidFault(*test) {
		fmt.Fprintf(os.Stderr, "invalid --test %q\n", *test)
		os.Exit(1)
	}

	log := logger.NewLogger(logger.INFO, os.Stdout, "server")
	err := role.RunServer(role.ServerConfig{
		Host:     *ip,
		Port:     *port,
		Reliable: config.Reliable(*reliable),
		Fault:    config.Fault(*test),
		Log:      log,
		Save: func(name string, data []byte) error {
			return os.WriteFile(name, data, 0o644)
		},
	})
	if err != nil {
		log.Fatal("transfer failed: %v", err)
	}
}
