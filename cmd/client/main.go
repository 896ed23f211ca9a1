// Command client is the DRTP client CLI: dial a server, send one file
// under the chosen reliability engine, and print the throughput
// report. See cmd/gui-client for the optional desktop dashboard over
// the same internal/role entrypoint.
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
	ip := flag.String("ip", "", "server IP address (required)")
	port := flag.Int("port", 0, "server port (required)")
	file := flag.String("file", "", "path to the file to send (required)")
	reliable := flag.String("reliable", "", "reliability engine: stop_and_wait, gbn, or sr (required)")
	test := flag.String("test", "", "fault injection for this run: lose or double (client-only)")
	flag.Parse()

	if *ip == "" || *port == 0 || *file == "" || *reliable == "" {
		fmt.Fprintln(os.Stderr, "usage: client --ip IP --port PORT --file PATH --reliable {stop_and_wait,gbn,sr} [--test {lose,double}]")
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
	if *test == string(config.SkipAck) {
		fmt.Fprintln(os.Stderr, "--test skip_ack is server-only")
		os.Exit(1)
	}
	if !config.ValidFault(*test) {
		fmt.Fprintf(os.Stderr, "invalid --test %q\n", *test)
		os.Exit(1)
	}

	data, err := os.ReadFile(*file)
	if err != nil {
		fmt.Fprintln(os.Stderr, "read file:", err)
		os.Exit(1)
	}

	log := logger.NewLogger(logger.INFO, os.Stdout, "client")
	report, err := role.RunClient(role.ClientConfig{
		Host:     *ip,
		Port:     *port,
		File:     *file,
		Data:     data,
		Reliable: config.Reliable(*reliable),
		Fault:    config.Fault(*test),
		Log:      log,
	})
	if err != nil {
		log.Fatal("transfer failed: %v", err)
	}
	fmt.Println(report)
}
