// Command gns3launch opens the console or packet capture program matching a
// gns3+telnet, gns3+vnc, gns3+spice or gns3+pcap URL handed over by the
// GNS3 web client. It also manages the shared command settings.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mfulz/gns3launch/cmd/gns3launch/cmd"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cmd.NewRootCmd(version).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}
