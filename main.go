// dualnet keeps a pool of UDP sockets, promoting a listener to a
// connected socket on its first datagram and listening again at once.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"dualnet/cmd"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := cmd.Execute(ctx, os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "dualnet: %v\n", err)
		os.Exit(1)
	}
}
