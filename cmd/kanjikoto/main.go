package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/conorfennell/kanjikoto/internal/practice"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd(practice.RealNower{}).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
