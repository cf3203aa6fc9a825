// 14 March 2024

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	. "github.com/andrew-torda/thal/pkg/common"
	"github.com/andrew-torda/thal/pkg/config"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	root := newRootCmd(config.Sources{})
	err := root.ExecuteContext(ctx)
	stop()
	if err == nil {
		os.Exit(ExitSuccess)
	}
	fmt.Fprintln(os.Stderr, "thal:", err)
	var ue usageError
	if errors.As(err, &ue) {
		os.Exit(ExitUsageError)
	}
	os.Exit(ExitFailure)
}
