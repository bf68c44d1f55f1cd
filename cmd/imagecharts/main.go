// Command imagecharts builds chart URLs and downloads chart images.
//
//	imagecharts url --cht p --chd t:1,2,3 --chs 300x200
//	imagecharts fetch --cht p --chd t:1,2,3 --chs 300x200 --out chart.png
//	imagecharts data-uri --param ChartType=p --param chd=t:1,2,3 --chs 2x2
//
// Settings are read from flags, IMAGECHARTS_* environment variables (a .env
// file is loaded first) and an optional imagecharts.yaml, in that order of
// precedence.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cmd := newRootCmd()
	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		cancel()
		os.Exit(1)
	}
}
