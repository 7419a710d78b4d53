package main

import (
	"context"
	"fmt"
	"os"

	"github.com/vidfriends/formatlist/internal/app"
)

func main() {
	ctx := context.Background()
	if err := app.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, "formatlist:", err)
		os.Exit(1)
	}
}
