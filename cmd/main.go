package main

import (
	"context"
	"fmt"
	"os"

	"github.com/yungbote/lusilearn-ai-service/internal/app"
	"github.com/yungbote/lusilearn-ai-service/internal/platform/shutdown"
)

func main() {
	a, err := app.New()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize ai service: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := shutdown.NotifyContext(context.Background())
	defer stop()

	if err := a.Run(ctx); err != nil {
		a.Log.Error("AI service exited", "error", err)
		a.Close()
		os.Exit(1)
	}
}
