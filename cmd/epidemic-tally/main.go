package main

import (
	"context"
	"os"

	"github.com/i474232898/epidemic-tally/cmd/epidemic-tally/commands"
	"github.com/i474232898/epidemic-tally/internal/logger"
)

func main() {
	code := commands.ExecuteContext(context.Background())
	logger.Sync()
	os.Exit(code)
}
