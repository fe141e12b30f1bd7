package main

import (
	"context"
	"errors"
	"os"

	"github.com/agbru/euclid/internal/app"
	apperrors "github.com/agbru/euclid/internal/errors"
)

func main() {
	if app.HasVersionFlag(os.Args[1:]) {
		app.PrintVersion(os.Stdout)
		return
	}

	application, err := app.New(os.Args, os.Stderr)
	if err != nil {
		if app.IsHelpError(err) {
			os.Exit(apperrors.ExitSuccess)
		}
		// flag already reported its own parse errors along with the usage.
		var cfgErr apperrors.ConfigError
		if errors.As(err, &cfgErr) {
			apperrors.HandleCalculationError(err, os.Stderr, nil)
		}
		os.Exit(apperrors.ExitErrorConfig)
	}

	exitCode := application.Run(context.Background(), os.Stdout)
	os.Exit(exitCode)
}
