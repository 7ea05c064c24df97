package main

import (
	"errors"
	"fmt"
	"os"

	awslambda "github.com/aws/aws-lambda-go/lambda"
	"github.com/stahnma/repolist/internal/commands"
	"github.com/stahnma/repolist/internal/config"
	lambdapkg "github.com/stahnma/repolist/internal/lambda"
)

const version = "0.1.0"

var (
	GitSHA   string
	GitDirty string
)

func main() {
	cfg := config.FromEnvironment()

	app, err := commands.NewApp(cfg, os.Stderr, version, GitSHA, GitDirty)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing application: %v\n", err)
		os.Exit(1)
	}

	if os.Getenv("LAMBDA_TASK_ROOT") != "" {
		awslambda.Start(lambdapkg.NewHandler(app, nil))
		return
	}

	rootCmd := app.NewRootCommand()
	if err := rootCmd.Execute(); err != nil {
		var usage *commands.UsageError
		if errors.As(err, &usage) {
			fmt.Fprintf(os.Stderr, "Usage: %s\n", rootCmd.UseLine())
			fmt.Fprintf(os.Stderr, "Try '%s -h' for help.\n\n", rootCmd.Name())
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(2)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
