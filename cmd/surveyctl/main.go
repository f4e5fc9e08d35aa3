// Package main is the entry point for the surveyctl admin CLI.
package main

import (
	"os"

	"github.com/jrsteele09/survey-admin/cmd/surveyctl/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
