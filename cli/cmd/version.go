package cmd

import (
	"context"
	"fmt"

	"github.com/ardnew/abmeta/pkg"
)

// Version prints the program version.
type Version struct{}

// Run executes the version command.
func (Version) Run(ctx context.Context) error {
	_, err := fmt.Fprintln(streamsFrom(ctx).out, pkg.Name, pkg.Version)

	return err
}
