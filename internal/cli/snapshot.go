package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/medibook/internal/common"
	"github.com/dmitrijs2005/medibook/internal/models"
	"github.com/dmitrijs2005/medibook/internal/snapshot"
)

// resolveTarget is a test seam for snapshot.ResolveTarget.
var resolveTarget = snapshot.ResolveTarget

func (a *App) s3Config() snapshot.S3Config {
	return snapshot.S3Config{
		Region:    a.config.S3Region,
		Endpoint:  a.config.S3Endpoint,
		AccessKey: a.config.S3User,
		SecretKey: a.config.S3Password,
	}
}

// requireDoctor restricts store-wide operations to doctor accounts.
func (a *App) requireDoctor(ctx context.Context) error {
	u, err := a.requireUser(ctx)
	if err != nil {
		return err
	}
	if u.UserType != models.RoleDoctor {
		return common.ErrUnauthorized
	}
	return nil
}

// Export writes all users and appointments to a file or S3 object.
func (a *App) Export(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usageError("export <path|s3://bucket/key>")
	}
	if err := a.requireDoctor(ctx); err != nil {
		return err
	}
	target, err := resolveTarget(ctx, args[0], a.s3Config())
	if err != nil {
		return err
	}
	sum, err := a.snapshots.Export(ctx, target, a.config.SnapshotPassphrase)
	if err != nil {
		return err
	}
	sealed := ""
	if a.config.SnapshotPassphrase != "" {
		sealed = " (encrypted)"
	}
	fmt.Fprintf(a.out, "Exported %d users and %d appointments to %s%s.\n", sum.Users, sum.Appointments, target, sealed)
	return nil
}

// Import loads a snapshot. With --replace the store is wiped first, which
// also ends the current session.
func (a *App) Import(ctx context.Context, args []string) error {
	replace := false
	var loc string
	for _, arg := range args {
		switch {
		case arg == "--replace" || arg == "-replace":
			replace = true
		case loc == "":
			loc = arg
		default:
			return usageError("import <path|s3://bucket/key> [--replace]")
		}
	}
	if loc == "" {
		return usageError("import <path|s3://bucket/key> [--replace]")
	}
	if err := a.requireDoctor(ctx); err != nil {
		return err
	}

	target, err := resolveTarget(ctx, loc, a.s3Config())
	if err != nil {
		return err
	}
	sum, err := a.snapshots.Import(ctx, target, a.config.SnapshotPassphrase, replace)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Imported %d users and %d appointments from %s", sum.Users, sum.Appointments, target)
	if sum.Skipped > 0 {
		fmt.Fprintf(a.out, ", skipped %d conflicting or invalid records", sum.Skipped)
	}
	fmt.Fprintln(a.out, ".")
	if replace {
		fmt.Fprintln(a.out, "The store was replaced; please log in again.")
	}
	return nil
}
