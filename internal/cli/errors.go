package cli

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/dmitrijs2005/medibook/internal/common"
	"github.com/dmitrijs2005/medibook/internal/cryptox"
	"github.com/dmitrijs2005/medibook/internal/services"
	"github.com/dmitrijs2005/medibook/internal/snapshot"
)

var errUsage = errors.New("usage")

// usageError carries the usage line of a command called with bad arguments.
func usageError(line string) error {
	return fmt.Errorf("%w: %s", errUsage, line)
}

var errLoginRequired = errors.New("login required")

// userMessage maps an error from a command to the text shown to the user.
func userMessage(err error) string {
	switch {
	case errors.Is(err, errUsage):
		return "Usage: " + strings.TrimPrefix(err.Error(), errUsage.Error()+": ")
	case errors.Is(err, errLoginRequired):
		return "Please log in first."
	case errors.Is(err, common.ErrInvalidCredentials):
		return services.MsgInvalidCredentials
	case errors.Is(err, common.ErrEmailTaken):
		return services.MsgEmailTaken
	case errors.Is(err, common.ErrTooManyAttempts):
		return "Too many login attempts. Please wait a moment and try again."
	case errors.Is(err, common.ErrSlotTaken):
		return "This time slot is no longer available. Please choose another one."
	case errors.Is(err, common.ErrUnknownDoctor):
		return "Unknown doctor. Type 'doctors' to see the list."
	case errors.Is(err, common.ErrNotFound):
		return "Appointment not found."
	case errors.Is(err, common.ErrUnauthorized):
		return "You are not allowed to do that."
	case errors.Is(err, common.ErrInvalidTransition):
		return "Cannot change status: " + err.Error()
	case errors.Is(err, snapshot.ErrPassphraseRequired):
		return "This snapshot is encrypted. Set a snapshot passphrase and try again."
	case errors.Is(err, cryptox.ErrDecrypt):
		return "Could not decrypt the snapshot. Check the passphrase."
	case errors.Is(err, context.Canceled):
		return "Cancelled."
	}
	return "Error: " + err.Error()
}

// formatFieldErrors renders validation errors sorted by field.
func formatFieldErrors(errs map[string]string) string {
	fields := make([]string, 0, len(errs))
	for f := range errs {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	var b strings.Builder
	b.WriteString("Please fix the following:")
	for _, f := range fields {
		fmt.Fprintf(&b, "\n  - %s", errs[f])
	}
	return b.String()
}
