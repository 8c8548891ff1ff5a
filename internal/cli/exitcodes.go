package cli

import (
	"errors"
	"io/fs"

	"github.com/yaklabco/reparse/pkg/difflog"
	"github.com/yaklabco/reparse/pkg/fsutil"
	"github.com/yaklabco/reparse/pkg/reparse"
	"github.com/yaklabco/reparse/pkg/textedit"
)

// Exit codes for reparse.
const (
	// ExitSuccess indicates successful execution.
	ExitSuccess = 0

	// ExitChanges indicates diff --exit-code found structural changes, or
	// a generic failure.
	ExitChanges = 1

	// ExitInvalidUsage indicates invalid command-line usage or edits.
	ExitInvalidUsage = 64

	// ExitConfigError indicates configuration file errors.
	ExitConfigError = 65

	// ExitInternalError indicates a defect in the engine or a plugin.
	ExitInternalError = 70

	// ExitIOError indicates file I/O errors.
	ExitIOError = 74
)

// Sentinel errors the commands wrap so that ExitCodeFromError can classify
// them.
var (
	// ErrChangesFound is returned by diff --exit-code when the trees differ.
	ErrChangesFound = errors.New("structural changes found")

	// ErrUsage marks bad arguments or flags.
	ErrUsage = errors.New("invalid usage")

	// ErrConfig marks configuration loading failures.
	ErrConfig = errors.New("failed to load configuration")

	// ErrInternal marks results that break an engine guarantee.
	ErrInternal = errors.New("internal error")
)

// ExitCodeFromError maps a command error to a process exit code.
func ExitCodeFromError(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var (
		defect     *difflog.DefectError
		validation *textedit.ValidationError
		conflict   *textedit.ConflictError
	)

	switch {
	case errors.Is(err, ErrChangesFound):
		return ExitChanges
	case errors.Is(err, ErrConfig):
		return ExitConfigError
	case errors.Is(err, ErrUsage),
		errors.Is(err, reparse.ErrInvalidEdit),
		errors.As(err, &validation),
		errors.As(err, &conflict):
		return ExitInvalidUsage
	case errors.Is(err, ErrInternal), errors.As(err, &defect):
		return ExitInternalError
	case errors.Is(err, fs.ErrNotExist),
		errors.Is(err, fs.ErrPermission),
		errors.Is(err, fsutil.ErrNotFound),
		errors.Is(err, fsutil.ErrPermissionDenied),
		errors.Is(err, fsutil.ErrIsDirectory),
		errors.Is(err, fsutil.ErrModified):
		return ExitIOError
	default:
		return ExitChanges
	}
}
