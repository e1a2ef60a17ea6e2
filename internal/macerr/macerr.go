// Package macerr defines the failure classes of a MAC change and the
// process exit code each one maps to.
package macerr

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies a failure.
type Kind int

const (
	Unknown Kind = iota
	NotPrivileged
	InterfaceNotFound
	NoInterfacesAvailable
	InvalidFormat
	NoSupportedTool
	BackupUnavailable
	NoBackup
	CommandFailed
	CommandTimeout
	StorageUnavailable
	InterfaceNotSelected
)

var kindNames = map[Kind]string{
	Unknown:               "unknown",
	NotPrivileged:         "not privileged",
	InterfaceNotFound:     "interface not found",
	NoInterfacesAvailable: "no interfaces available",
	InvalidFormat:         "invalid MAC format",
	NoSupportedTool:       "no supported tool",
	BackupUnavailable:     "backup unavailable",
	NoBackup:              "no backup",
	CommandFailed:         "command failed",
	CommandTimeout:        "command timeout",
	StorageUnavailable:    "storage unavailable",
	InterfaceNotSelected:  "interface not selected",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Error carries enough context for an operator to recover by hand.
type Error struct {
	Kind   Kind
	Iface  string
	Step   string // apply step, set for CommandFailed and CommandTimeout
	Output string // captured command output
	Msg    string
	Err    error
}

// New returns an Error of the given kind.
func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// Wrap attaches a kind to err. A nil err yields nil.
func Wrap(err error, kind Kind, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...), Err: err}
}

// WithIface sets the interface the failure concerns.
func (e *Error) WithIface(iface string) *Error {
	e.Iface = iface
	return e
}

func (e *Error) Error() string {
	var sb strings.Builder
	sb.WriteString(e.Kind.String())
	if e.Iface != "" {
		fmt.Fprintf(&sb, " [%s]", e.Iface)
	}
	if e.Step != "" {
		fmt.Fprintf(&sb, " at step %q", e.Step)
	}
	if e.Msg != "" {
		sb.WriteString(": ")
		sb.WriteString(e.Msg)
	}
	if e.Err != nil {
		sb.WriteString(": ")
		sb.WriteString(e.Err.Error())
	}
	if e.Output != "" {
		fmt.Fprintf(&sb, "\n  output: %s", e.Output)
	}
	if e.Kind == CommandFailed || e.Kind == CommandTimeout {
		fmt.Fprintf(&sb, "\n  warning: %s may be left down or with a half-applied address;"+
			" bring it up manually (ip link set %s up) or retry the restore once the cause is fixed",
			ifaceOr(e.Iface), ifaceOr(e.Iface))
	}
	return sb.String()
}

func (e *Error) Unwrap() error { return e.Err }

func ifaceOr(iface string) string {
	if iface == "" {
		return "<interface>"
	}
	return iface
}

// KindOf returns the kind of the first *Error in err's chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Unknown
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// Operation selects the exit code of failures shared by set and restore.
type Operation int

const (
	OpSet Operation = iota
	OpRestore
	OpInspect
)

// Exit codes. Values 2-8 match the codes the tool has always used.
const (
	ExitOK                = 0
	ExitGeneric           = 1
	ExitNotRoot           = 2
	ExitStorage           = 3
	ExitInterfaceNotFound = 4
	ExitNoInterfaces      = 5
	ExitRestoreFailure    = 6
	ExitInvalidFormat     = 7
	ExitSetFailure        = 8
	ExitMissingTool       = 9
	ExitNoBackup          = 10
)

// ExitCode maps err to a process exit code.
func ExitCode(err error, op Operation) int {
	if err == nil {
		return ExitOK
	}
	switch KindOf(err) {
	case NotPrivileged:
		return ExitNotRoot
	case StorageUnavailable:
		return ExitStorage
	case InterfaceNotFound, InterfaceNotSelected:
		return ExitInterfaceNotFound
	case NoInterfacesAvailable:
		return ExitNoInterfaces
	case InvalidFormat:
		return ExitInvalidFormat
	case NoSupportedTool:
		return ExitMissingTool
	case NoBackup:
		return ExitNoBackup
	case CommandFailed, CommandTimeout, BackupUnavailable:
		switch op {
		case OpRestore:
			return ExitRestoreFailure
		case OpSet:
			return ExitSetFailure
		}
	}
	return ExitGeneric
}
