package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"

	"github.com/spf13/pflag"
	"github.com/tayloree/storefront-catalog/internal/api"
	"github.com/tayloree/storefront-catalog/internal/catalog"
	"github.com/tayloree/storefront-catalog/internal/history"
	"golang.org/x/term"
)

// Process exit codes. Each error code string maps to exactly one of them.
const (
	ExitSuccess     = 0
	ExitNotFound    = 1
	ExitInvalidArgs = 2
	ExitUpstream    = 3
	ExitInternal    = 4
)

const (
	codeInvalidArgs = "INVALID_ARGS"
	codeNotFound    = "NOT_FOUND"
	codeUpstream    = "UPSTREAM_ERROR"
	codeInternal    = "INTERNAL_ERROR"
)

var exitCodes = map[string]int{
	codeInvalidArgs: ExitInvalidArgs,
	codeNotFound:    ExitNotFound,
	codeUpstream:    ExitUpstream,
	codeInternal:    ExitInternal,
}

// cliError is what storecli reports on stderr, as text or as a JSON envelope.
type cliError struct {
	Code        string
	Message     string
	Suggestions []string
	ExitCode    int
	cause       error
}

func newCLIError(code, message string, suggestions ...string) *cliError {
	return &cliError{
		Code:        code,
		Message:     message,
		Suggestions: suggestions,
		ExitCode:    exitCodes[code],
	}
}

func (e *cliError) Error() string {
	if e == nil {
		return ""
	}
	return e.Message
}

func (e *cliError) Unwrap() error { return e.cause }

// because records the underlying error so callers can still match it.
func (e *cliError) because(cause error) *cliError {
	e.cause = cause
	return e
}

func invalidArgsError(message string, suggestions ...string) *cliError {
	return newCLIError(codeInvalidArgs, message, suggestions...)
}

func notFoundError(message string, suggestions ...string) *cliError {
	return newCLIError(codeNotFound, message, suggestions...)
}

func upstreamError(action string, err error) *cliError {
	return newCLIError(codeUpstream, fmt.Sprintf("%s: %v", action, err), "Retry in a moment.").because(err)
}

// classifyCLIError maps any error returned by a command onto the taxonomy.
// Errors from our own packages are matched by identity; only cobra's
// command and argument errors, which carry no type, are matched by text.
func classifyCLIError(err error) *cliError {
	if err == nil {
		return nil
	}
	var typed *cliError
	if errors.As(err, &typed) {
		return typed
	}

	msg := strings.TrimSpace(err.Error())
	var (
		missingFlag *pflag.NotExistError
		needsValue  *pflag.ValueRequiredError
	)
	switch {
	case errors.Is(err, catalog.ErrUnknownPriceRange):
		return invalidArgsError(msg, "storecli ranges -f catalog.json").because(err)
	case errors.Is(err, catalog.ErrUnknownSortKey):
		return invalidArgsError(msg, "storecli -f catalog.json --sort rating").because(err)
	case errors.Is(err, catalog.ErrMalformedItem):
		return newCLIError(codeUpstream, msg, "Every catalog item needs an id and a title.").because(err)
	case errors.Is(err, history.ErrCorrupt):
		return newCLIError(codeInternal, msg, "storecli history clear").because(err)
	case isUpstreamFailure(err):
		return newCLIError(codeUpstream, msg, "Retry in a moment.").because(err)
	case errors.As(err, &missingFlag):
		return invalidArgsError(msg, unknownFlagSuggestions(msg)...).because(err)
	case errors.As(err, &needsValue):
		return invalidArgsError(msg, "storecli --catalog catalog.json --query hades").because(err)
	case strings.HasPrefix(msg, "unknown command"):
		return invalidArgsError(msg, unknownCommandSuggestions(msg)...).because(err)
	case strings.Contains(msg, "arg(s)"):
		return invalidArgsError(msg, "storecli help").because(err)
	}
	return newCLIError(codeInternal, msg, "Run `storecli --help` for usage details.").because(err)
}

func isUpstreamFailure(err error) bool {
	var urlErr *url.Error
	return errors.Is(err, api.ErrUnexpectedStatus) ||
		errors.Is(err, api.ErrInvalidPayload) ||
		errors.Is(err, context.DeadlineExceeded) ||
		errors.As(err, &urlErr)
}

func unknownFlagSuggestions(msg string) []string {
	out := []string{
		"storecli --catalog catalog.json --query hades",
		"storecli --catalog catalog.json --genre rpg --sort rating",
	}
	if bad := extractUnknownValue(msg, "unknown flag"); bad != "" {
		if name, ok := resolveFlagName(strings.TrimLeft(bad, "-")); ok {
			out = append([]string{fmt.Sprintf("Try `--%s`.", name)}, out...)
		}
	}
	return out
}

func unknownCommandSuggestions(msg string) []string {
	out := []string{
		"storecli facets --catalog catalog.json",
		"storecli ranges --catalog catalog.json",
	}
	if bad := extractUnknownValue(msg, "unknown command"); bad != "" {
		if name, ok := closestMatch(strings.ToLower(bad), knownCommands, 2); ok {
			out = append([]string{fmt.Sprintf("Did you mean `%s`?", name)}, out...)
		}
	}
	return out
}

type jsonErrorBody struct {
	Code        string   `json:"code"`
	Message     string   `json:"message"`
	Suggestions []string `json:"suggestions,omitempty"`
	ExitCode    int      `json:"exitCode"`
}

func printCLIErrorJSON(w io.Writer, err *cliError) error {
	if err == nil {
		return nil
	}
	return json.NewEncoder(w).Encode(map[string]jsonErrorBody{
		"error": {
			Code:        err.Code,
			Message:     err.Message,
			Suggestions: err.Suggestions,
			ExitCode:    err.ExitCode,
		},
	})
}

func formatCLIErrorText(err *cliError) string {
	if err == nil {
		return ""
	}
	var b strings.Builder
	fmt.Fprintf(&b, "error[%s]: %s", strings.ToLower(err.Code), err.Message)
	if len(err.Suggestions) > 0 {
		b.WriteString("\nsuggestions:")
		for _, s := range err.Suggestions {
			b.WriteString("\n  " + s)
		}
	}
	return b.String()
}

func isTTY(w io.Writer) bool {
	file, ok := w.(*os.File)
	return ok && term.IsTerminal(int(file.Fd()))
}

func hasJSONPreference(args []string) bool {
	for _, arg := range args {
		if arg == "--json" || strings.HasPrefix(arg, "--json=") {
			return true
		}
	}
	return false
}

// shouldAutoJSON switches to JSON output when stdout is piped, unless the
// caller asked for help, completion or already chose a format.
func shouldAutoJSON(args []string, stdoutIsTTY bool) bool {
	if stdoutIsTTY || len(args) == 0 || hasJSONPreference(args) {
		return false
	}
	for _, arg := range args {
		if arg == "-h" || arg == "--help" {
			return false
		}
	}
	cmd := firstCommand(args)
	return cmd != "completion" && cmd != "help"
}

// knownShorthands maps single-character shorthands to whether they take a value.
var knownShorthands = map[byte]bool{
	'f': true,  // --catalog
	'u': true,  // --url
	'q': true,  // --query
	'p': true,  // --price
	'g': true,  // --genre
	't': true,  // --tag
	'n': true,  // --page-size
	'v': false, // --verbose
}

func shorthandNeedsValue(arg string) bool {
	return len(arg) == 2 && arg[0] == '-' && knownShorthands[arg[1]]
}

// firstCommand returns the first positional argument, skipping flag values.
func firstCommand(args []string) string {
	skipNext := false
	for _, arg := range args {
		switch {
		case skipNext:
			skipNext = false
		case arg == "--":
			return ""
		case !strings.HasPrefix(arg, "-"):
			return arg
		case strings.HasPrefix(arg, "--"):
			name, value := splitFlag(strings.TrimPrefix(arg, "--"))
			known, ok := knownFlags[name]
			skipNext = ok && known.requiresValue && value == ""
		default:
			skipNext = shorthandNeedsValue(arg)
		}
	}
	return ""
}

type quickStartJSON struct {
	Name     string   `json:"name"`
	Usage    string   `json:"usage"`
	Examples []string `json:"examples"`
}

var quickStart = quickStartJSON{
	Name:  "storecli",
	Usage: "storecli [flags] | [facets|ranges|history|config|tui] [flags]",
	Examples: []string{
		"storecli --catalog catalog.json --query \"dark souls\" -n 10",
		"storecli facets --catalog catalog.json",
		"storecli ranges --url https://shop.example/catalog.json --genre rpg",
	},
}

// printQuickStart is shown when storecli runs without arguments.
func printQuickStart(w io.Writer, asJSON bool) error {
	if asJSON {
		return json.NewEncoder(w).Encode(quickStart)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s\nusage: %s\nexamples:\n", quickStart.Name, quickStart.Usage)
	for _, ex := range quickStart.Examples {
		fmt.Fprintf(&b, "  %s\n", ex)
	}
	b.WriteString("flags: --catalog --url --query --price --genre --tag --sort --page --page-size --facets --json\n")
	_, err := io.WriteString(w, b.String())
	return err
}
