package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
)

// Questions shown to the operator, in the order they are asked.
const (
	QuestionScriptID = "📄 Enter the Google Apps Script ID: "
	QuestionSanitize = "🧹 Sanitize code before pushing? (Y/N): "
	QuestionRepoURL  = "🔗 Enter the GitHub REPO URL: "
)

// ErrBlankAnswer is matched by every *BlankError.
var ErrBlankAnswer = errors.New("answer cannot be blank")

// ErrCancelled is returned when the operator aborts a prompt.
var ErrCancelled = errors.New("prompt cancelled")

// BlankError reports which answer was left blank.
type BlankError struct {
	Field   string
	Message string
}

func (e *BlankError) Error() string { return e.Message }

// Is makes errors.Is(err, ErrBlankAnswer) true.
func (e *BlankError) Is(target error) bool { return target == ErrBlankAnswer }

var (
	errBlankScriptID = &BlankError{Field: "scriptId", Message: "Google Apps Script ID cannot be blank."}
	errBlankSanitize = &BlankError{Field: "sanitize", Message: "You must specify whether to sanitize or not."}
	errBlankRepoURL  = &BlankError{Field: "repoUrl", Message: "GitHub REPO URL cannot be blank."}
)

// Asker asks one question and returns the raw answer.
// The suggestion is a hint the asker may offer; it is never used on its own.
type Asker interface {
	Ask(question, suggestion string) (string, error)
}

// RunConfig is the validated set of answers for one run.
type RunConfig struct {
	ScriptID string
	Sanitize bool
	RepoURL  string
}

// Preset holds answers supplied ahead of time, usually from flags.
// Empty fields are asked for.
type Preset struct {
	ScriptID string
	Sanitize string
	RepoURL  string
}

// Recall returns a previously used repo URL for a script ID, or "".
type Recall func(scriptID string) string

// Collect asks for every answer not already present in preset, in order,
// and stops at the first blank one.
func Collect(a Asker, preset Preset, recall Recall) (RunConfig, error) {
	scriptID, err := answer(a, preset.ScriptID, QuestionScriptID, "", errBlankScriptID)
	if err != nil {
		return RunConfig{}, err
	}
	sanitize, err := answer(a, preset.Sanitize, QuestionSanitize, "", errBlankSanitize)
	if err != nil {
		return RunConfig{}, err
	}
	var suggestion string
	if recall != nil {
		suggestion = recall(scriptID)
	}
	repoURL, err := answer(a, preset.RepoURL, QuestionRepoURL, suggestion, errBlankRepoURL)
	if err != nil {
		return RunConfig{}, err
	}
	return RunConfig{
		ScriptID: scriptID,
		Sanitize: strings.EqualFold(sanitize, "y"),
		RepoURL:  repoURL,
	}, nil
}

func answer(a Asker, preset, question, suggestion string, blank *BlankError) (string, error) {
	v := strings.TrimSpace(preset)
	if v == "" {
		raw, err := a.Ask(question, suggestion)
		if err != nil {
			return "", err
		}
		v = strings.TrimSpace(raw)
	}
	if v == "" {
		return "", blank
	}
	return v, nil
}

// LineAsker reads one line per question.
type LineAsker struct {
	in  *bufio.Reader
	out io.Writer
}

// NewLineAsker returns an asker that writes questions to out and reads
// answers from in.
func NewLineAsker(in io.Reader, out io.Writer) *LineAsker {
	return &LineAsker{in: bufio.NewReader(in), out: out}
}

// Ask prints the question and reads up to the next newline. End of input
// yields whatever was read, possibly "".
func (l *LineAsker) Ask(question, suggestion string) (string, error) {
	if suggestion != "" {
		fmt.Fprintf(l.out, "   (last used: %s)\n", suggestion)
	}
	fmt.Fprint(l.out, question)
	line, err := l.in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("reading answer: %w", err)
	}
	if errors.Is(err, io.EOF) {
		fmt.Fprintln(l.out)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// NewAsker picks a TerminalAsker when in is a terminal and a LineAsker
// otherwise.
func NewAsker(in *os.File, out *os.File) Asker {
	if isTerminal(in) {
		return &TerminalAsker{In: in, Out: out}
	}
	return NewLineAsker(in, out)
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
