package cli

import (
	"fmt"
	"io"
	"os"
)

const (
	ansiReset  = "\033[0m"
	ansiRed    = "\033[31m"
	ansiGreen  = "\033[32m"
	ansiYellow = "\033[33m"
	ansiGray   = "\033[90m"
)

// Output prints human readable progress for the CLI. Logs go through
// zerolog; Output is what a person watching the terminal reads.
type Output struct {
	out          io.Writer
	errOut       io.Writer
	enableColors bool
}

func NewOutput() *Output {
	return &Output{
		out:          os.Stdout,
		errOut:       os.Stderr,
		enableColors: isTerminal(os.Stdout) && os.Getenv("NO_COLOR") == "",
	}
}

// NewWriterOutput returns an Output without colors that writes to out and errOut.
func NewWriterOutput(out, errOut io.Writer) *Output {
	return &Output{
		out:    out,
		errOut: errOut,
	}
}

func (o *Output) paint(code, text string) string {
	if !o.enableColors {
		return text
	}
	return code + text + ansiReset
}

func (o *Output) Green(text string) string  { return o.paint(ansiGreen, text) }
func (o *Output) Yellow(text string) string { return o.paint(ansiYellow, text) }
func (o *Output) Red(text string) string    { return o.paint(ansiRed, text) }
func (o *Output) Gray(text string) string   { return o.paint(ansiGray, text) }

func (o *Output) Writer() io.Writer {
	return o.out
}

func (o *Output) ErrWriter() io.Writer {
	return o.errOut
}

func (o *Output) PrintHeader(msg string) {
	_, _ = fmt.Fprintf(o.out, "%s\n\n", msg)
}

func (o *Output) PrintSuccess(msg string, args ...any) {
	_, _ = fmt.Fprintf(o.out, "  %s %s\n", o.Green("✓"), fmt.Sprintf(msg, args...))
}

func (o *Output) PrintWarning(msg string, args ...any) {
	_, _ = fmt.Fprintf(o.out, "  %s %s\n", o.Yellow("⚠"), fmt.Sprintf(msg, args...))
}

func (o *Output) PrintError(msg string, args ...any) {
	_, _ = fmt.Fprintf(o.errOut, "  %s %s\n", o.Red("✗"), fmt.Sprintf(msg, args...))
}

func (o *Output) PrintFile(path string) {
	_, _ = fmt.Fprintf(o.out, "    %s\n", o.Gray(path))
}

func (o *Output) PrintDone(msg string) {
	_, _ = fmt.Fprintf(o.out, "\n%s\n", msg)
}

func isTerminal(f *os.File) bool {
	stat, err := f.Stat()
	if err != nil {
		return false
	}
	return stat.Mode()&os.ModeCharDevice != 0
}
