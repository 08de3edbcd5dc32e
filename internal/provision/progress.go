package provision

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/cheggaaa/pb/v3"
	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// progress wraps an io.Reader to display a transfer bar when stderr is
// a terminal. Returns the wrapped reader and a function to finalize
// the display. Purely informational; byte counts never affect the
// download outcome.
func progress(reader io.Reader, size int64) (io.Reader, func()) {
	if !isatty.IsTerminal(os.Stderr.Fd()) && !isatty.IsCygwinTerminal(os.Stderr.Fd()) {
		return reader, func() {}
	}

	bar := pb.
		New64(size).
		SetTemplate(
			pb.ProgressBarTemplate(
				color.New(color.FgHiBlack).Sprint(
					`   └ {{counters . }} {{bar . "[" "=" ">" " " "]" }} {{percent . }} {{speed . }}`,
				),
			),
		).
		SetRefreshRate(time.Second / 60).
		SetMaxWidth(100).
		SetWriter(os.Stderr).
		Start()

	return bar.NewProxyReader(reader), func() { bar.Finish() }
}

// logstep and logdetail write human-oriented provisioning progress to
// stderr, keeping stdout clean for the wrapped tool.
func logstep(text string) {
	fmt.Fprintln(
		os.Stderr,
		color.BlueString(" •"),
		color.New(color.FgHiBlack).Sprint(text),
	)
}

func logdetail(text string) {
	fmt.Fprintln(
		os.Stderr,
		color.New(color.FgHiBlack).Sprint("   └"),
		color.New(color.FgHiBlack).Sprint(text),
	)
}
