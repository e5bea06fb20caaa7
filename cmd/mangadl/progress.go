package cmd

import (
	"github.com/kerbaras/mangadl/pkg/services"
	"github.com/schollz/progressbar/v3"
)

type cliProgress struct {
	bar *progressbar.ProgressBar
}

// newProgressBar is the services.ProgressFactory backed by a terminal
// progress bar.
func newProgressBar(label string, length int) services.Progress {
	bar := progressbar.NewOptions(length,
		progressbar.OptionSetDescription(label),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)
	return &cliProgress{bar: bar}
}

func (p *cliProgress) SetLength(n int) {
	p.bar.ChangeMax(n)
}

func (p *cliProgress) Increment() {
	p.bar.Add(1)
}

func (p *cliProgress) Finish(message string) {
	p.bar.Describe(message)
	p.bar.Finish()
}
