package services

// Progress receives count updates from fetch and download steps. It is
// purely observational; implementations must not fail or block the
// pipeline.
type Progress interface {
	SetLength(n int)
	Increment()
	Finish(message string)
}

// ProgressFactory opens a new progress sink for one labelled unit of work
// (a pagination pass, a volume walk, a chapter's pages).
type ProgressFactory func(label string, length int) Progress

type nopProgress struct{}

func (nopProgress) SetLength(int) {}
func (nopProgress) Increment()    {}
func (nopProgress) Finish(string) {}

// NopProgress discards all updates.
func NopProgress(string, int) Progress { return nopProgress{} }
