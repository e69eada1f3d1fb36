// Package progress defines the reporting and cooperative-cancellation
// contract between document assembly and its caller. Reports are advisory
// only: an assembler behaves identically whether or not anyone listens.
package progress

import "context"

// Update carries positional context for a progress report.
type Update struct {
	Current      int     `json:"current"`
	Total        int     `json:"total"`
	FileName     string  `json:"file_name,omitempty"`
	FileProgress float64 `json:"file_progress,omitempty"`
}

// Reporter receives progress reports and answers cancellation polls.
// Both methods are called synchronously from inside the assembly loop,
// so implementations must be fast and must not block.
type Reporter interface {
	Progress(message string, u Update)
	Cancelled() bool
}

type noop struct{}

func (noop) Progress(string, Update) {}
func (noop) Cancelled() bool         { return false }

// Noop returns a Reporter that discards reports and never cancels.
// Injected when the caller supplies no collaborator, so the assembly
// loop carries no nil checks.
func Noop() Reporter {
	return noop{}
}

type funcs struct {
	onProgress  func(message string, u Update)
	isCancelled func() bool
}

func (f funcs) Progress(message string, u Update) {
	if f.onProgress != nil {
		f.onProgress(message, u)
	}
}

func (f funcs) Cancelled() bool {
	return f.isCancelled != nil && f.isCancelled()
}

// Funcs adapts optional callback functions into a Reporter. Either
// function may be nil.
func Funcs(onProgress func(message string, u Update), isCancelled func() bool) Reporter {
	return funcs{onProgress: onProgress, isCancelled: isCancelled}
}

type ctxReporter struct {
	ctx   context.Context
	inner Reporter
}

func (c ctxReporter) Progress(message string, u Update) {
	c.inner.Progress(message, u)
}

func (c ctxReporter) Cancelled() bool {
	return c.ctx.Err() != nil || c.inner.Cancelled()
}

// FromContext layers context cancellation over an inner Reporter, so a
// cancelled context (for example a closed HTTP request) stops assembly at
// the next checkpoint. A nil inner behaves like Noop.
func FromContext(ctx context.Context, inner Reporter) Reporter {
	if inner == nil {
		inner = Noop()
	}
	return ctxReporter{ctx: ctx, inner: inner}
}
