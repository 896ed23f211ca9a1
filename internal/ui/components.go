package ui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

// StatusBar shows a one-line status, an optional progress bar, and a
// trailing info label, used by the GUI dashboards to report transfer
// state without a dedicated log line per update.
type StatusBar struct {
	widget.BaseWidget
	statusLabel *widget.Label
	progressBar *widget.ProgressBar
	infoLabel   *widget.Label
}

// NewStatusBar builds an idle status bar with its progress bar hidden.
func NewStatusBar() *StatusBar {
	sb := &StatusBar{
		statusLabel: widget.NewLabel("idle"),
		progressBar: widget.NewProgressBar(),
		infoLabel:   widget.NewLabel(""),
	}
	sb.ExtendBaseWidget(sb)
	sb.progressBar.Hide()
	return sb
}

func (sb *StatusBar) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(container.NewHBox(
		sb.statusLabel,
		sb.progressBar,
		widget.NewSeparator(),
		sb.infoLabel,
	))
}

// SetStatus sets the status text.
func (sb *StatusBar) SetStatus(status string) {
	sb.statusLabel.SetText(status)
}

// SetProgress sets the progress bar value (0.0-1.0), hiding the bar
// when progress is zero.
func (sb *StatusBar) SetProgress(progress float64) {
	if progress > 0 {
		sb.progressBar.SetValue(progress)
		sb.progressBar.Show()
	} else {
		sb.progressBar.Hide()
	}
}

// SetInfo sets the trailing info text.
func (sb *StatusBar) SetInfo(info string) {
	sb.infoLabel.SetText(info)
}
