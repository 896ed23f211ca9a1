// Command gui-client is a Fyne desktop dashboard over internal/role's
// client driver: pick host/port/file/engine, watch the colorized log
// stream and a throughput sparkline, and read the final bandwidth
// report. It is a presentation layer, not a correctness surface — the
// CLI (cmd/client) and the package tests are what exercise the
// protocol itself.
package main

import (
	"fmt"
	"image"
	"image/color"
	"os"
	"runtime"
	"strconv"
	"strings"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/lukscarv/drtp/internal/config"
	"github.com/lukscarv/drtp/internal/logger"
	"github.com/lukscarv/drtp/internal/logging"
	"github.com/lukscarv/drtp/internal/metrics"
	"github.com/lukscarv/drtp/internal/role"
	"github.com/lukscarv/drtp/internal/ui"
)

func drawSpark(rates []float64, w, h int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.White)
		}
	}
	if len(rates) == 0 || w <= 0 || h <= 0 {
		return img
	}
	max := 0.0
	for _, v := range rates {
		if v > max {
			max = v
		}
	}
	if max <= 0 {
		max = 1
	}
	n := len(rates)
	for i := 0; i < w; i++ {
		idx := i * n / w
		if idx >= n {
			idx = n - 1
		}
		bh := int((rates[idx] / max) * float64(h))
		for y := h - 1; y >= h-bh && y >= 0; y-- {
			img.Set(i, y, color.RGBA{0, 0, 255, 255})
		}
	}
	return img
}

// logViewWriter adapts internal/logger's plain-text output into the
// colorized LogView widget, classifying each line by the level token
// the logger already writes into it.
type logViewWriter struct {
	view *logging.LogView
	run  func(func())
}

func (w *logViewWriter) Write(p []byte) (int, error) {
	line := strings.TrimRight(string(p), "\n")
	if line == "" {
		return len(p), nil
	}
	level := logging.LogInfo
	switch {
	case strings.Contains(line, "ERROR"), strings.Contains(line, "FATAL"):
		level = logging.LogError
	case strings.Contains(line, "WARN"):
		level = logging.LogWarning
	case strings.Contains(line, "complete"):
		level = logging.LogSuccess
	}
	w.run(func() { w.view.Append(level, line) })
	return len(p), nil
}

func main() {
	if runtime.GOOS == "windows" && strings.TrimSpace(os.Getenv("FYNE_DRIVER")) == "" {
		_ = os.Setenv("FYNE_DRIVER", "software")
	}

	settings, err := config.LoadClientSettings()
	if err != nil {
		settings = config.DefaultClientSettings()
	}

	a := app.New()
	a.Settings().SetTheme(ui.NewCustomTheme())
	w := a.NewWindow("DRTP Client")
	runUI := func(fn func()) { fyne.Do(fn) }
	status := ui.NewStatusBar()
	status.SetStatus("idle")

	hostEntry := widget.NewEntry()
	hostEntry.SetText(settings.Host)
	portEntry := widget.NewEntry()
	portEntry.SetText(settings.Port)
	fileEntry := widget.NewEntry()
	fileEntry.SetText(settings.LastFile)
	fileEntry.SetPlaceHolder("path to local file to send")
	chooseBtn := widget.NewButton("Choose file...", func() {
		dialog.ShowFileOpen(func(uc fyne.URIReadCloser, err error) {
			if err != nil || uc == nil {
				return
			}
			defer uc.Close()
			fileEntry.SetText(uc.URI().Path())
		}, w)
	})

	reliableSelect := widget.NewSelect([]string{
		string(config.StopAndWait), string(config.GoBackN), string(config.SelectiveRepeat),
	}, nil)
	reliableSelect.SetSelected(settings.Reliable)

	faultSelect := widget.NewSelect([]string{"", string(config.Lose), string(config.Double)}, nil)
	faultSelect.SetSelected("")

	logView := logging.NewLogView()
	spark := canvas.NewRaster(func(w, h int) image.Image { return drawSpark(nil, w, h) })
	spark.SetMinSize(fyne.NewSize(400, 100))
	reportLabel := widget.NewLabel("")

	var startBtn *widget.Button
	running := false

	startBtn = widget.NewButton("Start transfer", func() {
		if running {
			return
		}
		host := strings.TrimSpace(hostEntry.Text)
		port, err := strconv.Atoi(strings.TrimSpace(portEntry.Text))
		if err != nil {
			dialog.ShowError(err, w)
			return
		}
		path := strings.TrimSpace(fileEntry.Text)
		data, err := os.ReadFile(path)
		if err != nil {
			dialog.ShowError(err, w)
			return
		}

		running = true
		startBtn.Disable()
		status.SetStatus("transferring")
		status.SetProgress(1)
		log := logger.NewLogger(logger.DEBUG, &logViewWriter{view: logView, run: runUI}, "")
		sampler := metrics.NewSampler(150 * time.Millisecond)

		cfg := role.ClientConfig{
			Host:     host,
			Port:     port,
			File:     path,
			Data:     data,
			Reliable: config.Reliable(reliableSelect.Selected),
			Fault:    config.Fault(faultSelect.Selected),
			Log:      log,
			Sampler:  sampler,
		}

		stopSpark := make(chan struct{})
		go func() {
			ticker := time.NewTicker(200 * time.Millisecond)
			defer ticker.Stop()
			for {
				select {
				case <-stopSpark:
					return
				case <-ticker.C:
					points := sampler.Snapshot()
					rates := make([]float64, len(points))
					for i, p := range points {
						rates[i] = p.Speed
					}
					runUI(func() {
						spark.Generator = func(w, h int) image.Image { return drawSpark(rates, w, h) }
						spark.Refresh()
					})
				}
			}
		}()

		go func() {
			report, err := role.RunClient(cfg)
			close(stopSpark)
			runUI(func() {
				if err != nil {
					status.SetStatus("error")
					dialog.ShowError(err, w)
				} else {
					status.SetStatus("complete")
					reportLabel.SetText(report)
					points := sampler.Snapshot()
					rates := make([]float64, len(points))
					for i, p := range points {
						rates[i] = p.Speed
					}
					spark.Generator = func(w, h int) image.Image { return drawSpark(rates, w, h) }
					spark.Refresh()
				}
				status.SetProgress(0)
				running = false
				startBtn.Enable()
			})
		}()
	})

	form := widget.NewForm(
		&widget.FormItem{Text: "Host", Widget: hostEntry},
		&widget.FormItem{Text: "Port", Widget: portEntry},
		&widget.FormItem{Text: "File", Widget: container.NewBorder(nil, nil, nil, chooseBtn, fileEntry)},
		&widget.FormItem{Text: "Reliability", Widget: reliableSelect},
		&widget.FormItem{Text: "Fault (test only)", Widget: faultSelect},
	)
	form.SubmitText = ""
	startBtn.SetIcon(theme.ConfirmIcon())

	w.SetContent(container.NewBorder(
		container.NewVBox(form, startBtn, status, widget.NewLabel("Throughput:"), spark, reportLabel),
		nil, nil, nil,
		container.NewVBox(widget.NewLabel("Log:"), logView.CanvasObject()),
	))
	w.Resize(fyne.NewSize(float32(settings.WindowWidth), float32(settings.WindowHeight)))

	w.SetCloseIntercept(func() {
		settings.Host = hostEntry.Text
		settings.Port = portEntry.Text
		settings.LastFile = fileEntry.Text
		settings.Reliable = reliableSelect.Selected
		size := w.Content().Size()
		settings.WindowWidth = int(size.Width)
		settings.WindowHeight = int(size.Height)
		if err := config.SaveClientSettings(settings); err != nil {
			fmt.Printf("error saving settings: %v\n", err)
		}
		w.Close()
	})

	w.ShowAndRun()
}
