// Command gui-server is a Fyne desktop dashboard over internal/role's
// server driver. Each "Start" click accepts exactly one transfer
// (matching the protocol's single-client design) and writes the
// received file under the chosen output directory; click again to
// accept another.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/lukscarv/drtp/internal/config"
	"github.com/lukscarv/drtp/internal/logger"
	"github.com/lukscarv/drtp/internal/logging"
	"github.com/lukscarv/drtp/internal/role"
	"github.com/lukscarv/drtp/internal/ui"
)

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

	settings, err := config.LoadServerSettings()
	if err != nil {
		settings = config.DefaultServerSettings()
	}

	a := app.New()
	a.Settings().SetTheme(ui.NewCustomTheme())
	w := a.NewWindow("DRTP Server")
	runUI := func(fn func()) { fyne.Do(fn) }

	hostEntry := widget.NewEntry()
	hostEntry.SetText(settings.Host)
	portEntry := widget.NewEntry()
	portEntry.SetText(settings.Port)
	outDirEntry := widget.NewEntry()
	outDirEntry.SetPlaceHolder("directory to save received files (default: current dir)")
	pickDirBtn := widget.NewButton("Choose folder...", func() {
		dialog.ShowFolderOpen(func(uri fyne.ListableURI, err error) {
			if err != nil || uri == nil {
				return
			}
			outDirEntry.SetText(uri.Path())
		}, w)
	})

	reliableSelect := widget.NewSelect([]string{
		string(config.StopAndWait), string(config.GoBackN), string(config.SelectiveRepeat),
	}, nil)
	reliableSelect.SetSelected(settings.Reliable)
	faultSelect := widget.NewSelect([]string{"", string(config.SkipAck)}, nil)
	faultSelect.SetSelected("")

	status := ui.NewStatusBar()
	status.SetStatus("idle")
	logView := logging.NewLogView()

	var startBtn *widget.Button
	running := false

	startBtn = widget.NewButton("Accept one transfer", func() {
		if running {
			return
		}
		host := strings.TrimSpace(hostEntry.Text)
		port, err := strconv.Atoi(strings.TrimSpace(portEntry.Text))
		if err != nil {
			dialog.ShowError(err, w)
			return
		}
		outDir := strings.TrimSpace(outDirEntry.Text)

		running = true
		startBtn.Disable()
		status.SetStatus(fmt.Sprintf("listening on %s:%d", host, port))
		status.SetProgress(1)
		log := logger.NewLogger(logger.DEBUG, &logViewWriter{view: logView, run: runUI}, "")

		cfg := role.ServerConfig{
			Host:     host,
			Port:     port,
			Reliable: config.Reliable(reliableSelect.Selected),
			Fault:    config.Fault(faultSelect.Selected),
			Log:      log,
			Save: func(name string, data []byte) error {
				if outDir != "" {
					name = filepath.Join(outDir, filepath.Base(name))
				}
				return os.WriteFile(name, data, 0o644)
			},
		}
		go func() {
			err := role.RunServer(cfg)
			runUI(func() {
				if err != nil {
					status.SetStatus("error: " + err.Error())
				} else {
					status.SetStatus("transfer complete, idle")
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
		&widget.FormItem{Text: "Output dir", Widget: container.NewBorder(nil, nil, nil, pickDirBtn, outDirEntry)},
		&widget.FormItem{Text: "Reliability", Widget: reliableSelect},
		&widget.FormItem{Text: "Fault (test only)", Widget: faultSelect},
	)
	form.SubmitText = ""

	top := container.NewVBox(form, startBtn, status)
	w.SetContent(container.NewBorder(top, nil, nil, nil,
		container.NewVBox(widget.NewLabel("Log:"), logView.CanvasObject())))
	w.Resize(fyne.NewSize(float32(settings.WindowWidth), float32(settings.WindowHeight)))

	w.SetCloseIntercept(func() {
		settings.Host = hostEntry.Text
		settings.Port = portEntry.Text
		settings.Reliable = reliableSelect.Selected
		size := w.Content().Size()
		settings.WindowWidth = int(size.Width)
		settings.WindowHeight = int(size.Height)
		if err := config.SaveServerSettings(settings); err != nil {
			fmt.Printf("error saving settings: %v\n", err)
		}
		w.Close()
	})

	w.ShowAndRun()
}
