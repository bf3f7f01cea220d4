package termui

import (
	"bufio"
	"fmt"
	"io"

	dcontainer "github.com/docker/docker/api/types/container"
	"github.com/docker/docker/pkg/stdcopy"
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/gantry-build/gantry/internal/container"
)

var (
	backgroundColor = tcell.NewRGBColor(5, 30, 40)
)

type app interface {
	SetRoot(root tview.Primitive, fullscreen bool) *tview.Application
	Draw() *tview.Application
	QueueUpdateDraw(f func()) *tview.Application
	Run() error
	Stop()
}

type Termui struct {
	app  app
	page *Dashboard

	appName     string
	builderName string
	baseName    string
}

func NewTermui(appName, builderName, baseName string) *Termui {
	return &Termui{
		app:         tview.NewApplication(),
		appName:     appName,
		builderName: builderName,
		baseName:    baseName,
	}
}

// Run starts the terminal UI in the foreground and the passed in function
// in the background, returning once the function completes and the screen
// is released.
func (s *Termui) Run(funk func()) error {
	s.page = NewDashboard(s.app, s.appName, s.builderName, s.baseName)

	done := make(chan struct{})
	go func() {
		defer close(done)
		funk()
		s.app.Stop()
	}()

	err := s.app.Run()
	<-done
	return err
}

// Handler streams container output onto the dashboard and reports the
// container's exit status.
func (s *Termui) Handler() container.Handler {
	return func(bodyChan <-chan dcontainer.WaitResponse, errChan <-chan error, reader io.Reader) error {
		var (
			copyErr = make(chan error, 1)
			r, w    = io.Pipe()
			scanner = bufio.NewScanner(r)
		)

		go func() {
			_, err := stdcopy.StdCopy(w, w, reader)
			w.Close()
			copyErr <- err
		}()

		for scanner.Scan() {
			s.handle(scanner.Text())
		}
		if err := scanner.Err(); err != nil {
			return err
		}

		select {
		case body := <-bodyChan:
			if body.StatusCode != 0 {
				return fmt.Errorf("failed with status code: %d", body.StatusCode)
			}
		case err := <-errChan:
			return err
		}
		return <-copyErr
	}
}

func (s *Termui) handle(txt string) {
	if s.page != nil {
		s.page.Handle(txt)
	}
}
