package pdf

import (
	"context"
	"io"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// A4 paper size in inches.
const (
	paperWidthA4  = 8.27
	paperHeightA4 = 11.69
)

// ChromeEngine launches a headless Chrome through the DevTools protocol.
// Every Launch starts a fresh browser process; sessions are never pooled.
type ChromeEngine struct {
	// Bin optionally points to a Chrome or Chromium binary. When empty the
	// launcher locates or downloads one.
	Bin string
}

// Launch starts the browser and connects to it.
func (e ChromeEngine) Launch(ctx context.Context) (Session, error) {
	l := launcher.New().Context(ctx)
	if e.Bin != "" {
		l = l.Bin(e.Bin)
	}
	controlURL, err := l.Launch()
	if err != nil {
		return nil, err
	}

	browser := rod.New().Context(ctx).ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		l.Kill()
		l.Cleanup()
		return nil, err
	}
	return &chromeSession{launcher: l, browser: browser}, nil
}

type chromeSession struct {
	launcher *launcher.Launcher
	browser  *rod.Browser
}

// Render loads html into a new page and prints it as an A4 landscape PDF with
// background graphics, letting the document's own print-size directives win.
func (s *chromeSession) Render(ctx context.Context, html string) ([]byte, error) {
	page, err := s.browser.Context(ctx).Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, err
	}
	defer page.Close()

	if err := page.SetDocumentContent(html); err != nil {
		return nil, err
	}
	if err := page.WaitLoad(); err != nil {
		return nil, err
	}

	paperWidth := paperWidthA4
	paperHeight := paperHeightA4
	stream, err := page.PDF(&proto.PagePrintToPDF{
		Landscape:         true,
		PrintBackground:   true,
		PreferCSSPageSize: true,
		PaperWidth:        &paperWidth,
		PaperHeight:       &paperHeight,
	})
	if err != nil {
		return nil, err
	}
	return io.ReadAll(stream)
}

// Close shuts the browser down and removes the launcher's temporary state.
func (s *chromeSession) Close() error {
	err := s.browser.Close()
	s.launcher.Cleanup()
	return err
}
