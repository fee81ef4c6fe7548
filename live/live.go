// Package live validates matrices on a page rendered by a real browser and
// replays the resulting writes into that page.
//
// The page HTML is captured after load, validated offline with the matrix
// engine, and the recorded mutations are applied to the live DOM through the
// Chrome DevTools protocol (go-rod).
package live

import (
	"context"
	"fmt"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/tsawler/tickmatrix/htmldoc"
	"github.com/tsawler/tickmatrix/matrix"
)

// Config selects and bounds the browser.
type Config struct {
	// ControlURL attaches to a running browser. When empty a browser is
	// launched and closed after the run.
	ControlURL string
	BrowserBin string
	Headless   bool
	Timeout    time.Duration
}

// Outcome is the result of a live run.
type Outcome struct {
	URL     string
	Result  *matrix.Result
	Applied int // mutations written to the live DOM
	Missing int // mutations whose path matched no live element
}

// Session is a connected browser.
type Session struct {
	cfg      Config
	browser  *rod.Browser
	launcher *launcher.Launcher
}

// Connect attaches to cfg.ControlURL or launches a new browser.
func Connect(ctx context.Context, cfg Config) (*Session, error) {
	s := &Session{cfg: cfg}

	controlURL := cfg.ControlURL
	if controlURL == "" {
		l := launcher.New().Headless(cfg.Headless)
		if cfg.BrowserBin != "" {
			l = l.Bin(cfg.BrowserBin)
		}
		url, err := l.Launch()
		if err != nil {
			return nil, fmt.Errorf("launch browser: %w", err)
		}
		s.launcher = l
		controlURL = url
	}

	browser := rod.New().ControlURL(controlURL).Context(ctx)
	if err := browser.Connect(); err != nil {
		s.cleanupLauncher()
		return nil, fmt.Errorf("connect to browser: %w", err)
	}
	s.browser = browser
	return s, nil
}

// Close disconnects, and closes the browser when this session launched it.
func (s *Session) Close() error {
	var err error
	if s.browser != nil {
		if s.launcher != nil {
			err = s.browser.Close()
		}
		s.browser = nil
	}
	s.cleanupLauncher()
	return err
}

func (s *Session) cleanupLauncher() {
	if s.launcher != nil {
		s.launcher.Kill()
		s.launcher.Cleanup()
		s.launcher = nil
	}
}

// Validate opens url, validates parentScope against childScope, and replays
// the mutations into the page. The page is left open when keepOpen is set so
// an attached browser shows the painted matrices.
func (s *Session) Validate(ctx context.Context, url, parentScope, childScope string, opts matrix.Options, keepOpen bool) (*Outcome, error) {
	timeout := s.cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	page, err := s.browser.Context(ctx).Page(proto.TargetCreateTarget{URL: url})
	if err != nil {
		return nil, fmt.Errorf("open page: %w", err)
	}
	if !keepOpen {
		defer func() { _ = page.Close() }()
	}

	p := page.Context(ctx).Timeout(timeout)
	if err := p.WaitLoad(); err != nil {
		return nil, fmt.Errorf("wait for page load: %w", err)
	}

	source, err := p.HTML()
	if err != nil {
		return nil, fmt.Errorf("read page HTML: %w", err)
	}
	doc, err := htmldoc.Parse(source)
	if err != nil {
		return nil, err
	}

	res := matrix.Validate(doc.Root(), parentScope, childScope, opts)

	applied, missing, err := Replay(p, res.Mutations)
	if err != nil {
		return nil, err
	}

	return &Outcome{
		URL:     url,
		Result:  res,
		Applied: applied,
		Missing: missing,
	}, nil
}

// Replay applies mutations to the live page in order.
func Replay(page *rod.Page, mutations []matrix.Mutation) (applied, missing int, err error) {
	if len(mutations) == 0 {
		return 0, 0, nil
	}

	res, err := page.Evaluate(&rod.EvalOptions{
		JS:      ReplayJS,
		JSArgs:  []interface{}{mutations},
		ByValue: true,
	})
	if err != nil {
		return 0, 0, fmt.Errorf("replay mutations: %w", err)
	}
	return res.Value.Get("applied").Int(), res.Value.Get("missing").Int(), nil
}

// ReplayJS applies a mutation list to the document. It takes the JSON form
// of []matrix.Mutation and returns {applied, missing}.
const ReplayJS = `(mutations) => {
	let applied = 0, missing = 0;
	for (const m of mutations) {
		const el = document.querySelector(m.path);
		if (!el) { missing++; continue; }
		if (m.kind === "style") {
			el.style.setProperty(m.name, m.value);
		} else {
			el.setAttribute(m.name, m.value);
		}
		applied++;
	}
	return { applied, missing };
}`
