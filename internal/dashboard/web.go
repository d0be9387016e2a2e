package dashboard

import (
	"embed"
	"errors"
	"html/template"
	"log/slog"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

//go:embed templates/dashboard.html
var templateFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templateFS, "templates/dashboard.html"))

const (
	sessionCookie = "weather_dashboard"
	sessionTTL    = 30 * time.Minute
)

// session keeps one browser's controller, so a failed submit still shows
// the weather and history of the last successful one.
type session struct {
	ctrl *Controller
	seen time.Time
}

// Web serves the browser dashboard. Each POST runs one submit flow through
// api, the same HTTP contract a standalone browser client would use.
type Web struct {
	api    API
	logger *slog.Logger
	now    func() time.Time

	mu       sync.Mutex
	sessions map[string]*session
}

func NewWeb(api API, logger *slog.Logger) *Web {
	if logger == nil {
		logger = slog.Default()
	}
	return &Web{
		api:      api,
		logger:   logger,
		now:      time.Now,
		sessions: make(map[string]*session),
	}
}

// Register mounts the dashboard at "/".
func (w *Web) Register(app *fiber.App) {
	app.Get("/", w.index)
	app.Post("/", w.submit)
}

func (w *Web) index(c *fiber.Ctx) error {
	if ctrl := w.lookup(c.Cookies(sessionCookie)); ctrl != nil {
		return w.render(c, ctrl.State())
	}
	return w.render(c, State{})
}

func (w *Web) submit(c *fiber.Ctx) error {
	ctrl := w.controller(c)
	st, err := ctrl.Submit(c.UserContext(), c.FormValue("city"))
	if err != nil && !errors.Is(err, ErrSubmitInFlight) {
		return err
	}
	if msg := st.Error(); msg != "" {
		w.logger.Info("dashboard submit failed", "input", st.Input(), "message", msg)
	}
	return w.render(c, st)
}

func (w *Web) lookup(id string) *Controller {
	if id == "" {
		return nil
	}
	now := w.now()
	w.mu.Lock()
	defer w.mu.Unlock()
	w.prune(now)
	s, ok := w.sessions[id]
	if !ok {
		return nil
	}
	s.seen = now
	return s.ctrl
}

// controller returns the caller's session controller, starting a new
// session and setting its cookie when there is none.
func (w *Web) controller(c *fiber.Ctx) *Controller {
	if ctrl := w.lookup(c.Cookies(sessionCookie)); ctrl != nil {
		return ctrl
	}

	id := uuid.NewString()
	s := &session{ctrl: NewController(w.api), seen: w.now()}
	w.mu.Lock()
	w.sessions[id] = s
	w.mu.Unlock()

	c.Cookie(&fiber.Cookie{
		Name:     sessionCookie,
		Value:    id,
		Path:     "/",
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	return s.ctrl
}

// prune drops sessions idle for longer than sessionTTL. Callers hold w.mu.
func (w *Web) prune(now time.Time) {
	for id, s := range w.sessions {
		if now.Sub(s.seen) > sessionTTL {
			delete(w.sessions, id)
		}
	}
}

func (w *Web) render(c *fiber.Ctx, st State) error {
	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return pageTemplate.Execute(c, NewView(st, w.now()))
}
