// Package web serves a small HTML front end over a session's ledger.
package web

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/gestor-dev/gestor/internal/id"
	"github.com/gestor-dev/gestor/internal/ledger"
	"github.com/gestor-dev/gestor/internal/log"
	"github.com/gestor-dev/gestor/internal/model"
	"github.com/gestor-dev/gestor/internal/session"
)

// Server is the fiber app plus the session it serves. The ledger is not
// safe for concurrent use, so every handler touching it holds mu.
type Server struct {
	mu   sync.Mutex
	sess *session.Session
	app  *fiber.App
	tmpl *template.Template
	log  *log.Logger
}

// New builds the server and registers its routes.
func New(sess *session.Session, logger *log.Logger) (*Server, error) {
	tmpl, err := template.ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parsing templates: %w", err)
	}

	s := &Server{
		sess: sess,
		tmpl: tmpl,
		log:  logger.WithComponent(log.ComponentHTTP),
		app: fiber.New(fiber.Config{
			DisableStartupMessage: true,
			AppName:               "gestor",
		}),
	}

	s.app.Use(s.requestLogger)
	s.app.Get("/", s.handleHome)
	s.app.Get("/transactions", s.handleTransactions)
	s.app.Get("/new", s.handleNewForm)
	s.app.Post("/new", s.handleCreate)
	s.app.Get("/health", s.handleHealth)
	return s, nil
}

// App exposes the fiber app, mainly for app.Test.
func (s *Server) App() *fiber.App {
	return s.app
}

// Listen serves on addr until Shutdown.
func (s *Server) Listen(addr string) error {
	s.log.Info("listening", "addr", addr)
	return s.app.Listen(addr)
}

// Shutdown stops accepting requests and waits for in-flight ones.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}

func (s *Server) requestLogger(c *fiber.Ctx) error {
	start := time.Now()
	err := c.Next()
	s.log.Debug("request",
		log.FieldMethod, c.Method(),
		log.FieldPath, c.Path(),
		log.FieldStatus, c.Response().StatusCode(),
		log.FieldDuration, time.Since(start).Milliseconds(),
	)
	return err
}

func (s *Server) render(c *fiber.Ctx, status int, name string, data any) error {
	var buf bytes.Buffer
	if err := s.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		s.log.Error("render failed", "template", name, log.FieldError, err)
		return fiber.NewError(fiber.StatusInternalServerError, "render failed")
	}
	c.Type("html", "utf-8")
	return c.Status(status).Send(buf.Bytes())
}

type homeView struct {
	Title    string
	Balance  string
	Negative bool
	Count    int
	Location string
}

func (s *Server) handleHome(c *fiber.Ctx) error {
	s.mu.Lock()
	balance := s.sess.Ledger.TotalBalance()
	view := homeView{
		Title:    "Summary",
		Balance:  balance.StringFixed(2),
		Negative: balance.IsNegative(),
		Count:    s.sess.Ledger.Len(),
		Location: s.sess.Location(),
	}
	s.mu.Unlock()
	return s.render(c, fiber.StatusOK, "home", view)
}

type rowView struct {
	Position    int
	ShortID     string
	Kind        model.Kind
	Amount      string
	Category    string
	Description string
	Date        string
}

type transactionsView struct {
	Title string
	Rows  []rowView
}

func toRowViews(rows []ledger.Row) []rowView {
	out := make([]rowView, 0, len(rows))
	for _, r := range rows {
		tx := r.Transaction
		out = append(out, rowView{
			Position:    r.Position,
			ShortID:     id.Short(tx.ID),
			Kind:        tx.Kind,
			Amount:      tx.Amount.StringFixed(2),
			Category:    tx.Category,
			Description: tx.Description,
			Date:        model.FormatTimestamp(tx.Timestamp),
		})
	}
	return out
}

func (s *Server) handleTransactions(c *fiber.Ctx) error {
	s.mu.Lock()
	rows := s.sess.Ledger.List(c.Query("kind"))
	s.mu.Unlock()
	return s.render(c, fiber.StatusOK, "transactions", transactionsView{Title: "Transactions", Rows: toRowViews(rows)})
}

type newForm struct {
	Kind        string
	Amount      string
	Category    string
	Description string
	Date        string
}

type newView struct {
	Title      string
	Error      string
	Form       newForm
	Categories []string
}

func (s *Server) newView(form newForm, errMsg string) newView {
	kind, err := model.ParseKind(form.Kind)
	if err != nil {
		kind = model.KindExpense
	}
	return newView{
		Title:      "New transaction",
		Error:      errMsg,
		Form:       form,
		Categories: s.sess.Categories.Names(kind),
	}
}

func (s *Server) handleNewForm(c *fiber.Ctx) error {
	return s.render(c, fiber.StatusOK, "new", s.newView(newForm{Kind: string(model.KindExpense)}, ""))
}

func (s *Server) handleCreate(c *fiber.Ctx) error {
	form := newForm{
		Kind:        c.FormValue("kind"),
		Amount:      c.FormValue("amount"),
		Category:    c.FormValue("category"),
		Description: c.FormValue("description"),
		Date:        c.FormValue("date"),
	}

	kind, err := model.ParseKind(form.Kind)
	if err != nil {
		return s.render(c, fiber.StatusBadRequest, "new", s.newView(form, err.Error()))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.sess.NewTransaction(kind, form.Amount, form.Category, form.Description, form.Date)
	if err != nil {
		return s.render(c, fiber.StatusBadRequest, "new", s.newView(form, err.Error()))
	}
	stored := s.sess.Ledger.Add(tx)

	if _, err := s.sess.Save(c.UserContext()); err != nil {
		s.sess.Ledger.DeleteByID(stored.ID)
		s.log.Error("save failed", log.FieldError, err)
		return fiber.NewError(fiber.StatusInternalServerError, "could not save the ledger")
	}
	s.log.Info("transaction added", "id", stored.ID, "kind", string(stored.Kind))
	return c.Redirect("/transactions", fiber.StatusSeeOther)
}

func (s *Server) handleHealth(c *fiber.Ctx) error {
	s.mu.Lock()
	n := s.sess.Ledger.Len()
	s.mu.Unlock()
	return c.JSON(fiber.Map{"status": "ok", "transactions": n})
}
