// Package server wires the HTTP surface: login and logout, the gated note
// list, and the note mutation endpoints. Only the note list sits behind the
// session gate; the mutation endpoints are reachable without a session and
// deletion is triggered by GET. Both are known weaknesses of the single-user
// design, kept as documented behavior.
package server

import (
	"embed"
	"errors"
	"html/template"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/quillco/pocketnote/internal/credentials"
	"github.com/quillco/pocketnote/internal/notes"
)

const userEmailContextKey = "pocketnote_user_email"

//go:embed templates/*.html
var templateFS embed.FS

var (
	errMissingSessionManager    = errors.New("session manager dependency required")
	errMissingCredentialService = errors.New("credential service dependency required")
	errMissingNotesService      = errors.New("notes service dependency required")
)

// SessionManager issues and validates the signed session cookie.
type SessionManager interface {
	CookieName() string
	Issue(email string) (string, int, error)
	ValidateRequest(r *http.Request) (string, error)
}

// Dependencies enumerates the collaborators of the HTTP handler.
type Dependencies struct {
	Sessions    SessionManager
	Credentials *credentials.Service
	Notes       *notes.Service
	Logger      *zap.Logger
}

// NewHTTPHandler builds the gin router with all routes registered.
func NewHTTPHandler(deps Dependencies) (http.Handler, error) {
	if deps.Sessions == nil {
		return nil, errMissingSessionManager
	}
	if deps.Credentials == nil {
		return nil, errMissingCredentialService
	}
	if deps.Notes == nil {
		return nil, errMissingNotesService
	}

	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	templates, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders: []string{"Content-Type"},
		MaxAge:       12 * time.Hour,
	}))
	router.SetHTMLTemplate(templates)

	handler := &httpHandler{
		sessions:    deps.Sessions,
		credentials: deps.Credentials,
		notes:       deps.Notes,
		logger:      logger,
	}

	router.GET("/login", handler.handleLoginForm)
	router.POST("/login", handler.handleLoginSubmit)
	router.GET("/logout", handler.handleLogout)

	router.GET("/", handler.requireSession, handler.handleIndex)

	// Mutations are intentionally outside the session gate.
	router.POST("/add", handler.handleAdd)
	router.POST("/edit/:id", handler.handleEdit)
	router.GET("/delete/:id", handler.handleDelete)

	return router, nil
}

type httpHandler struct {
	sessions    SessionManager
	credentials *credentials.Service
	notes       *notes.Service
	logger      *zap.Logger
}

func (h *httpHandler) handleLoginForm(c *gin.Context) {
	c.HTML(http.StatusOK, "login.html", nil)
}

func (h *httpHandler) handleLoginSubmit(c *gin.Context) {
	email, hasEmail := c.GetPostForm("email")
	password, hasPassword := c.GetPostForm("password")
	if !hasEmail || !hasPassword {
		h.logger.Error("required form field absent",
			zap.Bool("has_email", hasEmail),
			zap.Bool("has_password", hasPassword))
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}

	ok, err := h.credentials.Authenticate(email, password)
	if err != nil {
		h.logger.Error("authentication failed", zap.Error(err))
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}
	if !ok {
		// Failed logins re-render the form with no error message.
		c.HTML(http.StatusOK, "login.html", nil)
		return
	}

	token, maxAge, err := h.sessions.Issue(email)
	if err != nil {
		h.logger.Error("session issue failed", zap.Error(err))
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}

	c.SetCookie(h.sessions.CookieName(), token, maxAge, "/", "", false, true)
	c.Redirect(http.StatusFound, "/")
}

func (h *httpHandler) handleLogout(c *gin.Context) {
	c.SetCookie(h.sessions.CookieName(), "", -1, "/", "", false, true)
	c.Redirect(http.StatusFound, "/login")
}

func (h *httpHandler) requireSession(c *gin.Context) {
	email, err := h.sessions.ValidateRequest(c.Request)
	if err != nil {
		c.Redirect(http.StatusFound, "/login")
		c.Abort()
		return
	}
	c.Set(userEmailContextKey, email)
	c.Next()
}

type noteView struct {
	ID      string
	Title   string
	Content string
	Preview template.HTML
	Time    string
}

type indexView struct {
	Email string
	Query string
	Notes []noteView
}

func (h *httpHandler) handleIndex(c *gin.Context) {
	query := c.Query("q")

	collection, err := h.notes.List(query)
	if err != nil {
		h.logger.Error("note list failed", zap.Error(err))
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}

	view := indexView{
		Email: c.GetString(userEmailContextKey),
		Query: query,
		Notes: make([]noteView, 0, len(collection)),
	}
	for _, note := range collection {
		view.Notes = append(view.Notes, noteView{
			ID:      note.ID,
			Title:   note.Title,
			Content: note.Content,
			Preview: renderMarkdown(note.Content),
			Time:    note.Time,
		})
	}

	c.HTML(http.StatusOK, "index.html", view)
}

func (h *httpHandler) handleAdd(c *gin.Context) {
	title, content, ok := h.requiredNoteFields(c)
	if !ok {
		return
	}

	if _, err := h.notes.Add(title, content); err != nil {
		h.logger.Error("note add failed", zap.Error(err))
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}
	c.Redirect(http.StatusFound, "/")
}

func (h *httpHandler) handleEdit(c *gin.Context) {
	title, content, ok := h.requiredNoteFields(c)
	if !ok {
		return
	}

	if err := h.notes.Edit(c.Param("id"), title, content); err != nil {
		h.logger.Error("note edit failed", zap.Error(err))
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}
	c.Redirect(http.StatusFound, "/")
}

func (h *httpHandler) handleDelete(c *gin.Context) {
	if err := h.notes.Delete(c.Param("id")); err != nil {
		h.logger.Error("note delete failed", zap.Error(err))
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}
	c.Redirect(http.StatusFound, "/")
}

// requiredNoteFields reads the title and content form fields. An absent field
// (as opposed to a present-but-empty one) fails the request with a server
// error; fields are never defaulted.
func (h *httpHandler) requiredNoteFields(c *gin.Context) (string, string, bool) {
	title, hasTitle := c.GetPostForm("title")
	content, hasContent := c.GetPostForm("content")
	if !hasTitle || !hasContent {
		h.logger.Error("required form field absent",
			zap.Bool("has_title", hasTitle),
			zap.Bool("has_content", hasContent))
		c.AbortWithStatus(http.StatusInternalServerError)
		return "", "", false
	}
	return title, content, true
}
