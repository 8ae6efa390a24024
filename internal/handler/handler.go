package handler

import (
	"errors"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"roster/internal/auth"
	"roster/internal/metrics"
	"roster/internal/roster"
)

// SessionConfig controls the tokens handed out on login.
type SessionConfig struct {
	Issuer     string
	SigningKey string
	TTL        time.Duration
}

// Handler is the presentation layer over the roster core. Every operator
// command runs under one lock so the core sees a single thread of control.
// Committed changes are held in an outbox and handed to the notifier only
// after the lock is released.
type Handler struct {
	auth     *auth.Authenticator
	session  SessionConfig
	notifier roster.Notifier

	mu     sync.Mutex
	ctrl   *roster.Controller
	outbox *outbox
}

// New builds a handler over store. notifier may be nil.
func New(a *auth.Authenticator, session SessionConfig, store *roster.Store, notifier roster.Notifier) *Handler {
	box := &outbox{}
	return &Handler{
		auth:     a,
		session:  session,
		notifier: notifier,
		ctrl:     roster.NewController(store, box),
		outbox:   box,
	}
}

// outbox collects changes while h.mu is held.
type outbox struct {
	pending []roster.Change
}

func (o *outbox) Notify(c roster.Change) { o.pending = append(o.pending, c) }

func (o *outbox) take() []roster.Change {
	out := o.pending
	o.pending = nil
	return out
}

// unlock releases h.mu, then publishes whatever the command committed.
func (h *Handler) unlock() {
	changes := h.outbox.take()
	h.mu.Unlock()

	if h.notifier == nil {
		return
	}
	for _, c := range changes {
		h.notifier.Notify(c)
	}
}

// Register mounts the roster routes on r.
func (h *Handler) Register(r gin.IRouter) {
	v1 := r.Group("/v1")
	v1.POST("/login", h.Login)

	authed := v1.Group("", auth.SessionAuth(h.session.SigningKey, h.session.Issuer))
	authed.GET("/students", h.ListStudents)
	authed.DELETE("/students/:id", h.DeleteStudent)
	authed.POST("/students/:id/edit", h.OpenForEdit)

	authed.GET("/draft", h.GetDraft)
	authed.POST("/draft", h.OpenForCreate)
	authed.PATCH("/draft", h.SetField)
	authed.POST("/draft/submit", h.Submit)
	authed.DELETE("/draft", h.Cancel)
}

// ---------- Login ----------

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	out := h.auth.AttemptLogin(req.Username, req.Password)
	if !out.OK {
		metrics.LoginAttempts.WithLabelValues("failure").Inc()
		c.JSON(http.StatusUnauthorized, gin.H{"error": out.Message})
		return
	}
	metrics.LoginAttempts.WithLabelValues("success").Inc()

	s, err := auth.Issue(req.Username, h.session.Issuer, h.session.SigningKey, h.session.TTL)
	if err != nil {
		log.Printf("session issue failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "token issue failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"access_token": s.Token,
		"expires_at":   s.ExpiresAt.Unix(),
	})
}

// ---------- Students ----------

func (h *Handler) ListStudents(c *gin.Context) {
	h.mu.Lock()
	recs := h.ctrl.Records()
	h.mu.Unlock()

	c.JSON(http.StatusOK, gin.H{"students": recs})
}

func (h *Handler) DeleteStudent(c *gin.Context) {
	h.mu.Lock()
	h.ctrl.Delete(c.Param("id"))
	h.syncGauge()
	h.unlock()

	c.Status(http.StatusNoContent)
}

// ---------- Draft ----------

type draftView struct {
	State     roster.State `json:"state"`
	Title     string       `json:"title,omitempty"`
	Action    string       `json:"action,omitempty"`
	EditingID string       `json:"editing_id,omitempty"`
	Name      string       `json:"name"`
	Email     string       `json:"email"`
	IDNumber  string       `json:"id_number"`
	Error     string       `json:"error,omitempty"`
}

// view must be called with h.mu held.
func (h *Handler) view() draftView {
	d, _ := h.ctrl.Draft()
	v := draftView{
		State:     h.ctrl.State(),
		EditingID: d.EditingID,
		Name:      d.Name,
		Email:     d.Email,
		IDNumber:  d.IDNumber,
	}
	switch v.State {
	case roster.Creating:
		v.Title, v.Action = "Add Student", "Add"
	case roster.Editing:
		v.Title, v.Action = "Edit Student", "Save"
	}
	if d.Err != nil {
		v.Error = d.Err.Message
	}
	return v
}

func (h *Handler) GetDraft(c *gin.Context) {
	h.mu.Lock()
	defer h.unlock()
	c.JSON(http.StatusOK, h.view())
}

func (h *Handler) OpenForCreate(c *gin.Context) {
	h.mu.Lock()
	defer h.unlock()

	if err := h.ctrl.OpenForCreate(); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, h.view())
}

func (h *Handler) OpenForEdit(c *gin.Context) {
	h.mu.Lock()
	defer h.unlock()

	if err := h.ctrl.OpenForEdit(c.Param("id")); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, h.view())
}

type setFieldRequest struct {
	Field string `json:"field" binding:"required"`
	Value string `json:"value"`
}

func (h *Handler) SetField(c *gin.Context) {
	var req setFieldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	h.mu.Lock()
	defer h.unlock()

	if err := h.ctrl.SetField(roster.Field(req.Field), req.Value); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, h.view())
}

func (h *Handler) Submit(c *gin.Context) {
	h.mu.Lock()
	defer h.unlock()

	mode := string(h.ctrl.State())
	rec, err := h.ctrl.Submit()
	if err != nil {
		var verr *roster.ValidationError
		if errors.As(err, &verr) {
			metrics.Submissions.WithLabelValues(mode, string(verr.Kind)).Inc()
			c.JSON(http.StatusUnprocessableEntity, h.view())
			return
		}
		h.fail(c, err)
		return
	}
	metrics.Submissions.WithLabelValues(mode, "ok").Inc()
	h.syncGauge()
	c.JSON(http.StatusOK, rec)
}

func (h *Handler) Cancel(c *gin.Context) {
	h.mu.Lock()
	defer h.unlock()

	h.ctrl.Cancel()
	c.JSON(http.StatusOK, h.view())
}

// fail maps core errors onto HTTP statuses.
func (h *Handler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, roster.ErrNotFound):
		log.Printf("roster: %v", err)
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, roster.ErrDraftOpen), errors.Is(err, roster.ErrNoDraft):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, roster.ErrUnknownField):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		log.Printf("roster: unexpected error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func (h *Handler) syncGauge() {
	metrics.Records.Set(float64(len(h.ctrl.Records())))
}
