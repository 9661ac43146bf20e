package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gin-gonic/gin"

	"github.com/akashsharma1462/portfolio/internal/contact"
	"github.com/akashsharma1462/portfolio/internal/store"
)

const visitorCookie = "visitor_id"

var throttledNotice = contact.Notice{
	Kind:        contact.NoticeFailure,
	Title:       "Too many messages",
	Description: "Please wait a minute before sending another message.",
}

// visitor is the per-browser contact form state.
type visitor struct {
	controller *contact.Controller
	inbox      *contact.Inbox
}

func (v *visitor) Close() error {
	return v.controller.Close()
}

func (s *site) newVisitor() *visitor {
	inbox := &contact.Inbox{}
	return &visitor{
		inbox: inbox,
		controller: contact.NewController(s.channel,
			contact.WithNotifier(inbox),
			contact.WithResetDelay(s.cfg.Contact.ResetDelay),
			contact.WithLogger(s.logger),
		),
	}
}

// currentVisitor returns the caller's form state, refreshing the cookie. It aborts
// the request when the registry is shutting down.
func (s *site) currentVisitor(c *gin.Context) (*visitor, bool) {
	id, _ := c.Cookie(visitorCookie)
	v, id, err := s.visitors.Acquire(id, s.now())
	if err != nil {
		c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "server is shutting down"})
		return nil, false
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(visitorCookie, id, int(s.cfg.Contact.SessionIdleTimeout/time.Second), "/", "", false, true)
	return v, true
}

func (s *site) formData(v *visitor) gin.H {
	state := v.controller.State()
	return gin.H{
		"state":     state,
		"status":    state.Status.String(),
		"canSubmit": state.CanSubmit(),
		"channel":   s.channel.Name(),
		"recipient": s.portfolio.Contact.Recipient,
		"links":     s.portfolio.Contact.Links,
		"copy":      sectionCopy["contact"],
		// The fragment polls once after this long to pick up the reset.
		"resetAfterMs": (s.cfg.Contact.ResetDelay + 100*time.Millisecond).Milliseconds(),
	}
}

func (s *site) setTriggers(c *gin.Context, triggers map[string]any) {
	if len(triggers) == 0 {
		return
	}
	payload, err := sonic.MarshalString(triggers)
	if err != nil {
		s.logger.Error("hx_trigger_encode_failed", "err", err)
		return
	}
	c.Header("HX-Trigger", payload)
}

// triggersFor drains v's notices into showToast and adds openMailClient when
// the browser has to finish the delivery.
func triggersFor(v *visitor, handoff string) map[string]any {
	triggers := map[string]any{}
	if notices := v.inbox.Drain(); len(notices) > 0 {
		triggers["showToast"] = gin.H{"notices": notices}
	}
	if handoff != "" {
		triggers["openMailClient"] = gin.H{"href": handoff}
	}
	return triggers
}

func applyPostedFields(c *gin.Context, v *visitor) error {
	for _, name := range contact.FieldNames() {
		value, ok := c.GetPostForm(string(name))
		if !ok {
			continue
		}
		if err := v.controller.UpdateField(name, value); err != nil {
			return err
		}
	}
	return nil
}

func (s *site) handleContactForm(c *gin.Context) {
	v, ok := s.currentVisitor(c)
	if !ok {
		return
	}
	s.setTriggers(c, triggersFor(v, ""))
	c.HTML(http.StatusOK, "contact-form.html", s.formData(v))
}

func (s *site) handleContactField(c *gin.Context) {
	v, ok := s.currentVisitor(c)
	if !ok {
		return
	}
	if err := applyPostedFields(c, v); err != nil {
		c.AbortWithStatus(statusFor(err))
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *site) handleContactSubmit(c *gin.Context) {
	v, ok := s.currentVisitor(c)
	if !ok {
		return
	}
	if err := applyPostedFields(c, v); err != nil {
		c.AbortWithStatus(statusFor(err))
		return
	}

	res, err := v.controller.Submit(c.Request.Context())
	s.recordSubmission(c.Request.Context(), res, err)

	// Problems are shown inside the fragment, so HTMX always gets a 200 to swap.
	s.setTriggers(c, triggersFor(v, res.Handoff))
	c.HTML(http.StatusOK, "contact-form.html", s.formData(v))
}

func (s *site) rejectThrottled(c *gin.Context) {
	if c.GetHeader("HX-Request") == "true" {
		s.setTriggers(c, map[string]any{
			"showToast": gin.H{"notices": []contact.Notice{throttledNotice}},
		})
		c.Status(http.StatusTooManyRequests)
		return
	}
	c.JSON(http.StatusTooManyRequests, gin.H{"error": throttledNotice.Description})
}

// recordSubmission stores the outcome of every submit that reached a channel.
func (s *site) recordSubmission(ctx context.Context, res contact.Result, err error) {
	var outcome store.Outcome
	var cause string
	var derr *contact.DeliveryError
	switch {
	case err == nil && res.Handoff != "":
		outcome = store.OutcomeHandedOff
	case err == nil:
		outcome = store.OutcomeDelivered
	case errors.As(err, &derr):
		outcome = store.OutcomeFailed
		cause = derr.Error()
	default:
		return
	}

	msg := res.Message
	_, rerr := s.store.RecordSubmission(context.WithoutCancel(ctx), store.Submission{
		SenderName:  msg.SenderName,
		SenderEmail: msg.SenderEmail,
		Subject:     msg.SubjectOrDefault(),
		Message:     msg.Message,
		Channel:     res.Channel,
		Outcome:     outcome,
		Error:       cause,
		CreatedAt:   s.now(),
	})
	if rerr != nil {
		s.logger.Error("record_submission_failed", "err", rerr)
	}
}

type contactStateResponse struct {
	State     contact.State    `json:"state"`
	CanSubmit bool             `json:"canSubmit"`
	Channel   string           `json:"channel"`
	Notices   []contact.Notice `json:"notices,omitempty"`
}

type contactSubmitResponse struct {
	contactStateResponse
	Handoff string                   `json:"handoff,omitempty"`
	Error   string                   `json:"error,omitempty"`
	Reason  contact.ValidationReason `json:"reason,omitempty"`
}

func (s *site) stateResponse(v *visitor) contactStateResponse {
	state := v.controller.State()
	return contactStateResponse{
		State:     state,
		CanSubmit: state.CanSubmit(),
		Channel:   s.channel.Name(),
		Notices:   v.inbox.Drain(),
	}
}

// statusFor maps contact errors onto HTTP status codes.
func statusFor(err error) int {
	var verr *contact.ValidationError
	var derr *contact.DeliveryError
	switch {
	case err == nil:
		return http.StatusOK
	case errors.As(err, &verr):
		return http.StatusUnprocessableEntity
	case errors.As(err, &derr):
		return http.StatusBadGateway
	case errors.Is(err, contact.ErrSubmitInFlight), errors.Is(err, contact.ErrAlreadySubmitted):
		return http.StatusConflict
	case errors.Is(err, contact.ErrInvalidPatch), errors.Is(err, contact.ErrUnknownField):
		return http.StatusBadRequest
	case errors.Is(err, contact.ErrClosed):
		return http.StatusGone
	default:
		return http.StatusInternalServerError
	}
}

func (s *site) handleContactState(c *gin.Context) {
	v, ok := s.currentVisitor(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, s.stateResponse(v))
}

func (s *site) handleContactPatch(c *gin.Context) {
	v, ok := s.currentVisitor(c)
	if !ok {
		return
	}
	doc, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not read request body"})
		return
	}
	if err := v.controller.ApplyPatch(doc); err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, s.stateResponse(v))
}

func (s *site) handleContactAPISubmit(c *gin.Context) {
	v, ok := s.currentVisitor(c)
	if !ok {
		return
	}

	res, err := v.controller.Submit(c.Request.Context())
	s.recordSubmission(c.Request.Context(), res, err)

	resp := contactSubmitResponse{
		contactStateResponse: s.stateResponse(v),
		Handoff:              res.Handoff,
	}
	var verr *contact.ValidationError
	var derr *contact.DeliveryError
	switch {
	case errors.As(err, &verr):
		resp.Error = verr.Message
		resp.Reason = verr.Reason
	case errors.As(err, &derr):
		resp.Error = derr.Message
	case err != nil:
		resp.Error = err.Error()
	}
	c.JSON(statusFor(err), resp)
}
