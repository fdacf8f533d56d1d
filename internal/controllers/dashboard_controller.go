package controllers

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"github.com/KaranKool/mishtee-mitra/internal/app"
	"github.com/KaranKool/mishtee-mitra/internal/constants"
	"github.com/KaranKool/mishtee-mitra/internal/delivery"
	"github.com/KaranKool/mishtee-mitra/internal/dtos"
	"github.com/KaranKool/mishtee-mitra/internal/middleware"
	"github.com/KaranKool/mishtee-mitra/internal/routes"
	"github.com/KaranKool/mishtee-mitra/internal/sessions"
	"github.com/KaranKool/mishtee-mitra/internal/utils"
)

const (
	noticeBusy       = "Please wait, your last action is still being processed."
	noticeNotAllowed = "That action is not available right now."
)

// DashboardController turns form posts into delivery events. Every POST
// ends in a redirect to the page, so a reload never repeats an action.
type DashboardController struct {
	app          *app.App
	validate     *validator.Validate
	hub          *Hub
	secureCookie bool
}

func NewDashboardController(a *app.App) *DashboardController {
	var hub *Hub
	if a.Config.LDFlag_ShowHubDistance && a.Config.HubLatitude != nil && a.Config.HubLongitude != nil {
		hub = &Hub{Latitude: *a.Config.HubLatitude, Longitude: *a.Config.HubLongitude}
	}
	return &DashboardController{
		app:          a,
		validate:     validator.New(),
		hub:          hub,
		secureCookie: !a.Config.IsDev(),
	}
}

// GET /
func (c *DashboardController) PageHandler(w http.ResponseWriter, r *http.Request) {
	sess, ok := c.session(w, r)
	if !ok {
		return
	}
	c.render(w, http.StatusOK, sess.Controller.State(), "")
}

// POST /login
func (c *DashboardController) LoginHandler(w http.ResponseWriter, r *http.Request) {
	if !c.parseForm(w, r) {
		return
	}
	form := dtos.LoginForm{PhoneNumber: r.PostFormValue("phone_number")}
	if !c.validForm(w, r, form) {
		return
	}
	c.dispatch(w, r, delivery.SubmitPhone{Phone: form.PhoneNumber})
}

// POST /logout
func (c *DashboardController) LogoutHandler(w http.ResponseWriter, r *http.Request) {
	sess, ok := c.session(w, r)
	if !ok {
		return
	}
	state, err := sess.Controller.Dispatch(r.Context(), delivery.Logout{})
	if err != nil {
		c.rejected(w, state, err)
		return
	}
	c.app.Sessions.Delete(sess.ID)
	sessions.ClearCookie(w, c.secureCookie)
	http.Redirect(w, r, routes.Home, http.StatusSeeOther)
}

// POST /job/start-route
func (c *DashboardController) StartRouteHandler(w http.ResponseWriter, r *http.Request) {
	c.dispatch(w, r, delivery.StartRoute{})
}

// POST /job/mark-delivered
func (c *DashboardController) MarkDeliveredHandler(w http.ResponseWriter, r *http.Request) {
	c.dispatch(w, r, delivery.MarkDelivered{})
}

// POST /job/toggle-online
func (c *DashboardController) ToggleOnlineHandler(w http.ResponseWriter, r *http.Request) {
	c.dispatch(w, r, delivery.ToggleOnline{})
}

// POST /pod/confirm
func (c *DashboardController) ConfirmDeliveryHandler(w http.ResponseWriter, r *http.Request) {
	if !c.parseForm(w, r) {
		return
	}
	form := dtos.PODForm{Recipient: r.PostFormValue("recipient")}
	if !c.validForm(w, r, form) {
		return
	}
	c.dispatch(w, r, delivery.ConfirmDelivery{Recipient: form.Recipient})
}

// POST /pod/cancel
func (c *DashboardController) CancelPODHandler(w http.ResponseWriter, r *http.Request) {
	c.dispatch(w, r, delivery.CancelPOD{})
}

// POST /success/next
func (c *DashboardController) FindNextHandler(w http.ResponseWriter, r *http.Request) {
	c.dispatch(w, r, delivery.FindNext{})
}

// POST /alert/dismiss
func (c *DashboardController) DismissAlertHandler(w http.ResponseWriter, r *http.Request) {
	c.dispatch(w, r, delivery.DismissAlert{})
}

// ----------------------------------------------------------------
// helpers
// ----------------------------------------------------------------

func (c *DashboardController) dispatch(w http.ResponseWriter, r *http.Request, ev delivery.Event) {
	sess, ok := c.session(w, r)
	if !ok {
		return
	}
	logger := utils.Logger.WithFields(logrus.Fields{
		"session": sess.ID,
		"event":   delivery.EventName(ev),
	})

	state, err := sess.Controller.Dispatch(r.Context(), ev)
	if err != nil {
		logger.WithError(err).Debug("Event rejected")
		c.rejected(w, state, err)
		return
	}
	logger.WithField("view", state.View).Debug("Event applied")
	http.Redirect(w, r, routes.Home, http.StatusSeeOther)
}

// rejected re-renders the current view for busy and not-allowed events.
func (c *DashboardController) rejected(w http.ResponseWriter, state delivery.State, err error) {
	switch {
	case errors.Is(err, delivery.ErrBusy):
		c.render(w, http.StatusConflict, state, noticeBusy)
	case errors.Is(err, delivery.ErrNotAllowed):
		c.render(w, http.StatusConflict, state, noticeNotAllowed)
	default:
		utils.RespondErrorWithCode(
			w, http.StatusInternalServerError, utils.ErrCodeInternal, "Could not apply action", nil, err,
		)
	}
}

func (c *DashboardController) session(w http.ResponseWriter, r *http.Request) (*sessions.Session, bool) {
	sess, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		utils.HandleAppError(w, &utils.AppError{
			StatusCode: http.StatusUnauthorized,
			Code:       utils.ErrCodeUnauthorized,
			Message:    "Missing session",
			Err:        utils.ErrSessionNotFound,
		})
		return nil, false
	}
	return sess, true
}

func (c *DashboardController) parseForm(w http.ResponseWriter, r *http.Request) bool {
	r.Body = http.MaxBytesReader(w, r.Body, constants.MaxFormBytes)
	if err := r.ParseForm(); err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid form body", nil, err,
		)
		return false
	}
	return true
}

func (c *DashboardController) validForm(w http.ResponseWriter, r *http.Request, form any) bool {
	err := c.validate.Struct(form)
	if err == nil {
		return true
	}
	var vErrs validator.ValidationErrors
	if !errors.As(err, &vErrs) {
		utils.RespondErrorWithCode(
			w, http.StatusBadRequest, utils.ErrCodeValidation, "Invalid form", nil, err,
		)
		return false
	}

	sess, ok := c.session(w, r)
	if !ok {
		return false
	}
	c.render(w, http.StatusBadRequest, sess.Controller.State(), formatValidationErrors(vErrs))
	return false
}

// formatValidationErrors reports the first failing field.
func formatValidationErrors(errs validator.ValidationErrors) string {
	if len(errs) == 0 {
		return "Invalid form."
	}
	err := errs[0]
	if err.Tag() == "max" {
		return fmt.Sprintf("%s must not exceed %s characters.", err.Field(), err.Param())
	}
	return fmt.Sprintf("%s is invalid.", err.Field())
}

func (c *DashboardController) render(w http.ResponseWriter, status int, state delivery.State, notice string) {
	var buf bytes.Buffer
	if err := renderPage(&buf, newPageData(state, c.hub, notice)); err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusInternalServerError, utils.ErrCodeInternal, "Failed to render page", nil, err,
		)
		return
	}
	sessions.AddNoStoreHeaders(w)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
