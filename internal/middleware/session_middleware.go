package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/KaranKool/mishtee-mitra/internal/constants"
	"github.com/KaranKool/mishtee-mitra/internal/sessions"
	"github.com/KaranKool/mishtee-mitra/internal/utils"
)

type contextKey string

const ContextKeySession = contextKey("session")

// SessionMiddleware resolves the session named by the cookie, so handlers
// always see a session. When the cookie names no live session, reads get a
// detached LOGIN session and nothing is stored; a write registers a new
// session and issues its cookie.
func SessionMiddleware(reg *sessions.Registry, signer *sessions.TokenSigner, secureCookie bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess, err := resolveSession(r, reg, signer)
			if err != nil && isSafeMethod(r.Method) {
				sess = reg.Detached()
			} else if err != nil {
				utils.Logger.WithError(err).Debug("Starting a new session")

				sess, err = reg.Create()
				if errors.Is(err, utils.ErrTooManySessions) {
					utils.RespondErrorWithCode(
						w, http.StatusServiceUnavailable, utils.ErrCodeTooManySessions, "Too many active sessions, try again shortly", nil, err,
					)
					return
				}
				token, err := signer.Issue(sess.ID)
				if err != nil {
					reg.Delete(sess.ID)
					utils.RespondErrorWithCode(
						w, http.StatusInternalServerError, utils.ErrCodeInternal, "Could not start session", nil, err,
					)
					return
				}
				sessions.SetCookie(w, token, signer.TTL(), secureCookie)
			}

			ctx := context.WithValue(r.Context(), ContextKeySession, sess)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func isSafeMethod(method string) bool {
	return method == http.MethodGet || method == http.MethodHead
}

func resolveSession(r *http.Request, reg *sessions.Registry, signer *sessions.TokenSigner) (*sessions.Session, error) {
	c, err := r.Cookie(constants.SessionCookieName)
	if err != nil || c.Value == "" {
		return nil, utils.ErrSessionNotFound
	}
	id, err := signer.Parse(c.Value)
	if err != nil {
		return nil, err
	}
	return reg.Get(id)
}

// SessionFromContext returns the session attached by SessionMiddleware.
func SessionFromContext(ctx context.Context) (*sessions.Session, bool) {
	sess, ok := ctx.Value(ContextKeySession).(*sessions.Session)
	return sess, ok && sess != nil
}
