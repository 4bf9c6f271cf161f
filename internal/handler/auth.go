package handler

import (
	"errors"
	"net/http"

	"github.com/tableside/tableside/internal/form"
	"github.com/tableside/tableside/internal/middleware"
	"github.com/tableside/tableside/internal/repository"
	"github.com/tableside/tableside/internal/service"
	"github.com/tableside/tableside/internal/session"
)

// AuthHandler serves registration, login and logout.
type AuthHandler struct {
	render   *Renderer
	accounts *service.AccountService
	sessions *session.Store
	users    form.UserDirectory
	secure   bool
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(render *Renderer, accounts *service.AccountService, sessions *session.Store, repo *repository.Repository, secure bool) *AuthHandler {
	return &AuthHandler{
		render:   render,
		accounts: accounts,
		sessions: sessions,
		users:    repo,
		secure:   secure,
	}
}

// registerPage is the template data for the sign-up page.
type registerPage struct {
	Form   *form.Registration
	Errors form.Errors
}

// RegisterForm shows the sign-up page. Logged-in visitors go home.
//
// GET /register
func (h *AuthHandler) RegisterForm(w http.ResponseWriter, r *http.Request) {
	if middleware.UserFromContext(r.Context()) != nil {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}

	h.render.Render(w, r, http.StatusOK, "register.html", " - Register", registerPage{
		Form:   &form.Registration{},
		Errors: form.Errors{},
	})
}

// Register creates the account and sends the visitor to the login page.
//
// POST /register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	if middleware.UserFromContext(r.Context()) != nil {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}

	if err := r.ParseForm(); err != nil {
		h.render.ServerErrorPage(w, r, err)
		return
	}

	f := form.ParseRegistration(r)
	errs, err := f.Validate(r.Context(), h.users)
	if err != nil {
		h.render.ServerErrorPage(w, r, err)
		return
	}
	if errs.Any() {
		h.render.Render(w, r, http.StatusOK, "register.html", " - Register", registerPage{Form: f, Errors: errs})
		return
	}

	user, err := h.accounts.Register(r.Context(), service.RegisterInput{
		Username: f.Username,
		Email:    f.Email,
		Password: f.Password,
	})
	if err != nil {
		// A concurrent registration can slip past the form's pre-check.
		switch {
		case errors.Is(err, service.ErrUsernameExists):
			errs.Add("username", "The username is already taken")
		case errors.Is(err, service.ErrEmailExists):
			errs.Add("email", "The email is already taken")
		default:
			h.render.ServerErrorPage(w, r, err)
			return
		}
		h.render.Render(w, r, http.StatusOK, "register.html", " - Register", registerPage{Form: f, Errors: errs})
		return
	}

	h.render.Flash(r, "Your account has been created! You are now able to log in, "+user.Username, "success")
	http.Redirect(w, r, "/login", http.StatusFound)
}

// loginPage is the template data for the sign-in page.
type loginPage struct {
	Form   *form.Login
	Errors form.Errors
	Next   string
}

// LoginForm shows the sign-in page. Logged-in visitors go home.
//
// GET /login
func (h *AuthHandler) LoginForm(w http.ResponseWriter, r *http.Request) {
	if middleware.UserFromContext(r.Context()) != nil {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}

	h.render.Render(w, r, http.StatusOK, "login.html", " - Login", loginPage{
		Form:   &form.Login{},
		Errors: form.Errors{},
		Next:   r.URL.Query().Get("next"),
	})
}

// Login verifies the credentials, establishes a session and honours the
// next parameter. Both unknown emails and wrong passwords produce the
// same message.
//
// POST /login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if middleware.UserFromContext(r.Context()) != nil {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}

	if err := r.ParseForm(); err != nil {
		h.render.ServerErrorPage(w, r, err)
		return
	}

	next := r.URL.Query().Get("next")
	f := form.ParseLogin(r)
	if errs := f.Validate(); errs.Any() {
		h.render.Render(w, r, http.StatusOK, "login.html", " - Login", loginPage{Form: f, Errors: errs, Next: next})
		return
	}

	_, sess, err := h.accounts.Login(r.Context(), f.Email, f.Password, f.Remember)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			h.render.Flash(r, "Login unsuccessful, please check your credentials", "danger")
			h.render.Render(w, r, http.StatusOK, "login.html", " - Login", loginPage{Form: f, Errors: form.Errors{}, Next: next})
			return
		}
		h.render.ServerErrorPage(w, r, err)
		return
	}

	cookie := &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    sess.Token,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.secure,
		SameSite: http.SameSiteLaxMode,
	}
	// A remembered login survives the browser session.
	if f.Remember {
		cookie.MaxAge = int(h.sessions.TTL(true).Seconds())
	}
	http.SetCookie(w, cookie)

	http.Redirect(w, r, safeNext(next), http.StatusFound)
}

// Logout destroys the session and clears the cookie.
//
// GET /logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	token := middleware.SessionTokenFromContext(r.Context())
	if token != "" {
		if err := h.accounts.Logout(r.Context(), token); err != nil {
			h.render.ServerErrorPage(w, r, err)
			return
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secure,
		SameSite: http.SameSiteLaxMode,
	})

	http.Redirect(w, r, "/", http.StatusFound)
}
