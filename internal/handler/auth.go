package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/library-seat-reservation/internal/config"
	"github.com/iliyamo/library-seat-reservation/internal/middleware"
	"github.com/iliyamo/library-seat-reservation/internal/model"
	"github.com/iliyamo/library-seat-reservation/internal/utils"
)

// AuthHandler serves the pages that establish and clear the login
// session.  Login trusts the submitted registration number and name as
// given; there is no password and no verification beyond presence.
type AuthHandler struct {
	Cfg config.Config
}

// NewAuthHandler constructs an AuthHandler.
func NewAuthHandler(cfg config.Config) *AuthHandler {
	return &AuthHandler{Cfg: cfg}
}

// Home renders the landing page, including the identity when the
// caller is logged in.  Registered on both / and /home.
func (h *AuthHandler) Home(c echo.Context) error {
	data := echo.Map{}
	if user, ok := middleware.CurrentUser(c); ok {
		data["User"] = user
	}
	return c.Render(http.StatusOK, "home.html", data)
}

// About renders a small greeting page for the given username.
func (h *AuthHandler) About(c echo.Context) error {
	return c.Render(http.StatusOK, "about.html", echo.Map{"Username": c.Param("username")})
}

// LoginForm renders the login page.
func (h *AuthHandler) LoginForm(c echo.Context) error {
	return c.Render(http.StatusOK, "login.html", echo.Map{})
}

// Login establishes the session from the submitted form.  Both fields
// are required; on failure the form is re-rendered with an error.  On
// success a signed session cookie plus the plain user_registration and
// user_name cookies are set for the configured number of days and the
// caller is redirected to /home.
func (h *AuthHandler) Login(c echo.Context) error {
	registration := strings.TrimSpace(c.FormValue("registration_number"))
	name := strings.TrimSpace(c.FormValue("name"))
	if registration == "" || name == "" {
		return c.Render(http.StatusOK, "login.html", echo.Map{"Error": "Please fill in all fields"})
	}

	user := model.UserInfo{
		RegistrationNumber: registration,
		Name:               name,
		LoginTime:          time.Now().UTC(),
	}

	ttl := time.Duration(h.Cfg.SessionTTLDays) * 24 * time.Hour
	token, err := utils.NewSessionToken(h.Cfg.JWTSecret, user, ttl)
	if err != nil {
		return c.Render(http.StatusInternalServerError, "login.html", echo.Map{"Error": "Login failed, please try again"})
	}

	maxAge := int(ttl / time.Second)
	c.SetCookie(&http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
	})
	c.SetCookie(&http.Cookie{Name: "user_registration", Value: registration, Path: "/", MaxAge: maxAge})
	c.SetCookie(&http.Cookie{Name: "user_name", Value: name, Path: "/", MaxAge: maxAge})

	return c.Redirect(http.StatusFound, "/home")
}

// Logout clears the session and identity cookies and redirects home.
func (h *AuthHandler) Logout(c echo.Context) error {
	for _, name := range []string{middleware.SessionCookieName, "user_registration", "user_name"} {
		c.SetCookie(&http.Cookie{Name: name, Value: "", Path: "/", MaxAge: -1})
	}
	return c.Redirect(http.StatusFound, "/home")
}
