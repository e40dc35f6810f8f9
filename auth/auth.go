package auth

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"cineblog/common"
	"cineblog/views"
)

const (
	msgDuplicateEmail = "This email is already in use, log in instead."
	msgEmailNotFound  = "This email does not exist, please try again."
	msgWrongPassword  = "Incorrect password, please try again."
)

type RegisterForm struct {
	Email    string `form:"email" validate:"required,email,max=250"`
	Password string `form:"password" validate:"required"`
	Name     string `form:"name" validate:"required,max=250"`
}

type LoginForm struct {
	Email    string `form:"email" validate:"required"`
	Password string `form:"password" validate:"required"`
}

type AuthModule struct {
	store *CredentialStore
}

func NewAuthModule(store *CredentialStore) *AuthModule {
	return &AuthModule{store: store}
}

func (a *AuthModule) RegisterRoutes(router *gin.Engine) {
	router.GET("/register", a.registerPage)
	router.POST("/register", a.registerPost)
	router.GET("/login", a.loginPage)
	router.POST("/login", a.loginPost)
	router.GET("/logout", a.logout)
}

func (a *AuthModule) registerPage(c *gin.Context) {
	views.Render(c, http.StatusOK, "register.html", gin.H{
		"title":  "Register",
		"form":   RegisterForm{},
		"errors": map[string]string{},
	})
}

func (a *AuthModule) registerPost(c *gin.Context) {
	var form RegisterForm
	if err := c.ShouldBind(&form); err != nil {
		views.Error(c, http.StatusBadRequest, "Invalid form submission.")
		return
	}
	form.Email = strings.TrimSpace(form.Email)
	form.Name = strings.TrimSpace(form.Name)

	if fieldErrors := common.ValidateForm(form); fieldErrors != nil {
		form.Password = ""
		views.Render(c, http.StatusBadRequest, "register.html", gin.H{
			"title":  "Register",
			"form":   form,
			"errors": fieldErrors,
		})
		return
	}

	user, err := a.store.Register(c.Request.Context(), form.Email, form.Password, form.Name)
	if errors.Is(err, ErrDuplicateEmail) {
		AddFlash(c, msgDuplicateEmail)
		c.Redirect(http.StatusFound, "/login")
		return
	}
	if err != nil {
		log.Printf("[%s] registering %s: %v", common.RequestID(c), form.Email, err)
		views.Error(c, http.StatusInternalServerError, "Could not create the account.")
		return
	}

	if err := StartSession(c, user); err != nil {
		log.Printf("[%s] starting session for user %d: %v", common.RequestID(c), user.ID, err)
		views.Error(c, http.StatusInternalServerError, "Could not sign you in.")
		return
	}

	c.Redirect(http.StatusFound, "/")
}

func (a *AuthModule) loginPage(c *gin.Context) {
	views.Render(c, http.StatusOK, "login.html", gin.H{
		"title":  "Log in",
		"form":   LoginForm{},
		"errors": map[string]string{},
	})
}

func (a *AuthModule) loginPost(c *gin.Context) {
	var form LoginForm
	if err := c.ShouldBind(&form); err != nil {
		views.Error(c, http.StatusBadRequest, "Invalid form submission.")
		return
	}
	form.Email = strings.TrimSpace(form.Email)

	if fieldErrors := common.ValidateForm(form); fieldErrors != nil {
		form.Password = ""
		views.Render(c, http.StatusBadRequest, "login.html", gin.H{
			"title":  "Log in",
			"form":   form,
			"errors": fieldErrors,
		})
		return
	}

	user, err := a.store.Verify(c.Request.Context(), form.Email, form.Password)
	switch {
	case errors.Is(err, ErrEmailNotFound):
		AddFlash(c, msgEmailNotFound)
		c.Redirect(http.StatusFound, "/login")
		return
	case errors.Is(err, ErrInvalidCredentials):
		AddFlash(c, msgWrongPassword)
		c.Redirect(http.StatusFound, "/login")
		return
	case err != nil:
		log.Printf("[%s] verifying %s: %v", common.RequestID(c), form.Email, err)
		views.Error(c, http.StatusInternalServerError, "Could not sign you in.")
		return
	}

	if err := StartSession(c, user); err != nil {
		log.Printf("[%s] starting session for user %d: %v", common.RequestID(c), user.ID, err)
		views.Error(c, http.StatusInternalServerError, "Could not sign you in.")
		return
	}

	c.Redirect(http.StatusFound, "/")
}

func (a *AuthModule) logout(c *gin.Context) {
	if err := EndSession(c); err != nil {
		log.Printf("[%s] ending session: %v", common.RequestID(c), err)
	}
	c.Redirect(http.StatusFound, "/")
}
