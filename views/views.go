package views

import (
	"crypto/md5"
	"embed"
	"encoding/hex"
	"fmt"
	"html/template"
	"log"
	"strings"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"cineblog/common"
	"cineblog/models"
)

// CurrentUserKey is the gin context key holding the signed-in *models.User.
const CurrentUserKey = "current_user"

//go:embed templates/*.html
var templateFS embed.FS

// Parse builds the page set. extra is merged over the built-in helpers so
// callers can add predicates such as isAdmin.
func Parse(extra template.FuncMap) (*template.Template, error) {
	funcs := template.FuncMap{
		"now":      time.Now,
		"gravatar": Gravatar,
		"isAdmin":  func(*models.User) bool { return false },
	}
	for name, fn := range extra {
		funcs[name] = fn
	}
	return template.New("").Funcs(funcs).ParseFS(templateFS, "templates/*.html")
}

// Load installs the parsed pages on the router.
func Load(router *gin.Engine, extra template.FuncMap) error {
	tmpl, err := Parse(extra)
	if err != nil {
		return err
	}
	router.SetHTMLTemplate(tmpl)
	return nil
}

// Render adds the signed-in user and pending flash messages to data.
func Render(c *gin.Context, status int, name string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}

	var user *models.User
	if v, ok := c.Get(CurrentUserKey); ok {
		user, _ = v.(*models.User)
	}
	data["currentUser"] = user

	session := sessions.Default(c)
	if flashes := session.Flashes(); len(flashes) > 0 {
		messages := make([]string, 0, len(flashes))
		for _, f := range flashes {
			messages = append(messages, fmt.Sprint(f))
		}
		data["flashes"] = messages
		if err := session.Save(); err != nil {
			log.Printf("[%s] saving drained flashes: %v", common.RequestID(c), err)
		}
	}

	c.HTML(status, name, data)
}

func Error(c *gin.Context, status int, message string) {
	Render(c, status, "error.html", gin.H{
		"status": status,
		"error":  message,
	})
}

func Gravatar(email string, size int) string {
	sum := md5.Sum([]byte(strings.ToLower(strings.TrimSpace(email))))
	return fmt.Sprintf("https://www.gravatar.com/avatar/%s?s=%d&d=retro", hex.EncodeToString(sum[:]), size)
}
