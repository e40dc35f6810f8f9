package auth

import (
	"errors"
	"log"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"cineblog/common"
	"cineblog/models"
	"cineblog/views"
)

const (
	SessionCookieName = "cineblog-session"
	sessionKeyUser    = "user_id"
)

// StartSession binds the client's session to user.
func StartSession(c *gin.Context, user *models.User) error {
	session := sessions.Default(c)
	session.Set(sessionKeyUser, user.ID)
	if err := session.Save(); err != nil {
		return err
	}
	c.Set(views.CurrentUserKey, user)
	return nil
}

// EndSession drops the binding; flashes queued afterwards still survive.
func EndSession(c *gin.Context) error {
	session := sessions.Default(c)
	session.Clear()
	c.Set(views.CurrentUserKey, (*models.User)(nil))
	return session.Save()
}

// CurrentUser returns the user resolved by LoadUser, nil when anonymous.
func CurrentUser(c *gin.Context) *models.User {
	v, ok := c.Get(views.CurrentUserKey)
	if !ok {
		return nil
	}
	user, _ := v.(*models.User)
	return user
}

func AddFlash(c *gin.Context, message string) {
	session := sessions.Default(c)
	session.AddFlash(message)
	if err := session.Save(); err != nil {
		log.Printf("[%s] saving flash: %v", common.RequestID(c), err)
	}
}

// LoadUser resolves the session's user id once per request. An id that no
// longer exists is treated as anonymous and removed from the session.
func (s *CredentialStore) LoadUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		id, ok := session.Get(sessionKeyUser).(int)
		if !ok {
			c.Next()
			return
		}

		user, err := s.FindByID(c.Request.Context(), id)
		switch {
		case err == nil:
			c.Set(views.CurrentUserKey, user)
		case errors.Is(err, gorm.ErrRecordNotFound):
			session.Delete(sessionKeyUser)
			if err := session.Save(); err != nil {
				log.Printf("[%s] clearing stale session user %d: %v", common.RequestID(c), id, err)
			}
		default:
			log.Printf("[%s] loading session user %d: %v", common.RequestID(c), id, err)
		}
		c.Next()
	}
}
