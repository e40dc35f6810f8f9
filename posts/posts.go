package posts

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"cineblog/auth"
	"cineblog/common"
	"cineblog/views"
)

type PostsModule struct {
	repo Repository
}

func NewPostsModule(repo Repository) *PostsModule {
	return &PostsModule{repo: repo}
}

func (p *PostsModule) RegisterRoutes(router *gin.Engine) {
	router.GET("/", p.home)
	router.GET("/post/:id", p.post)

	adminGroup := router.Group("/")
	adminGroup.Use(auth.RequireAdmin())
	{
		adminGroup.GET("/add", p.newPost)
		adminGroup.POST("/add", p.savePost)
		adminGroup.GET("/edit/:id", p.editPost)
		adminGroup.POST("/edit/:id", p.updatePost)
		adminGroup.GET("/delete/:id", p.deletePost)
	}
}

func (p *PostsModule) home(c *gin.Context) {
	posts, err := p.repo.ListAll(c.Request.Context())
	if err != nil {
		p.internalError(c, err)
		return
	}

	views.Render(c, http.StatusOK, "index.html", gin.H{
		"posts": posts,
	})
}

func (p *PostsModule) post(c *gin.Context) {
	id, ok := postID(c)
	if !ok {
		return
	}

	post, err := p.repo.Get(c.Request.Context(), id)
	if err != nil {
		p.lookupError(c, err)
		return
	}

	views.Render(c, http.StatusOK, "post.html", gin.H{
		"title":       post.Title,
		"post":        post,
		"summaryHTML": renderRichText(post.BodySummary),
		"detailHTML":  renderRichText(post.BodyDetail),
	})
}

func (p *PostsModule) newPost(c *gin.Context) {
	renderForm(c, http.StatusOK, "/add", "New review", PostForm{}, nil)
}

func (p *PostsModule) savePost(c *gin.Context) {
	form, ok := bindForm(c, "/add", "New review")
	if !ok {
		return
	}

	_, err := p.repo.Create(c.Request.Context(), form.Fields())
	if errors.Is(err, ErrDuplicateTitle) {
		renderForm(c, http.StatusBadRequest, "/add", "New review", form, map[string]string{
			"title": "A post with this title already exists.",
		})
		return
	}
	if err != nil {
		p.internalError(c, err)
		return
	}

	c.Redirect(http.StatusFound, "/")
}

func (p *PostsModule) editPost(c *gin.Context) {
	id, ok := postID(c)
	if !ok {
		return
	}

	post, err := p.repo.Get(c.Request.Context(), id)
	if err != nil {
		p.lookupError(c, err)
		return
	}

	renderForm(c, http.StatusOK, c.Request.URL.Path, "Edit review", formFromPost(post), nil)
}

func (p *PostsModule) updatePost(c *gin.Context) {
	id, ok := postID(c)
	if !ok {
		return
	}

	if _, err := p.repo.Get(c.Request.Context(), id); err != nil {
		p.lookupError(c, err)
		return
	}

	action := c.Request.URL.Path
	form, ok := bindForm(c, action, "Edit review")
	if !ok {
		return
	}

	_, err := p.repo.Update(c.Request.Context(), id, form.Fields())
	switch {
	case errors.Is(err, ErrDuplicateTitle):
		renderForm(c, http.StatusBadRequest, action, "Edit review", form, map[string]string{
			"title": "A post with this title already exists.",
		})
		return
	case err != nil:
		p.lookupError(c, err)
		return
	}

	c.Redirect(http.StatusFound, "/")
}

func (p *PostsModule) deletePost(c *gin.Context) {
	id, ok := postID(c)
	if !ok {
		return
	}

	if err := p.repo.Delete(c.Request.Context(), id); err != nil {
		p.lookupError(c, err)
		return
	}

	c.Redirect(http.StatusFound, "/")
}

// postID parses :id, answering 404 for anything that is not a post id.
func postID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		views.Error(c, http.StatusNotFound, "Post not found.")
		return 0, false
	}
	return uint(id), true
}

// bindForm reads and validates the post form, redisplaying it on failure.
func bindForm(c *gin.Context, action, heading string) (PostForm, bool) {
	var form PostForm
	if err := c.ShouldBind(&form); err != nil {
		views.Error(c, http.StatusBadRequest, "Invalid form submission.")
		return form, false
	}
	if fieldErrors := form.Validate(); fieldErrors != nil {
		renderForm(c, http.StatusBadRequest, action, heading, form, fieldErrors)
		return form, false
	}
	return form, true
}

func renderForm(c *gin.Context, status int, action, heading string, form PostForm, fieldErrors map[string]string) {
	if fieldErrors == nil {
		fieldErrors = map[string]string{}
	}
	views.Render(c, status, "post_form.html", gin.H{
		"title":   heading,
		"heading": heading,
		"action":  action,
		"form":    form,
		"errors":  fieldErrors,
	})
}

func (p *PostsModule) lookupError(c *gin.Context, err error) {
	if errors.Is(err, ErrNotFound) {
		views.Error(c, http.StatusNotFound, "Post not found.")
		return
	}
	p.internalError(c, err)
}

func (p *PostsModule) internalError(c *gin.Context, err error) {
	log.Printf("[%s] %s %s: %v", common.RequestID(c), c.Request.Method, c.Request.URL.Path, err)
	views.Error(c, http.StatusInternalServerError, "Something went wrong.")
}
