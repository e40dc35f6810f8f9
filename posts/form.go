package posts

import (
	"strings"

	"cineblog/common"
	"cineblog/models"
)

// PostForm mirrors the add/edit form. Body1 is the summary, Body2 the cast.
type PostForm struct {
	Title    string `form:"title" validate:"required,max=250"`
	Subtitle string `form:"subtitle" validate:"required,max=250"`
	Image    string `form:"image" validate:"required,http_url,max=250"`
	Body1    string `form:"body1" validate:"required"`
	Body2    string `form:"body2" validate:"required"`
}

func formFromPost(p *models.Post) PostForm {
	return PostForm{
		Title:    p.Title,
		Subtitle: p.Subtitle,
		Image:    p.ImageURL,
		Body1:    p.BodySummary,
		Body2:    p.BodyDetail,
	}
}

func (f *PostForm) normalize() {
	f.Title = strings.TrimSpace(f.Title)
	f.Subtitle = strings.TrimSpace(f.Subtitle)
	f.Image = strings.TrimSpace(f.Image)
	// blank rich text counts as missing, but keep the author's formatting otherwise
	if strings.TrimSpace(f.Body1) == "" {
		f.Body1 = ""
	}
	if strings.TrimSpace(f.Body2) == "" {
		f.Body2 = ""
	}
}

// Validate normalizes the form and returns field errors keyed by form name.
func (f *PostForm) Validate() map[string]string {
	f.normalize()
	return common.ValidateForm(f)
}

func (f PostForm) Fields() Fields {
	return Fields{
		Title:       f.Title,
		Subtitle:    f.Subtitle,
		ImageURL:    f.Image,
		BodySummary: f.Body1,
		BodyDetail:  f.Body2,
	}
}
