package posts

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"cineblog/common"
	"cineblog/models"
)

var (
	ErrNotFound       = errors.New("post not found")
	ErrDuplicateTitle = errors.New("a post with this title already exists")
)

// Fields are the five user-editable columns of a post.
type Fields struct {
	Title       string
	Subtitle    string
	ImageURL    string
	BodySummary string
	BodyDetail  string
}

func (f Fields) apply(p *models.Post) {
	p.Title = f.Title
	p.Subtitle = f.Subtitle
	p.ImageURL = f.ImageURL
	p.BodySummary = f.BodySummary
	p.BodyDetail = f.BodyDetail
}

type Repository interface {
	ListAll(ctx context.Context) ([]models.Post, error)
	Get(ctx context.Context, id uint) (*models.Post, error)
	Create(ctx context.Context, fields Fields) (*models.Post, error)
	Update(ctx context.Context, id uint, fields Fields) (*models.Post, error)
	Delete(ctx context.Context, id uint) error
}

// GormRepository stores posts through gorm. Each write is one transaction.
type GormRepository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{db: db}
}

func (r *GormRepository) ListAll(ctx context.Context) ([]models.Post, error) {
	var posts []models.Post
	if err := r.db.WithContext(ctx).Order("id").Find(&posts).Error; err != nil {
		return nil, fmt.Errorf("listing posts: %w", err)
	}
	return posts, nil
}

func (r *GormRepository) Get(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	if err := common.Quiet(r.db).WithContext(ctx).First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("loading post %d: %w", id, err)
	}
	return &post, nil
}

func (r *GormRepository) Create(ctx context.Context, fields Fields) (*models.Post, error) {
	var post models.Post
	fields.apply(&post)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureTitleFree(tx, fields.Title, 0); err != nil {
			return err
		}
		return tx.Create(&post).Error
	})
	if err != nil {
		return nil, wrapWriteErr("creating post", err)
	}
	return &post, nil
}

func (r *GormRepository) Update(ctx context.Context, id uint, fields Fields) (*models.Post, error) {
	var post models.Post

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := common.Quiet(tx).First(&post, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if err := ensureTitleFree(tx, fields.Title, id); err != nil {
			return err
		}
		fields.apply(&post)
		return tx.Save(&post).Error
	})
	if err != nil {
		return nil, wrapWriteErr(fmt.Sprintf("updating post %d", id), err)
	}
	return &post, nil
}

func (r *GormRepository) Delete(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Delete(&models.Post{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
	return wrapWriteErr(fmt.Sprintf("deleting post %d", id), err)
}

// ensureTitleFree fails when a post other than exceptID already uses title.
func ensureTitleFree(tx *gorm.DB, title string, exceptID uint) error {
	query := tx.Model(&models.Post{}).Where("title = ?", title)
	if exceptID != 0 {
		query = query.Where("id <> ?", exceptID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrDuplicateTitle
	}
	return nil
}

func wrapWriteErr(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrDuplicateTitle):
		return err
	case errors.Is(err, gorm.ErrDuplicatedKey):
		// a concurrent writer took the title between the check and the insert
		return ErrDuplicateTitle
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}
