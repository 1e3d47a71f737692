package repositories

import (
	"github.com/inkwell-social/inkwell/internal/models"
	"gorm.io/gorm"
)

// postOrder is the default feed ordering: newest first, with the id as a
// tiebreaker so posts created in the same instant keep a stable order.
const postOrder = "created_at DESC, id DESC"

// PostRepository defines the interface for post data operations
type PostRepository interface {
	CreatePost(post *models.Post) error
	GetPostByID(id uint) (*models.Post, error)
	UpdatePost(post *models.Post) error
	DeletePost(id uint) error
	CountAll() (int64, error)
	ListAll(offset, limit int) ([]models.Post, error)
	CountByGroup(groupID uint) (int64, error)
	ListByGroup(groupID uint, offset, limit int) ([]models.Post, error)
	CountByAuthor(authorID uint) (int64, error)
	ListByAuthor(authorID uint, offset, limit int) ([]models.Post, error)
	CountFollowed(userID uint) (int64, error)
	ListFollowed(userID uint, offset, limit int) ([]models.Post, error)
}

// PostgresPostRepository implements PostRepository for PostgreSQL
type PostgresPostRepository struct {
	db *gorm.DB
}

// NewPostgresPostRepository creates a new PostgresPostRepository
func NewPostgresPostRepository(db *gorm.DB) *PostgresPostRepository {
	return &PostgresPostRepository{db: db}
}

func (r *PostgresPostRepository) CreatePost(post *models.Post) error {
	return r.db.Create(post).Error
}

func (r *PostgresPostRepository) GetPostByID(id uint) (*models.Post, error) {
	var post models.Post
	if err := r.db.Preload("Author").Preload("Group").First(&post, id).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

// UpdatePost replaces the editable fields only. The author and creation
// timestamp are never written after the post exists.
func (r *PostgresPostRepository) UpdatePost(post *models.Post) error {
	return r.db.Model(&models.Post{}).Where("id = ?", post.ID).
		Updates(map[string]interface{}{
			"text":      post.Text,
			"group_id":  post.GroupID,
			"image_url": post.ImageURL,
		}).Error
}

func (r *PostgresPostRepository) DeletePost(id uint) error {
	return r.db.Delete(&models.Post{}, id).Error
}

func (r *PostgresPostRepository) CountAll() (int64, error) {
	var count int64
	err := r.db.Model(&models.Post{}).Count(&count).Error
	return count, err
}

func (r *PostgresPostRepository) ListAll(offset, limit int) ([]models.Post, error) {
	var posts []models.Post
	err := r.db.Preload("Author").Preload("Group").
		Order(postOrder).Offset(offset).Limit(limit).Find(&posts).Error
	return posts, err
}

func (r *PostgresPostRepository) CountByGroup(groupID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Post{}).Where("group_id = ?", groupID).Count(&count).Error
	return count, err
}

func (r *PostgresPostRepository) ListByGroup(groupID uint, offset, limit int) ([]models.Post, error) {
	var posts []models.Post
	err := r.db.Preload("Author").Preload("Group").
		Where("group_id = ?", groupID).
		Order(postOrder).Offset(offset).Limit(limit).Find(&posts).Error
	return posts, err
}

func (r *PostgresPostRepository) CountByAuthor(authorID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Post{}).Where("author_id = ?", authorID).Count(&count).Error
	return count, err
}

func (r *PostgresPostRepository) ListByAuthor(authorID uint, offset, limit int) ([]models.Post, error) {
	var posts []models.Post
	err := r.db.Preload("Author").Preload("Group").
		Where("author_id = ?", authorID).
		Order(postOrder).Offset(offset).Limit(limit).Find(&posts).Error
	return posts, err
}

// followedAuthors builds the subquery of author ids the user follows.
func (r *PostgresPostRepository) followedAuthors(userID uint) *gorm.DB {
	return r.db.Model(&models.Follow{}).Select("author_id").Where("user_id = ?", userID)
}

func (r *PostgresPostRepository) CountFollowed(userID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Post{}).
		Where("author_id IN (?)", r.followedAuthors(userID)).
		Count(&count).Error
	return count, err
}

func (r *PostgresPostRepository) ListFollowed(userID uint, offset, limit int) ([]models.Post, error) {
	var posts []models.Post
	err := r.db.Preload("Author").Preload("Group").
		Where("author_id IN (?)", r.followedAuthors(userID)).
		Order(postOrder).Offset(offset).Limit(limit).Find(&posts).Error
	return posts, err
}
