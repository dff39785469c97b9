package database

import (
	"context"
	"errors"

	"github.com/charmbracelet/log"
	"gorm.io/gorm"
)

// Course is identified by its title, e.g. "CS411".
type Course struct {
	Title string `gorm:"primaryKey;size:32"`
	Name  string `gorm:"not null"`
}

func (c *Client) CreateCourse(ctx context.Context, course *Course) error {
	if err := c.db.WithContext(ctx).Create(course).Error; err != nil {
		if isDuplicateErr(err) {
			return ErrDuplicate
		}
		log.Error("failed to create course", "error", err)
		return err
	}
	return nil
}

func (c *Client) GetCourse(ctx context.Context, title string) (*Course, error) {
	var course Course
	if err := c.db.WithContext(ctx).Where("title = ?", title).First(&course).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCourseNotFound
		}
		log.Error("failed to get course", "error", err)
		return nil, err
	}
	return &course, nil
}

func (c *Client) GetCourses(ctx context.Context) ([]Course, error) {
	var courses []Course
	if err := c.db.WithContext(ctx).Order("title").Find(&courses).Error; err != nil {
		log.Error("failed to get courses", "error", err)
		return nil, err
	}
	return courses, nil
}
