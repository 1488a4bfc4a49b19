package models

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// tagFilter matches a tag inside the JSON array, or the whole column when it
// holds plain text.
const tagFilter = `CASE WHEN json_valid(notes.tags)
	THEN EXISTS (SELECT 1 FROM json_each(notes.tags) WHERE json_each.value = ?)
	ELSE trim(notes.tags) = ? END`

// ListOptions narrows List. Zero values mean "no filter".
type ListOptions struct {
	Type  string
	Tag   string
	Query string
	Limit int
}

// NotesRepository is the persistence capability for notes.
type NotesRepository interface {
	Save(ctx context.Context, note *Note) error
	Get(ctx context.Context, id string) (*Note, error)
	List(ctx context.Context, opts ListOptions) ([]Note, error)
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
}

type GormNotesRepository struct {
	db *gorm.DB
}

func NewNotesRepository(db *gorm.DB) *GormNotesRepository {
	return &GormNotesRepository{db: db}
}

// Save inserts the note or, when the id exists, overwrites everything but created_at.
func (r *GormNotesRepository) Save(ctx context.Context, note *Note) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"content", "modified_at", "type", "tags", "properties"}),
		}).
		Create(note).Error
}

func (r *GormNotesRepository) Get(ctx context.Context, id string) (*Note, error) {
	var note Note
	err := r.db.WithContext(ctx).Where("id = ?", id).Take(&note).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNoteNotFound
	}
	if err != nil {
		return nil, err
	}
	return &note, nil
}

// List returns notes, most recently modified first.
func (r *GormNotesRepository) List(ctx context.Context, opts ListOptions) ([]Note, error) {
	query := r.db.WithContext(ctx).Model(&Note{})
	if opts.Type != "" {
		query = query.Where("type = ?", opts.Type)
	}
	if opts.Tag != "" {
		query = query.Where(tagFilter, opts.Tag, opts.Tag)
	}
	if opts.Query != "" {
		query = query.Where("content LIKE ?", "%"+opts.Query+"%")
	}
	if opts.Limit > 0 {
		query = query.Limit(opts.Limit)
	}

	notes := make([]Note, 0)
	err := query.
		Order("modified_at DESC").
		Order("id").
		Find(&notes).Error
	if err != nil {
		return nil, err
	}
	return notes, nil
}

func (r *GormNotesRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&Note{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNoteNotFound
	}
	return nil
}

func (r *GormNotesRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&Note{}).Count(&count).Error
	return count, err
}
