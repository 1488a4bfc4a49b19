package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"kronosphere/internal/logger"
	"kronosphere/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

var ErrInvalidNote = errors.New("invalid note")

// NoteInput carries the user-editable fields of a new note.
type NoteInput struct {
	Content    string
	Type       string
	Tags       []string
	Properties map[string]interface{}
}

// NoteService owns note validation, identity and timestamps on top of a
// NotesRepository.
type NoteService struct {
	repo     models.NotesRepository
	validate *validator.Validate
	log      logger.Logger
	now      func() time.Time
	newID    func() string
}

func NewNoteService(repo models.NotesRepository, validate *validator.Validate, log logger.Logger) *NoteService {
	if validate == nil {
		validate = validator.New()
	}
	if log == nil {
		log = logger.NoOpLogger{}
	}
	return &NoteService{
		repo:     repo,
		validate: validate,
		log:      log,
		now:      time.Now,
		newID:    uuid.NewString,
	}
}

// Create stores a new note under a fresh id.
func (s *NoteService) Create(ctx context.Context, input NoteInput) (*models.Note, error) {
	note := &models.Note{
		ID:      s.newID(),
		Content: input.Content,
		Type:    strings.TrimSpace(input.Type),
		Tags:    models.Tags(input.Tags),
	}
	if input.Properties != nil {
		note.Properties = datatypes.JSONMap(input.Properties)
	}
	return s.Save(ctx, note)
}

// Save upserts note and returns the stored row, whose created_at may differ
// from the argument when the note already existed.
func (s *NoteService) Save(ctx context.Context, note *models.Note) (*models.Note, error) {
	if note == nil {
		return nil, fmt.Errorf("%w: nil note", ErrInvalidNote)
	}

	note.ID = strings.TrimSpace(note.ID)
	note.Tags = NormalizeTags(note.Tags)
	if err := s.validate.Struct(note); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidNote, err)
	}

	now := s.now().UnixMilli()
	if note.CreatedAt == 0 {
		note.CreatedAt = now
	}
	note.ModifiedAt = now

	if err := s.repo.Save(ctx, note); err != nil {
		return nil, fmt.Errorf("save note %s: %w", note.ID, err)
	}

	s.log.Debug("NoteService", "note saved", map[string]interface{}{
		"id":   note.ID,
		"size": len(note.Content),
		"tags": len(note.Tags),
	})
	return s.repo.Get(ctx, note.ID)
}

func (s *NoteService) Get(ctx context.Context, id string) (*models.Note, error) {
	return s.repo.Get(ctx, id)
}

func (s *NoteService) List(ctx context.Context, opts models.ListOptions) ([]models.Note, error) {
	return s.repo.List(ctx, opts)
}

func (s *NoteService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info("NoteService", "note deleted", map[string]interface{}{"id": id})
	return nil
}

func (s *NoteService) Count(ctx context.Context) (int64, error) {
	return s.repo.Count(ctx)
}

// NormalizeTags trims tags and drops empty and repeated ones, keeping order.
func NormalizeTags(tags []string) models.Tags {
	if len(tags) == 0 {
		return nil
	}

	out := make(models.Tags, 0, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" || out.Contains(tag) {
			continue
		}
		out = append(out, tag)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// ParseTags splits a comma separated tag field from the editor.
func ParseTags(field string) models.Tags {
	return NormalizeTags(strings.Split(field, ","))
}
