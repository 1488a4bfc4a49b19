package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/datatypes"
)

const (
	NoteTypeJournal  = "journal"
	NoteTypeDocument = "document"
)

var ErrNoteNotFound = errors.New("note not found")

// Note is a row of the notes table. Timestamps are Unix milliseconds.
type Note struct {
	ID         string            `gorm:"column:id;primaryKey" json:"id" validate:"required,max=128"`
	Content    string            `gorm:"column:content" json:"content"`
	CreatedAt  int64             `gorm:"column:created_at" json:"created_at"`
	ModifiedAt int64             `gorm:"column:modified_at" json:"modified_at"`
	Type       string            `gorm:"column:type" json:"type,omitempty" validate:"max=64"`
	Tags       Tags              `gorm:"column:tags" json:"tags,omitempty" validate:"max=50,dive,required,max=64"`
	Properties datatypes.JSONMap `gorm:"column:properties" json:"properties,omitempty"`
}

func (Note) TableName() string {
	return "notes"
}

func (n *Note) Created() time.Time {
	return time.UnixMilli(n.CreatedAt)
}

func (n *Note) Modified() time.Time {
	return time.UnixMilli(n.ModifiedAt)
}

// Tags is stored as a JSON array of strings; an empty list is stored as NULL.
// Text that is not a JSON array scans as a single tag.
type Tags []string

func (Tags) GormDataType() string {
	return "text"
}

func (t Tags) Value() (driver.Value, error) {
	if len(t) == 0 {
		return nil, nil
	}
	data, err := json.Marshal([]string(t))
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

func (t *Tags) Scan(src interface{}) error {
	var data []byte
	switch v := src.(type) {
	case nil:
		*t = nil
		return nil
	case string:
		data = []byte(v)
	case []byte:
		data = v
	default:
		return fmt.Errorf("tags: cannot scan %T", src)
	}

	text := strings.TrimSpace(string(data))
	if text == "" {
		*t = nil
		return nil
	}

	var tags []string
	if err := json.Unmarshal(data, &tags); err == nil {
		*t = tags
		return nil
	}
	// Rows written by other tools may hold a bare string; read it as one tag.
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		text = single
	}
	*t = Tags{text}
	return nil
}

func (t Tags) Contains(tag string) bool {
	for _, existing := range t {
		if existing == tag {
			return true
		}
	}
	return false
}
