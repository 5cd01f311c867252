package validators

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/MKhiriev/go-lesson-sync/models"
)

func TestLessonValidator_Lesson(t *testing.T) {
	v := NewLessonValidator()
	ctx := context.Background()

	tests := []struct {
		name    string
		lesson  models.LessonFile
		wantErr error
	}{
		{
			name:   "valid",
			lesson: models.LessonFile{People: []models.Person{{Name: "anna", Role: models.RoleHost}, {Name: "boris"}}},
		},
		{name: "empty roster", lesson: models.LessonFile{}, wantErr: ErrEmptyRoster},
		{
			name:    "no name",
			lesson:  models.LessonFile{People: []models.Person{{Role: models.RoleHost}}},
			wantErr: ErrEmptyName,
		},
		{
			name:    "duplicate",
			lesson:  models.LessonFile{People: []models.Person{{Name: "anna"}, {Name: "anna"}}},
			wantErr: ErrDuplicateName,
		},
		{
			name:    "bad role",
			lesson:  models.LessonFile{People: []models.Person{{Name: "anna", Role: "admin"}}},
			wantErr: ErrUnknownRole,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(ctx, tt.lesson)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)

			// указатель проверяется так же
			assert.ErrorIs(t, v.Validate(ctx, &tt.lesson), tt.wantErr)
		})
	}
}

func TestLessonValidator_Write(t *testing.T) {
	v := NewLessonValidator()
	ctx := context.Background()

	valid := models.IncomingWrite{Type: models.FrameTypeUpdate, Path: "data/at", Value: json.RawMessage(`"L2"`)}

	tests := []struct {
		name    string
		write   models.IncomingWrite
		fields  []string
		wantErr error
	}{
		{name: "valid", write: valid},
		{name: "notice type", write: models.IncomingWrite{Type: "s", Path: "data/at", Value: valid.Value}, wantErr: ErrInvalidType},
		{name: "no path", write: models.IncomingWrite{Type: "u", Value: valid.Value}, wantErr: ErrEmptyPath},
		{name: "empty segment", write: models.IncomingWrite{Type: "u", Path: "data//at", Value: valid.Value}, wantErr: ErrInvalidPathForm},
		{name: "no value", write: models.IncomingWrite{Type: "u", Path: "data/at"}, wantErr: ErrEmptyValue},
		{name: "only type checked", write: models.IncomingWrite{Type: "u"}, fields: []string{FieldType}},
		{name: "unknown field", write: valid, fields: []string{"hash"}, wantErr: ErrUnknownField},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(ctx, tt.write, tt.fields...)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestLessonValidator_UnsupportedType(t *testing.T) {
	err := NewLessonValidator().Validate(context.Background(), 42)
	assert.ErrorIs(t, err, ErrUnsupportedType)
}
