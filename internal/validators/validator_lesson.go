package validators

import (
	"context"
	"fmt"
	"strings"

	"github.com/MKhiriev/go-lesson-sync/models"
)

const (
	FieldPeople = "people"
	FieldType   = "type"
	FieldPath   = "path"
	FieldValue  = "value"
)

var allowedRoles = []string{"", models.RoleHost, models.RoleParticipant}

// LessonValidator validates [models.LessonFile] and [models.IncomingWrite]
// values. With no fields given every rule applies.
type LessonValidator struct {
}

func NewLessonValidator() Validator {
	return &LessonValidator{}
}

func (v *LessonValidator) Validate(ctx context.Context, obj any, fields ...string) error {
	switch value := obj.(type) {
	case models.LessonFile:
		return v.validateLesson(ctx, value, fields...)
	case *models.LessonFile:
		return v.validateLesson(ctx, *value, fields...)

	case models.IncomingWrite:
		return v.validateWrite(ctx, value, fields...)
	case *models.IncomingWrite:
		return v.validateWrite(ctx, *value, fields...)

	default:
		return ErrUnsupportedType
	}
}

func (v *LessonValidator) validateLesson(_ context.Context, lesson models.LessonFile, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldPeople}
	}

	for _, field := range fields {
		switch field {
		case FieldPeople:
			if err := validatePeople(lesson.People); err != nil {
				return err
			}
		default:
			return fmt.Errorf("%w: %s", ErrUnknownField, field)
		}
	}
	return nil
}

func validatePeople(people []models.Person) error {
	if len(people) == 0 {
		return ErrEmptyRoster
	}

	seen := make(map[string]struct{}, len(people))
	for _, p := range people {
		if p.Name == "" {
			return ErrEmptyName
		}
		if _, dup := seen[p.Name]; dup {
			return fmt.Errorf("%w: %q", ErrDuplicateName, p.Name)
		}
		if !isAllowedRole(p.Role) {
			return fmt.Errorf("%w %q for %q", ErrUnknownRole, p.Role, p.Name)
		}
		seen[p.Name] = struct{}{}
	}
	return nil
}

func isAllowedRole(role string) bool {
	for _, r := range allowedRoles {
		if role == r {
			return true
		}
	}
	return false
}

func (v *LessonValidator) validateWrite(_ context.Context, w models.IncomingWrite, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldType, FieldPath, FieldValue}
	}

	for _, field := range fields {
		switch field {
		case FieldType:
			if w.Type != models.FrameTypeUpdate {
				return fmt.Errorf("%w: %q", ErrInvalidType, w.Type)
			}
		case FieldPath:
			if w.Path == "" {
				return ErrEmptyPath
			}
			for _, segment := range strings.Split(w.Path, "/") {
				if segment == "" {
					return fmt.Errorf("%w: %q", ErrInvalidPathForm, w.Path)
				}
			}
		case FieldValue:
			if len(w.Value) == 0 {
				return ErrEmptyValue
			}
		default:
			return fmt.Errorf("%w: %s", ErrUnknownField, field)
		}
	}
	return nil
}
