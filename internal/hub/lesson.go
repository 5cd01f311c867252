// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package hub

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/MKhiriev/go-lesson-sync/internal/replica"
	"github.com/MKhiriev/go-lesson-sync/internal/validators"
	"github.com/MKhiriev/go-lesson-sync/models"
)

// Top-level paths of the lesson tree.
const (
	DataPath  = "data"
	UsersPath = "users"
)

var inputValidator = validators.NewLessonValidator()

// LoadLesson reads and validates a lesson file.
func LoadLesson(filename string) (models.LessonFile, error) {
	raw, err := os.ReadFile(filename)
	if err != nil {
		return models.LessonFile{}, fmt.Errorf("read lesson file: %w", err)
	}

	var lesson models.LessonFile
	if err = json.Unmarshal(raw, &lesson); err != nil {
		return models.LessonFile{}, fmt.Errorf("%w: decode %s: %w", ErrInvalidLesson, filename, err)
	}

	if err = validateLesson(lesson); err != nil {
		return models.LessonFile{}, err
	}
	return lesson, nil
}

func validateLesson(lesson models.LessonFile) error {
	if err := inputValidator.Validate(context.Background(), lesson, validators.FieldPeople); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidLesson, err)
	}
	return nil
}

// LineID returns the tree key of the i-th (zero-based) lesson line.
func LineID(i int) string {
	return "L" + strconv.Itoa(i+1)
}

// seedTree writes the lesson content below "data":
//
//	data/title  the lesson title
//	data/lines  {"L1": {"text": ...}, ...}
//	data/order  ["L1", ...]
//	data/at     the first line id, or "" for a lesson without lines
func seedTree(tree *replica.Tree, lesson models.LessonFile) error {
	lines := make(map[string]any, len(lesson.Lines))
	order := make([]any, 0, len(lesson.Lines))
	for i, l := range lesson.Lines {
		id := LineID(i)
		lines[id] = map[string]any{"text": l.Text}
		order = append(order, id)
	}

	at := ""
	if len(order) > 0 {
		at = LineID(0)
	}

	for path, value := range map[string]any{
		"data/title": lesson.Title,
		"data/lines": lines,
		"data/order": order,
		"data/at":    at,
	} {
		if err := tree.Set(path, value); err != nil {
			return err
		}
	}
	return nil
}
