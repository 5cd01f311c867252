// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

// LessonFile is the on-disk description of a lesson the server hosts.
type LessonFile struct {
	// Title is shown above the lines.
	Title string `json:"title"`

	// Lines is the ordered list of lines the host steps through.
	Lines []LessonLine `json:"lines"`

	// People is the roster allowed to log in.
	People []Person `json:"people"`
}

// LessonLine is one line of a lesson.
type LessonLine struct {
	Text string `json:"text"`
}

// Person is a roster entry of a lesson file. An empty Role means
// [RoleParticipant].
type Person struct {
	Name string `json:"name"`
	Role string `json:"role"`
}

// Member is the roster entry published at the "users" path.
type Member struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Role   string `json:"role"`
	Online bool   `json:"online"`
}
