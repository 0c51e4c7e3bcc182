// Package catalog serves the course/subject/topic/chapter hierarchy that
// drives question generation, loaded from per-course JSON files.
package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/pkompalli/QBank-Generator/internal/domain"
)

// The two course files use different key casings (a legacy of their separate
// origins), so the raw structs accept both and normalization happens on load.
type rawTopic struct {
	Topic         string   `json:"Topic"`
	Name          string   `json:"name"`
	ChaptersUpper []string `json:"Chapters"`
	ChaptersLower []string `json:"chapters"`
}

type rawSubject struct {
	SubjectUpper string     `json:"Subject"`
	SubjectLower string     `json:"subject"`
	TopicsUpper  []rawTopic `json:"Topics"`
	TopicsLower  []rawTopic `json:"topics"`
}

type topicEntry struct {
	name     string
	chapters []string
}

type subjectEntry struct {
	name   string
	topics []topicEntry
}

// Catalog is an immutable, fully-loaded course hierarchy.
type Catalog struct {
	courses map[string][]subjectEntry
}

// Load reads one JSON file per course. Course names are the keys callers will
// query with, typically domain.CourseNEETPG and domain.CourseUSMLE.
func Load(coursePaths map[string]string) (*Catalog, error) {
	c := &Catalog{courses: make(map[string][]subjectEntry, len(coursePaths))}
	for course, path := range coursePaths {
		subjects, err := loadCourseFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load catalog for %s: %w", course, err)
		}
		c.courses[course] = subjects
	}
	return c, nil
}

func loadCourseFile(path string) ([]subjectEntry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var raw []rawSubject
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	subjects := make([]subjectEntry, 0, len(raw))
	for _, rs := range raw {
		entry := subjectEntry{name: pick(rs.SubjectUpper, rs.SubjectLower)}
		if entry.name == "" {
			continue
		}
		rawTopics := rs.TopicsUpper
		if len(rawTopics) == 0 {
			rawTopics = rs.TopicsLower
		}
		for _, rt := range rawTopics {
			name := pick(rt.Topic, rt.Name)
			if name == "" {
				continue
			}
			chapters := rt.ChaptersUpper
			if len(chapters) == 0 {
				chapters = rt.ChaptersLower
			}
			entry.topics = append(entry.topics, topicEntry{name: name, chapters: chapters})
		}
		subjects = append(subjects, entry)
	}
	return subjects, nil
}

func pick(a, b string) string {
	if a != "" {
		return a
	}
	return b
}

// Subjects returns the alphabetically sorted subjects of a course.
func (c *Catalog) Subjects(course string) ([]string, error) {
	subjects, ok := c.courses[course]
	if !ok {
		return nil, domain.NewInvalidCourseError(course)
	}
	names := make([]string, 0, len(subjects))
	for _, s := range subjects {
		names = append(names, s.name)
	}
	sort.Strings(names)
	return names, nil
}

// Topics returns the alphabetically sorted topics of a subject.
func (c *Catalog) Topics(course, subject string) ([]string, error) {
	entry, err := c.subject(course, subject)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(entry.topics))
	for _, t := range entry.topics {
		names = append(names, t.name)
	}
	sort.Strings(names)
	return names, nil
}

// Chapters returns the chapters of a topic in file order.
func (c *Catalog) Chapters(course, subject, topic string) ([]string, error) {
	entry, err := c.subject(course, subject)
	if err != nil {
		return nil, err
	}
	for _, t := range entry.topics {
		if t.name == topic {
			return t.chapters, nil
		}
	}
	return nil, domain.NewNotFoundError(fmt.Sprintf("Topic not found: %s", topic))
}

func (c *Catalog) subject(course, subject string) (*subjectEntry, error) {
	subjects, ok := c.courses[course]
	if !ok {
		return nil, domain.NewInvalidCourseError(course)
	}
	for i := range subjects {
		if subjects[i].name == subject {
			return &subjects[i], nil
		}
	}
	return nil, domain.NewNotFoundError(fmt.Sprintf("Subject not found: %s", subject))
}

// LoadExamples reads sample questions for few-shot prompting, keeping at most
// limit entries.
func LoadExamples(path string, limit int) ([]domain.ContentItem, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load examples from %s: %w", path, err)
	}
	var items []domain.ContentItem
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("failed to parse examples from %s: %w", path, err)
	}
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}
