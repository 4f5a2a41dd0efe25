package store

import (
	"sort"
	"strconv"
	"strings"

	"github.com/edubridge/edubridge-api/internal/models"
)

// Location points at a member inside a snapshot: the owning class name and
// the position within that class's member list.
type Location struct {
	Class string
	Pos   int
}

// Index is a secondary id->location lookup rebuilt alongside each snapshot,
// so cross-class scans stay O(1) instead of O(classes x members). Class names
// are walked in sorted order, which makes first-match lookups deterministic
// where ids, roll numbers or login codes are duplicated.
type Index struct {
	classes  []string
	students map[string]Location
	teachers map[string][]Location
}

// BuildIndex walks the snapshot and indexes every student and teacher.
// A student id maps to its first occurrence; a teacher id maps to every
// class it appears in, first occurrence first.
func BuildIndex(data models.SchoolData) *Index {
	idx := &Index{
		classes:  ClassNames(data),
		students: make(map[string]Location),
		teachers: make(map[string][]Location),
	}

	for _, className := range idx.classes {
		class := data[className]
		for pos, s := range class.Students {
			if _, ok := idx.students[s.ID]; !ok {
				idx.students[s.ID] = Location{Class: className, Pos: pos}
			}
		}
		for pos, t := range class.Teachers {
			idx.teachers[t.ID] = append(idx.teachers[t.ID], Location{Class: className, Pos: pos})
		}
	}

	return idx
}

// Student returns the location of the student with the given id.
func (i *Index) Student(id string) (Location, bool) {
	loc, ok := i.students[id]
	return loc, ok
}

// Teacher returns the canonical (first) location of the teacher with the
// given id.
func (i *Index) Teacher(id string) (Location, bool) {
	locs := i.teachers[id]
	if len(locs) == 0 {
		return Location{}, false
	}
	return locs[0], true
}

// TeacherLocations returns every class position the teacher appears in.
func (i *Index) TeacherLocations(id string) []Location {
	return i.teachers[id]
}

// Classes returns the sorted class names of the indexed snapshot.
func (i *Index) Classes() []string {
	return i.classes
}

// ClassNames returns the snapshot's class names in sorted order. Map
// iteration order would otherwise randomize which record wins a
// first-match scan.
func ClassNames(data models.SchoolData) []string {
	names := make([]string, 0, len(data))
	for name := range data {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// FindTeacherByCode scans all classes for a teacher with the given login
// code (exact, case-sensitive; the input is trimmed). Returns the first
// match and the class it was found in.
func FindTeacherByCode(data models.SchoolData, code string) (models.Teacher, string, bool) {
	code = strings.TrimSpace(code)
	for _, className := range ClassNames(data) {
		for _, t := range data[className].Teachers {
			if t.LoginCode == code {
				return t, className, true
			}
		}
	}
	return models.Teacher{}, "", false
}

// FindStudentByRoll scans the flattened student list for the first student
// whose roll number matches the trimmed input.
func FindStudentByRoll(data models.SchoolData, code string) (models.Student, string, bool) {
	code = strings.TrimSpace(code)
	for _, className := range ClassNames(data) {
		for _, s := range data[className].Students {
			if strconv.Itoa(s.RollNumber) == code {
				return s, className, true
			}
		}
	}
	return models.Student{}, "", false
}
