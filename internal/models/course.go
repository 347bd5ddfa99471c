package models

// ActivityType represents how a course is delivered and what completes it
type ActivityType string

const (
	ActivityTypeFullCourse     ActivityType = "full_course"
	ActivityTypeTopic          ActivityType = "topic"
	ActivityTypeAttendanceOnly ActivityType = "attendance_only"
)

// Valid reports whether the activity type is one of the known values
func (a ActivityType) Valid() bool {
	switch a {
	case ActivityTypeFullCourse, ActivityTypeTopic, ActivityTypeAttendanceOnly:
		return true
	}
	return false
}

// HasLessons reports whether the activity is completed through lessons
func (a ActivityType) HasLessons() bool {
	return a == ActivityTypeFullCourse
}

// Course represents a course in the learning catalogue
type Course struct {
	ID                 int          `json:"id"`
	Title              string       `json:"title"`
	ActivityType       ActivityType `json:"activityType"`
	RequiresEvaluation bool         `json:"requiresEvaluation"`
}

// Module represents an ordered group of lessons inside a course
type Module struct {
	ID       int    `json:"id"`
	CourseID int    `json:"courseId"`
	Title    string `json:"title"`
	Order    int    `json:"order"`
}

// Lesson represents a lesson inside a module
type Lesson struct {
	ID       int    `json:"id"`
	ModuleID int    `json:"moduleId"`
	CourseID int    `json:"courseId"`
	Title    string `json:"title"`
	Order    int    `json:"order"`
}

// ModuleLessons is a module together with its ordered lessons
type ModuleLessons struct {
	Module  Module   `json:"module"`
	Lessons []Lesson `json:"lessons"`
}

// CourseHierarchy is the read-only module/lesson tree of a course
type CourseHierarchy struct {
	CourseID int             `json:"courseId"`
	Modules  []ModuleLessons `json:"modules"`
}

// LessonCount returns the number of lessons across all modules
func (h *CourseHierarchy) LessonCount() int {
	if h == nil {
		return 0
	}
	total := 0
	for _, m := range h.Modules {
		total += len(m.Lessons)
	}
	return total
}

// Company represents a client company whose employees are enrolled in courses
type Company struct {
	ID           int    `json:"id"`
	Name         string `json:"name"`
	ContactEmail string `json:"contactEmail"`
}
