package models

type LearningStyle string

const (
	LearningStyleVisual      LearningStyle = "visual"
	LearningStyleAuditory    LearningStyle = "auditory"
	LearningStyleKinesthetic LearningStyle = "kinesthetic"
)

type DifficultyLevel string

const (
	DifficultyBeginner     DifficultyLevel = "Beginner"
	DifficultyIntermediate DifficultyLevel = "Intermediate"
	DifficultyAdvanced     DifficultyLevel = "Advanced"
)

type ModuleType string

const (
	ModuleVideo               ModuleType = "video"
	ModuleAudio               ModuleType = "audio"
	ModuleInteractiveExercise ModuleType = "interactive_exercise"
	ModuleReadingMaterial     ModuleType = "reading_material"
	ModuleARInteractiveLab    ModuleType = "ar_interactive_lab"
)

type CourseModule struct {
	ID                string     `json:"id"`
	Type              ModuleType `json:"type" validate:"required,oneof=video audio interactive_exercise reading_material ar_interactive_lab"`
	Title             string     `json:"title"`
	URL               string     `json:"url,omitempty" validate:"omitempty,url"`
	Description       string     `json:"description,omitempty"`
	Content           string     `json:"content,omitempty"`
	EstimatedDuration string     `json:"estimatedDuration,omitempty"`
}

type Course struct {
	ID            string          `json:"id"`
	Name          string          `json:"name" validate:"notblank"`
	Description   string          `json:"description"`
	LearningStyle LearningStyle   `json:"learningStyle" validate:"required,oneof=visual auditory kinesthetic"`
	Category      string          `json:"category" validate:"notblank"`
	Difficulty    DifficultyLevel `json:"difficulty" validate:"required,oneof=Beginner Intermediate Advanced"`
	Modules       []*CourseModule `json:"modules" validate:"dive"`
}

// CourseUpdate is a partial update to a Course. Nil fields are left unchanged.
type CourseUpdate struct {
	Name          *string          `json:"name,omitempty" validate:"omitempty,notblank"`
	Description   *string          `json:"description,omitempty"`
	LearningStyle *LearningStyle   `json:"learningStyle,omitempty" validate:"omitempty,oneof=visual auditory kinesthetic"`
	Category      *string          `json:"category,omitempty" validate:"omitempty,notblank"`
	Difficulty    *DifficultyLevel `json:"difficulty,omitempty" validate:"omitempty,oneof=Beginner Intermediate Advanced"`
}

// ModuleUpdate is a partial update to a CourseModule. Nil fields are left unchanged.
type ModuleUpdate struct {
	Type              *ModuleType `json:"type,omitempty" validate:"omitempty,oneof=video audio interactive_exercise reading_material ar_interactive_lab"`
	Title             *string     `json:"title,omitempty"`
	URL               *string     `json:"url,omitempty" validate:"omitempty,url"`
	Description       *string     `json:"description,omitempty"`
	Content           *string     `json:"content,omitempty"`
	EstimatedDuration *string     `json:"estimatedDuration,omitempty"`
}
