package domain

// Default generation options, matching what callers get when the request
// omits them.
const (
	DefaultNumQuestions = 10
	DefaultLanguage     = "it"
)

// DefaultDifficultyDistribution is the fractional split applied when the
// request does not specify one.
func DefaultDifficultyDistribution() map[Difficulty]float64 {
	return map[Difficulty]float64{
		DifficultyEasy:   0.3,
		DifficultyMedium: 0.5,
		DifficultyHard:   0.2,
	}
}

// DefaultQuestionTypes is the type set applied when the request does not
// specify one.
func DefaultQuestionTypes() []QuestionType {
	return []QuestionType{QuestionTypeMultipleChoice, QuestionTypeBoolean}
}

// QuizOptions constrains a single generation run.
type QuizOptions struct {
	NumQuestions           int
	DifficultyDistribution map[Difficulty]float64
	QuestionTypes          []QuestionType
	Language               string
}

// ApplyDefaults fills in any zero-valued option.
func (o *QuizOptions) ApplyDefaults() {
	if o.NumQuestions == 0 {
		o.NumQuestions = DefaultNumQuestions
	}
	if len(o.DifficultyDistribution) == 0 {
		o.DifficultyDistribution = DefaultDifficultyDistribution()
	}
	if len(o.QuestionTypes) == 0 {
		o.QuestionTypes = DefaultQuestionTypes()
	}
	if o.Language == "" {
		o.Language = DefaultLanguage
	}
}

// AllowsType reports whether the requested type set contains t.
func (o *QuizOptions) AllowsType(t QuestionType) bool {
	for _, allowed := range o.QuestionTypes {
		if allowed == t {
			return true
		}
	}
	return false
}

// GenerationRequest is the transient input to the generation pipeline. It is
// never persisted; only the assembled Quiz is.
type GenerationRequest struct {
	Content  string
	BookID   string
	Metadata map[string]any
	Options  QuizOptions
}
