package recommender

// Dimension is one axis a candidate is scored on
type Dimension string

const (
	Quality Dimension = "quality"
	Speed   Dimension = "speed"
	Context Dimension = "context"
	Cost    Dimension = "cost"
	License Dimension = "license"
)

// Dimensions lists every scoring axis in presentation order
var Dimensions = []Dimension{Quality, Speed, Context, Cost, License}

// licenseWeight is applied regardless of use case or priority
const licenseWeight = 10.0

type Weights map[Dimension]float64

type UseCase struct {
	Key         string   `json:"key" yaml:"key"`
	Name        string   `json:"name" yaml:"name"`
	Description string   `json:"description" yaml:"description"`
	Weights     Weights  `json:"weights" yaml:"weights"`
	MinContext  int      `json:"minContextLength" yaml:"min_context"`
	Benchmarks  []string `json:"benchmarks,omitempty" yaml:"benchmarks,omitempty"`
}

type Priority struct {
	Key         string  `json:"key" yaml:"key"`
	Name        string  `json:"name" yaml:"name"`
	Description string  `json:"description" yaml:"description"`
	Weights     Weights `json:"weights" yaml:"weights"`
}

const (
	fallbackUseCase  = "research"
	fallbackPriority = "balanced"
)

var useCases = []UseCase{
	{
		Key:         "chat",
		Name:        "Conversational AI / Chatbot",
		Description: "Customer support, virtual assistants, general chat",
		Weights:     Weights{Quality: 9, Speed: 8, Context: 7, Cost: 6},
		MinContext:  4096,
		Benchmarks:  []string{"mmlu", "hellaswag"},
	},
	{
		Key:         "rag",
		Name:        "RAG / Document Analysis",
		Description: "Question answering over documents, knowledge bases",
		Weights:     Weights{Quality: 8, Speed: 6, Context: 10, Cost: 7},
		MinContext:  16384,
		Benchmarks:  []string{"mmlu"},
	},
	{
		Key:         "code",
		Name:        "Code Generation / Assistant",
		Description: "Code completion, debugging, code explanation",
		Weights:     Weights{Quality: 10, Speed: 7, Context: 8, Cost: 6},
		MinContext:  8192,
		Benchmarks:  []string{"humaneval", "mbpp"},
	},
	{
		Key:         "analysis",
		Name:        "Text Analysis / Classification",
		Description: "Sentiment analysis, summarization, extraction",
		Weights:     Weights{Quality: 8, Speed: 9, Context: 6, Cost: 8},
		MinContext:  4096,
		Benchmarks:  []string{"mmlu"},
	},
	{
		Key:         "creative",
		Name:        "Creative Writing",
		Description: "Story writing, content generation, brainstorming",
		Weights:     Weights{Quality: 10, Speed: 5, Context: 9, Cost: 6},
		MinContext:  8192,
	},
	{
		Key:         "research",
		Name:        "Research & Experimentation",
		Description: "Testing, research, learning about LLMs",
		Weights:     Weights{Quality: 7, Speed: 5, Context: 6, Cost: 5},
		MinContext:  2048,
	},
}

var priorities = []Priority{
	{
		Key:         "speed",
		Name:        "Speed First",
		Description: "Low latency, high throughput",
		Weights:     Weights{Speed: 10, Cost: 8, Quality: 6, Context: 5},
	},
	{
		Key:         "quality",
		Name:        "Quality First",
		Description: "Best accuracy and capability",
		Weights:     Weights{Quality: 10, Context: 8, Speed: 5, Cost: 4},
	},
	{
		Key:         "balanced",
		Name:        "Balanced",
		Description: "Good mix of speed and quality",
		Weights:     Weights{Quality: 8, Speed: 8, Cost: 7, Context: 7},
	},
	{
		Key:         "cost",
		Name:        "Cost Efficient",
		Description: "Minimize hardware requirements",
		Weights:     Weights{Cost: 10, Speed: 7, Quality: 6, Context: 5},
	},
}

// UseCases returns the use case profiles in display order
func UseCases() []UseCase {
	return append([]UseCase(nil), useCases...)
}

// Priorities returns the priority profiles in display order
func Priorities() []Priority {
	return append([]Priority(nil), priorities...)
}

// LookupUseCase returns the named profile, or the research profile when the key is unknown
func LookupUseCase(key string) UseCase {
	var fallback UseCase
	for _, uc := range useCases {
		if uc.Key == key {
			return uc
		}
		if uc.Key == fallbackUseCase {
			fallback = uc
		}
	}
	return fallback
}

// LookupPriority returns the named profile, or the balanced profile when the key is unknown
func LookupPriority(key string) Priority {
	var fallback Priority
	for _, p := range priorities {
		if p.Key == key {
			return p
		}
		if p.Key == fallbackPriority {
			fallback = p
		}
	}
	return fallback
}

// blend averages use case and priority weights per dimension
func blend(uc UseCase, p Priority) Weights {
	w := Weights{License: licenseWeight}
	for _, d := range []Dimension{Quality, Speed, Context, Cost} {
		w[d] = (uc.Weights[d] + p.Weights[d]) / 2
	}
	return w
}
