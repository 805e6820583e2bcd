package service

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"quiz-generator/internal/domain"
)

const quizPromptTemplate = `Generate an educational quiz based on the provided content. Respond ONLY with valid JSON, no other text.

CONTENT: %s

PARAMETERS:
- Number of questions: %d
- Difficulty distribution: %s
- Question types: %s
- Language: %s

INSTRUCTIONS:
1. Create questions that test understanding, not just memorization
2. Ensure questions are clear, unambiguous, and well-structured
3. For multiple choice questions, provide 4 plausible options with only one correct answer
4. Include detailed explanations that help learners understand the concept
5. Produce exactly the requested number of questions per difficulty tier
6. Cover different aspects and topics from the provided content
7. Make sure all questions are in the specified language

Required JSON format:
{
  "questions": [
    {
      "question": "Question text?",
      "type": "multiple_choice",
      "correct_answer": "Correct answer text",
      "options": ["Option A", "Option B", "Option C", "Option D"],
      "explanation": "Detailed explanation of why this answer is correct and why others are incorrect",
      "difficulty": "easy",
      "topic": "Specific topic or subject area",
      "concepts_tested": ["Concept1", "Concept2"]
    }
  ]
}

Allowed values for "type": %s. Allowed values for "difficulty": "easy", "medium", "hard".
Omit the "options" field entirely for boolean and open questions; for boolean questions "correct_answer" must be "true" or "false".

IMPORTANT: Respond ONLY with the JSON structure above, nothing else. Ensure all text is in the requested language.`

const retryInstructionTemplate = `

PREVIOUS ATTEMPT REJECTED: %s
Follow the required JSON format exactly. Produce exactly the requested number of questions per difficulty tier, use only the allowed type and difficulty values, and respond with nothing but the JSON object.`

// DifficultyCounts distributes numQuestions across the requested tiers using
// largest-remainder rounding, so the per-tier counts always sum exactly to
// numQuestions. Ties are broken by the canonical tier order, which keeps the
// allocation deterministic and unit-testable independent of the AI call.
func DifficultyCounts(numQuestions int, distribution map[domain.Difficulty]float64) map[domain.Difficulty]int {
	counts := make(map[domain.Difficulty]int, len(distribution))

	type remainder struct {
		tier  domain.Difficulty
		order int
		frac  float64
	}
	remainders := make([]remainder, 0, len(distribution))

	allocated := 0
	for i, tier := range domain.Difficulties {
		fraction, ok := distribution[tier]
		if !ok {
			continue
		}
		exact := fraction * float64(numQuestions)
		base := int(math.Floor(exact))
		counts[tier] = base
		allocated += base
		remainders = append(remainders, remainder{tier: tier, order: i, frac: exact - float64(base)})
	}

	sort.SliceStable(remainders, func(a, b int) bool {
		if remainders[a].frac != remainders[b].frac {
			return remainders[a].frac > remainders[b].frac
		}
		return remainders[a].order < remainders[b].order
	})

	for i := 0; i < numQuestions-allocated && len(remainders) > 0; i++ {
		counts[remainders[i%len(remainders)].tier]++
	}

	return counts
}

// BuildPrompt deterministically turns a validated request into the generation
// instruction, including the machine-parseable output schema directive the
// parser relies on. Pure: no network or storage access.
func BuildPrompt(req *domain.GenerationRequest) string {
	counts := DifficultyCounts(req.Options.NumQuestions, req.Options.DifficultyDistribution)

	tierParts := make([]string, 0, len(counts))
	for _, tier := range domain.Difficulties {
		if n, ok := counts[tier]; ok && n > 0 {
			tierParts = append(tierParts, fmt.Sprintf("%s: exactly %d questions", tier, n))
		}
	}

	typeNames := make([]string, 0, len(req.Options.QuestionTypes))
	quotedTypes := make([]string, 0, len(req.Options.QuestionTypes))
	for _, t := range req.Options.QuestionTypes {
		typeNames = append(typeNames, string(t))
		quotedTypes = append(quotedTypes, fmt.Sprintf("%q", string(t)))
	}

	return fmt.Sprintf(quizPromptTemplate,
		req.Content,
		req.Options.NumQuestions,
		strings.Join(tierParts, ", "),
		strings.Join(typeNames, ", "),
		req.Options.Language,
		strings.Join(quotedTypes, ", "),
	)
}

// BuildRetryPrompt reinforces the base prompt with a corrective instruction
// after a parse or constraint failure. The attempt budget is shared with
// plain AI-call failures either way.
func BuildRetryPrompt(basePrompt, reason string) string {
	return basePrompt + fmt.Sprintf(retryInstructionTemplate, reason)
}
