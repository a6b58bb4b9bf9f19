// Package routinetext turns coach-generated routine text into a structured routine.
//
// Parsing runs in two stages. The text is first cut into day blocks at every
// "Day N" header line; anything before the first header is preamble and ignored.
// Each block is then scanned for exercise lines, first with the full
// "name: sets x reps, rest" pattern and, only when that finds nothing, with a
// name-only pattern. Blocks that yield no exercises are dropped.
package routinetext

import (
	"alcyxob/fitness-coach/internal/domain"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"
)

const DefaultRoutineName = "AI Generated Routine"

// Placeholders for exercises that only matched the name-only pattern.
// TODO: revisit with product whether these should be rejected instead.
const (
	PlaceholderSets = 1
	PlaceholderReps = "As prescribed"
	PlaceholderRest = "As needed"
)

var (
	routineNamePattern = regexp.MustCompile(`(?im)^[ \t#*]*routine(?:[ \t]+name)?[ \t*]*:[ \t*]*([^\n]*?)[ \t*]*$`)

	// Word tokens are limited to number words so lines like "Day count: 3" stay preamble.
	dayHeaderPattern = regexp.MustCompile(`(?im)^[ \t#*]*day[ \t]+([0-9]+|one|two|three|four|five|six|seven)\b([^\n]*)$`)

	// - Bench Press: 4 sets x 8-10 reps, rest 90 seconds (pause at the bottom)
	strictExercisePattern = regexp.MustCompile(`(?im)^[ \t]*(?:[-*•]|\d+[.)])[ \t]*\**([^:\n*]+?)\**[ \t]*:[ \t]*(\d+)[ \t]*(?:sets?)?[ \t]*(?:x|×|of)[ \t]*([^,\n]+?)(?:[ \t]*reps?)?[ \t]*,[ \t]*rest[ \t]*:?[ \t]*([^(\n]+?)[ \t]*(?:\(([^)\n]*)\))?[ \t]*$`)

	// - Treadmill: 20 minutes easy pace
	looseExercisePattern = regexp.MustCompile(`(?im)^[ \t]*(?:[-*•]|\d+[.)])[ \t]+\**([^:\n*]+?)\**[ \t]*(?::[ \t]*([^\n]*?))?[ \t]*$`)
)

// dayBlock is the raw text between one day header and the next.
type dayBlock struct {
	ordinal int    // 1-based position among all headers
	token   string // what followed "Day": "3", "one", ...
	title   string // rest of the header line
	body    string
}

// Parse converts raw text into a routine. It returns nil when nothing usable
// could be extracted or the parser failed in any way.
func Parse(raw string) (routine *domain.AIWorkoutRoutine) {
	defer func() {
		if r := recover(); r != nil {
			log.Errorf("routinetext: parse panicked: %v", r)
			routine = nil
		}
	}()

	if strings.TrimSpace(raw) == "" {
		return nil
	}
	raw = strings.ReplaceAll(raw, "\r\n", "\n")

	days := make([]domain.AIWorkoutDay, 0)
	for _, block := range segment(raw) {
		day, ok := parseBlock(block)
		if !ok {
			continue
		}
		days = append(days, day)
	}
	if len(days) == 0 {
		return nil
	}

	return &domain.AIWorkoutRoutine{
		Name:        routineName(raw),
		DaysPerWeek: len(days),
		Days:        days,
	}
}

func routineName(raw string) string {
	m := routineNamePattern.FindStringSubmatch(raw)
	if m == nil {
		return DefaultRoutineName
	}
	name := strings.TrimSpace(m[1])
	if name == "" {
		return DefaultRoutineName
	}
	return name
}

// segment splits raw into day blocks. Text before the first header is dropped.
func segment(raw string) []dayBlock {
	headers := dayHeaderPattern.FindAllStringSubmatchIndex(raw, -1)
	blocks := make([]dayBlock, 0, len(headers))
	for i, loc := range headers {
		end := len(raw)
		if i+1 < len(headers) {
			end = headers[i+1][0]
		}
		blocks = append(blocks, dayBlock{
			ordinal: i + 1,
			token:   raw[loc[2]:loc[3]],
			title:   raw[loc[4]:loc[5]],
			body:    raw[loc[1]:end],
		})
	}
	return blocks
}

var numberWords = map[string]int{
	"one": 1, "two": 2, "three": 3, "four": 4, "five": 5, "six": 6, "seven": 7,
}

// parseBlock reports false for blocks without any exercise.
func parseBlock(b dayBlock) (domain.AIWorkoutDay, bool) {
	exercises := strictExercises(b.body)
	if len(exercises) == 0 {
		exercises = looseExercises(b.body)
	}
	if len(exercises) == 0 {
		return domain.AIWorkoutDay{}, false
	}

	number, err := strconv.Atoi(b.token)
	if err != nil {
		number = numberWords[strings.ToLower(b.token)]
	}
	if number <= 0 {
		number = b.ordinal
	}

	name := fmt.Sprintf("Day %d", number)
	if focus := strings.Trim(b.title, " \t*:-–()"); focus != "" {
		name = fmt.Sprintf("%s: %s", name, focus)
	}

	return domain.AIWorkoutDay{
		DayNumber: number,
		Name:      name,
		Exercises: exercises,
	}, true
}

func strictExercises(body string) []domain.AIExercise {
	var out []domain.AIExercise
	for _, m := range strictExercisePattern.FindAllStringSubmatch(body, -1) {
		sets, err := strconv.Atoi(m[2])
		if err != nil {
			continue
		}
		out = append(out, domain.AIExercise{
			Name:  strings.TrimSpace(m[1]),
			Sets:  sets,
			Reps:  strings.TrimSpace(m[3]),
			Rest:  strings.TrimSpace(m[4]),
			Notes: strings.TrimSpace(m[5]),
		})
	}
	return out
}

func looseExercises(body string) []domain.AIExercise {
	var out []domain.AIExercise
	for _, m := range looseExercisePattern.FindAllStringSubmatch(body, -1) {
		name := strings.TrimSpace(m[1])
		if name == "" {
			continue
		}
		out = append(out, domain.AIExercise{
			Name:  name,
			Sets:  PlaceholderSets,
			Reps:  PlaceholderReps,
			Rest:  PlaceholderRest,
			Notes: strings.TrimSpace(m[2]),
		})
	}
	return out
}
