package transcriber

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

const lbToKg = 0.45359237

// maxPlausibleSets decides NxM ambiguity: "3x12" reads as 3 sets of
// 12 reps, "80 x 5" as 80 kilos for 5 reps. Nobody logs 11 sets as
// NxM shorthand, and nobody benches 10 kilos with a bare number.
const maxPlausibleSets = 10

type ParsedSet struct {
	WeightKg float64 `json:"weightKg"`
	Reps     int     `json:"reps"`
}

type ParsedExercise struct {
	Name string      `json:"name"`
	Sets []ParsedSet `json:"sets"`
}

type ParsedWorkout struct {
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Exercises   []ParsedExercise `json:"exercises"`
}

var (
	bulletPrefixRe = regexp.MustCompile(`^(?:[-*•>]+|\d+[.)])\s*`)

	// 3x8 @ 60kg, 5x5 @80
	setsRepsAtWeightRe = regexp.MustCompile(`(?i)^(\d+)\s*x\s*(\d+)\s*@\s*(\d+(?:[.,]\d+)?)\s*(kg|kgs|lb|lbs)?\.?$`)
	// 80kg x 5, 80 x 5, 185 lb x 3, 3x12
	weightOrSetsRepsRe = regexp.MustCompile(`(?i)^(\d+(?:[.,]\d+)?)\s*(kg|kgs|lb|lbs)?\s*x\s*(\d+)\.?$`)
	// x12, 12 reps
	repsOnlyRe = regexp.MustCompile(`(?i)^(?:x\s*(\d+)|(\d+)\s*reps?)\.?$`)
)

// Parse runs the line-oriented workout text parser: a single pass over
// the lines, no backtracking. Lines that look like set notation attach
// to the exercise opened by the closest preceding plain line; leading
// plain lines before any sets become the title and description.
func Parse(text string) *ParsedWorkout {
	parsed := &ParsedWorkout{}

	var current *ParsedExercise
	for _, rawLine := range strings.Split(text, "\n") {
		line := strings.TrimSpace(rawLine)
		line = bulletPrefixRe.ReplaceAllString(line, "")
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if sets, ok := parseSetToken(line); ok {
			if current == nil {
				// set notation before any exercise name: the scan
				// has no usable header for it, open an unnamed one
				parsed.Exercises = append(parsed.Exercises, ParsedExercise{})
				current = &parsed.Exercises[len(parsed.Exercises)-1]
			}
			current.Sets = append(current.Sets, sets...)
			continue
		}

		parsed.Exercises = append(parsed.Exercises, ParsedExercise{Name: line})
		current = &parsed.Exercises[len(parsed.Exercises)-1]
	}

	parsed.splitHeader()
	return parsed
}

// splitHeader pulls the leading run of set-less exercises out of the
// list: the first one is the workout title, the rest its description.
func (p *ParsedWorkout) splitHeader() {
	var headerLines []string
	i := 0
	for ; i < len(p.Exercises); i++ {
		if len(p.Exercises[i].Sets) > 0 {
			break
		}
		headerLines = append(headerLines, p.Exercises[i].Name)
	}
	if i == len(p.Exercises) {
		// nothing in the scan had sets, keep all lines as exercises
		return
	}
	if len(headerLines) == 0 {
		return
	}

	p.Title = headerLines[0]
	p.Description = strings.Join(headerLines[1:], "\n")
	p.Exercises = p.Exercises[i:]
}

func parseSetToken(line string) ([]ParsedSet, bool) {
	if m := setsRepsAtWeightRe.FindStringSubmatch(line); m != nil {
		sets, _ := strconv.Atoi(m[1])
		if sets > maxPlausibleSets {
			// OCR noise, not a real sets count; keep the line as text
			// instead of materializing bogus sets
			return nil, false
		}
		reps, _ := strconv.Atoi(m[2])
		weight := parseWeight(m[3], m[4])
		return repeatSets(sets, reps, weight), true
	}

	if m := repsOnlyRe.FindStringSubmatch(line); m != nil {
		repsStr := m[1]
		if repsStr == "" {
			repsStr = m[2]
		}
		reps, _ := strconv.Atoi(repsStr)
		return []ParsedSet{{Reps: reps}}, true
	}

	if m := weightOrSetsRepsRe.FindStringSubmatch(line); m != nil {
		first := m[1]
		unit := m[2]
		second, _ := strconv.Atoi(m[3])

		if unit == "" && !strings.ContainsAny(first, ".,") {
			if firstInt, err := strconv.Atoi(first); err == nil && firstInt <= maxPlausibleSets {
				// NxM shorthand: N sets of M reps, no weight noted
				return repeatSets(firstInt, second, 0), true
			}
		}

		weight := parseWeight(first, unit)
		return []ParsedSet{{WeightKg: weight, Reps: second}}, true
	}

	return nil, false
}

func parseWeight(number, unit string) float64 {
	weight, err := strconv.ParseFloat(strings.ReplaceAll(number, ",", "."), 64)
	if err != nil {
		return 0
	}
	switch strings.ToLower(unit) {
	case "lb", "lbs":
		weight *= lbToKg
		// round to the nearest quarter kilo, plates go no finer
		weight = math.Round(weight/0.25) * 0.25
	}
	return weight
}

func repeatSets(count, reps int, weight float64) []ParsedSet {
	sets := make([]ParsedSet, 0, count)
	for i := 0; i < count; i++ {
		sets = append(sets, ParsedSet{WeightKg: weight, Reps: reps})
	}
	return sets
}
