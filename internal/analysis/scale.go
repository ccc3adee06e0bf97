package analysis

// Scale identification constants. The fallback values are the documented
// lowest-confidence result for empty or sparse pitch series.
const (
	// ScaleFallbackName is reported when no scale can be inferred.
	ScaleFallbackName = "Unknown"
	// ScaleFallbackConfidence is the confidence floor reported alongside it.
	ScaleFallbackConfidence = 0.0

	// Fewer accepted pitch samples than this is too sparse to fit a scale.
	scaleMinSamples = 3

	// Share of the score taken from the observed weight of the candidate
	// tonic. Every scale ties with its relative modes on pure set overlap;
	// this term favours the root the melody actually emphasises.
	scaleTonicWeight = 0.1
)

// ScaleMatch is the best-fitting scale for a pitch series.
type ScaleMatch struct {
	ScaleName  string
	TonicName  string  // pitch-class name of the winning tonic; "" for fallback
	Confidence float64 // normalised fit score in [0,1]
}

// scaleTemplate defines an allowed pitch-class set relative to a candidate
// tonic. Declaration order doubles as tie-break precedence: for a perfect
// diatonic distribution the relative modes fit equally well, and the earlier
// template wins.
type scaleTemplate struct {
	name      string
	intervals []int
}

var scaleTemplates = []scaleTemplate{
	{"Major (Western)", []int{0, 2, 4, 5, 7, 9, 11}},
	{"Natural Minor (Western)", []int{0, 2, 3, 5, 7, 8, 10}},
	{"Pentatonic Major", []int{0, 2, 4, 7, 9}},
	{"Pentatonic Minor", []int{0, 3, 5, 7, 10}},
	{"Blues", []int{0, 3, 5, 6, 7, 10}},
	{"Dorian (Modal)", []int{0, 2, 3, 5, 7, 9, 10}},
	{"Mixolydian (Modal)", []int{0, 2, 4, 5, 7, 9, 10}},
	{"Phrygian (Modal)", []int{0, 1, 3, 5, 7, 8, 10}},
	{"Hijaz (Middle Eastern)", []int{0, 1, 4, 5, 7, 8, 10}},
	{"Hirajoshi (Japanese)", []int{0, 2, 3, 7, 8}},
	{"Raga Bhairav (Indian)", []int{0, 1, 4, 5, 7, 8, 11}},
}

// IdentifyScale fits the pitch-class distribution of the series against the
// template library. For every (template, tonic) pair the score is the
// fraction of observed weight inside the allowed set, penalised for template
// degrees the series never touches; the best pair wins. Empty or sparse
// series yield the documented fallback, never an error.
func IdentifyScale(series PitchSeries) ScaleMatch {
	if len(series) < scaleMinSamples {
		return ScaleMatch{ScaleName: ScaleFallbackName, Confidence: ScaleFallbackConfidence}
	}

	histogram := pitchClassHistogram(series)
	total := 0.0
	for _, w := range histogram {
		total += w
	}
	if total == 0 {
		return ScaleMatch{ScaleName: ScaleFallbackName, Confidence: ScaleFallbackConfidence}
	}

	best := ScaleMatch{ScaleName: ScaleFallbackName, Confidence: ScaleFallbackConfidence}
	bestScore := -1.0
	for _, tpl := range scaleTemplates {
		for tonic := 0; tonic < 12; tonic++ {
			score := scoreScale(histogram, total, tpl.intervals, tonic)
			if score > bestScore {
				bestScore = score
				best = ScaleMatch{
					ScaleName:  tpl.name,
					TonicName:  noteNames[tonic],
					Confidence: clamp01(score),
				}
			}
		}
	}
	return best
}

// pitchClassHistogram builds the 12-bin weighted histogram of the series,
// each accepted sample contributing unit weight to its pitch class.
func pitchClassHistogram(series PitchSeries) [12]float64 {
	var histogram [12]float64
	for _, p := range series {
		pc := FrequencyToMIDINote(p.FrequencyHz) % 12
		if pc < 0 {
			pc += 12
		}
		histogram[pc]++
	}
	return histogram
}

// scoreScale scores one (template, tonic) pair. The base score is the
// fraction of observed weight inside the allowed set, multiplied by the
// fraction of template degrees actually sounded; the second factor penalises
// broad templates that merely contain a narrower melody, since otherwise
// every pentatonic tune would score 1.0 against its enclosing diatonic
// scale. A small tonic-emphasis term is blended in on top.
func scoreScale(histogram [12]float64, total float64, intervals []int, tonic int) float64 {
	inSet := 0.0
	sounded := 0
	for _, iv := range intervals {
		w := histogram[(tonic+iv)%12]
		inSet += w
		if w > 0 {
			sounded++
		}
	}
	weightFraction := inSet / total
	coverage := float64(sounded) / float64(len(intervals))
	tonicShare := histogram[tonic] / total
	return (1-scaleTonicWeight)*weightFraction*coverage + scaleTonicWeight*tonicShare
}
