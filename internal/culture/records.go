// Package culture holds the static table of musical-tradition records and
// the heuristic similarity scorer that ranks them against extracted audio
// features. Scores are explainable similarity points, never identification
// claims.
package culture

// RhythmTag is an enumerated rhythm descriptor. Tags are fixed at
// data-authoring time so scoring never depends on fragile substring
// matching.
type RhythmTag string

const (
	RhythmSteady       RhythmTag = "steady"
	RhythmPolyrhythmic RhythmTag = "polyrhythmic"
	RhythmSyncopated   RhythmTag = "syncopated"
	RhythmFree         RhythmTag = "free"
)

// ScaleTag is an enumerated scale-family descriptor.
type ScaleTag string

const (
	ScalePentatonic ScaleTag = "pentatonic"
	ScaleMajor      ScaleTag = "major"
	ScaleMinor      ScaleTag = "minor"
	ScaleModal      ScaleTag = "modal"
	ScaleBlues      ScaleTag = "blues"
	ScaleMicrotonal ScaleTag = "microtonal"
)

// TimbreTag is an enumerated timbre descriptor used by the optional
// spectral bonuses.
type TimbreTag string

const (
	TimbreBright     TimbreTag = "bright"
	TimbreMellow     TimbreTag = "mellow"
	TimbrePercussive TimbreTag = "percussive"
)

// TempoRange is a tradition's typical tempo span in BPM.
type TempoRange struct {
	MinBPM float64
	MaxBPM float64
}

// Midpoint returns the centre of the range, the reference for tempo
// proximity scoring.
func (r TempoRange) Midpoint() float64 {
	return (r.MinBPM + r.MaxBPM) / 2.0
}

// Record describes one musical tradition. The table is read-only
// configuration data; insertion order doubles as the tie-break order for
// equal similarity scores.
type Record struct {
	ID          string
	Name        string
	Region      string
	Tempo       TempoRange
	RhythmTags  []RhythmTag
	ScaleTags   []ScaleTag
	TimbreTags  []TimbreTag
	Instruments []string // informational only; never scored
}

// DefaultTable returns the built-in tradition table. Tempo ranges and tags
// are broad characterisations for heuristic matching, not ethnographic
// ground truth.
func DefaultTable() []Record {
	return []Record{
		{
			ID: "west-african", Name: "West African", Region: "West Africa",
			Tempo:       TempoRange{90, 140},
			RhythmTags:  []RhythmTag{RhythmPolyrhythmic, RhythmSyncopated},
			ScaleTags:   []ScaleTag{ScalePentatonic, ScaleModal},
			TimbreTags:  []TimbreTag{TimbrePercussive, TimbreBright},
			Instruments: []string{"djembe", "talking drum", "balafon", "kora"},
		},
		{
			ID: "indian-classical", Name: "Indian Classical", Region: "South Asia",
			Tempo:       TempoRange{60, 120},
			RhythmTags:  []RhythmTag{RhythmPolyrhythmic, RhythmFree},
			ScaleTags:   []ScaleTag{ScaleModal, ScaleMicrotonal},
			TimbreTags:  []TimbreTag{TimbreBright},
			Instruments: []string{"sitar", "tabla", "tanpura", "bansuri"},
		},
		{
			ID: "middle-eastern", Name: "Middle Eastern", Region: "Middle East / North Africa",
			Tempo:       TempoRange{70, 130},
			RhythmTags:  []RhythmTag{RhythmSteady, RhythmSyncopated},
			ScaleTags:   []ScaleTag{ScaleModal, ScaleMicrotonal},
			TimbreTags:  []TimbreTag{TimbreMellow},
			Instruments: []string{"oud", "ney", "qanun", "darbuka"},
		},
		{
			ID: "chinese-traditional", Name: "Chinese Traditional", Region: "East Asia",
			Tempo:       TempoRange{60, 110},
			RhythmTags:  []RhythmTag{RhythmSteady, RhythmFree},
			ScaleTags:   []ScaleTag{ScalePentatonic},
			TimbreTags:  []TimbreTag{TimbreBright},
			Instruments: []string{"guzheng", "erhu", "dizi", "pipa"},
		},
		{
			ID: "japanese-traditional", Name: "Japanese Traditional", Region: "East Asia",
			Tempo:       TempoRange{50, 100},
			RhythmTags:  []RhythmTag{RhythmFree, RhythmSteady},
			ScaleTags:   []ScaleTag{ScalePentatonic},
			TimbreTags:  []TimbreTag{TimbreMellow},
			Instruments: []string{"koto", "shakuhachi", "shamisen", "taiko"},
		},
		{
			ID: "celtic", Name: "Celtic", Region: "Western Europe",
			Tempo:       TempoRange{100, 160},
			RhythmTags:  []RhythmTag{RhythmSteady},
			ScaleTags:   []ScaleTag{ScaleModal, ScaleMajor},
			TimbreTags:  []TimbreTag{TimbreBright},
			Instruments: []string{"fiddle", "tin whistle", "uilleann pipes", "bodhran"},
		},
		{
			ID: "latin-american", Name: "Latin American", Region: "Central & South America",
			Tempo:       TempoRange{95, 180},
			RhythmTags:  []RhythmTag{RhythmSyncopated, RhythmPolyrhythmic, RhythmSteady},
			ScaleTags:   []ScaleTag{ScaleMajor, ScaleMinor},
			TimbreTags:  []TimbreTag{TimbrePercussive},
			Instruments: []string{"congas", "claves", "guitar", "marimba"},
		},
		{
			ID: "balkan", Name: "Balkan", Region: "Southeastern Europe",
			Tempo:       TempoRange{110, 180},
			RhythmTags:  []RhythmTag{RhythmSyncopated, RhythmPolyrhythmic},
			ScaleTags:   []ScaleTag{ScaleModal, ScaleMinor},
			TimbreTags:  []TimbreTag{TimbreBright},
			Instruments: []string{"accordion", "gaida", "tapan", "tamburica"},
		},
		{
			ID: "western-classical", Name: "Western Classical", Region: "Europe",
			Tempo:       TempoRange{60, 140},
			RhythmTags:  []RhythmTag{RhythmSteady},
			ScaleTags:   []ScaleTag{ScaleMajor, ScaleMinor},
			TimbreTags:  []TimbreTag{TimbreMellow},
			Instruments: []string{"violin", "piano", "cello", "flute"},
		},
		{
			ID: "blues-roots", Name: "Blues & Roots", Region: "North America",
			Tempo:       TempoRange{70, 130},
			RhythmTags:  []RhythmTag{RhythmSteady, RhythmSyncopated},
			ScaleTags:   []ScaleTag{ScaleBlues, ScaleMinor, ScalePentatonic},
			TimbreTags:  []TimbreTag{TimbreMellow},
			Instruments: []string{"guitar", "harmonica", "double bass"},
		},
		{
			ID: "gamelan", Name: "Indonesian Gamelan", Region: "Southeast Asia",
			Tempo:       TempoRange{60, 120},
			RhythmTags:  []RhythmTag{RhythmPolyrhythmic, RhythmSteady},
			ScaleTags:   []ScaleTag{ScalePentatonic},
			TimbreTags:  []TimbreTag{TimbreBright, TimbrePercussive},
			Instruments: []string{"metallophones", "gongs", "kendang"},
		},
		{
			ID: "andean", Name: "Andean", Region: "South America",
			Tempo:       TempoRange{80, 140},
			RhythmTags:  []RhythmTag{RhythmSteady},
			ScaleTags:   []ScaleTag{ScalePentatonic, ScaleMinor},
			TimbreTags:  []TimbreTag{TimbreBright},
			Instruments: []string{"panpipes", "charango", "quena", "bombo"},
		},
	}
}
