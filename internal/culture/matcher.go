package culture

import (
	"fmt"
	"math"
	"sort"

	"github.com/ethnogram/ethnogram/internal/analysis"
)

// Similarity point values. Points are additive and intentionally coarse so
// a score can be read back as a list of matched traits.
const (
	// Tempo proximity tiers, measured against the midpoint of a
	// tradition's tempo range.
	tempoCloseBPM  = 10.0 // +3
	tempoNearBPM   = 25.0 // +2
	tempoLooseBPM  = 40.0 // +1
	tempoClosePts  = 3
	tempoNearPts   = 2
	tempoLoosePts  = 1
	steadyPts      = 2 // regular pulse matching a steady tradition
	polyrhythmPts  = 3 // detected polyrhythm matching a polyrhythmic tradition
	pentatonicPts  = 3 // pentatonic family overlap
	scaleFamilyPts = 2 // any other scale family overlap
	timbrePts      = 1 // optional spectral/timbre affinity

	// Regularity above this counts as a steady pulse.
	steadyRegularity = 0.7

	// Brightness above this counts as a bright timbre, percussiveness
	// above it as a percussion-forward texture.
	brightThreshold     = 0.6
	percussiveThreshold = 0.5

	// DefaultTopN is the number of ranked traditions reported when the
	// caller does not ask for a specific count.
	DefaultTopN = 5
)

// scaleFamilies maps each identified scale name to its family tags. Keys
// must track the scale identifier's template names exactly.
var scaleFamilies = map[string][]ScaleTag{
	"Major (Western)":          {ScaleMajor},
	"Natural Minor (Western)":  {ScaleMinor},
	"Pentatonic Major":         {ScalePentatonic, ScaleMajor},
	"Pentatonic Minor":         {ScalePentatonic, ScaleMinor},
	"Blues":                    {ScaleBlues, ScaleMinor},
	"Dorian (Modal)":           {ScaleModal},
	"Mixolydian (Modal)":       {ScaleModal},
	"Phrygian (Modal)":         {ScaleModal},
	"Hijaz (Middle Eastern)":   {ScaleModal, ScaleMicrotonal},
	"Hirajoshi (Japanese)":     {ScalePentatonic},
	"Raga Bhairav (Indian)":    {ScaleModal, ScaleMicrotonal},
}

// Score is one ranked tradition with its accumulated similarity points and
// the trait descriptions that earned them.
type Score struct {
	CultureID string
	Name      string
	Region    string
	Points    int
	Reasons   []string
}

// MatchCultures ranks the traditions in table against the extracted
// features and returns the top n (DefaultTopN when n <= 0). Traditions
// scoring zero points are omitted. Ties keep table order, so results are
// deterministic for identical inputs. spectral may be nil when no spectral
// profile is available; the timbre bonuses are simply skipped.
func MatchCultures(rhythm analysis.RhythmProfile, scale analysis.ScaleMatch, spectral *analysis.SpectralProfile, table []Record, n int) ([]Score, error) {
	if err := validateTable(table); err != nil {
		return nil, err
	}
	if n <= 0 {
		n = DefaultTopN
	}

	scored := make([]Score, 0, len(table))
	for _, rec := range table {
		s := scoreRecord(rhythm, scale, spectral, rec)
		if s.Points > 0 {
			scored = append(scored, s)
		}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Points > scored[j].Points
	})
	if len(scored) > n {
		scored = scored[:n]
	}
	return scored, nil
}

func scoreRecord(rhythm analysis.RhythmProfile, scale analysis.ScaleMatch, spectral *analysis.SpectralProfile, rec Record) Score {
	s := Score{CultureID: rec.ID, Name: rec.Name, Region: rec.Region}

	if rhythm.Tempo > 0 {
		diff := math.Abs(rhythm.Tempo - rec.Tempo.Midpoint())
		switch {
		case diff <= tempoCloseBPM:
			s.add(tempoClosePts, fmt.Sprintf("tempo %.0f BPM within %.0f of typical range", rhythm.Tempo, tempoCloseBPM))
		case diff <= tempoNearBPM:
			s.add(tempoNearPts, fmt.Sprintf("tempo %.0f BPM near typical range", rhythm.Tempo))
		case diff <= tempoLooseBPM:
			s.add(tempoLoosePts, fmt.Sprintf("tempo %.0f BPM loosely compatible", rhythm.Tempo))
		}
	}

	if rhythm.Regularity > steadyRegularity && hasRhythmTag(rec, RhythmSteady) {
		s.add(steadyPts, "steady pulse")
	}
	if rhythm.Polyrhythmic && hasRhythmTag(rec, RhythmPolyrhythmic) {
		reason := "polyrhythmic structure"
		if rhythm.PolyrhythmRatio != "" {
			reason = fmt.Sprintf("polyrhythmic structure (%s)", rhythm.PolyrhythmRatio)
		}
		s.add(polyrhythmPts, reason)
	}

	if scale.ScaleName != analysis.ScaleFallbackName {
		if pts, tag := scaleBonus(scale.ScaleName, rec); pts > 0 {
			s.add(pts, fmt.Sprintf("%s scale family (%s)", tag, scale.ScaleName))
		}
	}

	if spectral != nil {
		if spectral.Brightness >= brightThreshold && hasTimbreTag(rec, TimbreBright) {
			s.add(timbrePts, "bright timbre")
		}
		if rhythm.Percussiveness >= percussiveThreshold && hasTimbreTag(rec, TimbrePercussive) {
			s.add(timbrePts, "percussion-forward texture")
		}
	}

	return s
}

// scaleBonus returns the single best scale-family bonus for the record: the
// pentatonic family outranks the broader families when both overlap.
func scaleBonus(scaleName string, rec Record) (int, ScaleTag) {
	families := scaleFamilies[scaleName]
	best, bestTag := 0, ScaleTag("")
	for _, fam := range families {
		if !hasScaleTag(rec, fam) {
			continue
		}
		pts := scaleFamilyPts
		if fam == ScalePentatonic {
			pts = pentatonicPts
		}
		if pts > best {
			best, bestTag = pts, fam
		}
	}
	return best, bestTag
}

func (s *Score) add(pts int, reason string) {
	s.Points += pts
	s.Reasons = append(s.Reasons, reason)
}

func hasRhythmTag(rec Record, tag RhythmTag) bool {
	for _, t := range rec.RhythmTags {
		if t == tag {
			return true
		}
	}
	return false
}

func hasScaleTag(rec Record, tag ScaleTag) bool {
	for _, t := range rec.ScaleTags {
		if t == tag {
			return true
		}
	}
	return false
}

func hasTimbreTag(rec Record, tag TimbreTag) bool {
	for _, t := range rec.TimbreTags {
		if t == tag {
			return true
		}
	}
	return false
}

func validateTable(table []Record) error {
	if len(table) == 0 {
		return fmt.Errorf("culture table is empty")
	}
	seen := make(map[string]bool, len(table))
	for i, rec := range table {
		if rec.ID == "" || rec.Name == "" {
			return fmt.Errorf("culture record %d: missing id or name", i)
		}
		if seen[rec.ID] {
			return fmt.Errorf("culture record %d: duplicate id %q", i, rec.ID)
		}
		seen[rec.ID] = true
		if rec.Tempo.MinBPM <= 0 || rec.Tempo.MaxBPM < rec.Tempo.MinBPM {
			return fmt.Errorf("culture record %q: invalid tempo range %.0f-%.0f", rec.ID, rec.Tempo.MinBPM, rec.Tempo.MaxBPM)
		}
	}
	return nil
}
