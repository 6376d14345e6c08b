package selection

import (
	"math/rand/v2"
	"slices"
	"testing"
)

func TestClassifyConfidenceOneKeepsOnlyLongest(t *testing.T) {
	durations := [][]float64{
		{10, 20, 30},
		{44, 43, 45, 42},
		{1},
		{5, 5.5, 0},
	}
	for _, set := range durations {
		candidates := make([]Candidate, 0, len(set))
		for i, d := range set {
			candidates = append(candidates, title(t, "Disc 1/title_"+string(rune('a'+i))+".mkv", d))
		}
		threshold, decisions := Classify(candidates, ClassifyOptions{Confidence: 1})
		longest := slices.Max(set) * 60
		if threshold.Minimum != longest {
			t.Fatalf("threshold %v, want %v", threshold.Minimum, longest)
		}
		for _, d := range decisions {
			if d.Kept != (d.Candidate.Duration == longest) {
				t.Fatalf("unexpected decision for %v: %+v", d.Candidate.Duration, d)
			}
		}
	}
}

func TestClassifyOverrideSkipsStatistics(t *testing.T) {
	candidates := []Candidate{
		title(t, "Disc 1/title_1.mkv", 10),
		title(t, "Disc 1/title_2.mkv", 100),
	}
	threshold, decisions := Classify(candidates, ClassifyOptions{Confidence: 1, MinimumSeconds: seconds(5 * 60)})
	if threshold.Source != ThresholdOverride || threshold.Minimum != 300 {
		t.Fatalf("unexpected threshold: %+v", threshold)
	}
	for _, d := range decisions {
		if !d.Kept {
			t.Fatalf("expected all titles kept under override, got %+v", d)
		}
	}
}

func TestClassifyProbeFailures(t *testing.T) {
	candidates := []Candidate{
		title(t, "Disc 1/title_1.mkv", 40),
		unprobed(t, "Disc 1/title_2.mkv"),
	}
	threshold, decisions := Classify(candidates, ClassifyOptions{Confidence: 0.5})
	if threshold.Normal != 40*60 {
		t.Fatalf("probe failure must not affect normal length: %+v", threshold)
	}
	if decisions[1].Kept || decisions[1].Reason != ReasonProbeFailed || decisions[1].Detail == "" {
		t.Fatalf("unexpected decision for failed probe: %+v", decisions[1])
	}

	threshold, decisions = Classify([]Candidate{unprobed(t, "Disc 1/x.mkv")}, ClassifyOptions{Confidence: 0.5})
	if threshold.Source != ThresholdNone {
		t.Fatalf("expected no threshold, got %+v", threshold)
	}
	if decisions[0].Reason != ReasonProbeFailed {
		t.Fatalf("unexpected decision: %+v", decisions[0])
	}
}

func TestClassifyMaximum(t *testing.T) {
	candidates := []Candidate{
		title(t, "Disc 1/title_1.mkv", 44),
		title(t, "Disc 1/title_2.mkv", 180),
	}
	_, decisions := Classify(candidates, ClassifyOptions{Confidence: 0.1, MaximumSeconds: seconds(60 * 60)})
	if !decisions[0].Kept {
		t.Fatalf("expected episode kept: %+v", decisions[0])
	}
	if decisions[1].Kept || decisions[1].Reason != ReasonTooLong {
		t.Fatalf("expected long feature rejected: %+v", decisions[1])
	}
}

func TestClassifyLowerConfidenceKeepsMore(t *testing.T) {
	candidates := []Candidate{
		title(t, "Disc 1/title_1.mkv", 20),
		title(t, "Disc 1/title_2.mkv", 30),
		title(t, "Disc 1/title_3.mkv", 40),
	}
	kept := func(confidence float64) int {
		_, decisions := Classify(candidates, ClassifyOptions{Confidence: confidence})
		n := 0
		for _, d := range decisions {
			if d.Kept {
				n++
			}
		}
		return n
	}
	if kept(0.9) != 1 || kept(0.6) != 2 || kept(0.5) != 3 {
		t.Fatalf("unexpected kept counts: %d %d %d", kept(0.9), kept(0.6), kept(0.5))
	}
}

func TestClassifyIsOrderIndependent(t *testing.T) {
	candidates := twoDiscSet(t)
	want, _ := Classify(candidates, ClassifyOptions{Confidence: DefaultConfidence})
	rng := rand.New(rand.NewPCG(7, 9))
	for range 5 {
		shuffled := slices.Clone(candidates)
		rng.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })
		got, _ := Classify(shuffled, ClassifyOptions{Confidence: DefaultConfidence})
		if got != want {
			t.Fatalf("threshold changed with order: %+v vs %+v", got, want)
		}
	}
}
