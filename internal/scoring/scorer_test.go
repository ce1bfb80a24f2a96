package scoring

import (
	"math"
	"math/rand"
	"reflect"
	"roleplay-coach-go/internal/model"
	"strings"
	"testing"
	"time"
)

const (
	fullMessage      = "I understand how you feel, please let me fix this, I will assist and follow up with a solution."
	noRetentionReply = "I understand how you feel, please let me fix this, I will find a solution."
)

func turnsOf(messages ...string) []model.Turn {
	turns := make([]model.Turn, 0, len(messages))
	for _, m := range messages {
		turns = append(turns, model.Turn{LearnerMessage: m, CustomerMessage: "ok", Timestamp: time.Now()})
	}
	return turns
}

func mustScore(t *testing.T, r model.ScoreReport, name string) int {
	t.Helper()
	s, ok := r.MetricScore(name)
	if !ok {
		t.Fatalf("metric %q missing from report", name)
	}
	return s
}

func titles(recs []model.Recommendation) []string {
	out := make([]string, 0, len(recs))
	for _, r := range recs {
		out = append(out, r.Title)
	}
	return out
}

func TestScoreEmptyHistoryIsBaseline(t *testing.T) {
	r := Score(nil)

	if r.OverallScore != 50 {
		t.Errorf("Expected overall 50, got %d", r.OverallScore)
	}
	for _, m := range r.Metrics {
		if m.Score != 50 {
			t.Errorf("Expected %s at 50, got %d", m.Name, m.Score)
		}
	}
	if len(r.Recommendations) != 1 || r.Recommendations[0].Title != "Maintain Excellence" {
		t.Errorf("Expected single Maintain Excellence, got %v", titles(r.Recommendations))
	}
}

func TestScoreEscalationMessage(t *testing.T) {
	r := Score(turnsOf("I understand your frustration, I will escalate this immediately and follow up within the hour"))

	want := map[string]int{
		MetricEmpathy:         64, // understand +8, frustrat +6
		MetricProfessionalism: 59, // >40 chars +4, no question >20 chars +5
		MetricResolution:      58, // will +8
		MetricRetention:       57, // follow up +7
	}
	for name, score := range want {
		if got := mustScore(t, r, name); got != score {
			t.Errorf("%s: expected %d, got %d", name, score, got)
		}
	}
	if r.OverallScore != 60 {
		t.Errorf("Expected overall 60, got %d", r.OverallScore)
	}

	wantTitles := []string{"Enhance Empathy", "Strengthen Professional Tone", "Improve Solution Delivery", "Build Customer Trust"}
	if !reflect.DeepEqual(titles(r.Recommendations), wantTitles) {
		t.Errorf("Unexpected recommendations: %v", titles(r.Recommendations))
	}
}

func TestScoreNeutralMessage(t *testing.T) {
	r := Score(turnsOf("ok"))

	for _, m := range r.Metrics {
		if m.Score != 50 {
			t.Errorf("Expected %s at 50, got %d", m.Name, m.Score)
		}
	}
	// 四个维度都低于阈值，已满 3 条，不再追加针对性建议
	if len(r.Recommendations) != 4 {
		t.Errorf("Expected 4 recommendations, got %v", titles(r.Recommendations))
	}
}

func TestScoreAllAboveThreshold(t *testing.T) {
	r := Score(turnsOf(fullMessage, fullMessage))

	if got := titles(r.Recommendations); !reflect.DeepEqual(got, []string{"Maintain Excellence"}) {
		t.Errorf("Expected only Maintain Excellence, got %v", got)
	}
	if r.OverallScore != 79 {
		t.Errorf("Expected overall 79, got %d", r.OverallScore)
	}
}

func TestScoreFocusRecommendationMayDuplicate(t *testing.T) {
	r := Score(turnsOf(fullMessage, noRetentionReply))

	if got := mustScore(t, r, MetricRetention); got != 63 {
		t.Fatalf("Expected retention 63, got %d", got)
	}
	want := []string{"Build Customer Trust", "Focus on Customer Retention Impact"}
	if got := titles(r.Recommendations); !reflect.DeepEqual(got, want) {
		t.Errorf("Expected %v, got %v", want, got)
	}
	if !strings.Contains(r.Recommendations[1].Action, "customer retention impact") {
		t.Errorf("Focus action should name the category in lower case: %q", r.Recommendations[1].Action)
	}
	if r.OverallScore != 76 {
		t.Errorf("Expected overall 76, got %d", r.OverallScore)
	}
}

func TestRecommendLowestTieBreakPicksLast(t *testing.T) {
	recs := recommend([]model.Metric{
		{Name: MetricEmpathy, Score: 60},
		{Name: MetricProfessionalism, Score: 60},
		{Name: MetricResolution, Score: 80},
		{Name: MetricRetention, Score: 80},
	})

	want := []string{"Enhance Empathy", "Strengthen Professional Tone", "Focus on Professionalism"}
	if got := titles(recs); !reflect.DeepEqual(got, want) {
		t.Errorf("Expected %v, got %v", want, got)
	}
}

func TestScoreCapsAt100(t *testing.T) {
	msgs := make([]string, 10)
	for i := range msgs {
		msgs[i] = fullMessage
	}
	r := Score(turnsOf(msgs...))

	for _, m := range r.Metrics {
		if m.Score != 100 {
			t.Errorf("Expected %s capped at 100, got %d", m.Name, m.Score)
		}
	}
	if r.OverallScore != 100 {
		t.Errorf("Expected overall 100, got %d", r.OverallScore)
	}
}

func TestScoreEmpathyMonotonic(t *testing.T) {
	base := turnsOf("ok", "right")
	before := Score(base)
	after := Score(append(base, turnsOf("I am so sorry")...))

	if mustScore(t, after, MetricEmpathy) <= mustScore(t, before, MetricEmpathy) {
		t.Error("Empathy trigger should strictly increase empathy")
	}
	for _, name := range []string{MetricProfessionalism, MetricResolution, MetricRetention} {
		if mustScore(t, after, name) < mustScore(t, before, name) {
			t.Errorf("%s decreased after adding an empathy message", name)
		}
	}
}

func TestScoreIsIdempotent(t *testing.T) {
	turns := turnsOf(fullMessage, "Can I help?", "thank you for waiting")
	if !reflect.DeepEqual(Score(turns), Score(turns)) {
		t.Error("Score should be a pure function of its input")
	}
}

func TestScoreBoundsAndWeighting(t *testing.T) {
	vocab := []string{
		"understand", "sorry", "feel", "please", "thank", "will", "fix", "solution",
		"assist", "support", "follow up", "contact", "?", "hello", "the", "account",
	}
	rng := rand.New(rand.NewSource(42))

	for i := 0; i < 200; i++ {
		n := 1 + rng.Intn(12)
		msgs := make([]string, n)
		for j := range msgs {
			words := make([]string, rng.Intn(15))
			for k := range words {
				words[k] = vocab[rng.Intn(len(vocab))]
			}
			msgs[j] = strings.Join(words, " ")
		}
		r := Score(turnsOf(msgs...))

		scores := make([]int, 0, 4)
		for _, m := range r.Metrics {
			if m.Score < 50 || m.Score > 100 {
				t.Fatalf("%s out of range: %d", m.Name, m.Score)
			}
			scores = append(scores, m.Score)
		}
		want := int(math.Round(0.25*float64(scores[0]) + 0.25*float64(scores[1]) + 0.30*float64(scores[2]) + 0.20*float64(scores[3])))
		if r.OverallScore != want {
			t.Fatalf("Overall %d does not match weighted %d", r.OverallScore, want)
		}
		if r.OverallScore < 0 || r.OverallScore > 100 {
			t.Fatalf("Overall out of range: %d", r.OverallScore)
		}
	}
}

func TestScoreCountsRunesNotBytes(t *testing.T) {
	// 15 个字符（30 字节），不应触发长度加分
	r := Score(turnsOf(strings.Repeat("é", 15)))
	if got := mustScore(t, r, MetricProfessionalism); got != 50 {
		t.Errorf("Expected professionalism 50 for short multi-byte text, got %d", got)
	}
}
