package store

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LorneSvarc/FlowerGenTool/services/dna"
	"github.com/LorneSvarc/FlowerGenTool/services/observability"
)

func newFlowerStore(t *testing.T, opts ...Option) (*Store[dna.FlowerDNA], *ManualClock) {
	t.Helper()
	clock := NewManualClock()
	s := New(dna.Flower, append([]Option{WithClock(clock)}, opts...)...)
	t.Cleanup(s.Close)
	return s, clock
}

func TestNew_StartsAtDefault(t *testing.T) {
	s, _ := newFlowerStore(t)
	assert.Equal(t, dna.DefaultFlower(), s.Get())
	assert.Equal(t, uint64(0), s.Version())
	assert.Equal(t, dna.VariantFlower, s.Variant())

	decay := New(dna.Decay)
	defer decay.Close()
	assert.Equal(t, dna.DefaultDecay(), decay.Get())
}

func TestMerge_Exactness(t *testing.T) {
	s, _ := newFlowerStore(t)
	before := s.Get()

	got := s.Merge(dna.FlowerPatch{PetalRows: dna.Ptr(4), WobbleSpeed: dna.Ptr(1.1)})

	want := before
	want.PetalRows = 4
	want.WobbleSpeed = 1.1
	assert.Equal(t, want, got)
	assert.Equal(t, want, s.Get())
	assert.Equal(t, uint64(1), s.Version())
}

func TestMerge_TwoPetalColorsSurvive(t *testing.T) {
	s, _ := newFlowerStore(t)
	s.Merge(dna.FlowerPatch{PetalColors: []string{"#ff0088", "#00ffff"}})

	got := s.Merge(dna.FlowerPatch{PetalCount: dna.Ptr(12)})

	assert.Equal(t, 12, got.PetalCount)
	assert.Equal(t, []string{"#ff0088", "#00ffff"}, got.PetalColors)
}

func TestMerge_ClampsAndRejects(t *testing.T) {
	m := observability.NewMetrics(prometheus.NewRegistry())
	s, _ := newFlowerStore(t, WithMetrics(m))

	got := s.Merge(dna.FlowerPatch{
		PetalCount:  dna.Ptr(99),
		CenterColor: dna.Ptr("yellow"),
	})

	assert.Equal(t, 32, got.PetalCount)
	assert.Equal(t, "#ffd700", got.CenterColor)
	assert.NoError(t, got.Validate())
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RejectedEditsTotal.WithLabelValues("flower", "centerColor")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.StoreMutationsTotal.WithLabelValues("flower", "merge")))
}

func TestMerge_AllRejectedDoesNotCommit(t *testing.T) {
	s, _ := newFlowerStore(t)
	var calls int
	s.Subscribe(func(dna.FlowerDNA, uint64) { calls++ })

	got := s.Merge(dna.FlowerPatch{StemColors: []string{}})

	assert.Equal(t, dna.DefaultFlower(), got)
	assert.Equal(t, uint64(0), s.Version())
	assert.Zero(t, calls)
}

func TestGet_ReturnsIndependentCopy(t *testing.T) {
	s, _ := newFlowerStore(t)
	rec := s.Get()
	rec.PetalColors[0] = "#000000"
	assert.Equal(t, "#ff0088", s.Get().PetalColors[0])
}

func TestNudge_ConvergesAtBounds(t *testing.T) {
	s, _ := newFlowerStore(t)

	var rec dna.FlowerDNA
	var err error
	for i := 0; i < 40; i++ {
		rec, err = s.Nudge("scale", 0.05, 0.2, 2)
		require.NoError(t, err)
		require.LessOrEqual(t, rec.Scale, 2.0)
	}
	assert.Equal(t, 2.0, rec.Scale)

	for i := 0; i < 80; i++ {
		rec, err = s.Nudge("scale", -0.05, 0.2, 2)
		require.NoError(t, err)
		require.GreaterOrEqual(t, rec.Scale, 0.2)
	}
	assert.Equal(t, 0.2, rec.Scale)
}

func TestNudge_IntersectsDeclaredRange(t *testing.T) {
	s, _ := newFlowerStore(t)

	rec, err := s.Nudge("glowIntensity", 10, 0, 100)
	require.NoError(t, err)
	assert.Equal(t, 3.0, rec.GlowIntensity)

	rec, err = s.Nudge("petalCount", 2.6, 0, 100)
	require.NoError(t, err)
	assert.Equal(t, 11, rec.PetalCount)
}

func TestNudge_Errors(t *testing.T) {
	s, _ := newFlowerStore(t)

	_, err := s.Nudge("petalSpin", 1, 0, 1)
	assert.ErrorIs(t, err, ErrUnknownField)

	_, err = s.Nudge("centerColor", 1, 0, 1)
	assert.ErrorIs(t, err, ErrNotNumeric)

	sprout := New(dna.Sprout, WithClock(NewManualClock()))
	defer sprout.Close()
	_, err = sprout.Nudge("stemHeight", 0.1, 0, 2)
	assert.ErrorIs(t, err, ErrNotNumeric)
	assert.Equal(t, dna.SproutStemHeight, sprout.Get().StemHeight)
}

func TestReplace(t *testing.T) {
	s, _ := newFlowerStore(t)

	in := dna.DefaultFlower()
	in.Name = "Frost Bell"
	in.PetalCount = 50
	in.PetalColors = []string{"#ABC", "#def"}

	got, err := s.Replace(in)
	require.NoError(t, err)
	assert.Equal(t, "Frost Bell", got.Name)
	assert.Equal(t, 32, got.PetalCount)
	assert.Equal(t, []string{"#aabbcc", "#ddeeff"}, got.PetalColors)

	bad := dna.DefaultFlower()
	bad.StemColors = nil
	_, err = s.Replace(bad)
	assert.ErrorIs(t, err, dna.ErrValidation)
	assert.Equal(t, got, s.Get(), "failed replace leaves store unchanged")
}

func TestSubscribe_ReceivesCommittedVersions(t *testing.T) {
	s, _ := newFlowerStore(t)

	var versions []uint64
	var scales []float64
	cancel := s.Subscribe(func(rec dna.FlowerDNA, v uint64) {
		versions = append(versions, v)
		scales = append(scales, rec.Scale)
	})

	s.Merge(dna.FlowerPatch{Scale: dna.Ptr(1.5)})
	_, _ = s.Nudge("scale", 0.05, 0.2, 2)
	cancel()
	s.Merge(dna.FlowerPatch{Scale: dna.Ptr(0.7)})

	assert.Equal(t, []uint64{1, 2}, versions)
	assert.InDeltaSlice(t, []float64{1.5, 1.55}, scales, 1e-9)
}

func TestClose_RejectsMutations(t *testing.T) {
	s, clock := newFlowerStore(t)
	_, err := s.Pulse("glowIntensity", 2, 200*time.Millisecond)
	require.NoError(t, err)
	require.Equal(t, 1, clock.Pending())

	s.Close()
	s.Close()

	assert.Equal(t, 0, clock.Pending())
	_, err = s.Nudge("scale", 0.05, 0.2, 2)
	assert.ErrorIs(t, err, ErrClosed)
	_, err = s.Pulse("scale", 1, time.Second)
	assert.ErrorIs(t, err, ErrClosed)
	assert.Equal(t, 2.0, s.Merge(dna.FlowerPatch{GlowIntensity: dna.Ptr(0.1)}).GlowIntensity)
}

// Subscribers on a busy store must only ever see complete, valid records.
func TestConcurrentMutations_NeverExposeInvalidRecords(t *testing.T) {
	s := New(dna.Flower)
	defer s.Close()

	var mu sync.Mutex
	var invalid []error
	s.Subscribe(func(rec dna.FlowerDNA, _ uint64) {
		if err := rec.Validate(); err != nil {
			mu.Lock()
			invalid = append(invalid, err)
			mu.Unlock()
		}
	})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				switch (i + j) % 4 {
				case 0:
					s.Merge(dna.FlowerPatch{PetalCount: dna.Ptr(j), Scale: dna.Ptr(float64(j) / 10)})
				case 1:
					_, _ = s.Nudge("scale", 0.05, 0.2, 2)
				case 2:
					_, _ = AddColor(s, dna.PetalColors, "")
				case 3:
					_, _ = RemoveColor(s, dna.PetalColors, 0)
				}
			}
		}(i)
	}
	wg.Wait()

	assert.Empty(t, invalid)
	assert.NoError(t, s.Get().Validate())
}

func TestColorHelpers(t *testing.T) {
	s, _ := newFlowerStore(t)

	rec, err := AddColor(s, dna.PetalColors, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"#ff0088", "#ffffff"}, rec.PetalColors)

	rec, err = AddColor(s, dna.StemColors, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"#228b22", "#228b22"}, rec.StemColors)

	rec, err = SetColor(s, dna.PetalColors, 1, "#0ff")
	require.NoError(t, err)
	assert.Equal(t, []string{"#ff0088", "#00ffff"}, rec.PetalColors)

	_, err = AddColor(s, dna.PetalColors, "#111111")
	require.NoError(t, err)
	rec, err = AddColor(s, dna.PetalColors, "#222222")
	assert.True(t, errors.Is(err, dna.ErrValidation))
	assert.Len(t, rec.PetalColors, 3)

	for i := 0; i < 2; i++ {
		_, err = RemoveColor(s, dna.PetalColors, 0)
		require.NoError(t, err)
	}
	rec, err = RemoveColor(s, dna.PetalColors, 0)
	assert.ErrorIs(t, err, dna.ErrValidation)
	assert.Equal(t, []string{"#111111"}, rec.PetalColors)
}
