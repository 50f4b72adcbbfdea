package garden

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LorneSvarc/FlowerGenTool/services/dna"
	"github.com/LorneSvarc/FlowerGenTool/services/store"
	"github.com/LorneSvarc/FlowerGenTool/services/synth"
)

const flowerJSON = `{"name":"Tide Orchid","description":"Cool as the deep.","petalCount":6,"petalRows":2,
"petalLength":3,"petalWidth":1,"petalCurvature":0.7,"petalColor":"#1e90ff","centerColor":"#e0ffff",
"stemColor":"#2f4f4f","glowIntensity":0.9,"wobbleSpeed":1.3,"scale":0.8}`

// scriptedSynth answers each call through a callback so tests can return
// results for arbitrary request IDs.
type scriptedSynth struct {
	mu    sync.Mutex
	reqs  []synth.Request
	reply func(req synth.Request) (*synth.Result, error)
}

func (s *scriptedSynth) Synthesize(_ context.Context, req synth.Request) (*synth.Result, error) {
	s.mu.Lock()
	s.reqs = append(s.reqs, req)
	s.mu.Unlock()
	return s.reply(req)
}

func resultFor(t *testing.T, id string) *synth.Result {
	t.Helper()
	p, err := synth.DecodeFlower(flowerJSON)
	require.NoError(t, err)
	rec, rejected := p.ApplyTo(dna.DefaultFlower())
	require.Empty(t, rejected)
	return &synth.Result{RequestID: id, Patch: p, DNA: rec}
}

func newGarden(t *testing.T, s Synthesizer) (*Garden, *store.ManualClock) {
	t.Helper()
	clock := store.NewManualClock()
	g := New(s, WithStoreOptions(store.WithClock(clock)))
	t.Cleanup(g.Close)
	return g, clock
}

func TestGarden_SelectAndCurrent(t *testing.T) {
	g, _ := newGarden(t, nil)

	assert.Equal(t, dna.VariantFlower, g.Active())
	assert.IsType(t, dna.FlowerDNA{}, g.Current())

	require.NoError(t, g.Select(dna.VariantSprout))
	assert.Equal(t, dna.VariantSprout, g.Active())
	assert.Equal(t, dna.DefaultSprout(), g.Current())

	assert.Error(t, g.Select(dna.Variant(7)))
	assert.Equal(t, dna.VariantFlower, g.Cycle())
}

func TestRouteUpdate_ActiveVariant(t *testing.T) {
	g, _ := newGarden(t, nil)
	require.NoError(t, g.Select(dna.VariantDecay))

	rec, err := g.RouteUpdate(dna.DecayPatch{CrackCount: dna.Ptr(11)})
	require.NoError(t, err)
	assert.Equal(t, 11, rec.(dna.DecayDNA).CrackCount)
	assert.Equal(t, 11, g.Decay().Get().CrackCount)
}

func TestRouteUpdate_VariantMismatch(t *testing.T) {
	g, _ := newGarden(t, nil)
	require.NoError(t, g.Select(dna.VariantSprout))

	rec, err := g.RouteUpdate(dna.FlowerPatch{PetalCount: dna.Ptr(20)})
	assert.ErrorIs(t, err, ErrVariantMismatch)
	assert.Equal(t, dna.DefaultSprout(), rec)
	assert.Equal(t, dna.DefaultFlower(), g.Flower().Get(), "flower store untouched")
	assert.Equal(t, uint64(0), g.Flower().Version())
}

func TestGenerate_MergesOnlySynthesizedFields(t *testing.T) {
	s := &scriptedSynth{}
	s.reply = func(req synth.Request) (*synth.Result, error) { return resultFor(t, req.ID), nil }
	g, _ := newGarden(t, s)

	g.Flower().Merge(dna.FlowerPatch{
		StemBend:    dna.Ptr(-0.6),
		LeafCount:   dna.Ptr(3),
		PetalColors: []string{"#ff0088", "#00ffff", "#ffff00"},
	})
	require.NoError(t, g.Select(dna.VariantDecay))

	rec, err := g.Generate(context.Background(), "a sea orchid", synth.MoodNebula)
	require.NoError(t, err)

	assert.Equal(t, "Tide Orchid", rec.Name)
	assert.Equal(t, []string{"#1e90ff"}, rec.PetalColors, "extra colours discarded")
	assert.Equal(t, []string{"#2f4f4f"}, rec.StemColors)
	assert.Equal(t, -0.6, rec.StemBend)
	assert.Equal(t, 3, rec.LeafCount)
	assert.Equal(t, dna.VariantDecay, g.Active(), "synthesis does not switch variant")
	assert.Equal(t, dna.DefaultDecay(), g.Decay().Get())
	assert.Empty(t, g.Pending())

	require.Len(t, s.reqs, 1)
	assert.Equal(t, "a sea orchid", s.reqs[0].Prompt)
	assert.NotEmpty(t, s.reqs[0].ID)
}

func TestGenerate_FailureLeavesStoreUnchanged(t *testing.T) {
	tests := []struct {
		kind synth.ErrorKind
		want error
	}{
		{synth.KindTransport, synth.ErrTransport},
		{synth.KindSchema, synth.ErrSchema},
	}
	for _, tt := range tests {
		t.Run(tt.want.Error(), func(t *testing.T) {
			s := &scriptedSynth{reply: func(req synth.Request) (*synth.Result, error) {
				return nil, &synth.SynthesisError{Kind: tt.kind, RequestID: req.ID}
			}}
			g, _ := newGarden(t, s)
			before := g.Flower().Get()

			_, err := g.Generate(context.Background(), "", "")
			assert.ErrorIs(t, err, tt.want)
			assert.Equal(t, before, g.Flower().Get())
			assert.Equal(t, uint64(0), g.Flower().Version())
			assert.Empty(t, g.Pending())
		})
	}
}

func TestRouteSynthesis_DiscardsStale(t *testing.T) {
	g, _ := newGarden(t, nil)

	first, err := g.Begin("one", "")
	require.NoError(t, err)
	_, err = g.Finish(first, nil, &synth.SynthesisError{Kind: synth.KindTransport, RequestID: first.ID})
	require.ErrorIs(t, err, synth.ErrTransport)

	second, err := g.Begin("two", "")
	require.NoError(t, err)

	_, err = g.RouteSynthesis(resultFor(t, first.ID))
	assert.ErrorIs(t, err, ErrStale)
	assert.Equal(t, dna.DefaultFlower(), g.Flower().Get())

	rec, err := g.RouteSynthesis(resultFor(t, second.ID))
	require.NoError(t, err)
	assert.Equal(t, "Tide Orchid", rec.Name)

	_, err = g.RouteSynthesis(resultFor(t, second.ID))
	assert.ErrorIs(t, err, ErrStale, "a result is accepted once")
}

func TestRouteSynthesis_AfterAbandon(t *testing.T) {
	g, _ := newGarden(t, nil)
	req, err := g.Begin("", "")
	require.NoError(t, err)
	g.Abandon()

	_, err = g.Finish(req, resultFor(t, req.ID), nil)
	assert.ErrorIs(t, err, ErrStale)
	_, err = g.RouteSynthesis(nil)
	assert.ErrorIs(t, err, ErrStale)

	_, err = g.Begin("again", "")
	assert.NoError(t, err, "a finished call frees the garden")
}

func TestBegin_RefusalsKeepOutstandingTag(t *testing.T) {
	g, _ := newGarden(t, nil)
	inFlight, err := g.Begin("first", "")
	require.NoError(t, err)

	_, err = g.Begin("second", "")
	assert.ErrorIs(t, err, synth.ErrBusy)
	assert.Equal(t, inFlight.ID, g.Pending())

	_, err = g.Begin("third", synth.Mood("Bogus"))
	assert.ErrorIs(t, err, synth.ErrRequest)
	assert.Equal(t, inFlight.ID, g.Pending())

	rec, err := g.Finish(inFlight, resultFor(t, inFlight.ID), nil)
	require.NoError(t, err)
	assert.Equal(t, "Tide Orchid", rec.Name)
	assert.Empty(t, g.Pending())
}

// gatedGenerator holds every call until release is closed.
type gatedGenerator struct {
	entered chan struct{}
	release chan struct{}
}

func (gg *gatedGenerator) Name() string  { return "gated" }
func (gg *gatedGenerator) Model() string { return "gated-1" }

func (gg *gatedGenerator) GenerateJSON(ctx context.Context, _ string, _ synth.OutputSchema) (string, error) {
	gg.entered <- struct{}{}
	select {
	case <-gg.release:
		return flowerJSON, nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

func TestGenerate_RejectedCallDoesNotOrphanInFlightResult(t *testing.T) {
	gen := &gatedGenerator{entered: make(chan struct{}, 1), release: make(chan struct{})}
	g, _ := newGarden(t, synth.NewClient(gen, synth.WithTimeout(5*time.Second)))

	type outcome struct {
		rec dna.FlowerDNA
		err error
	}
	done := make(chan outcome, 1)
	go func() {
		rec, err := g.Generate(context.Background(), "a", "")
		done <- outcome{rec, err}
	}()

	select {
	case <-gen.entered:
	case <-time.After(5 * time.Second):
		t.Fatal("first call never reached the backend")
	}
	inFlight := g.Pending()
	require.NotEmpty(t, inFlight)

	_, err := g.Generate(context.Background(), "b", synth.Mood("Bogus"))
	assert.ErrorIs(t, err, synth.ErrRequest)
	assert.Equal(t, inFlight, g.Pending())

	_, err = g.Generate(context.Background(), "c", "")
	assert.ErrorIs(t, err, synth.ErrBusy)
	assert.Equal(t, inFlight, g.Pending())

	close(gen.release)
	select {
	case out := <-done:
		require.NoError(t, out.err)
		assert.Equal(t, "Tide Orchid", out.rec.Name)
	case <-time.After(5 * time.Second):
		t.Fatal("first call never settled")
	}
	assert.Equal(t, "Tide Orchid", g.Flower().Get().Name)
	assert.Empty(t, g.Pending())
}

func TestGenerate_NoSynthesizer(t *testing.T) {
	g, _ := newGarden(t, nil)
	_, err := g.Regenerate(context.Background())
	assert.ErrorIs(t, err, ErrNoSynthesizer)
}

func TestHandleKey(t *testing.T) {
	s := &scriptedSynth{}
	s.reply = func(req synth.Request) (*synth.Result, error) { return resultFor(t, req.ID), nil }
	g, _ := newGarden(t, s)
	g.SetInspiration("kelp", synth.MoodZen)
	require.NoError(t, g.Select(dna.VariantSprout))

	rec, handled, err := g.HandleKey(context.Background(), "up")
	require.NoError(t, err)
	assert.True(t, handled)
	assert.InDelta(t, 1.05, rec.(dna.FlowerDNA).Scale, 1e-9, "arrow keys always drive the Flower")
	assert.Equal(t, dna.DefaultSprout(), g.Sprout().Get())

	rec, _, err = g.HandleKey(context.Background(), "down")
	require.NoError(t, err)
	assert.InDelta(t, 1.0, rec.(dna.FlowerDNA).Scale, 1e-9)

	rec, handled, err = g.HandleKey(context.Background(), " ")
	require.NoError(t, err)
	assert.True(t, handled)
	assert.Equal(t, "Tide Orchid", rec.(dna.FlowerDNA).Name)
	require.Len(t, s.reqs, 1)
	assert.Equal(t, "kelp", s.reqs[0].Prompt)
	assert.Equal(t, synth.MoodZen, s.reqs[0].Mood)

	_, handled, err = g.HandleKey(context.Background(), "x")
	assert.NoError(t, err)
	assert.False(t, handled)
}

func TestHandleKey_ScaleStaysInNudgeRange(t *testing.T) {
	g, _ := newGarden(t, nil)
	for i := 0; i < 100; i++ {
		_, _, err := g.HandleKey(context.Background(), "down")
		require.NoError(t, err)
	}
	assert.Equal(t, 0.2, g.Flower().Get().Scale)
	for i := 0; i < 100; i++ {
		_, _, err := g.HandleKey(context.Background(), "up")
		require.NoError(t, err)
	}
	assert.Equal(t, 2.0, g.Flower().Get().Scale)
}

func TestParseKey(t *testing.T) {
	assert.Equal(t, CmdRegenerate, ParseKey("space"))
	assert.Equal(t, CmdRegenerate, ParseKey("R"))
	assert.Equal(t, CmdScaleUp, ParseKey("up"))
	assert.Equal(t, CmdScaleDown, ParseKey("down"))
	assert.Equal(t, CmdNone, ParseKey("tab"))
	assert.Equal(t, "scale-up", CmdScaleUp.String())
}

func TestPetalClick_PulsesGlow(t *testing.T) {
	g, clock := newGarden(t, nil)

	rec, err := g.PetalClick()
	require.NoError(t, err)
	assert.InDelta(t, 1.7, rec.GlowIntensity, 1e-9)

	clock.Advance(200 * time.Millisecond)
	assert.Equal(t, 1.5, g.Flower().Get().GlowIntensity)
}

func TestPetalClick_CapsAtCeiling(t *testing.T) {
	g, clock := newGarden(t, nil)
	g.Flower().Merge(dna.FlowerPatch{GlowIntensity: dna.Ptr(2.95)})

	rec, err := g.PetalClick()
	require.NoError(t, err)
	assert.Equal(t, 3.0, rec.GlowIntensity)

	clock.Advance(time.Second)
	assert.Equal(t, 2.95, g.Flower().Get().GlowIntensity)
}

// Regression: a glow edit inside the pulse window must not be undone.
func TestPetalClick_EditDuringPulseSurvives(t *testing.T) {
	g, clock := newGarden(t, nil)

	_, err := g.PetalClick()
	require.NoError(t, err)
	clock.Advance(50 * time.Millisecond)
	_, err = g.RouteUpdate(dna.FlowerPatch{GlowIntensity: dna.Ptr(0.4)})
	require.NoError(t, err)

	clock.Advance(time.Second)
	assert.Equal(t, 0.4, g.Flower().Get().GlowIntensity)
}

func TestReplace_LoadsIntoVariantStore(t *testing.T) {
	g, _ := newGarden(t, nil)
	in := dna.DefaultDecay()
	in.Name = "Old Scar"

	rec, err := g.Replace(in)
	require.NoError(t, err)
	assert.Equal(t, "Old Scar", rec.(dna.DecayDNA).Name)
	assert.Equal(t, dna.VariantFlower, g.Active())

	_, err = g.Replace(nil)
	assert.Error(t, err)
}
