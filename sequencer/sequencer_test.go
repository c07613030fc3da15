package sequencer

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-stems/harmony"
	"go-stems/midi"
)

func seeded(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed))
}

func mustProgression(t *testing.T, s string) harmony.Progression {
	t.Helper()
	p, err := harmony.ParseProgression(s, false)
	require.NoError(t, err)
	return p
}

func instrument(t *testing.T, name string) Instrument {
	t.Helper()
	inst, ok := DefaultCatalog().Lookup(name)
	require.True(t, ok, name)
	return inst
}

func TestDefaultCatalogValid(t *testing.T) {
	c := DefaultCatalog()
	require.NoError(t, c.Validate())
	assert.Len(t, c, 8)

	drums := instrument(t, "Drums")
	assert.Nil(t, drums.Program)
	assert.Equal(t, midi.DrumChannel, drums.Channel)
	assert.True(t, drums.Percussive())
}

func TestSelectFirst(t *testing.T) {
	got, err := DefaultCatalog().Select(3, SelectFirst, seeded(1))
	require.NoError(t, err)
	names := []string{got[0].Name, got[1].Name, got[2].Name}
	assert.Equal(t, []string{"Piano", "Electric Guitar", "Bass"}, names)
}

func TestSelectRandom(t *testing.T) {
	c := DefaultCatalog()
	a, err := c.Select(5, SelectRandom, seeded(42))
	require.NoError(t, err)
	b, err := c.Select(5, SelectRandom, seeded(42))
	require.NoError(t, err)
	assert.Equal(t, a, b)

	seen := map[string]bool{}
	for _, inst := range a {
		assert.False(t, seen[inst.Name], "duplicate %s", inst.Name)
		seen[inst.Name] = true
	}

	all, err := c.Select(len(c), SelectRandom, seeded(3))
	require.NoError(t, err)
	assert.ElementsMatch(t, []Instrument(c), all)
}

func TestSelectExhausted(t *testing.T) {
	_, err := DefaultCatalog().Select(9, SelectFirst, seeded(1))
	var ce *CatalogExhaustedError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, 9, ce.Requested)
	assert.Equal(t, 8, ce.Size)
	assert.ErrorIs(t, err, ErrCatalogExhausted)

	_, err = DefaultCatalog().Select(0, SelectFirst, seeded(1))
	assert.Error(t, err)
}

func TestCatalogValidate(t *testing.T) {
	bad := Catalog{
		{Name: "Theremin", Channel: 3, Idiom: "glissando"},
		{Name: "Piano", Channel: 0, Idiom: IdiomChordal},
		{Name: "Piano", Channel: 20, Idiom: IdiomChordal},
	}
	err := bad.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownIdiom)
	assert.Contains(t, err.Error(), "duplicate")
	assert.Contains(t, err.Error(), "channel 20")
}

func TestScheduleArpeggio(t *testing.T) {
	s := DefaultScheduler()
	track, err := s.Schedule(mustProgression(t, "Cmaj"), instrument(t, "Electric Guitar"), seeded(1))
	require.NoError(t, err)
	require.Len(t, track.Notes, 3)

	wantStart := []float64{0, 0.2, 0.4}
	wantPitch := []uint8{60, 64, 67}
	for k, n := range track.Notes {
		assert.Equal(t, wantPitch[k], n.Pitch)
		assert.InDelta(t, wantStart[k], n.Start, 1e-9)
		assert.InDelta(t, 1.6, n.Duration(), 1e-9)
		assert.LessOrEqual(t, n.End, 2.0)
	}
	assert.InDelta(t, 2.0, track.Notes[2].End, 1e-9)
}

func TestSchedulePercussive(t *testing.T) {
	s := DefaultScheduler()
	track, err := s.Schedule(mustProgression(t, "Cmaj Gmaj"), instrument(t, "Drums"), seeded(1))
	require.NoError(t, err)
	require.Len(t, track.Notes, 12)

	wantPitch := []uint8{36, 38, 42, 42, 42, 42}
	wantStart := []float64{0, 1.0, 0, 0.5, 1.0, 1.5}
	for slot := 0; slot < 2; slot++ {
		for i := range wantPitch {
			n := track.Notes[slot*6+i]
			assert.Equal(t, wantPitch[i], n.Pitch)
			assert.InDelta(t, float64(slot)*2+wantStart[i], n.Start, 1e-9)
			assert.InDelta(t, 0.1, n.Duration(), 1e-9)
			assert.Equal(t, midi.DrumChannel, n.Channel)
		}
	}
}

func TestScheduleKitMapping(t *testing.T) {
	s := DefaultScheduler()
	kit, err := LookupKit("rd8")
	require.NoError(t, err)
	s.Kit = kit
	track, err := s.Schedule(mustProgression(t, "Cmaj"), instrument(t, "Drums"), seeded(1))
	require.NoError(t, err)
	assert.Equal(t, uint8(40), track.Notes[1].Pitch)

	_, err = LookupKit("909")
	assert.Error(t, err)
}

func TestScheduleIdiomShapes(t *testing.T) {
	p := mustProgression(t, "Amin Fmaj")
	s := DefaultScheduler()

	tests := []struct {
		name    string
		perSlot int
		pitches []uint8 // first slot
	}{
		{"Piano", 3, []uint8{69, 72, 76}},
		{"Bass", 1, []uint8{69}},
		{"Saxophone", 1, []uint8{81}},
		{"Cello", 3, []uint8{69, 72, 76}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			track, err := s.Schedule(p, instrument(t, tt.name), seeded(9))
			require.NoError(t, err)
			require.Len(t, track.Notes, 2*tt.perSlot)
			for i, want := range tt.pitches {
				assert.Equal(t, want, track.Notes[i].Pitch)
			}
		})
	}
}

func TestScheduleSlotBounds(t *testing.T) {
	p := mustProgression(t, "Cmaj Gmaj Amin Fmaj Ddim Eaug")
	s := DefaultScheduler()
	for _, inst := range DefaultCatalog() {
		track, err := s.Schedule(p, inst, seeded(5))
		require.NoError(t, err)
		for _, n := range track.Notes {
			require.NoError(t, n.Validate())
			slot := int(n.Start / s.SlotDuration)
			slotStart := float64(slot) * s.SlotDuration
			assert.GreaterOrEqual(t, n.Start, slotStart, inst.Name)
			if !inst.Percussive() {
				assert.LessOrEqual(t, n.End, slotStart+s.SlotDuration+1e-9, inst.Name)
			}
			assert.GreaterOrEqual(t, int(n.Velocity), 80)
			assert.LessOrEqual(t, int(n.Velocity), 120)
		}
	}
}

func TestScheduleHumanizedEndsAtSlotEnd(t *testing.T) {
	s := DefaultScheduler()
	track, err := s.Schedule(mustProgression(t, "Cmaj Fmaj"), instrument(t, "Violin"), seeded(11))
	require.NoError(t, err)
	for i, n := range track.Notes {
		slotEnd := float64(i/3+1) * s.SlotDuration
		assert.Equal(t, slotEnd, n.End)
		assert.Less(t, n.Start, slotEnd-s.SlotDuration+s.Jitter)
	}
}

func TestScheduleDeterministic(t *testing.T) {
	p := mustProgression(t, "Cmaj Gmaj Amin Fmaj")
	s := DefaultScheduler()
	a, err := s.ScheduleAll(p, DefaultCatalog(), seeded(42))
	require.NoError(t, err)
	b, err := s.ScheduleAll(p, DefaultCatalog(), seeded(42))
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestScheduleUnknownIdiom(t *testing.T) {
	s := DefaultScheduler()
	_, err := s.Schedule(mustProgression(t, "Cmaj"), Instrument{Name: "Kazoo", Idiom: "buzz"}, seeded(1))
	assert.ErrorIs(t, err, ErrUnknownIdiom)
}

func TestSchedulerValidate(t *testing.T) {
	require.NoError(t, DefaultScheduler().Validate())

	s := DefaultScheduler()
	s.SlotDuration = 0.3
	s.Velocity = Range{Min: 120, Max: 80}
	err := s.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "arpeggio")
	assert.Contains(t, err.Error(), "velocity")

	short := DefaultScheduler()
	short.SlotDuration = 1.0
	short.ArpeggioDelay = 0.1
	short.Jitter = 0.1
	assert.NoError(t, short.Validate())

	short.Groove = nil
	assert.ErrorContains(t, short.Validate(), "groove is empty")
}

func TestIdiomUnmarshalText(t *testing.T) {
	var i Idiom
	require.NoError(t, i.UnmarshalText([]byte("melodic-lead")))
	assert.Equal(t, IdiomMelodicLead, i)

	err := i.UnmarshalText([]byte("glissando"))
	assert.ErrorIs(t, err, ErrUnknownIdiom)
	assert.Equal(t, IdiomMelodicLead, i)
}

func TestGrooveRoundTrip(t *testing.T) {
	g, err := ParseGroove(DefaultGroove.String())
	require.NoError(t, err)
	assert.Equal(t, DefaultGroove, g)
	assert.Equal(t, 1.5, DefaultGroove.Span())

	_, err = ParseGroove("kick@x")
	assert.Error(t, err)
}
