package dna

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults_AreValid(t *testing.T) {
	require.NoError(t, DefaultFlower().Validate())
	require.NoError(t, DefaultDecay().Validate())
	require.NoError(t, DefaultSprout().Validate())
}

func TestParseVariant(t *testing.T) {
	tests := []struct {
		in      string
		want    Variant
		wantErr bool
	}{
		{"flower", VariantFlower, false},
		{"Decay", VariantDecay, false},
		{" sprout ", VariantSprout, false},
		{"tree", VariantFlower, true},
		{"", VariantFlower, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseVariant(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got, mustParse(t, got.String()))
		})
	}
}

func mustParse(t *testing.T, s string) Variant {
	t.Helper()
	v, err := ParseVariant(s)
	require.NoError(t, err)
	return v
}

func TestVariant_NextWraps(t *testing.T) {
	assert.Equal(t, VariantDecay, VariantFlower.Next())
	assert.Equal(t, VariantSprout, VariantDecay.Next())
	assert.Equal(t, VariantFlower, VariantSprout.Next())
}

// Every bounded numeric field must accept its endpoints and reject values
// just outside them, which keeps the struct tags aligned with the specs.
func TestFlowerSchema_TagsMatchSpecs(t *testing.T) {
	checkTagsMatchSpecs(t, Flower)
}

func TestDecaySchema_TagsMatchSpecs(t *testing.T) {
	checkTagsMatchSpecs(t, Decay)
}

func TestSproutSchema_TagsMatchSpecs(t *testing.T) {
	checkTagsMatchSpecs(t, Sprout)
}

func checkTagsMatchSpecs[T Value[T]](t *testing.T, s *Schema[T]) {
	t.Helper()
	for _, f := range s.Fields() {
		nf, ok := s.Numeric(f.Name)
		if !ok || !f.Bounded {
			continue
		}
		t.Run(f.Name, func(t *testing.T) {
			eps := 0.01
			if f.Kind == KindInt {
				eps = 1
			}
			for _, v := range []float64{f.Min, f.Max} {
				rec := nf.With(s.Default(), v)
				assert.NoError(t, s.Validate(rec), "value %v", v)
			}
			above := s.Default()
			nf.set(&above, f.Max+eps)
			assert.ErrorIs(t, s.Validate(above), ErrValidation)

			below := s.Default()
			nf.set(&below, f.Min-eps)
			assert.ErrorIs(t, s.Validate(below), ErrValidation)
		})
	}
}

func TestFieldSpec_Clamp(t *testing.T) {
	tests := []struct {
		name string
		spec FieldSpec
		in   float64
		want float64
	}{
		{"inside", floatSpec("f", 0, 1), 0.4, 0.4},
		{"below", floatSpec("f", 0, 1), -3, 0},
		{"above", floatSpec("f", 0, 1), 7, 1},
		{"int rounds", intSpec("i", 3, 32), 7.6, 8},
		{"int rounds then clamps", intSpec("i", 3, 32), 40.2, 32},
		{"unbounded", unboundedFloatSpec("u"), -1234.5, -1234.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.spec.Clamp(tt.in))
		})
	}
}

func TestSchema_NormalizeRepairsRecord(t *testing.T) {
	rec := DefaultFlower()
	rec.PetalCount = 99
	rec.Scale = math.NaN()
	rec.PetalColors = []string{"#ABC"}
	rec.CenterColor = "#FFD700"

	got := Flower.Normalize(rec)

	assert.Equal(t, 32, got.PetalCount)
	assert.Equal(t, DefaultFlower().Scale, got.Scale)
	assert.Equal(t, []string{"#aabbcc"}, got.PetalColors)
	assert.Equal(t, "#ffd700", got.CenterColor)
	require.NoError(t, got.Validate())

	assert.Equal(t, 99, rec.PetalCount, "input must not be modified")
}

func TestSprout_NormalizeResetsFixedFields(t *testing.T) {
	rec := DefaultSprout()
	rec.StemHeight = 3
	rec.StemThickness = 0.1
	rec.BudPointiness = math.Inf(1)

	got := Sprout.Normalize(rec)

	assert.Equal(t, SproutStemHeight, got.StemHeight)
	assert.Equal(t, SproutStemThickness, got.StemThickness)
	assert.Equal(t, SproutBudPointiness, got.BudPointiness)
	require.NoError(t, got.Validate())
}

func TestSprout_ValidateRejectsFixedFieldDrift(t *testing.T) {
	rec := DefaultSprout()
	rec.StemHeight = 1.2

	err := rec.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidation)

	var ve ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "stemHeight", ve.Field)
	assert.Equal(t, VariantSprout, ve.Variant)
}

func TestSchema_InternalFieldsNotNumericallyAddressable(t *testing.T) {
	for _, name := range []string{"budPointiness", "stemHeight", "stemThickness"} {
		f, ok := Sprout.Field(name)
		require.True(t, ok, name)
		assert.False(t, f.Editable, name)
		_, ok = Sprout.Numeric(name)
		assert.False(t, ok, name)
	}
}

func TestValidate_ReportsFieldNames(t *testing.T) {
	rec := DefaultFlower()
	rec.PetalColors = []string{"#ff0088", "pink"}
	rec.StemColors = nil
	rec.LeafOrientation = math.Inf(-1)

	err := rec.Validate()
	require.Error(t, err)

	fields := map[string]bool{}
	var joined interface{ Unwrap() []error }
	require.True(t, errors.As(err, &joined))
	for _, e := range joined.Unwrap() {
		var ve ValidationError
		require.True(t, errors.As(e, &ve))
		fields[ve.Field] = true
	}
	assert.True(t, fields["petalColors"])
	assert.True(t, fields["stemColors"])
	assert.True(t, fields["leafOrientation"])
}

func TestFlower_ScaleControlRange(t *testing.T) {
	f, ok := Flower.Field("scale")
	require.True(t, ok)
	assert.Equal(t, 0.2, f.Min)
	assert.Equal(t, 2.0, f.Max)
	assert.Equal(t, 0.5, f.ControlMin)
	assert.Equal(t, 2.0, f.ControlMax)
}
