package dna

import "math"

// Internal Sprout parameters. No control edits them; Normalize resets the
// fixed ones and Validate rejects any other value.
const (
	SproutBudPointiness = 0.5
	SproutStemHeight    = 1.0
	SproutStemThickness = 0.8
)

// SproutDNA is the parameter record of the Sprout variant: a striped bud on
// a curved stem between two seed leaves (cotyledons).
//
// BudPointiness, StemHeight and StemThickness are internal. SproutPatch has
// no fields for them, so DecodePatch rejects any edit naming them.
type SproutDNA struct {
	Name            string  `json:"name"`
	Description     string  `json:"description"`
	BudColor        string  `json:"budColor" validate:"dnacolor"`
	BudStripe2Color string  `json:"budStripe2Color" validate:"dnacolor"`
	BudStripe3Color string  `json:"budStripe3Color" validate:"dnacolor"`
	BudSize         float64 `json:"budSize" validate:"gte=0.7,lte=1.3"`
	BudPointiness   float64 `json:"budPointiness" validate:"gte=0,lte=1"`
	StemColor       string  `json:"stemColor" validate:"dnacolor"`
	StemHeight      float64 `json:"stemHeight" validate:"eq=1"`
	StemCurve       float64 `json:"stemCurve" validate:"gte=-0.5,lte=0.5"`
	StemThickness   float64 `json:"stemThickness" validate:"eq=0.8"`
	Cotyledon1Color string  `json:"cotyledon1Color" validate:"dnacolor"`
	Cotyledon2Color string  `json:"cotyledon2Color" validate:"dnacolor"`
	CotyledonSize   float64 `json:"cotyledonSize" validate:"gte=0.7,lte=1.3"`
	SwaySpeed       float64 `json:"swaySpeed" validate:"gte=0.2,lte=1.5"`
	SwayAmount      float64 `json:"swayAmount" validate:"gte=0.05,lte=0.5"`
	Scale           float64 `json:"scale" validate:"gte=0.4,lte=0.7"`
}

// DefaultSprout returns the Sprout shown at startup.
func DefaultSprout() SproutDNA {
	return SproutDNA{
		Name:            "Seedling",
		Description:     "A tender shoot reaching for the light.",
		BudColor:        "#7cfc00",
		BudStripe2Color: "#9acd32",
		BudStripe3Color: "#556b2f",
		BudSize:         1.0,
		BudPointiness:   SproutBudPointiness,
		StemColor:       "#6b8e23",
		StemHeight:      SproutStemHeight,
		StemCurve:       0.1,
		StemThickness:   SproutStemThickness,
		Cotyledon1Color: "#90ee90",
		Cotyledon2Color: "#8fbc8f",
		CotyledonSize:   1.0,
		SwaySpeed:       0.6,
		SwayAmount:      0.15,
		Scale:           0.55,
	}
}

// Variant implements Record.
func (SproutDNA) Variant() Variant { return VariantSprout }

// Validate implements Record.
func (d SproutDNA) Validate() error { return Sprout.Validate(d) }

func (SproutDNA) isRecord() {}

// Clone implements Value. SproutDNA holds no slices.
func (d SproutDNA) Clone() SproutDNA { return d }

var sproutFields = []FieldSpec{
	textSpec("name"),
	textSpec("description"),
	colorSpec("budColor"),
	colorSpec("budStripe2Color"),
	colorSpec("budStripe3Color"),
	floatSpec("budSize", 0.7, 1.3),
	floatSpec("budPointiness", 0, 1).internal(),
	colorSpec("stemColor"),
	floatSpec("stemHeight", SproutStemHeight, SproutStemHeight).internal(),
	floatSpec("stemCurve", -0.5, 0.5),
	floatSpec("stemThickness", SproutStemThickness, SproutStemThickness).internal(),
	colorSpec("cotyledon1Color"),
	colorSpec("cotyledon2Color"),
	floatSpec("cotyledonSize", 0.7, 1.3),
	floatSpec("swaySpeed", 0.2, 1.5),
	floatSpec("swayAmount", 0.05, 0.5),
	floatSpec("scale", 0.4, 0.7),
}

// Sprout is the Sprout variant schema. Internal fields have no numeric
// accessor, so nudge and pulse cannot address them.
var Sprout = newSchema(VariantSprout, sproutFields, DefaultSprout,
	[]NumericField[SproutDNA]{
		numeric(FieldSpec{Name: "budSize"},
			func(d SproutDNA) float64 { return d.BudSize },
			func(d *SproutDNA, v float64) { d.BudSize = v }),
		numeric(FieldSpec{Name: "stemCurve"},
			func(d SproutDNA) float64 { return d.StemCurve },
			func(d *SproutDNA, v float64) { d.StemCurve = v }),
		numeric(FieldSpec{Name: "cotyledonSize"},
			func(d SproutDNA) float64 { return d.CotyledonSize },
			func(d *SproutDNA, v float64) { d.CotyledonSize = v }),
		numeric(FieldSpec{Name: "swaySpeed"},
			func(d SproutDNA) float64 { return d.SwaySpeed },
			func(d *SproutDNA, v float64) { d.SwaySpeed = v }),
		numeric(FieldSpec{Name: "swayAmount"},
			func(d SproutDNA) float64 { return d.SwayAmount },
			func(d *SproutDNA, v float64) { d.SwayAmount = v }),
		numeric(FieldSpec{Name: "scale"},
			func(d SproutDNA) float64 { return d.Scale },
			func(d *SproutDNA, v float64) { d.Scale = v }),
	},
	func(d SproutDNA) SproutDNA {
		if math.IsNaN(d.BudPointiness) || d.BudPointiness < 0 || d.BudPointiness > 1 {
			d.BudPointiness = SproutBudPointiness
		}
		d.StemHeight = SproutStemHeight
		d.StemThickness = SproutStemThickness
		for _, c := range []*string{&d.BudColor, &d.BudStripe2Color, &d.BudStripe3Color,
			&d.StemColor, &d.Cotyledon1Color, &d.Cotyledon2Color} {
			*c = normColor(*c)
		}
		return d
	},
)

// SproutPatch is a sparse update of the editable SproutDNA fields.
type SproutPatch struct {
	Name            *string  `json:"name,omitempty"`
	Description     *string  `json:"description,omitempty"`
	BudColor        *string  `json:"budColor,omitempty"`
	BudStripe2Color *string  `json:"budStripe2Color,omitempty"`
	BudStripe3Color *string  `json:"budStripe3Color,omitempty"`
	BudSize         *float64 `json:"budSize,omitempty"`
	StemColor       *string  `json:"stemColor,omitempty"`
	StemCurve       *float64 `json:"stemCurve,omitempty"`
	Cotyledon1Color *string  `json:"cotyledon1Color,omitempty"`
	Cotyledon2Color *string  `json:"cotyledon2Color,omitempty"`
	CotyledonSize   *float64 `json:"cotyledonSize,omitempty"`
	SwaySpeed       *float64 `json:"swaySpeed,omitempty"`
	SwayAmount      *float64 `json:"swayAmount,omitempty"`
	Scale           *float64 `json:"scale,omitempty"`
}

// PatchVariant implements Patch.
func (SproutPatch) PatchVariant() Variant { return VariantSprout }

func (SproutPatch) isPatch() {}

// Fields implements Patch.
func (p SproutPatch) Fields() []string {
	var n fieldNames
	n.add(p.Name != nil, "name")
	n.add(p.Description != nil, "description")
	n.add(p.BudColor != nil, "budColor")
	n.add(p.BudStripe2Color != nil, "budStripe2Color")
	n.add(p.BudStripe3Color != nil, "budStripe3Color")
	n.add(p.BudSize != nil, "budSize")
	n.add(p.StemColor != nil, "stemColor")
	n.add(p.StemCurve != nil, "stemCurve")
	n.add(p.Cotyledon1Color != nil, "cotyledon1Color")
	n.add(p.Cotyledon2Color != nil, "cotyledon2Color")
	n.add(p.CotyledonSize != nil, "cotyledonSize")
	n.add(p.SwaySpeed != nil, "swaySpeed")
	n.add(p.SwayAmount != nil, "swayAmount")
	n.add(p.Scale != nil, "scale")
	return n
}

// ApplyTo implements PatchFor[SproutDNA].
func (p SproutPatch) ApplyTo(rec SproutDNA) (SproutDNA, []ValidationError) {
	out := rec
	a := patchApplier{variant: VariantSprout, lookup: Sprout.Field}

	a.setText(&out.Name, p.Name)
	a.setText(&out.Description, p.Description)
	a.setColor("budColor", &out.BudColor, p.BudColor)
	a.setColor("budStripe2Color", &out.BudStripe2Color, p.BudStripe2Color)
	a.setColor("budStripe3Color", &out.BudStripe3Color, p.BudStripe3Color)
	a.setFloat("budSize", &out.BudSize, p.BudSize)
	a.setColor("stemColor", &out.StemColor, p.StemColor)
	a.setFloat("stemCurve", &out.StemCurve, p.StemCurve)
	a.setColor("cotyledon1Color", &out.Cotyledon1Color, p.Cotyledon1Color)
	a.setColor("cotyledon2Color", &out.Cotyledon2Color, p.Cotyledon2Color)
	a.setFloat("cotyledonSize", &out.CotyledonSize, p.CotyledonSize)
	a.setFloat("swaySpeed", &out.SwaySpeed, p.SwaySpeed)
	a.setFloat("swayAmount", &out.SwayAmount, p.SwayAmount)
	a.setFloat("scale", &out.Scale, p.Scale)

	return out, a.errs
}
