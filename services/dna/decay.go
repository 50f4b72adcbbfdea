package dna

// DecayDNA is the parameter record of the Decay variant: a layered crater
// split by coloured cracks. Colours are fixed-cardinality discrete fields.
type DecayDNA struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Size        float64 `json:"size" validate:"gte=0.5,lte=4"`
	AspectRatio float64 `json:"aspectRatio" validate:"gte=0.7,lte=2"`
	EdgeWobble  float64 `json:"edgeWobble" validate:"gte=0,lte=1"`
	Layer1Color string  `json:"layer1Color" validate:"dnacolor"`
	Layer2Color string  `json:"layer2Color" validate:"dnacolor"`
	Layer3Color string  `json:"layer3Color" validate:"dnacolor"`
	CrackCount  int     `json:"crackCount" validate:"gte=4,lte=12"`
	CrackWobble float64 `json:"crackWobble" validate:"gte=0,lte=1"`
	Crack1Color string  `json:"crack1Color" validate:"dnacolor"`
	Crack2Color string  `json:"crack2Color" validate:"dnacolor"`
	Crack3Color string  `json:"crack3Color" validate:"dnacolor"`
}

// DefaultDecay returns the Decay shown at startup.
func DefaultDecay() DecayDNA {
	return DecayDNA{
		Name:        "Fracture",
		Description: "A wound in the earth",
		Size:        1.5,
		AspectRatio: 1.0,
		EdgeWobble:  0.3,
		Layer1Color: "#333333",
		Layer2Color: "#555555",
		Layer3Color: "#777777",
		CrackCount:  8,
		CrackWobble: 0.4,
		Crack1Color: "#ffffff",
		Crack2Color: "#cccccc",
		Crack3Color: "#aaaaaa",
	}
}

// Variant implements Record.
func (DecayDNA) Variant() Variant { return VariantDecay }

// Validate implements Record.
func (d DecayDNA) Validate() error { return Decay.Validate(d) }

func (DecayDNA) isRecord() {}

// Clone implements Value. DecayDNA holds no slices.
func (d DecayDNA) Clone() DecayDNA { return d }

var decayFields = []FieldSpec{
	textSpec("name"),
	textSpec("description"),
	floatSpec("size", 0.5, 4),
	floatSpec("aspectRatio", 0.7, 2),
	floatSpec("edgeWobble", 0, 1),
	colorSpec("layer1Color"),
	colorSpec("layer2Color"),
	colorSpec("layer3Color"),
	intSpec("crackCount", 4, 12),
	floatSpec("crackWobble", 0, 1),
	colorSpec("crack1Color"),
	colorSpec("crack2Color"),
	colorSpec("crack3Color"),
}

// Decay is the Decay variant schema.
var Decay = newSchema(VariantDecay, decayFields, DefaultDecay,
	[]NumericField[DecayDNA]{
		numeric(FieldSpec{Name: "size"},
			func(d DecayDNA) float64 { return d.Size },
			func(d *DecayDNA, v float64) { d.Size = v }),
		numeric(FieldSpec{Name: "aspectRatio"},
			func(d DecayDNA) float64 { return d.AspectRatio },
			func(d *DecayDNA, v float64) { d.AspectRatio = v }),
		numeric(FieldSpec{Name: "edgeWobble"},
			func(d DecayDNA) float64 { return d.EdgeWobble },
			func(d *DecayDNA, v float64) { d.EdgeWobble = v }),
		numeric(FieldSpec{Name: "crackCount"},
			func(d DecayDNA) float64 { return float64(d.CrackCount) },
			func(d *DecayDNA, v float64) { d.CrackCount = int(v) }),
		numeric(FieldSpec{Name: "crackWobble"},
			func(d DecayDNA) float64 { return d.CrackWobble },
			func(d *DecayDNA, v float64) { d.CrackWobble = v }),
	},
	func(d DecayDNA) DecayDNA {
		for _, c := range []*string{&d.Layer1Color, &d.Layer2Color, &d.Layer3Color,
			&d.Crack1Color, &d.Crack2Color, &d.Crack3Color} {
			*c = normColor(*c)
		}
		return d
	},
)

// DecayPatch is a sparse update of DecayDNA.
type DecayPatch struct {
	Name        *string  `json:"name,omitempty"`
	Description *string  `json:"description,omitempty"`
	Size        *float64 `json:"size,omitempty"`
	AspectRatio *float64 `json:"aspectRatio,omitempty"`
	EdgeWobble  *float64 `json:"edgeWobble,omitempty"`
	Layer1Color *string  `json:"layer1Color,omitempty"`
	Layer2Color *string  `json:"layer2Color,omitempty"`
	Layer3Color *string  `json:"layer3Color,omitempty"`
	CrackCount  *int     `json:"crackCount,omitempty"`
	CrackWobble *float64 `json:"crackWobble,omitempty"`
	Crack1Color *string  `json:"crack1Color,omitempty"`
	Crack2Color *string  `json:"crack2Color,omitempty"`
	Crack3Color *string  `json:"crack3Color,omitempty"`
}

// PatchVariant implements Patch.
func (DecayPatch) PatchVariant() Variant { return VariantDecay }

func (DecayPatch) isPatch() {}

// Fields implements Patch.
func (p DecayPatch) Fields() []string {
	var n fieldNames
	n.add(p.Name != nil, "name")
	n.add(p.Description != nil, "description")
	n.add(p.Size != nil, "size")
	n.add(p.AspectRatio != nil, "aspectRatio")
	n.add(p.EdgeWobble != nil, "edgeWobble")
	n.add(p.Layer1Color != nil, "layer1Color")
	n.add(p.Layer2Color != nil, "layer2Color")
	n.add(p.Layer3Color != nil, "layer3Color")
	n.add(p.CrackCount != nil, "crackCount")
	n.add(p.CrackWobble != nil, "crackWobble")
	n.add(p.Crack1Color != nil, "crack1Color")
	n.add(p.Crack2Color != nil, "crack2Color")
	n.add(p.Crack3Color != nil, "crack3Color")
	return n
}

// ApplyTo implements PatchFor[DecayDNA].
func (p DecayPatch) ApplyTo(rec DecayDNA) (DecayDNA, []ValidationError) {
	out := rec
	a := patchApplier{variant: VariantDecay, lookup: Decay.Field}

	a.setText(&out.Name, p.Name)
	a.setText(&out.Description, p.Description)
	a.setFloat("size", &out.Size, p.Size)
	a.setFloat("aspectRatio", &out.AspectRatio, p.AspectRatio)
	a.setFloat("edgeWobble", &out.EdgeWobble, p.EdgeWobble)
	a.setColor("layer1Color", &out.Layer1Color, p.Layer1Color)
	a.setColor("layer2Color", &out.Layer2Color, p.Layer2Color)
	a.setColor("layer3Color", &out.Layer3Color, p.Layer3Color)
	a.setInt("crackCount", &out.CrackCount, p.CrackCount)
	a.setFloat("crackWobble", &out.CrackWobble, p.CrackWobble)
	a.setColor("crack1Color", &out.Crack1Color, p.Crack1Color)
	a.setColor("crack2Color", &out.Crack2Color, p.Crack2Color)
	a.setColor("crack3Color", &out.Crack3Color, p.Crack3Color)

	return out, a.errs
}
