package goserde_test

import (
	"github.com/goserde/goserde"
)

// user exercises the class protocol: a required name with an alternate, an
// optional age, a required-but-nullable email, and optional tags.
type user struct {
	Name  string
	Age   int32
	Email *string
	Tags  []string
}

type userSz struct {
	desc  goserde.Descriptor
	email goserde.Serializer[*string]
	tags  goserde.Serializer[[]string]
}

func newUserSz() userSz {
	email := goserde.Nullable(goserde.StringSerializer())
	tags := goserde.SliceSerializer(goserde.StringSerializer())
	desc := goserde.MustDescriptor("User", goserde.KindClass,
		goserde.Element{
			Name:        "name",
			Descriptor:  goserde.StringSerializer().Descriptor(),
			Annotations: goserde.Annotations{goserde.AnnotationAlternateNames: []string{"username"}},
		},
		goserde.Element{Name: "age", Descriptor: goserde.Int32Serializer().Descriptor(), Optional: true},
		goserde.Element{Name: "email", Descriptor: email.Descriptor()},
		goserde.Element{Name: "tags", Descriptor: tags.Descriptor(), Optional: true},
	)
	return userSz{desc: desc, email: email, tags: tags}
}

func (s userSz) Descriptor() goserde.Descriptor { return s.desc }

func (s userSz) Serialize(enc goserde.Encoder, v user) error {
	sub, err := enc.BeginStructure(s.desc)
	if err != nil {
		return err
	}
	if err := sub.EncodeElement(s.desc, 0); err != nil {
		return err
	}
	if err := sub.EncodeString(v.Name); err != nil {
		return err
	}
	if err := sub.EncodeElement(s.desc, 1); err != nil {
		return err
	}
	if err := sub.EncodeInt32(v.Age); err != nil {
		return err
	}
	if err := sub.EncodeElement(s.desc, 2); err != nil {
		return err
	}
	if err := s.email.Serialize(sub, v.Email); err != nil {
		return err
	}
	if err := sub.EncodeElement(s.desc, 3); err != nil {
		return err
	}
	if err := s.tags.Serialize(sub, v.Tags); err != nil {
		return err
	}
	return sub.EndStructure(s.desc)
}

func (s userSz) Deserialize(dec goserde.Decoder) (user, error) {
	var v user
	sub, err := dec.BeginStructure(s.desc)
	if err != nil {
		return v, err
	}
	var nameSeen, emailSeen bool
	for {
		i, err := sub.DecodeElementIndex(s.desc)
		if err != nil {
			return v, err
		}
		if i == goserde.DecodeDone {
			break
		}
		switch i {
		case 0:
			v.Name, err = sub.DecodeString()
			nameSeen = true
		case 1:
			v.Age, err = sub.DecodeInt32()
		case 2:
			v.Email, err = s.email.Deserialize(sub)
			emailSeen = true
		case 3:
			v.Tags, err = s.tags.Deserialize(sub)
		}
		if err != nil {
			return v, err
		}
	}
	if err := sub.EndStructure(s.desc); err != nil {
		return v, err
	}
	if !nameSeen {
		return v, goserde.MissingValueError(s.desc, 0, "")
	}
	if !emailSeen {
		return v, goserde.MissingValueError(s.desc, 2, "")
	}
	return v, nil
}

// ---- enum fixture ----

type color int

const (
	red color = iota
	green
	blue
)

var colorDesc = func() goserde.Descriptor {
	d, err := goserde.NewEnumDescriptorWith("Color",
		goserde.Element{
			Name:        "RED",
			Annotations: goserde.Annotations{goserde.AnnotationAlternateNames: []string{"CRIMSON"}},
		},
		goserde.Element{Name: "GREEN"},
		goserde.Element{Name: "BLUE"},
	)
	if err != nil {
		panic(err)
	}
	return d
}()

var colorSz = goserde.NewEnumSerializer[color](colorDesc)

// palette has one optional enum element defaulting to red; the coercion
// policy can downgrade bad input for it to "absent".
type palette struct {
	Primary color
}

type paletteSz struct {
	desc goserde.Descriptor
}

func newPaletteSz() paletteSz {
	return paletteSz{desc: goserde.MustDescriptor("Palette", goserde.KindClass,
		goserde.Element{Name: "primary", Descriptor: colorDesc, Optional: true},
	)}
}

func (s paletteSz) Descriptor() goserde.Descriptor { return s.desc }

func (s paletteSz) Serialize(enc goserde.Encoder, v palette) error {
	sub, err := enc.BeginStructure(s.desc)
	if err != nil {
		return err
	}
	if err := sub.EncodeElement(s.desc, 0); err != nil {
		return err
	}
	if err := sub.EncodeEnum(colorDesc, int(v.Primary)); err != nil {
		return err
	}
	return sub.EndStructure(s.desc)
}

func (s paletteSz) Deserialize(dec goserde.Decoder) (palette, error) {
	v := palette{Primary: red}
	sub, err := dec.BeginStructure(s.desc)
	if err != nil {
		return v, err
	}
	for {
		i, err := sub.DecodeElementIndex(s.desc)
		if err != nil {
			return v, err
		}
		if i == goserde.DecodeDone {
			break
		}
		if i == 0 {
			idx, err := sub.DecodeEnum(colorDesc)
			if err != nil {
				return v, err
			}
			v.Primary = color(idx)
		}
	}
	return v, sub.EndStructure(s.desc)
}

// stringsClassSz maps any class of string elements onto map[element name]
// value. Handy for naming-policy tests where only key resolution matters.
type stringsClassSz struct{ desc goserde.Descriptor }

func (s stringsClassSz) Descriptor() goserde.Descriptor { return s.desc }

func (s stringsClassSz) Serialize(enc goserde.Encoder, v map[string]string) error {
	sub, err := enc.BeginStructure(s.desc)
	if err != nil {
		return err
	}
	for i, n := 0, s.desc.NumElements(); i < n; i++ {
		val, ok := v[s.desc.ElementName(i)]
		if !ok {
			continue
		}
		if err := sub.EncodeElement(s.desc, i); err != nil {
			return err
		}
		if err := sub.EncodeString(val); err != nil {
			return err
		}
	}
	return sub.EndStructure(s.desc)
}

func (s stringsClassSz) Deserialize(dec goserde.Decoder) (map[string]string, error) {
	sub, err := dec.BeginStructure(s.desc)
	if err != nil {
		return nil, err
	}
	out := map[string]string{}
	for {
		i, err := sub.DecodeElementIndex(s.desc)
		if err != nil {
			return nil, err
		}
		if i == goserde.DecodeDone {
			break
		}
		val, err := sub.DecodeString()
		if err != nil {
			return nil, err
		}
		out[s.desc.ElementName(i)] = val
	}
	return out, sub.EndStructure(s.desc)
}

// ---- polymorphism fixture ----

type shape interface{ tag() string }

type circle struct{ R float64 }

func (circle) tag() string { return "circle" }

type rect struct{ W, H float64 }

func (rect) tag() string { return "rect" }

type circleSz struct{ desc goserde.Descriptor }

func newCircleSz() circleSz {
	return circleSz{desc: goserde.MustDescriptor("Circle", goserde.KindClass,
		goserde.Element{Name: "r", Descriptor: goserde.Float64Serializer().Descriptor()},
	)}
}

func (s circleSz) Descriptor() goserde.Descriptor { return s.desc }

func (s circleSz) Serialize(enc goserde.Encoder, v shape) error {
	c := v.(circle)
	sub, err := enc.BeginStructure(s.desc)
	if err != nil {
		return err
	}
	if err := sub.EncodeElement(s.desc, 0); err != nil {
		return err
	}
	if err := sub.EncodeFloat64(c.R); err != nil {
		return err
	}
	return sub.EndStructure(s.desc)
}

func (s circleSz) Deserialize(dec goserde.Decoder) (shape, error) {
	var c circle
	sub, err := dec.BeginStructure(s.desc)
	if err != nil {
		return nil, err
	}
	seen := false
	for {
		i, err := sub.DecodeElementIndex(s.desc)
		if err != nil {
			return nil, err
		}
		if i == goserde.DecodeDone {
			break
		}
		if i == 0 {
			if c.R, err = sub.DecodeFloat64(); err != nil {
				return nil, err
			}
			seen = true
		}
	}
	if err := sub.EndStructure(s.desc); err != nil {
		return nil, err
	}
	if !seen {
		return nil, goserde.MissingValueError(s.desc, 0, "")
	}
	return c, nil
}

type rectSz struct{ desc goserde.Descriptor }

func newRectSz() rectSz {
	return rectSz{desc: goserde.MustDescriptor("Rect", goserde.KindClass,
		goserde.Element{Name: "w", Descriptor: goserde.Float64Serializer().Descriptor()},
		goserde.Element{Name: "h", Descriptor: goserde.Float64Serializer().Descriptor()},
	)}
}

func (s rectSz) Descriptor() goserde.Descriptor { return s.desc }

func (s rectSz) Serialize(enc goserde.Encoder, v shape) error {
	r := v.(rect)
	sub, err := enc.BeginStructure(s.desc)
	if err != nil {
		return err
	}
	if err := sub.EncodeElement(s.desc, 0); err != nil {
		return err
	}
	if err := sub.EncodeFloat64(r.W); err != nil {
		return err
	}
	if err := sub.EncodeElement(s.desc, 1); err != nil {
		return err
	}
	if err := sub.EncodeFloat64(r.H); err != nil {
		return err
	}
	return sub.EndStructure(s.desc)
}

func (s rectSz) Deserialize(dec goserde.Decoder) (shape, error) {
	var r rect
	sub, err := dec.BeginStructure(s.desc)
	if err != nil {
		return nil, err
	}
	for {
		i, err := sub.DecodeElementIndex(s.desc)
		if err != nil {
			return nil, err
		}
		if i == goserde.DecodeDone {
			break
		}
		switch i {
		case 0:
			r.W, err = sub.DecodeFloat64()
		case 1:
			r.H, err = sub.DecodeFloat64()
		}
		if err != nil {
			return nil, err
		}
	}
	return r, sub.EndStructure(s.desc)
}

func newShapeSz() goserde.Serializer[shape] {
	sz, err := goserde.NewPolymorphicSerializer[shape]("Shape",
		func(s shape) string { return s.tag() },
		map[string]goserde.Serializer[shape]{
			"circle": newCircleSz(),
			"rect":   newRectSz(),
		})
	if err != nil {
		panic(err)
	}
	return sz
}
