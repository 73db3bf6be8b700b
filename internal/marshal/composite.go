package marshal

import (
	"encoding/binary"
	"strings"
)

const (
	componentSeparator = ':'
	escapeChar         = '\\'

	// endOfComponent is written after every component. Comparators use other values for range
	// bounds, stored cells always carry zero.
	endOfComponent = byte(0)
)

// CompositeType is a tuple of component types stored in a single cell. Every component is
// encoded as a 2-byte big-endian length, the value bytes, then an end-of-component byte.
type CompositeType struct {
	Types []AbstractType
}

func (c *CompositeType) Name() string {
	names := make([]string, len(c.Types))
	for i, t := range c.Types {
		names[i] = t.Name()
	}
	return "CompositeType(" + strings.Join(names, ",") + ")"
}

// Split returns the raw bytes of every component. The returned slices borrow from b.
func (c *CompositeType) Split(b []byte) ([][]byte, error) {
	var parts [][]byte
	for i := 0; i < len(b); {
		if len(parts) >= len(c.Types) {
			return nil, newError(ErrInvalidValue, "more than %d components in %s", len(c.Types),
				c.Name())
		}
		if len(b)-i < 2 {
			return nil, newError(ErrInvalidValue, "truncated length of component %d", len(parts))
		}
		l := int(binary.BigEndian.Uint16(b[i:]))
		i += 2

		if len(b)-i < l+1 {
			return nil, newError(ErrInvalidValue, "component %d needs %d bytes, only %d left",
				len(parts), l+1, len(b)-i)
		}
		parts = append(parts, b[i:i+l])
		i += l + 1
	}
	return parts, nil
}

// Components renders every component individually with its own type.
func (c *CompositeType) Components(b []byte) ([]string, error) {
	parts, err := c.Split(b)
	if err != nil {
		return nil, err
	}

	rendered := make([]string, len(parts))
	for i, p := range parts {
		s, renderErr := c.Types[i].String(p)
		if renderErr != nil {
			return nil, newError(ErrInvalidValue, "component %d of %s: %v", i, c.Name(), renderErr)
		}
		rendered[i] = s
	}
	return rendered, nil
}

// String renders the value with components joined by ':'. Separators and escape characters
// inside a component are escaped with '\'.
func (c *CompositeType) String(b []byte) (string, error) {
	components, err := c.Components(b)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	for i, s := range components {
		if i > 0 {
			sb.WriteByte(componentSeparator)
		}
		for j := 0; j < len(s); j++ {
			if s[j] == componentSeparator || s[j] == escapeChar {
				sb.WriteByte(escapeChar)
			}
			sb.WriteByte(s[j])
		}
	}
	return sb.String(), nil
}

// FromString parses the form produced by String.
func (c *CompositeType) FromString(s string) ([]byte, error) {
	var (
		components []string
		current    strings.Builder
	)
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case escapeChar:
			if i+1 < len(s) {
				i++
			}
			current.WriteByte(s[i])
		case componentSeparator:
			components = append(components, current.String())
			current.Reset()
		default:
			current.WriteByte(s[i])
		}
	}
	components = append(components, current.String())

	if len(components) > len(c.Types) {
		return nil, newError(ErrInvalidValue, "%d components given for %s", len(components),
			c.Name())
	}

	values := make([][]byte, len(components))
	for i, comp := range components {
		v, err := c.Types[i].FromString(comp)
		if err != nil {
			return nil, err
		}
		values[i] = v
	}
	return Compose(values...), nil
}

// Compose encodes already marshalled component values into a composite value.
func Compose(values ...[]byte) []byte {
	size := 0
	for _, v := range values {
		size += 3 + len(v)
	}

	out := make([]byte, 0, size)
	for _, v := range values {
		out = binary.BigEndian.AppendUint16(out, uint16(len(v)))
		out = append(out, v...)
		out = append(out, endOfComponent)
	}
	return out
}
