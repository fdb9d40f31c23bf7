package vars

import (
	"encoding/json"
	"fmt"
)

// encodedVariable is the wire form shared by every node type. The "type"
// discriminator preserves polymorphic subtype identity across the closed
// set of kinds.
type encodedVariable struct {
	Type        Kind        `json:"type"`
	ID          string      `json:"id,omitempty"`
	Key         string      `json:"key,omitempty"`
	DisplayName string      `json:"display_name,omitempty"`
	Int         *int        `json:"int,omitempty"`
	Float       *float64    `json:"float,omitempty"`
	Bool        *bool       `json:"bool,omitempty"`
	String      *string     `json:"string,omitempty"`
	EnumType    *EnumType   `json:"enum_type,omitempty"`
	EnumValue   string      `json:"enum_value,omitempty"`
	Name        string      `json:"name,omitempty"`
	Status      QuestStatus `json:"status,omitempty"`
	Target      *int        `json:"target,omitempty"`
	Progress    *int        `json:"progress,omitempty"`

	Children   []json.RawMessage `json:"children,omitempty"`
	Objectives []encodedVariable `json:"objectives,omitempty"`
}

// DecodeVariable reconstructs a node of the concrete type named by the
// "type" discriminator. Parent links are not set here; callers run
// RebuildParentLinks on the enclosing root once decoding is done.
func DecodeVariable(data []byte) (Variable, error) {
	var enc encodedVariable
	if err := json.Unmarshal(data, &enc); err != nil {
		return nil, fmt.Errorf("failed to decode variable: %w", err)
	}
	return decodeEncoded(&enc)
}

func decodeEncoded(enc *encodedVariable) (Variable, error) {
	base := node{id: enc.ID, key: enc.Key, displayName: enc.DisplayName}

	switch enc.Type {
	case KindGroup:
		g := &Group{node: base}
		for _, raw := range enc.Children {
			child, err := DecodeVariable(raw)
			if err != nil {
				return nil, err
			}
			g.children = append(g.children, child)
		}
		return g, nil

	case KindInt:
		l := &Leaf{node: base, kind: KindInt}
		if enc.Int != nil {
			l.intVal = *enc.Int
		}
		return l, nil

	case KindFloat:
		l := &Leaf{node: base, kind: KindFloat}
		if enc.Float != nil {
			l.floatVal = *enc.Float
		}
		return l, nil

	case KindBool:
		l := &Leaf{node: base, kind: KindBool}
		if enc.Bool != nil {
			l.boolVal = *enc.Bool
		}
		return l, nil

	case KindString:
		l := &Leaf{node: base, kind: KindString}
		if enc.String != nil {
			l.strVal = *enc.String
		}
		return l, nil

	case KindEnum:
		l := &Leaf{node: base, kind: KindEnum, enumVal: enc.EnumValue}
		l.enumType = canonicalEnumType(enc.EnumType)
		return l, nil

	case KindQuest:
		q := &Quest{node: base, name: enc.Name, status: enc.Status}
		if q.status == "" {
			q.status = QuestNotStarted
		}
		for i := range enc.Objectives {
			o, err := decodeEncoded(&enc.Objectives[i])
			if err != nil {
				return nil, err
			}
			obj, ok := o.(*Objective)
			if !ok {
				return nil, fmt.Errorf("quest %q objective %d has type %q, want %q", enc.Key, i, enc.Objectives[i].Type, KindObjective)
			}
			q.objectives = append(q.objectives, obj)
		}
		return q, nil

	case KindObjective:
		o := &Objective{node: base, name: enc.Name}
		if enc.Target != nil {
			o.target = *enc.Target
		}
		if enc.Progress != nil {
			o.progress = *enc.Progress
		}
		return o, nil
	}

	return nil, fmt.Errorf("unknown variable type %q", enc.Type)
}

// canonicalEnumType swaps a decoded enum type for the shared built-in
// declaration when the name matches, so identity comparisons keep working.
func canonicalEnumType(t *EnumType) *EnumType {
	if t == nil {
		return nil
	}
	if t.Name == QuestStatusType.Name {
		return QuestStatusType
	}
	return t
}

func (g *Group) MarshalJSON() ([]byte, error) {
	enc := encodedVariable{
		Type:        KindGroup,
		ID:          g.ID(),
		Key:         g.key,
		DisplayName: g.displayName,
	}
	for _, child := range g.children {
		raw, err := json.Marshal(child)
		if err != nil {
			return nil, err
		}
		enc.Children = append(enc.Children, raw)
	}
	return json.Marshal(enc)
}

func (g *Group) UnmarshalJSON(data []byte) error {
	v, err := DecodeVariable(data)
	if err != nil {
		return err
	}
	decoded, ok := v.(*Group)
	if !ok {
		return fmt.Errorf("expected group, got %q", v.Kind())
	}
	*g = *decoded
	return nil
}

func (l *Leaf) MarshalJSON() ([]byte, error) {
	enc := encodedVariable{
		Type:        l.kind,
		ID:          l.ID(),
		Key:         l.key,
		DisplayName: l.displayName,
	}
	switch l.kind {
	case KindInt:
		enc.Int = &l.intVal
	case KindFloat:
		enc.Float = &l.floatVal
	case KindBool:
		enc.Bool = &l.boolVal
	case KindString:
		enc.String = &l.strVal
	case KindEnum:
		enc.EnumType = l.enumType
		enc.EnumValue = l.enumVal
	}
	return json.Marshal(enc)
}

func (l *Leaf) UnmarshalJSON(data []byte) error {
	v, err := DecodeVariable(data)
	if err != nil {
		return err
	}
	decoded, ok := v.(*Leaf)
	if !ok {
		return fmt.Errorf("expected leaf, got %q", v.Kind())
	}
	*l = *decoded
	return nil
}

func (q *Quest) MarshalJSON() ([]byte, error) {
	enc := encodedVariable{
		Type:        KindQuest,
		ID:          q.ID(),
		Key:         q.key,
		DisplayName: q.displayName,
		Name:        q.name,
		Status:      q.status,
	}
	for _, o := range q.objectives {
		enc.Objectives = append(enc.Objectives, o.encoded())
	}
	return json.Marshal(enc)
}

func (q *Quest) UnmarshalJSON(data []byte) error {
	v, err := DecodeVariable(data)
	if err != nil {
		return err
	}
	decoded, ok := v.(*Quest)
	if !ok {
		return fmt.Errorf("expected quest, got %q", v.Kind())
	}
	*q = *decoded
	return nil
}

func (o *Objective) encoded() encodedVariable {
	return encodedVariable{
		Type:        KindObjective,
		ID:          o.ID(),
		Key:         o.key,
		DisplayName: o.displayName,
		Name:        o.name,
		Target:      &o.target,
		Progress:    &o.progress,
	}
}

func (o *Objective) MarshalJSON() ([]byte, error) {
	return json.Marshal(o.encoded())
}

func (o *Objective) UnmarshalJSON(data []byte) error {
	v, err := DecodeVariable(data)
	if err != nil {
		return err
	}
	decoded, ok := v.(*Objective)
	if !ok {
		return fmt.Errorf("expected objective, got %q", v.Kind())
	}
	*o = *decoded
	return nil
}
