package domain

// Args holds the resolved arguments of one invocation in payload order.
// Handlers consume them positionally.
type Args []any

func (a Args) at(i int) (any, bool) {
	if i < 0 || i >= len(a) {
		return nil, false
	}
	return a[i], true
}

func (a Args) String(i int) (string, bool) {
	v, ok := a.at(i)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

func (a Args) Int(i int) (int64, bool) {
	v, ok := a.at(i)
	if !ok {
		return 0, false
	}
	n, ok := v.(int64)
	return n, ok
}

func (a Args) Float(i int) (float64, bool) {
	v, ok := a.at(i)
	if !ok {
		return 0, false
	}
	f, ok := v.(float64)
	return f, ok
}

func (a Args) Bool(i int) (bool, bool) {
	v, ok := a.at(i)
	if !ok {
		return false, false
	}
	b, ok := v.(bool)
	return b, ok
}

func (a Args) Member(i int) (*Member, bool) {
	v, ok := a.at(i)
	if !ok {
		return nil, false
	}
	m, ok := v.(*Member)
	return m, ok
}

func (a Args) Channel(i int) (*Channel, bool) {
	v, ok := a.at(i)
	if !ok {
		return nil, false
	}
	c, ok := v.(*Channel)
	return c, ok
}

func (a Args) Role(i int) (*Role, bool) {
	v, ok := a.at(i)
	if !ok {
		return nil, false
	}
	r, ok := v.(*Role)
	return r, ok
}

func (a Args) Message(i int) (*Message, bool) {
	v, ok := a.at(i)
	if !ok {
		return nil, false
	}
	m, ok := v.(*Message)
	return m, ok
}
