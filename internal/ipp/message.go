package ipp

import "fmt"

// Attribute is a named, possibly multi-valued IPP attribute (the
// 1setOf-continuation is flattened into Values at decode time).
type Attribute struct {
	Name   string
	Values []Value
}

// AttributeGroup is one group-delimiter section (operation/job/printer/
// unsupported attributes) together with the attributes inside it.
type AttributeGroup struct {
	Tag        Tag
	Attributes []Attribute
}

// Message is the shared shape of an IPP request and an IPP response:
// version, a 2-byte operation-or-status code, a request-id, and a list
// of attribute groups terminated by end-of-attributes-tag.
type Message struct {
	Version   Version
	RequestID uint32
	Groups    []AttributeGroup
}

// Request is an incoming IPP request: a Message plus the operation-id
// and any trailing document data (e.g. the print payload after
// end-of-attributes-tag in a Print-Job request).
type Request struct {
	Message
	Operation Operation
	Data      []byte
}

// Response is an outgoing IPP response: a Message plus the status code.
type Response struct {
	Message
	Status Status
	Data   []byte
}

// NewResponse builds a bare response that echoes the request's version
// and request-id, the two fields every response must carry regardless
// of outcome.
func NewResponse(req *Request, status Status) *Response {
	return &Response{
		Message: Message{Version: req.Version, RequestID: req.RequestID},
		Status:  status,
	}
}

// AddGroup appends a new, empty attribute group and returns a pointer
// to it, the idiom used when building up operation/job/printer attribute
// sections one attribute at a time.
func (m *Message) AddGroup(tag Tag) *AttributeGroup {
	m.Groups = append(m.Groups, AttributeGroup{Tag: tag})
	return &m.Groups[len(m.Groups)-1]
}

// Add appends a single-valued attribute to the group.
func (g *AttributeGroup) Add(name string, value Value) {
	g.Attributes = append(g.Attributes, Attribute{Name: name, Values: []Value{value}})
}

// AddMulti appends a multi-valued (1setOf) attribute to the group.
func (g *AttributeGroup) AddMulti(name string, values ...Value) {
	g.Attributes = append(g.Attributes, Attribute{Name: name, Values: values})
}

// group returns the first group in the message with the given tag, or
// nil if there isn't one.
func (m *Message) group(tag Tag) *AttributeGroup {
	for i := range m.Groups {
		if m.Groups[i].Tag == tag {
			return &m.Groups[i]
		}
	}
	return nil
}

// OperationAttrs returns the operation-attributes group, creating an
// empty one if the message doesn't have one yet.
func (m *Message) OperationAttrs() *AttributeGroup {
	if g := m.group(TagOperationAttrs); g != nil {
		return g
	}
	return m.AddGroup(TagOperationAttrs)
}

// Lookup finds the first attribute with the given name in the given
// group tag and returns its first value. ok is false if either the
// group or the attribute is absent.
func (m *Message) Lookup(groupTag Tag, name string) (Value, bool) {
	g := m.group(groupTag)
	if g == nil {
		return nil, false
	}
	for _, a := range g.Attributes {
		if a.Name == name && len(a.Values) > 0 {
			return a.Values[0], true
		}
	}
	return nil, false
}

// Only returns every value for the named attribute in the given group,
// the 1setOf-multivalued counterpart of Lookup.
func (m *Message) Only(groupTag Tag, name string) []Value {
	g := m.group(groupTag)
	if g == nil {
		return nil
	}
	for _, a := range g.Attributes {
		if a.Name == name {
			return a.Values
		}
	}
	return nil
}

// AttributesToMultilevel flattens a group's attributes into a
// name->values map, the shape callers that just want "give me
// everything in the job-attributes group" want.
func (m *Message) AttributesToMultilevel(groupTag Tag) map[string][]Value {
	g := m.group(groupTag)
	if g == nil {
		return nil
	}
	out := make(map[string][]Value, len(g.Attributes))
	for _, a := range g.Attributes {
		out[a.Name] = a.Values
	}
	return out
}

// LookupString is a convenience wrapper over Lookup for the common case
// of a text/keyword/uri/name attribute, returning "" if absent or not a
// string-shaped value.
func (m *Message) LookupString(groupTag Tag, name string) (string, bool) {
	v, ok := m.Lookup(groupTag, name)
	if !ok {
		return "", false
	}
	switch s := v.(type) {
	case Keyword:
		return string(s), true
	case URI:
		return string(s), true
	case TextWithoutLang:
		return string(s), true
	case NameWithoutLang:
		return string(s), true
	case MimeMediaType:
		return string(s), true
	case Charset:
		return string(s), true
	case NaturalLanguage:
		return string(s), true
	default:
		return "", false
	}
}

// LookupInt is a convenience wrapper over Lookup for integer/enum values.
func (m *Message) LookupInt(groupTag Tag, name string) (int32, bool) {
	v, ok := m.Lookup(groupTag, name)
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case Integer:
		return int32(n), true
	case Enum:
		return int32(n), true
	default:
		return 0, false
	}
}

// LookupBool is a convenience wrapper over Lookup for boolean values.
func (m *Message) LookupBool(groupTag Tag, name string) (bool, bool) {
	v, ok := m.Lookup(groupTag, name)
	if !ok {
		return false, false
	}
	b, ok := v.(Boolean)
	if !ok {
		return false, false
	}
	return bool(b), true
}

// String renders a Message's groups for debug logging.
func (m Message) String() string {
	return fmt.Sprintf("ipp.Message{version=%d.%d request-id=%d groups=%d}",
		m.Version.Major, m.Version.Minor, m.RequestID, len(m.Groups))
}
