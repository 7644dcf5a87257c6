/*
 * Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
 *
 * Licensed under the Apache License, Version 2.0 (the "License").
 * You may not use this file except in compliance with the License.
 * A copy of the License is located at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * or in the "license" file accompanying this file. This file is distributed
 * on an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either
 * express or implied. See the License for the specific language governing
 * permissions and limitations under the License.
 */

package msd

// ctx is the current reader or writer context.
type ctx uint8

const (
	ctxAtTopLevel ctx = iota
	ctxInStruct
	ctxInTuple
	ctxInSeq
	ctxInMap
)

func (c ctx) String() string {
	switch c {
	case ctxAtTopLevel:
		return "top level"
	case ctxInStruct:
		return "struct"
	case ctxInTuple:
		return "tuple"
	case ctxInSeq:
		return "seq"
	case ctxInMap:
		return "map"
	default:
		return "<unknown context>"
	}
}

// position is where in a record the next value goes.
type position uint8

const (
	posRoot position = iota
	posField
	posParam
	posMapKey
)

func (p position) String() string {
	switch p {
	case posRoot:
		return "root"
	case posField:
		return "field"
	case posParam:
		return "parameter"
	case posMapKey:
		return "map key"
	default:
		return "<unknown position>"
	}
}

// kindSet is a bit set of Kinds.
type kindSet uint32

func kinds(ks ...Kind) kindSet {
	s := kindSet(0)
	for _, k := range ks {
		s |= 1 << k
	}
	return s
}

func (s kindSet) has(k Kind) bool {
	return s&(1<<k) != 0
}

var (
	scalarKinds  = kinds(BoolKind, IntKind, UintKind, FloatKind, DecimalKind, CharKind)
	payloadKinds = scalarKinds | kinds(StringKind, BytesKind, UnitKind, TupleKind, MapKind, StructKind)
)

// legalKinds lists the kinds that may be written or read at each position.
var legalKinds = [...]kindSet{
	posRoot:   scalarKinds | kinds(StructKind, VariantKind),
	posField:  payloadKinds | kinds(NoneKind, SeqKind, VariantKind),
	posParam:  payloadKinds | kinds(NoneKind, VariantKind),
	posMapKey: scalarKinds | kinds(StringKind, BytesKind),
}

// legalVariantKinds lists the kinds that may follow a variant name at each
// position.
var legalVariantKinds = [...]kindSet{
	posRoot:   kinds(StructKind),
	posField:  payloadKinds | kinds(SeqKind),
	posParam:  payloadKinds,
	posMapKey: 0,
}

// checkKind returns an UnsupportedTypeError if a value of kind k cannot go at
// position p.
func checkKind(api string, p position, k Kind, variant bool) error {
	legal := legalKinds[p]
	where := p.String()
	if variant {
		legal = legalVariantKinds[p]
		where = "variant at " + where
	}
	if !legal.has(k) {
		return &UnsupportedTypeError{api, k, where}
	}
	return nil
}

// frame is one level of the context stack.
type frame struct {
	ctx ctx

	// depth is the depth of the records this container owns: struct fields,
	// map entries or seq elements.
	depth int

	// count is the number of fields, entries or elements seen so far.
	count int

	// key is true in a map when the next value is an entry's key.
	key bool

	// arity is the declared number of tuple elements when reading.
	arity int

	// done is set once a Reader has seen the end of the container.
	done bool

	// fields are the field names declared to Reader.BeginStruct.
	fields []string
	seen   map[string]bool
}

// position returns where the next value in this frame goes.
func (f *frame) position() position {
	switch f.ctx {
	case ctxAtTopLevel:
		return posRoot
	case ctxInStruct:
		return posField
	case ctxInMap:
		if f.key {
			return posMapKey
		}
		return posParam
	default:
		return posParam
	}
}

// ctxstack is a context stack. The bottom frame is always the top level.
type ctxstack struct {
	arr []frame
}

func newCtxstack() ctxstack {
	return ctxstack{arr: []frame{{ctx: ctxAtTopLevel}}}
}

// peek returns the current frame.
func (c *ctxstack) peek() *frame {
	return &c.arr[len(c.arr)-1]
}

// push pushes a new frame onto the stack.
func (c *ctxstack) push(f frame) {
	c.arr = append(c.arr, f)
}

// pop pops the top frame off the stack.
func (c *ctxstack) pop() {
	if len(c.arr) == 1 {
		panic("pop called at top level")
	}
	c.arr = c.arr[:len(c.arr)-1]
}

// atTopLevel returns true if no container is open.
func (c *ctxstack) atTopLevel() bool {
	return len(c.arr) == 1
}
