// Package derive builds schema nodes from Go types.
//
// Exported struct fields become object properties in declaration order,
// named by ResolveStructKey (jskema:"name=..." > json tag > field name).
// Embedded structs without a json name are flattened. The jskema struct tag
// adds annotations and constraints:
//
//	type User struct {
//		Name  string   `json:"name" jskema:"minLength=1,description=display name"`
//		Email string   `json:"email" jskema:"format=email"`
//		Role  string   `json:"role,omitempty" jskema:"enum=admin|member,default=member"`
//		Tags  []string `json:"tags" jskema:"maxItems=10"`
//		Boss  *User    `json:"boss"`
//	}
//
// A field is required unless its type is a pointer, its json tag has
// omitempty, its jskema tag has optional or default. The required
// annotation overrides all of these.
//
// Slice and map fields without omitempty are nullable, since their nil value
// encodes as null. Use Set for a set whose JSON form is an array with
// uniqueItems; a plain map[K]struct{} encodes as an object. Sized integer
// kinds carry their range as minimum and maximum.
//
// Results are cached per type; the returned nodes are immutable and may be
// shared.
package derive

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"reflect"
	"sync"
	"time"

	jskema "github.com/reoring/jskema"
	"github.com/reoring/jskema/dsl"
)

// Describer lets a type supply its own node instead of the derived one.
type Describer interface {
	JSONSchemaNode() jskema.Node
}

// ErrUnsupportedType is returned for kinds that have no JSON form
// (channels, functions, complex numbers, unsafe pointers).
var ErrUnsupportedType = errors.New("derive: unsupported type")

var cache sync.Map // reflect.Type -> jskema.Node

// arraySet is implemented by Set.
type arraySet interface{ jsonArraySet() }

var (
	describerType = reflect.TypeOf((*Describer)(nil)).Elem()
	arraySetType  = reflect.TypeOf((*arraySet)(nil)).Elem()
	timeType      = reflect.TypeOf(time.Time{})
	durationType  = reflect.TypeOf(time.Duration(0))
	numberType    = reflect.TypeOf(json.Number(""))
)

// Schema derives the node for T.
func Schema[T any]() (jskema.Node, error) {
	return SchemaFor(reflect.TypeOf((*T)(nil)).Elem())
}

// MustSchema is like Schema but panics on error.
func MustSchema[T any]() jskema.Node {
	n, err := Schema[T]()
	if err != nil {
		panic(err)
	}
	return n
}

// SchemaFor derives the node for t. Two goroutines deriving the same type
// concurrently may both do the work; one result wins the cache.
func SchemaFor(t reflect.Type) (jskema.Node, error) {
	if t == nil {
		return nil, errors.New("derive: nil type")
	}
	if n, ok := cache.Load(t); ok {
		return n.(jskema.Node), nil
	}
	d := &deriver{
		root:      t,
		visiting:  map[reflect.Type]bool{},
		recursive: map[reflect.Type]bool{},
		names:     map[reflect.Type]string{},
		taken:     map[string]reflect.Type{},
		defs:      map[string]jskema.Node{},
	}
	n, err := d.node(t)
	if err != nil {
		return nil, err
	}
	if len(d.defs) > 0 {
		n = dsl.WithDefs(n, d.defs)
	}
	actual, _ := cache.LoadOrStore(t, n)
	return actual.(jskema.Node), nil
}

// deriver holds the state of one derivation. Struct types currently on the
// stack are visiting; re-entering one marks it recursive and yields a
// reference to its definition.
type deriver struct {
	root      reflect.Type
	visiting  map[reflect.Type]bool
	recursive map[reflect.Type]bool
	names     map[reflect.Type]string
	taken     map[string]reflect.Type
	defs      map[string]jskema.Node
}

func (d *deriver) node(t reflect.Type) (jskema.Node, error) {
	if n, ok := describe(t); ok {
		return n, nil
	}
	switch t {
	case timeType:
		return dsl.String().Format(dsl.FormatDateTime), nil
	case durationType:
		return dsl.Integer(), nil
	case numberType:
		return dsl.Number(), nil
	}

	switch t.Kind() {
	case reflect.Bool:
		return dsl.Bool(), nil
	case reflect.String:
		return dsl.String(), nil
	case reflect.Int8:
		return dsl.Integer().Minimum(math.MinInt8).Maximum(math.MaxInt8), nil
	case reflect.Int16:
		return dsl.Integer().Minimum(math.MinInt16).Maximum(math.MaxInt16), nil
	case reflect.Int32:
		return dsl.Integer().Minimum(math.MinInt32).Maximum(math.MaxInt32), nil
	case reflect.Int, reflect.Int64:
		return dsl.Integer(), nil
	case reflect.Uint8:
		return dsl.Integer().Minimum(0).Maximum(math.MaxUint8), nil
	case reflect.Uint16:
		return dsl.Integer().Minimum(0).Maximum(math.MaxUint16), nil
	case reflect.Uint32:
		return dsl.Integer().Minimum(0).Maximum(math.MaxUint32), nil
	case reflect.Uint, reflect.Uint64, reflect.Uintptr:
		return dsl.Integer().Minimum(0), nil
	case reflect.Float32, reflect.Float64:
		return dsl.Number(), nil
	case reflect.Interface:
		return dsl.Any(), nil
	case reflect.Pointer:
		elem, err := d.node(t.Elem())
		if err != nil {
			return nil, err
		}
		return dsl.OptionalNullable(elem), nil
	case reflect.Slice:
		if t.Elem().Kind() == reflect.Uint8 {
			return dsl.String().ContentEncoding("base64"), nil
		}
		elem, err := d.node(t.Elem())
		if err != nil {
			return nil, err
		}
		return dsl.Array(elem), nil
	case reflect.Array:
		elem, err := d.node(t.Elem())
		if err != nil {
			return nil, err
		}
		return dsl.Array(elem).MinItems(t.Len()).MaxItems(t.Len()), nil
	case reflect.Map:
		return d.mapNode(t)
	case reflect.Struct:
		return d.structRef(t)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, t)
	}
}

// describe calls JSONSchemaNode on a zero value of t, or on a new *t when
// only the pointer implements Describer.
func describe(t reflect.Type) (jskema.Node, bool) {
	if t.Kind() != reflect.Pointer && t.Kind() != reflect.Interface && t.Implements(describerType) {
		return reflect.Zero(t).Interface().(Describer).JSONSchemaNode(), true
	}
	if t.Kind() != reflect.Pointer && reflect.PointerTo(t).Implements(describerType) {
		return reflect.New(t).Interface().(Describer).JSONSchemaNode(), true
	}
	return nil, false
}

func (d *deriver) mapNode(t reflect.Type) (jskema.Node, error) {
	key, elem := t.Key(), t.Elem()
	if t.Implements(arraySetType) {
		kn, err := d.node(key)
		if err != nil {
			return nil, err
		}
		return dsl.Array(kn).UniqueItems(), nil
	}
	en, err := d.node(elem)
	if err != nil {
		return nil, err
	}
	if key.Kind() == reflect.String {
		return dsl.Object().AdditionalPropertiesSchema(en), nil
	}
	return dsl.Description(dsl.Object().PatternProperty(".*", en), fmt.Sprintf("Map with %s keys", key)), nil
}

// structRef derives a struct, or returns a reference to it when the struct
// is already being derived further up the stack.
func (d *deriver) structRef(t reflect.Type) (jskema.Node, error) {
	if d.visiting[t] {
		d.recursive[t] = true
		return dsl.DefRef(d.defName(t)), nil
	}
	d.visiting[t] = true
	n, err := d.structNode(t)
	delete(d.visiting, t)
	if err != nil {
		return nil, err
	}
	if !d.recursive[t] {
		return n, nil
	}
	name := d.defName(t)
	d.defs[name] = n
	if t == d.root {
		return n, nil
	}
	return dsl.DefRef(name), nil
}

// defName returns the $defs key of t: its Go name, suffixed with a counter
// when another type of the same name is already registered.
func (d *deriver) defName(t reflect.Type) string {
	if name, ok := d.names[t]; ok {
		return name
	}
	base := t.Name()
	if base == "" {
		base = "Anonymous"
	}
	name := base
	for i := 2; ; i++ {
		if _, clash := d.taken[name]; !clash {
			break
		}
		name = fmt.Sprintf("%s%d", base, i)
	}
	d.names[t] = name
	d.taken[name] = t
	return name
}

func (d *deriver) structNode(t reflect.Type) (jskema.Node, error) {
	obj := dsl.Object()
	depth := map[string]int{}
	if err := d.addFields(&obj, t, 0, depth); err != nil {
		return nil, err
	}
	return obj, nil
}

// addFields declares the fields of t on obj. Fields promoted from embedded
// structs lose to fields declared at a shallower level.
func (d *deriver) addFields(obj *dsl.ObjectNode, t reflect.Type, level int, depth map[string]int) error {
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if flatten(sf) {
			et := sf.Type
			if et.Kind() == reflect.Pointer {
				et = et.Elem()
			}
			if err := d.addFields(obj, et, level+1, depth); err != nil {
				return err
			}
			continue
		}
		if !sf.IsExported() {
			continue
		}
		name := jskema.ResolveStructKey(sf)
		if name == "-" {
			continue
		}
		if prev, ok := depth[name]; ok && prev <= level {
			continue
		}
		depth[name] = level

		n, required, err := d.field(sf)
		if err != nil {
			return fmt.Errorf("derive: %s.%s: %w", t, sf.Name, err)
		}
		*obj = obj.Property(name, n).NotRequired(name)
		if required {
			*obj = obj.Required(name)
		}
	}
	return nil
}

// flatten reports whether sf is an embedded struct whose fields are
// promoted into the parent object.
func flatten(sf reflect.StructField) bool {
	if !sf.Anonymous {
		return false
	}
	if jt := sf.Tag.Get("json"); jt != "" && jt[0] != ',' {
		return false
	}
	et := sf.Type
	if et.Kind() == reflect.Pointer {
		et = et.Elem()
	}
	return et.Kind() == reflect.Struct && et != timeType
}

// nilEncodesNull reports whether the zero value of t marshals as null.
// Pointers are handled by the type mapping itself.
func nilEncodesNull(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Slice:
		return true
	case reflect.Map:
		return !t.Implements(arraySetType)
	}
	return false
}

// field derives the node of a struct field with its tag folded in and
// decides whether the field is required.
func (d *deriver) field(sf reflect.StructField) (jskema.Node, bool, error) {
	n, err := d.node(sf.Type)
	if err != nil {
		return nil, false, err
	}
	anns, err := parseTag(sf.Tag.Get("jskema"))
	if err != nil {
		return nil, false, err
	}
	omitEmpty := jskema.HasOmitEmpty(sf)
	if nilEncodesNull(sf.Type) && !omitEmpty {
		n = dsl.Nullable(n)
	}
	required := sf.Type.Kind() != reflect.Pointer && !omitEmpty
	forced := false
	for _, a := range anns {
		switch a.key {
		case "optional", "default":
			required = false
		case "required":
			forced = true
		}
	}
	required = required || forced
	if n, err = fold(n, anns); err != nil {
		return nil, false, err
	}
	return n, required, nil
}
