// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwsim

import (
	"reflect"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Updater is the interface that custom components built using reflection must implement.
// See MakePart.
//
type Updater interface {
	Update(c *Circuit)
}

// MakePart wraps an Updater into a custom component.
// Input/output pins are identified by field tags.
//
// The field tag must be `hw:"in"` or `hw:"out"` to identify input and output
// pins. By default, the pin name is the field name in lowercase. A specific
// pin name can be forced by adding it in the tag: `hw:"in,pin_name"`.
//
// Pins must be of type int and buses arrays of int.
//
// t is used as a prototype: every mounted instance starts as a copy of *t
// (with pin fields filled in), so untagged fields can carry configuration.
// A nil pointer is a valid prototype.
//
func MakePart(t Updater) *PartSpec {
	typ := reflect.TypeOf(t)
	if typ.Kind() == reflect.Ptr {
		typ = typ.Elem()
	}
	if k := typ.Kind(); k != reflect.Struct {
		panic(errors.Errorf("unsupported type %q for %q", k, typ.Name()))
	}

	sp := &PartSpec{
		Name: typ.Name(),
	}

	fields := pinFields(typ)
	for _, f := range fields {
		pins := []string{f.pin}
		if f.bus > 0 {
			pins = make([]string, f.bus)
			for i := range pins {
				pins[i] = BusPinName(f.pin, i)
			}
		}
		if f.input {
			sp.Inputs = append(sp.Inputs, pins...)
		} else {
			sp.Outputs = append(sp.Outputs, pins...)
		}
	}

	var proto reflect.Value
	if v := reflect.ValueOf(t); v.Kind() == reflect.Ptr && !v.IsNil() {
		proto = v.Elem()
	}
	sp.Mount = mountUpdater(typ, proto, fields)
	return sp
}

type pinField struct {
	index int
	pin   string
	input bool
	bus   int // bus size, 0 for single pins
}

func pinFields(typ reflect.Type) []pinField {
	var fields []pinField
	n := typ.NumField()
	for i := 0; i < n; i++ {
		f := typ.Field(i)
		tag, ok := f.Tag.Lookup("hw")
		if !ok {
			continue
		}
		pf := pinField{index: i, pin: strings.ToLower(f.Name)}
		tv := strings.Split(tag, ",")
		if len(tv) == 2 && tv[1] != "" {
			pf.pin = tv[1]
		}
		switch tv[0] {
		case "in":
			pf.input = true
		case "out":
		default:
			panic(errors.Errorf("unsupported tag %q for field %q in %q", tag, f.Name, typ.Name()))
		}

		ft := f.Type
		switch k := ft.Kind(); {
		case k == reflect.Array && ft.Elem().Kind() == reflect.Int:
			pf.bus = ft.Len()
		case k == reflect.Int:
		default:
			panic(errors.Errorf("unsupported type %q for field %q in %q", k, f.Name, typ.Name()))
		}
		fields = append(fields, pf)
	}
	return fields
}

func mountUpdater(typ reflect.Type, proto reflect.Value, fields []pinField) MountFn {
	return func(s *Socket) []Component {
		v := reflect.New(typ)
		e := v.Elem()
		if proto.IsValid() {
			e.Set(proto)
		}
		for _, f := range fields {
			fv := e.Field(f.index)
			if f.bus == 0 {
				fv.SetInt(int64(s.Pin(f.pin)))
				continue
			}
			for i := 0; i < f.bus; i++ {
				fv.Index(i).SetInt(int64(s.Pin(f.pin + "[" + strconv.Itoa(i) + "]")))
			}
		}

		u := v.Interface().(Updater)
		return []Component{u.Update}
	}
}
