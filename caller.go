package gokuma

import (
	"encoding/json"
	"errors"
	"reflect"

	"github.com/uptimekit/gokuma/utils"
)

type caller struct {
	Func   reflect.Value
	Ptr    uintptr
	NumIn  int
	NumOut int
}

var (
	ErrorCallerNotFunc     = errors.New("f is not function")
	ErrorCallerMaxFiveArgs = errors.New("f maximum number of args is 5")
	ErrorCallerMaxOneValue = errors.New("f number of values returned should be at most 1")
)

/*
*
Parses a handler passed by using reflection, and stores its representation
for further call on event or ack
*/
func newCaller(f interface{}) (*caller, error) {
	fVal := reflect.ValueOf(f)
	if fVal.Kind() != reflect.Func {
		return nil, ErrorCallerNotFunc
	}

	fType := fVal.Type()
	if fType.NumOut() > 1 {
		return nil, ErrorCallerMaxOneValue
	}
	if fType.NumIn() > 5 {
		return nil, ErrorCallerMaxFiveArgs
	}

	return &caller{
		Func:   fVal,
		Ptr:    fVal.Pointer(),
		NumIn:  fType.NumIn(),
		NumOut: fType.NumOut(),
	}, nil
}

func (c *caller) getArgType(index int) interface{} {
	return reflect.New(c.Func.Type().In(index)).Interface()
}

/*
*
callFunc unmarshals each raw argument into the handler's parameter type and
invokes it. Missing arguments become zero values; a malformed argument drops
the dispatch instead of panicking.
*/
func (c *caller) callFunc(args ...json.RawMessage) []reflect.Value {
	arr := make([]reflect.Value, 0, c.NumIn)

	for i := 0; i < c.NumIn; i++ {
		if i > len(args)-1 || len(args[i]) == 0 {
			arr = append(arr, reflect.New(c.Func.Type().In(i)).Elem())
			continue
		}

		data := c.getArgType(i)
		if err := utils.Json.Unmarshal(args[i], data); err != nil {
			utils.Debug("[callFunc] drop dispatch:", err)
			return nil
		}

		arr = append(arr, reflect.ValueOf(data).Elem())
	}

	return c.Func.Call(arr)
}
