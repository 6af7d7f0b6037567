package values

import (
	"fmt"
	"reflect"

	"github.com/go-viper/mapstructure/v2"

	"jscore/pkg/errors"
)

// Decode fills the struct (or map, slice) pointed to by out from v. The value
// is exported first and then decoded with mapstructure, matching fields by
// their `js` tag and accepting weakly typed input ("1" for an int field).
// Fields of type Value receive the converted value back.
func Decode(v Value, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		TagName:          "js",
		WeaklyTypedInput: true,
		DecodeHook:       valueHook,
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(Export(v)); err != nil {
		return (&errors.ConversionError{
			Target: fmt.Sprintf("%T", out),
			From:   v.TypeOf(),
			Msg:    err.Error(),
		}).CausedBy(err)
	}
	return nil
}

// valueHook lets struct fields typed Value receive script values.
func valueHook(from reflect.Type, to reflect.Type, data any) (any, error) {
	if to == valueType {
		return ToValue(data), nil
	}
	return data, nil
}
