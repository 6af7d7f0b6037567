package builtins

import (
	"jscore/pkg/jsonbridge"
	"jscore/pkg/values"
)

type JSONInitializer struct{}

func (j *JSONInitializer) Name() string {
	return "JSON"
}

func (j *JSONInitializer) Priority() int {
	return PriorityJSON // 101 - After the constructors
}

func (j *JSONInitializer) Init(ctx *Context) error {
	jsonObj := values.NewObject(values.ObjectPrototype)

	values.DefineMethod(jsonObj, "parse", 2, func(this values.Value, args []values.Value) (values.Value, error) {
		text, err := values.Arg(args, 0).ToString()
		if err != nil {
			return values.Undefined, err
		}
		return jsonbridge.Parse(text)
	})

	values.DefineMethod(jsonObj, "stringify", 3, func(this values.Value, args []values.Value) (values.Value, error) {
		return jsonbridge.Stringify(values.Arg(args, 0), values.Arg(args, 1), values.Arg(args, 2))
	})

	return ctx.DefineGlobal("JSON", values.ObjectValue(jsonObj))
}
