package types

// builtinMethod looks up the signature of a builtin method on a receiver
// type, per spec section 6.3's builtin method surface. recvT's element/key
// type parameters (where present) flow into the signature so e.g.
// List<Int>.head() types as Int, not a fresh unconstrained variable.
func builtinMethod(ctx *Context, recvT Type, name string) (*Fun, bool) {
	r := ctx.Resolve(recvT)
	switch c := r.(type) {
	case *Con:
		switch c.Name {
		case "String":
			return stringMethod(name)
		case "List":
			elem := Type(ctx.Fresh())
			if len(c.Args) == 1 {
				elem = c.Args[0]
			}
			return listMethod(name, elem)
		case "Map":
			key, val := Type(ctx.Fresh()), Type(ctx.Fresh())
			if len(c.Args) == 2 {
				key, val = c.Args[0], c.Args[1]
			}
			return mapMethod(name, key, val)
		case "Range":
			return rangeMethod(name)
		}
	}
	return nil, false
}

func stringMethod(name string) (*Fun, bool) {
	switch name {
	case "len":
		return &Fun{Result: Int}, true
	case "to_upper", "to_lower", "trim":
		return &Fun{Result: String}, true
	case "split":
		return &Fun{Params: []Type{String}, Result: List(String)}, true
	case "replace":
		return &Fun{Params: []Type{String, String}, Result: String}, true
	case "contains", "starts_with", "ends_with":
		return &Fun{Params: []Type{String}, Result: Bool}, true
	case "chars":
		return &Fun{Result: List(Char)}, true
	}
	return nil, false
}

func listMethod(name string, elem Type) (*Fun, bool) {
	switch name {
	case "len":
		return &Fun{Result: Int}, true
	case "push":
		return &Fun{Params: []Type{elem}, Result: Unit}, true
	case "pop":
		return &Fun{Result: elem}, true
	case "map":
		result := elem // unknown without higher-rank application; left as elem
		return &Fun{Params: []Type{&Fun{Params: []Type{elem}, Result: result}}, Result: List(result)}, true
	case "filter":
		return &Fun{Params: []Type{&Fun{Params: []Type{elem}, Result: Bool}}, Result: List(elem)}, true
	case "reduce":
		return &Fun{Params: []Type{elem, &Fun{Params: []Type{elem, elem}, Result: elem}}, Result: elem}, true
	case "head", "tail":
		if name == "head" {
			return &Fun{Result: elem}, true
		}
		return &Fun{Result: List(elem)}, true
	case "sum":
		return &Fun{Result: elem}, true
	case "sort", "reverse":
		return &Fun{Result: List(elem)}, true
	case "contains":
		return &Fun{Params: []Type{elem}, Result: Bool}, true
	}
	return nil, false
}

func mapMethod(name string, key, val Type) (*Fun, bool) {
	switch name {
	case "len":
		return &Fun{Result: Int}, true
	case "keys":
		return &Fun{Result: List(key)}, true
	case "values":
		return &Fun{Result: List(val)}, true
	case "entries":
		return &Fun{Result: List(&Tuple{Elems: []Type{key, val}})}, true
	case "get":
		return &Fun{Params: []Type{key}, Result: val}, true
	case "insert":
		return &Fun{Params: []Type{key, val}, Result: Unit}, true
	case "remove":
		return &Fun{Params: []Type{key}, Result: Unit}, true
	case "contains_key":
		return &Fun{Params: []Type{key}, Result: Bool}, true
	}
	return nil, false
}

func rangeMethod(name string) (*Fun, bool) {
	switch name {
	case "len":
		return &Fun{Result: Int}, true
	}
	return nil, false
}
