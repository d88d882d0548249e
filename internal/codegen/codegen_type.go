package codegen

import "github.com/arenalang/snc/internal/ast"

// cType renders t as the C type used for a scalar variable or field,
// per spec.md section 4.6 ("Runtime types selected by element type").
func cType(t ast.Type) string {
	switch v := t.(type) {
	case *ast.PrimitiveType:
		switch v.Kind {
		case ast.PInt, ast.PInt32, ast.PUint, ast.PUint32:
			return "long"
		case ast.PLong:
			return "long"
		case ast.PDouble, ast.PFloat:
			return "double"
		case ast.PChar:
			return "char"
		case ast.PString:
			return "char *"
		case ast.PBool:
			return "int"
		case ast.PByte:
			return "unsigned char"
		case ast.PVoid:
			return "void"
		default:
			return "void *"
		}
	case *ast.ArrayType:
		return cArrayElemType(v.Elem) + " *"
	case *ast.FunctionType:
		return "__Closure__"
	case *ast.PointerType:
		return cType(v.Base) + " *"
	case *ast.OpaqueType:
		return v.Name
	default:
		return "void *"
	}
}

// cArrayElemType is the element C type used inside an array's backing
// pointer (spec.md section 4.6: string arrays are `char **`, bool arrays
// `int *`, byte arrays `unsigned char *`, otherwise `<c-elem> *`).
func cArrayElemType(elem ast.Type) string {
	if p, ok := elem.(*ast.PrimitiveType); ok {
		switch p.Kind {
		case ast.PString:
			return "char *"
		case ast.PBool:
			return "int"
		case ast.PByte:
			return "unsigned char"
		}
	}
	return cType(elem)
}

// suffix is the runtime helper function suffix selected by element/value
// kind (spec.md section 4.6: "long, double, char, bool, byte, string,
// ptr").
func suffix(t ast.Type) string {
	p, ok := t.(*ast.PrimitiveType)
	if !ok {
		return "ptr"
	}
	switch p.Kind {
	case ast.PInt, ast.PInt32, ast.PUint, ast.PUint32, ast.PLong:
		return "long"
	case ast.PDouble, ast.PFloat:
		return "double"
	case ast.PChar:
		return "char"
	case ast.PBool:
		return "bool"
	case ast.PByte:
		return "byte"
	case ast.PString:
		return "string"
	default:
		return "ptr"
	}
}

func arraySuffix(t ast.Type) string {
	arr, ok := t.(*ast.ArrayType)
	if !ok {
		return "ptr"
	}
	return suffix(arr.Elem)
}
